package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0501234567", "+972501234567"},
		{"050-123-4567", "+972501234567"},
		{"050 123 4567", "+972501234567"},
		{"972501234567", "+972501234567"},
		{"+972501234567", "+972501234567"},
		{"+972-50-123-4567", "+972501234567"},
		{"501234567", "+972501234567"},
		{"0587654321", "+972587654321"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once, err := NormalizePhone("050-123-4567")
	require.NoError(t, err)
	twice, err := NormalizePhone(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizePhoneRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"12345",
		"05012345",      // too short
		"05012345678",   // too long
		"97250123456",   // 972 prefix, wrong length
		"+1-202-555-0123",
	} {
		_, err := NormalizePhone(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestIsValidMobile(t *testing.T) {
	assert.True(t, IsValidMobile("0501234567"))
	assert.True(t, IsValidMobile("+972521234567"))
	assert.True(t, IsValidMobile("0581234567"))

	// Valid-length numbers off the carrier series normalize but are
	// not mobiles.
	assert.False(t, IsValidMobile("0771234567"))
	assert.False(t, IsValidMobile("0591234567"))
	assert.False(t, IsValidMobile("garbage"))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+972-50-123-4567", FormatPhoneDisplay("0501234567"))
	assert.Equal(t, "050-123-4567", FormatPhoneLocal("+972501234567"))

	// Unnormalizable input falls through unchanged.
	assert.Equal(t, "not-a-phone", FormatPhoneDisplay("not-a-phone"))
}
