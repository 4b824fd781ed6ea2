package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/store"
)

func newDirectoryFixture(t *testing.T) (*store.MemoryStore, *CustomerDirectory) {
	t.Helper()
	st := store.NewMemoryStore()
	dir := NewCustomerDirectory(st, st)
	dir.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }
	return st, dir
}

func TestRegisterIsIdempotent(t *testing.T) {
	_, dir := newDirectoryFixture(t)

	first, created, err := dir.Register("Dana", "050-111-2222", "d@x.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "+972501112222", first.Phone)

	second, created, err := dir.Register("Dana", "0501112222", "d@x.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestRegisterValidation(t *testing.T) {
	_, dir := newDirectoryFixture(t)

	// Off-series numbers normalize but are not bookable mobiles.
	_, _, err := dir.Register("Dana", "0771234567", "")
	assert.Equal(t, CodeInvalidPhone, ErrCode(err))

	_, _, err = dir.Register("Dana", "garbage", "")
	assert.Equal(t, CodeInvalidPhone, ErrCode(err))

	_, _, err = dir.Register("", "0501112222", "")
	assert.Error(t, err)
}

func TestUpdateKeepsPhone(t *testing.T) {
	_, dir := newDirectoryFixture(t)

	customer, _, err := dir.Register("Dana", "0501112222", "d@x.com")
	require.NoError(t, err)

	updated, err := dir.Update(customer.ID, "Dana Levi", "dana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Dana Levi", updated.Name)
	assert.Equal(t, "dana@x.com", updated.Email)
	assert.Equal(t, "+972501112222", updated.Phone)

	// Junk fields are ignored rather than rejected.
	updated, err = dir.Update(customer.ID, "", "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, "Dana Levi", updated.Name)
	assert.Equal(t, "dana@x.com", updated.Email)

	_, err = dir.Update(uuid.New(), "X", "")
	assert.Equal(t, CodeCustomerNotFound, ErrCode(err))
}

func TestDeleteGuardsFutureAppointments(t *testing.T) {
	st, dir := newDirectoryFixture(t)

	customer, _, err := dir.Register("Dana", "0501112222", "")
	require.NoError(t, err)

	appt := &models.Appointment{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		ServiceName: "Gel Polish",
		StartTime:   time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
		DurationMin: 60,
		Status:      models.StatusActive,
	}
	require.NoError(t, st.CreateBooked(appt))

	future, err := dir.Delete(customer.ID, false)
	require.Error(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, appt.ID, future[0].ID)

	// Force wins.
	_, err = dir.Delete(customer.ID, true)
	require.NoError(t, err)
	_, err = dir.FindByID(customer.ID)
	assert.Error(t, err)
}

func TestSearchCustomers(t *testing.T) {
	_, dir := newDirectoryFixture(t)

	_, _, err := dir.Register("Dana Levi", "0501112222", "")
	require.NoError(t, err)
	_, _, err = dir.Register("Noa Cohen", "0523334444", "")
	require.NoError(t, err)

	page, err := dir.Search("dana", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Dana Levi", page.Items[0].Name)

	page, err = dir.Search("", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}
