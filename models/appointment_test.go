package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentOverlaps(t *testing.T) {
	start := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	appt := &Appointment{StartTime: start, DurationMin: 60}

	// Exactly adjacent intervals do not overlap.
	assert.False(t, appt.Overlaps(start.Add(-30*time.Minute), 30*time.Minute))
	assert.False(t, appt.Overlaps(start.Add(60*time.Minute), 30*time.Minute))

	assert.True(t, appt.Overlaps(start, 30*time.Minute))
	assert.True(t, appt.Overlaps(start.Add(-15*time.Minute), 30*time.Minute))
	assert.True(t, appt.Overlaps(start.Add(30*time.Minute), 60*time.Minute))
	assert.True(t, appt.Overlaps(start.Add(-30*time.Minute), 3*time.Hour))
}

func TestAppointmentTransitions(t *testing.T) {
	appt := &Appointment{Status: StatusActive}
	require.NoError(t, appt.Transition(StatusCancelled))
	assert.Equal(t, StatusCancelled, appt.Status)

	// Terminal states have no outgoing edges.
	assert.Error(t, appt.Transition(StatusActive))
	assert.Error(t, appt.Transition(StatusCompleted))

	appt = &Appointment{Status: StatusActive}
	require.NoError(t, appt.Transition(StatusCompleted))
	assert.Error(t, appt.Transition(StatusCancelled))

	appt = &Appointment{Status: StatusActive}
	assert.Error(t, appt.Transition(StatusActive))
}

func TestAppointmentEndTime(t *testing.T) {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	appt := &Appointment{StartTime: start, DurationMin: 75}
	assert.Equal(t, start.Add(75*time.Minute), appt.EndTime())
}

func TestFindService(t *testing.T) {
	svc := FindService("Gel Polish")
	require.NotNil(t, svc)
	assert.Equal(t, 60, svc.DurationMin)

	// Hebrew name resolves to the same entry.
	assert.Equal(t, svc, FindService("לק ג'ל"))

	assert.Nil(t, FindService("Haircut"))
}
