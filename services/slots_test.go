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

type slotFixture struct {
	store  *store.MemoryStore
	engine *SlotEngine
	now    time.Time
}

// newSlotFixture pins "now" to Tuesday 2026-09-01 10:00 UTC.
func newSlotFixture(t *testing.T) *slotFixture {
	t.Helper()
	f := &slotFixture{
		store: store.NewMemoryStore(),
		now:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	f.engine = NewSlotEngine(f.store, f.store, testConfig())
	f.engine.now = func() time.Time { return f.now }
	return f
}

func (f *slotFixture) bookActive(t *testing.T, start time.Time, durationMin int) *models.Appointment {
	t.Helper()
	customer := &models.Customer{ID: uuid.New(), Name: "Test", Phone: "+97250" + uuid.NewString()[:7]}
	require.NoError(t, f.store.CreateCustomer(customer))

	appt := &models.Appointment{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		ServiceName: "Gel Polish",
		StartTime:   start,
		DurationMin: durationMin,
		Status:      models.StatusActive,
	}
	require.NoError(t, f.store.CreateBooked(appt))
	return appt
}

func TestAvailableSlotsClosedDay(t *testing.T) {
	f := newSlotFixture(t)

	// 2026-09-04 is a Friday.
	res, err := f.engine.AvailableSlots("2026-09-04", 60)
	require.NoError(t, err)
	assert.Empty(t, res.Slots)
	assert.NotEmpty(t, res.Message)
}

func TestAvailableSlotsHorizon(t *testing.T) {
	f := newSlotFixture(t)

	// Today is below the one-day lead.
	res, err := f.engine.AvailableSlots("2026-09-01", 60)
	require.NoError(t, err)
	assert.Empty(t, res.Slots)
	assert.NotEmpty(t, res.Message)

	// Thirty days out is the last bookable date.
	res, err = f.engine.AvailableSlots("2026-10-01", 60)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Slots)

	res, err = f.engine.AvailableSlots("2026-10-02", 60)
	require.NoError(t, err)
	assert.Empty(t, res.Slots)
	assert.NotEmpty(t, res.Message)
}

func TestAvailableSlotsGrid(t *testing.T) {
	f := newSlotFixture(t)

	// A 60-minute service must end by 20:00, so the last start is 19:00.
	res, err := f.engine.AvailableSlots("2026-09-02", 60)
	require.NoError(t, err)
	require.Len(t, res.Slots, 21)
	assert.Equal(t, "09:00", res.Slots[0])
	assert.Equal(t, "19:00", res.Slots[len(res.Slots)-1])

	// A 30-minute service squeezes in one more.
	res, err = f.engine.AvailableSlots("2026-09-02", 30)
	require.NoError(t, err)
	require.Len(t, res.Slots, 22)
	assert.Equal(t, "19:30", res.Slots[len(res.Slots)-1])

	// A two-hour service must start by 18:00.
	res, err = f.engine.AvailableSlots("2026-09-02", 120)
	require.NoError(t, err)
	assert.Equal(t, "18:00", res.Slots[len(res.Slots)-1])
}

func TestAvailableSlotsInvalidDate(t *testing.T) {
	f := newSlotFixture(t)
	_, err := f.engine.AvailableSlots("02/09/2026", 60)
	assert.Equal(t, CodeInvalidDateTime, ErrCode(err))
}

func TestAvailableSlotsSkipBlocked(t *testing.T) {
	f := newSlotFixture(t)
	require.NoError(t, f.store.BlockSlot("2026-09-02", "11:00"))

	res, err := f.engine.AvailableSlots("2026-09-02", 30)
	require.NoError(t, err)
	assert.NotContains(t, res.Slots, "11:00")
	assert.Contains(t, res.Slots, "10:30")
	assert.Contains(t, res.Slots, "11:30")
}

func TestAvailableSlotsSkipOverlapping(t *testing.T) {
	f := newSlotFixture(t)
	f.bookActive(t, time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC), 60)

	res, err := f.engine.AvailableSlots("2026-09-02", 60)
	require.NoError(t, err)

	// Starts whose hour would cross 14:00-15:00 are all gone.
	for _, gone := range []string{"13:30", "14:00", "14:30"} {
		assert.NotContains(t, res.Slots, gone)
	}
	assert.Contains(t, res.Slots, "13:00")
	assert.Contains(t, res.Slots, "15:00")

	// A 30-minute service ending exactly at 14:00 still fits; only the
	// busy hour itself is gone.
	res, err = f.engine.AvailableSlots("2026-09-02", 30)
	require.NoError(t, err)
	assert.Contains(t, res.Slots, "13:30")
	assert.NotContains(t, res.Slots, "14:00")
	assert.NotContains(t, res.Slots, "14:30")
	assert.Contains(t, res.Slots, "15:00")
}

func TestIsSlotFree(t *testing.T) {
	f := newSlotFixture(t)
	f.bookActive(t, time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC), 60)
	require.NoError(t, f.store.BlockSlot("2026-09-02", "10:00"))

	free, err := f.engine.IsSlotFree(time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), 60)
	require.NoError(t, err)
	assert.True(t, free)

	// Overlapping an active appointment.
	free, err = f.engine.IsSlotFree(time.Date(2026, 9, 2, 14, 30, 0, 0, time.UTC), 60)
	require.NoError(t, err)
	assert.False(t, free)

	// Admin block.
	free, err = f.engine.IsSlotFree(time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC), 30)
	require.NoError(t, err)
	assert.False(t, free)

	// Would run past closing.
	free, err = f.engine.IsSlotFree(time.Date(2026, 9, 2, 19, 30, 0, 0, time.UTC), 60)
	require.NoError(t, err)
	assert.False(t, free)

	// Closed day.
	free, err = f.engine.IsSlotFree(time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC), 30)
	require.NoError(t, err)
	assert.False(t, free)
}
