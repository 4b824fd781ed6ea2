package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/store"
)

type reminderFixture struct {
	store  *store.MemoryStore
	sender *fakeSender
	svc    *ReminderService
	now    time.Time
}

// newReminderFixture pins "now" to Tuesday 2026-09-01 08:00 UTC.
func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()
	f := &reminderFixture{
		store:  store.NewMemoryStore(),
		sender: &fakeSender{},
		now:    time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewReminderService(f.store, f.store, f.store, f.sender, testConfig())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *reminderFixture) bookActive(t *testing.T, phone string, start time.Time) *models.Appointment {
	t.Helper()
	customer := &models.Customer{ID: uuid.New(), Name: "Dana", Phone: phone}
	require.NoError(t, f.store.CreateCustomer(customer))

	appt := &models.Appointment{
		ID:            uuid.New(),
		CustomerID:    customer.ID,
		ServiceName:   "Gel Polish",
		ServiceNameHe: "לק ג'ל",
		StartTime:     start,
		DurationMin:   60,
		Status:        models.StatusActive,
	}
	require.NoError(t, f.store.CreateBooked(appt))
	return appt
}

func (f *reminderFixture) sentCount() int {
	f.sender.mu.Lock()
	defer f.sender.mu.Unlock()
	return len(f.sender.sent)
}

func TestPendingKinds(t *testing.T) {
	f := newReminderFixture(t)

	tomorrow := f.bookActive(t, "+972501111111", time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC))
	today := f.bookActive(t, "+972502222222", time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC))
	// Already started today: no reminder.
	f.bookActive(t, "+972503333333", time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC))

	due, err := f.svc.Pending(f.now)
	require.NoError(t, err)
	require.Len(t, due, 2)

	kinds := map[uuid.UUID]models.ReminderKind{}
	for _, item := range due {
		kinds[item.Appointment.ID] = item.Kind
	}
	assert.Equal(t, models.ReminderDayBefore, kinds[tomorrow.ID])
	assert.Equal(t, models.ReminderMorningOf, kinds[today.ID])
}

func TestRunSendsOnce(t *testing.T) {
	f := newReminderFixture(t)
	f.bookActive(t, "+972501111111", time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC))

	f.svc.Run(context.Background())
	assert.Equal(t, 1, f.sentCount())

	// A second pass finds the ledger entry and stays quiet.
	f.svc.Run(context.Background())
	assert.Equal(t, 1, f.sentCount())
}

func TestDayBeforeThenMorningOf(t *testing.T) {
	f := newReminderFixture(t)
	appt := f.bookActive(t, "+972501111111", time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC))

	f.svc.Run(context.Background())
	assert.Equal(t, 1, f.sentCount())

	// Next morning the same appointment earns its second, distinct
	// reminder kind.
	f.now = time.Date(2026, 9, 2, 7, 0, 0, 0, time.UTC)
	f.svc.Run(context.Background())
	assert.Equal(t, 2, f.sentCount())

	sent, err := f.store.ReminderSent(appt.ID, models.ReminderMorningOf)
	require.NoError(t, err)
	assert.True(t, sent)

	// And nothing more after that.
	f.svc.Run(context.Background())
	assert.Equal(t, 2, f.sentCount())
}

func TestCancelledAppointmentsAreSkipped(t *testing.T) {
	f := newReminderFixture(t)
	appt := f.bookActive(t, "+972501111111", time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC))

	require.NoError(t, appt.Transition(models.StatusCancelled))
	require.NoError(t, f.store.UpdateAppointment(appt))

	f.svc.Run(context.Background())
	assert.Equal(t, 0, f.sentCount())
}

func TestRunSweepsElapsed(t *testing.T) {
	f := newReminderFixture(t)
	appt := f.bookActive(t, "+972501111111", time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC))

	// Well past the appointment's end.
	f.now = time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)
	f.svc.Run(context.Background())

	stored, err := f.store.AppointmentByID(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, 0, f.sentCount())
}
