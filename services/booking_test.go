package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adirsaban8-oss/ADIRS/calendar"
	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/store"
)

type bookingFixture struct {
	store   *store.MemoryStore
	booking *BookingService
	now     time.Time
}

// newBookingFixture pins "now" to Tuesday 2026-09-01 10:00 UTC.
func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	cfg := testConfig()
	f := &bookingFixture{
		store: store.NewMemoryStore(),
		now:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	engine := NewSlotEngine(f.store, f.store, cfg)
	engine.now = clock
	f.booking = NewBookingService(f.store, f.store, engine, calendar.NoopMirror{}, &fakeSender{}, cfg)
	f.booking.now = clock
	return f
}

func (f *bookingFixture) addCustomer(t *testing.T, phone string) *models.Customer {
	t.Helper()
	c := &models.Customer{ID: uuid.New(), Name: "Dana", Phone: phone}
	require.NoError(t, f.store.CreateCustomer(c))
	return c
}

func TestCreateAppointment(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	appt, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID:  customer.ID,
		ServiceName: "Gel Polish",
		Date:        "2026-09-02",
		Time:        "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, appt.Status)
	assert.Equal(t, 60, appt.DurationMin)
	assert.Equal(t, "לק ג'ל", appt.ServiceNameHe)
	assert.Equal(t, time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC), appt.StartTime.UTC())
}

func TestCreateValidation(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	cases := []struct {
		name string
		req  BookingRequest
		want Code
	}{
		{"unknown customer", BookingRequest{CustomerID: uuid.New(), ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00"}, CodeCustomerNotFound},
		{"unknown service", BookingRequest{CustomerID: customer.ID, ServiceName: "Haircut", Date: "2026-09-02", Time: "14:00"}, CodeInvalidService},
		{"bad date", BookingRequest{CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "02/09/2026", Time: "14:00"}, CodeInvalidDateTime},
		{"bad time", BookingRequest{CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "2pm"}, CodeInvalidDateTime},
		{"same day", BookingRequest{CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-01", Time: "14:00"}, CodeOutOfHorizon},
		{"too far out", BookingRequest{CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-10-02", Time: "14:00"}, CodeOutOfHorizon},
		{"closed day", BookingRequest{CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-04", Time: "14:00"}, CodeSlotUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.booking.Create(context.Background(), tc.req)
			assert.Equal(t, tc.want, ErrCode(err))
		})
	}
}

func TestCreateHorizonBounds(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	// Tomorrow and day 30 are both inside the window.
	appt, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
	})
	require.NoError(t, err)
	_, err = f.booking.Cancel(context.Background(), appt.ID, false)
	require.NoError(t, err)

	_, err = f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-10-01", Time: "14:00",
	})
	require.NoError(t, err)
}

func TestOneActiveAppointmentPerCustomer(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	first, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
	})
	require.NoError(t, err)

	_, err = f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Eyebrows", Date: "2026-09-03", Time: "11:00",
	})
	require.Equal(t, CodeActiveAppointmentExists, ErrCode(err))

	// The rejection carries the blocking appointment.
	de := err.(*DomainError)
	require.NotNil(t, de.Conflict)
	assert.Equal(t, first.ID, de.Conflict.ID)
}

func TestSlotConflictBetweenCustomers(t *testing.T) {
	f := newBookingFixture(t)
	a := f.addCustomer(t, "+972501111111")
	b := f.addCustomer(t, "+972502222222")

	_, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID: a.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
	})
	require.NoError(t, err)

	// Overlapping interval, different customer.
	_, err = f.booking.Create(context.Background(), BookingRequest{
		CustomerID: b.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:30",
	})
	assert.Equal(t, CodeSlotUnavailable, ErrCode(err))

	// Back to back is fine.
	_, err = f.booking.Create(context.Background(), BookingRequest{
		CustomerID: b.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "15:00",
	})
	assert.NoError(t, err)
}

func TestCancelRules(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	appt, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
	})
	require.NoError(t, err)

	// On the morning of the appointment the customer can no longer
	// cancel, but the admin override still can.
	f.now = time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	_, err = f.booking.Cancel(context.Background(), appt.ID, false)
	assert.Equal(t, CodeSameDayCancelBlocked, ErrCode(err))

	cancelled, err := f.booking.Cancel(context.Background(), appt.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = f.booking.Cancel(context.Background(), appt.ID, true)
	assert.Equal(t, CodeInvalidTransition, ErrCode(err))
}

func TestCancelThenRebook(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	appt, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
	})
	require.NoError(t, err)

	_, err = f.booking.Cancel(context.Background(), appt.ID, false)
	require.NoError(t, err)

	// Both the slot and the one-active rule are released.
	_, err = f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
	})
	assert.NoError(t, err)
}

func TestMyAppointments(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	appt, err := f.booking.Create(context.Background(), BookingRequest{
		CustomerID: customer.ID, ServiceName: "Eyebrows", Date: "2026-09-02", Time: "11:00",
	})
	require.NoError(t, err)

	// The customer-facing lookup normalizes the phone itself.
	res, err := f.booking.MyAppointments("050-123-4567")
	require.NoError(t, err)
	require.Len(t, res.Upcoming, 1)
	assert.Equal(t, appt.ID, res.Upcoming[0].ID)
	assert.Empty(t, res.Past)

	_, err = f.booking.MyAppointments("0509999999")
	assert.Equal(t, CodeCustomerNotFound, ErrCode(err))
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	f := newBookingFixture(t)

	const n = 8
	ids := make([]uuid.UUID, n)
	for i := range ids {
		c := f.addCustomer(t, "+97250200000"+string(rune('0'+i)))
		ids[i] = c.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.booking.Create(context.Background(), BookingRequest{
				CustomerID: id, ServiceName: "Gel Polish", Date: "2026-09-02", Time: "14:00",
			})
			if err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			} else {
				assert.Equal(t, CodeSlotUnavailable, ErrCode(err))
			}
		}(ids[i])
	}
	wg.Wait()

	assert.Equal(t, 1, won)
}

func TestConcurrentBookingSameCustomer(t *testing.T) {
	f := newBookingFixture(t)
	customer := f.addCustomer(t, "+972501234567")

	// Two different open slots, one customer: the one-active rule must
	// let at most one commit.
	times := []string{"11:00", "16:00"}
	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for _, at := range times {
		wg.Add(1)
		go func(at string) {
			defer wg.Done()
			_, err := f.booking.Create(context.Background(), BookingRequest{
				CustomerID: customer.ID, ServiceName: "Gel Polish", Date: "2026-09-02", Time: at,
			})
			if err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			} else {
				assert.Equal(t, CodeActiveAppointmentExists, ErrCode(err))
			}
		}(at)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
}
