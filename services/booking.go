package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/adirsaban8-oss/ADIRS/calendar"
	"github.com/adirsaban8-oss/ADIRS/config"
	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/notify"
	"github.com/adirsaban8-oss/ADIRS/store"
	"github.com/adirsaban8-oss/ADIRS/utils"
)

// BookingService owns the appointment lifecycle: creation inside the
// booking horizon, cancellation, and the customer's appointment views.
// Validation is layered: cheap checks first, then the transactional
// insert in the store, whose constraints decide races.
type BookingService struct {
	customers    store.CustomerStore
	appointments store.AppointmentStore
	slots        *SlotEngine
	mirror       calendar.Mirror
	sender       notify.Sender
	cfg          *config.Config

	now func() time.Time
}

func NewBookingService(
	customers store.CustomerStore,
	appointments store.AppointmentStore,
	slots *SlotEngine,
	mirror calendar.Mirror,
	sender notify.Sender,
	cfg *config.Config,
) *BookingService {
	return &BookingService{
		customers:    customers,
		appointments: appointments,
		slots:        slots,
		mirror:       mirror,
		sender:       sender,
		cfg:          cfg,
		now:          time.Now,
	}
}

type BookingRequest struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	ServiceName string    `json:"service"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Notes       string    `json:"notes"`
}

// Create books one appointment. Checks run cheapest first; the final
// word on concurrent conflicts belongs to CreateBooked and the database
// constraints behind it.
func (b *BookingService) Create(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	customer, err := b.customers.CustomerByID(req.CustomerID)
	if err != nil {
		return nil, domainErr(CodeCustomerNotFound, "customer %s not found", req.CustomerID)
	}

	svc := models.FindService(req.ServiceName)
	if svc == nil {
		return nil, domainErr(CodeInvalidService, "unknown service %q", req.ServiceName)
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, b.cfg.Timezone)
	if err != nil {
		return nil, domainErr(CodeInvalidDateTime, "invalid date/time %q %q", req.Date, req.Time)
	}

	now := b.now().In(b.cfg.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.cfg.Timezone)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, b.cfg.Timezone)
	minDate := today.AddDate(0, 0, b.cfg.MinLeadDays)
	maxDate := today.AddDate(0, 0, b.cfg.MaxAdvanceDays)
	if day.Before(minDate) || day.After(maxDate) {
		return nil, domainErr(CodeOutOfHorizon, "bookings are accepted between %s and %s",
			minDate.Format("02/01/2006"), maxDate.Format("02/01/2006"))
	}

	if existing, err := b.appointments.ActiveFutureAppointment(customer.ID, now); err == nil {
		return nil, &DomainError{
			Code:     CodeActiveAppointmentExists,
			Message:  "you already have an upcoming appointment",
			Conflict: existing,
		}
	}

	free, err := b.slots.IsSlotFree(start, svc.DurationMin)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, domainErr(CodeSlotUnavailable, "the slot %s %s is not available", req.Date, req.Time)
	}

	appt := &models.Appointment{
		ID:            uuid.New(),
		CustomerID:    customer.ID,
		ServiceName:   svc.Name,
		ServiceNameHe: svc.NameHe,
		StartTime:     start,
		DurationMin:   svc.DurationMin,
		Status:        models.StatusActive,
		Notes:         req.Notes,
	}
	if err := b.appointments.CreateBooked(appt); err != nil {
		switch err {
		case store.ErrActiveExists:
			existing, _ := b.appointments.ActiveFutureAppointment(customer.ID, now)
			return nil, &DomainError{
				Code:     CodeActiveAppointmentExists,
				Message:  "you already have an upcoming appointment",
				Conflict: existing,
			}
		case store.ErrSlotTaken:
			return nil, domainErr(CodeSlotUnavailable, "the slot %s %s was just taken", req.Date, req.Time)
		}
		return nil, err
	}

	log.Printf("Booked appointment %s: %s for %s at %s", appt.ID, svc.Name, customer.Name, start.Format("2006-01-02 15:04"))

	go b.mirrorCreate(appt, customer)
	go b.sendConfirmation(appt, customer)

	return appt, nil
}

func (b *BookingService) mirrorCreate(appt *models.Appointment, customer *models.Customer) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	eventID, err := b.mirror.CreateEvent(ctx, appt, customer)
	if err != nil {
		log.Printf("❌ Calendar mirror failed for appointment %s: %v", appt.ID, err)
		return
	}
	if eventID == "" {
		return
	}
	if err := b.appointments.SetGoogleEventID(appt.ID, eventID); err != nil {
		log.Printf("Failed to record calendar event id for %s: %v", appt.ID, err)
	}
}

func (b *BookingService) sendConfirmation(appt *models.Appointment, customer *models.Customer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	local := appt.StartTime.In(b.cfg.Timezone)
	b.sender.Send(ctx, notify.Target{Name: customer.Name, Phone: customer.Phone, Email: customer.Email},
		notify.KindBookingConfirmation, map[string]string{
			"service": appt.ServiceNameHe,
			"date":    local.Format("02/01/2006"),
			"time":    local.Format("15:04"),
		})
}

// Cancel moves an active appointment to cancelled. Customers cannot
// cancel on the day of the appointment; admins pass sameDayOK.
func (b *BookingService) Cancel(ctx context.Context, id uuid.UUID, sameDayOK bool) (*models.Appointment, error) {
	appt, err := b.appointments.AppointmentByID(id)
	if err != nil {
		return nil, domainErr(CodeInvalidTransition, "appointment %s not found", id)
	}

	now := b.now().In(b.cfg.Timezone)
	if !sameDayOK {
		local := appt.StartTime.In(b.cfg.Timezone)
		if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
			return nil, domainErr(CodeSameDayCancelBlocked,
				"same-day cancellation is not allowed, please call the studio")
		}
	}

	if err := appt.Transition(models.StatusCancelled); err != nil {
		return nil, domainErr(CodeInvalidTransition, "%v", err)
	}
	if err := b.appointments.UpdateAppointment(appt); err != nil {
		return nil, err
	}

	log.Printf("Cancelled appointment %s (%s at %s)", appt.ID, appt.ServiceName, appt.StartTime.Format("2006-01-02 15:04"))

	if appt.GoogleEventID != "" {
		eventID := appt.GoogleEventID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := b.mirror.DeleteEvent(ctx, eventID); err != nil {
				log.Printf("❌ Calendar delete failed for event %s: %v", eventID, err)
			}
		}()
	}

	return appt, nil
}

// HasActiveFutureAppointment reports the customer's upcoming active
// appointment, if any, for pre-booking UI checks.
func (b *BookingService) HasActiveFutureAppointment(customerID uuid.UUID) (*models.Appointment, error) {
	appt, err := b.appointments.ActiveFutureAppointment(customerID, b.now())
	if err == store.ErrNotFound {
		return nil, nil
	}
	return appt, err
}

type CustomerAppointments struct {
	Upcoming []models.Appointment `json:"upcoming"`
	Past     []models.Appointment `json:"past"`
}

// MyAppointments returns the customer's upcoming appointments plus
// their recent history.
func (b *BookingService) MyAppointments(phone string) (*CustomerAppointments, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, domainErr(CodeInvalidPhone, "not a valid phone number: %q", phone)
	}
	customer, err := b.customers.CustomerByPhone(normalized)
	if err != nil {
		return nil, domainErr(CodeCustomerNotFound, "no customer for phone %s", phone)
	}

	now := b.now()
	upcoming, err := b.appointments.FutureAppointmentsByCustomer(customer.ID, now)
	if err != nil {
		return nil, err
	}
	past, err := b.appointments.PastAppointmentsByCustomer(customer.ID, now, 20)
	if err != nil {
		return nil, err
	}
	return &CustomerAppointments{Upcoming: upcoming, Past: past}, nil
}

type AppointmentPage struct {
	Items []models.Appointment `json:"appointments"`
	Total int64                `json:"total"`
}

// List is the admin view, optionally filtered by status.
func (b *BookingService) List(status models.AppointmentStatus, limit, offset int) (*AppointmentPage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := b.appointments.ListAppointments(status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &AppointmentPage{Items: items, Total: total}, nil
}
