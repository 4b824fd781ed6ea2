package services

import (
	"context"
	"log"
	"time"

	"github.com/adirsaban8-oss/ADIRS/config"
	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/notify"
	"github.com/adirsaban8-oss/ADIRS/store"
)

// ReminderService scans for appointments needing a reminder and sends
// each kind at most once, recorded in the ReminderSend ledger. Runs are
// idempotent so the scheduler can fire as often as it likes.
type ReminderService struct {
	appointments store.AppointmentStore
	customers    store.CustomerStore
	reminders    store.ReminderStore
	sender       notify.Sender
	cfg          *config.Config

	now func() time.Time
}

func NewReminderService(
	appointments store.AppointmentStore,
	customers store.CustomerStore,
	reminders store.ReminderStore,
	sender notify.Sender,
	cfg *config.Config,
) *ReminderService {
	return &ReminderService{
		appointments: appointments,
		customers:    customers,
		reminders:    reminders,
		sender:       sender,
		cfg:          cfg,
		now:          time.Now,
	}
}

type PendingReminder struct {
	Appointment models.Appointment
	Kind        models.ReminderKind
}

// Pending collects the reminders due as of the given instant:
// day_before for tomorrow's active appointments, morning_of for
// today's appointments that have not started yet. Already-sent pairs
// are filtered through the ledger.
func (r *ReminderService) Pending(asOf time.Time) ([]PendingReminder, error) {
	asOf = asOf.In(r.cfg.Timezone)
	today := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, r.cfg.Timezone)
	tomorrow := today.AddDate(0, 0, 1)

	active, err := r.appointments.ActiveAppointmentsBetween(today, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var due []PendingReminder
	for _, appt := range active {
		local := appt.StartTime.In(r.cfg.Timezone)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.cfg.Timezone)

		var kind models.ReminderKind
		switch {
		case day.Equal(tomorrow):
			kind = models.ReminderDayBefore
		case day.Equal(today) && local.After(asOf):
			kind = models.ReminderMorningOf
		default:
			continue
		}

		sent, err := r.reminders.ReminderSent(appt.ID, kind)
		if err != nil {
			return nil, err
		}
		if sent {
			continue
		}
		due = append(due, PendingReminder{Appointment: appt, Kind: kind})
	}
	return due, nil
}

// Run is one scheduler pass: sweep elapsed appointments to completed,
// then deliver due reminders. A failing item is logged and skipped so
// one bad row never starves the rest.
func (r *ReminderService) Run(ctx context.Context) {
	now := r.now()

	if swept, err := r.appointments.CompleteElapsedAppointments(now); err != nil {
		log.Printf("Completion sweep failed: %v", err)
	} else if swept > 0 {
		log.Printf("Marked %d elapsed appointments completed", swept)
	}

	due, err := r.Pending(now)
	if err != nil {
		log.Printf("Reminder scan failed: %v", err)
		return
	}

	for _, item := range due {
		r.sendOne(ctx, item)
	}
}

func (r *ReminderService) sendOne(ctx context.Context, item PendingReminder) {
	appt := item.Appointment

	customer, err := r.customers.CustomerByID(appt.CustomerID)
	if err != nil {
		log.Printf("Reminder for appointment %s skipped, customer lookup failed: %v", appt.ID, err)
		return
	}

	kind := notify.KindReminderDayBefore
	if item.Kind == models.ReminderMorningOf {
		kind = notify.KindReminderMorningOf
	}

	local := appt.StartTime.In(r.cfg.Timezone)
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	r.sender.Send(sendCtx, notify.Target{Name: customer.Name, Phone: customer.Phone, Email: customer.Email},
		kind, map[string]string{
			"service": appt.ServiceNameHe,
			"date":    local.Format("02/01/2006"),
			"time":    local.Format("15:04"),
		})
	cancel()

	// Mark after the attempt; a crash in between re-sends at most once.
	if err := r.reminders.MarkReminderSent(appt.ID, item.Kind); err != nil {
		log.Printf("Failed to record reminder %s/%s: %v", appt.ID, item.Kind, err)
		return
	}
	log.Printf("Sent %s reminder for appointment %s (%s)", item.Kind, appt.ID, customer.Name)
}
