package calendar

import (
	"context"
	"log"

	"github.com/adirsaban8-oss/ADIRS/models"
)

// Mirror keeps a best-effort external copy of appointments for the
// owner's calendar view. The appointment row stays the single source of
// truth: a failed mirror call never blocks or invalidates a booking.
type Mirror interface {
	CreateEvent(ctx context.Context, appt *models.Appointment, customer *models.Customer) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// NoopMirror is used when no calendar credentials are configured.
type NoopMirror struct{}

func (NoopMirror) CreateEvent(ctx context.Context, appt *models.Appointment, customer *models.Customer) (string, error) {
	log.Printf("[Calendar] mirror disabled, skipping event for appointment %s", appt.ID)
	return "", nil
}

func (NoopMirror) DeleteEvent(ctx context.Context, eventID string) error {
	return nil
}
