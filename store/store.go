package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adirsaban8-oss/ADIRS/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicatePhone = errors.New("phone already registered")

	// Returned by CreateBooked when the storage-level invariants reject
	// the insert. These, not the fast-path checks in the booking
	// service, are what prevent two concurrent bookings from both
	// succeeding.
	ErrActiveExists = errors.New("customer already has an active appointment")
	ErrSlotTaken    = errors.New("slot overlaps an active appointment")
)

type CustomerStore interface {
	CreateCustomer(c *models.Customer) error
	CustomerByPhone(phone string) (*models.Customer, error)
	CustomerByID(id uuid.UUID) (*models.Customer, error)
	UpdateCustomer(c *models.Customer) error
	DeleteCustomer(id uuid.UUID) error
	ListCustomers(limit, offset int) ([]models.Customer, int64, error)
	SearchCustomers(term string, limit, offset int) ([]models.Customer, int64, error)
}

type AppointmentStore interface {
	// CreateBooked inserts an active appointment after re-validating,
	// inside one transaction, that the customer has no active row and
	// that no active interval overlaps. Returns ErrActiveExists or
	// ErrSlotTaken on conflict.
	CreateBooked(a *models.Appointment) error

	AppointmentByID(id uuid.UUID) (*models.Appointment, error)
	UpdateAppointment(a *models.Appointment) error
	SetGoogleEventID(id uuid.UUID, eventID string) error

	// ActiveFutureAppointment returns the customer's active appointment
	// with start >= now, or ErrNotFound.
	ActiveFutureAppointment(customerID uuid.UUID, now time.Time) (*models.Appointment, error)
	ActiveAppointmentsBetween(from, to time.Time) ([]models.Appointment, error)
	FutureAppointmentsByCustomer(customerID uuid.UUID, now time.Time) ([]models.Appointment, error)
	PastAppointmentsByCustomer(customerID uuid.UUID, now time.Time, limit int) ([]models.Appointment, error)
	ListAppointments(status models.AppointmentStatus, limit, offset int) ([]models.Appointment, int64, error)

	// CompleteElapsedAppointments retires active rows whose end time has
	// passed. Returns the number swept.
	CompleteElapsedAppointments(now time.Time) (int64, error)
}

type OTPStore interface {
	// LatestOTP returns the newest unverified row for the phone, or
	// ErrNotFound.
	LatestOTP(phone string) (*models.OTPCode, error)
	ReplaceOTP(code *models.OTPCode) error
	UpdateOTP(code *models.OTPCode) error
}

type ReminderStore interface {
	ReminderSent(appointmentID uuid.UUID, kind models.ReminderKind) (bool, error)
	// MarkReminderSent is idempotent: a duplicate mark is not an error.
	MarkReminderSent(appointmentID uuid.UUID, kind models.ReminderKind) error
}

type BlockedSlotStore interface {
	BlockedTimes(date string) ([]string, error)
	BlockSlot(date, timeStr string) error
	UnblockSlot(date, timeStr string) error
	ClearBlockedSlots(date string) error
}

// Store is the full persistence surface consumed by the services.
type Store interface {
	CustomerStore
	AppointmentStore
	OTPStore
	ReminderStore
	BlockedSlotStore
}
