package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusActive    AppointmentStatus = "active"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID         `json:"customer_id" gorm:"type:uuid;not null;index"`
	Customer      Customer          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ServiceName   string            `json:"service_name" gorm:"size:50;not null"`
	ServiceNameHe string            `json:"service_name_he" gorm:"size:50;not null"`
	StartTime     time.Time         `json:"start_time" gorm:"not null;index"`
	DurationMin   int               `json:"duration" gorm:"not null"`
	Status        AppointmentStatus `json:"status" gorm:"size:20;not null;default:active;index"`
	GoogleEventID string            `json:"google_event_id" gorm:"size:255"`
	Notes         string            `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if a.DurationMin <= 0 {
		return fmt.Errorf("appointment duration must be positive")
	}
	return nil
}

// EndTime is the exclusive end of the reserved interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMin) * time.Minute)
}

// Overlaps reports whether [start, start+duration) intersects this
// appointment's interval.
func (a *Appointment) Overlaps(start time.Time, duration time.Duration) bool {
	end := start.Add(duration)
	return start.Before(a.EndTime()) && end.After(a.StartTime)
}

// Transition moves the appointment to newStatus. Active is the only
// state with outgoing edges; cancelled and completed are terminal.
func (a *Appointment) Transition(newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusActive:
		if newStatus != StatusCancelled && newStatus != StatusCompleted {
			return fmt.Errorf("invalid transition from active to %s", newStatus)
		}
	case StatusCancelled, StatusCompleted:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	default:
		return fmt.Errorf("unknown status %q", a.Status)
	}
	a.Status = newStatus
	return nil
}

type ReminderKind string

const (
	ReminderDayBefore ReminderKind = "day_before"
	ReminderMorningOf ReminderKind = "morning_of"
)

// ReminderSend is the at-most-once ledger for reminder deliveries. The
// composite unique index is what keeps a second scanner pass from
// re-sending the same reminder kind.
type ReminderSend struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	AppointmentID uuid.UUID    `json:"appointment_id" gorm:"type:uuid;not null;uniqueIndex:idx_reminder_once,priority:1"`
	Kind          ReminderKind `json:"kind" gorm:"size:20;not null;uniqueIndex:idx_reminder_once,priority:2"`
	SentAt        time.Time    `json:"sent_at"`
}
