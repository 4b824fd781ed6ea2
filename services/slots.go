package services

import (
	"fmt"
	"time"

	"github.com/adirsaban8-oss/ADIRS/config"
	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/store"
)

const slotGridMinutes = 30

// SlotEngine computes which start times are offered for a given date.
// Availability here is advisory: the booking transaction re-checks and
// the database constraints have the final word.
type SlotEngine struct {
	appointments store.AppointmentStore
	blocked      store.BlockedSlotStore
	cfg          *config.Config

	now func() time.Time
}

func NewSlotEngine(appointments store.AppointmentStore, blocked store.BlockedSlotStore, cfg *config.Config) *SlotEngine {
	return &SlotEngine{appointments: appointments, blocked: blocked, cfg: cfg, now: time.Now}
}

// SlotResult carries either the offered start times or a human message
// explaining why the day has none (closed, out of horizon).
type SlotResult struct {
	Date    string   `json:"date"`
	Slots   []string `json:"slots"`
	Message string   `json:"message,omitempty"`
}

// AvailableSlots lists the free "HH:MM" starts on the 30-minute grid
// for the requested date, given the service duration. The whole
// appointment must fit before closing, and slots overlapping an active
// appointment, an admin block, or (today) the current time are dropped.
func (e *SlotEngine) AvailableSlots(dateStr string, durationMin int) (*SlotResult, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, e.cfg.Timezone)
	if err != nil {
		return nil, domainErr(CodeInvalidDateTime, "invalid date %q, expected YYYY-MM-DD", dateStr)
	}
	if durationMin <= 0 {
		durationMin = slotGridMinutes
	}

	now := e.now().In(e.cfg.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.cfg.Timezone)
	minDate := today.AddDate(0, 0, e.cfg.MinLeadDays)
	maxDate := today.AddDate(0, 0, e.cfg.MaxAdvanceDays)
	if date.Before(minDate) || date.After(maxDate) {
		return &SlotResult{
			Date:    dateStr,
			Slots:   []string{},
			Message: fmt.Sprintf("Bookings are accepted from %s to %s", minDate.Format("02/01/2006"), maxDate.Format("02/01/2006")),
		}, nil
	}

	hours := models.BusinessWeek[models.DayOfWeek(date.Weekday())]
	if !hours.IsWorkDay {
		return &SlotResult{Date: dateStr, Slots: []string{}, Message: "The studio is closed on this day"}, nil
	}

	open, _ := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+hours.StartTime, e.cfg.Timezone)
	close, _ := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+hours.EndTime, e.cfg.Timezone)

	active, err := e.appointments.ActiveAppointmentsBetween(date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	blockedTimes, err := e.blocked.BlockedTimes(dateStr)
	if err != nil {
		return nil, err
	}
	blocked := make(map[string]bool, len(blockedTimes))
	for _, t := range blockedTimes {
		blocked[t] = true
	}

	slots := []string{}
	for start := open; !start.Add(time.Duration(durationMin) * time.Minute).After(close); start = start.Add(slotGridMinutes * time.Minute) {
		if !start.After(now) {
			continue
		}
		if blocked[start.Format("15:04")] {
			continue
		}
		if overlapsAny(active, start, durationMin) {
			continue
		}
		slots = append(slots, start.Format("15:04"))
	}

	res := &SlotResult{Date: dateStr, Slots: slots}
	if len(slots) == 0 {
		res.Message = "No free slots on this day"
	}
	return res, nil
}

// IsSlotFree is the booking fast path check for one concrete start.
func (e *SlotEngine) IsSlotFree(start time.Time, durationMin int) (bool, error) {
	start = start.In(e.cfg.Timezone)

	hours := models.BusinessWeek[models.DayOfWeek(start.Weekday())]
	if !hours.IsWorkDay {
		return false, nil
	}
	dateStr := start.Format("2006-01-02")
	open, _ := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+hours.StartTime, e.cfg.Timezone)
	close, _ := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+hours.EndTime, e.cfg.Timezone)
	if start.Before(open) || start.Add(time.Duration(durationMin)*time.Minute).After(close) {
		return false, nil
	}

	blockedTimes, err := e.blocked.BlockedTimes(dateStr)
	if err != nil {
		return false, err
	}
	for _, t := range blockedTimes {
		if t == start.Format("15:04") {
			return false, nil
		}
	}

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, e.cfg.Timezone)
	active, err := e.appointments.ActiveAppointmentsBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return false, err
	}
	return !overlapsAny(active, start, durationMin), nil
}

func overlapsAny(active []models.Appointment, start time.Time, durationMin int) bool {
	d := time.Duration(durationMin) * time.Minute
	for i := range active {
		if active[i].Overlaps(start, d) {
			return true
		}
	}
	return false
}
