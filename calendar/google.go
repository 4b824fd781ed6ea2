package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/adirsaban8-oss/ADIRS/models"
)

// GoogleMirror writes appointments into a Google Calendar through a
// service account. The calendar must be shared with the service account
// email with "Make changes to events" permission.
type GoogleMirror struct {
	svc        *gcal.Service
	calendarID string
	tz         *time.Location
}

func NewGoogleMirror(ctx context.Context, credentialsJSON, calendarID string, tz *time.Location) (*GoogleMirror, error) {
	if credentialsJSON == "" || calendarID == "" {
		return nil, fmt.Errorf("missing GOOGLE_CREDENTIALS_JSON or GOOGLE_CALENDAR_ID")
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	m := &GoogleMirror{svc: svc, calendarID: calendarID, tz: tz}

	// Fail fast on bad sharing setup rather than on the first booking.
	if _, err := svc.Calendars.Get(calendarID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("cannot access calendar %q: %w", calendarID, err)
	}

	log.Println("✅ Google Calendar mirror connected")
	return m, nil
}

func (m *GoogleMirror) CreateEvent(ctx context.Context, appt *models.Appointment, customer *models.Customer) (string, error) {
	start := appt.StartTime.In(m.tz)
	end := appt.EndTime().In(m.tz)

	// Description layout is load-bearing: service, blank, name, phone,
	// email, blank, notes. Legacy tooling parses these lines.
	description := fmt.Sprintf("%s\n\n%s\n%s\n%s\n\n%s",
		appt.ServiceNameHe, customer.Name, customer.Phone, customer.Email, appt.Notes)

	event := &gcal.Event{
		Summary:     fmt.Sprintf("%s - %s", appt.ServiceNameHe, customer.Name),
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: m.tz.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: m.tz.String(),
		},
	}

	created, err := m.svc.Events.Insert(m.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert failed: %w", err)
	}
	return created.Id, nil
}

func (m *GoogleMirror) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	if err := m.svc.Events.Delete(m.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar delete failed: %w", err)
	}
	return nil
}
