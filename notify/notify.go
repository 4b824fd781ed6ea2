package notify

import (
	"context"
	"fmt"
)

type Kind string

const (
	KindOTPCode             Kind = "otp_code"
	KindBookingConfirmation Kind = "booking_confirmation"
	KindReminderDayBefore   Kind = "reminder_day_before"
	KindReminderMorningOf   Kind = "reminder_morning_of"
	KindContactMessage      Kind = "contact_message"
)

// Target is the recipient of a notification. Phone is E.164;
// Email may be empty.
type Target struct {
	Name  string
	Phone string
	Email string
}

// Sender delivers one notification, best-effort. Implementations must
// never panic or propagate errors to business code: the return value
// says whether delivery was actually attempted and accepted.
type Sender interface {
	Send(ctx context.Context, target Target, kind Kind, payload map[string]string) bool
}

// Multi fans out to each channel and reports delivered when any channel
// accepted the message.
type Multi []Sender

func (m Multi) Send(ctx context.Context, target Target, kind Kind, payload map[string]string) bool {
	delivered := false
	for _, s := range m {
		if s.Send(ctx, target, kind, payload) {
			delivered = true
		}
	}
	return delivered
}

// RenderSMS produces the SMS body for a notification kind.
func RenderSMS(target Target, kind Kind, payload map[string]string) string {
	switch kind {
	case KindOTPCode:
		return fmt.Sprintf("קוד האימות שלך: %s\nתוקף: 5 דקות.", payload["code"])
	case KindBookingConfirmation:
		return fmt.Sprintf("היי %s, התור שלך ל%s נקבע בהצלחה לתאריך %s בשעה %s. נתראה!",
			target.Name, payload["service"], payload["date"], payload["time"])
	case KindReminderDayBefore:
		return fmt.Sprintf("היי %s, תזכורת: יש לך תור מחר ל%s בשעה %s.",
			target.Name, payload["service"], payload["time"])
	case KindReminderMorningOf:
		return fmt.Sprintf("בוקר טוב %s! תזכורת: יש לך תור היום ל%s בשעה %s.",
			target.Name, payload["service"], payload["time"])
	case KindContactMessage:
		return fmt.Sprintf("הודעה חדשה מ%s (%s): %s",
			payload["name"], payload["phone"], payload["message"])
	}
	return ""
}
