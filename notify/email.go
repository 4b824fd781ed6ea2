package notify

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// EmailChannel mirrors confirmations and reminders to the customer's
// inbox over SMTP. OTP codes go out by SMS only.
type EmailChannel struct {
	host string
	port int
	user string
	pass string
}

func NewEmailChannel(host string, port int, user, pass string) (*EmailChannel, error) {
	if host == "" || user == "" {
		return nil, fmt.Errorf("missing SMTP configuration")
	}
	return &EmailChannel{host: host, port: port, user: user, pass: pass}, nil
}

func (e *EmailChannel) Send(ctx context.Context, target Target, kind Kind, payload map[string]string) bool {
	if kind == KindOTPCode || target.Email == "" {
		return false
	}

	subject, body := renderEmail(target, kind, payload)
	if subject == "" {
		return false
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.user)
	m.SetHeader("To", target.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(e.host, e.port, e.user, e.pass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send %s email to %s: %v", kind, target.Email, err)
		return false
	}
	return true
}

func renderEmail(target Target, kind Kind, payload map[string]string) (subject, body string) {
	switch kind {
	case KindBookingConfirmation:
		subject = "אישור תור - התור שלך נקבע בהצלחה"
	case KindReminderDayBefore:
		subject = "תזכורת: יש לך תור מחר"
	case KindReminderMorningOf:
		subject = "תזכורת: יש לך תור היום"
	default:
		return "", ""
	}

	body = fmt.Sprintf(`
		<div dir="rtl">
		<p>שלום %s,</p>
		<p><strong>פרטי התור:</strong></p>
		<ul>
			<li><strong>שירות:</strong> %s</li>
			<li><strong>תאריך:</strong> %s</li>
			<li><strong>שעה:</strong> %s</li>
		</ul>
		<p>לביטול או שינוי תור, נא ליצור קשר בהקדם.</p>
		<p>נשמח לראותך!</p>
		</div>
	`, target.Name, payload["service"], payload["date"], payload["time"])
	return subject, body
}
