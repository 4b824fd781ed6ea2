package notify

import (
	"context"
	"log"
)

// LogChannel is the mock-mode channel: delivery is simulated and the
// payload (including OTP codes) is surfaced through operational logs.
// Selected once at startup when SMS is disabled.
type LogChannel struct{}

func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

func (l *LogChannel) Send(ctx context.Context, target Target, kind Kind, payload map[string]string) bool {
	if kind == KindOTPCode {
		log.Printf("[Notify] MOCK - OTP code for %s: %s", target.Phone, payload["code"])
		return false
	}
	log.Printf("[Notify] MOCK %s to %s: %s", kind, target.Phone, RenderSMS(target, kind, payload))
	return false
}
