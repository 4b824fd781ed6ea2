package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioChannel sends SMS through the Twilio REST API.
type TwilioChannel struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioChannel(accountSID, authToken, from string) (*TwilioChannel, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioChannel{client: client, from: from}, nil
}

func (t *TwilioChannel) Send(ctx context.Context, target Target, kind Kind, payload map[string]string) bool {
	if target.Phone == "" {
		return false
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(target.Phone)
	params.SetBody(RenderSMS(target, kind, payload))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send %s SMS to %s: %v", kind, target.Phone, err)
		return false
	}

	log.Printf("✅ SMS sent (%s)! SID: %s", kind, *resp.Sid)
	return true
}
