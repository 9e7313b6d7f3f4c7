// services/notifier.go
package services

import (
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers best-effort outbound messages. Callers log failures and
// carry on; a notification must never fail the operation that triggered it.
type Notifier interface {
	Send(phone, message string) error
}

// NewNotifierFromEnv returns a Twilio-backed notifier when credentials are
// configured and a no-op notifier otherwise.
func NewNotifierFromEnv() Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid == "" || authToken == "" {
		log.Println("Twilio credentials not set, notifications disabled")
		return NoopNotifier{}
	}

	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		smsFrom:      os.Getenv("TWILIO_PHONE_NUMBER"),
		whatsappFrom: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

type TwilioNotifier struct {
	client       *twilio.RestClient
	smsFrom      string
	whatsappFrom string
}

// Send delivers the message over WhatsApp when the recipient is in E.164
// format and a WhatsApp sender is configured, otherwise over SMS.
func (n *TwilioNotifier) Send(phone, message string) error {
	to := phone
	from := n.smsFrom

	if strings.HasPrefix(phone, "+") && n.whatsappFrom != "" {
		to = "whatsapp:" + phone
		from = "whatsapp:" + n.whatsappFrom
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", phone, *resp.Sid)
	}
	return nil
}

// NoopNotifier drops every message. Used when no provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) Send(phone, message string) error {
	return nil
}
