package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"qurainbot/internal/pkg/logger"
)

const twilioWhatsAppPrefix = "whatsapp:"

// messageCreator is the part of the Twilio REST API the client needs.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioClient sends WhatsApp messages through the Twilio Messages API.
type TwilioClient struct {
	api  messageCreator
	from string
	log  logger.Logger
}

// NewTwilioClient creates a Twilio sender. from is the WhatsApp-enabled
// Twilio number, with or without the "whatsapp:" prefix.
func NewTwilioClient(accountSID, authToken, from string, log logger.Logger) (*TwilioClient, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio account SID and auth token must be provided")
	}
	if from == "" {
		return nil, fmt.Errorf("twilio from number must be provided")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioClient(client.Api, from, log), nil
}

func newTwilioClient(api messageCreator, from string, log logger.Logger) *TwilioClient {
	return &TwilioClient{api: api, from: twilioAddress(from), log: log.With("vendor", "twilio")}
}

func (c *TwilioClient) Send(_ context.Context, to, body string) bool {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(twilioAddress(to))
	params.SetFrom(c.from)
	params.SetBody(body)

	if _, err := c.api.CreateMessage(params); err != nil {
		c.log.Error(fmt.Sprintf("twilio send to %s failed", to), err)
		return false
	}
	c.log.Debug("message sent to " + to)
	return true
}

// Inbound Twilio senders already carry the prefix; bare numbers get it added.
func twilioAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, twilioWhatsAppPrefix) {
		return number
	}
	return twilioWhatsAppPrefix + number
}
