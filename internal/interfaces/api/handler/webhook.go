package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/application/service"
	"qurainbot/internal/infrastructure/whatsapp"
	appErrors "qurainbot/internal/pkg/errors"
	"qurainbot/internal/pkg/logger"
)

const (
	vendorUltraMsg = "ultramsg"
	vendorWhapi    = "whapi"
	vendorGeneric  = "generic"
	vendorTwilio   = "twilio"

	statusIgnored = "ignored"
)

// webhookPayload covers the JSON shapes posted by the supported gateways.
type webhookPayload struct {
	// UltraMsg
	Data *struct {
		From   string `json:"from"`
		Body   string `json:"body"`
		FromMe bool   `json:"fromMe"`
	} `json:"data"`

	// Whapi
	Messages []struct {
		From   string `json:"from"`
		FromMe bool   `json:"from_me"`
		Text   *struct {
			Body string `json:"body"`
		} `json:"text"`
	} `json:"messages"`

	// Generic
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// WebhookHandler receives inbound WhatsApp messages from the gateway.
type WebhookHandler struct {
	conversation service.ConversationService
	sender       whatsapp.Sender
	log          logger.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(conversation service.ConversationService, sender whatsapp.Sender, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		conversation: conversation,
		sender:       sender,
		log:          log,
	}
}

// HandleWebhook always answers 200 so the gateway does not retry; payloads
// without a sender or body are acknowledged as ignored.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	msg, err := h.parse(c)
	if err != nil {
		h.log.Warn(fmt.Sprintf("%v: %v", appErrors.ErrInvalidPayload, err))
		return c.JSON(http.StatusOK, dto.WebhookStatus{Status: statusIgnored})
	}
	if !msg.Valid() {
		h.log.Debug(fmt.Sprintf("Ignoring %s webhook without sender or text", msg.Vendor))
		return c.JSON(http.StatusOK, dto.WebhookStatus{Status: statusIgnored})
	}

	ctx := c.Request().Context()
	h.log.Info(fmt.Sprintf("Received %s message from %s", msg.Vendor, msg.Sender))

	reply := h.conversation.HandleMessage(ctx, msg.Sender, msg.Body)
	if reply != "" && !h.sender.Send(ctx, msg.Sender, reply) {
		h.log.Warn(fmt.Sprintf("Reply to %s was not delivered", msg.Sender))
	}
	return c.JSON(http.StatusOK, dto.WebhookReply{Reply: reply})
}

func (h *WebhookHandler) parse(c echo.Context) (dto.InboundMessage, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationForm) || strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		return dto.InboundMessage{
			Vendor: vendorTwilio,
			Sender: strings.TrimPrefix(strings.TrimSpace(c.FormValue("From")), "whatsapp:"),
			Body:   strings.TrimSpace(c.FormValue("Body")),
		}, nil
	}

	var p webhookPayload
	if c.Request().ContentLength == 0 {
		return dto.InboundMessage{Vendor: vendorGeneric}, nil
	}
	if err := c.Echo().JSONSerializer.Deserialize(c, &p); err != nil {
		return dto.InboundMessage{}, err
	}
	return p.message(), nil
}

func (p *webhookPayload) message() dto.InboundMessage {
	switch {
	case p.Data != nil:
		if p.Data.FromMe {
			return dto.InboundMessage{Vendor: vendorUltraMsg}
		}
		return dto.InboundMessage{
			Vendor: vendorUltraMsg,
			Sender: strings.TrimSpace(p.Data.From),
			Body:   strings.TrimSpace(p.Data.Body),
		}
	case len(p.Messages) > 0:
		m := p.Messages[0]
		if m.FromMe || m.Text == nil {
			return dto.InboundMessage{Vendor: vendorWhapi}
		}
		return dto.InboundMessage{
			Vendor: vendorWhapi,
			Sender: strings.TrimSpace(m.From),
			Body:   strings.TrimSpace(m.Text.Body),
		}
	default:
		return dto.InboundMessage{
			Vendor: vendorGeneric,
			Sender: strings.TrimSpace(p.Sender),
			Body:   strings.TrimSpace(p.Message),
		}
	}
}
