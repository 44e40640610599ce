package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"qurainbot/internal/pkg/config"
	"qurainbot/internal/pkg/logger"
)

// Sender delivers one text message to a WhatsApp recipient. Implementations
// never return errors to the caller: failures are logged and reported as false.
type Sender interface {
	Send(ctx context.Context, to, body string) bool
}

// NewFromConfig builds the Sender selected by WHATSAPP_VENDOR.
func NewFromConfig(cfg *config.Config, log logger.Logger) (Sender, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	switch cfg.Vendor {
	case config.VendorUltraMsg:
		return NewUltraMsgClient(cfg.UltraMsgBaseURL, cfg.UltraMsgInstanceID, cfg.UltraMsgToken, httpClient, log), nil
	case config.VendorWhapi:
		return NewWhapiClient(cfg.WhapiBaseURL, cfg.WhapiToken, httpClient, log), nil
	case config.VendorTwilio:
		return NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	case config.VendorNone:
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unsupported whatsapp vendor %q", cfg.Vendor)
	}
}

// LogSender only logs outgoing messages. It backs WHATSAPP_VENDOR=none for
// local runs without gateway credentials.
type LogSender struct {
	log logger.Logger
}

// NewLogSender creates a Sender that writes messages to the log.
func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, body string) bool {
	s.log.With("to", to).Info("whatsapp message (not sent): " + body)
	return true
}

// acceptedByGateway reads the optional "sent" flag that UltraMsg and Whapi
// put in their JSON replies. A missing flag or a body that is not JSON
// counts as accepted; "sent":"false" or an "error" key does not.
func acceptedByGateway(body []byte) (bool, string) {
	var reply map[string]any
	if err := json.Unmarshal(body, &reply); err != nil {
		return true, ""
	}
	if e, ok := reply["error"]; ok && e != nil && e != "" {
		return false, fmt.Sprint(e)
	}
	sent, ok := reply["sent"]
	if !ok {
		return true, ""
	}
	switch v := sent.(type) {
	case bool:
		return v, ""
	case string:
		return strings.EqualFold(v, "true"), ""
	default:
		return false, fmt.Sprintf("unexpected sent value %v", v)
	}
}
