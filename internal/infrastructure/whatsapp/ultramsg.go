package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"qurainbot/internal/pkg/logger"
)

const maxReplyBytes = 64 << 10

// UltraMsgClient posts messages to the UltraMsg chat endpoint.
type UltraMsgClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewUltraMsgClient creates a client for {baseURL}/{instanceID}/messages/chat.
func NewUltraMsgClient(baseURL, instanceID, token string, httpClient *http.Client, log logger.Logger) *UltraMsgClient {
	return &UltraMsgClient{
		endpoint:   fmt.Sprintf("%s/%s/messages/chat", strings.TrimRight(baseURL, "/"), instanceID),
		token:      token,
		httpClient: httpClient,
		log:        log.With("vendor", "ultramsg"),
	}
}

func (c *UltraMsgClient) Send(ctx context.Context, to, body string) bool {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("to", to)
	form.Set("body", body)
	form.Set("priority", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.log.Error("failed to build ultramsg request", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(fmt.Sprintf("ultramsg request to %s failed", to), err)
		return false
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if resp.StatusCode != http.StatusOK {
		c.log.Warn(fmt.Sprintf("ultramsg returned status %d for %s: %s", resp.StatusCode, to, reply))
		return false
	}
	if ok, reason := acceptedByGateway(reply); !ok {
		c.log.Warn(fmt.Sprintf("ultramsg rejected message to %s: %s %s", to, reason, reply))
		return false
	}
	c.log.Debug("message sent to " + to)
	return true
}
