package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"qurainbot/internal/pkg/logger"
)

// WhapiClient posts messages to the Whapi.Cloud text endpoint.
type WhapiClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

type whapiTextMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// NewWhapiClient creates a client for {baseURL}/messages/text.
func NewWhapiClient(baseURL, token string, httpClient *http.Client, log logger.Logger) *WhapiClient {
	return &WhapiClient{
		endpoint:   strings.TrimRight(baseURL, "/") + "/messages/text",
		token:      token,
		httpClient: httpClient,
		log:        log.With("vendor", "whapi"),
	}
}

func (c *WhapiClient) Send(ctx context.Context, to, body string) bool {
	payload, err := json.Marshal(whapiTextMessage{To: to, Body: body})
	if err != nil {
		c.log.Error("failed to encode whapi message", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		c.log.Error("failed to build whapi request", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(fmt.Sprintf("whapi request to %s failed", to), err)
		return false
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(fmt.Sprintf("whapi returned status %d for %s: %s", resp.StatusCode, to, reply))
		return false
	}
	if ok, reason := acceptedByGateway(reply); !ok {
		c.log.Warn(fmt.Sprintf("whapi rejected message to %s: %s %s", to, reason, reply))
		return false
	}
	c.log.Debug("message sent to " + to)
	return true
}
