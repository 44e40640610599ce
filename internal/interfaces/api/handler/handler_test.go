package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qurainbot/internal/application/dto"
	"qurainbot/internal/infrastructure/whatsapp"
	"qurainbot/internal/pkg/logger"
)

type call struct {
	user string
	text string
}

type fakeConversation struct {
	mu    sync.Mutex
	calls []call
	reply string
}

func (f *fakeConversation) HandleMessage(_ context.Context, userID, text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{user: userID, text: text})
	return f.reply
}

type fakeDispatcher struct {
	result dto.DispatchResult
	runs   int
}

func (f *fakeDispatcher) RunOnce(context.Context) dto.DispatchResult {
	f.runs++
	return f.result
}

func postJSON(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))
	return rec
}

func TestWebhookHandler_PayloadShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantUser string
		wantText string
	}{
		{
			name:     "ultramsg",
			body:     `{"event_type":"message_received","data":{"from":"966500000001@c.us","body":" 20 ","fromMe":false}}`,
			wantUser: "966500000001@c.us",
			wantText: "20",
		},
		{
			name:     "whapi",
			body:     `{"messages":[{"from":"966500000002","from_me":false,"text":{"body":"منبه"}}]}`,
			wantUser: "966500000002",
			wantText: "منبه",
		},
		{
			name:     "generic",
			body:     `{"sender":"966500000003","message":"1"}`,
			wantUser: "966500000003",
			wantText: "1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConversation{reply: "أهلاً"}
			sender := whatsapp.NewRecorder()
			h := NewWebhookHandler(conv, sender, logger.Nop())

			rec := postJSON(t, h, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"reply":"أهلاً"}`, rec.Body.String())

			require.Len(t, conv.calls, 1)
			assert.Equal(t, call{user: tt.wantUser, text: tt.wantText}, conv.calls[0])
			assert.Equal(t, []string{"أهلاً"}, sender.SentTo(tt.wantUser))
		})
	}
}

func TestWebhookHandler_Ignored(t *testing.T) {
	bodies := map[string]string{
		"empty object":     `{}`,
		"missing body":     `{"data":{"from":"966500000001@c.us"}}`,
		"own ultramsg msg": `{"data":{"from":"966500000001@c.us","body":"hi","fromMe":true}}`,
		"own whapi msg":    `{"messages":[{"from":"966500000002","from_me":true,"text":{"body":"hi"}}]}`,
		"whapi image":      `{"messages":[{"from":"966500000002","type":"image"}]}`,
		"malformed":        `{"data":`,
		"no body":          ``,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			conv := &fakeConversation{reply: "x"}
			sender := whatsapp.NewRecorder()
			h := NewWebhookHandler(conv, sender, logger.Nop())

			rec := postJSON(t, h, body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
			assert.Empty(t, conv.calls)
			assert.Zero(t, sender.Attempts())
		})
	}
}

func TestWebhookHandler_TwilioForm(t *testing.T) {
	conv := &fakeConversation{reply: "تم"}
	sender := whatsapp.NewRecorder()
	h := NewWebhookHandler(conv, sender, logger.Nop())

	form := url.Values{"From": {"whatsapp:+966500000004"}, "Body": {"0"}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, conv.calls, 1)
	assert.Equal(t, call{user: "+966500000004", text: "0"}, conv.calls[0])
}

func TestWebhookHandler_SendFailureStillReplies(t *testing.T) {
	conv := &fakeConversation{reply: "تم"}
	sender := whatsapp.NewRecorder()
	sender.FailFor("966500000001@c.us")
	h := NewWebhookHandler(conv, sender, logger.Nop())

	rec := postJSON(t, h, `{"data":{"from":"966500000001@c.us","body":"0"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply":"تم"}`, rec.Body.String())
	assert.Equal(t, 1, sender.Attempts())
}

func TestDispatchHandler_RunReminders(t *testing.T) {
	result := dto.NewDispatchResult(dto.DispatchStatusOK)
	result.SentCount = 2
	d := &fakeDispatcher{result: result}
	h := NewDispatchHandler(d, logger.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/send_reminders", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.RunReminders(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sent_count":2,"errors":[]}`, rec.Body.String())
	assert.Equal(t, 1, d.runs)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Equal(t, "OK", rec.Body.String())
}
