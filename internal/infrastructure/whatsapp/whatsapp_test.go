package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"qurainbot/internal/pkg/config"
	"qurainbot/internal/pkg/logger"
)

func TestUltraMsgClient_Send(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		want   bool
	}{
		{name: "sent true", status: http.StatusOK, reply: `{"sent":"true","message":"ok","id":1}`, want: true},
		{name: "sent flag absent", status: http.StatusOK, reply: `{"message":"queued"}`, want: true},
		{name: "sent false", status: http.StatusOK, reply: `{"sent":"false"}`, want: false},
		{name: "error key", status: http.StatusOK, reply: `{"error":"Wrong token"}`, want: false},
		{name: "server error", status: http.StatusInternalServerError, reply: `oops`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form map[string]string
			var path string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				assert.NoError(t, r.ParseForm())
				form = map[string]string{
					"token": r.PostForm.Get("token"),
					"to":    r.PostForm.Get("to"),
					"body":  r.PostForm.Get("body"),
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.reply))
			}))
			defer srv.Close()

			c := NewUltraMsgClient(srv.URL+"/", "instance42", "secret", srv.Client(), logger.Nop())
			got := c.Send(context.Background(), "966500000001@c.us", "⏰ تذكير")

			assert.Equal(t, tt.want, got)
			assert.Equal(t, "/instance42/messages/chat", path)
			assert.Equal(t, "secret", form["token"])
			assert.Equal(t, "966500000001@c.us", form["to"])
			assert.Equal(t, "⏰ تذكير", form["body"])
		})
	}
}

func TestUltraMsgClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewUltraMsgClient(url, "i", "t", &http.Client{Timeout: time.Second}, logger.Nop())
	assert.False(t, c.Send(context.Background(), "x", "y"))
}

func TestWhapiClient_Send(t *testing.T) {
	var got whapiTextMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/text", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sent":true,"message":{"id":"abc"}}`))
	}))
	defer srv.Close()

	c := NewWhapiClient(srv.URL, "tok", srv.Client(), logger.Nop())
	assert.True(t, c.Send(context.Background(), "966500000001", "hello"))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, whapiTextMessage{To: "966500000001", Body: "hello"}, got)
}

func TestWhapiClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401}}`))
	}))
	defer srv.Close()

	c := NewWhapiClient(srv.URL, "bad", srv.Client(), logger.Nop())
	assert.False(t, c.Send(context.Background(), "966500000001", "hello"))
}

type fakeMessageCreator struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessageCreator) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	return &twilioApi.ApiV2010Message{}, f.err
}

func TestTwilioClient_Send(t *testing.T) {
	fake := &fakeMessageCreator{}
	c := newTwilioClient(fake, "+14155238886", logger.Nop())

	assert.True(t, c.Send(context.Background(), "whatsapp:+966500000001", "hi"))
	assert.True(t, c.Send(context.Background(), "+966500000002", "hi"))
	require.Len(t, fake.params, 2)
	assert.Equal(t, "whatsapp:+966500000001", *fake.params[0].To)
	assert.Equal(t, "whatsapp:+966500000002", *fake.params[1].To)
	assert.Equal(t, "whatsapp:+14155238886", *fake.params[0].From)
	assert.Equal(t, "hi", *fake.params[0].Body)

	fake.err = errors.New("boom")
	assert.False(t, c.Send(context.Background(), "+966500000001", "hi"))
}

func TestNewTwilioClient_RequiresCredentials(t *testing.T) {
	_, err := NewTwilioClient("", "", "+1", logger.Nop())
	assert.Error(t, err)
	_, err = NewTwilioClient("AC1", "tok", "", logger.Nop())
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{Vendor: config.VendorWhapi, WhapiBaseURL: "http://localhost", WhapiToken: "t", HTTPClientTimeout: time.Second}
	s, err := NewFromConfig(cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &WhapiClient{}, s)

	cfg.Vendor = config.VendorNone
	s, err = NewFromConfig(cfg, logger.Nop())
	require.NoError(t, err)
	assert.True(t, s.Send(context.Background(), "a", "b"))

	cfg.Vendor = "pigeon"
	_, err = NewFromConfig(cfg, logger.Nop())
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.FailNext(1)
	r.FailFor("blocked")

	assert.False(t, r.Send(context.Background(), "a", "1"))
	assert.True(t, r.Send(context.Background(), "a", "2"))
	assert.False(t, r.Send(context.Background(), "blocked", "3"))

	assert.Equal(t, 3, r.Attempts())
	assert.Equal(t, []Message{{To: "a", Body: "2"}}, r.Sent())
	assert.Equal(t, []string{"2"}, r.SentTo("a"))
}
