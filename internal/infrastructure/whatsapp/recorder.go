package whatsapp

import (
	"context"
	"sync"
)

// Message is one delivery captured by Recorder.
type Message struct {
	To   string
	Body string
}

// Recorder is an in-memory Sender for tests. FailFor makes every send to the
// given recipient fail; FailNext makes the next n sends fail regardless of
// recipient.
type Recorder struct {
	mu       sync.Mutex
	sent     []Message
	attempts int
	failFor  map[string]bool
	failNext int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{failFor: make(map[string]bool)}
}

func (r *Recorder) Send(_ context.Context, to, body string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts++
	if r.failFor[to] {
		return false
	}
	if r.failNext > 0 {
		r.failNext--
		return false
	}
	r.sent = append(r.sent, Message{To: to, Body: body})
	return true
}

// FailFor makes all sends to recipient fail.
func (r *Recorder) FailFor(recipient string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failFor[recipient] = true
}

// FailNext makes the next n sends fail.
func (r *Recorder) FailNext(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = n
}

// Sent returns a copy of the successfully delivered messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// SentTo returns the delivered message bodies for one recipient.
func (r *Recorder) SentTo(recipient string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.sent {
		if m.To == recipient {
			out = append(out, m.Body)
		}
	}
	return out
}

// Attempts returns the number of Send calls, failed ones included.
func (r *Recorder) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}
