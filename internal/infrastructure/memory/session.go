package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"gorm.io/datatypes"

	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
)

// SessionRepository keeps sessions in process memory. State is lost on
// restart and is not shared between instances; use the database backend
// when running more than one replica.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates an empty in-memory session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]entity.Session)}
}

func (r *SessionRepository) Get(_ context.Context, userID string, now time.Time) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	if !s.ExpiresAt.After(now) {
		delete(r.sessions, userID)
		return nil, nil
	}
	out := clone(s)
	return &out, nil
}

func (r *SessionRepository) Upsert(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.UserID] = clone(*session)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
	return nil
}

func (r *SessionRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// The history slice is the only shared reference inside a session.
func clone(s entity.Session) entity.Session {
	d := s.Dialog.Data()
	d.History = slices.Clone(d.History)
	s.Dialog = datatypes.NewJSONType(d)
	return s
}
