package review

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// Session is an open quiz awaiting the learner's answers. Sessions live
// only in memory; nothing is recorded until the answers come back.
type Session struct {
	ID    uuid.UUID
	Items []domain.QuizItem
	// Failed names the candidate words no question could be generated
	// for, in candidate order. They are reported, not graded.
	Failed    []string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type sessionManager struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*Session
	ttl  time.Duration
	now  func() time.Time
}

func newSessionManager(ttl time.Duration, now func() time.Time) *sessionManager {
	return &sessionManager{
		byID: make(map[uuid.UUID]*Session),
		ttl:  ttl,
		now:  now,
	}
}

func (m *sessionManager) create(items []domain.QuizItem, failed []string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()

	now := m.now()
	session := &Session{
		ID:        uuid.New(),
		Items:     items,
		Failed:    failed,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.byID[session.ID] = session
	return session
}

// claim removes the session and hands it to the caller, so a session can
// be submitted at most once. Expired or unknown sessions report
// ErrNotFound.
func (m *sessionManager) claim(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()

	session, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("quiz session %s: %w", id, domain.ErrNotFound)
	}
	delete(m.byID, id)
	return session, nil
}

func (m *sessionManager) pruneLocked() {
	now := m.now()
	for id, session := range m.byID {
		if now.After(session.ExpiresAt) {
			delete(m.byID, id)
		}
	}
}
