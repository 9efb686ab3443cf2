package repository

import (
	"context"
	"errors"
	"sync"

	"catsafe/internal/domain"
)

// ErrSessionNotFound is returned when the session does not exist in the store.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Update(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, id string) error
}

// MemorySessionRepository holds intake sessions in process memory. Drafts
// have no identity beyond the session, so nothing is ever written to disk.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *MemorySessionRepository) GetByID(_ context.Context, id string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (r *MemorySessionRepository) Update(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}
