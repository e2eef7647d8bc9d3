package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implementación en memoria de repository.SessionRepository.
type SessionRepository struct {
	store *Store
}

func (r *SessionRepository) Create(_ context.Context, s *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sessions[s.ID]; ok {
		return fmt.Errorf("sesión %s ya existe", s.ID)
	}
	for _, cur := range r.store.sessions {
		if cur.TokenID == s.TokenID {
			return fmt.Errorf("token %s ya tiene sesión", s.TokenID)
		}
	}
	row := *s
	row.User = nil
	r.store.sessions[s.ID] = row
	return nil
}

// FindByTokenID devuelve la sesión con su usuario, o (nil, nil).
func (r *SessionRepository) FindByTokenID(_ context.Context, tokenID string) (*entity.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, s := range r.store.sessions {
		if s.TokenID != tokenID {
			continue
		}
		if u, ok := r.store.users[s.UserID]; ok {
			s.User = &u
		}
		return &s, nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteByUser(_ context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, s := range r.store.sessions {
		if s.UserID == userID {
			delete(r.store.sessions, id)
		}
	}
	return nil
}
