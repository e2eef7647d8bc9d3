package memory

import (
	"sync"

	"github.com/jhoicas/Identity-api/internal/domain/entity"
)

// Store almacenamiento en memoria para STORAGE_DRIVER=memory y tests.
// Los repositorios guardan y devuelven copias; ningún puntero del caller queda retenido.
type Store struct {
	mu       sync.RWMutex
	users    map[string]entity.User
	orgs     map[string]entity.Organization
	sessions map[string]entity.Session

	// txMu serializa las unidades de trabajo del TxRunner.
	txMu sync.Mutex
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		orgs:     make(map[string]entity.Organization),
		sessions: make(map[string]entity.Session),
	}
}

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Organizations repositorio de organizaciones sobre el store.
func (s *Store) Organizations() *OrganizationRepository { return &OrganizationRepository{store: s} }

// Sessions repositorio de sesiones sobre el store.
func (s *Store) Sessions() *SessionRepository { return &SessionRepository{store: s} }

// TxRunner runner compensatorio sobre el store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{store: s} }

// Counts devuelve la cantidad de usuarios, organizaciones y sesiones.
func (s *Store) Counts() (users, orgs, sessions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.orgs), len(s.sessions)
}

func (s *Store) remove(w *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range w.sessions {
		delete(s.sessions, id)
	}
	for _, id := range w.users {
		delete(s.users, id)
	}
	for _, id := range w.orgs {
		delete(s.orgs, id)
	}
}
