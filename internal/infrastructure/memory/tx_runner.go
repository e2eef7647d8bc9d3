package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
)

var _ auth.TxRunner = (*TxRunner)(nil)

// TxRunner unidad de trabajo compensatoria: registra las altas hechas dentro de fn
// y las elimina si fn retorna error. Solo las altas se compensan.
type TxRunner struct {
	store *Store
}

// journal altas realizadas dentro de una unidad de trabajo.
type journal struct {
	mu       sync.Mutex
	orgs     []string
	users    []string
	sessions []string
}

func (j *journal) add(list *[]string, id string) {
	j.mu.Lock()
	*list = append(*list, id)
	j.mu.Unlock()
}

// Run ejecuta fn con repositorios que anotan sus altas y compensa si fn falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	w := &journal{}
	orgRepo := &journalOrgRepo{OrganizationRepository: r.store.Organizations(), w: w}
	userRepo := &journalUserRepo{UserRepository: r.store.Users(), w: w}
	sessionRepo := &journalSessionRepo{SessionRepository: r.store.Sessions(), w: w}

	if err := fn(orgRepo, userRepo, sessionRepo); err != nil {
		r.store.remove(w)
		return err
	}
	return nil
}

type journalOrgRepo struct {
	*OrganizationRepository
	w *journal
}

func (r *journalOrgRepo) Create(ctx context.Context, o *entity.Organization) error {
	if err := r.OrganizationRepository.Create(ctx, o); err != nil {
		return err
	}
	r.w.add(&r.w.orgs, o.ID)
	return nil
}

type journalUserRepo struct {
	*UserRepository
	w *journal
}

func (r *journalUserRepo) Create(ctx context.Context, u *entity.User) error {
	if err := r.UserRepository.Create(ctx, u); err != nil {
		return err
	}
	r.w.add(&r.w.users, u.ID)
	return nil
}

type journalSessionRepo struct {
	*SessionRepository
	w *journal
}

func (r *journalSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	if err := r.SessionRepository.Create(ctx, s); err != nil {
		return err
	}
	r.w.add(&r.w.sessions, s.ID)
	return nil
}
