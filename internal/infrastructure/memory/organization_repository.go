package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepository)(nil)

// OrganizationRepository implementación en memoria de repository.OrganizationRepository.
type OrganizationRepository struct {
	store *Store
}

// Create inserta la organización. RUC repetido → domain.ErrRUCAlreadyExists.
func (r *OrganizationRepository) Create(_ context.Context, o *entity.Organization) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.orgs[o.ID]; ok {
		return fmt.Errorf("organización %s ya existe", o.ID)
	}
	if r.rucTakenLocked(o.RUC, "") {
		return domain.ErrRUCAlreadyExists
	}
	r.store.orgs[o.ID] = *o
	return nil
}

func (r *OrganizationRepository) FindByID(_ context.Context, id string) (*entity.Organization, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	o, ok := r.store.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrganizationRepository) FindByRUC(_ context.Context, ruc string) (*entity.Organization, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, o := range r.store.orgs {
		if o.RUC == ruc {
			return &o, nil
		}
	}
	return nil, nil
}

// Update persiste RazonSocial, RUC, DV y Plan.
func (r *OrganizationRepository) Update(_ context.Context, o *entity.Organization) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.orgs[o.ID]
	if !ok {
		return nil
	}
	if r.rucTakenLocked(o.RUC, o.ID) {
		return domain.ErrRUCAlreadyExists
	}
	cur.RazonSocial = o.RazonSocial
	cur.RUC = o.RUC
	cur.DV = o.DV
	cur.Plan = o.Plan
	r.store.orgs[o.ID] = cur
	return nil
}

func (r *OrganizationRepository) ExistsByRUC(_ context.Context, ruc string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.rucTakenLocked(ruc, ""), nil
}

func (r *OrganizationRepository) rucTakenLocked(ruc, exceptID string) bool {
	for id, o := range r.store.orgs {
		if o.RUC == ruc && id != exceptID {
			return true
		}
	}
	return false
}
