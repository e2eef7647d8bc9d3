package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	store *Store
}

// Create inserta el usuario. Email repetido → domain.ErrEmailAlreadyExists.
func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[u.ID]; ok {
		return fmt.Errorf("usuario %s ya existe", u.ID)
	}
	if r.emailTakenLocked(u.Email, "") {
		return domain.ErrEmailAlreadyExists
	}
	r.store.users[u.ID] = *u
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// FindByEmail obtiene un usuario por email exacto.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// Update persiste Name, Email y Role.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.users[u.ID]
	if !ok {
		return nil
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return domain.ErrEmailAlreadyExists
	}
	cur.Name = u.Name
	cur.Email = u.Email
	cur.Role = u.Role
	cur.UpdatedAt = u.UpdatedAt
	r.store.users[u.ID] = cur
	return nil
}

// UpdatePassword reemplaza el hash de contraseña.
func (r *UserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if cur, ok := r.store.users[userID]; ok {
		cur.PasswordHash = passwordHash
		r.store.users[userID] = cur
	}
	return nil
}

// Deactivate marca al usuario como inactivo.
func (r *UserRepository) Deactivate(_ context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if cur, ok := r.store.users[userID]; ok {
		cur.IsActive = false
		r.store.users[userID] = cur
	}
	return nil
}

// ExistsByEmail informa si hay un usuario con ese email.
func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.emailTakenLocked(email, ""), nil
}

func (r *UserRepository) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.store.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}
