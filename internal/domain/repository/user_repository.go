package repository

import (
	"context"

	"github.com/jhoicas/Identity-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas por clave única devuelven (nil, nil) cuando no existe el usuario.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persiste Name, Email y Role.
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	Deactivate(ctx context.Context, userID string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
