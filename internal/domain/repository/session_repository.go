package repository

import (
	"context"

	"github.com/jhoicas/Identity-api/internal/domain/entity"
)

// SessionRepository puerto de persistencia de sesiones.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// FindByTokenID devuelve la sesión con su User cargado, o (nil, nil).
	FindByTokenID(ctx context.Context, tokenID string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser borra todas las sesiones del usuario; borrar cero filas no es error.
	DeleteByUser(ctx context.Context, userID string) error
}
