package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación del puerto SessionRepository sobre PostgreSQL (tabla sesiones).
type SessionRepo struct {
	db Querier
}

// NewSessionRepository construye el adaptador de persistencia para sesiones.
func NewSessionRepository(db Querier) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sesiones (id, usuario_id, token_id, expira_en, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.TokenID, s.ExpiresAt, s.CreatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByTokenID devuelve la sesión junto con su usuario, o (nil, nil).
func (r *SessionRepo) FindByTokenID(ctx context.Context, tokenID string) (*entity.Session, error) {
	query := `
		SELECT s.id, s.usuario_id, s.token_id, s.expira_en, s.created_at,
		       u.id, u.organizacion_id, u.nombre_completo, u.email, u.password_hash, u.rol, u.activo, u.fecha_creacion, u.updated_at
		FROM sesiones s
		JOIN usuarios u ON u.id = s.usuario_id
		WHERE s.token_id = $1`
	var s entity.Session
	var u entity.User
	err := r.db.QueryRowContext(ctx, query, tokenID).Scan(
		&s.ID, &s.UserID, &s.TokenID, &s.ExpiresAt, &s.CreatedAt,
		&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	s.User = &u
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sesiones WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUser borra todas las sesiones del usuario; cero filas no es error.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sesiones WHERE usuario_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
