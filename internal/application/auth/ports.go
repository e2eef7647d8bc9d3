package auth

import (
	"context"

	"github.com/jhoicas/Identity-api/internal/domain/repository"
	"github.com/jhoicas/Identity-api/pkg/jwt"
)

// PasswordHasher hashea y verifica contraseñas. Verify no distingue hash malformado de contraseña incorrecta.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenIssuer firma tokens de acceso.
type TokenIssuer interface {
	Issue(p jwt.Payload) (string, error)
}

// TxRunner ejecuta fn con repositorios atados a una misma unidad de trabajo.
// Si fn retorna error no debe quedar persistido nada de lo escrito dentro de fn.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
		sessionRepo repository.SessionRepository,
	) error) error
}
