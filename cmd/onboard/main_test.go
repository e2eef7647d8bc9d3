package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/infrastructure/memory"
	"github.com/jhoicas/Identity-api/pkg/jwt"
	"github.com/jhoicas/Identity-api/pkg/password"
)

func newUseCases(t *testing.T, store *memory.Store) (*auth.AuthUseCase, *auth.OnboardingUseCase) {
	t.Helper()
	issuer, err := jwt.NewIssuer("test-secret", "identity-api", time.Hour)
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(
		store.Users(), store.Organizations(), store.Sessions(),
		password.NewBcryptHasher(bcrypt.MinCost), issuer,
		auth.Options{TxRunner: store.TxRunner()},
	)
	return authUC, auth.NewOnboardingUseCase(authUC, store.Organizations(), store.Users(), store.TxRunner())
}

// El alta por CLI no deja sesiones abiertas.
func TestOnboard_CierraSesion(t *testing.T) {
	store := memory.NewStore()
	authUC, onboardingUC := newUseCases(t, store)

	res, err := onboard(context.Background(), authUC, onboardingUC,
		dto.OnboardingCompanyRequest{RazonSocial: "Acme SA", RUC: "8-123", DV: "45"},
		dto.AdminUserRequest{Name: "Ana Admin", Email: "ana@acme.com", Password: "Secreta123!"},
	)
	require.NoError(t, err)
	assert.Equal(t, "8-123", res.Organization.RUC)
	assert.Equal(t, entity.RoleSuperAdmin, res.User.Role)
	assert.Equal(t, res.Organization.ID, res.User.OrganizationID)

	users, orgs, sessions := store.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, orgs)
	assert.Zero(t, sessions)

	// el administrador entra normalmente con login
	login, err := authUC.Login(context.Background(), dto.LoginRequest{
		Email: "ana@acme.com", Password: "Secreta123!", Role: entity.RoleSuperAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestOnboard_RUCDuplicado(t *testing.T) {
	store := memory.NewStore()
	authUC, onboardingUC := newUseCases(t, store)
	company := dto.OnboardingCompanyRequest{RazonSocial: "Acme SA", RUC: "8-123", DV: "45"}

	_, err := onboard(context.Background(), authUC, onboardingUC, company,
		dto.AdminUserRequest{Name: "Ana Admin", Email: "ana@acme.com", Password: "Secreta123!"})
	require.NoError(t, err)

	_, err = onboard(context.Background(), authUC, onboardingUC, company,
		dto.AdminUserRequest{Name: "Bob", Email: "bob@acme.com", Password: "Secreta123!"})
	assert.True(t, domain.IsConflict(err))
}
