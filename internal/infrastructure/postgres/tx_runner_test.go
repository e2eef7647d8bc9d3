package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
	"github.com/jhoicas/Identity-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Identity-api/pkg/jwt"
	"github.com/jhoicas/Identity-api/pkg/password"
)

func TestTxRunner_CommitYRollback(t *testing.T) {
	db, mock := newMock(t)
	runner := postgres.NewTxRunner(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO organizaciones")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.Run(ctx, func(orgs repository.OrganizationRepository, _ repository.UserRepository, _ repository.SessionRepository) error {
		return orgs.Create(ctx, &entity.Organization{ID: "o-1", RazonSocial: "Acme SA", RUC: "1", DV: "1", Plan: "Trial"})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = runner.Run(ctx, func(repository.OrganizationRepository, repository.UserRepository, repository.SessionRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

// El admin choca por email dentro de la transacción (alta concurrente tras el prechequeo):
// la organización no se confirma.
func TestOnboarding_RollbackSiFallaElAdmin(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()
	now := time.Now()

	issuer, err := jwt.NewIssuer("secret", "identity-api", time.Hour)
	require.NoError(t, err)
	orgRepo := postgres.NewOrganizationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authUC := auth.NewAuthUseCase(userRepo, orgRepo, postgres.NewSessionRepository(db),
		password.NewBcryptHasher(bcrypt.MinCost), issuer, auth.Options{})
	onboarding := auth.NewOnboardingUseCase(authUC, orgRepo, userRepo, postgres.NewTxRunner(db))

	exists := func(v bool) *sqlmock.Rows { return sqlmock.NewRows([]string{"exists"}).AddRow(v) }
	mock.ExpectQuery(regexp.QuoteMeta("FROM organizaciones WHERE ruc = $1")).WithArgs("8-123").WillReturnRows(exists(false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE email = $1")).WithArgs("admin@acme.com").WillReturnRows(exists(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO organizaciones")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM organizaciones WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(orgCols).AddRow("o-1", "Acme SA", "8-123", "12", "Trial", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE email = $1")).WithArgs("admin@acme.com").WillReturnRows(exists(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO usuarios")).WillReturnError(uniqueViolation())
	mock.ExpectRollback()

	out, err := onboarding.CreateOrganizationWithAdmin(ctx,
		dto.OnboardingCompanyRequest{RazonSocial: "Acme SA", RUC: "8-123", DV: "12"},
		dto.AdminUserRequest{Name: "Ana Admin", Email: "admin@acme.com", Password: "s3cretpass"},
	)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
