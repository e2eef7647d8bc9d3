package auth_test

import (
	"context"
	"errors"
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

const orgID = "4f1c2e0a-7b7e-4d7e-9f5e-2d7a3c1b0e11"

type clock struct{ t time.Time }

func (c *clock) Now() time.Time           { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// spyHasher cuenta las llamadas a Hash.
type spyHasher struct {
	*password.BcryptHasher
	hashCalls int
}

func (s *spyHasher) Hash(plain string) (string, error) {
	s.hashCalls++
	return s.BcryptHasher.Hash(plain)
}

type fixture struct {
	store      *memory.Store
	issuer     *jwt.Issuer
	hasher     *spyHasher
	clock      *clock
	auth       *auth.AuthUseCase
	onboarding *auth.OnboardingUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	issuer, err := jwt.NewIssuer("test-secret", "identity-api", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		store:  memory.NewStore(),
		issuer: issuer,
		hasher: &spyHasher{BcryptHasher: password.NewBcryptHasher(bcrypt.MinCost)},
		clock:  &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.auth = auth.NewAuthUseCase(
		f.store.Users(), f.store.Organizations(), f.store.Sessions(),
		f.hasher, issuer,
		auth.Options{SessionTTL: 24 * time.Hour, Now: f.clock.Now},
	)
	f.onboarding = auth.NewOnboardingUseCase(f.auth, f.store.Organizations(), f.store.Users(), f.store.TxRunner())
	return f
}

func (f *fixture) seedOrg(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.Organizations().Create(context.Background(), &entity.Organization{
		ID: orgID, RazonSocial: "Acme SA", RUC: "155-1-2026", DV: "7", Plan: entity.DefaultPlan, RegisteredAt: f.clock.Now(),
	}))
}

func (f *fixture) register(t *testing.T, email, role string) *dto.AuthResponse {
	t.Helper()
	out, err := f.auth.Register(context.Background(), dto.RegisterRequest{
		OrganizationID: orgID,
		Name:           "Ana Pérez",
		Email:          email,
		Password:       "s3cretpass",
		Role:           role,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) tokenID(t *testing.T, token string) string {
	t.Helper()
	claims, err := f.issuer.Parse(token)
	require.NoError(t, err)
	return claims.ID
}

func TestRegister_CreaUsuarioYSesion(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)

	out := f.register(t, "ana@acme.com", "")

	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, entity.RoleEmpleado, out.User.Role)
	assert.True(t, out.User.IsActive)
	assert.Equal(t, orgID, out.User.OrganizationID)

	users, _, sessions := f.store.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, sessions)

	user, err := f.auth.ValidateToken(context.Background(), f.tokenID(t, out.AccessToken))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, out.User.ID, user.ID)
}

func TestRegister_OrganizacionInexistente_NoHashea(t *testing.T) {
	f := newFixture(t)
	before := f.hasher.hashCalls

	_, err := f.auth.Register(context.Background(), dto.RegisterRequest{
		OrganizationID: orgID, Name: "Ana", Email: "ana@acme.com", Password: "s3cretpass",
	})

	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, before, f.hasher.hashCalls)
	users, _, _ := f.store.Counts()
	assert.Zero(t, users)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	f.register(t, "ana@acme.com", "")

	_, err := f.auth.Register(context.Background(), dto.RegisterRequest{
		OrganizationID: orgID, Name: "Otra Ana", Email: "ana@acme.com", Password: "otraclave1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.True(t, domain.IsConflict(err))
}

// failingIssuer no puede firmar tokens.
type failingIssuer struct{}

func (failingIssuer) Issue(jwt.Payload) (string, error) { return "", errors.New("clave no disponible") }

// Con TxRunner, si no se puede abrir la sesión el usuario tampoco queda creado.
func TestRegister_FalloDeSesionNoDejaUsuario(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	uc := auth.NewAuthUseCase(
		f.store.Users(), f.store.Organizations(), f.store.Sessions(),
		f.hasher, failingIssuer{},
		auth.Options{Now: f.clock.Now, TxRunner: f.store.TxRunner()},
	)

	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		OrganizationID: orgID, Name: "Ana", Email: "ana@acme.com", Password: "s3cretpass",
	})

	require.Error(t, err)
	assert.Nil(t, out)
	users, orgs, sessions := f.store.Counts()
	assert.Zero(t, users)
	assert.Equal(t, 1, orgs)
	assert.Zero(t, sessions)

	exists, err := f.store.Users().ExistsByEmail(context.Background(), "ana@acme.com")
	require.NoError(t, err)
	assert.False(t, exists, "el email queda libre para reintentar")
}

func TestRegister_ConTxRunner(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	uc := auth.NewAuthUseCase(
		f.store.Users(), f.store.Organizations(), f.store.Sessions(),
		f.hasher, f.issuer,
		auth.Options{Now: f.clock.Now, TxRunner: f.store.TxRunner()},
	)

	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		OrganizationID: orgID, Name: "Ana", Email: "ana@acme.com", Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{
		OrganizationID: orgID, Name: "Ana", Email: "ana@acme.com", Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	users, _, sessions := f.store.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, sessions)
}

func TestLogin_TokenConSubDelUsuario(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "admin@acme.com", entity.RoleAdmin)

	out, err := f.auth.Login(context.Background(), dto.LoginRequest{
		Email: "admin@acme.com", Password: "s3cretpass", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	claims, err := f.issuer.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.Subject)
	assert.Equal(t, "admin@acme.com", claims.Email)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, orgID, claims.OrganizationID)
}

func TestLogin_ReemplazaSesionesPrevias(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "ana@acme.com", "")
	ctx := context.Background()

	out, err := f.auth.Login(ctx, dto.LoginRequest{Email: "ana@acme.com", Password: "s3cretpass"})
	require.NoError(t, err)

	old, err := f.auth.ValidateToken(ctx, f.tokenID(t, reg.AccessToken))
	require.NoError(t, err)
	assert.Nil(t, old)

	cur, err := f.auth.ValidateToken(ctx, f.tokenID(t, out.AccessToken))
	require.NoError(t, err)
	assert.NotNil(t, cur)

	_, _, sessions := f.store.Counts()
	assert.Equal(t, 1, sessions)
}

func TestLogin_FallosIndistinguibles(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	f.register(t, "ana@acme.com", "")
	inactive := f.register(t, "beto@acme.com", "")
	require.NoError(t, f.auth.Deactivate(context.Background(), inactive.User.ID))

	cases := map[string]dto.LoginRequest{
		"contraseña incorrecta": {Email: "ana@acme.com", Password: "incorrecta1"},
		"rol distinto":          {Email: "ana@acme.com", Password: "s3cretpass", Role: entity.RoleAdmin},
		"email desconocido":     {Email: "nadie@acme.com", Password: "s3cretpass"},
		"usuario inactivo":      {Email: "beto@acme.com", Password: "s3cretpass"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := f.auth.Login(context.Background(), in)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Equal(t, "credenciales inválidas", err.Error())
		})
	}
}

func TestValidateToken_SesionVencida(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "ana@acme.com", "")
	tokenID := f.tokenID(t, reg.AccessToken)
	ctx := context.Background()

	f.clock.Advance(24 * time.Hour)
	user, err := f.auth.ValidateToken(ctx, tokenID)
	require.NoError(t, err)
	assert.NotNil(t, user, "válida mientras now <= expira_en")

	f.clock.Advance(time.Second)
	user, err = f.auth.ValidateToken(ctx, tokenID)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, _, sessions := f.store.Counts()
	assert.Zero(t, sessions)

	user, err = f.auth.ValidateToken(ctx, tokenID)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestValidateToken_Desconocido(t *testing.T) {
	f := newFixture(t)
	user, err := f.auth.ValidateToken(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogout_Idempotente(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "ana@acme.com", "")
	ctx := context.Background()

	require.NoError(t, f.auth.Logout(ctx, reg.User.ID))
	require.NoError(t, f.auth.Logout(ctx, reg.User.ID))

	user, err := f.auth.ValidateToken(ctx, f.tokenID(t, reg.AccessToken))
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestChangePassword_RevocaSesionesYPersiste(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "ana@acme.com", "")
	ctx := context.Background()

	require.NoError(t, f.auth.ChangePassword(ctx, reg.User.ID, "s3cretpass", "nuevaclave9"))

	user, err := f.auth.ValidateToken(ctx, f.tokenID(t, reg.AccessToken))
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "ana@acme.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "ana@acme.com", Password: "nuevaclave9"})
	assert.NoError(t, err)
}

func TestChangePassword_Errores(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "ana@acme.com", "")
	ctx := context.Background()

	err := f.auth.ChangePassword(ctx, reg.User.ID, "otra-cosa", "nuevaclave9")
	assert.ErrorIs(t, err, domain.ErrCurrentPasswordMismatch)
	assert.True(t, domain.IsUnauthorized(err))

	err = f.auth.ChangePassword(ctx, "no-existe", "s3cretpass", "nuevaclave9")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// la sesión sigue viva tras un intento fallido
	user, err := f.auth.ValidateToken(ctx, f.tokenID(t, reg.AccessToken))
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestDeactivate(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	reg := f.register(t, "ana@acme.com", "")
	ctx := context.Background()

	assert.ErrorIs(t, f.auth.Deactivate(ctx, "no-existe"), domain.ErrUserNotFound)

	require.NoError(t, f.auth.Deactivate(ctx, reg.User.ID))
	require.NoError(t, f.auth.Deactivate(ctx, reg.User.ID))

	user, err := f.auth.ValidateToken(ctx, f.tokenID(t, reg.AccessToken))
	require.NoError(t, err)
	assert.Nil(t, user)

	got, err := f.auth.GetUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestGetUser_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.GetUser(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.seedOrg(t)
	ana := f.register(t, "ana@acme.com", "")
	f.register(t, "beto@acme.com", "")
	ctx := context.Background()

	taken := "beto@acme.com"
	_, err := f.auth.UpdateProfile(ctx, ana.User.ID, dto.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// acentos combinados se guardan en NFC
	name := "  Jose\u0301 Nu\u0301n\u0303ez "
	email := "jose@acme.com"
	out, err := f.auth.UpdateProfile(ctx, ana.User.ID, dto.UpdateUserRequest{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Jos\u00e9 N\u00fa\u00f1ez", out.Name)
	assert.Equal(t, "jose@acme.com", out.Email)
	assert.Equal(t, entity.RoleEmpleado, out.Role)
}
