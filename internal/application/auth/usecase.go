package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
	"github.com/jhoicas/Identity-api/pkg/ids"
	"github.com/jhoicas/Identity-api/pkg/jwt"
	"github.com/jhoicas/Identity-api/pkg/metrics"
)

// DefaultSessionTTL vigencia de una sesión cuando Options no la indica.
const DefaultSessionTTL = 24 * time.Hour

// dummyPassword se hashea al construir el caso de uso; los logins con email desconocido
// verifican contra ese hash para que la latencia no revele si la cuenta existe.
const dummyPassword = "identity-api/dummy-password"

// Options dependencias opcionales del caso de uso.
type Options struct {
	SessionTTL time.Duration
	Now        func() time.Time
	Logger     *zerolog.Logger
	Metrics    *metrics.Metrics

	// TxRunner, si está presente, envuelve Register para que usuario y sesión se
	// persistan juntos. Sin él Register escribe directo en los repositorios.
	TxRunner TxRunner
}

// AuthUseCase casos de uso de autenticación: registro, login, sesiones y cuenta.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	sessionRepo repository.SessionRepository
	hasher      PasswordHasher
	tokens      TokenIssuer

	sessionTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
	metrics    *metrics.Metrics
	txRunner   TxRunner
	dummyHash  string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	sessionRepo repository.SessionRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	opts Options,
) *AuthUseCase {
	uc := &AuthUseCase{
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		sessionTTL:  opts.SessionTTL,
		now:         opts.Now,
		log:         zerolog.Nop(),
		metrics:     opts.Metrics,
		txRunner:    opts.TxRunner,
	}
	if uc.sessionTTL <= 0 {
		uc.sessionTTL = DefaultSessionTTL
	}
	if uc.now == nil {
		uc.now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Logger != nil {
		uc.log = *opts.Logger
	}
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo precalcular el hash de relleno")
	}
	uc.dummyHash = dummy
	return uc
}

// Register crea un usuario en una organización existente y abre su primera sesión.
// La organización se valida antes de hashear la contraseña.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	var (
		out *dto.AuthResponse
		err error
	)
	if uc.txRunner != nil {
		err = uc.txRunner.Run(ctx, func(
			orgRepo repository.OrganizationRepository,
			userRepo repository.UserRepository,
			sessionRepo repository.SessionRepository,
		) error {
			var txErr error
			out, txErr = uc.RegisterInTx(ctx, orgRepo, userRepo, sessionRepo, in)
			return txErr
		})
		if err != nil {
			out = nil
		}
	} else {
		out, err = uc.RegisterInTx(ctx, uc.orgRepo, uc.userRepo, uc.sessionRepo, in)
	}
	uc.metrics.AuthOperation("register", resultOf(err))
	return out, err
}

// RegisterInTx ejecuta el registro con los repositorios del caller (misma transacción).
// Si retorna error, el caller debe hacer rollback.
func (uc *AuthUseCase) RegisterInTx(
	ctx context.Context,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	in dto.RegisterRequest,
) (*dto.AuthResponse, error) {
	org, err := orgRepo.FindByID(ctx, in.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("buscar organización: %w", err)
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}
	exists, err := userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("verificar email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleEmpleado
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := uc.now()
	user := &entity.User{
		ID:             ids.NewID(),
		OrganizationID: org.ID,
		Name:           normalizeText(in.Name),
		Email:          in.Email,
		PasswordHash:   hash,
		Role:           role,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.openSession(ctx, sessionRepo, user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("organization_id", org.ID).Msg("usuario registrado")
	return &dto.AuthResponse{AccessToken: token, User: *toUserResponse(user)}, nil
}

// Login valida credenciales y rol, revoca las sesiones previas y abre una nueva.
// Email desconocido, usuario inactivo, rol distinto y contraseña incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		uc.metrics.AuthOperation("login", metrics.ResultError)
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleEmpleado
	}

	if user == nil {
		uc.hasher.Verify(in.Password, uc.dummyHash)
		return nil, uc.rejectLogin("email desconocido", "")
	}
	// La contraseña se verifica siempre, aunque el resultado ya esté decidido por estado o rol.
	passwordOK := uc.hasher.Verify(in.Password, user.PasswordHash)
	switch {
	case !user.IsActive:
		return nil, uc.rejectLogin("usuario inactivo", user.ID)
	case user.Role != role:
		return nil, uc.rejectLogin("rol distinto", user.ID)
	case !passwordOK:
		return nil, uc.rejectLogin("contraseña incorrecta", user.ID)
	}

	if err := uc.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		uc.metrics.AuthOperation("login", metrics.ResultError)
		return nil, fmt.Errorf("revocar sesiones: %w", err)
	}
	token, err := uc.openSession(ctx, uc.sessionRepo, user)
	if err != nil {
		uc.metrics.AuthOperation("login", metrics.ResultError)
		return nil, err
	}
	uc.metrics.AuthOperation("login", metrics.ResultOK)
	uc.log.Debug().Str("user_id", user.ID).Msg("login exitoso")
	return &dto.AuthResponse{AccessToken: token, User: *toUserResponse(user)}, nil
}

func (uc *AuthUseCase) rejectLogin(reason, userID string) error {
	uc.metrics.AuthOperation("login", metrics.ResultRejected)
	uc.log.Debug().Str("reason", reason).Str("user_id", userID).Msg("login rechazado")
	return domain.ErrInvalidCredentials
}

// ValidateToken resuelve el identificador de token a su usuario.
// Devuelve (nil, nil) si la sesión no existe o venció; la sesión vencida se elimina.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID string) (*entity.User, error) {
	session, err := uc.sessionRepo.FindByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("buscar sesión: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(uc.now()) {
		if err := uc.sessionRepo.Delete(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("eliminar sesión vencida: %w", err)
		}
		uc.metrics.SessionExpired()
		return nil, nil
	}
	if session.User != nil {
		return session.User, nil
	}
	return uc.userRepo.FindByID(ctx, session.UserID)
}

// Logout elimina todas las sesiones del usuario. Es idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	if err := uc.sessionRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revocar sesiones: %w", err)
	}
	uc.metrics.AuthOperation("logout", metrics.ResultOK)
	return nil
}

// ChangePassword verifica la contraseña actual, persiste la nueva y revoca todas las sesiones.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if !uc.hasher.Verify(oldPassword, user.PasswordHash) {
		uc.metrics.AuthOperation("change_password", metrics.ResultRejected)
		return domain.ErrCurrentPasswordMismatch
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash de contraseña: %w", err)
	}
	if err := uc.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := uc.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revocar sesiones: %w", err)
	}
	uc.metrics.AuthOperation("change_password", metrics.ResultOK)
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña actualizada")
	return nil
}

// Deactivate marca al usuario como inactivo y revoca sus sesiones. Repetirlo no es error.
func (uc *AuthUseCase) Deactivate(ctx context.Context, userID string) error {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.userRepo.Deactivate(ctx, user.ID); err != nil {
		return err
	}
	if err := uc.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revocar sesiones: %w", err)
	}
	uc.metrics.AuthOperation("deactivate", metrics.ResultOK)
	uc.log.Info().Str("user_id", user.ID).Msg("usuario desactivado")
	return nil
}

// GetUser obtiene el usuario por ID.
func (uc *AuthUseCase) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// UpdateProfile actualiza nombre, email y rol (solo los campos presentes).
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil && *in.Email != user.Email {
		exists, err := uc.userRepo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, fmt.Errorf("verificar email: %w", err)
		}
		if exists {
			return nil, domain.ErrEmailAlreadyExists
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = normalizeText(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) findUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// openSession firma el token con un identificador nuevo y persiste la sesión que lo respalda.
func (uc *AuthUseCase) openSession(ctx context.Context, sessionRepo repository.SessionRepository, user *entity.User) (string, error) {
	tokenID := ids.NewTokenID()
	token, err := uc.tokens.Issue(jwt.Payload{
		Subject:        user.ID,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		TokenID:        tokenID,
	})
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	now := uc.now()
	session := &entity.Session{
		ID:        ids.NewID(),
		UserID:    user.ID,
		TokenID:   tokenID,
		ExpiresAt: now.Add(uc.sessionTTL),
		CreatedAt: now,
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("crear sesión: %w", err)
	}
	return token, nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case domain.KindOf(err) != "":
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
