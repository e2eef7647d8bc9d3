// onboard da de alta una organización con su SUPERADMIN contra la base configurada.
//
// Uso:
//
//	ONBOARD_PASSWORD=... go run ./cmd/onboard --razon-social "Acme SA" --ruc 8-123 --dv 45 \
//	    --name "Ana Admin" --email ana@acme.com [--plan Pro]
//
// Escribe en stdout el JSON de la organización creada y el usuario (sin token).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Identity-api/pkg/config"
	"github.com/jhoicas/Identity-api/pkg/jwt"
	"github.com/jhoicas/Identity-api/pkg/logger"
	"github.com/jhoicas/Identity-api/pkg/password"
)

type result struct {
	Organization dto.OrganizationResponse `json:"organization"`
	User         dto.UserResponse         `json:"user"`
}

func main() {
	var (
		company dto.OnboardingCompanyRequest
		admin   dto.AdminUserRequest
		plan    string
	)
	fs := pflag.NewFlagSet("onboard", pflag.ExitOnError)
	fs.StringVar(&company.RazonSocial, "razon-social", "", "razón social de la organización")
	fs.StringVar(&company.RUC, "ruc", "", "RUC de la organización")
	fs.StringVar(&company.DV, "dv", "", "dígito verificador")
	fs.StringVar(&plan, "plan", "", "plan de suscripción (por defecto Trial)")
	fs.StringVar(&admin.Name, "name", "", "nombre del administrador")
	fs.StringVar(&admin.Email, "email", "", "email del administrador")
	_ = fs.Parse(os.Args[1:])

	// la contraseña no viaja como flag para no quedar en el historial del shell
	admin.Password = os.Getenv("ONBOARD_PASSWORD")
	if plan != "" {
		company.Subscripcion = &plan
	}

	if err := run(company, admin); err != nil {
		fmt.Fprintf(os.Stderr, "onboard: %v\n", err)
		os.Exit(1)
	}
}

func run(company dto.OnboardingCompanyRequest, admin dto.AdminUserRequest) error {
	v := validator.New()
	if err := v.Struct(company); err != nil {
		return fmt.Errorf("datos de la organización: %w", err)
	}
	if err := v.Struct(admin); err != nil {
		return fmt.Errorf("datos del administrador (ONBOARD_PASSWORD requerido): %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		return fmt.Errorf("STORAGE_DRIVER=%s no persiste; onboard requiere postgres", cfg.Storage.Driver)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	db := postgres.OpenDB(pool)
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	issuer, err := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		return err
	}
	authLog := log.Component("onboard")
	tx := postgres.NewTxRunner(db)
	users := postgres.NewUserRepository(db)
	orgs := postgres.NewOrganizationRepository(db)
	authUC := auth.NewAuthUseCase(
		users, orgs, postgres.NewSessionRepository(db),
		password.NewBcryptHasher(cfg.Security.BcryptCost), issuer,
		auth.Options{SessionTTL: cfg.Security.SessionTTL, Logger: &authLog, TxRunner: tx},
	)
	onboardingUC := auth.NewOnboardingUseCase(authUC, orgs, users, tx)

	res, err := onboard(ctx, authUC, onboardingUC, company, admin)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// onboard crea la organización con su administrador y cierra la sesión que abre el alta:
// el token no se imprime, así que nadie podría usarla.
func onboard(
	ctx context.Context,
	authUC *auth.AuthUseCase,
	onboardingUC *auth.OnboardingUseCase,
	company dto.OnboardingCompanyRequest,
	admin dto.AdminUserRequest,
) (result, error) {
	out, err := onboardingUC.CreateOrganizationWithAdmin(ctx, company, admin)
	if err != nil {
		return result{}, err
	}
	if err := authUC.Logout(ctx, out.AuthData.User.ID); err != nil {
		return result{}, fmt.Errorf("cerrar sesión del alta: %w", err)
	}
	return result{Organization: out.Organization, User: out.AuthData.User}, nil
}
