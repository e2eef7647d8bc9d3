package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
	"github.com/jhoicas/Identity-api/internal/infrastructure/memory"
	"github.com/jhoicas/Identity-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Identity-api/internal/interfaces/http"
	"github.com/jhoicas/Identity-api/pkg/config"
	"github.com/jhoicas/Identity-api/pkg/jwt"
	"github.com/jhoicas/Identity-api/pkg/logger"
	"github.com/jhoicas/Identity-api/pkg/metrics"
	"github.com/jhoicas/Identity-api/pkg/password"
)

// storage repositorios y runner transaccional del backend elegido.
type storage struct {
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	sessions repository.SessionRepository
	tx       auth.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.Storage.Driver == config.StoragePostgres {
		log.Info().Str("dsn", postgres.RedactDSN(cfg.DB.ConnectionString())).Msg("conectando a PostgreSQL")
	}
	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	issuer, err := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("emisor de tokens")
	}
	m := metrics.New()
	authLog := log.Component("auth")

	authUC := auth.NewAuthUseCase(
		store.users, store.orgs, store.sessions,
		password.NewBcryptHasher(cfg.Security.BcryptCost), issuer,
		auth.Options{
			SessionTTL: cfg.Security.SessionTTL,
			Logger:     &authLog,
			Metrics:    m,
			TxRunner:   store.tx,
		},
	)
	onboardingUC := auth.NewOnboardingUseCase(authUC, store.orgs, store.users, store.tx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: joinOrigins(cfg.HTTP.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "Identity API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		OnboardingUC: onboardingUC,
		Tokens:       issuer,
		Metrics:      m,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		s := memory.NewStore()
		return &storage{
			users:    s.Users(),
			orgs:     s.Organizations(),
			sessions: s.Sessions(),
			tx:       s.TxRunner(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	db := postgres.OpenDB(pool)
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, err
	}
	return &storage{
		users:    postgres.NewUserRepository(db),
		orgs:     postgres.NewOrganizationRepository(db),
		sessions: postgres.NewSessionRepository(db),
		tx:       postgres.NewTxRunner(db),
		close: func() {
			_ = db.Close()
			pool.Close()
		},
	}, nil
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
