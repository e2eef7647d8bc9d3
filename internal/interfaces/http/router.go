package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	OnboardingUC *auth.OnboardingUseCase
	Tokens       TokenParser
	Metrics      *metrics.Metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	authGroup := api.Group("/auth")
	h := NewAuthHandler(deps.AuthUC, deps.OnboardingUC)

	// Público
	authGroup.Post("/onboarding", h.Onboarding)
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
	authGroup.Get("/validate-ruc/:ruc", h.ValidateRUC)

	// Requieren Bearer Token con sesión vigente
	requireSession := AuthMiddleware(deps.Tokens, deps.AuthUC)
	authGroup.Post("/logout", requireSession, h.Logout)
	authGroup.Get("/me", requireSession, h.Me)
	authGroup.Patch("/me", requireSession, h.UpdateMe)
	authGroup.Patch("/change-password", requireSession, h.ChangePassword)
	authGroup.Delete("/deactivate/:userId", requireSession,
		RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Deactivate)
	authGroup.Get("/organization/:id", requireSession, h.GetOrganization)
	authGroup.Patch("/organization/:id", requireSession,
		RequireRole(entity.RoleSuperAdmin), RequireOwnOrganization("id"), h.UpdateOrganization)
}
