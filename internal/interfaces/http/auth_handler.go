package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Identity-api/internal/application/auth"
	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
)

// AuthHandler maneja onboarding, autenticación, cuenta y organización.
type AuthHandler struct {
	auth       *auth.AuthUseCase
	onboarding *auth.OnboardingUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(authUC *auth.AuthUseCase, onboardingUC *auth.OnboardingUseCase) *AuthHandler {
	return &AuthHandler{auth: authUC, onboarding: onboardingUC}
}

// Onboarding godoc
// @Summary      Alta de organización con su administrador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompleteOnboardingRequest  true  "company, admin"
// @Success      201   {object}  dto.OnboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/onboarding [post]
func (h *AuthHandler) Onboarding(c *fiber.Ctx) error {
	var in dto.CompleteOnboardingRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.onboarding.CreateOrganizationWithAdmin(c.UserContext(), in.Company, in.Admin)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "organizationId, name, email, password, rol"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.auth.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password, rol"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca todas las sesiones del usuario)
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada exitosamente"})
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.auth.GetUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateMe godoc
// @Summary      Actualizar perfil (nombre, email; rol solo SUPERADMIN)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/me [patch]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if in.Role != nil && *in.Role != GetRole(c) && GetRole(c) != entity.RoleSuperAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo un SUPERADMIN puede cambiar roles"})
	}
	out, err := h.auth.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña (cierra todas las sesiones)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "oldPassword, newPassword"
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/change-password [patch]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), GetUserID(c), in.OldPassword, in.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Contraseña actualizada exitosamente"})
}

// Deactivate godoc
// @Summary      Desactivar usuario de la misma organización
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/deactivate/{userId} [delete]
func (h *AuthHandler) Deactivate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	target, err := h.auth.GetUser(ctx, c.Params("userId"))
	if err != nil {
		return writeError(c, err)
	}
	if target.OrganizationID != GetOrganizationID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el usuario pertenece a otra organización"})
	}
	if err := h.auth.Deactivate(ctx, target.ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Usuario desactivado exitosamente"})
}

// ValidateRUC godoc
// @Summary      Disponibilidad de un RUC
// @Tags         auth
// @Produce      json
// @Param        ruc  path  string  true  "RUC"
// @Success      200  {object}  dto.RUCAvailabilityResponse
// @Router       /api/auth/validate-ruc/{ruc} [get]
func (h *AuthHandler) ValidateRUC(c *fiber.Ctx) error {
	available, err := h.onboarding.ValidateRUCAvailable(c.UserContext(), c.Params("ruc"))
	if err != nil {
		return writeError(c, err)
	}
	msg := "RUC ya registrado"
	if available {
		msg = "RUC disponible"
	}
	return c.JSON(dto.RUCAvailabilityResponse{Available: available, Message: msg})
}

// GetOrganization godoc
// @Summary      Obtener organización
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la organización"
// @Success      200  {object}  dto.OrganizationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/auth/organization/{id} [get]
func (h *AuthHandler) GetOrganization(c *fiber.Ctx) error {
	out, err := h.onboarding.GetOrganization(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateOrganization godoc
// @Summary      Actualizar la organización propia
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                         true  "ID de la organización"
// @Param        body  body  dto.UpdateOrganizationRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/organization/{id} [patch]
func (h *AuthHandler) UpdateOrganization(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.onboarding.UpdateOrganization(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
