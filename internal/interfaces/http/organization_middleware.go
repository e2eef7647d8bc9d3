package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Identity-api/internal/application/dto"
)

// RequireOwnOrganization exige que el parámetro de ruta param coincida con la organización del token.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si no hay organization_id en el contexto.
//   - 403 si la organización pedida es otra.
func RequireOwnOrganization(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID := GetOrganizationID(c)
		if orgID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "organization_id no encontrado en la sesión",
			})
		}
		if c.Params(param) != orgID {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "la organización no corresponde al usuario autenticado",
			})
		}
		return c.Next()
	}
}
