package auth

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
)

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}

func toOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:            o.ID,
		RazonSocial:   o.RazonSocial,
		RUC:           o.RUC,
		DV:            o.DV,
		Plan:          o.Plan,
		FechaRegistro: o.RegisteredAt,
	}
}

// normalizeText recorta espacios y lleva a NFC nombres y razones sociales.
// Email y RUC no pasan por aquí: se comparan tal cual.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
