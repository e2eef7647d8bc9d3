package dto

import "time"

// RegisterRequest entrada para registro de un usuario en una organización existente.
// Rol vacío equivale a EMPLEADO; IsActive nil equivale a true.
type RegisterRequest struct {
	OrganizationID string `json:"organizationId" validate:"required,uuid"`
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,min=8,max=128"`
	Role           string `json:"rol" validate:"omitempty,oneof=SUPERADMIN ADMIN EMPLEADO"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

// LoginRequest credenciales de acceso. El rol declarado debe coincidir con el del usuario.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,min=5,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"rol" validate:"omitempty,oneof=SUPERADMIN ADMIN EMPLEADO"`
}

// UpdateUserRequest actualización parcial del perfil (solo campos presentes).
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  *string `json:"rol,omitempty" validate:"omitempty,oneof=SUPERADMIN ADMIN EMPLEADO"`
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	OrganizationID string    `json:"organizationId"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AuthResponse token de acceso más el usuario autenticado.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}
