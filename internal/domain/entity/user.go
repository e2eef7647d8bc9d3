package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleEmpleado   = "EMPLEADO"
)

// User representa una cuenta del sistema (pertenece a una Organization).
// El email es único entre todas las organizaciones y se compara tal cual fue guardado.
type User struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	PasswordHash   string // bcrypt hash, nunca sale del dominio
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
