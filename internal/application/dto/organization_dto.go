package dto

import "time"

// OnboardingCompanyRequest datos de la empresa a dar de alta.
type OnboardingCompanyRequest struct {
	RazonSocial  string  `json:"razonSocial" validate:"required,min=1,max=255"`
	RUC          string  `json:"ruc" validate:"required,min=1,max=50"`
	DV           string  `json:"dv" validate:"required,min=1,max=2"`
	Subscripcion *string `json:"subscripcion,omitempty" validate:"omitempty,max=50"`
}

// AdminUserRequest primer usuario de la organización (queda como SUPERADMIN).
type AdminUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// CompleteOnboardingRequest cuerpo de POST /onboarding.
type CompleteOnboardingRequest struct {
	Company OnboardingCompanyRequest `json:"company" validate:"required"`
	Admin   AdminUserRequest         `json:"admin" validate:"required"`
}

// UpdateOrganizationRequest actualización parcial de una organización.
type UpdateOrganizationRequest struct {
	RazonSocial  *string `json:"razonSocial,omitempty" validate:"omitempty,min=1,max=255"`
	RUC          *string `json:"ruc,omitempty" validate:"omitempty,min=1,max=50"`
	DV           *string `json:"dv,omitempty" validate:"omitempty,min=1,max=2"`
	Subscripcion *string `json:"subscripcion,omitempty" validate:"omitempty,max=50"`
}

// OrganizationResponse salida de una organización.
type OrganizationResponse struct {
	ID            string    `json:"id"`
	RazonSocial   string    `json:"razonSocial"`
	RUC           string    `json:"ruc"`
	DV            string    `json:"dv"`
	Plan          string    `json:"plan"`
	FechaRegistro time.Time `json:"fechaRegistro"`
}

// OnboardingResponse organización creada y datos de sesión del administrador.
type OnboardingResponse struct {
	Organization OrganizationResponse `json:"organization"`
	AuthData     AuthResponse         `json:"authData"`
}

// RUCAvailabilityResponse respuesta de GET /validate-ruc/:ruc.
type RUCAvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
