package entity

import "time"

// DefaultPlan se asigna cuando el onboarding no indica plan de suscripción.
const DefaultPlan = "Trial"

// Organization representa un tenant del sistema.
type Organization struct {
	ID           string
	RazonSocial  string
	RUC          string // identificador tributario, único
	DV           string // dígito verificador (1 o 2 caracteres)
	Plan         string
	RegisteredAt time.Time
}

// OrganizationPatch actualización parcial: solo los campos no nil sobrescriben.
type OrganizationPatch struct {
	RazonSocial *string
	RUC         *string
	DV          *string
	Plan        *string
}

// Apply aplica el patch sobre o.
func (p OrganizationPatch) Apply(o *Organization) {
	if p.RazonSocial != nil {
		o.RazonSocial = *p.RazonSocial
	}
	if p.RUC != nil {
		o.RUC = *p.RUC
	}
	if p.DV != nil {
		o.DV = *p.DV
	}
	if p.Plan != nil {
		o.Plan = *p.Plan
	}
}
