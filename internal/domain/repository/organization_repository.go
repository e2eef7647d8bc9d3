package repository

import (
	"context"

	"github.com/jhoicas/Identity-api/internal/domain/entity"
)

// OrganizationRepository define el puerto de persistencia para Organization (DIP).
// La implementación vive en infrastructure. Las búsquedas devuelven (nil, nil) si no hay fila.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	FindByID(ctx context.Context, id string) (*entity.Organization, error)
	FindByRUC(ctx context.Context, ruc string) (*entity.Organization, error)
	// Update persiste RazonSocial, RUC, DV y Plan de org.
	Update(ctx context.Context, org *entity.Organization) error
	ExistsByRUC(ctx context.Context, ruc string) (bool, error)
}
