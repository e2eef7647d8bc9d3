package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

const organizationColumns = `id, razon_social, ruc, dv, plan_suscripcion, fecha_registro`

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL (tabla organizaciones).
type OrganizationRepo struct {
	db Querier
}

// NewOrganizationRepository construye el adaptador de persistencia para organizaciones.
func NewOrganizationRepository(db Querier) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// Create persiste una nueva organización. RUC repetido → domain.ErrRUCAlreadyExists.
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	query := `
		INSERT INTO organizaciones (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, o.ID, o.RazonSocial, o.RUC, o.DV, o.Plan, o.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRUCAlreadyExists
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepo) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizaciones WHERE id = $1`
	o, err := scanOrganization(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization by id: %w", err)
	}
	return o, nil
}

func (r *OrganizationRepo) FindByRUC(ctx context.Context, ruc string) (*entity.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizaciones WHERE ruc = $1`
	o, err := scanOrganization(r.db.QueryRowContext(ctx, query, ruc))
	if err != nil {
		return nil, fmt.Errorf("get organization by ruc: %w", err)
	}
	return o, nil
}

// Update persiste razón social, RUC, DV y plan.
func (r *OrganizationRepo) Update(ctx context.Context, o *entity.Organization) error {
	query := `
		UPDATE organizaciones SET razon_social = $2, ruc = $3, dv = $4, plan_suscripcion = $5
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, o.ID, o.RazonSocial, o.RUC, o.DV, o.Plan)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRUCAlreadyExists
		}
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepo) ExistsByRUC(ctx context.Context, ruc string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM organizaciones WHERE ruc = $1)`
	if err := r.db.QueryRowContext(ctx, query, ruc).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists organization by ruc: %w", err)
	}
	return exists, nil
}

func scanOrganization(row *sql.Row) (*entity.Organization, error) {
	var o entity.Organization
	err := row.Scan(&o.ID, &o.RazonSocial, &o.RUC, &o.DV, &o.Plan, &o.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
