package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Identity-api/internal/application/dto"
	"github.com/jhoicas/Identity-api/internal/domain"
	"github.com/jhoicas/Identity-api/internal/domain/entity"
	"github.com/jhoicas/Identity-api/internal/domain/repository"
	"github.com/jhoicas/Identity-api/pkg/ids"
	"github.com/jhoicas/Identity-api/pkg/metrics"
)

// OnboardingUseCase alta de organizaciones junto con su primer administrador, y consultas de organización.
type OnboardingUseCase struct {
	auth     *AuthUseCase
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	txRunner TxRunner
}

// NewOnboardingUseCase construye el caso de uso. Reutiliza reloj, logger y métricas de authUC.
func NewOnboardingUseCase(
	authUC *AuthUseCase,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	txRunner TxRunner,
) *OnboardingUseCase {
	return &OnboardingUseCase{auth: authUC, orgRepo: orgRepo, userRepo: userRepo, txRunner: txRunner}
}

// CreateOrganizationWithAdmin crea la organización y su usuario SUPERADMIN en una sola transacción.
// RUC y email se validan antes de escribir; cualquier fallo posterior revierte ambas altas.
func (uc *OnboardingUseCase) CreateOrganizationWithAdmin(
	ctx context.Context,
	company dto.OnboardingCompanyRequest,
	admin dto.AdminUserRequest,
) (*dto.OnboardingResponse, error) {
	out, err := uc.createOrganizationWithAdmin(ctx, company, admin)
	uc.auth.metrics.Onboarding(resultOf(err))
	return out, err
}

func (uc *OnboardingUseCase) createOrganizationWithAdmin(
	ctx context.Context,
	company dto.OnboardingCompanyRequest,
	admin dto.AdminUserRequest,
) (*dto.OnboardingResponse, error) {
	taken, err := uc.orgRepo.ExistsByRUC(ctx, company.RUC)
	if err != nil {
		return nil, fmt.Errorf("verificar RUC: %w", err)
	}
	if taken {
		return nil, domain.ErrRUCAlreadyExists
	}
	emailTaken, err := uc.userRepo.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("verificar email: %w", err)
	}
	if emailTaken {
		return nil, domain.ErrEmailAlreadyExists
	}

	var out *dto.OnboardingResponse
	err = uc.txRunner.Run(ctx, func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
		sessionRepo repository.SessionRepository,
	) error {
		org := &entity.Organization{
			ID:           ids.NewID(),
			RazonSocial:  normalizeText(company.RazonSocial),
			RUC:          company.RUC,
			DV:           company.DV,
			Plan:         planOrDefault(company.Subscripcion),
			RegisteredAt: uc.auth.now(),
		}
		if err := orgRepo.Create(ctx, org); err != nil {
			return err
		}

		active := true
		authData, err := uc.auth.RegisterInTx(ctx, orgRepo, userRepo, sessionRepo, dto.RegisterRequest{
			OrganizationID: org.ID,
			Name:           admin.Name,
			Email:          admin.Email,
			Password:       admin.Password,
			Role:           entity.RoleSuperAdmin,
			IsActive:       &active,
		})
		if err != nil {
			return err
		}
		out = &dto.OnboardingResponse{Organization: *toOrganizationResponse(org), AuthData: *authData}
		return nil
	})
	if err != nil {
		uc.auth.log.Warn().Err(err).Str("ruc", company.RUC).Msg("onboarding revertido")
		return nil, err
	}
	uc.auth.log.Info().
		Str("organization_id", out.Organization.ID).
		Str("user_id", out.AuthData.User.ID).
		Msg("organización creada")
	return out, nil
}

// GetOrganization obtiene una organización. Si no existe devuelve ErrOrganizationNotFoundBadRequest.
func (uc *OnboardingUseCase) GetOrganization(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	org, err := uc.findOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

// GetOrganizationByRUC devuelve (nil, nil) si no hay organización con ese RUC.
func (uc *OnboardingUseCase) GetOrganizationByRUC(ctx context.Context, ruc string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgRepo.FindByRUC(ctx, ruc)
	if err != nil {
		return nil, fmt.Errorf("buscar organización: %w", err)
	}
	return toOrganizationResponse(org), nil
}

// ValidateRUCAvailable informa si el RUC está libre.
func (uc *OnboardingUseCase) ValidateRUCAvailable(ctx context.Context, ruc string) (bool, error) {
	taken, err := uc.orgRepo.ExistsByRUC(ctx, ruc)
	if err != nil {
		return false, fmt.Errorf("verificar RUC: %w", err)
	}
	return !taken, nil
}

// ValidateOrganizationExists informa si existe la organización.
func (uc *OnboardingUseCase) ValidateOrganizationExists(ctx context.Context, id string) (bool, error) {
	org, err := uc.orgRepo.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("buscar organización: %w", err)
	}
	return org != nil, nil
}

// UpdateOrganization aplica una actualización parcial. El RUC nuevo no puede pertenecer a otra organización.
func (uc *OnboardingUseCase) UpdateOrganization(ctx context.Context, id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.findOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RUC != nil && *in.RUC != org.RUC {
		other, err := uc.orgRepo.FindByRUC(ctx, *in.RUC)
		if err != nil {
			return nil, fmt.Errorf("buscar organización: %w", err)
		}
		if other != nil && other.ID != org.ID {
			return nil, domain.ErrRUCAlreadyExists
		}
	}

	patch := entity.OrganizationPatch{RUC: in.RUC, DV: in.DV}
	if in.RazonSocial != nil {
		rs := normalizeText(*in.RazonSocial)
		patch.RazonSocial = &rs
	}
	if in.Subscripcion != nil {
		plan := planOrDefault(in.Subscripcion)
		patch.Plan = &plan
	}
	patch.Apply(org)

	if err := uc.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	uc.auth.metrics.AuthOperation("update_organization", metrics.ResultOK)
	return toOrganizationResponse(org), nil
}

func (uc *OnboardingUseCase) findOrganization(ctx context.Context, id string) (*entity.Organization, error) {
	org, err := uc.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar organización: %w", err)
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFoundBadRequest
	}
	return org, nil
}

func planOrDefault(plan *string) string {
	if plan == nil || strings.TrimSpace(*plan) == "" {
		return entity.DefaultPlan
	}
	return strings.TrimSpace(*plan)
}
