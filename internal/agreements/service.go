package agreements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
)

// Service exposes rental agreement operations for the back office.
type Service interface {
	CreateAgreement(ctx context.Context, tenantID uuid.UUID, input CreateAgreementInput) (*AgreementDTO, error)
	ListAgreements(ctx context.Context, tenantID, assetID uuid.UUID) ([]AgreementDTO, error)
	CancelAgreement(ctx context.Context, tenantID, agreementID uuid.UUID) (*AgreementDTO, error)
}

// CreateAgreementInput holds the validated payload to book an asset.
type CreateAgreementInput struct {
	AssetID       uuid.UUID
	CustomerRef   *string
	Quantity      int
	RentalStartAt time.Time
	RentalEndAt   *time.Time
	ReturnDueAt   *time.Time
	Notes         *string
}

type assetChecker interface {
	ExistsInTenant(ctx context.Context, tenantID, assetID uuid.UUID) (bool, error)
}

type service struct {
	repo       *Repository
	assetCheck assetChecker
}

// NewService constructs an agreement service instance.
func NewService(repo *Repository, assetCheck assetChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("agreement repository required")
	}
	if assetCheck == nil {
		return nil, fmt.Errorf("asset checker required")
	}
	return &service{repo: repo, assetCheck: assetCheck}, nil
}

// CreateAgreement books quantity-N units of the asset for the interval.
func (s *service) CreateAgreement(ctx context.Context, tenantID uuid.UUID, input CreateAgreementInput) (*AgreementDTO, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant context is required")
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if input.RentalStartAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental_start_at is required")
	}
	end := input.ReturnDueAt
	if end == nil {
		end = input.RentalEndAt
	}
	if end != nil && end.Before(input.RentalStartAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agreement end precedes its start")
	}

	exists, err := s.assetCheck.ExistsInTenant(ctx, tenantID, input.AssetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking asset")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}

	agreement := &models.RentalAgreement{
		TenantID:      tenantID,
		AssetID:       input.AssetID,
		CustomerRef:   input.CustomerRef,
		Status:        enums.AgreementStatusPending,
		Quantity:      input.Quantity,
		RentalStartAt: input.RentalStartAt.UTC(),
		RentalEndAt:   input.RentalEndAt,
		ReturnDueAt:   input.ReturnDueAt,
		Notes:         input.Notes,
	}

	created, err := s.repo.Create(ctx, agreement)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating agreement")
	}
	return NewAgreementDTO(created), nil
}

// ListAgreements returns the agreements booked against one asset.
func (s *service) ListAgreements(ctx context.Context, tenantID, assetID uuid.UUID) ([]AgreementDTO, error) {
	rows, err := s.repo.ListByAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing agreements")
	}
	dtos := make([]AgreementDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewAgreementDTO(&rows[i]))
	}
	return dtos, nil
}

// CancelAgreement releases the booked units back to the pool.
func (s *service) CancelAgreement(ctx context.Context, tenantID, agreementID uuid.UUID) (*AgreementDTO, error) {
	agreement, err := s.repo.FindByID(ctx, tenantID, agreementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agreement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading agreement")
	}
	if agreement.Status == enums.AgreementStatusCancelled {
		return NewAgreementDTO(agreement), nil
	}
	if !agreement.Status.IsActive() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "agreement already settled")
	}

	if err := s.repo.UpdateStatus(ctx, tenantID, agreementID, enums.AgreementStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling agreement")
	}
	agreement.Status = enums.AgreementStatusCancelled
	return NewAgreementDTO(agreement), nil
}
