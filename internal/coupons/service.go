package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db"
	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
)

// Service exposes coupon operations for the back office.
type Service interface {
	CreateCoupon(ctx context.Context, tenantID uuid.UUID, input CreateCouponInput) (*CouponDTO, error)
	GetCoupon(ctx context.Context, tenantID, couponID uuid.UUID) (*CouponDTO, error)
	ListCoupons(ctx context.Context, tenantID uuid.UUID, assetID *uuid.UUID) ([]CouponDTO, error)
	UpdateCouponStatus(ctx context.Context, tenantID, couponID uuid.UUID, status enums.CouponStatus) (*CouponDTO, error)
}

// CreateCouponInput holds the validated payload for a new coupon.
type CreateCouponInput struct {
	AssetID        *uuid.UUID
	Code           string
	Status         enums.CouponStatus
	DiscountType   enums.DiscountType
	DiscountValue  decimal.Decimal
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MaxRedemptions *int
}

type service struct {
	repo *Repository
}

// NewService constructs a coupon service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCoupon persists a new coupon. Codes are stored upper-cased and must
// be unique per tenant.
func (s *service) CreateCoupon(ctx context.Context, tenantID uuid.UUID, input CreateCouponInput) (*CouponDTO, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant context is required")
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if input.DiscountValue.IsNegative() || input.DiscountValue.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && input.ValidUntil.Before(*input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon validity window ends before it starts")
	}
	status := input.Status
	if status == "" {
		status = enums.CouponStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon status")
	}

	coupon := &models.Coupon{
		TenantID:       tenantID,
		AssetID:        input.AssetID,
		Code:           code,
		Status:         status,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		ValidFrom:      input.ValidFrom,
		ValidUntil:     input.ValidUntil,
		MaxRedemptions: input.MaxRedemptions,
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "coupons_tenant_id_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating coupon")
	}
	return NewCouponDTO(created), nil
}

// GetCoupon loads one coupon scoped to the tenant.
func (s *service) GetCoupon(ctx context.Context, tenantID, couponID uuid.UUID) (*CouponDTO, error) {
	coupon, err := s.repo.FindByID(ctx, tenantID, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	return NewCouponDTO(coupon), nil
}

// ListCoupons returns the tenant's coupons, optionally scoped to one asset.
func (s *service) ListCoupons(ctx context.Context, tenantID uuid.UUID, assetID *uuid.UUID) ([]CouponDTO, error) {
	rows, err := s.repo.ListByTenant(ctx, tenantID, assetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing coupons")
	}
	dtos := make([]CouponDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCouponDTO(&rows[i]))
	}
	return dtos, nil
}

// UpdateCouponStatus moves one coupon to the given lifecycle status.
func (s *service) UpdateCouponStatus(ctx context.Context, tenantID, couponID uuid.UUID, status enums.CouponStatus) (*CouponDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon status")
	}
	coupon, err := s.repo.FindByID(ctx, tenantID, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if coupon.Status == status {
		return NewCouponDTO(coupon), nil
	}

	if err := s.repo.UpdateStatus(ctx, tenantID, couponID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating coupon status")
	}
	coupon.Status = status
	return NewCouponDTO(coupon), nil
}
