package assets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db"
	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/pagination"
	"github.com/rentline/rentline-backend/pkg/slug"
	"github.com/rentline/rentline-backend/pkg/types"
)

const slugUniqueConstraint = "rental_assets_tenant_id_slug_key"

const defaultSlugMaxAttempts = 3

// Service exposes catalogue operations for rental assets.
type Service interface {
	CreateAsset(ctx context.Context, tenantID uuid.UUID, input CreateAssetInput) (*AssetView, error)
	UpdateAsset(ctx context.Context, tenantID, assetID uuid.UUID, input UpdateAssetInput) (*AssetView, error)
	GetAsset(ctx context.Context, tenantID, assetID uuid.UUID) (*AssetView, error)
	GetAssetBySlug(ctx context.Context, tenantID uuid.UUID, assetSlug string) (*AssetView, error)
	ListAssets(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*AssetList, error)
}

// CreateAssetInput holds the validated payload to register an asset.
type CreateAssetInput struct {
	Name          string
	Slug          string
	Description   *string
	TotalQuantity int
	RateAmount    decimal.Decimal
	DepositAmount *decimal.Decimal
	Currency      enums.Currency
	MinHireDays   int
	MaxHireDays   *int
	Gallery       []string
	Tags          []string
	Metadata      map[string]string
	PricingTiers  []PricingTierInput
}

// UpdateAssetInput holds a partial update; nil fields keep their value.
type UpdateAssetInput struct {
	Name          *string
	Slug          *string
	Description   *string
	TotalQuantity *int
	RateAmount    *decimal.Decimal
	DepositAmount *decimal.Decimal
	Currency      *enums.Currency
	MinHireDays   *int
	MaxHireDays   *int
	Gallery       []string
	Tags          []string
	Metadata      map[string]string
	IsActive      *bool
	PricingTiers  *[]PricingTierInput
}

// PricingTierInput is one duration-priced hire option on the write path.
type PricingTierInput struct {
	DurationDays    int
	Price           decimal.Decimal
	Currency        enums.Currency
	DepositOverride *decimal.Decimal
}

type couponCounter interface {
	CountByAsset(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]types.CouponCounts, error)
}

type service struct {
	repo            *Repository
	coupons         couponCounter
	slugMaxAttempts int
}

// NewService constructs an asset service instance.
func NewService(repo *Repository, coupons couponCounter, slugMaxAttempts int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("asset repository required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon counter required")
	}
	if slugMaxAttempts <= 0 {
		slugMaxAttempts = defaultSlugMaxAttempts
	}
	return &service{repo: repo, coupons: coupons, slugMaxAttempts: slugMaxAttempts}, nil
}

// CreateAsset validates the payload, resolves a tenant-unique slug and
// persists the asset. The slug check races concurrent writers on purpose;
// the unique index backstops it and the insert is retried with a fresh probe.
func (s *service) CreateAsset(ctx context.Context, tenantID uuid.UUID, input CreateAssetInput) (*AssetView, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant context is required")
	}
	if err := validateAssetFields(input.Name, input.TotalQuantity, input.RateAmount, input.Currency, input.MinHireDays, input.MaxHireDays, input.PricingTiers); err != nil {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	minHire := input.MinHireDays
	if minHire == 0 {
		minHire = 1
	}

	var created *models.RentalAsset
	for attempt := 0; attempt < s.slugMaxAttempts; attempt++ {
		resolved, err := s.resolveSlug(ctx, tenantID, input.Name, input.Slug, uuid.Nil)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving slug")
		}

		asset := &models.RentalAsset{
			TenantID:      tenantID,
			Name:          strings.TrimSpace(input.Name),
			Slug:          resolved,
			Description:   input.Description,
			TotalQuantity: input.TotalQuantity,
			RateAmount:    input.RateAmount,
			DepositAmount: input.DepositAmount,
			Currency:      currency,
			MinHireDays:   minHire,
			MaxHireDays:   input.MaxHireDays,
			Gallery:       input.Gallery,
			Tags:          input.Tags,
			Metadata:      input.Metadata,
			IsActive:      true,
			PricingTiers:  buildTiers(input.PricingTiers),
		}

		created, err = s.repo.Create(ctx, asset)
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, slugUniqueConstraint) {
			created = nil
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating asset")
	}
	if created == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not assign a unique slug")
	}
	return BuildAssetView(created, types.CouponCounts{}), nil
}

// UpdateAsset applies a partial update. A changed name alone never moves the
// slug; pass Slug to reassign it through the resolver.
func (s *service) UpdateAsset(ctx context.Context, tenantID, assetID uuid.UUID, input UpdateAssetInput) (*AssetView, error) {
	asset, err := s.repo.FindByID(ctx, tenantID, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading asset")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset name cannot be empty")
		}
		asset.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		asset.Description = input.Description
	}
	if input.TotalQuantity != nil {
		if *input.TotalQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total quantity cannot be negative")
		}
		asset.TotalQuantity = *input.TotalQuantity
	}
	if input.RateAmount != nil {
		if input.RateAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate amount cannot be negative")
		}
		asset.RateAmount = *input.RateAmount
	}
	if input.DepositAmount != nil {
		asset.DepositAmount = input.DepositAmount
	}
	if input.Currency != nil {
		if !input.Currency.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
		}
		asset.Currency = *input.Currency
	}
	if input.MinHireDays != nil {
		if *input.MinHireDays < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min hire days must be at least 1")
		}
		asset.MinHireDays = *input.MinHireDays
	}
	if input.MaxHireDays != nil {
		asset.MaxHireDays = input.MaxHireDays
	}
	if asset.MaxHireDays != nil && *asset.MaxHireDays < asset.MinHireDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max hire days precedes min hire days")
	}
	if input.Gallery != nil {
		asset.Gallery = input.Gallery
	}
	if input.Tags != nil {
		asset.Tags = input.Tags
	}
	if input.Metadata != nil {
		asset.Metadata = input.Metadata
	}
	if input.IsActive != nil {
		asset.IsActive = *input.IsActive
	}

	reslug := input.Slug != nil
	for attempt := 0; attempt < s.slugMaxAttempts; attempt++ {
		if reslug {
			resolved, err := s.resolveSlug(ctx, tenantID, asset.Name, *input.Slug, asset.ID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving slug")
			}
			asset.Slug = resolved
		}

		err = s.repo.Save(ctx, asset)
		if err == nil {
			break
		}
		if reslug && db.IsUniqueViolation(err, slugUniqueConstraint) {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating asset")
	}
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not assign a unique slug")
	}

	if input.PricingTiers != nil {
		if err := validateTiers(*input.PricingTiers); err != nil {
			return nil, err
		}
		if err := s.repo.ReplacePricingTiers(ctx, asset.ID, buildTiers(*input.PricingTiers)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing pricing tiers")
		}
	}

	return s.GetAsset(ctx, tenantID, assetID)
}

// GetAsset returns the aggregated view for one asset.
func (s *service) GetAsset(ctx context.Context, tenantID, assetID uuid.UUID) (*AssetView, error) {
	asset, err := s.repo.FindByID(ctx, tenantID, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading asset")
	}
	counts, err := s.coupons.CountByAsset(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting coupons")
	}
	return BuildAssetView(asset, counts[asset.ID]), nil
}

// GetAssetBySlug returns the aggregated view for the asset holding the slug.
func (s *service) GetAssetBySlug(ctx context.Context, tenantID uuid.UUID, assetSlug string) (*AssetView, error) {
	asset, err := s.repo.FindBySlug(ctx, tenantID, assetSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading asset")
	}
	counts, err := s.coupons.CountByAsset(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting coupons")
	}
	return BuildAssetView(asset, counts[asset.ID]), nil
}

// ListAssets returns one cursor page of aggregated views.
func (s *service) ListAssets(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*AssetList, error) {
	page, err := s.repo.List(ctx, tenantID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing assets")
	}
	counts, err := s.coupons.CountByAsset(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting coupons")
	}

	views := make([]AssetView, 0, len(page.Assets))
	for i := range page.Assets {
		asset := &page.Assets[i]
		views = append(views, *BuildAssetView(asset, counts[asset.ID]))
	}
	return &AssetList{Assets: views, NextCursor: page.NextCursor}, nil
}

// resolveSlug picks the first free slug for the asset. Base comes from the
// proposed slug, then the name, then a timestamp fallback for names with no
// normalizable characters. Candidates probe base, base-1, base-2 and so on.
func (s *service) resolveSlug(ctx context.Context, tenantID uuid.UUID, name, proposed string, excludeID uuid.UUID) (string, error) {
	base := slug.Normalize(proposed)
	if base == "" {
		base = slug.Normalize(name)
	}
	if base == "" {
		base = fallbackSlug(time.Now().UTC())
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := s.repo.ExistsWithSlug(ctx, tenantID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func fallbackSlug(now time.Time) string {
	return "asset-" + strconv.FormatInt(now.UnixMilli(), 36)
}

func validateAssetFields(name string, totalQuantity int, rate decimal.Decimal, currency enums.Currency, minHireDays int, maxHireDays *int, tiers []PricingTierInput) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "asset name is required")
	}
	if totalQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total quantity cannot be negative")
	}
	if rate.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "rate amount cannot be negative")
	}
	if currency != "" && !currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}
	if minHireDays < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min hire days must be at least 1")
	}
	minDays := minHireDays
	if minDays == 0 {
		minDays = 1
	}
	if maxHireDays != nil && *maxHireDays < minDays {
		return pkgerrors.New(pkgerrors.CodeValidation, "max hire days precedes min hire days")
	}
	return validateTiers(tiers)
}

func validateTiers(tiers []PricingTierInput) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if tier.DurationDays < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier duration must be at least 1 day")
		}
		if tier.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier price cannot be negative")
		}
		if _, dup := seen[tier.DurationDays]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier duration")
		}
		seen[tier.DurationDays] = struct{}{}
	}
	return nil
}

func buildTiers(inputs []PricingTierInput) []models.PricingTier {
	if len(inputs) == 0 {
		return nil
	}
	tiers := make([]models.PricingTier, 0, len(inputs))
	for _, in := range inputs {
		currency := in.Currency
		if currency == "" {
			currency = enums.CurrencyUSD
		}
		tiers = append(tiers, models.PricingTier{
			DurationDays:    in.DurationDays,
			Price:           in.Price,
			Currency:        currency,
			DepositOverride: in.DepositOverride,
		})
	}
	return tiers
}
