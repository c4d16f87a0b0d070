package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	"github.com/rentline/rentline-backend/pkg/types"
)

// Repository exposes coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new coupon.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// FindByID loads one coupon scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "tenant_id = ? AND id = ?", tenantID, id).
		Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListByTenant returns coupons for the tenant, optionally filtered by asset.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID, assetID *uuid.UUID) ([]models.Coupon, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if assetID != nil {
		query = query.Where("asset_id = ?", *assetID)
	}
	var coupons []models.Coupon
	if err := query.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// UpdateStatus moves one coupon to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status enums.CouponStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActivateScheduled flips scheduled coupons whose validity window has opened
// and reports how many rows changed.
func (r *Repository) ActivateScheduled(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("status = ?", enums.CouponStatusScheduled).
		Where("valid_from IS NOT NULL AND valid_from <= ?", now).
		Update("status", enums.CouponStatusActive)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ExpirePast flips coupons past their validity window into the expired
// status and reports how many rows changed.
func (r *Repository) ExpirePast(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("status IN ?", activeCouponStatuses).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Update("status", enums.CouponStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

type couponCountRow struct {
	AssetID uuid.UUID `gorm:"column:asset_id"`
	Total   int       `gorm:"column:total"`
	Active  int       `gorm:"column:active"`
}

// activeCouponStatuses is the closed set of statuses counted as "active" in
// catalogue summaries. Kept in sync with enums.CouponStatus.CountsAsActive.
var activeCouponStatuses = []enums.CouponStatus{
	enums.CouponStatusActive,
	enums.CouponStatusScheduled,
}

// CountByAsset aggregates total and active coupon counts per asset for the
// tenant. Tenant-wide coupons (no asset scope) are not included.
func (r *Repository) CountByAsset(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]types.CouponCounts, error) {
	var rows []couponCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Select("asset_id, COUNT(*) AS total, COUNT(*) FILTER (WHERE status IN ?) AS active", activeCouponStatuses).
		Where("tenant_id = ? AND asset_id IS NOT NULL", tenantID).
		Group("asset_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]types.CouponCounts, len(rows))
	for _, row := range rows {
		counts[row.AssetID] = types.CouponCounts{Total: row.Total, Active: row.Active}
	}
	return counts, nil
}
