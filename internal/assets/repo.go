package assets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/pagination"
)

// Repository exposes rental asset persistence.
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

// Create persists a new asset together with its pricing tiers.
func (r *Repository) Create(ctx context.Context, asset *models.RentalAsset) (*models.RentalAsset, error) {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

// Save writes the asset's updated columns back.
func (r *Repository) Save(ctx context.Context, asset *models.RentalAsset) error {
	return r.db.WithContext(ctx).
		Omit("PricingTiers").
		Save(asset).
		Error
}

// FindByID loads one asset with its pricing tiers, scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RentalAsset, error) {
	var asset models.RentalAsset
	err := r.db.WithContext(ctx).
		Preload("PricingTiers").
		First(&asset, "tenant_id = ? AND id = ?", tenantID, id).
		Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindBySlug loads one asset by its tenant-unique slug.
func (r *Repository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*models.RentalAsset, error) {
	var asset models.RentalAsset
	err := r.db.WithContext(ctx).
		Preload("PricingTiers").
		First(&asset, "tenant_id = ? AND slug = ?", tenantID, slug).
		Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// ExistsWithSlug reports whether another asset in the tenant already holds the
// slug. excludeID ignores the asset being updated so it can keep its own slug.
func (r *Repository) ExistsWithSlug(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.RentalAsset{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsInTenant reports whether the asset belongs to the tenant.
func (r *Repository) ExistsInTenant(ctx context.Context, tenantID, assetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RentalAsset{}).
		Where("tenant_id = ? AND id = ?", tenantID, assetID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AssetPage is one cursor page of assets.
type AssetPage struct {
	Assets     []models.RentalAsset
	NextCursor string
}

// List returns the tenant's assets newest first, cursor paginated.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*AssetPage, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Preload("PricingTiers").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var assets []models.RentalAsset
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}

	page := &AssetPage{Assets: assets}
	if len(assets) > limit {
		page.Assets = assets[:limit]
		last := page.Assets[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// ReplacePricingTiers swaps the asset's tiers for the provided set in one
// transaction.
func (r *Repository) ReplacePricingTiers(ctx context.Context, assetID uuid.UUID, tiers []models.PricingTier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.PricingTier{}).Error; err != nil {
			return err
		}
		if len(tiers) == 0 {
			return nil
		}
		for i := range tiers {
			tiers[i].AssetID = assetID
		}
		return tx.Create(&tiers).Error
	})
}
