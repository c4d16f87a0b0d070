package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/pkg/enums"
)

// RentalAsset represents one tenant-scoped catalogue entry for a hireable
// item type with finite stock. The (tenant_id, slug) pair is unique; the
// backing index is the authoritative backstop for slug resolution.
type RentalAsset struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID      uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name          string            `gorm:"column:name;not null"`
	Slug          string            `gorm:"column:slug;not null"`
	Description   *string           `gorm:"column:description"`
	TotalQuantity int               `gorm:"column:total_quantity;not null;default:0"`
	RateAmount    decimal.Decimal   `gorm:"column:rate_amount;type:numeric(12,2);not null"`
	DepositAmount *decimal.Decimal  `gorm:"column:deposit_amount;type:numeric(12,2)"`
	Currency      enums.Currency    `gorm:"column:currency;not null;default:'USD'"`
	MinHireDays   int               `gorm:"column:min_hire_days;not null;default:1"`
	MaxHireDays   *int              `gorm:"column:max_hire_days"`
	Gallery       pq.StringArray    `gorm:"column:gallery;type:text[];not null;default:ARRAY[]::text[]"`
	Tags          pq.StringArray    `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Metadata      map[string]string `gorm:"column:metadata;type:jsonb;serializer:json"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	PricingTiers  []PricingTier     `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
