package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/pkg/enums"
)

// PricingTier defines the hire price for a given duration. Tiers belong to
// exactly one asset and are displayed ordered by duration ascending.
type PricingTier struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AssetID         uuid.UUID        `gorm:"column:asset_id;type:uuid;not null;index"`
	DurationDays    int              `gorm:"column:duration_days;not null"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Currency        enums.Currency   `gorm:"column:currency;not null;default:'USD'"`
	DepositOverride *decimal.Decimal `gorm:"column:deposit_override;type:numeric(12,2)"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
