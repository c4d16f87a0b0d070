package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/pkg/enums"
)

// Coupon belongs to a tenant and is optionally scoped to one asset. Codes
// are unique within the tenant.
type Coupon struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID          `gorm:"column:tenant_id;type:uuid;not null;index"`
	AssetID        *uuid.UUID         `gorm:"column:asset_id;type:uuid;index"`
	Code           string             `gorm:"column:code;not null"`
	Status         enums.CouponStatus `gorm:"column:status;not null;default:'draft'"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue  decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	ValidFrom      *time.Time         `gorm:"column:valid_from"`
	ValidUntil     *time.Time         `gorm:"column:valid_until"`
	MaxRedemptions *int               `gorm:"column:max_redemptions"`
	RedeemedCount  int                `gorm:"column:redeemed_count;not null;default:0"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
