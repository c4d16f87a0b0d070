package assets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/pkg/types"
)

// AssetView is the aggregated catalogue payload for one asset. Absent
// numerics stay pointers without omitempty so clients receive an explicit
// null rather than a missing key.
type AssetView struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Description   *string            `json:"description"`
	TotalQuantity int                `json:"total_quantity"`
	RateAmount    decimal.Decimal    `json:"rate_amount"`
	DepositAmount *decimal.Decimal   `json:"deposit_amount"`
	Currency      string             `json:"currency"`
	MinHireDays   int                `json:"min_hire_days"`
	MaxHireDays   *int               `json:"max_hire_days"`
	Gallery       []string           `json:"gallery"`
	Tags          []string           `json:"tags"`
	Metadata      map[string]string  `json:"metadata,omitempty"`
	IsActive      bool               `json:"is_active"`
	PricingTiers  []PricingTierDTO   `json:"pricing_tiers"`
	CouponSummary types.CouponCounts `json:"coupon_summary"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// PricingTierDTO is one duration-priced hire option.
type PricingTierDTO struct {
	ID              uuid.UUID        `json:"id"`
	DurationDays    int              `json:"duration_days"`
	Price           decimal.Decimal  `json:"price"`
	Currency        string           `json:"currency"`
	DepositOverride *decimal.Decimal `json:"deposit_override"`
}

// AssetList is one cursor page of asset views.
type AssetList struct {
	Assets     []AssetView `json:"assets"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
