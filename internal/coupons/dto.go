package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/pkg/db/models"
)

// CouponDTO represents the coupon payload returned to clients.
type CouponDTO struct {
	ID             uuid.UUID       `json:"id"`
	AssetID        *uuid.UUID      `json:"asset_id"`
	Code           string          `json:"code"`
	Status         string          `json:"status"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	ValidFrom      *time.Time      `json:"valid_from"`
	ValidUntil     *time.Time      `json:"valid_until"`
	MaxRedemptions *int            `json:"max_redemptions"`
	RedeemedCount  int             `json:"redeemed_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewCouponDTO builds a DTO from the persisted model.
func NewCouponDTO(coupon *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:             coupon.ID,
		AssetID:        coupon.AssetID,
		Code:           coupon.Code,
		Status:         string(coupon.Status),
		DiscountType:   string(coupon.DiscountType),
		DiscountValue:  coupon.DiscountValue,
		ValidFrom:      coupon.ValidFrom,
		ValidUntil:     coupon.ValidUntil,
		MaxRedemptions: coupon.MaxRedemptions,
		RedeemedCount:  coupon.RedeemedCount,
		CreatedAt:      coupon.CreatedAt,
		UpdatedAt:      coupon.UpdatedAt,
	}
}
