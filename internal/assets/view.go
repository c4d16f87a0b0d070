package assets

import (
	"net/url"
	"sort"
	"strings"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/types"
)

// BuildAssetView assembles the catalogue payload for one asset. Pure
// transformation: pricing tiers come out sorted by duration ascending, and
// malformed gallery or tag entries are dropped rather than failing the whole
// view. couponCounts is the tenant's per-asset summary; a missing entry means
// zero coupons.
func BuildAssetView(asset *models.RentalAsset, couponCounts types.CouponCounts) *AssetView {
	tiers := make([]PricingTierDTO, 0, len(asset.PricingTiers))
	for _, tier := range asset.PricingTiers {
		tiers = append(tiers, PricingTierDTO{
			ID:              tier.ID,
			DurationDays:    tier.DurationDays,
			Price:           tier.Price,
			Currency:        string(tier.Currency),
			DepositOverride: tier.DepositOverride,
		})
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].DurationDays < tiers[j].DurationDays
	})

	return &AssetView{
		ID:            asset.ID,
		Name:          asset.Name,
		Slug:          asset.Slug,
		Description:   asset.Description,
		TotalQuantity: asset.TotalQuantity,
		RateAmount:    asset.RateAmount,
		DepositAmount: asset.DepositAmount,
		Currency:      string(asset.Currency),
		MinHireDays:   asset.MinHireDays,
		MaxHireDays:   asset.MaxHireDays,
		Gallery:       sanitizeGallery(asset.Gallery),
		Tags:          sanitizeTags(asset.Tags),
		Metadata:      asset.Metadata,
		IsActive:      asset.IsActive,
		PricingTiers:  tiers,
		CouponSummary: couponCounts,
		CreatedAt:     asset.CreatedAt,
		UpdatedAt:     asset.UpdatedAt,
	}
}

// sanitizeGallery keeps only entries that parse as absolute http(s) URLs.
func sanitizeGallery(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		parsed, err := url.Parse(trimmed)
		if err != nil {
			continue
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// sanitizeTags trims whitespace and drops entries left empty.
func sanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
