package types

// CouponCounts summarizes the coupons attached to one asset.
type CouponCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}
