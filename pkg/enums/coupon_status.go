package enums

import "fmt"

// CouponStatus represents the lifecycle states of a coupon.
type CouponStatus string

const (
	CouponStatusDraft     CouponStatus = "draft"
	CouponStatusScheduled CouponStatus = "scheduled"
	CouponStatusActive    CouponStatus = "active"
	CouponStatusExpired   CouponStatus = "expired"
	CouponStatusDisabled  CouponStatus = "disabled"
)

var validCouponStatuses = []CouponStatus{
	CouponStatusDraft,
	CouponStatusScheduled,
	CouponStatusActive,
	CouponStatusExpired,
	CouponStatusDisabled,
}

// String implements fmt.Stringer.
func (s CouponStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CouponStatus.
func (s CouponStatus) IsValid() bool {
	for _, candidate := range validCouponStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CountsAsActive reports whether the coupon counts toward the "active" total
// in catalogue summaries: currently usable or scheduled to become usable.
func (s CouponStatus) CountsAsActive() bool {
	return s == CouponStatusActive || s == CouponStatusScheduled
}

// ParseCouponStatus converts raw input into a CouponStatus.
func ParseCouponStatus(value string) (CouponStatus, error) {
	for _, candidate := range validCouponStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon status %q", value)
}
