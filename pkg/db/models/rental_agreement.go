package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentline/rentline-backend/pkg/enums"
)

// RentalAgreement represents one booking of quantity-N units of an asset
// for an interval. The occupied interval runs from RentalStartAt to
// ReturnDueAt when set, otherwise RentalEndAt; agreements with neither end
// cannot be said to occupy any day and are skipped by the availability
// calculator.
type RentalAgreement struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID      uuid.UUID             `gorm:"column:tenant_id;type:uuid;not null;index"`
	AssetID       uuid.UUID             `gorm:"column:asset_id;type:uuid;not null;index"`
	CustomerRef   *string               `gorm:"column:customer_ref"`
	Status        enums.AgreementStatus `gorm:"column:status;not null;default:'pending'"`
	Quantity      int                   `gorm:"column:quantity;not null;default:1"`
	RentalStartAt time.Time             `gorm:"column:rental_start_at;not null"`
	RentalEndAt   *time.Time            `gorm:"column:rental_end_at"`
	ReturnDueAt   *time.Time            `gorm:"column:return_due_at"`
	Notes         *string               `gorm:"column:notes"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveEnd resolves the end of the occupied interval. The second return
// is false when the agreement has no resolvable end.
func (a RentalAgreement) EffectiveEnd() (time.Time, bool) {
	if a.ReturnDueAt != nil {
		return *a.ReturnDueAt, true
	}
	if a.RentalEndAt != nil {
		return *a.RentalEndAt, true
	}
	return time.Time{}, false
}
