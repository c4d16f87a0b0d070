package agreements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
)

// Repository exposes rental agreement persistence.
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

// Create persists a new rental agreement.
func (r *Repository) Create(ctx context.Context, agreement *models.RentalAgreement) (*models.RentalAgreement, error) {
	if err := r.db.WithContext(ctx).Create(agreement).Error; err != nil {
		return nil, err
	}
	return agreement, nil
}

// FindByID loads one agreement scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RentalAgreement, error) {
	var agreement models.RentalAgreement
	err := r.db.WithContext(ctx).
		First(&agreement, "tenant_id = ? AND id = ?", tenantID, id).
		Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

// ListByAsset returns all agreements for the asset, newest first.
func (r *Repository) ListByAsset(ctx context.Context, tenantID, assetID uuid.UUID) ([]models.RentalAgreement, error) {
	var agreements []models.RentalAgreement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Order("rental_start_at DESC").
		Find(&agreements).
		Error
	if err != nil {
		return nil, err
	}
	return agreements, nil
}

// ListOverlappingWindow returns the non-cancelled agreements whose occupied
// interval touches [from, to]. Agreements without a resolvable end are not
// returned; they cannot occupy any day.
func (r *Repository) ListOverlappingWindow(ctx context.Context, tenantID, assetID uuid.UUID, from, to time.Time) ([]models.RentalAgreement, error) {
	var agreements []models.RentalAgreement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Where("status <> ?", enums.AgreementStatusCancelled).
		Where("rental_start_at <= ?", to).
		Where("COALESCE(return_due_at, rental_end_at) >= ?", from).
		Order("rental_start_at ASC").
		Find(&agreements).
		Error
	if err != nil {
		return nil, err
	}
	return agreements, nil
}

// UpdateStatus moves one agreement to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status enums.AgreementStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.RentalAgreement{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkOverdue flips active agreements whose return is past due into the
// overdue status and reports how many rows changed.
func (r *Repository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RentalAgreement{}).
		Where("status IN ?", []enums.AgreementStatus{
			enums.AgreementStatusConfirmed,
			enums.AgreementStatusInProgress,
		}).
		Where("return_due_at IS NOT NULL AND return_due_at < ?", now).
		Update("status", enums.AgreementStatusOverdue)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
