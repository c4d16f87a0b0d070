package agreements

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentline/rentline-backend/pkg/db/models"
)

// AgreementDTO represents the rental agreement payload returned to clients.
type AgreementDTO struct {
	ID            uuid.UUID  `json:"id"`
	AssetID       uuid.UUID  `json:"asset_id"`
	CustomerRef   *string    `json:"customer_ref,omitempty"`
	Status        string     `json:"status"`
	Quantity      int        `json:"quantity"`
	RentalStartAt time.Time  `json:"rental_start_at"`
	RentalEndAt   *time.Time `json:"rental_end_at"`
	ReturnDueAt   *time.Time `json:"return_due_at"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewAgreementDTO builds a DTO from the persisted model.
func NewAgreementDTO(agreement *models.RentalAgreement) *AgreementDTO {
	return &AgreementDTO{
		ID:            agreement.ID,
		AssetID:       agreement.AssetID,
		CustomerRef:   agreement.CustomerRef,
		Status:        string(agreement.Status),
		Quantity:      agreement.Quantity,
		RentalStartAt: agreement.RentalStartAt,
		RentalEndAt:   agreement.RentalEndAt,
		ReturnDueAt:   agreement.ReturnDueAt,
		Notes:         agreement.Notes,
		CreatedAt:     agreement.CreatedAt,
		UpdatedAt:     agreement.UpdatedAt,
	}
}
