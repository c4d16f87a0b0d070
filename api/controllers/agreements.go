package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentline/rentline-backend/api/responses"
	"github.com/rentline/rentline-backend/api/validators"
	agreementsvc "github.com/rentline/rentline-backend/internal/agreements"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/logger"
)

// CreateAgreement books a rental window against one asset.
func CreateAgreement(svc agreementsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agreement service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAgreementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreement, err := svc.CreateAgreement(r.Context(), tid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, agreement)
	}
}

// ListAgreements returns the agreements recorded against one asset.
func ListAgreements(svc agreementsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agreement service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("asset_id"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "asset_id query parameter is required"))
			return
		}
		assetID, err := pathUUID(raw, "asset id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreements, err := svc.ListAgreements(r.Context(), tid, assetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agreements)
	}
}

// CancelAgreement releases a booked window. Cancelling twice is a no-op.
func CancelAgreement(svc agreementsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agreement service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreementID, err := pathUUID(chi.URLParam(r, "agreementID"), "agreement id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agreement, err := svc.CancelAgreement(r.Context(), tid, agreementID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agreement)
	}
}

type createAgreementRequest struct {
	AssetID       string     `json:"asset_id" validate:"required"`
	CustomerRef   *string    `json:"customer_ref,omitempty"`
	Quantity      int        `json:"quantity,omitempty" validate:"omitempty,min=1"`
	RentalStartAt time.Time  `json:"rental_start_at" validate:"required"`
	RentalEndAt   *time.Time `json:"rental_end_at,omitempty"`
	ReturnDueAt   *time.Time `json:"return_due_at,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

func (r createAgreementRequest) toCreateInput() (agreementsvc.CreateAgreementInput, error) {
	assetID, err := uuid.Parse(strings.TrimSpace(r.AssetID))
	if err != nil {
		return agreementsvc.CreateAgreementInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id")
	}

	input := agreementsvc.CreateAgreementInput{
		AssetID:       assetID,
		Quantity:      r.Quantity,
		RentalStartAt: r.RentalStartAt,
		RentalEndAt:   r.RentalEndAt,
		ReturnDueAt:   r.ReturnDueAt,
	}

	if r.CustomerRef != nil {
		ref := validators.SanitizeString(*r.CustomerRef, 120)
		if ref != "" {
			input.CustomerRef = &ref
		}
	}
	if r.Notes != nil {
		notes := validators.SanitizeString(*r.Notes, 2000)
		if notes != "" {
			input.Notes = &notes
		}
	}

	return input, nil
}
