package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/api/responses"
	"github.com/rentline/rentline-backend/api/validators"
	couponsvc "github.com/rentline/rentline-backend/internal/coupons"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/logger"
)

// CreateCoupon handles coupon creation, scoped to the tenant or one asset.
func CreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.CreateCoupon(r.Context(), tid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// GetCoupon returns one coupon.
func GetCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := pathUUID(chi.URLParam(r, "couponID"), "coupon id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.GetCoupon(r.Context(), tid, couponID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupon)
	}
}

// ListCoupons returns the tenant's coupons, optionally filtered by asset.
func ListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var assetID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("asset_id")); raw != "" {
			parsed, err := pathUUID(raw, "asset id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			assetID = &parsed
		}

		coupons, err := svc.ListCoupons(r.Context(), tid, assetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupons)
	}
}

// UpdateCouponStatus moves one coupon through its lifecycle.
func UpdateCouponStatus(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := pathUUID(chi.URLParam(r, "couponID"), "coupon id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCouponStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCouponStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		coupon, err := svc.UpdateCouponStatus(r.Context(), tid, couponID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupon)
	}
}

type createCouponRequest struct {
	AssetID        *string         `json:"asset_id,omitempty"`
	Code           string          `json:"code" validate:"required"`
	Status         string          `json:"status,omitempty"`
	DiscountType   string          `json:"discount_type" validate:"required"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	ValidFrom      *time.Time      `json:"valid_from,omitempty"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	MaxRedemptions *int            `json:"max_redemptions,omitempty" validate:"omitempty,min=1"`
}

type updateCouponStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r createCouponRequest) toCreateInput() (couponsvc.CreateCouponInput, error) {
	discountType, err := enums.ParseDiscountType(strings.TrimSpace(r.DiscountType))
	if err != nil {
		return couponsvc.CreateCouponInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}

	input := couponsvc.CreateCouponInput{
		Code:           r.Code,
		DiscountType:   discountType,
		DiscountValue:  r.DiscountValue,
		ValidFrom:      r.ValidFrom,
		ValidUntil:     r.ValidUntil,
		MaxRedemptions: r.MaxRedemptions,
	}

	if raw := strings.TrimSpace(r.Status); raw != "" {
		status, err := enums.ParseCouponStatus(raw)
		if err != nil {
			return couponsvc.CreateCouponInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}

	if r.AssetID != nil {
		assetID, err := uuid.Parse(strings.TrimSpace(*r.AssetID))
		if err != nil {
			return couponsvc.CreateCouponInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id")
		}
		input.AssetID = &assetID
	}

	return input, nil
}
