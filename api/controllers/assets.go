package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rentline/rentline-backend/api/responses"
	"github.com/rentline/rentline-backend/api/validators"
	assetsvc "github.com/rentline/rentline-backend/internal/assets"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/logger"
	"github.com/rentline/rentline-backend/pkg/pagination"
)

// CreateAsset handles rental asset creation for the tenant back office.
func CreateAsset(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAssetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.CreateAsset(r.Context(), tid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

// UpdateAsset applies a partial update to one asset.
func UpdateAsset(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assetID, err := pathUUID(chi.URLParam(r, "assetID"), "asset id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAssetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.UpdateAsset(r.Context(), tid, assetID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, asset)
	}
}

// GetAsset returns one asset with its coupon summary.
func GetAsset(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assetID, err := pathUUID(chi.URLParam(r, "assetID"), "asset id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.GetAsset(r.Context(), tid, assetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, asset)
	}
}

// GetAssetBySlug looks an asset up by its tenant-unique slug.
func GetAssetBySlug(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "assetSlug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "asset slug is required"))
			return
		}

		asset, err := svc.GetAssetBySlug(r.Context(), tid, slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, asset)
	}
}

// ListAssets returns a cursor page of the tenant's catalogue.
func ListAssets(svc assetsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		tid, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		page, err := svc.ListAssets(r.Context(), tid, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

type createAssetRequest struct {
	Name          string               `json:"name" validate:"required"`
	Slug          string               `json:"slug,omitempty"`
	Description   *string              `json:"description,omitempty"`
	TotalQuantity int                  `json:"total_quantity" validate:"min=0"`
	RateAmount    decimal.Decimal      `json:"rate_amount"`
	DepositAmount *decimal.Decimal     `json:"deposit_amount,omitempty"`
	Currency      string               `json:"currency,omitempty"`
	MinHireDays   int                  `json:"min_hire_days,omitempty" validate:"omitempty,min=1"`
	MaxHireDays   *int                 `json:"max_hire_days,omitempty" validate:"omitempty,min=1"`
	Gallery       []string             `json:"gallery,omitempty"`
	Tags          []string             `json:"tags,omitempty"`
	Metadata      map[string]string    `json:"metadata,omitempty"`
	PricingTiers  []pricingTierRequest `json:"pricing_tiers,omitempty" validate:"omitempty,dive"`
}

type pricingTierRequest struct {
	DurationDays    int              `json:"duration_days" validate:"required,min=1"`
	Price           decimal.Decimal  `json:"price"`
	Currency        string           `json:"currency,omitempty"`
	DepositOverride *decimal.Decimal `json:"deposit_override,omitempty"`
}

type updateAssetRequest struct {
	Name          *string               `json:"name,omitempty"`
	Slug          *string               `json:"slug,omitempty"`
	Description   *string               `json:"description,omitempty"`
	TotalQuantity *int                  `json:"total_quantity,omitempty" validate:"omitempty,min=0"`
	RateAmount    *decimal.Decimal      `json:"rate_amount,omitempty"`
	DepositAmount *decimal.Decimal      `json:"deposit_amount,omitempty"`
	Currency      *string               `json:"currency,omitempty"`
	MinHireDays   *int                  `json:"min_hire_days,omitempty" validate:"omitempty,min=1"`
	MaxHireDays   *int                  `json:"max_hire_days,omitempty" validate:"omitempty,min=1"`
	Gallery       []string              `json:"gallery,omitempty"`
	Tags          []string              `json:"tags,omitempty"`
	Metadata      map[string]string     `json:"metadata,omitempty"`
	IsActive      *bool                 `json:"is_active,omitempty"`
	PricingTiers  *[]pricingTierRequest `json:"pricing_tiers,omitempty" validate:"omitempty,dive"`
}

func (r createAssetRequest) toCreateInput() (assetsvc.CreateAssetInput, error) {
	currency, err := parseOptionalCurrency(r.Currency)
	if err != nil {
		return assetsvc.CreateAssetInput{}, err
	}

	tiers, err := parseTierRequests(r.PricingTiers)
	if err != nil {
		return assetsvc.CreateAssetInput{}, err
	}

	return assetsvc.CreateAssetInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		TotalQuantity: r.TotalQuantity,
		RateAmount:    r.RateAmount,
		DepositAmount: r.DepositAmount,
		Currency:      currency,
		MinHireDays:   r.MinHireDays,
		MaxHireDays:   r.MaxHireDays,
		Gallery:       r.Gallery,
		Tags:          r.Tags,
		Metadata:      r.Metadata,
		PricingTiers:  tiers,
	}, nil
}

func (r updateAssetRequest) toUpdateInput() (assetsvc.UpdateAssetInput, error) {
	input := assetsvc.UpdateAssetInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		TotalQuantity: r.TotalQuantity,
		RateAmount:    r.RateAmount,
		DepositAmount: r.DepositAmount,
		MinHireDays:   r.MinHireDays,
		MaxHireDays:   r.MaxHireDays,
		Gallery:       r.Gallery,
		Tags:          r.Tags,
		Metadata:      r.Metadata,
		IsActive:      r.IsActive,
	}

	if r.Currency != nil {
		currency, err := enums.ParseCurrency(strings.TrimSpace(*r.Currency))
		if err != nil {
			return assetsvc.UpdateAssetInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		input.Currency = &currency
	}

	if r.PricingTiers != nil {
		tiers, err := parseTierRequests(*r.PricingTiers)
		if err != nil {
			return assetsvc.UpdateAssetInput{}, err
		}
		input.PricingTiers = &tiers
	}

	return input, nil
}

func parseOptionalCurrency(raw string) (enums.Currency, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	currency, err := enums.ParseCurrency(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}
	return currency, nil
}

func parseTierRequests(reqs []pricingTierRequest) ([]assetsvc.PricingTierInput, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	tiers := make([]assetsvc.PricingTierInput, 0, len(reqs))
	for _, req := range reqs {
		currency, err := parseOptionalCurrency(req.Currency)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, assetsvc.PricingTierInput{
			DurationDays:    req.DurationDays,
			Price:           req.Price,
			Currency:        currency,
			DepositOverride: req.DepositOverride,
		})
	}
	return tiers, nil
}
