package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rentline/rentline-backend/api/responses"
	availabilitysvc "github.com/rentline/rentline-backend/internal/availability"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/logger"
)

// GetAssetAvailability computes the per-day reservation timeline for one
// asset. The window defaults to the next fortnight when from/to are omitted.
func GetAssetAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
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

		from := strings.TrimSpace(r.URL.Query().Get("from"))
		to := strings.TrimSpace(r.URL.Query().Get("to"))

		timeline, err := svc.ComputeAvailability(r.Context(), tid, assetID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, timeline)
	}
}
