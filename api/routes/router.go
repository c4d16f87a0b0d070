package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentline/rentline-backend/api/controllers"
	"github.com/rentline/rentline-backend/api/middleware"
	agreementsvc "github.com/rentline/rentline-backend/internal/agreements"
	assetsvc "github.com/rentline/rentline-backend/internal/assets"
	availabilitysvc "github.com/rentline/rentline-backend/internal/availability"
	couponsvc "github.com/rentline/rentline-backend/internal/coupons"
	"github.com/rentline/rentline-backend/pkg/config"
	"github.com/rentline/rentline-backend/pkg/db"
	"github.com/rentline/rentline-backend/pkg/logger"
	"github.com/rentline/rentline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	assetService assetsvc.Service,
	couponService couponsvc.Service,
	agreementService agreementsvc.Service,
	availabilityService availabilitysvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	writeLimit := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		writePolicy := middleware.NewWriteRateLimitPolicy(
			"write",
			cfg.RateLimit.WriteWindow,
			cfg.RateLimit.WriteLimit,
		)
		writeLimit = middleware.WriteRateLimit(writePolicy, redisClient, logg)
	}

	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/assets", func(r chi.Router) {
			r.With(writeLimit).Post("/", controllers.CreateAsset(assetService, logg))
			r.Get("/", controllers.ListAssets(assetService, logg))
			r.Get("/slug/{assetSlug}", controllers.GetAssetBySlug(assetService, logg))
			r.Get("/{assetID}", controllers.GetAsset(assetService, logg))
			r.With(writeLimit).Patch("/{assetID}", controllers.UpdateAsset(assetService, logg))
			r.Get("/{assetID}/availability", controllers.GetAssetAvailability(availabilityService, logg))
		})

		r.Route("/v1/coupons", func(r chi.Router) {
			r.With(writeLimit).Post("/", controllers.CreateCoupon(couponService, logg))
			r.Get("/", controllers.ListCoupons(couponService, logg))
			r.Get("/{couponID}", controllers.GetCoupon(couponService, logg))
			r.With(writeLimit).Patch("/{couponID}/status", controllers.UpdateCouponStatus(couponService, logg))
		})

		r.Route("/v1/agreements", func(r chi.Router) {
			r.With(writeLimit).Post("/", controllers.CreateAgreement(agreementService, logg))
			r.Get("/", controllers.ListAgreements(agreementService, logg))
			r.With(writeLimit).Post("/{agreementID}/cancel", controllers.CancelAgreement(agreementService, logg))
		})
	})

	return r
}
