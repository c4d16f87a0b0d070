package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/config"
	"github.com/rentline/rentline-backend/pkg/db/models"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/logger"
	"github.com/rentline/rentline-backend/pkg/redis"
)

// Service computes reservation timelines for rental assets.
type Service interface {
	ComputeAvailability(ctx context.Context, tenantID, assetID uuid.UUID, fromRaw, toRaw string) (*Timeline, error)
}

type assetSource interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RentalAsset, error)
}

type agreementSource interface {
	ListOverlappingWindow(ctx context.Context, tenantID, assetID uuid.UUID, from, to time.Time) ([]models.RentalAgreement, error)
}

type timelineCache interface {
	AvailabilityKey(tenantID, assetID, from, to string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type service struct {
	assets     assetSource
	agreements agreementSource
	cache      timelineCache
	cfg        config.AvailabilityConfig
	logg       *logger.Logger
}

// NewService constructs an availability service. cache may be nil; it is only
// consulted when the config enables it.
func NewService(assets assetSource, agreements agreementSource, cache timelineCache, cfg config.AvailabilityConfig, logg *logger.Logger) (Service, error) {
	if assets == nil {
		return nil, fmt.Errorf("asset source required")
	}
	if agreements == nil {
		return nil, fmt.Errorf("agreement source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 14
	}
	if cfg.LimitedRatio <= 0 {
		cfg.LimitedRatio = 0.2
	}
	return &service{assets: assets, agreements: agreements, cache: cache, cfg: cfg, logg: logg}, nil
}

// ComputeAvailability builds the day-by-day timeline for the asset over the
// requested window. The computation reads one immutable snapshot of the
// agreements and has no side effects, so repeated calls with the same inputs
// return the same timeline.
func (s *service) ComputeAvailability(ctx context.Context, tenantID, assetID uuid.UUID, fromRaw, toRaw string) (*Timeline, error) {
	from, to, err := parseWindow(fromRaw, toRaw, time.Now(), s.cfg.WindowDays)
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.FindByID(ctx, tenantID, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading asset")
	}

	cacheKey := ""
	if s.cacheEnabled() {
		cacheKey = s.cache.AvailabilityKey(tenantID.String(), assetID.String(), from.Format(dateLayout), to.Format(dateLayout))
		if cached := s.fromCache(ctx, cacheKey); cached != nil {
			return cached, nil
		}
	}

	agreements, err := s.agreements.ListOverlappingWindow(ctx, tenantID, assetID, from, endOfDay(to))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing agreements")
	}

	timeline := buildTimeline(asset.ID, asset.TotalQuantity, agreements, from, to, s.cfg.LimitedRatio)

	if cacheKey != "" {
		s.toCache(ctx, cacheKey, timeline)
	}
	return timeline, nil
}

func (s *service) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheEnabled && s.cfg.CacheTTL > 0
}

// fromCache returns the cached timeline or nil. Cache failures only log;
// the computation always has the database to fall back on.
func (s *service) fromCache(ctx context.Context, key string) *Timeline {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability cache read failed")
		}
		return nil
	}
	var timeline Timeline
	if err := json.Unmarshal([]byte(raw), &timeline); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability cache entry corrupt")
		return nil
	}
	return &timeline
}

func (s *service) toCache(ctx context.Context, key string, timeline *Timeline) {
	raw, err := json.Marshal(timeline)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cfg.CacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability cache write failed")
	}
}
