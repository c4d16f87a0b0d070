package availability

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/config"
	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/logger"
)

type stubAssetSource struct {
	asset *models.RentalAsset
}

func (s *stubAssetSource) FindByID(_ context.Context, _, id uuid.UUID) (*models.RentalAsset, error) {
	if s.asset == nil || s.asset.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.asset, nil
}

type stubAgreementSource struct {
	agreements []models.RentalAgreement
	calls      int
}

func (s *stubAgreementSource) ListOverlappingWindow(_ context.Context, _, _ uuid.UUID, _, _ time.Time) ([]models.RentalAgreement, error) {
	s.calls++
	return s.agreements, nil
}

type memoryCache struct {
	entries map[string]string
}

func (c *memoryCache) AvailabilityKey(tenantID, assetID, from, to string) string {
	return "test:" + tenantID + ":" + assetID + ":" + from + ":" + to
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	if value, ok := c.entries[key]; ok {
		return value, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.entries == nil {
		c.entries = map[string]string{}
	}
	c.entries[key] = value.(string)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testAsset(total int) *models.RentalAsset {
	return &models.RentalAsset{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		Name:          "Excavator",
		Slug:          "excavator",
		TotalQuantity: total,
	}
}

func TestServiceComputeAvailability(t *testing.T) {
	asset := testAsset(2)
	start := day(1)
	end := day(3)
	source := &stubAgreementSource{agreements: []models.RentalAgreement{
		{
			ID:            uuid.New(),
			Status:        enums.AgreementStatusConfirmed,
			Quantity:      2,
			RentalStartAt: start,
			ReturnDueAt:   &end,
		},
	}}

	svc, err := NewService(&stubAssetSource{asset: asset}, source, nil, config.AvailabilityConfig{WindowDays: 14, LimitedRatio: 0.2}, testLogger())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	timeline, err := svc.ComputeAvailability(context.Background(), asset.TenantID, asset.ID, "2026-09-01", "2026-09-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timeline.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(timeline.Days))
	}
	if timeline.TotalQuantity != 2 {
		t.Errorf("expected total 2, got %d", timeline.TotalQuantity)
	}
	if timeline.Days[0].Status != enums.AvailabilityStatusSoldOut {
		t.Errorf("day 1: expected sold_out, got %s", timeline.Days[0].Status)
	}
	if timeline.Days[4].Status != enums.AvailabilityStatusAvailable {
		t.Errorf("day 5: expected available, got %s", timeline.Days[4].Status)
	}

	// Idempotent: the same window computes the same timeline.
	again, err := svc.ComputeAvailability(context.Background(), asset.TenantID, asset.ID, "2026-09-01", "2026-09-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(timeline, again) {
		t.Error("expected identical timelines for identical inputs")
	}
}

func TestServiceComputeAvailabilityDefaultWindowLength(t *testing.T) {
	asset := testAsset(1)
	svc, err := NewService(&stubAssetSource{asset: asset}, &stubAgreementSource{}, nil, config.AvailabilityConfig{WindowDays: 14, LimitedRatio: 0.2}, testLogger())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	timeline, err := svc.ComputeAvailability(context.Background(), asset.TenantID, asset.ID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timeline.Days) != 14 {
		t.Fatalf("expected 14-day default window, got %d", len(timeline.Days))
	}
}

func TestServiceComputeAvailabilityUnknownAsset(t *testing.T) {
	svc, err := NewService(&stubAssetSource{}, &stubAgreementSource{}, nil, config.AvailabilityConfig{}, testLogger())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.ComputeAvailability(context.Background(), uuid.New(), uuid.New(), "", "")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestServiceComputeAvailabilityInvalidRange(t *testing.T) {
	asset := testAsset(1)
	svc, err := NewService(&stubAssetSource{asset: asset}, &stubAgreementSource{}, nil, config.AvailabilityConfig{}, testLogger())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.ComputeAvailability(context.Background(), asset.TenantID, asset.ID, "2026-09-10", "2026-09-01")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInvalidDateRange {
		t.Fatalf("expected INVALID_DATE_RANGE, got %v", err)
	}
}

func TestServiceComputeAvailabilityUsesCache(t *testing.T) {
	asset := testAsset(3)
	source := &stubAgreementSource{}
	cache := &memoryCache{}
	cfg := config.AvailabilityConfig{WindowDays: 14, LimitedRatio: 0.2, CacheEnabled: true, CacheTTL: time.Minute}

	svc, err := NewService(&stubAssetSource{asset: asset}, source, cache, cfg, testLogger())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	first, err := svc.ComputeAvailability(context.Background(), asset.TenantID, asset.ID, "2026-09-01", "2026-09-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ComputeAvailability(context.Background(), asset.TenantID, asset.ID, "2026-09-01", "2026-09-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if source.calls != 1 {
		t.Errorf("expected one agreement query, got %d", source.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached timeline must match the computed one")
	}
}
