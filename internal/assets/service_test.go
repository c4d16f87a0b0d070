package assets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rentline/rentline-backend/pkg/db/models"
	"github.com/rentline/rentline-backend/pkg/enums"
	pkgerrors "github.com/rentline/rentline-backend/pkg/errors"
	"github.com/rentline/rentline-backend/pkg/pagination"
	"github.com/rentline/rentline-backend/pkg/types"
)

func setupAssetsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	rentalAssets := `
CREATE TABLE IF NOT EXISTS rental_assets (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  total_quantity INTEGER NOT NULL DEFAULT 0,
  rate_amount TEXT NOT NULL,
  deposit_amount TEXT,
  currency TEXT NOT NULL DEFAULT 'USD',
  min_hire_days INTEGER NOT NULL DEFAULT 1,
  max_hire_days INTEGER,
  gallery TEXT,
  tags TEXT,
  metadata TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniqueSlug := `
CREATE UNIQUE INDEX IF NOT EXISTS rental_assets_tenant_id_slug_key ON rental_assets (tenant_id, slug);`
	pricingTiers := `
CREATE TABLE IF NOT EXISTS pricing_tiers (
  id TEXT PRIMARY KEY,
  asset_id TEXT NOT NULL,
  duration_days INTEGER NOT NULL,
  price TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  deposit_override TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(rentalAssets).Error)
	require.NoError(t, db.Exec(uniqueSlug).Error)
	require.NoError(t, db.Exec(pricingTiers).Error)
	return db
}

type staticCouponCounts map[uuid.UUID]types.CouponCounts

func (c staticCouponCounts) CountByAsset(_ context.Context, _ uuid.UUID) (map[uuid.UUID]types.CouponCounts, error) {
	return c, nil
}

func newAssetService(t *testing.T, db *gorm.DB, counts staticCouponCounts) Service {
	t.Helper()

	if counts == nil {
		counts = staticCouponCounts{}
	}
	svc, err := NewService(NewRepository(db), counts, 3)
	require.NoError(t, err)
	return svc
}

func seedAsset(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name, slug string) *models.RentalAsset {
	t.Helper()

	asset := &models.RentalAsset{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       name,
		Slug:       slug,
		RateAmount: decimal.NewFromInt(50),
		Currency:   enums.CurrencyUSD,
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func TestServiceCreateAsset_slugFromName(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	view, err := svc.CreateAsset(context.Background(), uuid.New(), CreateAssetInput{
		Name:          "Scie Électrique Générale",
		TotalQuantity: 4,
		RateAmount:    decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	assert.Equal(t, "scie-electrique-generale", view.Slug)
	assert.Equal(t, "USD", view.Currency)
	assert.Equal(t, 1, view.MinHireDays)
	assert.True(t, view.IsActive)
}

func TestServiceCreateAsset_probesFirstFreeSuffix(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	tenantID := uuid.New()
	seedAsset(t, db, tenantID, "Terms", "terms")
	seedAsset(t, db, tenantID, "Terms Two", "terms-2")

	view, err := svc.CreateAsset(context.Background(), tenantID, CreateAssetInput{
		Name:       "Terms of Service",
		Slug:       "terms",
		RateAmount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	// terms and terms-2 are taken; terms-1 is the first free probe.
	assert.Equal(t, "terms-1", view.Slug)
}

func TestServiceCreateAsset_slugScopedPerTenant(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	input := CreateAssetInput{Name: "Mini Digger", RateAmount: decimal.NewFromInt(200)}

	first, err := svc.CreateAsset(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	second, err := svc.CreateAsset(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, "mini-digger", first.Slug)
	assert.Equal(t, "mini-digger", second.Slug)
}

func TestServiceCreateAsset_fallbackSlugForUnnormalizableName(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	view, err := svc.CreateAsset(context.Background(), uuid.New(), CreateAssetInput{
		Name:       "!!!",
		RateAmount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^asset-[0-9a-z]+$`, view.Slug)
}

func TestServiceCreateAsset_persistsTiersSorted(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	view, err := svc.CreateAsset(context.Background(), uuid.New(), CreateAssetInput{
		Name:       "Floor Sander",
		RateAmount: decimal.NewFromInt(45),
		PricingTiers: []PricingTierInput{
			{DurationDays: 7, Price: decimal.NewFromInt(180)},
			{DurationDays: 1, Price: decimal.NewFromInt(45)},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.PricingTiers, 2)
	assert.Equal(t, 1, view.PricingTiers[0].DurationDays)
	assert.Equal(t, 7, view.PricingTiers[1].DurationDays)
}

func TestServiceCreateAsset_rejectsBadInput(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	tenantID := uuid.New()
	three := 3
	cases := []struct {
		name  string
		input CreateAssetInput
	}{
		{"empty name", CreateAssetInput{RateAmount: decimal.NewFromInt(10)}},
		{"negative quantity", CreateAssetInput{Name: "X", TotalQuantity: -1, RateAmount: decimal.NewFromInt(10)}},
		{"negative rate", CreateAssetInput{Name: "X", RateAmount: decimal.NewFromInt(-1)}},
		{"max before min", CreateAssetInput{Name: "X", RateAmount: decimal.NewFromInt(10), MinHireDays: 5, MaxHireDays: &three}},
		{"duplicate tier duration", CreateAssetInput{Name: "X", RateAmount: decimal.NewFromInt(10), PricingTiers: []PricingTierInput{
			{DurationDays: 7, Price: decimal.NewFromInt(1)},
			{DurationDays: 7, Price: decimal.NewFromInt(2)},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAsset(context.Background(), tenantID, tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestServiceUpdateAsset_reassignsSlugOnlyWhenAsked(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	tenantID := uuid.New()
	asset := seedAsset(t, db, tenantID, "Pressure Washer", "pressure-washer")

	newName := "Pressure Washer XL"
	view, err := svc.UpdateAsset(context.Background(), tenantID, asset.ID, UpdateAssetInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Pressure Washer XL", view.Name)
	assert.Equal(t, "pressure-washer", view.Slug)

	proposed := "Washer XL"
	view, err = svc.UpdateAsset(context.Background(), tenantID, asset.ID, UpdateAssetInput{Slug: &proposed})
	require.NoError(t, err)
	assert.Equal(t, "washer-xl", view.Slug)
}

func TestServiceUpdateAsset_keepsOwnSlugOnReassign(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	tenantID := uuid.New()
	asset := seedAsset(t, db, tenantID, "Tile Cutter", "tile-cutter")

	// Re-resolving to its current slug must not append a suffix.
	proposed := "tile-cutter"
	view, err := svc.UpdateAsset(context.Background(), tenantID, asset.ID, UpdateAssetInput{Slug: &proposed})
	require.NoError(t, err)
	assert.Equal(t, "tile-cutter", view.Slug)
}

func TestServiceUpdateAsset_replacesPricingTiers(t *testing.T) {
	db := setupAssetsTestDB(t)
	svc := newAssetService(t, db, nil)

	tenantID := uuid.New()
	asset := seedAsset(t, db, tenantID, "Cement Mixer", "cement-mixer")
	require.NoError(t, db.Create(&models.PricingTier{
		ID:           uuid.New(),
		AssetID:      asset.ID,
		DurationDays: 1,
		Price:        decimal.NewFromInt(60),
		Currency:     enums.CurrencyUSD,
	}).Error)

	tiers := []PricingTierInput{
		{DurationDays: 3, Price: decimal.NewFromInt(150)},
		{DurationDays: 7, Price: decimal.NewFromInt(300)},
	}
	view, err := svc.UpdateAsset(context.Background(), tenantID, asset.ID, UpdateAssetInput{PricingTiers: &tiers})
	require.NoError(t, err)
	require.Len(t, view.PricingTiers, 2)
	assert.Equal(t, 3, view.PricingTiers[0].DurationDays)
	assert.Equal(t, 7, view.PricingTiers[1].DurationDays)
}

func TestServiceGetAsset_embedsCouponSummary(t *testing.T) {
	db := setupAssetsTestDB(t)
	tenantID := uuid.New()
	asset := seedAsset(t, db, tenantID, "Chainsaw", "chainsaw")

	svc := newAssetService(t, db, staticCouponCounts{
		asset.ID: {Total: 3, Active: 2},
	})

	view, err := svc.GetAsset(context.Background(), tenantID, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.CouponSummary.Total)
	assert.Equal(t, 2, view.CouponSummary.Active)

	_, err = svc.GetAsset(context.Background(), uuid.New(), asset.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRepositoryList_pagination(t *testing.T) {
	db := setupAssetsTestDB(t)
	repo := NewRepository(db)

	tenantID := uuid.New()
	for i, slug := range []string{"asset-a", "asset-b", "asset-c"} {
		asset := seedAsset(t, db, tenantID, slug, slug)
		// Space creation times so cursor ordering is deterministic.
		require.NoError(t, db.Model(asset).Update("created_at", asset.CreatedAt.Add(-time.Duration(i)*time.Minute)).Error)
	}

	first, err := repo.List(context.Background(), tenantID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Assets, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), tenantID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Assets, 1)
	assert.Empty(t, second.NextCursor)
}
