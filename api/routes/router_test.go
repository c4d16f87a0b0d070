package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	agreementsvc "github.com/rentline/rentline-backend/internal/agreements"
	assetsvc "github.com/rentline/rentline-backend/internal/assets"
	availabilitysvc "github.com/rentline/rentline-backend/internal/availability"
	couponsvc "github.com/rentline/rentline-backend/internal/coupons"
	pkgAuth "github.com/rentline/rentline-backend/pkg/auth"
	"github.com/rentline/rentline-backend/pkg/config"
	"github.com/rentline/rentline-backend/pkg/enums"
	"github.com/rentline/rentline-backend/pkg/logger"
	"github.com/rentline/rentline-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAssetService struct{}

func (stubAssetService) CreateAsset(context.Context, uuid.UUID, assetsvc.CreateAssetInput) (*assetsvc.AssetView, error) {
	return &assetsvc.AssetView{ID: uuid.New(), Name: "stub", Slug: "stub"}, nil
}

func (stubAssetService) UpdateAsset(context.Context, uuid.UUID, uuid.UUID, assetsvc.UpdateAssetInput) (*assetsvc.AssetView, error) {
	return &assetsvc.AssetView{ID: uuid.New(), Name: "stub", Slug: "stub"}, nil
}

func (stubAssetService) GetAsset(context.Context, uuid.UUID, uuid.UUID) (*assetsvc.AssetView, error) {
	return &assetsvc.AssetView{ID: uuid.New(), Name: "stub", Slug: "stub"}, nil
}

func (stubAssetService) GetAssetBySlug(context.Context, uuid.UUID, string) (*assetsvc.AssetView, error) {
	return &assetsvc.AssetView{ID: uuid.New(), Name: "stub", Slug: "stub"}, nil
}

func (stubAssetService) ListAssets(context.Context, uuid.UUID, pagination.Params) (*assetsvc.AssetList, error) {
	return &assetsvc.AssetList{Assets: []assetsvc.AssetView{}}, nil
}

type stubCouponService struct{}

func (stubCouponService) CreateCoupon(context.Context, uuid.UUID, couponsvc.CreateCouponInput) (*couponsvc.CouponDTO, error) {
	return &couponsvc.CouponDTO{ID: uuid.New()}, nil
}

func (stubCouponService) GetCoupon(context.Context, uuid.UUID, uuid.UUID) (*couponsvc.CouponDTO, error) {
	return &couponsvc.CouponDTO{ID: uuid.New()}, nil
}

func (stubCouponService) ListCoupons(context.Context, uuid.UUID, *uuid.UUID) ([]couponsvc.CouponDTO, error) {
	return []couponsvc.CouponDTO{}, nil
}

func (stubCouponService) UpdateCouponStatus(context.Context, uuid.UUID, uuid.UUID, enums.CouponStatus) (*couponsvc.CouponDTO, error) {
	return &couponsvc.CouponDTO{ID: uuid.New()}, nil
}

type stubAgreementService struct{}

func (stubAgreementService) CreateAgreement(context.Context, uuid.UUID, agreementsvc.CreateAgreementInput) (*agreementsvc.AgreementDTO, error) {
	return &agreementsvc.AgreementDTO{ID: uuid.New()}, nil
}

func (stubAgreementService) ListAgreements(context.Context, uuid.UUID, uuid.UUID) ([]agreementsvc.AgreementDTO, error) {
	return []agreementsvc.AgreementDTO{}, nil
}

func (stubAgreementService) CancelAgreement(context.Context, uuid.UUID, uuid.UUID) (*agreementsvc.AgreementDTO, error) {
	return &agreementsvc.AgreementDTO{ID: uuid.New()}, nil
}

type stubAvailabilityService struct{}

func (stubAvailabilityService) ComputeAvailability(context.Context, uuid.UUID, uuid.UUID, string, string) (*availabilitysvc.Timeline, error) {
	return &availabilitysvc.Timeline{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "routes-test"})
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		nil,
		stubAssetService{},
		stubCouponService{},
		stubAgreementService{},
		stubAvailabilityService{},
	)
}

func mintToken(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     enums.MemberRoleManager,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if got := resp.Header().Get("X-Rentline-Env"); got != "development" {
			t.Fatalf("%s: expected env header, got %q", path, got)
		}
	}
}

func TestRouterPublicPingNeedsNoAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterPrivateRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/ping"},
		{http.MethodGet, "/api/v1/assets/"},
		{http.MethodGet, "/api/v1/coupons/"},
		{http.MethodGet, "/api/v1/agreements/?asset_id=" + uuid.NewString()},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestRouterAuthenticatedAssetFlow(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t)
	token := mintToken(t, cfg.JWT)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data assetsvc.AssetList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRouterCreateAssetRejectsUnknownFields(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t)
	token := mintToken(t, cfg.JWT)

	body := strings.NewReader(`{"name":"Scissor Lift","bogus":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterAvailabilityRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t)
	token := mintToken(t, cfg.JWT)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/"+uuid.NewString()+"/availability", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
