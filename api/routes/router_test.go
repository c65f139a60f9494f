package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aziznur-dev/bozorplace-backend/internal/accounts"
	"github.com/aziznur-dev/bozorplace-backend/internal/catalog"
	"github.com/aziznur-dev/bozorplace-backend/internal/orders"
	"github.com/aziznur-dev/bozorplace-backend/internal/reviews"
	"github.com/aziznur-dev/bozorplace-backend/internal/shops"
	pkgauth "github.com/aziznur-dev/bozorplace-backend/pkg/auth"
	"github.com/aziznur-dev/bozorplace-backend/pkg/auth/session"
	"github.com/aziznur-dev/bozorplace-backend/pkg/config"
	"github.com/aziznur-dev/bozorplace-backend/pkg/enums"
	"github.com/aziznur-dev/bozorplace-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAccountService struct{}

func (stubAccountService) Register(ctx context.Context, input accounts.RegisterInput) (*accounts.AuthResultDTO, error) {
	return &accounts.AuthResultDTO{}, nil
}

func (stubAccountService) Login(ctx context.Context, input accounts.LoginInput) (*accounts.AuthResultDTO, error) {
	return &accounts.AuthResultDTO{}, nil
}

func (stubAccountService) Refresh(ctx context.Context, input accounts.RefreshInput) (*accounts.AuthResultDTO, error) {
	return &accounts.AuthResultDTO{}, nil
}

func (stubAccountService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*accounts.UserDTO, error) {
	return &accounts.UserDTO{ID: userID}, nil
}

type stubShopService struct{}

func (stubShopService) CreateShop(ctx context.Context, ownerID uuid.UUID, input shops.ShopInput) (*shops.ShopDTO, error) {
	return &shops.ShopDTO{}, nil
}

func (stubShopService) UpdateShop(ctx context.Context, ownerID, shopID uuid.UUID, input shops.ShopInput) (*shops.ShopDTO, error) {
	return &shops.ShopDTO{}, nil
}

func (stubShopService) GetShop(ctx context.Context, shopID uuid.UUID) (*shops.ShopDTO, error) {
	return &shops.ShopDTO{ID: shopID}, nil
}

func (stubShopService) ListMyShops(ctx context.Context, ownerID uuid.UUID) ([]shops.ShopDTO, error) {
	return nil, nil
}

func (stubShopService) ListCategories(ctx context.Context) ([]shops.CategoryDTO, error) {
	return []shops.CategoryDTO{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateProduct(ctx context.Context, sellerUserID uuid.UUID, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) ReplaceProduct(ctx context.Context, sellerUserID, productID uuid.UUID, input catalog.ReplaceProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: productID}, nil
}

func (stubCatalogService) DeleteProduct(ctx context.Context, sellerUserID, productID uuid.UUID) error {
	return nil
}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ListResult, error) {
	return &catalog.ListResult{}, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, customerID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) AddItem(ctx context.Context, customerID uuid.UUID, input orders.AddItemInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) RemoveItem(ctx context.Context, customerID, orderID, itemID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) Get(ctx context.Context, customerID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]orders.OrderDTO, error) {
	return nil, nil
}

func (stubOrderService) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	return nil
}

type stubReviewService struct{}

func (stubReviewService) Create(ctx context.Context, userID uuid.UUID, input reviews.CreateReviewInput) (*reviews.ReviewDTO, error) {
	return &reviews.ReviewDTO{}, nil
}

func (stubReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, input reviews.UpdateReviewInput) (*reviews.ReviewDTO, error) {
	return &reviews.ReviewDTO{}, nil
}

func (stubReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	return nil
}

func (stubReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]reviews.ReviewDTO, error) {
	return []reviews.ReviewDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "router-secret",
			Issuer:                 "bozorplace-test",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DBPinger:       stubPinger{},
		SessionChecker: stubSessionChecker{},
		AccountService: stubAccountService{},
		ShopService:    stubShopService{},
		CatalogService: stubCatalogService{},
		OrderService:   stubOrderService{},
		ReviewService:  stubReviewService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: enums.UserTypeUser,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestHealthReadyWithHealthyDeps(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, target := range []string{"/api/v1/me", "/api/v1/orders", "/api/v1/me/shops"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token on %s got %d", target, resp.Code)
		}
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile got %d", resp.Code)
	}
}

func TestPublicCatalogRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	targets := []string{
		"/api/v1/products",
		"/api/v1/products/" + uuid.NewString(),
		"/api/v1/products/" + uuid.NewString() + "/reviews",
		"/api/v1/shops/" + uuid.NewString(),
		"/api/v1/categories",
	}
	for _, target := range targets {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for public %s got %d", target, resp.Code)
		}
	}
}

func TestRegisterRequiresDeviceID(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"username":"salim","password":"long-enough-pass","user_type":"user"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Device-ID got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Device-ID", "device-1")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with Device-ID got %d", resp.Code)
	}
}

func TestProductMutationsRequireJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated delete got %d", resp.Code)
	}
}
