package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aziznur-dev/bozorplace-backend/api/controllers"
	"github.com/aziznur-dev/bozorplace-backend/api/middleware"
	"github.com/aziznur-dev/bozorplace-backend/internal/accounts"
	"github.com/aziznur-dev/bozorplace-backend/internal/catalog"
	"github.com/aziznur-dev/bozorplace-backend/internal/orders"
	"github.com/aziznur-dev/bozorplace-backend/internal/reviews"
	"github.com/aziznur-dev/bozorplace-backend/internal/shops"
	"github.com/aziznur-dev/bozorplace-backend/pkg/auth/session"
	"github.com/aziznur-dev/bozorplace-backend/pkg/config"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/logger"
	"github.com/aziznur-dev/bozorplace-backend/pkg/metrics"
	"github.com/aziznur-dev/bozorplace-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisClient     *redis.Client
	SessionChecker  session.AccessSessionChecker
	AccountService  accounts.Service
	ShopService     shops.Service
	CatalogService  catalog.Service
	OrderService    orders.Service
	ReviewService   reviews.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	var redisPinger redis.Pinger
	if deps.RedisClient != nil {
		redisPinger = deps.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsRegistry))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireDeviceID(logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).
				Post("/register", controllers.AuthRegister(deps.AccountService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).
				Post("/login", controllers.AuthLogin(deps.AccountService, logg))
		})
		r.Post("/refresh", controllers.AuthRefresh(deps.AccountService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(deps.AccountService, logg))
	})

	// Public catalog surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.CatalogService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.CatalogService, logg))
		r.Get("/products/{productId}/reviews", controllers.ListProductReviews(deps.ReviewService, logg))
		r.Get("/shops/{shopId}", controllers.GetShop(deps.ShopService, logg))
		r.Get("/categories", controllers.ListCategories(deps.ShopService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

			r.Get("/me", controllers.Profile(deps.AccountService, logg))
			r.Get("/me/shops", controllers.ListMyShops(deps.ShopService, logg))

			r.Post("/shops", controllers.CreateShop(deps.ShopService, logg))
			r.Put("/shops/{shopId}", controllers.UpdateShop(deps.ShopService, logg))

			r.Post("/products", controllers.CreateProduct(deps.CatalogService, logg))
			r.Put("/products/{productId}", controllers.ReplaceProduct(deps.CatalogService, logg))
			r.Delete("/products/{productId}", controllers.DeleteProduct(deps.CatalogService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.CreateOrder(deps.OrderService, logg))
				r.Get("/", controllers.ListOrders(deps.OrderService, logg))
				r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
				r.Delete("/{orderId}", controllers.DeleteOrder(deps.OrderService, logg))
				r.Post("/{orderId}/items", controllers.AddOrderItem(deps.OrderService, logg))
				r.Delete("/{orderId}/items/{itemId}", controllers.RemoveOrderItem(deps.OrderService, logg))
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Post("/", controllers.CreateReview(deps.ReviewService, logg))
				r.Put("/{reviewId}", controllers.UpdateReview(deps.ReviewService, logg))
				r.Delete("/{reviewId}", controllers.DeleteReview(deps.ReviewService, logg))
			})
		})
	})

	return r
}
