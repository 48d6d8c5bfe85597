package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/brandscape/brandscape-api/docs"
	"github.com/brandscape/brandscape-api/internal/api/handler"
	"github.com/brandscape/brandscape-api/internal/api/middleware"
	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

// Deps holds everything the router needs to build its handlers.
type Deps struct {
	Auth        ports.AuthService
	Brands      ports.BrandService
	Influencers ports.InfluencerService
	Campaigns   ports.CampaignService

	// Mongo and Redis back the readiness probe only.
	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret   string
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, "Idempotency-Key",
		},
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddleware("brandscape"))

	authHandler := handler.NewAuthHandler(d.Auth, d.Brands)
	brandHandler := handler.NewBrandHandler(d.Brands)
	influencerHandler := handler.NewInfluencerHandler(d.Influencers)
	dashboardHandler := handler.NewDashboardHandler(d.Influencers)
	campaignHandler := handler.NewCampaignHandler(d.Campaigns)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)

	authMiddleware := middleware.Auth(d.JWTSecret)
	brandOnly := middleware.RBAC(domain.RoleBrand)

	api := e.Group("/api")

	// --- Auth routes (public) ---
	auth := api.Group("/auth")
	auth.POST("/brand/signup", authHandler.SignupBrand)
	auth.POST("/brand/login", authHandler.LoginBrand)
	auth.POST("/influencer/signup", authHandler.SignupInfluencer)
	auth.POST("/influencer/login", authHandler.LoginInfluencer)
	auth.GET("/available-brands", authHandler.AvailableBrands)

	// --- Brand-only routes ---
	brands := api.Group("/brands", authMiddleware, brandOnly)
	brands.GET("/profile", brandHandler.GetProfile)
	brands.PUT("/profile", brandHandler.UpdateProfile)

	campaigns := api.Group("/campaigns", authMiddleware, brandOnly)
	campaigns.POST("", campaignHandler.Create)
	campaigns.GET("/brand/all", campaignHandler.ListMine)
	campaigns.GET("/:id", campaignHandler.Get)
	campaigns.DELETE("/:id", campaignHandler.Delete)

	// --- Any authenticated user ---
	influencers := api.Group("/influencers", authMiddleware)
	influencers.GET("/top", influencerHandler.Top)
	influencers.GET("/search/category/:category", influencerHandler.SearchByCategory)
	influencers.GET("/:id", influencerHandler.Get)

	dashboard := api.Group("/dashboard-influencers", authMiddleware)
	dashboard.GET("", dashboardHandler.List)
	dashboard.GET("/search", dashboardHandler.Search)
	dashboard.GET("/username/:username", dashboardHandler.ByUsername)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
