package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/api/middleware"
	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

type stubAuthService struct {
	signupBrandFn      func(ctx context.Context, in ports.BrandSignupInput) (*ports.AuthResult, error)
	loginBrandFn       func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	signupInfluencerFn func(ctx context.Context, in ports.InfluencerSignupInput) (*ports.AuthResult, error)
	loginInfluencerFn  func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) SignupBrand(ctx context.Context, in ports.BrandSignupInput) (*ports.AuthResult, error) {
	return s.signupBrandFn(ctx, in)
}

func (s *stubAuthService) LoginBrand(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginBrandFn(ctx, email, password)
}

func (s *stubAuthService) SignupInfluencer(ctx context.Context, in ports.InfluencerSignupInput) (*ports.AuthResult, error) {
	return s.signupInfluencerFn(ctx, in)
}

func (s *stubAuthService) LoginInfluencer(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginInfluencerFn(ctx, email, password)
}

type stubBrandService struct {
	profileFn   func(ctx context.Context, brandID string) (*domain.Brand, error)
	updateFn    func(ctx context.Context, brandID string, u domain.BrandProfileUpdate) (*domain.Brand, error)
	availableFn func(ctx context.Context) ([]domain.BrandSummary, error)
}

func (s *stubBrandService) Profile(ctx context.Context, brandID string) (*domain.Brand, error) {
	return s.profileFn(ctx, brandID)
}

func (s *stubBrandService) UpdateProfile(ctx context.Context, brandID string, u domain.BrandProfileUpdate) (*domain.Brand, error) {
	return s.updateFn(ctx, brandID, u)
}

func (s *stubBrandService) AvailableBrands(ctx context.Context) ([]domain.BrandSummary, error) {
	return s.availableFn(ctx)
}

type stubCampaignService struct {
	createFn func(ctx context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error)
	getFn    func(ctx context.Context, brandID, id string) (*domain.Campaign, error)
	listFn   func(ctx context.Context, brandID string) ([]*domain.Campaign, error)
	deleteFn func(ctx context.Context, brandID, id string) error
}

func (s *stubCampaignService) Create(ctx context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error) {
	return s.createFn(ctx, in)
}

func (s *stubCampaignService) Get(ctx context.Context, brandID, id string) (*domain.Campaign, error) {
	return s.getFn(ctx, brandID, id)
}

func (s *stubCampaignService) ListForBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error) {
	return s.listFn(ctx, brandID)
}

func (s *stubCampaignService) Delete(ctx context.Context, brandID, id string) error {
	return s.deleteFn(ctx, brandID, id)
}

func (s *stubCampaignService) FinalizePending(context.Context, string) error { return nil }

type stubInfluencerService struct {
	topFn        func(ctx context.Context, limit int64) ([]*domain.Influencer, error)
	getFn        func(ctx context.Context, id string) (*domain.Influencer, error)
	categoryFn   func(ctx context.Context, category string, limit int64) ([]*domain.Influencer, error)
	dashboardFn  func(ctx context.Context, req ports.PageRequest) (*ports.DashboardPage, error)
	searchFn     func(ctx context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error)
	byUsernameFn func(ctx context.Context, username string) (*domain.DashboardInfluencer, error)
}

func (s *stubInfluencerService) Top(ctx context.Context, limit int64) ([]*domain.Influencer, error) {
	return s.topFn(ctx, limit)
}

func (s *stubInfluencerService) GetByID(ctx context.Context, id string) (*domain.Influencer, error) {
	return s.getFn(ctx, id)
}

func (s *stubInfluencerService) SearchByCategory(ctx context.Context, category string, limit int64) ([]*domain.Influencer, error) {
	return s.categoryFn(ctx, category, limit)
}

func (s *stubInfluencerService) Dashboard(ctx context.Context, req ports.PageRequest) (*ports.DashboardPage, error) {
	return s.dashboardFn(ctx, req)
}

func (s *stubInfluencerService) SearchDashboard(ctx context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error) {
	return s.searchFn(ctx, query, limit)
}

func (s *stubInfluencerService) DashboardByUsername(ctx context.Context, username string) (*domain.DashboardInfluencer, error) {
	return s.byUsernameFn(ctx, username)
}

// newContext builds an Echo context for method/target with an optional JSON body.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asBrand injects the claims the Auth middleware sets for a brand token.
func asBrand(c echo.Context, brandID string) {
	c.Set(middleware.KeyUserID, "user-"+brandID)
	c.Set(middleware.KeyRole, domain.RoleBrand)
	c.Set(middleware.KeyBrandID, brandID)
	c.Set(middleware.KeyBrandUsername, "acme")
}
