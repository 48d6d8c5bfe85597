package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	brandService ports.BrandService
}

func NewAuthHandler(authService ports.AuthService, brandService ports.BrandService) *AuthHandler {
	return &AuthHandler{authService: authService, brandService: brandService}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  ports.AccountView `json:"user"`
}

// SignupBrand registers a brand whose username exists in the match table.
//
// @Summary      Brand signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Brand signup details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/brand/signup [post]
func (h *AuthHandler) SignupBrand(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.SignupBrand(c.Request().Context(), ports.BrandSignupInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

// LoginBrand authenticates a brand account.
//
// @Summary      Brand login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/brand/login [post]
func (h *AuthHandler) LoginBrand(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.LoginBrand(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// SignupInfluencer registers an influencer, claiming an imported profile
// with the same username when one exists.
//
// @Summary      Influencer signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Influencer signup details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/influencer/signup [post]
func (h *AuthHandler) SignupInfluencer(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.SignupInfluencer(c.Request().Context(), ports.InfluencerSignupInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

// LoginInfluencer authenticates an influencer account.
//
// @Summary      Influencer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/influencer/login [post]
func (h *AuthHandler) LoginInfluencer(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.LoginInfluencer(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// AvailableBrands lists the brand usernames accepted at signup.
//
// @Summary      Brands available for signup
// @Tags         auth
// @Produce      json
// @Success      200  {array}   domain.BrandSummary
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/available-brands [get]
func (h *AuthHandler) AvailableBrands(c echo.Context) error {
	brands, err := h.brandService.AvailableBrands(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brands)
}
