package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brandscape/brandscape-api/internal/api/middleware"
	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// ctxPrincipal extracts the identity injected by the Auth middleware.
// Presence of a role proves the middleware ran.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := &domain.Principal{}
	p.Role, _ = c.Get(middleware.KeyRole).(string)
	if p.Role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	p.UserID, _ = c.Get(middleware.KeyUserID).(string)
	p.BrandID, _ = c.Get(middleware.KeyBrandID).(string)
	p.BrandUsername, _ = c.Get(middleware.KeyBrandUsername).(string)
	p.InfluencerID, _ = c.Get(middleware.KeyInfluencerID).(string)
	return p, nil
}

// ctxBrandID returns the caller's brand id. A brand token without one is
// structurally valid but unusable, so it is rejected with 401.
func ctxBrandID(c echo.Context) (string, error) {
	p, err := ctxPrincipal(c)
	if err != nil {
		return "", err
	}
	if p.Role != domain.RoleBrand {
		return "", echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	if p.BrandID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing brand identity")
	}
	return p.BrandID, nil
}

// queryInt64 parses a numeric query parameter. Missing or malformed values
// yield 0 so the service applies its default.
func queryInt64(c echo.Context, name string) int64 {
	n, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
