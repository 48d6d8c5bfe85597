package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth.
const (
	KeyUserID        = "user_id"
	KeyRole          = "role"
	KeyBrandID       = "brand_id"
	KeyBrandUsername = "brand_username"
	KeyInfluencerID  = "influencer_id"
)

// Auth validates the bearer JWT and injects its claims into the context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			userID := claimString(claims, "userId")
			role := claimString(claims, "userType")
			if userID == "" || role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			c.Set(KeyUserID, userID)
			c.Set(KeyRole, role)
			c.Set(KeyBrandID, claimString(claims, "brandId"))
			c.Set(KeyBrandUsername, claimString(claims, "brandUsername"))
			c.Set(KeyInfluencerID, claimString(claims, "influencerId"))

			return next(c)
		}
	}
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
