package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message         string   `json:"message"`
	AvailableBrands []string `json:"availableBrands,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	var noMatches *domain.NoMatchesError
	if errors.As(err, &noMatches) {
		return http.StatusNotFound, errorResponse{
			Message:         noMatches.Error() + ". Please ensure your brand username matches the imported brand match data",
			AvailableBrands: noMatches.AvailableBrands,
		}
	}

	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, errorResponse{Message: invalid.Reason}
	}

	if code, msg, ok := statusFor(err); ok {
		return code, errorResponse{Message: msg}
	}

	logUnexpected(log, c, err)
	return http.StatusInternalServerError, errorResponse{Message: "Server error"}
}

// statusFor maps domain sentinels to a status and client-facing message.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials", true
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered", true
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, "Username already taken. Please login instead.", true
	case errors.Is(err, domain.ErrUnknownBrand):
		return http.StatusBadRequest, "Brand username not found in our system. Please use a registered brand username from our partner list.", true
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "Invalid id", true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied", true
	case errors.Is(err, domain.ErrIdempotencyConflict):
		return http.StatusConflict, "A request with this Idempotency-Key is still in progress", true
	case errors.Is(err, domain.ErrCampaignNotFound):
		return http.StatusNotFound, "Campaign not found", true
	case errors.Is(err, domain.ErrBrandNotFound):
		return http.StatusNotFound, "Brand not found", true
	case errors.Is(err, domain.ErrInfluencerNotFound):
		return http.StatusNotFound, "Influencer not found", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, domain.ErrNoInfluencerProfiles):
		return http.StatusNotFound, "Found brand matches but influencer profiles are missing. Please run the import first.", true
	case errors.Is(err, domain.ErrNoBrandMatches):
		return http.StatusNotFound, "No influencer matches found", true
	}
	return 0, "", false
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
