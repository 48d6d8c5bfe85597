package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnknownBrand       = errors.New("brand username not found in partner list")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidID          = errors.New("invalid id")

	ErrBrandNotFound      = errors.New("brand not found")
	ErrInfluencerNotFound = errors.New("influencer not found")
	ErrCampaignNotFound   = errors.New("campaign not found")

	// ErrIdempotencyConflict means another request holding the same
	// Idempotency-Key has not finished yet.
	ErrIdempotencyConflict = errors.New("idempotency key in use")

	// ErrNoBrandMatches means no match-table rows exist for a brand under any tier.
	ErrNoBrandMatches = errors.New("no influencer matches found")
	// ErrNoInfluencerProfiles means match rows exist but none of the matched
	// influencers has a profile in either profile store.
	ErrNoInfluencerProfiles = errors.New("influencer profiles missing for brand matches")

	ErrValidation = errors.New("validation failed")
)

// ValidationError carries a human readable reason and unwraps to ErrValidation.
type ValidationError struct {
	Reason string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NoMatchesError reports a brand with no rows in the match table together
// with a sample of brand usernames that do exist.
type NoMatchesError struct {
	Username        string
	AvailableBrands []string
}

func (e *NoMatchesError) Error() string {
	return fmt.Sprintf("no influencer matches found for brand username %q", e.Username)
}

func (e *NoMatchesError) Unwrap() error { return ErrNoBrandMatches }
