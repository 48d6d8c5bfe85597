package domain

import (
	"strings"
	"time"
)

const (
	RoleBrand      = "brand"
	RoleInfluencer = "influencer"
)

// User models a credential record. The profile it owns lives in the brands or
// influencers collection depending on Role.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"userType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail lower-cases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return NewValidationError("email is required")
	case u.PasswordHash == "":
		return NewValidationError("password hash is required")
	case u.Role != RoleBrand && u.Role != RoleInfluencer:
		return NewValidationError("role must be brand or influencer")
	}
	return nil
}

// Principal is the identity recovered from a verified bearer token.
type Principal struct {
	UserID        string
	Role          string
	BrandID       string
	BrandUsername string
	InfluencerID  string
}
