package ports

import "context"

// BrandSignupInput carries the brand signup payload. Category and Bio are
// only used when the match table has no value for them.
type BrandSignupInput struct {
	Email    string
	Password string
	Username string
	Name     string
	Category string
	Bio      string
}

// InfluencerSignupInput carries the influencer signup payload.
type InfluencerSignupInput struct {
	Email    string
	Password string
	Username string
	Name     string
	Category string
	Bio      string
}

// AccountView is the user block returned alongside a token.
type AccountView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserType     string `json:"userType"`
	BrandID      string `json:"brandId,omitempty"`
	InfluencerID string `json:"influencerId,omitempty"`
	Username     string `json:"username"`
	Name         string `json:"name"`
}

// AuthResult is returned by every signup and login operation.
type AuthResult struct {
	Token string
	User  AccountView
}

type AuthService interface {
	SignupBrand(ctx context.Context, in BrandSignupInput) (*AuthResult, error)
	LoginBrand(ctx context.Context, email, password string) (*AuthResult, error)
	SignupInfluencer(ctx context.Context, in InfluencerSignupInput) (*AuthResult, error)
	LoginInfluencer(ctx context.Context, email, password string) (*AuthResult, error)
}
