package domain

import "time"

// Brand is the profile owned by a brand user.
type Brand struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	Category  string    `json:"category,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Brand) Validate() error {
	switch {
	case b.UserID == "":
		return NewValidationError("brand owner is required")
	case b.Username == "":
		return NewValidationError("brand username is required")
	case b.Name == "":
		return NewValidationError("brand name is required")
	}
	return nil
}

// BrandProfileUpdate lists the fields a brand may edit on its own profile.
type BrandProfileUpdate struct {
	Name     string
	Bio      string
	Category string
}

// BrandSummary is one entry of the signup allow-list.
type BrandSummary struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
