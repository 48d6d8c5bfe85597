package domain

import (
	"errors"
	"testing"
)

func TestCampaignValidate(t *testing.T) {
	valid := Campaign{BrandID: "b1", Name: "Launch", Category: "Sports", Budget: 0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid campaign, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Campaign)
		reason string
	}{
		{"no brand", func(c *Campaign) { c.BrandID = "" }, "campaign brand is required"},
		{"no name", func(c *Campaign) { c.Name = "" }, "campaign name is required"},
		{"no category", func(c *Campaign) { c.Category = "" }, "campaign category is required"},
		{"negative budget", func(c *Campaign) { c.Budget = -1 }, "campaign budget must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Reason != tt.reason {
				t.Fatalf("Validate() = %v, want %q", err, tt.reason)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatal("validation errors must unwrap to ErrValidation")
			}
		})
	}
}

func TestCampaignOwnedBy(t *testing.T) {
	c := Campaign{BrandID: "b1"}
	if !c.OwnedBy("b1") {
		t.Fatal("owner not recognised")
	}
	if c.OwnedBy("b2") || c.OwnedBy("") {
		t.Fatal("non-owner accepted")
	}
	if (&Campaign{}).OwnedBy("") {
		t.Fatal("empty brand id must never own a campaign")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestUserValidateRole(t *testing.T) {
	u := User{Email: "a@b.c", PasswordHash: "x", Role: "admin"}
	if err := u.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	u.Role = RoleInfluencer
	if err := u.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoMatchesError(t *testing.T) {
	var err error = &NoMatchesError{Username: "ghost", AvailableBrands: []string{"nike"}}
	if !errors.Is(err, ErrNoBrandMatches) {
		t.Fatal("NoMatchesError must unwrap to ErrNoBrandMatches")
	}
	if err.Error() != `no influencer matches found for brand username "ghost"` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestBrandMatchValidate(t *testing.T) {
	if err := (&BrandMatch{BrandUsername: "nike"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected missing influencer to fail, got %v", err)
	}
	if err := (&BrandMatch{BrandUsername: "nike", InfluencerUsername: "ana"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
