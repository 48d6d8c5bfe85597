package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

const testJWTSecret = "test-secret"

type authFixture struct {
	svc         *AuthService
	users       *stubUsers
	brands      *stubBrands
	influencers *stubInfluencers
	matches     *stubMatches
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  newStubUsers(),
		brands: newStubBrands(),
		influencers: newStubInfluencers(&domain.Influencer{
			ID:       "inf-imported",
			Username: "ana",
		}),
		matches: newStubMatches(&domain.BrandMatch{
			BrandUsername:      "Nike",
			BrandName:          "Nike Inc",
			BrandCategory:      "Sportswear",
			InfluencerUsername: "ana",
		}),
	}
	f.svc = NewAuthService(f.users, f.brands, f.influencers, f.matches, testJWTSecret, time.Hour, zerolog.Nop())
	return f
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestAuthService_SignupBrand_Success(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.SignupBrand(context.Background(), ports.BrandSignupInput{
		Email:    " Ops@Nike.com ",
		Password: "secret",
		Username: "nike",
		Name:     "Typed Name",
		Bio:      "typed bio",
	})
	require.NoError(t, err)

	// canonical username and match-table values win over typed ones
	assert.Equal(t, "Nike", res.User.Username)
	assert.Equal(t, "Nike Inc", res.User.Name)
	assert.Equal(t, "ops@nike.com", res.User.Email)
	assert.Equal(t, domain.RoleBrand, res.User.UserType)

	stored, err := f.brands.FindByID(context.Background(), res.User.BrandID)
	require.NoError(t, err)
	assert.Equal(t, "Sportswear", stored.Category)
	assert.Equal(t, "typed bio", stored.Bio)

	claims := parseClaims(t, res.Token)
	assert.Equal(t, res.User.BrandID, claims["brandId"])
	assert.Equal(t, "Nike", claims["brandUsername"])
	assert.Equal(t, "brand", claims["userType"])
	assert.Equal(t, res.User.ID, claims["userId"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestAuthService_SignupBrand_UnknownUsername(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.SignupBrand(context.Background(), ports.BrandSignupInput{
		Email: "a@b.com", Password: "pw", Username: "reebok", Name: "Reebok",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownBrand)

	_, err = f.users.FindByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "no user must be left behind")
}

func TestAuthService_SignupBrand_MissingFields(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.SignupBrand(context.Background(), ports.BrandSignupInput{Email: "a@b.com", Password: "pw"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "required fields")
}

func TestAuthService_SignupBrand_DuplicateEmailAndUsername(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignupBrand(ctx, ports.BrandSignupInput{Email: "a@nike.com", Password: "pw", Username: "Nike", Name: "N"})
	require.NoError(t, err)

	_, err = f.svc.SignupBrand(ctx, ports.BrandSignupInput{Email: "A@nike.com", Password: "pw", Username: "Nike", Name: "N"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.svc.SignupBrand(ctx, ports.BrandSignupInput{Email: "b@nike.com", Password: "pw", Username: "Nike", Name: "N"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestAuthService_SignupBrand_RollsBackUserOnProfileFailure(t *testing.T) {
	f := newAuthFixture()
	f.brands.createErr = errors.New("write conflict")

	_, err := f.svc.SignupBrand(context.Background(), ports.BrandSignupInput{Email: "a@nike.com", Password: "pw", Username: "Nike", Name: "N"})
	require.Error(t, err)

	_, err = f.users.FindByEmail(context.Background(), "a@nike.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_LoginBrand(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	signup, err := f.svc.SignupBrand(ctx, ports.BrandSignupInput{Email: "ops@nike.com", Password: "secret", Username: "Nike", Name: "N"})
	require.NoError(t, err)

	res, err := f.svc.LoginBrand(ctx, "OPS@nike.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, signup.User.BrandID, res.User.BrandID)
	assert.Equal(t, signup.User.BrandID, parseClaims(t, res.Token)["brandId"])
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignupBrand(ctx, ports.BrandSignupInput{Email: "ops@nike.com", Password: "secret", Username: "Nike", Name: "N"})
	require.NoError(t, err)

	_, unknown := f.svc.LoginBrand(ctx, "nobody@nike.com", "secret")
	_, wrongPassword := f.svc.LoginBrand(ctx, "ops@nike.com", "nope")
	_, wrongRole := f.svc.LoginInfluencer(ctx, "ops@nike.com", "secret")

	for _, err := range []error{unknown, wrongPassword, wrongRole} {
		assert.Equal(t, domain.ErrInvalidCredentials, err)
	}
}

func TestAuthService_SignupInfluencer_ClaimsImportedProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	res, err := f.svc.SignupInfluencer(ctx, ports.InfluencerSignupInput{Email: "ana@mail.com", Password: "pw", Username: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "inf-imported", res.User.InfluencerID)
	assert.Equal(t, "inf-imported", parseClaims(t, res.Token)["influencerId"])

	owned, err := f.influencers.FindByID(ctx, "inf-imported")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, owned.UserID)

	_, err = f.svc.SignupInfluencer(ctx, ports.InfluencerSignupInput{Email: "other@mail.com", Password: "pw", Username: "ana"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	login, err := f.svc.LoginInfluencer(ctx, "ana@mail.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "inf-imported", login.User.InfluencerID)
}

func TestAuthService_SignupInfluencer_CreatesNewProfile(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.SignupInfluencer(context.Background(), ports.InfluencerSignupInput{
		Email: "new@mail.com", Password: "pw", Username: "newbie", Name: "New", Category: "Food",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "inf-imported", res.User.InfluencerID)
	assert.Equal(t, "newbie", res.User.Username)
	assert.Equal(t, "New", res.User.Name)
}
