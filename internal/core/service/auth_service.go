package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

// DefaultTokenTTL is the lifetime of issued bearer tokens.
const DefaultTokenTTL = 7 * 24 * time.Hour

// dummyHash is compared against when an email is unknown so that both login
// failure paths spend the same bcrypt time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("brandscape-placeholder"), bcrypt.DefaultCost)
	return h
})

// AuthService implements signup and login for brands and influencers.
type AuthService struct {
	users       ports.AuthRepository
	brands      ports.BrandRepository
	influencers ports.InfluencerRepository
	matches     ports.BrandMatchRepository
	jwtSecret   string
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthService(
	users ports.AuthRepository,
	brands ports.BrandRepository,
	influencers ports.InfluencerRepository,
	matches ports.BrandMatchRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		users:       users,
		brands:      brands,
		influencers: influencers,
		matches:     matches,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

func (s *AuthService) SignupBrand(ctx context.Context, in ports.BrandSignupInput) (*ports.AuthResult, error) {
	res, err := s.signupBrand(ctx, in)
	observeAuth("brand_signup", err)
	return res, err
}

func (s *AuthService) LoginBrand(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	res, err := s.loginBrand(ctx, email, password)
	observeAuth("brand_login", err)
	return res, err
}

func (s *AuthService) SignupInfluencer(ctx context.Context, in ports.InfluencerSignupInput) (*ports.AuthResult, error) {
	res, err := s.signupInfluencer(ctx, in)
	observeAuth("influencer_signup", err)
	return res, err
}

func (s *AuthService) LoginInfluencer(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	res, err := s.loginInfluencer(ctx, email, password)
	observeAuth("influencer_login", err)
	return res, err
}

func (s *AuthService) signupBrand(ctx context.Context, in ports.BrandSignupInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || in.Password == "" || username == "" || in.Name == "" {
		return nil, domain.NewValidationError("Please provide all required fields: email, password, username, and name")
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	if _, err := s.brands.FindByUsername(ctx, username); err == nil {
		s.log.Info().Str("username", username).Msg("brand username already taken")
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrBrandNotFound) {
		return nil, err
	}

	// The match table doubles as the allow-list of partner brands.
	row, err := s.matches.FindFirst(ctx, domain.MatchQuery{Username: username, Mode: domain.MatchCaseFold})
	if err != nil {
		if errors.Is(err, domain.ErrNoBrandMatches) {
			s.log.Info().Str("username", username).Msg("brand username not in match table")
			return nil, domain.ErrUnknownBrand
		}
		return nil, err
	}

	user, err := s.createUser(ctx, email, in.Password, domain.RoleBrand)
	if err != nil {
		return nil, err
	}

	brand, err := s.brands.Create(ctx, &domain.Brand{
		UserID:    user.ID,
		Username:  row.BrandUsername,
		Name:      firstNonEmpty(row.BrandName, in.Name),
		Category:  firstNonEmpty(row.BrandCategory, in.Category),
		Bio:       firstNonEmpty(row.BrandBio, in.Bio),
		Email:     email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		s.discardUser(ctx, user)
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("brand_id", brand.ID).Str("username", brand.Username).Msg("brand signed up")
	return s.brandResult(user, brand)
}

func (s *AuthService) loginBrand(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.authenticate(ctx, email, password, domain.RoleBrand)
	if err != nil {
		return nil, err
	}
	brand, err := s.brands.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.brandResult(user, brand)
}

func (s *AuthService) signupInfluencer(ctx context.Context, in ports.InfluencerSignupInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || in.Password == "" || username == "" {
		return nil, domain.NewValidationError("Please provide all required fields: email, password, and username")
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	existing, err := s.influencers.FindByUsername(ctx, username)
	switch {
	case err == nil && existing.UserID != "":
		return nil, domain.ErrUsernameTaken
	case err != nil && !errors.Is(err, domain.ErrInfluencerNotFound):
		return nil, err
	}

	user, err := s.createUser(ctx, email, in.Password, domain.RoleInfluencer)
	if err != nil {
		return nil, err
	}

	var profile *domain.Influencer
	if existing != nil {
		// imported profile without an owner: claim it
		if err := s.influencers.ClaimOwner(ctx, existing.ID, user.ID); err != nil {
			s.discardUser(ctx, user)
			return nil, err
		}
		existing.UserID = user.ID
		profile = existing
	} else {
		profile, err = s.influencers.Create(ctx, &domain.Influencer{
			UserID:   user.ID,
			Username: username,
			InfluencerStats: domain.InfluencerStats{
				Name:     in.Name,
				Category: in.Category,
				Bio:      in.Bio,
				Email:    email,
			},
			CreatedAt: user.CreatedAt,
		})
		if err != nil {
			s.discardUser(ctx, user)
			return nil, err
		}
	}

	s.log.Info().Str("user_id", user.ID).Str("influencer_id", profile.ID).Bool("claimed", existing != nil).Msg("influencer signed up")
	return s.influencerResult(user, profile)
}

func (s *AuthService) loginInfluencer(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.authenticate(ctx, email, password, domain.RoleInfluencer)
	if err != nil {
		return nil, err
	}
	profile, err := s.influencers.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.influencerResult(user, profile)
}

// authenticate verifies credentials. Unknown email, wrong role and wrong
// password all yield domain.ErrInvalidCredentials.
func (s *AuthService) authenticate(ctx context.Context, email, password, role string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil || user.Role != role {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.log.Info().Str("email", email).Msg("email already registered")
		return domain.ErrEmailTaken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func (s *AuthService) createUser(ctx context.Context, email, password, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
}

// discardUser removes a user whose profile could not be created.
func (s *AuthService) discardUser(ctx context.Context, user *domain.User) {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to remove user after profile creation failure")
	}
}

func (s *AuthService) brandResult(user *domain.User, brand *domain.Brand) (*ports.AuthResult, error) {
	token, err := s.generateToken(jwt.MapClaims{
		"userId":        user.ID,
		"userType":      domain.RoleBrand,
		"brandId":       brand.ID,
		"brandUsername": brand.Username,
	})
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		Token: token,
		User: ports.AccountView{
			ID:       user.ID,
			Email:    user.Email,
			UserType: domain.RoleBrand,
			BrandID:  brand.ID,
			Username: brand.Username,
			Name:     brand.Name,
		},
	}, nil
}

func (s *AuthService) influencerResult(user *domain.User, inf *domain.Influencer) (*ports.AuthResult, error) {
	token, err := s.generateToken(jwt.MapClaims{
		"userId":       user.ID,
		"userType":     domain.RoleInfluencer,
		"influencerId": inf.ID,
	})
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		Token: token,
		User: ports.AccountView{
			ID:           user.ID,
			Email:        user.Email,
			UserType:     domain.RoleInfluencer,
			InfluencerID: inf.ID,
			Username:     inf.Username,
			Name:         inf.Name,
		},
	}, nil
}

func (s *AuthService) generateToken(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.tokenTTL).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func observeAuth(action string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
