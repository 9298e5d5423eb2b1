package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/email"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
)

// --- Error Definitions ---
var (
	ErrEmailNotApproved = errors.New("This email is not approved for access.")
	ErrInvalidLink      = errors.New("sign-in link is invalid or already used")
	ErrLinkExpired      = errors.New("sign-in link has expired")
	ErrHashingFailed    = errors.New("failed to hash link secret")
	ErrTokenGeneration  = errors.New("failed to generate authentication token")
	ErrEmailDelivery    = errors.New("failed to send sign-in email")
)

type AuthService interface {
	// RequestMagicLink emails a single-use sign-in link to a known profile.
	// Unknown addresses get ErrEmailNotApproved; accounts are never created here.
	RequestMagicLink(ctx context.Context, emailAddr string) error
	// Redeem exchanges a link token for a session JWT.
	Redeem(ctx context.Context, token string) (jwtToken string, profile *domain.Profile, err error)
	GetJWTSecret() string
}

// AuthConfig groups the settings of the sign-in flow.
type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	LinkTTL       time.Duration
	CallbackURL   string // Absolute URL the emailed link points at
}

// authService implements the AuthService interface.
type authService struct {
	profileRepo repository.ProfileRepository
	linkRepo    repository.MagicLinkRepository
	sender      email.Sender
	log         logger.Logger
	cfg         AuthConfig
	now         func() time.Time
}

type magicLinkRequest struct {
	Email string `validate:"required,email"`
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	profileRepo repository.ProfileRepository,
	linkRepo repository.MagicLinkRepository,
	sender email.Sender,
	log logger.Logger,
	cfg AuthConfig,
) AuthService {
	if cfg.JWTSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = 24 * time.Hour
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 15 * time.Minute
	}
	return &authService{
		profileRepo: profileRepo,
		linkRepo:    linkRepo,
		sender:      sender,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *authService) RequestMagicLink(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if err := validateInput(magicLinkRequest{Email: emailAddr}); err != nil {
		return err
	}

	profile, err := s.profileRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("magic link requested for unknown email %s", emailAddr)
			return ErrEmailNotApproved
		}
		return err
	}

	// The token is "<link id>.<secret>"; only a bcrypt hash of the secret is stored.
	secret := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	now := s.now()
	link := &domain.MagicLink{
		ID:         uuid.NewString(),
		ProfileID:  profile.ID,
		Email:      profile.Email,
		SecretHash: string(hash),
		ExpiresAt:  now.Add(s.cfg.LinkTTL),
	}
	if n, err := s.linkRepo.DeleteExpired(ctx, now); err != nil {
		s.log.Warnf("failed to prune expired magic links: %v", err)
	} else if n > 0 {
		s.log.Debugf("pruned %d expired magic links", n)
	}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return err
	}

	linkURL := s.cfg.CallbackURL + "?token=" + url.QueryEscape(link.ID+"."+secret)
	msg, err := email.MagicLinkMessage(profile.Email, profile.Username, linkURL, s.cfg.LinkTTL)
	if err != nil {
		return err
	}
	if _, err := s.sender.Send(ctx, msg); err != nil {
		s.log.Errorf("magic link email to %s failed: %v", profile.Email, err)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	s.log.Infof("magic link sent to profile %s", profile.ID)
	return nil
}

func (s *authService) Redeem(ctx context.Context, token string) (string, *domain.Profile, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || id == "" || secret == "" {
		return "", nil, ErrInvalidLink
	}

	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidLink
		}
		return "", nil, err
	}
	if link.UsedAt != nil {
		return "", nil, ErrInvalidLink
	}
	now := s.now()
	if !now.Before(link.ExpiresAt) {
		return "", nil, ErrLinkExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(link.SecretHash), []byte(secret)); err != nil {
		return "", nil, ErrInvalidLink
	}
	if err := s.linkRepo.MarkUsed(ctx, link.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidLink
		}
		return "", nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, link.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidLink
		}
		return "", nil, err
	}

	signed, err := s.generateJWT(profile, now)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return signed, profile, nil
}

// --- JWT Helper ---

// Claims defines the structure of the JWT payload.
type Claims struct {
	UserID string      `json:"uid"`  // Profile ID
	Role   domain.Role `json:"role"` // Profile role
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given profile.
func (s *authService) generateJWT(p *domain.Profile, now time.Time) (string, error) {
	claims := &Claims{
		UserID: p.ID,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "swimlog",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.cfg.JWTSecret
}
