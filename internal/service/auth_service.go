package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/repository"
	"github.com/halcyonweb/backoffice/pkg/config"
	"github.com/halcyonweb/backoffice/pkg/events"
	"github.com/halcyonweb/backoffice/pkg/logger"
	"github.com/halcyonweb/backoffice/pkg/token"
)

// ErrInvalidCredentials is returned for every authentication failure:
// unknown email, wrong password, or an account with no password set.
// One error shape, so callers can't probe which emails exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrValidation wraps a malformed sign-in request; handlers map it to 400
// rather than 401.
var ErrValidation = errors.New("validation failed")

type AuthService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	bus      events.Publisher
	config   *config.Config
}

func NewAuthService(userRepo repository.UserRepository, bus events.Publisher, config *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		bus:      bus,
		config:   config,
	}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(s.config.Session.MinPasswordLength); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	sessionToken, err := token.Issue(
		user.ID,
		user.Email,
		user.Role,
		s.config.Session.Secret,
		s.config.Session.TTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := s.bus.Publish(ctx, events.UserSignedIn, events.UserSignedInEvent{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		SignedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish sign-in event", "error", err, "user_id", user.ID)
	}

	return &domain.LoginResponse{
		Token:    sessionToken,
		Redirect: s.redirectTarget(req.Redirect, user.Role),
		User:     user.ToUserInfo(),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// redirectTarget honors a relative or same-origin callback and falls back
// to the role landing page for anything cross-origin or unparseable.
func (s *authService) redirectTarget(requested, role string) string {
	landing := "/"
	if role == domain.RoleAdmin {
		landing = s.config.Site.AdminLanding
	}

	if requested == "" {
		return landing
	}

	// Relative path, but not a scheme-relative ("//host") URL.
	if strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, "//") {
		return requested
	}

	target, err := url.Parse(requested)
	if err != nil {
		return landing
	}
	base, err := url.Parse(s.config.Site.BaseURL)
	if err != nil {
		return landing
	}
	if target.Scheme == base.Scheme && target.Host == base.Host {
		return requested
	}

	return landing
}
