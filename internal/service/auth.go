package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/repository"
)

const maxCredentialLength = 255

// UserStore looks up users.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// SessionRegistry tracks live token ids and the user each belongs to.
type SessionRegistry interface {
	RegisterSession(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error
	SessionOwner(ctx context.Context, tokenID string) (int64, bool, error)
	RotateSession(ctx context.Context, oldID, newID string, userID int64, ttl time.Duration) (bool, error)
	DeleteSession(ctx context.Context, tokenID string) error
}

// AuthService handles login, token validation, refresh and logout.
type AuthService struct {
	users    UserStore
	sessions SessionRegistry
	tokens   *auth.TokenIssuer
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions SessionRegistry, tokens *auth.TokenIssuer, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		metrics:  recorder,
		logger:   logger,
	}
}

// LoginInput holds raw credential values as decoded from the request body.
type LoginInput struct {
	Email    any
	Password any
}

// LoginResult is a successful login.
type LoginResult struct {
	Token *auth.IssuedToken
	User  *model.User
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	v := NewValidationError()
	email, _ := requiredString(v, "email", input.Email, maxCredentialLength)
	password, _ := requiredSecret(v, "password", input.Password, maxCredentialLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.VerifyDummy(password)
			s.metrics.IncLoginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password hash unreadable", "user_id", user.ID, "error", err)
	}
	if !match {
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}

	if auth.IsLegacyHash(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}

	issued, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncLoginSucceeded()
	return &LoginResult{Token: issued, User: user}, nil
}

// Authenticate resolves a bearer token to its user.
// Expiry is reported before registry or user lookups.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*model.AuthContext, error) {
	if rawToken == "" {
		return nil, ErrTokenMissing
	}

	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	owner, live, err := s.sessions.SessionOwner(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !live || owner != claims.UserID {
		return nil, ErrTokenRevoked
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &model.AuthContext{
		User:      user,
		TokenID:   claims.TokenID,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Refresh exchanges a token, expired or not, for a new one while inside the
// refresh window. The old token id stops working.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*auth.IssuedToken, error) {
	if rawToken == "" {
		s.metrics.IncRefreshDenied()
		return nil, ErrRefreshDenied
	}

	claims, err := s.tokens.ParseForRefresh(rawToken)
	if err != nil {
		s.metrics.IncRefreshDenied()
		return nil, fmt.Errorf("%w: %v", ErrRefreshDenied, err)
	}

	if _, err := s.users.GetUserByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncRefreshDenied()
			return nil, fmt.Errorf("%w: %v", ErrRefreshDenied, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	issued, err := s.tokens.Issue(claims.UserID)
	if err != nil {
		return nil, err
	}

	rotated, err := s.sessions.RotateSession(ctx, claims.TokenID, issued.ID, claims.UserID, s.tokens.RefreshTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	if !rotated {
		s.metrics.IncRefreshDenied()
		return nil, fmt.Errorf("%w: %v", ErrRefreshDenied, ErrTokenRevoked)
	}

	s.metrics.IncTokenRefreshed()
	return issued, nil
}

// Logout ends the session the token id belongs to.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if err := s.sessions.DeleteSession(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.metrics.IncLogout()
	return nil
}

func (s *AuthService) issue(ctx context.Context, userID int64) (*auth.IssuedToken, error) {
	issued, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.RegisterSession(ctx, issued.ID, userID, s.tokens.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to register session: %w", err)
	}
	return issued, nil
}

// upgradeHash rewrites a legacy bcrypt hash as Argon2id. Failure only costs
// another upgrade attempt on the next login.
func (s *AuthService) upgradeHash(ctx context.Context, user *model.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Warn("password rehash not stored", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
	s.logger.Info("upgraded legacy password hash", "user_id", user.ID)
}
