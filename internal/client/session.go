package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/model"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateLoggedOut State = iota
	StateLoggingIn
	StateLoggedIn
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateLoggingIn:
		return "logging_in"
	case StateLoggedIn:
		return "logged_in"
	case StateRefreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session errors.
var (
	ErrNotAuthenticated     = errors.New("not logged in")
	ErrAlreadyAuthenticated = errors.New("already logged in")
	ErrLoginInProgress      = errors.New("login already in progress")
	ErrSessionEnded         = errors.New("session ended while a login or refresh was in flight")
)

// sessionEndingCodes end the local session when an authenticated call fails with them.
var sessionEndingCodes = []string{
	dto.CodeTokenExpired,
	dto.CodeTokenRevoked,
	dto.CodeUserNotFound,
}

// SessionAPI is the part of the API a Session drives.
type SessionAPI interface {
	Login(ctx context.Context, email, password string) (*Result[dto.LoginData], error)
	Logout(ctx context.Context, token string) (*Result[struct{}], error)
	Refresh(ctx context.Context, token string) (*Result[Token], error)
}

// Credentials are what a user logs in with.
type Credentials struct {
	Email    string
	Password string
}

// UserPatch holds the user fields UpdateUser may change; nil fields are kept.
type UserPatch struct {
	Email           *string
	EmailVerifiedAt *time.Time
}

// Session holds the current token and user and keeps them in durable storage.
//
// mu guards the fields. storeMu orders storage writes with the state change
// they belong to, so a logout and a late refresh cannot interleave between
// checking the state and writing storage. Neither is held across network calls.
// A refresh that finishes after the session ended is discarded and its new
// token is revoked on the server.
type Session struct {
	api    SessionAPI
	store  *AuthStore
	logger *slog.Logger

	storeMu sync.Mutex

	mu    sync.Mutex
	state State
	token string
	user  *model.User
	err   error
}

// NewSession returns a logged-out session. Call Restore to pick up a
// session persisted by an earlier process.
func NewSession(api SessionAPI, store *AuthStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{api: api, store: store, logger: logger}
}

// Restore loads a persisted session without contacting the server. The token
// is trusted until a call proves otherwise. Reports whether a session was found.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.store.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read token: %w", err)
	}
	user, err := s.store.User(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read user: %w", err)
	}
	if token == "" || user == nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoggedOut {
		return s.state == StateLoggedIn, nil
	}
	s.state = StateLoggedIn
	s.token = token
	s.user = user
	return true, nil
}

// Login authenticates and persists the session. On failure the session stays
// logged out, storage is not touched, and the error is also kept for Err.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	switch s.state {
	case StateLoggingIn:
		s.mu.Unlock()
		return ErrLoginInProgress
	case StateLoggedIn, StateRefreshing:
		s.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	s.state = StateLoggingIn
	s.err = nil
	s.mu.Unlock()

	res, err := s.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		s.fail(err)
		return err
	}

	s.storeMu.Lock()
	if s.State() != StateLoggingIn {
		s.storeMu.Unlock()
		s.revoke(ctx, res.Data.Token)
		return ErrSessionEnded
	}
	if err := s.persist(ctx, res.Data.Token, res.Data.User); err != nil {
		s.fail(err)
		s.storeMu.Unlock()
		return err
	}
	s.mu.Lock()
	s.state = StateLoggedIn
	s.token = res.Data.Token
	s.user = res.Data.User
	s.mu.Unlock()
	s.storeMu.Unlock()

	s.logger.Debug("logged in", "user_id", res.Data.User.ID)
	return nil
}

func (s *Session) persist(ctx context.Context, token string, user *model.User) error {
	if err := s.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.store.SetUser(ctx, user); err != nil {
		_ = s.store.ClearAuthData(ctx)
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateLoggedOut
	s.token = ""
	s.user = nil
	s.err = err
}

// Logout tells the server to end the session, then always clears local state.
// A server failure is logged, not returned. If a refresh rotated the token
// while the server call was in flight, the rotated token is revoked too.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		s.revoke(ctx, token)
	}

	s.storeMu.Lock()
	s.mu.Lock()
	rotated := s.token
	s.state = StateLoggedOut
	s.token = ""
	s.user = nil
	s.err = nil
	s.mu.Unlock()
	err := s.store.ClearAuthData(ctx)
	s.storeMu.Unlock()

	if rotated != "" && rotated != token {
		s.revoke(ctx, rotated)
	}
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// revoke ends token's server session, best effort.
func (s *Session) revoke(ctx context.Context, token string) {
	if _, err := s.api.Logout(ctx, token); err != nil {
		s.logger.Warn("server logout failed", "error", err)
	}
}

// Refresh swaps the current token for a new one. Any failure ends the session.
// If the session ended while the server call was in flight, the new token is
// revoked and never stored, and ErrSessionEnded is returned.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateLoggedIn {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.state = StateRefreshing
	token := s.token
	s.mu.Unlock()

	res, err := s.api.Refresh(ctx, token)

	s.storeMu.Lock()
	if s.State() != StateRefreshing {
		s.storeMu.Unlock()
		if err == nil {
			s.revoke(ctx, res.Data.Token)
		}
		return ErrSessionEnded
	}

	if err == nil {
		if serr := s.store.SetToken(ctx, res.Data.Token); serr != nil {
			err = fmt.Errorf("failed to save token: %w", serr)
			s.endLocalLocked(ctx, err)
			s.storeMu.Unlock()
			s.revoke(ctx, res.Data.Token)
			return err
		}
		s.mu.Lock()
		s.state = StateLoggedIn
		s.token = res.Data.Token
		s.mu.Unlock()
		s.storeMu.Unlock()
		return nil
	}

	s.endLocalLocked(ctx, err)
	s.storeMu.Unlock()
	return err
}

// endLocal drops the session without telling the server.
func (s *Session) endLocal(ctx context.Context, cause error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.endLocalLocked(ctx, cause)
}

// endLocalLocked is endLocal with storeMu held.
func (s *Session) endLocalLocked(ctx context.Context, cause error) {
	s.fail(cause)
	if err := s.store.ClearAuthData(ctx); err != nil {
		s.logger.Warn("failed to clear session", "error", err)
	}
}

// Do runs an authenticated call with the current token. When the server
// says the token expired or was revoked, or its user is gone, the session
// ends locally. The call is not retried.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	s.mu.Lock()
	if s.state != StateLoggedIn {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	token := s.token
	s.mu.Unlock()

	err := fn(ctx, token)
	if err != nil && HasCode(err, sessionEndingCodes...) {
		s.logger.Debug("session ended by server", "error", err)
		s.endLocal(ctx, err)
	}
	return err
}

// RequireAuth reports whether a page that needs a logged-in user may proceed.
func (s *Session) RequireAuth() bool {
	return s.IsAuthenticated()
}

// RequireGuest reports whether a page for logged-out users (like the login
// form) may proceed.
func (s *Session) RequireGuest() bool {
	return !s.IsAuthenticated()
}

// UpdateUser merges patch into the cached user and persists it.
func (s *Session) UpdateUser(ctx context.Context, patch UserPatch) error {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	updated := *s.user
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.EmailVerifiedAt != nil {
		verified := *patch.EmailVerifiedAt
		updated.EmailVerifiedAt = &verified
	}
	s.user = &updated
	s.mu.Unlock()

	return s.store.SetUser(ctx, &updated)
}

// User returns a copy of the cached user, or nil.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed login or the call that ended the session.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// IsAuthenticated reports whether a token is held. A refresh in flight counts.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && (s.state == StateLoggedIn || s.state == StateRefreshing)
}
