package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/travelog/travelog/internal/model"
)

// Storage keys for the session.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// AuthStore reads and writes the session token and cached user.
type AuthStore struct {
	store Store
}

// NewAuthStore wraps store.
func NewAuthStore(store Store) *AuthStore {
	return &AuthStore{store: store}
}

// Token returns the stored token, or "" when there is none.
func (a *AuthStore) Token(ctx context.Context) (string, error) {
	raw, err := a.store.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetToken stores token.
func (a *AuthStore) SetToken(ctx context.Context, token string) error {
	return a.store.Set(ctx, TokenKey, []byte(token))
}

// User returns the cached user, or nil when there is none.
// An unreadable entry is treated as absent.
func (a *AuthStore) User(ctx context.Context) (*model.User, error) {
	raw, err := a.store.Get(ctx, UserKey)
	if err != nil || raw == nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

// SetUser caches user.
func (a *AuthStore) SetUser(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return a.store.Set(ctx, UserKey, raw)
}

// ClearAuthData removes both the token and the user.
func (a *AuthStore) ClearAuthData(ctx context.Context) error {
	return errors.Join(
		a.store.Delete(ctx, TokenKey),
		a.store.Delete(ctx, UserKey),
	)
}
