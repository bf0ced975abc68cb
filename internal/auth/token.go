package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/travelog/travelog/internal/model"
)

// TokenType is reported to clients alongside every issued token.
const TokenType = "bearer"

var (
	// ErrTokenMalformed covers unparsable tokens, bad signatures and missing claims.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenExpired indicates a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrRefreshWindowClosed indicates the token is too old to be refreshed.
	ErrRefreshWindowClosed = errors.New("refresh window closed")
)

// IssuedToken is a freshly minted bearer token.
type IssuedToken struct {
	Token     string
	TokenType string
	ExpiresIn int64 // seconds
	ID        string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenClaims are the verified contents of a bearer token.
type TokenClaims struct {
	UserID    int64
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenIssuerOption configures a TokenIssuer.
type TokenIssuerOption func(*TokenIssuer)

// WithClock replaces the issuer's time source.
func WithClock(now func() time.Time) TokenIssuerOption {
	return func(i *TokenIssuer) {
		i.now = now
	}
}

// NewTokenIssuer creates an issuer signing with secret.
// ttl bounds token validity; refreshTTL bounds how long after issuance a token may be refreshed.
func NewTokenIssuer(secret string, ttl, refreshTTL time.Duration, opts ...TokenIssuerOption) *TokenIssuer {
	i := &TokenIssuer{
		secret:     []byte(secret),
		ttl:        ttl,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// TTL returns the token lifetime.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// RefreshTTL returns the refresh window measured from issuance.
func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Now returns the issuer's current time.
func (i *TokenIssuer) Now() time.Time { return i.now() }

// Issue mints a token for userID with a new unique id.
func (i *TokenIssuer) Issue(userID int64) (*IssuedToken, error) {
	now := i.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(i.ttl)

	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, fmt.Errorf("generate token id: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   (&model.User{ID: userID}).Subject(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        id.String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     signed,
		TokenType: TokenType,
		ExpiresIn: int64(i.ttl / time.Second),
		ID:        claims.ID,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies signature and expiry.
// Returns ErrTokenExpired for a valid signature past expiry, ErrTokenMalformed otherwise.
func (i *TokenIssuer) Parse(raw string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, i.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	return toTokenClaims(claims)
}

// ParseForRefresh verifies the signature but accepts expired tokens
// as long as they were issued less than RefreshTTL ago.
func (i *TokenIssuer) ParseForRefresh(raw string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, i.keyFunc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	tc, err := toTokenClaims(claims)
	if err != nil {
		return nil, err
	}
	if !i.now().Before(tc.IssuedAt.Add(i.refreshTTL)) {
		return nil, ErrRefreshWindowClosed
	}
	return tc, nil
}

func (i *TokenIssuer) keyFunc(*jwt.Token) (any, error) {
	return i.secret, nil
}

func toTokenClaims(claims *jwt.RegisteredClaims) (*TokenClaims, error) {
	userID, ok := model.ParseSubject(claims.Subject)
	if !ok {
		return nil, fmt.Errorf("%w: invalid subject", ErrTokenMalformed)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing token id", ErrTokenMalformed)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing timestamps", ErrTokenMalformed)
	}

	return &TokenClaims{
		UserID:    userID,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
