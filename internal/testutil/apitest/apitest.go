// Package apitest runs the full HTTP API over in-memory stores.
package apitest

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/server"
	"github.com/travelog/travelog/internal/service"
	"github.com/travelog/travelog/internal/testutil/memstore"
)

// Seeded credentials.
const (
	AdminEmail    = "admin@admin.com"
	AdminPassword = "admin"
	Secret        = "apitest-secret-apitest-secret-000"
)

// Token lifetimes used by the harness.
const (
	TokenTTL   = time.Hour
	RefreshTTL = 24 * time.Hour
)

var (
	hashOnce  sync.Once
	adminHash string
	hashErr   error
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Env is a running API with handles on its stores.
type Env struct {
	Server   *httptest.Server
	Users    *memstore.Users
	Travels  *memstore.Travels
	Sessions *memstore.Sessions
	Metrics  *metrics.InMemoryRecorder
	Clock    *Clock
	Admin    *model.User
}

// URL returns the base URL of the test server.
func (e *Env) URL() string {
	return e.Server.URL
}

// New starts the API with one seeded admin user. The server is closed
// when the test ends.
func New(t testing.TB) *Env {
	t.Helper()

	hashOnce.Do(func() {
		adminHash, hashErr = auth.HashPassword(AdminPassword)
	})
	if hashErr != nil {
		t.Fatalf("hash admin password: %v", hashErr)
	}

	clock := &Clock{now: time.Now().UTC().Truncate(time.Second)}
	users := memstore.NewUsers()
	travels := memstore.NewTravels()
	sessions := memstore.NewSessions(clock.Now)
	recorder := metrics.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin := &model.User{Email: AdminEmail, PasswordHash: adminHash}
	users.Add(admin)

	issuer := auth.NewTokenIssuer(Secret, TokenTTL, RefreshTTL, auth.WithClock(clock.Now))

	router := server.NewRouter(server.Deps{
		Logger:             logger,
		Auth:               service.NewAuthService(users, sessions, issuer, recorder, logger),
		Travels:            service.NewTravelService(travels, recorder),
		Metrics:            recorder,
		IsDevelopment:      false,
		MaxRequestBodySize: 1 << 16,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &Env{
		Server:   srv,
		Users:    users,
		Travels:  travels,
		Sessions: sessions,
		Metrics:  recorder,
		Clock:    clock,
		Admin:    admin,
	}
}
