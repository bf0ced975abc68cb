package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSessionKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		want   string
	}{
		{"", "travelog:session:01HXYZ"},
		{"staging:", "staging:session:01HXYZ"},
	}
	for _, tt := range tests {
		c := NewWithClient(nil, tt.prefix)
		if got := c.sessionKey("01HXYZ"); got != tt.want {
			t.Errorf("sessionKey with prefix %q = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{"zero", Options{}, DefaultOptions()},
		{"custom", Options{PoolSize: 20, MinIdleConns: 5, KeyPrefix: "x:"}, Options{PoolSize: 20, MinIdleConns: 5, KeyPrefix: "x:"}},
		{"idle above pool", Options{PoolSize: 1, MinIdleConns: 4}, Options{PoolSize: 1, MinIdleConns: 1, KeyPrefix: DefaultKeyPrefix}},
	}
	for _, tt := range tests {
		if got := tt.in.withDefaults(); got != tt.want {
			t.Errorf("%s: withDefaults() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestRegisterSession_RejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()

	// The ttl check runs before any Redis call, so a nil client is never touched.
	c := &Cache{}
	for _, ttl := range []time.Duration{0, -time.Second} {
		if err := c.RegisterSession(context.Background(), "id", 1, ttl); !errors.Is(err, ErrInvalidSessionTTL) {
			t.Errorf("RegisterSession(ttl=%v) = %v, want ErrInvalidSessionTTL", ttl, err)
		}
		if _, err := c.RotateSession(context.Background(), "a", "b", 1, ttl); !errors.Is(err, ErrInvalidSessionTTL) {
			t.Errorf("RotateSession(ttl=%v) = %v, want ErrInvalidSessionTTL", ttl, err)
		}
	}
}
