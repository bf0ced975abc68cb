package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"postgres://travelog:s3cret@db:5432/travelog", "postgres://travelog@db:5432/travelog"},
		{"redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"redis://cache:6379/0", "redis://cache:6379/0"},
	}

	for _, tt := range tests {
		if got := redactURL(tt.raw); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dbURL := "postgres://travelog:s3cret@db:5432/travelog"
	err := errors.New("failed to connect to " + dbURL + " (password=s3cret)")

	got := sanitizeError(err, dbURL, "")
	if strings.Contains(got, "s3cret") {
		t.Fatalf("secret leaked: %q", got)
	}
	if !strings.Contains(got, "postgres://travelog@db:5432/travelog") {
		t.Errorf("expected redacted url in %q", got)
	}
	if !strings.Contains(got, "password=redacted") {
		t.Errorf("expected password marker in %q", got)
	}

	if sanitizeError(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
