//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/travelog/travelog/internal/testutil"
)

func TestIntegrationUser_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("lookup"))
	user.PasswordHash = "$argon2id$placeholder"

	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected generated id")
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != user.PasswordHash {
		t.Errorf("by email = %+v", byEmail)
	}
	if byEmail.EmailVerifiedAt == nil {
		t.Error("email_verified_at not persisted")
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("by id email = %q", byID.Email)
	}

	if _, err := repo.GetUserByID(ctx, user.ID+1000); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing id = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing email = %v, want ErrUserNotFound", err)
	}
}

func TestIntegrationUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	email := testutil.UniqueEmail("dup")
	first := testutil.NewTestUser(t, email)
	first.PasswordHash = "x"
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("create user: %v", err)
	}

	second := testutil.NewTestUser(t, email)
	second.PasswordHash = "y"
	if err := repo.CreateUser(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate create = %v, want ErrEmailExists", err)
	}
}

func TestIntegrationUser_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "admin@admin.com")
	user.PasswordHash = "x"

	created, isNew, err := repo.GetOrCreateUser(ctx, user)
	if err != nil || !isNew {
		t.Fatalf("first GetOrCreateUser = %v, %v", isNew, err)
	}

	again := testutil.NewTestUser(t, "admin@admin.com")
	again.PasswordHash = "y"
	existing, isNew, err := repo.GetOrCreateUser(ctx, again)
	if err != nil || isNew {
		t.Fatalf("second GetOrCreateUser = %v, %v", isNew, err)
	}
	if existing.ID != created.ID || existing.PasswordHash != "x" {
		t.Errorf("existing = %+v, want id %d with original hash", existing, created.ID)
	}

	if err := repo.UpdatePasswordHash(ctx, created.ID, "z"); err != nil {
		t.Fatalf("update hash: %v", err)
	}
	reloaded, err := repo.GetUserByID(ctx, created.ID)
	if err != nil || reloaded.PasswordHash != "z" {
		t.Fatalf("reloaded = %+v, %v", reloaded, err)
	}
}
