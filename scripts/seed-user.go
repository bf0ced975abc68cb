package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/config"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/repository"
)

type output struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	Created bool   `json:"created"`
}

func main() {
	config.LoadDotEnv()

	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "admin@admin.com", "User email")
		password    = flag.String("password", "admin", "User password")
		migrate     = flag.Bool("migrate", true, "Apply migrations first")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *migrate {
		if err := repository.Migrate(ctx, *databaseURL); err != nil {
			fmt.Fprintln(os.Stderr, "migrate database:", err)
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, *databaseURL, repository.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user, created, err := repo.GetOrCreateUser(ctx, &model.User{
		Email:        strings.TrimSpace(*email),
		PasswordHash: hash,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed user:", err)
		os.Exit(1)
	}

	out := output{UserID: user.ID, Email: user.Email, Created: created}

	switch strings.ToLower(*format) {
	case "plain":
		if created {
			fmt.Printf("created user %s (id %d)\n", out.Email, out.UserID)
		} else {
			fmt.Printf("user %s already exists (id %d)\n", out.Email, out.UserID)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
