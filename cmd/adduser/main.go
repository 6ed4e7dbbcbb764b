// Command adduser provisions a back-office account directly in Postgres.
// Account creation is an operator task, not an API surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/repository"
	"github.com/halcyonweb/backoffice/pkg/config"
	"github.com/halcyonweb/backoffice/pkg/database"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	name := flag.String("name", "", "display name")
	role := flag.String("role", domain.RoleUser, "account role: user or admin")
	password := flag.String("password", "", "password; empty creates an account that cannot sign in with credentials")
	flag.Parse()

	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" || !domain.IsValidEmail(normalized) {
		fmt.Fprintln(os.Stderr, "a valid -email is required")
		os.Exit(2)
	}
	if !domain.IsValidRole(*role) {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(2)
	}

	cfg := config.Load()
	if *password != "" && len(*password) < cfg.Session.MinPasswordLength {
		fmt.Fprintf(os.Stderr, "password must be at least %d characters\n", cfg.Session.MinPasswordLength)
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var hash *string
	if *password != "" {
		h, err := argon2id.CreateHash(*password, argon2id.DefaultParams)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		hash = &h
	}

	userRepo := repository.NewUserRepository(pool)
	user, err := userRepo.Create(ctx, normalized, strings.TrimSpace(*name), *role, hash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created user %d (%s, role %s)\n", user.ID, user.Email, user.Role)
}
