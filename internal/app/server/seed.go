package server

import (
	"context"
	"log/slog"
	"strings"
)

// AdminSeeder creates the bootstrap administrator when it is missing.
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, email, password string) error
}

// Seed makes sure the configured administrator exists. Without
// credentials it does nothing.
func Seed(ctx context.Context, seeder AdminSeeder, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		slog.Info("admin seed skipped", "reason", "SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}
	if err := seeder.EnsureAdmin(ctx, email, password); err != nil {
		return err
	}
	slog.Info("admin user ensured", "email", email)
	return nil
}
