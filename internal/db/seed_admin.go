package db

import (
	"context"
	"errors"

	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/config"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/security"
)

// EnsureAdminUser inserts the bootstrap admin if configured and absent.
// Idempotent across restarts; an existing row wins, whatever its state.
func EnsureAdminUser(ctx context.Context, store auth.IdentityStore, hasher *security.Hasher, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := store.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}

	hash, err := hasher.Hash(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = store.Insert(ctx, user.User{
		Email:          cfg.AdminEmail,
		HashedPassword: hash,
		IsActive:       true,
		Role:           user.RoleAdmin,
	})

	// A concurrent replica may have seeded first.
	if errors.Is(err, auth.ErrEmailTaken) {
		return nil
	}

	return err
}
