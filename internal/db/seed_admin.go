package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/domain/user"
	"github.com/wekesa360/todohub/internal/security"
)

// EnsureAdminUser seeds the configured admin account once. A no-op when
// the seed credentials are unset or the username already exists.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.AdminUsername).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:             uuid.NewString(),
		Username:       cfg.AdminUsername,
		Email:          cfg.AdminEmail,
		FirstName:      cfg.AdminFirstName,
		LastName:       cfg.AdminLastName,
		HashedPassword: hash,
		Role:           user.RoleAdmin,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, username, email, first_name, last_name, hashed_password, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.HashedPassword, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
