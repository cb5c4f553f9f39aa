package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/observability"
)

const uniqueViolation = "23505"

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var role string

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, hashed_password, is_active, role, created_at, updated_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.HashedPassword,
			&u.IsActive,
			&role,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, auth.ErrUserNotFound
		}
		return user.User{}, err
	}

	u.Role = user.Role(role)

	return u, nil
}

// Insert persists a new user. The unique index on email is the authoritative
// uniqueness gate: a concurrent duplicate surfaces here as ErrEmailTaken.
func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.insert", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (email, hashed_password, is_active, role)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			u.Email,
			u.HashedPassword,
			u.IsActive,
			u.Role.String(),
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, auth.ErrEmailTaken
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE users
			 SET hashed_password = $2, is_active = $3, role = $4, updated_at = now()
			 WHERE email = $1
			 RETURNING id, created_at, updated_at`,
			u.Email,
			u.HashedPassword,
			u.IsActive,
			u.Role.String(),
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, auth.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}
