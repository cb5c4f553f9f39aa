package memory

import (
	"context"
	"sync"
	"time"

	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/domain/user"
)

// UsersRepo is an in-process identity store for tests and local runs.
// Email uniqueness is enforced under the repo's own lock, so the
// check-then-insert race between concurrent signups has exactly one winner.
type UsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID: 1,
		byMail: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byMail[email]

	if !ok {
		return user.User{}, auth.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMail[u.Email]; exists {
		return user.User{}, auth.ErrEmailTaken
	}

	now := time.Now().UTC()

	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = now
	u.UpdatedAt = now

	r.byMail[u.Email] = u

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byMail[u.Email]

	if !ok {
		return user.User{}, auth.ErrUserNotFound
	}

	u.ID = stored.ID
	u.CreatedAt = stored.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	r.byMail[u.Email] = u

	return u, nil
}
