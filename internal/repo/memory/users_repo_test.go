package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/repo/memory"
)

func TestInsertAndGetByEmail(t *testing.T) {
	repo := memory.NewUsersRepo()
	ctx := context.Background()

	created, err := repo.Insert(ctx, user.User{
		Email:          "a@x.com",
		HashedPassword: "hash",
		IsActive:       true,
		Role:           user.RoleAuthor,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if created.ID == 0 {
		t.Fatal("insert should assign an id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("insert should stamp timestamps")
	}

	got, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Role != user.RoleAuthor {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := repo.GetByEmail(ctx, "missing@x.com"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("missing email: got %v, want ErrUserNotFound", err)
	}
}

func TestInsertEnforcesUniqueEmail(t *testing.T) {
	repo := memory.NewUsersRepo()
	ctx := context.Background()

	if _, err := repo.Insert(ctx, user.User{Email: "a@x.com"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	if _, err := repo.Insert(ctx, user.User{Email: "a@x.com"}); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("duplicate insert: got %v, want ErrEmailTaken", err)
	}
}

func TestConcurrentInsertsOneWinner(t *testing.T) {
	repo := memory.NewUsersRepo()
	ctx := context.Background()

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, user.User{Email: "race@x.com"})
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, auth.ErrEmailTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 || conflicts != attempts-1 {
		t.Fatalf("got %d wins, %d conflicts; want exactly one winner", wins, conflicts)
	}
}

func TestUpdate(t *testing.T) {
	repo := memory.NewUsersRepo()
	ctx := context.Background()

	created, err := repo.Insert(ctx, user.User{Email: "a@x.com", IsActive: true, Role: user.RoleAuthor})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	created.Role = user.RoleEditor
	created.IsActive = false

	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatal("update must not change the id")
	}
	if updated.Role != user.RoleEditor || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := repo.Update(ctx, user.User{Email: "missing@x.com"}); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("update missing: got %v, want ErrUserNotFound", err)
	}
}

func TestCanceledContext(t *testing.T) {
	repo := memory.NewUsersRepo()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.GetByEmail(ctx, "a@x.com"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
