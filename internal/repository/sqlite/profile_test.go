package sqlite

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sakif/profile-service/internal/apperror"
	"github.com/sakif/profile-service/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Each test gets its own ":memory:" database, destroyed by t.Cleanup.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New()
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	bio := "hello"

	if err := db.Insert(ctx, &model.UserProfile{Username: "alice", Email: "a@example.com", Bio: &bio}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := db.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Email != "a@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "a@example.com")
	}
	if got.Bio == nil || *got.Bio != "hello" {
		t.Errorf("Bio = %v, want %q", got.Bio, "hello")
	}
	if got.ProfilePicture != "" {
		t.Errorf("ProfilePicture = %q, want empty", got.ProfilePicture)
	}
}

func TestBio_NullVersusEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	empty := ""

	if err := db.Insert(ctx, &model.UserProfile{Username: "nobio", Email: "n@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Insert(ctx, &model.UserProfile{Username: "emptybio", Email: "e@example.com", Bio: &empty}); err != nil {
		t.Fatal(err)
	}

	nobio, _ := db.Get(ctx, "nobio")
	if nobio.Bio != nil {
		t.Errorf("nobio.Bio = %q, want nil", *nobio.Bio)
	}
	emptybio, _ := db.Get(ctx, "emptybio")
	if emptybio.Bio == nil || *emptybio.Bio != "" {
		t.Errorf("emptybio.Bio = %v, want pointer to empty string", emptybio.Bio)
	}
}

func TestInsert_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Insert(ctx, &model.UserProfile{Username: "alice", Email: "first@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := db.Insert(ctx, &model.UserProfile{Username: "alice", Email: "second@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Insert() error = %v, want ErrConflict", err)
	}

	got, _ := db.Get(ctx, "alice")
	if got.Email != "first@example.com" {
		t.Errorf("Email = %q, want first profile kept", got.Email)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSetPicture(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SetPicture(ctx, "ghost", "x.png"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("SetPicture() on missing user error = %v, want ErrNotFound", err)
	}

	if err := db.Insert(ctx, &model.UserProfile{Username: "alice", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SetPicture(ctx, "alice", "first.png"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetPicture(ctx, "alice", "second.jpeg"); err != nil {
		t.Fatal(err)
	}

	got, _ := db.Get(ctx, "alice")
	if got.ProfilePicture != "second.jpeg" {
		t.Errorf("ProfilePicture = %q, want %q", got.ProfilePicture, "second.jpeg")
	}
}

func TestConcurrentInsert_OnlyOneWins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var wins atomic.Int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := db.Insert(ctx, &model.UserProfile{Username: "race", Email: "r@example.com"}); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("%d inserts succeeded, want 1", wins.Load())
	}
}

func TestNew_IsolatedDatabases(t *testing.T) {
	a := newTestDB(t)
	b := newTestDB(t)
	ctx := context.Background()

	if err := a.Insert(ctx, &model.UserProfile{Username: "alice", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(ctx, "alice"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second database sees first database's profile: err = %v", err)
	}
}
