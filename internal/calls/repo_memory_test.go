package calls

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepo_AssignsIncreasingIDs(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	at := time.Now().Add(time.Hour)

	id1, err := repo.Create(ctx, NewVoice("a", "5551234567", at))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	id2, err := repo.Create(ctx, NewVoice("a", "5551234567", at))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("expected ids never reused, got %d after %d", id2, id1)
	}
}

func TestMemoryRepo_MissingRowsAreStorageErrors(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	err := repo.SetStatus(ctx, 42, StatusCompleted)
	if !IsStorageError(err) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected storage not-found error, got %v", err)
	}
	err = repo.Delete(ctx, 42)
	if !IsStorageError(err) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected storage not-found error, got %v", err)
	}
}

func TestMemoryRepo_ListByPhone(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	at := time.Now().Add(time.Hour)

	_, _ = repo.Create(ctx, NewVoice("a", "5551234567", at))
	_, _ = repo.Create(ctx, NewVoice("b", "5559999999", at))
	_, _ = repo.Create(ctx, NewEmergency("a", "5551234567", at, "Fire"))

	rows, err := repo.ListByPhone(ctx, "5551234567")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if repo.Len() != 3 {
		t.Fatalf("expected 3 rows total, got %d", repo.Len())
	}
}

func TestMemoryRepo_CanceledContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Create(ctx, NewVoice("a", "5551234567", time.Now())); !IsStorageError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
