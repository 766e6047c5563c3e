package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreFirstClaim(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	exists, existing, err := store.CheckAndSet(context.Background(), "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists {
		t.Fatal("expected first claim to succeed")
	}

	if existing != nil {
		t.Fatalf("expected no stored response, got %q", existing)
	}
}

func TestIdempotencyStoreReplayInFlight(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !exists {
		t.Fatal("expected the key to be claimed already")
	}

	if existing != nil {
		t.Fatalf("expected no response while the first request is in flight, got %q", existing)
	}
}

func TestIdempotencyStoreReplayCompleted(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response := []byte(`{"reference":"ref-1"}`)
	if err := store.Update(ctx, "key-1", response, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !exists {
		t.Fatal("expected the key to be claimed already")
	}

	if string(existing) != string(response) {
		t.Fatalf("stored response = %q, want %q", existing, response)
	}
}

func TestIdempotencyStoreClaimExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists {
		t.Fatal("expected an expired key to be claimable again")
	}
}

func TestIdempotencyStoreReleaseFreesClaim(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Release(ctx, "key-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists {
		t.Fatal("expected a released key to be claimable again")
	}

	if existing != nil {
		t.Fatalf("expected no stored response after release, got %q", existing)
	}
}
