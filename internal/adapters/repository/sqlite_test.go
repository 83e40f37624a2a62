package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestCache_LoadOnEmpty(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenCache(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := cache.Load(ctx); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenCache(ctx, filepath.Join(t.TempDir(), "scout-cache.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = cache.Close() }()

	store := NewMemoryStore()
	snap, err := store.Swap(ctx, testPlayers())
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	if err := cache.Save(ctx, snap); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cached, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cached.SnapshotID != snap.ID() {
		t.Errorf("expected snapshot id %s, got %s", snap.ID(), cached.SnapshotID)
	}
	if cached.Fingerprint != snap.Fingerprint() {
		t.Errorf("expected fingerprint %d, got %d", snap.Fingerprint(), cached.Fingerprint)
	}
	if len(cached.Players) != snap.Size() {
		t.Fatalf("expected %d players, got %d", snap.Size(), len(cached.Players))
	}
	for i, p := range cached.Players {
		want := snap.Players()[i]
		if p != want {
			t.Errorf("record %d mismatch: got %+v want %+v", i, p, want)
		}
	}
}

func TestCache_SaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenCache(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = cache.Close() }()

	store := NewMemoryStore()

	first, err := store.Swap(ctx, testPlayers())
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if err := cache.Save(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	smaller := testPlayers()[:1]
	second, err := store.Swap(ctx, smaller)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if err := cache.Save(ctx, second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	cached, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cached.SnapshotID != second.ID() {
		t.Errorf("expected the latest snapshot, got %s", cached.SnapshotID)
	}
	if len(cached.Players) != 1 {
		t.Errorf("expected 1 player after replacement, got %d", len(cached.Players))
	}
}
