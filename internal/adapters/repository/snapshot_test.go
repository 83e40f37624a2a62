package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/scout/internal/domain/model"
)

func testPlayers() []model.Player {
	return []model.Player{
		{ID: "p1", Name: "Alpha", Position: model.PositionForward, Team: "Arsenal", League: "Premier League", Price: 10, TotalPoints: 100, Minutes: 900},
		{ID: "p2", Name: "Beta", Position: model.PositionMidfielder, Team: "Chelsea", League: "Premier League", Price: 8, TotalPoints: 80, Minutes: 1200},
		{ID: "p3", Name: "Gamma", Position: model.PositionDefender, Team: "Arsenal", League: "Championship", Price: 5, TotalPoints: 40, Minutes: 600},
	}
}

func TestMemoryStore_EmptyUntilFirstSwap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Snapshot(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.Player(ctx, "p1"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot from Player, got %v", err)
	}
	if size := store.Size(ctx); size != 0 {
		t.Fatalf("expected size 0, got %d", size)
	}
}

func TestMemoryStore_SwapPublishes(t *testing.T) {
	ctx := context.Background()
	loadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithClock(func() time.Time { return loadedAt }))

	snap, err := store.Swap(ctx, testPlayers())
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if snap.ID() == "" {
		t.Error("expected a snapshot id")
	}
	if !snap.LoadedAt().Equal(loadedAt) {
		t.Errorf("expected loadedAt %v, got %v", loadedAt, snap.LoadedAt())
	}
	if snap.Size() != 3 {
		t.Errorf("expected 3 records, got %d", snap.Size())
	}

	got, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot read failed: %v", err)
	}
	if got != snap {
		t.Error("expected the published snapshot to be returned")
	}
}

func TestMemoryStore_SwapRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Swap(ctx, nil); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if _, err := store.Swap(ctx, []model.Player{}); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestMemoryStore_PlayerLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if _, err := store.Swap(ctx, testPlayers()); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	p, err := store.Player(ctx, "p2")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if p.Name != "Beta" {
		t.Errorf("expected Beta, got %s", p.Name)
	}

	if _, err := store.Player(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Catalogs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if _, err := store.Swap(ctx, testPlayers()); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	teams, err := store.Teams(ctx)
	if err != nil {
		t.Fatalf("teams failed: %v", err)
	}
	if len(teams) != 2 || teams[0] != "Arsenal" || teams[1] != "Chelsea" {
		t.Errorf("expected sorted unique teams [Arsenal Chelsea], got %v", teams)
	}

	leagues, err := store.Leagues(ctx)
	if err != nil {
		t.Fatalf("leagues failed: %v", err)
	}
	if len(leagues) != 2 || leagues[0] != "Championship" || leagues[1] != "Premier League" {
		t.Errorf("expected sorted unique leagues, got %v", leagues)
	}
}

func TestSnapshot_FingerprintTracksContent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Swap(ctx, testPlayers())
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	same, err := store.Swap(ctx, testPlayers())
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if first.Fingerprint() != same.Fingerprint() {
		t.Error("identical content should fingerprint identically")
	}

	changed := testPlayers()
	changed[0].TotalPoints = 101
	diff, err := store.Swap(ctx, changed)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if diff.Fingerprint() == first.Fingerprint() {
		t.Error("changed content should change the fingerprint")
	}
}

func TestSnapshot_DuplicateIDKeepsFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	players := []model.Player{
		{ID: "dup", Name: "First", Team: "A", League: "L"},
		{ID: "dup", Name: "Second", Team: "B", League: "L"},
	}
	if _, err := store.Swap(ctx, players); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	p, err := store.Player(ctx, "dup")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if p.Name != "First" {
		t.Errorf("expected the first record to win, got %s", p.Name)
	}
}

// Readers racing a swap must always observe a complete snapshot, either the
// previous or the next one.
func TestMemoryStore_ConcurrentSwapAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if _, err := store.Swap(ctx, testPlayers()); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap, err := store.Snapshot(ctx)
				if err != nil {
					t.Errorf("read failed: %v", err)
					return
				}
				if size := snap.Size(); size != 3 && size != 4 {
					t.Errorf("observed partial snapshot of size %d", size)
					return
				}
			}
		}()
	}

	bigger := append(testPlayers(), model.Player{ID: "p4", Name: "Delta", Team: "Leeds", League: "Championship"})
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			_, _ = store.Swap(ctx, bigger)
		} else {
			_, _ = store.Swap(ctx, testPlayers())
		}
	}
	close(stop)
	wg.Wait()
}
