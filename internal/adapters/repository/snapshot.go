package repository

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/scout/internal/domain/dedupe"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/metrics"
)

// Snapshot is one immutable view of the dataset. All derived structures
// (id index, team and league catalogs) are built once at construction;
// readers share the snapshot without locking. Callers must not mutate the
// returned slices.
type Snapshot struct {
	id          string
	fingerprint uint64
	loadedAt    time.Time
	players     []model.Player
	byID        map[string]int
	teams       []string
	leagues     []string
}

// newSnapshot builds the immutable snapshot structures from players.
// Ids are expected unique; the id index keeps the first record for a
// duplicated id.
func newSnapshot(players []model.Player, now time.Time) *Snapshot {
	s := &Snapshot{
		id:          uuid.NewString(),
		fingerprint: dedupe.Fingerprint(players),
		loadedAt:    now,
		players:     players,
		byID:        make(map[string]int, len(players)),
	}

	teams := make(map[string]struct{})
	leagues := make(map[string]struct{})
	for i, p := range players {
		if _, ok := s.byID[p.ID]; !ok {
			s.byID[p.ID] = i
		}
		if p.Team != "" {
			teams[p.Team] = struct{}{}
		}
		if p.League != "" {
			leagues[p.League] = struct{}{}
		}
	}
	s.teams = sortedKeys(teams)
	s.leagues = sortedKeys(leagues)
	return s
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ID returns the snapshot's unique identifier.
func (s *Snapshot) ID() string { return s.id }

// Fingerprint returns the content fingerprint of the dataset.
func (s *Snapshot) Fingerprint() uint64 { return s.fingerprint }

// LoadedAt returns when the snapshot was published.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Players returns all records in provider order.
func (s *Snapshot) Players() []model.Player { return s.players }

// PlayerByID returns a single record by id.
func (s *Snapshot) PlayerByID(id string) (model.Player, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Player{}, false
	}
	return s.players[i], true
}

// Teams returns the distinct team names, sorted.
func (s *Snapshot) Teams() []string { return s.teams }

// Leagues returns the distinct league names, sorted.
func (s *Snapshot) Leagues() []string { return s.leagues }

// Size returns the number of records.
func (s *Snapshot) Size() int { return len(s.players) }

// MemoryStore publishes snapshots through an atomic pointer swap. Readers
// always see either the previous or the next complete snapshot, never a
// partially built one.
type MemoryStore struct {
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

// compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the currently published snapshot.
func (s *MemoryStore) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Swap builds a snapshot from players and publishes it atomically.
func (s *MemoryStore) Swap(_ context.Context, players []model.Player) (*Snapshot, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: refusing to publish a snapshot with no records", ErrEmptyDataset)
	}

	start := time.Now()
	snap := newSnapshot(players, s.now())
	s.current.Store(snap)

	metrics.RecordSnapshotBuildDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordSnapshotSwap()
	metrics.UpdateSnapshotLastUnix(float64(snap.loadedAt.Unix()))
	metrics.UpdateDatasetPlayers(len(snap.players))
	metrics.UpdateDatasetTeams(len(snap.teams))
	metrics.UpdateDatasetLeagues(len(snap.leagues))
	return snap, nil
}

// Player returns a single record by id from the current snapshot.
func (s *MemoryStore) Player(ctx context.Context, id string) (model.Player, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return model.Player{}, err
	}
	p, ok := snap.PlayerByID(id)
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Teams returns the distinct team names in the current snapshot.
func (s *MemoryStore) Teams(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Teams(), nil
}

// Leagues returns the distinct league names in the current snapshot.
func (s *MemoryStore) Leagues(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Leagues(), nil
}

// Size returns the number of records in the current snapshot.
func (s *MemoryStore) Size(ctx context.Context) int {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return 0
	}
	return snap.Size()
}
