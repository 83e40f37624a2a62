// Package repository holds dataset snapshots and their sqlite persistence.
package repository

import (
	"context"

	"github.com/okian/scout/internal/domain/model"
)

// Store provides access to the current dataset snapshot.
type Store interface {
	// Snapshot returns the currently published snapshot.
	// Returns ErrNoSnapshot before the first Swap.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Swap builds a snapshot from players and publishes it atomically.
	// In-flight readers keep the snapshot they already hold.
	Swap(ctx context.Context, players []model.Player) (*Snapshot, error)

	// Player returns a single record by id from the current snapshot.
	// Returns ErrNotFound for unknown ids, ErrNoSnapshot before the
	// first Swap.
	Player(ctx context.Context, id string) (model.Player, error)

	// Teams returns the distinct team names in the current snapshot,
	// sorted alphabetically.
	Teams(ctx context.Context) ([]string, error)

	// Leagues returns the distinct league names in the current snapshot,
	// sorted alphabetically.
	Leagues(ctx context.Context) ([]string, error)

	// Size returns the number of records in the current snapshot,
	// 0 when none is published.
	Size(ctx context.Context) int
}
