// Package provider fetches player datasets from their sources.
//
// A Provider returns the complete dataset on every Fetch; incremental
// updates are not a thing at this layer. The refresh pipeline decides
// whether a fetched dataset is new via its fingerprint.
package provider

import (
	"context"

	"github.com/okian/scout/internal/domain/model"
)

// Provider loads the full player dataset from one source.
type Provider interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Fetch loads the dataset. Implementations never return an empty
	// slice alongside a nil error; a source with no usable records fails
	// with ErrNoRecords.
	Fetch(ctx context.Context) ([]model.Player, error)
}
