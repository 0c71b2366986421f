// Package datasource defines the tabular data source contract consumed by
// the explore query engines.
package datasource

import (
	"context"

	"terragrip/internal/domain"
	"terragrip/internal/explore"
)

// Source executes compiled explore queries.
type Source interface {
	// Fetch returns one page of rows plus the unpaginated total; the
	// result echoes the query version for stale-response suppression.
	Fetch(ctx context.Context, q explore.Query) (explore.Result, error)

	// ResolveMatching materializes the ids of every row the filter set
	// matches, ignoring pagination; used by bulk mutations operating on
	// an all-matching selection.
	ResolveMatching(ctx context.Context, entity domain.EntityKind, filters []explore.Filter) ([]string, error)
}
