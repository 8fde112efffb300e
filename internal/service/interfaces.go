// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"htscompass/internal/model"
)

// CatalogStore defines the contract for the catalog persistence layer.
type CatalogStore interface {
	// SaveRecords replaces the stored catalog with the given records,
	// keyed by their position in the slice.
	SaveRecords(ctx context.Context, records []model.Record) error
	// LoadRecords returns all stored records in row order.
	LoadRecords(ctx context.Context) ([]model.Record, error)
	// Migrate brings the schema up to the expected version.
	Migrate(ctx context.Context) error
	Close() error
}

// SearchHit is one row returned by the semantic search collaborator.
type SearchHit struct {
	RowIndex int
	Score    float64
}

// SearchFilter carries optional filter hints for a search request.
type SearchFilter struct {
	// ExactCode restricts hits to rows with this normalized code.
	ExactCode string
	// Prefix restricts hits to rows whose code starts with these digits.
	Prefix string
}

// Searcher is the external semantic search collaborator. Results are ranked
// by the collaborator; the core preserves their order but does not recompute
// relevance.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, filter SearchFilter) ([]SearchHit, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
