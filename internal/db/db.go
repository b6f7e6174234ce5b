// Package db defines the narrow read-mostly store contract the search and
// quality engines consume, plus the FT index definition types the drivers
// translate into FT.CREATE commands.
package db

import (
	"context"
	"time"
)

// Store is the main store facade combining all sub-interfaces. Consumers use
// the narrow sub-interfaces, never the facade.
type Store interface {
	Pinger
	IndexManager
	Searcher
	Aggregator
	HashWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// TextQuery is a scored, optionally summarized FT search.
type TextQuery struct {
	Index  string
	Query  string
	Offset int
	Limit  int

	// WithScores asks for the store-side relevance score per entry.
	WithScores bool

	// SummarizeFields enables snippet generation on the named fields,
	// ~SummarizeLen words around the best match, highlighted.
	SummarizeFields []string
	SummarizeLen    int

	// ReturnFields restricts the returned fields; empty returns all.
	ReturnFields []string
}

// SearchEntry is one scored row from an FT search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult is a page of entries plus the predicate-wide total.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// GroupCount is one group from a grouped-count aggregation. Values follow the
// order of the requested group-by fields.
type GroupCount struct {
	Values []string
	Count  int
}

// Searcher provides scored text search and predicate counts.
type Searcher interface {
	Search(ctx context.Context, q *TextQuery) (*SearchResult, error)
	Count(ctx context.Context, index, query string) (int, error)
}

// Aggregator provides grouped counts per field set under a predicate,
// ordered by descending count.
type Aggregator interface {
	GroupCount(ctx context.Context, index, query string, by []string, limit int) ([]GroupCount, error)
}

// HashWriter writes advisory records (interaction events). The engine never
// writes entity collections.
type HashWriter interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
}
