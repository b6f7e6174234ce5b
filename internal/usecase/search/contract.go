package search

import (
	"context"
	"time"

	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/activity"
	"github.com/leadscout/leadscout/internal/repository/entity"
	"github.com/leadscout/leadscout/internal/usecase/ranking"
)

// EntityRepo is the consumer interface for entity reads (ISP).
type EntityRepo interface {
	SearchOrganizations(ctx context.Context, tokens []string, filters *dsearch.Filters, offset, limit int) ([]entity.OrgHit, int, error)
	SearchPeople(ctx context.Context, tokens []string, filters *dsearch.Filters, offset, limit int) ([]entity.PersonHit, int, error)
	SuggestNames(ctx context.Context, tokens []string, limit int) ([]string, error)
}

// ActivityRepo is the consumer interface for interaction data (ISP).
type ActivityRepo interface {
	PopularityCounts(ctx context.Context, entityIDs []string, window time.Duration) (map[string]int, error)
	UserPreferences(ctx context.Context, userID string, window time.Duration) (*activity.Preferences, error)
	Record(ctx context.Context, ev *activity.Event) error
}

// Ranker orders scored results.
type Ranker interface {
	Rank(results []dsearch.Result, rc *ranking.Context) []dsearch.Result
}

// FacetProvider attaches live facets to a search response. Optional.
type FacetProvider interface {
	Build(ctx context.Context, tokens []string, filters *dsearch.Filters, entityType dsearch.EntityType) ([]dsearch.Facet, error)
}
