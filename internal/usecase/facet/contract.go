package facet

import (
	"context"

	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/facet"
)

// Repo is the consumer interface for grouped counts (ISP).
type Repo interface {
	OrgValueCounts(ctx context.Context, tokens []string, filters *dsearch.Filters, field string, limit int) ([]facet.Count, error)
	PersonValueCounts(ctx context.Context, tokens []string, filters *dsearch.Filters, field string, limit int) ([]facet.Count, error)
	OrgLocationCounts(ctx context.Context, tokens []string, filters *dsearch.Filters, limit int) ([]facet.LocationCount, error)
	PersonLocationCounts(ctx context.Context, tokens []string, filters *dsearch.Filters, limit int) ([]facet.LocationCount, error)
	OrgCountWhere(ctx context.Context, tokens []string, filters *dsearch.Filters, clause string) (int, error)
	PersonCountWhere(ctx context.Context, tokens []string, filters *dsearch.Filters, clause string) (int, error)
	OrgTotal(ctx context.Context, tokens []string, filters *dsearch.Filters) (int, error)
	PersonTotal(ctx context.Context, tokens []string, filters *dsearch.Filters) (int, error)
}
