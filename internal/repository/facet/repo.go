// Package facet reads grouped value counts for the facet builders. Counts
// always run under the caller-supplied predicate so they reflect the live
// search context.
package facet

import (
	"context"
	"fmt"

	"github.com/leadscout/leadscout/internal/db"
	"github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/entity"
)

// store is the consumer interface for facet aggregation (ISP).
type store interface {
	GroupCount(ctx context.Context, index, query string, by []string, limit int) ([]db.GroupCount, error)
	Count(ctx context.Context, index, query string) (int, error)
}

// Count is one value with its record count.
type Count struct {
	Value string
	Count int
}

// LocationCount is one city/state pair with its record count.
type LocationCount struct {
	City  string
	State string
	Count int
}

// Repo implements grouped counts over the entity indexes.
type Repo struct {
	store store
}

// New creates a facet repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// OrgValueCounts groups organizations by one tag or numeric field under the
// given search context, descending by count.
func (r *Repo) OrgValueCounts(
	ctx context.Context, tokens []string, filters *search.Filters, field string, limit int,
) ([]Count, error) {
	groups, err := r.store.GroupCount(ctx, entity.OrgIndex, entity.OrgPredicate(tokens, filters), []string{field}, limit)
	if err != nil {
		return nil, fmt.Errorf("org counts by %s: %w", field, err)
	}
	return toCounts(groups), nil
}

// PersonValueCounts groups active people by one field under the given search
// context.
func (r *Repo) PersonValueCounts(
	ctx context.Context, tokens []string, filters *search.Filters, field string, limit int,
) ([]Count, error) {
	groups, err := r.store.GroupCount(ctx, entity.PersonIndex, entity.PersonPredicate(tokens, filters), []string{field}, limit)
	if err != nil {
		return nil, fmt.Errorf("person counts by %s: %w", field, err)
	}
	return toCounts(groups), nil
}

// OrgLocationCounts groups organizations by city and state together.
func (r *Repo) OrgLocationCounts(
	ctx context.Context, tokens []string, filters *search.Filters, limit int,
) ([]LocationCount, error) {
	groups, err := r.store.GroupCount(ctx, entity.OrgIndex, entity.OrgPredicate(tokens, filters), []string{"city", "state"}, limit)
	if err != nil {
		return nil, fmt.Errorf("org location counts: %w", err)
	}

	locs := make([]LocationCount, 0, len(groups))
	for _, g := range groups {
		if len(g.Values) != 2 {
			continue
		}
		locs = append(locs, LocationCount{City: g.Values[0], State: g.Values[1], Count: g.Count})
	}
	return locs, nil
}

// PersonLocationCounts groups active people by their organization's city and
// state.
func (r *Repo) PersonLocationCounts(
	ctx context.Context, tokens []string, filters *search.Filters, limit int,
) ([]LocationCount, error) {
	groups, err := r.store.GroupCount(ctx, entity.PersonIndex, entity.PersonPredicate(tokens, filters), []string{"org_city", "org_state"}, limit)
	if err != nil {
		return nil, fmt.Errorf("person location counts: %w", err)
	}

	locs := make([]LocationCount, 0, len(groups))
	for _, g := range groups {
		if len(g.Values) != 2 {
			continue
		}
		locs = append(locs, LocationCount{City: g.Values[0], State: g.Values[1], Count: g.Count})
	}
	return locs, nil
}

// OrgCountWhere counts organizations under the search context with an extra
// predicate clause ANDed on (numeric ranges, text buckets).
func (r *Repo) OrgCountWhere(
	ctx context.Context, tokens []string, filters *search.Filters, clause string,
) (int, error) {
	q := entity.OrgPredicate(tokens, filters)
	if clause != "" {
		if q == "*" {
			q = clause
		} else {
			q += " " + clause
		}
	}
	n, err := r.store.Count(ctx, entity.OrgIndex, q)
	if err != nil {
		return 0, fmt.Errorf("org count where %q: %w", clause, err)
	}
	return n, nil
}

// PersonCountWhere counts active people under the search context with an
// extra predicate clause ANDed on.
func (r *Repo) PersonCountWhere(
	ctx context.Context, tokens []string, filters *search.Filters, clause string,
) (int, error) {
	q := entity.PersonPredicate(tokens, filters)
	if clause != "" {
		q += " " + clause
	}
	n, err := r.store.Count(ctx, entity.PersonIndex, q)
	if err != nil {
		return 0, fmt.Errorf("person count where %q: %w", clause, err)
	}
	return n, nil
}

// OrgTotal counts organizations under the search context.
func (r *Repo) OrgTotal(ctx context.Context, tokens []string, filters *search.Filters) (int, error) {
	n, err := r.store.Count(ctx, entity.OrgIndex, entity.OrgPredicate(tokens, filters))
	if err != nil {
		return 0, fmt.Errorf("org total: %w", err)
	}
	return n, nil
}

// PersonTotal counts active people under the search context.
func (r *Repo) PersonTotal(ctx context.Context, tokens []string, filters *search.Filters) (int, error) {
	n, err := r.store.Count(ctx, entity.PersonIndex, entity.PersonPredicate(tokens, filters))
	if err != nil {
		return 0, fmt.Errorf("person total: %w", err)
	}
	return n, nil
}

func toCounts(groups []db.GroupCount) []Count {
	counts := make([]Count, 0, len(groups))
	for _, g := range groups {
		if len(g.Values) != 1 || g.Values[0] == "" {
			continue
		}
		counts = append(counts, Count{Value: g.Values[0], Count: g.Count})
	}
	return counts
}
