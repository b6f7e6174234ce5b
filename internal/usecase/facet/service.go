// Package facet builds live facet aggregations and the faceted-search
// response: per-dimension option counts under the current search context,
// filter recommendations, and a short-TTL cache in front of it all.
package facet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadscout/leadscout/internal/cache"
	"github.com/leadscout/leadscout/internal/domain"
	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/logger"
)

// CacheTag marks facet entries for tag invalidation.
const CacheTag = "facets"

// maxSuggestedFilters caps the recommendation list.
const maxSuggestedFilters = 5

// Service computes facets and recommendations.
type Service struct {
	repo   Repo
	loader *cache.Loader // optional
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// New creates the facet service. loader may be nil to disable caching.
func New(repo Repo, loader *cache.Loader, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{repo: repo, loader: loader, ttl: ttl, log: log, now: time.Now}
}

// Build computes every facet dimension for the entity type concurrently. A
// failing dimension yields an empty facet and never fails the batch.
func (s *Service) Build(
	ctx context.Context, tokens []string, filters *dsearch.Filters, entityType dsearch.EntityType,
) ([]dsearch.Facet, error) {
	if filters == nil {
		filters = &dsearch.Filters{}
	}
	f := *filters

	var builders []builder
	switch entityType {
	case dsearch.TypeOrganization:
		builders = s.orgBuilders()
	case dsearch.TypePerson:
		builders = s.personBuilders(true)
	default:
		builders = append(s.orgBuilders(), s.personBuilders(false)...)
	}

	log := logger.FromContext(ctx)
	facets := make([]dsearch.Facet, len(builders))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range builders {
		g.Go(func() error {
			facets[i] = dsearch.Facet{Key: b.dim, Name: b.name, Control: b.control}
			opts, hasMore, err := b.run(gctx, tokens, f)
			if err != nil {
				// Dimension isolation: one broken aggregation never takes
				// down the rest of the facet set.
				log.Warn("facet dimension failed",
					zap.String("dimension", string(b.dim)), zap.Error(err))
				return nil
			}
			facets[i].Options = opts
			facets[i].HasMore = hasMore
			return nil
		})
	}
	_ = g.Wait()
	return facets, nil
}

// GetFacetedSearchData serves the faceted-search contract: facets, totals,
// recommendations, and timing, behind the facet cache.
func (s *Service) GetFacetedSearchData(
	ctx context.Context, term string, filters *dsearch.Filters, entityType dsearch.EntityType,
) (*dsearch.FacetResponse, error) {
	if filters == nil {
		filters = &dsearch.Filters{}
	}
	if _, err := dsearch.ParseEntityType(string(entityType)); err != nil {
		return nil, err
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	tokens := dsearch.Tokenize(term)

	if s.loader == nil {
		return s.facetedSearchData(ctx, tokens, filters, entityType)
	}

	key := cache.Key("facets", map[string]any{
		"q":       term,
		"type":    entityType,
		"filters": fmt.Sprintf("%+v", *filters),
	}, "")
	payload, _, err := s.loader.GetOrCompute(ctx, key, s.ttl, []string{CacheTag},
		func(ctx context.Context) ([]byte, error) {
			resp, err := s.facetedSearchData(ctx, tokens, filters, entityType)
			if err != nil {
				return nil, err
			}
			return json.Marshal(resp)
		})
	if err != nil {
		return nil, err
	}

	resp := &dsearch.FacetResponse{}
	if err := json.Unmarshal(payload, resp); err != nil {
		return nil, fmt.Errorf("decode cached facets: %w", err)
	}
	return resp, nil
}

func (s *Service) facetedSearchData(
	ctx context.Context, tokens []string, filters *dsearch.Filters, entityType dsearch.EntityType,
) (*dsearch.FacetResponse, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	facets, err := s.Build(ctx, tokens, filters, entityType)
	if err != nil {
		return nil, err
	}

	// Totals run under the full filter set. Best-effort: a failed count
	// reports zero rather than failing the response.
	total := 0
	if entityType == dsearch.TypeOrganization || entityType == dsearch.TypeBoth {
		n, err := s.repo.OrgTotal(ctx, tokens, filters)
		if err != nil {
			log.Warn("organization total unavailable", zap.Error(err))
		} else {
			total += n
		}
	}
	if entityType == dsearch.TypePerson || entityType == dsearch.TypeBoth {
		n, err := s.repo.PersonTotal(ctx, tokens, filters)
		if err != nil {
			log.Warn("person total unavailable", zap.Error(err))
		} else {
			total += n
		}
	}

	resp := &dsearch.FacetResponse{
		Facets:          facets,
		AppliedFilters:  *filters,
		TotalResults:    total,
		Recommendations: s.recommend(ctx, tokens, filters, entityType, facets),
	}
	resp.FacetQueryTimeMs = float64(time.Since(start).Microseconds()) / 1000
	return resp, nil
}

// recommend derives filter suggestions from the strongest unselected options
// and counts a few popular refinement combinations.
func (s *Service) recommend(
	ctx context.Context, tokens []string, filters *dsearch.Filters,
	entityType dsearch.EntityType, facets []dsearch.Facet,
) dsearch.Recommendations {
	rec := dsearch.Recommendations{
		SuggestedFilters:    []dsearch.FilterSuggestion{},
		PopularCombinations: []dsearch.FilterCombination{},
	}

	var topIndustry, topLocation *dsearch.FacetOption
	for _, f := range facets {
		if len(rec.SuggestedFilters) >= maxSuggestedFilters {
			break
		}
		switch f.Key {
		case dsearch.DimIndustry, dsearch.DimCompanyType, dsearch.DimSeniority, dsearch.DimDepartment:
			for i, opt := range f.Options {
				if opt.Selected || opt.Count == 0 {
					continue
				}
				rec.SuggestedFilters = append(rec.SuggestedFilters, dsearch.FilterSuggestion{
					Dimension: f.Key, Value: opt.Value, Label: opt.Label,
				})
				if f.Key == dsearch.DimIndustry {
					topIndustry = &f.Options[i]
				}
				break
			}
		case dsearch.DimLocation:
			for i, opt := range f.Options {
				if !opt.Selected && opt.Count > 0 {
					topLocation = &f.Options[i]
					break
				}
			}
		case dsearch.DimVerified:
			if filters.Verified == nil {
				rec.SuggestedFilters = append(rec.SuggestedFilters, dsearch.FilterSuggestion{
					Dimension: dsearch.DimVerified, Value: "true", Label: "Verified only",
				})
			}
		}
	}

	if entityType != dsearch.TypePerson && topIndustry != nil && topLocation != nil {
		combined := *filters
		combined.Industries = append(append([]string{}, combined.Industries...), topIndustry.Value)
		if loc, ok := parseLocationValue(topLocation.Value); ok {
			combined.Locations = append(append([]dsearch.Location{}, combined.Locations...), loc)
		}
		n, err := s.repo.OrgTotal(ctx, tokens, &combined)
		if err != nil {
			logger.FromContext(ctx).Warn("combination count unavailable", zap.Error(err))
		} else if n > 0 {
			rec.PopularCombinations = append(rec.PopularCombinations, dsearch.FilterCombination{
				Label:   domain.FormatEnumLabel(topIndustry.Value) + " in " + topLocation.Label,
				Filters: combined,
				Count:   n,
			})
		}
	}

	return rec
}

// parseLocationValue splits a "City, ST" facet value back into its pair.
func parseLocationValue(v string) (dsearch.Location, bool) {
	for i := 0; i < len(v)-1; i++ {
		if v[i] == ',' && v[i+1] == ' ' {
			return dsearch.Location{City: v[:i], State: v[i+2:]}, true
		}
	}
	if v == "" {
		return dsearch.Location{}, false
	}
	return dsearch.Location{City: v}, true
}
