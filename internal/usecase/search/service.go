// Package search orchestrates one search request: concurrent entity queries,
// ranking, suggestions, and the result cache.
package search

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
	"github.com/leadscout/leadscout/internal/metrics"
	"github.com/leadscout/leadscout/internal/repository/activity"
	"github.com/leadscout/leadscout/internal/repository/entity"
	"github.com/leadscout/leadscout/internal/usecase/ranking"
)

// CacheTag marks search entries for tag invalidation.
const CacheTag = "search"

// suggestionThreshold: below this many total results the response carries
// alternative name suggestions.
const suggestionThreshold = 5

// Options tune the search pipeline. Zero pagination fields fall back to the
// request defaults.
type Options struct {
	ResultTTL         time.Duration
	InteractionWindow time.Duration
	SuggestionLimit   int
	DefaultLimit      int
	MaxLimit          int
}

// Service executes search requests.
type Service struct {
	entities   EntityRepo
	activities ActivityRepo
	ranker     Ranker
	facets     FacetProvider // optional
	loader     *cache.Loader
	opts       Options
	log        *zap.Logger
}

// New creates the search service. facets may be nil.
func New(
	entities EntityRepo, activities ActivityRepo, ranker Ranker,
	facets FacetProvider, loader *cache.Loader, opts Options, log *zap.Logger,
) *Service {
	return &Service{
		entities:   entities,
		activities: activities,
		ranker:     ranker,
		facets:     facets,
		loader:     loader,
		opts:       opts,
		log:        log,
	}
}

// Execute runs one search request end to end.
func (s *Service) Execute(ctx context.Context, req *dsearch.Request) (*dsearch.Response, error) {
	start := time.Now()

	if req.Limit <= 0 && s.opts.DefaultLimit > 0 {
		req.Limit = s.opts.DefaultLimit
	}
	if s.opts.MaxLimit > 0 && req.Limit > s.opts.MaxLimit {
		req.Limit = s.opts.MaxLimit
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tokens := dsearch.Tokenize(req.Query)

	var resp *dsearch.Response
	var cached bool
	if req.UseCache && s.loader != nil {
		payload, hit, err := s.loader.GetOrCompute(ctx, s.cacheKey(req), s.opts.ResultTTL,
			[]string{CacheTag}, func(ctx context.Context) ([]byte, error) {
				r, err := s.execute(ctx, req, tokens)
				if err != nil {
					return nil, err
				}
				return json.Marshal(r)
			})
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues(string(req.Type), "error").Inc()
			return nil, err
		}
		resp = &dsearch.Response{}
		if err := json.Unmarshal(payload, resp); err != nil {
			return nil, fmt.Errorf("decode cached response: %w", err)
		}
		cached = hit
		lookup := "miss"
		if hit {
			lookup = "hit"
		}
		metrics.CacheLookupsTotal.WithLabelValues(lookup).Inc()
	} else {
		r, err := s.execute(ctx, req, tokens)
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues(string(req.Type), "error").Inc()
			return nil, err
		}
		resp = r
	}

	resp.Stats.Cached = cached
	resp.Stats.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000

	metrics.SearchRequestsTotal.WithLabelValues(string(req.Type), "ok").Inc()
	metrics.SearchDuration.WithLabelValues(string(req.Type)).Observe(time.Since(start).Seconds())
	metrics.SearchResults.WithLabelValues(string(req.Type)).Observe(float64(resp.Stats.TotalResults))

	s.recordFilterUsage(ctx, req)
	return resp, nil
}

// execute runs the uncached pipeline: concurrent entity queries and user
// preferences, then popularity, ranking, suggestions, and facets.
func (s *Service) execute(
	ctx context.Context, req *dsearch.Request, tokens []string,
) (*dsearch.Response, error) {
	log := logger.FromContext(ctx)

	wantOrgs := req.Type == dsearch.TypeOrganization || req.Type == dsearch.TypeBoth
	wantPeople := req.Type == dsearch.TypePerson || req.Type == dsearch.TypeBoth

	var (
		orgHits     []entity.OrgHit
		personHits  []entity.PersonHit
		totalOrgs   int
		totalPeople int
		orgErr      error
		personErr   error
		prefs       *activity.Preferences
	)

	g, gctx := errgroup.WithContext(ctx)
	if wantOrgs {
		g.Go(func() error {
			orgHits, totalOrgs, orgErr = s.entities.SearchOrganizations(gctx, tokens, &req.Filters, req.Offset, req.Limit)
			return nil
		})
	}
	if wantPeople {
		g.Go(func() error {
			personHits, totalPeople, personErr = s.entities.SearchPeople(gctx, tokens, &req.Filters, req.Offset, req.Limit)
			return nil
		})
	}
	if req.UserID != "" {
		g.Go(func() error {
			p, err := s.activities.UserPreferences(gctx, req.UserID, s.opts.InteractionWindow)
			if err != nil {
				// Preference lookup is best-effort.
				log.Warn("user preferences unavailable", zap.Error(err))
				return nil
			}
			prefs = p
			return nil
		})
	}
	_ = g.Wait()

	// Partial failure keeps the surviving collection; total failure is the
	// only hard error.
	if wantOrgs && orgErr != nil {
		log.Error("organization search failed", zap.Error(orgErr))
	}
	if wantPeople && personErr != nil {
		log.Error("person search failed", zap.Error(personErr))
	}
	if (!wantOrgs || orgErr != nil) && (!wantPeople || personErr != nil) {
		if orgErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, orgErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, personErr)
	}

	orgResults := make([]dsearch.Result, 0, len(orgHits))
	for _, h := range orgHits {
		orgResults = append(orgResults, toOrgResult(h))
	}
	personResults := make([]dsearch.Result, 0, len(personHits))
	for _, h := range personHits {
		personResults = append(personResults, toPersonResult(h))
	}

	rc := &ranking.Context{
		Query:        req.Query,
		Tokens:       tokens,
		Filters:      &req.Filters,
		UserID:       req.UserID,
		UserLocation: preferredLocation(prefs),
		Preferences:  prefs,
		Popularity:   s.popularity(ctx, orgResults, personResults),
		Profile:      ranking.DefaultProfile(),
	}
	orgResults = s.ranker.Rank(orgResults, rc)
	personResults = s.ranker.Rank(personResults, rc)

	resp := &dsearch.Response{
		Organizations:      orgResults,
		People:             personResults,
		TotalOrganizations: totalOrgs,
		TotalPeople:        totalPeople,
		Stats: dsearch.Stats{
			TotalResults:    totalOrgs + totalPeople,
			QueryComplexity: req.Complexity(),
		},
	}

	if totalOrgs+totalPeople < suggestionThreshold && len(tokens) > 0 {
		names, err := s.entities.SuggestNames(ctx, tokens, s.opts.SuggestionLimit)
		if err != nil {
			log.Warn("suggestions unavailable", zap.Error(err))
		} else {
			resp.Suggestions = names
		}
	}

	if s.facets != nil {
		facets, err := s.facets.Build(ctx, tokens, &req.Filters, req.Type)
		if err != nil {
			// Facets are best-effort on the search surface.
			log.Warn("facets unavailable", zap.Error(err))
		} else {
			resp.Facets = facets
		}
	}

	return resp, nil
}

// popularity fetches interaction counts for the whole candidate page.
// Best-effort: a failure just drops the popularity signal.
func (s *Service) popularity(ctx context.Context, lists ...[]dsearch.Result) map[string]int {
	var ids []string
	for _, list := range lists {
		for _, r := range list {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	counts, err := s.activities.PopularityCounts(ctx, ids, s.opts.InteractionWindow)
	if err != nil {
		logger.FromContext(ctx).Warn("popularity counts unavailable", zap.Error(err))
		return nil
	}
	return counts
}

// recordFilterUsage feeds the preference learner. Best-effort.
func (s *Service) recordFilterUsage(ctx context.Context, req *dsearch.Request) {
	if req.UserID == "" || req.Filters.IsZero() {
		return
	}

	ev := &activity.Event{UserID: req.UserID, Kind: activity.KindSearch}
	if len(req.Filters.Industries) > 0 {
		ev.Industry = req.Filters.Industries[0]
	}
	if len(req.Filters.CompanyTypes) > 0 {
		ev.CompanyType = req.Filters.CompanyTypes[0]
	}
	if len(req.Filters.Seniorities) > 0 {
		ev.Seniority = req.Filters.Seniorities[0]
	}
	if len(req.Filters.Locations) > 0 {
		ev.City = req.Filters.Locations[0].City
		ev.State = req.Filters.Locations[0].State
	}
	if err := s.activities.Record(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("filter usage not recorded", zap.Error(err))
	}
}

func (s *Service) cacheKey(req *dsearch.Request) string {
	return cache.Key("search", map[string]any{
		"q":       req.Query,
		"type":    req.Type,
		"limit":   req.Limit,
		"offset":  req.Offset,
		"filters": fmt.Sprintf("%+v", req.Filters),
	}, req.UserID)
}

// preferredLocation proxies the requester's location from their strongest
// recent location preference.
func preferredLocation(prefs *activity.Preferences) *dsearch.Location {
	if prefs == nil {
		return nil
	}
	loc := dsearch.Location{}
	if len(prefs.Cities) > 0 {
		loc.City = prefs.Cities[0]
	}
	if len(prefs.States) > 0 {
		loc.State = prefs.States[0]
	}
	if loc.City == "" && loc.State == "" {
		return nil
	}
	return &loc
}

func toOrgResult(h entity.OrgHit) dsearch.Result {
	o := h.Org
	return dsearch.Result{
		ID:            o.ID,
		Type:          dsearch.TypeOrganization,
		TextScore:     h.TextScore,
		Highlight:     h.Highlight,
		Org:           o.Summary(),
		Name:          o.Name,
		Website:       o.Website,
		Description:   o.Description,
		Verified:      o.Verified,
		ContactCount:  o.ContactCount,
		FoundedYear:   o.FoundedYear,
		EmployeeCount: o.EmployeeCount,
		RevenueRange:  o.RevenueRange,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toPersonResult(h entity.PersonHit) dsearch.Result {
	p := h.Person
	return dsearch.Result{
		ID:            p.ID,
		Type:          dsearch.TypePerson,
		TextScore:     h.TextScore,
		Highlight:     h.Highlight,
		Org:           h.Org,
		Person:        &p,
		Name:          p.DisplayName(),
		Title:         p.Title,
		Verified:      p.Verified,
		EmployeeCount: h.Org.EmployeeCount,
		RevenueRange:  h.Org.RevenueRange,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
