package search

import (
	"context"
	"sync"
	"time"

	"github.com/leadscout/leadscout/internal/domain"
	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/activity"
	"github.com/leadscout/leadscout/internal/repository/entity"
	"github.com/leadscout/leadscout/internal/usecase/ranking"
)

type fakeEntities struct {
	mu sync.Mutex

	orgHits  []entity.OrgHit
	orgTotal int
	orgErr   error

	personHits  []entity.PersonHit
	personTotal int
	personErr   error

	suggestions []string
	suggestErr  error

	orgCalls     int
	personCalls  int
	suggestCalls int
	lastOffset   int
	lastLimit    int
}

func (f *fakeEntities) SearchOrganizations(_ context.Context, _ []string, _ *dsearch.Filters, offset, limit int) ([]entity.OrgHit, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgCalls++
	f.lastOffset, f.lastLimit = offset, limit
	return f.orgHits, f.orgTotal, f.orgErr
}

func (f *fakeEntities) SearchPeople(_ context.Context, _ []string, _ *dsearch.Filters, offset, limit int) ([]entity.PersonHit, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.personCalls++
	f.lastOffset, f.lastLimit = offset, limit
	return f.personHits, f.personTotal, f.personErr
}

func (f *fakeEntities) SuggestNames(_ context.Context, _ []string, _ int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls++
	return f.suggestions, f.suggestErr
}

type fakeActivities struct {
	mu sync.Mutex

	popularity map[string]int
	popErr     error

	prefs    *activity.Preferences
	prefsErr error

	recorded  []*activity.Event
	recordErr error
}

func (f *fakeActivities) PopularityCounts(_ context.Context, _ []string, _ time.Duration) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.popularity, f.popErr
}

func (f *fakeActivities) UserPreferences(_ context.Context, _ string, _ time.Duration) (*activity.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs, f.prefsErr
}

func (f *fakeActivities) Record(_ context.Context, ev *activity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, ev)
	return f.recordErr
}

// passRanker stamps descending relevance without reordering and captures the
// ranking context it was handed.
type passRanker struct {
	mu     sync.Mutex
	lastRC *ranking.Context
}

func (r *passRanker) Rank(results []dsearch.Result, rc *ranking.Context) []dsearch.Result {
	r.mu.Lock()
	r.lastRC = rc
	r.mu.Unlock()
	for i := range results {
		results[i].Relevance = float64(100 - i)
	}
	return results
}

type fakeFacets struct {
	facets []dsearch.Facet
	err    error
	calls  int
}

func (f *fakeFacets) Build(_ context.Context, _ []string, _ *dsearch.Filters, _ dsearch.EntityType) ([]dsearch.Facet, error) {
	f.calls++
	return f.facets, f.err
}

func orgHit(id, name string) entity.OrgHit {
	return entity.OrgHit{Org: domain.Organization{ID: id, Name: name, Verified: true}}
}

func personHit(id, fullName string) entity.PersonHit {
	return entity.PersonHit{
		Person: domain.Person{ID: id, FullName: fullName, Active: true},
		Org:    domain.OrgSummary{ID: "org-" + id, Name: "Parent of " + fullName},
	}
}
