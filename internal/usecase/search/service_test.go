package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/cache"
	"github.com/leadscout/leadscout/internal/domain"
	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/activity"
	"github.com/leadscout/leadscout/internal/repository/entity"
)

func testOptions() Options {
	return Options{
		ResultTTL:         time.Minute,
		InteractionWindow: 30 * 24 * time.Hour,
		SuggestionLimit:   5,
	}
}

func newTestService(entities *fakeEntities, activities *fakeActivities, loader *cache.Loader) (*Service, *passRanker) {
	ranker := &passRanker{}
	svc := New(entities, activities, ranker, nil, loader, testOptions(), zap.NewNop())
	return svc, ranker
}

func TestExecute_RejectsUnknownType(t *testing.T) {
	entities := &fakeEntities{}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	_, err := svc.Execute(context.Background(), &dsearch.Request{Type: "everything"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if entities.orgCalls+entities.personCalls != 0 {
		t.Error("store touched on invalid request")
	}
}

func TestExecute_BothCollections(t *testing.T) {
	entities := &fakeEntities{
		orgHits:     []entity.OrgHit{orgHit("o1", "Acme Cloud")},
		orgTotal:    12,
		personHits:  []entity.PersonHit{personHit("p1", "Dana Reyes")},
		personTotal: 8,
	}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	resp, err := svc.Execute(context.Background(), &dsearch.Request{
		Query: "cloud", Type: dsearch.TypeBoth,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if resp.TotalOrganizations != 12 || resp.TotalPeople != 8 {
		t.Errorf("totals = %d/%d, want 12/8", resp.TotalOrganizations, resp.TotalPeople)
	}
	if resp.Stats.TotalResults != 20 {
		t.Errorf("Stats.TotalResults = %d, want 20", resp.Stats.TotalResults)
	}
	if len(resp.Organizations) != 1 || resp.Organizations[0].Name != "Acme Cloud" {
		t.Errorf("organizations = %+v", resp.Organizations)
	}
	if len(resp.People) != 1 || resp.People[0].Name != "Dana Reyes" {
		t.Errorf("people = %+v", resp.People)
	}
	if resp.People[0].Person == nil {
		t.Error("person result lost its record")
	}
	if resp.Stats.Cached {
		t.Error("uncached execution reported cached")
	}
}

func TestExecute_PaginationPassedThrough(t *testing.T) {
	entities := &fakeEntities{}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	_, err := svc.Execute(context.Background(), &dsearch.Request{
		Type: dsearch.TypeOrganization, Limit: 5, Offset: 10,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if entities.lastOffset != 10 || entities.lastLimit != 5 {
		t.Errorf("offset/limit = %d/%d, want 10/5", entities.lastOffset, entities.lastLimit)
	}
}

func TestExecute_LimitDefaultsAndCaps(t *testing.T) {
	entities := &fakeEntities{}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	if _, err := svc.Execute(context.Background(), &dsearch.Request{Type: dsearch.TypeOrganization}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if entities.lastLimit != dsearch.DefaultLimit {
		t.Errorf("default limit = %d, want %d", entities.lastLimit, dsearch.DefaultLimit)
	}

	if _, err := svc.Execute(context.Background(), &dsearch.Request{Type: dsearch.TypeOrganization, Limit: 10_000}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if entities.lastLimit != dsearch.MaxLimit {
		t.Errorf("capped limit = %d, want %d", entities.lastLimit, dsearch.MaxLimit)
	}
}

func TestExecute_PartialFailureKeepsSurvivor(t *testing.T) {
	entities := &fakeEntities{
		orgErr:      errors.New("index gone"),
		personHits:  []entity.PersonHit{personHit("p1", "Dana Reyes")},
		personTotal: 1,
	}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	resp, err := svc.Execute(context.Background(), &dsearch.Request{Type: dsearch.TypeBoth})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Organizations) != 0 || resp.TotalOrganizations != 0 {
		t.Errorf("failed collection leaked results: %+v", resp.Organizations)
	}
	if len(resp.People) != 1 {
		t.Errorf("surviving collection dropped: %+v", resp.People)
	}
}

func TestExecute_TotalFailure(t *testing.T) {
	entities := &fakeEntities{
		orgErr:    errors.New("index gone"),
		personErr: errors.New("index gone"),
	}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	_, err := svc.Execute(context.Background(), &dsearch.Request{Type: dsearch.TypeBoth})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want store unavailable", err)
	}
}

func TestExecute_CacheHit(t *testing.T) {
	entities := &fakeEntities{
		orgHits:  []entity.OrgHit{orgHit("o1", "Acme Cloud")},
		orgTotal: 1,
	}
	loader := cache.NewLoader(cache.NewMemory(100, 1<<20))
	svc, _ := newTestService(entities, &fakeActivities{}, loader)

	req := func() *dsearch.Request {
		return &dsearch.Request{Query: "acme", Type: dsearch.TypeOrganization, UseCache: true}
	}

	first, err := svc.Execute(context.Background(), req())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Stats.Cached {
		t.Error("first execution reported cached")
	}

	second, err := svc.Execute(context.Background(), req())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.Stats.Cached {
		t.Error("second execution not served from cache")
	}
	if entities.orgCalls != 1 {
		t.Errorf("store searched %d times, want 1", entities.orgCalls)
	}
	if len(second.Organizations) != 1 || second.Organizations[0].Name != first.Organizations[0].Name {
		t.Errorf("cached payload differs: %+v", second.Organizations)
	}
}

func TestExecute_CacheKeyedByUser(t *testing.T) {
	entities := &fakeEntities{orgTotal: 1}
	loader := cache.NewLoader(cache.NewMemory(100, 1<<20))
	svc, _ := newTestService(entities, &fakeActivities{}, loader)

	for _, user := range []string{"u1", "u2"} {
		_, err := svc.Execute(context.Background(), &dsearch.Request{
			Query: "acme", Type: dsearch.TypeOrganization, UseCache: true, UserID: user,
		})
		if err != nil {
			t.Fatalf("user %s: %v", user, err)
		}
	}
	if entities.orgCalls != 2 {
		t.Errorf("store searched %d times, want one per user", entities.orgCalls)
	}
}

func TestExecute_SuggestionsBelowThreshold(t *testing.T) {
	entities := &fakeEntities{suggestions: []string{"Acme Cloud", "Acme Corp"}}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	resp, err := svc.Execute(context.Background(), &dsearch.Request{
		Query: "acme", Type: dsearch.TypeOrganization,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Suggestions) != 2 {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
}

func TestExecute_NoSuggestionsWithEnoughResults(t *testing.T) {
	entities := &fakeEntities{orgTotal: 50, suggestions: []string{"unused"}}
	svc, _ := newTestService(entities, &fakeActivities{}, nil)

	resp, err := svc.Execute(context.Background(), &dsearch.Request{
		Query: "acme", Type: dsearch.TypeOrganization,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want none", resp.Suggestions)
	}
	if entities.suggestCalls != 0 {
		t.Error("suggestion query ran with enough results")
	}
}

func TestExecute_PersonalizationContext(t *testing.T) {
	entities := &fakeEntities{orgHits: []entity.OrgHit{orgHit("o1", "Acme")}, orgTotal: 1}
	activities := &fakeActivities{
		prefs: &activity.Preferences{
			Industries: []string{"SOFTWARE"},
			Cities:     []string{"Austin"},
			States:     []string{"TX"},
		},
		popularity: map[string]int{"o1": 9},
	}
	svc, ranker := newTestService(entities, activities, nil)

	_, err := svc.Execute(context.Background(), &dsearch.Request{
		Query: "acme", Type: dsearch.TypeOrganization, UserID: "u1",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	rc := ranker.lastRC
	if rc == nil {
		t.Fatal("ranker never called")
	}
	if rc.UserID != "u1" {
		t.Errorf("rc.UserID = %q", rc.UserID)
	}
	if rc.Preferences == nil || len(rc.Preferences.Industries) != 1 {
		t.Errorf("rc.Preferences = %+v", rc.Preferences)
	}
	if rc.UserLocation == nil || rc.UserLocation.City != "Austin" || rc.UserLocation.State != "TX" {
		t.Errorf("rc.UserLocation = %+v", rc.UserLocation)
	}
	if rc.Popularity["o1"] != 9 {
		t.Errorf("rc.Popularity = %+v", rc.Popularity)
	}
}

func TestExecute_PreferenceFailureIsBestEffort(t *testing.T) {
	entities := &fakeEntities{orgHits: []entity.OrgHit{orgHit("o1", "Acme")}, orgTotal: 1}
	activities := &fakeActivities{prefsErr: errors.New("events index gone")}
	svc, ranker := newTestService(entities, activities, nil)

	_, err := svc.Execute(context.Background(), &dsearch.Request{
		Query: "acme", Type: dsearch.TypeOrganization, UserID: "u1",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ranker.lastRC.Preferences != nil {
		t.Errorf("failed preference lookup leaked: %+v", ranker.lastRC.Preferences)
	}
}

func TestExecute_RecordsFilterUsage(t *testing.T) {
	entities := &fakeEntities{}
	activities := &fakeActivities{}
	svc, _ := newTestService(entities, activities, nil)

	_, err := svc.Execute(context.Background(), &dsearch.Request{
		Type:   dsearch.TypeOrganization,
		UserID: "u1",
		Filters: dsearch.Filters{
			Industries: []string{"SOFTWARE", "FINANCE"},
			Locations:  []dsearch.Location{{City: "Austin", State: "TX"}},
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(activities.recorded) != 1 {
		t.Fatalf("recorded %d events, want 1", len(activities.recorded))
	}
	ev := activities.recorded[0]
	if ev.Kind != activity.KindSearch || ev.UserID != "u1" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Industry != "SOFTWARE" || ev.City != "Austin" || ev.State != "TX" {
		t.Errorf("event dimensions = %+v", ev)
	}
}

func TestExecute_NoFilterUsageWithoutUserOrFilters(t *testing.T) {
	activities := &fakeActivities{}
	svc, _ := newTestService(&fakeEntities{}, activities, nil)

	// No user.
	if _, err := svc.Execute(context.Background(), &dsearch.Request{
		Type: dsearch.TypeOrganization, Filters: dsearch.Filters{Industries: []string{"SOFTWARE"}},
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// No filters.
	if _, err := svc.Execute(context.Background(), &dsearch.Request{
		Type: dsearch.TypeOrganization, UserID: "u1",
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(activities.recorded) != 0 {
		t.Errorf("recorded %d events, want 0", len(activities.recorded))
	}
}

func TestExecute_FacetFailureIsBestEffort(t *testing.T) {
	entities := &fakeEntities{orgHits: []entity.OrgHit{orgHit("o1", "Acme")}, orgTotal: 1}
	facets := &fakeFacets{err: errors.New("aggregate down")}
	ranker := &passRanker{}
	svc := New(entities, &fakeActivities{}, ranker, facets, nil, testOptions(), zap.NewNop())

	resp, err := svc.Execute(context.Background(), &dsearch.Request{
		Query: "acme", Type: dsearch.TypeOrganization,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Facets) != 0 {
		t.Errorf("facets = %+v", resp.Facets)
	}
	if len(resp.Organizations) != 1 {
		t.Error("facet failure affected results")
	}
}
