package entity

import (
	"context"
	"testing"
	"time"

	"github.com/leadscout/leadscout/internal/db"
	"github.com/leadscout/leadscout/internal/domain/search"
)

// noFilters returns an empty filter set.
func noFilters() *search.Filters { return &search.Filters{} }

func TestSearchOrganizations_ParsesHits(t *testing.T) {
	fs := &fakeStore{
		searchFn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{{
					Key:   "ls:org:org1",
					Score: 2.5,
					Fields: map[string]string{
						"name":           "Acme Corp",
						"description":    "leading <b>cloud</b> provider...",
						"company_type":   "PRIVATE",
						"industry":       "SOFTWARE",
						"city":           "Austin",
						"state":          "TX",
						"employee_count": "MEDIUM_51_200",
						"revenue_range":  "RANGE_5M_25M",
						"founded_year":   "2012",
						"verified":       "1",
						"contact_count":  "14",
						"updated_at":     "1748736000",
					},
				}},
			}, nil
		},
	}
	r := New(fs, "ls:")

	hits, total, err := r.SearchOrganizations(context.Background(), []string{"cloud"}, noFilters(), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(hits) != 1 {
		t.Fatalf("unexpected result: total=%d hits=%d", total, len(hits))
	}

	h := hits[0]
	if h.Org.ID != "org1" {
		t.Errorf("expected key prefix stripped, got %q", h.Org.ID)
	}
	if h.TextScore != 2.5 {
		t.Errorf("expected text score 2.5, got %g", h.TextScore)
	}
	if h.Highlight != "leading <b>cloud</b> provider..." {
		t.Errorf("unexpected highlight: %q", h.Highlight)
	}
	if !h.Org.Verified || h.Org.FoundedYear != 2012 || h.Org.ContactCount != 14 {
		t.Errorf("unexpected parsed org: %+v", h.Org)
	}
	if h.Org.UpdatedAt != time.Unix(1748736000, 0).UTC() {
		t.Errorf("unexpected updated_at: %v", h.Org.UpdatedAt)
	}

	// The request asked for scores and description summarization.
	if !fs.lastQuery.WithScores {
		t.Error("expected WITHSCORES")
	}
	if len(fs.lastQuery.SummarizeFields) != 1 || fs.lastQuery.SummarizeFields[0] != "description" {
		t.Errorf("unexpected summarize fields: %v", fs.lastQuery.SummarizeFields)
	}
}

func TestSearchOrganizations_NoHighlightWithoutTokens(t *testing.T) {
	fs := &fakeStore{}
	r := New(fs, "ls:")

	if _, _, err := r.SearchOrganizations(context.Background(), nil, noFilters(), 0, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.lastQuery.SummarizeFields) != 0 {
		t.Errorf("expected no summarize fields, got %v", fs.lastQuery.SummarizeFields)
	}
}

func TestSearchPeople_EmbedsOrgSummary(t *testing.T) {
	fs := &fakeStore{
		searchFn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{{
					Key:   "ls:person:p1",
					Score: 1.2,
					Fields: map[string]string{
						"full_name":      "Jane Smith",
						"title":          "VP of <b>Engineering</b>",
						"email":          "jane@acme.example",
						"seniority":      "VP",
						"decision_maker": "1",
						"verified":       "1",
						"active":         "1",
						"org_id":         "org1",
						"org_name":       "Acme Corp",
						"org_industry":   "SOFTWARE",
						"org_city":       "Austin",
						"org_state":      "TX",
						"org_verified":   "1",
					},
				}},
			}, nil
		},
	}
	r := New(fs, "ls:")

	hits, _, err := r.SearchPeople(context.Background(), []string{"engineering"}, noFilters(), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}

	h := hits[0]
	if h.Person.ID != "p1" || h.Person.FullName != "Jane Smith" || !h.Person.DecisionMaker {
		t.Errorf("unexpected person: %+v", h.Person)
	}
	if h.Org.ID != "org1" || h.Org.Name != "Acme Corp" || !h.Org.Verified {
		t.Errorf("unexpected org summary: %+v", h.Org)
	}
	if h.Highlight != "VP of <b>Engineering</b>" {
		t.Errorf("unexpected highlight: %q", h.Highlight)
	}
}

func TestCountPeople_ScopesToActive(t *testing.T) {
	fs := &fakeStore{
		countFn: func(_ context.Context, _, _ string) (int, error) { return 7, nil },
	}
	r := New(fs, "ls:")

	n, err := r.CountPeople(context.Background(), noFilters())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
	if fs.lastCountQuery != "@active:{1}" {
		t.Errorf("unexpected predicate: %q", fs.lastCountQuery)
	}
}

func TestSuggestNames(t *testing.T) {
	fs := &fakeStore{
		searchFn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: "ls:org:1", Fields: map[string]string{"name": "Acme Corp"}},
					{Key: "ls:org:2", Fields: map[string]string{"name": "Acme Labs"}},
				},
			}, nil
		},
	}
	r := New(fs, "ls:")

	names, err := r.SuggestNames(context.Background(), []string{"acme"}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "Acme Corp" {
		t.Errorf("unexpected names: %v", names)
	}
	if fs.lastQuery.Query != "@name:(acme*)" {
		t.Errorf("unexpected query: %q", fs.lastQuery.Query)
	}

	// No tokens short-circuits without a store call.
	fs.lastQuery = nil
	if names, err := r.SuggestNames(context.Background(), nil, 5); err != nil || names != nil {
		t.Errorf("expected nil for empty tokens, got %v %v", names, err)
	}
	if fs.lastQuery != nil {
		t.Error("expected no store call for empty tokens")
	}
}
