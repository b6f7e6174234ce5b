package facet

import (
	"context"
	"testing"

	"github.com/leadscout/leadscout/internal/db"
	"github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/entity"
)

type fakeStore struct {
	groups []db.GroupCount
	total  int

	lastIndex string
	lastQuery string
	lastBy    []string
}

func (f *fakeStore) GroupCount(
	_ context.Context, index, query string, by []string, _ int,
) ([]db.GroupCount, error) {
	f.lastIndex, f.lastQuery, f.lastBy = index, query, by
	return f.groups, nil
}

func (f *fakeStore) Count(_ context.Context, index, query string) (int, error) {
	f.lastIndex, f.lastQuery = index, query
	return f.total, nil
}

func TestOrgValueCounts(t *testing.T) {
	fs := &fakeStore{groups: []db.GroupCount{
		{Values: []string{"SOFTWARE"}, Count: 12},
		{Values: []string{"FINANCE"}, Count: 4},
		{Values: []string{""}, Count: 3}, // records without the field
	}}
	r := New(fs)

	counts, err := r.OrgValueCounts(context.Background(), []string{"acme"}, &search.Filters{}, "industry", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected empty value dropped, got %v", counts)
	}
	if counts[0].Value != "SOFTWARE" || counts[0].Count != 12 {
		t.Errorf("unexpected first count: %+v", counts[0])
	}
	if fs.lastIndex != entity.OrgIndex || len(fs.lastBy) != 1 || fs.lastBy[0] != "industry" {
		t.Errorf("unexpected aggregation: index=%q by=%v", fs.lastIndex, fs.lastBy)
	}
	if fs.lastQuery != "@name|description|website:(acme*)" {
		t.Errorf("unexpected predicate: %q", fs.lastQuery)
	}
}

func TestOrgLocationCounts(t *testing.T) {
	fs := &fakeStore{groups: []db.GroupCount{
		{Values: []string{"Austin", "TX"}, Count: 8},
		{Values: []string{"Denver", "CO"}, Count: 3},
	}}
	r := New(fs)

	locs, err := r.OrgLocationCounts(context.Background(), nil, &search.Filters{}, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 2 || locs[0].City != "Austin" || locs[0].State != "TX" || locs[0].Count != 8 {
		t.Errorf("unexpected locations: %+v", locs)
	}
	if len(fs.lastBy) != 2 {
		t.Errorf("expected two group-by fields, got %v", fs.lastBy)
	}
}

func TestPersonTotal_ScopesToActive(t *testing.T) {
	fs := &fakeStore{total: 42}
	r := New(fs)

	n, err := r.PersonTotal(context.Background(), nil, &search.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if fs.lastIndex != entity.PersonIndex || fs.lastQuery != "@active:{1}" {
		t.Errorf("unexpected count: index=%q query=%q", fs.lastIndex, fs.lastQuery)
	}
}
