package facet

import (
	"context"
	"sync"

	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/facet"
)

// fakeRepo serves canned grouped counts keyed by field name. Builders run
// concurrently, so all state is mutex-guarded.
type fakeRepo struct {
	mu sync.Mutex

	orgCounts    map[string][]facet.Count
	personCounts map[string][]facet.Count
	orgLocs      []facet.LocationCount
	personLocs   []facet.LocationCount
	whereCounts  map[string]int
	orgTotal     int
	personTotal  int

	errFields map[string]error

	filtersByField map[string]dsearch.Filters
	totalCalls     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orgCounts:      map[string][]facet.Count{},
		personCounts:   map[string][]facet.Count{},
		whereCounts:    map[string]int{},
		errFields:      map[string]error{},
		filtersByField: map[string]dsearch.Filters{},
	}
}

func (f *fakeRepo) record(field string, filters *dsearch.Filters) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalCalls++
	if filters != nil {
		f.filtersByField[field] = *filters
	}
	return f.errFields[field]
}

func (f *fakeRepo) OrgValueCounts(_ context.Context, _ []string, filters *dsearch.Filters, field string, _ int) ([]facet.Count, error) {
	if err := f.record(field, filters); err != nil {
		return nil, err
	}
	return f.orgCounts[field], nil
}

func (f *fakeRepo) PersonValueCounts(_ context.Context, _ []string, filters *dsearch.Filters, field string, _ int) ([]facet.Count, error) {
	if err := f.record("person:"+field, filters); err != nil {
		return nil, err
	}
	return f.personCounts[field], nil
}

func (f *fakeRepo) OrgLocationCounts(_ context.Context, _ []string, filters *dsearch.Filters, _ int) ([]facet.LocationCount, error) {
	if err := f.record("org:location", filters); err != nil {
		return nil, err
	}
	return f.orgLocs, nil
}

func (f *fakeRepo) PersonLocationCounts(_ context.Context, _ []string, filters *dsearch.Filters, _ int) ([]facet.LocationCount, error) {
	if err := f.record("person:location", filters); err != nil {
		return nil, err
	}
	return f.personLocs, nil
}

func (f *fakeRepo) OrgCountWhere(_ context.Context, _ []string, filters *dsearch.Filters, clause string) (int, error) {
	if err := f.record("org:where", filters); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.whereCounts[clause], nil
}

func (f *fakeRepo) PersonCountWhere(_ context.Context, _ []string, filters *dsearch.Filters, clause string) (int, error) {
	if err := f.record("person:where", filters); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.whereCounts[clause], nil
}

func (f *fakeRepo) OrgTotal(_ context.Context, _ []string, filters *dsearch.Filters) (int, error) {
	if err := f.record("org:total", filters); err != nil {
		return 0, err
	}
	return f.orgTotal, nil
}

func (f *fakeRepo) PersonTotal(_ context.Context, _ []string, filters *dsearch.Filters) (int, error) {
	if err := f.record("person:total", filters); err != nil {
		return 0, err
	}
	return f.personTotal, nil
}

func facetByKey(facets []dsearch.Facet, key dsearch.Dimension) (dsearch.Facet, bool) {
	for _, f := range facets {
		if f.Key == key {
			return f, true
		}
	}
	return dsearch.Facet{}, false
}
