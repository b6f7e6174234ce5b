package quality

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/cache"
	"github.com/leadscout/leadscout/internal/domain"
	dquality "github.com/leadscout/leadscout/internal/domain/quality"
)

type fakeEntities struct {
	orgs     []domain.Organization
	orgTotal int
	orgErr   error

	people      []domain.Person
	personTotal int
	personErr   error

	listCalls int
}

func (f *fakeEntities) ListOrganizations(_ context.Context, limit int) ([]domain.Organization, int, error) {
	f.listCalls++
	orgs := f.orgs
	if len(orgs) > limit {
		orgs = orgs[:limit]
	}
	return orgs, f.orgTotal, f.orgErr
}

func (f *fakeEntities) ListPeople(_ context.Context, limit int) ([]domain.Person, int, error) {
	f.listCalls++
	people := f.people
	if len(people) > limit {
		people = people[:limit]
	}
	return people, f.personTotal, f.personErr
}

func newTestService(entities *fakeEntities, loader *cache.Loader) *Service {
	s := New(entities, loader, Options{SampleCap: 100, ReportTTL: time.Minute}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestGenerateReport_FullRun(t *testing.T) {
	entities := &fakeEntities{
		orgs: []domain.Organization{
			{ID: "o1", Name: "Acme Corp", Industry: "SOFTWARE", NormalizedWebsite: "acme.com"},
			{ID: "o2", Name: "Acme Holdings", NormalizedWebsite: "acme.com"},
		},
		orgTotal: 2,
		people: []domain.Person{
			{ID: "p1", FullName: "Dana Reyes", Title: "Chief Executive Officer",
				Seniority: domain.SeniorityManager, Email: "dana@acme.com"},
		},
		personTotal: 1,
	}

	report, err := newTestService(entities, nil).GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if report.Overview.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3", report.Overview.TotalRecords)
	}
	if report.Overview.QualityScore < 0 || report.Overview.QualityScore > 100 {
		t.Errorf("QualityScore = %v out of range", report.Overview.QualityScore)
	}
	if report.Overview.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	var dupIssue, inconsistentIssue bool
	for _, issue := range report.Issues {
		switch issue.Type {
		case dquality.IssueDuplicate:
			dupIssue = true
		case dquality.IssueInconsistent:
			inconsistentIssue = true
		}
	}
	if !dupIssue {
		t.Error("website-matched organizations produced no duplicate issue")
	}
	if !inconsistentIssue {
		t.Error("seniority mismatch produced no inconsistency issue")
	}
	if len(report.Recommendations) == 0 {
		t.Error("no recommendations")
	}
}

func TestGenerateReport_SkipsUnidentifiedRecords(t *testing.T) {
	entities := &fakeEntities{
		orgs:     []domain.Organization{{ID: "o1", Name: "Acme"}, {Name: "no id"}},
		orgTotal: 2,
	}

	report, err := newTestService(entities, nil).GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.Overview.SkippedRecords != 1 {
		t.Errorf("SkippedRecords = %d, want 1", report.Overview.SkippedRecords)
	}
}

func TestGenerateReport_PartialSampleFailure(t *testing.T) {
	entities := &fakeEntities{
		orgErr:      errors.New("index gone"),
		people:      []domain.Person{{ID: "p1", FullName: "Dana Reyes"}},
		personTotal: 1,
	}

	report, err := newTestService(entities, nil).GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.People.TotalRecords != 1 {
		t.Errorf("surviving collection lost: %+v", report.People)
	}
	if report.Organizations.TotalRecords != 0 {
		t.Errorf("failed collection reported records: %+v", report.Organizations)
	}
}

func TestGenerateReport_TotalFailure(t *testing.T) {
	entities := &fakeEntities{
		orgErr:    errors.New("index gone"),
		personErr: errors.New("index gone"),
	}

	_, err := newTestService(entities, nil).GenerateReport(context.Background())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want store unavailable", err)
	}
}

func TestGenerateReport_Cached(t *testing.T) {
	entities := &fakeEntities{
		orgs:     []domain.Organization{{ID: "o1", Name: "Acme"}},
		orgTotal: 1,
	}
	loader := cache.NewLoader(cache.NewMemory(10, 1<<20))
	svc := newTestService(entities, loader)

	if _, err := svc.GenerateReport(context.Background()); err != nil {
		t.Fatalf("first: %v", err)
	}
	calls := entities.listCalls
	if _, err := svc.GenerateReport(context.Background()); err != nil {
		t.Fatalf("second: %v", err)
	}
	if entities.listCalls != calls {
		t.Errorf("cached report re-sampled the store: %d -> %d", calls, entities.listCalls)
	}
}

func TestFindDuplicates_MergedAndCapped(t *testing.T) {
	entities := &fakeEntities{
		orgs: []domain.Organization{
			{ID: "o1", Name: "Acme Corp"},
			{ID: "o2", Name: "Acme Corp"},
		},
		orgTotal: 2,
		people: []domain.Person{
			{ID: "p1", FullName: "Dana Reyes", Email: "dana@acme.com", OrgID: "o9"},
			{ID: "p2", FullName: "Dana Reyes", Email: "dana@acme.com", OrgID: "o9"},
		},
		personTotal: 2,
	}
	svc := newTestService(entities, nil)

	all, err := svc.FindDuplicates(context.Background(), 0)
	if err != nil {
		t.Fatalf("FindDuplicates: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("candidates = %d, want one per collection", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Confidence > all[i-1].Confidence {
			t.Error("candidates not sorted by confidence")
		}
	}

	capped, err := svc.FindDuplicates(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindDuplicates capped: %v", err)
	}
	if len(capped) != 1 {
		t.Errorf("capped candidates = %d, want 1", len(capped))
	}
}
