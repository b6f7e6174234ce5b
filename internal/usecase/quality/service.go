// Package quality scores the record base on completeness, accuracy,
// consistency, and uniqueness, detects systemic issues, and fuzzy-matches
// likely duplicate records. Runs on demand over a bounded sample; never on
// the search request path.
package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadscout/leadscout/internal/cache"
	"github.com/leadscout/leadscout/internal/domain"
	"github.com/leadscout/leadscout/internal/domain/quality"
	"github.com/leadscout/leadscout/internal/logger"
)

// CacheTag marks quality entries for tag invalidation.
const CacheTag = "quality"

// DefaultSampleCap bounds the pairwise duplicate scan. The scan is O(n^2)
// over the sample, so the cap is a latency budget, not a correctness knob.
const DefaultSampleCap = 1000

// EntityRepo is the consumer interface for bounded record scans (ISP).
type EntityRepo interface {
	ListOrganizations(ctx context.Context, limit int) ([]domain.Organization, int, error)
	ListPeople(ctx context.Context, limit int) ([]domain.Person, int, error)
}

// Options tune the analyzer.
type Options struct {
	SampleCap int
	ReportTTL time.Duration
}

// Service generates quality reports and duplicate candidates.
type Service struct {
	entities EntityRepo
	loader   *cache.Loader // optional
	opts     Options
	log      *zap.Logger
	now      func() time.Time
}

// New creates the quality service. loader may be nil to disable caching.
func New(entities EntityRepo, loader *cache.Loader, opts Options, log *zap.Logger) *Service {
	if opts.SampleCap <= 0 {
		opts.SampleCap = DefaultSampleCap
	}
	return &Service{entities: entities, loader: loader, opts: opts, log: log, now: time.Now}
}

// GenerateReport builds the full quality report over a bounded sample of
// both collections.
func (s *Service) GenerateReport(ctx context.Context) (*quality.Report, error) {
	if s.loader == nil {
		return s.generateReport(ctx)
	}

	key := cache.Key("quality_report", map[string]any{"cap": s.opts.SampleCap}, "")
	payload, _, err := s.loader.GetOrCompute(ctx, key, s.opts.ReportTTL, []string{CacheTag},
		func(ctx context.Context) ([]byte, error) {
			r, err := s.generateReport(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(r)
		})
	if err != nil {
		return nil, err
	}

	report := &quality.Report{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return report, nil
}

func (s *Service) generateReport(ctx context.Context) (*quality.Report, error) {
	orgs, orgTotal, people, personTotal, err := s.sample(ctx)
	if err != nil {
		return nil, err
	}

	orgs, people, skipped := dropUnidentified(ctx, orgs, people)

	orgDupes := matchOrganizations(orgs)
	personDupes := matchPeople(people)

	orgCard := orgMetrics(orgs, orgTotal, orgDupes)
	personCard := personMetrics(people, personTotal, personDupes)

	issues := append(detectOrgIssues(orgs, orgDupes), detectPersonIssues(people, personDupes)...)

	total := orgTotal + personTotal
	overall := 0.0
	if total > 0 {
		overall = round2((orgCard.Overall*float64(orgTotal) +
			personCard.Overall*float64(personTotal)) / float64(total))
	}

	return &quality.Report{
		Overview: quality.Overview{
			TotalRecords:   total,
			QualityScore:   overall,
			GeneratedAt:    s.now().UTC(),
			SkippedRecords: skipped,
		},
		Organizations:   orgCard,
		People:          personCard,
		Issues:          issues,
		Recommendations: recommendations(orgCard, personCard, issues),
	}, nil
}

// FindDuplicates runs both matchers and returns the strongest candidates
// across collections, capped at limit.
func (s *Service) FindDuplicates(ctx context.Context, limit int) ([]quality.Candidate, error) {
	orgs, _, people, _, err := s.sample(ctx)
	if err != nil {
		return nil, err
	}
	orgs, people, _ = dropUnidentified(ctx, orgs, people)

	cands := append(matchOrganizations(orgs), matchPeople(people)...)
	sortCandidates(cands)
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands, nil
}

// sample reads both collections bounded by the sample cap. A single failing
// collection degrades to a partial run.
func (s *Service) sample(ctx context.Context) ([]domain.Organization, int, []domain.Person, int, error) {
	var (
		orgs        []domain.Organization
		people      []domain.Person
		orgTotal    int
		personTotal int
		orgErr      error
		personErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orgs, orgTotal, orgErr = s.entities.ListOrganizations(gctx, s.opts.SampleCap)
		return nil
	})
	g.Go(func() error {
		people, personTotal, personErr = s.entities.ListPeople(gctx, s.opts.SampleCap)
		return nil
	})
	_ = g.Wait()

	log := logger.FromContext(ctx)
	if orgErr != nil && personErr != nil {
		return nil, 0, nil, 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, orgErr)
	}
	if orgErr != nil {
		log.Error("organization sample failed", zap.Error(orgErr))
	}
	if personErr != nil {
		log.Error("person sample failed", zap.Error(personErr))
	}
	return orgs, orgTotal, people, personTotal, nil
}

// dropUnidentified removes records without an id: they cannot participate in
// duplicate pairs or issue references. Skips are counted, not fatal.
func dropUnidentified(
	ctx context.Context, orgs []domain.Organization, people []domain.Person,
) ([]domain.Organization, []domain.Person, int) {
	skipped := 0

	keptOrgs := orgs[:0]
	for _, o := range orgs {
		if o.ID == "" {
			skipped++
			continue
		}
		keptOrgs = append(keptOrgs, o)
	}
	keptPeople := people[:0]
	for _, p := range people {
		if p.ID == "" {
			skipped++
			continue
		}
		keptPeople = append(keptPeople, p)
	}

	if skipped > 0 {
		logger.FromContext(ctx).Warn("records without id skipped", zap.Int("count", skipped))
	}
	return keptOrgs, keptPeople, skipped
}
