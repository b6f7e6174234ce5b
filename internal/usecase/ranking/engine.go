// Package ranking combines independent relevance signals into the final
// result ordering, with optional per-user personalization.
package ranking

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/domain"
	"github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/activity"
)

// Context carries the per-request ranking inputs. The search service gathers
// popularity and preferences up front so the engine itself stays pure.
type Context struct {
	Query        string
	Tokens       []string
	Filters      *search.Filters
	UserID       string
	UserLocation *search.Location
	Preferences  *activity.Preferences
	Popularity   map[string]int
	Profile      Profile
}

// personalized reports whether a user context adjusts scores.
func (c *Context) personalized() bool {
	return c.UserID != ""
}

// Engine ranks search results.
type Engine struct {
	log *zap.Logger
	now func() time.Time
}

// New creates a ranking engine.
func New(log *zap.Logger) *Engine {
	return &Engine{log: log, now: time.Now}
}

// Rank scores and orders results in place, highest first. A failure inside
// signal computation never aborts the response: the batch falls back to its
// input order with positional scores.
func (e *Engine) Rank(results []search.Result, rc *Context) []search.Result {
	if len(results) == 0 {
		return results
	}
	if rc == nil {
		rc = &Context{}
	}

	if ok := e.score(results, rc); !ok {
		for i := range results {
			results[i].Relevance = math.Max(0, float64(100-i))
			results[i].Personalized = nil
			results[i].Signals = nil
			results[i].Explanation = "Basic ordering applied"
		}
		return results
	}

	sort.SliceStable(results, func(i, j int) bool {
		si, sj := sortScore(&results[i]), sortScore(&results[j])
		if si != sj {
			return si > sj
		}
		if results[i].Verified != results[j].Verified {
			return results[i].Verified
		}
		return results[i].Name < results[j].Name
	})
	return results
}

// score computes signals for the whole batch, reporting false if computation
// panicked.
func (e *Engine) score(results []search.Result, rc *Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("ranking failed, using basic ordering", zap.Any("panic", r))
			ok = false
		}
	}()

	now := e.now()
	for i := range results {
		e.scoreOne(&results[i], rc, now)
	}
	return true
}

func (e *Engine) scoreOne(r *search.Result, rc *Context, now time.Time) {
	var signals []search.SignalScore
	collect := func(s search.SignalScore, present bool) {
		if present {
			s.Weight = weights[s.Signal]
			signals = append(signals, s)
		}
	}

	collect(textMatch(r, rc.Query, rc.Tokens))
	collect(verification(r))
	collect(dataQuality(r))
	collect(popularity(r, rc.Popularity))
	collect(recency(r, now))
	collect(userPreference(r, rc.Preferences))
	collect(locationProximity(r, rc.UserLocation))
	collect(industryRelevance(r, rc.Filters))
	collect(seniority(r))
	collect(companyScale(r))

	r.Signals = signals
	r.Relevance = combine(signals, nil)

	if rc.personalized() {
		p := combine(signals, rc.Profile)
		r.Personalized = &p
	} else {
		r.Personalized = nil
	}

	r.Explanation = explain(signals, r.Personalized != nil)
}

// combine takes the weighted average of present signals, renormalized by the
// weights actually present. A non-nil profile applies per-signal multipliers.
func combine(signals []search.SignalScore, profile Profile) float64 {
	var sum, weight float64
	for _, s := range signals {
		w := s.Weight
		if profile != nil {
			w *= profile.Multiplier(s.Signal)
		}
		sum += w * s.Score
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return round2(math.Min(100, math.Max(0, sum/weight)))
}

// explain concatenates the reasons of the top 3 signals scoring above 50.
func explain(signals []search.SignalScore, personalized bool) string {
	top := make([]search.SignalScore, 0, len(signals))
	for _, s := range signals {
		if s.Score > 50 {
			top = append(top, s)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 3 {
		top = top[:3]
	}

	reasons := make([]string, 0, 4)
	for _, s := range top {
		reasons = append(reasons, s.Reason)
	}
	if personalized {
		reasons = append(reasons, "Personalized based on your search patterns")
	}
	return strings.Join(reasons, "; ")
}

func sortScore(r *search.Result) float64 {
	if r.Personalized != nil {
		return *r.Personalized
	}
	return r.Relevance
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func orgFromResult(r *search.Result) domain.Organization {
	return domain.Organization{
		Name:          r.Name,
		Website:       r.Website,
		Description:   r.Description,
		CompanyType:   r.Org.CompanyType,
		Industry:      r.Org.Industry,
		City:          r.Org.City,
		State:         r.Org.State,
		EmployeeCount: r.EmployeeCount,
		RevenueRange:  r.RevenueRange,
		FoundedYear:   r.FoundedYear,
		Verified:      r.Verified,
	}
}
