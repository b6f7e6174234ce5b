package ranking

import (
	"math"
	"strings"
	"time"

	"github.com/leadscout/leadscout/internal/domain/quality"
	"github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/activity"
)

// textMatch scores query-to-name relevance: a base tier for the whole query
// (exact 100, prefix 80, substring 60) plus up to 40 points of fractional
// token overlap, capped at 100. A description mention adds a smaller bonus.
// Absent when the request carries no query.
func textMatch(r *search.Result, query string, tokens []string) (search.SignalScore, bool) {
	if query == "" || len(tokens) == 0 {
		return search.SignalScore{}, false
	}

	name := strings.ToLower(r.Name)
	q := strings.ToLower(strings.TrimSpace(query))

	var score float64
	var reason string
	switch {
	case name == q:
		score, reason = 100, "Exact name match"
	case strings.HasPrefix(name, q):
		score, reason = 80, "Name starts with query"
	case strings.Contains(name, q):
		score, reason = 60, "Name contains query"
	default:
		reason = "Partial name match"
	}

	matched := 0
	for _, t := range tokens {
		if strings.Contains(name, t) {
			matched++
		}
	}
	score = math.Min(100, score+40*float64(matched)/float64(len(tokens)))

	if r.Description != "" && strings.Contains(strings.ToLower(r.Description), q) {
		score = math.Min(100, score+20)
		if reason == "Partial name match" {
			reason = "Description mentions query"
		}
	}

	return search.SignalScore{Signal: search.SignalTextMatch, Score: score, Reason: reason}, true
}

// verification is flat 100 for verified records and absent otherwise.
func verification(r *search.Result) (search.SignalScore, bool) {
	if !r.Verified {
		return search.SignalScore{}, false
	}
	return search.SignalScore{
		Signal: search.SignalVerification,
		Score:  100,
		Reason: "Verified record",
	}, true
}

// dataQuality reuses the completeness heuristic as a ranking signal.
func dataQuality(r *search.Result) (search.SignalScore, bool) {
	var score float64
	if r.Person != nil {
		score = quality.PersonCompleteness(r.Person)
	} else {
		org := orgFromResult(r)
		score = quality.OrgCompleteness(&org)
	}
	return search.SignalScore{
		Signal: search.SignalDataQuality,
		Score:  score,
		Reason: "Complete profile data",
	}, true
}

// popularity log-scales the 30-day interaction count so one viral record
// cannot dominate. Absent without any count.
func popularity(r *search.Result, counts map[string]int) (search.SignalScore, bool) {
	c, ok := counts[r.ID]
	if !ok || c <= 0 {
		return search.SignalScore{}, false
	}
	score := math.Min(100, 25*math.Log1p(float64(c)))
	return search.SignalScore{
		Signal: search.SignalPopularity,
		Score:  score,
		Reason: "Frequently viewed",
	}, true
}

// recency is a step function over days since the record was updated.
func recency(r *search.Result, now time.Time) (search.SignalScore, bool) {
	if r.UpdatedAt.IsZero() {
		return search.SignalScore{}, false
	}

	days := now.Sub(r.UpdatedAt).Hours() / 24
	var score float64
	switch {
	case days <= 7:
		score = 100
	case days <= 30:
		score = 80
	case days <= 90:
		score = 60
	case days <= 180:
		score = 40
	case days <= 365:
		score = 20
	}
	return search.SignalScore{
		Signal: search.SignalRecency,
		Score:  score,
		Reason: "Recently updated",
	}, true
}

// Preference match bonuses, in the order industry / location / category /
// seniority.
const (
	prefIndustryBonus  = 30
	prefLocationBonus  = 25
	prefCategoryBonus  = 20
	prefSeniorityBonus = 25
)

// userPreference rewards matches against the user's top filter selections
// from the trailing window. Absent without a preference signal.
func userPreference(r *search.Result, prefs *activity.Preferences) (search.SignalScore, bool) {
	if prefs == nil || prefs.IsZero() {
		return search.SignalScore{}, false
	}

	var score float64
	if containsFold(prefs.Industries, r.Org.Industry) {
		score += prefIndustryBonus
	}
	if containsFold(prefs.Cities, r.Org.City) || containsFold(prefs.States, r.Org.State) {
		score += prefLocationBonus
	}
	if containsFold(prefs.CompanyTypes, r.Org.CompanyType) {
		score += prefCategoryBonus
	}
	if r.Person != nil && containsFold(prefs.Seniorities, string(r.Person.Seniority)) {
		score += prefSeniorityBonus
	}
	score = math.Min(100, score)

	return search.SignalScore{
		Signal: search.SignalUserPreference,
		Score:  score,
		Reason: "Matches your usual filters",
	}, true
}

// locationProximity compares the record's location with the requester's.
func locationProximity(r *search.Result, loc *search.Location) (search.SignalScore, bool) {
	if loc == nil || (loc.City == "" && loc.State == "") {
		return search.SignalScore{}, false
	}

	var score float64
	sameState := loc.State != "" && strings.EqualFold(r.Org.State, loc.State)
	sameCity := loc.City != "" && strings.EqualFold(r.Org.City, loc.City)
	switch {
	case sameCity && sameState:
		score = 100
	case sameState:
		score = 50
	}
	return search.SignalScore{
		Signal: search.SignalLocationProximity,
		Score:  score,
		Reason: "Near your location",
	}, true
}

// industryRelevance is 100 when the record's industry is among the applied
// industry filter. Absent without an industry filter.
func industryRelevance(r *search.Result, filters *search.Filters) (search.SignalScore, bool) {
	if filters == nil || len(filters.Industries) == 0 {
		return search.SignalScore{}, false
	}

	var score float64
	if containsFold(filters.Industries, r.Org.Industry) {
		score = 100
	}
	return search.SignalScore{
		Signal: search.SignalIndustryRelevance,
		Score:  score,
		Reason: "Matches industry filter",
	}, true
}

// seniority applies to person results only.
func seniority(r *search.Result) (search.SignalScore, bool) {
	if r.Person == nil {
		return search.SignalScore{}, false
	}
	score := r.Person.Seniority.Score()
	if score == 0 {
		return search.SignalScore{}, false
	}
	return search.SignalScore{
		Signal: search.SignalSeniority,
		Score:  score,
		Reason: r.Person.Seniority.Label() + " seniority",
	}, true
}

// companyScale sums the employee and revenue bracket tables, capped at 100.
func companyScale(r *search.Result) (search.SignalScore, bool) {
	emp := r.Org.EmployeeCount.ScaleScore()
	rev := r.Org.RevenueRange.ScaleScore()
	if emp == 0 && rev == 0 {
		return search.SignalScore{}, false
	}
	return search.SignalScore{
		Signal: search.SignalCompanyScale,
		Score:  math.Min(100, emp+rev),
		Reason: "Established company scale",
	}, true
}

func containsFold(vals []string, v string) bool {
	if v == "" {
		return false
	}
	for _, x := range vals {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
