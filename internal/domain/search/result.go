package search

import (
	"time"

	"github.com/leadscout/leadscout/internal/domain"
)

// Signal names one independently computed contributor to a result's relevance
// score. The set is closed; weight profiles are keyed by it.
type Signal string

// Ranking signals.
const (
	SignalTextMatch         Signal = "text_match"
	SignalVerification      Signal = "verification"
	SignalDataQuality       Signal = "data_quality"
	SignalPopularity        Signal = "popularity"
	SignalRecency           Signal = "recency"
	SignalUserPreference    Signal = "user_preference"
	SignalLocationProximity Signal = "location_proximity"
	SignalIndustryRelevance Signal = "industry_relevance"
	SignalSeniority         Signal = "seniority"
	SignalCompanyScale      Signal = "company_scale"
)

// Signals lists every known signal.
var Signals = []Signal{
	SignalTextMatch, SignalVerification, SignalDataQuality,
	SignalPopularity, SignalRecency, SignalUserPreference,
	SignalLocationProximity, SignalIndustryRelevance,
	SignalSeniority, SignalCompanyScale,
}

// Known reports whether s is one of the closed signal set.
func (s Signal) Known() bool {
	for _, k := range Signals {
		if s == k {
			return true
		}
	}
	return false
}

// SignalScore is one computed signal on one result.
type SignalScore struct {
	Signal Signal  `json:"signal"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Result is a ranked search hit with its denormalized display fields.
// Org is always populated: for organization hits it is the organization
// itself in summary form, for person hits the parent organization.
type Result struct {
	ID   string     `json:"id"`
	Type EntityType `json:"type"`

	// Relevance is the combined 0-100 score, two-decimal precision.
	Relevance float64 `json:"relevanceScore"`
	// Personalized is set when a user context adjusted the score; ordering
	// uses it over Relevance when present.
	Personalized *float64 `json:"personalizedScore,omitempty"`
	// TextScore is the raw store-side text relevance before ranking.
	TextScore float64 `json:"textScore"`

	Signals     []SignalScore `json:"signals"`
	Explanation string        `json:"explanation"`
	Highlight   string        `json:"highlight,omitempty"`

	Org    domain.OrgSummary `json:"company"`
	Person *domain.Person    `json:"contact,omitempty"`

	// Display fields lifted from the underlying record.
	Name          string                 `json:"name"`
	Website       string                 `json:"website,omitempty"`
	Description   string                 `json:"description,omitempty"`
	Title         string                 `json:"title,omitempty"`
	Verified      bool                   `json:"verified"`
	ContactCount  int                    `json:"contactCount,omitempty"`
	FoundedYear   int                    `json:"foundedYear,omitempty"`
	EmployeeCount domain.EmployeeBracket `json:"employeeCount,omitempty"`
	RevenueRange  domain.RevenueBracket  `json:"revenueRange,omitempty"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// Stats summarizes one search execution.
type Stats struct {
	TotalResults    int     `json:"totalResults"`
	ExecutionTimeMs float64 `json:"executionTimeMs"`
	Cached          bool    `json:"cached"`
	QueryComplexity int     `json:"queryComplexity"`
}

// Response is the full search response for the inbound request contract.
type Response struct {
	Organizations      []Result `json:"companies"`
	People             []Result `json:"contacts"`
	TotalOrganizations int      `json:"totalCompanies"`
	TotalPeople        int      `json:"totalContacts"`
	Stats              Stats    `json:"searchStats"`
	Suggestions        []string `json:"suggestions"`
	Facets             []Facet  `json:"facets"`
}
