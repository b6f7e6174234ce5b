// Package quality holds the data-quality and duplicate-detection value types.
package quality

import "time"

// Sub-dimension weights for the composite quality score.
const (
	WeightCompleteness = 0.3
	WeightAccuracy     = 0.3
	WeightConsistency  = 0.2
	WeightUniqueness   = 0.2
)

// Distribution buckets records by composite score.
type Distribution struct {
	Excellent int `json:"excellent"` // >= 90
	Good      int `json:"good"`      // 70-89
	Fair      int `json:"fair"`      // 50-69
	Poor      int `json:"poor"`      // < 50
}

// Add places one composite score into its bucket.
func (d *Distribution) Add(score float64) {
	switch {
	case score >= 90:
		d.Excellent++
	case score >= 70:
		d.Good++
	case score >= 50:
		d.Fair++
	default:
		d.Poor++
	}
}

// Metrics is the per-collection quality scorecard. All scores are 0-100.
type Metrics struct {
	TotalRecords int          `json:"totalRecords"`
	Completeness float64      `json:"completeness"`
	Accuracy     float64      `json:"accuracy"`
	Consistency  float64      `json:"consistency"`
	Uniqueness   float64      `json:"uniqueness"`
	Overall      float64      `json:"overall"`
	Distribution Distribution `json:"distribution"`
}

// IssueType classifies a detected data problem.
type IssueType string

// Issue types.
const (
	IssueDuplicate    IssueType = "duplicate"
	IssueIncomplete   IssueType = "incomplete"
	IssueInconsistent IssueType = "inconsistent"
	IssueInvalid      IssueType = "invalid"
)

// Severity grades an issue.
type Severity string

// Severities.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Collection names the affected entity collection.
type Collection string

// Collections.
const (
	CollectionOrganizations Collection = "companies"
	CollectionPeople        Collection = "contacts"
)

// Issue is one detected data-quality problem.
type Issue struct {
	ID              string     `json:"id"`
	Type            IssueType  `json:"type"`
	Severity        Severity   `json:"severity"`
	Collection      Collection `json:"collection"`
	Description     string     `json:"description"`
	AffectedRecords int        `json:"affectedRecords"`
	SuggestedAction string     `json:"suggestedAction"`
	AutoFixable     bool       `json:"autoFixable"`
}

// Overview is the report header.
type Overview struct {
	TotalRecords   int       `json:"totalRecords"`
	QualityScore   float64   `json:"qualityScore"`
	GeneratedAt    time.Time `json:"generatedAt"`
	SkippedRecords int       `json:"skippedRecords,omitempty"`
}

// Report is the full quality report consumed by the admin tool.
type Report struct {
	Overview        Overview `json:"overview"`
	Organizations   Metrics  `json:"companies"`
	People          Metrics  `json:"contacts"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Candidate is a likely duplicate pair. Confidence is clamped to [0,1];
// CanonicalID nominates exactly one member as the record to keep.
type Candidate struct {
	ID1         string   `json:"id1"`
	ID2         string   `json:"id2"`
	Confidence  float64  `json:"confidence"`
	Reasons     []string `json:"reasons"`
	CanonicalID string   `json:"canonicalId"`
	MergeFields []string `json:"mergeFields"`
}
