package quality

import (
	"fmt"

	"github.com/leadscout/leadscout/internal/domain"
	"github.com/leadscout/leadscout/internal/domain/quality"
)

// detectOrgIssues scans the organization sample.
func detectOrgIssues(orgs []domain.Organization, dupes []quality.Candidate) []quality.Issue {
	var issues []quality.Issue

	missing := 0
	invalidSite := 0
	for i := range orgs {
		o := &orgs[i]
		if o.Name == "" || o.Industry == "" {
			missing++
		}
		if o.Website != "" && !quality.ValidWebsite(o.Website) {
			invalidSite++
		}
	}

	if missing > 0 {
		issues = append(issues, quality.Issue{
			ID:              "org-missing-required",
			Type:            quality.IssueIncomplete,
			Severity:        quality.SeverityMedium,
			Collection:      quality.CollectionOrganizations,
			Description:     "Companies missing name or industry",
			AffectedRecords: missing,
			SuggestedAction: "Backfill the missing fields from enrichment sources",
		})
	}
	if invalidSite > 0 {
		issues = append(issues, quality.Issue{
			ID:              "org-invalid-website",
			Type:            quality.IssueInvalid,
			Severity:        quality.SeverityMedium,
			Collection:      quality.CollectionOrganizations,
			Description:     "Companies with malformed website URLs",
			AffectedRecords: invalidSite,
			SuggestedAction: "Re-normalize or drop the invalid URLs",
			AutoFixable:     true,
		})
	}
	if issue, ok := duplicateIssue(dupes, quality.CollectionOrganizations, "org"); ok {
		issues = append(issues, issue)
	}
	return issues
}

// detectPersonIssues scans the person sample.
func detectPersonIssues(people []domain.Person, dupes []quality.Candidate) []quality.Issue {
	var issues []quality.Issue

	unreachable := 0
	mismatched := 0
	invalidEmail := 0
	for i := range people {
		p := &people[i]
		if p.Email == "" && p.Phone == "" {
			unreachable++
		}
		if seniorityMismatch(p) {
			mismatched++
		}
		if p.Email != "" && !quality.ValidEmail(p.Email) {
			invalidEmail++
		}
	}

	if unreachable > 0 {
		issues = append(issues, quality.Issue{
			ID:              "person-unreachable",
			Type:            quality.IssueIncomplete,
			Severity:        quality.SeverityHigh,
			Collection:      quality.CollectionPeople,
			Description:     "Contacts with neither email nor phone",
			AffectedRecords: unreachable,
			SuggestedAction: "Source contact details before outreach",
		})
	}
	if mismatched > 0 {
		// Title implies the level, so the fix is mechanical.
		issues = append(issues, quality.Issue{
			ID:              "person-seniority-mismatch",
			Type:            quality.IssueInconsistent,
			Severity:        quality.SeverityLow,
			Collection:      quality.CollectionPeople,
			Description:     "Executive titles paired with non-executive seniority",
			AffectedRecords: mismatched,
			SuggestedAction: "Re-derive seniority from the job title",
			AutoFixable:     true,
		})
	}
	if invalidEmail > 0 {
		issues = append(issues, quality.Issue{
			ID:              "person-invalid-email",
			Type:            quality.IssueInvalid,
			Severity:        quality.SeverityMedium,
			Collection:      quality.CollectionPeople,
			Description:     "Contacts with malformed email addresses",
			AffectedRecords: invalidEmail,
			SuggestedAction: "Validate and correct the email addresses",
		})
	}
	if issue, ok := duplicateIssue(dupes, quality.CollectionPeople, "person"); ok {
		issues = append(issues, issue)
	}
	return issues
}

func duplicateIssue(dupes []quality.Candidate, coll quality.Collection, idPrefix string) (quality.Issue, bool) {
	if len(dupes) == 0 {
		return quality.Issue{}, false
	}
	severity := quality.SeverityMedium
	if highConfidenceCount(dupes) > 0 {
		severity = quality.SeverityHigh
	}
	return quality.Issue{
		ID:              fmt.Sprintf("%s-duplicates", idPrefix),
		Type:            quality.IssueDuplicate,
		Severity:        severity,
		Collection:      coll,
		Description:     "Likely duplicate records",
		AffectedRecords: len(dupes),
		SuggestedAction: "Review the duplicate candidates and merge into the canonical record",
	}, true
}

// recommendations derives a short action list from the scorecards and issues.
func recommendations(orgs, people quality.Metrics, issues []quality.Issue) []string {
	var recs []string
	if orgs.Completeness < 70 {
		recs = append(recs, "Enrich company profiles: completeness is below 70")
	}
	if people.Completeness < 70 {
		recs = append(recs, "Enrich contact profiles: completeness is below 70")
	}
	if orgs.Uniqueness < 95 || people.Uniqueness < 95 {
		recs = append(recs, "Run a duplicate merge pass to restore uniqueness")
	}
	for _, issue := range issues {
		if issue.Severity == quality.SeverityHigh {
			recs = append(recs, fmt.Sprintf("Address high-severity issue: %s", issue.Description))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Data quality is healthy; keep the current ingest checks")
	}
	return recs
}
