package quality

import (
	"sort"
	"strings"

	"github.com/leadscout/leadscout/internal/domain"
	"github.com/leadscout/leadscout/internal/domain/quality"
)

// Confidence contributions per match rule. Confidence is additive across
// rules and clamped to 1.0.
const (
	bonusExactName      = 0.8
	bonusNormalizedName = 0.7
	bonusSimilarName    = 0.5
	bonusWebsite        = 0.6
	bonusEmail          = 0.7
	bonusPhone          = 0.5
	bonusSameOrg        = 0.3

	similarNameThreshold = 0.8

	// minConfidence is the reporting cutoff. An identity-key match alone
	// (website, email) clears it even when the names disagree.
	minConfidence = 0.6

	// highConfidence marks pairs counted against the uniqueness score.
	highConfidence = 0.8
)

// matchOrganizations pairwise-compares the sample and returns candidates at
// or above the reporting cutoff, strongest first.
func matchOrganizations(orgs []domain.Organization) []quality.Candidate {
	var out []quality.Candidate
	for i := 0; i < len(orgs); i++ {
		for j := i + 1; j < len(orgs); j++ {
			if c, ok := matchOrgPair(&orgs[i], &orgs[j]); ok {
				out = append(out, c)
			}
		}
	}
	sortCandidates(out)
	return out
}

func matchOrgPair(a, b *domain.Organization) (quality.Candidate, bool) {
	var confidence float64
	var reasons []string

	switch {
	case a.Name != "" && strings.EqualFold(a.Name, b.Name):
		confidence += bonusExactName
		reasons = append(reasons, "Exact name match")
	case a.NormalizedName != "" && a.NormalizedName == b.NormalizedName:
		confidence += bonusNormalizedName
		reasons = append(reasons, "Normalized name match")
	default:
		if sim := Similarity(strings.ToLower(a.Name), strings.ToLower(b.Name)); a.Name != "" && b.Name != "" && sim > similarNameThreshold {
			confidence += bonusSimilarName
			reasons = append(reasons, "Similar names")
		}
	}

	if sameWebsite(a, b) {
		confidence += bonusWebsite
		reasons = append(reasons, "Website match")
	}

	if confidence < minConfidence {
		return quality.Candidate{}, false
	}
	if confidence > 1 {
		confidence = 1
	}

	canonical, other := a, b
	if orgPrecedes(b, a) {
		canonical, other = b, a
	}
	return quality.Candidate{
		ID1:         a.ID,
		ID2:         b.ID,
		Confidence:  confidence,
		Reasons:     reasons,
		CanonicalID: canonical.ID,
		MergeFields: orgMergeFields(canonical, other),
	}, true
}

func sameWebsite(a, b *domain.Organization) bool {
	if a.NormalizedWebsite != "" && a.NormalizedWebsite == b.NormalizedWebsite {
		return true
	}
	return a.Website != "" && strings.EqualFold(a.Website, b.Website)
}

// orgPrecedes reports whether a should be canonical over b: higher
// completeness wins, record id ordering breaks ties.
func orgPrecedes(a, b *domain.Organization) bool {
	ca, cb := quality.OrgCompleteness(a), quality.OrgCompleteness(b)
	if ca != cb {
		return ca > cb
	}
	return a.ID < b.ID
}

// orgMergeFields lists fields present on the non-canonical record but absent
// on the canonical one. Merging stays a recommendation.
func orgMergeFields(canonical, other *domain.Organization) []string {
	var fields []string
	add := func(name string, canonicalEmpty, otherSet bool) {
		if canonicalEmpty && otherSet {
			fields = append(fields, name)
		}
	}
	add("website", canonical.Website == "", other.Website != "")
	add("description", canonical.Description == "", other.Description != "")
	add("companyType", canonical.CompanyType == "", other.CompanyType != "")
	add("industry", canonical.Industry == "", other.Industry != "")
	add("city", canonical.City == "", other.City != "")
	add("state", canonical.State == "", other.State != "")
	add("employeeCount", canonical.EmployeeCount == "", other.EmployeeCount != "")
	add("revenueRange", canonical.RevenueRange == "", other.RevenueRange != "")
	add("foundedYear", canonical.FoundedYear == 0, other.FoundedYear > 0)
	return fields
}

// matchPeople pairwise-compares the sample and returns candidates at or above
// the reporting cutoff, strongest first.
func matchPeople(people []domain.Person) []quality.Candidate {
	var out []quality.Candidate
	for i := 0; i < len(people); i++ {
		for j := i + 1; j < len(people); j++ {
			if c, ok := matchPersonPair(&people[i], &people[j]); ok {
				out = append(out, c)
			}
		}
	}
	sortCandidates(out)
	return out
}

func matchPersonPair(a, b *domain.Person) (quality.Candidate, bool) {
	var confidence float64
	var reasons []string

	na, nb := a.DisplayName(), b.DisplayName()
	switch {
	case strings.TrimSpace(na) != "" && strings.EqualFold(na, nb):
		confidence += bonusExactName
		reasons = append(reasons, "Exact name match")
	default:
		if sim := Similarity(strings.ToLower(na), strings.ToLower(nb)); strings.TrimSpace(na) != "" && strings.TrimSpace(nb) != "" && sim > similarNameThreshold {
			confidence += bonusSimilarName
			reasons = append(reasons, "Similar names")
		}
	}

	if a.Email != "" && strings.EqualFold(a.Email, b.Email) {
		confidence += bonusEmail
		reasons = append(reasons, "Email match")
	}
	if pa := phoneDigits(a.Phone); pa != "" && pa == phoneDigits(b.Phone) {
		confidence += bonusPhone
		reasons = append(reasons, "Phone match")
	}
	if a.OrgID != "" && a.OrgID == b.OrgID {
		confidence += bonusSameOrg
		reasons = append(reasons, "Same company")
	}

	if confidence < minConfidence {
		return quality.Candidate{}, false
	}
	if confidence > 1 {
		confidence = 1
	}

	canonical, other := a, b
	if personPrecedes(b, a) {
		canonical, other = b, a
	}
	return quality.Candidate{
		ID1:         a.ID,
		ID2:         b.ID,
		Confidence:  confidence,
		Reasons:     reasons,
		CanonicalID: canonical.ID,
		MergeFields: personMergeFields(canonical, other),
	}, true
}

func personPrecedes(a, b *domain.Person) bool {
	ca, cb := quality.PersonCompleteness(a), quality.PersonCompleteness(b)
	if ca != cb {
		return ca > cb
	}
	return a.ID < b.ID
}

func personMergeFields(canonical, other *domain.Person) []string {
	var fields []string
	add := func(name string, canonicalEmpty, otherSet bool) {
		if canonicalEmpty && otherSet {
			fields = append(fields, name)
		}
	}
	add("title", canonical.Title == "", other.Title != "")
	add("email", canonical.Email == "", other.Email != "")
	add("phone", canonical.Phone == "", other.Phone != "")
	add("department", canonical.Department == "", other.Department != "")
	add("seniority", canonical.Seniority == "", other.Seniority != "")
	return fields
}

func phoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortCandidates(cands []quality.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].ID1 < cands[j].ID1
	})
}

// highConfidenceCount counts pairs strong enough to dent the uniqueness
// score.
func highConfidenceCount(cands []quality.Candidate) int {
	n := 0
	for _, c := range cands {
		if c.Confidence > highConfidence {
			n++
		}
	}
	return n
}
