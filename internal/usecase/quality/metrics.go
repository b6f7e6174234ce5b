package quality

import (
	"strings"

	"github.com/leadscout/leadscout/internal/domain"
	"github.com/leadscout/leadscout/internal/domain/quality"
)

// Accuracy bonuses. Accuracy starts from a base and rewards verification,
// valid-format fields, and evidence that normalization ran.
const (
	accuracyBase         = 50.0
	accuracyVerified     = 15.0
	accuracyValidFormat  = 15.0
	accuracyNormalized   = 10.0
	accuracyValidContact = 10.0
)

// orgAccuracy scores one organization.
func orgAccuracy(o *domain.Organization) float64 {
	score := accuracyBase
	if o.Verified {
		score += accuracyVerified
	}
	if quality.ValidWebsite(o.Website) {
		score += accuracyValidFormat
	}
	if o.NormalizedName != "" {
		score += accuracyNormalized
	}
	if o.NormalizedWebsite != "" {
		score += accuracyNormalized
	}
	return clamp100(score)
}

// personAccuracy scores one person.
func personAccuracy(p *domain.Person) float64 {
	score := accuracyBase
	if p.Verified {
		score += accuracyVerified
	}
	if quality.ValidEmail(p.Email) {
		score += accuracyValidFormat
	}
	if quality.ValidPhone(p.Phone) {
		score += accuracyValidContact
	}
	if p.Seniority.Score() > 0 {
		score += accuracyNormalized
	}
	return clamp100(score)
}

// orgConsistency checks that derived fields agree with their raw
// counterparts.
func orgConsistency(o *domain.Organization) float64 {
	passed, total := 0, 0

	// Normalization produced a canonical form distinct from the raw name.
	total++
	if o.NormalizedName != "" && o.NormalizedName != o.Name {
		passed++
	}

	// A raw website implies a normalized one.
	total++
	if o.Website == "" || o.NormalizedWebsite != "" {
		passed++
	}

	// A city without a state (or vice versa) is half an address.
	total++
	if (o.City == "") == (o.State == "") {
		passed++
	}

	return 100 * float64(passed) / float64(total)
}

// personConsistency checks name assembly, email casing, and title/seniority
// agreement.
func personConsistency(p *domain.Person) float64 {
	passed, total := 0, 0

	total++
	if p.FirstName == "" || p.LastName == "" || p.FullName == "" ||
		strings.EqualFold(p.FullName, p.FirstName+" "+p.LastName) {
		passed++
	}

	total++
	if p.Email == strings.ToLower(p.Email) {
		passed++
	}

	total++
	if !seniorityMismatch(p) {
		passed++
	}

	return 100 * float64(passed) / float64(total)
}

// seniorityMismatch reports an executive title paired with a non-executive
// seniority level.
func seniorityMismatch(p *domain.Person) bool {
	if !quality.ExecutiveTitle(p.Title) {
		return false
	}
	return p.Seniority != domain.SeniorityCLevel && p.Seniority != domain.SeniorityFounderOwner
}

// orgMetrics aggregates the sample into the collection scorecard. total is
// the store-wide record count; the sample approximates the averages.
func orgMetrics(orgs []domain.Organization, total int, dupes []quality.Candidate) quality.Metrics {
	m := quality.Metrics{TotalRecords: total}
	if len(orgs) == 0 {
		return m
	}

	uniqueness := uniquenessScore(len(orgs), highConfidenceCount(dupes))
	var sumC, sumA, sumK float64
	for i := range orgs {
		c := quality.OrgCompleteness(&orgs[i])
		a := orgAccuracy(&orgs[i])
		k := orgConsistency(&orgs[i])
		sumC += c
		sumA += a
		sumK += k
		m.Distribution.Add(composite(c, a, k, uniqueness))
	}

	n := float64(len(orgs))
	m.Completeness = round2(sumC / n)
	m.Accuracy = round2(sumA / n)
	m.Consistency = round2(sumK / n)
	m.Uniqueness = round2(uniqueness)
	m.Overall = round2(composite(m.Completeness, m.Accuracy, m.Consistency, m.Uniqueness))
	return m
}

// personMetrics aggregates the sample into the collection scorecard.
func personMetrics(people []domain.Person, total int, dupes []quality.Candidate) quality.Metrics {
	m := quality.Metrics{TotalRecords: total}
	if len(people) == 0 {
		return m
	}

	uniqueness := uniquenessScore(len(people), highConfidenceCount(dupes))
	var sumC, sumA, sumK float64
	for i := range people {
		c := quality.PersonCompleteness(&people[i])
		a := personAccuracy(&people[i])
		k := personConsistency(&people[i])
		sumC += c
		sumA += a
		sumK += k
		m.Distribution.Add(composite(c, a, k, uniqueness))
	}

	n := float64(len(people))
	m.Completeness = round2(sumC / n)
	m.Accuracy = round2(sumA / n)
	m.Consistency = round2(sumK / n)
	m.Uniqueness = round2(uniqueness)
	m.Overall = round2(composite(m.Completeness, m.Accuracy, m.Consistency, m.Uniqueness))
	return m
}

// uniquenessScore treats each high-confidence pair as one redundant record.
func uniquenessScore(total, highConfPairs int) float64 {
	if total == 0 {
		return 100
	}
	u := 100 * float64(total-highConfPairs) / float64(total)
	if u < 0 {
		return 0
	}
	return u
}

func composite(completeness, accuracy, consistency, uniqueness float64) float64 {
	return quality.WeightCompleteness*completeness +
		quality.WeightAccuracy*accuracy +
		quality.WeightConsistency*consistency +
		quality.WeightUniqueness*uniqueness
}

func clamp100(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
