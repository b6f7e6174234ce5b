package quality

import (
	"regexp"
	"strings"

	"github.com/leadscout/leadscout/internal/domain"
)

// OrgCompleteness scores a single organization 0-100 by field richness.
// Weights favor the fields the search surface actually displays.
func OrgCompleteness(o *domain.Organization) float64 {
	var score float64
	if o.Name != "" {
		score += 20
	}
	if o.Industry != "" {
		score += 15
	}
	if o.CompanyType != "" {
		score += 10
	}
	if o.Website != "" {
		score += 10
	}
	if o.Description != "" {
		score += 10
	}
	if o.City != "" || o.State != "" {
		score += 10
	}
	if o.EmployeeCount != "" {
		score += 10
	}
	if o.RevenueRange != "" {
		score += 5
	}
	if o.FoundedYear > 0 {
		score += 5
	}
	if o.Verified {
		score += 5
	}
	return score
}

// PersonCompleteness scores a single person 0-100 by field richness.
func PersonCompleteness(p *domain.Person) float64 {
	var score float64
	if p.FullName != "" || (p.FirstName != "" && p.LastName != "") {
		score += 20
	}
	if p.Title != "" {
		score += 15
	}
	if p.Email != "" {
		score += 20
	}
	if p.Phone != "" {
		score += 10
	}
	if p.Department != "" {
		score += 10
	}
	if p.Seniority.Score() > 0 {
		score += 15
	}
	if p.Verified {
		score += 10
	}
	return score
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail checks the minimal well-formedness the accuracy dimension needs.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidWebsite accepts absolute http(s) URLs and bare domains with a dot.
func ValidWebsite(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	}
	host, _, _ := strings.Cut(s, "/")
	return strings.Contains(host, ".") && !strings.ContainsAny(host, " \t")
}

var phoneDigitsRe = regexp.MustCompile(`[0-9]`)

// ValidPhone requires at least 7 digits among formatting characters.
func ValidPhone(s string) bool {
	if s == "" {
		return false
	}
	return len(phoneDigitsRe.FindAllString(s, -1)) >= 7 &&
		!strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

// ExecutiveTitle reports whether a free-form title names a C-suite role.
// Used by the consistency check against the seniority enum.
func ExecutiveTitle(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range []string{"ceo", "cfo", "cto", "coo", "chief "} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
