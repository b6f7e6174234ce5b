package entity

import (
	"fmt"
	"strings"

	"github.com/leadscout/leadscout/internal/db"
	"github.com/leadscout/leadscout/internal/domain/search"
)

// OrgPredicate renders the FT query string for an organization search:
// prefix-matched tokens ORed across the text fields, filters ANDed on.
func OrgPredicate(tokens []string, f *search.Filters) string {
	if f == nil {
		f = &search.Filters{}
	}

	var parts []string

	if text := textClause("name|description|website", tokens); text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, tagClause("company_type", f.CompanyTypes)...)
	parts = append(parts, tagClause("industry", f.Industries)...)
	if loc := locationClause("city", "state", f.Locations); loc != "" {
		parts = append(parts, loc)
	}
	if f.Verified != nil {
		parts = append(parts, boolClause("verified", *f.Verified))
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// PersonPredicate renders the FT query string for a person search. Inactive
// records never match. Organization-level filters apply through the
// denormalized org_* tags.
func PersonPredicate(tokens []string, f *search.Filters) string {
	if f == nil {
		f = &search.Filters{}
	}

	parts := []string{boolClause("active", true)}

	if text := textClause("full_name|title|email", tokens); text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, tagClause("seniority", f.Seniorities)...)
	parts = append(parts, tagClause("department", f.Departments)...)
	parts = append(parts, tagClause("org_company_type", f.CompanyTypes)...)
	parts = append(parts, tagClause("org_industry", f.Industries)...)
	if loc := locationClause("org_city", "org_state", f.Locations); loc != "" {
		parts = append(parts, loc)
	}
	if f.Verified != nil {
		parts = append(parts, boolClause("verified", *f.Verified))
	}
	if f.DecisionMaker != nil {
		parts = append(parts, boolClause("decision_maker", *f.DecisionMaker))
	}

	return strings.Join(parts, " ")
}

// textClause ORs prefix-matched tokens across a field group. Tokens are
// already normalized to letters, digits, and underscores.
func textClause(fieldGroup string, tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	terms := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = t + "*"
	}
	return fmt.Sprintf("@%s:(%s)", fieldGroup, strings.Join(terms, " | "))
}

// tagClause renders a value-in-set tag filter, or nothing for an empty set.
func tagClause(field string, values []string) []string {
	if len(values) == 0 {
		return nil
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = db.EscapeTag(v)
	}
	return []string{fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))}
}

// locationClause ORs city/state pairs; within a pair, present sides AND.
func locationClause(cityField, stateField string, locs []search.Location) string {
	if len(locs) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(locs))
	for _, loc := range locs {
		var sides []string
		if loc.City != "" {
			sides = append(sides, fmt.Sprintf("@%s:{%s}", cityField, db.EscapeTag(loc.City)))
		}
		if loc.State != "" {
			sides = append(sides, fmt.Sprintf("@%s:{%s}", stateField, db.EscapeTag(loc.State)))
		}
		if len(sides) == 0 {
			continue
		}
		pairs = append(pairs, "("+strings.Join(sides, " ")+")")
	}
	if len(pairs) == 0 {
		return ""
	}
	if len(pairs) == 1 {
		return pairs[0]
	}
	return "(" + strings.Join(pairs, " | ") + ")"
}

func boolClause(field string, v bool) string {
	if v {
		return fmt.Sprintf("@%s:{1}", field)
	}
	return fmt.Sprintf("@%s:{0}", field)
}
