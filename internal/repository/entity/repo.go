package entity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leadscout/leadscout/internal/db"
	"github.com/leadscout/leadscout/internal/domain"
	"github.com/leadscout/leadscout/internal/domain/search"
)

// store is the consumer interface for entity reads (ISP).
type store interface {
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	Count(ctx context.Context, index, query string) (int, error)
}

// OrgHit is one organization row with its store-side text score.
type OrgHit struct {
	Org       domain.Organization
	TextScore float64
	Highlight string
}

// PersonHit is one person row with the denormalized parent organization.
type PersonHit struct {
	Person    domain.Person
	Org       domain.OrgSummary
	TextScore float64
	Highlight string
}

// Repo implements organization and person reads over the FT indexes.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an entity repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// SearchOrganizations runs a scored organization search. Highlighting is only
// requested when the query carries tokens.
func (r *Repo) SearchOrganizations(
	ctx context.Context, tokens []string, filters *search.Filters, offset, limit int,
) ([]OrgHit, int, error) {
	q := &db.TextQuery{
		Index:      OrgIndex,
		Query:      OrgPredicate(tokens, filters),
		Offset:     offset,
		Limit:      limit,
		WithScores: true,
	}
	if len(tokens) > 0 {
		q.SummarizeFields = []string{"description"}
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search organizations: %w", err)
	}

	prefix := r.keyPrefix + orgKeyPart
	hits := make([]OrgHit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hit := OrgHit{
			Org:       parseOrg(strings.TrimPrefix(e.Key, prefix), e.Fields),
			TextScore: e.Score,
		}
		if len(tokens) > 0 {
			hit.Highlight = e.Fields["description"]
		}
		hits = append(hits, hit)
	}
	return hits, sr.Total, nil
}

// SearchPeople runs a scored person search. Inactive records never match.
func (r *Repo) SearchPeople(
	ctx context.Context, tokens []string, filters *search.Filters, offset, limit int,
) ([]PersonHit, int, error) {
	q := &db.TextQuery{
		Index:      PersonIndex,
		Query:      PersonPredicate(tokens, filters),
		Offset:     offset,
		Limit:      limit,
		WithScores: true,
	}
	if len(tokens) > 0 {
		q.SummarizeFields = []string{"title"}
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search people: %w", err)
	}

	prefix := r.keyPrefix + personKeyPart
	hits := make([]PersonHit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hit := PersonHit{
			Person:    parsePerson(strings.TrimPrefix(e.Key, prefix), e.Fields),
			Org:       parseOrgSummary(e.Fields),
			TextScore: e.Score,
		}
		if len(tokens) > 0 {
			hit.Highlight = e.Fields["title"]
		}
		hits = append(hits, hit)
	}
	return hits, sr.Total, nil
}

// CountOrganizations returns the organization count under the filters.
func (r *Repo) CountOrganizations(ctx context.Context, filters *search.Filters) (int, error) {
	n, err := r.store.Count(ctx, OrgIndex, OrgPredicate(nil, filters))
	if err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return n, nil
}

// CountPeople returns the active person count under the filters.
func (r *Repo) CountPeople(ctx context.Context, filters *search.Filters) (int, error) {
	n, err := r.store.Count(ctx, PersonIndex, PersonPredicate(nil, filters))
	if err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return n, nil
}

// ListOrganizations returns up to limit organizations plus the collection
// total. The quality sampler uses it as a bounded scan.
func (r *Repo) ListOrganizations(ctx context.Context, limit int) ([]domain.Organization, int, error) {
	sr, err := r.store.Search(ctx, &db.TextQuery{Index: OrgIndex, Query: "*", Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}

	prefix := r.keyPrefix + orgKeyPart
	orgs := make([]domain.Organization, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		orgs = append(orgs, parseOrg(strings.TrimPrefix(e.Key, prefix), e.Fields))
	}
	return orgs, sr.Total, nil
}

// ListPeople returns up to limit people plus the collection total, inactive
// records included.
func (r *Repo) ListPeople(ctx context.Context, limit int) ([]domain.Person, int, error) {
	sr, err := r.store.Search(ctx, &db.TextQuery{Index: PersonIndex, Query: "*", Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}

	prefix := r.keyPrefix + personKeyPart
	people := make([]domain.Person, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		people = append(people, parsePerson(strings.TrimPrefix(e.Key, prefix), e.Fields))
	}
	return people, sr.Total, nil
}

// SuggestNames returns organization names matching the tokens, for the
// did-you-mean block of sparse result sets.
func (r *Repo) SuggestNames(ctx context.Context, tokens []string, limit int) ([]string, error) {
	if len(tokens) == 0 || limit <= 0 {
		return nil, nil
	}

	sr, err := r.store.Search(ctx, &db.TextQuery{
		Index:        OrgIndex,
		Query:        textClause("name", tokens),
		Limit:        limit,
		ReturnFields: []string{"name"},
	})
	if err != nil {
		return nil, fmt.Errorf("suggest names: %w", err)
	}

	names := make([]string, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if name := e.Fields["name"]; name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// --- Hash field mapping ---

func parseOrg(id string, f map[string]string) domain.Organization {
	return domain.Organization{
		ID:                id,
		Name:              f["name"],
		Website:           f["website"],
		Description:       f["description"],
		CompanyType:       f["company_type"],
		Industry:          f["industry"],
		City:              f["city"],
		State:             f["state"],
		EmployeeCount:     domain.EmployeeBracket(f["employee_count"]),
		RevenueRange:      domain.RevenueBracket(f["revenue_range"]),
		FoundedYear:       parseInt(f["founded_year"]),
		Verified:          parseBool(f["verified"]),
		NormalizedName:    f["normalized_name"],
		NormalizedWebsite: f["normalized_website"],
		ContactCount:      parseInt(f["contact_count"]),
		CreatedAt:         parseTime(f["created_at"]),
		UpdatedAt:         parseTime(f["updated_at"]),
	}
}

func parsePerson(id string, f map[string]string) domain.Person {
	return domain.Person{
		ID:            id,
		FirstName:     f["first_name"],
		LastName:      f["last_name"],
		FullName:      f["full_name"],
		Title:         f["title"],
		Email:         f["email"],
		Phone:         f["phone"],
		Department:    f["department"],
		Seniority:     domain.Seniority(f["seniority"]),
		DecisionMaker: parseBool(f["decision_maker"]),
		Verified:      parseBool(f["verified"]),
		Active:        parseBool(f["active"]),
		OrgID:         f["org_id"],
		CreatedAt:     parseTime(f["created_at"]),
		UpdatedAt:     parseTime(f["updated_at"]),
	}
}

func parseOrgSummary(f map[string]string) domain.OrgSummary {
	return domain.OrgSummary{
		ID:            f["org_id"],
		Name:          f["org_name"],
		CompanyType:   f["org_company_type"],
		Industry:      f["org_industry"],
		City:          f["org_city"],
		State:         f["org_state"],
		EmployeeCount: domain.EmployeeBracket(f["org_employee_count"]),
		RevenueRange:  domain.RevenueBracket(f["org_revenue_range"]),
		Verified:      parseBool(f["org_verified"]),
	}
}

func parseBool(s string) bool { return s == "1" || s == "true" }

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseTime reads unix seconds; zero or malformed values map to the zero time.
func parseTime(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil || sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
