package facet

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/leadscout/leadscout/internal/domain"
	dsearch "github.com/leadscout/leadscout/internal/domain/search"
	"github.com/leadscout/leadscout/internal/repository/facet"
)

// Option caps per dimension. Builders fetch one extra row to detect overflow.
const (
	defaultOptionCap  = 20
	locationOptionCap = 15
	foundedYearFetch  = 200
)

// builder computes one facet dimension. Checkbox dimensions count under the
// filter set with their own selection removed; radio dimensions count under
// the full filter set so the selected option mirrors the live result.
type builder struct {
	dim     dsearch.Dimension
	name    string
	control dsearch.Control
	run     func(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error)
}

func (s *Service) orgBuilders() []builder {
	return []builder{
		{dsearch.DimCompanyType, "Company Type", dsearch.ControlCheckbox, s.companyType},
		{dsearch.DimIndustry, "Industry", dsearch.ControlCheckbox, s.industry},
		{dsearch.DimLocation, "Location", dsearch.ControlCheckbox, s.orgLocation},
		{dsearch.DimEmployeeCount, "Company Size", dsearch.ControlCheckbox, s.employeeCount},
		{dsearch.DimRevenueRange, "Revenue", dsearch.ControlCheckbox, s.revenueRange},
		{dsearch.DimVerified, "Verification", dsearch.ControlRadio, s.orgVerified},
		{dsearch.DimFoundedYear, "Founded", dsearch.ControlCheckbox, s.foundedYear},
		{dsearch.DimActivity, "Activity", dsearch.ControlCheckbox, s.activity},
	}
}

func (s *Service) personBuilders(includeShared bool) []builder {
	bs := []builder{
		{dsearch.DimSeniority, "Seniority", dsearch.ControlCheckbox, s.seniority},
		{dsearch.DimDepartment, "Department", dsearch.ControlCheckbox, s.department},
		{dsearch.DimTitlePattern, "Role", dsearch.ControlCheckbox, s.titlePattern},
		{dsearch.DimDecisionMaker, "Decision Makers", dsearch.ControlRadio, s.decisionMaker},
	}
	if includeShared {
		bs = append(bs,
			builder{dsearch.DimLocation, "Location", dsearch.ControlCheckbox, s.personLocation},
			builder{dsearch.DimVerified, "Verification", dsearch.ControlRadio, s.personVerified},
		)
	}
	return bs
}

func (s *Service) companyType(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	scope := f.Without(dsearch.DimCompanyType)
	counts, err := s.repo.OrgValueCounts(ctx, tokens, &scope, "company_type", defaultOptionCap+1)
	if err != nil {
		return nil, false, err
	}
	return checkboxOptions(counts, defaultOptionCap, &f, dsearch.DimCompanyType, domain.FormatEnumLabel)
}

func (s *Service) industry(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	scope := f.Without(dsearch.DimIndustry)
	counts, err := s.repo.OrgValueCounts(ctx, tokens, &scope, "industry", defaultOptionCap+1)
	if err != nil {
		return nil, false, err
	}
	return checkboxOptions(counts, defaultOptionCap, &f, dsearch.DimIndustry, domain.FormatEnumLabel)
}

func (s *Service) orgLocation(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	scope := f.Without(dsearch.DimLocation)
	locs, err := s.repo.OrgLocationCounts(ctx, tokens, &scope, locationOptionCap+1)
	if err != nil {
		return nil, false, err
	}
	return locationOptions(locs, locationOptionCap, &f), len(locs) > locationOptionCap, nil
}

func (s *Service) personLocation(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	scope := f.Without(dsearch.DimLocation)
	locs, err := s.repo.PersonLocationCounts(ctx, tokens, &scope, locationOptionCap+1)
	if err != nil {
		return nil, false, err
	}
	return locationOptions(locs, locationOptionCap, &f), len(locs) > locationOptionCap, nil
}

func (s *Service) employeeCount(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	counts, err := s.repo.OrgValueCounts(ctx, tokens, &f, "employee_count", len(domain.EmployeeBracketOrder))
	if err != nil {
		return nil, false, err
	}

	byValue := countsByValue(counts)
	total := sumCounts(counts)
	var opts []dsearch.FacetOption
	for _, b := range domain.EmployeeBracketOrder {
		n := byValue[string(b)]
		if n == 0 {
			continue
		}
		opts = append(opts, dsearch.FacetOption{
			Value:      string(b),
			Label:      b.Label(),
			Count:      n,
			Percentage: percentage(n, total),
		})
	}
	return opts, false, nil
}

func (s *Service) revenueRange(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	counts, err := s.repo.OrgValueCounts(ctx, tokens, &f, "revenue_range", len(domain.RevenueBracketOrder))
	if err != nil {
		return nil, false, err
	}

	byValue := countsByValue(counts)
	total := sumCounts(counts)
	var opts []dsearch.FacetOption
	for _, b := range domain.RevenueBracketOrder {
		n := byValue[string(b)]
		if n == 0 {
			continue
		}
		opts = append(opts, dsearch.FacetOption{
			Value:      string(b),
			Label:      b.Label(),
			Count:      n,
			Percentage: percentage(n, total),
		})
	}
	return opts, false, nil
}

func (s *Service) orgVerified(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	counts, err := s.repo.OrgValueCounts(ctx, tokens, &f, "verified", 2)
	if err != nil {
		return nil, false, err
	}
	return verifiedOptions(counts, &f), false, nil
}

func (s *Service) personVerified(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	counts, err := s.repo.PersonValueCounts(ctx, tokens, &f, "verified", 2)
	if err != nil {
		return nil, false, err
	}
	return verifiedOptions(counts, &f), false, nil
}

func (s *Service) decisionMaker(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	counts, err := s.repo.PersonValueCounts(ctx, tokens, &f, "decision_maker", 2)
	if err != nil {
		return nil, false, err
	}

	total := sumCounts(counts)
	var opts []dsearch.FacetOption
	for _, c := range counts {
		value, label := "false", "Other Contacts"
		if c.Value == "1" || c.Value == "true" {
			value, label = "true", "Decision Makers"
		}
		opts = append(opts, dsearch.FacetOption{
			Value:      value,
			Label:      label,
			Count:      c.Count,
			Percentage: percentage(c.Count, total),
			Selected:   f.Selected(dsearch.DimDecisionMaker, value),
		})
	}
	sortBoolOptions(opts)
	return opts, false, nil
}

// foundedYear folds per-year counts into decade buckets, newest first.
func (s *Service) foundedYear(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	counts, err := s.repo.OrgValueCounts(ctx, tokens, &f, "founded_year", foundedYearFetch)
	if err != nil {
		return nil, false, err
	}

	decades := map[int]int{}
	total := 0
	for _, c := range counts {
		year, err := strconv.Atoi(c.Value)
		if err != nil || year <= 0 {
			continue
		}
		decades[(year/10)*10] += c.Count
		total += c.Count
	}

	keys := make([]int, 0, len(decades))
	for d := range decades {
		keys = append(keys, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	if len(keys) > defaultOptionCap {
		keys = keys[:defaultOptionCap]
	}

	opts := make([]dsearch.FacetOption, 0, len(keys))
	for _, d := range keys {
		opts = append(opts, dsearch.FacetOption{
			Value:      fmt.Sprintf("%ds", d),
			Label:      fmt.Sprintf("Founded %ds", d),
			Count:      decades[d],
			Percentage: percentage(decades[d], total),
		})
	}
	return opts, len(decades) > defaultOptionCap, nil
}

// activityBuckets partition organizations by last-update recency. Ranges are
// half-open so the counts sum to the context total.
var activityBuckets = []struct {
	value string
	label string
	days  int
}{
	{"last_7_days", "Active this week", 7},
	{"last_30_days", "Active this month", 30},
	{"last_90_days", "Active this quarter", 90},
	{"older", "Inactive", 0},
}

func (s *Service) activity(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	now := s.now().Unix()
	day := int64(24 * 60 * 60)

	var opts []dsearch.FacetOption
	total := 0
	prev := now + 1
	for _, b := range activityBuckets {
		var clause string
		if b.days == 0 {
			clause = fmt.Sprintf("@updated_at:[-inf (%d]", prev)
		} else {
			clause = fmt.Sprintf("@updated_at:[%d (%d]", now-int64(b.days)*day, prev)
			prev = now - int64(b.days)*day
		}
		n, err := s.repo.OrgCountWhere(ctx, tokens, &f, clause)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			continue
		}
		opts = append(opts, dsearch.FacetOption{Value: b.value, Label: b.label, Count: n})
		total += n
	}
	for i := range opts {
		opts[i].Percentage = percentage(opts[i].Count, total)
	}
	return opts, false, nil
}

func (s *Service) seniority(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	scope := f.Without(dsearch.DimSeniority)
	counts, err := s.repo.PersonValueCounts(ctx, tokens, &scope, "seniority", len(domain.SeniorityOrder))
	if err != nil {
		return nil, false, err
	}

	byValue := countsByValue(counts)
	total := sumCounts(counts)
	var opts []dsearch.FacetOption
	for _, lvl := range domain.SeniorityOrder {
		n := byValue[string(lvl)]
		if n == 0 {
			continue
		}
		opts = append(opts, dsearch.FacetOption{
			Value:      string(lvl),
			Label:      lvl.Label(),
			Count:      n,
			Percentage: percentage(n, total),
			Selected:   f.Selected(dsearch.DimSeniority, string(lvl)),
		})
	}
	return opts, false, nil
}

func (s *Service) department(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	scope := f.Without(dsearch.DimDepartment)
	counts, err := s.repo.PersonValueCounts(ctx, tokens, &scope, "department", defaultOptionCap+1)
	if err != nil {
		return nil, false, err
	}
	return checkboxOptions(counts, defaultOptionCap, &f, dsearch.DimDepartment, domain.FormatEnumLabel)
}

// titleBuckets classify job titles by keyword. Buckets may overlap, so this
// dimension is the one place option counts can exceed the context total.
var titleBuckets = []struct {
	value    string
	label    string
	keywords string
}{
	{"executive", "Executive", "ceo|cfo|cto|coo|chief|president|founder"},
	{"vp", "VP", "vp|vice"},
	{"director", "Director", "director"},
	{"manager", "Manager", "manager|head"},
	{"engineering", "Engineering", "engineer|developer|architect"},
	{"sales", "Sales", "sales|account"},
}

func (s *Service) titlePattern(ctx context.Context, tokens []string, f dsearch.Filters) ([]dsearch.FacetOption, bool, error) {
	var opts []dsearch.FacetOption
	total := 0
	for _, b := range titleBuckets {
		n, err := s.repo.PersonCountWhere(ctx, tokens, &f, fmt.Sprintf("@title:(%s)", b.keywords))
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			continue
		}
		opts = append(opts, dsearch.FacetOption{Value: b.value, Label: b.label, Count: n})
		total += n
	}
	for i := range opts {
		opts[i].Percentage = percentage(opts[i].Count, total)
	}
	return opts, false, nil
}

func checkboxOptions(
	counts []facet.Count, limit int, f *dsearch.Filters, dim dsearch.Dimension,
	label func(string) string,
) ([]dsearch.FacetOption, bool, error) {
	hasMore := len(counts) > limit
	if hasMore {
		counts = counts[:limit]
	}

	total := sumCounts(counts)
	opts := make([]dsearch.FacetOption, 0, len(counts))
	for _, c := range counts {
		opts = append(opts, dsearch.FacetOption{
			Value:      c.Value,
			Label:      label(c.Value),
			Count:      c.Count,
			Percentage: percentage(c.Count, total),
			Selected:   f.Selected(dim, c.Value),
		})
	}
	return opts, hasMore, nil
}

func locationOptions(locs []facet.LocationCount, limit int, f *dsearch.Filters) []dsearch.FacetOption {
	if len(locs) > limit {
		locs = locs[:limit]
	}

	total := 0
	for _, l := range locs {
		total += l.Count
	}

	opts := make([]dsearch.FacetOption, 0, len(locs))
	for _, l := range locs {
		opts = append(opts, dsearch.FacetOption{
			Value:      locationValue(l.City, l.State),
			Label:      locationValue(l.City, l.State),
			Count:      l.Count,
			Percentage: percentage(l.Count, total),
			Selected:   locationSelected(f, l.City, l.State),
		})
	}
	return opts
}

func locationValue(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

func locationSelected(f *dsearch.Filters, city, state string) bool {
	for _, loc := range f.Locations {
		if loc.City == city && loc.State == state {
			return true
		}
	}
	return false
}

func verifiedOptions(counts []facet.Count, f *dsearch.Filters) []dsearch.FacetOption {
	total := sumCounts(counts)
	var opts []dsearch.FacetOption
	for _, c := range counts {
		value, label := "false", "Not Verified"
		if c.Value == "1" || c.Value == "true" {
			value, label = "true", "Verified"
		}
		opts = append(opts, dsearch.FacetOption{
			Value:      value,
			Label:      label,
			Count:      c.Count,
			Percentage: percentage(c.Count, total),
			Selected:   f.Selected(dsearch.DimVerified, value),
		})
	}
	sortBoolOptions(opts)
	return opts
}

// sortBoolOptions puts the affirmative option first.
func sortBoolOptions(opts []dsearch.FacetOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Value == "true" && opts[j].Value != "true"
	})
}

func countsByValue(counts []facet.Count) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Value] = c.Count
	}
	return m
}

func sumCounts(counts []facet.Count) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(int(float64(n)/float64(total)*1000+0.5)) / 10
}
