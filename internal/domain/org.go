package domain

import (
	"strings"
	"time"
)

// EmployeeBracket is the coarse employee-count band of an organization.
type EmployeeBracket string

// Employee brackets, smallest first.
const (
	EmployeesStartup    EmployeeBracket = "STARTUP_1_10"
	EmployeesSmall      EmployeeBracket = "SMALL_11_50"
	EmployeesMedium     EmployeeBracket = "MEDIUM_51_200"
	EmployeesLarge      EmployeeBracket = "LARGE_201_1000"
	EmployeesEnterprise EmployeeBracket = "ENTERPRISE_1001_5000"
	EmployeesMega       EmployeeBracket = "MEGA_5000_PLUS"
)

// EmployeeBracketOrder is the fixed ladder used for facet ordering.
var EmployeeBracketOrder = []EmployeeBracket{
	EmployeesStartup, EmployeesSmall, EmployeesMedium,
	EmployeesLarge, EmployeesEnterprise, EmployeesMega,
}

var employeeLabels = map[EmployeeBracket]string{
	EmployeesStartup:    "1-10 employees",
	EmployeesSmall:      "11-50 employees",
	EmployeesMedium:     "51-200 employees",
	EmployeesLarge:      "201-1,000 employees",
	EmployeesEnterprise: "1,001-5,000 employees",
	EmployeesMega:       "5,000+ employees",
}

// Label returns the human-readable form of the bracket.
func (b EmployeeBracket) Label() string {
	if l, ok := employeeLabels[b]; ok {
		return l
	}
	return titleCase(string(b))
}

// ScaleScore contributes to the company-scale ranking signal.
func (b EmployeeBracket) ScaleScore() float64 {
	switch b {
	case EmployeesMega:
		return 50
	case EmployeesEnterprise:
		return 45
	case EmployeesLarge:
		return 40
	case EmployeesMedium:
		return 30
	case EmployeesSmall:
		return 20
	case EmployeesStartup:
		return 15
	}
	return 0
}

// RevenueBracket is the coarse annual-revenue band of an organization.
type RevenueBracket string

// Revenue brackets, smallest first.
const (
	RevenueUnder1M     RevenueBracket = "UNDER_1M"
	Revenue1MTo5M      RevenueBracket = "RANGE_1M_5M"
	Revenue5MTo25M     RevenueBracket = "RANGE_5M_25M"
	Revenue25MTo100M   RevenueBracket = "RANGE_25M_100M"
	Revenue100MTo500M  RevenueBracket = "RANGE_100M_500M"
	Revenue500MTo1B    RevenueBracket = "RANGE_500M_1B"
	RevenueOver1B      RevenueBracket = "OVER_1B"
	RevenueUndisclosed RevenueBracket = "UNDISCLOSED"
)

// RevenueBracketOrder is the fixed ladder used for facet ordering.
var RevenueBracketOrder = []RevenueBracket{
	RevenueUnder1M, Revenue1MTo5M, Revenue5MTo25M, Revenue25MTo100M,
	Revenue100MTo500M, Revenue500MTo1B, RevenueOver1B, RevenueUndisclosed,
}

var revenueLabels = map[RevenueBracket]string{
	RevenueUnder1M:     "Under $1M",
	Revenue1MTo5M:      "$1M - $5M",
	Revenue5MTo25M:     "$5M - $25M",
	Revenue25MTo100M:   "$25M - $100M",
	Revenue100MTo500M:  "$100M - $500M",
	Revenue500MTo1B:    "$500M - $1B",
	RevenueOver1B:      "Over $1B",
	RevenueUndisclosed: "Undisclosed",
}

// Label returns the human-readable form of the bracket.
func (b RevenueBracket) Label() string {
	if l, ok := revenueLabels[b]; ok {
		return l
	}
	return titleCase(string(b))
}

// ScaleScore contributes to the company-scale ranking signal.
func (b RevenueBracket) ScaleScore() float64 {
	switch b {
	case RevenueOver1B:
		return 50
	case Revenue500MTo1B:
		return 45
	case Revenue100MTo500M:
		return 40
	case Revenue25MTo100M:
		return 30
	case Revenue5MTo25M:
		return 20
	case Revenue1MTo5M:
		return 15
	case RevenueUnder1M:
		return 10
	}
	return 0
}

// Organization is a company record as read from the store. The store owns the
// schema; this engine only reads and aggregates.
type Organization struct {
	ID          string
	Name        string
	Website     string
	Description string
	CompanyType string
	Industry    string
	City        string
	State       string

	EmployeeCount EmployeeBracket
	RevenueRange  RevenueBracket
	FoundedYear   int
	Verified      bool

	// Lower-cased, canonicalized forms maintained by the ingest side and
	// used here for equality checks during duplicate matching.
	NormalizedName    string
	NormalizedWebsite string

	ContactCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrgSummary is the denormalized parent-organization view embedded in person
// search results.
type OrgSummary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CompanyType   string          `json:"companyType,omitempty"`
	Industry      string          `json:"industry,omitempty"`
	City          string          `json:"city,omitempty"`
	State         string          `json:"state,omitempty"`
	EmployeeCount EmployeeBracket `json:"employeeCount,omitempty"`
	RevenueRange  RevenueBracket  `json:"revenueRange,omitempty"`
	Verified      bool            `json:"verified"`
}

// Summary projects an organization down to its embeddable form.
func (o *Organization) Summary() OrgSummary {
	return OrgSummary{
		ID:            o.ID,
		Name:          o.Name,
		CompanyType:   o.CompanyType,
		Industry:      o.Industry,
		City:          o.City,
		State:         o.State,
		EmployeeCount: o.EmployeeCount,
		RevenueRange:  o.RevenueRange,
		Verified:      o.Verified,
	}
}

// titleCase turns SNAKE_CASE enum values into "Snake Case" labels.
func titleCase(s string) string {
	words := strings.Split(strings.ToLower(strings.ReplaceAll(s, "_", " ")), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatEnumLabel exposes titleCase for facet labels of free-form enum values
// (company types, industries, departments).
func FormatEnumLabel(s string) string { return titleCase(s) }
