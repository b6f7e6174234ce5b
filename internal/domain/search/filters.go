package search

import (
	"fmt"

	"github.com/leadscout/leadscout/internal/domain"
)

// Dimension enumerates the filterable/facetable dimensions. Filters arrive as
// a closed struct rather than a free-form map, so unknown dimensions fail
// validation at the boundary instead of being silently ignored.
type Dimension string

// Facet/filter dimensions.
const (
	DimCompanyType   Dimension = "companyType"
	DimIndustry      Dimension = "industry"
	DimLocation      Dimension = "location"
	DimEmployeeCount Dimension = "employeeCount"
	DimRevenueRange  Dimension = "revenueRange"
	DimVerified      Dimension = "verified"
	DimFoundedYear   Dimension = "foundedYear"
	DimActivity      Dimension = "activity"
	DimSeniority     Dimension = "seniority"
	DimDepartment    Dimension = "department"
	DimTitlePattern  Dimension = "titlePattern"
	DimDecisionMaker Dimension = "decisionMaker"
)

// Location is a city/state pair. Either side may be empty; an all-empty pair
// is invalid.
type Location struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// maxFilterValues bounds each categorical filter array.
const maxFilterValues = 32

// Filters is the tagged filter set ANDed onto a search. Categorical arrays
// are value-in-set; locations are a disjunction of pairs; booleans are
// tri-state (nil = not filtered).
type Filters struct {
	CompanyTypes  []string   `json:"companyTypes,omitempty"`
	Industries    []string   `json:"industries,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	Seniorities   []string   `json:"seniorities,omitempty"`
	Departments   []string   `json:"departments,omitempty"`
	Verified      *bool      `json:"verified,omitempty"`
	DecisionMaker *bool      `json:"isDecisionMaker,omitempty"`
}

// IsZero reports whether no filter is applied.
func (f *Filters) IsZero() bool {
	return len(f.CompanyTypes) == 0 && len(f.Industries) == 0 &&
		len(f.Locations) == 0 && len(f.Seniorities) == 0 &&
		len(f.Departments) == 0 && f.Verified == nil && f.DecisionMaker == nil
}

// Validate rejects oversized arrays, empty values, and invalid seniorities.
func (f *Filters) Validate() error {
	for _, group := range [][]string{f.CompanyTypes, f.Industries, f.Seniorities, f.Departments} {
		if len(group) > maxFilterValues {
			return fmt.Errorf("%w: too many filter values (max %d)", domain.ErrValidation, maxFilterValues)
		}
		for _, v := range group {
			if v == "" {
				return fmt.Errorf("%w: empty filter value", domain.ErrValidation)
			}
		}
	}
	if len(f.Locations) > maxFilterValues {
		return fmt.Errorf("%w: too many location filters (max %d)", domain.ErrValidation, maxFilterValues)
	}
	for _, loc := range f.Locations {
		if loc.City == "" && loc.State == "" {
			return fmt.Errorf("%w: location filter requires city or state", domain.ErrValidation)
		}
	}
	for _, s := range f.Seniorities {
		if domain.Seniority(s).Score() == 0 {
			return fmt.Errorf("%w: unknown seniority %q", domain.ErrValidation, s)
		}
	}
	return nil
}

// Without returns a copy with one dimension's filter removed. Facet builders
// use it so a dimension's own selection does not filter its own counts.
func (f Filters) Without(dim Dimension) Filters {
	switch dim {
	case DimCompanyType:
		f.CompanyTypes = nil
	case DimIndustry:
		f.Industries = nil
	case DimLocation:
		f.Locations = nil
	case DimSeniority:
		f.Seniorities = nil
	case DimDepartment:
		f.Departments = nil
	case DimVerified:
		f.Verified = nil
	case DimDecisionMaker:
		f.DecisionMaker = nil
	}
	return f
}

// Selected reports whether a value is part of the applied filter for dim.
func (f *Filters) Selected(dim Dimension, value string) bool {
	contains := func(vals []string) bool {
		for _, v := range vals {
			if v == value {
				return true
			}
		}
		return false
	}
	switch dim {
	case DimCompanyType:
		return contains(f.CompanyTypes)
	case DimIndustry:
		return contains(f.Industries)
	case DimSeniority:
		return contains(f.Seniorities)
	case DimDepartment:
		return contains(f.Departments)
	case DimVerified:
		return f.Verified != nil && fmt.Sprintf("%t", *f.Verified) == value
	case DimDecisionMaker:
		return f.DecisionMaker != nil && fmt.Sprintf("%t", *f.DecisionMaker) == value
	}
	return false
}
