package search

// Control is the UI rendering hint for a facet.
type Control string

// Facet controls.
const (
	ControlCheckbox Control = "checkbox"
	ControlRadio    Control = "radio"
)

// FacetOption is one selectable value within a facet dimension.
type FacetOption struct {
	Value      string  `json:"value"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Selected   bool    `json:"selected"`
}

// Facet is a categorical dimension with live counts under the current search
// context. Option counts sum to the dimension's matching total.
type Facet struct {
	Key     Dimension     `json:"key"`
	Name    string        `json:"name"`
	Control Control       `json:"control"`
	Options []FacetOption `json:"options"`
	HasMore bool          `json:"hasMore"`
}

// FilterSuggestion recommends a filter the caller has not applied yet.
type FilterSuggestion struct {
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
	Label     string    `json:"label"`
}

// FilterCombination is a popular multi-dimension refinement.
type FilterCombination struct {
	Label   string  `json:"label"`
	Filters Filters `json:"filters"`
	Count   int     `json:"count"`
}

// Recommendations accompany a facet response.
type Recommendations struct {
	SuggestedFilters    []FilterSuggestion  `json:"suggestedFilters"`
	PopularCombinations []FilterCombination `json:"popularCombinations"`
}

// FacetResponse is the faceted-search contract payload.
type FacetResponse struct {
	Facets           []Facet         `json:"facets"`
	AppliedFilters   Filters         `json:"appliedFilters"`
	TotalResults     int             `json:"totalResults"`
	FacetQueryTimeMs float64         `json:"facetQueryTime"`
	Recommendations  Recommendations `json:"recommendations"`
}
