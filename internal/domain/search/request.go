package search

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leadscout/leadscout/internal/domain"
)

// EntityType selects which collections a search targets.
type EntityType string

// Entity types. The wire names ("company"/"contact") come from the inbound
// request contract.
const (
	TypeOrganization EntityType = "company"
	TypePerson       EntityType = "contact"
	TypeBoth         EntityType = "both"
)

// ParseEntityType validates a wire entity-type selector.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case TypeOrganization, TypePerson, TypeBoth:
		return EntityType(s), nil
	}
	return "", fmt.Errorf("%w: unknown search type %q", domain.ErrValidation, s)
}

// Pagination defaults and caps.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// MaxTokens caps how many query tokens are kept after noise filtering.
const MaxTokens = 10

// minTokenLen drops noise tokens; terms of length <= 2 rarely discriminate.
const minTokenLen = 3

// Request is a validated search request.
type Request struct {
	Query    string
	Type     EntityType
	Limit    int
	Offset   int
	Filters  Filters
	UseCache bool
	UserID   string
}

// Normalize applies pagination defaults and caps in place.
func (r *Request) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// Validate rejects malformed requests before any store access.
func (r *Request) Validate() error {
	switch r.Type {
	case TypeOrganization, TypePerson, TypeBoth:
	default:
		return fmt.Errorf("%w: unknown search type %q", domain.ErrValidation, r.Type)
	}
	if err := r.Filters.Validate(); err != nil {
		return err
	}
	return nil
}

// Tokenize turns raw query text into the normalized token set: lower-cased,
// punctuation stripped, whitespace-split, noise tokens dropped, capped at
// MaxTokens.
func Tokenize(query string) []string {
	if query == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, query)

	var tokens []string
	for _, t := range strings.Fields(cleaned) {
		if len(t) < minTokenLen {
			continue
		}
		tokens = append(tokens, t)
		if len(tokens) == MaxTokens {
			break
		}
	}
	return tokens
}

// Complexity scores the request 0-100 from token count and filter cardinality.
// Reported in search stats for diagnostics; not used for ranking.
func (r *Request) Complexity() int {
	c := 0
	if r.Query != "" {
		c += len(strings.Fields(r.Query)) * 2
	}
	f := &r.Filters
	c += len(f.CompanyTypes)
	c += len(f.Industries)
	c += len(f.Locations) * 2
	c += len(f.Seniorities)
	c += len(f.Departments)
	if f.Verified != nil {
		c++
	}
	if f.DecisionMaker != nil {
		c++
	}
	if c > 100 {
		c = 100
	}
	return c
}
