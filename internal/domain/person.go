package domain

import "time"

// Seniority is the ordered job-level enumeration, from intern up to C-level.
type Seniority string

// Seniority levels.
const (
	SeniorityCLevel           Seniority = "C_LEVEL"
	SeniorityFounderOwner     Seniority = "FOUNDER_OWNER"
	SeniorityEVP              Seniority = "EVP"
	SenioritySVP              Seniority = "SVP"
	SeniorityVP               Seniority = "VP"
	SenioritySeniorDirector   Seniority = "SENIOR_DIRECTOR"
	SeniorityDirector         Seniority = "DIRECTOR"
	SenioritySeniorManager    Seniority = "SENIOR_MANAGER"
	SeniorityManager          Seniority = "MANAGER"
	SenioritySeniorSpecialist Seniority = "SENIOR_SPECIALIST"
	SenioritySpecialist       Seniority = "SPECIALIST"
	SeniorityCoordinator      Seniority = "COORDINATOR"
	SeniorityIntern           Seniority = "INTERN"
)

// SeniorityOrder is the fixed ladder, most senior first. Facets present this
// ordering rather than a popularity ordering.
var SeniorityOrder = []Seniority{
	SeniorityCLevel, SeniorityFounderOwner, SeniorityEVP, SenioritySVP,
	SeniorityVP, SenioritySeniorDirector, SeniorityDirector,
	SenioritySeniorManager, SeniorityManager, SenioritySeniorSpecialist,
	SenioritySpecialist, SeniorityCoordinator, SeniorityIntern,
}

// Score returns the seniority ranking-signal value.
func (s Seniority) Score() float64 {
	switch s {
	case SeniorityCLevel:
		return 100
	case SeniorityFounderOwner:
		return 95
	case SeniorityEVP:
		return 90
	case SenioritySVP:
		return 85
	case SeniorityVP:
		return 80
	case SenioritySeniorDirector:
		return 75
	case SeniorityDirector:
		return 70
	case SenioritySeniorManager:
		return 60
	case SeniorityManager:
		return 50
	case SenioritySeniorSpecialist:
		return 40
	case SenioritySpecialist:
		return 30
	case SeniorityCoordinator:
		return 20
	case SeniorityIntern:
		return 10
	}
	return 0
}

// Label returns the human-readable form of the level.
func (s Seniority) Label() string { return titleCase(string(s)) }

// Person is a contact record belonging to an organization.
type Person struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	FullName   string `json:"fullName"`
	Title      string `json:"title,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`

	Seniority     Seniority `json:"seniority,omitempty"`
	DecisionMaker bool      `json:"isDecisionMaker"`
	Verified      bool      `json:"verified"`
	Active        bool      `json:"isActive"`

	OrgID string `json:"companyId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName prefers the canonical full name, falling back to first+last.
func (p *Person) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.FirstName + " " + p.LastName
}
