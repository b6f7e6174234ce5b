package quality

import (
	"testing"

	"github.com/leadscout/leadscout/internal/domain"
)

func org(id, name string, mut ...func(*domain.Organization)) domain.Organization {
	o := domain.Organization{ID: id, Name: name}
	for _, m := range mut {
		m(&o)
	}
	return o
}

func hasReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func TestMatchOrganizations_ExactName(t *testing.T) {
	cands := matchOrganizations([]domain.Organization{
		org("o1", "Acme Corp"),
		org("o2", "acme corp"),
	})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.Confidence != bonusExactName {
		t.Errorf("confidence = %v, want %v", c.Confidence, bonusExactName)
	}
	if !hasReason(c.Reasons, "Exact name match") {
		t.Errorf("reasons = %v", c.Reasons)
	}
}

func TestMatchOrganizations_WebsiteMatchAlone(t *testing.T) {
	cands := matchOrganizations([]domain.Organization{
		org("o1", "Acme Holdings", func(o *domain.Organization) { o.NormalizedWebsite = "acme.com" }),
		org("o2", "Summit Partners", func(o *domain.Organization) { o.NormalizedWebsite = "acme.com" }),
	})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.Confidence < 0.6 {
		t.Errorf("confidence = %v, want >= 0.6", c.Confidence)
	}
	if !hasReason(c.Reasons, "Website match") {
		t.Errorf("reasons = %v", c.Reasons)
	}
}

func TestMatchOrganizations_ConfidenceClamped(t *testing.T) {
	mut := func(o *domain.Organization) {
		o.NormalizedWebsite = "acme.com"
		o.Website = "https://acme.com"
	}
	cands := matchOrganizations([]domain.Organization{
		org("o1", "Acme Corp", mut),
		org("o2", "Acme Corp", mut),
	})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if c := cands[0].Confidence; c != 1.0 {
		t.Errorf("confidence = %v, want clamped to 1.0", c)
	}
}

func TestMatchOrganizations_BelowCutoffDropped(t *testing.T) {
	cands := matchOrganizations([]domain.Organization{
		org("o1", "Acme Corporation"),
		org("o2", "Acme Corporatino"), // similar name only: +0.5
	})
	if len(cands) != 0 {
		t.Errorf("candidates = %+v, want none below cutoff", cands)
	}
}

func TestMatchOrganizations_CanonicalByCompleteness(t *testing.T) {
	rich := org("o2", "Acme Corp", func(o *domain.Organization) {
		o.Website = "https://acme.com"
		o.Industry = "SOFTWARE"
		o.Description = "Cloud tooling"
		o.City, o.State = "Austin", "TX"
	})
	poor := org("o1", "Acme Corp")

	cands := matchOrganizations([]domain.Organization{poor, rich})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.CanonicalID != "o2" {
		t.Errorf("canonical = %q, want the more complete o2", c.CanonicalID)
	}
	if len(c.MergeFields) != 0 {
		t.Errorf("merge fields = %v, poor record adds nothing", c.MergeFields)
	}
}

func TestMatchOrganizations_CanonicalTieBreaksByID(t *testing.T) {
	cands := matchOrganizations([]domain.Organization{
		org("z9", "Acme Corp"),
		org("a1", "Acme Corp"),
	})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if cands[0].CanonicalID != "a1" {
		t.Errorf("canonical = %q, want deterministic a1", cands[0].CanonicalID)
	}
}

func TestMatchOrganizations_MergeFields(t *testing.T) {
	canonical := org("o1", "Acme Corp", func(o *domain.Organization) {
		o.Website = "https://acme.com"
		o.Industry = "SOFTWARE"
		o.Verified = true
	})
	other := org("o2", "Acme Corp", func(o *domain.Organization) {
		o.Description = "Cloud tooling"
		o.FoundedYear = 2012
	})

	cands := matchOrganizations([]domain.Organization{canonical, other})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.CanonicalID != "o1" {
		t.Fatalf("canonical = %q", c.CanonicalID)
	}
	want := map[string]bool{"description": true, "foundedYear": true}
	if len(c.MergeFields) != len(want) {
		t.Fatalf("merge fields = %v", c.MergeFields)
	}
	for _, f := range c.MergeFields {
		if !want[f] {
			t.Errorf("unexpected merge field %q", f)
		}
	}
}

func TestMatchPeople_EmailAndCompany(t *testing.T) {
	cands := matchPeople([]domain.Person{
		{ID: "p1", FullName: "Dana Reyes", Email: "dana@acme.com", OrgID: "o1"},
		{ID: "p2", FullName: "D. Reyes", Email: "DANA@acme.com", OrgID: "o1"},
	})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.Confidence != bonusEmail+bonusSameOrg {
		t.Errorf("confidence = %v, want %v", c.Confidence, bonusEmail+bonusSameOrg)
	}
	if !hasReason(c.Reasons, "Email match") || !hasReason(c.Reasons, "Same company") {
		t.Errorf("reasons = %v", c.Reasons)
	}
}

func TestMatchPeople_PhoneDigitsNormalized(t *testing.T) {
	cands := matchPeople([]domain.Person{
		{ID: "p1", FullName: "Dana Reyes", Phone: "(512) 555-0100"},
		{ID: "p2", FullName: "Dana Reyes", Phone: "512.555.0100"},
	})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if !hasReason(cands[0].Reasons, "Phone match") {
		t.Errorf("reasons = %v", cands[0].Reasons)
	}
}

func TestMatch_SortedByConfidenceDesc(t *testing.T) {
	cands := matchOrganizations([]domain.Organization{
		org("o1", "Acme Corp"),
		org("o2", "Acme Corp"), // exact name: 0.8
		org("o3", "Globex", func(o *domain.Organization) { o.NormalizedWebsite = "globex.com" }),
		org("o4", "Globex Intl", func(o *domain.Organization) { o.NormalizedWebsite = "globex.com" }),
	})
	if len(cands) < 2 {
		t.Fatalf("candidates = %d, want >= 2", len(cands))
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].Confidence > cands[i-1].Confidence {
			t.Errorf("candidates not sorted: %v before %v", cands[i-1].Confidence, cands[i].Confidence)
		}
	}
}
