package db

import "testing"

func TestIndexBuilder_Build(t *testing.T) {
	def, err := NewIndex("idx_orgs").
		OnPrefix("ls:org:").
		WeightedText("name", 2).
		Text("description").
		Tag("industry").
		Numeric("founded_year").Sortable().
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "idx_orgs" || def.Prefix != "ls:org:" {
		t.Errorf("unexpected header: %+v", def)
	}
	if len(def.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(def.Fields))
	}
	if def.Fields[0].Weight != 2 {
		t.Errorf("expected weight 2 on name, got %g", def.Fields[0].Weight)
	}
	if !def.Fields[3].Sortable {
		t.Error("expected founded_year to be sortable")
	}
}

func TestIndexBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*IndexDefinition, error)
	}{
		{"bad index name", func() (*IndexDefinition, error) {
			return NewIndex("idx orgs").OnPrefix("p:").Text("name").Build()
		}},
		{"missing prefix", func() (*IndexDefinition, error) {
			return NewIndex("idx_orgs").Text("name").Build()
		}},
		{"no fields", func() (*IndexDefinition, error) {
			return NewIndex("idx_orgs").OnPrefix("p:").Build()
		}},
		{"bad field name", func() (*IndexDefinition, error) {
			return NewIndex("idx_orgs").OnPrefix("p:").Text("na me").Build()
		}},
		{"weight on tag", func() (*IndexDefinition, error) {
			b := NewIndex("idx_orgs").OnPrefix("p:")
			b.def.Fields = append(b.def.Fields, IndexField{Name: "t", Type: FieldTypeTag, Weight: 2})
			return b.Build()
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"name", "founded_year", "_x", "A1"}
	invalid := []string{"", "1name", "na me", "na-me", "@name"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("expected %q valid", s)
		}
	}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("expected %q invalid", s)
		}
	}
}
