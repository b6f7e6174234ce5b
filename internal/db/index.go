package db

import (
	"fmt"
	"regexp"
)

// FieldType is an FT index field type.
type FieldType string

// Supported field types.
const (
	FieldTypeText    FieldType = "TEXT"
	FieldTypeTag     FieldType = "TAG"
	FieldTypeNumeric FieldType = "NUMERIC"
)

// IndexField describes one indexed hash field.
type IndexField struct {
	Name     string
	Type     FieldType
	Weight   float64 // TEXT only, 0 means default
	Sortable bool
}

// IndexDefinition describes an FT index over a hash key prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidIdentifier reports whether s is safe to embed in an FT command
// as an index or field name.
func IsValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// Validate checks the definition before it reaches the driver.
func (d *IndexDefinition) Validate() error {
	if !IsValidIdentifier(d.Name) {
		return fmt.Errorf("invalid index name %q", d.Name)
	}
	if d.Prefix == "" {
		return fmt.Errorf("index %s: prefix is required", d.Name)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("index %s: at least one field is required", d.Name)
	}
	for _, f := range d.Fields {
		if !IsValidIdentifier(f.Name) {
			return fmt.Errorf("index %s: invalid field name %q", d.Name, f.Name)
		}
		switch f.Type {
		case FieldTypeText, FieldTypeTag, FieldTypeNumeric:
		default:
			return fmt.Errorf("index %s: field %s has unknown type %q", d.Name, f.Name, f.Type)
		}
		if f.Weight != 0 && f.Type != FieldTypeText {
			return fmt.Errorf("index %s: field %s: weight applies to TEXT fields only", d.Name, f.Name)
		}
	}
	return nil
}
