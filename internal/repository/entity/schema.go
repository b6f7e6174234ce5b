// Package entity reads organization and person records from the FT indexes
// and maps hash fields into domain types. The ingest side owns the hashes;
// this engine only reads them.
package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadscout/leadscout/internal/db"
)

// Index names.
const (
	OrgIndex    = "idx_orgs"
	PersonIndex = "idx_people"
)

// Key sub-prefixes under the configured key prefix.
const (
	orgKeyPart    = "org:"
	personKeyPart = "person:"
)

type indexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// EnsureIndexes creates the two entity indexes if they are absent.
func EnsureIndexes(ctx context.Context, mgr indexManager, keyPrefix string) error {
	orgDef, err := db.NewIndex(OrgIndex).
		OnPrefix(keyPrefix + orgKeyPart).
		WeightedText("name", 2).
		Text("description").
		Text("website").
		Tag("company_type").
		Tag("industry").
		Tag("city").
		Tag("state").
		Tag("employee_count").
		Tag("revenue_range").
		Tag("verified").
		Numeric("founded_year").Sortable().
		Numeric("contact_count").
		Numeric("updated_at").Sortable().
		Build()
	if err != nil {
		return fmt.Errorf("org index definition: %w", err)
	}

	// Person hashes carry denormalized org_* fields written by the ingest
	// side, so person hits embed the parent organization without a second
	// round trip.
	personDef, err := db.NewIndex(PersonIndex).
		OnPrefix(keyPrefix + personKeyPart).
		WeightedText("full_name", 2).
		Text("title").
		Text("email").
		Tag("department").
		Tag("seniority").
		Tag("decision_maker").
		Tag("verified").
		Tag("active").
		Tag("org_id").
		Tag("org_company_type").
		Tag("org_industry").
		Tag("org_city").
		Tag("org_state").
		Numeric("updated_at").Sortable().
		Build()
	if err != nil {
		return fmt.Errorf("person index definition: %w", err)
	}

	for _, def := range []*db.IndexDefinition{orgDef, personDef} {
		exists, err := mgr.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			continue
		}
		if err := mgr.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexAlreadyExists) {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
}
