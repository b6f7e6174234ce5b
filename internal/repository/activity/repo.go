// Package activity records interaction events and aggregates them into the
// popularity and user-preference ranking inputs.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leadscout/leadscout/internal/db"
)

// EventIndex is the FT index over interaction event hashes.
const EventIndex = "idx_events"

const eventKeyPart = "event:"

// Kind classifies an interaction.
type Kind string

// Interaction kinds. Search events carry no entity and feed preference
// aggregation only.
const (
	KindView   Kind = "view"
	KindClick  Kind = "click"
	KindSave   Kind = "save"
	KindSearch Kind = "search"
)

// Event is one recorded interaction. Industry, city, and state are copied
// from the target entity at record time so preference aggregation needs no
// joins.
type Event struct {
	UserID      string
	EntityID    string
	EntityType  string
	Kind        Kind
	Industry    string
	City        string
	State       string
	CompanyType string
	Seniority   string
	At          time.Time
}

// Preferences are a user's inferred affinities from recent interactions,
// strongest first.
type Preferences struct {
	Industries   []string
	Cities       []string
	States       []string
	CompanyTypes []string
	Seniorities  []string
}

// IsZero reports whether no preference signal exists.
func (p *Preferences) IsZero() bool {
	return len(p.Industries) == 0 && len(p.Cities) == 0 && len(p.States) == 0 &&
		len(p.CompanyTypes) == 0 && len(p.Seniorities) == 0
}

// store is the consumer interface for activity data (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	GroupCount(ctx context.Context, index, query string, by []string, limit int) ([]db.GroupCount, error)
}

type indexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements interaction recording and aggregation.
type Repo struct {
	store     store
	keyPrefix string
	now       func() time.Time
}

// New creates an activity repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, now: time.Now}
}

// EnsureIndex creates the event index if absent.
func EnsureIndex(ctx context.Context, mgr indexManager, keyPrefix string) error {
	def, err := db.NewIndex(EventIndex).
		OnPrefix(keyPrefix + eventKeyPart).
		Tag("user_id").
		Tag("entity_id").
		Tag("entity_type").
		Tag("kind").
		Tag("industry").
		Tag("city").
		Tag("state").
		Tag("company_type").
		Tag("seniority").
		Numeric("ts").Sortable().
		Build()
	if err != nil {
		return fmt.Errorf("event index definition: %w", err)
	}

	exists, err := mgr.IndexExists(ctx, EventIndex)
	if err != nil {
		return fmt.Errorf("check index %s: %w", EventIndex, err)
	}
	if exists {
		return nil
	}
	if err := mgr.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexAlreadyExists) {
		return fmt.Errorf("create index %s: %w", EventIndex, err)
	}
	return nil
}

// Record persists one interaction event.
func (r *Repo) Record(ctx context.Context, ev *Event) error {
	if ev.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	if ev.EntityID == "" && ev.Kind != KindSearch {
		return fmt.Errorf("entity id is required for %s events", ev.Kind)
	}

	at := ev.At
	if at.IsZero() {
		at = r.now()
	}

	key := fmt.Sprintf("%s%s%d:%s", r.keyPrefix, eventKeyPart, at.UnixNano(), ev.EntityID)
	fields := map[string]string{
		"user_id":      ev.UserID,
		"entity_id":    ev.EntityID,
		"entity_type":  ev.EntityType,
		"kind":         string(ev.Kind),
		"industry":     ev.Industry,
		"city":         ev.City,
		"state":        ev.State,
		"company_type": ev.CompanyType,
		"seniority":    ev.Seniority,
		"ts":           strconv.FormatInt(at.Unix(), 10),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// PopularityCounts returns the interaction count per entity within the
// window. Entities without events are absent from the map.
func (r *Repo) PopularityCounts(
	ctx context.Context, entityIDs []string, window time.Duration,
) (map[string]int, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}

	escaped := make([]string, len(entityIDs))
	for i, id := range entityIDs {
		escaped[i] = db.EscapeTag(id)
	}
	query := fmt.Sprintf("@entity_id:{%s} %s", strings.Join(escaped, "|"), r.windowClause(window))
	groups, err := r.store.GroupCount(ctx, EventIndex, query, []string{"entity_id"}, len(entityIDs))
	if err != nil {
		return nil, fmt.Errorf("popularity counts: %w", err)
	}

	counts := make(map[string]int, len(groups))
	for _, g := range groups {
		if len(g.Values) == 1 && g.Values[0] != "" {
			counts[g.Values[0]] = g.Count
		}
	}
	return counts, nil
}

// topPreferences caps each preference list.
const topPreferences = 5

// UserPreferences aggregates a user's recent interactions into their top
// industries and locations.
func (r *Repo) UserPreferences(
	ctx context.Context, userID string, window time.Duration,
) (*Preferences, error) {
	if userID == "" {
		return &Preferences{}, nil
	}

	query := fmt.Sprintf("@user_id:{%s} %s", db.EscapeTag(userID), r.windowClause(window))

	prefs := &Preferences{}
	for _, dim := range []struct {
		field string
		out   *[]string
	}{
		{"industry", &prefs.Industries},
		{"city", &prefs.Cities},
		{"state", &prefs.States},
		{"company_type", &prefs.CompanyTypes},
		{"seniority", &prefs.Seniorities},
	} {
		groups, err := r.store.GroupCount(ctx, EventIndex, query, []string{dim.field}, topPreferences)
		if err != nil {
			return nil, fmt.Errorf("user preferences by %s: %w", dim.field, err)
		}
		for _, g := range groups {
			if len(g.Values) == 1 && g.Values[0] != "" {
				*dim.out = append(*dim.out, g.Values[0])
			}
		}
	}
	return prefs, nil
}

func (r *Repo) windowClause(window time.Duration) string {
	cutoff := r.now().Add(-window).Unix()
	return fmt.Sprintf("@ts:[%d +inf]", cutoff)
}
