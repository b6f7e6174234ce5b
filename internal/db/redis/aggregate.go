package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leadscout/leadscout/internal/db"
)

// GroupCount runs FT.AGGREGATE with GROUPBY over the given fields and a COUNT
// reducer, ordered by descending count.
func (s *Store) GroupCount(
	ctx context.Context, index, query string, by []string, limit int,
) ([]db.GroupCount, error) {
	if index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(by) == 0 {
		return nil, fmt.Errorf("at least one group-by field is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	for _, f := range by {
		if !db.IsValidIdentifier(f) {
			return nil, fmt.Errorf("invalid group-by field %q", f)
		}
	}
	if query == "" {
		query = "*"
	}

	args := []string{index, query, "GROUPBY", strconv.Itoa(len(by))}
	for _, f := range by {
		args = append(args, "@"+f)
	}
	args = append(args,
		"REDUCE", "COUNT", "0", "AS", "count",
		"SORTBY", "2", "@count", "DESC",
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, searchErr(db.OpAggregate, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	// [total, row1, row2, ...], each row a flat field-value array.
	groups := make([]db.GroupCount, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(row)

		g := db.GroupCount{Values: make([]string, len(by))}
		for j, f := range by {
			g.Values[j] = fields[f]
		}
		if c, err := strconv.Atoi(fields["count"]); err == nil {
			g.Count = c
		}
		groups = append(groups, g)
	}

	return groups, nil
}
