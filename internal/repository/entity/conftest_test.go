package entity

import (
	"context"

	"github.com/leadscout/leadscout/internal/db"
)

// fakeStore is a hand-written store mock recording the last query.
type fakeStore struct {
	searchFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	countFn  func(ctx context.Context, index, query string) (int, error)

	lastQuery      *db.TextQuery
	lastCountQuery string
}

func (f *fakeStore) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	f.lastQuery = q
	if f.searchFn != nil {
		return f.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (f *fakeStore) Count(ctx context.Context, index, query string) (int, error) {
	f.lastCountQuery = query
	if f.countFn != nil {
		return f.countFn(ctx, index, query)
	}
	return 0, nil
}
