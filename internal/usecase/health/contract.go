package health

import (
	"context"

	"github.com/leadscout/leadscout/internal/cache"
)

// StorePinger checks search-store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CacheInspector exposes the result cache's self-diagnosis.
type CacheInspector interface {
	Health() cache.Health
}
