package repository

import (
	"context"
)

// TrackingProvider is the external customs/logistics trail feed. FetchTrail
// returns the raw provider payload; flattening it is the extractor's concern.
// Calls are synchronous and never retried here. Failures wrap
// entity.ErrProviderAuth or entity.ErrProviderUnavailable.
type TrackingProvider interface {
	FetchTrail(ctx context.Context, containerNumber string) ([]byte, error)
}
