package repository

import (
	"context"

	"wingman/internal/domain/models"
)

// VolumeProvider fetches 24h traded volume for a base/quote pair from one
// external source. A miss (ok=false) covers every failure class: timeout,
// non-2xx, malformed response, unknown symbol. Providers never surface
// transport errors to callers.
type VolumeProvider interface {
	Name() string
	FetchVolume(ctx context.Context, base, quote string) (models.Volume, bool)
}

// DominanceProvider fetches global market dominance percentages.
type DominanceProvider interface {
	FetchGlobalDominance(ctx context.Context) (models.Dominance, bool)
}

// Notifier delivers rendered text to the messaging channel. Implementations
// chunk long messages below the channel's hard limit.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TradePlanner generates an actionable trade plan from cached technicals.
// Treated as an opaque request/response collaborator.
type TradePlanner interface {
	Plan(ctx context.Context, payload *models.AlertPayload) (string, error)
}

// EventPublisher emits processed-alert events for downstream consumers.
type EventPublisher interface {
	PublishProcessed(ctx context.Context, payload *models.AlertPayload, result models.ProcessResult) error
}

// Metrics records operational counters.
type Metrics interface {
	RecordAlert(outcome string)
	RecordProviderRequest(provider, outcome string)
	RecordVolumeCacheHit(provider string)
	RecordNotifierChunk(outcome string)
	RecordLatency(op string, seconds float64)
}
