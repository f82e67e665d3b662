package weather

import (
	"context"
	"encoding/json"
)

// Provider abstracts the upstream weather API. Every method issues at most
// one upstream request and returns the raw response document. Implementations
// must be safe for concurrent use: the gateway calls two methods in parallel
// for each lookup.
type Provider interface {
	Name() string

	// CurrentByName and ForecastByName query by place name; the provider is
	// responsible for percent-encoding it.
	CurrentByName(ctx context.Context, name string) (json.RawMessage, error)
	ForecastByName(ctx context.Context, name string) (json.RawMessage, error)

	// CurrentByCoords and ForecastByCoords query by raw coordinate values.
	CurrentByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error)
	ForecastByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}
