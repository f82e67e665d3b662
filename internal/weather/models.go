package weather

import "encoding/json"

// Bundle is the merged result of one lookup: the upstream current-conditions
// payload and the 5-day/3-hour forecast payload exactly as the provider
// returned them. Both documents are validated for JSON well-formedness and
// otherwise treated as opaque; the gateway never reshapes upstream fields.
// A Bundle is immutable once constructed and lives for a single
// request/response cycle.
type Bundle struct {
	CurrentWeather json.RawMessage `json:"currentWeather"`
	Forecast       json.RawMessage `json:"forecast"`
}
