package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Endpoint paths on the provider's REST API.
const (
	currentPath  = "/weather"
	forecastPath = "/forecast"
)

// OpenWeatherClient talks to an OpenWeatherMap-compatible API. It implements
// weather.Provider: payloads pass through unmodified, and each call carries
// its own timeout.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey, baseURL string, timeout time.Duration) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  client,
		circuit: cb,
	}
}

func (c *OpenWeatherClient) Name() string {
	return c.name
}

func (c *OpenWeatherClient) CurrentByName(ctx context.Context, name string) (json.RawMessage, error) {
	return c.get(ctx, currentPath, url.Values{"q": []string{name}})
}

func (c *OpenWeatherClient) ForecastByName(ctx context.Context, name string) (json.RawMessage, error) {
	return c.get(ctx, forecastPath, url.Values{"q": []string{name}})
}

func (c *OpenWeatherClient) CurrentByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	return c.get(ctx, currentPath, coordValues(lat, lon))
}

func (c *OpenWeatherClient) ForecastByCoords(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	return c.get(ctx, forecastPath, coordValues(lat, lon))
}

// get issues one GET against the provider with the shared credentials, a
// percent-encoded query, and a per-call timeout.
func (c *OpenWeatherClient) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	return doRequest(c.client, c.circuit, req)
}

func coordValues(lat, lon float64) url.Values {
	return url.Values{
		"lat": []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": []string{strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}
