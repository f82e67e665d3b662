package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/skywatch/weather-gateway/internal/weather"
)

// upstreamResponse carries a completed upstream exchange out of the breaker.
type upstreamResponse struct {
	status int
	body   []byte
}

// doRequest executes one upstream call through the circuit breaker and maps
// every failure mode onto the gateway's typed errors. Transport failures and
// provider-side statuses (5xx, 429) count against the breaker; client-side
// statuses such as 404 do not, so a burst of typo lookups cannot take the
// provider offline for everyone. No retries: a failed call surfaces
// immediately.
func doRequest(client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (json.RawMessage, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return nil, weather.NewUpstreamError(resp.StatusCode, body)
		}

		return upstreamResponse{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	resp, ok := result.(upstreamResponse)
	if !ok {
		return nil, weather.NewUpstreamFailure("unexpected circuit breaker result", nil)
	}

	if resp.status < 200 || resp.status >= 300 {
		return nil, weather.NewUpstreamError(resp.status, resp.body)
	}
	if !json.Valid(resp.body) {
		return nil, weather.NewMalformedError(resp.status)
	}

	return json.RawMessage(resp.body), nil
}

// classify tags breaker and transport failures with their kind. Errors
// already typed inside the breaker pass through untouched.
func classify(err error) error {
	var le *weather.LookupError
	if errors.As(err, &le) {
		return le
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return weather.NewUpstreamFailure("circuit breaker open", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return weather.NewTimeoutError("upstream call exceeded its deadline", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return weather.NewTimeoutError("upstream call timed out", err)
	}

	return weather.NewNetworkError("upstream request failed", err)
}
