package weather

import (
	"errors"
	"fmt"
	"testing"
)

// TestCategorizeIsTotal verifies every error, typed or not, maps to exactly
// one category, with the generic category as the fallback.
func TestCategorizeIsTotal(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnavailable},
		{"plain error", errors.New("boom"), CategoryUnavailable},
		{"validation", NewValidationError("city name is required"), CategoryUnavailable},
		{"timeout", NewTimeoutError("upstream call timed out", nil), CategoryTimedOut},
		{"network", NewNetworkError("upstream request failed", errors.New("connection refused")), CategoryUnreachable},
		{"upstream 404", NewUpstreamError(404, []byte(`{"cod":"404"}`)), CategoryNotFound},
		{"upstream 401", NewUpstreamError(401, nil), CategoryAuthFailed},
		{"upstream 403", NewUpstreamError(403, nil), CategoryAuthFailed},
		{"upstream 500", NewUpstreamError(500, nil), CategoryUnavailable},
		{"upstream 429", NewUpstreamError(429, nil), CategoryUnavailable},
		{"malformed payload", NewMalformedError(200), CategoryUnavailable},
		{"breaker open", NewUpstreamFailure("circuit breaker open", errors.New("open state")), CategoryUnavailable},
		{"wrapped upstream 404", fmt.Errorf("lookup: %w", NewUpstreamError(404, nil)), CategoryNotFound},
		{"wrapped timeout", fmt.Errorf("lookup: %w", NewTimeoutError("deadline", nil)), CategoryTimedOut},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Categorize(tc.err); got != tc.want {
				t.Fatalf("expected category %q, got %q", tc.want, got)
			}
		})
	}
}

// TestCategoryMessage pins the messages the HTTP boundary returns to callers.
func TestCategoryMessage(t *testing.T) {
	if got := CategoryNotFound.Message(); got != "City not found. Please check the spelling and try again." {
		t.Fatalf("unexpected not-found message: %q", got)
	}
	if got := Category("something else").Message(); got != "Weather data is temporarily unavailable. Please try again later." {
		t.Fatalf("unexpected fallback message: %q", got)
	}

	seen := map[string]Category{}
	for _, c := range []Category{CategoryNotFound, CategoryAuthFailed, CategoryTimedOut, CategoryUnreachable, CategoryUnavailable} {
		msg := c.Message()
		if msg == "" {
			t.Fatalf("category %q has no message", c)
		}
		if prev, ok := seen[msg]; ok {
			t.Fatalf("categories %q and %q share a message", prev, c)
		}
		seen[msg] = c
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(NewValidationError("x")); got != KindValidation {
		t.Fatalf("expected %q, got %q", KindValidation, got)
	}
	if got := KindOf(fmt.Errorf("wrap: %w", NewNetworkError("x", nil))); got != KindNetwork {
		t.Fatalf("expected %q, got %q", KindNetwork, got)
	}
	if got := KindOf(errors.New("boom")); got != ErrorKind("") {
		t.Fatalf("expected empty kind, got %q", got)
	}
}
