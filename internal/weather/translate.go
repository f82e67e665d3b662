package weather

import (
	"errors"
	"net/http"
)

// Category is a user-facing failure class. Internal errors are translated to
// exactly one category; the caller only ever sees the category's message.
type Category string

const (
	CategoryNotFound    Category = "not-found"
	CategoryAuthFailed  Category = "authentication-failed"
	CategoryTimedOut    Category = "timed-out"
	CategoryUnreachable Category = "unreachable"
	CategoryUnavailable Category = "temporarily-unavailable"
)

// Categorize maps any lookup failure to a Category. It is a pure function
// and total: anything unrecognized, including errors that are not
// LookupErrors at all, falls through to CategoryUnavailable.
func Categorize(err error) Category {
	var le *LookupError
	if !errors.As(err, &le) {
		return CategoryUnavailable
	}

	switch le.Kind {
	case KindTimeout:
		return CategoryTimedOut
	case KindNetwork:
		return CategoryUnreachable
	case KindUpstream:
		switch le.Status {
		case http.StatusNotFound:
			return CategoryNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return CategoryAuthFailed
		}
	}

	return CategoryUnavailable
}

// Message returns the text shown to API callers for this category.
func (c Category) Message() string {
	switch c {
	case CategoryNotFound:
		return "City not found. Please check the spelling and try again."
	case CategoryAuthFailed:
		return "The weather provider rejected our credentials. Please try again later."
	case CategoryTimedOut:
		return "The weather service took too long to respond. Please try again."
	case CategoryUnreachable:
		return "The weather service could not be reached. Please try again later."
	default:
		return "Weather data is temporarily unavailable. Please try again later."
	}
}
