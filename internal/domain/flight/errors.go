// internal/domain/flight/errors.go

package flight

import (
	"errors"
	"fmt"
)

// User-facing messages for the two terminal outcomes of a search
const (
	SearchFailedMessage = "Failed to fetch flights. Please check your connection or API keys."
	NoResultsMessage    = "No flights found for this route and date."
)

// ErrInvalidParams is returned when search parameters fail validation
var ErrInvalidParams = errors.New("invalid search parameters")

// AuthError means the client-credentials exchange failed
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: token exchange failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// LookupError means an airport lookup failed. It is logged and absorbed.
type LookupError struct {
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Query, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// SearchError wraps any failure of a flight search. No partial results
// accompany it.
type SearchError struct {
	Params SearchParams
	Err    error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s-%s on %s: %v",
		e.Params.Origin, e.Params.Destination, e.Params.DepartureDate, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// UserMessage is the single message shown for a failed search
func (e *SearchError) UserMessage() string { return SearchFailedMessage }

// ConfigError reports missing or invalid startup configuration
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Msg)
}
