// internal/domain/flight/service.go

package flight

import (
	"context"
)

// TokenSource provides bearer tokens for the upstream API
type TokenSource interface {
	// Token returns a valid access token, refreshing it when needed
	Token(ctx context.Context) (string, error)
}

// AirportFinder looks up airports and cities by keyword
type AirportFinder interface {
	// SearchAirports returns locations matching keyword
	SearchAirports(ctx context.Context, keyword string) ([]AirportOption, error)
}

// OfferProvider searches flight offers and returns them normalized
type OfferProvider interface {
	// SearchOffers runs the provider-side search for query
	SearchOffers(ctx context.Context, query OfferQuery) ([]Flight, error)
}

// Searcher runs the full search pipeline
type Searcher interface {
	// Search fetches, filters and summarizes flights for params
	Search(ctx context.Context, params SearchParams, filters FilterState) (*Result, error)
}

// Result is the outcome of one successful search
type Result struct {
	Params            SearchParams `json:"searchCriteria"`
	Filters           FilterState  `json:"filters"`
	Flights           []Flight     `json:"flights"`
	Trends            []TrendPoint `json:"trends"`
	AvailableAirlines []Airline    `json:"availableAirlines"`
}

// Empty reports whether the search matched no flights
func (r *Result) Empty() bool {
	return len(r.Flights) == 0
}
