// internal/server/handlers/airport.go

package handlers

import (
	"context"
	"net/http"

	"flightscout/internal/domain/flight"
)

// AirportLookup is a fail-soft airport search
type AirportLookup interface {
	Search(ctx context.Context, query string) []flight.AirportOption
}

// AirportHandler handles airport lookup requests
type AirportHandler struct {
	lookup AirportLookup
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(lookup AirportLookup) *AirportHandler {
	return &AirportHandler{lookup: lookup}
}

// SearchAirports returns airports matching the q parameter. It always answers
// 200; lookup failures produce an empty list.
func (h *AirportHandler) SearchAirports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("keyword")
	}

	respondWithJSON(w, http.StatusOK, h.lookup.Search(r.Context(), query))
}
