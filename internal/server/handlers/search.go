// internal/server/handlers/search.go

package handlers

import (
	"io"
	"net/http"

	"flightscout/internal/domain/flight"
)

const maxBodyBytes = 64 << 10

// SearchHandler handles flight search requests
type SearchHandler struct {
	searcher flight.Searcher
	pageSize int
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher flight.Searcher, pageSize int) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		pageSize: pageSize,
	}
}

// SearchFlights runs a search and returns the requested page
func (h *SearchHandler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body"}, err)
		return
	}

	req, violations, err := DecodeSearchRequest(body)
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()}, err)
		return
	}
	if len(violations) > 0 {
		respondWithError(w, r, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: violations}, nil)
		return
	}

	result, err := h.searcher.Search(r.Context(), req.Params(), req.FilterState())
	if err != nil {
		code, resp := SearchFailure(err)
		respondWithError(w, r, code, resp, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NewSearchResponse(result, req.Page, h.pageSize))
}
