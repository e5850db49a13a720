// internal/server/handlers/request.go

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	"flightscout/internal/domain/flight"
	"flightscout/internal/service/search"
)

const filtersSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"maxPrice": {"type": "number", "minimum": 100, "maximum": 1500},
		"stops": {"type": ["integer", "null"], "enum": [0, 1, null]},
		"airlines": {
			"type": "array",
			"items": {"type": "string", "pattern": "^[A-Za-z0-9]{2}$"}
		},
		"cabinClass": {"enum": ["", "ECONOMY", "PREMIUM_ECONOMY", "BUSINESS", "FIRST"]},
		"nonStop": {"type": ["boolean", "null"]},
		"departTimeRange": {
			"oneOf": [
				{"type": "null"},
				{
					"type": "object",
					"required": ["from", "to"],
					"additionalProperties": false,
					"properties": {
						"from": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
						"to": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"}
					}
				}
			]
		},
		"maxDurationMinutes": {"type": ["integer", "null"], "minimum": 1}
	}
}`

const searchParamsProperties = `
		"origin": {"type": "string", "pattern": "^[A-Za-z]{3}$"},
		"destination": {"type": "string", "pattern": "^[A-Za-z]{3}$"},
		"departureDate": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}`

var (
	searchRequestSchema = mustSchema(fmt.Sprintf(`{
	"type": "object",
	"required": ["origin", "destination", "departureDate"],
	"additionalProperties": false,
	"properties": {%s,
		"filters": %s,
		"page": {"type": "integer", "minimum": 1}
	}
}`, searchParamsProperties, filtersSchema))

	searchParamsSchema = mustSchema(fmt.Sprintf(`{
	"type": "object",
	"required": ["origin", "destination", "departureDate"],
	"additionalProperties": false,
	"properties": {%s}
}`, searchParamsProperties))

	filterStateSchema = mustSchema(filtersSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// ErrMalformedBody is returned when a body is not valid JSON
var ErrMalformedBody = errors.New("request body is not valid JSON")

// SearchRequest is the body of a flight search
type SearchRequest struct {
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	DepartureDate string              `json:"departureDate"`
	Filters       *flight.FilterState `json:"filters,omitempty"`
	Page          int                 `json:"page,omitempty"`
}

// Params returns the route and date of the request
func (r SearchRequest) Params() flight.SearchParams {
	return flight.SearchParams{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureDate: r.DepartureDate,
	}
}

// FilterState returns the requested filters, or the defaults when none were sent
func (r SearchRequest) FilterState() flight.FilterState {
	if r.Filters == nil {
		return flight.DefaultFilters()
	}
	return *r.Filters
}

// DecodeSearchRequest validates body against the request schema and decodes
// it. Schema violations are returned as messages with a nil error.
func DecodeSearchRequest(body []byte) (SearchRequest, []string, error) {
	var req SearchRequest
	violations, err := validate(searchRequestSchema, body)
	if err != nil || len(violations) > 0 {
		return req, violations, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if req.Page == 0 {
		req.Page = 1
	}
	return req, nil, nil
}

// DecodeSearchParams validates and decodes a bare route and date
func DecodeSearchParams(body []byte) (flight.SearchParams, []string, error) {
	var params flight.SearchParams
	violations, err := validate(searchParamsSchema, body)
	if err != nil || len(violations) > 0 {
		return params, violations, err
	}
	if err := json.Unmarshal(body, &params); err != nil {
		return params, nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return params, nil, nil
}

// DecodeFilterState validates and decodes a filter state
func DecodeFilterState(body []byte) (flight.FilterState, []string, error) {
	filters := flight.DefaultFilters()
	violations, err := validate(filterStateSchema, body)
	if err != nil || len(violations) > 0 {
		return filters, violations, err
	}
	if err := json.Unmarshal(body, &filters); err != nil {
		return filters, nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return filters, nil, nil
}

func validate(schema *gojsonschema.Schema, body []byte) ([]string, error) {
	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	violations := []string{}
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}

// Pagination describes the page returned with a search
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// SearchResponse is the body of a successful search
type SearchResponse struct {
	SearchCriteria    flight.SearchParams `json:"searchCriteria"`
	Filters           flight.FilterState  `json:"filters"`
	Flights           []flight.Flight     `json:"flights"`
	Pagination        Pagination          `json:"pagination"`
	Trends            []flight.TrendPoint `json:"trends"`
	TrendsSimulated   bool                `json:"trendsSimulated"`
	AvailableAirlines []flight.Airline    `json:"availableAirlines"`
	Notice            string              `json:"notice,omitempty"`
}

// NewSearchResponse builds the response for one page of result
func NewSearchResponse(result *flight.Result, page, pageSize int) SearchResponse {
	p := search.Paginate(result.Flights, page, pageSize)
	resp := SearchResponse{
		SearchCriteria: result.Params,
		Filters:        result.Filters,
		Flights:        p.Items,
		Pagination: Pagination{
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalItems: p.TotalItems,
			TotalPages: p.TotalPages,
		},
		Trends:            result.Trends,
		TrendsSimulated:   true,
		AvailableAirlines: result.AvailableAirlines,
	}
	if result.Empty() {
		resp.Notice = flight.NoResultsMessage
	}
	return resp
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// SearchFailure maps a search error to a status code and response body
func SearchFailure(err error) (int, ErrorResponse) {
	if errors.Is(err, flight.ErrInvalidParams) {
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid search parameters", Details: []string{err.Error()}}
	}
	return http.StatusBadGateway, ErrorResponse{Error: flight.SearchFailedMessage}
}
