package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightscout/internal/domain/flight"
	"flightscout/internal/server/handlers"
)

type SearcherMock struct {
	mock.Mock
}

func (m *SearcherMock) Search(ctx context.Context, params flight.SearchParams, filters flight.FilterState) (*flight.Result, error) {
	args := m.Called(params, filters)
	result, _ := args.Get(0).(*flight.Result)
	return result, args.Error(1)
}

type AirportLookupMock struct {
	mock.Mock
}

func (m *AirportLookupMock) Search(ctx context.Context, query string) []flight.AirportOption {
	args := m.Called(query)
	return args.Get(0).([]flight.AirportOption)
}

func TestAdapter(t *testing.T) {
	params := flight.SearchParams{Origin: "JFK", Destination: "LAX", DepartureDate: "2025-03-14"}
	departure := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	result := &flight.Result{
		Params:  params,
		Filters: flight.DefaultFilters(),
		Flights: []flight.Flight{{
			ID:              "1",
			Airline:         "American Airlines",
			AirlineCode:     "AA",
			Departure:       flight.Endpoint{Code: "JFK", Time: departure},
			Arrival:         flight.Endpoint{Code: "LAX", Time: departure.Add(6 * time.Hour)},
			DurationMinutes: 360,
			Price:           312.4,
			Cabin:           "ECONOMY",
		}},
		Trends:            []flight.TrendPoint{{Date: "Mar 14", Price: 312}},
		AvailableAirlines: []flight.Airline{{Code: "AA", Name: "American Airlines"}},
	}

	type mocks struct {
		searcher *SearcherMock
		airports *AirportLookupMock
	}

	tests := []struct {
		name     string
		req      events.APIGatewayProxyRequest
		mocker   func(m mocks)
		wantCode int
		want     interface{}
		decode   func(body string) (interface{}, error)
	}{
		{
			name: "Return a 200 status code with the first page of results",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       `{"origin":"JFK","destination":"LAX","departureDate":"2025-03-14"}`,
			},
			mocker: func(m mocks) {
				m.searcher.On("Search", params, flight.DefaultFilters()).Return(result, nil).Once()
			},
			wantCode: http.StatusOK,
			want: handlers.SearchResponse{
				SearchCriteria:    params,
				Filters:           flight.DefaultFilters(),
				Flights:           result.Flights,
				Pagination:        handlers.Pagination{Page: 1, PageSize: 10, TotalItems: 1, TotalPages: 1},
				Trends:            result.Trends,
				TrendsSimulated:   true,
				AvailableAirlines: result.AvailableAirlines,
			},
			decode: decodeAs[handlers.SearchResponse],
		},
		{
			name: "Return a 400 status code when the body fails the schema",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       `{"origin":"JFK1","destination":"LAX"}`,
			},
			mocker:   func(m mocks) {},
			wantCode: http.StatusBadRequest,
			want:     "Invalid request",
			decode:   decodeErrorMessage,
		},
		{
			name: "Return a 400 status code when the body is not JSON",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       `{"origin":`,
			},
			mocker:   func(m mocks) {},
			wantCode: http.StatusBadRequest,
			want:     handlers.ErrMalformedBody.Error(),
			decode:   decodeErrorMessage,
		},
		{
			name: "Return a 400 status code when the search rejects the parameters",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       `{"origin":"JFK","destination":"LAX","departureDate":"2025-13-45"}`,
			},
			mocker: func(m mocks) {
				m.searcher.On("Search", mock.Anything, mock.Anything).
					Return(nil, &flight.SearchError{Err: flight.ErrInvalidParams}).Once()
			},
			wantCode: http.StatusBadRequest,
			want:     "Invalid search parameters",
			decode:   decodeErrorMessage,
		},
		{
			name: "Return a 502 status code after an upstream failure",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       `{"origin":"JFK","destination":"LAX","departureDate":"2025-03-14"}`,
			},
			mocker: func(m mocks) {
				m.searcher.On("Search", params, flight.DefaultFilters()).
					Return(nil, &flight.SearchError{Params: params, Err: errors.New("amadeus: HTTP 500")}).Once()
			},
			wantCode: http.StatusBadGateway,
			want:     flight.SearchFailedMessage,
			decode:   decodeErrorMessage,
		},
		{
			name: "Return a 200 status code with airport options",
			req: events.APIGatewayProxyRequest{
				HTTPMethod:            http.MethodGet,
				QueryStringParameters: map[string]string{"q": "new"},
			},
			mocker: func(m mocks) {
				m.airports.On("Search", "new").Return([]flight.AirportOption{
					{Label: "JOHN F KENNEDY INTL (JFK)", Code: "JFK", City: "NEW YORK"},
				}).Once()
			},
			wantCode: http.StatusOK,
			want:     []flight.AirportOption{{Label: "JOHN F KENNEDY INTL (JFK)", Code: "JFK", City: "NEW YORK"}},
			decode:   decodeAs[[]flight.AirportOption],
		},
		{
			name:     "Return a 405 status code for other methods",
			req:      events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete},
			mocker:   func(m mocks) {},
			wantCode: http.StatusMethodNotAllowed,
			want:     "Method not allowed",
			decode:   decodeErrorMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			m := mocks{searcher: &SearcherMock{}, airports: &AirportLookupMock{}}
			tt.mocker(m)

			// Act
			handler := Adapter(m.searcher, m.airports, 10)
			got, err := handler(context.Background(), tt.req)

			// Assert
			require.NoError(t, err)
			require.Equal(t, tt.wantCode, got.StatusCode)
			require.Equal(t, "application/json", got.Headers["Content-Type"])

			body, err := tt.decode(got.Body)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, body); diff != "" {
				t.Errorf("Differences: (-want,+got)\n%s", diff)
			}

			m.searcher.AssertExpectations(t)
			m.airports.AssertExpectations(t)
		})
	}
}

func decodeAs[T any](body string) (interface{}, error) {
	var v T
	err := json.Unmarshal([]byte(body), &v)
	return v, err
}

func decodeErrorMessage(body string) (interface{}, error) {
	var resp handlers.ErrorResponse
	err := json.Unmarshal([]byte(body), &resp)
	return resp.Error, err
}
