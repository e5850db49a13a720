// cmd/lambda/main.go

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"flightscout/internal/adapter/amadeus"
	"flightscout/internal/config"
	"flightscout/internal/domain/flight"
	"flightscout/internal/server/handlers"
	"flightscout/internal/service/lookup"
	"flightscout/internal/service/search"
)

type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// AirportLookup is a fail-soft airport search
type AirportLookup interface {
	Search(ctx context.Context, query string) []flight.AirportOption
}

// Adapter serves GET airport lookups and POST flight searches behind API
// Gateway. Failures are reported in the response, never as a Lambda error.
func Adapter(searcher flight.Searcher, airports AirportLookup, pageSize int) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		switch req.HTTPMethod {
		case http.MethodGet:
			query := req.QueryStringParameters["q"]
			if query == "" {
				query = req.QueryStringParameters["keyword"]
			}
			return Respond(http.StatusOK, airports.Search(ctx, query)), nil

		case http.MethodPost:
			// Decode and validate the request
			body, violations, err := handlers.DecodeSearchRequest([]byte(req.Body))
			if err != nil {
				return Respond(http.StatusBadRequest, handlers.ErrorResponse{Error: err.Error()}), nil
			}
			if len(violations) > 0 {
				return Respond(http.StatusBadRequest, handlers.ErrorResponse{Error: "Invalid request", Details: violations}), nil
			}

			// Search
			result, err := searcher.Search(ctx, body.Params(), body.FilterState())
			if err != nil {
				slog.ErrorContext(ctx, "search failed", "request_id", req.RequestContext.RequestID, "error", err)
				code, resp := handlers.SearchFailure(err)
				return Respond(code, resp), nil
			}

			// Respond
			return Respond(http.StatusOK, handlers.NewSearchResponse(result, body.Page, pageSize)), nil

		default:
			return Respond(http.StatusMethodNotAllowed, handlers.ErrorResponse{Error: "Method not allowed"}), nil
		}
	}
}

// Respond encodes payload as a JSON API Gateway response
func Respond(statusCode int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		statusCode = http.StatusInternalServerError
		body = []byte(`{"error":"Failed to marshal response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel, "lambda")
	slog.SetDefault(logger)

	if cfg.Amadeus.SecretID != "" {
		secrets, err := config.NewSecretsClient()
		if err != nil {
			panic(err)
		}
		if cfg.Amadeus, err = config.ResolveCredentials(context.Background(), cfg.Amadeus, secrets); err != nil {
			panic(err)
		}
	}

	client := amadeus.NewClient(amadeus.Config{
		BaseURL:    cfg.Amadeus.BaseURL,
		APIKey:     cfg.Amadeus.APIKey,
		APISecret:  cfg.Amadeus.APISecret,
		Timeout:    cfg.Amadeus.Timeout,
		Adults:     cfg.Search.Adults,
		MaxResults: cfg.Search.MaxResults,
		Currency:   cfg.Search.Currency,
	}, amadeus.WithLogger(logger))

	airports := lookup.NewService(client, logger, lookup.Config{
		MinQueryLength: cfg.Lookup.MinQueryLength,
	})
	orchestrator := search.NewOrchestrator(client, search.NewTrendSynthesizer(nil), logger, search.OrchestratorConfig{
		FallbackBasePrice: cfg.Search.FallbackBasePrice,
	})

	lambda.Start(Adapter(orchestrator, airports, cfg.Search.PageSize))
}
