// internal/service/search/orchestrator.go

package search

import (
	"context"
	"log/slog"

	"flightscout/internal/domain/flight"
)

// OrchestratorConfig contains configuration for the search orchestrator
type OrchestratorConfig struct {
	// FallbackBasePrice seeds the trend series when no flight survives filtering
	FallbackBasePrice float64
}

// Orchestrator implements flight.Searcher on top of an offer provider
type Orchestrator struct {
	offers flight.OfferProvider
	trends *TrendSynthesizer
	config OrchestratorConfig
	logger *slog.Logger
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(
	offers flight.OfferProvider,
	trends *TrendSynthesizer,
	logger *slog.Logger,
	config OrchestratorConfig,
) *Orchestrator {
	if trends == nil {
		trends = NewTrendSynthesizer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.FallbackBasePrice <= 0 {
		config.FallbackBasePrice = FallbackBasePrice
	}
	return &Orchestrator{
		offers: offers,
		trends: trends,
		config: config,
		logger: logger,
	}
}

// Search fetches offers for params with the remote filters applied, normalizes
// and locally filters them, then derives the trend series from the survivors.
// Every failure is reported as a *flight.SearchError with no partial result.
func (o *Orchestrator) Search(ctx context.Context, params flight.SearchParams, filters flight.FilterState) (*flight.Result, error) {
	params = params.Normalized()
	filters = filters.Normalized()

	if err := params.Validate(); err != nil {
		return nil, &flight.SearchError{Params: params, Err: err}
	}
	departure, err := params.Date()
	if err != nil {
		return nil, &flight.SearchError{Params: params, Err: err}
	}

	flights, err := o.offers.SearchOffers(ctx, RemoteQuery(params, filters))
	if err != nil {
		o.logger.Error("flight search failed",
			"origin", params.Origin,
			"destination", params.Destination,
			"date", params.DepartureDate,
			"error", err)
		return nil, &flight.SearchError{Params: params, Err: err}
	}

	filtered := ApplyFilters(flights, filters)
	trends := o.trends.Synthesize(departure, BasePrice(filtered, o.config.FallbackBasePrice))

	o.logger.Info("flight search completed",
		"origin", params.Origin,
		"destination", params.Destination,
		"date", params.DepartureDate,
		"offers", len(flights),
		"matched", len(filtered))

	return &flight.Result{
		Params:            params,
		Filters:           filters,
		Flights:           filtered,
		Trends:            trends,
		AvailableAirlines: AvailableAirlines(filtered),
	}, nil
}
