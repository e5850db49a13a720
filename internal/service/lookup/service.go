// internal/service/lookup/service.go

package lookup

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"flightscout/internal/domain/flight"
)

// Config contains configuration for airport lookups
type Config struct {
	// MinQueryLength is the shortest query sent upstream
	MinQueryLength int

	// Debounce is the quiet period before a typed query is looked up
	Debounce time.Duration
}

// DefaultConfig returns the default lookup configuration
func DefaultConfig() Config {
	return Config{
		MinQueryLength: 2,
		Debounce:       500 * time.Millisecond,
	}
}

// Service is a fail-soft airport lookup. It never returns an error: failures
// are logged and yield an empty list.
type Service struct {
	finder flight.AirportFinder
	config Config
	logger *slog.Logger
}

// NewService creates a new lookup service
func NewService(finder flight.AirportFinder, logger *slog.Logger, config Config) *Service {
	defaults := DefaultConfig()
	if config.MinQueryLength <= 0 {
		config.MinQueryLength = defaults.MinQueryLength
	}
	if config.Debounce <= 0 {
		config.Debounce = defaults.Debounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{finder: finder, config: config, logger: logger}
}

// Config returns the service configuration
func (s *Service) Config() Config {
	return s.config
}

// Search returns airports matching query. Queries shorter than the minimum
// length return an empty list without a network call.
func (s *Service) Search(ctx context.Context, query string) []flight.AirportOption {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < s.config.MinQueryLength {
		return []flight.AirportOption{}
	}

	options, err := s.finder.SearchAirports(ctx, q)
	if err != nil {
		s.logger.Warn("airport lookup failed", "error", &flight.LookupError{Query: q, Err: err})
		return []flight.AirportOption{}
	}
	if options == nil {
		options = []flight.AirportOption{}
	}
	return options
}
