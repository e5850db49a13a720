// internal/service/search/session.go

package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"flightscout/internal/domain/flight"
)

// Event kinds published for a session
const (
	EventResults = "results"
	EventError   = "error"
)

// Session errors
var (
	ErrSuperseded = errors.New("search superseded by a newer request")
	ErrNoResults  = errors.New("no search has completed yet")
)

// Publisher delivers encoded events to a subject
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SessionConfig contains configuration for a live search session
type SessionConfig struct {
	SubjectPrefix string
	PageSize      int
}

// ResultsEvent carries one page of a completed search
type ResultsEvent struct {
	Type              string              `json:"type"`
	SessionID         string              `json:"sessionId"`
	Generation        uint64              `json:"generation"`
	Params            flight.SearchParams `json:"searchCriteria"`
	Filters           flight.FilterState  `json:"filters"`
	Page              Page                `json:"pagination"`
	Trends            []flight.TrendPoint `json:"trends"`
	AvailableAirlines []flight.Airline    `json:"availableAirlines"`
	Notice            string              `json:"notice,omitempty"`
	Time              time.Time           `json:"time"`
}

// ErrorEvent reports a failed search
type ErrorEvent struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"sessionId"`
	Generation uint64    `json:"generation"`
	Message    string    `json:"message"`
	Time       time.Time `json:"time"`
}

// Session tracks one user's active search. A filter change re-runs the search
// against the same route and date and goes back to page one. Every run gets a
// generation number when it is begun and only the latest generation may
// publish. Callers that execute runs concurrently must begin them in arrival
// order.
type Session struct {
	id        string
	searcher  flight.Searcher
	publisher Publisher
	config    SessionConfig
	logger    *slog.Logger

	mu         sync.Mutex
	params     *flight.SearchParams
	filters    flight.FilterState
	page       int
	result     *flight.Result
	generation uint64
	settled    uint64
}

// NewSession creates a session that publishes under prefix.<id>.<kind>
func NewSession(id string, searcher flight.Searcher, publisher Publisher, logger *slog.Logger, config SessionConfig) *Session {
	if config.SubjectPrefix == "" {
		config.SubjectPrefix = "search"
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:        id,
		searcher:  searcher,
		publisher: publisher,
		config:    config,
		logger:    logger.With("session", id),
		filters:   flight.DefaultFilters(),
		page:      1,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Subject returns the subject events of kind are published on
func (s *Session) Subject(kind string) string {
	return s.config.SubjectPrefix + "." + s.id + "." + kind
}

// Filters returns the current filter state
func (s *Session) Filters() flight.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Run is a search whose generation, route and filters were fixed when it was
// begun. Runs begun later supersede it even if they finish first.
type Run struct {
	session *Session
	gen     uint64
	params  flight.SearchParams
	filters flight.FilterState
}

// BeginSubmit reserves a search for params. When filters is non-nil it
// replaces the current filters first.
func (s *Session) BeginSubmit(params flight.SearchParams, filters *flight.FilterState) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := params
	s.params = &p
	if filters != nil {
		s.filters = filters.Normalized()
	}
	return s.beginLocked()
}

// BeginFilters replaces the filters and reserves a re-run of the active
// search. It returns nil when no search is active.
func (s *Session) BeginFilters(filters flight.FilterState) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filters.Normalized()
	if s.params == nil {
		return nil
	}
	return s.beginLocked()
}

func (s *Session) beginLocked() *Run {
	s.generation++
	s.page = 1
	return &Run{
		session: s,
		gen:     s.generation,
		params:  *s.params,
		filters: s.filters,
	}
}

// Submit starts a new search for params with the current filters
func (s *Session) Submit(ctx context.Context, params flight.SearchParams) error {
	return s.BeginSubmit(params, nil).Execute(ctx)
}

// SubmitWithFilters replaces the filters and starts a new search for params
func (s *Session) SubmitWithFilters(ctx context.Context, params flight.SearchParams, filters flight.FilterState) error {
	return s.BeginSubmit(params, &filters).Execute(ctx)
}

// UpdateFilters replaces the filters and, when a search is active, re-runs it
func (s *Session) UpdateFilters(ctx context.Context, filters flight.FilterState) error {
	run := s.BeginFilters(filters)
	if run == nil {
		return nil
	}
	return run.Execute(ctx)
}

// SetPage publishes the requested page of the last result. While a search is
// in flight the page is remembered and applied to its result.
func (s *Session) SetPage(page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled != s.generation {
		s.page = page
		return nil
	}
	if s.result == nil {
		return ErrNoResults
	}
	s.page = page
	return s.publishResultsLocked()
}

// Execute performs the upstream search and publishes the outcome unless a
// newer run has been begun. A superseded run returns ErrSuperseded.
func (r *Run) Execute(ctx context.Context) error {
	s := r.session
	result, err := s.searcher.Search(ctx, r.params, r.filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.gen != s.generation {
		s.logger.Debug("discarding stale search", "generation", r.gen, "latest", s.generation)
		return ErrSuperseded
	}
	s.settled = r.gen

	if err != nil {
		s.result = nil
		s.publishLocked(EventError, ErrorEvent{
			Type:       EventError,
			SessionID:  s.id,
			Generation: r.gen,
			Message:    flight.SearchFailedMessage,
			Time:       time.Now(),
		})
		return err
	}

	s.result = result
	return s.publishResultsLocked()
}

func (s *Session) publishResultsLocked() error {
	page := Paginate(s.result.Flights, s.page, s.config.PageSize)
	s.page = page.Page

	evt := ResultsEvent{
		Type:              EventResults,
		SessionID:         s.id,
		Generation:        s.generation,
		Params:            s.result.Params,
		Filters:           s.result.Filters,
		Page:              page,
		Trends:            s.result.Trends,
		AvailableAirlines: s.result.AvailableAirlines,
		Time:              time.Now(),
	}
	if s.result.Empty() {
		evt.Notice = flight.NoResultsMessage
	}
	return s.publishLocked(EventResults, evt)
}

func (s *Session) publishLocked(kind string, evt any) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(s.Subject(kind), data); err != nil {
		s.logger.Error("failed to publish session event", "kind", kind, "error", err)
		return err
	}
	return nil
}
