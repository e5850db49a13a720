package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightscout/internal/domain/flight"
)

type AirportFinderMock struct {
	mock.Mock
}

func (m *AirportFinderMock) SearchAirports(ctx context.Context, keyword string) ([]flight.AirportOption, error) {
	args := m.Called(ctx, keyword)
	options, _ := args.Get(0).([]flight.AirportOption)
	return options, args.Error(1)
}

var jfk = flight.AirportOption{Label: "JOHN F KENNEDY INTL (JFK)", Code: "JFK", City: "NEW YORK"}

func TestService_Search(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   []flight.AirportOption
		mocker func(m *AirportFinderMock)
	}{
		{
			name:   "single character issues no call",
			query:  "a",
			want:   []flight.AirportOption{},
			mocker: func(m *AirportFinderMock) {},
		},
		{
			name:   "whitespace does not count",
			query:  " n ",
			want:   []flight.AirportOption{},
			mocker: func(m *AirportFinderMock) {},
		},
		{
			name:  "results are passed through",
			query: "ny",
			want:  []flight.AirportOption{jfk},
			mocker: func(m *AirportFinderMock) {
				m.On("SearchAirports", mock.Anything, "ny").Return([]flight.AirportOption{jfk}, nil).Once()
			},
		},
		{
			name:  "failure is absorbed",
			query: "ny",
			want:  []flight.AirportOption{},
			mocker: func(m *AirportFinderMock) {
				m.On("SearchAirports", mock.Anything, "ny").Return(nil, errors.New("connection refused")).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &AirportFinderMock{}
			tt.mocker(finder)

			svc := NewService(finder, nil, Config{})
			got := svc.Search(context.Background(), tt.query)

			assert.Equal(t, tt.want, got)
			finder.AssertExpectations(t)
		})
	}
}

// countingFinder records queries and can hold a query until released
type countingFinder struct {
	mu      sync.Mutex
	queries []string
	hold    map[string]chan struct{}
	entered chan string
}

func (f *countingFinder) Search(ctx context.Context, query string) []flight.AirportOption {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.hold[query]
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- query
	}
	if gate != nil {
		<-gate
	}
	return []flight.AirportOption{{Code: query}}
}

func (f *countingFinder) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func TestDebouncer_BurstIssuesOneLookup(t *testing.T) {
	finder := &countingFinder{}
	delivered := make(chan Result, 4)
	d := NewDebouncer(context.Background(), 30*time.Millisecond, finder, func(r Result) { delivered <- r })
	defer d.Stop()

	d.Submit("n")
	seq := d.Submit("ny")
	assert.Equal(t, uint64(2), seq)

	select {
	case r := <-delivered:
		assert.Equal(t, seq, r.Seq)
		assert.Equal(t, "ny", r.Query)
		assert.Equal(t, []flight.AirportOption{{Code: "ny"}}, r.Options)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lookup")
	}

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"ny"}, finder.seen())
	assert.Empty(t, delivered)
}

func TestDebouncer_StaleResponseDropped(t *testing.T) {
	gate := make(chan struct{})
	finder := &countingFinder{
		hold:    map[string]chan struct{}{"lon": gate},
		entered: make(chan string, 2),
	}
	delivered := make(chan Result, 4)
	d := NewDebouncer(context.Background(), 10*time.Millisecond, finder, func(r Result) { delivered <- r })
	defer d.Stop()

	d.Submit("lon")
	require.Equal(t, "lon", <-finder.entered)

	latest := d.Submit("lond")
	require.Equal(t, "lond", <-finder.entered)

	select {
	case r := <-delivered:
		assert.Equal(t, latest, r.Seq)
		assert.Equal(t, "lond", r.Query)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lookup")
	}

	close(gate)
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, delivered)
	assert.Equal(t, []string{"lon", "lond"}, finder.seen())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	finder := &countingFinder{}
	delivered := make(chan Result, 1)
	d := NewDebouncer(context.Background(), 20*time.Millisecond, finder, func(r Result) { delivered <- r })

	d.Submit("par")
	d.Stop()
	assert.Equal(t, uint64(2), d.Submit("pari"))

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, finder.seen())
	assert.Empty(t, delivered)
}
