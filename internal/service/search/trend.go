// internal/service/search/trend.go

package search

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"flightscout/internal/domain/flight"
)

// Trend series shape
const (
	TrendDaysEachSide = 5
	TrendFloorPrice   = 100
	FallbackBasePrice = 500
	trendLabelLayout  = "Jan 2"
)

// TrendSynthesizer produces an illustrative price series around a departure
// date. The numbers are simulated from the current result set and must not be
// presented as market data.
type TrendSynthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTrendSynthesizer creates a synthesizer drawing from src. A nil src uses
// a randomly seeded generator.
func NewTrendSynthesizer(src rand.Source) *TrendSynthesizer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &TrendSynthesizer{rng: rand.New(src)}
}

// Synthesize returns one point per day from departure-5 to departure+5.
//
// Each day starts at basePrice and gets a variance of ±15%, a 10-20% premium
// on Fridays, Saturdays and Sundays, a 5% discount more than two days out and
// a 30-50% premium within a day of departure. Prices are rounded and never
// below TrendFloorPrice.
func (s *TrendSynthesizer) Synthesize(departure time.Time, basePrice float64) []flight.TrendPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]flight.TrendPoint, 0, 2*TrendDaysEachSide+1)
	for i := -TrendDaysEachSide; i <= TrendDaysEachSide; i++ {
		day := departure.AddDate(0, 0, i)

		price := basePrice + (s.rng.Float64()-0.5)*0.3*basePrice

		switch day.Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			price += basePrice * (0.1 + s.rng.Float64()*0.1)
		}

		away := i
		if away < 0 {
			away = -away
		}
		if away > 2 {
			price -= basePrice * 0.05
		}
		if away <= 1 {
			price += basePrice * (0.3 + s.rng.Float64()*0.2)
		}

		points = append(points, flight.TrendPoint{
			Date:  day.Format(trendLabelLayout),
			Price: max(TrendFloorPrice, int(math.Round(price))),
		})
	}
	return points
}

// BasePrice is the mean price of flights, or fallback when there are none
func BasePrice(flights []flight.Flight, fallback float64) float64 {
	if len(flights) == 0 {
		return fallback
	}
	var sum float64
	for _, f := range flights {
		sum += f.Price
	}
	return sum / float64(len(flights))
}
