// internal/domain/flight/model.go

package flight

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for departure dates
const DateLayout = "2006-01-02"

// Price bounds for the max-price filter. MaxPrice doubles as the "no limit" sentinel.
const (
	MinPrice = 100
	MaxPrice = 1500
)

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// AirportOption is a single candidate returned by an airport lookup
type AirportOption struct {
	Label string `json:"label"`
	Code  string `json:"code"`
	City  string `json:"city"`
}

// SearchParams identifies a route and date to search
type SearchParams struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
}

// Normalized returns a copy with upper-cased IATA codes and trimmed fields
func (p SearchParams) Normalized() SearchParams {
	return SearchParams{
		Origin:        strings.ToUpper(strings.TrimSpace(p.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(p.Destination)),
		DepartureDate: strings.TrimSpace(p.DepartureDate),
	}
}

// Validate checks the codes are IATA-shaped and the date parses
func (p SearchParams) Validate() error {
	if !iataPattern.MatchString(p.Origin) {
		return fmt.Errorf("%w: origin %q is not an IATA code", ErrInvalidParams, p.Origin)
	}
	if !iataPattern.MatchString(p.Destination) {
		return fmt.Errorf("%w: destination %q is not an IATA code", ErrInvalidParams, p.Destination)
	}
	if _, err := p.Date(); err != nil {
		return fmt.Errorf("%w: departure date %q: %v", ErrInvalidParams, p.DepartureDate, err)
	}
	return nil
}

// Date parses DepartureDate as a calendar date
func (p SearchParams) Date() (time.Time, error) {
	return time.Parse(DateLayout, p.DepartureDate)
}

// CabinClass is a fare tier accepted by the offer search
type CabinClass string

// Cabin classes. CabinAny leaves the cabin unconstrained.
const (
	CabinAny            CabinClass = ""
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

// Valid reports whether c is one of the known cabin classes
func (c CabinClass) Valid() bool {
	switch c {
	case CabinAny, CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// TimeRange is an inclusive departure window with "HH:MM" bounds
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FilterState holds every user-adjustable filter
type FilterState struct {
	MaxPrice           float64    `json:"maxPrice"`
	Stops              *int       `json:"stops,omitempty"`
	Airlines           []string   `json:"airlines,omitempty"`
	CabinClass         CabinClass `json:"cabinClass,omitempty"`
	NonStop            *bool      `json:"nonStop,omitempty"`
	DepartTimeRange    *TimeRange `json:"departTimeRange,omitempty"`
	MaxDurationMinutes *int       `json:"maxDurationMinutes,omitempty"`
}

// DefaultFilters returns the filters a fresh search starts with
func DefaultFilters() FilterState {
	return FilterState{MaxPrice: MaxPrice}
}

// Normalized clamps MaxPrice into [MinPrice, MaxPrice], treating zero as the
// default, and upper-cases and de-duplicates airline codes.
func (f FilterState) Normalized() FilterState {
	out := f
	switch {
	case out.MaxPrice == 0, out.MaxPrice > MaxPrice:
		out.MaxPrice = MaxPrice
	case out.MaxPrice < MinPrice:
		out.MaxPrice = MinPrice
	}

	if len(f.Airlines) > 0 {
		seen := make(map[string]struct{}, len(f.Airlines))
		out.Airlines = make([]string, 0, len(f.Airlines))
		for _, code := range f.Airlines {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out.Airlines = append(out.Airlines, code)
		}
	}
	out.CabinClass = CabinClass(strings.ToUpper(string(f.CabinClass)))
	return out
}

// Endpoint is one end of a flight. Time is the airport's local wall clock.
type Endpoint struct {
	Code string    `json:"code"`
	Time time.Time `json:"time"`
}

// Flight is a normalized offer
type Flight struct {
	ID              string   `json:"id"`
	Airline         string   `json:"airline"`
	AirlineCode     string   `json:"airlineCode"`
	Logo            string   `json:"logo"`
	Departure       Endpoint `json:"departure"`
	Arrival         Endpoint `json:"arrival"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           float64  `json:"price"`
	Stops           int      `json:"stops"`
	Cabin           string   `json:"cabin"`
	Refundable      bool     `json:"refundable"`
}

// TrendPoint is one day of the simulated price series
type TrendPoint struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
}

// Airline is an entry of the airline checklist derived from results
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// OfferQuery is what gets sent to the offer provider: the route plus the
// filters the provider can apply itself.
type OfferQuery struct {
	SearchParams
	IncludedAirlineCodes []string
	TravelClass          CabinClass
	NonStop              *bool
}
