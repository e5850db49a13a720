// internal/service/search/filter.go

package search

import (
	"strconv"
	"strings"

	"flightscout/internal/domain/flight"
)

// RemoteQuery builds the provider-side half of the filter pipeline. Airlines,
// cabin and the non-stop flag are only included when set; an omitted field
// means no constraint.
func RemoteQuery(params flight.SearchParams, filters flight.FilterState) flight.OfferQuery {
	q := flight.OfferQuery{SearchParams: params}
	if len(filters.Airlines) > 0 {
		q.IncludedAirlineCodes = append([]string(nil), filters.Airlines...)
	}
	if filters.CabinClass != flight.CabinAny {
		q.TravelClass = filters.CabinClass
	}
	if filters.NonStop != nil {
		v := *filters.NonStop
		q.NonStop = &v
	}
	return q
}

// ApplyFilters is the local half of the filter pipeline. It keeps the flights
// that pass price, stop count, departure window and duration, in that order,
// preserving their relative order. It does not modify its input.
func ApplyFilters(flights []flight.Flight, filters flight.FilterState) []flight.Flight {
	fc := newFilterContext(filters)

	out := make([]flight.Flight, 0, len(flights))
	for _, f := range flights {
		if fc.matches(f) {
			out = append(out, f)
		}
	}
	return out
}

// filterContext holds bounds parsed once per call
type filterContext struct {
	filters flight.FilterState

	windowFrom  int
	windowTo    int
	windowValid bool
}

func newFilterContext(filters flight.FilterState) *filterContext {
	fc := &filterContext{filters: filters}

	if r := filters.DepartTimeRange; r != nil {
		from, errFrom := hourBound(r.From)
		to, errTo := hourBound(r.To)
		fc.windowFrom, fc.windowTo = from, to
		fc.windowValid = errFrom == nil && errTo == nil
	}
	return fc
}

func (fc *filterContext) matches(f flight.Flight) bool {
	// Price. MaxPrice is the "any price" position of the slider.
	if p := fc.filters.MaxPrice; p > 0 && p < flight.MaxPrice {
		if f.Price > p {
			return false
		}
	}

	// Stops
	if fc.filters.Stops != nil && f.Stops != *fc.filters.Stops {
		return false
	}

	// Departure window. Bounds are whole hours; an unparsable bound matches nothing.
	if fc.filters.DepartTimeRange != nil {
		if !fc.windowValid {
			return false
		}
		dep := f.Departure.Time.Hour()*60 + f.Departure.Time.Minute()
		if dep < fc.windowFrom || dep > fc.windowTo {
			return false
		}
	}

	// Duration
	if d := fc.filters.MaxDurationMinutes; d != nil && *d > 0 {
		if f.DurationMinutes > *d {
			return false
		}
	}

	return true
}

// hourBound converts "HH:MM" to minutes since midnight using the hour only
func hourBound(s string) (int, error) {
	hh, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	return h * 60, nil
}
