// internal/adapter/amadeus/normalize.go

package amadeus

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"flightscout/internal/domain/flight"
)

// LogoURL is the airline logo template, keyed by carrier code
const LogoURL = "https://www.gstatic.com/flights/airline_logos/70px/%s.png"

// localLayout matches the provider's segment timestamps: local wall clock, no offset.
const localLayout = "2006-01-02T15:04:05"

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)

// Normalize maps a provider offer into a Flight.
//
// Only the first itinerary is used. The duration is the sum of each segment's
// arrival minus departure, so ground time between segments is not counted.
// Because the timestamps are local to each airport, zone changes are not
// corrected; if that makes the sum negative the itinerary's reported duration
// is used instead. Refundability is inferred from the fare basis and is a
// best-effort signal.
func Normalize(offer Offer, carriers map[string]string) (flight.Flight, error) {
	if len(offer.Itineraries) == 0 {
		return flight.Flight{}, errors.New("offer has no itineraries")
	}
	itinerary := offer.Itineraries[0]
	segments := itinerary.Segments
	if len(segments) == 0 {
		return flight.Flight{}, errors.New("itinerary has no segments")
	}
	first := segments[0]
	last := segments[len(segments)-1]

	departure, err := parseLocal(first.Departure.At)
	if err != nil {
		return flight.Flight{}, fmt.Errorf("departure time: %w", err)
	}
	arrival, err := parseLocal(last.Arrival.At)
	if err != nil {
		return flight.Flight{}, fmt.Errorf("arrival time: %w", err)
	}

	var total time.Duration
	for i, s := range segments {
		start, err := parseLocal(s.Departure.At)
		if err != nil {
			return flight.Flight{}, fmt.Errorf("segment %d departure: %w", i, err)
		}
		end, err := parseLocal(s.Arrival.At)
		if err != nil {
			return flight.Flight{}, fmt.Errorf("segment %d arrival: %w", i, err)
		}
		total += end.Sub(start)
	}
	if total < 0 {
		total, err = parseISODuration(itinerary.Duration)
		if err != nil {
			return flight.Flight{}, fmt.Errorf("negative segment duration and no usable itinerary duration: %w", err)
		}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(offer.Price.Total), 64)
	if err != nil {
		return flight.Flight{}, fmt.Errorf("price %q: %w", offer.Price.Total, err)
	}

	code := first.CarrierCode
	name := code
	if n, ok := carriers[code]; ok && n != "" {
		name = n
	}

	f := flight.Flight{
		ID:              offer.ID,
		Airline:         name,
		AirlineCode:     code,
		Logo:            fmt.Sprintf(LogoURL, code),
		Departure:       flight.Endpoint{Code: first.Departure.IataCode, Time: departure},
		Arrival:         flight.Endpoint{Code: last.Arrival.IataCode, Time: arrival},
		DurationMinutes: int(total / time.Minute),
		Price:           price,
		Stops:           len(segments) - 1,
	}

	if len(offer.TravelerPricings) > 0 && len(offer.TravelerPricings[0].FareDetailsBySegment) > 0 {
		fare := offer.TravelerPricings[0].FareDetailsBySegment[0]
		f.Cabin = fare.Cabin
		f.Refundable = strings.Contains(fare.FareBasis, "REF")
	}

	return f, nil
}

func parseLocal(s string) (time.Time, error) {
	if t, err := time.Parse(localLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseISODuration handles the subset of ISO 8601 durations the provider
// emits, e.g. "PT5H30M" or "P1DT2H".
func parseISODuration(s string) (time.Duration, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("unsupported duration %q", s)
	}
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	var d time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, err
		}
		d += time.Duration(n) * unit
	}
	return d, nil
}
