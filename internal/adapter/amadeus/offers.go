// internal/adapter/amadeus/offers.go

package amadeus

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"flightscout/internal/domain/flight"
)

const offersPath = "/v2/shopping/flight-offers"

// SearchOffers runs a flight-offer search and normalizes every returned offer.
// One malformed offer fails the whole search.
func (c *Client) SearchOffers(ctx context.Context, query flight.OfferQuery) ([]flight.Flight, error) {
	var raw OfferResponse
	if err := c.doRequest(ctx, offersPath, c.offerParams(query), &raw); err != nil {
		return nil, err
	}

	flights := make([]flight.Flight, 0, len(raw.Data))
	for _, offer := range raw.Data {
		f, err := Normalize(offer, raw.Dictionaries.Carriers)
		if err != nil {
			return nil, fmt.Errorf("amadeus: offer %s: %w", offer.ID, err)
		}
		flights = append(flights, f)
	}

	c.logger.Info("flight offers fetched",
		"origin", query.Origin,
		"destination", query.Destination,
		"date", query.DepartureDate,
		"offers", len(flights))

	return flights, nil
}

func (c *Client) offerParams(query flight.OfferQuery) url.Values {
	params := url.Values{
		"originLocationCode":      {query.Origin},
		"destinationLocationCode": {query.Destination},
		"departureDate":           {query.DepartureDate},
		"adults":                  {strconv.Itoa(c.cfg.Adults)},
		"max":                     {strconv.Itoa(c.cfg.MaxResults)},
		"currencyCode":            {c.cfg.Currency},
	}
	if len(query.IncludedAirlineCodes) > 0 {
		params.Set("includedAirlineCodes", strings.Join(query.IncludedAirlineCodes, ","))
	}
	if query.TravelClass != flight.CabinAny {
		params.Set("travelClass", string(query.TravelClass))
	}
	if query.NonStop != nil {
		params.Set("nonStop", strconv.FormatBool(*query.NonStop))
	}
	return params
}

// OfferResponse is the flight-offers search payload
type OfferResponse struct {
	Data         []Offer      `json:"data"`
	Dictionaries Dictionaries `json:"dictionaries"`
}

// Dictionaries holds lookup tables shipped with a response
type Dictionaries struct {
	Carriers map[string]string `json:"carriers"`
}

// Offer is one priced itinerary as returned by the provider
type Offer struct {
	ID               string            `json:"id"`
	Itineraries      []Itinerary       `json:"itineraries"`
	Price            OfferPrice        `json:"price"`
	TravelerPricings []TravelerPricing `json:"travelerPricings"`
}

// Itinerary is one direction of travel
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Segment is one non-stop leg
type Segment struct {
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Duration    string       `json:"duration"`
}

// SegmentPoint is a segment end. At is local time without offset.
type SegmentPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

// OfferPrice is the offer's price block. Amounts are decimal strings.
type OfferPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

// TravelerPricing is the per-passenger fare breakdown
type TravelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

// FareDetail is the fare applied to one segment
type FareDetail struct {
	SegmentID string `json:"segmentId"`
	Cabin     string `json:"cabin"`
	FareBasis string `json:"fareBasis"`
}
