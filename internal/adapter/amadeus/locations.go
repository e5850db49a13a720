// internal/adapter/amadeus/locations.go

package amadeus

import (
	"context"
	"fmt"
	"net/url"

	"flightscout/internal/domain/flight"
)

const locationsPath = "/v1/reference-data/locations"

// SearchAirports queries airports and cities matching keyword
func (c *Client) SearchAirports(ctx context.Context, keyword string) ([]flight.AirportOption, error) {
	params := url.Values{
		"keyword": {keyword},
		"subType": {"AIRPORT,CITY"},
	}

	var raw struct {
		Data []location `json:"data"`
	}
	if err := c.doRequest(ctx, locationsPath, params, &raw); err != nil {
		return nil, err
	}

	options := make([]flight.AirportOption, 0, len(raw.Data))
	for _, l := range raw.Data {
		options = append(options, l.toOption())
	}
	return options, nil
}

type location struct {
	Type     string `json:"type"`
	SubType  string `json:"subType"`
	Name     string `json:"name"`
	IataCode string `json:"iataCode"`
	Address  struct {
		CityName    string `json:"cityName"`
		CountryCode string `json:"countryCode"`
	} `json:"address"`
}

func (l location) toOption() flight.AirportOption {
	return flight.AirportOption{
		Label: fmt.Sprintf("%s (%s)", l.Name, l.IataCode),
		Code:  l.IataCode,
		City:  l.Address.CityName,
	}
}
