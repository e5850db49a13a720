// internal/service/search/paginate.go

package search

import (
	"cmp"
	"slices"
	"strings"

	"flightscout/internal/domain/flight"
)

// DefaultPageSize is the number of flights shown per page
const DefaultPageSize = 10

// Page is one slice of a result list
type Page struct {
	Items      []flight.Flight `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalItems int             `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

// Paginate returns the requested 1-based page. Out of range pages are clamped.
func Paginate(flights []flight.Flight, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(flights)
	pages := (total + size - 1) / size

	page = max(page, 1)
	if pages > 0 {
		page = min(page, pages)
	} else {
		page = 1
	}

	start := min((page-1)*size, total)
	end := min(start+size, total)

	items := flights[start:end]
	if items == nil {
		items = []flight.Flight{}
	}

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// AvailableAirlines lists the distinct carriers in flights, sorted by name
func AvailableAirlines(flights []flight.Flight) []flight.Airline {
	seen := make(map[string]struct{})
	airlines := make([]flight.Airline, 0)
	for _, f := range flights {
		if _, ok := seen[f.AirlineCode]; ok {
			continue
		}
		seen[f.AirlineCode] = struct{}{}
		airlines = append(airlines, flight.Airline{Code: f.AirlineCode, Name: f.Airline})
	}

	slices.SortStableFunc(airlines, func(a, b flight.Airline) int {
		return cmp.Or(
			strings.Compare(a.Name, b.Name),
			strings.Compare(a.Code, b.Code),
		)
	})
	return airlines
}
