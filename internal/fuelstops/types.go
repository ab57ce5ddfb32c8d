// Package fuelstops places refueling stops along a driving route and
// estimates what the fuel bought at those stops will cost.
package fuelstops

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnknownLocation names a stop whose reverse geocoding failed.
const UnknownLocation = "Unknown Location"

var (
	ErrRouteUnavailable  = errors.New("route unavailable")
	ErrInvalidRange      = errors.New("max range must be greater than zero")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Coordinate is a WGS84 position in degrees. Ranges are not validated.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// String formats the coordinate as "lat,lon".
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ParseCoordinate parses a "lat,lon" string.
func ParseCoordinate(s string) (Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %q is not in lat,lon form", ErrInvalidCoordinate, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: error parsing latitude %q: %w", ErrInvalidCoordinate, latStr, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: error parsing longitude %q: %w", ErrInvalidCoordinate, lonStr, err)
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// RouteGeometry is a route polyline as returned by the routing provider,
// with its totals and the names the provider gave to both ends.
type RouteGeometry struct {
	Points        []Coordinate
	DistanceMiles float64
	DurationHours float64
	StartName     string
	FinishName    string
}

// Stop is a refueling point on the route.
type Stop struct {
	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`
}

// Endpoint echoes a request coordinate next to the name the router gave it.
type Endpoint struct {
	Coordinates string `json:"coordinates"`
	Name        string `json:"name"`
}

// PlanningResult is built fresh for every request and never stored.
type PlanningResult struct {
	StartPoint    Endpoint `json:"start_point"`
	FinishPoint   Endpoint `json:"finish_point"`
	FuelStops     int      `json:"fuel_stops"`
	StopPlaces    []Stop   `json:"stop_places"`
	TotalDuration float64  `json:"total_duration"`
	TotalDistance float64  `json:"total_distance"`
	TotalFuelCost float64  `json:"total_fuel_cost"`

	Route []Coordinate `json:"-"`
}
