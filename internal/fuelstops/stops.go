package fuelstops

import (
	"fmt"
	"math"
)

// PlanStops walks the route polyline and returns the vertices where the
// distance driven since the previous stop reaches maxRange. The final
// destination is only ever returned when it is itself a threshold crossing.
func PlanStops(route RouteGeometry, maxRange float64) ([]Coordinate, error) {
	if !(maxRange > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRange, maxRange)
	}

	stops := []Coordinate{}
	if len(route.Points) < 2 {
		return stops, nil
	}

	sinceLastStop := 0.0
	for i := 1; i < len(route.Points); i++ {
		sinceLastStop += Haversine(route.Points[i-1], route.Points[i])
		if sinceLastStop >= maxRange {
			stops = append(stops, route.Points[i])
			sinceLastStop = 0
		}
	}

	return stops, nil
}

// routeLength sums the haversine length of the polyline, skipping
// segments with non-finite coordinates.
func routeLength(points []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		d := Haversine(points[i-1], points[i])
		if math.IsNaN(d) {
			continue
		}
		total += d
	}
	return total
}
