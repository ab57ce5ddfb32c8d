package fuelstops

import (
	"errors"
	"math"
	"testing"
)

// equatorRoute returns n vertices spaced one degree of longitude apart on
// the equator, roughly 69.09 miles per segment.
func equatorRoute(n int) RouteGeometry {
	points := make([]Coordinate, n)
	for i := range points {
		points[i] = Coordinate{Lat: 0, Lon: float64(i)}
	}
	return RouteGeometry{Points: points}
}

func TestPlanStops(t *testing.T) {
	tests := []struct {
		name     string
		route    RouteGeometry
		maxRange float64
		wantLons []float64
	}{
		{"every third vertex", equatorRoute(11), 150, []float64{3, 6, 9}},
		{"range shorter than a segment", equatorRoute(4), 10, []float64{1, 2, 3}},
		{"range longer than the route", equatorRoute(5), 500, nil},
		{"destination is a crossing", equatorRoute(4), 200, []float64{3}},
		{"exact threshold", equatorRoute(3), Haversine(Coordinate{0, 0}, Coordinate{0, 1}), []float64{1, 2}},
		{"single vertex", equatorRoute(1), 10, nil},
		{"empty route", RouteGeometry{}, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops, err := PlanStops(tt.route, tt.maxRange)
			if err != nil {
				t.Fatalf("PlanStops() failed: %v", err)
			}
			if stops == nil {
				t.Fatal("PlanStops() returned a nil slice")
			}
			if len(stops) != len(tt.wantLons) {
				t.Fatalf("expected %d stops, got %d: %v", len(tt.wantLons), len(stops), stops)
			}
			for i, lon := range tt.wantLons {
				if stops[i].Lon != lon || stops[i].Lat != 0 {
					t.Errorf("stop %d: expected (0,%v), got %v", i, lon, stops[i])
				}
			}
		})
	}
}

func TestPlanStopsStopsAreRouteVertices(t *testing.T) {
	route := RouteGeometry{Points: []Coordinate{
		{41.8781, -87.6298},
		{41.5, -87.3},
		{40.9, -86.9},
		{40.4, -86.5},
		{39.7684, -86.1581},
	}}

	stops, err := PlanStops(route, 40)
	if err != nil {
		t.Fatalf("PlanStops() failed: %v", err)
	}

	next := 1
	for _, s := range stops {
		found := false
		for ; next < len(route.Points); next++ {
			if route.Points[next] == s {
				found = true
				next++
				break
			}
		}
		if !found {
			t.Errorf("stop %v is not a later route vertex", s)
		}
	}
}

func TestPlanStopsInvalidRange(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN()} {
		if _, err := PlanStops(equatorRoute(3), r); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("range %v: expected ErrInvalidRange, got %v", r, err)
		}
	}
}

func TestPlanStopsNaNCoordinates(t *testing.T) {
	route := equatorRoute(4)
	route.Points[1].Lat = math.NaN()

	stops, err := PlanStops(route, 10)
	if err != nil {
		t.Fatalf("PlanStops() failed: %v", err)
	}
	// NaN never compares >= the range, so it swallows every later segment.
	if len(stops) != 0 {
		t.Errorf("expected no stops, got %v", stops)
	}
}

func TestRouteLength(t *testing.T) {
	route := equatorRoute(3)
	want := 2 * Haversine(Coordinate{0, 0}, Coordinate{0, 1})
	if got := routeLength(route.Points); math.Abs(got-want) > 1e-9 {
		t.Errorf("routeLength() = %v, want %v", got, want)
	}
}
