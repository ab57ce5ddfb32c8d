package fuelstops

import (
	"testing"

	"github.com/tkrajina/gpxgo/gpx"
)

func TestToGPX(t *testing.T) {
	result := &PlanningResult{
		StartPoint:  Endpoint{Name: "Origin Road"},
		FinishPoint: Endpoint{Name: "Destination Avenue"},
		StopPlaces: []Stop{
			{Name: "Austin, Texas", Coordinates: Coordinate{30.2672, -97.7431}},
			{Name: UnknownLocation, Coordinates: Coordinate{31.0, -98.0}},
		},
		Route: []Coordinate{{30.0, -97.0}, {30.2672, -97.7431}, {31.0, -98.0}, {32.0, -99.0}},
	}

	b, err := ToGPX(result)
	if err != nil {
		t.Fatalf("ToGPX() failed: %v", err)
	}

	g, err := gpx.ParseBytes(b)
	if err != nil {
		t.Fatalf("generated GPX does not parse: %v", err)
	}

	if len(g.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(g.Waypoints))
	}
	if g.Waypoints[0].Name != "Austin, Texas" {
		t.Errorf("unexpected waypoint name %q", g.Waypoints[0].Name)
	}
	if g.Waypoints[1].Latitude != 31.0 || g.Waypoints[1].Longitude != -98.0 {
		t.Errorf("unexpected waypoint position %v,%v", g.Waypoints[1].Latitude, g.Waypoints[1].Longitude)
	}

	if len(g.Tracks) != 1 || len(g.Tracks[0].Segments) != 1 {
		t.Fatalf("expected a single track segment, got %d tracks", len(g.Tracks))
	}
	if n := len(g.Tracks[0].Segments[0].Points); n != 4 {
		t.Errorf("expected 4 track points, got %d", n)
	}
}

func TestToGPXWithoutRoute(t *testing.T) {
	b, err := ToGPX(&PlanningResult{})
	if err != nil {
		t.Fatalf("ToGPX() failed: %v", err)
	}
	g, err := gpx.ParseBytes(b)
	if err != nil {
		t.Fatalf("generated GPX does not parse: %v", err)
	}
	if len(g.Tracks) != 0 || len(g.Waypoints) != 0 {
		t.Errorf("expected an empty document, got %d tracks and %d waypoints", len(g.Tracks), len(g.Waypoints))
	}
}
