package fuelstops

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// ToGPX renders a plan as a GPX 1.1 document: the route polyline as a track
// and each fuel stop as a waypoint.
func ToGPX(result *PlanningResult) ([]byte, error) {
	g := &gpx.GPX{
		Creator: "fuelstops",
		Name:    fmt.Sprintf("%s to %s", result.StartPoint.Name, result.FinishPoint.Name),
	}

	for _, s := range result.StopPlaces {
		g.Waypoints = append(g.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  s.Coordinates.Lat,
				Longitude: s.Coordinates.Lon,
			},
			Name:   s.Name,
			Symbol: "Gas Station",
		})
	}

	if len(result.Route) > 0 {
		seg := gpx.GPXTrackSegment{}
		for _, p := range result.Route {
			seg.Points = append(seg.Points, gpx.GPXPoint{
				Point: gpx.Point{Latitude: p.Lat, Longitude: p.Lon},
			})
		}
		g.Tracks = append(g.Tracks, gpx.GPXTrack{
			Name:     "route",
			Segments: []gpx.GPXTrackSegment{seg},
		})
	}

	b, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("error encoding gpx: %w", err)
	}
	return b, nil
}
