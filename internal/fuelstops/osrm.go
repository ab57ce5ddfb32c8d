package fuelstops

import (
	"context"

	"github.com/rubiojr/fuelstops/pkg/api"
)

const (
	metersPerMile  = 1609.34
	secondsPerHour = 3600.0
)

// OSRMRouteClient adapts api.RouteAPI to RouteClient, converting the
// response to miles, hours and latitude-first coordinates.
type OSRMRouteClient struct {
	api *api.RouteAPI
}

func NewOSRMRouteClient(a *api.RouteAPI) *OSRMRouteClient {
	return &OSRMRouteClient{api: a}
}

func (c *OSRMRouteClient) FetchRoute(ctx context.Context, start, finish Coordinate) (*RouteGeometry, error) {
	resp, err := c.api.FetchRoute(ctx, start.Lat, start.Lon, finish.Lat, finish.Lon)
	if err != nil {
		return nil, err
	}
	return routeFromResponse(resp), nil
}

func routeFromResponse(resp *api.RouteResponse) *RouteGeometry {
	r := resp.Routes[0]

	points := make([]Coordinate, len(r.Geometry.Coordinates))
	for i, c := range r.Geometry.Coordinates {
		points[i] = Coordinate{Lat: c[1], Lon: c[0]}
	}

	return &RouteGeometry{
		Points:        points,
		DistanceMiles: r.Distance / metersPerMile,
		DurationHours: r.Duration / secondsPerHour,
		StartName:     resp.Waypoints[0].Name,
		FinishName:    resp.Waypoints[len(resp.Waypoints)-1].Name,
	}
}
