package fuelstops

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rubiojr/fuelstops/internal/cache"
	"github.com/rubiojr/fuelstops/internal/metrics"
)

// RouteClient fetches a driving route between two coordinates.
type RouteClient interface {
	FetchRoute(ctx context.Context, start, finish Coordinate) (*RouteGeometry, error)
}

// Geocoder maps a position to a human-readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// PlanRequest is one planning request. StartInput and FinishInput are the
// coordinate strings as the caller sent them; they are echoed back verbatim.
type PlanRequest struct {
	Start       Coordinate
	Finish      Coordinate
	StartInput  string
	FinishInput string
	MaxRange    float64
}

// Planner runs the route → stops → geocoding → cost pipeline for a request.
// It is safe for concurrent use as long as its collaborators are.
type Planner struct {
	routes     RouteClient
	geocoder   Geocoder
	prices     PriceLookup
	routeCache cache.Cache[RouteGeometry]
	placeCache cache.Cache[string]
	log        *slog.Logger
}

type Option func(*Planner)

// WithRouteCache memoizes fetched routes by start/finish pair.
func WithRouteCache(c cache.Cache[RouteGeometry]) Option {
	return func(p *Planner) { p.routeCache = c }
}

// WithPlaceCache memoizes successful reverse-geocoding results by position.
func WithPlaceCache(c cache.Cache[string]) Option {
	return func(p *Planner) { p.placeCache = c }
}

func NewPlanner(routes RouteClient, geocoder Geocoder, prices PriceLookup, logger *slog.Logger, opts ...Option) *Planner {
	p := &Planner{
		routes:     routes,
		geocoder:   geocoder,
		prices:     prices,
		routeCache: cache.Nop[RouteGeometry]{},
		placeCache: cache.Nop[string]{},
		log:        logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes the fuel stops and estimated cost for req. A routing failure
// aborts the plan with ErrRouteUnavailable; geocoding failures only degrade
// the affected stop's name.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*PlanningResult, error) {
	if !(req.MaxRange > 0) {
		metrics.PlansTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRange, req.MaxRange)
	}

	route, err := p.route(ctx, req.Start, req.Finish)
	if err != nil {
		metrics.PlansTotal.WithLabelValues("route_error").Inc()
		p.log.Error("error fetching route", "start", req.Start.String(), "finish", req.Finish.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRouteUnavailable, err)
	}

	points, err := PlanStops(*route, req.MaxRange)
	if err != nil {
		metrics.PlansTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	p.log.Debug("stops placed",
		"vertices", len(route.Points),
		"route_miles", route.DistanceMiles,
		"polyline_miles", routeLength(route.Points),
		"max_range", req.MaxRange,
		"stops", len(points),
	)

	stops := make([]Stop, 0, len(points))
	for _, pt := range points {
		stops = append(stops, Stop{
			Name:        p.placeName(ctx, pt),
			Coordinates: pt,
		})
	}

	for _, s := range stops {
		if _, matched := StopPrice(s, p.prices); !matched {
			metrics.PriceFallbacks.Inc()
		}
	}

	result := &PlanningResult{
		StartPoint: Endpoint{
			Coordinates: orDefault(req.StartInput, req.Start.String()),
			Name:        route.StartName,
		},
		FinishPoint: Endpoint{
			Coordinates: orDefault(req.FinishInput, req.Finish.String()),
			Name:        route.FinishName,
		},
		FuelStops:     len(stops),
		StopPlaces:    stops,
		TotalDuration: route.DurationHours,
		TotalDistance: route.DistanceMiles,
		TotalFuelCost: EstimateCost(stops, req.MaxRange, p.prices),
		Route:         route.Points,
	}

	metrics.PlansTotal.WithLabelValues("ok").Inc()
	metrics.StopsPlanned.Observe(float64(len(stops)))

	return result, nil
}

func (p *Planner) route(ctx context.Context, start, finish Coordinate) (*RouteGeometry, error) {
	key := cache.RouteKey(start.Lat, start.Lon, finish.Lat, finish.Lon)
	if cached, ok := p.routeCache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("route").Inc()
		p.log.Debug("Using cached route", "key", key)
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("route").Inc()

	begin := time.Now()
	route, err := p.routes.FetchRoute(ctx, start, finish)
	metrics.RouteFetchDuration.Observe(time.Since(begin).Seconds())
	if err != nil {
		return nil, err
	}

	p.routeCache.Put(ctx, key, *route)
	return route, nil
}

// placeName never fails: any geocoding problem yields UnknownLocation, which
// is not cached so a later request can retry the lookup.
func (p *Planner) placeName(ctx context.Context, c Coordinate) string {
	key := cache.CoordinateKey(c.Lat, c.Lon)
	if name, ok := p.placeCache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("geocode").Inc()
		return name
	}
	metrics.CacheMisses.WithLabelValues("geocode").Inc()

	name, err := p.geocoder.ReverseGeocode(ctx, c.Lat, c.Lon)
	if err != nil {
		metrics.GeocodeFailures.Inc()
		p.log.Warn("reverse geocoding failed", "coordinates", c.String(), "error", err)
		return UnknownLocation
	}
	if name == "" {
		return UnknownLocation
	}

	p.placeCache.Put(ctx, key, name)
	return name
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
