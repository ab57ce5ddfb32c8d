// Package api provides a client for the OSRM routing HTTP service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	ResultOK       = "Ok"
	DefaultBaseURL = "http://router.project-osrm.org"
	DefaultTimeout = 30 * time.Second
)

// RouteAPI fetches driving routes from an OSRM server.
type RouteAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewRouteAPI creates a RouteAPI for baseURL. An empty baseURL uses the
// public OSRM demo server and a non-positive timeout uses DefaultTimeout.
func NewRouteAPI(baseURL string, timeout time.Duration) *RouteAPI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RouteAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RouteURL builds the route request URL. OSRM expects lon,lat order.
func (api *RouteAPI) RouteURL(startLat, startLon, finishLat, finishLon float64) string {
	return fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=full&geometries=geojson",
		api.baseURL,
		formatDegrees(startLon), formatDegrees(startLat),
		formatDegrees(finishLon), formatDegrees(finishLat),
	)
}

// FetchRoute requests a driving route between two positions given in
// latitude/longitude order.
func (api *RouteAPI) FetchRoute(ctx context.Context, startLat, startLon, finishLat, finishLon float64) (*RouteResponse, error) {
	url := api.RouteURL(startLat, startLon, finishLat, finishLon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := api.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching route: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var route RouteResponse
	if err := json.Unmarshal(body, &route); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}

	if route.Code != "" && route.Code != ResultOK {
		return nil, fmt.Errorf("routing failed: %s %s", route.Code, route.Message)
	}
	if len(route.Routes) == 0 {
		return nil, fmt.Errorf("routing failed: no routes in response")
	}
	if len(route.Waypoints) == 0 {
		return nil, fmt.Errorf("routing failed: no waypoints in response")
	}

	return &route, nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
