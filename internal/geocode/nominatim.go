// Package geocode resolves route positions to place names with Nominatim.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/gominatim"
)

const (
	DefaultServer  = "https://nominatim.openstreetmap.org/"
	DefaultTimeout = 10 * time.Second

	// Zoom 18 is Nominatim's building level, which yields a full street
	// address in display_name.
	addressZoom = 18
	userAgent   = "fuelstops/1.0"
)

var ErrNoResult = errors.New("no place found")

// reverseResponse is a Nominatim /reverse reply. Failures come back as a
// 200 with only the error field set.
type reverseResponse struct {
	gominatim.ReverseResult
	Error string `json:"error"`
}

// Nominatim reverse-geocodes positions against a Nominatim server. Each
// instance owns its server URL and HTTP client.
type Nominatim struct {
	server  string
	timeout time.Duration
	client  *http.Client
}

// NewNominatim creates a geocoder for server. An empty server uses the
// public OpenStreetMap instance and a timeout of zero or less uses
// DefaultTimeout.
func NewNominatim(server string, timeout time.Duration) *Nominatim {
	if server == "" {
		server = DefaultServer
	}
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Nominatim{
		server:  server,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// ReverseURL returns the lookup URL for lat, lon, using the same query
// parameters as gominatim.ReverseQuery.
func (n *Nominatim) ReverseURL(lat, lon float64) string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", strconv.Itoa(addressZoom))
	q.Set("addressdetails", "0")
	return n.server + "reverse?" + q.Encode()
}

// ReverseGeocode returns the display name of the place at lat, lon. A
// response without a display name is reported as ErrNoResult. Every lookup
// is bounded by the geocoder's timeout even when ctx has no deadline.
func (n *Nominatim) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	res, err := n.reverse(ctx, lat, lon)
	if err != nil {
		return "", fmt.Errorf("error reverse geocoding %v,%v: %w", lat, lon, err)
	}
	if res.DisplayName == "" {
		return "", fmt.Errorf("error reverse geocoding %v,%v: %w", lat, lon, ErrNoResult)
	}

	return res.DisplayName, nil
}

func (n *Nominatim) reverse(ctx context.Context, lat, lon float64) (*gominatim.ReverseResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.ReverseURL(lat, lon), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var out reverseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, out.Error)
	}

	return &out.ReverseResult, nil
}
