package api

// RouteResponse is the subset of the OSRM route service response we use.
type RouteResponse struct {
	Code      string     `json:"code"`
	Message   string     `json:"message,omitempty"`
	Routes    []Route    `json:"routes"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Route is a single route alternative. Distance is in meters and Duration
// in seconds.
type Route struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Geometry Geometry `json:"geometry"`
}

// Geometry is a GeoJSON LineString. Each coordinate is [lon, lat].
type Geometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Waypoint is an input position snapped to the road network.
type Waypoint struct {
	Name     string     `json:"name"`
	Location [2]float64 `json:"location"`
	Distance float64    `json:"distance"`
}
