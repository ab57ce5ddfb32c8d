package fuelstops

import (
	"math"
	"strings"
	"testing"
)

type fakePrices struct {
	mean    float64
	regions map[string]float64
}

func (f fakePrices) MeanPrice() float64 { return f.mean }

func (f fakePrices) MatchMean(token string) (float64, bool) {
	p, ok := f.regions[strings.ToLower(token)]
	return p, ok
}

func TestRegionToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Joliet, Will County, Illinois, United States", "United States"},
		{"Springfield, Illinois", "Illinois"},
		{"Texas", "Texas"},
		{"Ends with comma,", ""},
		{"  spaced ,  Ohio  ", "Ohio"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RegionToken(tt.in); got != tt.want {
			t.Errorf("RegionToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	table := fakePrices{
		mean:    4.0,
		regions: map[string]float64{"texas": 3.0, "ohio": 3.5},
	}

	tests := []struct {
		name     string
		stops    []string
		maxRange float64
		want     float64
	}{
		{"no stops", nil, 500, 0},
		{"regional match", []string{"Austin, Texas"}, 500, 3.0 * 50},
		{"fallback to mean", []string{"Somewhere, Nevada"}, 500, 4.0 * 50},
		{"unknown location uses mean", []string{UnknownLocation}, 500, 4.0 * 50},
		{"mixed", []string{"Austin, Texas", "Dayton, OHIO", UnknownLocation}, 200, 3.0*20 + 3.5*20 + 4.0*20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stops []Stop
			for _, n := range tt.stops {
				stops = append(stops, Stop{Name: n})
			}
			if got := EstimateCost(stops, tt.maxRange, table); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EstimateCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStopPrice(t *testing.T) {
	table := fakePrices{mean: 4.0, regions: map[string]float64{"texas": 3.0}}

	if p, matched := StopPrice(Stop{Name: "Austin, Texas"}, table); !matched || p != 3.0 {
		t.Errorf("expected regional price 3.0, got %v (matched=%v)", p, matched)
	}
	if p, matched := StopPrice(Stop{Name: "Reno, Nevada"}, table); matched || p != 4.0 {
		t.Errorf("expected mean price 4.0, got %v (matched=%v)", p, matched)
	}
}
