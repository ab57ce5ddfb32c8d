package server

import "testing"

func TestNewValidatorLatLon(t *testing.T) {
	v := newValidator()

	tests := []struct {
		in   string
		want bool
	}{
		{"41.8781,-87.6298", true},
		{" 41.8781 , -87.6298 ", true},
		{"90,180", true},
		{"91,0", false},
		{"0,-181", false},
		{"NaN,0", false},
		{"41.8781", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := v.Var(tt.in, "latlon")
			if got := err == nil; got != tt.want {
				t.Errorf("latlon(%q) valid = %v, want %v (err %v)", tt.in, got, tt.want, err)
			}
		})
	}
}
