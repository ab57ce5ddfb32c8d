package fuelstops

import "strings"

// RefuelDivisor scales the tank range into the quantity bought at each stop
// (price * maxRange / RefuelDivisor). The value comes from the pricing model
// this service replaced and has no documented derivation; keep it as is.
const RefuelDivisor = 10.0

// PriceLookup is the read-only view of the fuel price table the estimator needs.
type PriceLookup interface {
	// MeanPrice is the mean retail price across the whole table.
	MeanPrice() float64
	// MatchMean returns the mean retail price of rows whose address contains
	// token, case-insensitively. ok is false when nothing matches.
	MatchMean(token string) (mean float64, ok bool)
}

// RegionToken extracts the region used for price matching from a geocoded
// place name: the text after the last comma, trimmed. Nominatim display
// names end in the country, so in practice this is geocoder-format-dependent.
func RegionToken(placeName string) string {
	if i := strings.LastIndex(placeName, ","); i >= 0 {
		placeName = placeName[i+1:]
	}
	return strings.TrimSpace(placeName)
}

// StopPrice returns the per-gallon price used for a stop and whether it came
// from a regional match rather than the table-wide mean.
func StopPrice(stop Stop, table PriceLookup) (price float64, matched bool) {
	if mean, ok := table.MatchMean(RegionToken(stop.Name)); ok {
		return mean, true
	}
	return table.MeanPrice(), false
}

// EstimateCost sums the fuel cost over all stops. The start location's
// price is not part of the model, so zero stops cost nothing.
func EstimateCost(stops []Stop, maxRange float64, table PriceLookup) float64 {
	if len(stops) == 0 {
		return 0
	}

	perStop := maxRange / RefuelDivisor
	total := 0.0
	for _, stop := range stops {
		price, _ := StopPrice(stop, table)
		total += price * perStop
	}
	return total
}
