package resolve

import (
	"fare_normalizer/internal/fares"
	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

// Plausible flight distance window in miles. A resolved value outside
// this window is discarded rather than emitted.
const (
	minPlausibleMiles = 200
	maxPlausibleMiles = 3000
)

// RouteKey identifies a directional airport pair. A->B and B->A are
// distinct routes.
type RouteKey struct {
	Origin      string
	Destination string
}

// Routes extracts the deduplicated route table from records whose two
// airport ids both exist in the resolved airport table. Route ids are
// sequential from 1 in first-seen order.
//
// Distance policy: the mode of the reported distances for the pair,
// ties broken by first observation; if the mode is implausible, the
// mean; if that is implausible too, the field stays missing. No unit
// rescaling or operand swapping is attempted.
func Routes(records []sanitize.Record, airports []tables.Airport) []tables.Route {
	airportIDs := make(map[string]bool, len(airports))
	for _, a := range airports {
		airportIDs[a.AirportID] = true
	}

	var keys []RouteKey
	distances := make(map[RouteKey][]float64)

	for _, rec := range records {
		if !airportIDs[rec.AirportID1] || !airportIDs[rec.AirportID2] {
			continue
		}
		key := RouteKey{Origin: rec.AirportID1, Destination: rec.AirportID2}
		if _, ok := distances[key]; !ok {
			keys = append(keys, key)
			distances[key] = nil
		}
		if rec.Distance.Valid {
			distances[key] = append(distances[key], rec.Distance.Value)
		}
	}

	out := make([]tables.Route, 0, len(keys))
	for i, key := range keys {
		out = append(out, tables.Route{
			RouteID:              i + 1,
			OriginAirportID:      key.Origin,
			DestinationAirportID: key.Destination,
			DistanceMiles:        resolveDistance(distances[key]),
		})
	}
	return out
}

func plausibleDistance(v float64) bool {
	return v >= minPlausibleMiles && v <= maxPlausibleMiles
}

// resolveDistance applies the mode -> mean -> missing policy over the
// observed values, which arrive in input order.
func resolveDistance(values []float64) fares.Number {
	if len(values) == 0 {
		return fares.Number{}
	}

	counts := make(map[float64]int, len(values))
	mode := values[0]
	best := 0
	for _, v := range values {
		counts[v]++
		// Strictly greater keeps the earliest value on ties.
		if counts[v] > best {
			best = counts[v]
			mode = v
		}
	}
	if plausibleDistance(mode) {
		return fares.Num(mode)
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if plausibleDistance(mean) {
		return fares.Num(mean)
	}
	return fares.Number{}
}
