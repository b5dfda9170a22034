package resolve

import (
	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

// Flights maps each sanitized record onto its route and assigns flight
// ids sequentially from 1 in input order. Records whose airport pair
// has no resolved route are dropped; the second return value counts
// them.
func Flights(records []sanitize.Record, routes []tables.Route) ([]tables.Flight, int) {
	routeIDs := make(map[RouteKey]int, len(routes))
	for _, r := range routes {
		routeIDs[RouteKey{Origin: r.OriginAirportID, Destination: r.DestinationAirportID}] = r.RouteID
	}

	var out []tables.Flight
	dropped := 0
	for _, rec := range records {
		routeID, ok := routeIDs[RouteKey{Origin: rec.AirportID1, Destination: rec.AirportID2}]
		if !ok {
			dropped++
			continue
		}
		out = append(out, tables.Flight{
			FlightID:       len(out) + 1,
			RouteID:        routeID,
			Year:           rec.Year.Int(),
			Quarter:        rec.Quarter,
			Passengers:     rec.Passengers,
			Fare:           rec.Fare,
			SourceRecordID: rec.SourceID,
		})
	}
	return out, dropped
}
