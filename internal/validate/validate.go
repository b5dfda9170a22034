// Package validate re-checks every cross-table reference in an emitted
// table set. It only reports; a non-zero unresolved count is a
// correctness failure of an earlier stage, never something to repair
// here.
package validate

import (
	"fmt"
	"regexp"

	"fare_normalizer/internal/tables"
)

// How many offending keys to keep per class for diagnostics.
const maxSampleKeys = 10

// Passengers text that looks like concatenated airport codes, a known
// corruption pattern in the source data.
var airportCodeRunRe = regexp.MustCompile(`^[A-Z]{3,}$`)

// Report summarizes one validation pass.
type Report struct {
	TotalFlights     int `json:"total_flights"`
	TotalMarketShare int `json:"total_market_share"`

	UnresolvedCityRefs    int `json:"unresolved_city_refs"`
	UnresolvedAirportRefs int `json:"unresolved_airport_refs"`
	UnresolvedCarrierRefs int `json:"unresolved_carrier_refs"`
	UnresolvedRouteRefs   int `json:"unresolved_route_refs"`
	UnresolvedFlightRefs  int `json:"unresolved_flight_refs"`

	// Rows with missing or placeholder values in key columns.
	MissingKeyValues int `json:"missing_key_values"`

	BadCityKeys    []string `json:"bad_city_keys,omitempty"`
	BadAirportKeys []string `json:"bad_airport_keys,omitempty"`
	BadCarrierKeys []string `json:"bad_carrier_keys,omitempty"`

	Passed bool `json:"passed"`
}

func sample(keys []string, key string) []string {
	if len(keys) >= maxSampleKeys {
		return keys
	}
	return append(keys, key)
}

// Check verifies every foreign key in the table set against its target
// table and counts missing/placeholder key values.
func Check(ts tables.Set) Report {
	cityIDs := make(map[int]bool, len(ts.Cities))
	for _, c := range ts.Cities {
		cityIDs[c.CityMarketID] = true
	}
	airportIDs := make(map[string]bool, len(ts.Airports))
	for _, a := range ts.Airports {
		airportIDs[a.AirportID] = true
	}
	carrierIDs := make(map[int]bool, len(ts.Carriers))
	for _, c := range ts.Carriers {
		carrierIDs[c.CarrierID] = true
	}
	routeIDs := make(map[int]bool, len(ts.Routes))
	for _, r := range ts.Routes {
		routeIDs[r.RouteID] = true
	}
	flightIDs := make(map[int]bool, len(ts.Flights))
	for _, f := range ts.Flights {
		flightIDs[f.FlightID] = true
	}

	rep := Report{
		TotalFlights:     len(ts.Flights),
		TotalMarketShare: len(ts.MarketShare),
	}

	// airports -> cities
	for _, a := range ts.Airports {
		if !cityIDs[a.CityMarketID] {
			rep.UnresolvedCityRefs++
			rep.BadCityKeys = sample(rep.BadCityKeys, fmt.Sprintf("%d", a.CityMarketID))
		}
		if a.AirportCode == "" {
			rep.MissingKeyValues++
		}
	}

	// routes -> airports
	for _, r := range ts.Routes {
		if !airportIDs[r.OriginAirportID] {
			rep.UnresolvedAirportRefs++
			rep.BadAirportKeys = sample(rep.BadAirportKeys, r.OriginAirportID)
		}
		if !airportIDs[r.DestinationAirportID] {
			rep.UnresolvedAirportRefs++
			rep.BadAirportKeys = sample(rep.BadAirportKeys, r.DestinationAirportID)
		}
	}

	// flights -> routes
	for _, f := range ts.Flights {
		if !routeIDs[f.RouteID] {
			rep.UnresolvedRouteRefs++
		}
		if f.SourceRecordID == "" {
			rep.MissingKeyValues++
		}
		if !f.Quarter.Valid || f.Quarter.Int() < 1 || f.Quarter.Int() > 4 {
			rep.MissingKeyValues++
		}
		if airportCodeRunRe.MatchString(f.Passengers) {
			rep.MissingKeyValues++
		}
	}

	// market_share -> flights, carriers
	for _, ms := range ts.MarketShare {
		if !flightIDs[ms.FlightID] {
			rep.UnresolvedFlightRefs++
		}
		if !carrierIDs[ms.CarrierID] {
			rep.UnresolvedCarrierRefs++
			rep.BadCarrierKeys = sample(rep.BadCarrierKeys, fmt.Sprintf("%d", ms.CarrierID))
		}
	}

	rep.Passed = rep.UnresolvedCityRefs == 0 &&
		rep.UnresolvedAirportRefs == 0 &&
		rep.UnresolvedCarrierRefs == 0 &&
		rep.UnresolvedRouteRefs == 0 &&
		rep.UnresolvedFlightRefs == 0
	return rep
}
