package resolve

import (
	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

// Airports extracts the deduplicated airport table. Dedup is by airport
// id, first-seen wins. After the candidate set is built, airports whose
// city-market id is not in the resolved city table are discarded; this
// enforces the foreign key before the table is finalized.
func Airports(records []sanitize.Record, cities []tables.City) []tables.Airport {
	cityIDs := make(map[int]bool, len(cities))
	for _, c := range cities {
		cityIDs[c.CityMarketID] = true
	}

	seen := make(map[string]bool)
	var candidates []tables.Airport

	add := func(id, code string, cityMarketID int) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		candidates = append(candidates, tables.Airport{
			AirportID:    id,
			AirportCode:  code,
			CityMarketID: cityMarketID,
		})
	}

	for _, rec := range records {
		add(rec.AirportID1, rec.AirportCode1, rec.CityMarketID1)
		add(rec.AirportID2, rec.AirportCode2, rec.CityMarketID2)
	}

	out := candidates[:0]
	for _, a := range candidates {
		if cityIDs[a.CityMarketID] {
			out = append(out, a)
		}
	}
	return out
}
