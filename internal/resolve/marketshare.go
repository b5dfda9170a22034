package resolve

import (
	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

type shareKey struct {
	flightID  int
	carrierID int
	shareType string
}

// MarketShares expands each flight into 0-2 carrier-share rows by
// re-joining to its originating record via the source record id. A
// slot is emitted only when its carrier code resolved into the carrier
// table; dedup by (flight, carrier, type) means a flight contributes
// at most one Legacy and one Low-Cost row.
func MarketShares(flights []tables.Flight, records []sanitize.Record, carriers []tables.Carrier) []tables.MarketShare {
	carrierIDs := make(map[string]int, len(carriers))
	for _, c := range carriers {
		carrierIDs[c.CarrierCode] = c.CarrierID
	}

	bySource := make(map[string][]sanitize.Record, len(records))
	for _, rec := range records {
		bySource[rec.SourceID] = append(bySource[rec.SourceID], rec)
	}

	seen := make(map[shareKey]bool)
	var out []tables.MarketShare

	add := func(flightID int, code, shareType string, rec sanitize.Record) {
		if code == "" {
			return
		}
		carrierID, ok := carrierIDs[code]
		if !ok {
			return
		}
		key := shareKey{flightID: flightID, carrierID: carrierID, shareType: shareType}
		if seen[key] {
			return
		}
		seen[key] = true
		entry := tables.MarketShare{
			FlightID:        flightID,
			CarrierID:       carrierID,
			MarketShareType: shareType,
		}
		if shareType == tables.CarrierLegacy {
			entry.MarketSharePercentage = rec.LargeShare
			entry.FareAvg = rec.FareLarge
		} else {
			entry.MarketSharePercentage = rec.LowShare
			entry.FareAvg = rec.FareLow
		}
		out = append(out, entry)
	}

	for _, f := range flights {
		for _, rec := range bySource[f.SourceRecordID] {
			add(f.FlightID, rec.CarrierLarge, tables.CarrierLegacy, rec)
			add(f.FlightID, rec.CarrierLow, tables.CarrierLowCost, rec)
		}
	}
	return out
}
