package resolve

import (
	"fare_normalizer/internal/fares"
	"fare_normalizer/internal/sanitize"
)

// rec builds a sanitized record for a DCA->DFW style row. Tests mutate
// the returned value for their scenario.
func rec(sourceID string) sanitize.Record {
	return sanitize.Record{
		SourceID:      sourceID,
		Year:          fares.Num(1993),
		Quarter:       fares.Num(1),
		CityMarketID1: 30852,
		CityMarketID2: 30194,
		City1:         "Washington, DC (Metropolitan Area)",
		City2:         "Dallas/Fort Worth, TX",
		AirportID1:    "12892",
		AirportID2:    "11298",
		AirportCode1:  "DCA",
		AirportCode2:  "DFW",
		Distance:      fares.Num(1192),
		Passengers:    "290",
		Fare:          fares.Num(217.08),
		CarrierLarge:  "AA",
		LargeShare:    fares.Num(0.74),
		FareLarge:     fares.Num(219.82),
		CarrierLow:    "DL",
		LowShare:      fares.Num(0.12),
		FareLow:       fares.Num(187.40),
	}
}
