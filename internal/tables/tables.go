// Package tables defines the normalized table values produced by the
// pipeline. Each table is built once per run and is immutable input to
// the next stage; there is no mutation after construction.
package tables

import "fare_normalizer/internal/fares"

// Carrier types. The same code seen in both raw columns keeps Legacy.
const (
	CarrierLegacy  = "Legacy"
	CarrierLowCost = "Low-Cost"
)

// City is one deduplicated city-market entity. The city-market id is
// externally supplied and acts as the primary key; State is empty when
// the source text carried no usable state code.
type City struct {
	CityMarketID int
	CityName     string
	State        string
	FullCityName string
}

// Airport is one deduplicated airport entity. CityMarketID always
// references a City row in the same run.
type Airport struct {
	AirportID    string
	AirportCode  string
	CityMarketID int
}

// Carrier is one deduplicated carrier entity with a sequential
// surrogate id assigned in first-seen order.
type Carrier struct {
	CarrierID   int
	CarrierCode string
	CarrierType string
}

// Route is one directional origin/destination airport pair. Distance
// is best-effort and left missing when no plausible value resolves.
type Route struct {
	RouteID              int
	OriginAirportID      string
	DestinationAirportID string
	DistanceMiles        fares.Number
}

// Flight is one fact-table row mapped onto its route. Passengers stays
// opaque text; the raw field is not reliably numeric.
type Flight struct {
	FlightID       int
	RouteID        int
	Year           int
	Quarter        fares.Number
	Passengers     string
	Fare           fares.Number
	SourceRecordID string
}

// MarketShare is one carrier-share observation for a flight, unique by
// (flight, carrier, type).
type MarketShare struct {
	FlightID              int
	CarrierID             int
	MarketShareType       string
	MarketSharePercentage fares.Number
	FareAvg               fares.Number
}

// Set is the complete normalized table set for one run.
type Set struct {
	Cities      []City
	Airports    []Airport
	Carriers    []Carrier
	Routes      []Route
	Flights     []Flight
	MarketShare []MarketShare
}
