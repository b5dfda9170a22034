// Package fares provides the raw fact-table record model for the US
// airline route/fare dataset, plus a name-keyed row source for reading it.
package fares

import (
	"strconv"
	"strings"
)

// Column names of the source fact table. Rows are delivered by name, so
// column order in the file does not matter.
const (
	ColSourceID      = "tbl1apk"
	ColYear          = "Year"
	ColQuarter       = "quarter"
	ColCityMarketID1 = "citymarketid_1"
	ColCityMarketID2 = "citymarketid_2"
	ColCity1         = "city1"
	ColCity2         = "city2"
	ColAirportID1    = "airportid_1"
	ColAirportID2    = "airportid_2"
	ColAirport1      = "airport_1"
	ColAirport2      = "airport_2"
	ColDistance      = "nsmiles"
	ColPassengers    = "passengers"
	ColFare          = "fare"
	ColCarrierLarge  = "carrier_lg"
	ColLargeShare    = "large_ms"
	ColFareLarge     = "fare_lg"
	ColCarrierLow    = "carrier_low"
	ColLowShare      = "lf_ms"
	ColFareLow       = "fare_low"
)

// RequiredColumns lists the columns the pipeline cannot run without.
// A missing column is a structural error and aborts the run.
var RequiredColumns = []string{
	ColSourceID,
	ColYear,
	ColQuarter,
	ColCityMarketID1,
	ColCityMarketID2,
	ColCity1,
	ColCity2,
	ColAirportID1,
	ColAirportID2,
	ColAirport1,
	ColAirport2,
	ColDistance,
	ColPassengers,
	ColFare,
	ColCarrierLarge,
	ColLargeShare,
	ColFareLarge,
	ColCarrierLow,
	ColLowShare,
	ColFareLow,
}

// Number is a missing-aware numeric value. Non-parseable source text
// becomes a missing Number, never zero.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a valid Number. Test helper friendly constructor.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// ParseNumber parses source text into a Number. Empty strings and the
// textual NaN placeholders that appear in the dataset parse as missing.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return Number{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// Int returns the value truncated to int. Only meaningful when Valid.
func (n Number) Int() int {
	return int(n.Value)
}

// String renders the value for export; missing renders empty.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Row is one fact-table row keyed by column name.
type Row map[string]string

// RawRecord is one fact-table row as read from the source, before any
// cleaning. All fields are raw text; Index is the zero-based position
// in input order.
type RawRecord struct {
	Index         int
	SourceID      string
	Year          string
	Quarter       string
	CityMarketID1 string
	CityMarketID2 string
	City1         string
	City2         string
	AirportID1    string
	AirportID2    string
	AirportCode1  string
	AirportCode2  string
	Distance      string
	Passengers    string
	Fare          string
	CarrierLarge  string
	LargeShare    string
	FareLarge     string
	CarrierLow    string
	LowShare      string
	FareLow       string
}

// FromRow builds a RawRecord from a name-keyed row.
func FromRow(row Row, index int) RawRecord {
	return RawRecord{
		Index:         index,
		SourceID:      row[ColSourceID],
		Year:          row[ColYear],
		Quarter:       row[ColQuarter],
		CityMarketID1: row[ColCityMarketID1],
		CityMarketID2: row[ColCityMarketID2],
		City1:         row[ColCity1],
		City2:         row[ColCity2],
		AirportID1:    row[ColAirportID1],
		AirportID2:    row[ColAirportID2],
		AirportCode1:  row[ColAirport1],
		AirportCode2:  row[ColAirport2],
		Distance:      row[ColDistance],
		Passengers:    row[ColPassengers],
		Fare:          row[ColFare],
		CarrierLarge:  row[ColCarrierLarge],
		LargeShare:    row[ColLargeShare],
		FareLarge:     row[ColFareLarge],
		CarrierLow:    row[ColCarrierLow],
		LowShare:      row[ColLowShare],
		FareLow:       row[ColFareLow],
	}
}
