// Package pipeline drives the normalization stages in dependency
// order: sanitize, cities, airports, carriers, routes, flights,
// market share. Each stage consumes the immutable output of the
// previous one; rerunning on the same input produces the same output.
package pipeline

import (
	"fmt"

	"fare_normalizer/internal/fares"
	"fare_normalizer/internal/resolve"
	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

// StageError is a structural failure: the run aborts and reports which
// stage failed. Row-level problems are counted, never fatal.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stats counts what each stage kept and dropped.
type Stats struct {
	TotalRows           int
	SanitizedRows       int
	DroppedRows         int
	InvalidCarrierSlots int
	UnroutedRecords     int

	Cities      int
	Airports    int
	Carriers    int
	Routes      int
	Flights     int
	MarketShare int
}

// Options configures a run.
type Options struct {
	// Workers for the sanitize scan; <=1 runs sequentially. Output is
	// identical either way.
	Workers int
}

// Result is the outcome of one pipeline run.
type Result struct {
	Tables tables.Set
	Stats  Stats
}

// Run executes the full pipeline over the raw records.
func Run(raws []fares.RawRecord, opts Options) (*Result, error) {
	if len(raws) == 0 {
		return nil, &StageError{Stage: "sanitize", Err: fares.ErrEmptyInput}
	}

	sr := sanitize.RunParallel(raws, opts.Workers)
	if len(sr.Records) == 0 {
		return nil, &StageError{Stage: "sanitize", Err: fmt.Errorf("no records survived cleaning (%d dropped)", sr.Dropped)}
	}

	cities := resolve.Cities(sr.Records)
	airports := resolve.Airports(sr.Records, cities)
	carriers := resolve.Carriers(sr.Records)
	routes := resolve.Routes(sr.Records, airports)
	flights, unrouted := resolve.Flights(sr.Records, routes)
	shares := resolve.MarketShares(flights, sr.Records, carriers)

	res := &Result{
		Tables: tables.Set{
			Cities:      cities,
			Airports:    airports,
			Carriers:    carriers,
			Routes:      routes,
			Flights:     flights,
			MarketShare: shares,
		},
		Stats: Stats{
			TotalRows:           len(raws),
			SanitizedRows:       len(sr.Records),
			DroppedRows:         sr.Dropped,
			InvalidCarrierSlots: sr.InvalidCarriers,
			UnroutedRecords:     unrouted,
			Cities:              len(cities),
			Airports:            len(airports),
			Carriers:            len(carriers),
			Routes:              len(routes),
			Flights:             len(flights),
			MarketShare:         len(shares),
		},
	}
	return res, nil
}
