// Package sanitize cleans and type-coerces raw fact-table records.
// It is a pure transform over the record stream: no storage, no I/O.
package sanitize

import (
	"strings"
	"sync"

	"fare_normalizer/internal/fares"
)

// Record is a sanitized, type-normalized fact-table row. Numeric fields
// are missing-aware; carrier codes that fail validation are blanked to
// the empty string, the package's missing sentinel.
type Record struct {
	Index         int
	SourceID      string
	Year          fares.Number
	Quarter       fares.Number
	CityMarketID1 int
	CityMarketID2 int
	City1         string
	City2         string
	AirportID1    string
	AirportID2    string
	AirportCode1  string
	AirportCode2  string
	Distance      fares.Number
	Passengers    string // opaque; raw representation is not reliably numeric
	Fare          fares.Number
	CarrierLarge  string
	LargeShare    fares.Number
	FareLarge     fares.Number
	CarrierLow    string
	LowShare      fares.Number
	FareLow       fares.Number
}

// Result carries the sanitized stream and the drop accounting.
type Result struct {
	Records         []Record
	Dropped         int // rows removed for missing required fields
	InvalidCarriers int // carrier slots blanked, row kept
}

// ValidCarrierCode reports whether a trimmed code is acceptable:
// non-empty, not the literal "nan" in any case, and 1-10 characters.
func ValidCarrierCode(code string) bool {
	if code == "" || len(code) > 10 {
		return false
	}
	return !strings.EqualFold(code, "nan")
}

// identifier trims an identifier column and blanks NaN placeholders.
func identifier(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// sanitizeOne cleans a single row. The second return is false when the
// row must be dropped, the third counts carrier slots blanked.
func sanitizeOne(raw fares.RawRecord) (Record, bool, int) {
	rec := Record{
		Index:      raw.Index,
		SourceID:   strings.TrimSpace(raw.SourceID),
		Year:       fares.ParseNumber(raw.Year),
		Quarter:    fares.ParseNumber(raw.Quarter),
		City1:      strings.TrimSpace(raw.City1),
		City2:      strings.TrimSpace(raw.City2),
		AirportID1: identifier(raw.AirportID1),
		AirportID2: identifier(raw.AirportID2),
		Distance:   fares.ParseNumber(raw.Distance),
		Passengers: strings.TrimSpace(raw.Passengers),
		Fare:       fares.ParseNumber(raw.Fare),
		LargeShare: fares.ParseNumber(raw.LargeShare),
		FareLarge:  fares.ParseNumber(raw.FareLarge),
		LowShare:   fares.ParseNumber(raw.LowShare),
		FareLow:    fares.ParseNumber(raw.FareLow),
	}
	rec.AirportCode1 = identifier(raw.AirportCode1)
	rec.AirportCode2 = identifier(raw.AirportCode2)

	// City-market ids arrive as numeric text, sometimes with a trailing
	// decimal point from upstream float conversion.
	cm1 := fares.ParseNumber(raw.CityMarketID1)
	cm2 := fares.ParseNumber(raw.CityMarketID2)

	// Required fields; anything still missing after coercion drops the row.
	if !rec.Year.Valid || !cm1.Valid || !cm2.Valid {
		return Record{}, false, 0
	}
	if rec.AirportID1 == "" || rec.AirportID2 == "" {
		return Record{}, false, 0
	}
	if rec.AirportCode1 == "" || rec.AirportCode2 == "" {
		return Record{}, false, 0
	}
	rec.CityMarketID1 = cm1.Int()
	rec.CityMarketID2 = cm2.Int()

	// Carrier validation blanks the slot but never drops the row.
	blanked := 0
	if lg := strings.TrimSpace(raw.CarrierLarge); ValidCarrierCode(lg) {
		rec.CarrierLarge = lg
	} else if lg != "" {
		blanked++
	}
	if low := strings.TrimSpace(raw.CarrierLow); ValidCarrierCode(low) {
		rec.CarrierLow = low
	} else if low != "" {
		blanked++
	}

	return rec, true, blanked
}

// Run sanitizes the record stream sequentially, preserving input order.
func Run(raws []fares.RawRecord) Result {
	var res Result
	res.Records = make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec, ok, blanked := sanitizeOne(raw)
		if !ok {
			res.Dropped++
			continue
		}
		res.InvalidCarriers += blanked
		res.Records = append(res.Records, rec)
	}
	return res
}

// RunParallel sanitizes over worker goroutines. Rows are partitioned
// into contiguous chunks in input order and chunk results are merged in
// that same order, so the output is identical to Run regardless of
// scheduling.
func RunParallel(raws []fares.RawRecord, workers int) Result {
	if workers <= 1 || len(raws) < workers*2 {
		return Run(raws)
	}

	chunks := make([]Result, workers)
	size := (len(raws) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * size
		if lo >= len(raws) {
			break
		}
		hi := lo + size
		if hi > len(raws) {
			hi = len(raws)
		}
		wg.Add(1)
		go func(w int, part []fares.RawRecord) {
			defer wg.Done()
			chunks[w] = Run(part)
		}(w, raws[lo:hi])
	}
	wg.Wait()

	var res Result
	res.Records = make([]Record, 0, len(raws))
	for _, c := range chunks {
		res.Records = append(res.Records, c.Records...)
		res.Dropped += c.Dropped
		res.InvalidCarriers += c.InvalidCarriers
	}
	return res
}
