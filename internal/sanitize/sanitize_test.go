package sanitize

import (
	"fmt"
	"reflect"
	"testing"

	"fare_normalizer/internal/fares"
)

func validRaw(index int) fares.RawRecord {
	return fares.RawRecord{
		Index:         index,
		SourceID:      fmt.Sprintf("rec-%d", index),
		Year:          "1993",
		Quarter:       "1",
		CityMarketID1: "30852",
		CityMarketID2: "30194",
		City1:         "Washington, DC (Metropolitan Area)",
		City2:         "Dallas/Fort Worth, TX",
		AirportID1:    "12892",
		AirportID2:    "11298",
		AirportCode1:  "DCA",
		AirportCode2:  "DFW",
		Distance:      "1192",
		Passengers:    "290",
		Fare:          "217.08",
		CarrierLarge:  "AA",
		LargeShare:    "0.74",
		FareLarge:     "219.82",
		CarrierLow:    "DL",
		LowShare:      "0.12",
		FareLow:       "187.40",
	}
}

func TestRunKeepsValidRow(t *testing.T) {
	res := Run([]fares.RawRecord{validRaw(0)})
	if res.Dropped != 0 {
		t.Fatalf("Dropped = %d, want 0", res.Dropped)
	}
	if len(res.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(res.Records))
	}

	rec := res.Records[0]
	if rec.Year.Int() != 1993 {
		t.Errorf("Year = %d, want 1993", rec.Year.Int())
	}
	if rec.CityMarketID1 != 30852 || rec.CityMarketID2 != 30194 {
		t.Errorf("city market ids = %d, %d", rec.CityMarketID1, rec.CityMarketID2)
	}
	if rec.CarrierLarge != "AA" || rec.CarrierLow != "DL" {
		t.Errorf("carriers = %q, %q", rec.CarrierLarge, rec.CarrierLow)
	}
	if !rec.Fare.Valid || rec.Fare.Value != 217.08 {
		t.Errorf("Fare = %+v", rec.Fare)
	}
}

func TestRunDropsRowsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fares.RawRecord)
	}{
		{"missing year", func(r *fares.RawRecord) { r.Year = "" }},
		{"non-numeric year", func(r *fares.RawRecord) { r.Year = "abcd" }},
		{"missing city market id", func(r *fares.RawRecord) { r.CityMarketID1 = "" }},
		{"nan city market id", func(r *fares.RawRecord) { r.CityMarketID2 = "nan" }},
		{"missing airport id", func(r *fares.RawRecord) { r.AirportID1 = "  " }},
		{"nan airport id", func(r *fares.RawRecord) { r.AirportID2 = "NaN" }},
		{"missing airport code", func(r *fares.RawRecord) { r.AirportCode1 = "" }},
	}

	for _, tt := range tests {
		raw := validRaw(0)
		tt.mutate(&raw)
		res := Run([]fares.RawRecord{raw})
		if res.Dropped != 1 || len(res.Records) != 0 {
			t.Errorf("%s: dropped=%d kept=%d, want row dropped", tt.name, res.Dropped, len(res.Records))
		}
	}
}

func TestRunCoercesNumericsToMissing(t *testing.T) {
	raw := validRaw(0)
	raw.Fare = "not-a-number"
	raw.Distance = ""
	raw.Quarter = "junk"

	res := Run([]fares.RawRecord{raw})
	if len(res.Records) != 1 {
		t.Fatalf("row should be kept, got %d records", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Fare.Valid {
		t.Error("Fare should be missing, not zero")
	}
	if rec.Distance.Valid {
		t.Error("Distance should be missing")
	}
	if rec.Quarter.Valid {
		t.Error("Quarter should be missing")
	}
}

func TestValidCarrierCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"AA", true},
		{"WN", true},
		{"A", true},
		{"ABCDEFGHIJ", true},
		{"ABCDEFGHIJK", false},
		{"", false},
		{"nan", false},
		{"NAN", false},
		{"NaN", false},
	}
	for _, tt := range tests {
		if got := ValidCarrierCode(tt.code); got != tt.want {
			t.Errorf("ValidCarrierCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestRunBlanksInvalidCarrierWithoutDroppingRow(t *testing.T) {
	raw := validRaw(0)
	raw.CarrierLarge = "nan"
	raw.CarrierLow = "ABCDEFGHIJK"

	res := Run([]fares.RawRecord{raw})
	if res.Dropped != 0 || len(res.Records) != 1 {
		t.Fatalf("row must be kept: dropped=%d kept=%d", res.Dropped, len(res.Records))
	}
	rec := res.Records[0]
	if rec.CarrierLarge != "" || rec.CarrierLow != "" {
		t.Errorf("carriers = %q, %q, want both blanked", rec.CarrierLarge, rec.CarrierLow)
	}
	if res.InvalidCarriers != 2 {
		t.Errorf("InvalidCarriers = %d, want 2", res.InvalidCarriers)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	var raws []fares.RawRecord
	for i := 0; i < 103; i++ {
		raw := validRaw(i)
		switch i % 5 {
		case 1:
			raw.Year = "" // dropped
		case 2:
			raw.CarrierLow = "nan" // blanked
		case 3:
			raw.Fare = "n/a" // missing numeric
		}
		raws = append(raws, raw)
	}

	seq := Run(raws)
	for _, workers := range []int{2, 3, 8, 64} {
		par := RunParallel(raws, workers)
		if !reflect.DeepEqual(seq, par) {
			t.Errorf("workers=%d: parallel result differs from sequential", workers)
		}
	}
}
