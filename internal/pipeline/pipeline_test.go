package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"fare_normalizer/internal/fares"
)

func raw(index int, sourceID string) fares.RawRecord {
	return fares.RawRecord{
		Index:         index,
		SourceID:      sourceID,
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

func TestRunEndToEnd(t *testing.T) {
	a := raw(0, "r1")
	b := raw(1, "r2")
	b.AirportID1, b.AirportID2 = "11298", "12892"
	b.AirportCode1, b.AirportCode2 = "DFW", "DCA"
	b.CityMarketID1, b.CityMarketID2 = "30194", "30852"
	b.City1, b.City2 = a.City2, a.City1
	c := raw(2, "r3")
	c.Year = "nan" // dropped in cleaning
	d := raw(3, "r4")
	d.CarrierLow = "nan" // slot blanked, row kept

	res, err := Run([]fares.RawRecord{a, b, c, d}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := res.Stats
	if s.TotalRows != 4 || s.SanitizedRows != 3 || s.DroppedRows != 1 {
		t.Errorf("row stats = %+v", s)
	}
	if s.InvalidCarrierSlots != 1 {
		t.Errorf("InvalidCarrierSlots = %d, want 1", s.InvalidCarrierSlots)
	}
	if s.Cities != 2 || s.Airports != 2 || s.Carriers != 2 {
		t.Errorf("entity stats = %+v", s)
	}
	if s.Routes != 2 {
		t.Errorf("Routes = %d, want 2 (directional pairs)", s.Routes)
	}
	if s.Flights != 3 || s.UnroutedRecords != 0 {
		t.Errorf("Flights = %d, UnroutedRecords = %d", s.Flights, s.UnroutedRecords)
	}
	// r1 and r2 contribute two slots each, r4's low slot was blanked.
	if s.MarketShare != 5 {
		t.Errorf("MarketShare = %d, want 5", s.MarketShare)
	}
}

func TestRunEmptyInput(t *testing.T) {
	_, err := Run(nil, Options{})
	if err == nil {
		t.Fatal("want error for empty input")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "sanitize" {
		t.Fatalf("err = %v, want sanitize StageError", err)
	}
	if !errors.Is(err, fares.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput in chain", err)
	}
}

func TestRunNoSurvivors(t *testing.T) {
	a := raw(0, "r1")
	a.Year = ""

	_, err := Run([]fares.RawRecord{a}, Options{})
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "sanitize" {
		t.Fatalf("err = %v, want sanitize StageError", err)
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	var raws []fares.RawRecord
	for i := 0; i < 60; i++ {
		r := raw(i, fmt.Sprintf("r%d", i))
		if i%7 == 0 {
			r.CityMarketID1 = "" // dropped
		}
		raws = append(raws, r)
	}

	base, err := Run(raws, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, workers := range []int{2, 4, 16} {
		got, err := Run(raws, Options{Workers: workers})
		if err != nil {
			t.Fatalf("Run workers=%d: %v", workers, err)
		}
		if !reflect.DeepEqual(base, got) {
			t.Errorf("workers=%d: result differs from sequential run", workers)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	raws := []fares.RawRecord{raw(0, "r1"), raw(1, "r2")}

	first, err := Run(raws, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(raws, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same input differ")
	}
}
