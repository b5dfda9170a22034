package fares

import (
	"strings"
	"testing"
)

// header lists every required column, deliberately not in struct order:
// the reader must resolve fields by name.
const testHeader = "tbl1apk,Year,quarter,citymarketid_1,citymarketid_2,city1,city2," +
	"airportid_1,airportid_2,airport_1,airport_2,nsmiles,passengers,fare," +
	"carrier_lg,large_ms,fare_lg,carrier_low,lf_ms,fare_low"

func TestReadAll(t *testing.T) {
	input := testHeader + "\n" +
		`r1,1993,1,30852,30194,"Washington, DC","Dallas/Fort Worth, TX",12892,11298,DCA,DFW,1192,290,217.08,AA,0.74,219.82,DL,0.12,187.40` + "\n" +
		`r2,1994,2,30721,31454,"Boston, MA","Chicago, IL",10721,11433,BOS,ORD,867,451,150.00,UA,0.61,155.00,WN,0.30,120.00` + "\n"

	recs, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].SourceID != "r1" || recs[1].SourceID != "r2" {
		t.Errorf("source ids = %q, %q", recs[0].SourceID, recs[1].SourceID)
	}
	if recs[0].Index != 0 || recs[1].Index != 1 {
		t.Errorf("indexes = %d, %d, want 0, 1", recs[0].Index, recs[1].Index)
	}
	if recs[1].AirportCode1 != "BOS" {
		t.Errorf("AirportCode1 = %q, want BOS", recs[1].AirportCode1)
	}
}

func TestReadAllColumnOrderIrrelevant(t *testing.T) {
	// Same data, columns reversed.
	cols := strings.Split(testHeader, ",")
	for i, j := 0, len(cols)-1; i < j; i, j = i+1, j-1 {
		cols[i], cols[j] = cols[j], cols[i]
	}
	input := strings.Join(cols, ",") + "\n" +
		"187.40,0.12,DL,219.82,0.74,AA,217.08,290,1192,DFW,DCA,11298,12892," +
		`"Dallas/Fort Worth, TX","Washington, DC",30194,30852,1,1993,r1` + "\n"

	recs, err := ReadAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if recs[0].SourceID != "r1" {
		t.Errorf("SourceID = %q, want r1", recs[0].SourceID)
	}
	if recs[0].Year != "1993" {
		t.Errorf("Year = %q, want 1993", recs[0].Year)
	}
	if recs[0].CarrierLow != "DL" {
		t.Errorf("CarrierLow = %q, want DL", recs[0].CarrierLow)
	}
}

func TestNewReaderMissingColumns(t *testing.T) {
	_, err := NewReader(strings.NewReader("tbl1apk,Year,quarter\nr1,1993,1\n"))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("error = %v, want missing-columns error", err)
	}
	if !strings.Contains(err.Error(), ColAirportID1) {
		t.Errorf("error %v does not name %s", err, ColAirportID1)
	}
}

func TestReadAllEmptyInput(t *testing.T) {
	if _, err := ReadAll(strings.NewReader("")); err != ErrEmptyInput {
		t.Errorf("empty file: err = %v, want ErrEmptyInput", err)
	}
	if _, err := ReadAll(strings.NewReader(testHeader + "\n")); err != ErrEmptyInput {
		t.Errorf("header only: err = %v, want ErrEmptyInput", err)
	}
}
