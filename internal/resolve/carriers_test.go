package resolve

import (
	"testing"

	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

func TestCarriersLegacyScanFirst(t *testing.T) {
	a := rec("r1") // large AA, low DL
	b := rec("r2")
	b.CarrierLarge = "UA"
	b.CarrierLow = "WN"
	c := rec("r3")
	c.CarrierLarge = "" // blanked slot contributes nothing
	c.CarrierLow = "AA" // already seen as Legacy, must stay Legacy

	carriers := Carriers([]sanitize.Record{a, b, c})

	want := []tables.Carrier{
		{CarrierID: 1, CarrierCode: "AA", CarrierType: tables.CarrierLegacy},
		{CarrierID: 2, CarrierCode: "UA", CarrierType: tables.CarrierLegacy},
		{CarrierID: 3, CarrierCode: "DL", CarrierType: tables.CarrierLowCost},
		{CarrierID: 4, CarrierCode: "WN", CarrierType: tables.CarrierLowCost},
	}
	if len(carriers) != len(want) {
		t.Fatalf("got %d carriers, want %d", len(carriers), len(want))
	}
	for i, w := range want {
		if carriers[i] != w {
			t.Errorf("carriers[%d] = %+v, want %+v", i, carriers[i], w)
		}
	}
}

func TestCarriersEmptyInput(t *testing.T) {
	if got := Carriers(nil); len(got) != 0 {
		t.Errorf("got %d carriers from empty input", len(got))
	}
}
