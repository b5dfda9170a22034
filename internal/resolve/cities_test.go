package resolve

import (
	"testing"

	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

func TestParseCityName(t *testing.T) {
	tests := []struct {
		full      string
		wantName  string
		wantState string
	}{
		{"Dallas/Fort Worth, TX", "Dallas/Fort Worth", "TX"},
		{"Washington, DC (Metropolitan Area)", "Washington", "DC"},
		{"Miami, FL (Metropolitan Area)", "Miami", "FL"},
		{"New York City, NY (Metropolitan Area)", "New York City", "NY"},
		{"Chicago, Illinois", "Chicago", ""},
		{"TX", "", "TX"},
		{"Honolulu", "Honolulu", ""},
		{"Phoenix (Metropolitan Area)", "Phoenix", ""},
		{"  Boston, MA  ", "Boston", "MA"},
	}

	for _, tt := range tests {
		name, state := ParseCityName(tt.full)
		if name != tt.wantName || state != tt.wantState {
			t.Errorf("ParseCityName(%q) = %q, %q, want %q, %q",
				tt.full, name, state, tt.wantName, tt.wantState)
		}
	}
}

func TestCitiesFirstSeenWins(t *testing.T) {
	a := rec("r1") // 30852 observed first as "Washington, DC (Metropolitan Area)"
	b := rec("r2")
	b.City1 = "Washington, DC"
	b.CityMarketID2 = 31703
	b.City2 = "New York City, NY (Metropolitan Area)"

	cities := Cities([]sanitize.Record{a, b})
	if len(cities) != 3 {
		t.Fatalf("got %d cities, want 3", len(cities))
	}

	want := []tables.City{
		{CityMarketID: 30852, CityName: "Washington", State: "DC", FullCityName: "Washington, DC (Metropolitan Area)"},
		{CityMarketID: 30194, CityName: "Dallas/Fort Worth", State: "TX", FullCityName: "Dallas/Fort Worth, TX"},
		{CityMarketID: 31703, CityName: "New York City", State: "NY", FullCityName: "New York City, NY (Metropolitan Area)"},
	}
	for i, w := range want {
		if cities[i] != w {
			t.Errorf("cities[%d] = %+v, want %+v", i, cities[i], w)
		}
	}
}

func TestCitiesSkipsEmptyName(t *testing.T) {
	a := rec("r1")
	a.City1 = "   "

	cities := Cities([]sanitize.Record{a})
	if len(cities) != 1 {
		t.Fatalf("got %d cities, want 1", len(cities))
	}
	if cities[0].CityMarketID != 30194 {
		t.Errorf("kept city %d, want 30194", cities[0].CityMarketID)
	}
}

func TestCitiesStateOnlyObservation(t *testing.T) {
	a := rec("r1")
	a.City1 = "DC"

	cities := Cities([]sanitize.Record{a})
	if len(cities) != 2 {
		t.Fatalf("got %d cities, want 2", len(cities))
	}
	got := cities[0]
	if got.CityName != "" || got.State != "DC" || got.FullCityName != "DC" {
		t.Errorf("state-only city = %+v", got)
	}
}
