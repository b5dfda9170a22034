// Package export writes and re-reads the six normalized datasets as
// CSV files. Output is deterministic: identical tables produce
// byte-identical files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fare_normalizer/internal/fares"
	"fare_normalizer/internal/tables"
)

// Dataset file names, in dependency order.
var FileNames = []string{
	"cities.csv",
	"airports.csv",
	"carriers.csv",
	"routes.csv",
	"flights.csv",
	"market_share.csv",
}

func writeFile(dir, name string, header []string, rows [][]string) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	return f.Close()
}

// WriteSet writes all six datasets into dir, creating it if needed.
func WriteSet(dir string, ts tables.Set) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rows := make([][]string, 0, len(ts.Cities))
	for _, c := range ts.Cities {
		rows = append(rows, []string{strconv.Itoa(c.CityMarketID), c.CityName, c.State, c.FullCityName})
	}
	if err := writeFile(dir, "cities.csv",
		[]string{"city_market_id", "city_name", "state", "full_city_name"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, a := range ts.Airports {
		rows = append(rows, []string{a.AirportID, a.AirportCode, strconv.Itoa(a.CityMarketID)})
	}
	if err := writeFile(dir, "airports.csv",
		[]string{"airport_id", "airport_code", "city_market_id"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range ts.Carriers {
		rows = append(rows, []string{strconv.Itoa(c.CarrierID), c.CarrierCode, c.CarrierType})
	}
	if err := writeFile(dir, "carriers.csv",
		[]string{"carrier_id", "carrier_code", "carrier_type"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, r := range ts.Routes {
		rows = append(rows, []string{strconv.Itoa(r.RouteID), r.OriginAirportID, r.DestinationAirportID, r.DistanceMiles.String()})
	}
	if err := writeFile(dir, "routes.csv",
		[]string{"route_id", "origin_airport_id", "destination_airport_id", "distance_miles"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, f := range ts.Flights {
		rows = append(rows, []string{
			strconv.Itoa(f.FlightID), strconv.Itoa(f.RouteID), strconv.Itoa(f.Year),
			f.Quarter.String(), f.Passengers, f.Fare.String(), f.SourceRecordID,
		})
	}
	if err := writeFile(dir, "flights.csv",
		[]string{"flight_id", "route_id", "year", "quarter", "passengers", "fare", "source_record_id"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, ms := range ts.MarketShare {
		rows = append(rows, []string{
			strconv.Itoa(ms.FlightID), strconv.Itoa(ms.CarrierID), ms.MarketShareType,
			ms.MarketSharePercentage.String(), ms.FareAvg.String(),
		})
	}
	return writeFile(dir, "market_share.csv",
		[]string{"flight_id", "carrier_id", "market_share_type", "market_share_percentage", "fare_avg"}, rows)
}

func readFile(dir, name string, wantCols int) ([][]string, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read %s: missing header", name)
	}
	if len(all[0]) != wantCols {
		return nil, fmt.Errorf("read %s: expected %d columns, got %d", name, wantCols, len(all[0]))
	}
	return all[1:], nil
}

// ReadSet loads a previously exported table set from dir. The validator
// uses this to re-check references independently of the run that wrote
// the files.
func ReadSet(dir string) (tables.Set, error) {
	var ts tables.Set

	rows, err := readFile(dir, "cities.csv", 4)
	if err != nil {
		return ts, err
	}
	for _, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return ts, fmt.Errorf("cities.csv: bad city_market_id %q", row[0])
		}
		ts.Cities = append(ts.Cities, tables.City{
			CityMarketID: id, CityName: row[1], State: row[2], FullCityName: row[3],
		})
	}

	rows, err = readFile(dir, "airports.csv", 3)
	if err != nil {
		return ts, err
	}
	for _, row := range rows {
		id, err := strconv.Atoi(row[2])
		if err != nil {
			return ts, fmt.Errorf("airports.csv: bad city_market_id %q", row[2])
		}
		ts.Airports = append(ts.Airports, tables.Airport{
			AirportID: row[0], AirportCode: row[1], CityMarketID: id,
		})
	}

	rows, err = readFile(dir, "carriers.csv", 3)
	if err != nil {
		return ts, err
	}
	for _, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return ts, fmt.Errorf("carriers.csv: bad carrier_id %q", row[0])
		}
		ts.Carriers = append(ts.Carriers, tables.Carrier{
			CarrierID: id, CarrierCode: row[1], CarrierType: row[2],
		})
	}

	rows, err = readFile(dir, "routes.csv", 4)
	if err != nil {
		return ts, err
	}
	for _, row := range rows {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return ts, fmt.Errorf("routes.csv: bad route_id %q", row[0])
		}
		ts.Routes = append(ts.Routes, tables.Route{
			RouteID: id, OriginAirportID: row[1], DestinationAirportID: row[2],
			DistanceMiles: fares.ParseNumber(row[3]),
		})
	}

	rows, err = readFile(dir, "flights.csv", 7)
	if err != nil {
		return ts, err
	}
	for _, row := range rows {
		flightID, err := strconv.Atoi(row[0])
		if err != nil {
			return ts, fmt.Errorf("flights.csv: bad flight_id %q", row[0])
		}
		routeID, err := strconv.Atoi(row[1])
		if err != nil {
			return ts, fmt.Errorf("flights.csv: bad route_id %q", row[1])
		}
		year, err := strconv.Atoi(row[2])
		if err != nil {
			return ts, fmt.Errorf("flights.csv: bad year %q", row[2])
		}
		ts.Flights = append(ts.Flights, tables.Flight{
			FlightID: flightID, RouteID: routeID, Year: year,
			Quarter: fares.ParseNumber(row[3]), Passengers: row[4],
			Fare: fares.ParseNumber(row[5]), SourceRecordID: row[6],
		})
	}

	rows, err = readFile(dir, "market_share.csv", 5)
	if err != nil {
		return ts, err
	}
	for _, row := range rows {
		flightID, err := strconv.Atoi(row[0])
		if err != nil {
			return ts, fmt.Errorf("market_share.csv: bad flight_id %q", row[0])
		}
		carrierID, err := strconv.Atoi(row[1])
		if err != nil {
			return ts, fmt.Errorf("market_share.csv: bad carrier_id %q", row[1])
		}
		ts.MarketShare = append(ts.MarketShare, tables.MarketShare{
			FlightID: flightID, CarrierID: carrierID, MarketShareType: row[2],
			MarketSharePercentage: fares.ParseNumber(row[3]),
			FareAvg:               fares.ParseNumber(row[4]),
		})
	}

	return ts, nil
}
