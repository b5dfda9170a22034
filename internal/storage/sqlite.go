// Package storage persists the normalized table set to relational and
// analytics stores.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"fare_normalizer/internal/tables"
)

// SQLiteDB wraps a SQLite database for the single-file export.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite database at the given path and
// recreates the normalized schema.
func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (d *SQLiteDB) Close() error {
	return d.db.Close()
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	DROP TABLE IF EXISTS market_share;
	DROP TABLE IF EXISTS flights;
	DROP TABLE IF EXISTS routes;
	DROP TABLE IF EXISTS carriers;
	DROP TABLE IF EXISTS airports;
	DROP TABLE IF EXISTS cities;

	CREATE TABLE cities (
		city_market_id  INTEGER PRIMARY KEY,
		city_name       TEXT NOT NULL,
		state           TEXT,
		full_city_name  TEXT
	);

	CREATE TABLE airports (
		airport_id      TEXT PRIMARY KEY,
		airport_code    TEXT NOT NULL,
		city_market_id  INTEGER,
		FOREIGN KEY (city_market_id) REFERENCES cities(city_market_id)
	);

	CREATE TABLE carriers (
		carrier_id      INTEGER PRIMARY KEY,
		carrier_code    TEXT NOT NULL UNIQUE,
		carrier_type    TEXT NOT NULL CHECK (carrier_type IN ('Legacy', 'Low-Cost'))
	);

	CREATE TABLE routes (
		route_id                INTEGER PRIMARY KEY,
		origin_airport_id       TEXT NOT NULL,
		destination_airport_id  TEXT NOT NULL,
		distance_miles          REAL,
		FOREIGN KEY (origin_airport_id) REFERENCES airports(airport_id) ON DELETE CASCADE,
		FOREIGN KEY (destination_airport_id) REFERENCES airports(airport_id) ON DELETE CASCADE,
		UNIQUE (origin_airport_id, destination_airport_id)
	);

	CREATE TABLE flights (
		flight_id         INTEGER PRIMARY KEY,
		route_id          INTEGER NOT NULL,
		year              INTEGER NOT NULL,
		quarter           INTEGER CHECK (quarter BETWEEN 1 AND 4),
		passengers        TEXT,
		fare              REAL,
		source_record_id  TEXT,
		FOREIGN KEY (route_id) REFERENCES routes(route_id) ON DELETE CASCADE
	);

	CREATE TABLE market_share (
		flight_id                INTEGER NOT NULL,
		carrier_id               INTEGER NOT NULL,
		market_share_type        TEXT NOT NULL,
		market_share_percentage  REAL,
		fare_avg                 REAL,
		PRIMARY KEY (flight_id, carrier_id, market_share_type),
		FOREIGN KEY (flight_id) REFERENCES flights(flight_id) ON DELETE CASCADE,
		FOREIGN KEY (carrier_id) REFERENCES carriers(carrier_id) ON DELETE CASCADE
	);
	`
	_, err := db.Exec(schema)
	return err
}

// InsertSet inserts all six tables in dependency order inside one
// transaction.
func (d *SQLiteDB) InsertSet(ts tables.Set) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range ts.Cities {
		if _, err := tx.Exec(`INSERT INTO cities (city_market_id, city_name, state, full_city_name) VALUES (?, ?, ?, ?)`,
			c.CityMarketID, c.CityName, c.State, c.FullCityName); err != nil {
			return fmt.Errorf("insert cities: %w", err)
		}
	}
	for _, a := range ts.Airports {
		if _, err := tx.Exec(`INSERT INTO airports (airport_id, airport_code, city_market_id) VALUES (?, ?, ?)`,
			a.AirportID, a.AirportCode, a.CityMarketID); err != nil {
			return fmt.Errorf("insert airports: %w", err)
		}
	}
	for _, c := range ts.Carriers {
		if _, err := tx.Exec(`INSERT INTO carriers (carrier_id, carrier_code, carrier_type) VALUES (?, ?, ?)`,
			c.CarrierID, c.CarrierCode, c.CarrierType); err != nil {
			return fmt.Errorf("insert carriers: %w", err)
		}
	}
	for _, r := range ts.Routes {
		if _, err := tx.Exec(`INSERT INTO routes (route_id, origin_airport_id, destination_airport_id, distance_miles) VALUES (?, ?, ?, ?)`,
			r.RouteID, r.OriginAirportID, r.DestinationAirportID, numArg(r.DistanceMiles)); err != nil {
			return fmt.Errorf("insert routes: %w", err)
		}
	}
	for _, f := range ts.Flights {
		if _, err := tx.Exec(`INSERT INTO flights (flight_id, route_id, year, quarter, passengers, fare, source_record_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.FlightID, f.RouteID, f.Year, quarterArg(f.Quarter), f.Passengers, numArg(f.Fare), f.SourceRecordID); err != nil {
			return fmt.Errorf("insert flights: %w", err)
		}
	}
	for _, ms := range ts.MarketShare {
		if _, err := tx.Exec(`INSERT INTO market_share (flight_id, carrier_id, market_share_type, market_share_percentage, fare_avg) VALUES (?, ?, ?, ?, ?)`,
			ms.FlightID, ms.CarrierID, ms.MarketShareType, numArg(ms.MarketSharePercentage), numArg(ms.FareAvg)); err != nil {
			return fmt.Errorf("insert market_share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// TableCounts returns the row count of each normalized table.
func (d *SQLiteDB) TableCounts() (map[string]int, error) {
	counts := make(map[string]int, 6)
	for _, table := range []string{"cities", "airports", "carriers", "routes", "flights", "market_share"} {
		var n int
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
