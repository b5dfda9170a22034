package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fare_normalizer/internal/fares"
	"fare_normalizer/internal/tables"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for the normalized
// relational store.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateSchema drops and recreates the normalized tables. Child tables
// cascade on delete; routes are unique per directional airport pair and
// market_share per (flight, carrier, type).
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	statements := []string{
		`DROP TABLE IF EXISTS market_share CASCADE`,
		`DROP TABLE IF EXISTS flights CASCADE`,
		`DROP TABLE IF EXISTS routes CASCADE`,
		`DROP TABLE IF EXISTS carriers CASCADE`,
		`DROP TABLE IF EXISTS airports CASCADE`,
		`DROP TABLE IF EXISTS cities CASCADE`,
		`CREATE TABLE cities (
			city_market_id  INTEGER PRIMARY KEY,
			city_name       VARCHAR(150) NOT NULL,
			state           VARCHAR(5),
			full_city_name  VARCHAR(255)
		)`,
		`CREATE TABLE airports (
			airport_id      VARCHAR(255) PRIMARY KEY,
			airport_code    VARCHAR(10) NOT NULL,
			city_market_id  INTEGER,
			FOREIGN KEY (city_market_id) REFERENCES cities(city_market_id) ON DELETE SET NULL
		)`,
		`CREATE TABLE carriers (
			carrier_id      INTEGER PRIMARY KEY,
			carrier_code    VARCHAR(10) NOT NULL UNIQUE,
			carrier_type    VARCHAR(10) NOT NULL CHECK (carrier_type IN ('Legacy', 'Low-Cost'))
		)`,
		`CREATE TABLE routes (
			route_id                INTEGER PRIMARY KEY,
			origin_airport_id       VARCHAR(255) NOT NULL,
			destination_airport_id  VARCHAR(255) NOT NULL,
			distance_miles          DECIMAL(10,2),
			FOREIGN KEY (origin_airport_id) REFERENCES airports(airport_id) ON DELETE CASCADE,
			FOREIGN KEY (destination_airport_id) REFERENCES airports(airport_id) ON DELETE CASCADE,
			UNIQUE (origin_airport_id, destination_airport_id)
		)`,
		`CREATE TABLE flights (
			flight_id         INTEGER PRIMARY KEY,
			route_id          INTEGER NOT NULL,
			year              INTEGER NOT NULL,
			quarter           INTEGER CHECK (quarter BETWEEN 1 AND 4),
			passengers        TEXT,
			fare              DECIMAL(10,2),
			source_record_id  VARCHAR(100),
			FOREIGN KEY (route_id) REFERENCES routes(route_id) ON DELETE CASCADE
		)`,
		`CREATE TABLE market_share (
			market_share_id          SERIAL PRIMARY KEY,
			flight_id                INTEGER NOT NULL,
			carrier_id               INTEGER NOT NULL,
			market_share_type        VARCHAR(10) NOT NULL,
			market_share_percentage  DECIMAL(10,2),
			fare_avg                 DECIMAL(10,2),
			FOREIGN KEY (flight_id) REFERENCES flights(flight_id) ON DELETE CASCADE,
			FOREIGN KEY (carrier_id) REFERENCES carriers(carrier_id) ON DELETE CASCADE,
			UNIQUE (flight_id, carrier_id, market_share_type)
		)`,
	}

	for _, stmt := range statements {
		if _, err := d.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// numArg converts a missing-aware number to a nullable SQL argument.
func numArg(n fares.Number) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}

// quarterArg converts a quarter to a nullable integer argument.
func quarterArg(n fares.Number) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Int()
}

func (d *PostgresDB) sendBatch(ctx context.Context, table string, batch *pgx.Batch) error {
	br := d.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// InsertSet inserts all six tables in dependency order so foreign keys
// always reference rows that already exist.
func (d *PostgresDB) InsertSet(ctx context.Context, ts tables.Set) error {
	batch := &pgx.Batch{}
	for _, c := range ts.Cities {
		batch.Queue(`INSERT INTO cities (city_market_id, city_name, state, full_city_name) VALUES ($1, $2, $3, $4)`,
			c.CityMarketID, c.CityName, c.State, c.FullCityName)
	}
	if err := d.sendBatch(ctx, "cities", batch); err != nil {
		return err
	}

	batch = &pgx.Batch{}
	for _, a := range ts.Airports {
		batch.Queue(`INSERT INTO airports (airport_id, airport_code, city_market_id) VALUES ($1, $2, $3)`,
			a.AirportID, a.AirportCode, a.CityMarketID)
	}
	if err := d.sendBatch(ctx, "airports", batch); err != nil {
		return err
	}

	batch = &pgx.Batch{}
	for _, c := range ts.Carriers {
		batch.Queue(`INSERT INTO carriers (carrier_id, carrier_code, carrier_type) VALUES ($1, $2, $3)`,
			c.CarrierID, c.CarrierCode, c.CarrierType)
	}
	if err := d.sendBatch(ctx, "carriers", batch); err != nil {
		return err
	}

	batch = &pgx.Batch{}
	for _, r := range ts.Routes {
		batch.Queue(`INSERT INTO routes (route_id, origin_airport_id, destination_airport_id, distance_miles) VALUES ($1, $2, $3, $4)`,
			r.RouteID, r.OriginAirportID, r.DestinationAirportID, numArg(r.DistanceMiles))
	}
	if err := d.sendBatch(ctx, "routes", batch); err != nil {
		return err
	}

	batch = &pgx.Batch{}
	for _, f := range ts.Flights {
		batch.Queue(`INSERT INTO flights (flight_id, route_id, year, quarter, passengers, fare, source_record_id) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.FlightID, f.RouteID, f.Year, quarterArg(f.Quarter), f.Passengers, numArg(f.Fare), f.SourceRecordID)
	}
	if err := d.sendBatch(ctx, "flights", batch); err != nil {
		return err
	}

	batch = &pgx.Batch{}
	for _, ms := range ts.MarketShare {
		batch.Queue(`INSERT INTO market_share (flight_id, carrier_id, market_share_type, market_share_percentage, fare_avg) VALUES ($1, $2, $3, $4, $5)`,
			ms.FlightID, ms.CarrierID, ms.MarketShareType, numArg(ms.MarketSharePercentage), numArg(ms.FareAvg))
	}
	return d.sendBatch(ctx, "market_share", batch)
}

// TableCounts returns the row count of each normalized table.
func (d *PostgresDB) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 6)
	for _, table := range []string{"cities", "airports", "carriers", "routes", "flights", "market_share"} {
		var n int
		if err := d.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
