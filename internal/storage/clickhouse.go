package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fare_normalizer/internal/tables"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for the analytics export:
// a denormalized flight-fact table with route, airport and carrier
// attributes joined back in.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the flight-fact analytics table.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS flight_facts (
		flight_id         UInt64,
		year              UInt16,
		quarter           UInt8,
		route_id          UInt64,
		origin_code       LowCardinality(String),
		destination_code  LowCardinality(String),
		origin_city       LowCardinality(String),
		destination_city  LowCardinality(String),
		distance_miles    Nullable(Float64),
		fare              Nullable(Float64),
		legacy_carrier    LowCardinality(String),
		legacy_share      Nullable(Float64),
		legacy_fare       Nullable(Float64),
		lowcost_carrier   LowCardinality(String),
		lowcost_share     Nullable(Float64),
		lowcost_fare      Nullable(Float64),
		source_record_id  String,
		created_at        DateTime64(3) DEFAULT now64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY year
	ORDER BY (year, quarter, route_id, flight_id)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertFlightFacts denormalizes the table set into flight_facts rows
// and inserts them in one batch.
func (d *ClickHouseDB) InsertFlightFacts(ctx context.Context, ts tables.Set) error {
	routes := make(map[int]tables.Route, len(ts.Routes))
	for _, r := range ts.Routes {
		routes[r.RouteID] = r
	}
	airports := make(map[string]tables.Airport, len(ts.Airports))
	for _, a := range ts.Airports {
		airports[a.AirportID] = a
	}
	cities := make(map[int]tables.City, len(ts.Cities))
	for _, c := range ts.Cities {
		cities[c.CityMarketID] = c
	}
	carriers := make(map[int]tables.Carrier, len(ts.Carriers))
	for _, c := range ts.Carriers {
		carriers[c.CarrierID] = c
	}

	type slot struct {
		code  string
		share *float64
		fare  *float64
	}
	shares := make(map[int]map[string]slot, len(ts.Flights))
	for _, ms := range ts.MarketShare {
		s := slot{code: carriers[ms.CarrierID].CarrierCode}
		if ms.MarketSharePercentage.Valid {
			v := ms.MarketSharePercentage.Value
			s.share = &v
		}
		if ms.FareAvg.Valid {
			v := ms.FareAvg.Value
			s.fare = &v
		}
		if shares[ms.FlightID] == nil {
			shares[ms.FlightID] = make(map[string]slot, 2)
		}
		shares[ms.FlightID][ms.MarketShareType] = s
	}

	batch, err := d.conn.PrepareBatch(ctx, `INSERT INTO flight_facts (
		flight_id, year, quarter, route_id,
		origin_code, destination_code, origin_city, destination_city,
		distance_miles, fare,
		legacy_carrier, legacy_share, legacy_fare,
		lowcost_carrier, lowcost_share, lowcost_fare,
		source_record_id)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, f := range ts.Flights {
		route := routes[f.RouteID]
		origin := airports[route.OriginAirportID]
		dest := airports[route.DestinationAirportID]

		var distance, fare *float64
		if route.DistanceMiles.Valid {
			v := route.DistanceMiles.Value
			distance = &v
		}
		if f.Fare.Valid {
			v := f.Fare.Value
			fare = &v
		}

		quarter := uint8(0)
		if f.Quarter.Valid {
			quarter = uint8(f.Quarter.Int())
		}

		legacy := shares[f.FlightID][tables.CarrierLegacy]
		lowcost := shares[f.FlightID][tables.CarrierLowCost]

		if err := batch.Append(
			uint64(f.FlightID), uint16(f.Year), quarter, uint64(f.RouteID),
			origin.AirportCode, dest.AirportCode,
			cities[origin.CityMarketID].CityName, cities[dest.CityMarketID].CityName,
			distance, fare,
			legacy.code, legacy.share, legacy.fare,
			lowcost.code, lowcost.share, lowcost.fare,
			f.SourceRecordID,
		); err != nil {
			return fmt.Errorf("append flight %d: %w", f.FlightID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
