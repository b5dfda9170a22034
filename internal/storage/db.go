package storage

// Config holds connection settings for the relational and analytics
// stores.
type Config struct {
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
}

// DefaultConfig returns a configuration with default local development
// settings. The CLI overrides individual fields from flags.
func DefaultConfig() Config {
	return Config{
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "airline_normalized",
			User:     "airline",
			Password: "airline",
		},
		ClickHouse: ClickHouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "airline",
			User:     "default",
			Password: "",
		},
	}
}
