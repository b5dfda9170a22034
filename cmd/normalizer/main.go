// Command-line entry point for the airline fare normalizer.
//
// The input is the flat US airline route/fare fact table (one row per
// route-carrier-quarter observation). normalize cleans it, resolves the
// entity tables and writes the six normalized datasets; validate
// re-loads an exported set and checks every cross-table reference;
// export-postgres and export-clickhouse push an exported set into a
// relational or analytics store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"fare_normalizer/internal/export"
	"fare_normalizer/internal/fares"
	"fare_normalizer/internal/pipeline"
	"fare_normalizer/internal/publish"
	"fare_normalizer/internal/storage"
	"fare_normalizer/internal/validate"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "normalizer - commands:")
	fmt.Fprintln(w, "  normalize         - normalize the fact table into six datasets")
	fmt.Fprintln(w, "  validate          - check referential integrity of an exported set")
	fmt.Fprintln(w, "  export-postgres   - load an exported set into PostgreSQL")
	fmt.Fprintln(w, "  export-clickhouse - load an exported set into ClickHouse")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  normalizer normalize -input fares.csv [-outdir normalized_data] [-sqlite out.db] [-workers N] [-nats URL] [-stats]")
	fmt.Fprintln(w, "  normalizer validate -dir normalized_data [-nats URL]")
	fmt.Fprintln(w, "  normalizer export-postgres -dir normalized_data [-pg-host ...] [-pg-db ...]")
	fmt.Fprintln(w, "  normalizer export-clickhouse -dir normalized_data [-ch-host ...] [-ch-db ...]")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "normalize":
		runNormalize(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "export-postgres":
		runExportPostgres(os.Args[2:])
	case "export-clickhouse":
		runExportClickHouse(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runNormalize(args []string) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	inPath := fs.String("input", "", "Input fact-table CSV (default: stdin)")
	outDir := fs.String("outdir", "normalized_data", "Output directory for the six datasets")
	sqlitePath := fs.String("sqlite", "", "Also write a SQLite database at this path")
	workers := fs.Int("workers", 1, "Worker goroutines for the sanitize scan")
	natsURL := fs.String("nats", "", "Publish the run summary to this NATS server")
	showStats := fs.Bool("stats", false, "Print per-stage counters to stderr")
	_ = fs.Parse(args)

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatalf("Failed to open input: %v", err)
		}
		defer f.Close()
		r = f
	}

	raws, err := fares.ReadAll(r)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	res, err := pipeline.Run(raws, pipeline.Options{Workers: *workers})
	if err != nil {
		log.Fatalf("Normalization failed: %v", err)
	}

	if err := export.WriteSet(*outDir, res.Tables); err != nil {
		log.Fatalf("Failed to write datasets: %v", err)
	}

	if *sqlitePath != "" {
		db, err := storage.OpenSQLite(*sqlitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite database: %v", err)
		}
		if err := db.InsertSet(res.Tables); err != nil {
			_ = db.Close()
			log.Fatalf("Failed to populate SQLite database: %v", err)
		}
		_ = db.Close()
		fmt.Printf("SQLite database written to %s\n", *sqlitePath)
	}

	printSummary(res)

	if *natsURL != "" {
		pub, err := publish.Connect(*natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer pub.Close()
		if err := pub.PublishSummary(res.Stats); err != nil {
			log.Fatalf("Failed to publish summary: %v", err)
		}
	}

	if *showStats {
		st := res.Stats
		fmt.Fprintf(os.Stderr,
			"stats: rows=%d sanitized=%d dropped=%d invalid_carrier_slots=%d unrouted=%d\n",
			st.TotalRows, st.SanitizedRows, st.DroppedRows, st.InvalidCarrierSlots, st.UnroutedRecords,
		)
	}
}

func printSummary(res *pipeline.Result) {
	st := res.Stats
	fmt.Println("Normalization summary:")
	fmt.Printf("  input rows:    %d (%d dropped in cleaning, %d unrouted)\n",
		st.TotalRows, st.DroppedRows, st.UnroutedRecords)
	fmt.Printf("  cities:        %d\n", st.Cities)
	fmt.Printf("  airports:      %d\n", st.Airports)
	fmt.Printf("  carriers:      %d\n", st.Carriers)
	fmt.Printf("  routes:        %d\n", st.Routes)
	fmt.Printf("  flights:       %d\n", st.Flights)
	fmt.Printf("  market_share:  %d\n", st.MarketShare)
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	dir := fs.String("dir", "normalized_data", "Directory holding the exported datasets")
	natsURL := fs.String("nats", "", "Publish the report to this NATS server")
	_ = fs.Parse(args)

	ts, err := export.ReadSet(*dir)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	rep := validate.Check(ts)

	fmt.Printf("Validation report for %s:\n", *dir)
	fmt.Printf("  flights:                 %d\n", rep.TotalFlights)
	fmt.Printf("  market share rows:       %d\n", rep.TotalMarketShare)
	fmt.Printf("  unresolved city refs:    %d\n", rep.UnresolvedCityRefs)
	fmt.Printf("  unresolved airport refs: %d\n", rep.UnresolvedAirportRefs)
	fmt.Printf("  unresolved carrier refs: %d\n", rep.UnresolvedCarrierRefs)
	fmt.Printf("  unresolved route refs:   %d\n", rep.UnresolvedRouteRefs)
	fmt.Printf("  unresolved flight refs:  %d\n", rep.UnresolvedFlightRefs)
	fmt.Printf("  missing key values:      %d\n", rep.MissingKeyValues)
	if len(rep.BadCityKeys) > 0 {
		fmt.Printf("  first bad city keys:     %s\n", strings.Join(rep.BadCityKeys, ", "))
	}
	if len(rep.BadAirportKeys) > 0 {
		fmt.Printf("  first bad airport keys:  %s\n", strings.Join(rep.BadAirportKeys, ", "))
	}
	if len(rep.BadCarrierKeys) > 0 {
		fmt.Printf("  first bad carrier keys:  %s\n", strings.Join(rep.BadCarrierKeys, ", "))
	}

	if *natsURL != "" {
		pub, err := publish.Connect(*natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer pub.Close()
		if err := pub.PublishReport(rep); err != nil {
			log.Fatalf("Failed to publish report: %v", err)
		}
	}

	if !rep.Passed {
		fmt.Println("FAILED: unresolved references found")
		os.Exit(1)
	}
	fmt.Println("PASSED: all references resolve")
}

func pgFlags(fs *flag.FlagSet, cfg *storage.PostgresConfig) {
	fs.StringVar(&cfg.Host, "pg-host", cfg.Host, "PostgreSQL host")
	fs.IntVar(&cfg.Port, "pg-port", cfg.Port, "PostgreSQL port")
	fs.StringVar(&cfg.Database, "pg-db", cfg.Database, "PostgreSQL database")
	fs.StringVar(&cfg.User, "pg-user", cfg.User, "PostgreSQL user")
	fs.StringVar(&cfg.Password, "pg-password", cfg.Password, "PostgreSQL password")
}

func chFlags(fs *flag.FlagSet, cfg *storage.ClickHouseConfig) {
	fs.StringVar(&cfg.Host, "ch-host", cfg.Host, "ClickHouse host")
	fs.IntVar(&cfg.Port, "ch-port", cfg.Port, "ClickHouse port")
	fs.StringVar(&cfg.Database, "ch-db", cfg.Database, "ClickHouse database")
	fs.StringVar(&cfg.User, "ch-user", cfg.User, "ClickHouse user")
	fs.StringVar(&cfg.Password, "ch-password", cfg.Password, "ClickHouse password")
}

func runExportPostgres(args []string) {
	fs := flag.NewFlagSet("export-postgres", flag.ExitOnError)
	dir := fs.String("dir", "normalized_data", "Directory holding the exported datasets")
	cfg := storage.DefaultConfig().Postgres
	pgFlags(fs, &cfg)
	_ = fs.Parse(args)

	ts, err := export.ReadSet(*dir)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	ctx := context.Background()
	db, err := storage.OpenPostgres(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL: %v", err)
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.InsertSet(ctx, ts); err != nil {
		log.Fatalf("Failed to insert datasets: %v", err)
	}

	counts, err := db.TableCounts(ctx)
	if err != nil {
		log.Fatalf("Failed to count rows: %v", err)
	}
	for _, table := range []string{"cities", "airports", "carriers", "routes", "flights", "market_share"} {
		fmt.Printf("  %-13s %d rows\n", table, counts[table])
	}
}

func runExportClickHouse(args []string) {
	fs := flag.NewFlagSet("export-clickhouse", flag.ExitOnError)
	dir := fs.String("dir", "normalized_data", "Directory holding the exported datasets")
	cfg := storage.DefaultConfig().ClickHouse
	chFlags(fs, &cfg)
	_ = fs.Parse(args)

	ts, err := export.ReadSet(*dir)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	ctx := context.Background()
	db, err := storage.OpenClickHouse(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open ClickHouse: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.CreateSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.InsertFlightFacts(ctx, ts); err != nil {
		log.Fatalf("Failed to insert flight facts: %v", err)
	}
	fmt.Printf("Inserted %d flight facts\n", len(ts.Flights))
}
