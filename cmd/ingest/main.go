// Package main ingests daily-bar and dividend CSV files for one instrument
// into PostgreSQL (instruments, dividends) and ClickHouse (daily bars).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/ingestion"
	chstore "dividend-recovery-lab/internal/storage/clickhouse"
	"dividend-recovery-lab/internal/storage/migrations"
	pgstore "dividend-recovery-lab/internal/storage/postgres"
)

func main() {
	loadEnvFile()

	symbol := flag.String("symbol", "", "Instrument symbol (e.g. ALV.DE)")
	name := flag.String("name", "", "Instrument display name")
	currency := flag.String("currency", "EUR", "Instrument currency")
	barsPath := flag.String("bars", "", "Path to bars CSV (date,open,high,low,close,volume)")
	dividendsPath := flag.String("dividends", "", "Path to dividends CSV (ex_date,amount)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	migrate := flag.Bool("migrate", false, "Run embedded schema migrations before ingesting")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *barsPath == "" {
		logger.Fatal("--bars is required")
	}
	if *postgresDSN == "" || *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required")
	}

	ctx := context.Background()

	if err := run(ctx, logger, runOptions{
		symbol:        *symbol,
		name:          *name,
		currency:      *currency,
		barsPath:      *barsPath,
		dividendsPath: *dividendsPath,
		postgresDSN:   *postgresDSN,
		clickhouseDSN: *clickhouseDSN,
		migrate:       *migrate,
	}); err != nil {
		logger.Fatalf("Ingestion failed: %v", err)
	}
}

type runOptions struct {
	symbol        string
	name          string
	currency      string
	barsPath      string
	dividendsPath string
	postgresDSN   string
	clickhouseDSN string
	migrate       bool
}

func run(ctx context.Context, logger *log.Logger, opts runOptions) error {
	pool, err := pgstore.NewPool(ctx, opts.postgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if opts.migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		logger.Println("PostgreSQL migrations applied")
	}

	var chConn *chstore.Conn
	if opts.migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, opts.clickhouseDSN)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		logger.Println("ClickHouse migrations applied")
	} else {
		chConn, err = chstore.NewConn(ctx, opts.clickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
	}
	defer chConn.Close()

	loader := ingestion.NewLoader(ingestion.LoaderOptions{
		InstrumentStore: pgstore.NewInstrumentStore(pool),
		DailyBarStore:   chstore.NewDailyBarStore(chConn),
		DividendStore:   pgstore.NewDividendStore(pool),
		Logger:          logger,
	})

	instrument := &domain.Instrument{
		Symbol:   opts.symbol,
		Name:     opts.name,
		Currency: opts.currency,
	}

	res, err := loader.IngestFiles(ctx, instrument, opts.barsPath, opts.dividendsPath)
	if err != nil {
		return err
	}

	logger.Printf("Ingested %s: %d bars, %d dividends", res.Symbol, res.BarsInserted, res.DividendsInserted)
	for _, w := range res.Warnings {
		logger.Printf("Warning: %s", w)
	}
	return nil
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
