// Package main runs the dividend recovery analysis once for one instrument
// and writes the report artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"dividend-recovery-lab/internal/config"
	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/ingestion"
	"dividend-recovery-lab/internal/pipeline"
	"dividend-recovery-lab/internal/storage"
	chstore "dividend-recovery-lab/internal/storage/clickhouse"
	"dividend-recovery-lab/internal/storage/memory"
	pgstore "dividend-recovery-lab/internal/storage/postgres"
)

func main() {
	loadEnvFile()

	symbol := flag.String("symbol", "", "Instrument symbol to analyze")
	outputDir := flag.String("output-dir", "output", "Output directory for report artifacts")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Analyze CSV inputs in memory without databases")
	barsPath := flag.String("bars", "", "Path to bars CSV (with --use-memory)")
	dividendsPath := flag.String("dividends", "", "Path to dividends CSV (with --use-memory)")

	flag.Parse()

	logger := log.New(os.Stdout, "[analyze] ", log.LstdFlags|log.Lshortfile)

	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if *useMemory {
		if *barsPath == "" {
			logger.Fatal("--bars is required with --use-memory")
		}
	} else if *postgresDSN == "" || *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for CSV inputs)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	ctx := context.Background()

	var (
		instruments storage.InstrumentStore
		bars        storage.DailyBarStore
		dividends   storage.DividendStore
		cleanup     func()
	)

	if *useMemory {
		instruments, bars, dividends, err = loadMemoryStores(ctx, logger, *symbol, *barsPath, *dividendsPath)
		cleanup = func() {}
	} else {
		instruments, bars, dividends, cleanup, err = connectStores(ctx, *postgresDSN, *clickhouseDSN)
	}
	if err != nil {
		logger.Fatalf("Prepare stores: %v", err)
	}
	defer cleanup()

	p := pipeline.New(instruments, bars, dividends, cfg, *outputDir, logger)

	res, err := p.RunForSymbol(ctx, *symbol)
	if err != nil {
		logger.Fatalf("Analysis failed: %v", err)
	}

	logger.Printf("Analyzed %s in %v: %d/%d events, win rate %.1f%%",
		res.Symbol, res.Duration,
		res.Report.DataSummary.AnalyzedCount, res.Report.DataSummary.DividendCount,
		res.Report.RecoveryStats.WinRate*100)
	for _, f := range res.OutputFiles {
		logger.Printf("Wrote %s", f)
	}
}

// loadMemoryStores parses the CSV inputs into in-memory stores.
func loadMemoryStores(ctx context.Context, logger *log.Logger, symbol, barsPath, dividendsPath string) (storage.InstrumentStore, storage.DailyBarStore, storage.DividendStore, error) {
	instruments := memory.NewInstrumentStore()
	bars := memory.NewDailyBarStore()
	dividends := memory.NewDividendStore()

	loader := ingestion.NewLoader(ingestion.LoaderOptions{
		InstrumentStore: instruments,
		DailyBarStore:   bars,
		DividendStore:   dividends,
		Logger:          logger,
	})

	if _, err := loader.IngestFiles(ctx, &domain.Instrument{Symbol: symbol}, barsPath, dividendsPath); err != nil {
		return nil, nil, nil, err
	}
	return instruments, bars, dividends, nil
}

// connectStores opens the database-backed stores.
func connectStores(ctx context.Context, postgresDSN, clickhouseDSN string) (storage.InstrumentStore, storage.DailyBarStore, storage.DividendStore, func(), error) {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	chConn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewInstrumentStore(pool), chstore.NewDailyBarStore(chConn), pgstore.NewDividendStore(pool), cleanup, nil
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
