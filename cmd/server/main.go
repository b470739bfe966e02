// Package main provides the scheduled analysis service: pipeline runs on an
// interval per stored instrument, with health, metrics, status, and a
// WebSocket push channel for run summaries.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"dividend-recovery-lab/internal/config"
	"dividend-recovery-lab/internal/observability"
	"dividend-recovery-lab/internal/pipeline"
	"dividend-recovery-lab/internal/server"
	"dividend-recovery-lab/internal/storage"
	chstore "dividend-recovery-lab/internal/storage/clickhouse"
	"dividend-recovery-lab/internal/storage/memory"
	"dividend-recovery-lab/internal/storage/migrations"
	pgstore "dividend-recovery-lab/internal/storage/postgres"
)

// Server holds all components of the analysis service.
type Server struct {
	// Configuration
	postgresDSN      string
	clickhouseDSN    string
	useMemory        bool
	outputDir        string
	analysisInterval time.Duration

	// Components
	cfg         *config.Config
	instruments storage.InstrumentStore
	bars        storage.DailyBarStore
	dividends   storage.DividendStore
	hub         *server.Hub
	logger      *log.Logger

	// State
	mu              sync.Mutex
	started         time.Time
	lastAnalysisRun time.Time
	analysisRunning bool
	analysisRuns    int
	instrumentsDone int
}

func main() {
	loadEnvFile()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")
	outputDir := flag.String("output-dir", "output", "Output directory for report artifacts")
	analysisInterval := flag.Duration("analysis-interval", 6*time.Hour, "Analysis run interval")
	migrate := flag.Bool("migrate", false, "Run embedded schema migrations on startup")
	httpAddr := flag.String("http-addr", ":8080", "HTTP address for health/metrics/status/ws")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	instruments, bars, dividends, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	hub := server.NewHub(nil, logger)
	defer hub.Close()

	srv := &Server{
		postgresDSN:      *postgresDSN,
		clickhouseDSN:    *clickhouseDSN,
		useMemory:        *useMemory,
		outputDir:        *outputDir,
		analysisInterval: *analysisInterval,
		cfg:              cfg,
		instruments:      instruments,
		bars:             bars,
		dividends:        dividends,
		hub:              hub,
		logger:           logger,
		started:          time.Now(),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go srv.startHTTPServer(*httpAddr)

	// Run the analysis scheduler
	err = srv.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the instrument, bar, and dividend stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (storage.InstrumentStore, storage.DailyBarStore, storage.DividendStore, func(), error) {
	if useMemory {
		return memory.NewInstrumentStore(), memory.NewDailyBarStore(), memory.NewDividendStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	var chConn *chstore.Conn
	if migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
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

// Run starts the analysis scheduler. It blocks until the context is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Printf("Starting analysis scheduler (interval: %v)...", s.analysisInterval)

	go s.trackUptime(ctx)

	// Run immediately on start
	s.runAnalysis(ctx)

	ticker := time.NewTicker(s.analysisInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runAnalysis(ctx)
		}
	}
}

// trackUptime updates the uptime gauge once a minute.
func (s *Server) trackUptime(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.DefaultMetrics.UptimeSeconds.Set(time.Since(s.started).Seconds())
		}
	}
}

// runAnalysis executes one pipeline pass over every stored instrument and
// broadcasts the run summaries.
func (s *Server) runAnalysis(ctx context.Context) {
	s.mu.Lock()
	if s.analysisRunning {
		s.mu.Unlock()
		s.logger.Println("Analysis already running, skipping...")
		return
	}
	s.analysisRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.analysisRunning = false
		s.lastAnalysisRun = time.Now()
		s.analysisRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running analysis...")
	start := time.Now()

	p := pipeline.New(s.instruments, s.bars, s.dividends, s.cfg, s.outputDir, s.logger)

	results, err := p.RunAll(ctx)
	if err != nil {
		s.logger.Printf("Analysis error: %v", err)
		return
	}

	for _, res := range results {
		s.hub.Broadcast(server.NewRunNotification(res))
	}

	s.mu.Lock()
	s.instrumentsDone = len(results)
	s.mu.Unlock()

	s.logger.Printf("Analysis completed in %v: %d instruments", time.Since(start), len(results))
}

// startHTTPServer starts the HTTP server for health/metrics/status/ws.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Run-summary push channel
	mux.HandleFunc("/ws", s.hub.HandleWS)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status          string    `json:"status"`
	Uptime          string    `json:"uptime"`
	LastAnalysisRun time.Time `json:"last_analysis_run,omitempty"`
	AnalysisRuns    int       `json:"analysis_runs"`
	AnalysisRunning bool      `json:"analysis_running"`
	Instruments     int       `json:"instruments"`
	WSClients       int       `json:"ws_clients"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		LastAnalysisRun: s.lastAnalysisRun,
		AnalysisRuns:    s.analysisRuns,
		AnalysisRunning: s.analysisRunning,
		Instruments:     s.instrumentsDone,
	}
	s.mu.Unlock()
	resp.WSClients = s.hub.ClientCount()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
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
