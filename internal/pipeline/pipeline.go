// Package pipeline runs the end-to-end analysis for one instrument:
// load, validate, analyze, correlate, cluster, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dividend-recovery-lab/internal/cluster"
	"dividend-recovery-lab/internal/config"
	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/observability"
	"dividend-recovery-lab/internal/pattern"
	"dividend-recovery-lab/internal/recovery"
	"dividend-recovery-lab/internal/reporting"
	"dividend-recovery-lab/internal/storage"
	"dividend-recovery-lab/internal/validation"
)

// ErrNoBars is returned when an instrument has no stored price series.
var ErrNoBars = errors.New("no daily bars for symbol")

// Pipeline orchestrates the per-instrument analysis run.
type Pipeline struct {
	instruments storage.InstrumentStore
	bars        storage.DailyBarStore
	dividends   storage.DividendStore
	cfg         *config.Config
	outputDir   string // empty disables artifact files
	clock       func() time.Time
	logger      *log.Logger
}

// New creates a new pipeline. logger may be nil for silent operation.
func New(
	instruments storage.InstrumentStore,
	bars storage.DailyBarStore,
	dividends storage.DividendStore,
	cfg *config.Config,
	outputDir string,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		instruments: instruments,
		bars:        bars,
		dividends:   dividends,
		cfg:         cfg,
		outputDir:   outputDir,
		clock:       func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Symbol      string
	Report      *reporting.Report
	Dataset     *pattern.Dataset
	Duration    time.Duration
	OutputFiles []string
}

// RunForSymbol executes the full pipeline for one instrument and, when an
// output directory is configured, writes the report artifacts.
func (p *Pipeline) RunForSymbol(ctx context.Context, symbol string) (*RunResult, error) {
	start := time.Now()
	res, err := p.runForSymbol(ctx, symbol)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordPipelineRun(status, duration.Seconds())
	if err != nil {
		return nil, err
	}

	res.Duration = duration
	observability.DefaultMetrics.LastSuccessfulAnalysis.Set(float64(p.clock().Unix()))
	return res, nil
}

func (p *Pipeline) runForSymbol(ctx context.Context, symbol string) (*RunResult, error) {
	bars, err := p.bars.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBars, symbol)
	}

	events, err := p.dividends.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load dividends for %s: %w", symbol, err)
	}

	// Hard validation failures abort the run; warnings go into the report.
	checked := validation.CheckSeries(bars)
	if !checked.Valid() {
		return nil, fmt.Errorf("validate %s: %w: %s",
			symbol, validation.ErrInvalidSeries, strings.Join(checked.Errors, "; "))
	}

	analyzer := pattern.NewAnalyzer(p.cfg, p.logger)
	ds := analyzer.AnalyzeAllDividends(bars, events)
	for range ds.Records {
		observability.RecordDividendAnalyzed()
	}
	skipped := len(events) - ds.Len()
	if skipped > 0 {
		observability.RecordDividendSkipped("insufficient_history")
	}

	table := recovery.BuildTable(bars, events, p.cfg.MaxRecoveryDays, p.logger)
	outcomes := make([]domain.RecoveryOutcome, len(table))
	for i, row := range table {
		outcomes[i] = row.Outcome
	}
	recoveryStats := recovery.ComputeStatistics(outcomes)

	correlations, err := pattern.FindCorrelations(ds, p.cfg.MinCorrelation, p.cfg.CorrelationMethod)
	if err != nil {
		return nil, fmt.Errorf("correlate %s: %w", symbol, err)
	}
	observability.DefaultMetrics.CorrelationsFound.Add(float64(len(correlations)))

	report := &reporting.Report{
		GeneratedAt: p.clock(),
		Symbol:      symbol,
		DataSummary: reporting.DataSummary{
			BarCount:      len(bars),
			FirstBarDate:  bars[0].Date,
			LastBarDate:   bars[len(bars)-1].Date,
			DividendCount: len(events),
			AnalyzedCount: ds.Len(),
			SkippedCount:  skipped,
		},
		ValidationWarnings: checked.Warnings,
		RecoveryStats:      recoveryStats,
		RecoveryTable:      table,
		Correlations:       correlations,
	}

	if len(table) > 0 {
		latest := table[len(table)-1]
		targetDate := latest.ExDate
		report.EvolutionTarget = &targetDate
		report.Evolution = recovery.PriceEvolution(bars, latest.ExDate, latest.DMinus1Close, p.cfg.EvolutionWindows)
	}

	// Similarity view for the latest analyzed event
	if ds.Len() >= 2 {
		target := ds.Len() - 1
		matches, err := pattern.FindSimilarPatterns(ds, target, p.cfg.SimilarityThreshold, p.cfg.SimilarityTopN)
		if err != nil {
			return nil, fmt.Errorf("similarity %s: %w", symbol, err)
		}
		observability.DefaultMetrics.SimilarityQueries.Inc()
		targetDate := ds.Records[target].ExDate
		report.SimilarTarget = &targetDate
		report.SimilarPatterns = matches
	}

	clustering, err := cluster.AnalyzeDividendClusters(ds, cluster.Options{
		Method: domain.ClusterKMeans,
		Logger: p.logger,
	})
	switch {
	case err == nil:
		report.Clustering = clustering
		observability.RecordClusteringRun(string(domain.ClusterKMeans), "success")
	case errors.Is(err, cluster.ErrInsufficientSamples), errors.Is(err, cluster.ErrInsufficientFeatures):
		report.ClusteringSkipped = err.Error()
		observability.RecordClusteringRun(string(domain.ClusterKMeans), "skipped")
		p.logf("pipeline %s: clustering skipped: %v", symbol, err)
	default:
		return nil, fmt.Errorf("cluster %s: %w", symbol, err)
	}

	res := &RunResult{Symbol: symbol, Report: report, Dataset: ds}

	if p.outputDir != "" {
		files, err := p.writeArtifacts(res)
		if err != nil {
			return nil, err
		}
		res.OutputFiles = files
		observability.DefaultMetrics.ReportsGenerated.Inc()
	}

	p.logf("pipeline %s: %d bars, %d/%d events analyzed, %d correlations",
		symbol, len(bars), ds.Len(), len(events), len(correlations))
	return res, nil
}

// RunAll runs the pipeline for every stored instrument. Per-instrument
// failures are logged and skipped, never aborting the batch.
func (p *Pipeline) RunAll(ctx context.Context) ([]*RunResult, error) {
	instruments, err := p.instruments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}

	var results []*RunResult
	for _, ins := range instruments {
		res, err := p.RunForSymbol(ctx, ins.Symbol)
		if err != nil {
			p.logf("pipeline %s: %v", ins.Symbol, err)
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// writeArtifacts writes the CSV and markdown outputs for one run into
// outputDir/<symbol>/.
func (p *Pipeline) writeArtifacts(res *RunResult) ([]string, error) {
	dir := filepath.Join(p.outputDir, res.Symbol)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outputs := []struct {
		name    string
		content string
	}{
		{"dividend_analysis.csv", reporting.RenderAnalysisCSV(res.Dataset)},
		{"correlations.csv", reporting.RenderCorrelationsCSV(res.Report.Correlations)},
		{"recovery_table.csv", reporting.RenderRecoveryTableCSV(res.Report.RecoveryTable)},
		{"REPORT.md", reporting.RenderMarkdown(res.Report)},
	}
	if res.Report.Clustering != nil {
		outputs = append(outputs, struct {
			name    string
			content string
		}{"cluster_stats.csv", reporting.RenderClusterStatsCSV(res.Report.Clustering.Clusters)})
	}

	var files []string
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := os.WriteFile(path, []byte(out.content), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", out.name, err)
		}
		files = append(files, path)
	}
	return files, nil
}
