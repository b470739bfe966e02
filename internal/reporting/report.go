package reporting

import (
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/pattern"
	"dividend-recovery-lab/internal/recovery"
)

// Report represents the per-instrument analysis report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Symbol      string

	// Data Summary
	DataSummary DataSummary

	// Validation warnings surfaced at the ingestion boundary
	ValidationWarnings []string

	// Aggregate recovery behavior over the recovery table
	RecoveryStats recovery.Statistics

	// Per-event recovery table (sorted by ex_date ASC)
	RecoveryTable []recovery.TableRow

	// Significant pre-feature x post-metric correlations (sorted by |r| DESC)
	Correlations []domain.CorrelationResult

	// Post-ex-date price evolution for the latest event in the table.
	// EvolutionTarget is nil when the table is empty.
	EvolutionTarget *time.Time
	Evolution       []recovery.EvolutionPoint

	// Historical events most similar to the latest analyzed event.
	// SimilarTarget is nil when fewer than two events were analyzed.
	SimilarTarget   *time.Time
	SimilarPatterns []pattern.Match

	// Clustering result; nil with ClusteringSkipped set when the dataset
	// was too small or too sparse.
	Clustering        *domain.ClusteringResult
	ClusteringSkipped string
}

// DataSummary contains data description.
type DataSummary struct {
	BarCount      int
	FirstBarDate  time.Time
	LastBarDate   time.Time
	DividendCount int
	AnalyzedCount int
	SkippedCount  int
}
