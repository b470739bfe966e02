package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Dividend Recovery Report: %s\n\n", r.Symbol))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Daily Bars | %d |\n", r.DataSummary.BarCount))
	if r.DataSummary.BarCount > 0 {
		sb.WriteString(fmt.Sprintf("| First Bar | %s |\n", r.DataSummary.FirstBarDate.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("| Last Bar | %s |\n", r.DataSummary.LastBarDate.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("| Dividend Events | %d |\n", r.DataSummary.DividendCount))
	sb.WriteString(fmt.Sprintf("| Events Analyzed | %d |\n", r.DataSummary.AnalyzedCount))
	sb.WriteString(fmt.Sprintf("| Events Skipped | %d |\n", r.DataSummary.SkippedCount))
	sb.WriteString("\n")

	// Validation warnings
	if len(r.ValidationWarnings) > 0 {
		sb.WriteString("## Validation Warnings\n\n")
		for _, w := range r.ValidationWarnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	// Recovery statistics
	sb.WriteString("## Recovery Statistics\n\n")
	if r.RecoveryStats.TotalEvents > 0 {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Total Events | %d |\n", r.RecoveryStats.TotalEvents))
		sb.WriteString(fmt.Sprintf("| Recovered | %d |\n", r.RecoveryStats.RecoveredCount))
		sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", r.RecoveryStats.WinRate*100))
		if r.RecoveryStats.AvgRecoveryDays != nil {
			sb.WriteString(fmt.Sprintf("| Avg Recovery Days | %.1f |\n", *r.RecoveryStats.AvgRecoveryDays))
		}
		if r.RecoveryStats.MedianRecoveryDays != nil {
			sb.WriteString(fmt.Sprintf("| Median Recovery Days | %.1f |\n", *r.RecoveryStats.MedianRecoveryDays))
		}
		if r.RecoveryStats.MaxRecoveryDays != nil {
			sb.WriteString(fmt.Sprintf("| Max Recovery Days | %d |\n", *r.RecoveryStats.MaxRecoveryDays))
		}
		sb.WriteString(fmt.Sprintf("| Fast (<=3d) / Normal (4-7d) / Slow (>7d) | %d / %d / %d |\n",
			r.RecoveryStats.FastRecoveries, r.RecoveryStats.NormalRecoveries, r.RecoveryStats.SlowRecoveries))
	} else {
		sb.WriteString("No recovery outcomes available.\n")
	}
	sb.WriteString("\n")

	// Recovery table
	sb.WriteString("## Recovery Table\n\n")
	if len(r.RecoveryTable) > 0 {
		sb.WriteString("| Ex-Date | Dividend | Yield% | D-1 Close | D0 Open | Gap% | Recovered | Days |\n")
		sb.WriteString("|---------|----------|--------|-----------|---------|------|-----------|------|\n")
		for _, row := range r.RecoveryTable {
			days := ""
			if row.Outcome.RecoveryDays != nil {
				days = fmt.Sprintf("%d", *row.Outcome.RecoveryDays)
			}
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %t | %s |\n",
				row.ExDate.Format("2006-01-02"), row.Dividend, row.DivYieldPct,
				row.DMinus1Close, row.D0Open, row.GapPct, row.Outcome.Recovered, days))
		}
	} else {
		sb.WriteString("No analyzable dividend events.\n")
	}
	sb.WriteString("\n")

	// Correlations
	sb.WriteString("## Significant Correlations\n\n")
	if len(r.Correlations) > 0 {
		sb.WriteString("| Pre-Feature | Post-Metric | r | n |\n")
		sb.WriteString("|-------------|-------------|---|---|\n")
		for _, c := range r.Correlations {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %d |\n",
				c.PreFeature, c.PostMetric, c.Correlation, c.SampleSize))
		}
	} else {
		sb.WriteString("No significant correlations found.\n")
	}
	sb.WriteString("\n")

	// Price evolution after the latest ex-date
	if r.EvolutionTarget != nil {
		sb.WriteString(fmt.Sprintf("## Price Evolution (ex-date %s)\n\n", r.EvolutionTarget.Format("2006-01-02")))
		sb.WriteString("| D+N | Date | Close | vs D-1 Close |\n")
		sb.WriteString("|-----|------|-------|--------------|\n")
		for _, p := range r.Evolution {
			if p.Date == nil {
				sb.WriteString(fmt.Sprintf("| %d | - | - | - |\n", p.Days))
				continue
			}
			chg := "-"
			if p.PctChange != nil {
				chg = fmt.Sprintf("%+.2f%%", *p.PctChange)
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %s |\n",
				p.Days, p.Date.Format("2006-01-02"), *p.Price, chg))
		}
		sb.WriteString("\n")
	}

	// Similar historical patterns
	if r.SimilarTarget != nil {
		sb.WriteString(fmt.Sprintf("## Similar Patterns (target %s)\n\n", r.SimilarTarget.Format("2006-01-02")))
		if len(r.SimilarPatterns) > 0 {
			sb.WriteString("| Ex-Date | Similarity | Gap% | Recovered |\n")
			sb.WriteString("|---------|------------|------|-----------|\n")
			for _, m := range r.SimilarPatterns {
				sb.WriteString(fmt.Sprintf("| %s | %.4f | %.2f | %t |\n",
					m.Record.ExDate.Format("2006-01-02"), m.Similarity,
					m.Record.GapPct, m.Record.Outcome.Recovered))
			}
		} else {
			sb.WriteString("No historical events above the similarity threshold.\n")
		}
		sb.WriteString("\n")
	}

	// Clustering
	sb.WriteString("## Clustering\n\n")
	if r.Clustering != nil {
		sb.WriteString(fmt.Sprintf("Method: %s | Clusters: %d | Silhouette: %.4f\n\n",
			r.Clustering.Method, r.Clustering.NumClusters, r.Clustering.Silhouette))
		sb.WriteString("| Cluster | Samples | Avg Gap% | Avg Rec D10% | Gap Half by D10 | Gap Full by D30 |\n")
		sb.WriteString("|---------|---------|----------|--------------|-----------------|------------------|\n")
		for _, c := range r.Clustering.Clusters {
			marker := ""
			if c.ClusterID == r.Clustering.BestClusterID {
				marker = " (best)"
			} else if c.ClusterID == r.Clustering.WorstClusterID {
				marker = " (worst)"
			}
			sb.WriteString(fmt.Sprintf("| %d%s | %d | %.2f | %.2f | %.1f%% | %.1f%% |\n",
				c.ClusterID, marker, c.NumSamples, c.AvgGapPct, c.AvgRecoveryD10Pct,
				c.PctGapHalfByD10, c.PctGapFullByD30))
		}
		sb.WriteString("\n")

		if len(r.Clustering.FeatureImportance) > 0 {
			sb.WriteString("### Feature Importance\n\n")
			sb.WriteString("| Feature | Importance |\n")
			sb.WriteString("|---------|------------|\n")
			for _, name := range r.Clustering.FeatureNames {
				sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", name, r.Clustering.FeatureImportance[name]))
			}
			sb.WriteString("\n")
		}
	} else if r.ClusteringSkipped != "" {
		sb.WriteString(fmt.Sprintf("Clustering skipped: %s\n\n", r.ClusteringSkipped))
	} else {
		sb.WriteString("No clustering result available.\n\n")
	}

	return sb.String()
}
