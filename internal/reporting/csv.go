package reporting

import (
	"fmt"
	"strings"
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/pattern"
	"dividend-recovery-lab/internal/recovery"
)

// RenderAnalysisCSV renders the analysis dataset as CSV string. Fixed metric
// columns come first, then every feature column in sorted order. Missing
// values render as empty cells.
func RenderAnalysisCSV(ds *pattern.Dataset) string {
	var sb strings.Builder

	features := ds.FeatureNames()

	// Header
	sb.WriteString("symbol,ex_date,dividend,d_minus1_close,d0_open,gap_pct,expected_gap_pct,")
	sb.WriteString("recovery_d5_pct,recovery_d10_pct,recovery_d15_pct,")
	sb.WriteString("gap_recovery_d5_pct,gap_recovery_d10_pct,gap_recovery_d15_pct,")
	sb.WriteString("days_to_50pct_gap,days_to_100pct_gap,recovered,recovery_reason,recovery_days")
	for _, f := range features {
		sb.WriteString(",")
		sb.WriteString(f)
	}
	sb.WriteString("\n")

	// Rows
	for _, r := range ds.Records {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%s,%s,%s,%s,%s,%s,%s,%s,%t,%s,%s",
			r.Symbol,
			r.ExDate.Format("2006-01-02"),
			r.Dividend,
			r.DMinus1Close,
			r.D0Open,
			r.GapPct,
			r.ExpectedGapPct,
			fmtFloat(r.RecoveryD5Pct),
			fmtFloat(r.RecoveryD10Pct),
			fmtFloat(r.RecoveryD15Pct),
			fmtFloat(r.GapRecoveryD5Pct),
			fmtFloat(r.GapRecoveryD10Pct),
			fmtFloat(r.GapRecoveryD15Pct),
			fmtInt(r.DaysTo50PctGap),
			fmtInt(r.DaysTo100PctGap),
			r.Outcome.Recovered,
			r.Outcome.Reason,
			fmtInt(r.Outcome.RecoveryDays),
		))
		for _, f := range features {
			sb.WriteString(",")
			if v, ok := r.Features[f]; ok {
				sb.WriteString(fmt.Sprintf("%.6f", v))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderCorrelationsCSV renders correlation results as CSV string.
func RenderCorrelationsCSV(results []domain.CorrelationResult) string {
	var sb strings.Builder

	sb.WriteString("pre_feature,post_metric,correlation,sample_size\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%d\n",
			r.PreFeature, r.PostMetric, r.Correlation, r.SampleSize))
	}

	return sb.String()
}

// RenderRecoveryTableCSV renders the per-event recovery table as CSV string.
func RenderRecoveryTableCSV(rows []recovery.TableRow) string {
	var sb strings.Builder

	sb.WriteString("ex_date,dividend,div_yield_pct,d_minus1_close,d0_open,d0_close,gap,gap_pct,")
	sb.WriteString("recovered,recovery_reason,recovery_days,recovery_date,recovery_price\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%t,%s,%s,%s,%s\n",
			r.ExDate.Format("2006-01-02"),
			r.Dividend,
			r.DivYieldPct,
			r.DMinus1Close,
			r.D0Open,
			r.D0Close,
			r.Gap,
			r.GapPct,
			r.Outcome.Recovered,
			r.Outcome.Reason,
			fmtInt(r.Outcome.RecoveryDays),
			fmtDate(r.Outcome.RecoveryDate),
			fmtFloat(r.Outcome.RecoveryPrice),
		))
	}

	return sb.String()
}

// RenderClusterStatsCSV renders per-cluster aggregates as CSV string.
func RenderClusterStatsCSV(clusters []domain.ClusterStats) string {
	var sb strings.Builder

	sb.WriteString("cluster_id,num_samples,avg_gap_pct,avg_recovery_d5_pct,avg_recovery_d10_pct,")
	sb.WriteString("avg_recovery_d15_pct,avg_recovery_d30_pct,pct_positive_d5,pct_positive_d10,")
	sb.WriteString("pct_positive_d15,pct_gap_half_by_d10,pct_gap_full_by_d30,")
	sb.WriteString("avg_trend_pre,avg_vol_pre,avg_rsi_d1,avg_stoch_k_d1,cohesion\n")
	for _, c := range clusters {
		sb.WriteString(fmt.Sprintf("%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.4f,%.4f,%.4f,%.4f,%.4f,%.6f,%.6f,%.4f,%.4f,%.6f\n",
			c.ClusterID,
			c.NumSamples,
			c.AvgGapPct,
			c.AvgRecoveryD5Pct,
			c.AvgRecoveryD10Pct,
			c.AvgRecoveryD15Pct,
			c.AvgRecoveryD30Pct,
			c.PctPositiveD5,
			c.PctPositiveD10,
			c.PctPositiveD15,
			c.PctGapHalfByD10,
			c.PctGapFullByD30,
			c.AvgTrendPre,
			c.AvgVolPre,
			c.AvgRSID1,
			c.AvgStochKD1,
			c.Cohesion,
		))
	}

	return sb.String()
}

func fmtFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *p)
}

func fmtInt(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func fmtDate(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format("2006-01-02")
}
