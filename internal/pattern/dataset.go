package pattern

import (
	"math"
	"sort"
	"strings"

	"dividend-recovery-lab/internal/domain"
)

// Dataset is the tabular view over a batch of analysis records. Columns are
// addressed by name: the typed gap/recovery metrics plus every key appearing
// in any record's feature map. Missing values are NaN.
type Dataset struct {
	Records []*domain.DividendAnalysisRecord
}

// postMetricCandidates are the recovery metric columns considered by the
// correlation engine, in canonical order.
var postMetricCandidates = []string{
	"recovery_d5_pct",
	"recovery_d10_pct",
	"recovery_d15_pct",
	"gap_recovery_d5_pct",
	"gap_recovery_d10_pct",
	"gap_recovery_d15_pct",
	"days_to_50pct_gap",
	"days_to_100pct_gap",
	"gap_pct",
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// FeatureNames returns the sorted union of feature-map keys across records.
func (d *Dataset) FeatureNames() []string {
	seen := make(map[string]struct{})
	for _, r := range d.Records {
		for k := range r.Features {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// PreFeatureNames returns the window-feature columns: feature keys carrying a
// relative-day marker ("D-" or "D_").
func (d *Dataset) PreFeatureNames() []string {
	var names []string
	for _, k := range d.FeatureNames() {
		if strings.Contains(k, "D-") || strings.Contains(k, "D_") {
			names = append(names, k)
		}
	}
	return names
}

// PostMetricNames returns the recovery metric columns that have at least one
// observation in the dataset, in canonical order.
func (d *Dataset) PostMetricNames() []string {
	var names []string
	for _, c := range postMetricCandidates {
		col := d.Column(c)
		for _, v := range col {
			if !math.IsNaN(v) {
				names = append(names, c)
				break
			}
		}
	}
	return names
}

// Column extracts one named column, NaN where a record has no value.
func (d *Dataset) Column(name string) []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = recordValue(r, name)
	}
	return out
}

func recordValue(r *domain.DividendAnalysisRecord, name string) float64 {
	switch name {
	case "gap_pct":
		return r.GapPct
	case "expected_gap_pct":
		return r.ExpectedGapPct
	case "D0_open":
		return r.D0Open
	case "recovery_d5_pct":
		return deref(r.RecoveryD5Pct)
	case "recovery_d10_pct":
		return deref(r.RecoveryD10Pct)
	case "recovery_d15_pct":
		return deref(r.RecoveryD15Pct)
	case "gap_recovery_d5_pct":
		return deref(r.GapRecoveryD5Pct)
	case "gap_recovery_d10_pct":
		return deref(r.GapRecoveryD10Pct)
	case "gap_recovery_d15_pct":
		return deref(r.GapRecoveryD15Pct)
	case "days_to_50pct_gap":
		return derefInt(r.DaysTo50PctGap)
	case "days_to_100pct_gap":
		return derefInt(r.DaysTo100PctGap)
	}
	if v, ok := r.Features[name]; ok {
		return v
	}
	return math.NaN()
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func derefInt(p *int) float64 {
	if p == nil {
		return math.NaN()
	}
	return float64(*p)
}
