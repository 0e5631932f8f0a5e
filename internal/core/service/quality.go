// Package service provides the domain services for grcbridge.
package service

import (
	"sort"

	"github.com/veridane/grcbridge/internal/core/domain"
)

// FieldQuality is the population summary for one field alias.
type FieldQuality struct {
	Alias     string  `json:"alias"`
	Populated int     `json:"populated"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// QualityReport summarizes field population across a record sample.
// Used purely for observability, never for control flow.
type QualityReport struct {
	TotalRecords int            `json:"total_records"`
	Fields       []FieldQuality `json:"fields"`
	TopPopulated []string       `json:"top_populated"`
	EmptyFields  []string       `json:"empty_fields"`
}

// AnalyzeQuality computes per-alias populated counts and rates over a
// record sample, surfacing the topN most-populated aliases and the
// fully empty ones.
func AnalyzeQuality(records []domain.RawRecord, topN int) *QualityReport {
	if topN <= 0 {
		topN = DefaultTopN
	}

	total := len(records)
	populated := map[string]int{}
	for _, rec := range records {
		for alias, v := range rec {
			if _, seen := populated[alias]; !seen {
				populated[alias] = 0
			}
			if !v.IsEmpty() {
				populated[alias]++
			}
		}
	}

	fields := make([]FieldQuality, 0, len(populated))
	for alias, count := range populated {
		rate := 0.0
		if total > 0 {
			rate = float64(count) / float64(total)
		}
		fields = append(fields, FieldQuality{
			Alias:     alias,
			Populated: count,
			Total:     total,
			Rate:      rate,
		})
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Rate != fields[j].Rate {
			return fields[i].Rate > fields[j].Rate
		}
		return fields[i].Alias < fields[j].Alias
	})

	report := &QualityReport{
		TotalRecords: total,
		Fields:       fields,
	}
	for _, f := range fields {
		if f.Populated == 0 {
			report.EmptyFields = append(report.EmptyFields, f.Alias)
			continue
		}
		if len(report.TopPopulated) < topN {
			report.TopPopulated = append(report.TopPopulated, f.Alias)
		}
	}
	return report
}
