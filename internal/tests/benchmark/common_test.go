package benchmark

import (
	"fmt"
	"testing"

	"github.com/veridane/grcbridge/internal/core/domain"
)

// RecordCounts defines the record counts for benchmarking.
var RecordCounts = []int{100, 500, 1000, 5000}

// SmallRecordCounts for quick benchmarks.
var SmallRecordCounts = []int{100, 500}

// makeRecord builds one transformed record with a mix of sensitive and
// plain fields, as retrieval produces them.
func makeRecord(i int) domain.TransformedRecord {
	return domain.TransformedRecord{
		"Risk ID":       domain.String(fmt.Sprintf("RR-%03d", i)),
		"Title":         domain.String(fmt.Sprintf("Risk item %d", i)),
		"Owner Email":   domain.String(fmt.Sprintf("owner%d@corp.example", i)),
		"Owner Phone":   domain.String("+1 555-0100"),
		"Severity":      domain.Number(float64(i%100) / 10),
		"Open":          domain.Bool(i%3 != 0),
		"Description":   domain.String("Contact jane.doe@corp.example for details on SSN 123-45-6789."),
		"Review Status": domain.String("pending"),
	}
}

// makeRecords builds a batch of records.
func makeRecords(count int) []domain.TransformedRecord {
	records := make([]domain.TransformedRecord, count)
	for i := range records {
		records[i] = makeRecord(i)
	}
	return records
}

// runWithRecordCounts runs a benchmark function with various record counts.
func runWithRecordCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("records_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
