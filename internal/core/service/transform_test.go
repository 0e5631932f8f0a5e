// Package service provides the domain services for grcbridge.
package service

import (
	"reflect"
	"testing"

	"github.com/veridane/grcbridge/internal/core/domain"
)

func riskFields() []*domain.FieldDefinition {
	return []*domain.FieldDefinition{
		{ID: 1, Name: "Risk ID", Alias: "Id", IsActive: true, IsKey: true},
		{ID: 2, Name: "Title", Alias: "Title", IsActive: true},
		{ID: 3, Name: "Risk Score", Alias: "Risk_Score", IsActive: true},
		{ID: 4, Name: "Remediation Cost", Alias: "Rem_Cost", IsActive: true},
	}
}

func TestTransform_ReKeying(t *testing.T) {
	tr := NewTransform()

	rec := domain.RawRecord{
		"Id":         domain.String("RR-001"),
		"Risk_Score": domain.Number(8.5),
		"Unmapped":   domain.String("kept as-is"),
	}
	got := tr.Record(rec, domain.DisplayNames(riskFields()), TransformOptions{})

	if got["Risk ID"].Text() != "RR-001" {
		t.Errorf("Risk ID = %q", got["Risk ID"].Text())
	}
	if got["Risk Score"].Num() != 8.5 {
		t.Errorf("Risk Score = %v", got["Risk Score"])
	}
	// No mapping never drops a field.
	if got["Unmapped"].Text() != "kept as-is" {
		t.Errorf("Unmapped = %q", got["Unmapped"].Text())
	}
}

func TestTransform_EmptyDropUnlessRequested(t *testing.T) {
	tr := NewTransform()
	names := domain.DisplayNames(riskFields())

	rec := domain.RawRecord{
		"Id":    domain.String("RR-001"),
		"Title": domain.String(""),
	}

	got := tr.Record(rec, names, TransformOptions{})
	if _, ok := got["Title"]; ok {
		t.Error("empty Title should be dropped by default")
	}

	kept := tr.Record(rec, names, TransformOptions{IncludeEmpty: true})
	if _, ok := kept["Title"]; !ok {
		t.Error("IncludeEmpty should keep the empty Title")
	}
}

func TestTransform_Formatting(t *testing.T) {
	tests := []struct {
		name  string
		field string
		in    domain.Value
		want  string
	}{
		{"financial", "Remediation Cost", domain.Number(1234567.5), "$1,234,567.50"},
		{"financial negative", "Annual Budget", domain.Number(-950), "-$950.00"},
		{"date only", "Due Date", domain.String("2026-03-01T00:00:00Z"), "2026-03-01"},
		{"date with time", "Created On", domain.String("2026-03-01T14:30:00Z"), "2026-03-01 14:30"},
		{"us date", "Review Date", domain.String("03/01/2026"), "2026-03-01"},
		{"markup", "Description", domain.String("<p>Key &amp; critical\n\n finding</p>"), "Key & critical finding"},
		{"percentage fraction", "Completion Percent", domain.Number(0.425), "42.5%"},
		{"percentage points", "Utilization", domain.Number(87.5), "87.5%"},
		{"boolean true", "Is_Accepted", domain.Bool(true), "Yes"},
		{"boolean string", "Approved Flag", domain.String("false"), "No"},
		{"count", "Finding Count", domain.Number(12345), "12,345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, omit := formatValue(tt.field, tt.in)
			if omit {
				t.Fatal("value unexpectedly omitted")
			}
			if got.Text() != tt.want {
				t.Errorf("formatValue(%q, %v) = %q, want %q", tt.field, tt.in.Text(), got.Text(), tt.want)
			}
		})
	}
}

func TestTransform_UnmatchedPassesThrough(t *testing.T) {
	got, _ := formatValue("Severity", domain.String("High"))
	if got.Text() != "High" {
		t.Errorf("unmatched value changed: %q", got.Text())
	}

	num, _ := formatValue("Risk Score", domain.Number(8.5))
	if num.Kind() != domain.KindNumber {
		t.Error("unmatched numeric value should stay numeric")
	}
}

func TestTransform_ArrayRules(t *testing.T) {
	t.Run("empty omitted", func(t *testing.T) {
		_, omit := formatValue("Tags", domain.Array(nil))
		if !omit {
			t.Error("empty array should be omitted")
		}
	})

	t.Run("single unwrapped", func(t *testing.T) {
		got, omit := formatValue("Finding Count", domain.Array([]domain.Value{domain.Number(1234)}))
		if omit || got.Text() != "1,234" {
			t.Errorf("single-element array = %q, omit=%v", got.Text(), omit)
		}
	})

	t.Run("many joined", func(t *testing.T) {
		got, _ := formatValue("Owners", domain.Array([]domain.Value{
			domain.String("First"),
			domain.String("Second"),
			domain.String("Third"),
		}))
		if got.Text() != "First; Second; Third" {
			t.Errorf("joined = %q", got.Text())
		}
	})
}

func TestTransform_Idempotent(t *testing.T) {
	tr := NewTransform()
	names := domain.DisplayNames(riskFields())

	rec := domain.RawRecord{
		"Id":         domain.String("RR-001"),
		"Rem_Cost":   domain.Number(1250.5),
		"Title":      domain.String("Perimeter gap"),
		"Risk_Score": domain.Number(9),
	}

	once := tr.Record(rec, names, TransformOptions{})

	// Feed the transformed record back in: keys are display names, no
	// alias matches, everything passes through unchanged.
	raw := make(domain.RawRecord, len(once))
	for k, v := range once {
		raw[k] = v
	}
	twice := tr.Record(raw, names, TransformOptions{})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("transform not idempotent:\nonce  %v\ntwice %v", once, twice)
	}
}

func TestTransform_Records(t *testing.T) {
	tr := NewTransform()

	records := []domain.RawRecord{
		{"Id": domain.String("RR-001")},
		{"Id": domain.String("RR-002")},
	}
	got := tr.Records(records, riskFields(), TransformOptions{})
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	if got[1]["Risk ID"].Text() != "RR-002" {
		t.Errorf("second record = %v", got[1])
	}
}
