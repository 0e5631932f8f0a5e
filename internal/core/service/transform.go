// Package service provides the domain services for grcbridge.
package service

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/veridane/grcbridge/internal/core/domain"
)

// TransformOptions control the re-keying pass.
type TransformOptions struct {
	// IncludeEmpty keeps empty values instead of dropping them.
	IncludeEmpty bool
}

// Transform rewrites raw records from alias keys to display names and
// applies name-directed value formatting.
type Transform struct{}

// NewTransform creates the transformation engine.
func NewTransform() *Transform {
	return &Transform{}
}

// Records transforms a record slice against a field definition set.
func (t *Transform) Records(records []domain.RawRecord, fields []*domain.FieldDefinition, opts TransformOptions) []domain.TransformedRecord {
	names := domain.DisplayNames(fields)
	out := make([]domain.TransformedRecord, len(records))
	for i, rec := range records {
		out[i] = t.Record(rec, names, opts)
	}
	return out
}

// Record transforms one record. An alias with no mapping keeps its key
// unchanged; a field is never dropped for lack of a mapping.
func (t *Transform) Record(rec domain.RawRecord, names map[string]string, opts TransformOptions) domain.TransformedRecord {
	out := make(domain.TransformedRecord, len(rec))
	for alias, v := range rec {
		if v.IsEmpty() && !opts.IncludeEmpty {
			continue
		}

		name := alias
		if display, ok := names[alias]; ok && display != "" {
			name = display
		}

		formatted, omit := formatValue(name, v)
		if omit && !opts.IncludeEmpty {
			continue
		}
		out[name] = formatted
	}
	return out
}

// formatValue applies the classifier cascade to one value. Arrays of
// length zero are omitted entirely, length one unwraps to its scalar
// formatting, longer arrays join their formatted elements.
func formatValue(name string, v domain.Value) (domain.Value, bool) {
	switch v.Kind() {
	case domain.KindArray:
		items := v.Items()
		switch len(items) {
		case 0:
			return domain.Null(), true
		case 1:
			return formatValue(name, items[0])
		default:
			parts := make([]string, 0, len(items))
			for _, item := range items {
				fv, omit := formatValue(name, item)
				if omit {
					continue
				}
				parts = append(parts, fv.Text())
			}
			return domain.String(strings.Join(parts, "; ")), false
		}

	case domain.KindObject:
		return v, false

	default:
		return formatScalar(name, v), false
	}
}

// formatRule is one (name-pattern, formatter) pair of the cascade.
type formatRule struct {
	fragments []string
	apply     func(domain.Value) domain.Value
}

// formatRules is the ordered classifier cascade; first match wins and
// unmatched values pass through unchanged.
var formatRules = []formatRule{
	{[]string{"cost", "budget", "amount", "price", "revenue", "expense", "spend"}, formatFinancial},
	{[]string{"date", "_on", "created", "updated", "due", "deadline", "timestamp", "time"}, formatDateTime},
	{[]string{"description", "notes", "comments", "summary", "details", "narrative"}, formatMarkup},
	{[]string{"percent", "pct", "ratio", "utilization"}, formatPercentage},
	{[]string{"is_", "has_", "flag", "enabled", "approved", "confirmed"}, formatBoolean},
	{[]string{"count", "total", "number_of", "quantity", "qty"}, formatCount},
}

func formatScalar(name string, v domain.Value) domain.Value {
	lower := strings.ToLower(name)
	for _, rule := range formatRules {
		for _, frag := range rule.fragments {
			if strings.Contains(lower, frag) {
				return rule.apply(v)
			}
		}
	}
	return v
}

// formatFinancial renders a numeric value as a currency string.
func formatFinancial(v domain.Value) domain.Value {
	f, ok := asNumber(v)
	if !ok {
		return v
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	whole := strconv.FormatFloat(f, 'f', 2, 64)
	dot := strings.IndexByte(whole, '.')
	return domain.String(sign + "$" + groupDigits(whole[:dot]) + whole[dot:])
}

// dateLayouts are the accepted inbound shapes, most specific first. The
// two output shapes are included so re-formatting is a fixed point.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

func formatDateTime(v domain.Value) domain.Value {
	if v.Kind() != domain.KindString {
		return v
	}
	s := strings.TrimSpace(v.Str())
	for _, layout := range dateLayouts {
		ts, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
			return domain.String(ts.Format("2006-01-02"))
		}
		return domain.String(ts.Format("2006-01-02 15:04"))
	}
	return v
}

var (
	markupTag   = regexp.MustCompile(`<[^>]+>`)
	whitespaces = regexp.MustCompile(`\s+`)
)

// formatMarkup strips embedded HTML and collapses whitespace.
func formatMarkup(v domain.Value) domain.Value {
	if v.Kind() != domain.KindString {
		return v
	}
	s := markupTag.ReplaceAllString(v.Str(), " ")
	s = html.UnescapeString(s)
	s = strings.TrimSpace(whitespaces.ReplaceAllString(s, " "))
	return domain.String(s)
}

// formatPercentage renders a numeric value with a percent sign.
// Fractions at or below one are scaled to percent points.
func formatPercentage(v domain.Value) domain.Value {
	if v.Kind() == domain.KindString && strings.HasSuffix(strings.TrimSpace(v.Str()), "%") {
		return v
	}
	f, ok := asNumber(v)
	if !ok {
		return v
	}
	if f > -1 && f < 1 && f != 0 {
		f *= 100
	}
	return domain.String(strconv.FormatFloat(f, 'f', -1, 64) + "%")
}

func formatBoolean(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindBool:
		if v.Boolean() {
			return domain.String("Yes")
		}
		return domain.String("No")
	case domain.KindNumber:
		if v.Num() == 1 {
			return domain.String("Yes")
		}
		if v.Num() == 0 {
			return domain.String("No")
		}
	case domain.KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str())) {
		case "true", "yes", "y", "1":
			return domain.String("Yes")
		case "false", "no", "n", "0":
			return domain.String("No")
		}
	}
	return v
}

// formatCount renders an integral value with digit grouping.
func formatCount(v domain.Value) domain.Value {
	f, ok := asNumber(v)
	if !ok || f != float64(int64(f)) {
		return v
	}
	n := int64(f)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return domain.String(sign + groupDigits(strconv.FormatInt(n, 10)))
}

// asNumber reads a numeric payload, parsing plain numeric strings too.
func asNumber(v domain.Value) (float64, bool) {
	switch v.Kind() {
	case domain.KindNumber:
		return v.Num(), true
	case domain.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// groupDigits inserts thousands separators into a digit string.
func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
