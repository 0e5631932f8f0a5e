// Package privacy implements the masking engine.
package privacy

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/veridane/grcbridge/internal/core/domain"
)

// maskRun is the fixed-length run substituted for hidden characters.
const maskRun = "****"

// Protector applies the configured masking policy to values and errors.
type Protector struct {
	cfg        Config
	classifier *Classifier
	store      *TokenStore
	observe    func(Category)
}

// NewProtector creates a Protector for the given configuration. The
// token store may be nil when tokenization is disabled.
func NewProtector(cfg Config, store *TokenStore) *Protector {
	if cfg.Level == "" {
		cfg.Level = LevelModerate
	}
	return &Protector{
		cfg:        cfg,
		classifier: NewClassifier(cfg.CustomPatterns),
		store:      store,
	}
}

// Config returns the protector's configuration.
func (p *Protector) Config() Config {
	return p.cfg
}

// Observe registers a callback invoked once per masked value, with the
// detected category. Used for metrics.
func (p *Protector) Observe(fn func(Category)) {
	p.observe = fn
}

// Value applies the masking policy to one value, recursively through
// arrays and nested objects. fieldName is the name under which the
// value appears; nested object keys override it for their subtrees.
func (p *Protector) Value(v domain.Value, fieldName string) domain.Value {
	if !p.cfg.Enabled {
		return v
	}

	switch v.Kind() {
	case domain.KindArray:
		items := v.Items()
		masked := make([]domain.Value, len(items))
		for i, item := range items {
			masked[i] = p.Value(item, fieldName)
		}
		return domain.Array(masked)

	case domain.KindObject:
		fields := v.Fields()
		masked := make(map[string]domain.Value, len(fields))
		for k, item := range fields {
			masked[k] = p.Value(item, k)
		}
		return domain.Object(masked)

	case domain.KindNull:
		return v

	default:
		return p.scalar(v, fieldName)
	}
}

// Record masks every field of a transformed record.
func (p *Protector) Record(rec domain.TransformedRecord) domain.TransformedRecord {
	if !p.cfg.Enabled {
		return rec
	}
	masked := make(domain.TransformedRecord, len(rec))
	for name, v := range rec {
		masked[name] = p.Value(v, name)
	}
	return masked
}

// Records masks a record slice.
func (p *Protector) Records(recs []domain.TransformedRecord) []domain.TransformedRecord {
	if !p.cfg.Enabled {
		return recs
	}
	masked := make([]domain.TransformedRecord, len(recs))
	for i, rec := range recs {
		masked[i] = p.Record(rec)
	}
	return masked
}

// scalar classifies and rewrites one scalar value.
func (p *Protector) scalar(v domain.Value, fieldName string) domain.Value {
	text := v.Text()
	class := p.classifier.Field(fieldName, text)
	if class.Whitelisted || !class.Sensitive {
		return v
	}
	if p.observe != nil {
		p.observe(class.Category)
	}

	if p.cfg.Tokenize && p.store != nil {
		context := string(class.Category)
		if context == "" {
			context = fieldName
		}
		if tok, err := p.store.Tokenize(text, context); err == nil {
			return domain.String(tok)
		}
		// Tokenization failure must not leak the value: fall through to
		// the strongest character mask.
		return domain.String(replacementToken(class.Category))
	}

	return domain.String(p.maskText(text, class.Category))
}

// maskText rewrites a sensitive string according to the protection level.
func (p *Protector) maskText(text string, category Category) string {
	switch p.cfg.Level {
	case LevelLight:
		return maskLight(text, category)
	case LevelStrict:
		return replacementToken(category)
	default:
		return maskModerate(text, category)
	}
}

// maskLight keeps a short prefix visible; for emails the domain stays
// readable.
func maskLight(text string, category Category) string {
	if category == CategoryEmail {
		if local, dom, ok := splitEmail(text); ok {
			return runePrefix(local, 1) + maskRun + "@" + dom
		}
	}
	if utf8.RuneCountInString(text) <= 3 {
		return maskRun
	}
	return runePrefix(text, 2) + maskRun
}

// maskModerate keeps less: no local characters for emails, only the
// last four digits for account-shaped numbers, one leading character
// otherwise.
func maskModerate(text string, category Category) string {
	switch category {
	case CategoryEmail:
		if _, dom, ok := splitEmail(text); ok {
			return maskRun + "@" + dom
		}
	case CategoryAccount, CategoryCreditCard, CategorySSN, CategoryPhone:
		digits := digitsOf(text)
		if len(digits) >= 4 {
			return maskRun + digits[len(digits)-4:]
		}
	}
	if utf8.RuneCountInString(text) <= 2 {
		return maskRun
	}
	return runePrefix(text, 1) + maskRun
}

// runePrefix returns the first n runes of text, never splitting a
// multi-byte character.
func runePrefix(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// replacementToken is the strict-level category-labeled token.
func replacementToken(category Category) string {
	if category == "" {
		category = CategoryGeneric
	}
	return "[MASKED_" + string(category) + "]"
}

func splitEmail(text string) (local, dom string, ok bool) {
	at := strings.LastIndex(text, "@")
	if at <= 0 || at == len(text)-1 {
		return "", "", false
	}
	return text[:at], text[at+1:], true
}

func digitsOf(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ============================================================================
// Error protection
// ============================================================================

// transportArtifacts are rewrites applied to error text before any
// content-pattern pass: authorization headers and embedded credentials
// must never survive an error message.
var transportArtifacts = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`(?i)(authorization:?\s*)(?:GRC\s+)?\S+`), "${1}[MASKED]"},
	{regexp.MustCompile(`(?i)(session-id=)\S+`), "${1}[MASKED]"},
	{regexp.MustCompile(`(?i)\b(password|pwd|user id|uid)(\s*=\s*)[^;\s]+`), "${1}${2}[MASKED]"},
	{regexp.MustCompile(`(?i)\b(bearer\s+)[A-Za-z0-9\-._~+/]+=*`), "${1}[MASKED]"},
}

// Error returns a caller-safe rendition of err: same category and code,
// message and details scrubbed of credentials and sensitive fragments.
// The raw cause chain is cut so transport internals cannot leak.
func (p *Protector) Error(err error) error {
	if err == nil || !p.cfg.Enabled {
		return err
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return &domain.NotFoundError{
			Err:            nf.Err,
			Requested:      p.scrub(nf.Requested),
			AvailableNames: nf.AvailableNames,
		}
	}

	var re *domain.RetrievalError
	if errors.As(err, &re) {
		masked := &domain.RetrievalError{Err: re.Err, Path: re.Path}
		if re.Cause != nil {
			masked.Cause = errors.New(p.scrub(re.Cause.Error()))
		}
		return masked
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return &domain.Error{
			Code:    de.Code,
			Message: p.scrub(de.Message),
			Details: p.scrub(de.Details),
		}
	}

	return errors.New(p.scrub(err.Error()))
}

// scrub rewrites transport artifacts, then applies the content cascade
// with strict category tokens regardless of the configured level: error
// text is never worth a partial reveal.
func (p *Protector) scrub(text string) string {
	if text == "" {
		return text
	}

	for _, a := range transportArtifacts {
		text = a.pattern.ReplaceAllString(text, a.replace)
	}

	for _, rule := range contentRules {
		text = rule.pattern.ReplaceAllString(text, replacementToken(rule.category))
	}

	return text
}
