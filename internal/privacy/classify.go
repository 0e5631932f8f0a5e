// Package privacy implements the masking engine.
package privacy

import (
	"regexp"
	"strings"
)

// Category tags what kind of sensitive content was detected.
type Category string

const (
	CategoryNone             Category = ""
	CategoryCredential       Category = "CREDENTIAL"
	CategoryEmail            Category = "EMAIL"
	CategoryPhone            Category = "PHONE"
	CategorySSN              Category = "SSN"
	CategoryCreditCard       Category = "CREDIT_CARD"
	CategoryGUID             Category = "GUID"
	CategoryIPAddress        Category = "IP_ADDRESS"
	CategoryBearerToken      Category = "BEARER_TOKEN"
	CategoryConnectionString Category = "CONNECTION_STRING"
	CategoryName             Category = "NAME"
	CategoryAccount          Category = "ACCOUNT"
	CategoryGeneric          Category = "SENSITIVE"
)

// Class is the outcome of classifying one field.
type Class struct {
	Sensitive   bool
	Whitelisted bool
	Category    Category
}

// whitelistFragments are field-name fragments that are never masked:
// risk-relevant numeric and categorical fields must stay usable by
// downstream analysis even under strict protection.
var whitelistFragments = []string{
	"risk_score", "risk score", "riskscore",
	"severity", "criticality", "priority",
	"likelihood", "impact", "rating", "score",
	"status", "state", "classification", "category", "tier",
}

// blacklistFragments map field-name fragments to the category reported
// when the name alone marks a field sensitive.
var blacklistFragments = []struct {
	fragment string
	category Category
}{
	{"password", CategoryCredential},
	{"passphrase", CategoryCredential},
	{"secret", CategoryCredential},
	{"credential", CategoryCredential},
	{"api_key", CategoryCredential},
	{"apikey", CategoryCredential},
	{"token", CategoryBearerToken},
	{"private_key", CategoryCredential},
	{"ssn", CategorySSN},
	{"social_security", CategorySSN},
	{"account", CategoryAccount},
	{"salary", CategoryAccount},
	{"compensation", CategoryAccount},
	{"email", CategoryEmail},
	{"phone", CategoryPhone},
	{"mobile", CategoryPhone},
	{"contact", CategoryName},
	{"owner", CategoryName},
	{"manager", CategoryName},
	{"assignee", CategoryName},
	{"name", CategoryName},
	{"key", CategoryCredential},
}

// contentRule is one (pattern, category) pair of the content cascade.
type contentRule struct {
	category Category
	pattern  *regexp.Regexp
}

// contentRules is the ordered content-pattern cascade; first hit wins.
var contentRules = []contentRule{
	{CategoryConnectionString, regexp.MustCompile(`(?i)\b(?:password|pwd|user id|uid)\s*=\s*[^;\s]+`)},
	{CategoryBearerToken, regexp.MustCompile(`(?i)\b(?:bearer\s+[A-Za-z0-9\-._~+/]{16,}=*|eyJ[A-Za-z0-9\-_]{10,}\.[A-Za-z0-9\-_]{10,}\.[A-Za-z0-9\-_]*)`)},
	{CategoryEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)},
	{CategorySSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{CategoryCreditCard, regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)},
	{CategoryGUID, regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)},
	{CategoryIPAddress, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
	{CategoryPhone, regexp.MustCompile(`(?:\+?1[ .\-]?)?\(?\d{3}\)?[ .\-]\d{3}[ .\-]\d{4}\b`)},
}

// personName matches "Last, First", "First Last", and "First M. Last"
// shapes of capitalized tokens.
var personName = regexp.MustCompile(`^(?:[A-Z][a-z]+,\s+[A-Z][a-z]+|[A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)$`)

// Classifier evaluates the classification cascade for a masking
// configuration. Custom field-name patterns extend the blacklist.
type Classifier struct {
	custom []string
}

// NewClassifier builds a classifier with the given custom patterns.
func NewClassifier(customPatterns []string) *Classifier {
	custom := make([]string, 0, len(customPatterns))
	for _, p := range customPatterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			custom = append(custom, p)
		}
	}
	return &Classifier{custom: custom}
}

// Field classifies a field by name and string content.
//
// Order: whitelist, name blacklist, content patterns, name heuristic.
// First hit wins; the whitelist overrides everything, including a
// content pattern match.
func (c *Classifier) Field(fieldName, value string) Class {
	name := strings.ToLower(strings.TrimSpace(fieldName))

	if name != "" {
		for _, frag := range whitelistFragments {
			if strings.Contains(name, frag) {
				return Class{Whitelisted: true}
			}
		}

		for _, p := range c.custom {
			if strings.Contains(name, p) {
				return Class{Sensitive: true, Category: CategoryGeneric}
			}
		}
		for _, b := range blacklistFragments {
			if strings.Contains(name, b.fragment) {
				return Class{Sensitive: true, Category: b.category}
			}
		}
	}

	return c.Content(value)
}

// Content classifies a bare string value by content alone.
func (c *Classifier) Content(value string) Class {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Class{}
	}

	for _, rule := range contentRules {
		if rule.pattern.MatchString(trimmed) {
			return Class{Sensitive: true, Category: rule.category}
		}
	}

	if personName.MatchString(trimmed) {
		return Class{Sensitive: true, Category: CategoryName}
	}

	return Class{}
}
