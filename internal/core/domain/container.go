// Package domain defines the core domain models for grcbridge.
package domain

import (
	"strconv"
	"strings"
)

// ContainerKind distinguishes the two logical record groupings the
// platform exposes.
type ContainerKind string

const (
	KindApplication   ContainerKind = "application"
	KindQuestionnaire ContainerKind = "questionnaire"
)

// ContainerStatus is the activation status of a container.
type ContainerStatus int

const (
	StatusDraft   ContainerStatus = 0
	StatusActive  ContainerStatus = 1
	StatusRetired ContainerStatus = 2
)

// String returns the human-readable status name.
func (s ContainerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusRetired:
		return "retired"
	default:
		return "draft"
	}
}

// Container is a named logical grouping of records: an application or a
// questionnaire. Instances are created by discovery calls and cached for
// the process lifetime; the only post-creation mutation is attaching the
// resolved retrieval path.
type Container struct {
	// ID is the platform's logical identifier for the container.
	ID int `json:"id"`

	// Kind reports whether this is an application or a questionnaire.
	Kind ContainerKind `json:"kind"`

	// Name is the human display name.
	Name string `json:"name"`

	// Alias is the optional short alias.
	Alias string `json:"alias,omitempty"`

	// ExternalID is the immutable external reference id (a GUID).
	ExternalID string `json:"external_id,omitempty"`

	// Status is the activation status.
	Status ContainerStatus `json:"status"`

	// LevelID links the container to the platform's level addressing
	// scheme. Applications and questionnaires carry this under different
	// field names on the wire; the semantics are identical.
	LevelID int `json:"level_id"`

	// Synthesized marks containers reconstructed from a level mapping
	// alone, when the high-level catalog omitted them.
	Synthesized bool `json:"synthesized,omitempty"`

	// Path is the resolved retrieval path, attached once computed.
	Path *RetrievalPath `json:"path,omitempty"`
}

// IsActive reports whether the container accepts retrieval.
func (c *Container) IsActive() bool {
	return c.Status == StatusActive
}

// MatchesExact reports a case-insensitive exact match on name or alias.
func (c *Container) MatchesExact(nameOrAlias string) bool {
	q := strings.ToLower(strings.TrimSpace(nameOrAlias))
	if q == "" {
		return false
	}
	return strings.ToLower(c.Name) == q || (c.Alias != "" && strings.ToLower(c.Alias) == q)
}

// MatchesSubstring reports a bidirectional containment match on name or
// alias: the query contains the candidate or the candidate contains the
// query, case-insensitively.
func (c *Container) MatchesSubstring(nameOrAlias string) bool {
	q := strings.ToLower(strings.TrimSpace(nameOrAlias))
	if q == "" {
		return false
	}
	for _, cand := range []string{strings.ToLower(c.Name), strings.ToLower(c.Alias)} {
		if cand == "" {
			continue
		}
		if strings.Contains(cand, q) || strings.Contains(q, cand) {
			return true
		}
	}
	return false
}

// RetrievalPath is the stable per-container record path.
type RetrievalPath struct {
	// Path is the request path under the content root, e.g.
	// "contentapi/Risk_Register".
	Path string `json:"path"`

	// Verified reports whether the path answered an existence probe.
	// Questionnaire paths start unverified; a failed probe leaves the
	// path usable so the caller can surface the real retrieval error.
	Verified bool `json:"verified"`
}

// LevelMapping is one row of the platform's level table: the addressing
// primitive that yields the retrievable path for a container's records.
// Immutable once fetched.
type LevelMapping struct {
	// ID is the level id.
	ID int `json:"id"`

	// Alias is the literal path segment used for retrieval.
	Alias string `json:"alias"`

	// ModuleID is the owning module id (the container's level linkage).
	ModuleID int `json:"module_id"`

	// ModuleName is the owning module's display name.
	ModuleName string `json:"module_name"`

	// IsDeleted is the platform's soft-delete flag.
	IsDeleted bool `json:"is_deleted"`
}

// MatchesModule reports a bidirectional containment match against the
// mapping's module name or alias.
func (m *LevelMapping) MatchesModule(nameOrAlias string) bool {
	q := strings.ToLower(strings.TrimSpace(nameOrAlias))
	if q == "" {
		return false
	}
	for _, cand := range []string{strings.ToLower(m.ModuleName), strings.ToLower(m.Alias)} {
		if cand == "" {
			continue
		}
		if strings.Contains(cand, q) || strings.Contains(q, cand) {
			return true
		}
	}
	return false
}

// FieldType is the platform's declared field type code.
type FieldType int

// Field type codes observed on the platform. Only the ones the
// transformation engine treats specially are named.
const (
	FieldTypeText        FieldType = 1
	FieldTypeNumeric     FieldType = 2
	FieldTypeDate        FieldType = 3
	FieldTypeValuesList  FieldType = 4
	FieldTypeUsersGroups FieldType = 8
	FieldTypeCrossRef    FieldType = 9
)

// String returns the human-readable type name.
func (t FieldType) String() string {
	switch t {
	case FieldTypeText:
		return "text"
	case FieldTypeNumeric:
		return "numeric"
	case FieldTypeDate:
		return "date"
	case FieldTypeValuesList:
		return "values_list"
	case FieldTypeUsersGroups:
		return "users_groups"
	case FieldTypeCrossRef:
		return "cross_reference"
	default:
		return "type_" + strconv.Itoa(int(t))
	}
}

// FieldDefinition describes one field of a container's records.
type FieldDefinition struct {
	// ID is the field id.
	ID int `json:"id"`

	// Name is the canonical display name.
	Name string `json:"name"`

	// Alias is the key actually present in raw records.
	Alias string `json:"alias"`

	// Type is the declared type code.
	Type FieldType `json:"type"`

	// IsActive reports whether the field is active. Inactive fields are
	// dropped before caching.
	IsActive bool `json:"is_active"`

	// IsCalculated marks platform-computed fields.
	IsCalculated bool `json:"is_calculated"`

	// IsRequired marks mandatory fields.
	IsRequired bool `json:"is_required"`

	// IsKey marks the record key field.
	IsKey bool `json:"is_key"`
}

// DisplayNames builds the alias -> display name mapping for a field set.
func DisplayNames(fields []*FieldDefinition) map[string]string {
	names := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Alias != "" && f.Name != "" {
			names[f.Alias] = f.Name
		}
	}
	return names
}

// ActiveOnly filters a field set to active fields.
func ActiveOnly(fields []*FieldDefinition) []*FieldDefinition {
	active := make([]*FieldDefinition, 0, len(fields))
	for _, f := range fields {
		if f.IsActive {
			active = append(active, f)
		}
	}
	return active
}
