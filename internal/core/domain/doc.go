// Package domain defines the core domain models for grcbridge.
//
// Domain models are pure value objects and entities without any IO
// dependencies or framework coupling: containers (applications and
// questionnaires), level mappings, field definitions, the dynamic record
// value union, the vendor session lease, and the structured error
// taxonomy shared by every component.
package domain
