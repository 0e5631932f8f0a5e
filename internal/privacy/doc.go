// Package privacy implements the masking engine: the mandatory last
// gate before any record or error leaves the process.
//
// Every leaf value of a record is classified as sensitive or not, first
// by field name (an explicit whitelist of risk-analysis terms always
// wins, then a blacklist of credential/identity terms), then by content
// pattern (email, phone, SSN, card number, GUID, IP, bearer token,
// connection string), then by a personal-name heuristic. Classified
// values are rewritten according to the configured protection level, or
// replaced with opaque tokens when tokenization is enabled.
//
// The classifier cascade is data: an ordered slice of (match, category)
// rules. Adding a sensitive category is a table entry, not a new branch.
package privacy
