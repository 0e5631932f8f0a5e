// Package output renders grcbridge-cli command results.
//
// NewFormatter picks the renderer for the requested format: aligned
// text tables (with an optional wide column set), indented JSON, or
// YAML. Table columns come from struct fields, honoring `table:"-"`
// and `table:"wide"` tags. A Spinner animates long-running fetches on
// interactive terminals.
package output
