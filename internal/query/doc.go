// Package query answers read-only questions about a laid-out revision graph:
// fuzzy search, inclusive date-range filtering and transitive relationships.
//
// An Engine never mutates the graph it wraps; every result is a fresh slice
// of node copies.
package query
