// Package report renders revision graphs, query results and scan problems for
// a terminal, and exports positioned graphs as YAML or JSON documents.
//
// Terminal output is styled with lipgloss using the configured color scheme.
// The color profile is detected from the destination writer, so output to a
// pipe or a buffer is plain text.
package report
