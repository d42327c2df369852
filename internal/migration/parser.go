package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// revision = "abc" and revision: str = "abc"
	revisionRe = regexp.MustCompile(`(?m)^revision[ \t]*(?::[^=\n]*)?=[ \t]*(?:'([^'\n]+)'|"([^"\n]+)")`)
	// The value is read by scanRevisionList since tuples may span lines.
	downRevisionRe = regexp.MustCompile(`(?m)^down_revision[ \t]*(?::[^=\n]*)?=`)
	branchLabelsRe = regexp.MustCompile(`(?m)^branch_labels[ \t]*(?::[^=\n]*)?=`)
	docstringRe    = regexp.MustCompile(`(?s)\A\s*(?:#[^\n]*\n\s*)*[rRuU]?(?:"""(.*?)"""|'''(.*?)''')`)
	createDateRe   = regexp.MustCompile(`(?m)Create Date:[ \t]*(.*?)[ \t]*$`)
	commentRe      = regexp.MustCompile(`(?m)\A(?:[ \t]*\n)*#[ \t]*([^\n]*)`)
)

// headerPrefixes are docstring lines that describe the revision rather than
// summarize it.
var headerPrefixes = []string{"Revision ID:", "Revises:", "Create Date:"}

// ParseFile reads the file at path and parses it. Every failure, including an
// unreadable file, is returned as a *ParseError.
func ParseFile(path string) (Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Record{}, newParseError(path, err)
	}
	return Parse(path, content)
}

// Parse extracts a Record from the content of a migration file. It has no side
// effects; path is only recorded and used for the message fallback.
func Parse(path string, content []byte) (Record, error) {
	if !utf8.Valid(content) {
		return Record{}, newParseError(path, ErrNotText)
	}
	text := string(content)

	m := revisionRe.FindStringSubmatch(text)
	if m == nil {
		return Record{}, newParseError(path, ErrNoRevision)
	}
	rec := Record{
		Revision: strings.TrimSpace(m[1] + m[2]),
		Path:     path,
	}
	if rec.Revision == "" {
		return Record{}, newParseError(path, ErrNoRevision)
	}

	if loc := downRevisionRe.FindStringIndex(text); loc != nil {
		parents, err := scanRevisionList(text[loc[1]:])
		if err != nil {
			return Record{}, newParseError(path, fmt.Errorf("%w: %v", ErrMalformedParents, err))
		}
		rec.Parents = dedupe(parents)
	}

	if loc := branchLabelsRe.FindStringIndex(text); loc != nil {
		// Labels are informative; an unreadable declaration is ignored.
		if labels, err := scanRevisionList(text[loc[1]:]); err == nil {
			rec.BranchLabels = dedupe(labels)
		}
	}

	rec.Message = extractMessage(path, text)

	if dm := createDateRe.FindStringSubmatch(text); dm != nil {
		rec.Date = ParseDate(dm[1])
	}

	return rec, nil
}

func extractMessage(path, text string) string {
	if m := docstringRe.FindStringSubmatch(text); m != nil {
		body := m[1] + m[2]
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || isHeaderLine(line) {
				continue
			}
			return line
		}
	}
	if m := commentRe.FindStringSubmatch(text); m != nil {
		line := strings.TrimSpace(m[1])
		if line != "" && !strings.HasPrefix(line, "!") && !strings.Contains(line, "-*-") {
			return line
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isHeaderLine(line string) bool {
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// scanRevisionList interprets the right-hand side of a revision assignment.
// It accepts None, a quoted string, or a tuple/list of quoted strings which may
// span several lines and contain comments.
func scanRevisionList(expr string) ([]string, error) {
	expr = strings.TrimLeft(expr, " \t")
	if expr == "" || expr[0] == '\n' || expr[0] == '\r' || expr[0] == '#' {
		return nil, fmt.Errorf("missing value")
	}
	switch c := expr[0]; {
	case hasKeyword(expr, "None"):
		if err := expectLineEnd(expr[len("None"):]); err != nil {
			return nil, err
		}
		return nil, nil
	case c == '\'' || c == '"':
		s, rest, err := readQuoted(expr)
		if err != nil {
			return nil, err
		}
		if err := expectLineEnd(rest); err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	case c == '(' || c == '[':
		return readSequence(expr)
	default:
		return nil, fmt.Errorf("unsupported value %q", firstLine(expr))
	}
}

// readQuoted reads a single- or double-quoted string at the start of s. Revision
// identifiers never contain escapes, so none are interpreted.
func readQuoted(s string) (string, string, error) {
	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case quote:
			return s[1:i], s[i+1:], nil
		case '\n':
			return "", "", fmt.Errorf("unterminated string %q", firstLine(s))
		}
	}
	return "", "", fmt.Errorf("unterminated string %q", firstLine(s))
}

func readSequence(s string) ([]string, error) {
	closer := byte(')')
	if s[0] == '[' {
		closer = ']'
	}
	var (
		items     []string
		needComma bool
	)
	i := 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == closer:
			if err := expectLineEnd(s[i+1:]); err != nil {
				return nil, err
			}
			return items, nil
		case c == ',':
			if !needComma {
				return nil, fmt.Errorf("unexpected ',' in sequence")
			}
			needComma = false
			i++
		case c == '\'' || c == '"':
			if needComma {
				return nil, fmt.Errorf("missing ',' between items")
			}
			v, rest, err := readQuoted(s[i:])
			if err != nil {
				return nil, err
			}
			if v != "" {
				items = append(items, v)
			}
			i = len(s) - len(rest)
			needComma = true
		default:
			return nil, fmt.Errorf("unsupported sequence item %q", firstLine(s[i:]))
		}
	}
	return nil, fmt.Errorf("unterminated sequence")
}

// expectLineEnd accepts trailing whitespace and an optional comment.
func expectLineEnd(rest string) error {
	line := strings.TrimSpace(firstLine(rest))
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	return fmt.Errorf("unexpected trailing text %q", line)
}

func hasKeyword(s, kw string) bool {
	if !strings.HasPrefix(s, kw) {
		return false
	}
	if len(s) == len(kw) {
		return true
	}
	c := s[len(kw)]
	return !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
