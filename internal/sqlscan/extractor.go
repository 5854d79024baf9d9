// Package sqlscan extracts table references from SQL text by lexical pattern
// matching. It deliberately does not parse SQL: identifiers following FROM,
// JOIN, INTO, and UPDATE are taken as table references, so CTE names,
// derived tables, and table functions can be misidentified as tables. That
// approximation is part of the contract; callers needing scope awareness
// should provide their own domain.TableExtractor.
package sqlscan

import (
	"regexp"
	"strings"

	"snowlens/internal/domain"
)

// A segment is either a double-quoted identifier (internal characters
// preserved) or a bare identifier. Identifiers split only on unquoted dots.
const segment = `(?:"[^"]+"|[A-Za-z_][A-Za-z0-9_$]*)`

var refPattern = regexp.MustCompile(
	`(?i)\b(?:from|join|into|update)\s+(` + segment + `(?:\.` + segment + `){0,2})`)

// Extractor is the lexical implementation of domain.TableExtractor.
type Extractor struct{}

// NewExtractor returns the lexical table-reference extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// Extract returns the distinct table references in sqlText, deduplicated by
// case-folded form. The original casing and the order of first occurrence
// are retained. An empty slice is a valid result, not an error.
func (e *Extractor) Extract(sqlText string) []domain.TableReference {
	matches := refPattern.FindAllStringSubmatch(sqlText, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var refs []domain.TableReference
	for _, m := range matches {
		ref := domain.NewTableReference(splitSegments(m[1])...)
		if len(ref.Segments) == 0 {
			continue
		}
		key := ref.Normalized()
		if seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, ref)
	}
	return refs
}

// splitSegments splits an identifier on unquoted dots and strips the quotes
// from quoted segments.
func splitSegments(ident string) []string {
	var segs []string
	var b strings.Builder
	inQuote := false
	for _, r := range ident {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '.' && !inQuote:
			segs = append(segs, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	segs = append(segs, b.String())
	return segs
}
