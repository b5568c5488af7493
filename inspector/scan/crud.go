// Package scan holds the lexical pattern extractors: CRUD-table extraction,
// external-access extraction and conditional-query extraction. Each extractor
// is a pure function over raw text, independent of the others.
package scan

import (
	"regexp"
	"strings"

	"github.com/codelens/webaudit/inspector/graph"
)

// Four independent families, one per operation. The capture is the first
// whitespace/semicolon-delimited token after the keyword.
var crudPatterns = []struct {
	op graph.CrudOp
	re *regexp.Regexp
}{
	{graph.OpSelect, regexp.MustCompile(`(?is)\bSELECT\b[^;]*?\bFROM\s+([^\s;]+)`)},
	{graph.OpInsert, regexp.MustCompile(`(?i)\bINSERT\s+INTO\s+([^\s;(]+)`)},
	{graph.OpUpdate, regexp.MustCompile(`(?i)\bUPDATE\s+([^\s;]+)`)},
	{graph.OpDelete, regexp.MustCompile(`(?i)\bDELETE\s+FROM\s+([^\s;]+)`)},
}

// Crud extracts every (table, operation) fact from raw text. Duplicate
// matches across statements are all recorded; deduplication is a reporting
// concern, not an extraction concern.
func Crud(text string) []graph.CrudRecord {
	var records []graph.CrudRecord
	for _, pattern := range crudPatterns {
		for _, match := range pattern.re.FindAllStringSubmatch(text, -1) {
			table := strings.TrimSpace(strings.Trim(match[1], "`'\""))
			if table == "" {
				continue
			}
			records = append(records, graph.CrudRecord{Table: table, Op: pattern.op})
		}
	}
	return records
}
