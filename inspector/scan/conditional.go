package scan

import (
	"regexp"
	"strings"

	"github.com/codelens/webaudit/inspector/graph"
	"github.com/codelens/webaudit/inspector/sqlnorm"
)

// ElseTag marks a variant found in the else arm of a branch.
const ElseTag = "else"

var (
	ifBlockRe   = regexp.MustCompile(`(?s)\bif\s*\(([^)]*)\)\s*\{(.*?)\}(?:\s*else\s*\{(.*?)\})?`)
	assignLitRe = regexp.MustCompile(`(?s)\$\w+\s*=\s*(?:'([^']*)'|"([^"]*)")\s*;`)
)

// ConditionalQueries extracts query literals assigned inside if/else bodies,
// tagging each with its branch condition. The matching is single-level and
// brace-naive: nested blocks are not guaranteed to match correctly. This is
// the fallback extractor only; the syntax-tree visitor is the canonical
// implementation for nested conditions.
func ConditionalQueries(text, file string) []graph.ConditionalQueryVariant {
	var variants []graph.ConditionalQueryVariant
	for _, block := range ifBlockRe.FindAllStringSubmatch(text, -1) {
		condition := strings.TrimSpace(block[1])
		variants = append(variants, bodyVariants(block[2], condition, file)...)
		if block[3] != "" {
			variants = append(variants, bodyVariants(block[3], ElseTag, file)...)
		}
	}
	return variants
}

// QueryLiterals extracts every string-literal assignment carrying SQL as a
// normalized query, in source order.
func QueryLiterals(text string) []graph.NormalizedQuery {
	var queries []graph.NormalizedQuery
	for _, assign := range assignLitRe.FindAllStringSubmatch(text, -1) {
		literal := assign[1]
		if literal == "" {
			literal = assign[2]
		}
		if !sqlnorm.ContainsSQL(literal) {
			continue
		}
		queries = append(queries, sqlnorm.Parse(literal))
	}
	return queries
}

func bodyVariants(body, condition, file string) []graph.ConditionalQueryVariant {
	var variants []graph.ConditionalQueryVariant
	for _, assign := range assignLitRe.FindAllStringSubmatch(body, -1) {
		literal := assign[1]
		if literal == "" {
			literal = assign[2]
		}
		if !sqlnorm.ContainsSQL(literal) {
			continue
		}
		variants = append(variants, graph.ConditionalQueryVariant{
			Conditions: []string{condition},
			Query:      sqlnorm.Parse(literal),
			File:       file,
		})
	}
	return variants
}
