// Package sqlnorm canonicalizes raw SQL text and derives referenced table names.
package sqlnorm

import (
	"regexp"
	"strings"

	"github.com/codelens/webaudit/inspector/graph"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	lineCommentRe  = regexp.MustCompile(`(?m)--.*$`)
	blockCommentRe = regexp.MustCompile(`/\*.*?\*/`)
	keywordRe      = regexp.MustCompile(`(?i)\b(select|from|where|insert|into|values|update|set|delete|join)\b`)

	fromRe   = regexp.MustCompile("(?i)\\bFROM\\s+[`\"]?([\\w.]+)[`\"]?")
	joinRe   = regexp.MustCompile("(?i)\\bJOIN\\s+[`\"]?([\\w.]+)[`\"]?")
	updateRe = regexp.MustCompile("(?i)\\bUPDATE\\s+[`\"]?([\\w.]+)[`\"]?")
	intoRe   = regexp.MustCompile("(?i)\\bINTO\\s+[`\"]?([\\w.]+)[`\"]?")

	sqlHintRe = regexp.MustCompile(`(?i)\b(select\s+[\s\S]+\bfrom\b|insert\s+into\b|update\s+\S+\s+set\b|delete\s+from\b)`)
)

// Normalize canonicalizes raw SQL: whitespace runs collapse to single
// spaces, comments are stripped, a fixed keyword list is upper-cased and a
// single trailing statement terminator is removed. Normalize is idempotent.
func Normalize(raw string) string {
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	text = lineCommentRe.ReplaceAllString(text, "")
	text = blockCommentRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	text = keywordRe.ReplaceAllStringFunc(text, strings.ToUpper)
	text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
	return text
}

// ExtractTables derives the distinct table names referenced by normalized
// SQL, in first-seen order: the FROM clause target, every JOIN target, the
// UPDATE target and the INTO target, backtick and quote stripped.
func ExtractTables(sql string) []string {
	seen := make(map[string]bool)
	var tables []string
	add := func(name string) {
		name = strings.Trim(name, "`\"'")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		tables = append(tables, name)
	}

	if match := fromRe.FindStringSubmatch(sql); len(match) > 1 {
		add(match[1])
	}
	for _, match := range joinRe.FindAllStringSubmatch(sql, -1) {
		add(match[1])
	}
	if match := updateRe.FindStringSubmatch(sql); len(match) > 1 {
		add(match[1])
	}
	if match := intoRe.FindStringSubmatch(sql); len(match) > 1 {
		add(match[1])
	}
	return tables
}

// ContainsSQL reports whether a string literal looks like a SQL statement.
func ContainsSQL(text string) bool {
	return sqlHintRe.MatchString(text)
}

// Parse normalizes raw SQL text and bundles it with its table set.
func Parse(raw string) graph.NormalizedQuery {
	text := Normalize(raw)
	return graph.NormalizedQuery{Text: text, Tables: ExtractTables(text)}
}
