package php

import (
	"regexp"

	"github.com/codelens/webaudit/inspector/graph"
	"github.com/codelens/webaudit/inspector/scan"
)

var (
	functionRe = regexp.MustCompile(`(?i)\bfunction\s+(\w+)\s*\(([^)]*)\)`)
	classRe    = regexp.MustCompile(`(?i)\bclass\s+(\w+)`)
	paramRe    = regexp.MustCompile(`\$\w+`)
)

// fallback populates file via keyword-adjacent lexical heuristics. Used only
// when the formal tree is unavailable; brace-naive conditional matching
// misidentifies nested blocks.
func fallback(src []byte, file *graph.File) {
	text := string(src)

	for _, match := range functionRe.FindAllStringSubmatch(text, -1) {
		file.AddFunction(&graph.Function{
			Name:   match[1],
			Params: paramRe.FindAllString(match[2], -1),
		})
	}
	for _, match := range classRe.FindAllStringSubmatch(text, -1) {
		file.AddClass(&graph.Class{Name: match[1]})
	}
	for _, query := range scan.QueryLiterals(text) {
		file.AddQuery(query)
	}
	file.Conditionals = append(file.Conditionals, scan.ConditionalQueries(text, file.Path)...)
}
