package scan

import (
	"regexp"
	"strings"

	"github.com/codelens/webaudit/inspector/graph"
)

// Independent channel detectors, applied in fixed order.
var externalPatterns = []struct {
	kind graph.ExternalAccessKind
	re   *regexp.Regexp
}{
	{graph.AccessAPICall, regexp.MustCompile(`\bfetch\s*\(\s*['"]([^'"]+)['"]`)},
	{graph.AccessAPICall, regexp.MustCompile(`\baxios\.(?:get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`)},
	{graph.AccessAPICall, regexp.MustCompile(`\$\.ajax\s*\(\s*\{[^}]*?url\s*:\s*['"]([^'"]+)['"]`)},
	{graph.AccessAPICall, regexp.MustCompile(`\.open\s*\(\s*['"](?:GET|POST|PUT|DELETE|PATCH)['"]\s*,\s*['"]([^'"]+)['"]`)},
	{graph.AccessExternalLink, regexp.MustCompile(`(?i)<a\s+[^>]*href\s*=\s*["'](https?://[^"']+)["']`)},
	{graph.AccessFormSubmit, regexp.MustCompile(`(?i)<form\s+[^>]*action\s*=\s*["'](https?://[^"']+)["']`)},
	{graph.AccessIframeEmbed, regexp.MustCompile(`(?i)<iframe\s+[^>]*src\s*=\s*["']([^"']+)["']`)},
	{graph.AccessRedirect, regexp.MustCompile(`(?:window\.|document\.)?location(?:\.href)?\s*=\s*['"]([^'"]+)['"]`)},
	{graph.AccessWindowOpen, regexp.MustCompile(`window\.open\s*\(\s*['"]([^'"]+)['"]`)},
}

// External extracts outward network/navigation references from raw text:
// API calls, absolute links and form targets, frames, redirects and popups.
func External(text string) []graph.ExternalAccessRecord {
	var records []graph.ExternalAccessRecord
	for _, pattern := range externalPatterns {
		for _, match := range pattern.re.FindAllStringSubmatch(text, -1) {
			target := match[1]
			records = append(records, graph.ExternalAccessRecord{
				Kind:   pattern.kind,
				Target: target,
				Line:   lineOf(text, target),
			})
		}
	}
	return records
}

// lineOf reports the line of the first occurrence of the target substring.
// Best-effort: a target repeated earlier in the file wins.
func lineOf(text, target string) int {
	idx := strings.Index(text, target)
	if idx < 0 {
		return 0
	}
	return strings.Count(text[:idx], "\n") + 1
}
