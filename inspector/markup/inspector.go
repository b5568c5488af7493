// Package markup inspects the markup dialect with a DOM walk: link, form,
// script, image and frame references, plus re-scanning of inline script.
package markup

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/codelens/webaudit/inspector/graph"
	"github.com/codelens/webaudit/inspector/scan"
)

// phpIslandRe matches server-side script islands embedded in markup. The
// DOM parser sees them as comment nodes, so they are lifted from raw text.
var phpIslandRe = regexp.MustCompile(`(?s)<\?php\b(.*?)(?:\?>|$)`)

// Inspector extracts outward references from HTML documents.
type Inspector struct {
	config *graph.Config
}

// NewInspector creates a markup Inspector with the provided configuration.
func NewInspector(config *graph.Config) *Inspector {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Inspector{config: config}
}

// InspectFile parses an HTML file and extracts references.
func (i *Inspector) InspectFile(filename string) (*graph.File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	file, err := i.InspectSource(src)
	if file != nil {
		file.Path = filename
		for idx := range file.Conditionals {
			file.Conditionals[idx].File = filename
		}
	}
	return file, err
}

// InspectSource parses HTML from a byte slice. The html parser is
// error-tolerant, so malformed markup still yields a document.
func (i *Inspector) InspectSource(src []byte) (*graph.File, error) {
	file := &graph.File{Dialect: graph.DialectMarkup, Success: true}

	doc, err := html.Parse(strings.NewReader(string(src)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	text := string(src)
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			i.element(n, text, file)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)

	for _, match := range phpIslandRe.FindAllStringSubmatch(text, -1) {
		island := match[1]
		file.Crud = append(file.Crud, scan.Crud(island)...)
		for _, query := range scan.QueryLiterals(island) {
			file.AddQuery(query)
		}
		file.Conditionals = append(file.Conditionals, scan.ConditionalQueries(island, "")...)
	}
	return file, nil
}

func (i *Inspector) element(n *html.Node, text string, file *graph.File) {
	switch n.Data {
	case "a":
		if href, ok := attr(n, "href"); ok && isAbsolute(href) {
			addAccess(file, graph.AccessExternalLink, href, text)
		}
	case "form":
		if action, ok := attr(n, "action"); ok && isAbsolute(action) {
			addAccess(file, graph.AccessFormSubmit, action, text)
		}
	case "iframe", "frame":
		if src, ok := attr(n, "src"); ok {
			addAccess(file, graph.AccessIframeEmbed, src, text)
		}
	case "script":
		if src, ok := attr(n, "src"); ok {
			file.Dependencies = append(file.Dependencies, src)
			return
		}
		// inline script: re-scan with the lexical extractors
		body := textContent(n)
		file.External = append(file.External, scan.External(body)...)
		file.Crud = append(file.Crud, scan.Crud(body)...)
	case "img":
		if src, ok := attr(n, "src"); ok && isAbsolute(src) {
			addAccess(file, graph.AccessExternalLink, src, text)
		}
	}
}

func addAccess(file *graph.File, kind graph.ExternalAccessKind, target, text string) {
	line := 0
	if idx := strings.Index(text, target); idx >= 0 {
		line = strings.Count(text[:idx], "\n") + 1
	}
	file.External = append(file.External, graph.ExternalAccessRecord{Kind: kind, Target: target, Line: line})
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name && strings.TrimSpace(a.Val) != "" {
			return a.Val, true
		}
	}
	return "", false
}

func isAbsolute(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func textContent(n *html.Node) string {
	var builder strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			builder.WriteString(child.Data)
		}
	}
	return builder.String()
}
