package analyzer

import (
	"strings"

	"github.com/codelens/webaudit/inspector/catalog"
	"github.com/codelens/webaudit/inspector/graph"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig sets the extraction config shared by all inspectors.
func WithConfig(config *graph.Config) Option {
	return func(a *Analyzer) {
		if config != nil {
			a.config = config
		}
	}
}

// WithCatalog attaches the reference catalog used for include-constant
// resolution and view/procedure annotation.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *Analyzer) {
		a.catalog = c
	}
}

// WithConcurrency sets the number of files analyzed in parallel.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithErrorSinkName overrides the error log file name created under the root.
func WithErrorSinkName(name string) Option {
	return func(a *Analyzer) {
		if name != "" {
			a.sinkName = name
		}
	}
}

// WithGitignore honors the root .gitignore during enumeration.
func WithGitignore(enabled bool) Option {
	return func(a *Analyzer) {
		a.useGitignore = enabled
	}
}

// WithExtensions replaces the set of analyzed file extensions.
func WithExtensions(extensions ...string) Option {
	return func(a *Analyzer) {
		if len(extensions) == 0 {
			return
		}
		a.extensions = map[string]struct{}{}
		for _, ext := range extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			a.extensions[strings.ToLower(ext)] = struct{}{}
		}
	}
}
