// Package deps resolves static include/require references into the
// transitive, deduplicated dependency set of a source file.
package deps

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Plain and "-once" directive variants, with a quoted literal argument.
	includeRe     = regexp.MustCompile(`(?i)\b(?:include|require)\s*\(?\s*['"]([^'"]+)['"]`)
	includeOnceRe = regexp.MustCompile(`(?i)\b(?:include_once|require_once)\s*\(?\s*['"]([^'"]+)['"]`)

	// Directive with a leading symbolic constant, e.g. require(APP_ROOT . '/db.php').
	includeConstRe = regexp.MustCompile(`(?i)\b(?:include|require)(?:_once)?\s*\(?\s*([A-Z_][A-Z0-9_]*)\s*\.\s*['"]([^'"]+)['"]`)
)

// dirSelfToken is the directory-self-reference constant substituted with the
// including file's own directory.
const dirSelfToken = "__DIR__"

// Resolver computes the transitive closure of static includes. Symbols maps
// symbolic constant names to path fragments; constants without a known value
// leave their directive unresolved.
type Resolver struct {
	includeDir string
	symbols    map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIncludeDir sets the sibling directory probed when a relative include
// does not exist next to the including file.
func WithIncludeDir(dir string) Option {
	return func(r *Resolver) {
		r.includeDir = dir
	}
}

// WithSymbols registers symbolic constants consulted when an include
// argument is prefixed with a named constant.
func WithSymbols(symbols map[string]string) Option {
	return func(r *Resolver) {
		for name, value := range symbols {
			r.symbols[name] = value
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		includeDir: "includes",
		symbols:    map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve scans content for include/require directives and returns the
// transitive dependency set of file, deduplicated, in discovery order.
// Cyclic includes terminate: each traversal tracks a visited set and a path
// is expanded at most once.
func (r *Resolver) Resolve(file string, content []byte) []string {
	visited := map[string]bool{file: true}
	return r.resolve(file, content, visited)
}

func (r *Resolver) resolve(file string, content []byte, visited map[string]bool) []string {
	var resolved []string
	for _, target := range r.directives(file, string(content)) {
		if visited[target] {
			continue
		}
		visited[target] = true
		resolved = append(resolved, target)

		nested, err := os.ReadFile(target)
		if err != nil {
			// unresolved includes degrade silently to a leaf entry
			continue
		}
		resolved = append(resolved, r.resolve(target, nested, visited)...)
	}
	return resolved
}

// directives extracts and resolves every include argument in content.
func (r *Resolver) directives(file, content string) []string {
	baseDir := filepath.Dir(file)
	var targets []string
	for _, re := range []*regexp.Regexp{includeRe, includeOnceRe} {
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			targets = append(targets, r.resolvePath(baseDir, match[1]))
		}
	}
	for _, match := range includeConstRe.FindAllStringSubmatch(content, -1) {
		prefix, ok := r.symbols[match[1]]
		if match[1] == dirSelfToken {
			prefix, ok = baseDir, true
		}
		if !ok {
			continue
		}
		targets = append(targets, r.resolvePath(baseDir, prefix+match[2]))
	}
	return targets
}

// resolvePath applies the resolution precedence: absolute as-is, then
// {baseDir}/{p} and {baseDir}/{includeDir}/{basename}; when neither exists
// the {baseDir}/{p} candidate is synthesized as a best-effort entry.
// Clean collapses the duplicate separators a constant prefix can introduce.
func (r *Resolver) resolvePath(baseDir, p string) string {
	p = strings.TrimPrefix(p, "./")
	p = filepath.Clean(p)

	if filepath.IsAbs(p) {
		return p
	}
	candidate := filepath.Join(baseDir, p)
	if exists(candidate) {
		return candidate
	}
	inIncludes := filepath.Join(baseDir, r.includeDir, filepath.Base(p))
	if exists(inIncludes) {
		return inIncludes
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
