package inspector

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/codelens/webaudit/inspector/catalog"
	"github.com/codelens/webaudit/inspector/deps"
	"github.com/codelens/webaudit/inspector/graph"
	"github.com/codelens/webaudit/inspector/php"
	"github.com/codelens/webaudit/inspector/scan"
)

// Sink mirrors error entries to a persistent append-only target.
type Sink interface {
	Write(entry graph.ErrorEntry)
}

// Session owns the cross-file state of one analysis run: the global CRUD
// map, the error log and the class registry. The state is explicit and
// synchronized, so independent sessions can run in parallel; Reset clears it
// between independent runs of the same session.
type Session struct {
	config   *graph.Config
	factory  *Factory
	resolver *deps.Resolver
	catalog  *catalog.Catalog
	sink     Sink

	mux     sync.Mutex
	crud    map[string][]graph.CrudRecord
	errors  []graph.ErrorEntry
	classes map[string]*graph.Class
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCatalog attaches the reference catalog; its symbol table is consulted
// when resolving symbolic constants in include directives.
func WithCatalog(c *catalog.Catalog) SessionOption {
	return func(s *Session) {
		s.catalog = c
	}
}

// WithSink mirrors every logged error entry to the given sink.
func WithSink(sink Sink) SessionOption {
	return func(s *Session) {
		s.sink = sink
	}
}

// NewSession creates an analysis session.
func NewSession(config *graph.Config, opts ...SessionOption) *Session {
	if config == nil {
		config = graph.DefaultConfig()
	}
	s := &Session{
		config:  config,
		factory: NewFactory(config),
		crud:    map[string][]graph.CrudRecord{},
		classes: map[string]*graph.Class{},
	}
	for _, opt := range opts {
		opt(s)
	}
	resolverOpts := []deps.Option{deps.WithIncludeDir(config.IncludeDir)}
	if s.catalog != nil {
		resolverOpts = append(resolverOpts, deps.WithSymbols(s.catalog.SymbolValues()))
	}
	s.resolver = deps.New(resolverOpts...)
	return s
}

// Catalog exposes the attached reference catalog, which may be nil.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// AnalyzeFile analyzes a single file and returns its result. Missing or
// unreadable files fail fast with an unsuccessful result; extraction-stage
// failures are caught and logged, and never propagate as panics.
func (s *Session) AnalyzeFile(path string) *graph.File {
	file := &graph.File{Path: path, Dialect: graph.DialectOf(path), Success: true}

	if _, err := os.Stat(path); err != nil {
		return s.fail(file, graph.ErrFileNotFound, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return s.fail(file, graph.ErrFileReadFailure, err.Error())
	}
	if hash, err := graph.Hash(content); err == nil {
		file.ContentHash = hash
	}

	// dependency resolution runs for every dialect
	s.stage(file, "dependencies", func() {
		file.Dependencies = s.resolver.Resolve(path, content)
	})

	text := string(content)
	// single dispatch site: the factory owns the extension mapping
	insp, dispatchErr := s.factory.GetInspector(path)
	if dispatchErr != nil {
		s.log(graph.ErrUnsupportedDialect, path, 0, fmt.Sprintf("unsupported extension, lexical fallback applied: %s", path))
		s.stage(file, "fallback", func() {
			file.Crud = scan.Crud(text)
			file.External = scan.External(text)
			file.Conditionals = scan.ConditionalQueries(text, path)
		})
	} else {
		s.stage(file, string(file.Dialect), func() {
			s.inspect(file, insp, content, text)
		})
	}

	s.accumulate(file)
	return file
}

// inspect runs the dialect inspector, folds its result onto the session file
// record and applies the dialect's lexical passes over the raw text.
func (s *Session) inspect(file *graph.File, insp Inspector, content []byte, text string) {
	result, err := insp.InspectSource(content)
	if err != nil && !errors.Is(err, php.ErrSyntax) {
		panic(err)
	}
	if errors.Is(err, php.ErrSyntax) {
		s.log(graph.ErrSyntaxParseFailure, file.Path, 0, "formal parse failed, lexical fallback applied")
	}
	if result != nil {
		file.Dependencies = append(file.Dependencies, result.Dependencies...)
		file.Crud = append(file.Crud, result.Crud...)
	}
	mergeStructural(file, result)

	switch file.Dialect {
	case graph.DialectPHP, graph.DialectInclude:
		file.Crud = append(file.Crud, scan.Crud(text)...)
		file.External = scan.External(text)
	case graph.DialectJS:
		file.External = scan.External(text)
	case graph.DialectMarkup:
		if result != nil {
			mergeExternal(file, result.External)
		}
		mergeExternal(file, scan.External(text))
	}
}

// mergeStructural moves declarations and queries from an inspector result
// onto the session's file record.
func mergeStructural(file, result *graph.File) {
	if result == nil {
		return
	}
	for _, fn := range result.Functions {
		fn.File = file.Path
		file.AddFunction(fn)
	}
	for _, class := range result.Classes {
		file.AddClass(class)
	}
	for _, query := range result.Queries {
		file.AddQuery(query)
	}
	for _, variant := range result.Conditionals {
		variant.File = file.Path
		file.Conditionals = append(file.Conditionals, variant)
	}
}

// mergeExternal appends records, dropping exact (kind, target) duplicates
// the DOM walk and the lexical scan can both produce.
func mergeExternal(file *graph.File, records []graph.ExternalAccessRecord) {
	for _, record := range records {
		duplicate := false
		for _, existing := range file.External {
			if existing.Kind == record.Kind && existing.Target == record.Target {
				duplicate = true
				break
			}
		}
		if !duplicate {
			file.External = append(file.External, record)
		}
	}
}

// stage runs one extraction stage, converting a panic into a logged
// ExtractionFailure and an unsuccessful result without aborting the run.
func (s *Session) stage(file *graph.File, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("%s extraction failed: %v", name, r)
			s.log(graph.ErrExtractionFailure, file.Path, 0, message)
			file.Success = false
			file.Error = message
		}
	}()
	fn()
}

func (s *Session) fail(file *graph.File, kind graph.ErrorKind, message string) *graph.File {
	s.log(kind, file.Path, 0, message)
	file.Success = false
	file.Error = message
	return file
}

func (s *Session) log(kind graph.ErrorKind, file string, line int, message string) {
	entry := graph.ErrorEntry{Kind: kind, File: file, Line: line, Message: message, Time: time.Now()}
	s.mux.Lock()
	s.errors = append(s.errors, entry)
	s.mux.Unlock()
	if s.sink != nil {
		s.sink.Write(entry)
	}
}

// accumulate folds a file result into the session-wide state.
func (s *Session) accumulate(file *graph.File) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(file.Crud) > 0 {
		s.crud[file.Path] = append(s.crud[file.Path], file.Crud...)
	}
	for _, class := range file.Classes {
		s.classes[class.Name] = class
	}
}

// CrudByFile returns a copy of the global file-to-CRUD map.
func (s *Session) CrudByFile() map[string][]graph.CrudRecord {
	s.mux.Lock()
	defer s.mux.Unlock()
	out := make(map[string][]graph.CrudRecord, len(s.crud))
	for path, records := range s.crud {
		out[path] = append([]graph.CrudRecord(nil), records...)
	}
	return out
}

// Errors returns a copy of the in-memory error log.
func (s *Session) Errors() []graph.ErrorEntry {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]graph.ErrorEntry(nil), s.errors...)
}

// Classes returns the class registry accumulated across files.
func (s *Session) Classes() map[string]*graph.Class {
	s.mux.Lock()
	defer s.mux.Unlock()
	out := make(map[string]*graph.Class, len(s.classes))
	for name, class := range s.classes {
		out[name] = class
	}
	return out
}

// Reset clears the accumulated state between independent runs.
func (s *Session) Reset() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.crud = map[string][]graph.CrudRecord{}
	s.errors = nil
	s.classes = map[string]*graph.Class{}
}
