// Package analyzer runs the project-level analysis: it enumerates target
// files under a root, analyzes them through an inspector session and
// aggregates the per-file results into one project report.
package analyzer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"golang.org/x/sync/errgroup"

	"github.com/codelens/webaudit/inspector"
	"github.com/codelens/webaudit/inspector/catalog"
	"github.com/codelens/webaudit/inspector/graph"
)

// ErrorSinkName is the append-only error log created under the analysis root.
const ErrorSinkName = "webaudit_errors.log"

var skipDirs = map[string]struct{}{
	".git":         {},
	".svn":         {},
	"node_modules": {},
}

// Analyzer is the project analysis runner.
type Analyzer struct {
	fs           afs.Service
	config       *graph.Config
	catalog      *catalog.Catalog
	concurrency  int
	sinkName     string
	useGitignore bool
	extensions   map[string]struct{}
}

// New creates an Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		fs:          afs.New(),
		config:      graph.DefaultConfig(),
		concurrency: 1,
		sinkName:    ErrorSinkName,
		extensions: map[string]struct{}{
			".php": {}, ".inc": {}, ".js": {}, ".html": {}, ".htm": {},
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeDir enumerates target files under root, analyzes each one and
// returns the aggregated project report. A single-file failure is recorded
// per file and never aborts the run.
func (a *Analyzer) AnalyzeDir(ctx context.Context, root string) (*graph.Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	sink := newFileSink(filepath.Join(absRoot, a.sinkName))
	defer sink.Close()

	sessionOpts := []inspector.SessionOption{inspector.WithSink(sink)}
	if a.catalog != nil {
		sessionOpts = append(sessionOpts, inspector.WithCatalog(a.catalog))
	}
	session := inspector.NewSession(a.config, sessionOpts...)

	paths, err := a.enumerate(ctx, absRoot)
	if err != nil {
		return nil, err
	}

	var mux sync.Mutex
	var files []*graph.File

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.concurrency)
	for _, path := range paths {
		path := path
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			file := session.AnalyzeFile(path)
			mux.Lock()
			files = append(files, file)
			mux.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// results are keyed by path with no cross-file ordering guarantee;
	// sort for a stable report
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	project := &graph.Project{Root: absRoot}
	for _, file := range files {
		project.AddFile(file)
	}
	project.Crud = session.CrudByFile()
	project.Errors = session.Errors()
	a.annotate(project)
	project.Init()
	return project, nil
}

// enumerate walks the root and collects analyzable files.
func (a *Analyzer) enumerate(ctx context.Context, root string) ([]string, error) {
	var gi *ignore.GitIgnore
	if a.useGitignore {
		if compiled, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			gi = compiled
		}
	}

	var paths []string
	err := a.fs.Walk(ctx, root, func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		rel := filepath.Join(parent, info.Name())
		if a.skipPath(rel) {
			return true, nil
		}
		if _, ok := a.extensions[strings.ToLower(filepath.Ext(info.Name()))]; !ok {
			return true, nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return true, nil
		}
		paths = append(paths, filepath.Join(url.Path(baseURL), parent, info.Name()))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// annotate cross-checks referenced tables against the reference catalog.
func (a *Analyzer) annotate(project *graph.Project) {
	if a.catalog == nil {
		return
	}
	seenView := map[string]bool{}
	seenProc := map[string]bool{}
	for _, file := range project.Files {
		for _, table := range file.Tables() {
			if a.catalog.IsView(table) && !seenView[table] {
				seenView[table] = true
				project.Views = append(project.Views, table)
			}
			if a.catalog.IsProcedure(table) && !seenProc[table] {
				seenProc[table] = true
				project.Procedures = append(project.Procedures, table)
			}
		}
	}
	sort.Strings(project.Views)
	sort.Strings(project.Procedures)
}

func (a *Analyzer) skipPath(rel string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := skipDirs[segment]; ok {
			return true
		}
		if a.config.SkipVendor && segment == "vendor" {
			return true
		}
	}
	return false
}
