package analyzer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens/webaudit/analyzer"
	"github.com/codelens/webaudit/inspector/catalog"
	"github.com/codelens/webaudit/inspector/graph"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func seedProject(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.php"), `<?php
require_once('includes/db.php');
$query = 'SELECT * FROM v_orders';
?>`)
	writeFile(t, filepath.Join(dir, "includes", "db.php"), `<?php
$cleanup = 'DELETE FROM sessions WHERE expired = 1';
?>`)
	writeFile(t, filepath.Join(dir, "app.js"), `
function refreshCart() {
	fetch('/api/cart');
}`)
	writeFile(t, filepath.Join(dir, "page.html"), `<html><body>
<iframe src="/nav.html"></iframe>
</body></html>`)
	writeFile(t, filepath.Join(dir, "README.md"), "not analyzed\n")
	return dir
}

func TestAnalyzer_AnalyzeDir(t *testing.T) {
	dir := seedProject(t)

	project, err := analyzer.New().AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, project)

	var paths []string
	for _, file := range project.Files {
		paths = append(paths, filepath.Base(file.Path))
	}
	assert.ElementsMatch(t, []string{"index.php", "db.php", "app.js", "page.html"}, paths)

	// the report carries root-relative paths
	index := project.GetFile("index.php")
	require.NotNil(t, index)
	assert.True(t, index.Success)
	assert.Equal(t, "index.php", index.Name)
	assert.False(t, filepath.IsAbs(index.Path))
	assert.Equal(t, []string{filepath.Join(dir, "includes", "db.php")}, index.Dependencies)

	crud := project.Crud["index.php"]
	require.Len(t, crud, 1)
	assert.Equal(t, graph.CrudRecord{Table: "v_orders", Op: graph.OpSelect}, crud[0])

	appJS := project.GetFile("app.js")
	require.NotNil(t, appJS)
	require.Len(t, appJS.External, 1)
	assert.Equal(t, graph.AccessAPICall, appJS.External[0].Kind)
}

func TestAnalyzer_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.php"), `<?php function broken( { if ( ?>`)
	writeFile(t, filepath.Join(dir, "good.php"), `<?php $q = 'SELECT * FROM t1'; ?>`)

	project, err := analyzer.New().AnalyzeDir(context.Background(), dir)
	require.NoError(t, err, "a single-file failure must never abort the run")
	require.Len(t, project.Files, 2)

	good := project.GetFile("good.php")
	require.NotNil(t, good)
	assert.True(t, good.Success)
	require.Len(t, good.Queries, 1)
	assert.Equal(t, []string{"t1"}, good.Queries[0].Tables)

	var kinds []graph.ErrorKind
	for _, entry := range project.Errors {
		kinds = append(kinds, entry.Kind)
	}
	assert.Contains(t, kinds, graph.ErrSyntaxParseFailure)
}

func TestAnalyzer_ErrorSinkWritten(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.php"), `<?php class { ?>`)

	_, err := analyzer.New().AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, analyzer.ErrorSinkName))
	require.NoError(t, err)
	assert.Contains(t, string(data), string(graph.ErrSyntaxParseFailure))
	assert.Contains(t, string(data), "bad.php")
}

func TestAnalyzer_CatalogAnnotation(t *testing.T) {
	dir := seedProject(t)
	views := filepath.Join(dir, "views.list")
	writeFile(t, views, "v_orders\n")

	refs := catalog.New()
	require.NoError(t, refs.Load(context.Background(), views, ""))

	project, err := analyzer.New(analyzer.WithCatalog(refs)).AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"v_orders"}, project.Views)
	assert.Empty(t, project.Procedures)
}

func TestAnalyzer_ExtensionFilter(t *testing.T) {
	dir := seedProject(t)

	project, err := analyzer.New(analyzer.WithExtensions("php")).AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	var paths []string
	for _, file := range project.Files {
		paths = append(paths, filepath.Base(file.Path))
	}
	assert.ElementsMatch(t, []string{"index.php", "db.php"}, paths)
}

func TestAnalyzer_CustomSinkName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.php"), `<?php class { ?>`)

	_, err := analyzer.New(analyzer.WithErrorSinkName("audit_failures.log")).AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "audit_failures.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "bad.php")
}

func TestAnalyzer_VendorSkip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.php"), `<?php $q = 'SELECT * FROM t1'; ?>`)
	writeFile(t, filepath.Join(dir, "vendor", "lib.php"), `<?php $q = 'SELECT * FROM t2'; ?>`)

	project, err := analyzer.New().AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, project.Files, 1, "vendor trees are skipped by default")

	cfg := graph.DefaultConfig()
	cfg.SkipVendor = false
	project, err = analyzer.New(analyzer.WithConfig(cfg)).AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, project.Files, 2)
}

func TestAnalyzer_Parallel(t *testing.T) {
	dir := seedProject(t)

	sequential, err := analyzer.New().AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	parallel, err := analyzer.New(analyzer.WithConcurrency(4)).AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	require.Equal(t, len(sequential.Files), len(parallel.Files))
	for i := range sequential.Files {
		assert.Equal(t, sequential.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, sequential.Files[i].Crud, parallel.Files[i].Crud)
	}
}

func TestEmit(t *testing.T) {
	dir := seedProject(t)
	project, err := analyzer.New().AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)

	yamlData, err := analyzer.EmitYAML(project)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(yamlData), "index.php"))

	jsonData, err := analyzer.EmitJSON(project)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(jsonData), "v_orders"))
}
