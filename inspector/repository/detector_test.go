package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens/webaudit/inspector/repository"
)

func TestDetector_DetectProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "composer.json"), []byte("{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	page := filepath.Join(dir, "pages", "list.php")
	require.NoError(t, os.WriteFile(page, []byte("<?php ?>"), 0o644))

	project, err := repository.New().DetectProject(page)
	require.NoError(t, err)

	assert.Equal(t, dir, project.RootPath)
	assert.Equal(t, "php", project.Type)
	assert.Equal(t, "pages/list.php", project.RelativePath)
	assert.Equal(t, filepath.Base(dir), project.Name)
}

func TestDetector_NoMarker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "orphan.php")
	require.NoError(t, os.WriteFile(file, []byte("<?php ?>"), 0o644))

	project, err := repository.New().DetectProject(file)
	require.NoError(t, err)
	assert.Equal(t, dir, project.RootPath)
}
