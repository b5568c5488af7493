// Package repository identifies the root folder of a legacy web project so
// the analysis can be anchored when invoked on a single file.
package repository

import (
	"os"
	"path/filepath"
)

// Project describes a detected project root.
type Project struct {
	RootPath     string // absolute path to the project root directory
	Type         string // project type derived from the marker found
	Name         string // base name of the root directory
	RelativePath string // path from project root to the specified file
}

type marker struct {
	file        string
	projectType string
}

// Detector identifies project root folders for legacy web codebases.
type Detector struct {
	// ordered: the first marker found decides the project type
	markers []marker
}

// New creates a project detector with the common legacy web markers.
func New() *Detector {
	return &Detector{
		markers: []marker{
			{"composer.json", "php"},
			{"index.php", "php"},
			{".htaccess", "php"},
			{"package.json", "javascript"},
			{".git", "unknown"},
		},
	}
}

// DetectProject walks up from filePath looking for a project marker. When no
// marker is found the containing directory itself becomes the root.
func (d *Detector) DetectProject(filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	project := &Project{Type: "unknown", RootPath: startDir}
	if rootPath != "" {
		project.RootPath = rootPath
		project.Type = projectType
	}
	project.Name = filepath.Base(project.RootPath)

	if relPath, err := filepath.Rel(project.RootPath, absPath); err == nil {
		project.RelativePath = filepath.ToSlash(relPath)
	} else {
		project.RelativePath = filepath.Base(absPath)
	}
	return project, nil
}

// findProjectRoot searches up the directory tree for a marker file.
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, m := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
				return dir, m.projectType
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}
