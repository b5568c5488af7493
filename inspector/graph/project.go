package graph

import "path/filepath"

// Project is the project-level report aggregated across files. Its field
// names are the stable interface consumed by the external reporting
// component; renaming them is a breaking change.
type Project struct {
	Root       string                  `yaml:"root" json:"root"`
	Files      []*File                 `yaml:"files" json:"files"`
	Crud       map[string][]CrudRecord `yaml:"crud,omitempty" json:"crud,omitempty"`
	Views      []string                `yaml:"views,omitempty" json:"views,omitempty"`
	Procedures []string                `yaml:"procedures,omitempty" json:"procedures,omitempty"`
	Errors     []ErrorEntry            `yaml:"errors,omitempty" json:"errors,omitempty"`

	fileMap map[string]int
}

// AddFile appends a file result and indexes it by path.
func (p *Project) AddFile(file *File) {
	if p.fileMap == nil {
		p.fileMap = make(map[string]int)
	}
	p.fileMap[file.Path] = len(p.Files)
	p.Files = append(p.Files, file)
}

// GetFile retrieves a file result by path.
func (p *Project) GetFile(path string) *File {
	if idx, ok := p.fileMap[path]; ok && idx < len(p.Files) {
		return p.Files[idx]
	}
	return nil
}

// Init makes file paths and crud-map keys relative to the project root and
// rebuilds the index.
func (p *Project) Init() {
	p.fileMap = make(map[string]int)
	for i, file := range p.Files {
		if file == nil {
			continue
		}
		if p.Root != "" && file.Path != "" {
			if rel, err := filepath.Rel(p.Root, file.Path); err == nil {
				file.Name = filepath.Base(file.Path)
				file.Path = rel
			}
		}
		p.fileMap[file.Path] = i
	}
	if len(p.Crud) > 0 && p.Root != "" {
		crud := make(map[string][]CrudRecord, len(p.Crud))
		for path, records := range p.Crud {
			if rel, err := filepath.Rel(p.Root, path); err == nil {
				path = rel
			}
			crud[path] = records
		}
		p.Crud = crud
	}
}
