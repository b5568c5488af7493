package graph

// File is the per-file analysis result. It is created fresh for each
// analysis pass and never mutated after it is returned; raw source content
// is not retained on it.
type File struct {
	Name         string                    `yaml:"name,omitempty" json:"name,omitempty"`
	Path         string                    `yaml:"path" json:"path"`
	Dialect      Dialect                   `yaml:"dialect" json:"dialect"`
	Dependencies []string                  `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Crud         []CrudRecord              `yaml:"crud,omitempty" json:"crud,omitempty"`
	Queries      []NormalizedQuery         `yaml:"queries,omitempty" json:"queries,omitempty"`
	Conditionals []ConditionalQueryVariant `yaml:"conditionals,omitempty" json:"conditionals,omitempty"`
	External     []ExternalAccessRecord    `yaml:"external,omitempty" json:"external,omitempty"`
	Functions    []*Function               `yaml:"functions,omitempty" json:"functions,omitempty"`
	Classes      []*Class                  `yaml:"classes,omitempty" json:"classes,omitempty"`
	ContentHash  uint64                    `yaml:"contentHash,omitempty" json:"contentHash,omitempty"`
	Success      bool                      `yaml:"success" json:"success"`
	Error        string                    `yaml:"error,omitempty" json:"error,omitempty"`

	functionMap map[string]int
	classMap    map[string]int
}

// AddFunction registers a function declaration on the file.
func (f *File) AddFunction(fn *Function) {
	if f.functionMap == nil {
		f.functionMap = make(map[string]int)
	}
	f.functionMap[fn.Name] = len(f.Functions)
	f.Functions = append(f.Functions, fn)
}

// LookupFunction retrieves a function by name from the file
func (f *File) LookupFunction(name string) *Function {
	if idx, ok := f.functionMap[name]; ok && idx < len(f.Functions) {
		return f.Functions[idx]
	}
	return nil
}

// AddClass registers a class declaration on the file.
func (f *File) AddClass(c *Class) {
	if f.classMap == nil {
		f.classMap = make(map[string]int)
	}
	f.classMap[c.Name] = len(f.Classes)
	f.Classes = append(f.Classes, c)
}

// LookupClass retrieves a class by name from the file
func (f *File) LookupClass(name string) *Class {
	if idx, ok := f.classMap[name]; ok && idx < len(f.Classes) {
		return f.Classes[idx]
	}
	return nil
}

// AddQuery records a normalized query, skipping exact duplicates.
func (f *File) AddQuery(q NormalizedQuery) {
	for _, existing := range f.Queries {
		if existing.Text == q.Text {
			return
		}
	}
	f.Queries = append(f.Queries, q)
}

// Tables returns the distinct tables referenced by the file's queries and
// crud records, in first-seen order.
func (f *File) Tables() []string {
	seen := make(map[string]bool)
	var tables []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		tables = append(tables, name)
	}
	for _, rec := range f.Crud {
		add(rec.Table)
	}
	for _, q := range f.Queries {
		for _, t := range q.Tables {
			add(t)
		}
	}
	return tables
}
