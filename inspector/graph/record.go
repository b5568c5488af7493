package graph

import "fmt"

// CrudOp is the data operation performed against a table.
type CrudOp string

const (
	OpSelect CrudOp = "SELECT"
	OpInsert CrudOp = "INSERT"
	OpUpdate CrudOp = "UPDATE"
	OpDelete CrudOp = "DELETE"
)

// CrudRecord is a single (table, operation) fact extracted from SQL-bearing text.
type CrudRecord struct {
	Table string `yaml:"table" json:"table"`
	Op    CrudOp `yaml:"op" json:"op"`
}

func (r CrudRecord) String() string {
	return fmt.Sprintf("%s %s", r.Op, r.Table)
}

// NormalizedQuery holds canonical SQL text plus the distinct table names it
// references, in first-seen order.
type NormalizedQuery struct {
	Text   string   `yaml:"text" json:"text"`
	Tables []string `yaml:"tables,omitempty" json:"tables,omitempty"`
}

// ConditionalQueryVariant is a query literal discovered along one
// control-flow branch. Conditions are rendered outer-to-inner; the else arm
// of a branch carries the literal tag "else".
type ConditionalQueryVariant struct {
	Conditions []string        `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Query      NormalizedQuery `yaml:"query" json:"query"`
	File       string          `yaml:"file,omitempty" json:"file,omitempty"`
}

// ExternalAccessKind tags the channel through which a file reaches outward.
type ExternalAccessKind string

const (
	AccessAPICall      ExternalAccessKind = "api_call"
	AccessExternalLink ExternalAccessKind = "external_link"
	AccessFormSubmit   ExternalAccessKind = "form_submission"
	AccessIframeEmbed  ExternalAccessKind = "iframe_embed"
	AccessRedirect     ExternalAccessKind = "redirect"
	AccessWindowOpen   ExternalAccessKind = "window_open"
)

// ExternalAccessRecord is an outward network/navigation reference.
// Line is located by the first textual occurrence of the target, so a target
// repeated elsewhere in the file can report the wrong line; this is a
// documented best-effort behaviour, not true position tracking.
type ExternalAccessRecord struct {
	Kind   ExternalAccessKind `yaml:"kind" json:"kind"`
	Target string             `yaml:"target" json:"target"`
	Line   int                `yaml:"line,omitempty" json:"line,omitempty"`
}

// Function is a function or method declaration discovered in a source file.
type Function struct {
	Name   string   `yaml:"name" json:"name"`
	File   string   `yaml:"file,omitempty" json:"file,omitempty"`
	Params []string `yaml:"params,omitempty" json:"params,omitempty"`
}

// Class is a class declaration with the methods registered under it.
type Class struct {
	Name    string   `yaml:"name" json:"name"`
	Methods []string `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// AddMethod appends a method name, keeping the list free of duplicates.
func (c *Class) AddMethod(name string) {
	for _, m := range c.Methods {
		if m == name {
			return
		}
	}
	c.Methods = append(c.Methods, name)
}
