// Package inspector dispatches per-file analysis by source dialect and owns
// the cross-file accumulation state of one analysis session.
package inspector

import (
	"fmt"

	"github.com/codelens/webaudit/inspector/graph"
	"github.com/codelens/webaudit/inspector/js"
	"github.com/codelens/webaudit/inspector/markup"
	"github.com/codelens/webaudit/inspector/php"
)

// Inspector provides an interface for inspecting source code
type Inspector interface {
	// InspectFile parses a source file and extracts analysis facts
	InspectFile(filename string) (*graph.File, error)
	// InspectSource extracts the same facts from an in-memory byte slice
	InspectSource(src []byte) (*graph.File, error)
}

// Factory creates appropriate inspectors based on dialect
type Factory struct {
	config *graph.Config
}

// NewFactory creates a new inspector factory with the given config
func NewFactory(config *graph.Config) *Factory {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Factory{config: config}
}

// GetInspector returns an appropriate inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	switch graph.DialectOf(filename) {
	case graph.DialectPHP, graph.DialectInclude:
		return php.NewInspector(f.config), nil
	case graph.DialectJS:
		return js.NewInspector(f.config), nil
	case graph.DialectMarkup:
		return markup.NewInspector(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}
