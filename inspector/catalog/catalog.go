// Package catalog loads the reference lists of known database views and
// stored procedures, and owns the runtime-injected symbolic constant table.
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
)

// SymbolKind classifies an entry of the symbolic constant table.
type SymbolKind string

const KindConstant SymbolKind = "constant"

// Symbol is one named value with its provenance metadata.
type Symbol struct {
	Name   string
	Value  string
	Kind   SymbolKind
	Origin string
}

// Catalog holds the known-view and known-procedure name sets used to
// annotate extracted table references, plus registered symbols. Lookups are
// safe for concurrent use once loading is done.
type Catalog struct {
	fs      afs.Service
	mux     sync.RWMutex
	views   map[string]bool
	procs   map[string]bool
	symbols map[string]Symbol
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		fs:      afs.New(),
		views:   map[string]bool{},
		procs:   map[string]bool{},
		symbols: map[string]Symbol{},
	}
}

// Load reads the view and stored-procedure reference lists. Either URL may
// be empty. Lists are newline-delimited; blank lines and lines prefixed with
// '#' are ignored.
func (c *Catalog) Load(ctx context.Context, viewsURL, procsURL string) error {
	if viewsURL != "" {
		names, err := c.loadList(ctx, viewsURL)
		if err != nil {
			return fmt.Errorf("failed to load view list %s: %w", viewsURL, err)
		}
		c.mux.Lock()
		for _, name := range names {
			c.views[name] = true
		}
		c.mux.Unlock()
	}
	if procsURL != "" {
		names, err := c.loadList(ctx, procsURL)
		if err != nil {
			return fmt.Errorf("failed to load procedure list %s: %w", procsURL, err)
		}
		c.mux.Lock()
		for _, name := range names {
			c.procs[name] = true
		}
		c.mux.Unlock()
	}
	return nil
}

func (c *Catalog) loadList(ctx context.Context, URL string) ([]string, error) {
	data, err := c.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

// IsView reports whether a referenced table name is a known view.
func (c *Catalog) IsView(name string) bool {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.views[name]
}

// IsProcedure reports whether a name is a known stored procedure.
func (c *Catalog) IsProcedure(name string) bool {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.procs[name]
}

// RegisterSymbols merges name/value pairs into the symbolic constant table.
// Only string values are retained; anything else is opaque to the engine and
// skipped.
func (c *Catalog) RegisterSymbols(values map[string]interface{}, origin string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	for name, value := range values {
		text, ok := value.(string)
		if !ok {
			continue
		}
		c.symbols[name] = Symbol{Name: name, Value: text, Kind: KindConstant, Origin: origin}
	}
}

// Symbol resolves a registered symbolic constant.
func (c *Catalog) Symbol(name string) (Symbol, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	symbol, ok := c.symbols[name]
	return symbol, ok
}

// SymbolValues exposes the constant table as plain name to value pairs for
// collaborators that substitute constants in scanned code.
func (c *Catalog) SymbolValues() map[string]string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	values := make(map[string]string, len(c.symbols))
	for name, symbol := range c.symbols {
		values[name] = symbol.Value
	}
	return values
}
