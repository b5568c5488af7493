package graph

import (
	"path/filepath"
	"strings"
)

// Dialect classifies a source file and selects the extraction path that runs on it.
type Dialect string

const (
	DialectPHP     Dialect = "php"     // primary scripting dialect
	DialectInclude Dialect = "include" // .inc fragments, analyzed as PHP
	DialectJS      Dialect = "js"      // sub-script dialect
	DialectMarkup  Dialect = "markup"  // html markup
	DialectUnknown Dialect = "unknown"
)

// DialectOf derives the dialect from a file extension.
func DialectOf(filename string) Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".php":
		return DialectPHP
	case ".inc":
		return DialectInclude
	case ".js":
		return DialectJS
	case ".html", ".htm":
		return DialectMarkup
	default:
		return DialectUnknown
	}
}

// Config controls extraction behaviour across inspectors
type Config struct {
	IncludeDir string // sibling directory probed when resolving includes
	SkipVendor bool   // exclude vendor trees from enumeration
}

func DefaultConfig() *Config {
	return &Config{
		IncludeDir: "includes",
		SkipVendor: true,
	}
}
