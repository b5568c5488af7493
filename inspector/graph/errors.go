package graph

import (
	"fmt"
	"time"
)

// ErrorKind classifies a non-fatal analysis failure.
type ErrorKind string

const (
	ErrFileNotFound       ErrorKind = "FileNotFound"
	ErrFileReadFailure    ErrorKind = "FileReadFailure"
	ErrUnsupportedDialect ErrorKind = "UnsupportedDialect"
	ErrSyntaxParseFailure ErrorKind = "SyntaxParseFailure"
	ErrExtractionFailure  ErrorKind = "ExtractionFailure"
)

// ErrorEntry is one append-only log record. No entry is fatal to a run: the
// runner continues past any single-file failure and reports it per file.
type ErrorEntry struct {
	Kind    ErrorKind `yaml:"kind" json:"kind"`
	File    string    `yaml:"file" json:"file"`
	Line    int       `yaml:"line,omitempty" json:"line,omitempty"`
	Message string    `yaml:"message" json:"message"`
	Time    time.Time `yaml:"time" json:"time"`
}

// String renders the persistent sink line format.
func (e ErrorEntry) String() string {
	return fmt.Sprintf("[%s] %s in %s:%d - %s",
		e.Time.Format(time.RFC3339), e.Kind, e.File, e.Line, e.Message)
}
