package analyzer

import (
	"fmt"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/codelens/webaudit/inspector/graph"
)

// fileSink mirrors error entries to an append-only, size-rotated text file,
// one line per entry.
type fileSink struct {
	mux    sync.Mutex
	logger *lumberjack.Logger
}

func newFileSink(path string) *fileSink {
	return &fileSink{
		logger: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		},
	}
}

// Write appends one entry in the `[timestamp] kind in file:line - message`
// format.
func (s *fileSink) Write(entry graph.ErrorEntry) {
	s.mux.Lock()
	defer s.mux.Unlock()
	fmt.Fprintln(s.logger, entry.String())
}

func (s *fileSink) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.logger.Close()
}
