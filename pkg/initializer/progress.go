// SPDX-License-Identifier: Apache-2.0
package initializer

import (
	"bytes"
	"strings"
	"sync"
)

// Phase identifies which part of project creation a progress event belongs to
type Phase int

const (
	PhaseCreate   Phase = iota // Target directory is being created
	PhaseRun                   // Output line from the build tool
	PhaseArtifact              // A file or directory appeared in the target
	PhaseQuery                 // Build metadata is being read
	PhaseDone                  // Build tool finished successfully
)

func (p Phase) String() string {
	switch p {
	case PhaseCreate:
		return "create"
	case PhaseRun:
		return "run"
	case PhaseArtifact:
		return "artifact"
	case PhaseQuery:
		return "query"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is a single progress event
type Progress struct {
	Phase   Phase
	Message string
}

// ProgressFunc receives progress events. It may be called from several
// goroutines at once and must not block.
type ProgressFunc func(Progress)

// Discard ignores all progress
func Discard(Progress) {}

// lineWriter splits tool output into lines and forwards each one
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	last string
	emit func(string)
}

func newLineWriter(emit func(string)) *lineWriter {
	return &lineWriter{emit: emit}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.send(line)
	}
	return len(p), nil
}

// Flush emits any trailing output that did not end in a newline
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.send(w.buf.String())
		w.buf.Reset()
	}
}

// Last returns the last non-blank line written
func (w *lineWriter) Last() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *lineWriter) send(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	w.last = line
	w.emit(line)
}
