// SPDX-License-Identifier: Apache-2.0
package preview

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Tracker remembers the most recent preview so results from superseded jobs
// can be dropped.
type Tracker struct {
	mu      sync.Mutex
	current *Handle
}

// Track makes h the current preview. The previous one is not cancelled.
func (t *Tracker) Track(h *Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = h
}

// Current returns the tracked handle, or nil
func (t *Tracker) Current() *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Accept reports whether res belongs to the current preview
func (t *Tracker) Accept(res Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.current.id != res.HandleID {
		log.Debugf("preview: dropping stale result %s (%s)", res.HandleID, res.Outcome)
		return false
	}
	return true
}

// Cancel cancels the current preview and forgets it
func (t *Tracker) Cancel() {
	t.mu.Lock()
	h := t.current
	t.current = nil
	t.mu.Unlock()
	if h != nil {
		h.Cancel()
	}
}
