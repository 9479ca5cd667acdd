// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Work-Fort/Crucible/pkg/project"
)

// Navigator watches stage changes and removes the preview directory when the
// user steps back from preview to options.
type Navigator struct {
	config *project.Configuration
	define CompletionPage
	remove func(path string) error

	mu       sync.Mutex
	previous Stage
	disarmed bool
}

// NewNavigator returns a navigator that starts as if the define stage was shown last
func NewNavigator(config *project.Configuration, define CompletionPage) *Navigator {
	return &Navigator{
		config:   config,
		define:   define,
		remove:   os.RemoveAll,
		previous: StageDefine,
	}
}

// PageChanged handles one selection event
func (n *Navigator) PageChanged(ev PageChangedEvent) {
	n.mu.Lock()
	previous := n.previous
	n.previous = ev.Selected
	disarmed := n.disarmed
	n.mu.Unlock()

	log.Debugf("wizard: %s -> %s", previous, ev.Selected)
	if disarmed || previous != StagePreview || ev.Selected != StageOptions {
		return
	}

	if dir := n.config.RootDirectory.Get(); dir != "" {
		removeProjectDir(n.remove, dir)
	}
	if n.define != nil {
		n.define.SetPageComplete(n.define.IsPageComplete())
	}
}

// Run handles events in order until the channel closes or ctx is done
func (n *Navigator) Run(ctx context.Context, events <-chan PageChangedEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			n.PageChanged(ev)
		}
	}
}

// Previous returns the most recently selected stage
func (n *Navigator) Previous() Stage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.previous
}

// Disarm stops all further compensation. Called once the project is imported.
func (n *Navigator) Disarm() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.disarmed = true
}

// removeProjectDir deletes dir recursively. Failures are logged and dropped.
func removeProjectDir(remove func(string) error, dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		log.Warnf("wizard: cannot resolve %s: %v", dir, err)
		return
	}
	if abs == filepath.Dir(abs) {
		log.Warnf("wizard: refusing to remove filesystem root %s", abs)
		return
	}
	if err := remove(abs); err != nil {
		log.Warnf("wizard: failed to remove %s: %v", abs, err)
		return
	}
	log.Debugf("wizard: removed %s", abs)
}
