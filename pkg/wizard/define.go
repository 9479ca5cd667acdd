// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"fmt"
	"os"
	"sync"

	"github.com/Work-Fort/Crucible/pkg/project"
)

// CompletionPage is a page whose completion flag can be recomputed
type CompletionPage interface {
	IsPageComplete() bool
	SetPageComplete(complete bool)
}

// DefinePage validates the project location entered on the define stage.
// The location is acceptable when it is set and nothing exists there yet.
type DefinePage struct {
	config *project.Configuration

	mu       sync.Mutex
	complete bool
	listener func(complete bool)
}

// NewDefinePage returns a page that revalidates whenever the root directory changes
func NewDefinePage(config *project.Configuration) *DefinePage {
	p := &DefinePage{config: config}
	p.complete = p.IsPageComplete()
	config.RootDirectory.Subscribe(func(_, _ string) {
		p.SetPageComplete(p.IsPageComplete())
	})
	return p
}

// Validate explains why the page is not complete
func (p *DefinePage) Validate() error {
	return ValidateLocation(p.config.RootDirectory.Get())
}

// ValidateLocation checks a candidate project location without storing it
func ValidateLocation(dir string) error {
	if dir == "" {
		return project.ErrMissingRootDirectory
	}
	if _, err := os.Lstat(dir); err == nil {
		return fmt.Errorf("%w: %s", project.ErrDirectoryExists, dir)
	}
	return nil
}

// IsPageComplete recomputes completion from the current configuration
func (p *DefinePage) IsPageComplete() bool {
	return p.Validate() == nil
}

// SetPageComplete stores the flag and notifies the listener
func (p *DefinePage) SetPageComplete(complete bool) {
	p.mu.Lock()
	p.complete = complete
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(complete)
	}
}

// Complete returns the last stored flag
func (p *DefinePage) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.complete
}

// OnCompletionChange registers the single listener for SetPageComplete
func (p *DefinePage) OnCompletionChange(fn func(complete bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
}
