// SPDX-License-Identifier: Apache-2.0
package initializer

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchArtifacts reports entries created under dir while the build tool runs.
// The returned stop function closes the watcher and waits for the event loop.
// Watching is best effort: if the watcher cannot start, creation proceeds silently.
func watchArtifacts(dir string, progress ProgressFunc) (stop func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debugf("initializer: artifact watcher unavailable: %v", err)
		return func() {}
	}
	if err := watcher.Add(dir); err != nil {
		log.Debugf("initializer: cannot watch %s: %v", dir, err)
		watcher.Close()
		return func() {}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) {
					continue
				}
				rel, err := filepath.Rel(dir, ev.Name)
				if err != nil {
					rel = ev.Name
				}
				progress(Progress{Phase: PhaseArtifact, Message: rel})

				// fsnotify is not recursive; follow new subdirectories
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debugf("initializer: watcher error: %v", err)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			watcher.Close()
			wg.Wait()
		})
	}
}
