// SPDX-License-Identifier: Apache-2.0

// Package initializertest provides a scripted build tool for tests.
package initializertest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Work-Fort/Crucible/pkg/initializer"
)

// DefaultFiles is what the fake tool writes for an init run
var DefaultFiles = map[string]string{
	"settings.gradle":                   "rootProject.name = 'demo'\ninclude('lib')\n",
	"lib/build.gradle":                  "plugins { id 'java-library' }\n",
	"gradlew":                           "#!/bin/sh\n",
	"gradle/wrapper/wrapper.properties": "distributionUrl=https\\://services.gradle.org/distributions/gradle-8.5-bin.zip\n",
}

// FakeRunner pretends to be the build tool. It writes Files into the
// invocation directory and records every call.
type FakeRunner struct {
	mu    sync.Mutex
	calls []initializer.Invocation

	Files  map[string]string
	Output []string // Lines written to the invocation output
	Err    error    // Returned after writing files

	// Block makes Run wait until Release is closed or ctx is done
	Block   bool
	Release chan struct{}
	Started chan struct{}

	// VersionOutput is returned for "--version" invocations
	VersionOutput string
}

// NewFakeRunner returns a runner that writes DefaultFiles
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Files:         DefaultFiles,
		Release:       make(chan struct{}),
		Started:       make(chan struct{}, 16),
		VersionOutput: GradleVersionOutput,
	}
}

// Run implements initializer.Runner
func (f *FakeRunner) Run(ctx context.Context, inv initializer.Invocation) error {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	f.mu.Unlock()

	if len(inv.Args) == 1 && inv.Args[0] == "--version" {
		if inv.Output != nil {
			fmt.Fprint(inv.Output, f.VersionOutput)
		}
		return nil
	}

	select {
	case f.Started <- struct{}{}:
	default:
	}

	if f.Block {
		select {
		case <-f.Release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, line := range f.Output {
		if inv.Output != nil {
			fmt.Fprintln(inv.Output, line)
		}
	}

	for name, content := range f.Files {
		path := filepath.Join(inv.Dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}

	if f.Err != nil {
		return f.Err
	}
	return ctx.Err()
}

// Calls returns the recorded invocations
func (f *FakeRunner) Calls() []initializer.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]initializer.Invocation(nil), f.calls...)
}

// InitCalls counts recorded init invocations
func (f *FakeRunner) InitCalls() int {
	n := 0
	for _, c := range f.Calls() {
		if len(c.Args) > 0 && c.Args[0] == "init" {
			n++
		}
	}
	return n
}

// GradleVersionOutput mimics `gradle --version`
const GradleVersionOutput = `
------------------------------------------------------------
Gradle 8.5
------------------------------------------------------------

Build time:   2023-11-29 14:08:57 UTC
Kotlin:       1.9.20
JVM:          17.0.9 (Eclipse Adoptium 17.0.9+9)
OS:           Linux 6.1.0 amd64
`

// ErrToolFailed is a convenient failure for scripted runs
var ErrToolFailed = errors.New("exit status 1")
