// SPDX-License-Identifier: Apache-2.0
package project

import (
	"slices"
	"sync"
)

// DefaultToolCommand is the build tool invoked when none is configured
const DefaultToolCommand = "gradle"

// Value is an observable holder for a single configuration field.
// Writes happen on the foreground navigation stream only; the mutex guards
// the listener list and lets background jobs read safely.
type Value[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners map[int]func(old, new T)
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores a new value and notifies subscribers
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	old := v.value
	v.value = value
	listeners := make([]func(old, new T), 0, len(v.listeners))
	for _, l := range v.listeners {
		listeners = append(listeners, l)
	}
	v.mu.Unlock()

	for _, l := range listeners {
		l(old, value)
	}
}

// Subscribe registers fn to be called after every Set.
// The returned function removes the subscription.
func (v *Value[T]) Subscribe(fn func(old, new T)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listeners == nil {
		v.listeners = make(map[int]func(old, new T))
	}
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Configuration holds everything the user enters while stepping through the
// new-project wizard. It is created once per workflow and shared by pointer.
type Configuration struct {
	RootDirectory    Value[string]
	TemplateKind     Value[TemplateKind]
	WorkingSets      Value[[]string]
	ApplyWorkingSets Value[bool]

	// Build tool options
	ToolCommand  Value[string]
	JavaHome     Value[string]
	ToolUserHome Value[string]
}

// NewConfiguration returns a configuration with the default template and tool
func NewConfiguration() *Configuration {
	c := &Configuration{}
	c.TemplateKind.Set(DefaultTemplate)
	c.ToolCommand.Set(DefaultToolCommand)
	return c
}

// Seed applies a pre-existing selection of working set names.
// An empty selection leaves the configuration untouched.
func (c *Configuration) Seed(selection []string) {
	if len(selection) == 0 {
		return
	}
	c.ApplyWorkingSets.Set(true)
	c.WorkingSets.Set(slices.Clone(selection))
}

// BuildConfig is an immutable snapshot of a Configuration, handed to
// background jobs so later edits cannot leak into a running initialization.
type BuildConfig struct {
	RootDirectory    string
	TemplateKind     TemplateKind
	WorkingSets      []string
	ApplyWorkingSets bool
	ToolCommand      string
	JavaHome         string
	ToolUserHome     string
}

// ToBuildConfig takes a snapshot of the current values
func (c *Configuration) ToBuildConfig() BuildConfig {
	tool := c.ToolCommand.Get()
	if tool == "" {
		tool = DefaultToolCommand
	}
	return BuildConfig{
		RootDirectory:    c.RootDirectory.Get(),
		TemplateKind:     c.TemplateKind.Get(),
		WorkingSets:      slices.Clone(c.WorkingSets.Get()),
		ApplyWorkingSets: c.ApplyWorkingSets.Get(),
		ToolCommand:      tool,
		JavaHome:         c.JavaHome.Get(),
		ToolUserHome:     c.ToolUserHome.Get(),
	}
}

// Env returns the extra environment entries for the build tool process
func (b BuildConfig) Env() []string {
	var env []string
	if b.JavaHome != "" {
		env = append(env, "JAVA_HOME="+b.JavaHome)
	}
	if b.ToolUserHome != "" {
		env = append(env, "GRADLE_USER_HOME="+b.ToolUserHome)
	}
	return env
}
