// SPDX-License-Identifier: Apache-2.0

// Package workspace keeps the list of projects imported by crucible in a
// YAML file.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/project"
)

// Project is one imported project
type Project struct {
	Name        string               `yaml:"name"`
	Dir         string               `yaml:"dir"`
	Template    project.TemplateKind `yaml:"template"`
	WorkingSets []string             `yaml:"working_sets,omitempty"`
	ImportedAt  time.Time            `yaml:"imported_at"`
	UpdatedAt   time.Time            `yaml:"updated_at,omitempty"`
}

type document struct {
	Projects []Project `yaml:"projects"`
}

// Workspace is backed by a single YAML file. A missing file is an empty workspace.
type Workspace struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// Open returns the workspace stored at path. Nothing is read until first use.
func Open(path string) *Workspace {
	return &Workspace{path: path, now: time.Now}
}

// Path returns the backing file
func (w *Workspace) Path() string {
	return w.path
}

// Import records the project in cfg. A project already registered for the
// same directory is merged: its template is replaced and working sets are
// unioned.
func (w *Workspace) Import(ctx context.Context, cfg project.BuildConfig) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", project.ErrCancelled, err)
	}
	if cfg.RootDirectory == "" {
		return project.ErrMissingRootDirectory
	}
	dir, err := filepath.Abs(cfg.RootDirectory)
	if err != nil {
		return err
	}

	name := filepath.Base(dir)
	if model, err := preview.ReadModel(dir); err == nil {
		name = model.RootName
	} else {
		log.Debugf("workspace: reading %s: %v", dir, err)
	}

	var sets []string
	if cfg.ApplyWorkingSets {
		sets = cfg.WorkingSets
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	doc, err := w.load()
	if err != nil {
		return err
	}

	now := w.now().UTC().Truncate(time.Second)
	i := slices.IndexFunc(doc.Projects, func(p Project) bool { return p.Dir == dir })
	if i >= 0 {
		p := &doc.Projects[i]
		p.Name = name
		p.Template = cfg.TemplateKind
		p.WorkingSets = union(p.WorkingSets, sets)
		p.UpdatedAt = now
		log.Debugf("workspace: merged %s", dir)
	} else {
		doc.Projects = append(doc.Projects, Project{
			Name:        name,
			Dir:         dir,
			Template:    cfg.TemplateKind,
			WorkingSets: union(nil, sets),
			ImportedAt:  now,
		})
		log.Debugf("workspace: imported %s", dir)
	}

	return w.save(doc)
}

// List returns the imported projects sorted by name
func (w *Workspace) List() ([]Project, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, err := w.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(doc.Projects, func(i, j int) bool {
		return doc.Projects[i].Name < doc.Projects[j].Name
	})
	return doc.Projects, nil
}

// Forget removes the project registered for dir. The project files are
// left alone. It reports whether an entry was removed.
func (w *Workspace) Forget(dir string) (bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	doc, err := w.load()
	if err != nil {
		return false, err
	}
	n := len(doc.Projects)
	doc.Projects = slices.DeleteFunc(doc.Projects, func(p Project) bool { return p.Dir == abs })
	if len(doc.Projects) == n {
		return false, nil
	}
	return true, w.save(doc)
}

func (w *Workspace) load() (document, error) {
	var doc document
	data, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read workspace: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse workspace %s: %w", w.path, err)
	}
	return doc, nil
}

// save writes through a temporary file so readers never see a partial document
func (w *Workspace) save(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".workspace-*.yaml")
	if err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write workspace: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	return nil
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, s := range b {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
