// SPDX-License-Identifier: Apache-2.0
package workspace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Work-Fort/Crucible/pkg/project"
	"github.com/Work-Fort/Crucible/pkg/workspace"
)

func importProject(t *testing.T, ws *workspace.Workspace, dir string, sets ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	cfg := project.BuildConfig{
		RootDirectory:    dir,
		TemplateKind:     project.TemplateJavaApplication,
		WorkingSets:      sets,
		ApplyWorkingSets: len(sets) > 0,
	}
	if err := ws.Import(context.Background(), cfg); err != nil {
		t.Fatalf("import failed: %v", err)
	}
}

func TestListProjects(t *testing.T) {
	tmpDir := t.TempDir()
	ws := workspace.Open(filepath.Join(tmpDir, "workspace.yaml"))

	var empty bytes.Buffer
	if err := listProjects(&empty, ws); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(empty.String(), "No projects imported") {
		t.Errorf("expected empty message, got %q", empty.String())
	}

	importProject(t, ws, filepath.Join(tmpDir, "billing"), "backend")
	importProject(t, ws, filepath.Join(tmpDir, "app"))

	var out bytes.Buffer
	if err := listProjects(&out, ws); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "app") {
		t.Errorf("expected projects sorted by name, got %q first", lines[0])
	}
	if !strings.Contains(lines[1], "java-application") || !strings.Contains(lines[1], "backend") {
		t.Errorf("expected template and working sets in %q", lines[1])
	}
}

func TestForgetProject(t *testing.T) {
	tmpDir := t.TempDir()
	ws := workspace.Open(filepath.Join(tmpDir, "workspace.yaml"))
	dir := filepath.Join(tmpDir, "billing")
	importProject(t, ws, dir)

	var out bytes.Buffer
	if err := forgetProject(&out, ws, dir); err != nil {
		t.Fatalf("forget failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("forget must not touch the project directory: %v", err)
	}

	if err := forgetProject(&out, ws, dir); err == nil {
		t.Error("expected error forgetting an unknown project")
	}
}
