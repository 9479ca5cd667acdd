// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"strings"
	"testing"
)

func TestRootCommands(t *testing.T) {
	want := []string{"new", "workspace", "config", "version", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

func TestGenerateHelpMarkdown(t *testing.T) {
	newCmd, _, err := rootCmd.Find([]string{"new"})
	if err != nil {
		t.Fatalf("find new: %v", err)
	}

	md := generateHelpMarkdown(newCmd)
	for _, want := range []string{"# new", "## Usage", "## Examples", "--template", "## Global Flags", "--log-level"} {
		if !strings.Contains(md, want) {
			t.Errorf("help markdown missing %q", want)
		}
	}

	root := generateHelpMarkdown(rootCmd)
	if !strings.Contains(root, "- **workspace** - Manage imported projects") {
		t.Errorf("root help should list subcommands, got:\n%s", root)
	}
}

func TestCompletionShells(t *testing.T) {
	completion, _, err := rootCmd.Find([]string{"completion"})
	if err != nil {
		t.Fatalf("find completion: %v", err)
	}

	var names []string
	for _, sub := range completion.Commands() {
		names = append(names, sub.Name())
	}
	if strings.Join(names, ",") != "bash,fish,zsh" {
		t.Errorf("expected bash, fish and zsh, got %v", names)
	}
}
