// SPDX-License-Identifier: Apache-2.0
package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"1.2.3", "crucible version 1.2.3 "},
		{"", "crucible version dev "},
	}

	for _, tt := range tests {
		cmd := NewVersionCmd(tt.version)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(nil)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("execute failed: %v", err)
		}
		if !strings.HasPrefix(out.String(), tt.want) {
			t.Errorf("expected output to start with %q, got %q", tt.want, out.String())
		}
	}
}
