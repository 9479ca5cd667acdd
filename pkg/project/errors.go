// SPDX-License-Identifier: Apache-2.0
package project

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the initializer, the preview loader and the
// finish path. Callers match with errors.Is.
var (
	// ErrDirectoryExists is benign: initialization treats it as a no-op
	ErrDirectoryExists      = errors.New("project directory already exists")
	ErrDirectoryCreation    = errors.New("failed to create project directory")
	ErrExternalTool         = errors.New("build tool failed")
	ErrMetadataQuery        = errors.New("failed to query build metadata")
	ErrCancelled            = errors.New("cancelled")
	ErrMissingRootDirectory = errors.New("project location is not set")
	ErrUnknownTemplate      = errors.New("unknown project template")
)

// Error kinds reported by Classify
const (
	KindDirectory = "directory"
	KindTool      = "tool"
	KindMetadata  = "metadata"
	KindCancelled = "cancelled"
	KindInput     = "input"
	KindInternal  = "internal"
)

// Classify maps an error onto one of the Kind constants
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrDirectoryCreation), errors.Is(err, ErrDirectoryExists):
		return KindDirectory
	case errors.Is(err, ErrExternalTool):
		return KindTool
	case errors.Is(err, ErrMetadataQuery):
		return KindMetadata
	case errors.Is(err, ErrMissingRootDirectory), errors.Is(err, ErrUnknownTemplate):
		return KindInput
	default:
		return KindInternal
	}
}

// Pretty formats an error with an actionable hint for terminal output
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	switch Classify(err) {
	case KindDirectory:
		return fmt.Sprintf("%s\n\nHint: check that the parent directory exists and is writable.", msg)
	case KindTool:
		return fmt.Sprintf("%s\n\nHint: make sure the build tool is installed, or point to it with:\n"+
			"  crucible config set --global build-tool.command /path/to/gradle", msg)
	case KindMetadata:
		return fmt.Sprintf("%s\n\nHint: the project was created but could not be inspected; "+
			"run the build tool in that directory to see the underlying error.", msg)
	case KindCancelled:
		return "Operation cancelled"
	default:
		return msg
	}
}
