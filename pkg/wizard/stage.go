// SPDX-License-Identifier: Apache-2.0

// Package wizard drives the four-stage new-project workflow: it undoes
// preview side effects on backward navigation and performs the final
// create-and-import on finish.
package wizard

// Stage identifies a wizard page. Stages are compared by value, never by
// position, because the welcome page may be hidden.
type Stage int

const (
	StageWelcome Stage = iota + 1
	StageDefine
	StageOptions
	StagePreview
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StageDefine:
		return "define"
	case StageOptions:
		return "options"
	case StagePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Title is the label shown for the stage
func (s Stage) Title() string {
	switch s {
	case StageWelcome:
		return "Welcome"
	case StageDefine:
		return "Project"
	case StageOptions:
		return "Options"
	case StagePreview:
		return "Preview"
	default:
		return "?"
	}
}

// Stages returns the stages in display order
func Stages(showWelcome bool) []Stage {
	if showWelcome {
		return []Stage{StageWelcome, StageDefine, StageOptions, StagePreview}
	}
	return []Stage{StageDefine, StageOptions, StagePreview}
}

// PageChangedEvent is emitted whenever a stage becomes the selected one
type PageChangedEvent struct {
	Selected Stage
}
