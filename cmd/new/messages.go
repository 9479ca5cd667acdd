// SPDX-License-Identifier: Apache-2.0
package new

import (
	"github.com/google/uuid"

	"github.com/Work-Fort/Crucible/pkg/initializer"
	"github.com/Work-Fort/Crucible/pkg/preview"
	"github.com/Work-Fort/Crucible/pkg/wizard"
)

// TabCompleteMsg signals that the form on a stage was submitted
type TabCompleteMsg struct {
	Stage wizard.Stage
}

// previewProgressMsg carries one progress event from a preview job
type previewProgressMsg struct {
	HandleID uuid.UUID
	Progress initializer.Progress
}

// previewDoneMsg carries the result of a preview job
type previewDoneMsg struct {
	Result preview.Result
}

// finishDoneMsg reports the outcome of the finish action
type finishDoneMsg struct {
	Err error
}

// preferenceSavedMsg reports a failure to persist the welcome page preference
type preferenceSavedMsg struct {
	Err error
}
