// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question on the terminal, defaulting to no.
// Escape or ctrl+c count as no.
func Confirm(question, affirmative string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative(affirmative).
		Negative("Keep").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
