// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeyBinding represents a single key action
type KeyBinding struct {
	Key         string   // Display name: "ENTER", "TAB", "DEL"
	Keys        []string // Actual keys to match: ["enter"], ["tab"], ["delete", "backspace"]
	Description string   // What it does
}

// KeyBindingSet is a collection of related key bindings
type KeyBindingSet struct {
	Bindings []KeyBinding
}

// Contains checks if a key press matches any binding in the set
func (kbs KeyBindingSet) Contains(key string) *KeyBinding {
	for i := range kbs.Bindings {
		for _, k := range kbs.Bindings[i].Keys {
			if k == key {
				return &kbs.Bindings[i]
			}
		}
	}
	return nil
}

// RenderInline formats key bindings for inline display (more compact)
// Format: "Key: action | Key: action"
func (kbs KeyBindingSet) RenderInline(style lipgloss.Style) string {
	if len(kbs.Bindings) == 0 {
		return ""
	}

	parts := make([]string, len(kbs.Bindings))
	caser := cases.Title(language.Und, cases.NoLower)
	for i, binding := range kbs.Bindings {
		// Use first key alias for display (e.g., "enter" instead of showing all)
		keyName := caser.String(binding.Keys[0])
		parts[i] = fmt.Sprintf("%s: %s", keyName, strings.ToLower(binding.Description))
	}

	return style.Render(strings.Join(parts, " | "))
}

// Stage reports which F-key jump key was pressed, counting from 1
func (kbs KeyBindingSet) Stage(key string) (int, bool) {
	b := kbs.Contains(key)
	if b == nil || !strings.HasPrefix(b.Key, "F") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(b.Key, "F"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// WizardKeyBindings returns the keys that work on every wizard tab
func WizardKeyBindings() KeyBindingSet {
	return KeyBindingSet{
		Bindings: []KeyBinding{
			{Key: "ESC", Keys: []string{"esc"}, Description: "Back"},
			{Key: "CTRL+C", Keys: []string{"ctrl+c"}, Description: "Cancel"},
		},
	}
}

// StageKeyBindings returns one jump key per stage, F1 for the first
func StageKeyBindings(titles []string) KeyBindingSet {
	set := KeyBindingSet{Bindings: make([]KeyBinding, 0, len(titles))}
	for i, title := range titles {
		key := fmt.Sprintf("F%d", i+1)
		set.Bindings = append(set.Bindings, KeyBinding{
			Key:         key,
			Keys:        []string{strings.ToLower(key)},
			Description: title,
		})
	}
	return set
}

// PreviewKeyBindings returns the keys available once a preview has loaded
func PreviewKeyBindings() KeyBindingSet {
	return KeyBindingSet{
		Bindings: []KeyBinding{
			{Key: "ENTER", Keys: []string{"enter"}, Description: "Finish"},
		},
	}
}
