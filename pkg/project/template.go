// SPDX-License-Identifier: Apache-2.0
package project

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TemplateKind selects the project type passed to `gradle init --type`
type TemplateKind string

const (
	TemplateBasic            TemplateKind = "basic"
	TemplateJavaApplication  TemplateKind = "java-application"
	TemplateJavaLibrary      TemplateKind = "java-library"
	TemplateJavaGradlePlugin TemplateKind = "java-gradle-plugin"
	TemplateGroovyLibrary    TemplateKind = "groovy-library"
	TemplateKotlinLibrary    TemplateKind = "kotlin-library"
	TemplateScalaLibrary     TemplateKind = "scala-library"

	DefaultTemplate = TemplateJavaLibrary
)

// Templates lists every supported template in display order
var Templates = []TemplateKind{
	TemplateBasic,
	TemplateJavaApplication,
	TemplateJavaLibrary,
	TemplateJavaGradlePlugin,
	TemplateGroovyLibrary,
	TemplateKotlinLibrary,
	TemplateScalaLibrary,
}

// templateTitles are the human-readable names shown in forms
var templateTitles = map[TemplateKind]string{
	TemplateBasic:            "Basic",
	TemplateJavaApplication:  "Java application",
	TemplateJavaLibrary:      "Java library",
	TemplateJavaGradlePlugin: "Gradle plugin (Java)",
	TemplateGroovyLibrary:    "Groovy library",
	TemplateKotlinLibrary:    "Kotlin library",
	TemplateScalaLibrary:     "Scala library",
}

func (t TemplateKind) String() string {
	return string(t)
}

// Title returns the display name of the template
func (t TemplateKind) Title() string {
	if title, ok := templateTitles[t]; ok {
		return title
	}
	return string(t)
}

// maxSuggestDistance bounds how far off a typo may be before we stop guessing
const maxSuggestDistance = 4

// ParseTemplateKind converts a name into a TemplateKind.
// Unknown names return ErrUnknownTemplate with the closest known name as a hint.
func ParseTemplateKind(name string) (TemplateKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultTemplate, nil
	}
	for _, t := range Templates {
		if string(t) == name {
			return t, nil
		}
	}

	if suggestion, ok := suggestTemplate(name); ok {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTemplate, name, suggestion)
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownTemplate, name, strings.Join(TemplateNames(), ", "))
}

// TemplateNames returns the template names as strings
func TemplateNames() []string {
	names := make([]string, len(Templates))
	for i, t := range Templates {
		names[i] = string(t)
	}
	return names
}

func suggestTemplate(name string) (TemplateKind, bool) {
	best := TemplateKind("")
	bestDist := maxSuggestDistance + 1
	for _, t := range Templates {
		d := levenshtein.ComputeDistance(name, string(t))
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, best != ""
}
