// SPDX-License-Identifier: Apache-2.0
package config

import (
	"encoding/json"
	"strings"
)

// durationPattern matches Go duration strings such as 90s or 1h30m
const durationPattern = `^(0|([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$`

// schemaNode is one JSON Schema object. Dotted registry keys become nested
// objects, so preview.environment-cache-ttl lives under preview.
type schemaNode struct {
	Schema      string                 `json:"$schema,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Default     interface{}            `json:"default,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Properties  map[string]*schemaNode `json:"properties,omitempty"`
	Closed      *bool                  `json:"additionalProperties,omitempty"`
}

// JSONSchema renders the registry as a Draft 2020-12 schema for editors.
// With a scope, keys forbidden there are left out and the scope's own enum
// or pattern replaces the global one.
func JSONSchema(scope *ConfigScope) ([]byte, error) {
	closed := false
	root := &schemaNode{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		Title:       "Crucible configuration",
		Description: "Settings read by crucible from the user and directory config files",
		Type:        "object",
		Properties:  map[string]*schemaNode{},
		Closed:      &closed,
	}
	if scope != nil {
		root.Title = "Crucible " + getScopeName(*scope) + " configuration"
		root.Description = "Keys accepted in " + DisplayConfigPath(*scope)
	}

	for _, def := range ConfigRegistry {
		var sc *ScopeConstraints
		if scope != nil {
			sc = scopeConstraints(&def, *scope)
		}
		if sc != nil && sc.Forbidden {
			continue
		}
		parent, name := root.branch(def.Key)
		parent.Properties[name] = keyNode(def, sc)
	}
	return json.MarshalIndent(root, "", "  ")
}

// branch walks to the object holding the last segment of key, creating
// intermediate objects on the way
func (n *schemaNode) branch(key string) (*schemaNode, string) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := n.Properties[p]
		if !ok {
			child = &schemaNode{Type: "object", Properties: map[string]*schemaNode{}}
			n.Properties[p] = child
		}
		n = child
	}
	return n, parts[len(parts)-1]
}

func keyNode(def ConfigKeyDefinition, sc *ScopeConstraints) *schemaNode {
	node := &schemaNode{Type: "string", Description: def.Description, Default: def.Default}
	enum, pattern := def.EnumValues, def.Pattern
	if sc != nil && len(sc.EnumValues) > 0 {
		enum = sc.EnumValues
	}
	if sc != nil && sc.Pattern != "" {
		pattern = sc.Pattern
	}

	switch def.Type {
	case "bool":
		node.Type = "boolean"
	case "enum":
		node.Enum = enum
	case "duration":
		node.Pattern = durationPattern
	default:
		node.Pattern = pattern
	}
	return node
}
