package orchestrator

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validate"
)

// FieldNames extracts the flat list of top-level value names a form binds:
// compiled schema keys first (grouped and array shapes already resolved),
// then any value-bearing descriptors the schema does not cover, such as
// dependent selects declared without validations. Order follows the schema
// then declaration order; duplicates collapse.
func FieldNames(def definition.Definition, compiled *validate.Object) []string {
	var names []string
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	if compiled != nil {
		for _, name := range compiled.Fields() {
			add(name)
		}
	}

	for _, fd := range def.Fields() {
		if schema.IsPresentational(fd.Component) {
			continue
		}
		// Object groupings bind through their grouped keys, which the
		// compiled schema already lists; the descriptor name itself never
		// holds a value.
		if fd.ValidationType() == schema.TypeObject {
			continue
		}
		add(headKey(fd.Name))
	}
	return names
}

// headKey reduces a dotted or indexed name to its top-level value key.
func headKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	path := schema.ParsePath(name)
	if len(path) == 0 || path[0].IsIndex {
		return ""
	}
	return path[0].Key
}
