package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
)

// SubsetNodes returns only the nodes whose names appear in the include list,
// preserving dispatch order. Children of a kept node are kept wholesale.
// Unknown names return an error so callers catch typos instead of silently
// rendering partial forms.
func SubsetNodes(nodes []form.Node, include []string) ([]form.Node, error) {
	if len(include) == 0 {
		return nodes, nil
	}

	wanted := make(map[string]bool, len(include))
	for _, name := range include {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		wanted[name] = true
	}

	var out []form.Node
	for _, node := range nodes {
		if wanted[node.Name] {
			out = append(out, node)
			delete(wanted, node.Name)
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for _, name := range include {
			if wanted[strings.TrimSpace(name)] {
				missing = append(missing, name)
				delete(wanted, strings.TrimSpace(name))
			}
		}
		return nil, fmt.Errorf("render: subset fields not found: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// ExcludeNodes returns the nodes whose names do not appear in the exclude
// list. Unknown names are ignored.
func ExcludeNodes(nodes []form.Node, exclude []string) []form.Node {
	if len(exclude) == 0 {
		return nodes
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[strings.TrimSpace(name)] = true
	}
	var out []form.Node
	for _, node := range nodes {
		if skip[node.Name] {
			continue
		}
		out = append(out, node)
	}
	return out
}
