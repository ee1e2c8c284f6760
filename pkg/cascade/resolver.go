// Package cascade keeps the live selection state for a group of fields
// connected by dependsOn relationships: cascading selects where an ancestor
// choice narrows each descendant's options (Country -> State -> City).
package cascade

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Option is one selectable entry. Value doubles as the key used to walk the
// option index one level deeper for dependent fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Index is the externally supplied nested option mapping keyed by each
// field's optionName. Independent fields map to a flat list; dependent fields
// map through one nested level per dependency, keyed by the ancestor's
// current value, terminating in a flat list. Values may arrive as decoded
// JSON (map[string]any / []any) or as typed Option slices.
type Index map[string]any

// GroupOption customises a Group.
type GroupOption func(*Group)

// WithSeed initialises selections from pre-existing form values.
func WithSeed(values map[string]any) GroupOption {
	return func(g *Group) {
		for name, value := range values {
			if key := valueKey(value); key != "" {
				g.selections[name] = key
			}
		}
	}
}

// WithUsedValues supplies the sibling-row lookup backing filterUsedOptions:
// values already chosen by other rows are excluded from a field's options.
func WithUsedValues(used func(field string) []string) GroupOption {
	return func(g *Group) {
		g.usedValues = used
	}
}

// Group owns the selection state for one cascade group. A Group must not be
// shared between concurrent form instances; all methods assume single-caller
// access per instance.
type Group struct {
	fields     map[string]schema.FieldDescriptor
	order      []string
	index      Index
	selections map[string]string
	custom     map[string][]Option
	usedValues func(field string) []string
}

// NewGroup builds a cascade group over the given descriptors and option
// index. Selections and the custom-option store start empty unless seeded.
func NewGroup(fields []schema.FieldDescriptor, index Index, options ...GroupOption) *Group {
	g := &Group{
		fields:     make(map[string]schema.FieldDescriptor, len(fields)),
		index:      index,
		selections: make(map[string]string),
		custom:     make(map[string][]Option),
	}
	for _, fd := range fields {
		if _, exists := g.fields[fd.Name]; exists {
			continue
		}
		g.fields[fd.Name] = fd
		g.order = append(g.order, fd.Name)
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// Fields lists the group's field names in declaration order.
func (g *Group) Fields() []string {
	return append([]string(nil), g.order...)
}

// Selections returns a copy of the current selection state.
func (g *Group) Selections() map[string]string {
	out := make(map[string]string, len(g.selections))
	for name, value := range g.selections {
		out[name] = value
	}
	return out
}

// Value returns the current selection for a field.
func (g *Group) Value(field string) (string, bool) {
	value, ok := g.selections[field]
	return value, ok
}

// Disabled reports whether a field is disabled for interaction: it declares
// at least one dependency and at least one of them is currently empty.
func (g *Group) Disabled(field string) bool {
	fd, ok := g.fields[field]
	if !ok {
		return false
	}
	for _, dep := range fd.DependsOn {
		if g.selections[dep] == "" {
			return len(fd.DependsOn) > 0
		}
	}
	return false
}

// OptionsFor computes a field's available options from the option index and
// any custom options registered under the field's current dependency
// context. Unresolved dependencies yield an empty list, never an error.
// Options are recomputed on every call; nothing is cached across changes.
func (g *Group) OptionsFor(field string) []Option {
	fd, ok := g.fields[field]
	if !ok {
		return nil
	}

	node := g.index[fd.OptionKey()]
	for _, dep := range fd.DependsOn {
		value := g.selections[dep]
		if value == "" {
			return nil
		}
		level, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = level[value]
	}

	base := coerceOptions(node)
	merged := append(base, g.custom[g.contextKey(fd)]...)
	return g.filterUsed(fd, merged)
}

// ComputeEffects is the pure half of Select: it returns the selection map
// that would result from setting field to value, plus the descendant fields
// whose external form bindings must be cleared. The caller applies both
// atomically; nothing here mutates the group.
func (g *Group) ComputeEffects(field, value string) (map[string]string, []string) {
	next := g.Selections()
	current := next[field]

	if value == "" {
		delete(next, field)
	} else {
		next[field] = value
	}

	// Re-selecting the identical value is a no-op for descendant clearing;
	// every other transition, including non-empty to empty, invalidates.
	if current == value {
		return next, nil
	}

	cleared := g.descendantsOf(field)
	for _, name := range cleared {
		delete(next, name)
	}
	return next, cleared
}

// Select applies ComputeEffects in one step and returns the fields whose
// external bindings must be cleared by the caller. Passing an empty value
// clears the field and cascades exactly as a value change would.
func (g *Group) Select(field string, value any) []string {
	next, cleared := g.ComputeEffects(field, valueKey(value))
	g.selections = next
	return cleared
}

// AddCustomOption registers a user-entered option under the field's exact
// current dependency context. Adding a value that already exists under that
// context is a no-op; the method reports whether the option was added.
func (g *Group) AddCustomOption(field string, option Option) bool {
	fd, ok := g.fields[field]
	if !ok || option.Value == "" {
		return false
	}
	key := g.contextKey(fd)
	for _, existing := range g.custom[key] {
		if existing.Value == option.Value {
			return false
		}
	}
	g.custom[key] = append(g.custom[key], option)
	return true
}

// descendantsOf returns every field transitively depending on the given
// field, in declaration order.
func (g *Group) descendantsOf(field string) []string {
	stale := map[string]bool{field: true}
	// Dependencies are declared in order, so one forward pass per level is
	// enough once we loop until the set stops growing.
	for {
		grew := false
		for _, name := range g.order {
			if stale[name] {
				continue
			}
			for _, dep := range g.fields[name].DependsOn {
				if stale[dep] {
					stale[name] = true
					grew = true
					break
				}
			}
		}
		if !grew {
			break
		}
	}
	var out []string
	for _, name := range g.order {
		if name != field && stale[name] {
			out = append(out, name)
		}
	}
	return out
}

// contextKey builds the composite custom-option key: the field name plus the
// ordered dependency:value pairs of its current context. Changing any
// ancestor value changes the key, making stale custom options unreachable
// without deleting them.
func (g *Group) contextKey(fd schema.FieldDescriptor) string {
	parts := make([]string, 0, len(fd.DependsOn)+1)
	parts = append(parts, fd.Name)
	for _, dep := range fd.DependsOn {
		parts = append(parts, dep+":"+g.selections[dep])
	}
	return strings.Join(parts, "|")
}

func (g *Group) filterUsed(fd schema.FieldDescriptor, options []Option) []Option {
	if !fd.FilterUsedOptions || g.usedValues == nil {
		return options
	}
	used := g.usedValues(fd.Name)
	if len(used) == 0 {
		return options
	}
	taken := make(map[string]bool, len(used))
	for _, value := range used {
		taken[value] = true
	}
	out := options[:0:0]
	for _, opt := range options {
		if taken[opt.Value] {
			continue
		}
		out = append(out, opt)
	}
	return out
}

// coerceOptions accepts typed option slices and decoded-JSON shapes.
func coerceOptions(node any) []Option {
	switch t := node.(type) {
	case nil:
		return nil
	case []Option:
		return append([]Option(nil), t...)
	case []string:
		out := make([]Option, 0, len(t))
		for _, value := range t {
			out = append(out, Option{Value: value, Label: value})
		}
		return out
	case []any:
		out := make([]Option, 0, len(t))
		for _, entry := range t {
			switch e := entry.(type) {
			case string:
				out = append(out, Option{Value: e, Label: e})
			case map[string]any:
				opt := Option{Value: valueKey(e["value"])}
				if label, ok := e["label"].(string); ok {
					opt.Label = label
				}
				if opt.Value != "" {
					out = append(out, opt)
				}
			}
		}
		return out
	default:
		return nil
	}
}

// valueKey canonicalizes a selection value (string or number) into the
// string key used to walk the option index.
func valueKey(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ContextOf renders a field's current dependency context for diagnostics.
func (g *Group) ContextOf(field string) map[string]string {
	fd, ok := g.fields[field]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(fd.DependsOn))
	for _, dep := range fd.DependsOn {
		out[dep] = g.selections[dep]
	}
	return out
}

// GroupFields partitions descriptors into cascade groups: fields connected
// through dependsOn edges resolve together. Returned groups preserve
// declaration order; the map keys each group by its first field.
func GroupFields(fields []schema.FieldDescriptor) map[string][]schema.FieldDescriptor {
	parent := make(map[string]string)
	var find func(string) string
	find = func(name string) string {
		root, ok := parent[name]
		if !ok || root == name {
			if !ok {
				parent[name] = name
			}
			return name
		}
		resolved := find(root)
		parent[name] = resolved
		return resolved
	}
	union := func(a, b string) {
		parent[find(a)] = find(b)
	}

	order := make(map[string]int)
	for i, fd := range fields {
		order[fd.Name] = i
		find(fd.Name)
		for _, dep := range fd.DependsOn {
			union(fd.Name, dep)
		}
	}

	grouped := make(map[string][]schema.FieldDescriptor)
	roots := make(map[string]string)
	for _, fd := range fields {
		if len(fd.DependsOn) == 0 && !hasDependents(fd.Name, fields) {
			continue
		}
		root := find(fd.Name)
		key, ok := roots[root]
		if !ok {
			key = fd.Name
			roots[root] = key
		}
		grouped[key] = append(grouped[key], fd)
	}
	for key := range grouped {
		sort.SliceStable(grouped[key], func(i, j int) bool {
			return order[grouped[key][i].Name] < order[grouped[key][j].Name]
		})
	}
	return grouped
}

func hasDependents(name string, fields []schema.FieldDescriptor) bool {
	for _, fd := range fields {
		for _, dep := range fd.DependsOn {
			if dep == name {
				return true
			}
		}
	}
	return false
}
