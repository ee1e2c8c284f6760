package form

import (
	"strconv"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validate"
)

// State is the live value store one form instance reads and writes through
// dispatched fields. Values and errors are nested trees addressed by parsed
// field paths; touched flags are tracked flat by dotted name.
type State struct {
	values  map[string]any
	errors  map[string]any
	touched map[string]bool
}

// NewState creates a state seeded with initial values. The map is used
// directly; callers that need isolation should pass a copy.
func NewState(initial map[string]any) *State {
	if initial == nil {
		initial = make(map[string]any)
	}
	return &State{
		values:  initial,
		errors:  make(map[string]any),
		touched: make(map[string]bool),
	}
}

// Values exposes the underlying value tree for validation and submission.
func (s *State) Values() map[string]any { return s.values }

// Value walks the value tree along the parsed path. Any absent segment
// returns (nil, false).
func (s *State) Value(path schema.Path) (any, bool) {
	var cur any = s.values
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			if seg.IsIndex {
				return nil, false
			}
			next, ok := node[seg.Key]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			if !seg.IsIndex || seg.Index >= len(node) {
				return nil, false
			}
			cur = node[seg.Index]
		default:
			return nil, false
		}
	}
	return cur, true
}

// SetValue writes through to the value tree, creating intermediate objects
// and growing arrays as needed.
func (s *State) SetValue(path schema.Path, value any) {
	if len(path) == 0 {
		return
	}
	s.values = setIn(s.values, path, value).(map[string]any)
}

// Clear removes the value at path, leaving intermediate containers in place.
func (s *State) Clear(path schema.Path) {
	if len(path) == 0 {
		return
	}
	parent, last := path[:len(path)-1], path[len(path)-1]
	cur, ok := s.Value(parent)
	if !ok {
		return
	}
	if m, ok := cur.(map[string]any); ok && !last.IsIndex {
		delete(m, last.Key)
	}
}

// Touch marks a field as interacted with.
func (s *State) Touch(path schema.Path) { s.touched[path.String()] = true }

// Touched reports whether the field has been interacted with.
func (s *State) Touched(path schema.Path) bool { return s.touched[path.String()] }

// SetIssues replaces the error tree from a validation result. The first
// issue per path wins, matching fail-closed rule ordering.
func (s *State) SetIssues(issues validate.Issues) {
	s.errors = make(map[string]any)
	for _, issue := range issues {
		path := schema.ParsePath(issue.Path)
		if len(path) == 0 {
			continue
		}
		if _, exists := errorAt(s.errors, path); exists {
			continue
		}
		s.errors = setIn(s.errors, path, issue.Message).(map[string]any)
	}
}

// ErrorAt walks the error tree along the parsed path; any absent segment
// returns no error.
func (s *State) ErrorAt(path schema.Path) (string, bool) {
	return errorAt(s.errors, path)
}

func errorAt(errors map[string]any, path schema.Path) (string, bool) {
	var cur any = errors
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[segmentKey(seg)]
			if !ok {
				return "", false
			}
			cur = next
		case []any:
			if !seg.IsIndex || seg.Index >= len(node) {
				return "", false
			}
			cur = node[seg.Index]
		default:
			return "", false
		}
	}
	msg, ok := cur.(string)
	return msg, ok
}

// setIn returns container with value assigned at path, building maps for key
// segments and growing slices for index segments.
func setIn(container any, path schema.Path, value any) any {
	seg := path[0]
	if len(path) == 1 {
		return assign(container, seg, value)
	}

	var child any
	switch node := container.(type) {
	case map[string]any:
		child = node[segmentKey(seg)]
	case []any:
		if seg.IsIndex && seg.Index < len(node) {
			child = node[seg.Index]
		}
	}
	if child == nil {
		if path[1].IsIndex {
			child = []any{}
		} else {
			child = map[string]any{}
		}
	}
	return assign(container, seg, setIn(child, path[1:], value))
}

func assign(container any, seg schema.Segment, value any) any {
	switch node := container.(type) {
	case map[string]any:
		node[segmentKey(seg)] = value
		return node
	case []any:
		if !seg.IsIndex {
			return node
		}
		for len(node) <= seg.Index {
			node = append(node, nil)
		}
		node[seg.Index] = value
		return node
	default:
		fresh := map[string]any{segmentKey(seg): value}
		return fresh
	}
}

func segmentKey(seg schema.Segment) string {
	if seg.IsIndex {
		return strconv.Itoa(seg.Index)
	}
	return seg.Key
}
