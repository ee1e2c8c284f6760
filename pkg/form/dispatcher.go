package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Node is one dispatched field: everything a renderer needs to draw the
// widget and wire user edits back into the form state.
type Node struct {
	ID          string
	Name        string
	Label       string
	Placeholder string
	Component   string
	Value       any
	Error       string
	Options     []cascade.Option
	Disabled    bool
	Metadata    map[string]string
	Children    []Node
	// OnChange writes the user's edit through to the form state. Nil for
	// presentational components.
	OnChange func(value any)
}

// FieldContext carries everything a component handler may consult.
type FieldContext struct {
	Descriptor schema.FieldDescriptor
	Path       schema.Path
	State      *State
	Cascade    *cascade.Group
	ID         string
	Error      string
	dispatcher *Dispatcher
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithComponents overrides the component registry.
func WithComponents(registry *Registry) DispatcherOption {
	return func(d *Dispatcher) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// WithSanitizer overrides the rich-text sanitation policy.
func WithSanitizer(policy *bluemonday.Policy) DispatcherOption {
	return func(d *Dispatcher) {
		if policy != nil {
			d.sanitizer = policy
		}
	}
}

// WithNotifier installs the transient-notification hook used for upload
// failures. The default drops messages.
func WithNotifier(notify func(message string)) DispatcherOption {
	return func(d *Dispatcher) {
		if notify != nil {
			d.notify = notify
		}
	}
}

// WithUploader installs the external upload collaborator for file-bearing
// fields.
func WithUploader(uploader Uploader) DispatcherOption {
	return func(d *Dispatcher) {
		d.uploader = uploader
	}
}

// Dispatcher selects one concrete renderer per declared component type and
// wires it to read and write the live form state. Its only persistent state
// is the per-field-name id cache; ids stay stable across repeated dispatch
// for the same field.
type Dispatcher struct {
	registry  *Registry
	sanitizer *bluemonday.Policy
	notify    func(string)
	uploader  Uploader
	uploads   map[string]*UploadStats
	ids       map[string]string
	seq       int
}

// NewDispatcher constructs a dispatcher with the built-in component set.
func NewDispatcher(options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sanitizer: bluemonday.UGCPolicy(),
		notify:    func(string) {},
		uploads:   make(map[string]*UploadStats),
		ids:       make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if d.registry == nil {
		d.registry = DefaultRegistry()
	}
	return d
}

// Dispatch builds the node for one descriptor against the live state. The
// second return is false when the component tag is unknown: callers render
// nothing, no error is raised.
func (d *Dispatcher) Dispatch(fd schema.FieldDescriptor, state *State, group *cascade.Group) (Node, bool) {
	handler, ok := d.registry.Resolve(fd.Component)
	if !ok {
		return Node{}, false
	}

	path := schema.ParsePath(fd.Name)
	ctx := FieldContext{
		Descriptor: fd,
		Path:       path,
		State:      state,
		Cascade:    group,
		ID:         d.fieldID(fd),
		Error:      d.lookupError(fd, path, state),
		dispatcher: d,
	}
	return handler(ctx), true
}

// DispatchAll walks flattened rows in order and returns the rendered tree,
// skipping unknown components.
func (d *Dispatcher) DispatchAll(rows []schema.Row, state *State, groups map[string]*cascade.Group) []Node {
	var nodes []Node
	byField := fieldGroupIndex(groups)
	for _, fd := range schema.Flatten(rows) {
		node, ok := d.Dispatch(fd, state, byField[fd.Name])
		if !ok {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func fieldGroupIndex(groups map[string]*cascade.Group) map[string]*cascade.Group {
	out := make(map[string]*cascade.Group)
	for _, group := range groups {
		for _, name := range group.Fields() {
			out[name] = group
		}
	}
	return out
}

// fieldID resolves a stable identity: the explicit id when declared, else a
// generated id cached by field name so repeated dispatch never changes it.
func (d *Dispatcher) fieldID(fd schema.FieldDescriptor) string {
	if fd.ID != "" {
		return fd.ID
	}
	if id, ok := d.ids[fd.Name]; ok {
		return id
	}
	d.seq++
	id := fmt.Sprintf("field-%s-%d", sanitizeID(fd.Name), d.seq)
	d.ids[fd.Name] = id
	return id
}

func sanitizeID(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

// lookupError walks the state's error tree along the field path. Combined
// input+select pairs surface whichever sub-field error is present.
func (d *Dispatcher) lookupError(fd schema.FieldDescriptor, path schema.Path, state *State) string {
	if state == nil {
		return ""
	}
	if fd.Component == schema.ComponentPhone {
		for _, sub := range []string{"dialCode", "number"} {
			if msg, ok := state.ErrorAt(path.Child(sub)); ok {
				return msg
			}
		}
	}
	msg, _ := state.ErrorAt(path)
	return msg
}

// CoerceNumeric converts formatted numeric text ("1,234.56") into a raw
// float64. Unparsable input is returned unchanged so validation can flag it.
func CoerceNumeric(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	cleaned := strings.NewReplacer(",", "", " ", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return nil
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return s
	}
	return n
}
