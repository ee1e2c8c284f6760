package validate

import (
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Validator checks one value and returns its transformed form. A nil Issues
// result means the value passed; the transformed value replaces the input in
// the validated output (dates parse into time.Time, numbers canonicalize to
// float64).
type Validator interface {
	Validate(path schema.Path, value any) (any, Issues)
}

// Any is the unconstrained passthrough validator used for unrecognized
// validation types on non-nested fields.
type Any struct{}

func (Any) Validate(_ schema.Path, value any) (any, Issues) { return value, nil }

// Object validates a map of named values against per-field validators.
// Immutable after construction; safe for concurrent Validate calls.
type Object struct {
	fields map[string]Validator
	order  []string
}

// NewObject builds an object validator over the supplied fields. Iteration
// order follows the order keys were added.
func NewObject() *Object {
	return &Object{fields: make(map[string]Validator)}
}

// Set assigns a field validator, last write wins. Adding a key twice keeps
// its original position.
func (o *Object) Set(name string, v Validator) {
	if _, exists := o.fields[name]; !exists {
		o.order = append(o.order, name)
	}
	o.fields[name] = v
}

// Field returns the validator registered under name.
func (o *Object) Field(name string) (Validator, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Fields lists field names in registration order.
func (o *Object) Fields() []string {
	return append([]string(nil), o.order...)
}

// Len reports how many fields the object validates.
func (o *Object) Len() int { return len(o.order) }

// Validate checks each registered field against the matching key of the
// input map. Missing keys validate as nil so required rules can fire. Keys
// without a validator pass through untouched.
func (o *Object) Validate(path schema.Path, value any) (any, Issues) {
	m, ok := value.(map[string]any)
	if value != nil && !ok {
		return value, Issues{{Path: path.String(), Code: CodeInvalidType, Message: "expected an object"}}
	}

	out := make(map[string]any, len(o.order))
	var issues Issues
	for _, name := range o.order {
		var raw any
		if m != nil {
			raw = m[name]
		}
		transformed, iss := o.fields[name].Validate(path.Child(name), raw)
		if len(iss) > 0 {
			issues = append(issues, iss...)
			continue
		}
		if transformed != nil {
			out[name] = transformed
		}
	}
	for key, raw := range m {
		if _, known := o.fields[key]; !known {
			out[key] = raw
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

// Parse validates a whole form value map from the schema root.
func (o *Object) Parse(values map[string]any) (map[string]any, error) {
	transformed, issues := o.Validate(nil, values)
	if len(issues) > 0 {
		return nil, issues
	}
	m, _ := transformed.(map[string]any)
	return m, nil
}

// Array validates a slice of item objects, optionally enforcing an exact
// length on the whole slice.
type Array struct {
	item   *Object
	length *int
	label  string
	msg    string
}

// NewArray wraps an item-object validator. length, when non-nil, is an
// exact-length constraint with msg as its configured message.
func NewArray(item *Object, length *int, label, msg string) *Array {
	return &Array{item: item, length: length, label: label, msg: msg}
}

// Item exposes the per-item object validator.
func (a *Array) Item() *Object { return a.item }

func (a *Array) Validate(path schema.Path, value any) (any, Issues) {
	var items []any
	switch v := value.(type) {
	case nil:
	case []any:
		items = v
	case []map[string]any:
		items = make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
	default:
		return value, Issues{{Path: path.String(), Code: CodeInvalidType, Message: "expected a list"}}
	}

	if a.length != nil && len(items) != *a.length {
		msg := a.msg
		if msg == "" {
			msg = fmtMessage("%s must have exactly %d entries", a.label, *a.length)
		}
		return nil, Issues{{Path: path.String(), Code: CodeLength, Message: msg, Params: map[string]any{"length": *a.length, "got": len(items)}}}
	}

	out := make([]any, 0, len(items))
	var issues Issues
	for i, item := range items {
		transformed, iss := a.item.Validate(path.At(i), item)
		if len(iss) > 0 {
			issues = append(issues, iss...)
			continue
		}
		out = append(out, transformed)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}
