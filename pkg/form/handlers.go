package form

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// DefaultRegistry returns a registry with every built-in component handler
// registered. Unknown tags stay unhandled on purpose.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, tag := range []string{
		schema.ComponentText,
		schema.ComponentCreditCard,
		schema.ComponentOTP,
		schema.ComponentColor,
		schema.ComponentDate,
		schema.ComponentDateTime,
		schema.ComponentPhone,
	} {
		r.MustRegister(tag, textInput)
	}

	r.MustRegister(schema.ComponentNumber, numberInput)
	r.MustRegister(schema.ComponentRichText, richTextInput)
	r.MustRegister(schema.ComponentSwitch, booleanInput)
	r.MustRegister(schema.ComponentTagList, listInput)

	for _, tag := range []string{
		schema.ComponentSelect,
		schema.ComponentCombobox,
		schema.ComponentCascade,
		schema.ComponentRadio,
	} {
		r.MustRegister(tag, selectInput)
	}

	r.MustRegister(schema.ComponentImage, uploadInput)
	r.MustRegister(schema.ComponentPDF, uploadInput)
	r.MustRegister(schema.ComponentRowTable, rowTable)

	for _, tag := range []string{
		schema.ComponentStatic,
		schema.ComponentHeading,
		schema.ComponentSeparator,
		schema.ComponentButton,
		schema.ComponentAlert,
	} {
		r.MustRegister(tag, presentational)
	}

	return r
}

func baseNode(ctx FieldContext) Node {
	value, _ := ctx.State.Value(ctx.Path)
	return Node{
		ID:          ctx.ID,
		Name:        ctx.Descriptor.Name,
		Label:       ctx.Descriptor.Label,
		Placeholder: ctx.Descriptor.Placeholder,
		Component:   ctx.Descriptor.Component,
		Value:       value,
		Error:       ctx.Error,
		Metadata:    ctx.Descriptor.Metadata,
	}
}

func writeThrough(ctx FieldContext) func(any) {
	path := ctx.Path
	state := ctx.State
	return func(value any) {
		state.SetValue(path, value)
		state.Touch(path)
	}
}

func textInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	node.OnChange = writeThrough(ctx)
	return node
}

// numberInput coerces formatted text (thousands separators) back to a raw
// numeric value before writing through.
func numberInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	write := writeThrough(ctx)
	node.OnChange = func(value any) {
		write(CoerceNumeric(value))
	}
	return node
}

// richTextInput sanitizes HTML values before they reach the value store.
func richTextInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	write := writeThrough(ctx)
	sanitizer := ctx.dispatcher.sanitizer
	node.OnChange = func(value any) {
		if html, ok := value.(string); ok {
			value = sanitizer.Sanitize(html)
		}
		write(value)
	}
	return node
}

func booleanInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	write := writeThrough(ctx)
	node.OnChange = func(value any) {
		b, _ := value.(bool)
		write(b)
	}
	return node
}

func listInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	node.OnChange = writeThrough(ctx)
	return node
}

// selectInput wires a field into its cascade group when it belongs to one:
// options and the disabled flag come from the resolver, and a change clears
// every stale descendant binding after the selection step completes.
func selectInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	if ctx.Cascade == nil {
		node.OnChange = writeThrough(ctx)
		return node
	}

	group := ctx.Cascade
	name := ctx.Descriptor.Name
	node.Options = group.OptionsFor(name)
	node.Disabled = group.Disabled(name)

	write := writeThrough(ctx)
	state := ctx.State
	node.OnChange = func(value any) {
		cleared := group.Select(name, value)
		write(value)
		for _, stale := range cleared {
			state.Clear(schema.ParsePath(stale))
		}
	}
	return node
}

// uploadInput appends transfer references to the field's value list. The
// actual transfer happens through Dispatcher.Upload; only references that
// came back from a successful transfer reach the value store.
func uploadInput(ctx FieldContext) Node {
	node := baseNode(ctx)
	d := ctx.dispatcher
	field := ctx.Descriptor.Name
	write := writeThrough(ctx)
	state := ctx.State
	path := ctx.Path

	node.OnChange = func(value any) {
		ref, ok := value.(string)
		if !ok || ref == "" {
			d.notify(fmt.Sprintf("upload failed for %s", field))
			return
		}
		current, _ := state.Value(path)
		list, _ := current.([]any)
		write(append(list, ref))
	}
	return node
}

// rowTable dispatches its sub-controls as children; row expansion happens in
// the renderer against the array value.
func rowTable(ctx FieldContext) Node {
	node := baseNode(ctx)
	node.OnChange = writeThrough(ctx)
	for _, control := range ctx.Descriptor.Controls {
		child, ok := ctx.dispatcher.Dispatch(control, ctx.State, ctx.Cascade)
		if !ok {
			continue
		}
		node.Children = append(node.Children, child)
	}
	return node
}

func presentational(ctx FieldContext) Node {
	node := baseNode(ctx)
	node.Value = ctx.Descriptor.Label
	return node
}
