// Package openapi derives form definitions from OpenAPI documents: an
// operation's request body schema becomes descriptor rows, enum properties
// become select fields backed by a generated option index.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Derive builds a Definition from the request body of the operation
// identified by operationID.
func Derive(ctx context.Context, raw []byte, operationID string) (definition.Definition, error) {
	if len(raw) == 0 {
		return definition.Definition{}, errors.New("openapi adapter: document payload is empty")
	}
	if operationID == "" {
		return definition.Definition{}, errors.New("openapi adapter: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("openapi adapter: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return definition.Definition{}, fmt.Errorf("openapi adapter: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return definition.Definition{}, fmt.Errorf("openapi adapter: operation %q has no request body schema", operationID)
	}

	index := make(cascade.Index)
	rows := propertyRows(body, "", index)

	def := definition.Definition{
		ID:    operationID,
		Title: operation.Summary,
		Rows:  rows,
	}
	if len(index) > 0 {
		def.Options = index
	}
	return def, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		} {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// propertyRows walks object properties in sorted order, one row per field.
// Nested objects flatten into dotted names; enum values feed the option
// index keyed by the field path.
func propertyRows(src *openapi3.Schema, prefix string, index cascade.Index) []schema.Row {
	if src == nil || len(src.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []schema.Row
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		property := ref.Value
		path := joinName(prefix, name)

		if schemaType(property) == "object" && len(property.Properties) > 0 {
			rows = append(rows, propertyRows(property, path, index)...)
			continue
		}

		fd := descriptorFor(path, property, required[name], index)
		rows = append(rows, schema.Row{fd})
	}
	return rows
}

func descriptorFor(path string, src *openapi3.Schema, required bool, index cascade.Index) schema.FieldDescriptor {
	fd := schema.FieldDescriptor{
		Name:        path,
		Label:       src.Title,
		Placeholder: src.Description,
	}

	rule := schema.ControlRule{Required: required}
	srcType := schemaType(src)

	switch {
	case len(src.Enum) > 0:
		fd.Component = schema.ComponentSelect
		fd.OptionName = path
		index[path] = enumOptions(src.Enum)
		rule.Type = schema.TypeString
	case srcType == "boolean":
		fd.Component = schema.ComponentSwitch
		rule.Type = schema.TypeBoolean
	case srcType == "integer":
		fd.Component = schema.ComponentNumber
		rule.Type = schema.TypeNumber
		rule.Integer = true
	case srcType == "number":
		fd.Component = schema.ComponentNumber
		rule.Type = schema.TypeNumber
	case srcType == "array":
		return arrayDescriptor(path, src, required, index)
	default:
		fd.Component = stringComponent(src.Format)
		rule.Type = stringRuleType(src.Format)
	}

	applyStringBounds(&rule, src)
	applyNumericBounds(&rule, src)

	fd.Validations = &schema.Validations{
		Type:     rule.Type,
		Controls: []schema.ControlRule{rule},
	}
	return fd
}

func arrayDescriptor(path string, src *openapi3.Schema, required bool, index cascade.Index) schema.FieldDescriptor {
	fd := schema.FieldDescriptor{Name: path, Label: src.Title}

	item := itemSchema(src)
	if item != nil && schemaType(item) == "object" && len(item.Properties) > 0 {
		fd.Component = schema.ComponentRowTable
		for _, row := range propertyRows(item, "", index) {
			fd.Controls = append(fd.Controls, row...)
		}
	} else {
		fd.Component = schema.ComponentTagList
	}

	rule := schema.ControlRule{Type: schema.TypeArray, Required: required}
	fd.Validations = &schema.Validations{Type: schema.TypeArray, Controls: []schema.ControlRule{rule}}
	return fd
}

func itemSchema(src *openapi3.Schema) *openapi3.Schema {
	if src == nil || src.Items == nil {
		return nil
	}
	return src.Items.Value
}

func stringComponent(format string) string {
	switch format {
	case "date":
		return schema.ComponentDate
	case "date-time":
		return schema.ComponentDateTime
	default:
		return schema.ComponentText
	}
}

func stringRuleType(format string) string {
	switch format {
	case "date", "date-time":
		return schema.TypeDate
	default:
		return schema.TypeString
	}
}

func applyStringBounds(rule *schema.ControlRule, src *openapi3.Schema) {
	if rule.Type != schema.TypeString {
		return
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		rule.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		rule.MaxLength = &value
	}
	if src.Pattern != "" {
		rule.Pattern = src.Pattern
	}
	switch src.Format {
	case "email", "uuid":
		rule.Format = src.Format
	case "uri", "url":
		rule.Format = "url"
	}
}

func applyNumericBounds(rule *schema.ControlRule, src *openapi3.Schema) {
	if rule.Type != schema.TypeNumber {
		return
	}
	if src.Min != nil {
		value := *src.Min
		rule.Min = &value
	}
	if src.Max != nil {
		value := *src.Max
		rule.Max = &value
	}
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		rule.MultipleOf = &value
	}
}

func enumOptions(enum []any) []cascade.Option {
	out := make([]cascade.Option, 0, len(enum))
	for _, entry := range enum {
		value := strings.TrimSpace(fmt.Sprint(entry))
		if value == "" {
			continue
		}
		out = append(out, cascade.Option{Value: value, Label: value})
	}
	return out
}

func schemaType(src *openapi3.Schema) string {
	if src == nil || src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
