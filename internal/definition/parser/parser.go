// Package parser turns raw JSON or YAML definition payloads into parsed
// definitions. JSON documents are detected by their first non-space byte so
// callers never declare the encoding.
package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Parser implements definition.Parser for JSON and YAML payloads.
type Parser struct {
	options definition.ParserOptions
}

var _ definition.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options definition.ParserOptions) definition.Parser {
	return &Parser{options: options}
}

// payload is the wire shape of a definition document. Either rows (layout
// preserved) or fields (one row per field) declares the descriptors.
type payload struct {
	ID       string                     `json:"id" yaml:"id"`
	Title    string                     `json:"title" yaml:"title"`
	Rows     [][]schema.FieldDescriptor `json:"rows" yaml:"rows"`
	Fields   []schema.FieldDescriptor   `json:"fields" yaml:"fields"`
	Options  map[string]any             `json:"options" yaml:"options"`
	Metadata map[string]string          `json:"metadata" yaml:"metadata"`
}

// Parse decodes a document into a Definition.
func (p *Parser) Parse(ctx context.Context, doc definition.Document) (definition.Definition, error) {
	if err := ctx.Err(); err != nil {
		return definition.Definition{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return definition.Definition{}, errors.New("definition parser: document payload is empty")
	}

	var body payload
	if looksLikeJSON(raw) {
		if err := json.Unmarshal(raw, &body); err != nil {
			return definition.Definition{}, fmt.Errorf("definition parser: decode json %s: %w", doc.Location(), err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &body); err != nil {
			return definition.Definition{}, fmt.Errorf("definition parser: decode yaml %s: %w", doc.Location(), err)
		}
	}

	rows := buildRows(body)
	if len(rows) == 0 && !p.options.AllowEmpty {
		return definition.Definition{}, fmt.Errorf("definition parser: %s declares no fields", doc.Location())
	}

	def := definition.Definition{
		ID:       body.ID,
		Title:    body.Title,
		Rows:     rows,
		Metadata: body.Metadata,
	}
	if len(body.Options) > 0 {
		def.Options = cascade.Index(body.Options)
	}
	return def, nil
}

func looksLikeJSON(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// buildRows prefers the explicit row layout; a flat fields list becomes one
// row per field. Descriptors without a component tag are dropped.
func buildRows(body payload) []schema.Row {
	var rows []schema.Row
	if len(body.Rows) > 0 {
		for _, raw := range body.Rows {
			row := filterDescriptors(raw)
			if len(row) > 0 {
				rows = append(rows, row)
			}
		}
		return rows
	}
	for _, fd := range filterDescriptors(body.Fields) {
		rows = append(rows, schema.Row{fd})
	}
	return rows
}

func filterDescriptors(in []schema.FieldDescriptor) schema.Row {
	var out schema.Row
	for _, fd := range in {
		if fd.Component == "" {
			continue
		}
		out = append(out, fd)
	}
	return out
}
