package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func TestParse_JSON(t *testing.T) {
	raw := []byte(`{
  "id": "signup",
  "title": "Sign Up",
  "rows": [
    [
      {"name": "email", "component": "text", "validations": {"type": "string", "controls": [{"required": true, "format": "email"}]}},
      {"name": "age", "component": "number", "validations": {"type": "number"}}
    ],
    [
      {"name": "country", "component": "select", "optionName": "countries"}
    ]
  ],
  "options": {
    "countries": ["us", "ca"]
  },
  "metadata": {"version": "2"}
}`)

	parser := New(definition.NewParserOptions())
	def, err := parser.Parse(context.Background(), definition.MustNewDocument(definition.SourceFromBytes("signup.json", raw), raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if def.ID != "signup" || def.Title != "Sign Up" {
		t.Fatalf("header: %q %q", def.ID, def.Title)
	}
	if len(def.Rows) != 2 || len(def.Rows[0]) != 2 || len(def.Rows[1]) != 1 {
		t.Fatalf("row layout: %v", def.Rows)
	}
	fields := def.Fields()
	if diff := cmp.Diff([]string{"email", "age", "country"}, fieldNames(fields)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if fields[0].Validations == nil || !fields[0].Validations.Controls[0].Required {
		t.Fatalf("validations lost: %+v", fields[0])
	}
	if def.Options["countries"] == nil {
		t.Fatal("options index lost")
	}
	if def.Metadata["version"] != "2" {
		t.Fatalf("metadata lost: %v", def.Metadata)
	}
}

func TestParse_YAML(t *testing.T) {
	raw := []byte(`
id: profile
title: Profile
fields:
  - name: displayName
    component: text
    validations:
      type: string
      controls:
        - required: true
          minLength: 3
  - name: noComponent
  - name: birthday
    component: date
    validations:
      type: date
`)

	parser := New(definition.NewParserOptions())
	def, err := parser.Parse(context.Background(), definition.MustNewDocument(definition.SourceFromBytes("profile.yaml", raw), raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// A flat fields list becomes one row per field; descriptors without a
	// component are dropped.
	if len(def.Rows) != 2 {
		t.Fatalf("expected two rows, got %v", def.Rows)
	}
	if diff := cmp.Diff([]string{"displayName", "birthday"}, fieldNames(def.Fields())); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	controls := def.Fields()[0].Validations.Controls
	if len(controls) != 1 || controls[0].MinLength == nil || *controls[0].MinLength != 3 {
		t.Fatalf("yaml controls: %+v", controls)
	}
}

func TestParse_EmptyAndInvalid(t *testing.T) {
	parser := New(definition.NewParserOptions())

	empty := []byte(`{"id": "x"}`)
	if _, err := parser.Parse(context.Background(), definition.MustNewDocument(definition.SourceFromBytes("x.json", empty), empty)); err == nil {
		t.Fatal("no fields must error by default")
	}

	lenient := New(definition.NewParserOptions(definition.WithAllowEmpty()))
	def, err := lenient.Parse(context.Background(), definition.MustNewDocument(definition.SourceFromBytes("x.json", empty), empty))
	if err != nil {
		t.Fatalf("allow empty: %v", err)
	}
	if !def.Empty() {
		t.Fatal("expected empty definition")
	}

	bad := []byte(`{not json`)
	if _, err := parser.Parse(context.Background(), definition.MustNewDocument(definition.SourceFromBytes("bad.json", bad), bad)); err == nil {
		t.Fatal("malformed json must error")
	}
	badYAML := []byte("rows:\n\tbad: tab indentation")
	if _, err := parser.Parse(context.Background(), definition.MustNewDocument(definition.SourceFromBytes("bad.yaml", badYAML), badYAML)); err == nil {
		t.Fatal("malformed yaml must error")
	}
}

func fieldNames(fields []schema.FieldDescriptor) []string {
	out := make([]string, len(fields))
	for i, fd := range fields {
		out[i] = fd.Name
	}
	return out
}
