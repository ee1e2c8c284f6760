package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validate"
)

func TestState_SetValueBuildsIntermediates(t *testing.T) {
	s := NewState(nil)
	s.SetValue(schema.ParsePath("address.street"), "Main St")
	s.SetValue(schema.ParsePath("phones[1].number"), "555-0100")

	want := map[string]any{
		"address": map[string]any{"street": "Main St"},
		"phones": []any{
			nil,
			map[string]any{"number": "555-0100"},
		},
	}
	if diff := cmp.Diff(want, s.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	got, ok := s.Value(schema.ParsePath("phones[1].number"))
	if !ok || got != "555-0100" {
		t.Fatalf("value lookup: got %v %v", got, ok)
	}
	if _, ok := s.Value(schema.ParsePath("phones[5].number")); ok {
		t.Fatal("out of range index must miss")
	}
	if _, ok := s.Value(schema.ParsePath("address.zip")); ok {
		t.Fatal("absent key must miss")
	}
}

func TestState_Clear(t *testing.T) {
	s := NewState(map[string]any{
		"address": map[string]any{"street": "Main St", "city": "Springfield"},
	})
	s.Clear(schema.ParsePath("address.street"))
	if _, ok := s.Value(schema.ParsePath("address.street")); ok {
		t.Fatal("cleared value must miss")
	}
	if _, ok := s.Value(schema.ParsePath("address.city")); !ok {
		t.Fatal("sibling must survive")
	}
	// Clearing a path that never existed is a no-op.
	s.Clear(schema.ParsePath("missing.deep.path"))
}

func TestState_Touched(t *testing.T) {
	s := NewState(nil)
	path := schema.ParsePath("email")
	if s.Touched(path) {
		t.Fatal("untouched by default")
	}
	s.Touch(path)
	if !s.Touched(path) {
		t.Fatal("expected touched")
	}
}

func TestState_SetIssuesAndErrorAt(t *testing.T) {
	s := NewState(nil)
	s.SetIssues(validate.Issues{
		{Path: "email", Message: "email is required"},
		{Path: "email", Message: "loses"},
		{Path: "contacts[1].name", Message: "name is required"},
	})

	msg, ok := s.ErrorAt(schema.ParsePath("email"))
	if !ok || msg != "email is required" {
		t.Fatalf("first issue must win: got %q %v", msg, ok)
	}
	msg, ok = s.ErrorAt(schema.ParsePath("contacts[1].name"))
	if !ok || msg != "name is required" {
		t.Fatalf("indexed lookup: got %q %v", msg, ok)
	}
	if _, ok := s.ErrorAt(schema.ParsePath("contacts[0].name")); ok {
		t.Fatal("different index must miss")
	}

	// A later validation pass replaces the whole tree.
	s.SetIssues(nil)
	if _, ok := s.ErrorAt(schema.ParsePath("email")); ok {
		t.Fatal("errors must reset")
	}
}
