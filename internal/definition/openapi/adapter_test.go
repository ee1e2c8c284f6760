package openapi

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/schema"
)

const sampleSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Accounts", "version": "1.0.0"},
  "paths": {
    "/accounts": {
      "post": {
        "operationId": "createAccount",
        "summary": "Create account",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email"],
                "properties": {
                  "email": {"type": "string", "format": "email", "maxLength": 120},
                  "age": {"type": "integer", "minimum": 18},
                  "plan": {"type": "string", "enum": ["free", "pro", "team"]},
                  "newsletter": {"type": "boolean"},
                  "joined": {"type": "string", "format": "date"},
                  "address": {
                    "type": "object",
                    "properties": {
                      "city": {"type": "string"},
                      "zip": {"type": "string", "pattern": "^[0-9]{5}$"}
                    }
                  },
                  "tags": {"type": "array", "items": {"type": "string"}},
                  "contacts": {
                    "type": "array",
                    "items": {
                      "type": "object",
                      "properties": {
                        "name": {"type": "string"},
                        "phone": {"type": "string"}
                      }
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func fieldByName(t *testing.T, fields []schema.FieldDescriptor, name string) schema.FieldDescriptor {
	t.Helper()
	for _, fd := range fields {
		if fd.Name == name {
			return fd
		}
	}
	t.Fatalf("field %q not derived; have %v", name, fieldNames(fields))
	return schema.FieldDescriptor{}
}

func fieldNames(fields []schema.FieldDescriptor) []string {
	out := make([]string, len(fields))
	for i, fd := range fields {
		out[i] = fd.Name
	}
	return out
}

func TestDerive(t *testing.T) {
	def, err := Derive(context.Background(), []byte(sampleSpec), "createAccount")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if def.ID != "createAccount" || def.Title != "Create account" {
		t.Fatalf("header: %q %q", def.ID, def.Title)
	}

	fields := def.Fields()

	email := fieldByName(t, fields, "email")
	if email.Component != schema.ComponentText {
		t.Fatalf("email component: %q", email.Component)
	}
	rule := email.Validations.Controls[0]
	if !rule.Required || rule.Format != "email" || rule.MaxLength == nil || *rule.MaxLength != 120 {
		t.Fatalf("email rule: %+v", rule)
	}

	age := fieldByName(t, fields, "age")
	if age.Component != schema.ComponentNumber {
		t.Fatalf("age component: %q", age.Component)
	}
	rule = age.Validations.Controls[0]
	if !rule.Integer || rule.Min == nil || *rule.Min != 18 || rule.Required {
		t.Fatalf("age rule: %+v", rule)
	}

	plan := fieldByName(t, fields, "plan")
	if plan.Component != schema.ComponentSelect || plan.OptionName != "plan" {
		t.Fatalf("plan: %+v", plan)
	}
	wantOptions := []cascade.Option{
		{Value: "free", Label: "free"},
		{Value: "pro", Label: "pro"},
		{Value: "team", Label: "team"},
	}
	if diff := cmp.Diff(wantOptions, def.Options["plan"]); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}

	if got := fieldByName(t, fields, "newsletter").Component; got != schema.ComponentSwitch {
		t.Fatalf("newsletter component: %q", got)
	}

	joined := fieldByName(t, fields, "joined")
	if joined.Component != schema.ComponentDate || joined.Validations.Type != schema.TypeDate {
		t.Fatalf("joined: %+v", joined)
	}

	// Nested objects flatten to dotted names.
	zip := fieldByName(t, fields, "address.zip")
	if zip.Validations.Controls[0].Pattern != "^[0-9]{5}$" {
		t.Fatalf("zip rule: %+v", zip.Validations.Controls[0])
	}

	if got := fieldByName(t, fields, "tags").Component; got != schema.ComponentTagList {
		t.Fatalf("tags component: %q", got)
	}

	contacts := fieldByName(t, fields, "contacts")
	if contacts.Component != schema.ComponentRowTable {
		t.Fatalf("contacts component: %q", contacts.Component)
	}
	if diff := cmp.Diff([]string{"name", "phone"}, fieldNames(contacts.Controls)); diff != "" {
		t.Fatalf("contacts controls mismatch (-want +got):\n%s", diff)
	}
}

func TestDerive_Errors(t *testing.T) {
	if _, err := Derive(context.Background(), nil, "createAccount"); err == nil {
		t.Fatal("empty document must error")
	}
	if _, err := Derive(context.Background(), []byte(sampleSpec), ""); err == nil {
		t.Fatal("empty operation id must error")
	}
	if _, err := Derive(context.Background(), []byte(sampleSpec), "nope"); err == nil {
		t.Fatal("unknown operation must error")
	}
	noBody := `{
  "openapi": "3.0.3",
  "info": {"title": "T", "version": "1"},
  "paths": {"/x": {"get": {"operationId": "listX", "responses": {"200": {"description": "ok"}}}}}
}`
	if _, err := Derive(context.Background(), []byte(noBody), "listX"); err == nil {
		t.Fatal("operation without request body must error")
	}
}
