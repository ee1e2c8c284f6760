package formkit

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/schema"
)

const inlineDefinition = `{
  "fields": [
    {
      "name": "email",
      "component": "text",
      "label": "Email",
      "validations": {"type": "string", "required": true, "format": "email"}
    },
    {
      "name": "plan",
      "component": "select",
      "label": "Plan"
    }
  ],
  "options": {
    "plan": [
      {"value": "free", "label": "Free"},
      {"value": "pro", "label": "Pro"}
    ]
  }
}`

func TestBuild_FromBytesSource(t *testing.T) {
	source := definition.SourceFromBytes("signup.json", []byte(inlineDefinition))
	built, err := Build(context.Background(), source)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !built.Ready {
		t.Fatal("expected form to be ready")
	}
	if len(built.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(built.Nodes))
	}

	emailPath := schema.ParsePath("email")
	built.State.SetValue(emailPath, "not-an-email")
	issues := built.Validate()
	if len(issues) == 0 {
		t.Fatal("expected validation issues for malformed email")
	}
	if msg, ok := built.State.ErrorAt(emailPath); !ok || msg == "" {
		t.Fatal("expected issue written back to state")
	}
}

func TestGenerateHTML_DefaultRenderer(t *testing.T) {
	source := definition.SourceFromBytes("signup.json", []byte(inlineDefinition))
	output, err := GenerateHTML(context.Background(), source, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	if !strings.Contains(html, `name="email"`) {
		t.Fatalf("email input missing:\n%s", html)
	}
	if !strings.Contains(html, `<option value="pro"`) {
		t.Fatalf("plan options missing:\n%s", html)
	}
}

func TestGenerateHTML_UnknownRenderer(t *testing.T) {
	source := definition.SourceFromBytes("signup.json", []byte(inlineDefinition))
	if _, err := GenerateHTML(context.Background(), source, "nope"); err == nil {
		t.Fatal("expected error for unknown renderer")
	}
}
