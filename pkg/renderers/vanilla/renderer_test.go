package vanilla

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func renderNodes(t *testing.T, nodes []form.Node, options render.RenderOptions) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := r.Render(context.Background(), nodes, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func TestRender_BasicForm(t *testing.T) {
	nodes := []form.Node{
		{ID: "f1", Name: "email", Label: "Email", Placeholder: "you@example.com", Component: schema.ComponentText},
		{ID: "f2", Name: "age", Component: schema.ComponentNumber, Value: float64(30)},
	}
	html := renderNodes(t, nodes, render.RenderOptions{Action: "/signup"})

	for _, want := range []string{
		`<form method="POST" action="/signup"`,
		`<label class="fk-label" for="f1">Email</label>`,
		`name="email"`,
		`placeholder="you@example.com"`,
		`type="number"`,
		`value="30"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRender_MethodOverride(t *testing.T) {
	html := renderNodes(t, nil, render.RenderOptions{Method: "put"})
	if !strings.Contains(html, `method="POST"`) {
		t.Fatalf("unsupported verbs must submit as POST:\n%s", html)
	}
	if !strings.Contains(html, `name="_method" value="PUT"`) {
		t.Fatalf("expected _method override input:\n%s", html)
	}

	html = renderNodes(t, nil, render.RenderOptions{Method: "GET"})
	if strings.Contains(html, "_method") {
		t.Fatalf("GET must not emit an override:\n%s", html)
	}
}

func TestRender_HiddenFieldsSorted(t *testing.T) {
	html := renderNodes(t, nil, render.RenderOptions{
		Hidden: map[string]string{"zeta": "1", "_csrf": "token"},
	})
	csrfAt := strings.Index(html, `name="_csrf"`)
	zetaAt := strings.Index(html, `name="zeta"`)
	if csrfAt < 0 || zetaAt < 0 || csrfAt > zetaAt {
		t.Fatalf("hidden inputs missing or unsorted:\n%s", html)
	}
}

func TestRender_SelectStateAndErrors(t *testing.T) {
	nodes := []form.Node{
		{
			ID:        "f1",
			Name:      "country",
			Label:     "Country",
			Component: schema.ComponentSelect,
			Value:     "ca",
			Options: []cascade.Option{
				{Value: "us", Label: "United States"},
				{Value: "ca", Label: "Canada"},
			},
		},
		{
			ID:        "f2",
			Name:      "state",
			Component: schema.ComponentSelect,
			Disabled:  true,
		},
		{ID: "f3", Name: "email", Component: schema.ComponentText, Error: "email is required"},
	}
	html := renderNodes(t, nodes, render.RenderOptions{
		Errors: map[string][]string{"": {"fix the errors below"}},
	})

	if !strings.Contains(html, `<option value="ca" selected>Canada</option>`) {
		t.Fatalf("current value must be selected:\n%s", html)
	}
	if !strings.Contains(html, `name="state" class="fk-select" disabled`) {
		t.Fatalf("disabled select missing:\n%s", html)
	}
	if !strings.Contains(html, `data-validation="email">email is required</p>`) {
		t.Fatalf("field error missing:\n%s", html)
	}
	if !strings.Contains(html, `<p class="fk-form-error">fix the errors below</p>`) {
		t.Fatalf("form-level error missing:\n%s", html)
	}
}

func TestRender_ValueOverridesAndPayloadErrors(t *testing.T) {
	nodes := []form.Node{
		{ID: "f1", Name: "email", Component: schema.ComponentText, Value: "old@example.com"},
	}
	html := renderNodes(t, nodes, render.RenderOptions{
		Values: map[string]any{"email": "new@example.com"},
		Errors: map[string][]string{"email": {"already taken"}},
	})
	if !strings.Contains(html, `value="new@example.com"`) {
		t.Fatalf("request values must override node values:\n%s", html)
	}
	if !strings.Contains(html, "already taken") {
		t.Fatalf("payload error missing:\n%s", html)
	}
}

func TestRender_RichTextSanitized(t *testing.T) {
	nodes := []form.Node{
		{ID: "f1", Name: "bio", Component: schema.ComponentRichText, Value: `<em>hi</em><script>alert(1)</script>`},
	}
	html := renderNodes(t, nodes, render.RenderOptions{})
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatalf("script must not survive sanitation:\n%s", html)
	}
	if !strings.Contains(html, "<em>hi</em>") {
		t.Fatalf("benign markup must render unescaped:\n%s", html)
	}
}

func TestRender_Chrome(t *testing.T) {
	nodes := []form.Node{
		{Name: "title", Component: schema.ComponentHeading, Value: "Shipping"},
		{Name: "split", Component: schema.ComponentSeparator},
		{Name: "submit", Component: schema.ComponentButton, Value: "Save"},
	}
	html := renderNodes(t, nodes, render.RenderOptions{})
	for _, want := range []string{
		`<h3 class="fk-heading">Shipping</h3>`,
		`<hr class="fk-separator">`,
		`<button type="submit" class="fk-button">Save</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRender_RowTableChildren(t *testing.T) {
	nodes := []form.Node{
		{
			ID:        "f1",
			Name:      "contacts",
			Label:     "Contacts",
			Component: schema.ComponentRowTable,
			Children: []form.Node{
				{ID: "f2", Name: "name", Component: schema.ComponentText},
				{ID: "f3", Name: "phone", Component: schema.ComponentPhone},
			},
		},
	}
	html := renderNodes(t, nodes, render.RenderOptions{})
	if !strings.Contains(html, `class="fk-rowtable"`) {
		t.Fatalf("rowtable wrapper missing:\n%s", html)
	}
	if !strings.Contains(html, `name="name"`) || !strings.Contains(html, `type="tel"`) {
		t.Fatalf("children not rendered:\n%s", html)
	}
}

func TestRender_ThemeAssetsAndCSSVars(t *testing.T) {
	cfg := &theme.RendererConfig{
		CSSVars: map[string]string{"--brand": "#123456"},
		AssetURL: func(key string) string {
			switch key {
			case "vanilla.stylesheet":
				return "/assets/theme.css"
			case "vanilla.script":
				return "/assets/theme.js"
			default:
				return ""
			}
		},
	}
	html := renderNodes(t, nil, render.RenderOptions{Theme: cfg})
	for _, want := range []string{
		`style="--brand: #123456;"`,
		`<link rel="stylesheet" href="/assets/theme.css">`,
		`<script src="/assets/theme.js" defer></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRender_FileAccept(t *testing.T) {
	nodes := []form.Node{
		{ID: "f1", Name: "photo", Component: schema.ComponentImage},
		{ID: "f2", Name: "contract", Component: schema.ComponentPDF},
	}
	html := renderNodes(t, nodes, render.RenderOptions{})
	if !strings.Contains(html, `accept="image/*"`) || !strings.Contains(html, `accept="application/pdf"`) {
		t.Fatalf("accept attributes missing:\n%s", html)
	}
}
