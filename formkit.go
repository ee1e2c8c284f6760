// Package formkit turns declarative field descriptors into validated,
// renderable forms: a schema compiler for nested validation trees, a field
// dispatcher that binds renderers to live form state, and a cascade resolver
// for dependent select fields.
package formkit

import (
	"context"

	theme "github.com/goliatone/go-theme"

	internalloader "github.com/goliatone/go-formkit/internal/definition/loader"
	internalopenapi "github.com/goliatone/go-formkit/internal/definition/openapi"
	internalparser "github.com/goliatone/go-formkit/internal/definition/parser"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request aliases the orchestrator request for root-level callers.
type Request = orchestrator.Request

// Form aliases the built pipeline output.
type Form = orchestrator.Form

// NewLoader constructs a definition loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...definition.LoaderOption) definition.Loader {
	cfg := definition.NewLoaderOptions(options...)
	return internalloader.New(cfg)
}

// NewParser constructs a definition parser backed by the internal
// implementation.
func NewParser(options ...definition.ParserOption) definition.Parser {
	cfg := definition.NewParserOptions(options...)
	return internalparser.New(cfg)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Build loads a definition from source and builds the full form pipeline:
// compiled schema, dispatched nodes, cascade groups, and live state.
func Build(ctx context.Context, source definition.Source, options ...orchestrator.Option) (*Form, error) {
	o := orchestrator.New(options...)
	return o.Build(ctx, Request{Source: source})
}

// GenerateHTML loads a definition, builds the form, and renders it with the
// named renderer. It is the simplest entry point for callers that just want
// HTML output.
func GenerateHTML(ctx context.Context, source definition.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	o := orchestrator.New(options...)
	return o.Render(ctx, Request{Source: source, Renderer: rendererName})
}

// DeriveFromOpenAPI builds a definition from an OpenAPI 3 operation's
// request body schema.
func DeriveFromOpenAPI(ctx context.Context, document []byte, operationID string) (definition.Definition, error) {
	return internalopenapi.Derive(ctx, document, operationID)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator
// so theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
