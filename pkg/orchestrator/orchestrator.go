// Package orchestrator coordinates the full pipeline from form definition to
// rendered output: load, parse, compile, dispatch, render. It applies
// sensible defaults (built-in loader and parser, vanilla renderer) while
// remaining open to dependency injection for advanced callers.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	internalloader "github.com/goliatone/go-formkit/internal/definition/loader"
	internalparser "github.com/goliatone/go-formkit/internal/definition/parser"
	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validate"
)

const defaultRendererName = "vanilla"

// Logger receives boundary diagnostics. The core pipeline stays silent;
// only definition-shape problems are reported here.
type Logger func(format string, args ...any)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom definition loader.
func WithLoader(loader definition.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom definition parser.
func WithParser(parser definition.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithCompiler injects a custom schema compiler.
func WithCompiler(compiler *validate.Compiler) Option {
	return func(o *Orchestrator) {
		o.compiler = compiler
	}
}

// WithDispatcher injects a pre-configured field dispatcher.
func WithDispatcher(dispatcher *form.Dispatcher) Option {
	return func(o *Orchestrator) {
		o.dispatcher = dispatcher
	}
}

// WithComponents overrides the component registry used by the default
// dispatcher. Ignored when WithDispatcher is supplied.
func WithComponents(registry *form.Registry) Option {
	return func(o *Orchestrator) {
		o.components = registry
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector passes a go-theme selector through so theme/variant
// choices resolve into renderer configuration ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks overrides the fallback partials used when deriving
// renderer configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLogger installs the boundary diagnostics hook. The default drops
// messages.
func WithLogger(logger Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTranslator installs the translator applied to dispatched nodes before
// rendering.
func WithTranslator(translator render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = translator
	}
}

// Orchestrator coordinates the definition → schema → nodes → output
// pipeline.
type Orchestrator struct {
	loader          definition.Loader
	parser          definition.Parser
	compiler        *validate.Compiler
	dispatcher      *form.Dispatcher
	components      *form.Registry
	registry        *render.Registry
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          Logger
	translator      render.Translator
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          func(string, ...any) {},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to build or render a form.
type Request struct {
	// Source identifies where the definition lives. Optional when Document
	// or Definition is supplied.
	Source definition.Source

	// Document bypasses the loader when the caller already has a payload.
	Document *definition.Document

	// Definition bypasses loading and parsing entirely.
	Definition *definition.Definition

	// Values seeds the form state, for edit forms and resubmissions.
	Values map[string]any

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// ThemeName and ThemeVariant select the theme resolved through the
	// configured selector. Both empty skips theme resolution.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request instructions such as method
	// overrides or server-side errors renderers can surface.
	RenderOptions render.RenderOptions
}

// Form is the built pipeline output: everything needed to render, validate,
// and submit one form instance.
type Form struct {
	Definition definition.Definition
	Schema     *validate.Object
	Nodes      []form.Node
	Names      []string
	State      *form.State
	Cascades   map[string]*cascade.Group
	// Ready is false while no definition has resolved; the form renders a
	// placeholder and every operation no-ops.
	Ready bool
}

// Validate runs the compiled schema against the live state and writes the
// resulting issues back into it. Returns the issues for inspection.
func (f *Form) Validate() validate.Issues {
	if !f.Ready || f.Schema == nil || f.State == nil {
		return nil
	}
	_, issues := f.Schema.Validate(nil, f.State.Values())
	f.State.SetIssues(issues)
	return issues
}

// Build resolves the definition, compiles the schema, builds cascade groups,
// and dispatches every descriptor. Malformed definitions degrade to an empty
// not-ready form; the failure is logged, not raised.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*Form, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	def, ok := o.resolveDefinition(ctx, req)
	state := form.NewState(req.Values)
	if !ok || def.Empty() {
		return &Form{State: state}, nil
	}

	compiled := o.compiler.Compile(def.Rows)
	groups := o.buildCascades(def, req.Values)
	nodes := o.dispatcher.DispatchAll(def.Rows, state, groups)

	return &Form{
		Definition: def,
		Schema:     compiled,
		Nodes:      nodes,
		Names:      FieldNames(def, compiled),
		State:      state,
		Cascades:   groups,
		Ready:      true,
	}, nil
}

// Render builds the form and renders it with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	built, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	if opts.Theme == nil && o.themeSelector != nil && (req.ThemeName != "" || req.ThemeVariant != "") {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	render.LocalizeNodes(built.Nodes, opts)

	output, err := renderer.Render(ctx, built.Nodes, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// resolveDefinition returns the definition and whether one resolved. Loader
// and parser failures are logged and reported as unresolved so callers can
// render the not-ready placeholder.
func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (definition.Definition, bool) {
	if req.Definition != nil {
		return *req.Definition, true
	}

	doc := req.Document
	if doc == nil {
		if req.Source == nil {
			return definition.Definition{}, false
		}
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			o.logger("orchestrator: load definition %s: %v", req.Source.Location(), err)
			return definition.Definition{}, false
		}
		doc = &loaded
	}

	def, err := o.parser.Parse(ctx, *doc)
	if err != nil {
		o.logger("orchestrator: parse definition %s: %v", doc.Location(), err)
		return definition.Definition{}, false
	}
	return def, true
}

func (o *Orchestrator) buildCascades(def definition.Definition, values map[string]any) map[string]*cascade.Group {
	fields := def.Fields()
	partitions := cascade.GroupFields(fields)
	groups := make(map[string]*cascade.Group, len(partitions))
	grouped := make(map[string]bool)
	for key, members := range partitions {
		groups[key] = cascade.NewGroup(members, def.Options, cascade.WithSeed(values))
		for _, fd := range members {
			grouped[fd.Name] = true
		}
	}

	// Standalone choice fields resolve their option lists through a
	// single-member group so the dispatcher has one options path.
	for _, fd := range fields {
		if grouped[fd.Name] || !schema.IsChoice(fd.Component) {
			continue
		}
		if _, ok := def.Options[fd.OptionKey()]; !ok {
			continue
		}
		groups[fd.Name] = cascade.NewGroup([]schema.FieldDescriptor{fd}, def.Options, cascade.WithSeed(values))
	}

	if len(groups) == 0 {
		return nil
	}
	return groups
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalloader.New(definition.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalparser.New(definition.NewParserOptions(definition.WithAllowEmpty()))
	}
	if o.compiler == nil {
		o.compiler = validate.NewCompiler()
	}
	if o.dispatcher == nil {
		var opts []form.DispatcherOption
		if o.components != nil {
			opts = append(opts, form.WithComponents(o.components))
		}
		o.dispatcher = form.NewDispatcher(opts...)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
