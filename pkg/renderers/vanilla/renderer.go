// Package vanilla renders dispatched form nodes as dependency-free HTML
// using pongo2 templates. Themes contribute CSS variables and asset links;
// rich-text values are sanitized before they reach the markup.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
)

const formTemplate = "form.html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	sanitizer  *bluemonday.Policy
	globals    map[string]any
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithSanitizer overrides the rich-text output policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// WithTemplateGlobals seeds values available to every template, including
// helper funcs such as render.TemplateI18nFuncs.
func WithTemplateGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for name, value := range globals {
			cfg.globals[name] = value
		}
	}
}

// Renderer emits HTML for dispatched nodes.
type Renderer struct {
	engine    *engine
	sanitizer *bluemonday.Policy
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = bluemonday.UGCPolicy()
	}

	eng, err := newEngine(cfg.templateFS, cfg.globals)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: configure engine: %w", err)
	}
	return &Renderer{engine: eng, sanitizer: cfg.sanitizer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full form document for the dispatched nodes.
func (r *Renderer) Render(ctx context.Context, nodes []form.Node, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method, methodOverride := submitMethod(options.Method)
	hidden := options.Hidden
	if methodOverride != "" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden("_method", methodOverride))
	}

	stylesheet, script := themeAssets(options)
	data := map[string]any{
		"fields":     r.nodeContexts(nodes, options),
		"method":     method,
		"action":     options.Action,
		"hidden":     render.SortedHiddenFields(hidden),
		"errors":     formLevelErrors(options),
		"cssVars":    cssVarBlock(options),
		"stylesheet": stylesheet,
		"script":     script,
	}

	output, err := r.engine.render(formTemplate, data)
	if err != nil {
		return nil, err
	}
	return []byte(output), nil
}

// submitMethod maps unsupported browser verbs onto POST plus an override
// value for the hidden _method input.
func submitMethod(method string) (string, string) {
	normalized := strings.ToUpper(strings.TrimSpace(method))
	switch normalized {
	case "", "POST":
		return "POST", ""
	case "GET":
		return "GET", ""
	default:
		return "POST", normalized
	}
}

func formLevelErrors(options render.RenderOptions) []string {
	messages, ok := options.Errors[""]
	if !ok {
		return nil
	}
	return render.MergeFormErrors(nil, messages...)
}

func cssVarBlock(options render.RenderOptions) string {
	if options.Theme == nil || len(options.Theme.CSSVars) == 0 {
		return ""
	}
	vars := render.SortedHiddenFields(options.Theme.CSSVars)
	var b strings.Builder
	for _, entry := range vars {
		fmt.Fprintf(&b, "%s: %s; ", entry.Name, entry.Value)
	}
	return strings.TrimSpace(b.String())
}

func themeAssets(options render.RenderOptions) (stylesheet, script string) {
	if options.Theme == nil || options.Theme.AssetURL == nil {
		return "", ""
	}
	return options.Theme.AssetURL("vanilla.stylesheet"), options.Theme.AssetURL("vanilla.script")
}
