package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// resolveTheme turns a selector result into the renderer configuration:
// variant tokens override base tokens, CSS variables are derived from the
// merged tokens, partials merge fallbacks with manifest and variant
// templates, and asset URLs resolve against the manifest prefix.
func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("orchestrator: theme %q/%q resolved empty", name, variant)
	}

	fallbacks := o.themeFallbacks
	if fallbacks == nil {
		fallbacks = defaultThemeFallbacks()
	}
	return buildRendererConfig(selection, fallbacks), nil
}

func buildRendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	manifest := selection.Manifest

	tokens := mergeStringMaps(manifest.Tokens, nil)
	partials := mergeStringMaps(fallbacks, manifest.Templates)
	assets := mergeStringMaps(manifest.Assets.Files, nil)

	if v, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStringMaps(tokens, v.Tokens)
		partials = mergeStringMaps(partials, v.Templates)
		assets = mergeStringMaps(assets, v.Assets.Files)
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	assetURL := func(key string) string {
		file, ok := assets[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: assetURL,
	}
}

func mergeStringMaps(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

// defaultThemeFallbacks names the partials renderers look up when a manifest
// declares no template overrides.
func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		"forms.input":    "partials/input.html",
		"forms.textarea": "partials/textarea.html",
		"forms.select":   "partials/select.html",
		"forms.checkbox": "partials/checkbox.html",
		"forms.label":    "partials/label.html",
		"forms.error":    "partials/error.html",
	}
}
