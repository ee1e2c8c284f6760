package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data renderers can use to customise
// their output without touching the dispatch pipeline.
type RenderOptions struct {
	// Method overrides the HTTP method the rendered form submits with.
	// Renderers translate unsupported verbs (PATCH/PUT/DELETE) into POST
	// plus a hidden _method input when needed.
	Method string
	// Action is the submission target URL.
	Action string
	// Values pre-populates rendered controls keyed by dotted field path.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field path.
	Errors map[string][]string
	// Hidden emits extra hidden inputs (CSRF tokens, version fields) keyed
	// by input name. See MergeHiddenFields.
	Hidden map[string]string
	// Theme carries the resolved go-theme configuration (tokens, CSS vars,
	// asset URLs) for renderers that honour theming.
	Theme *theme.RendererConfig
	// Locale selects the translation catalog for *Key metadata hints.
	Locale string
	// Translator resolves localized strings. Nil leaves hints untranslated.
	Translator Translator
	// OnMissing controls what renders when a translation cannot be resolved.
	OnMissing MissingTranslationHandler
}
