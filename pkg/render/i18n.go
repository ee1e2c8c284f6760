package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
)

const (
	labelKeyHint       = "labelKey"
	placeholderKeyHint = "placeholderKey"
)

// ErrMissingTranslator is passed to OnMissing handlers when localization runs
// without a configured Translator.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a localized string for a locale and message key.
type Translator interface {
	Translate(locale, key string, params ...any) (string, error)
}

// MissingTranslationHandler decides what renders when a key cannot be
// resolved. The returned string is used verbatim.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

func missingTranslationDefault(_, key string, params []any, _ error) string {
	for _, param := range params {
		if m, ok := param.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// CatalogTranslator serves translations from an in-memory catalog keyed by
// locale then message key. Positional params are applied with Sprintf.
type CatalogTranslator struct {
	catalog map[string]map[string]string
}

// NewCatalogTranslator copies the supplied catalog.
func NewCatalogTranslator(catalog map[string]map[string]string) *CatalogTranslator {
	copied := make(map[string]map[string]string, len(catalog))
	for locale, messages := range catalog {
		inner := make(map[string]string, len(messages))
		for key, value := range messages {
			inner[key] = value
		}
		copied[locale] = inner
	}
	return &CatalogTranslator{catalog: copied}
}

// Translate looks up the exact locale first, then the base language
// ("en-US" falls back to "en").
func (t *CatalogTranslator) Translate(locale, key string, params ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("render: translation key is required")
	}

	for _, candidate := range localeCandidates(locale) {
		messages, ok := t.catalog[candidate]
		if !ok {
			continue
		}
		msg, ok := messages[key]
		if !ok {
			continue
		}
		if len(params) > 0 {
			return fmt.Sprintf(msg, params...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("render: no translation for %q in locale %q", key, locale)
}

func localeCandidates(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return []string{""}
	}
	candidates := []string{locale}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		candidates = append(candidates, locale[:i])
	}
	return candidates
}

// LocalizeNodes walks dispatched nodes and translates any *Key metadata hints
// into their localized label and placeholder values. Best-effort: failures
// route through opts.OnMissing and never abort rendering.
func LocalizeNodes(nodes []form.Node, opts RenderOptions) {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	for i := range nodes {
		localizeNode(&nodes[i], opts.Locale, opts.Translator, onMissing)
	}
}

func localizeNode(node *form.Node, locale string, t Translator, onMissing MissingTranslationHandler) {
	if key := strings.TrimSpace(node.Metadata[labelKeyHint]); key != "" {
		node.Label = translate(locale, key, strings.TrimSpace(node.Label), t, onMissing)
	}
	if key := strings.TrimSpace(node.Metadata[placeholderKeyHint]); key != "" {
		node.Placeholder = translate(locale, key, strings.TrimSpace(node.Placeholder), t, onMissing)
	}
	for i := range node.Children {
		localizeNode(&node.Children[i], locale, t, onMissing)
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}

// TemplateI18nFuncs returns helpers suitable for injecting into template
// contexts:
//
//	translate(locale, key, ...args) string
//	current_locale(locale) string
func TemplateI18nFuncs(t Translator, onMissing MissingTranslationHandler) map[string]any {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return map[string]any{
		"translate": func(locale, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			if t == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(locale string) string {
			return strings.TrimSpace(locale)
		},
	}
}
