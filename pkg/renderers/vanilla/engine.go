package vanilla

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// engine is a small pongo2 wrapper: an FS-backed template set with a
// compiled-template cache and helper registration.
type engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
}

func newEngine(files fs.FS, globals map[string]any) (*engine, error) {
	if files == nil {
		return nil, errors.New("vanilla renderer: template fs is required")
	}

	e := &engine{
		templateSet: pongo2.NewSet("formkit", pongo2.NewFSLoader(files)),
		templates:   make(map[string]*pongo2.Template),
	}
	registerDefaultFilters()

	if len(globals) > 0 {
		if e.templateSet.Globals == nil {
			e.templateSet.Globals = make(pongo2.Context)
		}
		for name, value := range globals {
			e.templateSet.Globals[strings.TrimSpace(name)] = value
		}
	}
	return e, nil
}

func (e *engine) render(path string, data map[string]any) (string, error) {
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(pongo2.Context(data), &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: execute template %q: %w", path, err)
	}
	return buf.String(), nil
}

func (e *engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
