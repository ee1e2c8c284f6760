// Package tui walks dispatched form nodes as interactive terminal prompts.
// The prompt driver is an interface so tests run against a scripted driver
// instead of a real terminal.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// Renderer drives an interactive prompt session over dispatched nodes and
// serializes the collected values.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
}

// New constructs the TUI renderer with the survey-backed driver.
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every interactive node in dispatch order, writes each
// answer through the node's change callback, and returns the serialized
// values.
func (r *Renderer) Render(ctx context.Context, nodes []form.Node, options render.RenderOptions) ([]byte, error) {
	collected := make(map[string]any)
	if err := r.walk(ctx, nodes, collected); err != nil {
		return nil, err
	}
	return r.serialize(collected)
}

func (r *Renderer) walk(ctx context.Context, nodes []form.Node, collected map[string]any) error {
	for _, node := range nodes {
		if err := r.prompt(ctx, node, collected); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prompt(ctx context.Context, node form.Node, collected map[string]any) error {
	if schema.IsPresentational(node.Component) {
		if node.Label != "" {
			return r.driver.Info(ctx, node.Label)
		}
		return nil
	}
	if node.Disabled {
		return r.driver.Info(ctx, fmt.Sprintf("%s (skipped: select its parent first)", promptLabel(node)))
	}

	switch node.Component {
	case schema.ComponentSelect, schema.ComponentCombobox, schema.ComponentCascade, schema.ComponentRadio:
		return r.promptSelect(ctx, node, collected)
	case schema.ComponentSwitch:
		return r.promptConfirm(ctx, node, collected)
	case schema.ComponentRowTable:
		if node.Label != "" {
			if err := r.driver.Info(ctx, node.Label); err != nil {
				return err
			}
		}
		return r.walk(ctx, node.Children, collected)
	default:
		return r.promptInput(ctx, node, collected)
	}
}

func (r *Renderer) promptSelect(ctx context.Context, node form.Node, collected map[string]any) error {
	if len(node.Options) == 0 {
		return r.driver.Info(ctx, fmt.Sprintf("%s (no options available)", promptLabel(node)))
	}

	labels := make([]string, len(node.Options))
	defaultIndex := -1
	current, _ := node.Value.(string)
	for i, opt := range node.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		labels[i] = label
		if current != "" && opt.Value == current {
			defaultIndex = i
		}
	}

	choice, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(node),
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(node.Options) {
		return nil
	}

	value := node.Options[choice].Value
	if node.OnChange != nil {
		node.OnChange(value)
	}
	collected[node.Name] = value
	return nil
}

func (r *Renderer) promptConfirm(ctx context.Context, node form.Node, collected map[string]any) error {
	current, _ := node.Value.(bool)
	answer, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: promptLabel(node),
		Default: current,
	})
	if err != nil {
		return err
	}
	if node.OnChange != nil {
		node.OnChange(answer)
	}
	collected[node.Name] = answer
	return nil
}

func (r *Renderer) promptInput(ctx context.Context, node form.Node, collected map[string]any) error {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message:     promptLabel(node),
		Default:     stringValue(node.Value),
		Placeholder: node.Placeholder,
	})
	if err != nil {
		return err
	}
	if answer == "" {
		return nil
	}

	var value any = answer
	if node.Component == schema.ComponentNumber {
		value = form.CoerceNumeric(answer)
	}
	if node.Component == schema.ComponentTagList {
		parts := strings.Split(answer, ",")
		tags := make([]any, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		value = tags
	}

	if node.OnChange != nil {
		node.OnChange(value)
	}
	collected[node.Name] = value
	return nil
}

func (r *Renderer) serialize(collected map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for name, value := range collected {
			values.Set(name, stringValue(value))
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for name, value := range collected {
			fmt.Fprintf(&b, "%s: %s\n", name, stringValue(value))
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(collected)
	}
}

func promptLabel(node form.Node) string {
	if node.Label != "" {
		return node.Label
	}
	return node.Name
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
