package tui

import (
	"context"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// scriptedDriver plays back queued answers and records every prompt it was
// asked to show.
type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int

	inputCfgs   []InputConfig
	confirmCfgs []ConfirmConfig
	selectCfgs  []SelectConfig
	infos       []string

	err error
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.inputCfgs = append(d.inputCfgs, cfg)
	if len(d.inputs) == 0 {
		return "", nil
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	d.confirmCfgs = append(d.confirmCfgs, cfg)
	if len(d.confirms) == 0 {
		return false, nil
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	d.selectCfgs = append(d.selectCfgs, cfg)
	if len(d.selects) == 0 {
		return 0, nil
	}
	choice := d.selects[0]
	d.selects = d.selects[1:]
	return choice, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestRender_CollectsAnswers(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"Ada Lovelace", "1,200.5", "go, rust , "},
		confirms: []bool{true},
		selects:  []int{1},
	}

	written := make(map[string]any)
	onChange := func(name string) func(any) {
		return func(value any) { written[name] = value }
	}

	nodes := []form.Node{
		{Name: "fullName", Label: "Full Name", Component: schema.ComponentText, OnChange: onChange("fullName")},
		{Name: "budget", Component: schema.ComponentNumber, OnChange: onChange("budget")},
		{Name: "newsletter", Label: "Newsletter", Component: schema.ComponentSwitch, OnChange: onChange("newsletter")},
		{
			Name:      "country",
			Label:     "Country",
			Component: schema.ComponentSelect,
			Options: []cascade.Option{
				{Value: "us", Label: "United States"},
				{Value: "ca", Label: "Canada"},
			},
			OnChange: onChange("country"),
		},
		{Name: "tags", Component: schema.ComponentTagList, OnChange: onChange("tags")},
	}

	r := New(WithPromptDriver(driver))
	output, err := r.Render(context.Background(), nodes, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"fullName":   "Ada Lovelace",
		"budget":     float64(1200.5),
		"newsletter": true,
		"country":    "ca",
		"tags":       []any{"go", "rust"},
	}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Fatalf("write-through mismatch (-want +got):\n%s", diff)
	}

	var collected map[string]any
	if err := json.Unmarshal(output, &collected); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if diff := cmp.Diff(want, collected); diff != "" {
		t.Fatalf("serialized payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SelectDefaultsToCurrentValue(t *testing.T) {
	driver := &scriptedDriver{selects: []int{0}}
	nodes := []form.Node{
		{
			Name:      "country",
			Label:     "Country",
			Component: schema.ComponentSelect,
			Value:     "ca",
			Options: []cascade.Option{
				{Value: "us", Label: "United States"},
				{Value: "ca", Label: "Canada"},
			},
		},
	}

	if _, err := New(WithPromptDriver(driver)).Render(context.Background(), nodes, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.selectCfgs) != 1 {
		t.Fatalf("expected one select prompt, got %d", len(driver.selectCfgs))
	}
	cfg := driver.selectCfgs[0]
	if cfg.Message != "Country" {
		t.Fatalf("prompt message = %q", cfg.Message)
	}
	if cfg.DefaultIndex != 1 {
		t.Fatalf("default index = %d, want 1", cfg.DefaultIndex)
	}
	if diff := cmp.Diff([]string{"United States", "Canada"}, cfg.Options); diff != "" {
		t.Fatalf("option labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SkipsPresentationalAndDisabled(t *testing.T) {
	driver := &scriptedDriver{}
	nodes := []form.Node{
		{Name: "title", Label: "Shipping", Component: schema.ComponentHeading},
		{Name: "split", Component: schema.ComponentSeparator},
		{Name: "state", Label: "State", Component: schema.ComponentSelect, Disabled: true},
		{Name: "city", Component: schema.ComponentSelect},
	}

	if _, err := New(WithPromptDriver(driver)).Render(context.Background(), nodes, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{
		"Shipping",
		"State (skipped: select its parent first)",
		"city (no options available)",
	}
	if diff := cmp.Diff(want, driver.infos); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if len(driver.selectCfgs) != 0 {
		t.Fatalf("disabled and empty selects must not prompt, got %d prompts", len(driver.selectCfgs))
	}
}

func TestRender_RowTableWalksChildren(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"Grace", "555-0100"}}
	nodes := []form.Node{
		{
			Name:      "contacts",
			Label:     "Contacts",
			Component: schema.ComponentRowTable,
			Children: []form.Node{
				{Name: "name", Label: "Name", Component: schema.ComponentText},
				{Name: "phone", Label: "Phone", Component: schema.ComponentPhone},
			},
		},
	}

	output, err := New(WithPromptDriver(driver)).Render(context.Background(), nodes, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"Contacts"}, driver.infos); diff != "" {
		t.Fatalf("group heading mismatch (-want +got):\n%s", diff)
	}

	var collected map[string]any
	if err := json.Unmarshal(output, &collected); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	want := map[string]any{"name": "Grace", "phone": "555-0100"}
	if diff := cmp.Diff(want, collected); diff != "" {
		t.Fatalf("collected values mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EmptyAnswerLeavesFieldUntouched(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{""}}
	var wrote bool
	nodes := []form.Node{
		{Name: "nickname", Component: schema.ComponentText, OnChange: func(any) { wrote = true }},
	}

	output, err := New(WithPromptDriver(driver)).Render(context.Background(), nodes, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if wrote {
		t.Fatal("empty answer must not write through")
	}
	if string(output) != "{}" {
		t.Fatalf("expected empty payload, got %s", output)
	}
}

func TestRender_AbortStopsSession(t *testing.T) {
	driver := &scriptedDriver{err: ErrAborted}
	nodes := []form.Node{
		{Name: "email", Component: schema.ComponentText},
		{Name: "age", Component: schema.ComponentNumber},
	}

	_, err := New(WithPromptDriver(driver)).Render(context.Background(), nodes, render.RenderOptions{})
	if err != ErrAborted {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	nodes := []form.Node{
		{Name: "email", Component: schema.ComponentText},
	}

	t.Run("form urlencoded", func(t *testing.T) {
		driver := &scriptedDriver{inputs: []string{"a&b@example.com"}}
		r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
		if got := r.ContentType(); got != "application/x-www-form-urlencoded" {
			t.Fatalf("content type = %q", got)
		}
		output, err := r.Render(context.Background(), nodes, render.RenderOptions{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		values, err := url.ParseQuery(string(output))
		if err != nil {
			t.Fatalf("parse output: %v", err)
		}
		if got := values.Get("email"); got != "a&b@example.com" {
			t.Fatalf("email = %q", got)
		}
	})

	t.Run("pretty text", func(t *testing.T) {
		driver := &scriptedDriver{inputs: []string{"grace@example.com"}}
		r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
		if got := r.ContentType(); got != "text/plain; charset=utf-8" {
			t.Fatalf("content type = %q", got)
		}
		output, err := r.Render(context.Background(), nodes, render.RenderOptions{})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !strings.Contains(string(output), "email: grace@example.com") {
			t.Fatalf("unexpected summary: %s", output)
		}
	})

	t.Run("json default", func(t *testing.T) {
		r := New(WithPromptDriver(&scriptedDriver{}))
		if got := r.ContentType(); got != "application/json" {
			t.Fatalf("content type = %q", got)
		}
	})
}

func TestIndexOf(t *testing.T) {
	options := []string{"one", "two", "three"}
	if got := indexOf(options, "two"); got != 1 {
		t.Fatalf("indexOf(two) = %d", got)
	}
	if got := indexOf(options, "missing"); got != -1 {
		t.Fatalf("indexOf(missing) = %d", got)
	}
}
