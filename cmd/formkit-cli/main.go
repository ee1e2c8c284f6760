package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	formkit "github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

func main() {
	source := flag.String("definition", "form.json", "form definition path or URL")
	rendererName := flag.String("renderer", "vanilla", "renderer to use (vanilla, tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	valuesPath := flag.String("values", "", "JSON file with initial form values")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid definition source: %q", *source)
	}

	values, err := loadValues(*valuesPath)
	if err != nil {
		log.Fatalf("load values: %v", err)
	}

	options := []orchestrator.Option{
		orchestrator.WithLogger(log.Printf),
		orchestrator.WithLoader(formkit.NewLoader(definition.WithHTTPFallback(10 * time.Second))),
	}
	if *rendererName == "tui" {
		registry := render.NewRegistry()
		registry.MustRegister(tui.New())
		options = append(options,
			orchestrator.WithRegistry(registry),
			orchestrator.WithDefaultRenderer("tui"),
		)
	}
	gen := formkit.NewOrchestrator(options...)

	result, err := gen.Render(ctx, orchestrator.Request{
		Source:   src,
		Values:   values,
		Renderer: *rendererName,
	})
	if err != nil {
		log.Fatalf("render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, result, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(string(result))
}

func parseSource(raw string) definition.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return definition.SourceFromURL(path)
	}
	return definition.SourceFromFile(path)
}

func loadValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
