package definition

import "context"

// Parser converts a raw document into a Definition. The built-in
// implementation accepts JSON and YAML payloads.
type Parser interface {
	Parse(ctx context.Context, doc Document) (Definition, error)
}

// ParserOptions configures parsing behaviour.
type ParserOptions struct {
	// AllowEmpty accepts documents that declare no fields instead of
	// returning an error. The orchestrator uses this to render a not-ready
	// placeholder while a definition is still being fetched.
	AllowEmpty bool
}

// ParserOption mutates ParserOptions prior to construction.
type ParserOption func(*ParserOptions)

// WithAllowEmpty tolerates definitions without fields.
func WithAllowEmpty() ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmpty = true
	}
}

// NewParserOptions applies a set of ParserOption values.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
