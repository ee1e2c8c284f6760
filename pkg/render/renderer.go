package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Renderer converts dispatched form nodes into a byte representation
// (HTML, terminal output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, nodes []form.Node, options RenderOptions) ([]byte, error)
}
