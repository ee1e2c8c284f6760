package vanilla

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// widget groups component tags into the input shapes the templates switch
// on. Unknown tags never reach the renderer; the dispatcher drops them.
func widgetFor(component string) string {
	switch component {
	case schema.ComponentSelect, schema.ComponentCombobox, schema.ComponentCascade:
		return "select"
	case schema.ComponentRadio:
		return "radio"
	case schema.ComponentSwitch:
		return "checkbox"
	case schema.ComponentRichText:
		return "richtext"
	case schema.ComponentImage, schema.ComponentPDF:
		return "file"
	case schema.ComponentRowTable:
		return "rowtable"
	case schema.ComponentTagList:
		return "taglist"
	case schema.ComponentStatic, schema.ComponentHeading, schema.ComponentSeparator,
		schema.ComponentButton, schema.ComponentAlert:
		return "chrome"
	default:
		return "input"
	}
}

// inputType maps components rendered as plain inputs to their HTML type.
func inputType(component string) string {
	switch component {
	case schema.ComponentNumber:
		return "number"
	case schema.ComponentDate:
		return "date"
	case schema.ComponentDateTime:
		return "datetime-local"
	case schema.ComponentColor:
		return "color"
	case schema.ComponentPhone:
		return "tel"
	case schema.ComponentOTP:
		return "text"
	default:
		return "text"
	}
}

func (r *Renderer) nodeContexts(nodes []form.Node, options render.RenderOptions) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, r.nodeContext(node, options))
	}
	return out
}

func (r *Renderer) nodeContext(node form.Node, options render.RenderOptions) map[string]any {
	value := node.Value
	if override, ok := options.Values[node.Name]; ok {
		value = override
	}
	if node.Component == schema.ComponentRichText {
		if html, ok := value.(string); ok {
			value = r.sanitizer.Sanitize(html)
		}
	}

	errMsg := node.Error
	if errMsg == "" {
		if messages := options.Errors[node.Name]; len(messages) > 0 {
			errMsg = messages[0]
		}
	}

	ctx := map[string]any{
		"id":          node.ID,
		"name":        node.Name,
		"label":       node.Label,
		"placeholder": node.Placeholder,
		"component":   node.Component,
		"widget":      widgetFor(node.Component),
		"inputType":   inputType(node.Component),
		"value":       valueString(value),
		"error":       errMsg,
		"disabled":    node.Disabled,
		"metadata":    node.Metadata,
	}

	if len(node.Options) > 0 {
		opts := make([]map[string]string, 0, len(node.Options))
		for _, opt := range node.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			opts = append(opts, map[string]string{"value": opt.Value, "label": label})
		}
		ctx["options"] = opts
	}
	if len(node.Children) > 0 {
		ctx["children"] = r.nodeContexts(node.Children, options)
	}
	return ctx
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
