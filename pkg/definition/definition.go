// Package definition holds the contracts for loading and parsing form
// definitions: the JSON or YAML documents that declare field rows, control
// rules, and the option index backing cascading selects. Implementations
// live under internal/definition.
package definition

import (
	"github.com/goliatone/go-formkit/pkg/cascade"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Definition is a parsed form definition: ordered rows of field descriptors
// plus the option index shared by cascading selects.
type Definition struct {
	ID       string
	Title    string
	Rows     []schema.Row
	Options  cascade.Index
	Metadata map[string]string
}

// Fields returns the definition's descriptors flattened in declaration order.
func (d Definition) Fields() []schema.FieldDescriptor {
	return schema.Flatten(d.Rows)
}

// Empty reports whether the definition declares no fields.
func (d Definition) Empty() bool {
	return len(d.Rows) == 0
}
