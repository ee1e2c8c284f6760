package validate

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// CompilerOption customises a Compiler.
type CompilerOption func(*Compiler)

// WithEvaluator injects a shared rule evaluator (and with it the pattern
// cache scoping).
func WithEvaluator(eval *Evaluator) CompilerOption {
	return func(c *Compiler) {
		if eval != nil {
			c.eval = eval
		}
	}
}

// Compiler walks field descriptors and produces the composed validation
// schema: a tree of typed validators keyed by field name, with dotted names
// expanded into nested object validators.
type Compiler struct {
	eval *Evaluator
}

// NewCompiler constructs a Compiler with its own evaluator unless one is
// supplied.
func NewCompiler(options ...CompilerOption) *Compiler {
	c := &Compiler{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.eval == nil {
		c.eval = NewEvaluator()
	}
	return c
}

// shape is the mutable build tree: values are either a Validator leaf or a
// nested *shapeNode placeholder awaiting conversion.
type shapeNode struct {
	children map[string]any
	order    []string
}

func newShape() *shapeNode {
	return &shapeNode{children: make(map[string]any)}
}

func (n *shapeNode) set(key string, value any) {
	if _, exists := n.children[key]; !exists {
		n.order = append(n.order, key)
	}
	n.children[key] = value
}

func (n *shapeNode) childShape(key string) *shapeNode {
	if existing, ok := n.children[key].(*shapeNode); ok {
		return existing
	}
	// A leaf already under this key is replaced by a placeholder: the later
	// dotted descriptor wins, matching processing-order semantics.
	child := newShape()
	n.set(key, child)
	return child
}

// Compile flattens grouped rows and builds the root object validator. It is
// pure: compiling the same descriptor list twice yields structurally
// equivalent schemas, and no descriptor causes a panic.
func (c *Compiler) Compile(rows []schema.Row) *Object {
	root := newShape()
	for _, fd := range schema.Flatten(rows) {
		c.compileDescriptor(root, fd)
	}
	return finalize(root)
}

// CompileFields is Compile for a pre-flattened descriptor list.
func (c *Compiler) CompileFields(fields []schema.FieldDescriptor) *Object {
	root := newShape()
	for _, fd := range fields {
		c.compileDescriptor(root, fd)
	}
	return finalize(root)
}

func (c *Compiler) compileDescriptor(root *shapeNode, fd schema.FieldDescriptor) {
	// Descriptors without a validations block contribute nothing to the
	// schema; they still dispatch and bind values.
	if fd.Validations == nil {
		return
	}
	name := strings.TrimSpace(fd.Name)
	typeTag := fd.ValidationType()
	if typeTag == schema.TypeObject {
		c.compileObject(root, fd)
		return
	}
	if name == "" {
		return
	}

	path := keyPath(schema.ParsePath(name))
	var controls []schema.ControlRule
	if fd.Validations != nil {
		controls = fd.Validations.Controls
	}
	label := c.eval.Label(fd.Label, name)

	switch typeTag {
	case schema.TypeString, schema.TypeNumber, schema.TypeBoolean, schema.TypeDate:
		leaf, _ := c.eval.ForType(typeTag, label, controls)
		insert(root, path, leaf)
	case schema.TypeArray:
		insert(root, path, c.compileArray(label, controls))
	default:
		// Unknown tags degrade to a permissive validator at the top level;
		// dotted names are dropped entirely. Preserved as-is from the source
		// semantics rather than normalized.
		if len(path) == 1 {
			insert(root, path, Any{})
		}
	}
}

// compileArray groups item-level controls by property name into one
// item-object validator; controls without a property name contribute the
// whole-array exact-length rule.
func (c *Compiler) compileArray(label string, controls []schema.ControlRule) *Array {
	item := NewObject()
	var length *int
	lengthMsg := ""
	for _, group := range groupControls(controls) {
		if group.name == "" {
			for _, ctrl := range group.rules {
				if ctrl.Length != nil {
					value := *ctrl.Length
					length = &value
					lengthMsg = ctrl.Message
				}
			}
			continue
		}
		item.Set(group.name, c.itemValidator(group))
	}
	return NewArray(item, length, label, lengthMsg)
}

// compileObject assigns grouped control keys as top-level siblings unless a
// grouped key is itself dotted, in which case it nests at the key's own
// path. Object descriptors deliberately do not nest under their own name;
// flagged during review, kept verbatim.
func (c *Compiler) compileObject(root *shapeNode, fd schema.FieldDescriptor) {
	if fd.Validations == nil {
		return
	}
	for _, group := range groupControls(fd.Validations.Controls) {
		if group.name == "" {
			continue
		}
		leaf := c.itemValidator(group)
		path := keyPath(schema.ParsePath(group.name))
		if len(path) == 0 {
			continue
		}
		insert(root, path, leaf)
	}
}

type controlGroup struct {
	name  string
	rules []schema.ControlRule
}

// groupControls buckets rules by their target property while keeping first
// occurrence order.
func groupControls(controls []schema.ControlRule) []controlGroup {
	var out []controlGroup
	index := make(map[string]int)
	for _, ctrl := range controls {
		name := ctrl.PropertyName()
		if at, ok := index[name]; ok {
			out[at].rules = append(out[at].rules, ctrl)
			continue
		}
		index[name] = len(out)
		out = append(out, controlGroup{name: name, rules: []schema.ControlRule{ctrl}})
	}
	return out
}

// itemValidator compiles one grouped property with the same per-type logic,
// non-nested: the group's first typed rule decides the validator shape.
func (c *Compiler) itemValidator(group controlGroup) Validator {
	typeTag := ""
	for _, ctrl := range group.rules {
		if ctrl.Type != "" {
			typeTag = ctrl.Type
			break
		}
	}
	label := c.eval.Label("", lastSegment(group.name))
	leaf, known := c.eval.ForType(typeTag, label, group.rules)
	if !known && typeTag == "" {
		// Untyped item rules default to string semantics.
		return c.eval.String(label, group.rules)
	}
	return leaf
}

func lastSegment(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// keyPath strips array-index segments: compilation nests on object keys
// only, indices belong to runtime error lookup.
func keyPath(path schema.Path) schema.Path {
	out := make(schema.Path, 0, len(path))
	for _, seg := range path {
		if seg.IsIndex {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// insert walks intermediate segments creating placeholder shapes and assigns
// the leaf at the final segment. Last write wins on colliding paths.
func insert(root *shapeNode, path schema.Path, leaf Validator) {
	if len(path) == 0 {
		return
	}
	cur := root
	for _, seg := range path[:len(path)-1] {
		cur = cur.childShape(seg.Key)
	}
	cur.set(path[len(path)-1].Key, leaf)
}

// finalize converts placeholder shapes into object validators, skipping
// placeholders that ended up empty.
func finalize(node *shapeNode) *Object {
	obj := NewObject()
	for _, key := range node.order {
		switch child := node.children[key].(type) {
		case *shapeNode:
			nested := finalize(child)
			if nested.Len() == 0 {
				continue
			}
			obj.Set(key, nested)
		case Validator:
			obj.Set(key, child)
		}
	}
	return obj
}
