package schema

import "strings"

// Known component tags. The dispatcher treats this as a closed set with an
// explicit "render nothing" default for anything else.
const (
	ComponentText       = "text"
	ComponentNumber     = "number"
	ComponentCreditCard = "credit-card"
	ComponentSelect     = "select"
	ComponentCombobox   = "combobox"
	ComponentCascade    = "cascade-select"
	ComponentDate       = "date"
	ComponentDateTime   = "datetime"
	ComponentRichText   = "richtext"
	ComponentImage      = "image-upload"
	ComponentPDF        = "pdf-upload"
	ComponentPhone      = "phone"
	ComponentOTP        = "otp"
	ComponentTagList    = "tag-list"
	ComponentColor      = "color"
	ComponentSwitch     = "switch"
	ComponentRadio      = "radio"
	ComponentRowTable   = "row-table"
	ComponentStatic     = "static-text"
	ComponentHeading    = "heading"
	ComponentSeparator  = "separator"
	ComponentButton     = "button"
	ComponentAlert      = "alert"
)

// Validation type tags accepted by the compiler.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeDate    = "date"
	TypeArray   = "array"
	TypeObject  = "object"
)

// ControlRule is a single declarative constraint. Multiple rules on the same
// control list combine conjunctively; the first violated rule's message wins.
// Name/Field select the item-level property for array and object groupings
// (Field is the legacy spelling and is honoured when Name is empty).
type ControlRule struct {
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Field       string   `json:"field,omitempty" yaml:"field,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength   *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Length      *int     `json:"length,omitempty" yaml:"length,omitempty"`
	Pattern     string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format      string   `json:"format,omitempty" yaml:"format,omitempty"`
	Prefix      string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix      string   `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Integer     bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	Positive    bool     `json:"positive,omitempty" yaml:"positive,omitempty"`
	NonNegative bool     `json:"nonNegative,omitempty" yaml:"nonNegative,omitempty"`
	Negative    bool     `json:"negative,omitempty" yaml:"negative,omitempty"`
	MultipleOf  *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`
	MinDate     string   `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate     string   `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	Message     string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// PropertyName returns the item-level property a rule targets inside array and
// object groupings.
func (c ControlRule) PropertyName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Field
}

// Validations pairs a type tag with the rules applied to a field.
type Validations struct {
	Type     string        `json:"type" yaml:"type"`
	Controls []ControlRule `json:"controls,omitempty" yaml:"controls,omitempty"`
}

// FieldDescriptor declares one form field. Name may contain '.' for nesting
// and "[i]" for array indices; Component selects the renderer and, through
// Validations.Type, the validator shape.
type FieldDescriptor struct {
	ID                string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string            `json:"name" yaml:"name"`
	Label             string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder       string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Component         string            `json:"component" yaml:"component"`
	Validations       *Validations      `json:"validations,omitempty" yaml:"validations,omitempty"`
	DependsOn         []string          `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	OptionName        string            `json:"optionName,omitempty" yaml:"optionName,omitempty"`
	FilterUsedOptions bool              `json:"filterUsedOptions,omitempty" yaml:"filterUsedOptions,omitempty"`
	Controls          []FieldDescriptor `json:"controls,omitempty" yaml:"controls,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OptionKey returns the key used to index the external option store.
func (f FieldDescriptor) OptionKey() string {
	if f.OptionName != "" {
		return f.OptionName
	}
	return f.Name
}

// ValidationType returns the declared validation type tag, or "" when the
// descriptor carries no validations.
func (f FieldDescriptor) ValidationType() string {
	if f.Validations == nil {
		return ""
	}
	return strings.TrimSpace(f.Validations.Type)
}

// IsChoice reports whether a component renders from an option list.
func IsChoice(component string) bool {
	switch component {
	case ComponentSelect, ComponentCombobox, ComponentCascade, ComponentRadio:
		return true
	default:
		return false
	}
}

// IsPresentational reports whether a component tag renders chrome only and
// never binds a value.
func IsPresentational(component string) bool {
	switch component {
	case ComponentStatic, ComponentHeading, ComponentSeparator, ComponentButton, ComponentAlert:
		return true
	default:
		return false
	}
}

// Row is one declarative layout row: fields rendered side by side. Grouping is
// irrelevant to compilation and is flattened before processing.
type Row []FieldDescriptor

// Flatten expands rows into the processing order the compiler and the
// orchestrator both use.
func Flatten(rows []Row) []FieldDescriptor {
	var out []FieldDescriptor
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
