package validate

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Format names accepted by string control rules.
const (
	FormatEmail    = "email"
	FormatURL      = "url"
	FormatUUID     = "uuid"
	FormatDateTime = "datetime"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// Date layouts accepted by date validators, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// PatternCache compiles user-supplied regular expressions once per pattern
// text. Instance-scoped so concurrent form instances stay independent.
type PatternCache struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	failed   map[string]error
}

// NewPatternCache returns an empty cache.
func NewPatternCache() *PatternCache {
	return &PatternCache{
		compiled: make(map[string]*regexp.Regexp),
		failed:   make(map[string]error),
	}
}

// Get compiles expr once and returns the cached result on every later call,
// including cached compilation failures.
func (c *PatternCache) Get(expr string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.compiled[expr]; ok {
		return re, nil
	}
	if err, ok := c.failed[expr]; ok {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		c.failed[expr] = err
		return nil, err
	}
	c.compiled[expr] = re
	return re, nil
}

// EvaluatorOption customises an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithPatternCache shares a pattern cache across evaluators.
func WithPatternCache(cache *PatternCache) EvaluatorOption {
	return func(e *Evaluator) {
		if cache != nil {
			e.patterns = cache
		}
	}
}

// WithLabeler overrides how field names become labels in generated messages.
func WithLabeler(labeler func(string) string) EvaluatorOption {
	return func(e *Evaluator) {
		if labeler != nil {
			e.labeler = labeler
		}
	}
}

// Evaluator applies declarative control rules to typed validators. Rules
// combine conjunctively and fail closed: the first violated rule's message
// (or a generated default using the field label) is surfaced.
type Evaluator struct {
	patterns *PatternCache
	labeler  func(string) string
}

// NewEvaluator constructs an evaluator with an instance-scoped pattern cache.
func NewEvaluator(options ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		patterns: NewPatternCache(),
		labeler:  DefaultLabeler,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Label resolves the label used in generated messages.
func (e *Evaluator) Label(label, name string) string {
	if strings.TrimSpace(label) != "" {
		return label
	}
	return e.labeler(name)
}

// String builds a string validator from the supplied control rules.
func (e *Evaluator) String(label string, controls []schema.ControlRule) Validator {
	return &stringValidator{label: label, controls: controls, patterns: e.patterns}
}

// Number builds a numeric validator from the supplied control rules.
func (e *Evaluator) Number(label string, controls []schema.ControlRule) Validator {
	return &numberValidator{label: label, controls: controls}
}

// Boolean builds a consent-style boolean validator: a required rule means the
// value must equal true. Deliberate; do not soften to plain presence.
func (e *Evaluator) Boolean(label string, controls []schema.ControlRule) Validator {
	return &booleanValidator{label: label, controls: controls}
}

// Date builds a validator that parses string input into a time.Time and
// applies date-bound rules.
func (e *Evaluator) Date(label string, controls []schema.ControlRule) Validator {
	return &dateValidator{label: label, controls: controls}
}

// ForType dispatches on a validation type tag. Unrecognized tags return the
// permissive Any validator; the compiler decides whether to keep or drop it
// based on the field name shape.
func (e *Evaluator) ForType(typeTag, label string, controls []schema.ControlRule) (Validator, bool) {
	switch typeTag {
	case schema.TypeString:
		return e.String(label, controls), true
	case schema.TypeNumber:
		return e.Number(label, controls), true
	case schema.TypeBoolean:
		return e.Boolean(label, controls), true
	case schema.TypeDate:
		return e.Date(label, controls), true
	default:
		return Any{}, false
	}
}

func fmtMessage(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func ruleMessage(configured, fallback string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return fallback
}

// ---- string ----

type stringValidator struct {
	label    string
	controls []schema.ControlRule
	patterns *PatternCache
}

func (v *stringValidator) Validate(path schema.Path, value any) (any, Issues) {
	s := ""
	switch t := value.(type) {
	case nil:
	case string:
		s = t
	default:
		return nil, Issues{{Path: path.String(), Code: CodeInvalidType, Message: fmtMessage("%s must be text", v.label)}}
	}

	for _, ctrl := range v.controls {
		if iss := v.check(ctrl, path, s); iss != nil {
			return nil, Issues{*iss}
		}
	}
	return s, nil
}

func (v *stringValidator) check(ctrl schema.ControlRule, path schema.Path, s string) *Issue {
	at := path.String()
	if ctrl.Required && strings.TrimSpace(s) == "" {
		return &Issue{Path: at, Code: CodeRequired, Message: ruleMessage(ctrl.Message, fmtMessage("%s is required", v.label))}
	}
	if ctrl.Length != nil && len([]rune(s)) != *ctrl.Length {
		return &Issue{Path: at, Code: CodeLength, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be exactly %d characters", v.label, *ctrl.Length)), Params: map[string]any{"length": *ctrl.Length}}
	}
	if ctrl.MinLength != nil && len([]rune(s)) < *ctrl.MinLength {
		return &Issue{Path: at, Code: CodeTooShort, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be at least %d characters", v.label, *ctrl.MinLength)), Params: map[string]any{"min": *ctrl.MinLength}}
	}
	if ctrl.MaxLength != nil && len([]rune(s)) > *ctrl.MaxLength {
		return &Issue{Path: at, Code: CodeTooLong, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be at most %d characters", v.label, *ctrl.MaxLength)), Params: map[string]any{"max": *ctrl.MaxLength}}
	}
	if ctrl.Pattern != "" {
		re, err := v.patterns.Get(ctrl.Pattern)
		if err != nil || !re.MatchString(s) {
			return &Issue{Path: at, Code: CodePattern, Message: ruleMessage(ctrl.Message, fmtMessage("%s has an invalid format", v.label)), Params: map[string]any{"pattern": ctrl.Pattern}}
		}
	}
	if ctrl.Format != "" {
		if ok := checkFormat(ctrl.Format, s); !ok {
			return &Issue{Path: at, Code: CodeInvalidFormat, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be a valid %s", v.label, ctrl.Format)), Params: map[string]any{"format": ctrl.Format}}
		}
	}
	if ctrl.Prefix != "" && !strings.HasPrefix(s, ctrl.Prefix) {
		return &Issue{Path: at, Code: CodeInvalidFormat, Message: ruleMessage(ctrl.Message, fmtMessage("%s must start with %q", v.label, ctrl.Prefix))}
	}
	if ctrl.Suffix != "" && !strings.HasSuffix(s, ctrl.Suffix) {
		return &Issue{Path: at, Code: CodeInvalidFormat, Message: ruleMessage(ctrl.Message, fmtMessage("%s must end with %q", v.label, ctrl.Suffix))}
	}
	return nil
}

func checkFormat(format, s string) bool {
	switch format {
	case FormatEmail:
		return emailPattern.MatchString(s)
	case FormatURL:
		parsed, err := url.Parse(s)
		return err == nil && parsed.Scheme != "" && parsed.Host != ""
	case FormatUUID:
		return uuidPattern.MatchString(s)
	case FormatDateTime:
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	default:
		// Unknown formats never fail; they are the caller's declaration
		// problem, not the user's input problem.
		return true
	}
}

// ---- number ----

type numberValidator struct {
	label    string
	controls []schema.ControlRule
}

func (v *numberValidator) Validate(path schema.Path, value any) (any, Issues) {
	at := path.String()
	if value == nil {
		for _, ctrl := range v.controls {
			if ctrl.Required {
				return nil, Issues{{Path: at, Code: CodeRequired, Message: ruleMessage(ctrl.Message, fmtMessage("%s is required", v.label))}}
			}
		}
		return nil, nil
	}

	n, ok := toFloat(value)
	if !ok {
		return nil, Issues{{Path: at, Code: CodeInvalidType, Message: fmtMessage("%s must be a number", v.label)}}
	}

	for _, ctrl := range v.controls {
		if iss := v.check(ctrl, at, n); iss != nil {
			return nil, Issues{*iss}
		}
	}
	return n, nil
}

func (v *numberValidator) check(ctrl schema.ControlRule, at string, n float64) *Issue {
	if ctrl.Min != nil && n < *ctrl.Min {
		return &Issue{Path: at, Code: CodeTooSmall, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be at least %v", v.label, *ctrl.Min)), Params: map[string]any{"min": *ctrl.Min}}
	}
	if ctrl.Max != nil && n > *ctrl.Max {
		return &Issue{Path: at, Code: CodeTooBig, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be at most %v", v.label, *ctrl.Max)), Params: map[string]any{"max": *ctrl.Max}}
	}
	if ctrl.Integer && n != math.Trunc(n) {
		return &Issue{Path: at, Code: CodeNotInteger, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be a whole number", v.label))}
	}
	if ctrl.Positive && n <= 0 {
		return &Issue{Path: at, Code: CodeTooSmall, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be positive", v.label))}
	}
	if ctrl.NonNegative && n < 0 {
		return &Issue{Path: at, Code: CodeTooSmall, Message: ruleMessage(ctrl.Message, fmtMessage("%s must not be negative", v.label))}
	}
	if ctrl.Negative && n >= 0 {
		return &Issue{Path: at, Code: CodeTooBig, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be negative", v.label))}
	}
	if ctrl.MultipleOf != nil && *ctrl.MultipleOf != 0 {
		if rem := math.Abs(math.Mod(n, *ctrl.MultipleOf)); rem > 1e-9 && math.Abs(rem-math.Abs(*ctrl.MultipleOf)) > 1e-9 {
			return &Issue{Path: at, Code: CodeNotMultiple, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be a multiple of %v", v.label, *ctrl.MultipleOf)), Params: map[string]any{"multipleOf": *ctrl.MultipleOf}}
		}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch t := value.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// ---- boolean ----

type booleanValidator struct {
	label    string
	controls []schema.ControlRule
}

func (v *booleanValidator) Validate(path schema.Path, value any) (any, Issues) {
	at := path.String()
	b := false
	switch t := value.(type) {
	case nil:
	case bool:
		b = t
	default:
		return nil, Issues{{Path: at, Code: CodeInvalidType, Message: fmtMessage("%s must be a boolean", v.label)}}
	}

	for _, ctrl := range v.controls {
		// Required on a boolean means "must equal true": consent checkboxes
		// are never satisfiable by an unticked box.
		if ctrl.Required && !b {
			return nil, Issues{{Path: at, Code: CodeMustAccept, Message: ruleMessage(ctrl.Message, fmtMessage("%s must be accepted", v.label))}}
		}
	}
	return b, nil
}

// ---- date ----

type dateValidator struct {
	label    string
	controls []schema.ControlRule
}

func (v *dateValidator) Validate(path schema.Path, value any) (any, Issues) {
	at := path.String()
	raw := ""
	switch t := value.(type) {
	case nil:
	case string:
		raw = t
	case time.Time:
		return v.applyBounds(at, t)
	default:
		return nil, Issues{{Path: at, Code: CodeInvalidType, Message: fmtMessage("%s must be a date string", v.label)}}
	}

	if strings.TrimSpace(raw) == "" {
		for _, ctrl := range v.controls {
			if ctrl.Required {
				return nil, Issues{{Path: at, Code: CodeRequired, Message: ruleMessage(ctrl.Message, fmtMessage("%s is required", v.label))}}
			}
		}
		return nil, nil
	}

	parsed, ok := parseDate(raw)
	if !ok {
		return nil, Issues{{Path: at, Code: CodeInvalidFormat, Message: fmtMessage("%s must be a valid date", v.label)}}
	}
	return v.applyBounds(at, parsed)
}

func (v *dateValidator) applyBounds(at string, parsed time.Time) (any, Issues) {
	for _, ctrl := range v.controls {
		min, hasMin := parseBound(ctrl.MinDate)
		max, hasMax := parseBound(ctrl.MaxDate)
		switch {
		case hasMin && hasMax:
			if parsed.Before(min) || parsed.After(max) {
				return nil, Issues{{
					Path:    at,
					Code:    CodeDateBounds,
					Message: ruleMessage(ctrl.Message, fmtMessage("%s must be between %s and %s", v.label, ctrl.MinDate, ctrl.MaxDate)),
					Params:  map[string]any{"min": ctrl.MinDate, "max": ctrl.MaxDate},
				}}
			}
		case hasMin:
			if parsed.Before(min) {
				return nil, Issues{{Path: at, Code: CodeDateBounds, Message: ruleMessage(ctrl.Message, fmtMessage("%s must not be before %s", v.label, ctrl.MinDate)), Params: map[string]any{"min": ctrl.MinDate}}}
			}
		case hasMax:
			if parsed.After(max) {
				return nil, Issues{{Path: at, Code: CodeDateBounds, Message: ruleMessage(ctrl.Message, fmtMessage("%s must not be after %s", v.label, ctrl.MaxDate)), Params: map[string]any{"max": ctrl.MaxDate}}}
			}
		}
	}
	return parsed, nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parseBound treats unparsable bound strings as absent; malformed bounds are
// the definition author's responsibility and must not fail user input.
func parseBound(raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}
	return parseDate(raw)
}
