package expression

import (
	"strings"

	"solar-estimate/core/survey"
)

// Condition is a parsed "<dotted.path> == <literal>" expression
type Condition struct {
	Path    string
	Literal string // lower-cased
}

// IsBoolean reports whether the literal is true/false, in which case the
// comparison is against the truthiness of the field.
func (c Condition) IsBoolean() bool {
	return c.Literal == "true" || c.Literal == "false"
}

// ParseCondition parses expr. It reports false for anything that is not
// exactly one "==" with a non-empty path and literal.
func ParseCondition(expr string) (Condition, bool) {
	parts := strings.Split(expr, "==")
	if len(parts) != 2 {
		return Condition{}, false
	}
	path := strings.TrimSpace(parts[0])
	literal := strings.ToLower(strings.TrimSpace(parts[1]))
	if path == "" || literal == "" {
		return Condition{}, false
	}
	return Condition{Path: path, Literal: literal}, true
}

// Eval evaluates the condition against s. A field that does not resolve is
// falsy and has an empty string form.
func (c Condition) Eval(s *survey.Survey) bool {
	v, found := survey.Lookup(s, c.Path)

	if c.IsBoolean() {
		truthy := found && v.Truthy()
		return truthy == (c.Literal == "true")
	}

	actual := ""
	if found {
		actual = v.String()
	}
	return strings.ToLower(actual) == c.Literal
}

// EvaluateCondition evaluates a rule condition against s.
//
// An empty or malformed expression evaluates to true: a misconfigured
// condition includes its item rather than dropping it. The rule loader
// reports such expressions as warnings.
func EvaluateCondition(expr string, s *survey.Survey) bool {
	if strings.TrimSpace(expr) == "" {
		return true
	}
	c, ok := ParseCondition(expr)
	if !ok {
		return true
	}
	return c.Eval(s)
}
