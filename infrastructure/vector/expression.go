package vector

import (
	"fmt"
	"strings"
)

// allowedOperators is the comparison operator allow-list. This list plus
// mandatory escaping is the sole injection defense for filter expressions:
// the engine accepts only inline filter text, with no bind parameters.
var allowedOperators = map[string]struct{}{
	"=":      {},
	"!=":     {},
	"<":      {},
	">":      {},
	"<=":     {},
	">=":     {},
	"LIKE":   {},
	"IS":     {},
	"IS NOT": {},
}

// EscapeValue escapes a string for inline use as a single-quoted SQL literal.
// Single quotes are doubled; embedded NUL bytes are rejected outright.
func EscapeValue(v string) (string, error) {
	if strings.ContainsRune(v, 0) {
		return "", fmt.Errorf("%w: value contains NUL byte", ErrInvalidInput)
	}
	return strings.ReplaceAll(v, "'", "''"), nil
}

// EscapeIdentifier wraps a column identifier in backticks, doubling any
// embedded backtick. Identifiers containing a literal "." are rejected: call
// sites must escape path segments individually rather than pass compound
// paths.
func EscapeIdentifier(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidInput)
	}
	if strings.ContainsRune(id, 0) {
		return "", fmt.Errorf("%w: identifier contains NUL byte", ErrInvalidInput)
	}
	if strings.Contains(id, ".") {
		return "", fmt.Errorf("%w: identifier %q contains a dot; escape path segments individually", ErrInvalidInput, id)
	}
	return "`" + strings.ReplaceAll(id, "`", "``") + "`", nil
}

// Condition is one comparison in a filter expression. A nil value means SQL
// NULL and may only pair with IS or IS NOT.
type Condition struct {
	column   string
	operator string
	value    any
}

// NewCondition creates a Condition.
func NewCondition(column, operator string, value any) Condition {
	return Condition{column: column, operator: operator, value: value}
}

// Column returns the column identifier.
func (c Condition) Column() string { return c.column }

// Operator returns the comparison operator.
func (c Condition) Operator() string { return c.operator }

// Value returns the comparison value, or nil for NULL.
func (c Condition) Value() any { return c.value }

// render produces the escaped SQL fragment for one condition.
func (c Condition) render() (string, error) {
	column, err := EscapeIdentifier(c.column)
	if err != nil {
		return "", err
	}

	op := strings.ToUpper(strings.TrimSpace(c.operator))
	if _, ok := allowedOperators[op]; !ok {
		return "", fmt.Errorf("%w: operator %q is not allowed", ErrInvalidInput, c.operator)
	}

	if c.value == nil {
		if op != "IS" && op != "IS NOT" {
			return "", fmt.Errorf("%w: NULL requires IS or IS NOT, got %q", ErrInvalidInput, c.operator)
		}
		return fmt.Sprintf("%s %s NULL", column, op), nil
	}

	str, ok := c.value.(string)
	if !ok {
		return "", fmt.Errorf("%w: unsupported value type %T", ErrInvalidInput, c.value)
	}

	escaped, err := EscapeValue(str)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s '%s'", column, op, escaped), nil
}

// BuildWhereClause renders conditions into a single ANDed filter expression.
// An empty condition list yields an empty string (no filter).
func BuildWhereClause(conditions []Condition) (string, error) {
	if len(conditions) == 0 {
		return "", nil
	}

	fragments := make([]string, len(conditions))
	for i, cond := range conditions {
		fragment, err := cond.render()
		if err != nil {
			return "", err
		}
		fragments[i] = fragment
	}

	return strings.Join(fragments, " AND "), nil
}
