/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator is a relational comparison operator.
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
)

// operators is ordered longest first so "<=" is not read as "<".
var operators = []Operator{
	OpLessEqual,
	OpGreaterEqual,
	OpEqual,
	OpNotEqual,
	OpLess,
	OpGreater,
}

// operandPattern admits switch names and numeric literals only.
var operandPattern = regexp.MustCompile(`^[A-Za-z0-9_.+\-]+$`)

// Compare applies the operator to two resolved numbers.
func (op Operator) Compare(lhs, rhs float64) (bool, error) {
	switch op {
	case OpLess:
		return lhs < rhs, nil
	case OpLessEqual:
		return lhs <= rhs, nil
	case OpGreater:
		return lhs > rhs, nil
	case OpGreaterEqual:
		return lhs >= rhs, nil
	case OpEqual:
		return lhs == rhs, nil
	case OpNotEqual:
		return lhs != rhs, nil
	default:
		return false, fmt.Errorf("unsupported operator: %q", op)
	}
}

// String implements fmt.Stringer.
func (op Operator) String() string {
	return string(op)
}

// Expression is a parsed rule of the form "<operator> <operand>". The left
// hand side is always the value of the switch declaring the rule; the operand
// is either another switch or a numeric literal.
type Expression struct {
	Raw      string
	Operator Operator
	Operand  string
}

// Vacuous reports whether the rule has nothing to compare. Vacuous rules are
// always satisfied.
func (e Expression) Vacuous() bool {
	return e.Operator == ""
}

// String returns the canonical form of the rule.
func (e Expression) String() string {
	if e.Vacuous() {
		return ""
	}
	return fmt.Sprintf("%s %s", e.Operator, e.Operand)
}

// ParseExpression parses a rule. Blank text yields a vacuous expression.
func ParseExpression(s string) (Expression, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Expression{Raw: s}, nil
	}

	for _, op := range operators {
		rest, ok := strings.CutPrefix(trimmed, string(op))
		if !ok {
			continue
		}
		operand := strings.TrimSpace(rest)
		if operand == "" {
			return Expression{}, fmt.Errorf("rule %q: missing operand after %q", s, op)
		}
		if !operandPattern.MatchString(operand) {
			return Expression{}, fmt.Errorf("rule %q: operand must be a single switch or number", s)
		}
		return Expression{Raw: s, Operator: op, Operand: operand}, nil
	}

	return Expression{}, fmt.Errorf("rule %q: must start with one of <, <=, >, >=, ==, !=", s)
}
