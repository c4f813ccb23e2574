package types

import (
	"strings"

	"tslower/pkg/source"
)

// Type is the interface implemented by all semantic type representations.
type Type interface {
	// String returns the type in TypeScript syntax, suitable for debugging or printing.
	String() string
	// Span is the location of the syntax the type was lowered from.
	Span() source.Span
	// Equals checks if this type is structurally equivalent to another type.
	// Spans and provenance flags never take part in the comparison.
	Equals(other Type) bool

	// typeNode() is a marker method to ensure only types defined in this package
	// can be assigned to the Type interface. This keeps the type system closed.
	typeNode()
}

// TypeElement is one member of a type literal or interface body.
type TypeElement interface {
	String() string
	Span() source.Span
	Equals(other TypeElement) bool
	typeElement()
}

// typesEqual compares two possibly-nil types.
func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// typeListsEqual compares two type lists pairwise, in order.
func typeListsEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// typeSetsEqual compares two type lists as sets: every member of one
// has a structurally equal member in the other.
func typeSetsEqual(a, b []Type) bool {
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll(haystack, needles []Type) bool {
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if typesEqual(h, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = typeString(t)
	}
	return strings.Join(parts, sep)
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeArgsString(args []Type) string {
	if args == nil {
		return ""
	}
	return "<" + joinTypes(args, ", ") + ">"
}

// needsParens reports whether t must be parenthesized when used as the
// operand of an array, union or intersection.
func needsParens(t Type) bool {
	switch t.(type) {
	case *Union, *Intersection, *Function, *Constructor, *Conditional:
		return true
	}
	return false
}

func operandString(t Type) string {
	if t != nil && needsParens(t) {
		return "(" + t.String() + ")"
	}
	return typeString(t)
}
