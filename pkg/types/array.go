package types

import (
	"strings"

	"tslower/pkg/source"
)

// Array represents `T[]`.
type Array struct {
	Loc  source.Span
	Elem Type
}

func (a *Array) String() string    { return operandString(a.Elem) + "[]" }
func (a *Array) Span() source.Span { return a.Loc }
func (a *Array) typeNode()         {}
func (a *Array) Equals(other Type) bool {
	o, ok := other.(*Array)
	return ok && typesEqual(a.Elem, o.Elem)
}

// TupleElement is one element of a tuple. Optional and rest elements carry
// an *Optional or *Rest type.
type TupleElement struct {
	Loc   source.Span
	Label string // empty for unlabelled elements
	Type  Type
}

func (e *TupleElement) String() string {
	if e.Label == "" {
		return typeString(e.Type)
	}
	// `label?: T` and `...label: T` are how labelled optional/rest elements are written.
	switch inner := e.Type.(type) {
	case *Optional:
		return e.Label + "?: " + typeString(inner.Type)
	case *Rest:
		return "..." + e.Label + ": " + typeString(inner.Type)
	}
	return e.Label + ": " + typeString(e.Type)
}

// Tuple represents `[A, B?, ...C[]]`.
type Tuple struct {
	Loc   source.Span
	Elems []*TupleElement
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t *Tuple) Span() source.Span { return t.Loc }
func (t *Tuple) typeNode()         {}
func (t *Tuple) Equals(other Type) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.Elems) != len(t.Elems) {
		return false
	}
	for i, e := range t.Elems {
		// Labels are documentation only.
		if !typesEqual(e.Type, o.Elems[i].Type) {
			return false
		}
	}
	return true
}

// NewTuple builds an unlabelled tuple from element types.
func NewTuple(span source.Span, elems ...Type) *Tuple {
	t := &Tuple{Loc: span, Elems: make([]*TupleElement, len(elems))}
	for i, e := range elems {
		t.Elems[i] = &TupleElement{Loc: e.Span(), Type: e}
	}
	return t
}

// MinLength is the number of leading required elements.
func (t *Tuple) MinLength() int {
	n := 0
	for _, e := range t.Elems {
		switch e.Type.(type) {
		case *Optional, *Rest:
			return n
		}
		n++
	}
	return n
}

// HasRest reports whether the tuple has a rest element.
func (t *Tuple) HasRest() bool {
	for _, e := range t.Elems {
		if _, ok := e.Type.(*Rest); ok {
			return true
		}
	}
	return false
}

// Optional is `T?` inside a tuple.
type Optional struct {
	Loc  source.Span
	Type Type
}

func (o *Optional) String() string    { return operandString(o.Type) + "?" }
func (o *Optional) Span() source.Span { return o.Loc }
func (o *Optional) typeNode()         {}
func (o *Optional) Equals(other Type) bool {
	x, ok := other.(*Optional)
	return ok && typesEqual(o.Type, x.Type)
}

// Rest is `...T` inside a tuple.
type Rest struct {
	Loc  source.Span
	Type Type
}

func (r *Rest) String() string    { return "..." + typeString(r.Type) }
func (r *Rest) Span() source.Span { return r.Loc }
func (r *Rest) typeNode()         {}
func (r *Rest) Equals(other Type) bool {
	x, ok := other.(*Rest)
	return ok && typesEqual(r.Type, x.Type)
}
