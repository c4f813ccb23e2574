package types

import "tslower/pkg/source"

// --- Intersection Types ---

// Intersection represents `A & B`.
// A value of intersection type must satisfy all constituent types simultaneously.
type Intersection struct {
	Loc   source.Span
	Types []Type
}

func (it *Intersection) String() string {
	s := ""
	for i, t := range it.Types {
		if i > 0 {
			s += " & "
		}
		s += operandString(t)
	}
	return s
}
func (it *Intersection) Span() source.Span { return it.Loc }
func (it *Intersection) typeNode()         {}
func (it *Intersection) Equals(other Type) bool {
	o, ok := other.(*Intersection)
	return ok && typeSetsEqual(it.Types, o.Types)
}
