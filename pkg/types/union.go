package types

import "tslower/pkg/source"

// --- Union Types ---

// Union represents `A | B | C`. Members keep their written order; lowering does
// not deduplicate, so structurally equal members may appear more than once.
type Union struct {
	Loc   source.Span
	Types []Type
}

func (u *Union) String() string {
	s := ""
	for i, t := range u.Types {
		if i > 0 {
			s += " | "
		}
		s += operandString(t)
	}
	return s
}
func (u *Union) Span() source.Span { return u.Loc }
func (u *Union) typeNode()         {}

// Equals compares unions as sets, regardless of order and duplicates.
func (u *Union) Equals(other Type) bool {
	o, ok := other.(*Union)
	return ok && typeSetsEqual(u.Types, o.Types)
}

// ContainsType checks if the union has a member that equals target.
func (u *Union) ContainsType(target Type) bool {
	for _, t := range u.Types {
		if typesEqual(t, target) {
			return true
		}
	}
	return false
}

// NewUnion creates a union from ts, flattening nested unions and dropping
// structural duplicates. A single surviving member is returned as is; an
// empty union is never.
func NewUnion(span source.Span, ts ...Type) Type {
	members := make([]Type, 0, len(ts))

	var collect func(t Type)
	collect = func(t Type) {
		if t == nil {
			return
		}
		if nested, ok := t.(*Union); ok {
			for _, m := range nested.Types {
				collect(m)
			}
			return
		}
		if k, ok := t.(*Keyword); ok && k.Kind == KwNever {
			return
		}
		for _, m := range members {
			if m.Equals(t) {
				return
			}
		}
		members = append(members, t)
	}
	for _, t := range ts {
		collect(t)
	}

	switch len(members) {
	case 0:
		return NewKeyword(KwNever, span)
	case 1:
		return members[0]
	}
	return &Union{Loc: span, Types: members}
}
