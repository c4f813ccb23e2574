package types

// --- Type Widening ---

// GetWidenedType converts a literal type to its base keyword unless the
// literal was fixed by PreventGeneralize. Other types are returned unchanged.
func GetWidenedType(t Type) Type {
	if lit, ok := t.(*Literal); ok && !lit.Fixed {
		return lit.Base()
	}
	return t
}

// DeeplyWidenType widens literals throughout t. Unions whose members widen
// to the same keyword collapse to that keyword.
func DeeplyWidenType(t Type) Type {
	return Transform(t, func(x Type) (Type, bool) {
		switch x := x.(type) {
		case *Literal:
			return GetWidenedType(x), true
		case *Union:
			members := make([]Type, len(x.Types))
			for i, m := range x.Types {
				members[i] = DeeplyWidenType(m)
			}
			return NewUnion(x.Loc, members...), true
		}
		return nil, false
	})
}
