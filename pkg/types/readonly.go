package types

// --- Expansion, generalization and inference prevention ---

// PreventExpansion marks t and every named reference inside it as not to be
// unfolded again. It mutates t in place.
func PreventExpansion(t Type) {
	Walk(t, func(x Type) bool {
		switch x := x.(type) {
		case *Ref:
			x.NoExpand = true
		case *Alias:
			x.NoExpand = true
		case *Interface:
			x.NoExpand = true
		}
		return true
	})
}

// PreventGeneralize marks every literal inside t as fixed, so widening keeps it.
// It mutates t in place.
func PreventGeneralize(t Type) {
	Walk(t, func(x Type) bool {
		if lit, ok := x.(*Literal); ok {
			lit.Fixed = true
		}
		return true
	})
}

// FreezeParams returns a copy of t in which every placeholder is replaced by
// a frozen clone, so the result no longer participates in inference. Each
// distinct placeholder maps to exactly one clone.
func FreezeParams(t Type) Type {
	clones := make(map[*Param]*Param)
	var freeze func(Type) (Type, bool)
	freeze = func(x Type) (Type, bool) {
		switch x := x.(type) {
		case *Param:
			return freezeParam(x, clones, freeze), true
		case *Infer:
			return &Infer{Loc: x.Loc, Param: freezeParam(x.Param, clones, freeze)}, true
		case *Mapped:
			return &Mapped{
				Loc:      x.Loc,
				Readonly: x.Readonly,
				Optional: x.Optional,
				Param:    freezeParam(x.Param, clones, freeze),
				NameType: Transform(x.NameType, freeze),
				Type:     Transform(x.Type, freeze),
			}, true
		}
		return nil, false
	}
	return Transform(t, freeze)
}

func freezeParam(p *Param, clones map[*Param]*Param, fn func(Type) (Type, bool)) *Param {
	if c, ok := clones[p]; ok {
		return c
	}
	c := &Param{Loc: p.Loc, Name: p.Name, Frozen: true}
	clones[p] = c
	// Constraints may reference p itself; the clone is registered first.
	c.Constraint = Transform(p.Constraint, fn)
	c.Default = Transform(p.Default, fn)
	return c
}

// IsFrozen reports whether t contains no unfrozen placeholder.
func IsFrozen(t Type) bool {
	return Walk(t, func(x Type) bool {
		if p, ok := x.(*Param); ok {
			return p.Frozen
		}
		return true
	})
}
