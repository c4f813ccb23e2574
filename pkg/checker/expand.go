package checker

import (
	"strconv"
	"strings"

	"tslower/pkg/errors"
	"tslower/pkg/types"
)

// expander is the default Expander. It unfolds references against the
// checker's registry.
type expander struct {
	c *Checker
}

// ExpandFully replaces alias references by their instantiated bodies and
// interface references by the instantiated interface, recursively through
// unions, intersections, tuples, arrays, operators and type literals.
// Functions, conditionals, mapped types and queries are left as written.
//
// A reference marked non-expandable stays folded when it names an alias that
// is already being unfolded, so recursive aliases terminate.
func (e *expander) ExpandFully(t types.Type) (types.Type, error) {
	x := &expansion{c: e.c, active: make(map[string]bool)}
	out := x.expand(t, 0)
	if x.err != nil {
		return nil, x.err
	}
	return out, nil
}

type expansion struct {
	c      *Checker
	active map[string]bool
	err    error
}

func (x *expansion) expand(t types.Type, depth int) types.Type {
	if x.err != nil || t == nil {
		return t
	}
	if depth > x.c.maxDepth {
		x.err = errors.NewTypeError(t.Span(), errors.CodeExcessiveDepth,
			"Type instantiation is excessively deep and possibly infinite.")
		return t
	}
	return types.Transform(t, func(n types.Type) (types.Type, bool) {
		switch n := n.(type) {
		case *types.Ref:
			return x.expandRef(n, depth), true
		case *types.IndexedAccess:
			obj := x.expand(n.Object, depth+1)
			idx := x.expand(n.Index, depth+1)
			if r, ok := x.indexedAccess(obj, idx); ok {
				return r, true
			}
			return &types.IndexedAccess{Loc: n.Loc, Readonly: n.Readonly, Object: obj, Index: idx}, true
		case *types.Function, *types.Constructor, *types.Conditional, *types.Mapped,
			*types.Query, *types.Interface, *types.Alias, *types.Param, *types.Infer:
			return n, true
		}
		return nil, false
	})
}

func (x *expansion) expandRef(r *types.Ref, depth int) types.Type {
	var args []types.Type
	if r.TypeArgs != nil {
		args = make([]types.Type, len(r.TypeArgs))
		for i, a := range r.TypeArgs {
			args[i] = x.expand(a, depth+1)
		}
	}
	folded := &types.Ref{Loc: r.Loc, Name: r.Name, TypeArgs: args, NoExpand: r.NoExpand}

	if enumName, member, ok := strings.Cut(r.Name, "."); ok {
		if lit, ok := x.enumMember(enumName, member); ok {
			return lit
		}
		return folded
	}

	switch decl := x.c.lookupDecl(r.Name).(type) {
	case *types.Alias:
		if x.active[r.Name] && r.NoExpand {
			debugPrintf("// [Expand] '%s' stays folded\n", r.Name)
			return folded
		}
		x.active[r.Name] = true
		defer delete(x.active, r.Name)
		body := types.Substitute(decl.Type, types.Instantiate(decl.TypeParams, args))
		return x.expand(body, depth+1)

	case *types.Interface:
		return instantiateInterface(decl, args)
	}
	return folded
}

// enumMember resolves `E.A` to the literal type of the member.
func (x *expansion) enumMember(enumName, member string) (types.Type, bool) {
	v, ok := x.c.values.ResolveValue(enumName)
	if !ok || v.Kind != ValueEnum {
		return nil, false
	}
	return v.Member(member)
}

// indexedAccess evaluates `T[K]` for tuples and arrays indexed by number and
// for object types indexed by a string literal.
func (x *expansion) indexedAccess(obj, idx types.Type) (types.Type, bool) {
	lit, isLit := idx.(*types.Literal)
	switch o := obj.(type) {
	case *types.Tuple:
		if !isLit || lit.Kind != types.LitNumber {
			return nil, false
		}
		i, err := strconv.Atoi(lit.Value)
		if err != nil || i < 0 || i >= len(o.Elems) {
			return nil, false
		}
		switch el := o.Elems[i].Type.(type) {
		case *types.Rest:
			return nil, false
		case *types.Optional:
			return el.Type, true
		default:
			return el, true
		}
	case *types.Array:
		if k, ok := idx.(*types.Keyword); ok && k.Kind == types.KwNumber {
			return o.Elem, true
		}
		if isLit && lit.Kind == types.LitNumber {
			return o.Elem, true
		}
	case *types.TypeLit, *types.Interface:
		if !isLit || lit.Kind != types.LitString {
			return nil, false
		}
		members, ok := x.c.FlattenMembers(o)
		if !ok {
			return nil, false
		}
		m, ok := types.FindProperty(members, lit.Value)
		if !ok {
			return nil, false
		}
		switch m := m.(type) {
		case *types.PropertySignature:
			if m.Type == nil {
				return types.NewKeyword(types.KwAny, m.Loc), true
			}
			return m.Type, true
		case *types.MethodSignature:
			return &types.Function{Loc: m.Loc, Signature: m.Signature}, true
		}
	}
	return nil, false
}
