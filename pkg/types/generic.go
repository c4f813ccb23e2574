package types

import (
	"strings"

	"tslower/pkg/source"
)

// Param is a type-parameter placeholder. The *Param created while lowering a
// declaration is authoritative: every reference to the parameter resolves to
// the same pointer, so filling in Constraint and Default later is observed
// by all references, including ones inside the constraint itself.
type Param struct {
	Loc        source.Span
	Name       string
	Constraint Type // nil if unconstrained
	Default    Type // nil if absent
	// Frozen parameters no longer take part in inference.
	Frozen bool
}

func (p *Param) String() string    { return p.Name }
func (p *Param) Span() source.Span { return p.Loc }
func (p *Param) typeNode()         {}

// Equals reports identity, or two placeholders with the same name.
func (p *Param) Equals(other Type) bool {
	o, ok := other.(*Param)
	return ok && (o == p || o.Name == p.Name)
}

// Declaration renders the parameter as written in a `<...>` list.
func (p *Param) Declaration() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Constraint != nil {
		b.WriteString(" extends ")
		b.WriteString(p.Constraint.String())
	}
	if p.Default != nil {
		b.WriteString(" = ")
		b.WriteString(p.Default.String())
	}
	return b.String()
}

// TypeParamDecl is a lowered `<...>` list in declaration order.
type TypeParamDecl struct {
	Loc    source.Span
	Params []*Param
}

func (d *TypeParamDecl) String() string {
	if d == nil || len(d.Params) == 0 {
		return ""
	}
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.Declaration()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// Len is nil-safe.
func (d *TypeParamDecl) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Params)
}

// Infer is `infer U` inside the extends clause of a conditional type.
type Infer struct {
	Loc   source.Span
	Param *Param
}

func (i *Infer) String() string {
	if i.Param.Constraint != nil {
		return "infer " + i.Param.Name + " extends " + i.Param.Constraint.String()
	}
	return "infer " + i.Param.Name
}
func (i *Infer) Span() source.Span { return i.Loc }
func (i *Infer) typeNode()         {}
func (i *Infer) Equals(other Type) bool {
	o, ok := other.(*Infer)
	return ok && i.Param.Equals(o.Param)
}

// --- Substitution ---

// Substitute replaces placeholders found in subst with their mapped types,
// returning a new tree. Placeholders are matched by identity.
func Substitute(t Type, subst map[*Param]Type) Type {
	if len(subst) == 0 {
		return t
	}
	return Transform(t, func(t Type) (Type, bool) {
		if p, ok := t.(*Param); ok {
			if r, found := subst[p]; found {
				return r, true
			}
			return p, true
		}
		return nil, false
	})
}

// Instantiate builds the substitution map for decl given type args, using
// defaults (themselves substituted) for missing args and `any` otherwise.
func Instantiate(decl *TypeParamDecl, args []Type) map[*Param]Type {
	subst := make(map[*Param]Type, decl.Len())
	if decl == nil {
		return subst
	}
	for i, p := range decl.Params {
		switch {
		case i < len(args):
			subst[p] = args[i]
		case p.Default != nil:
			subst[p] = Substitute(p.Default, subst)
		default:
			subst[p] = NewKeyword(KwAny, p.Loc)
		}
	}
	return subst
}

// Transform rebuilds t bottom-up. fn is consulted first for every node;
// when it returns ok the returned type replaces the node and its children
// are not visited. Nodes fn declines are copied with transformed children.
func Transform(t Type, fn func(Type) (Type, bool)) Type {
	if t == nil {
		return nil
	}
	if r, ok := fn(t); ok {
		return r
	}
	tr := func(x Type) Type { return Transform(x, fn) }
	trList := func(xs []Type) []Type {
		if xs == nil {
			return nil
		}
		out := make([]Type, len(xs))
		for i, x := range xs {
			out[i] = tr(x)
		}
		return out
	}

	switch t := t.(type) {
	case *Keyword, *Literal, *This:
		return t
	case *Param:
		return t
	case *Array:
		return &Array{Loc: t.Loc, Elem: tr(t.Elem)}
	case *Tuple:
		elems := make([]*TupleElement, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = &TupleElement{Loc: e.Loc, Label: e.Label, Type: tr(e.Type)}
		}
		return &Tuple{Loc: t.Loc, Elems: elems}
	case *Optional:
		return &Optional{Loc: t.Loc, Type: tr(t.Type)}
	case *Rest:
		return &Rest{Loc: t.Loc, Type: tr(t.Type)}
	case *Union:
		return &Union{Loc: t.Loc, Types: trList(t.Types)}
	case *Intersection:
		return &Intersection{Loc: t.Loc, Types: trList(t.Types)}
	case *Function:
		return &Function{Loc: t.Loc, Signature: transformSignature(t.Signature, fn)}
	case *Constructor:
		return &Constructor{Loc: t.Loc, Abstract: t.Abstract, Signature: transformSignature(t.Signature, fn)}
	case *TypeLit:
		return &TypeLit{Loc: t.Loc, Members: TransformElements(t.Members, fn)}
	case *Interface:
		return &Interface{
			Loc:        t.Loc,
			Name:       t.Name,
			TypeParams: t.TypeParams,
			Extends:    transformRefExprs(t.Extends, fn),
			Body:       TransformElements(t.Body, fn),
			NoExpand:   t.NoExpand,
		}
	case *Alias:
		return &Alias{Loc: t.Loc, Name: t.Name, TypeParams: t.TypeParams, Type: tr(t.Type), NoExpand: t.NoExpand}
	case *Ref:
		return &Ref{Loc: t.Loc, Name: t.Name, TypeArgs: trList(t.TypeArgs), NoExpand: t.NoExpand}
	case *Conditional:
		return &Conditional{Loc: t.Loc, Check: tr(t.Check), Extends: tr(t.Extends), True: tr(t.True), False: tr(t.False)}
	case *Mapped:
		// The key parameter is rebuilt with its transformed `in` clause and
		// references to it are redirected to the rebuilt one.
		key := &Param{Loc: t.Param.Loc, Name: t.Param.Name, Constraint: tr(t.Param.Constraint), Frozen: t.Param.Frozen}
		inner := func(x Type) (Type, bool) {
			if x == t.Param {
				return key, true
			}
			return fn(x)
		}
		return &Mapped{
			Loc:      t.Loc,
			Readonly: t.Readonly,
			Optional: t.Optional,
			Param:    key,
			NameType: Transform(t.NameType, inner),
			Type:     Transform(t.Type, inner),
		}
	case *Operator:
		return &Operator{Loc: t.Loc, Op: t.Op, Type: tr(t.Type)}
	case *Query:
		q := &Query{Loc: t.Loc, Expr: t.Expr, TypeArgs: trList(t.TypeArgs)}
		if t.Import != nil {
			if imp, ok := tr(t.Import).(*Import); ok {
				q.Import = imp
			}
		}
		return q
	case *IndexedAccess:
		return &IndexedAccess{Loc: t.Loc, Readonly: t.Readonly, Object: tr(t.Object), Index: tr(t.Index)}
	case *Predicate:
		return &Predicate{Loc: t.Loc, Asserts: t.Asserts, Param: t.Param, Type: tr(t.Type)}
	case *Infer:
		return t
	case *Import:
		return &Import{Loc: t.Loc, Arg: t.Arg, Qualifier: t.Qualifier, TypeArgs: trList(t.TypeArgs)}
	}
	return t
}

// TransformElements applies Transform to every type inside members.
func TransformElements(members []TypeElement, fn func(Type) (Type, bool)) []TypeElement {
	if members == nil {
		return nil
	}
	out := make([]TypeElement, len(members))
	for i, m := range members {
		switch m := m.(type) {
		case *CallSignature:
			out[i] = &CallSignature{Loc: m.Loc, Signature: transformSignature(m.Signature, fn)}
		case *ConstructSignature:
			out[i] = &ConstructSignature{Loc: m.Loc, Signature: transformSignature(m.Signature, fn)}
		case *IndexSignature:
			out[i] = &IndexSignature{Loc: m.Loc, Readonly: m.Readonly, Params: transformParams(m.Params, fn), Type: Transform(m.Type, fn)}
		case *MethodSignature:
			out[i] = &MethodSignature{Loc: m.Loc, Readonly: m.Readonly, Key: m.Key, Optional: m.Optional, Signature: transformSignature(m.Signature, fn)}
		case *PropertySignature:
			out[i] = &PropertySignature{Loc: m.Loc, Readonly: m.Readonly, Key: m.Key, Optional: m.Optional, Type: Transform(m.Type, fn)}
		default:
			out[i] = m
		}
	}
	return out
}

func transformSignature(sig Signature, fn func(Type) (Type, bool)) Signature {
	return Signature{
		TypeParams: sig.TypeParams,
		Params:     transformParams(sig.Params, fn),
		Ret:        Transform(sig.Ret, fn),
	}
}

func transformParams(params []*FnParam, fn func(Type) (Type, bool)) []*FnParam {
	if params == nil {
		return nil
	}
	out := make([]*FnParam, len(params))
	for i, p := range params {
		out[i] = &FnParam{Loc: p.Loc, Name: p.Name, Optional: p.Optional, Rest: p.Rest, Type: Transform(p.Type, fn)}
	}
	return out
}

func transformRefExprs(refs []*TypeRefExpr, fn func(Type) (Type, bool)) []*TypeRefExpr {
	if refs == nil {
		return nil
	}
	out := make([]*TypeRefExpr, len(refs))
	for i, r := range refs {
		args := make([]Type, len(r.TypeArgs))
		for j, a := range r.TypeArgs {
			args[j] = Transform(a, fn)
		}
		if r.TypeArgs == nil {
			args = nil
		}
		out[i] = &TypeRefExpr{Loc: r.Loc, Name: r.Name, TypeArgs: args}
	}
	return out
}

// Walk visits t and its descendants in pre-order until fn returns false.
// It reports whether the walk ran to completion.
func Walk(t Type, fn func(Type) bool) bool {
	completed := true
	Transform(t, func(x Type) (Type, bool) {
		if !completed {
			return x, true
		}
		if !fn(x) {
			completed = false
			return x, true
		}
		return nil, false
	})
	return completed
}

// ContainsInfer reports whether t syntactically contains an `infer` placeholder.
func ContainsInfer(t Type) bool {
	return !Walk(t, func(x Type) bool {
		_, isInfer := x.(*Infer)
		return !isInfer
	})
}
