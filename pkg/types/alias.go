package types

import (
	"strings"

	"tslower/pkg/source"
)

// --- Named Declarations ---

// Alias is a lowered `type Name<T> = Type`.
type Alias struct {
	Loc        source.Span
	Name       string
	TypeParams *TypeParamDecl
	Type       Type
	NoExpand   bool
}

func (a *Alias) String() string {
	return "type " + a.Name + a.TypeParams.String() + " = " + typeString(a.Type)
}
func (a *Alias) Span() source.Span { return a.Loc }
func (a *Alias) typeNode()         {}
func (a *Alias) Equals(other Type) bool {
	o, ok := other.(*Alias)
	return ok && (o == a || (o.Name == a.Name && o.TypeParams.Len() == a.TypeParams.Len() && typesEqual(a.Type, o.Type)))
}

// TypeRefExpr is one lowered entry of an interface `extends` list.
type TypeRefExpr struct {
	Loc      source.Span
	Name     string
	TypeArgs []Type
}

func (r *TypeRefExpr) String() string { return r.Name + typeArgsString(r.TypeArgs) }

// Ref converts the entry into an unresolved reference.
func (r *TypeRefExpr) Ref() *Ref {
	return &Ref{Loc: r.Loc, Name: r.Name, TypeArgs: r.TypeArgs}
}

// Interface is a lowered interface declaration.
type Interface struct {
	Loc        source.Span
	Name       string
	TypeParams *TypeParamDecl
	Extends    []*TypeRefExpr
	Body       []TypeElement
	NoExpand   bool
}

func (i *Interface) String() string {
	var b strings.Builder
	b.WriteString("interface ")
	b.WriteString(i.Name)
	b.WriteString(i.TypeParams.String())
	if len(i.Extends) > 0 {
		b.WriteString(" extends ")
		for n, e := range i.Extends {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.String())
		}
	}
	b.WriteString(" ")
	b.WriteString(formatElements(i.Body))
	return b.String()
}
func (i *Interface) Span() source.Span { return i.Loc }
func (i *Interface) typeNode()         {}

// Equals compares declarations by name, arity and members. The extends list
// is compared by printed form so self-references cannot recurse.
func (i *Interface) Equals(other Type) bool {
	o, ok := other.(*Interface)
	if !ok {
		return false
	}
	if o == i {
		return true
	}
	if o.Name != i.Name || o.TypeParams.Len() != i.TypeParams.Len() || len(o.Extends) != len(i.Extends) {
		return false
	}
	for n, e := range i.Extends {
		if e.String() != o.Extends[n].String() {
			return false
		}
	}
	return elementsEqual(i.Body, o.Body)
}

// Ref is an opaque named reference, left for a later resolution pass.
type Ref struct {
	Loc      source.Span
	Name     string
	TypeArgs []Type // nil when no type arguments were written
	NoExpand bool
}

func (r *Ref) String() string    { return r.Name + typeArgsString(r.TypeArgs) }
func (r *Ref) Span() source.Span { return r.Loc }
func (r *Ref) typeNode()         {}
func (r *Ref) Equals(other Type) bool {
	o, ok := other.(*Ref)
	return ok && o.Name == r.Name && typeListsEqual(r.TypeArgs, o.TypeArgs)
}
