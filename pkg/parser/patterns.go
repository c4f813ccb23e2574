package parser

import (
	"strings"

	"tslower/pkg/source"
)

// Pattern is a binding pattern: a function parameter, a variable declarator
// name or a nested destructuring target. Its annotation is mutable so
// implicit-any defaulting can rewrite the tree in place.
type Pattern interface {
	Node
	patternNode()
	TypeAnnotation() *TypeAnnotation
	SetTypeAnnotation(*TypeAnnotation)
	// TakeTypeAnnotation removes and returns the annotation.
	TakeTypeAnnotation() *TypeAnnotation
}

// Annotated is embedded by patterns that carry a `: T` annotation.
type Annotated struct {
	TypeAnn *TypeAnnotation
}

func (a *Annotated) TypeAnnotation() *TypeAnnotation      { return a.TypeAnn }
func (a *Annotated) SetTypeAnnotation(ann *TypeAnnotation) { a.TypeAnn = ann }
func (a *Annotated) TakeTypeAnnotation() *TypeAnnotation {
	ann := a.TypeAnn
	a.TypeAnn = nil
	return ann
}

func (a *Annotated) suffix() string {
	if a.TypeAnn == nil || a.TypeAnn.Type == nil {
		return ""
	}
	return ": " + a.TypeAnn.String()
}

// IdentPattern binds a single name: `x`, `x?: T`.
type IdentPattern struct {
	Annotated
	Loc      source.Span
	Name     *Identifier
	Optional bool
}

// NewIdentPattern returns an unannotated identifier binding.
func NewIdentPattern(name *Identifier, ann *TypeAnnotation) *IdentPattern {
	return &IdentPattern{Annotated: Annotated{TypeAnn: ann}, Loc: name.Loc, Name: name}
}

func (p *IdentPattern) Span() source.Span { return p.Loc }
func (p *IdentPattern) String() string {
	out := p.Name.Name
	if p.Optional {
		out += "?"
	}
	return out + p.suffix()
}
func (p *IdentPattern) patternNode() {}

// ArrayPattern is `[a, , [b, c]]`. Holes are nil elements.
type ArrayPattern struct {
	Annotated
	Loc      source.Span
	Elems    []Pattern
	Optional bool
}

func (p *ArrayPattern) Span() source.Span { return p.Loc }
func (p *ArrayPattern) String() string    { return bindingText(p) + p.suffix() }
func (p *ArrayPattern) patternNode()      {}

// ObjectPatternProp is one property of an object destructuring pattern.
type ObjectPatternProp interface {
	Node
	objectPatternProp()
}

// KeyValuePatternProp is `key: pattern`.
type KeyValuePatternProp struct {
	Loc      source.Span
	Key      Expression
	Computed bool
	Value    Pattern
}

func (p *KeyValuePatternProp) Span() source.Span { return p.Loc }
func (p *KeyValuePatternProp) String() string {
	return formatKey(p.Key, p.Computed) + ": " + p.Value.String()
}
func (p *KeyValuePatternProp) objectPatternProp() {}

// AssignPatternProp is the shorthand `key` or `key = default`.
type AssignPatternProp struct {
	Loc   source.Span
	Key   *Identifier
	Value Expression // default value, nil if absent
}

func (p *AssignPatternProp) Span() source.Span { return p.Loc }
func (p *AssignPatternProp) String() string {
	if p.Value != nil {
		return p.Key.Name + " = " + p.Value.String()
	}
	return p.Key.Name
}
func (p *AssignPatternProp) objectPatternProp() {}

// RestPatternProp is the trailing `...rest` of an object pattern.
type RestPatternProp struct {
	Loc source.Span
	Arg Pattern
}

func (p *RestPatternProp) Span() source.Span  { return p.Loc }
func (p *RestPatternProp) String() string     { return "..." + p.Arg.String() }
func (p *RestPatternProp) objectPatternProp() {}

// ObjectPattern is `{ a, b: [c], ...rest }`.
type ObjectPattern struct {
	Annotated
	Loc      source.Span
	Props    []ObjectPatternProp
	Optional bool
}

func (p *ObjectPattern) Span() source.Span { return p.Loc }
func (p *ObjectPattern) String() string    { return bindingText(p) + p.suffix() }
func (p *ObjectPattern) patternNode()      {}

// RestPattern is `...args` in a parameter list or array pattern.
type RestPattern struct {
	Annotated
	Loc source.Span
	Arg Pattern
}

func (p *RestPattern) Span() source.Span { return p.Loc }
func (p *RestPattern) String() string    { return "..." + p.Arg.String() + p.suffix() }
func (p *RestPattern) patternNode()      {}

// AssignPattern is `pattern = default`.
type AssignPattern struct {
	Annotated
	Loc   source.Span
	Left  Pattern
	Right Expression
}

func (p *AssignPattern) Span() source.Span { return p.Loc }
func (p *AssignPattern) String() string {
	return p.Left.String() + p.suffix() + " = " + p.Right.String()
}
func (p *AssignPattern) patternNode() {}

// BindingText renders a pattern without any type annotations, the way a
// parameter is named in a printed signature.
func BindingText(p Pattern) string {
	return bindingText(p)
}

func bindingText(p Pattern) string {
	switch p := p.(type) {
	case nil:
		return ""
	case *IdentPattern:
		return p.Name.Name
	case *ArrayPattern:
		parts := make([]string, len(p.Elems))
		for i, e := range p.Elems {
			parts[i] = bindingText(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ObjectPattern:
		parts := make([]string, len(p.Props))
		for i, prop := range p.Props {
			switch prop := prop.(type) {
			case *KeyValuePatternProp:
				parts[i] = formatKey(prop.Key, prop.Computed) + ": " + bindingText(prop.Value)
			case *AssignPatternProp:
				parts[i] = prop.Key.Name
			case *RestPatternProp:
				parts[i] = "..." + bindingText(prop.Arg)
			}
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *RestPattern:
		return "..." + bindingText(p.Arg)
	case *AssignPattern:
		return bindingText(p.Left)
	}
	return p.String()
}

// IsOptional reports whether a parameter pattern was written with `?` or
// carries a default value.
func IsOptional(p Pattern) bool {
	switch p := p.(type) {
	case *IdentPattern:
		return p.Optional
	case *ArrayPattern:
		return p.Optional
	case *ObjectPattern:
		return p.Optional
	case *AssignPattern:
		return true
	}
	return false
}
