package types

import (
	"strings"

	"tslower/pkg/source"
)

// --- Type-level operators ---

// OperatorKind is the operator of an *Operator type.
type OperatorKind uint8

const (
	OpKeyOf OperatorKind = iota
	OpUnique
	OpReadonly
)

func (k OperatorKind) String() string {
	switch k {
	case OpKeyOf:
		return "keyof"
	case OpUnique:
		return "unique"
	case OpReadonly:
		return "readonly"
	default:
		return "operator"
	}
}

// Operator represents `keyof T`, `unique symbol` and `readonly T[]`.
type Operator struct {
	Loc  source.Span
	Op   OperatorKind
	Type Type
}

func (o *Operator) String() string    { return o.Op.String() + " " + operandString(o.Type) }
func (o *Operator) Span() source.Span { return o.Loc }
func (o *Operator) typeNode()         {}
func (o *Operator) Equals(other Type) bool {
	x, ok := other.(*Operator)
	return ok && x.Op == o.Op && typesEqual(o.Type, x.Type)
}

// MappedModifier is the state of a `readonly` or `?` modifier on a mapped type.
type MappedModifier uint8

const (
	ModNone    MappedModifier = iota
	ModPresent                // `readonly` / `?`
	ModPlus                   // `+readonly` / `+?`
	ModMinus                  // `-readonly` / `-?`
)

// Prefix renders the modifier in front of a keyword like "readonly ".
func (m MappedModifier) Prefix(word string) string {
	switch m {
	case ModPresent:
		return word
	case ModPlus:
		return "+" + word
	case ModMinus:
		return "-" + word
	}
	return ""
}

// Suffix renders the modifier as a trailing token like "?".
func (m MappedModifier) Suffix(token string) string {
	switch m {
	case ModPresent:
		return token
	case ModPlus:
		return "+" + token
	case ModMinus:
		return "-" + token
	}
	return ""
}

// Mapped represents `{ readonly [K in C as N]?: T }`. The key parameter's
// Constraint holds the `in` clause.
type Mapped struct {
	Loc      source.Span
	Readonly MappedModifier
	Optional MappedModifier
	Param    *Param
	NameType Type // nil if absent
	Type     Type // nil if absent
}

func (m *Mapped) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	b.WriteString(m.Readonly.Prefix("readonly "))
	b.WriteString("[")
	b.WriteString(m.Param.Name)
	if m.Param.Constraint != nil {
		b.WriteString(" in ")
		b.WriteString(m.Param.Constraint.String())
	}
	if m.NameType != nil {
		b.WriteString(" as ")
		b.WriteString(m.NameType.String())
	}
	b.WriteString("]")
	b.WriteString(m.Optional.Suffix("?"))
	if m.Type != nil {
		b.WriteString(": ")
		b.WriteString(m.Type.String())
	}
	b.WriteString(" }")
	return b.String()
}
func (m *Mapped) Span() source.Span { return m.Loc }
func (m *Mapped) typeNode()         {}
func (m *Mapped) Equals(other Type) bool {
	o, ok := other.(*Mapped)
	return ok && o.Readonly == m.Readonly && o.Optional == m.Optional &&
		m.Param.Equals(o.Param) && typesEqual(m.Param.Constraint, o.Param.Constraint) &&
		typesEqual(m.NameType, o.NameType) && typesEqual(m.Type, o.Type)
}

// Conditional represents `C extends E ? T : F`.
type Conditional struct {
	Loc     source.Span
	Check   Type
	Extends Type
	True    Type
	False   Type
}

func (c *Conditional) String() string {
	return operandString(c.Check) + " extends " + operandString(c.Extends) + " ? " + typeString(c.True) + " : " + typeString(c.False)
}
func (c *Conditional) Span() source.Span { return c.Loc }
func (c *Conditional) typeNode()         {}
func (c *Conditional) Equals(other Type) bool {
	o, ok := other.(*Conditional)
	return ok && typesEqual(c.Check, o.Check) && typesEqual(c.Extends, o.Extends) &&
		typesEqual(c.True, o.True) && typesEqual(c.False, o.False)
}

// IndexedAccess represents `T[K]`.
type IndexedAccess struct {
	Loc      source.Span
	Readonly bool
	Object   Type
	Index    Type
}

func (ia *IndexedAccess) String() string {
	return operandString(ia.Object) + "[" + typeString(ia.Index) + "]"
}
func (ia *IndexedAccess) Span() source.Span { return ia.Loc }
func (ia *IndexedAccess) typeNode()         {}
func (ia *IndexedAccess) Equals(other Type) bool {
	o, ok := other.(*IndexedAccess)
	return ok && typesEqual(ia.Object, o.Object) && typesEqual(ia.Index, o.Index)
}

// Query represents `typeof x.y` or `typeof import("m")`.
type Query struct {
	Loc      source.Span
	Expr     string  // dotted entity name; empty for import queries
	Import   *Import // set for import queries
	TypeArgs []Type
}

func (q *Query) String() string {
	target := q.Expr
	if q.Import != nil {
		target = q.Import.String()
	}
	return "typeof " + target + typeArgsString(q.TypeArgs)
}
func (q *Query) Span() source.Span { return q.Loc }
func (q *Query) typeNode()         {}
func (q *Query) Equals(other Type) bool {
	o, ok := other.(*Query)
	if !ok || o.Expr != q.Expr || (o.Import == nil) != (q.Import == nil) {
		return false
	}
	if q.Import != nil && !q.Import.Equals(o.Import) {
		return false
	}
	return typeListsEqual(q.TypeArgs, o.TypeArgs)
}

// Predicate represents `x is T`, `asserts x` and `asserts x is T`.
type Predicate struct {
	Loc     source.Span
	Asserts bool
	Param   string // "this" for `this is T`
	Type    Type   // nil for a bare `asserts x`
}

func (p *Predicate) String() string {
	out := p.Param
	if p.Asserts {
		out = "asserts " + out
	}
	if p.Type != nil {
		out += " is " + p.Type.String()
	}
	return out
}
func (p *Predicate) Span() source.Span { return p.Loc }
func (p *Predicate) typeNode()         {}
func (p *Predicate) Equals(other Type) bool {
	o, ok := other.(*Predicate)
	return ok && o.Asserts == p.Asserts && o.Param == p.Param && typesEqual(p.Type, o.Type)
}

// Import represents `import("mod").A.B<T>`.
type Import struct {
	Loc       source.Span
	Arg       string
	Qualifier string // dotted, empty when absent
	TypeArgs  []Type
}

func (i *Import) String() string {
	out := `import("` + i.Arg + `")`
	if i.Qualifier != "" {
		out += "." + i.Qualifier
	}
	return out + typeArgsString(i.TypeArgs)
}
func (i *Import) Span() source.Span { return i.Loc }
func (i *Import) typeNode()         {}
func (i *Import) Equals(other Type) bool {
	o, ok := other.(*Import)
	return ok && o.Arg == i.Arg && o.Qualifier == i.Qualifier && typeListsEqual(i.TypeArgs, o.TypeArgs)
}
