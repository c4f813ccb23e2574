package types

import (
	"strconv"

	"tslower/pkg/source"
)

// --- Keyword Types ---

// KeywordKind identifies one of the predefined TypeScript types.
type KeywordKind uint8

const (
	KwAny KeywordKind = iota
	KwUnknown
	KwNumber
	KwString
	KwBoolean
	KwBigInt
	KwSymbol
	KwObject
	KwVoid
	KwUndefined
	KwNull
	KwNever
	KwIntrinsic
)

var keywordNames = [...]string{
	KwAny:       "any",
	KwUnknown:   "unknown",
	KwNumber:    "number",
	KwString:    "string",
	KwBoolean:   "boolean",
	KwBigInt:    "bigint",
	KwSymbol:    "symbol",
	KwObject:    "object",
	KwVoid:      "void",
	KwUndefined: "undefined",
	KwNull:      "null",
	KwNever:     "never",
	KwIntrinsic: "intrinsic",
}

func (k KeywordKind) String() string {
	if int(k) < len(keywordNames) {
		return keywordNames[k]
	}
	return "keyword(" + strconv.Itoa(int(k)) + ")"
}

// ParseKeyword maps a predefined type name to its kind.
func ParseKeyword(name string) (KeywordKind, bool) {
	for i, n := range keywordNames {
		if n == name {
			return KeywordKind(i), true
		}
	}
	return 0, false
}

// Keyword represents a predefined type such as `number` or `any`.
type Keyword struct {
	Loc  source.Span
	Kind KeywordKind
	// Implicit marks an `any` synthesized for a missing annotation.
	// Later passes may replace an implicit any, never an explicit one.
	Implicit bool
}

func (k *Keyword) String() string    { return k.Kind.String() }
func (k *Keyword) Span() source.Span { return k.Loc }
func (k *Keyword) typeNode()         {}
func (k *Keyword) Equals(other Type) bool {
	o, ok := other.(*Keyword)
	return ok && o.Kind == k.Kind
}

// Pre-defined span-less instances, shared; never mutate them.
var (
	Any       = &Keyword{Kind: KwAny}
	Unknown   = &Keyword{Kind: KwUnknown}
	Number    = &Keyword{Kind: KwNumber}
	String    = &Keyword{Kind: KwString}
	Boolean   = &Keyword{Kind: KwBoolean}
	BigInt    = &Keyword{Kind: KwBigInt}
	Symbol    = &Keyword{Kind: KwSymbol}
	Object    = &Keyword{Kind: KwObject}
	Void      = &Keyword{Kind: KwVoid}
	Undefined = &Keyword{Kind: KwUndefined}
	Null      = &Keyword{Kind: KwNull}
	Never     = &Keyword{Kind: KwNever}
)

// NewKeyword returns a keyword type located at span.
func NewKeyword(kind KeywordKind, span source.Span) *Keyword {
	return &Keyword{Loc: span, Kind: kind}
}

// ImplicitAny returns a synthetic `any` for a missing annotation at span.
func ImplicitAny(span source.Span) *Keyword {
	return &Keyword{Loc: span, Kind: KwAny, Implicit: true}
}

// IsAny reports whether t is the any keyword.
func IsAny(t Type) bool {
	k, ok := t.(*Keyword)
	return ok && k.Kind == KwAny
}

// IsImplicitAny reports whether t is an any synthesized for a missing annotation.
func IsImplicitAny(t Type) bool {
	k, ok := t.(*Keyword)
	return ok && k.Kind == KwAny && k.Implicit
}

// --- Literal Types ---

// LiteralKind is the kind of value a literal type holds.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
	LitBigInt
	LitTemplate
)

// FormatLiteral renders a literal value in TypeScript syntax.
func FormatLiteral(kind LiteralKind, value string) string {
	switch kind {
	case LitString:
		return strconv.Quote(value)
	case LitBigInt:
		return value + "n"
	case LitTemplate:
		return "`" + value + "`"
	default:
		return value
	}
}

// Literal represents a specific literal value used as a type.
type Literal struct {
	Loc   source.Span
	Kind  LiteralKind
	Value string // Cooked value: string contents, canonical number text, "true"/"false"
	// Fixed prevents generalization to the base keyword.
	Fixed bool
}

func (l *Literal) String() string    { return FormatLiteral(l.Kind, l.Value) }
func (l *Literal) Span() source.Span { return l.Loc }
func (l *Literal) typeNode()         {}
func (l *Literal) Equals(other Type) bool {
	o, ok := other.(*Literal)
	if !ok || o.Kind != l.Kind {
		return false
	}
	if l.Kind == LitNumber {
		a, errA := strconv.ParseFloat(l.Value, 64)
		b, errB := strconv.ParseFloat(o.Value, 64)
		if errA == nil && errB == nil {
			return a == b
		}
	}
	return o.Value == l.Value
}

// Base returns the keyword a literal generalizes to.
func (l *Literal) Base() *Keyword {
	switch l.Kind {
	case LitNumber:
		return NewKeyword(KwNumber, l.Loc)
	case LitBool:
		return NewKeyword(KwBoolean, l.Loc)
	case LitBigInt:
		return NewKeyword(KwBigInt, l.Loc)
	default:
		return NewKeyword(KwString, l.Loc)
	}
}

// --- This Type ---

// This is the polymorphic `this` type.
type This struct {
	Loc source.Span
}

func (t *This) String() string    { return "this" }
func (t *This) Span() source.Span { return t.Loc }
func (t *This) typeNode()         {}
func (t *This) Equals(other Type) bool {
	_, ok := other.(*This)
	return ok
}
