package types

import (
	"strings"

	"tslower/pkg/source"
)

// --- Function/Object Signatures ---

// FnParam is one lowered parameter of a signature.
type FnParam struct {
	Loc      source.Span
	Name     string // binding text, e.g. "x" or "[a, b]"
	Optional bool
	Rest     bool
	Type     Type // nil only for untyped object-literal members, never for lowered params
}

func (p *FnParam) String() string {
	var b strings.Builder
	if p.Rest {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString("?")
	}
	if p.Type != nil {
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	return b.String()
}

func (p *FnParam) Equals(other *FnParam) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Optional == other.Optional && p.Rest == other.Rest && typesEqual(p.Type, other.Type)
}

// Signature is the shape shared by function types, constructor types and
// call/construct/method members.
type Signature struct {
	TypeParams *TypeParamDecl // nil when not generic
	Params     []*FnParam
	Ret        Type // nil when the return type was omitted
}

func (sig *Signature) paramsString() string {
	parts := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		parts[i] = p.String()
	}
	return sig.TypeParams.String() + "(" + strings.Join(parts, ", ") + ")"
}

func (sig *Signature) Equals(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	if sig.TypeParams.Len() != other.TypeParams.Len() || len(sig.Params) != len(other.Params) {
		return false
	}
	for i, p := range sig.Params {
		if !p.Equals(other.Params[i]) {
			return false
		}
	}
	return typesEqual(sig.Ret, other.Ret)
}

// RequiredParams counts the leading parameters that are neither optional nor rest.
func (sig *Signature) RequiredParams() int {
	n := 0
	for _, p := range sig.Params {
		if p.Optional || p.Rest {
			break
		}
		n++
	}
	return n
}

// Function represents `<T>(a: A) => R`.
type Function struct {
	Loc source.Span
	Signature
}

func (f *Function) String() string    { return f.paramsString() + " => " + returnString(f.Ret) }
func (f *Function) Span() source.Span { return f.Loc }
func (f *Function) typeNode()         {}
func (f *Function) Equals(other Type) bool {
	o, ok := other.(*Function)
	return ok && f.Signature.Equals(&o.Signature)
}

// Constructor represents `new (a: A) => R`.
type Constructor struct {
	Loc      source.Span
	Abstract bool
	Signature
}

func (c *Constructor) String() string {
	prefix := "new "
	if c.Abstract {
		prefix = "abstract new "
	}
	return prefix + c.paramsString() + " => " + returnString(c.Ret)
}
func (c *Constructor) Span() source.Span { return c.Loc }
func (c *Constructor) typeNode()         {}
func (c *Constructor) Equals(other Type) bool {
	o, ok := other.(*Constructor)
	return ok && o.Abstract == c.Abstract && c.Signature.Equals(&o.Signature)
}

// --- Object Types ---

// Key is a member name. Computed keys keep the key expression's source text.
type Key struct {
	Name     string
	Computed bool
}

func (k Key) String() string {
	if k.Computed {
		return "[" + k.Name + "]"
	}
	return k.Name
}

// TypeLit is an object type literal `{ a: A; b(): B }`.
type TypeLit struct {
	Loc     source.Span
	Members []TypeElement
}

func (tl *TypeLit) String() string    { return formatElements(tl.Members) }
func (tl *TypeLit) Span() source.Span { return tl.Loc }
func (tl *TypeLit) typeNode()         {}
func (tl *TypeLit) Equals(other Type) bool {
	o, ok := other.(*TypeLit)
	return ok && elementsEqual(tl.Members, o.Members)
}

// CallSignature is `<T>(a: A): R` as a member.
type CallSignature struct {
	Loc source.Span
	Signature
}

func (m *CallSignature) String() string {
	return m.paramsString() + retSuffix(m.Ret)
}
func (m *CallSignature) Span() source.Span { return m.Loc }
func (m *CallSignature) typeElement()      {}
func (m *CallSignature) Equals(other TypeElement) bool {
	o, ok := other.(*CallSignature)
	return ok && m.Signature.Equals(&o.Signature)
}

// ConstructSignature is `new <T>(a: A): R` as a member.
type ConstructSignature struct {
	Loc source.Span
	Signature
}

func (m *ConstructSignature) String() string {
	return "new " + m.paramsString() + retSuffix(m.Ret)
}
func (m *ConstructSignature) Span() source.Span { return m.Loc }
func (m *ConstructSignature) typeElement()      {}
func (m *ConstructSignature) Equals(other TypeElement) bool {
	o, ok := other.(*ConstructSignature)
	return ok && m.Signature.Equals(&o.Signature)
}

// IndexSignature is `[key: K]: V`.
type IndexSignature struct {
	Loc      source.Span
	Readonly bool
	Params   []*FnParam
	Type     Type // nil when omitted
}

func (m *IndexSignature) String() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.String()
	}
	out := "[" + strings.Join(parts, ", ") + "]" + retSuffix(m.Type)
	if m.Readonly {
		return "readonly " + out
	}
	return out
}
func (m *IndexSignature) Span() source.Span { return m.Loc }
func (m *IndexSignature) typeElement()      {}
func (m *IndexSignature) Equals(other TypeElement) bool {
	o, ok := other.(*IndexSignature)
	if !ok || o.Readonly != m.Readonly || len(o.Params) != len(m.Params) {
		return false
	}
	for i, p := range m.Params {
		if !p.Equals(o.Params[i]) {
			return false
		}
	}
	return typesEqual(m.Type, o.Type)
}

// KeyType returns the declared key type, or nil.
func (m *IndexSignature) KeyType() Type {
	if len(m.Params) == 0 {
		return nil
	}
	return m.Params[0].Type
}

// MethodSignature is `name?<T>(a: A): R` as a member.
type MethodSignature struct {
	Loc      source.Span
	Readonly bool
	Key      Key
	Optional bool
	Signature
}

func (m *MethodSignature) String() string {
	out := m.Key.String()
	if m.Optional {
		out += "?"
	}
	return out + m.paramsString() + retSuffix(m.Ret)
}
func (m *MethodSignature) Span() source.Span { return m.Loc }
func (m *MethodSignature) typeElement()      {}
func (m *MethodSignature) Equals(other TypeElement) bool {
	o, ok := other.(*MethodSignature)
	return ok && o.Key == m.Key && o.Optional == m.Optional && m.Signature.Equals(&o.Signature)
}

// PropertySignature is `readonly name?: T` as a member. A nil Type marks a
// member left untyped for a later inference pass.
type PropertySignature struct {
	Loc      source.Span
	Readonly bool
	Key      Key
	Optional bool
	Type     Type
}

func (m *PropertySignature) String() string {
	out := m.Key.String()
	if m.Readonly {
		out = "readonly " + out
	}
	if m.Optional {
		out += "?"
	}
	return out + retSuffix(m.Type)
}
func (m *PropertySignature) Span() source.Span { return m.Loc }
func (m *PropertySignature) typeElement()      {}
func (m *PropertySignature) Equals(other TypeElement) bool {
	o, ok := other.(*PropertySignature)
	return ok && o.Key == m.Key && o.Optional == m.Optional && o.Readonly == m.Readonly && typesEqual(m.Type, o.Type)
}

// FindProperty returns the first property or method member named name.
func FindProperty(members []TypeElement, name string) (TypeElement, bool) {
	for _, m := range members {
		switch m := m.(type) {
		case *PropertySignature:
			if !m.Key.Computed && m.Key.Name == name {
				return m, true
			}
		case *MethodSignature:
			if !m.Key.Computed && m.Key.Name == name {
				return m, true
			}
		}
	}
	return nil, false
}

// returnString prints an omitted return type the way an unannotated
// signature reads in a declaration file.
func returnString(t Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

func retSuffix(t Type) string {
	if t == nil {
		return ""
	}
	return ": " + t.String()
}

func formatElements(members []TypeElement) string {
	if len(members) == 0 {
		return "{}"
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func elementsEqual(a, b []TypeElement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
