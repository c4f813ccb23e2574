package parser

import (
	"bytes"
	"strings"

	"tslower/pkg/source"
	"tslower/pkg/types" // Keyword, literal, operator and modifier kinds are shared with the semantic layer
)

// --- Interfaces ---

// Node is the base interface for all syntax tree nodes.
type Node interface {
	Span() source.Span // Location of the node in the source file
	String() string    // Returns a string representation of the node (for debugging)
}

// Statement represents a top-level or block statement.
type Statement interface {
	Node
	statementNode() // Dummy method for distinguishing statement types
}

// Expression represents a value expression.
type Expression interface {
	Node
	expressionNode()
}

// TypeNode represents a syntactic type annotation.
type TypeNode interface {
	Node
	typeNode()
}

// TypeMember is one member of an interface body or type literal.
type TypeMember interface {
	Node
	typeMember()
}

// --- Program Node ---

// Program is the root node of the syntax tree.
type Program struct {
	Loc        source.Span
	Source     *source.SourceFile
	Statements []Statement
}

func (p *Program) Span() source.Span { return p.Loc }
func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Names ---

// Identifier is a plain name, used both as an expression and as a declaration name.
type Identifier struct {
	Loc  source.Span
	Name string
}

func (i *Identifier) Span() source.Span { return i.Loc }
func (i *Identifier) String() string    { return i.Name }
func (i *Identifier) expressionNode()   {}

// EntityName is a possibly qualified name such as `A` or `ns.A.B`.
type EntityName struct {
	Loc   source.Span
	Parts []string
}

func (e *EntityName) Span() source.Span { return e.Loc }
func (e *EntityName) String() string    { return strings.Join(e.Parts, ".") }

// IsIdent reports whether the name is the single unqualified identifier name.
func (e *EntityName) IsIdent(name string) bool {
	return len(e.Parts) == 1 && e.Parts[0] == name
}

// Ident returns the identifier when the name is unqualified.
func (e *EntityName) Ident() (string, bool) {
	if len(e.Parts) != 1 {
		return "", false
	}
	return e.Parts[0], true
}

// --- Type annotations ---

// TypeAnnotation is the `: T` part of a pattern, member or signature.
type TypeAnnotation struct {
	Loc  source.Span
	Type TypeNode
	// Implicit marks annotations synthesized by implicit-any defaulting
	// rather than written by the user.
	Implicit bool
}

func (a *TypeAnnotation) Span() source.Span { return a.Loc }
func (a *TypeAnnotation) String() string {
	if a == nil || a.Type == nil {
		return ""
	}
	return a.Type.String()
}

// TypeParamNode is one entry of a `<...>` type parameter list.
type TypeParamNode struct {
	Loc        source.Span
	Name       *Identifier
	Constraint TypeNode // nil if absent
	Default    TypeNode // nil if absent
	Const      bool
}

func (p *TypeParamNode) Span() source.Span { return p.Loc }
func (p *TypeParamNode) String() string {
	var out bytes.Buffer
	if p.Const {
		out.WriteString("const ")
	}
	out.WriteString(p.Name.String())
	if p.Constraint != nil {
		out.WriteString(" extends ")
		out.WriteString(p.Constraint.String())
	}
	if p.Default != nil {
		out.WriteString(" = ")
		out.WriteString(p.Default.String())
	}
	return out.String()
}

// TypeParamDeclNode is a `<...>` type parameter list.
type TypeParamDeclNode struct {
	Loc    source.Span
	Params []*TypeParamNode
}

func (d *TypeParamDeclNode) Span() source.Span { return d.Loc }
func (d *TypeParamDeclNode) String() string {
	if d == nil {
		return ""
	}
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// ----------------------------------------------------------------------------
// Type Nodes
// ----------------------------------------------------------------------------

// KeywordTypeNode is a predefined type such as `number` or `any`.
type KeywordTypeNode struct {
	Loc  source.Span
	Kind types.KeywordKind
}

func (n *KeywordTypeNode) Span() source.Span { return n.Loc }
func (n *KeywordTypeNode) String() string    { return n.Kind.String() }
func (n *KeywordTypeNode) typeNode()         {}

// LiteralTypeNode is a literal used in type position (`"a"`, `1`, `true`, `10n`).
type LiteralTypeNode struct {
	Loc   source.Span
	Kind  types.LiteralKind
	Value string // Cooked value: string contents, number text, "true"/"false"
}

func (n *LiteralTypeNode) Span() source.Span { return n.Loc }
func (n *LiteralTypeNode) String() string    { return types.FormatLiteral(n.Kind, n.Value) }
func (n *LiteralTypeNode) typeNode()         {}

// ThisTypeNode is `this` in type position.
type ThisTypeNode struct {
	Loc source.Span
}

func (n *ThisTypeNode) Span() source.Span { return n.Loc }
func (n *ThisTypeNode) String() string    { return "this" }
func (n *ThisTypeNode) typeNode()         {}

// ArrayTypeNode represents an array type syntax (e.g., number[]).
type ArrayTypeNode struct {
	Loc  source.Span
	Elem TypeNode
}

func (n *ArrayTypeNode) Span() source.Span { return n.Loc }
func (n *ArrayTypeNode) String() string    { return n.Elem.String() + "[]" }
func (n *ArrayTypeNode) typeNode()         {}

// TupleElementNode is one element of a tuple type, optionally labelled.
type TupleElementNode struct {
	Loc   source.Span
	Label *Identifier // nil for unlabelled elements
	Type  TypeNode
}

func (n *TupleElementNode) Span() source.Span { return n.Loc }
func (n *TupleElementNode) String() string {
	if n.Label != nil {
		return n.Label.Name + ": " + n.Type.String()
	}
	return n.Type.String()
}

// TupleTypeNode represents `[A, B?, ...C[]]`.
type TupleTypeNode struct {
	Loc   source.Span
	Elems []*TupleElementNode
}

func (n *TupleTypeNode) Span() source.Span { return n.Loc }
func (n *TupleTypeNode) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (n *TupleTypeNode) typeNode() {}

// UnionTypeNode represents `A | B | C`.
type UnionTypeNode struct {
	Loc   source.Span
	Types []TypeNode
}

func (n *UnionTypeNode) Span() source.Span { return n.Loc }
func (n *UnionTypeNode) String() string    { return joinTypeNodes(n.Types, " | ") }
func (n *UnionTypeNode) typeNode()         {}

// IntersectionTypeNode represents `A & B`.
type IntersectionTypeNode struct {
	Loc   source.Span
	Types []TypeNode
}

func (n *IntersectionTypeNode) Span() source.Span { return n.Loc }
func (n *IntersectionTypeNode) String() string    { return joinTypeNodes(n.Types, " & ") }
func (n *IntersectionTypeNode) typeNode()         {}

// FunctionTypeNode represents a type like `<T>(a: T, b: string) => boolean`.
type FunctionTypeNode struct {
	Loc        source.Span
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
}

func (n *FunctionTypeNode) Span() source.Span { return n.Loc }
func (n *FunctionTypeNode) String() string {
	return n.TypeParams.String() + "(" + joinPatterns(n.Params) + ") => " + n.ReturnType.String()
}
func (n *FunctionTypeNode) typeNode() {}

// ConstructorTypeNode represents `new (a: A) => T`.
type ConstructorTypeNode struct {
	Loc        source.Span
	Abstract   bool
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
}

func (n *ConstructorTypeNode) Span() source.Span { return n.Loc }
func (n *ConstructorTypeNode) String() string {
	prefix := "new "
	if n.Abstract {
		prefix = "abstract new "
	}
	return prefix + n.TypeParams.String() + "(" + joinPatterns(n.Params) + ") => " + n.ReturnType.String()
}
func (n *ConstructorTypeNode) typeNode() {}

// TypeLiteralNode represents an object type literal (e.g., { name: string; age(): number }).
type TypeLiteralNode struct {
	Loc     source.Span
	Members []TypeMember
}

func (n *TypeLiteralNode) Span() source.Span { return n.Loc }
func (n *TypeLiteralNode) String() string    { return formatMembers(n.Members) }
func (n *TypeLiteralNode) typeNode()         {}

// ConditionalTypeNode represents `C extends E ? T : F`.
type ConditionalTypeNode struct {
	Loc     source.Span
	Check   TypeNode
	Extends TypeNode
	True    TypeNode
	False   TypeNode
}

func (n *ConditionalTypeNode) Span() source.Span { return n.Loc }
func (n *ConditionalTypeNode) String() string {
	return n.Check.String() + " extends " + n.Extends.String() + " ? " + n.True.String() + " : " + n.False.String()
}
func (n *ConditionalTypeNode) typeNode() {}

// MappedTypeNode represents `{ readonly [K in C as N]?: T }`.
type MappedTypeNode struct {
	Loc       source.Span
	Readonly  types.MappedModifier
	Optional  types.MappedModifier
	TypeParam *TypeParamNode // Constraint holds the `in` clause
	NameType  TypeNode       // `as` clause, nil if absent
	Type      TypeNode       // nil if absent
}

func (n *MappedTypeNode) Span() source.Span { return n.Loc }
func (n *MappedTypeNode) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	out.WriteString(n.Readonly.Prefix("readonly "))
	out.WriteString("[")
	out.WriteString(n.TypeParam.Name.String())
	if n.TypeParam.Constraint != nil {
		out.WriteString(" in ")
		out.WriteString(n.TypeParam.Constraint.String())
	}
	if n.NameType != nil {
		out.WriteString(" as ")
		out.WriteString(n.NameType.String())
	}
	out.WriteString("]")
	out.WriteString(n.Optional.Suffix("?"))
	if n.Type != nil {
		out.WriteString(": ")
		out.WriteString(n.Type.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (n *MappedTypeNode) typeNode() {}

// TypeOperatorNode represents `keyof T`, `unique symbol` and `readonly T[]`.
type TypeOperatorNode struct {
	Loc  source.Span
	Op   types.OperatorKind
	Type TypeNode
}

func (n *TypeOperatorNode) Span() source.Span { return n.Loc }
func (n *TypeOperatorNode) String() string    { return n.Op.String() + " " + n.Type.String() }
func (n *TypeOperatorNode) typeNode()         {}

// ParenthesizedTypeNode represents `(T)`.
type ParenthesizedTypeNode struct {
	Loc  source.Span
	Type TypeNode
}

func (n *ParenthesizedTypeNode) Span() source.Span { return n.Loc }
func (n *ParenthesizedTypeNode) String() string    { return "(" + n.Type.String() + ")" }
func (n *ParenthesizedTypeNode) typeNode()         {}

// TypeReferenceNode represents a named type with optional type arguments (e.g., Map<K, V>).
type TypeReferenceNode struct {
	Loc      source.Span
	Name     *EntityName
	TypeArgs []TypeNode // nil when no `<...>` was written
}

func (n *TypeReferenceNode) Span() source.Span { return n.Loc }
func (n *TypeReferenceNode) String() string {
	if n.TypeArgs == nil {
		return n.Name.String()
	}
	return n.Name.String() + "<" + joinTypeNodes(n.TypeArgs, ", ") + ">"
}
func (n *TypeReferenceNode) typeNode() {}

// TypeQueryNode represents `typeof x.y` or `typeof import("m")`.
type TypeQueryNode struct {
	Loc      source.Span
	Expr     *EntityName     // set for entity-name queries
	Import   *ImportTypeNode // set for import queries
	TypeArgs []TypeNode
}

func (n *TypeQueryNode) Span() source.Span { return n.Loc }
func (n *TypeQueryNode) String() string {
	target := ""
	if n.Import != nil {
		target = n.Import.String()
	} else if n.Expr != nil {
		target = n.Expr.String()
	}
	if n.TypeArgs != nil {
		target += "<" + joinTypeNodes(n.TypeArgs, ", ") + ">"
	}
	return "typeof " + target
}
func (n *TypeQueryNode) typeNode() {}

// OptionalTypeNode is `T?` inside a tuple.
type OptionalTypeNode struct {
	Loc  source.Span
	Type TypeNode
}

func (n *OptionalTypeNode) Span() source.Span { return n.Loc }
func (n *OptionalTypeNode) String() string    { return n.Type.String() + "?" }
func (n *OptionalTypeNode) typeNode()         {}

// RestTypeNode is `...T` inside a tuple.
type RestTypeNode struct {
	Loc  source.Span
	Type TypeNode
}

func (n *RestTypeNode) Span() source.Span { return n.Loc }
func (n *RestTypeNode) String() string    { return "..." + n.Type.String() }
func (n *RestTypeNode) typeNode()         {}

// InferTypeNode is `infer U` (optionally `infer U extends C`) in a conditional extends clause.
type InferTypeNode struct {
	Loc       source.Span
	TypeParam *TypeParamNode
}

func (n *InferTypeNode) Span() source.Span { return n.Loc }
func (n *InferTypeNode) String() string    { return "infer " + n.TypeParam.String() }
func (n *InferTypeNode) typeNode()         {}

// IndexedAccessTypeNode represents `T[K]`.
type IndexedAccessTypeNode struct {
	Loc      source.Span
	Readonly bool
	Object   TypeNode
	Index    TypeNode
}

func (n *IndexedAccessTypeNode) Span() source.Span { return n.Loc }
func (n *IndexedAccessTypeNode) String() string {
	return n.Object.String() + "[" + n.Index.String() + "]"
}
func (n *IndexedAccessTypeNode) typeNode() {}

// TypePredicateNode represents `x is T`, `asserts x` and `asserts x is T`.
type TypePredicateNode struct {
	Loc     source.Span
	Asserts bool
	Param   *Identifier // Name "this" for `this is T`
	Type    *TypeAnnotation
}

func (n *TypePredicateNode) Span() source.Span { return n.Loc }
func (n *TypePredicateNode) String() string {
	var out bytes.Buffer
	if n.Asserts {
		out.WriteString("asserts ")
	}
	out.WriteString(n.Param.String())
	if n.Type != nil {
		out.WriteString(" is ")
		out.WriteString(n.Type.String())
	}
	return out.String()
}
func (n *TypePredicateNode) typeNode() {}

// ImportTypeNode represents `import("mod").A.B<T>`.
type ImportTypeNode struct {
	Loc       source.Span
	Arg       string
	Qualifier *EntityName
	TypeArgs  []TypeNode
}

func (n *ImportTypeNode) Span() source.Span { return n.Loc }
func (n *ImportTypeNode) String() string {
	out := "import(\"" + n.Arg + "\")"
	if n.Qualifier != nil {
		out += "." + n.Qualifier.String()
	}
	if n.TypeArgs != nil {
		out += "<" + joinTypeNodes(n.TypeArgs, ", ") + ">"
	}
	return out
}
func (n *ImportTypeNode) typeNode() {}

// ----------------------------------------------------------------------------
// Type Members
// ----------------------------------------------------------------------------

// PropertySignature is `readonly key?: T` in an interface or type literal.
type PropertySignature struct {
	Loc      source.Span
	Readonly bool
	Key      Expression
	Computed bool
	Optional bool
	TypeAnn  *TypeAnnotation // nil when omitted
}

func (m *PropertySignature) Span() source.Span { return m.Loc }
func (m *PropertySignature) String() string {
	var out bytes.Buffer
	if m.Readonly {
		out.WriteString("readonly ")
	}
	out.WriteString(formatKey(m.Key, m.Computed))
	if m.Optional {
		out.WriteString("?")
	}
	if m.TypeAnn != nil {
		out.WriteString(": ")
		out.WriteString(m.TypeAnn.String())
	}
	return out.String()
}
func (m *PropertySignature) typeMember() {}

// MethodSignature is `key<T>(params): R` in an interface or type literal.
type MethodSignature struct {
	Loc        source.Span
	Readonly   bool
	Key        Expression
	Computed   bool
	Optional   bool
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
}

func (m *MethodSignature) Span() source.Span { return m.Loc }
func (m *MethodSignature) String() string {
	out := formatKey(m.Key, m.Computed)
	if m.Optional {
		out += "?"
	}
	return out + formatSignature(m.TypeParams, m.Params, m.ReturnType)
}
func (m *MethodSignature) typeMember() {}

// CallSignature is `<T>(params): R` in an interface or type literal.
type CallSignature struct {
	Loc        source.Span
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
}

func (m *CallSignature) Span() source.Span { return m.Loc }
func (m *CallSignature) String() string {
	return formatSignature(m.TypeParams, m.Params, m.ReturnType)
}
func (m *CallSignature) typeMember() {}

// ConstructSignature is `new <T>(params): R` in an interface or type literal.
type ConstructSignature struct {
	Loc        source.Span
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
}

func (m *ConstructSignature) Span() source.Span { return m.Loc }
func (m *ConstructSignature) String() string {
	return "new " + formatSignature(m.TypeParams, m.Params, m.ReturnType)
}
func (m *ConstructSignature) typeMember() {}

// IndexSignature is `readonly [key: K]: V`.
type IndexSignature struct {
	Loc      source.Span
	Readonly bool
	Params   []Pattern
	TypeAnn  *TypeAnnotation
}

func (m *IndexSignature) Span() source.Span { return m.Loc }
func (m *IndexSignature) String() string {
	out := ""
	if m.Readonly {
		out = "readonly "
	}
	out += "[" + joinPatterns(m.Params) + "]"
	if m.TypeAnn != nil {
		out += ": " + m.TypeAnn.String()
	}
	return out
}
func (m *IndexSignature) typeMember() {}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// StringLiteral is a string expression.
type StringLiteral struct {
	Loc   source.Span
	Value string
}

func (e *StringLiteral) Span() source.Span { return e.Loc }
func (e *StringLiteral) String() string    { return types.FormatLiteral(types.LitString, e.Value) }
func (e *StringLiteral) expressionNode()   {}

// NumberLiteral is a numeric expression; Raw keeps the source text.
type NumberLiteral struct {
	Loc source.Span
	Raw string
}

func (e *NumberLiteral) Span() source.Span { return e.Loc }
func (e *NumberLiteral) String() string    { return e.Raw }
func (e *NumberLiteral) expressionNode()   {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Loc   source.Span
	Value bool
}

func (e *BooleanLiteral) Span() source.Span { return e.Loc }
func (e *BooleanLiteral) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BooleanLiteral) expressionNode() {}

// NullLiteral is `null`.
type NullLiteral struct {
	Loc source.Span
}

func (e *NullLiteral) Span() source.Span { return e.Loc }
func (e *NullLiteral) String() string    { return "null" }
func (e *NullLiteral) expressionNode()   {}

// MemberExpression is `obj.prop`.
type MemberExpression struct {
	Loc      source.Span
	Object   Expression
	Property *Identifier
}

func (e *MemberExpression) Span() source.Span { return e.Loc }
func (e *MemberExpression) String() string    { return e.Object.String() + "." + e.Property.String() }
func (e *MemberExpression) expressionNode()   {}

// ArrayLiteral represents an array literal expression (e.g., [1, "two"]).
type ArrayLiteral struct {
	Loc      source.Span
	Elements []Expression
}

func (e *ArrayLiteral) Span() source.Span { return e.Loc }
func (e *ArrayLiteral) String() string {
	parts := make([]string, 0, len(e.Elements))
	for _, el := range e.Elements {
		if el != nil {
			parts = append(parts, el.String())
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (e *ArrayLiteral) expressionNode() {}

// ParenthesizedExpression is `(expr)`.
type ParenthesizedExpression struct {
	Loc  source.Span
	Expr Expression
}

func (e *ParenthesizedExpression) Span() source.Span { return e.Loc }
func (e *ParenthesizedExpression) String() string    { return "(" + e.Expr.String() + ")" }
func (e *ParenthesizedExpression) expressionNode()   {}

// AsExpression is `expr as T`.
type AsExpression struct {
	Loc  source.Span
	Expr Expression
	Type TypeNode
}

func (e *AsExpression) Span() source.Span { return e.Loc }
func (e *AsExpression) String() string    { return e.Expr.String() + " as " + e.Type.String() }
func (e *AsExpression) expressionNode()   {}

// TypeAssertion is `<T>expr`.
type TypeAssertion struct {
	Loc  source.Span
	Type TypeNode
	Expr Expression
}

func (e *TypeAssertion) Span() source.Span { return e.Loc }
func (e *TypeAssertion) String() string    { return "<" + e.Type.String() + ">" + e.Expr.String() }
func (e *TypeAssertion) expressionNode()   {}

// ArrowFunction is `<T>(params): R => body`. The body is kept as source text.
type ArrowFunction struct {
	Loc        source.Span
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
	Body       string
}

func (e *ArrowFunction) Span() source.Span { return e.Loc }
func (e *ArrowFunction) String() string {
	return formatSignature(e.TypeParams, e.Params, e.ReturnType) + " => " + e.Body
}
func (e *ArrowFunction) expressionNode() {}

// OpaqueExpression stands in for expressions the type layer does not model.
type OpaqueExpression struct {
	Loc  source.Span
	Kind string // front end node kind
	Text string
}

func (e *OpaqueExpression) Span() source.Span { return e.Loc }
func (e *OpaqueExpression) String() string    { return e.Text }
func (e *OpaqueExpression) expressionNode()   {}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// TypeAliasDeclaration represents a `type Name<T> = Type;` declaration.
type TypeAliasDeclaration struct {
	Loc        source.Span
	Declare    bool
	Name       *Identifier
	TypeParams *TypeParamDeclNode
	Type       TypeNode
}

func (d *TypeAliasDeclaration) Span() source.Span { return d.Loc }
func (d *TypeAliasDeclaration) String() string {
	return "type " + d.Name.String() + d.TypeParams.String() + " = " + d.Type.String() + ";"
}
func (d *TypeAliasDeclaration) statementNode() {}

// ExprWithTypeArgs is one entry of an `extends` list.
type ExprWithTypeArgs struct {
	Loc      source.Span
	Expr     *EntityName
	TypeArgs []TypeNode
}

func (e *ExprWithTypeArgs) Span() source.Span { return e.Loc }
func (e *ExprWithTypeArgs) String() string {
	if e.TypeArgs == nil {
		return e.Expr.String()
	}
	return e.Expr.String() + "<" + joinTypeNodes(e.TypeArgs, ", ") + ">"
}

// InterfaceDeclaration represents an interface declaration.
// interface Name<T> extends A, B<T> { property: Type; method(): ReturnType; }
type InterfaceDeclaration struct {
	Loc        source.Span
	Name       *Identifier
	TypeParams *TypeParamDeclNode
	Extends    []*ExprWithTypeArgs
	Body       []TypeMember
}

func (d *InterfaceDeclaration) Span() source.Span { return d.Loc }
func (d *InterfaceDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("interface ")
	out.WriteString(d.Name.String())
	out.WriteString(d.TypeParams.String())
	if len(d.Extends) > 0 {
		out.WriteString(" extends ")
		for i, ext := range d.Extends {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(ext.String())
		}
	}
	out.WriteString(" ")
	out.WriteString(formatMembers(d.Body))
	return out.String()
}
func (d *InterfaceDeclaration) statementNode() {}

// EnumMember is one member of an enum declaration.
type EnumMember struct {
	Loc  source.Span
	Name string
	Init Expression // nil if absent
}

// EnumDeclaration represents `const enum E { A = 1, B }`.
type EnumDeclaration struct {
	Loc     source.Span
	Const   bool
	Name    *Identifier
	Members []*EnumMember
}

func (d *EnumDeclaration) Span() source.Span { return d.Loc }
func (d *EnumDeclaration) String() string {
	names := make([]string, len(d.Members))
	for i, m := range d.Members {
		names[i] = m.Name
		if m.Init != nil {
			names[i] += " = " + m.Init.String()
		}
	}
	prefix := "enum "
	if d.Const {
		prefix = "const enum "
	}
	return prefix + d.Name.String() + " { " + strings.Join(names, ", ") + " }"
}
func (d *EnumDeclaration) statementNode() {}

// VariableDeclarator is one `name: T = init` entry.
type VariableDeclarator struct {
	Loc  source.Span
	Name Pattern
	Init Expression // nil if absent
}

func (d *VariableDeclarator) Span() source.Span { return d.Loc }
func (d *VariableDeclarator) String() string {
	out := d.Name.String()
	if d.Init != nil {
		out += " = " + d.Init.String()
	}
	return out
}

// VariableDeclaration is a `let`, `const` or `var` statement.
type VariableDeclaration struct {
	Loc         source.Span
	Kind        string // "let", "const" or "var"
	Declare     bool
	Declarators []*VariableDeclarator
}

func (d *VariableDeclaration) Span() source.Span { return d.Loc }
func (d *VariableDeclaration) String() string {
	parts := make([]string, len(d.Declarators))
	for i, decl := range d.Declarators {
		parts[i] = decl.String()
	}
	return d.Kind + " " + strings.Join(parts, ", ") + ";"
}
func (d *VariableDeclaration) statementNode() {}

// FunctionDeclaration is a function signature; the body is not modelled.
type FunctionDeclaration struct {
	Loc        source.Span
	Name       *Identifier
	TypeParams *TypeParamDeclNode
	Params     []Pattern
	ReturnType *TypeAnnotation
}

func (d *FunctionDeclaration) Span() source.Span { return d.Loc }
func (d *FunctionDeclaration) String() string {
	return "function " + d.Name.String() + formatSignature(d.TypeParams, d.Params, d.ReturnType) + ";"
}
func (d *FunctionDeclaration) statementNode() {}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Loc  source.Span
	Expr Expression
}

func (s *ExpressionStatement) Span() source.Span { return s.Loc }
func (s *ExpressionStatement) String() string    { return s.Expr.String() + ";" }
func (s *ExpressionStatement) statementNode()    {}

// --- printing helpers ---

func joinTypeNodes(nodes []TypeNode, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func joinPatterns(params []Pattern) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func formatKey(key Expression, computed bool) string {
	if computed {
		return "[" + key.String() + "]"
	}
	return key.String()
}

func formatSignature(tps *TypeParamDeclNode, params []Pattern, ret *TypeAnnotation) string {
	out := tps.String() + "(" + joinPatterns(params) + ")"
	if ret != nil {
		out += ": " + ret.String()
	}
	return out
}

func formatMembers(members []TypeMember) string {
	if len(members) == 0 {
		return "{}"
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
