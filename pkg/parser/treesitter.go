package parser

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"tslower/pkg/errors"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

// TSParser wraps a tree-sitter parser configured for TypeScript and converts
// its concrete syntax tree into this package's syntax tree.
type TSParser struct {
	parser *sitter.Parser
}

// NewTSParser constructs a parser with the TypeScript grammar loaded.
func NewTSParser() (*TSParser, error) {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	if lang == nil {
		return nil, fmt.Errorf("parser: typescript language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}
	return &TSParser{parser: p}, nil
}

// Close releases parser resources.
func (p *TSParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
	p.parser = nil
}

// ParseFile parses file into a Program. Statements the grammar could not
// recover are skipped and reported; unsupported type syntax is reported per
// statement, leaving the remaining statements intact.
func (p *TSParser) ParseFile(file *source.SourceFile) (*Program, []errors.Diagnostic) {
	if p == nil || p.parser == nil {
		return nil, []errors.Diagnostic{&errors.SyntaxError{Msg: "parser: nil parser"}}
	}
	src := []byte(file.Content)
	tree := p.parser.Parse(src, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, []errors.Diagnostic{&errors.SyntaxError{Msg: "parser: unexpected root node"}}
	}

	c := &converter{src: src, file: file}
	prog := &Program{Loc: c.span(root), Source: file}
	var diags []errors.Diagnostic

	if root.HasError() {
		diags = append(diags, c.syntaxError(root))
	}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if node == nil || node.HasError() {
			continue
		}
		stmt, err := c.statement(node)
		if err != nil {
			diags = append(diags, err)
			continue
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, diags
}

// ParseString parses src as a file called name.
func (p *TSParser) ParseString(name, src string) (*Program, []errors.Diagnostic) {
	return p.ParseFile(source.NewSourceFile(name, "", src))
}

type converter struct {
	src  []byte
	file *source.SourceFile
}

func (c *converter) span(n *sitter.Node) source.Span {
	start := n.StartPosition()
	return source.Span{
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Line:   int(start.Row) + 1,
		Column: int(start.Column) + 1,
	}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Utf8Text(c.src)
}

func (c *converter) errorf(n *sitter.Node, format string, args ...any) *errors.SyntaxError {
	pos := errors.At(c.span(n))
	pos.Source = c.file
	return &errors.SyntaxError{Position: pos, Msg: fmt.Sprintf(format, args...)}
}

func (c *converter) unsupported(n *sitter.Node, what string) *errors.SyntaxError {
	return c.errorf(n, "unsupported %s syntax %q", what, n.Kind())
}

func (c *converter) syntaxError(root *sitter.Node) *errors.SyntaxError {
	node := findFirst(root, (*sitter.Node).IsMissing)
	if node != nil {
		return c.errorf(node, "syntax error: expected %s", node.Kind())
	}
	node = findFirst(root, (*sitter.Node).IsError)
	if node == nil {
		node = root
	}
	return c.errorf(node, "syntax error")
}

func findFirst(root *sitter.Node, pred func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if !pred(node) {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func walkNodes(root *sitter.Node, visit func(node *sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := uint(0); i < root.ChildCount(); i++ {
		if child := root.Child(i); child != nil {
			walkNodes(child, visit)
		}
	}
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if kids := namedChildren(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// childOfKind returns the first named child with one of the given kinds.
func childOfKind(n *sitter.Node, kinds ...string) *sitter.Node {
	for _, child := range namedChildren(n) {
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

// hasToken reports whether n has an anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == tok {
			return true
		}
	}
	return false
}

// field returns the child for a field, falling back to the first named child
// of one of kinds when the grammar version does not label the child.
func field(n *sitter.Node, name string, kinds ...string) *sitter.Node {
	if child := n.ChildByFieldName(name); child != nil {
		return child
	}
	if len(kinds) == 0 {
		return nil
	}
	return childOfKind(n, kinds...)
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	body := s[1 : len(s)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	if s[0] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	if s[0] == '\'' {
		if u, err := strconv.Unquote(`"` + strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`) + `"`); err == nil {
			return u
		}
	}
	return body
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (c *converter) statement(n *sitter.Node) (Statement, *errors.SyntaxError) {
	switch n.Kind() {
	case "type_alias_declaration":
		return c.typeAlias(n)
	case "interface_declaration":
		return c.interfaceDecl(n)
	case "enum_declaration":
		return c.enumDecl(n)
	case "lexical_declaration", "variable_declaration":
		return c.variableDecl(n)
	case "function_declaration", "function_signature", "generator_function_declaration":
		return c.functionDecl(n)
	case "ambient_declaration":
		inner := firstNamed(n)
		if inner == nil {
			return nil, nil
		}
		stmt, err := c.statement(inner)
		switch s := stmt.(type) {
		case *TypeAliasDeclaration:
			s.Declare = true
		case *VariableDeclaration:
			s.Declare = true
		}
		return stmt, err
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return c.statement(decl)
		}
		return nil, nil
	case "expression_statement":
		inner := firstNamed(n)
		if inner == nil {
			return nil, nil
		}
		expr, err := c.expression(inner)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Loc: c.span(n), Expr: expr}, nil
	}
	// Statements without type-level content are not modelled.
	return nil, nil
}

func (c *converter) identifier(n *sitter.Node) *Identifier {
	return &Identifier{Loc: c.span(n), Name: c.text(n)}
}

func (c *converter) typeAlias(n *sitter.Node) (Statement, *errors.SyntaxError) {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil || value == nil {
		return nil, c.errorf(n, "malformed type alias")
	}
	tps, err := c.typeParams(n.ChildByFieldName("type_parameters"))
	if err != nil {
		return nil, err
	}
	ty, err := c.typ(value)
	if err != nil {
		return nil, err
	}
	return &TypeAliasDeclaration{Loc: c.span(n), Name: c.identifier(name), TypeParams: tps, Type: ty}, nil
}

func (c *converter) interfaceDecl(n *sitter.Node) (Statement, *errors.SyntaxError) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil, c.errorf(n, "malformed interface")
	}
	decl := &InterfaceDeclaration{Loc: c.span(n), Name: c.identifier(name)}

	var err *errors.SyntaxError
	if decl.TypeParams, err = c.typeParams(n.ChildByFieldName("type_parameters")); err != nil {
		return nil, err
	}
	if clause := childOfKind(n, "extends_type_clause"); clause != nil {
		for _, target := range namedChildren(clause) {
			ext, err := c.exprWithTypeArgs(target)
			if err != nil {
				return nil, err
			}
			decl.Extends = append(decl.Extends, ext)
		}
	}
	body := field(n, "body", "interface_body", "object_type")
	if decl.Body, err = c.members(body); err != nil {
		return nil, err
	}
	return decl, nil
}

func (c *converter) exprWithTypeArgs(n *sitter.Node) (*ExprWithTypeArgs, *errors.SyntaxError) {
	ext := &ExprWithTypeArgs{Loc: c.span(n)}
	switch n.Kind() {
	case "type_identifier", "identifier", "nested_type_identifier", "member_expression", "nested_identifier":
		ext.Expr = c.entityName(n)
	case "generic_type":
		ext.Expr = c.entityName(n.ChildByFieldName("name"))
		args, err := c.typeArgs(n.ChildByFieldName("type_arguments"))
		if err != nil {
			return nil, err
		}
		ext.TypeArgs = args
	default:
		return nil, c.unsupported(n, "extends")
	}
	return ext, nil
}

func (c *converter) entityName(n *sitter.Node) *EntityName {
	return &EntityName{Loc: c.span(n), Parts: strings.Split(stripSpace(c.text(n)), ".")}
}

func (c *converter) enumDecl(n *sitter.Node) (Statement, *errors.SyntaxError) {
	decl := &EnumDeclaration{
		Loc:   c.span(n),
		Const: hasToken(n, "const"),
		Name:  c.identifier(n.ChildByFieldName("name")),
	}
	for _, m := range namedChildren(n.ChildByFieldName("body")) {
		member := &EnumMember{Loc: c.span(m)}
		nameNode := m
		if m.Kind() == "enum_assignment" {
			nameNode = field(m, "name", "property_identifier", "string", "number", "computed_property_name")
			if value := m.ChildByFieldName("value"); value != nil {
				init, err := c.expression(value)
				if err != nil {
					return nil, err
				}
				member.Init = init
			}
		}
		if nameNode == nil {
			return nil, c.errorf(m, "malformed enum member")
		}
		member.Name = c.text(nameNode)
		if nameNode.Kind() == "string" {
			member.Name = unquote(member.Name)
		}
		decl.Members = append(decl.Members, member)
	}
	return decl, nil
}

func (c *converter) variableDecl(n *sitter.Node) (Statement, *errors.SyntaxError) {
	kind := "var"
	if k := n.ChildByFieldName("kind"); k != nil {
		kind = c.text(k)
	} else if n.Kind() == "lexical_declaration" && n.ChildCount() > 0 {
		kind = c.text(n.Child(0))
	}
	decl := &VariableDeclaration{Loc: c.span(n), Kind: kind}
	for _, d := range namedChildren(n) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		name, err := c.pattern(d.ChildByFieldName("name"))
		if err != nil {
			return nil, err
		}
		if ann := d.ChildByFieldName("type"); ann != nil {
			ta, err := c.annotation(ann)
			if err != nil {
				return nil, err
			}
			name.SetTypeAnnotation(ta)
		}
		declarator := &VariableDeclarator{Loc: c.span(d), Name: name}
		if value := d.ChildByFieldName("value"); value != nil {
			if declarator.Init, err = c.expression(value); err != nil {
				return nil, err
			}
		}
		decl.Declarators = append(decl.Declarators, declarator)
	}
	return decl, nil
}

func (c *converter) functionDecl(n *sitter.Node) (Statement, *errors.SyntaxError) {
	tps, params, ret, err := c.callSignature(n)
	if err != nil {
		return nil, err
	}
	return &FunctionDeclaration{
		Loc:        c.span(n),
		Name:       c.identifier(n.ChildByFieldName("name")),
		TypeParams: tps,
		Params:     params,
		ReturnType: ret,
	}, nil
}

// ----------------------------------------------------------------------------
// Signatures, parameters and patterns
// ----------------------------------------------------------------------------

func (c *converter) callSignature(n *sitter.Node) (*TypeParamDeclNode, []Pattern, *TypeAnnotation, *errors.SyntaxError) {
	tps, err := c.typeParams(field(n, "type_parameters", "type_parameters"))
	if err != nil {
		return nil, nil, nil, err
	}
	params, err := c.params(field(n, "parameters", "formal_parameters"))
	if err != nil {
		return nil, nil, nil, err
	}
	var ret *TypeAnnotation
	if r := n.ChildByFieldName("return_type"); r != nil {
		if ret, err = c.annotation(r); err != nil {
			return nil, nil, nil, err
		}
	}
	return tps, params, ret, nil
}

func (c *converter) typeParams(n *sitter.Node) (*TypeParamDeclNode, *errors.SyntaxError) {
	if n == nil {
		return nil, nil
	}
	decl := &TypeParamDeclNode{Loc: c.span(n)}
	for _, tp := range namedChildren(n) {
		if tp.Kind() != "type_parameter" {
			continue
		}
		param := &TypeParamNode{
			Loc:   c.span(tp),
			Name:  c.identifier(tp.ChildByFieldName("name")),
			Const: hasToken(tp, "const"),
		}
		if constraint := field(tp, "constraint", "constraint"); constraint != nil {
			ty, err := c.typ(firstNamed(constraint))
			if err != nil {
				return nil, err
			}
			param.Constraint = ty
		}
		if def := field(tp, "value", "default_type"); def != nil {
			ty, err := c.typ(firstNamed(def))
			if err != nil {
				return nil, err
			}
			param.Default = ty
		}
		decl.Params = append(decl.Params, param)
	}
	return decl, nil
}

func (c *converter) params(n *sitter.Node) ([]Pattern, *errors.SyntaxError) {
	if n == nil {
		return nil, nil
	}
	var out []Pattern
	for _, p := range namedChildren(n) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
		default:
			return nil, c.unsupported(p, "parameter")
		}
		target := field(p, "pattern", "identifier", "this", "array_pattern", "object_pattern", "rest_pattern")
		if target == nil {
			return nil, c.errorf(p, "malformed parameter")
		}
		pat, err := c.pattern(target)
		if err != nil {
			return nil, err
		}
		if p.Kind() == "optional_parameter" {
			setOptional(pat)
		}
		if ann := p.ChildByFieldName("type"); ann != nil {
			ta, err := c.annotation(ann)
			if err != nil {
				return nil, err
			}
			pat.SetTypeAnnotation(ta)
		}
		if value := p.ChildByFieldName("value"); value != nil {
			def, err := c.expression(value)
			if err != nil {
				return nil, err
			}
			pat = &AssignPattern{Loc: c.span(p), Left: pat, Right: def}
		}
		out = append(out, pat)
	}
	return out, nil
}

func setOptional(p Pattern) {
	switch p := p.(type) {
	case *IdentPattern:
		p.Optional = true
	case *ArrayPattern:
		p.Optional = true
	case *ObjectPattern:
		p.Optional = true
	}
}

func (c *converter) pattern(n *sitter.Node) (Pattern, *errors.SyntaxError) {
	if n == nil {
		return nil, &errors.SyntaxError{Msg: "missing binding pattern"}
	}
	switch n.Kind() {
	case "identifier", "this", "undefined":
		return NewIdentPattern(c.identifier(n), nil), nil

	case "array_pattern":
		pat := &ArrayPattern{Loc: c.span(n)}
		expectElem := true
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil || child.Kind() == "comment" {
				continue
			}
			switch {
			case child.Kind() == ",":
				if expectElem {
					pat.Elems = append(pat.Elems, nil) // hole
				}
				expectElem = true
			case child.IsNamed():
				elem, err := c.pattern(child)
				if err != nil {
					return nil, err
				}
				pat.Elems = append(pat.Elems, elem)
				expectElem = false
			}
		}
		return pat, nil

	case "object_pattern":
		pat := &ObjectPattern{Loc: c.span(n)}
		for _, child := range namedChildren(n) {
			prop, err := c.objectPatternProp(child)
			if err != nil {
				return nil, err
			}
			pat.Props = append(pat.Props, prop)
		}
		return pat, nil

	case "rest_pattern":
		arg, err := c.pattern(firstNamed(n))
		if err != nil {
			return nil, err
		}
		return &RestPattern{Loc: c.span(n), Arg: arg}, nil

	case "assignment_pattern":
		left, err := c.pattern(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := c.expression(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return &AssignPattern{Loc: c.span(n), Left: left, Right: right}, nil
	}
	return nil, c.unsupported(n, "binding pattern")
}

func (c *converter) objectPatternProp(n *sitter.Node) (ObjectPatternProp, *errors.SyntaxError) {
	switch n.Kind() {
	case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		return &AssignPatternProp{Loc: c.span(n), Key: c.identifier(n)}, nil
	case "object_assignment_pattern":
		left := n.ChildByFieldName("left")
		right, err := c.expression(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		if left == nil || !strings.HasPrefix(left.Kind(), "shorthand_property_identifier") {
			return nil, c.unsupported(n, "object pattern")
		}
		return &AssignPatternProp{Loc: c.span(n), Key: c.identifier(left), Value: right}, nil
	case "pair_pattern":
		key, computed, err := c.propertyKey(n.ChildByFieldName("key"))
		if err != nil {
			return nil, err
		}
		value, err := c.pattern(n.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		return &KeyValuePatternProp{Loc: c.span(n), Key: key, Computed: computed, Value: value}, nil
	case "rest_pattern":
		arg, err := c.pattern(firstNamed(n))
		if err != nil {
			return nil, err
		}
		return &RestPatternProp{Loc: c.span(n), Arg: arg}, nil
	}
	return nil, c.unsupported(n, "object pattern")
}

func (c *converter) propertyKey(n *sitter.Node) (Expression, bool, *errors.SyntaxError) {
	if n == nil {
		return nil, false, &errors.SyntaxError{Msg: "missing property key"}
	}
	switch n.Kind() {
	case "property_identifier", "private_property_identifier", "identifier", "shorthand_property_identifier":
		return c.identifier(n), false, nil
	case "string":
		return &StringLiteral{Loc: c.span(n), Value: unquote(c.text(n))}, false, nil
	case "number":
		return &NumberLiteral{Loc: c.span(n), Raw: c.text(n)}, false, nil
	case "computed_property_name":
		inner := firstNamed(n)
		if inner == nil {
			return nil, false, c.errorf(n, "empty computed key")
		}
		expr, err := c.expression(inner)
		return expr, true, err
	}
	return nil, false, c.unsupported(n, "property key")
}

// ----------------------------------------------------------------------------
// Members
// ----------------------------------------------------------------------------

func (c *converter) members(body *sitter.Node) ([]TypeMember, *errors.SyntaxError) {
	var out []TypeMember
	for _, m := range namedChildren(body) {
		member, err := c.member(m)
		if err != nil {
			return nil, err
		}
		if member != nil {
			out = append(out, member)
		}
	}
	return out, nil
}

func (c *converter) member(n *sitter.Node) (TypeMember, *errors.SyntaxError) {
	switch n.Kind() {
	case "property_signature":
		key, computed, err := c.propertyKey(n.ChildByFieldName("name"))
		if err != nil {
			return nil, err
		}
		prop := &PropertySignature{
			Loc:      c.span(n),
			Readonly: hasToken(n, "readonly"),
			Key:      key,
			Computed: computed,
			Optional: hasToken(n, "?"),
		}
		if ann := n.ChildByFieldName("type"); ann != nil {
			if prop.TypeAnn, err = c.annotation(ann); err != nil {
				return nil, err
			}
		}
		return prop, nil

	case "method_signature":
		key, computed, err := c.propertyKey(n.ChildByFieldName("name"))
		if err != nil {
			return nil, err
		}
		tps, params, ret, err := c.callSignature(n)
		if err != nil {
			return nil, err
		}
		return &MethodSignature{
			Loc:        c.span(n),
			Readonly:   hasToken(n, "readonly"),
			Key:        key,
			Computed:   computed,
			Optional:   hasToken(n, "?"),
			TypeParams: tps,
			Params:     params,
			ReturnType: ret,
		}, nil

	case "call_signature":
		tps, params, ret, err := c.callSignature(n)
		if err != nil {
			return nil, err
		}
		return &CallSignature{Loc: c.span(n), TypeParams: tps, Params: params, ReturnType: ret}, nil

	case "construct_signature":
		tps, params, _, err := c.callSignature(n)
		if err != nil {
			return nil, err
		}
		sig := &ConstructSignature{Loc: c.span(n), TypeParams: tps, Params: params}
		if ann := n.ChildByFieldName("type"); ann != nil {
			if sig.ReturnType, err = c.annotation(ann); err != nil {
				return nil, err
			}
		}
		return sig, nil

	case "index_signature":
		if childOfKind(n, "mapped_type_clause") != nil {
			return nil, c.errorf(n, "mapped type clause outside a mapped type")
		}
		name := n.ChildByFieldName("name")
		keyType := n.ChildByFieldName("index_type")
		if name == nil || keyType == nil {
			return nil, c.errorf(n, "malformed index signature")
		}
		kt, err := c.typ(keyType)
		if err != nil {
			return nil, err
		}
		param := NewIdentPattern(c.identifier(name), &TypeAnnotation{Loc: c.span(keyType), Type: kt})
		sig := &IndexSignature{Loc: c.span(n), Readonly: hasToken(n, "readonly"), Params: []Pattern{param}}
		if ann := n.ChildByFieldName("type"); ann != nil {
			if sig.TypeAnn, err = c.annotation(ann); err != nil {
				return nil, err
			}
		}
		return sig, nil

	case "export_statement":
		return nil, nil
	}
	return nil, c.unsupported(n, "member")
}

// ----------------------------------------------------------------------------
// Types
// ----------------------------------------------------------------------------

// annotation converts a `: T` style node. Predicate and asserts annotations
// carry a predicate type.
func (c *converter) annotation(n *sitter.Node) (*TypeAnnotation, *errors.SyntaxError) {
	inner := n
	switch n.Kind() {
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation", "adding_type_annotation",
		"type_predicate_annotation", "asserts_annotation":
		inner = firstNamed(n)
	}
	if inner == nil {
		return nil, c.errorf(n, "empty type annotation")
	}
	ty, err := c.typ(inner)
	if err != nil {
		return nil, err
	}
	return &TypeAnnotation{Loc: c.span(n), Type: ty}, nil
}

func (c *converter) typeArgs(n *sitter.Node) ([]TypeNode, *errors.SyntaxError) {
	if n == nil {
		return nil, nil
	}
	args := []TypeNode{}
	for _, a := range namedChildren(n) {
		ty, err := c.typ(a)
		if err != nil {
			return nil, err
		}
		args = append(args, ty)
	}
	return args, nil
}

func (c *converter) typ(n *sitter.Node) (TypeNode, *errors.SyntaxError) {
	if n == nil {
		return nil, &errors.SyntaxError{Msg: "missing type"}
	}
	loc := c.span(n)
	switch n.Kind() {
	case "predefined_type":
		name := stripSpace(c.text(n))
		if name == "uniquesymbol" {
			return &TypeOperatorNode{Loc: loc, Op: types.OpUnique, Type: &KeywordTypeNode{Loc: loc, Kind: types.KwSymbol}}, nil
		}
		kind, ok := types.ParseKeyword(name)
		if !ok {
			return nil, c.unsupported(n, "predefined type")
		}
		return &KeywordTypeNode{Loc: loc, Kind: kind}, nil

	case "type_identifier", "identifier":
		name := c.text(n)
		switch name {
		case "bigint", "undefined", "intrinsic":
			kind, _ := types.ParseKeyword(name)
			return &KeywordTypeNode{Loc: loc, Kind: kind}, nil
		}
		return &TypeReferenceNode{Loc: loc, Name: c.entityName(n)}, nil

	case "nested_type_identifier":
		return &TypeReferenceNode{Loc: loc, Name: c.entityName(n)}, nil

	case "generic_type":
		args, err := c.typeArgs(n.ChildByFieldName("type_arguments"))
		if err != nil {
			return nil, err
		}
		return &TypeReferenceNode{Loc: loc, Name: c.entityName(n.ChildByFieldName("name")), TypeArgs: args}, nil

	case "this_type", "this":
		return &ThisTypeNode{Loc: loc}, nil

	case "literal_type":
		return c.literalType(n)

	case "template_literal_type":
		raw := c.text(n)
		return &LiteralTypeNode{Loc: loc, Kind: types.LitTemplate, Value: strings.Trim(raw, "`")}, nil

	case "array_type":
		elem, err := c.typ(firstNamed(n))
		if err != nil {
			return nil, err
		}
		return &ArrayTypeNode{Loc: loc, Elem: elem}, nil

	case "tuple_type":
		return c.tupleType(n)

	case "optional_type":
		inner, err := c.typ(firstNamed(n))
		if err != nil {
			return nil, err
		}
		return &OptionalTypeNode{Loc: loc, Type: inner}, nil

	case "rest_type":
		inner, err := c.typ(firstNamed(n))
		if err != nil {
			return nil, err
		}
		return &RestTypeNode{Loc: loc, Type: inner}, nil

	case "union_type", "intersection_type":
		var members []TypeNode
		if err := c.flatten(n, n.Kind(), &members); err != nil {
			return nil, err
		}
		if n.Kind() == "union_type" {
			return &UnionTypeNode{Loc: loc, Types: members}, nil
		}
		return &IntersectionTypeNode{Loc: loc, Types: members}, nil

	case "parenthesized_type":
		inner, err := c.typ(firstNamed(n))
		if err != nil {
			return nil, err
		}
		return &ParenthesizedTypeNode{Loc: loc, Type: inner}, nil

	case "function_type":
		tps, params, _, err := c.callSignature(n)
		if err != nil {
			return nil, err
		}
		retNode := n.ChildByFieldName("return_type")
		if retNode == nil {
			retNode = n.ChildByFieldName("type")
		}
		if retNode == nil {
			return nil, c.errorf(n, "function type without return type")
		}
		ret, err := c.annotation(retNode)
		if err != nil {
			return nil, err
		}
		return &FunctionTypeNode{Loc: loc, TypeParams: tps, Params: params, ReturnType: ret}, nil

	case "constructor_type":
		tps, params, _, err := c.callSignature(n)
		if err != nil {
			return nil, err
		}
		retNode := n.ChildByFieldName("type")
		if retNode == nil {
			return nil, c.errorf(n, "constructor type without return type")
		}
		ret, err := c.annotation(retNode)
		if err != nil {
			return nil, err
		}
		return &ConstructorTypeNode{Loc: loc, Abstract: hasToken(n, "abstract"), TypeParams: tps, Params: params, ReturnType: ret}, nil

	case "object_type":
		if sig := childOfKind(n, "index_signature"); sig != nil && childOfKind(sig, "mapped_type_clause") != nil {
			return c.mappedType(n, sig)
		}
		members, err := c.members(n)
		if err != nil {
			return nil, err
		}
		return &TypeLiteralNode{Loc: loc, Members: members}, nil

	case "conditional_type":
		parts := make([]TypeNode, 4)
		for i, name := range []string{"left", "right", "consequence", "alternative"} {
			ty, err := c.typ(n.ChildByFieldName(name))
			if err != nil {
				return nil, err
			}
			parts[i] = ty
		}
		return &ConditionalTypeNode{Loc: loc, Check: parts[0], Extends: parts[1], True: parts[2], False: parts[3]}, nil

	case "infer_type":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil, c.errorf(n, "infer without a name")
		}
		param := &TypeParamNode{Loc: c.span(kids[0]), Name: c.identifier(kids[0])}
		if len(kids) > 1 {
			constraint, err := c.typ(kids[1])
			if err != nil {
				return nil, err
			}
			param.Constraint = constraint
		}
		return &InferTypeNode{Loc: loc, TypeParam: param}, nil

	case "index_type_query", "readonly_type":
		inner, err := c.typ(firstNamed(n))
		if err != nil {
			return nil, err
		}
		op := types.OpKeyOf
		if n.Kind() == "readonly_type" {
			op = types.OpReadonly
		}
		return &TypeOperatorNode{Loc: loc, Op: op, Type: inner}, nil

	case "lookup_type":
		kids := namedChildren(n)
		if len(kids) != 2 {
			return nil, c.errorf(n, "malformed indexed access type")
		}
		obj, err := c.typ(kids[0])
		if err != nil {
			return nil, err
		}
		idx, err := c.typ(kids[1])
		if err != nil {
			return nil, err
		}
		return &IndexedAccessTypeNode{Loc: loc, Object: obj, Index: idx}, nil

	case "type_query":
		return c.typeQuery(n)

	case "type_predicate":
		name := n.ChildByFieldName("name")
		target := n.ChildByFieldName("type")
		if name == nil || target == nil {
			return nil, c.errorf(n, "malformed type predicate")
		}
		ty, err := c.typ(target)
		if err != nil {
			return nil, err
		}
		return &TypePredicateNode{
			Loc:   loc,
			Param: c.identifier(name),
			Type:  &TypeAnnotation{Loc: c.span(target), Type: ty},
		}, nil

	case "asserts":
		inner := firstNamed(n)
		if inner == nil {
			return nil, c.errorf(n, "asserts without a target")
		}
		if inner.Kind() == "type_predicate" {
			pred, err := c.typ(inner)
			if err != nil {
				return nil, err
			}
			p := pred.(*TypePredicateNode)
			p.Loc = loc
			p.Asserts = true
			return p, nil
		}
		return &TypePredicateNode{Loc: loc, Asserts: true, Param: c.identifier(inner)}, nil
	}
	return nil, c.unsupported(n, "type")
}

// flatten collects the operands of nested union or intersection nodes.
func (c *converter) flatten(n *sitter.Node, kind string, out *[]TypeNode) *errors.SyntaxError {
	for _, child := range namedChildren(n) {
		if child.Kind() == kind {
			if err := c.flatten(child, kind, out); err != nil {
				return err
			}
			continue
		}
		ty, err := c.typ(child)
		if err != nil {
			return err
		}
		*out = append(*out, ty)
	}
	return nil
}

func (c *converter) literalType(n *sitter.Node) (TypeNode, *errors.SyntaxError) {
	loc := c.span(n)
	inner := firstNamed(n)
	if inner == nil {
		return nil, c.errorf(n, "empty literal type")
	}
	switch inner.Kind() {
	case "string":
		return &LiteralTypeNode{Loc: loc, Kind: types.LitString, Value: unquote(c.text(inner))}, nil
	case "number", "unary_expression":
		raw := stripSpace(c.text(inner))
		if strings.HasSuffix(raw, "n") {
			return &LiteralTypeNode{Loc: loc, Kind: types.LitBigInt, Value: strings.TrimSuffix(raw, "n")}, nil
		}
		return &LiteralTypeNode{Loc: loc, Kind: types.LitNumber, Value: strings.TrimPrefix(raw, "+")}, nil
	case "true", "false":
		return &LiteralTypeNode{Loc: loc, Kind: types.LitBool, Value: inner.Kind()}, nil
	case "null":
		return &KeywordTypeNode{Loc: loc, Kind: types.KwNull}, nil
	case "undefined":
		return &KeywordTypeNode{Loc: loc, Kind: types.KwUndefined}, nil
	}
	return nil, c.unsupported(inner, "literal type")
}

func (c *converter) tupleType(n *sitter.Node) (TypeNode, *errors.SyntaxError) {
	tuple := &TupleTypeNode{Loc: c.span(n)}
	for _, child := range namedChildren(n) {
		elem := &TupleElementNode{Loc: c.span(child)}
		switch child.Kind() {
		case "required_parameter", "optional_parameter", "tuple_parameter", "optional_tuple_parameter":
			name := field(child, "name", "identifier", "rest_pattern")
			if name == nil {
				name = field(child, "pattern", "identifier", "rest_pattern")
			}
			ann := field(child, "type", "type_annotation")
			if name == nil || ann == nil {
				return nil, c.errorf(child, "malformed labelled tuple element")
			}
			ta, err := c.annotation(ann)
			if err != nil {
				return nil, err
			}
			elem.Type = ta.Type
			switch {
			case name.Kind() == "rest_pattern":
				elem.Label = c.identifier(firstNamed(name))
				elem.Type = &RestTypeNode{Loc: elem.Loc, Type: ta.Type}
			case child.Kind() == "optional_parameter" || child.Kind() == "optional_tuple_parameter":
				elem.Label = c.identifier(name)
				elem.Type = &OptionalTypeNode{Loc: elem.Loc, Type: ta.Type}
			default:
				elem.Label = c.identifier(name)
			}
		default:
			ty, err := c.typ(child)
			if err != nil {
				return nil, err
			}
			elem.Type = ty
		}
		tuple.Elems = append(tuple.Elems, elem)
	}
	return tuple, nil
}

func (c *converter) mappedType(n, sig *sitter.Node) (TypeNode, *errors.SyntaxError) {
	clause := childOfKind(sig, "mapped_type_clause")
	name := field(clause, "name", "type_identifier")
	constraint := clause.ChildByFieldName("type")
	if name == nil || constraint == nil {
		return nil, c.errorf(clause, "malformed mapped type")
	}
	in, err := c.typ(constraint)
	if err != nil {
		return nil, err
	}
	mapped := &MappedTypeNode{
		Loc:       c.span(n),
		TypeParam: &TypeParamNode{Loc: c.span(clause), Name: c.identifier(name), Constraint: in},
	}
	if alias := clause.ChildByFieldName("alias"); alias != nil {
		if mapped.NameType, err = c.typ(alias); err != nil {
			return nil, err
		}
	}

	if hasToken(sig, "readonly") {
		mapped.Readonly = types.ModPresent
		if hasToken(sig, "-") {
			mapped.Readonly = types.ModMinus
		} else if hasToken(sig, "+") {
			mapped.Readonly = types.ModPlus
		}
	}

	if ann := sig.ChildByFieldName("type"); ann != nil {
		switch ann.Kind() {
		case "opting_type_annotation":
			mapped.Optional = types.ModPresent
		case "omitting_type_annotation":
			mapped.Optional = types.ModMinus
		case "adding_type_annotation":
			mapped.Optional = types.ModPlus
		}
		ta, err := c.annotation(ann)
		if err != nil {
			return nil, err
		}
		mapped.Type = ta.Type
	}
	return mapped, nil
}

func (c *converter) typeQuery(n *sitter.Node) (TypeNode, *errors.SyntaxError) {
	target := firstNamed(n)
	if target == nil {
		return nil, c.errorf(n, "typeof without a target")
	}
	q := &TypeQueryNode{Loc: c.span(n)}
	switch target.Kind() {
	case "identifier", "this", "member_expression", "nested_identifier":
		q.Expr = c.entityName(target)
	case "instantiation_expression":
		fn := field(target, "function", "identifier", "member_expression")
		if fn == nil {
			return nil, c.unsupported(target, "type query")
		}
		q.Expr = c.entityName(fn)
		args, err := c.typeArgs(field(target, "type_arguments", "type_arguments"))
		if err != nil {
			return nil, err
		}
		q.TypeArgs = args
	case "call_expression":
		// typeof import("mod")
		fn := target.ChildByFieldName("function")
		args := target.ChildByFieldName("arguments")
		if fn == nil || c.text(fn) != "import" || args == nil {
			return nil, c.unsupported(target, "type query")
		}
		arg := firstNamed(args)
		if arg == nil || arg.Kind() != "string" {
			return nil, c.unsupported(target, "type query")
		}
		q.Import = &ImportTypeNode{Loc: c.span(target), Arg: unquote(c.text(arg))}
	default:
		return nil, c.unsupported(target, "type query")
	}
	return q, nil
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (c *converter) expression(n *sitter.Node) (Expression, *errors.SyntaxError) {
	if n == nil {
		return nil, &errors.SyntaxError{Msg: "missing expression"}
	}
	loc := c.span(n)
	switch n.Kind() {
	case "identifier", "undefined", "property_identifier", "shorthand_property_identifier":
		return c.identifier(n), nil
	case "string":
		return &StringLiteral{Loc: loc, Value: unquote(c.text(n))}, nil
	case "number":
		return &NumberLiteral{Loc: loc, Raw: c.text(n)}, nil
	case "true", "false":
		return &BooleanLiteral{Loc: loc, Value: n.Kind() == "true"}, nil
	case "null":
		return &NullLiteral{Loc: loc}, nil

	case "unary_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		if arg != nil && arg.Kind() == "number" && op != nil && (c.text(op) == "-" || c.text(op) == "+") {
			return &NumberLiteral{Loc: loc, Raw: strings.TrimPrefix(stripSpace(c.text(n)), "+")}, nil
		}

	case "member_expression":
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj != nil && prop != nil && prop.Kind() == "property_identifier" {
			object, err := c.expression(obj)
			if err != nil {
				return nil, err
			}
			return &MemberExpression{Loc: loc, Object: object, Property: c.identifier(prop)}, nil
		}

	case "parenthesized_expression":
		if inner := firstNamed(n); inner != nil && n.NamedChildCount() == 1 {
			expr, err := c.expression(inner)
			if err != nil {
				return nil, err
			}
			return &ParenthesizedExpression{Loc: loc, Expr: expr}, nil
		}

	case "as_expression":
		kids := namedChildren(n)
		if len(kids) == 2 {
			expr, err := c.expression(kids[0])
			if err != nil {
				return nil, err
			}
			ty, err := c.typ(kids[1])
			if err != nil {
				return nil, err
			}
			return &AsExpression{Loc: loc, Expr: expr, Type: ty}, nil
		}

	case "type_assertion":
		kids := namedChildren(n)
		if len(kids) == 2 && kids[0].Kind() == "type_arguments" {
			ty, err := c.typ(firstNamed(kids[0]))
			if err != nil {
				return nil, err
			}
			expr, err := c.expression(kids[1])
			if err != nil {
				return nil, err
			}
			return &TypeAssertion{Loc: loc, Type: ty, Expr: expr}, nil
		}

	case "arrow_function":
		fn := &ArrowFunction{Loc: loc}
		if single := n.ChildByFieldName("parameter"); single != nil {
			fn.Params = []Pattern{NewIdentPattern(c.identifier(single), nil)}
		} else {
			var err *errors.SyntaxError
			if fn.TypeParams, fn.Params, fn.ReturnType, err = c.callSignature(n); err != nil {
				return nil, err
			}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			fn.Body = c.text(body)
		}
		return fn, nil

	case "array":
		arr := &ArrayLiteral{Loc: loc}
		for _, el := range namedChildren(n) {
			expr, err := c.expression(el)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, expr)
		}
		return arr, nil
	}
	return &OpaqueExpression{Loc: loc, Kind: n.Kind(), Text: c.text(n)}, nil
}
