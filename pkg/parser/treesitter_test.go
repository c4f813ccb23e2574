package parser

import (
	"fmt"
	"testing"

	"tslower/pkg/types"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	p, err := NewTSParser()
	if err != nil {
		t.Fatalf("NewTSParser: %v", err)
	}
	defer p.Close()
	prog, diags := p.ParseString("test.ts", src)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
	return prog
}

func aliasType(t *testing.T, src string) TypeNode {
	t.Helper()
	prog := parse(t, src)
	if len(prog.Statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*TypeAliasDeclaration)
	if !ok {
		t.Fatalf("Expected *TypeAliasDeclaration, got %T", prog.Statements[0])
	}
	return decl.Type
}

func TestParseTypeAliases(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"type A = number;", "number"},
		{"type A = bigint;", "bigint"},
		{"type A = undefined;", "undefined"},
		{"type A = null;", "null"},
		{`type A = "hi";`, `"hi"`},
		{"type A = -1;", "-1"},
		{"type A = true;", "true"},
		{"type A = string[];", "string[]"},
		{"type A = [string, number?, ...boolean[]];", "[string, number?, ...boolean[]]"},
		{"type A = string | number | boolean;", "string | number | boolean"},
		{"type A = { a: string } & { b: number };", "{ a: string } & { b: number }"},
		{"type A = (a: string, b?: number) => void;", "(a: string, b?: number) => void"},
		{"type A = new (x: number) => Foo;", "new (x: number) => Foo"},
		{"type A = Map<string, ns.Value>;", "Map<string, ns.Value>"},
		{"type A = keyof T;", "keyof T"},
		{"type A = T[K];", "T[K]"},
		{"type A = typeof x.y;", "typeof x.y"},
		{"type A = (string | number)[];", "(string | number)[]"},
		{"type A = T extends (infer U)[] ? U : never;", "T extends (infer U)[] ? U : never"},
		{"type A = { readonly a?: string; m(): void; [k: string]: any };", "{ readonly a?: string; m(): void; [k: string]: any }"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := aliasType(t, tt.input).String()
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseMappedType(t *testing.T) {
	node := aliasType(t, "type A<T> = { -readonly [K in keyof T]?: T[K] };")
	mapped, ok := node.(*MappedTypeNode)
	if !ok {
		t.Fatalf("Expected *MappedTypeNode, got %T", node)
	}
	if mapped.Readonly != types.ModMinus {
		t.Errorf("Expected readonly modifier '-', got %v", mapped.Readonly)
	}
	if mapped.Optional != types.ModPresent {
		t.Errorf("Expected optional modifier, got %v", mapped.Optional)
	}
	if mapped.TypeParam.Name.Name != "K" {
		t.Errorf("Expected key parameter K, got %s", mapped.TypeParam.Name.Name)
	}
	if got := mapped.TypeParam.Constraint.String(); got != "keyof T" {
		t.Errorf("Expected constraint 'keyof T', got %q", got)
	}
}

func TestParseTypeParameters(t *testing.T) {
	prog := parse(t, "type Box<const T extends object = {}, U = T> = [T, U];")
	decl := prog.Statements[0].(*TypeAliasDeclaration)
	if decl.TypeParams == nil || len(decl.TypeParams.Params) != 2 {
		t.Fatalf("Expected 2 type parameters, got %v", decl.TypeParams)
	}
	first := decl.TypeParams.Params[0]
	if !first.Const || first.Constraint == nil || first.Default == nil {
		t.Errorf("Expected const parameter with constraint and default, got %s", first)
	}
	if got := decl.TypeParams.String(); got != "<const T extends object = {}, U = T>" {
		t.Errorf("Unexpected type parameter list %q", got)
	}
}

func TestParseInterface(t *testing.T) {
	prog := parse(t, `interface Foo<T> extends Bar, Baz<T> {
		readonly name: string;
		age?: number;
		greet(other: Foo<T>): string;
		(x: number): T;
		new (x: number): Foo<T>;
		[key: string]: any;
		[Symbol.iterator](): Iterator<T>;
	}`)
	decl, ok := prog.Statements[0].(*InterfaceDeclaration)
	if !ok {
		t.Fatalf("Expected *InterfaceDeclaration, got %T", prog.Statements[0])
	}
	if len(decl.Extends) != 2 || decl.Extends[1].String() != "Baz<T>" {
		t.Errorf("Unexpected extends list %v", decl.Extends)
	}
	if len(decl.Body) != 7 {
		t.Fatalf("Expected 7 members, got %d", len(decl.Body))
	}

	kinds := []string{"*parser.PropertySignature", "*parser.PropertySignature", "*parser.MethodSignature",
		"*parser.CallSignature", "*parser.ConstructSignature", "*parser.IndexSignature", "*parser.MethodSignature"}
	for i, m := range decl.Body {
		if got := fmt.Sprintf("%T", m); got != kinds[i] {
			t.Errorf("member %d: expected %s, got %s", i, kinds[i], got)
		}
	}
	if prop := decl.Body[0].(*PropertySignature); !prop.Readonly {
		t.Error("Expected first property to be readonly")
	}
	if prop := decl.Body[1].(*PropertySignature); !prop.Optional {
		t.Error("Expected second property to be optional")
	}
	if m := decl.Body[6].(*MethodSignature); !m.Computed {
		t.Error("Expected computed method key")
	}
}

func TestParseEnum(t *testing.T) {
	prog := parse(t, `const enum Dir { Up = "UP", Down = 2, Left }`)
	decl, ok := prog.Statements[0].(*EnumDeclaration)
	if !ok {
		t.Fatalf("Expected *EnumDeclaration, got %T", prog.Statements[0])
	}
	if !decl.Const {
		t.Error("Expected const enum")
	}
	if got := decl.String(); got != `const enum Dir { Up = "UP", Down = 2, Left }` {
		t.Errorf("Unexpected enum %q", got)
	}
}

func TestParseArrayPatternHoles(t *testing.T) {
	prog := parse(t, "function f([a, , [b, c]], { x, y: [z], ...rest }, ...args: number[]) {}")
	fn := prog.Statements[0].(*FunctionDeclaration)
	if len(fn.Params) != 3 {
		t.Fatalf("Expected 3 params, got %d", len(fn.Params))
	}

	arr, ok := fn.Params[0].(*ArrayPattern)
	if !ok {
		t.Fatalf("Expected *ArrayPattern, got %T", fn.Params[0])
	}
	if len(arr.Elems) != 3 || arr.Elems[1] != nil {
		t.Errorf("Expected hole at index 1, got %v", arr.Elems)
	}

	obj, ok := fn.Params[1].(*ObjectPattern)
	if !ok {
		t.Fatalf("Expected *ObjectPattern, got %T", fn.Params[1])
	}
	if len(obj.Props) != 3 {
		t.Fatalf("Expected 3 props, got %d", len(obj.Props))
	}
	if _, ok := obj.Props[0].(*AssignPatternProp); !ok {
		t.Errorf("Expected shorthand prop, got %T", obj.Props[0])
	}
	if _, ok := obj.Props[2].(*RestPatternProp); !ok {
		t.Errorf("Expected rest prop, got %T", obj.Props[2])
	}

	rest, ok := fn.Params[2].(*RestPattern)
	if !ok {
		t.Fatalf("Expected *RestPattern, got %T", fn.Params[2])
	}
	if rest.TypeAnnotation() == nil || rest.TypeAnnotation().String() != "number[]" {
		t.Errorf("Expected rest annotation number[], got %v", rest.TypeAnnotation())
	}
}

func TestParseDefaultParameter(t *testing.T) {
	prog := parse(t, "function f(a: string = \"x\", b?: number) {}")
	fn := prog.Statements[0].(*FunctionDeclaration)
	assign, ok := fn.Params[0].(*AssignPattern)
	if !ok {
		t.Fatalf("Expected *AssignPattern, got %T", fn.Params[0])
	}
	if assign.Left.TypeAnnotation() == nil {
		t.Error("annotation should stay on the left-hand pattern")
	}
	if !IsOptional(fn.Params[1]) {
		t.Error("Expected b to be optional")
	}
}

func TestParseCasts(t *testing.T) {
	prog := parse(t, `let a = x as string;
const b = <number>y;
const c = [1, 2] as const;`)
	if len(prog.Statements) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(prog.Statements))
	}

	init := func(i int) Expression {
		return prog.Statements[i].(*VariableDeclaration).Declarators[0].Init
	}
	if as, ok := init(0).(*AsExpression); !ok || as.Type.String() != "string" {
		t.Errorf("Expected as-expression to string, got %T %v", init(0), init(0))
	}
	if ta, ok := init(1).(*TypeAssertion); !ok || ta.Type.String() != "number" {
		t.Errorf("Expected type assertion to number, got %T %v", init(1), init(1))
	}
	if _, ok := init(2).(*OpaqueExpression); !ok {
		t.Errorf("Expected const assertion to stay opaque, got %T", init(2))
	}
}

func TestParseVariableKinds(t *testing.T) {
	prog := parse(t, "declare const x: number;\nlet y = 1;\nvar z;")
	want := []string{"const", "let", "var"}
	for i, stmt := range prog.Statements {
		decl := stmt.(*VariableDeclaration)
		if decl.Kind != want[i] {
			t.Errorf("statement %d: expected %s, got %s", i, want[i], decl.Kind)
		}
	}
	if !prog.Statements[0].(*VariableDeclaration).Declare {
		t.Error("Expected declare flag on ambient declaration")
	}
}

func TestParseSyntaxErrorKeepsGoodStatements(t *testing.T) {
	p, err := NewTSParser()
	if err != nil {
		t.Fatalf("NewTSParser: %v", err)
	}
	defer p.Close()

	prog, diags := p.ParseString("bad.ts", "type A = string;\ntype B = ;\ntype C = number;")
	if len(diags) == 0 {
		t.Fatal("Expected a syntax diagnostic")
	}
	if diags[0].Kind() != "Syntax" {
		t.Errorf("Expected Syntax diagnostic, got %s", diags[0].Kind())
	}
	var names []string
	for _, stmt := range prog.Statements {
		if decl, ok := stmt.(*TypeAliasDeclaration); ok {
			names = append(names, decl.Name.Name)
		}
	}
	if len(names) == 0 || names[0] != "A" {
		t.Errorf("Expected the leading declaration to survive, got %v", names)
	}
}
