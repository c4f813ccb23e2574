package checker

import (
	"testing"

	"tslower/pkg/config"
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

func TestLowerTypes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"number", "number"},
		{`"hi"`, `"hi"`},
		{"-1", "-1"},
		{"string[]", "string[]"},
		{"Array<string>", "string[]"},
		{"[string, number?, ...boolean[]]", "[string, number?, ...boolean[]]"},
		{"string | number | string", "string | number | string"},
		{"Map<string, ns.Value>", "Map<string, ns.Value>"},
		{"(string | number)[]", "(string | number)[]"},
		{"keyof Foo", "keyof Foo"},
		{"Foo[\"a\"]", "Foo[\"a\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := New()
			got, err := c.LowerType(aliasBody(t, tt.input))
			if err != nil {
				t.Fatalf("LowerType: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got.String())
			}
		})
	}
}

func TestLowerLiteralIsFixed(t *testing.T) {
	c := New()
	got, err := c.LowerType(aliasBody(t, `"a" | 1`))
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	for _, m := range got.(*types.Union).Types {
		if lit, ok := m.(*types.Literal); !ok || !lit.Fixed {
			t.Errorf("Expected a fixed literal, got %#v", m)
		}
	}
}

func TestTypeParamIdentityInConstraint(t *testing.T) {
	c := New()
	decls := declare(t, c, "type Box<T extends Wrapper<T>> = T;")
	alias := decls["Box"].(*types.Alias)

	p := alias.TypeParams.Params[0]
	if alias.Type != types.Type(p) {
		t.Errorf("Expected the body to be the declared placeholder, got %v", alias.Type)
	}
	ref, ok := p.Constraint.(*types.Ref)
	if !ok {
		t.Fatalf("Expected constraint to be a reference, got %T", p.Constraint)
	}
	if ref.TypeArgs[0] != types.Type(p) {
		t.Error("Expected the constraint argument to be the same placeholder")
	}
}

func TestTypeParamIdentityInInterface(t *testing.T) {
	c := New()
	decls := declare(t, c, "interface Node<T extends Node<T>> { value: T; next: Node<T> }")
	iface := decls["Node"].(*types.Interface)
	p := iface.TypeParams.Params[0]

	value := iface.Body[0].(*types.PropertySignature)
	if value.Type != types.Type(p) {
		t.Errorf("Expected member type to be the declared placeholder, got %v", value.Type)
	}
	next := iface.Body[1].(*types.PropertySignature).Type.(*types.Ref)
	if next.TypeArgs[0] != types.Type(p) {
		t.Error("Expected the self reference argument to be the declared placeholder")
	}
}

func TestMethodTypeParamShadowsInterfaceParam(t *testing.T) {
	c := New()
	decls := declare(t, c, "interface Box<T> { value: T; get<T>(x: T): T }")
	iface := decls["Box"].(*types.Interface)
	outer := iface.TypeParams.Params[0]

	method := iface.Body[1].(*types.MethodSignature)
	inner := method.TypeParams.Params[0]
	if inner == outer {
		t.Fatal("Expected the method to declare its own placeholder")
	}
	if method.Params[0].Type != types.Type(inner) || method.Ret != types.Type(inner) {
		t.Errorf("Expected method signature to use the method placeholder, got %s", method)
	}
	if iface.Body[0].(*types.PropertySignature).Type != types.Type(outer) {
		t.Error("Expected the property to keep the interface placeholder")
	}
	if got := len(c.Registry().Find("T")); got != 0 {
		t.Errorf("Expected placeholders to be popped with their scope, got %d bindings", got)
	}
}

func TestDuplicateTypeParams(t *testing.T) {
	c := New()
	prog := parseProgram(t, "type A<T, T> = T;")
	_, err := c.LowerAlias(prog.Statements[0].(*parser.TypeAliasDeclaration))
	if err == nil {
		t.Fatal("Expected duplicate type parameter error")
	}
	if d := errors.AsDiagnostic(err, zeroSpan); d.Code() != errors.CodeDuplicateIdentifier {
		t.Errorf("Expected TS2300, got TS%d", d.Code())
	}
}

func TestInferVisibleInTrueBranchOnly(t *testing.T) {
	c := New()
	got, err := c.LowerType(aliasBody(t, "T extends (infer U)[] ? U : U"))
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	cond := got.(*types.Conditional)
	if _, ok := cond.True.(*types.Param); !ok {
		t.Errorf("Expected U in the true branch to be the infer placeholder, got %T", cond.True)
	}
	if _, ok := cond.False.(*types.Ref); !ok {
		t.Errorf("Expected U in the false branch to stay a reference, got %T", cond.False)
	}
	if !types.ContainsInfer(got) {
		t.Error("Expected the conditional to contain infer")
	}
}

func TestInferInsideSignatures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"function return", "T extends (...a: any[]) => infer R ? R : never"},
		{"function parameter", "T extends (x: infer R) => void ? R : never"},
		{"constructor return", "T extends new (...a: any[]) => infer R ? R : never"},
		{"method return", "T extends { m(): infer R } ? R : never"},
		{"generic method", "T extends { m<X>(x: X): infer R } ? R : never"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got, err := c.LowerType(aliasBody(t, tt.input))
			if err != nil {
				t.Fatalf("LowerType: %v", err)
			}
			cond := got.(*types.Conditional)
			infer := findInfer(cond.Extends)
			if infer == nil {
				t.Fatalf("Expected an infer in %s", cond.Extends)
			}
			if cond.True != types.Type(infer.Param) {
				t.Errorf("Expected R in the true branch to be the infer placeholder, got %T (%s)", cond.True, cond.True)
			}
			if len(c.Registry().Find("R")) != 0 {
				t.Error("Expected R to be gone after lowering")
			}
		})
	}
}

func findInfer(t types.Type) *types.Infer {
	var found *types.Infer
	types.Walk(t, func(x types.Type) bool {
		if inf, ok := x.(*types.Infer); ok {
			found = inf
			return false
		}
		return true
	})
	return found
}

func TestMappedKeyIsScoped(t *testing.T) {
	c := New()
	got, err := c.LowerType(aliasBody(t, "{ [K in keyof T]: K }"))
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	mapped := got.(*types.Mapped)
	if mapped.Type != types.Type(mapped.Param) {
		t.Errorf("Expected the value type to be the key placeholder, got %v", mapped.Type)
	}
	if len(c.Registry().Find("K")) != 0 {
		t.Error("Expected the key placeholder to be gone after lowering")
	}
}

func TestLowerImportType(t *testing.T) {
	c := New()
	node := &parser.ImportTypeNode{
		Arg:       "./mod",
		Qualifier: &parser.EntityName{Parts: []string{"ns", "A"}},
		TypeArgs:  []parser.TypeNode{&parser.KeywordTypeNode{Kind: types.KwString}},
	}
	got, err := c.LowerType(node)
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	imp := got.(*types.Import)
	if imp.Arg != "./mod" || imp.Qualifier != "ns.A" || len(imp.TypeArgs) != 1 {
		t.Errorf("Unexpected import type %#v", imp)
	}
}

func TestNoImplicitAny(t *testing.T) {
	cfg := config.Default()
	cfg.NoImplicitAny = true
	c := New(WithConfig(cfg))

	declare(t, c, "interface I { a; m(x): void }")
	if !hasCode(c, errors.CodeMemberImplicitAny) {
		t.Errorf("Expected TS7008, got %v", codes(c))
	}
	if !hasCode(c, errors.CodeImplicitAny) {
		t.Errorf("Expected TS7006, got %v", codes(c))
	}
	if c.Diagnostics().HasFatal() {
		t.Error("Expected implicit any findings to be recoverable")
	}
}

func TestImplicitAnyIsSilentByDefault(t *testing.T) {
	c := New()
	decls := declare(t, c, "interface I { a; m(x): void }")
	if c.Diagnostics().Len() != 0 {
		t.Errorf("Expected no diagnostics, got %v", codes(c))
	}
	a := decls["I"].(*types.Interface).Body[0].(*types.PropertySignature)
	if !types.IsImplicitAny(a.Type) {
		t.Errorf("Expected implicit any, got %v", a.Type)
	}
}

func TestFunctionTypeParamsAreLocal(t *testing.T) {
	c := New()
	got, err := c.LowerType(aliasBody(t, "<T>(x: T, ...rest) => T"))
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	fn := got.(*types.Function)
	if fn.Params[0].Type != types.Type(fn.TypeParams.Params[0]) {
		t.Error("Expected parameter to use the signature placeholder")
	}
	rest := fn.Params[1]
	if !rest.Rest {
		t.Fatal("Expected a rest parameter")
	}
	if arr, ok := rest.Type.(*types.Array); !ok || !types.IsImplicitAny(arr.Elem) {
		t.Errorf("Expected an untyped rest parameter to be any[], got %v", rest.Type)
	}
}
