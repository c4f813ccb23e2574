package checker

import (
	"testing"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

func TestLowerEnum(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"enum E { A, B = 5, C }", "0 | 5 | 6"},
		{`enum E { Up = "UP", Down = "DOWN" }`, `"UP" | "DOWN"`},
		{"enum E { Only }", "0"},
		{"enum E {}", "never"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := New()
			decls := declare(t, c, tt.input)
			alias := decls["E"].(*types.Alias)
			if alias.Type.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, alias.Type.String())
			}
			v, ok := c.ResolveValue("E")
			if !ok || v.Kind != ValueEnum {
				t.Fatalf("Expected E to be bound as an enum value, got %v", v)
			}
		})
	}
}

func TestLowerEnumDuplicateMember(t *testing.T) {
	c := New()
	prog := parseProgram(t, "enum E { A, A }")
	_, err := c.LowerEnum(prog.Statements[0].(*parser.EnumDeclaration))
	if err == nil {
		t.Fatal("Expected a duplicate member error")
	}
	if d := errors.AsDiagnostic(err, zeroSpan); d.Code() != errors.CodeDuplicateIdentifier {
		t.Errorf("Expected TS2300, got TS%d", d.Code())
	}
}

func TestAliasExpansionMarks(t *testing.T) {
	c := New()
	decls := declare(t, c, "type A = Foo<string>;\ntype B<T> = T extends (infer U)[] ? Foo<U> : never;")
	if !decls["A"].(*types.Alias).NoExpand {
		t.Error("Expected a plain alias to be marked non-expandable")
	}
	if !decls["A"].(*types.Alias).Type.(*types.Ref).NoExpand {
		t.Error("Expected references in a plain alias to be marked non-expandable")
	}
	if decls["B"].(*types.Alias).NoExpand {
		t.Error("Expected an alias containing infer to stay expandable")
	}
}

func TestDuplicateAlias(t *testing.T) {
	c := New()
	declare(t, c, "type A = string;")
	prog := parseProgram(t, "type A = number;")
	if _, err := c.LowerAlias(prog.Statements[0].(*parser.TypeAliasDeclaration)); err == nil {
		t.Error("Expected a duplicate identifier error")
	}
}

func TestInterfaceMerging(t *testing.T) {
	c := New()
	declare(t, c, "interface I { a: string }\ninterface I { b: number }")
	if got := len(c.Registry().Find("I")); got != 2 {
		t.Fatalf("Expected 2 declarations, got %d", got)
	}
	members, ok := c.FlattenMembers(&types.Ref{Name: "I"})
	if !ok || len(members) != 2 {
		t.Errorf("Expected 2 merged members, got %v", members)
	}
}

func TestInterfaceExtendsDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  errors.Code
	}{
		{"self", "interface A extends A {}", errors.CodeRecursiveBaseType},
		{"cycle", "interface B extends C {}\ninterface C extends B {}", errors.CodeRecursiveBaseType},
		{"primitive alias", "type P = string;\ninterface I extends P {}", errors.CodeInterfaceExtendsObject},
		{"union alias", "type U = { a: string } | { b: string };\ninterface I extends U {}", errors.CodeInterfaceExtendsObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			declare(t, c, tt.input)
			if !hasCode(c, tt.want) {
				t.Errorf("Expected TS%d, got %v", tt.want, codes(c))
			}
			if c.Diagnostics().HasFatal() {
				t.Error("Expected extends findings to be recoverable")
			}
		})
	}
}

func TestInterfaceExtendsValid(t *testing.T) {
	tests := []string{
		"interface A { a: string }\ninterface B extends A { b: number }",
		"type O = { a: string } & { b: number };\ninterface I extends O {}",
		"interface Later extends NotYetDeclared {}",
		"interface G<T> { v: T }\ninterface S extends G<string> {}",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			c := New()
			declare(t, c, input)
			if c.Diagnostics().Len() != 0 {
				t.Errorf("Expected no diagnostics, got %v", codes(c))
			}
		})
	}
}

func TestFlattenInheritedMembers(t *testing.T) {
	c := New()
	declare(t, c, "interface A { a: string; shared: number }\ninterface B extends A { b: number; shared: 1 }")

	members, ok := c.FlattenMembers(&types.Ref{Name: "B"})
	if !ok {
		t.Fatal("Expected B to have members")
	}
	if len(members) != 3 {
		t.Fatalf("Expected 3 members, got %d", len(members))
	}
	shared, _ := types.FindProperty(members, "shared")
	if got := shared.(*types.PropertySignature).Type.String(); got != "1" {
		t.Errorf("Expected own member to win, got %q", got)
	}

	lit, err := c.LowerType(aliasBody(t, "{ a: string; b: number; shared: 1 }"))
	if err != nil {
		t.Fatalf("LowerType: %v", err)
	}
	if !c.assigner.IsAssignable(lit, &types.Ref{Name: "B"}) {
		t.Error("Expected a matching object literal type to be assignable to B")
	}
}

func TestComputedKeys(t *testing.T) {
	decls := `declare const k: "name";
declare const sym: unique symbol;
declare const s: string;
enum Color { Red, Green }
const enum Flag { On = 1 }
`
	tests := []struct {
		name   string
		member string
		want   errors.Code
	}{
		{"string literal", `["x"]: string`, errors.CodeNone},
		{"literal constant", "[k]: string", errors.CodeNone},
		{"unique symbol", "[sym]: string", errors.CodeNone},
		{"well-known symbol", "[Symbol.iterator]: string", errors.CodeNone},
		{"enum member", "[Color.Red]: string", errors.CodeNone},
		{"missing name", "[nope]: string", errors.CodeCannotFindName},
		{"missing enum", "[Nope.Red]: string", errors.CodeCannotFindName},
		{"missing enum member", "[Color.Blue]: string", errors.CodePropertyDoesNotExist},
		{"widened constant", "[s]: string", errors.CodeComputedKeyInterface},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			declare(t, c, decls+"interface I { "+tt.member+" }")
			got := codes(c)
			if tt.want == errors.CodeNone {
				if len(got) != 0 {
					t.Errorf("Expected no diagnostics, got %v", got)
				}
				return
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Expected TS%d, got %v", tt.want, got)
			}
		})
	}
}

func TestComputedKeyInTypeLiteral(t *testing.T) {
	c := New()
	declare(t, c, "declare const s: string;\ntype T = { [s]: number };")
	if got := codes(c); len(got) != 1 || got[0] != errors.CodeComputedKeyTypeLiteral {
		t.Errorf("Expected TS1170, got %v", got)
	}
}

func TestConstEnumReferencesAreRecorded(t *testing.T) {
	c := New()
	declare(t, c, "const enum Flag { On = 1, Off = 0 }\nenum Plain { A }\ninterface I { [Flag.On]: string; [Plain.A]: number; [Flag.Off]: boolean }")
	if len(c.ConstEnumRefs) != 2 {
		t.Fatalf("Expected 2 const enum references, got %d", len(c.ConstEnumRefs))
	}
	if c.ConstEnumRefs[0].Member != "On" || c.ConstEnumRefs[1].Member != "Off" {
		t.Errorf("Expected On then Off, got %+v", c.ConstEnumRefs)
	}
}

func TestBuiltinSkipsComputedKeyValidation(t *testing.T) {
	c := New(WithBuiltin(true))
	declare(t, c, "interface I { [missing]: string }")
	if c.Diagnostics().Len() != 0 {
		t.Errorf("Expected no diagnostics for built-in declarations, got %v", codes(c))
	}
}
