package types

import (
	"testing"

	"tslower/pkg/source"
)

func TestTypeString(t *testing.T) {
	tp := &Param{Name: "T"}
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"keyword", Number, "number"},
		{"string literal", &Literal{Kind: LitString, Value: "a"}, `"a"`},
		{"bigint literal", &Literal{Kind: LitBigInt, Value: "10"}, "10n"},
		{"array of union", &Array{Elem: &Union{Types: []Type{String, Number}}}, "(string | number)[]"},
		{"labelled tuple", &Tuple{Elems: []*TupleElement{
			{Label: "a", Type: String},
			{Label: "b", Type: &Optional{Type: Number}},
			{Label: "c", Type: &Rest{Type: &Array{Elem: Boolean}}},
		}}, "[a: string, b?: number, ...c: boolean[]]"},
		{"function", &Function{Signature: Signature{
			TypeParams: &TypeParamDecl{Params: []*Param{tp}},
			Params:     []*FnParam{{Name: "x", Type: tp}, {Name: "rest", Rest: true, Type: &Array{Elem: Any}}},
			Ret:        tp,
		}}, "<T>(x: T, ...rest: any[]) => T"},
		{"constructor", &Constructor{Abstract: true, Signature: Signature{Ret: Object}}, "abstract new () => object"},
		{"type literal", &TypeLit{Members: []TypeElement{
			&PropertySignature{Readonly: true, Key: Key{Name: "a"}, Optional: true, Type: String},
			&MethodSignature{Key: Key{Name: "Symbol.iterator", Computed: true}, Signature: Signature{Ret: Any}},
			&IndexSignature{Params: []*FnParam{{Name: "k", Type: String}}, Type: Number},
			&PropertySignature{Key: Key{Name: "y"}},
		}}, "{ readonly a?: string; [Symbol.iterator](): any; [k: string]: number; y }"},
		{"conditional", &Conditional{Check: tp, Extends: String, True: &Literal{Kind: LitBool, Value: "true"}, False: Never}, "T extends string ? true : never"},
		{"mapped", &Mapped{Readonly: ModMinus, Optional: ModPresent, Param: &Param{Name: "K", Constraint: &Operator{Op: OpKeyOf, Type: tp}}, Type: &IndexedAccess{Object: tp, Index: &Param{Name: "K"}}}, "{ -readonly [K in keyof T]?: T[K] }"},
		{"query", &Query{Expr: "a.b"}, "typeof a.b"},
		{"import", &Import{Arg: "m", Qualifier: "A", TypeArgs: []Type{String}}, `import("m").A<string>`},
		{"predicate", &Predicate{Asserts: true, Param: "x", Type: String}, "asserts x is string"},
		{"reference", &Ref{Name: "Map", TypeArgs: []Type{String, Number}}, "Map<string, number>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEqualsIgnoresSpansAndProvenance(t *testing.T) {
	a := NewKeyword(KwAny, source.Span{Start: 1, End: 4})
	b := ImplicitAny(source.Span{Start: 10, End: 13})
	if !a.Equals(b) {
		t.Error("explicit and implicit any should compare equal")
	}

	l1 := &Literal{Kind: LitNumber, Value: "1.0"}
	l2 := &Literal{Kind: LitNumber, Value: "1", Fixed: true}
	if !l1.Equals(l2) {
		t.Error("numerically equal literals should compare equal")
	}
	if l1.Equals(&Literal{Kind: LitString, Value: "1"}) {
		t.Error("literals of different kinds should differ")
	}
}

func TestUnionEqualsIsSetLike(t *testing.T) {
	u1 := &Union{Types: []Type{String, Number}}
	u2 := &Union{Types: []Type{Number, String, Number}}
	if !u1.Equals(u2) {
		t.Error("unions with the same members should be equal regardless of order and duplicates")
	}
	if u1.Equals(&Union{Types: []Type{String, Boolean}}) {
		t.Error("unions with different members should differ")
	}
	if !u1.ContainsType(Number) || u1.ContainsType(Boolean) {
		t.Error("ContainsType mismatch")
	}
}

func TestNewUnion(t *testing.T) {
	got := NewUnion(source.NoSpan, String, &Union{Types: []Type{Number, String}}, Never)
	u, ok := got.(*Union)
	if !ok {
		t.Fatalf("Expected union, got %T", got)
	}
	if len(u.Types) != 2 || u.String() != "string | number" {
		t.Errorf("Expected 'string | number', got %s", u)
	}
	if single := NewUnion(source.NoSpan, String, String); single != Type(String) {
		t.Errorf("Expected single member, got %s", single)
	}
	if empty := NewUnion(source.NoSpan); !isKeyword(empty, KwNever) {
		t.Errorf("Expected never, got %s", empty)
	}
}

func TestTupleEqualsIgnoresLabels(t *testing.T) {
	a := &Tuple{Elems: []*TupleElement{{Label: "x", Type: String}}}
	b := &Tuple{Elems: []*TupleElement{{Type: String}}}
	if !a.Equals(b) {
		t.Error("labels should not affect tuple equality")
	}
	if a.Equals(NewTuple(source.NoSpan, String, String)) {
		t.Error("tuples of different arity should differ")
	}
}

func TestTupleShape(t *testing.T) {
	tup := NewTuple(source.NoSpan, String, &Optional{Type: Number}, &Rest{Type: &Array{Elem: Boolean}})
	if tup.MinLength() != 1 {
		t.Errorf("Expected min length 1, got %d", tup.MinLength())
	}
	if !tup.HasRest() {
		t.Error("Expected rest element")
	}
}

func TestParseKeyword(t *testing.T) {
	for _, name := range []string{"any", "unknown", "number", "string", "boolean", "bigint", "symbol", "object", "void", "undefined", "null", "never", "intrinsic"} {
		kind, ok := ParseKeyword(name)
		if !ok {
			t.Errorf("ParseKeyword(%q) failed", name)
			continue
		}
		if kind.String() != name {
			t.Errorf("Expected %q, got %q", name, kind.String())
		}
	}
	if _, ok := ParseKeyword("Number"); ok {
		t.Error("keyword names are case-sensitive")
	}
}
