package types

import (
	"testing"

	"tslower/pkg/source"
)

func TestParamDeclaration(t *testing.T) {
	param := &Param{Name: "T"}
	if param.String() != "T" {
		t.Errorf("Expected 'T', got '%s'", param.String())
	}
	if param.Declaration() != "T" {
		t.Errorf("Expected 'T', got '%s'", param.Declaration())
	}

	constrained := &Param{Name: "U", Constraint: String, Default: &Literal{Kind: LitString, Value: "x"}}
	if got := constrained.Declaration(); got != `U extends string = "x"` {
		t.Errorf("Expected 'U extends string = \"x\"', got '%s'", got)
	}

	decl := &TypeParamDecl{Params: []*Param{param, constrained}}
	if got := decl.String(); got != `<T, U extends string = "x">` {
		t.Errorf("Unexpected declaration string: %s", got)
	}
	var empty *TypeParamDecl
	if empty.Len() != 0 || empty.String() != "" {
		t.Error("nil TypeParamDecl should be empty")
	}
}

func TestParamEquality(t *testing.T) {
	p := &Param{Name: "T"}
	if !p.Equals(p) {
		t.Error("placeholder should equal itself")
	}
	if !p.Equals(&Param{Name: "T"}) {
		t.Error("placeholders with the same name should be equal")
	}
	if p.Equals(&Param{Name: "U"}) {
		t.Error("placeholders with different names should not be equal")
	}
	if p.Equals(String) {
		t.Error("placeholder should not equal a keyword")
	}
}

func TestSubstitution(t *testing.T) {
	a := &Param{Name: "A"}
	b := &Param{Name: "B"}
	pair := NewTuple(source.NoSpan, a, b)

	got := Substitute(pair, map[*Param]Type{a: String, b: Number})
	want := NewTuple(source.NoSpan, String, Number)
	if !got.Equals(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
	// The input tree is untouched.
	if pair.Elems[0].Type != Type(a) {
		t.Error("Substitute mutated its input")
	}
}

func TestSubstitutionMatchesByIdentity(t *testing.T) {
	outer := &Param{Name: "T"}
	shadow := &Param{Name: "T"}
	fn := &Function{Signature: Signature{
		Params: []*FnParam{{Name: "x", Type: outer}},
		Ret:    shadow,
	}}

	got := Substitute(fn, map[*Param]Type{outer: Number}).(*Function)
	if !got.Params[0].Type.Equals(Number) {
		t.Errorf("Expected outer T replaced, got %s", got.Params[0].Type)
	}
	if got.Ret != Type(shadow) {
		t.Errorf("Expected shadowing T kept, got %s", got.Ret)
	}
}

func TestSubstitutionInMappedKeyConstraint(t *testing.T) {
	obj := &Param{Name: "T"}
	key := &Param{Name: "K", Constraint: &Operator{Op: OpKeyOf, Type: obj}}
	mapped := &Mapped{Param: key, Type: &IndexedAccess{Object: obj, Index: key}}

	lit := &TypeLit{Members: []TypeElement{&PropertySignature{Key: Key{Name: "a"}, Type: Number}}}
	got := Substitute(mapped, map[*Param]Type{obj: lit}).(*Mapped)

	if got.Param == key {
		t.Fatal("mapped key parameter should be rebuilt")
	}
	if want := "keyof { a: number }"; got.Param.Constraint.String() != want {
		t.Errorf("Expected constraint %q, got %q", want, got.Param.Constraint)
	}
	ia := got.Type.(*IndexedAccess)
	if ia.Index != Type(got.Param) {
		t.Error("index should reference the rebuilt key parameter")
	}
}

func TestInstantiateUsesDefaults(t *testing.T) {
	a := &Param{Name: "A"}
	b := &Param{Name: "B"}
	b.Default = &Array{Elem: a}
	decl := &TypeParamDecl{Params: []*Param{a, b}}

	subst := Instantiate(decl, []Type{String})
	if !subst[a].Equals(String) {
		t.Errorf("Expected A = string, got %s", subst[a])
	}
	if got := subst[b].String(); got != "string[]" {
		t.Errorf("Expected B = string[], got %s", got)
	}

	subst = Instantiate(&TypeParamDecl{Params: []*Param{{Name: "X"}}}, nil)
	for _, v := range subst {
		if !IsAny(v) {
			t.Errorf("missing argument without default should be any, got %s", v)
		}
	}
}

func TestContainsInfer(t *testing.T) {
	u := &Param{Name: "U"}
	cond := &Conditional{
		Check:   &Param{Name: "T"},
		Extends: &Array{Elem: &Infer{Param: u}},
		True:    u,
		False:   Never,
	}
	if !ContainsInfer(cond) {
		t.Error("conditional with infer should report true")
	}
	if ContainsInfer(&Union{Types: []Type{String, Number}}) {
		t.Error("union without infer should report false")
	}
	nested := &TypeLit{Members: []TypeElement{&PropertySignature{Key: Key{Name: "x"}, Type: cond}}}
	if !ContainsInfer(nested) {
		t.Error("infer nested in a member should be found")
	}
}
