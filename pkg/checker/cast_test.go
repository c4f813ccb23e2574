package checker

import (
	goerrors "errors"
	"testing"

	"tslower/pkg/config"
	"tslower/pkg/errors"
	"tslower/pkg/types"
)

var (
	tString = types.NewKeyword(types.KwString, zeroSpan)
	tNumber = types.NewKeyword(types.KwNumber, zeroSpan)
	tBool   = types.NewKeyword(types.KwBoolean, zeroSpan)
)

func TestCheckCastPermission(t *testing.T) {
	tests := []struct {
		name   string
		orig   types.Type
		casted types.Type
		want   CastVerdict
	}{
		{"union member", types.NewUnion(zeroSpan, tString, tNumber), tNumber, CastPermitted},
		{"union without member", types.NewUnion(zeroSpan, tString, tNumber), tBool, CastDeferred},
		{"equal tuples", types.NewTuple(zeroSpan, tString, tNumber), types.NewTuple(zeroSpan, tString, tNumber), CastPermitted},
		{"empty tuples", types.NewTuple(zeroSpan), types.NewTuple(zeroSpan), CastPermitted},
		{"narrowing element", types.NewTuple(zeroSpan, types.NewUnion(zeroSpan, tString, tNumber)), types.NewTuple(zeroSpan, tNumber), CastPermitted},
		{"unrelated element", types.NewTuple(zeroSpan, tString), types.NewTuple(zeroSpan, tNumber), CastDeferred},
		{"widening element", types.NewTuple(zeroSpan, tNumber), types.NewTuple(zeroSpan, types.NewUnion(zeroSpan, tString, tNumber)), CastDeferred},
		{"mixed direction elements",
			types.NewTuple(zeroSpan, tString, types.NewUnion(zeroSpan, tString, tNumber)),
			types.NewTuple(zeroSpan, types.NewUnion(zeroSpan, tString, tNumber), tString),
			CastDeferred},
		{"nested length mismatch", types.NewTuple(zeroSpan, types.NewTuple(zeroSpan, tString)), types.NewTuple(zeroSpan, types.NewTuple(zeroSpan, tString, tString)), CastDeferred},
		{"tuple to array of first element", types.NewTuple(zeroSpan, tString, tNumber), &types.Array{Elem: tString}, CastPermitted},
		{"tuple to array of second element", types.NewTuple(zeroSpan, tString, tNumber), &types.Array{Elem: tNumber}, CastDeferred},
		{"empty tuple to array", types.NewTuple(zeroSpan), &types.Array{Elem: tNumber}, CastDeferred},
		{"keywords", tString, tNumber, CastDeferred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			got, err := c.CheckCastPermission(tt.orig, tt.casted)
			if err != nil {
				t.Fatalf("CheckCastPermission: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCheckCastPermissionTupleArity(t *testing.T) {
	c := New()
	_, err := c.CheckCastPermission(types.NewTuple(zeroSpan, tString, tNumber), types.NewTuple(zeroSpan, tString, tNumber, tBool))
	var tupleErr *errors.TupleCastError
	if !goerrors.As(err, &tupleErr) {
		t.Fatalf("Expected *TupleCastError, got %v", err)
	}
	if tupleErr.Want != 3 || tupleErr.Got != 2 {
		t.Errorf("Expected want 3 got 2, got want %d got %d", tupleErr.Want, tupleErr.Got)
	}
	if tupleErr.Code() != errors.CodeTupleCastArity {
		t.Errorf("Expected TS%d, got TS%d", errors.CodeTupleCastArity, tupleErr.Code())
	}
}

func TestValidateCastArityIsPositionedAtCast(t *testing.T) {
	c := New()
	prog := parseProgram(t, "const y = x as [string, number, boolean];")
	decl := varInit(t, prog.Statements[0])

	res, err := c.ValidateCastExpr(decl, stubTyper{"x": types.NewTuple(zeroSpan, tString, tNumber)})
	var tupleErr *errors.TupleCastError
	if !goerrors.As(err, &tupleErr) {
		t.Fatalf("Expected *TupleCastError, got %v", err)
	}
	if res.Verdict != CastRejected {
		t.Errorf("Expected %s, got %s", CastRejected, res.Verdict)
	}
	if tupleErr.Pos() != errors.At(decl.Span()) {
		t.Errorf("Expected error at %v, got %v", errors.At(decl.Span()), tupleErr.Pos())
	}
}

func TestValidateCastFallsBackToAssignability(t *testing.T) {
	tests := []struct {
		src     string
		orig    types.Type
		want    CastVerdict
		warning bool
	}{
		{"x as number[]", types.NewTuple(zeroSpan, tString, tNumber), CastRejected, true},
		{"x as (string | number)[]", types.NewTuple(zeroSpan, tString, tNumber), CastPermitted, false},
		{"x as [string | number, string]", types.NewTuple(zeroSpan, tString, types.NewUnion(zeroSpan, tString, tNumber)), CastRejected, true},
		{"x as [string | number]", types.NewTuple(zeroSpan, tNumber), CastPermitted, false},
		{"x as string", tNumber, CastRejected, true},
		{"x as string", types.NewKeyword(types.KwAny, zeroSpan), CastPermitted, false},
		{`x as "a"`, tString, CastPermitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c := New()
			prog := parseProgram(t, "const y = "+tt.src+";")
			res, err := c.ValidateCastExpr(varInit(t, prog.Statements[0]), stubTyper{"x": tt.orig})
			if err != nil {
				t.Fatalf("ValidateCastExpr: %v", err)
			}
			if res.Verdict != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, res.Verdict)
			}
			if hasCode(c, errors.CodeCastMayBeMistake) != tt.warning {
				t.Errorf("Expected TS2352 %v, got %v", tt.warning, codes(c))
			}
		})
	}
}

func TestValidateCastQuietWhenUnsafeCastsOff(t *testing.T) {
	cfg := config.Default()
	cfg.ReportUnsafeCasts = false
	c := New(WithConfig(cfg))
	prog := parseProgram(t, "const y = x as string;")
	res, err := c.ValidateCastExpr(varInit(t, prog.Statements[0]), stubTyper{"x": tNumber})
	if err != nil {
		t.Fatalf("ValidateCastExpr: %v", err)
	}
	if res.Verdict != CastRejected {
		t.Errorf("Expected %s, got %s", CastRejected, res.Verdict)
	}
	if c.Diagnostics().Len() != 0 {
		t.Errorf("Expected no diagnostics, got %v", codes(c))
	}
}

func TestValidateCastFreezesTarget(t *testing.T) {
	c := New()
	prog := parseProgram(t, "const y = x as <T>(v: T) => T;")
	res, err := c.ValidateCastExpr(varInit(t, prog.Statements[0]), stubTyper{})
	if err != nil {
		t.Fatalf("ValidateCastExpr: %v", err)
	}
	if !types.IsFrozen(res.Type) {
		t.Errorf("Expected frozen cast target, got %s", res.Type)
	}
}
