package checker

import (
	goerrors "errors"
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

// CastVerdict is the outcome of checking `expr as T`.
type CastVerdict uint8

const (
	// CastDeferred means the structural rules have no opinion and
	// assignability decides.
	CastDeferred CastVerdict = iota
	CastPermitted
	CastRejected
)

func (v CastVerdict) String() string {
	switch v {
	case CastPermitted:
		return "permitted"
	case CastRejected:
		return "rejected"
	default:
		return "deferred"
	}
}

// CastResult is the lowered cast target and the final verdict.
type CastResult struct {
	Type    types.Type
	Verdict CastVerdict
}

// CheckCastPermission applies the structural cast rules to an expanded
// source type and an expanded, frozen target type:
//
//  1. a union source with a member equal to the target is permitted;
//  2. a tuple to a tuple of the same length is permitted when every element
//     pair is castable, and a length mismatch is an error;
//  3. a tuple to an array is permitted when the first tuple element equals
//     the array element type.
//
// Anything else is deferred to assignability.
func (c *Checker) CheckCastPermission(orig, casted types.Type) (CastVerdict, error) {
	if u, ok := orig.(*types.Union); ok {
		for _, m := range u.Types {
			if m.Equals(casted) {
				return CastPermitted, nil
			}
		}
	}

	switch target := casted.(type) {
	case *types.Tuple:
		src, ok := orig.(*types.Tuple)
		if !ok {
			break
		}
		if len(src.Elems) != len(target.Elems) {
			return CastDeferred, &errors.TupleCastError{
				Position: errors.At(target.Loc),
				Left:     target.Loc,
				Right:    src.Loc,
				Want:     len(target.Elems),
				Got:      len(src.Elems),
			}
		}
		for i, el := range target.Elems {
			if !c.elementCastable(src.Elems[i].Type, el.Type) {
				debugPrintf("// [Cast] element %d of %s is not castable to %s\n", i, src, target)
				return CastDeferred, nil
			}
		}
		return CastPermitted, nil

	case *types.Array:
		if src, ok := orig.(*types.Tuple); ok && len(src.Elems) > 0 && src.Elems[0].Type.Equals(target.Elem) {
			return CastPermitted, nil
		}
	}
	return CastDeferred, nil
}

// elementCastable decides one element pair of a tuple cast with the same
// rules plus structural equality. Assignability is never consulted here; a
// pair the rules do not permit defers the whole tuple. A nested length
// mismatch makes the element not castable rather than failing the cast.
func (c *Checker) elementCastable(orig, casted types.Type) bool {
	if orig.Equals(casted) {
		return true
	}
	verdict, err := c.CheckCastPermission(orig, casted)
	return err == nil && verdict == CastPermitted
}

// ValidateCast checks a cast of a value of type orig to the syntactic type
// target. A tuple length mismatch is returned as *errors.TupleCastError
// positioned at the cast. When the structural rules defer and neither type
// is assignable to the other the cast is rejected, and TS2352 is recorded if
// unsafe casts are reported.
func (c *Checker) ValidateCast(span source.Span, orig types.Type, target parser.TypeNode) (CastResult, error) {
	origX, err := c.ExpandFully(orig)
	if err != nil {
		return CastResult{}, fmt.Errorf("cast source: %w", err)
	}
	casted, err := c.LowerType(target)
	if err != nil {
		return CastResult{}, fmt.Errorf("cast target: %w", err)
	}
	castedX, err := c.ExpandFully(casted)
	if err != nil {
		return CastResult{}, fmt.Errorf("cast target: %w", err)
	}
	castedX = types.FreezeParams(castedX)
	result := CastResult{Type: castedX}

	verdict, err := c.CheckCastPermission(origX, castedX)
	if err != nil {
		var tupleErr *errors.TupleCastError
		if goerrors.As(err, &tupleErr) {
			tupleErr.Position = errors.At(span)
		}
		result.Verdict = CastRejected
		return result, err
	}

	if verdict == CastDeferred {
		verdict = CastPermitted
		if !c.assigner.IsAssignable(origX, castedX) && !c.assigner.IsAssignable(castedX, origX) {
			verdict = CastRejected
			if c.reportUnsafeCasts {
				c.diags.Recover(errors.NewTypeError(span, errors.CodeCastMayBeMistake,
					"Conversion of type '%s' to type '%s' may be a mistake because neither type sufficiently overlaps with the other.",
					origX, castedX))
			}
		}
	}
	result.Verdict = verdict
	debugPrintf("// [Cast] %s as %s: %s\n", origX, castedX, verdict)
	return result, nil
}

// ValidateCastExpr validates an `as` expression or a `<T>` assertion, asking
// typer for the type of the operand.
func (c *Checker) ValidateCastExpr(expr parser.Expression, typer ExprTyper) (CastResult, error) {
	var operand parser.Expression
	var target parser.TypeNode
	switch e := expr.(type) {
	case *parser.AsExpression:
		operand, target = e.Expr, e.Type
	case *parser.TypeAssertion:
		operand, target = e.Expr, e.Type
	case *parser.ParenthesizedExpression:
		return c.ValidateCastExpr(e.Expr, typer)
	default:
		return CastResult{}, internalError(expr)
	}
	orig, err := typer.TypeOfExpr(operand)
	if err != nil {
		return CastResult{}, err
	}
	return c.ValidateCast(expr.Span(), orig, target)
}

// IsCast reports whether expr, ignoring parentheses, is a type cast.
func IsCast(expr parser.Expression) bool {
	switch e := expr.(type) {
	case *parser.AsExpression, *parser.TypeAssertion:
		return true
	case *parser.ParenthesizedExpression:
		return IsCast(e.Expr)
	}
	return false
}
