package driver

import (
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// exprTyper gives cast operands and unannotated initializers a type. It only
// knows what the type layer can see: bound values, literals, array literals,
// enum members and nested casts. Anything else is any.
type exprTyper struct {
	s *Session
}

func (e *exprTyper) TypeOfExpr(expr parser.Expression) (types.Type, error) {
	c := e.s.checker
	switch x := expr.(type) {
	case *parser.Identifier:
		if x.Name == "undefined" {
			return types.NewKeyword(types.KwUndefined, x.Loc), nil
		}
		v, ok := c.ResolveValue(x.Name)
		if !ok {
			return nil, errors.NewTypeError(x.Loc, errors.CodeCannotFindName, "Cannot find name '%s'.", x.Name)
		}
		return v.Type, nil

	case *parser.StringLiteral:
		return &types.Literal{Loc: x.Loc, Kind: types.LitString, Value: x.Value}, nil
	case *parser.NumberLiteral:
		return &types.Literal{Loc: x.Loc, Kind: types.LitNumber, Value: x.Raw}, nil
	case *parser.BooleanLiteral:
		value := "false"
		if x.Value {
			value = "true"
		}
		return &types.Literal{Loc: x.Loc, Kind: types.LitBool, Value: value}, nil
	case *parser.NullLiteral:
		return types.NewKeyword(types.KwNull, x.Loc), nil

	case *parser.ArrayLiteral:
		elems := make([]types.Type, len(x.Elements))
		for i, el := range x.Elements {
			if el == nil {
				elems[i] = types.NewKeyword(types.KwUndefined, x.Loc)
				continue
			}
			t, err := e.TypeOfExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = types.GetWidenedType(t)
		}
		return types.NewTuple(x.Loc, elems...), nil

	case *parser.ParenthesizedExpression:
		return e.TypeOfExpr(x.Expr)

	case *parser.AsExpression, *parser.TypeAssertion:
		res, err := c.ValidateCastExpr(x, e)
		if err != nil {
			return nil, err
		}
		return res.Type, nil

	case *parser.MemberExpression:
		if obj, ok := x.Object.(*parser.Identifier); ok {
			if v, ok := c.ResolveValue(obj.Name); ok {
				if t, ok := v.Member(x.Property.Name); ok {
					return t, nil
				}
			}
		}

	case *parser.ArrowFunction:
		fn, err := c.LowerFunction(x.Loc, x.TypeParams, x.Params, x.ReturnType)
		if err != nil {
			return nil, err
		}
		return fn, nil
	}
	return types.NewKeyword(types.KwAny, expr.Span()), nil
}
