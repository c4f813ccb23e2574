package checker

import (
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// validateComputedKey checks that a computed member key names something
// with a literal or unique symbol type. References to const enum members
// are recorded in ConstEnumRefs.
func (c *Checker) validateComputedKey(key parser.Expression, inInterface bool) error {
	switch k := key.(type) {
	case *parser.StringLiteral, *parser.NumberLiteral:
		return nil

	case *parser.ParenthesizedExpression:
		return c.validateComputedKey(k.Expr, inInterface)

	case *parser.Identifier:
		v, ok := c.values.ResolveValue(k.Name)
		if !ok {
			return errors.NewTypeError(k.Loc, errors.CodeCannotFindName, "Cannot find name '%s'.", k.Name)
		}
		if v.Kind == ValueVar && isKeyType(v.Type) {
			return nil
		}

	case *parser.MemberExpression:
		obj, ok := k.Object.(*parser.Identifier)
		if !ok {
			break
		}
		if obj.Name == "Symbol" {
			if _, shadowed := c.values.ResolveValue("Symbol"); !shadowed {
				return nil
			}
		}
		v, ok := c.values.ResolveValue(obj.Name)
		if !ok {
			return errors.NewTypeError(obj.Loc, errors.CodeCannotFindName, "Cannot find name '%s'.", obj.Name)
		}
		if v.Kind != ValueEnum {
			break
		}
		if _, ok := v.Member(k.Property.Name); !ok {
			return errors.NewTypeError(k.Property.Loc, errors.CodePropertyDoesNotExist,
				"Property '%s' does not exist on type 'typeof %s'.", k.Property.Name, obj.Name)
		}
		if v.Const {
			c.ConstEnumRefs = append(c.ConstEnumRefs, ConstEnumRef{Enum: v.Name, Member: k.Property.Name, Loc: k.Loc})
		}
		return nil
	}

	if inInterface {
		return errors.NewTypeError(key.Span(), errors.CodeComputedKeyInterface,
			"A computed property name in an interface must refer to an expression whose type is a literal type or a 'unique symbol' type.")
	}
	return errors.NewTypeError(key.Span(), errors.CodeComputedKeyTypeLiteral,
		"A computed property name in a type literal must refer to an expression whose type is a literal type or a 'unique symbol' type.")
}

func isKeyType(t types.Type) bool {
	switch t := t.(type) {
	case *types.Literal:
		return true
	case *types.Operator:
		return t.Op == types.OpUnique
	}
	return false
}
