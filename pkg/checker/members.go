package checker

import (
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// lowerMembers lowers an interface body or type literal member by member.
// Property failures are repaired and recorded; other failures abort the body.
func (c *Checker) lowerMembers(members []parser.TypeMember, inInterface bool) ([]types.TypeElement, error) {
	out := make([]types.TypeElement, 0, len(members))
	for _, m := range members {
		el, err := c.lowerMember(m, inInterface)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (c *Checker) lowerMember(m parser.TypeMember, inInterface bool) (types.TypeElement, error) {
	switch m := m.(type) {
	case *parser.PropertySignature:
		return c.lowerPropertySignature(m, inInterface), nil

	case *parser.MethodSignature:
		method := &types.MethodSignature{Loc: m.Loc, Readonly: m.Readonly, Key: memberKey(m.Key, m.Computed), Optional: m.Optional}
		err := c.withChild(ScopeFn, func() error {
			if m.Computed {
				if err := c.validateComputedKey(m.Key, inInterface); err != nil {
					c.recover(err, m.Key.Span())
				}
			}
			sig, err := c.lowerSignature(m.TypeParams, m.Params, m.ReturnType)
			method.Signature = sig
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", method.Key, err)
		}
		return method, nil

	case *parser.CallSignature:
		call := &types.CallSignature{Loc: m.Loc}
		err := c.withChild(ScopeFn, func() error {
			sig, err := c.lowerSignature(m.TypeParams, m.Params, m.ReturnType)
			call.Signature = sig
			return err
		})
		if err != nil {
			return nil, err
		}
		return call, nil

	case *parser.ConstructSignature:
		ctor := &types.ConstructSignature{Loc: m.Loc}
		err := c.withChild(ScopeFn, func() error {
			sig, err := c.lowerSignature(m.TypeParams, m.Params, m.ReturnType)
			ctor.Signature = sig
			return err
		})
		if err != nil {
			return nil, err
		}
		return ctor, nil

	case *parser.IndexSignature:
		idx := &types.IndexSignature{Loc: m.Loc, Readonly: m.Readonly, Params: make([]*types.FnParam, len(m.Params))}
		for i, p := range m.Params {
			fp, err := c.lowerParam(p)
			if err != nil {
				return nil, err
			}
			idx.Params[i] = fp
		}
		if m.TypeAnn != nil {
			t, err := c.lowerAnnotation(m.TypeAnn)
			if err != nil {
				return nil, err
			}
			idx.Type = t
		}
		return idx, nil

	default:
		return nil, internalError(m)
	}
}

// lowerPropertySignature never fails. A bad computed key, a missing
// annotation or an annotation that does not lower all leave the property
// typed `any`, and the syntax node is given the same synthetic annotation.
func (c *Checker) lowerPropertySignature(m *parser.PropertySignature, inInterface bool) *types.PropertySignature {
	prop := &types.PropertySignature{Loc: m.Loc, Readonly: m.Readonly, Key: memberKey(m.Key, m.Computed), Optional: m.Optional}

	repair := func() {
		m.TypeAnn = implicitAnnotation(anyNode(m))
		prop.Type = types.ImplicitAny(m.Loc)
	}

	if m.Computed && !c.isBuiltin {
		if err := c.validateComputedKey(m.Key, inInterface); err != nil {
			c.recover(err, m.Key.Span())
			repair()
			return prop
		}
	}

	if m.TypeAnn == nil {
		repair()
		if c.noImplicitAny {
			c.diags.Recover(errors.NewTypeError(m.Loc, errors.CodeMemberImplicitAny,
				"Member '%s' implicitly has an 'any' type.", prop.Key))
		}
		return prop
	}

	t, err := c.lowerAnnotation(m.TypeAnn)
	if err != nil {
		c.recover(err, m.Loc)
		repair()
		return prop
	}
	prop.Type = t
	return prop
}

// memberKey names a member the way the printed type shows it.
func memberKey(key parser.Expression, computed bool) types.Key {
	if computed {
		return types.Key{Name: key.String(), Computed: true}
	}
	switch k := key.(type) {
	case *parser.Identifier:
		return types.Key{Name: k.Name}
	case *parser.StringLiteral:
		return types.Key{Name: k.Value}
	case *parser.NumberLiteral:
		return types.Key{Name: k.Raw}
	}
	return types.Key{Name: key.String()}
}
