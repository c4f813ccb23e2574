package checker

import (
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// lowerTypeParams lowers a type parameter list and registers every
// parameter in the current scope.
//
// Outside built-in declarations all names are registered as open
// placeholders before any constraint or default is lowered, so
// `<T extends Node<T>>` and `<A = B, B = string>` resolve to the same
// placeholders the declaration owns. The placeholder is then completed in
// place and registered again, which the registry treats as a no-op.
func (c *Checker) lowerTypeParams(decl *parser.TypeParamDeclNode, builtin bool) (*types.TypeParamDecl, error) {
	if decl == nil {
		return nil, nil
	}
	seen := make(map[string]bool, len(decl.Params))
	for _, p := range decl.Params {
		if seen[p.Name.Name] {
			return nil, errors.NewTypeError(p.Name.Loc, errors.CodeDuplicateIdentifier, "Duplicate identifier '%s'.", p.Name.Name)
		}
		seen[p.Name.Name] = true
	}

	out := &types.TypeParamDecl{Loc: decl.Loc, Params: make([]*types.Param, len(decl.Params))}

	if builtin {
		for i, node := range decl.Params {
			param, err := c.lowerTypeParam(node, &types.Param{Loc: node.Loc, Name: node.Name.Name})
			if err != nil {
				return nil, err
			}
			if err := c.env.Register(param.Name, param); err != nil {
				return nil, err
			}
			out.Params[i] = param
		}
		return out, nil
	}

	for i, node := range decl.Params {
		param := &types.Param{Loc: node.Loc, Name: node.Name.Name}
		if err := c.env.Register(param.Name, param); err != nil {
			return nil, err
		}
		out.Params[i] = param
	}
	for i, node := range decl.Params {
		param, err := c.lowerTypeParam(node, out.Params[i])
		if err != nil {
			return nil, err
		}
		if err := c.env.Register(param.Name, param); err != nil {
			return nil, err
		}
	}
	debugPrintf("// [TypeParams] lowered %s\n", out)
	return out, nil
}

// lowerTypeParam fills in the constraint and default of param.
func (c *Checker) lowerTypeParam(node *parser.TypeParamNode, param *types.Param) (*types.Param, error) {
	if node.Constraint != nil {
		t, err := c.LowerType(node.Constraint)
		if err != nil {
			return nil, fmt.Errorf("constraint of %s: %w", node.Name.Name, err)
		}
		param.Constraint = t
	}
	if node.Default != nil {
		t, err := c.LowerType(node.Default)
		if err != nil {
			return nil, fmt.Errorf("default of %s: %w", node.Name.Name, err)
		}
		param.Default = t
	}
	return param, nil
}
