package checker

import (
	"fmt"
	"strconv"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

// LowerAlias lowers `type Name<T> = ...` and registers the alias in the
// current scope. The body is marked non-expandable unless it contains `infer`.
func (c *Checker) LowerAlias(decl *parser.TypeAliasDeclaration) (*types.Alias, error) {
	name := decl.Name.Name
	alias := &types.Alias{Loc: decl.Loc, Name: name}

	err := c.withChild(ScopeFlow, func() error {
		tps, err := c.lowerTypeParams(decl.TypeParams, c.builtin(name))
		if err != nil {
			return err
		}
		alias.TypeParams = tps
		t, err := c.LowerType(decl.Type)
		if err != nil {
			return err
		}
		alias.Type = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("type alias %s: %w", name, err)
	}

	if !types.ContainsInfer(alias.Type) {
		types.PreventExpansion(alias)
	}
	if err := c.env.Register(name, alias); err != nil {
		return nil, err
	}
	debugPrintf("// [LowerAlias] %s\n", alias)
	return alias, nil
}

// LowerInterface lowers an interface declaration.
//
// A preliminary copy is registered inside the interface's own scope once the
// body is lowered so that extends validation can see the interface itself;
// a clash there is only recorded. The finished interface is then registered
// in the enclosing scope, where a clash is returned.
func (c *Checker) LowerInterface(decl *parser.InterfaceDeclaration) (*types.Interface, error) {
	name := decl.Name.Name
	iface := &types.Interface{Loc: decl.Loc, Name: name}

	err := c.withChild(ScopeFlow, func() error {
		tps, err := c.lowerTypeParams(decl.TypeParams, c.builtin(name))
		if err != nil {
			return err
		}
		iface.TypeParams = tps

		for _, ext := range decl.Extends {
			ref, err := c.lowerExtends(ext)
			if err != nil {
				return err
			}
			iface.Extends = append(iface.Extends, ref)
		}

		body, err := c.lowerMembers(decl.Body, true)
		if err != nil {
			return err
		}
		iface.Body = body
		types.PreventExpansion(iface)

		if err := c.env.Register(name, iface); err != nil {
			c.recover(err, decl.Name.Loc)
		}
		c.extends.ResolveParentInterfaces(iface, func(d errors.Diagnostic) {
			c.diags.Recover(d)
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", name, err)
	}

	if err := c.env.Register(name, iface); err != nil {
		return nil, err
	}
	debugPrintf("// [LowerInterface] %s\n", iface)
	return iface, nil
}

func (c *Checker) lowerExtends(ext *parser.ExprWithTypeArgs) (*types.TypeRefExpr, error) {
	ref := &types.TypeRefExpr{Loc: ext.Loc, Name: ext.Expr.String()}
	args, err := c.lowerTypeList(ext.TypeArgs)
	if err != nil {
		return nil, err
	}
	ref.TypeArgs = args
	return ref, nil
}

// LowerEnum registers an enum as a value, for computed keys, and as an alias
// of the union of its member literal types. Numeric members without an
// initializer continue from the previous numeric member.
func (c *Checker) LowerEnum(decl *parser.EnumDeclaration) (*types.Alias, error) {
	name := decl.Name.Name
	v := &Value{
		Loc:     decl.Loc,
		Name:    name,
		Kind:    ValueEnum,
		Const:   decl.Const,
		Members: make(map[string]types.Type, len(decl.Members)),
	}

	next := 0
	members := make([]types.Type, 0, len(decl.Members))
	for _, m := range decl.Members {
		var t types.Type
		switch init := m.Init.(type) {
		case nil:
			t = &types.Literal{Loc: m.Loc, Kind: types.LitNumber, Value: strconv.Itoa(next), Fixed: true}
			next++
		case *parser.StringLiteral:
			t = &types.Literal{Loc: m.Loc, Kind: types.LitString, Value: init.Value, Fixed: true}
		case *parser.NumberLiteral:
			t = &types.Literal{Loc: m.Loc, Kind: types.LitNumber, Value: init.Raw, Fixed: true}
			if n, err := strconv.Atoi(init.Raw); err == nil {
				next = n + 1
			}
		default:
			t = types.NewKeyword(types.KwNumber, m.Loc)
		}
		if _, dup := v.Members[m.Name]; dup {
			return nil, errors.NewTypeError(m.Loc, errors.CodeDuplicateIdentifier, "Duplicate identifier '%s'.", m.Name)
		}
		v.Members[m.Name] = t
		v.MemberOrder = append(v.MemberOrder, m.Name)
		members = append(members, t)
	}

	alias := &types.Alias{Loc: decl.Loc, Name: name, Type: &types.Union{Loc: decl.Loc, Types: members}}
	switch len(members) {
	case 0:
		alias.Type = types.NewKeyword(types.KwNever, decl.Loc)
	case 1:
		alias.Type = members[0]
	}
	v.Type = alias.Type

	if err := c.env.DefineValue(v); err != nil {
		return nil, err
	}
	if err := c.env.Register(name, alias); err != nil {
		return nil, err
	}
	return alias, nil
}

// DeclareValue binds a variable in the value namespace.
func (c *Checker) DeclareValue(name string, t types.Type, isConst bool, loc source.Span) error {
	return c.env.DefineValue(&Value{Loc: loc, Name: name, Kind: ValueVar, Type: t, Const: isConst})
}

// LowerFunction lowers a function declaration or arrow function signature in
// its own scope. Unannotated parameters are defaulted first.
func (c *Checker) LowerFunction(loc source.Span, tps *parser.TypeParamDeclNode, params []parser.Pattern, ret *parser.TypeAnnotation) (*types.Function, error) {
	fn := &types.Function{Loc: loc}
	err := c.withChild(ScopeFn, func() error {
		sig, err := c.lowerSignature(tps, params, ret)
		fn.Signature = sig
		return err
	})
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// LowerBinding lowers the annotation of a variable binding. Destructuring
// patterns without one get the defaulted tuple or object type.
func (c *Checker) LowerBinding(p parser.Pattern) (types.Type, error) {
	DefaultPattern(p)
	ann := p.TypeAnnotation()
	if ann == nil {
		return types.ImplicitAny(p.Span()), nil
	}
	return c.lowerAnnotation(ann)
}
