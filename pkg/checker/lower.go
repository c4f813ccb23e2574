package checker

import (
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// LowerType converts a syntactic type into its semantic form, resolving
// names against the current scope. A nil node lowers to nil.
func (c *Checker) LowerType(node parser.TypeNode) (types.Type, error) {
	switch node := node.(type) {
	case nil:
		return nil, nil

	case *parser.KeywordTypeNode:
		return types.NewKeyword(node.Kind, node.Loc), nil

	case *parser.LiteralTypeNode:
		lit := &types.Literal{Loc: node.Loc, Kind: node.Kind, Value: node.Value}
		types.PreventGeneralize(lit)
		return lit, nil

	case *parser.ThisTypeNode:
		return &types.This{Loc: node.Loc}, nil

	case *parser.ArrayTypeNode:
		elem, err := c.LowerType(node.Elem)
		if err != nil {
			return nil, err
		}
		return &types.Array{Loc: node.Loc, Elem: elem}, nil

	case *parser.TupleTypeNode:
		elems := make([]*types.TupleElement, len(node.Elems))
		for i, el := range node.Elems {
			t, err := c.LowerType(el.Type)
			if err != nil {
				return nil, err
			}
			elems[i] = &types.TupleElement{Loc: el.Loc, Type: t}
			if el.Label != nil {
				elems[i].Label = el.Label.Name
			}
		}
		return &types.Tuple{Loc: node.Loc, Elems: elems}, nil

	case *parser.OptionalTypeNode:
		t, err := c.LowerType(node.Type)
		if err != nil {
			return nil, err
		}
		return &types.Optional{Loc: node.Loc, Type: t}, nil

	case *parser.RestTypeNode:
		t, err := c.LowerType(node.Type)
		if err != nil {
			return nil, err
		}
		return &types.Rest{Loc: node.Loc, Type: t}, nil

	case *parser.UnionTypeNode:
		ts, err := c.lowerTypeList(node.Types)
		if err != nil {
			return nil, err
		}
		return &types.Union{Loc: node.Loc, Types: ts}, nil

	case *parser.IntersectionTypeNode:
		ts, err := c.lowerTypeList(node.Types)
		if err != nil {
			return nil, err
		}
		return &types.Intersection{Loc: node.Loc, Types: ts}, nil

	case *parser.FunctionTypeNode:
		fn := &types.Function{Loc: node.Loc}
		err := c.withChild(ScopeFn, func() error {
			sig, err := c.lowerSignature(node.TypeParams, node.Params, node.ReturnType)
			fn.Signature = sig
			return err
		})
		if err != nil {
			return nil, err
		}
		return fn, nil

	case *parser.ConstructorTypeNode:
		ctor := &types.Constructor{Loc: node.Loc, Abstract: node.Abstract}
		err := c.withChild(ScopeFn, func() error {
			sig, err := c.lowerSignature(node.TypeParams, node.Params, node.ReturnType)
			ctor.Signature = sig
			return err
		})
		if err != nil {
			return nil, err
		}
		return ctor, nil

	case *parser.TypeLiteralNode:
		members, err := c.lowerMembers(node.Members, false)
		if err != nil {
			return nil, err
		}
		return &types.TypeLit{Loc: node.Loc, Members: members}, nil

	case *parser.ConditionalTypeNode:
		return c.lowerConditional(node)

	case *parser.InferTypeNode:
		return c.lowerInfer(node)

	case *parser.MappedTypeNode:
		return c.lowerMapped(node)

	case *parser.TypeOperatorNode:
		t, err := c.LowerType(node.Type)
		if err != nil {
			return nil, err
		}
		return &types.Operator{Loc: node.Loc, Op: node.Op, Type: t}, nil

	case *parser.ParenthesizedTypeNode:
		return c.LowerType(node.Type)

	case *parser.TypeReferenceNode:
		args, err := c.lowerTypeList(node.TypeArgs)
		if err != nil {
			return nil, err
		}
		return c.resolveRef(node, args), nil

	case *parser.TypeQueryNode:
		q := &types.Query{Loc: node.Loc}
		if node.Expr != nil {
			q.Expr = node.Expr.String()
		}
		if node.Import != nil {
			imp, err := c.lowerImport(node.Import)
			if err != nil {
				return nil, err
			}
			q.Import = imp
		}
		args, err := c.lowerTypeList(node.TypeArgs)
		if err != nil {
			return nil, err
		}
		q.TypeArgs = args
		return q, nil

	case *parser.IndexedAccessTypeNode:
		obj, err := c.LowerType(node.Object)
		if err != nil {
			return nil, err
		}
		idx, err := c.LowerType(node.Index)
		if err != nil {
			return nil, err
		}
		return &types.IndexedAccess{Loc: node.Loc, Readonly: node.Readonly, Object: obj, Index: idx}, nil

	case *parser.TypePredicateNode:
		pred := &types.Predicate{Loc: node.Loc, Asserts: node.Asserts, Param: node.Param.Name}
		if node.Type != nil {
			t, err := c.lowerAnnotation(node.Type)
			if err != nil {
				return nil, err
			}
			pred.Type = t
		}
		return pred, nil

	case *parser.ImportTypeNode:
		return c.lowerImport(node)

	default:
		return nil, internalError(node)
	}
}

func (c *Checker) lowerTypeList(nodes []parser.TypeNode) ([]types.Type, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]types.Type, len(nodes))
	for i, n := range nodes {
		t, err := c.LowerType(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// lowerAnnotation lowers an annotation. Every `any` inside an annotation
// synthesized by defaulting is marked implicit.
func (c *Checker) lowerAnnotation(ann *parser.TypeAnnotation) (types.Type, error) {
	t, err := c.LowerType(ann.Type)
	if err != nil {
		return nil, err
	}
	if ann.Implicit {
		types.Walk(t, func(x types.Type) bool {
			if k, ok := x.(*types.Keyword); ok && k.Kind == types.KwAny {
				k.Implicit = true
			}
			return true
		})
	}
	return t, nil
}

// lowerSignature lowers the parts shared by every callable form. It must run
// inside the scope that owns the signature's type parameters.
func (c *Checker) lowerSignature(tps *parser.TypeParamDeclNode, params []parser.Pattern, ret *parser.TypeAnnotation) (types.Signature, error) {
	var sig types.Signature
	decl, err := c.lowerTypeParams(tps, c.isBuiltin)
	if err != nil {
		return sig, err
	}
	sig.TypeParams = decl

	DefaultParams(params)
	sig.Params = make([]*types.FnParam, len(params))
	for i, p := range params {
		fp, err := c.lowerParam(p)
		if err != nil {
			return sig, err
		}
		sig.Params[i] = fp
	}

	if ret != nil {
		t, err := c.lowerAnnotation(ret)
		if err != nil {
			return sig, fmt.Errorf("return type: %w", err)
		}
		sig.Ret = t
	}
	return sig, nil
}

func (c *Checker) lowerParam(p parser.Pattern) (*types.FnParam, error) {
	fp := &types.FnParam{Loc: p.Span(), Name: parser.BindingText(p), Optional: parser.IsOptional(p)}
	_, fp.Rest = p.(*parser.RestPattern)

	ann := p.TypeAnnotation()
	if assign, ok := p.(*parser.AssignPattern); ok && ann == nil {
		ann = assign.Left.TypeAnnotation()
	}

	switch {
	case ann == nil && fp.Rest:
		fp.Type = &types.Array{Loc: p.Span(), Elem: types.ImplicitAny(p.Span())}
	case ann == nil:
		fp.Type = types.ImplicitAny(p.Span())
	default:
		t, err := c.lowerAnnotation(ann)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", fp.Name, err)
		}
		fp.Type = t
	}

	if c.noImplicitAny && (ann == nil || ann.Implicit) {
		c.recover(errors.NewTypeError(p.Span(), errors.CodeImplicitAny,
			"Parameter '%s' implicitly has an '%s' type.", fp.Name, fp.Type), p.Span())
	}
	return fp, nil
}

func (c *Checker) lowerConditional(node *parser.ConditionalTypeNode) (types.Type, error) {
	check, err := c.LowerType(node.Check)
	if err != nil {
		return nil, err
	}
	cond := &types.Conditional{Loc: node.Loc, Check: check}
	// `infer` placeholders are visible in the true branch only.
	err = c.withChild(ScopeConditional, func() error {
		var err error
		if cond.Extends, err = c.LowerType(node.Extends); err != nil {
			return err
		}
		cond.True, err = c.LowerType(node.True)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cond.False, err = c.LowerType(node.False); err != nil {
		return nil, err
	}
	return cond, nil
}

func (c *Checker) lowerInfer(node *parser.InferTypeNode) (types.Type, error) {
	name := node.TypeParam.Name.Name
	param := &types.Param{Loc: node.TypeParam.Loc, Name: name}
	if node.TypeParam.Constraint != nil {
		t, err := c.LowerType(node.TypeParam.Constraint)
		if err != nil {
			return nil, err
		}
		param.Constraint = t
	}
	// The placeholder belongs to the enclosing conditional even when the
	// infer sits inside a signature that opened its own scope.
	if err := c.env.RegisterNearest(ScopeConditional, name, param); err != nil {
		// `infer U` written twice in one extends clause binds one placeholder.
		for _, t := range c.env.Find(name) {
			if existing, ok := t.(*types.Param); ok {
				param = existing
				break
			}
		}
	}
	return &types.Infer{Loc: node.Loc, Param: param}, nil
}

func (c *Checker) lowerMapped(node *parser.MappedTypeNode) (types.Type, error) {
	constraint, err := c.LowerType(node.TypeParam.Constraint)
	if err != nil {
		return nil, err
	}
	key := &types.Param{Loc: node.TypeParam.Loc, Name: node.TypeParam.Name.Name, Constraint: constraint}
	mapped := &types.Mapped{Loc: node.Loc, Readonly: node.Readonly, Optional: node.Optional, Param: key}
	err = c.withChild(ScopeMapped, func() error {
		if err := c.env.Register(key.Name, key); err != nil {
			return err
		}
		var err error
		if mapped.NameType, err = c.LowerType(node.NameType); err != nil {
			return err
		}
		mapped.Type, err = c.LowerType(node.Type)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapped, nil
}

func (c *Checker) lowerImport(node *parser.ImportTypeNode) (*types.Import, error) {
	imp := &types.Import{Loc: node.Loc, Arg: node.Arg}
	if node.Qualifier != nil {
		imp.Qualifier = node.Qualifier.String()
	}
	args, err := c.lowerTypeList(node.TypeArgs)
	if err != nil {
		return nil, err
	}
	imp.TypeArgs = args
	return imp, nil
}
