package checker

import (
	"log/slog"

	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// resolveRef lowers a named type reference whose arguments are already lowered.
//
// `Array<T>` becomes an array type. A name bound to a type parameter in scope
// resolves to that exact placeholder. Everything else stays an opaque
// reference for expansion to deal with later.
func (c *Checker) resolveRef(node *parser.TypeReferenceNode, args []types.Type) types.Type {
	name, simple := node.Name.Ident()

	if simple && name == "Array" && len(args) == 1 {
		return &types.Array{Loc: node.Loc, Elem: args[0]}
	}

	if simple {
		candidates := c.env.Find(name)
		for _, t := range candidates {
			if p, ok := t.(*types.Param); ok {
				debugPrintf("// [resolveRef] '%s' -> placeholder %p\n", name, p)
				return p
			}
		}
		if len(candidates) == 0 {
			c.logger.Debug("unresolved type reference",
				slog.String("name", name),
				slog.Int("line", node.Loc.Line),
				slog.Int("column", node.Loc.Column))
		}
	}

	return &types.Ref{Loc: node.Loc, Name: node.Name.String(), TypeArgs: args}
}

// lookupDecl returns the innermost alias or interface bound to name. Several
// interface declarations with the same name are merged into one.
func (c *Checker) lookupDecl(name string) types.Type {
	var merged *types.Interface
	for _, t := range c.env.Find(name) {
		switch t := t.(type) {
		case *types.Alias:
			if merged == nil {
				return t
			}
		case *types.Interface:
			if merged == nil {
				merged = t
				continue
			}
			if merged.Loc == t.Loc {
				continue
			}
			merged = &types.Interface{
				Loc:        merged.Loc,
				Name:       merged.Name,
				TypeParams: merged.TypeParams,
				Extends:    append(append([]*types.TypeRefExpr{}, merged.Extends...), t.Extends...),
				Body:       append(append([]types.TypeElement{}, merged.Body...), t.Body...),
				NoExpand:   merged.NoExpand,
			}
		}
	}
	if merged == nil {
		return nil
	}
	return merged
}

// instantiateInterface substitutes the interface's parameters with args,
// falling back to their defaults.
func instantiateInterface(iface *types.Interface, args []types.Type) *types.Interface {
	if iface.TypeParams.Len() == 0 {
		return iface
	}
	subst := types.Instantiate(iface.TypeParams, args)
	if out, ok := types.Substitute(iface, subst).(*types.Interface); ok {
		return out
	}
	return iface
}
