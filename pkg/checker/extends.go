package checker

import (
	"log/slog"

	"tslower/pkg/errors"
	"tslower/pkg/types"
)

// defaultExtends validates extends lists against the checker's registry.
type defaultExtends struct {
	c *Checker
}

// ResolveParentInterfaces checks that every entry of iface.Extends names an
// object type. Names that are not declared yet are left for later.
func (d *defaultExtends) ResolveParentInterfaces(iface *types.Interface, report func(errors.Diagnostic)) {
	for _, ext := range iface.Extends {
		switch target := d.c.lookupDecl(ext.Name).(type) {
		case nil:
			d.c.logger.Debug("deferred base interface",
				slog.String("interface", iface.Name),
				slog.String("base", ext.Name))

		case *types.Interface:
			if d.reaches(target, iface.Name, make(map[string]bool)) {
				report(errors.NewTypeError(ext.Loc, errors.CodeRecursiveBaseType,
					"Type '%s' recursively references itself as a base type.", iface.Name))
			}

		case *types.Alias:
			expanded, err := d.c.ExpandFully(ext.Ref())
			if err != nil {
				report(errors.AsDiagnostic(err, ext.Loc))
				continue
			}
			if !isObjectLike(expanded) {
				report(errors.NewTypeError(ext.Loc, errors.CodeInterfaceExtendsObject,
					"An interface can only extend an object type or intersection of object types with statically known members."))
			}
		}
	}
}

// reaches reports whether name is iface itself or one of its transitive bases.
func (d *defaultExtends) reaches(iface *types.Interface, name string, visited map[string]bool) bool {
	if iface.Name == name {
		return true
	}
	if visited[iface.Name] {
		return false
	}
	visited[iface.Name] = true
	for _, ext := range iface.Extends {
		if base, ok := d.c.lookupDecl(ext.Name).(*types.Interface); ok && d.reaches(base, name, visited) {
			return true
		}
	}
	return false
}

func isObjectLike(t types.Type) bool {
	switch t := t.(type) {
	case *types.TypeLit, *types.Interface, *types.Mapped, *types.Ref:
		return true
	case *types.Intersection:
		for _, m := range t.Types {
			if !isObjectLike(m) {
				return false
			}
		}
		return true
	case *types.Keyword:
		return t.Kind == types.KwAny
	}
	return false
}

// FlattenMembers returns the members of an object type including the ones
// inherited through extends. A member declared closer to t wins over an
// inherited member with the same key.
func (c *Checker) FlattenMembers(t types.Type) ([]types.TypeElement, bool) {
	return c.flatten(t, make(map[string]bool))
}

func (c *Checker) flatten(t types.Type, visited map[string]bool) ([]types.TypeElement, bool) {
	switch t := t.(type) {
	case *types.TypeLit:
		return t.Members, true

	case *types.Ref:
		switch decl := c.lookupDecl(t.Name).(type) {
		case *types.Interface:
			return c.flatten(instantiateInterface(decl, t.TypeArgs), visited)
		case *types.Alias:
			expanded, err := c.ExpandFully(t)
			if err != nil {
				return nil, false
			}
			if _, stillRef := expanded.(*types.Ref); stillRef {
				return nil, false
			}
			return c.flatten(expanded, visited)
		}
		return nil, false

	case *types.Interface:
		if visited[t.Name] {
			return nil, true
		}
		visited[t.Name] = true
		defer delete(visited, t.Name)

		members := append([]types.TypeElement{}, t.Body...)
		for _, ext := range t.Extends {
			inherited, ok := c.flatten(ext.Ref(), visited)
			if !ok {
				continue
			}
			for _, m := range inherited {
				if !hasMemberKey(members, m) {
					members = append(members, m)
				}
			}
		}
		return members, true

	case *types.Intersection:
		var members []types.TypeElement
		for _, part := range t.Types {
			ms, ok := c.flatten(part, visited)
			if !ok {
				return nil, false
			}
			members = append(members, ms...)
		}
		return members, true
	}
	return nil, false
}

func hasMemberKey(members []types.TypeElement, m types.TypeElement) bool {
	var key types.Key
	switch m := m.(type) {
	case *types.PropertySignature:
		key = m.Key
	case *types.MethodSignature:
		key = m.Key
	default:
		return false
	}
	for _, own := range members {
		switch own := own.(type) {
		case *types.PropertySignature:
			if own.Key == key {
				return true
			}
		case *types.MethodSignature:
			if own.Key == key {
				return true
			}
		}
	}
	return false
}
