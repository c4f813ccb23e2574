package checker

import (
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// DefaultParams gives every unannotated parameter pattern a synthesized
// annotation. Running it twice changes nothing.
func DefaultParams(params []parser.Pattern) {
	for _, p := range params {
		DefaultPattern(p)
	}
}

// DefaultPattern synthesizes an annotation for an unannotated binding pattern:
// `any` for identifiers, a tuple for array patterns and a type literal for
// object patterns. Annotations of nested array and object patterns are moved
// into the synthesized type. Rest patterns are left alone.
func DefaultPattern(pat parser.Pattern) {
	if pat == nil || pat.TypeAnnotation() != nil {
		return
	}
	switch p := pat.(type) {
	case *parser.IdentPattern:
		p.SetTypeAnnotation(implicitAnnotation(anyNode(p)))

	case *parser.ArrayPattern:
		elems := make([]*parser.TupleElementNode, len(p.Elems))
		for i, el := range p.Elems {
			var t parser.TypeNode
			switch el.(type) {
			case *parser.ArrayPattern, *parser.ObjectPattern:
				DefaultPattern(el)
				t = el.TakeTypeAnnotation().Type
			case nil:
				t = &parser.KeywordTypeNode{Loc: p.Loc, Kind: types.KwAny}
			default:
				t = anyNode(el)
			}
			elems[i] = &parser.TupleElementNode{Loc: t.Span(), Type: t}
		}
		debugPrintf("// [DefaultPattern] array pattern %s -> %d elements\n", parser.BindingText(p), len(elems))
		p.SetTypeAnnotation(implicitAnnotation(&parser.TupleTypeNode{Loc: p.Loc, Elems: elems}))

	case *parser.ObjectPattern:
		var members []parser.TypeMember
		for _, prop := range p.Props {
			switch prop := prop.(type) {
			case *parser.KeyValuePatternProp:
				switch prop.Value.(type) {
				case *parser.ArrayPattern, *parser.ObjectPattern:
					DefaultPattern(prop.Value)
				}
				// Synthesized keys are never computed: the user wrote no type
				// here, so there is no key expression to validate.
				members = append(members, &parser.PropertySignature{
					Loc:     prop.Loc,
					Key:     prop.Key,
					TypeAnn: prop.Value.TakeTypeAnnotation(),
				})
			case *parser.AssignPatternProp:
				members = append(members, &parser.PropertySignature{Loc: prop.Loc, Key: prop.Key})
			case *parser.RestPatternProp:
			}
		}
		p.SetTypeAnnotation(implicitAnnotation(&parser.TypeLiteralNode{Loc: p.Loc, Members: members}))

	case *parser.AssignPattern:
		DefaultPattern(p.Left)

	case *parser.RestPattern:
	}
}

func anyNode(n parser.Node) *parser.KeywordTypeNode {
	return &parser.KeywordTypeNode{Loc: n.Span(), Kind: types.KwAny}
}

func implicitAnnotation(t parser.TypeNode) *parser.TypeAnnotation {
	return &parser.TypeAnnotation{Loc: t.Span(), Type: t, Implicit: true}
}
