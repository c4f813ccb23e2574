package types

// --- Type Assignability ---

// maxRelationDepth bounds recursion through self-referential object types.
// Pairs still open at the bound are assumed related.
const maxRelationDepth = 64

// Relation decides assignability between lowered types. Members resolves the
// member list of a named object type (an interface including inherited
// members, or a reference to one); when nil only literal object types and
// interface bodies are inspected.
type Relation struct {
	Members func(Type) ([]TypeElement, bool)
	depth   int
}

// IsAssignable checks if a value of type `source` can be assigned to a
// location of type `target` without any registry knowledge.
func IsAssignable(source, target Type) bool {
	return (&Relation{}).IsAssignable(source, target)
}

// IsAssignable checks if a value of type `source` can be assigned to a
// location of type `target`.
func (r *Relation) IsAssignable(source, target Type) bool {
	if source == nil || target == nil {
		return false
	}
	if r.depth >= maxRelationDepth {
		return true
	}
	r.depth++
	defer func() { r.depth-- }()

	// Basic rules:
	if isKeyword(target, KwAny) || isKeyword(source, KwAny) || isKeyword(target, KwUnknown) {
		return true
	}
	if isKeyword(source, KwUnknown) {
		return false
	}
	if isKeyword(source, KwNever) {
		return true
	}
	if source.Equals(target) {
		return true
	}

	// Optional tuple elements accept their inner type.
	if opt, ok := target.(*Optional); ok {
		return r.IsAssignable(unwrapOptional(source), opt.Type)
	}
	if opt, ok := source.(*Optional); ok {
		return r.IsAssignable(opt.Type, target)
	}

	// Union type handling
	if targetUnion, ok := target.(*Union); ok {
		if sourceUnion, ok := source.(*Union); ok {
			// Union to union: every type in source must be assignable to at least one in target
			for _, s := range sourceUnion.Types {
				if !r.assignableToSome(s, targetUnion.Types) {
					return false
				}
			}
			return true
		}
		return r.assignableToSome(source, targetUnion.Types)
	}
	if sourceUnion, ok := source.(*Union); ok {
		// Union to non-union: every type in source must be assignable to target
		for _, s := range sourceUnion.Types {
			if !r.IsAssignable(s, target) {
				return false
			}
		}
		return true
	}

	// Intersection type handling
	if targetInter, ok := target.(*Intersection); ok {
		for _, t := range targetInter.Types {
			if !r.IsAssignable(source, t) {
				return false
			}
		}
		return true
	}
	if sourceInter, ok := source.(*Intersection); ok {
		for _, s := range sourceInter.Types {
			if r.IsAssignable(s, target) {
				return true
			}
		}
		return false
	}

	// Placeholders relate through their constraint.
	if _, ok := target.(*Param); ok {
		return false
	}
	if p, ok := source.(*Param); ok {
		if p.Constraint == nil {
			return false
		}
		return r.IsAssignable(p.Constraint, target)
	}

	// Literal type handling
	sourceLit, sourceIsLit := source.(*Literal)
	if _, targetIsLit := target.(*Literal); targetIsLit {
		// Equal literals were accepted above.
		return false
	}
	if sourceIsLit {
		return r.IsAssignable(sourceLit.Base(), target)
	}

	if sk, ok := source.(*Keyword); ok {
		if tk, ok := target.(*Keyword); ok {
			return sk.Kind == tk.Kind || (sk.Kind == KwUndefined && tk.Kind == KwVoid)
		}
		return false
	}

	switch target := target.(type) {
	case *Array:
		switch source := source.(type) {
		case *Array:
			return r.IsAssignable(source.Elem, target.Elem)
		case *Tuple:
			for _, e := range source.Elems {
				if !r.IsAssignable(elementType(e.Type), target.Elem) {
					return false
				}
			}
			return true
		}
		return false

	case *Tuple:
		source, ok := source.(*Tuple)
		if !ok {
			return false
		}
		return r.tupleAssignable(source, target)

	case *Function:
		sigs := r.callSignatures(source)
		for _, sig := range sigs {
			if r.signatureAssignable(sig, &target.Signature) {
				return true
			}
		}
		return false

	case *Constructor:
		if source, ok := source.(*Constructor); ok {
			return r.signatureAssignable(&source.Signature, &target.Signature)
		}
		return false

	case *Keyword:
		if target.Kind == KwObject {
			_, isObj := r.members(source)
			return isObj
		}
		return false
	}

	targetMembers, ok := r.members(target)
	if !ok {
		return false
	}
	sourceMembers, ok := r.members(source)
	if !ok {
		return false
	}
	return r.membersAssignable(sourceMembers, targetMembers)
}

func (r *Relation) assignableToSome(source Type, targets []Type) bool {
	for _, t := range targets {
		if r.IsAssignable(source, t) {
			return true
		}
	}
	return false
}

func (r *Relation) tupleAssignable(source, target *Tuple) bool {
	sourceLen := len(source.Elems)
	targetLen := len(target.Elems)

	// Check each target element against source
	for i := 0; i < targetLen; i++ {
		targetElem := target.Elems[i].Type
		if rest, ok := targetElem.(*Rest); ok {
			// The remaining source elements must fit the rest element.
			for _, e := range source.Elems[min(i, sourceLen):] {
				if !r.IsAssignable(elementType(e.Type), elementType(rest)) {
					return false
				}
			}
			return true
		}
		if i < sourceLen {
			if !r.IsAssignable(source.Elems[i].Type, targetElem) {
				return false
			}
		} else if _, optional := targetElem.(*Optional); !optional {
			// Target element is required but source doesn't have it
			return false
		}
	}
	return sourceLen <= targetLen
}

func (r *Relation) membersAssignable(source, target []TypeElement) bool {
	for _, tm := range target {
		switch tm := tm.(type) {
		case *PropertySignature:
			sm, found := FindProperty(source, tm.Key.Name)
			if !found {
				if tm.Optional || tm.Key.Computed {
					continue
				}
				return false
			}
			if tm.Type == nil {
				continue
			}
			if !r.IsAssignable(memberType(sm), tm.Type) {
				return false
			}
		case *MethodSignature:
			sm, found := FindProperty(source, tm.Key.Name)
			if !found {
				if tm.Optional || tm.Key.Computed {
					continue
				}
				return false
			}
			if !r.IsAssignable(memberType(sm), &Function{Loc: tm.Loc, Signature: tm.Signature}) {
				return false
			}
		case *CallSignature:
			compatible := false
			for _, sm := range source {
				if sc, ok := sm.(*CallSignature); ok && r.signatureAssignable(&sc.Signature, &tm.Signature) {
					compatible = true
					break
				}
			}
			if !compatible {
				return false
			}
		}
	}
	return true
}

// signatureAssignable checks parameters contravariantly and the return type
// covariantly. The source may declare fewer parameters than the target.
func (r *Relation) signatureAssignable(source, target *Signature) bool {
	if source.RequiredParams() > len(target.Params) && !hasRest(target) {
		return false
	}
	for i, sp := range source.Params {
		if i >= len(target.Params) {
			break
		}
		if !r.IsAssignable(paramType(target.Params[i]), paramType(sp)) { // Note: reversed for contravariance
			return false
		}
	}
	if target.Ret == nil || isKeyword(target.Ret, KwVoid) {
		return true
	}
	if source.Ret == nil {
		return false
	}
	return r.IsAssignable(source.Ret, target.Ret)
}

func (r *Relation) callSignatures(t Type) []*Signature {
	switch t := t.(type) {
	case *Function:
		return []*Signature{&t.Signature}
	}
	members, ok := r.members(t)
	if !ok {
		return nil
	}
	var sigs []*Signature
	for _, m := range members {
		if cs, ok := m.(*CallSignature); ok {
			sigs = append(sigs, &cs.Signature)
		}
	}
	return sigs
}

func (r *Relation) members(t Type) ([]TypeElement, bool) {
	switch t := t.(type) {
	case *TypeLit:
		return t.Members, true
	case *Interface:
		if r.Members != nil {
			return r.Members(t)
		}
		return t.Body, true
	case *Ref:
		if r.Members != nil {
			return r.Members(t)
		}
	}
	return nil, false
}

func memberType(m TypeElement) Type {
	switch m := m.(type) {
	case *PropertySignature:
		if m.Type == nil {
			return Any
		}
		return m.Type
	case *MethodSignature:
		return &Function{Loc: m.Loc, Signature: m.Signature}
	}
	return Any
}

func paramType(p *FnParam) Type {
	if p.Type == nil {
		return Any
	}
	if p.Rest {
		if arr, ok := p.Type.(*Array); ok {
			return arr.Elem
		}
	}
	return p.Type
}

func hasRest(sig *Signature) bool {
	for _, p := range sig.Params {
		if p.Rest {
			return true
		}
	}
	return false
}

// elementType strips optional and rest wrappers off a tuple element type;
// rest elements yield their array element type.
func elementType(t Type) Type {
	switch t := t.(type) {
	case *Optional:
		return t.Type
	case *Rest:
		if arr, ok := t.Type.(*Array); ok {
			return arr.Elem
		}
		return t.Type
	}
	return t
}

func unwrapOptional(t Type) Type {
	if opt, ok := t.(*Optional); ok {
		return opt.Type
	}
	return t
}

func isKeyword(t Type, kind KeywordKind) bool {
	k, ok := t.(*Keyword)
	return ok && k.Kind == kind
}
