package checker

import (
	"tslower/pkg/errors"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

// ScopeKind tags a lexical scope with the construct that opened it.
type ScopeKind uint8

const (
	ScopeModule      ScopeKind = iota // top level of a file or session
	ScopeFlow                         // alias and interface declarations
	ScopeFn                           // signatures with their own parameters
	ScopeConditional                  // the extends/true branch of a conditional type
	ScopeMapped                       // the key parameter of a mapped type
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFlow:
		return "flow"
	case ScopeFn:
		return "fn"
	case ScopeConditional:
		return "conditional"
	case ScopeMapped:
		return "mapped"
	default:
		return "scope"
	}
}

// ValueKind distinguishes the value bindings computed keys can refer to.
type ValueKind uint8

const (
	ValueVar ValueKind = iota
	ValueEnum
)

// Value is a binding in the value namespace.
type Value struct {
	Loc   source.Span
	Name  string
	Kind  ValueKind
	Type  types.Type
	Const bool // `const` variable or `const enum`
	// Members holds the literal type of every enum member, in declaration order.
	Members     map[string]types.Type
	MemberOrder []string
}

// Member returns the type of an enum member.
func (v *Value) Member(name string) (types.Type, bool) {
	if v.Members == nil {
		return nil, false
	}
	t, ok := v.Members[name]
	return t, ok
}

type scope struct {
	parent int // -1 for the root
	kind   ScopeKind
	types  map[string][]types.Type
	values map[string]*Value
}

// Environment is an arena of lexical scopes with an index-based current
// pointer. Types captured from a scope stay valid after it is popped.
type Environment struct {
	scopes  []scope
	current int
}

// NewEnvironment creates an environment holding only the module scope.
func NewEnvironment() *Environment {
	e := &Environment{current: -1}
	e.Push(ScopeModule)
	return e
}

// Push opens a nested scope and makes it current.
func (e *Environment) Push(kind ScopeKind) {
	e.scopes = append(e.scopes, scope{
		parent: e.current,
		kind:   kind,
		types:  make(map[string][]types.Type),
		values: make(map[string]*Value),
	})
	e.current = len(e.scopes) - 1
	debugPrintf("// [Env Push] kind=%s index=%d parent=%d\n", kind, e.current, e.scopes[e.current].parent)
}

// Pop returns to the parent scope. The module scope is never popped.
func (e *Environment) Pop() {
	idx := e.current
	parent := e.scopes[idx].parent
	if parent < 0 {
		debugPrintf("// [Env Pop] ERROR: attempted to pop the module scope\n")
		return
	}
	e.current = parent
	if idx == len(e.scopes)-1 {
		e.scopes = e.scopes[:idx]
	}
	debugPrintf("// [Env Pop] index=%d -> %d\n", idx, parent)
}

// Depth returns the number of scopes in the current chain.
func (e *Environment) Depth() int {
	n := 0
	for i := e.current; i >= 0; i = e.scopes[i].parent {
		n++
	}
	return n
}

// Kind returns the kind of the current scope.
func (e *Environment) Kind() ScopeKind {
	return e.scopes[e.current].kind
}

// Register binds name to t in the current scope. Registering the same value
// again is a no-op; interfaces with the same name merge; any other clash in
// the same scope is a duplicate identifier. Outer bindings are shadowed.
func (e *Environment) Register(name string, t types.Type) error {
	return e.registerAt(e.current, name, t)
}

// RegisterNearest binds name in the innermost open scope of the given kind,
// skipping the scopes nested inside it. Without such a scope it registers in
// the current scope.
func (e *Environment) RegisterNearest(kind ScopeKind, name string, t types.Type) error {
	for i := e.current; i >= 0; i = e.scopes[i].parent {
		if e.scopes[i].kind == kind {
			return e.registerAt(i, name, t)
		}
	}
	return e.registerAt(e.current, name, t)
}

func (e *Environment) registerAt(idx int, name string, t types.Type) error {
	sc := &e.scopes[idx]
	existing := sc.types[name]
	for _, prev := range existing {
		if sameBinding(prev, t) {
			debugPrintf("// [Env Register] '%s' re-registered in scope %d\n", name, idx)
			return nil
		}
	}
	if len(existing) > 0 && !mergeable(existing, t) {
		debugPrintf("// [Env Register] '%s' conflicts in scope %d\n", name, idx)
		return errors.NewTypeError(t.Span(), errors.CodeDuplicateIdentifier, "Duplicate identifier '%s'.", name)
	}
	sc.types[name] = append(existing, t)
	debugPrintf("// [Env Register] '%s' -> %T in scope %d\n", name, t, idx)
	return nil
}

// Find returns every type bound to name in the current scope chain,
// innermost scope first.
func (e *Environment) Find(name string) []types.Type {
	var out []types.Type
	for i := e.current; i >= 0; i = e.scopes[i].parent {
		out = append(out, e.scopes[i].types[name]...)
	}
	if len(out) == 0 {
		debugPrintf("// [Env Find] '%s' not found\n", name)
	}
	return out
}

// DefineValue binds a value in the current scope.
func (e *Environment) DefineValue(v *Value) error {
	sc := &e.scopes[e.current]
	if prev, exists := sc.values[v.Name]; exists {
		if prev.Kind == v.Kind && prev.Type != nil && prev.Type.Equals(v.Type) {
			return nil
		}
		return errors.NewTypeError(v.Loc, errors.CodeDuplicateIdentifier, "Duplicate identifier '%s'.", v.Name)
	}
	sc.values[v.Name] = v
	return nil
}

// ResolveValue looks up a value binding in the current scope chain.
func (e *Environment) ResolveValue(name string) (*Value, bool) {
	for i := e.current; i >= 0; i = e.scopes[i].parent {
		if v, ok := e.scopes[i].values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// sameBinding reports whether registering next over prev is a no-op.
// Placeholders are only ever the same binding by identity.
func sameBinding(prev, next types.Type) bool {
	if prev == next {
		return true
	}
	if _, ok := prev.(*types.Param); ok {
		return false
	}
	if _, ok := next.(*types.Param); ok {
		return false
	}
	return prev.Equals(next)
}

func mergeable(existing []types.Type, next types.Type) bool {
	if _, ok := next.(*types.Interface); !ok {
		return false
	}
	for _, prev := range existing {
		if _, ok := prev.(*types.Interface); !ok {
			return false
		}
	}
	return true
}
