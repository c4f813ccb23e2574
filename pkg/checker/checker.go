// Package checker lowers TypeScript type syntax into semantic types and
// validates explicit type casts.
package checker

import (
	"fmt"
	"io"
	"log/slog"

	"tslower/pkg/config"
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf(format, args...)
	}
}

// Registry is the scope manager lowering registers declarations into.
type Registry interface {
	ValueResolver
	Register(name string, t types.Type) error
	RegisterNearest(kind ScopeKind, name string, t types.Type) error
	Find(name string) []types.Type
	DefineValue(v *Value) error
	Push(kind ScopeKind)
	Pop()
}

// ValueResolver answers questions about the value namespace, used to
// validate computed property keys.
type ValueResolver interface {
	ResolveValue(name string) (*Value, bool)
}

// ExtendsResolver validates and resolves the extends list of an interface.
// Problems are reported through report; lowering continues either way.
type ExtendsResolver interface {
	ResolveParentInterfaces(iface *types.Interface, report func(errors.Diagnostic))
}

// Assigner decides assignability for casts the tuple rules defer.
type Assigner interface {
	IsAssignable(source, target types.Type) bool
}

// Expander unfolds named references.
type Expander interface {
	ExpandFully(t types.Type) (types.Type, error)
}

// ExprTyper computes the type of the expression being cast.
type ExprTyper interface {
	TypeOfExpr(expr parser.Expression) (types.Type, error)
}

// ConstEnumRef records a reference to a const enum member from a computed key.
type ConstEnumRef struct {
	Enum   string
	Member string
	Loc    source.Span
}

// Checker lowers declarations against one registry and accumulates diagnostics.
type Checker struct {
	env      Registry
	values   ValueResolver
	extends  ExtendsResolver
	assigner Assigner
	expander Expander

	diags  errors.Collector
	logger *slog.Logger

	isBuiltin         bool
	builtinNames      map[string]bool
	noImplicitAny     bool
	reportUnsafeCasts bool
	maxDepth          int

	// ConstEnumRefs lists const enum members referenced by computed keys,
	// in the order they were encountered.
	ConstEnumRefs []ConstEnumRef
}

// Option configures a Checker.
type Option func(*Checker)

// WithBuiltin lowers every declaration as a built-in library declaration.
func WithBuiltin(builtin bool) Option {
	return func(c *Checker) { c.isBuiltin = builtin }
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConfig applies file settings.
func WithConfig(cfg *config.Config) Option {
	return func(c *Checker) {
		if cfg == nil {
			return
		}
		for _, name := range cfg.BuiltinTypes {
			c.builtinNames[name] = true
		}
		c.noImplicitAny = cfg.NoImplicitAny
		c.reportUnsafeCasts = cfg.ReportUnsafeCasts
		c.maxDepth = cfg.MaxExpansionDepth
	}
}

// WithRegistry replaces the default Environment.
func WithRegistry(r Registry) Option {
	return func(c *Checker) { c.env = r }
}

// WithValueResolver overrides value lookups for computed keys; by default
// the registry answers them.
func WithValueResolver(v ValueResolver) Option {
	return func(c *Checker) { c.values = v }
}

// WithExtendsResolver replaces the default extends validation.
func WithExtendsResolver(r ExtendsResolver) Option {
	return func(c *Checker) { c.extends = r }
}

// WithAssigner replaces the assignability fallback used by casts.
func WithAssigner(a Assigner) Option {
	return func(c *Checker) { c.assigner = a }
}

// WithExpander replaces the default expansion utility.
func WithExpander(e Expander) Option {
	return func(c *Checker) { c.expander = e }
}

// New creates a Checker with a fresh Environment and the default collaborators.
func New(opts ...Option) *Checker {
	c := &Checker{
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		builtinNames:      make(map[string]bool),
		reportUnsafeCasts: true,
		maxDepth:          config.Default().MaxExpansionDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.env == nil {
		c.env = NewEnvironment()
	}
	if c.values == nil {
		c.values = c.env
	}
	if c.extends == nil {
		c.extends = &defaultExtends{c: c}
	}
	if c.assigner == nil {
		c.assigner = &types.Relation{Members: c.FlattenMembers}
	}
	if c.expander == nil {
		c.expander = &expander{c: c}
	}
	return c
}

// Registry returns the scope manager in use.
func (c *Checker) Registry() Registry { return c.env }

// Diagnostics returns the findings recorded so far.
func (c *Checker) Diagnostics() *errors.Collector { return &c.diags }

// ResolveValue looks a name up in the value namespace.
func (c *Checker) ResolveValue(name string) (*Value, bool) {
	return c.values.ResolveValue(name)
}

// ExpandFully unfolds every expandable reference in t.
func (c *Checker) ExpandFully(t types.Type) (types.Type, error) {
	return c.expander.ExpandFully(t)
}

// withChild runs fn inside a nested scope of the given kind. The scope is
// popped on every exit path.
func (c *Checker) withChild(kind ScopeKind, fn func() error) error {
	c.env.Push(kind)
	defer c.env.Pop()
	return fn()
}

// builtin reports whether a declaration named name is lowered as built-in.
func (c *Checker) builtin(name string) bool {
	return c.isBuiltin || c.builtinNames[name]
}
