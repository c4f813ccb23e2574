// Package driver runs the checker over whole TypeScript files. A Session
// keeps one registry alive across calls, so declarations from earlier input
// stay visible to later input.
package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"tslower/pkg/checker"
	"tslower/pkg/config"
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/types"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Decl is one lowered top-level declaration.
type Decl struct {
	Kind string // "type", "interface", "enum", "function", "const", "let" or "var"
	Name string
	Type types.Type
	Loc  source.Span
}

func (d Decl) String() string {
	switch d.Kind {
	case "type", "interface":
		return d.Type.String()
	case "enum":
		return "enum " + d.Name + " = " + d.Type.String()
	default:
		return d.Kind + " " + d.Name + ": " + d.Type.String()
	}
}

// Cast is the outcome of one cast expression found in the input.
type Cast struct {
	Loc    source.Span
	Expr   string
	Result checker.CastResult
	Err    error
}

func (c Cast) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%d:%d %s: error", c.Loc.Line, c.Loc.Column, c.Expr)
	}
	return fmt.Sprintf("%d:%d %s: %s", c.Loc.Line, c.Loc.Column, c.Expr, c.Result.Verdict)
}

// Result collects what one call produced. Diagnostics only holds findings
// recorded during that call.
type Result struct {
	Source      *source.SourceFile
	Decls       []Decl
	Casts       []Cast
	Diagnostics []errors.Finding
}

// Errors returns the diagnostics without the recovery flags.
func (r *Result) Errors() []errors.Diagnostic {
	out := make([]errors.Diagnostic, len(r.Diagnostics))
	for i, f := range r.Diagnostics {
		out[i] = f.Err
	}
	return out
}

// HasFatal reports whether any declaration failed to lower.
func (r *Result) HasFatal() bool {
	for _, f := range r.Diagnostics {
		if !f.Recovered {
			return true
		}
	}
	return false
}

// Session owns one parser and one checker.
type Session struct {
	cfg     *config.Config
	logger  *slog.Logger
	parser  *parser.TSParser
	checker *checker.Checker
}

// Option configures a Session.
type Option func(*Session)

// WithConfig applies file settings to the session's checker.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets the structured logger shared with the checker.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session with a fresh registry. Close releases the
// parser.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		cfg:    config.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	p, err := parser.NewTSParser()
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	s.parser = p
	s.checker = checker.New(checker.WithConfig(s.cfg), checker.WithLogger(s.logger))
	return s, nil
}

// Close releases the parser.
func (s *Session) Close() {
	s.parser.Close()
}

// Checker returns the session's checker.
func (s *Session) Checker() *checker.Checker { return s.checker }

// Expand fully expands t against the session's registry.
func (s *Session) Expand(t types.Type) (types.Type, error) {
	return s.checker.ExpandFully(t)
}

// LowerFile reads and lowers the file at path.
func (s *Session) LowerFile(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	return s.LowerSource(source.FromFile(path, string(content))), nil
}

// LowerString lowers src as a file called name.
func (s *Session) LowerString(name, src string) *Result {
	return s.LowerSource(source.NewSourceFile(name, "", src))
}

// LowerSource parses file and lowers every statement in order. A statement
// that fails is recorded as a fatal finding and the next one proceeds.
func (s *Session) LowerSource(file *source.SourceFile) *Result {
	diags := s.checker.Diagnostics()
	start := diags.Len()
	res := &Result{Source: file}

	prog, syntaxErrs := s.parser.ParseFile(file)
	for _, d := range syntaxErrs {
		diags.Fatal(d)
	}
	if prog != nil {
		for _, stmt := range prog.Statements {
			s.lowerStatement(stmt, res)
		}
	}

	res.Diagnostics = append(res.Diagnostics, diags.Findings()[start:]...)
	s.logger.Info("lowered source",
		slog.String("file", file.DisplayPath()),
		slog.Int("declarations", len(res.Decls)),
		slog.Int("casts", len(res.Casts)),
		slog.Int("diagnostics", len(res.Diagnostics)))
	return res
}

func (s *Session) lowerStatement(stmt parser.Statement, res *Result) {
	c := s.checker
	debugPrintf("// [Driver] statement %T\n", stmt)

	switch st := stmt.(type) {
	case *parser.TypeAliasDeclaration:
		alias, err := c.LowerAlias(st)
		if err != nil {
			c.Fail(err, st)
			return
		}
		res.Decls = append(res.Decls, Decl{Kind: "type", Name: alias.Name, Type: alias, Loc: st.Loc})

	case *parser.InterfaceDeclaration:
		iface, err := c.LowerInterface(st)
		if err != nil {
			c.Fail(err, st)
			return
		}
		res.Decls = append(res.Decls, Decl{Kind: "interface", Name: iface.Name, Type: iface, Loc: st.Loc})

	case *parser.EnumDeclaration:
		alias, err := c.LowerEnum(st)
		if err != nil {
			c.Fail(err, st)
			return
		}
		res.Decls = append(res.Decls, Decl{Kind: "enum", Name: alias.Name, Type: alias.Type, Loc: st.Loc})

	case *parser.FunctionDeclaration:
		fn, err := c.LowerFunction(st.Loc, st.TypeParams, st.Params, st.ReturnType)
		if err != nil {
			c.Fail(fmt.Errorf("function %s: %w", st.Name.Name, err), st)
			return
		}
		if err := c.DeclareValue(st.Name.Name, fn, true, st.Name.Loc); err != nil {
			c.Fail(err, st)
			return
		}
		res.Decls = append(res.Decls, Decl{Kind: "function", Name: st.Name.Name, Type: fn, Loc: st.Loc})

	case *parser.VariableDeclaration:
		for _, d := range st.Declarators {
			s.lowerDeclarator(st.Kind, d, res)
		}

	case *parser.ExpressionStatement:
		if checker.IsCast(st.Expr) {
			s.validateCast(st.Expr, res)
		}

	default:
		s.logger.Debug("skipping statement", slog.String("type", fmt.Sprintf("%T", stmt)))
	}
}

func (s *Session) lowerDeclarator(kind string, d *parser.VariableDeclarator, res *Result) {
	c := s.checker
	name := parser.BindingText(d.Name)

	var declared types.Type
	if _, isIdent := d.Name.(*parser.IdentPattern); !isIdent || d.Name.TypeAnnotation() != nil {
		t, err := c.LowerBinding(d.Name)
		if err != nil {
			c.Fail(fmt.Errorf("variable %s: %w", name, err), d)
			return
		}
		declared = t
	}

	var inferred types.Type
	switch init := d.Init.(type) {
	case nil:
	case *parser.ArrowFunction:
		fn, err := c.LowerFunction(init.Loc, init.TypeParams, init.Params, init.ReturnType)
		if err != nil {
			c.Fail(fmt.Errorf("variable %s: %w", name, err), init)
			return
		}
		inferred = fn
	default:
		if checker.IsCast(init) {
			inferred = s.validateCast(init, res)
			break
		}
		t, err := (&exprTyper{s: s}).TypeOfExpr(init)
		if err != nil {
			c.Fail(err, init)
			return
		}
		if kind != "const" {
			t = types.GetWidenedType(t)
		}
		inferred = t
	}

	t := declared
	if t == nil {
		t = inferred
	}
	if t == nil {
		t = types.ImplicitAny(d.Loc)
	}

	if id, ok := d.Name.(*parser.IdentPattern); ok {
		if err := c.DeclareValue(id.Name.Name, t, kind == "const", id.Loc); err != nil {
			c.Fail(err, d)
			return
		}
	}
	res.Decls = append(res.Decls, Decl{Kind: kind, Name: name, Type: t, Loc: d.Loc})
}

// validateCast records the verdict for expr and returns the cast target, or
// nil when the cast could not be checked.
func (s *Session) validateCast(expr parser.Expression, res *Result) types.Type {
	out, err := s.checker.ValidateCastExpr(expr, &exprTyper{s: s})
	res.Casts = append(res.Casts, Cast{Loc: expr.Span(), Expr: expr.String(), Result: out, Err: err})
	if err != nil {
		s.checker.Fail(err, expr)
	}
	s.logger.Debug("validated cast",
		slog.String("expr", expr.String()),
		slog.String("verdict", out.Verdict.String()))
	return out.Type
}
