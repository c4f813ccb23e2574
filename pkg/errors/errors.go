package errors

import (
	goerrors "errors"
	"fmt"
	"io"
	"strings"

	"tslower/pkg/source"
)

// Code is a diagnostic number. Values follow the TypeScript compiler's numbering
// so that findings can be cross-referenced with tsc output.
type Code int

const (
	CodeNone                   Code = 0
	CodeComputedKeyInterface   Code = 1169
	CodeComputedKeyTypeLiteral Code = 1170
	CodeDuplicateIdentifier    Code = 2300
	CodeCannotFindName         Code = 2304
	CodeRecursiveBaseType      Code = 2310
	CodeInterfaceExtendsObject Code = 2312
	CodePropertyDoesNotExist   Code = 2339
	CodeCastMayBeMistake       Code = 2352
	CodeExcessiveDepth         Code = 2589
	CodeTupleCastArity         Code = 4104
	CodeImplicitAny            Code = 7006
	CodeMemberImplicitAny      Code = 7008
	CodeInternal               Code = 9999
)

// Diagnostic is the interface implemented by all errors produced while lowering
// and checking types.
type Diagnostic interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Syntax", "Type", "Cast"
	// Message returns the specific error message without position info.
	Message() string
	Code() Code
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// SyntaxError represents an error reported by the front end while building the syntax tree.
type SyntaxError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Code() Code      { return CodeNone }
func (e *SyntaxError) Unwrap() error   { return e.Cause }

// TypeError represents an error during lowering or static type checking.
type TypeError struct {
	Position
	Msg     string
	ErrCode Code
	Cause   error // Underlying cause, if any
}

func (e *TypeError) Error() string {
	if e.ErrCode != CodeNone {
		return fmt.Sprintf("Type Error TS%d at %d:%d: %s", e.ErrCode, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("Type Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *TypeError) Pos() Position   { return e.Position }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Code() Code      { return e.ErrCode }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// NewTypeError builds a TypeError located at span.
func NewTypeError(span source.Span, code Code, format string, args ...any) *TypeError {
	return &TypeError{
		Position: At(span),
		Msg:      fmt.Sprintf(format, args...),
		ErrCode:  code,
	}
}

// AsDiagnostic returns the Diagnostic wrapped by err, or wraps err in an
// internal TypeError located at span.
func AsDiagnostic(err error, span source.Span) Diagnostic {
	if err == nil {
		return nil
	}
	var diag Diagnostic
	if goerrors.As(err, &diag) {
		return diag
	}
	return &TypeError{Position: At(span), Msg: err.Error(), ErrCode: CodeInternal, Cause: err}
}

// TupleCastError is raised when a tuple is cast to a tuple of a different length.
// It is the only cast error decided without consulting assignability.
type TupleCastError struct {
	Position
	Left  source.Span // the cast target tuple
	Right source.Span // the tuple type of the casted expression
	Want  int
	Got   int
}

func (e *TupleCastError) Error() string {
	return fmt.Sprintf("Cast Error TS%d at %d:%d: %s", CodeTupleCastArity, e.Line, e.Column, e.Message())
}
func (e *TupleCastError) Pos() Position { return e.Position }
func (e *TupleCastError) Kind() string  { return "Cast" }
func (e *TupleCastError) Message() string {
	return fmt.Sprintf("cannot cast a tuple of length %d to a tuple of length %d", e.Got, e.Want)
}
func (e *TupleCastError) Code() Code    { return CodeTupleCastArity }
func (e *TupleCastError) Unwrap() error { return nil }

// --- Collection ---

// Finding is one entry of the diagnostics stream.
type Finding struct {
	Err Diagnostic
	// Recovered is true when the node under validation was repaired and
	// lowering continued; false when the failure aborted a unit of lowering.
	Recovered bool
}

// Collector accumulates findings for one checking pass, in order.
type Collector struct {
	findings []Finding
}

// Recover records a recoverable finding.
func (c *Collector) Recover(err Diagnostic) {
	c.findings = append(c.findings, Finding{Err: err, Recovered: true})
}

// Fatal records a failure that aborted lowering of a unit.
func (c *Collector) Fatal(err Diagnostic) {
	c.findings = append(c.findings, Finding{Err: err})
}

// Findings returns the recorded findings in order.
func (c *Collector) Findings() []Finding {
	return c.findings
}

// Errors returns the recorded diagnostics without the recovery flag.
func (c *Collector) Errors() []Diagnostic {
	out := make([]Diagnostic, len(c.findings))
	for i, f := range c.findings {
		out[i] = f.Err
	}
	return out
}

// Len returns the number of findings.
func (c *Collector) Len() int { return len(c.findings) }

// HasFatal reports whether any non-recovered finding was recorded.
func (c *Collector) HasFatal() bool {
	for _, f := range c.findings {
		if !f.Recovered {
			return true
		}
	}
	return false
}

// Reset drops all findings.
func (c *Collector) Reset() {
	c.findings = nil
}

// --- Error Reporting ---

// DisplayErrors writes a list of diagnostics to w in a user-friendly format,
// including the line of file they point at and a position marker.
func DisplayErrors(w io.Writer, file *source.SourceFile, errs []Diagnostic) {
	if len(errs) == 0 {
		return
	}

	var lines []string
	if file != nil {
		lines = file.Lines()
	}

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()
		code := ""
		if err.Code() != CodeNone {
			code = fmt.Sprintf(" TS%d", err.Code())
		}

		// Synthesized nodes and out-of-range lines get no source excerpt.
		lineIdx := pos.Line - 1
		if pos.Span().IsZero() || lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s Error%s: %s\n", kind, code, msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		fmt.Fprintf(w, "%s Error%s at %d:%d: %s\n", kind, code, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		marker := strings.Repeat(" ", col) + "^"
		if width := pos.Span().Len(); width > 1 && col+width <= len(sourceLine) {
			marker += strings.Repeat("~", width-1)
		}
		fmt.Fprintf(w, "  %s\n", marker)
		fmt.Fprintln(w)
	}
}
