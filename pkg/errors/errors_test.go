package errors

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"strings"
	"testing"

	"tslower/pkg/source"
)

func TestAsDiagnosticUnwraps(t *testing.T) {
	inner := NewTypeError(source.Span{Line: 2, Column: 3}, CodeCannotFindName, "Cannot find name '%s'.", "x")
	wrapped := fmt.Errorf("interface I: %w", inner)

	d := AsDiagnostic(wrapped, source.Span{})
	if d != Diagnostic(inner) {
		t.Errorf("Expected the wrapped TypeError, got %v", d)
	}
}

func TestAsDiagnosticWrapsPlainErrors(t *testing.T) {
	plain := goerrors.New("boom")
	d := AsDiagnostic(plain, source.Span{Line: 4, Column: 1})
	if d.Code() != CodeInternal {
		t.Errorf("Expected TS%d, got TS%d", CodeInternal, d.Code())
	}
	if d.Pos().Line != 4 {
		t.Errorf("Expected line 4, got %d", d.Pos().Line)
	}
	if !goerrors.Is(d, plain) {
		t.Error("Expected the cause to be preserved")
	}
	if AsDiagnostic(nil, source.Span{}) != nil {
		t.Error("Expected nil for a nil error")
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Recover(NewTypeError(source.Span{}, CodeImplicitAny, "a"))
	if c.HasFatal() {
		t.Error("Expected no fatal finding yet")
	}
	c.Fatal(NewTypeError(source.Span{}, CodeDuplicateIdentifier, "b"))
	if !c.HasFatal() || c.Len() != 2 {
		t.Errorf("Expected 2 findings with one fatal, got %d", c.Len())
	}
	if f := c.Findings(); !f[0].Recovered || f[1].Recovered {
		t.Errorf("Expected recovery flags in order, got %+v", f)
	}
	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Expected empty collector, got %d", c.Len())
	}
}

func TestTupleCastErrorMessage(t *testing.T) {
	err := &TupleCastError{Position: Position{Line: 1, Column: 11}, Want: 3, Got: 2}
	want := "Cast Error TS4104 at 1:11: cannot cast a tuple of length 2 to a tuple of length 3"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestDisplayErrors(t *testing.T) {
	src := "type A = string;\ninterface I { [missing]: string }"
	err := NewTypeError(source.Span{Start: 32, End: 39, Line: 2, Column: 16}, CodeCannotFindName, "Cannot find name 'missing'.")

	var buf bytes.Buffer
	DisplayErrors(&buf, source.NewSourceFile("test.ts", "", src), []Diagnostic{err})
	got := buf.String()

	if !strings.Contains(got, "Type Error TS2304 at 2:16: Cannot find name 'missing'.") {
		t.Errorf("Expected header line, got %q", got)
	}
	if !strings.Contains(got, "  interface I { [missing]: string }\n") {
		t.Errorf("Expected source line, got %q", got)
	}
	if !strings.Contains(got, "  "+strings.Repeat(" ", 15)+"^~~~~~~\n") {
		t.Errorf("Expected caret marker under the key, got %q", got)
	}
}

func TestDisplayErrorsWithoutExcerpt(t *testing.T) {
	file := source.NewSourceFile("test.ts", "", "x")
	tests := []struct {
		name string
		file *source.SourceFile
		err  Diagnostic
		want string
	}{
		{"line out of range", file, &SyntaxError{Position: Position{Line: 9, Column: 1, EndPos: 1}, Msg: "bad"}, "Syntax Error: bad\n"},
		{"synthesized node", file, NewTypeError(source.Span{}, CodeInternal, "lost"), "Type Error TS9999: lost\n"},
		{"no file", nil, NewTypeError(source.Span{Start: 0, End: 1, Line: 1, Column: 1}, CodeInternal, "lost"), "Type Error TS9999: lost\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayErrors(&buf, tt.file, []Diagnostic{tt.err})
			if got := buf.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
