package checker

import (
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
)

// recover records a finding that lowering worked around.
func (c *Checker) recover(err error, span source.Span) {
	if d := errors.AsDiagnostic(err, span); d != nil {
		debugPrintf("// [Checker] recovered: %s\n", d.Message())
		c.diags.Recover(d)
	}
}

// Fail records a finding that aborted lowering of a declaration.
func (c *Checker) Fail(err error, node parser.Node) {
	if d := errors.AsDiagnostic(err, node.Span()); d != nil {
		debugPrintf("// [Checker] fatal: %s\n", d.Message())
		c.diags.Fatal(d)
	}
}

// internalError is returned by dispatches that meet a node they do not handle.
func internalError(node parser.Node) error {
	return errors.NewTypeError(node.Span(), errors.CodeInternal, "unhandled syntax node %T", node)
}
