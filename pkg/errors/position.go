package errors

import "tslower/pkg/source"

// Position represents a specific location in the source code.
// It includes line and column numbers (1-based) for human-readability,
// and byte offsets (0-based) for potential use in tooling (like LSP).
type Position struct {
	Line     int                // 1-based line number
	Column   int                // 1-based column number
	StartPos int                // 0-based byte offset of the start of the error span
	EndPos   int                // 0-based byte offset of the end of the error span (exclusive)
	Source   *source.SourceFile // Reference to the source file, nil when unknown
}

// At converts a node span into a Position.
func At(span source.Span) Position {
	return Position{
		Line:     span.Line,
		Column:   span.Column,
		StartPos: span.Start,
		EndPos:   span.End,
	}
}

// Span converts the position back into a span.
func (p Position) Span() source.Span {
	return source.Span{Start: p.StartPos, End: p.EndPos, Line: p.Line, Column: p.Column}
}
