package syntax

import "fmt"

// Error is a syntax error: the input does not conform to the grammar.
type Error struct {
	Message string
	Span    Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func unexpected(tok Token, expected string) *Error {
	msg := "unexpected " + tok.describe()
	if tok.Type == TokenEOF {
		msg = "unexpected end of input"
	}
	if expected != "" {
		msg += ", expected " + expected
	}
	return &Error{Message: msg, Span: tok.Span}
}
