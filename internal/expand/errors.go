package expand

import (
	"fmt"

	"github.com/gnolang/spfmt/internal/syntax"
)

// MacroArgumentError reports a call argument that cannot be substituted
// into a function body. Arguments must be variables, IRIs or literals.
type MacroArgumentError struct {
	Function string
	Index    int    // 0-based
	Arg      string // source text of the argument
	Span     syntax.Span
}

func (e *MacroArgumentError) Error() string {
	return fmt.Sprintf("line %d col %d: argument %d of %s must be a variable, IRI or literal, got %s",
		e.Span.Start.Line, e.Span.Start.Column, e.Index+1, e.Function, e.Arg)
}

// ArgumentCountError reports a call whose number of arguments differs from
// the number of parameters of the function.
type ArgumentCountError struct {
	Function string
	Want     int
	Got      int
	Call     string // source text of the call
	Span     syntax.Span
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("line %d col %d: %s takes %d arguments, got %d",
		e.Span.Start.Line, e.Span.Start.Column, e.Function, e.Want, e.Got)
}

// ExpansionLimitError is returned when calls are still being expanded after
// the configured number of passes, which happens with recursive functions.
type ExpansionLimitError struct {
	Iterations int
}

func (e *ExpansionLimitError) Error() string {
	return fmt.Sprintf("function calls still expanding after %d passes, check for recursive definitions", e.Iterations)
}
