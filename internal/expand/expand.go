package expand

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/spfmt/internal/syntax"
)

// DefaultMaxIterations bounds the number of passes ExpandAll makes.
const DefaultMaxIterations = 64

type options struct {
	maxIterations int
	logger        *zap.Logger
}

// Option configures ExpandAll.
type Option func(*options)

// WithMaxIterations sets the number of passes after which ExpandAll gives up
// with an *ExpansionLimitError. Values below 1 keep the default.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIterations = n
		}
	}
}

// WithLogger sets the logger used to trace expansion passes.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// ExpandAll expands function calls until none are left and then removes the
// function definitions. Every pass works on freshly parsed text.
func ExpandAll(text string, opts ...Option) (string, error) {
	o := options{
		maxIterations: DefaultMaxIterations,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	for passes := 0; ; passes++ {
		next, expanded, err := ExpandOnce(text)
		if err != nil {
			return "", err
		}
		if !expanded {
			o.logger.Debug("expansion finished", zap.Int("passes", passes))
			break
		}
		if passes == o.maxIterations {
			return "", &ExpansionLimitError{Iterations: passes}
		}
		o.logger.Debug("expanded function calls", zap.Int("pass", passes+1))
		text = next
	}

	return DeleteFunctionDefinitions(text)
}

// ExpandOnce replaces every call of a function defined in text with the
// function body, substituting the arguments for the parameters. It reports
// whether any call was replaced.
func ExpandOnce(text string) (string, bool, error) {
	tree, err := syntax.Parse(text)
	if err != nil {
		return "", false, err
	}
	if len(tree.Functions) == 0 {
		return text, false, nil
	}

	e := newExpander(text, tree)
	if err := e.collect(); err != nil {
		return "", false, err
	}
	if len(e.replacements) == 0 {
		return text, false, nil
	}

	out, err := applyReplacements(text, e.replacements)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// DeleteFunctionDefinitions removes every function definition from text.
func DeleteFunctionDefinitions(text string) (string, error) {
	tree, err := syntax.Parse(text)
	if err != nil {
		return "", err
	}

	reps := make([]replacement, len(tree.Functions))
	for i, def := range tree.Functions {
		reps[i] = replacement{start: def.Loc.Start.Offset, end: def.Loc.End.Offset}
	}
	return applyReplacements(text, reps)
}

// expander holds the state of one expansion pass.
type expander struct {
	src          string
	tree         *syntax.Tree
	defs         map[string]*syntax.FunctionDef
	globals      map[string]bool
	replacements []replacement
	err          error
}

func newExpander(src string, tree *syntax.Tree) *expander {
	e := &expander{
		src:     src,
		tree:    tree,
		defs:    make(map[string]*syntax.FunctionDef, len(tree.Functions)),
		globals: make(map[string]bool),
	}
	for _, def := range tree.Functions {
		e.defs[def.Name.String()] = def
	}
	for _, v := range syntax.Vars(tree.Body) {
		e.globals[v.Name] = true
	}
	if tree.Values != nil {
		for _, v := range syntax.Vars(tree.Values) {
			e.globals[v.Name] = true
		}
	}
	return e
}

// collect records one replacement per call site of a known function.
func (e *expander) collect() error {
	syntax.Inspect(e.tree.Body, func(n syntax.Node) bool {
		if e.err != nil {
			return false
		}
		call, ok := n.(*syntax.FunctionCall)
		if !ok {
			return true
		}
		def, ok := e.defs[call.Name.String()]
		if !ok {
			return true
		}

		body, err := e.expandCall(call, def)
		if err != nil {
			e.err = err
			return false
		}
		e.replacements = append(e.replacements, replacement{
			start: call.Loc.Start.Offset,
			end:   call.Loc.End.Offset,
			text:  body,
		})
		return false
	})
	return e.err
}

// expandCall returns the body of def with the arguments of call substituted
// for its parameters and clashing local variables renamed.
func (e *expander) expandCall(call *syntax.FunctionCall, def *syntax.FunctionDef) (string, error) {
	params := make(map[string]int, len(def.Params))
	for i, p := range def.Params {
		params[p.Name] = i
	}

	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		s, err := e.argument(call, i, arg)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	if len(args) != len(def.Params) {
		return "", &ArgumentCountError{
			Function: call.Name.String(),
			Want:     len(def.Params),
			Got:      len(args),
			Call:     call.Loc.Text(e.src),
			Span:     call.Loc,
		}
	}

	bodyVars := syntax.Vars(def.Body)
	taken := make(map[string]bool, len(e.globals)+len(bodyVars))
	for name := range e.globals {
		taken[name] = true
	}
	for _, v := range bodyVars {
		taken[v.Name] = true
	}

	base := def.BodySpan.Start.Offset
	renamed := make(map[string]string)
	var reps []replacement
	for _, v := range bodyVars {
		start := v.Loc.Start.Offset - base
		end := v.Loc.End.Offset - base

		if i, ok := params[v.Name]; ok {
			reps = append(reps, replacement{start: start, end: end, text: args[i]})
			continue
		}
		if !e.globals[v.Name] {
			continue
		}
		name, ok := renamed[v.Name]
		if !ok {
			name = freshName(v.Name, taken)
			taken[name] = true
			renamed[v.Name] = name
		}
		reps = append(reps, replacement{start: start, end: end, text: v.Sigil.Wrap(name)})
	}

	out, err := applyReplacements(def.BodySpan.Text(e.src), reps)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// argument renders a call argument for substitution.
func (e *expander) argument(call *syntax.FunctionCall, i int, arg syntax.Expr) (string, error) {
	if t, ok := arg.(*syntax.TermExpr); ok {
		switch term := t.Term.(type) {
		case *syntax.Var:
			return term.String(), nil
		case *syntax.IRI:
			return term.String(), nil
		case *syntax.Literal:
			return term.String(), nil
		}
	}
	return "", &MacroArgumentError{
		Function: call.Name.String(),
		Index:    i,
		Arg:      arg.Location().Text(e.src),
		Span:     arg.Location(),
	}
}

// freshName returns the first of name_1, name_2, ... not in taken.
func freshName(name string, taken map[string]bool) string {
	for n := 1; ; n++ {
		candidate := name + "_" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}
