package internal

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gnolang/spfmt/internal/expand"
	"github.com/gnolang/spfmt/internal/nolint"
	"github.com/gnolang/spfmt/internal/prefix"
	"github.com/gnolang/spfmt/internal/printer"
	"github.com/gnolang/spfmt/internal/syntax"
	"github.com/gnolang/spfmt/internal/types"
)

// Config selects the steps an Engine applies to a template.
type Config struct {
	Indent         int
	Expand         bool
	InsertPrefixes bool
	Format         bool
	MaxIterations  int
	Resolver       *prefix.Resolver
}

// fingerprint identifies the settings that influence the output, for
// caching.
func (c Config) fingerprint() string {
	names := ""
	if c.Resolver != nil {
		for _, name := range c.Resolver.Names() {
			iri, _ := c.Resolver.Lookup(name)
			names += name + "=" + iri + ";"
		}
	}
	return fmt.Sprintf("indent=%d expand=%t prefixes=%t format=%t max=%d ns=%s",
		c.Indent, c.Expand, c.InsertPrefixes, c.Format, c.MaxIterations, names)
}

// Result is the outcome of processing one template.
type Result struct {
	Filename string
	Original string
	Output   string // empty when an error issue stopped processing
	Issues   []types.Issue
}

// Changed reports whether processing produced text different from the
// original.
func (r Result) Changed() bool {
	return !r.Failed() && r.Output != r.Original
}

// Failed reports whether an error issue stopped processing.
func (r Result) Failed() bool {
	for _, issue := range r.Issues {
		if issue.Severity == types.SeverityError {
			return true
		}
	}
	return false
}

// Engine expands, completes and formats templates.
type Engine struct {
	cfg    Config
	logger *zap.Logger
	cache  *Cache
}

// NewEngine creates an engine. A nil logger discards log output and a nil
// resolver knows no prefixes.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = prefix.NewResolver()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = expand.DefaultMaxIterations
	}
	return &Engine{cfg: cfg, logger: logger}
}

// SetCache makes the engine reuse results for content it has seen before.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// Run processes the template stored at path. The error is only set when
// the file cannot be read; problems with the template are reported as
// issues.
func (e *Engine) Run(path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Filename: path}, fmt.Errorf("error reading %s: %w", path, err)
	}
	return e.run(path, content), nil
}

// RunSource processes a template given as text, such as standard input.
func (e *Engine) RunSource(source []byte) (Result, error) {
	return e.run("<stdin>", source), nil
}

func (e *Engine) run(filename string, source []byte) Result {
	var key string
	if e.cache != nil {
		key = CacheKey(source, e.cfg.fingerprint())
		if cached, ok := e.cache.Get(key); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			cached.Filename = filename
			for i := range cached.Issues {
				cached.Issues[i].Filename = filename
			}
			return cached
		}
	}

	res := e.process(filename, string(source))

	if e.cache != nil {
		if err := e.cache.Set(key, res); err != nil {
			e.logger.Warn("failed to update cache", zap.String("file", filename), zap.Error(err))
		}
	}
	return res
}

func (e *Engine) process(filename, text string) Result {
	res := Result{Filename: filename, Original: text}

	tree, err := syntax.Parse(text)
	if err != nil {
		res.Issues = append(res.Issues, e.issueFromError(filename, text, err, true))
		return res
	}
	res.Issues = append(res.Issues, e.prefixIssues(filename, tree, nolint.ParseComments(tree, text))...)

	if e.cfg.Expand && len(tree.Functions) > 0 {
		cycleIssues := e.cycleIssues(filename, tree)
		res.Issues = append(res.Issues, cycleIssues...)
		if res.Failed() {
			return res
		}

		text, err = expand.ExpandAll(text,
			expand.WithMaxIterations(e.cfg.MaxIterations),
			expand.WithLogger(e.logger.With(zap.String("file", filename))),
		)
		if err != nil {
			res.Issues = append(res.Issues, e.issueFromError(filename, res.Original, err, false))
			return res
		}
	}

	if e.cfg.InsertPrefixes {
		text, err = e.cfg.Resolver.InsertUndefinedPrefixes(text)
		if err != nil {
			res.Issues = append(res.Issues, e.issueFromError(filename, res.Original, err, false))
			return res
		}
	}

	if e.cfg.Format {
		text, err = printer.FormatString(text, e.cfg.Indent)
		if err != nil {
			res.Issues = append(res.Issues, e.issueFromError(filename, res.Original, err, false))
			return res
		}
		text += "\n"
	}

	res.Output = text
	return res
}

// prefixIssues warns about prefixes that are used without a declaration
// and that will not be filled in from a prefix file.
func (e *Engine) prefixIssues(filename string, tree *syntax.Tree, nl *nolint.Manager) []types.Issue {
	var issues []types.Issue
	for _, iri := range prefix.UndeclaredPrefixes(tree) {
		name := iri.Prefix()
		if _, ok := e.cfg.Resolver.Lookup(name); ok && e.cfg.InsertPrefixes {
			continue
		}
		if nl.IsNolint(iri.Loc.Start.Line, types.RuleUnresolvedPrefix) {
			continue
		}
		issues = append(issues, types.Issue{
			Rule:     types.RuleUnresolvedPrefix,
			Severity: types.SeverityWarning,
			Filename: filename,
			Message:  (&prefix.UnresolvedPrefixError{Prefix: name}).Error(),
			Start:    iri.Loc.Start,
			End:      iri.Loc.End,
		})
	}
	return issues
}

// cycleIssues reports functions that call themselves. Cycles reachable
// from the query body are errors since expanding them never finishes.
func (e *Engine) cycleIssues(filename string, tree *syntax.Tree) []types.Issue {
	cycles := expand.DetectCycles(tree)
	if len(cycles) == 0 {
		return nil
	}

	reached := expand.ReachableFunctions(tree)
	issues := make([]types.Issue, 0, len(cycles))
	for _, c := range cycles {
		issue := types.Issue{
			Rule:     types.RuleRecursive,
			Severity: types.SeverityWarning,
			Filename: filename,
			Message:  "function " + c.Path[0] + " calls itself",
			Note:     "call chain: " + c.String(),
			Start:    c.Def.Name.Loc.Start,
			End:      c.Def.Name.Loc.End,
		}
		if reached[c.Path[0]] {
			issue.Severity = types.SeverityError
		}
		issues = append(issues, issue)
	}
	return issues
}

// issueFromError converts a processing error into an issue. Syntax error
// locations are kept when located is set; errors raised after a splice
// refer to intermediate text.
func (e *Engine) issueFromError(filename, original string, err error, located bool) types.Issue {
	issue := types.Issue{
		Severity: types.SeverityError,
		Filename: filename,
		Message:  err.Error(),
	}

	var (
		synErr   *syntax.Error
		argErr   *expand.MacroArgumentError
		countErr *expand.ArgumentCountError
		limitErr *expand.ExpansionLimitError
	)
	switch {
	case errors.As(err, &argErr):
		issue.Rule = types.RuleMacroArgument
		issue.Message = fmt.Sprintf("argument %d of %s must be a variable, IRI or literal", argErr.Index+1, argErr.Function)
		if argErr.Span.Text(original) == argErr.Arg {
			issue.Start, issue.End = argErr.Span.Start, argErr.Span.End
		} else {
			issue.Note = "found " + argErr.Arg + " in expanded text"
		}
	case errors.As(err, &countErr):
		issue.Rule = types.RuleMacroArgument
		issue.Message = fmt.Sprintf("%s takes %d arguments, got %d", countErr.Function, countErr.Want, countErr.Got)
		if countErr.Span.Text(original) == countErr.Call {
			issue.Start, issue.End = countErr.Span.Start, countErr.Span.End
		} else {
			issue.Note = "found " + countErr.Call + " in expanded text"
		}
	case errors.As(err, &limitErr):
		issue.Rule = types.RuleExpansionLimit
		issue.Message = fmt.Sprintf("function calls still expanding after %d passes", limitErr.Iterations)
		issue.Note = "a function that calls itself, directly or through others, never finishes expanding"
	case errors.As(err, &synErr):
		issue.Rule = types.RuleSyntaxError
		issue.Message = synErr.Message
		if located {
			issue.Start, issue.End = synErr.Span.Start, synErr.Span.End
		} else {
			issue.Note = "the error is in the text produced by expansion"
		}
	default:
		issue.Rule = types.RuleInternal
	}

	e.logger.Debug("template rejected",
		zap.String("file", filename),
		zap.String("rule", issue.Rule),
		zap.Error(err),
	)
	return issue
}
