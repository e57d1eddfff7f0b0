package cmd

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/gnolang/spfmt/formatter"
	"github.com/gnolang/spfmt/internal"
	"github.com/gnolang/spfmt/internal/fixer"
	"github.com/gnolang/spfmt/internal/types"
	"github.com/gnolang/spfmt/pipeline"
)

type outputMode int

const (
	printOutput outputMode = iota // write results to stdout
	writeOutput                   // write results back to their files
	diffOutput                    // print a unified diff per changed file
)

func modeFromFlags(write, diff bool) outputMode {
	switch {
	case diff:
		return diffOutput
	case write:
		return writeOutput
	default:
		return printOutput
	}
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// runTemplates processes paths, or the input stream when no path is given,
// and emits the results according to mode.
func runTemplates(
	ctx context.Context,
	logger *zap.Logger,
	engine pipeline.Engine,
	config pipeline.Config,
	paths []string,
	s streams,
	mode outputMode,
) error {
	var results []internal.Result
	if len(paths) == 0 {
		source, err := io.ReadAll(s.in)
		if err != nil {
			return fmt.Errorf("error reading standard input: %w", err)
		}
		res, err := pipeline.ProcessSource(engine, source)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		var err error
		results, err = pipeline.ProcessFiles(ctx, logger, engine, config, paths, pipeline.ProcessFile)
		if err != nil {
			return err
		}
	}

	hasIssues := printIssues(s.err, results)

	fix := fixer.New(mode == diffOutput, s.out)
	for _, res := range results {
		if res.Failed() {
			continue
		}
		if mode == printOutput || (mode == writeOutput && len(paths) == 0) {
			fmt.Fprint(s.out, res.Output)
			continue
		}
		if _, err := fix.Fix(res.Filename, res.Original, res.Output); err != nil {
			logger.Error("error writing result", zap.String("file", res.Filename), zap.Error(err))
			return err
		}
	}

	if hasIssues {
		return ErrIssuesFound
	}
	return nil
}

// printIssues renders the issues of every result and reports whether there
// were any.
func printIssues(w io.Writer, results []internal.Result) bool {
	found := false
	for _, res := range results {
		if len(res.Issues) == 0 {
			continue
		}
		found = true
		fmt.Fprintln(w, formatter.GenerateFormattedIssue(res.Issues, types.NewSourceCode(res.Original)))
	}
	return found
}
