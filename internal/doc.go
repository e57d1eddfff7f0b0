// Package internal provides the engine behind spfmt.
//
// The engine takes a SPARQL template through three optional steps: expansion
// of template function calls, declaration of prefixes that the template uses
// without declaring, and canonical formatting. Problems with a template are
// reported as issues rather than errors, so that a run over many files can
// show all of them at once.
//
// Key components:
//
// Engine: runs the steps selected by a Config over a file or a source text
// and returns a Result holding the output and the issues found.
//
// Cache: stores results on disk, keyed by the template content and the
// settings that influence the output.
//
// Watcher: runs the engine on templates whenever they are written.
//
// Usage:
//
//	engine := internal.NewEngine(internal.Config{
//	    Indent: 2,
//	    Expand: true,
//	    Format: true,
//	}, logger)
//
//	res, err := engine.Run("path/to/query.rq")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range res.Issues {
//	    fmt.Printf("Found issue: %s at %s\n", issue.Message, issue.Start)
//	}
//
// This package is intended for internal use within spfmt and should not be
// imported by external packages.
package internal
