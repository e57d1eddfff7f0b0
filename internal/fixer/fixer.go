// Package fixer writes formatted templates back to disk or reports the
// change as a unified diff.
package fixer

import (
	"fmt"
	"io"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// Fixer applies formatting results to files.
type Fixer struct {
	DryRun bool
	out    io.Writer
}

// New creates a Fixer that reports to out. In dry-run mode files are left
// untouched and a diff is printed instead.
func New(dryRun bool, out io.Writer) *Fixer {
	if out == nil {
		out = os.Stdout
	}
	return &Fixer{
		DryRun: dryRun,
		out:    out,
	}
}

// Fix replaces the content of filename with output when it differs from
// original. It reports whether the file needed a change.
func (f *Fixer) Fix(filename, original, output string) (bool, error) {
	if original == output {
		return false, nil
	}

	if f.DryRun {
		diff, err := Diff(filename, original, output)
		if err != nil {
			return true, err
		}
		fmt.Fprint(f.out, diff)
		return true, nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(filename); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(filename, []byte(output), mode); err != nil {
		return true, fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintf(f.out, "Formatted %s\n", filename)
	return true, nil
}

// Diff returns the unified diff between original and output, labelled
// with filename.
func Diff(filename, original, output string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(output),
		FromFile: filename + ".orig",
		ToFile:   filename,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", filename, err)
	}
	return text, nil
}
