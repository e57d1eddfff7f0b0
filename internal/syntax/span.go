package syntax

import (
	"fmt"
	"sort"
)

// Position is a location in a source text.
// Offset is a 0-based byte offset, Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range [Start, End) of a source text.
// Spans are only meaningful for the exact text that produced them.
type Span struct {
	Start Position
	End   Position
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Text returns the part of src covered by the span.
func (s Span) Text(src string) string {
	if s.Start.Offset < 0 || s.End.Offset > len(src) || s.Start.Offset > s.End.Offset {
		return ""
	}
	return src[s.Start.Offset:s.End.Offset]
}

// Comment is a `#` comment collected by the lexer.
type Comment struct {
	Text string // from '#' to the end of the line, newline excluded
	Pos  int    // byte offset of '#'
}

// lineIndex maps byte offsets to line and column numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) position(offset int) Position {
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	return Position{
		Offset: offset,
		Line:   line,
		Column: offset - li.starts[line-1] + 1,
	}
}

func (li *lineIndex) span(start, end int) Span {
	return Span{Start: li.position(start), End: li.position(end)}
}
