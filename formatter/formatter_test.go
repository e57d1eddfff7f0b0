package formatter

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/spfmt/internal/syntax"
	"github.com/gnolang/spfmt/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func pos(line, column int) syntax.Position {
	return syntax.Position{Line: line, Column: column}
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()

	source := types.NewSourceCode("SELECT *\nWHERE {\n  ?s ?p\n}")
	issues := []types.Issue{
		{
			Rule:     types.RuleSyntaxError,
			Filename: "q.rq",
			Message:  "unexpected '}', expected term",
			Start:    pos(4, 1),
			End:      pos(4, 2),
		},
		{
			Rule:     types.RuleSyntaxError,
			Severity: types.SeverityInfo,
			Filename: "q.rq",
			Message:  "second",
			Start:    pos(3, 3),
			End:      pos(3, 5),
		},
	}

	expected := `error: syntax-error
 --> q.rq:4:1
  |
4 | }
  | ^
  = unexpected '}', expected term

info: syntax-error
 --> q.rq:3:3
  |
3 | ?s ?p
  | ^^
  = second

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, source))
}

func TestGenerateFormattedIssue_MultipleDigitLineNumbers(t *testing.T) {
	t.Parallel()

	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "  # filler"
	}
	lines[9] = "    ?s ex:p ?o ."
	source := &types.SourceCode{Lines: lines}

	issues := []types.Issue{{
		Rule:     types.RuleUnresolvedPrefix,
		Severity: types.SeverityWarning,
		Filename: "q.rq",
		Message:  `prefix "ex" is not declared`,
		Start:    pos(10, 8),
		End:      pos(10, 10),
	}}

	expected := `warning: unresolved-prefix
  --> q.rq:10:8
   |
10 | ?s ex:p ?o .
   |    ^^
   = prefix "ex" is not declared
   = help: declare it in the template or add it to a file passed with --prefix-file

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, source))
}

func TestGenerateFormattedIssue_MultiLineSpan(t *testing.T) {
	t.Parallel()

	source := types.NewSourceCode("FILTER (\n  ?a >\n  1)")
	issues := []types.Issue{{
		Rule:     types.RuleSyntaxError,
		Filename: "q.rq",
		Message:  "bad",
		Start:    pos(1, 8),
		End:      pos(3, 5),
	}}

	expected := `error: syntax-error
 --> q.rq:1:8
  |
1 | FILTER (
  |        ^
2 |   ?a >
  |   ^^^^
3 |   1)
  |   ^^
  = bad

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, source))
}

func TestGenerateFormattedIssue_Spanless(t *testing.T) {
	t.Parallel()

	issues := []types.Issue{{
		Rule:     types.RuleExpansionLimit,
		Filename: "q.rq",
		Message:  "function calls still expanding",
		Note:     "check for recursive definitions",
	}}

	expected := `error: expansion-limit
 --> q.rq
  = function calls still expanding
  = note: check for recursive definitions

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, nil))
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"abc", 4, 3},
		{"abc", 6, 5},
		{"\tx", 2, 8},
		{"a\tx", 3, 8},
		{"\"日本\" x", 9, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateVisualColumn(tt.line, tt.column), "%q col %d", tt.line, tt.column)
	}
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  ", findCommonIndent([]string{"    a", "", "  b"}))
	assert.Equal(t, "", findCommonIndent([]string{"a", "  b"}))
	assert.Equal(t, "", findCommonIndent([]string{"", "  "}))
}
