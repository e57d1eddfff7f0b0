package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/gnolang/spfmt/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	markStyle    = color.New(color.FgRed, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

// issueFormatter provides the text/template used to render one kind of issue.
type issueFormatter interface {
	IssueTemplate() string
}

func getIssueFormatter(issue types.Issue) issueFormatter {
	switch {
	case issue.Start.Line == 0:
		return &SpanlessIssueFormatter{}
	case issue.Rule == types.RuleUnresolvedPrefix:
		return &UnresolvedPrefixFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedIssue renders issues found in source for a terminal.
func GenerateFormattedIssue(issues []types.Issue, source *types.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, source, getIssueFormatter(issue)))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Note            string
	SnippetLines    []string
}

var funcMap = template.FuncMap{
	"header":  header,
	"snippet": codeSnippet,
	"message": message,
	"note":    note,
	"help":    help,
}

func buildIssue(issue types.Issue, source *types.SourceCode, formatter issueFormatter) string {
	endLine := issue.End.Line
	if endLine < issue.Start.Line {
		endLine = issue.Start.Line
	}
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)

	var lines []string
	if source != nil {
		lines = source.Lines
	}

	data := IssueData{
		Severity:        issue.Severity.String(),
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		StartLine:       issue.Start.Line,
		StartColumn:     issue.Start.Column,
		EndLine:         endLine,
		EndColumn:       issue.End.Column,
		MaxLineNumWidth: maxLineNumWidth,
		Message:         issue.Message,
		Note:            issue.Note,
		SnippetLines:    lines,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// helpers used in the text templates

func header(rule, severity string, maxLineNumWidth int, filename string, startLine, startColumn int) string {
	var s string
	switch severity {
	case "ERROR":
		s = errorStyle.Sprint("error: ")
	case "WARNING":
		s = warningStyle.Sprint("warning: ")
	case "INFO":
		s = infoStyle.Sprint("info: ")
	}
	s += ruleStyle.Sprintf("%s\n", rule)

	s += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth))
	if startLine > 0 {
		return s + fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	}
	return s + fileStyle.Sprint(filename)
}

// codeSnippet prints the lines covered by the issue, each followed by a
// line of carets under the part of it that the issue covers.
func codeSnippet(lines []string, startLine, startColumn, endLine, endColumn, maxLineNumWidth int, padding string) string {
	if !isValidLineRange(startLine, endLine, lines) {
		return ""
	}

	indent := findCommonIndent(lines[startLine-1 : endLine])
	indentWidth := calculateVisualColumn(indent, len(indent)+1)

	var sb strings.Builder
	sb.WriteString(lineStyle.Sprintf("%s|\n", padding))
	for i := startLine; i <= endLine; i++ {
		line := strings.TrimRightFunc(lines[i-1], unicode.IsSpace)

		from := firstNonSpaceColumn(line)
		if i == startLine {
			from = startColumn
		}
		to := len(line) + 1
		if i == endLine {
			to = endColumn
		}

		start := calculateVisualColumn(line, from) - indentWidth
		if start < 0 {
			start = 0
		}
		carets := calculateVisualColumn(line, to) - indentWidth - start
		if carets < 1 {
			carets = 1
		}

		sb.WriteString(lineStyle.Sprintf("%*d | ", maxLineNumWidth, i))
		sb.WriteString(strings.TrimPrefix(line, indent) + "\n")
		sb.WriteString(lineStyle.Sprintf("%s| ", padding))
		sb.WriteString(strings.Repeat(" ", start))
		sb.WriteString(markStyle.Sprint(strings.Repeat("^", carets)) + "\n")
	}
	return sb.String()
}

func message(msg, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func note(text, padding string) string {
	if text == "" {
		return ""
	}
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("note: ") + text + "\n"
}

func help(text, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("help: ") + text + "\n"
}

func isValidLineRange(startLine, endLine int, lines []string) bool {
	return startLine > 0 &&
		startLine <= endLine &&
		endLine <= len(lines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

func firstNonSpaceColumn(line string) int {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	return len(line) - len(trimmed) + 1
}

// calculateVisualColumn returns the display width of line before the
// 1-based byte column, expanding tabs. East Asian wide characters take two
// cells.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		switch {
		case ch == '\t':
			visualColumn += tabWidth - (visualColumn % tabWidth)
		case isWide(ch):
			visualColumn += 2
		default:
			visualColumn++
		}
	}
	if extra := column - 1 - len(line); extra > 0 {
		visualColumn += extra
	}
	return visualColumn
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// findCommonIndent finds the indentation shared by all non-blank lines.
func findCommonIndent(lines []string) string {
	var common []rune
	found := false
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		indent := []rune(line[:len(line)-len(trimmed)])
		if !found {
			common, found = indent, true
			continue
		}
		common = commonPrefix(common, indent)
		if len(common) == 0 {
			break
		}
	}
	return string(common)
}

// commonPrefix finds the common prefix of two rune slices.
func commonPrefix(a, b []rune) []rune {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
