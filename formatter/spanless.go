package formatter

// SpanlessIssueFormatter renders issues that concern a whole file, such as
// an expansion that never settles.
type SpanlessIssueFormatter struct{}

func (f *SpanlessIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{message .Message .Padding}}{{note .Note .Padding}}
`
}
