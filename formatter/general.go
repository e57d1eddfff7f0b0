package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .StartColumn .EndLine .EndColumn .MaxLineNumWidth .Padding -}}
{{message .Message .Padding}}{{note .Note .Padding}}
`
}
