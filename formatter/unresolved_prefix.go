package formatter

type UnresolvedPrefixFormatter struct{}

func (f *UnresolvedPrefixFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .StartColumn .EndLine .EndColumn .MaxLineNumWidth .Padding -}}
{{message .Message .Padding}}{{note .Note .Padding -}}
{{help "declare it in the template or add it to a file passed with --prefix-file" .Padding}}
`
}
