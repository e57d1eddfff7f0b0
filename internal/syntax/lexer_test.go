package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Tokenize(t *testing.T) {
	t.Parallel()

	type tok struct {
		Type  TokenType
		Value string
	}

	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "iri and prefixed names",
			input: "<http://ex.org/a> ex:b ex: :c",
			want: []tok{
				{TokenIRI, "http://ex.org/a"},
				{TokenPNameLN, "ex:b"},
				{TokenPNameNS, "ex:"},
				{TokenPNameLN, ":c"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "variables with every sigil",
			input: "?x $y {{z}}",
			want: []tok{
				{TokenVar, "x"},
				{TokenVar, "y"},
				{TokenVar, "z"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "literals",
			input: `"a" 'b' """c""" 1 2.5 3e10 "x"@en`,
			want: []tok{
				{TokenString, "a"},
				{TokenString, "b"},
				{TokenString, "c"},
				{TokenInteger, "1"},
				{TokenDecimal, "2.5"},
				{TokenDouble, "3e10"},
				{TokenString, "x"},
				{TokenLangTag, "en"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "triple terminated by a dot",
			input: "?s a ex:C.",
			want: []tok{
				{TokenVar, "s"},
				{TokenName, "a"},
				{TokenPNameLN, "ex:C"},
				{TokenPunct, "."},
				{TokenEOF, ""},
			},
		},
		{
			name:  "operators",
			input: "?a<=?b && ?c != 1 || !?d",
			want: []tok{
				{TokenVar, "a"},
				{TokenPunct, "<="},
				{TokenVar, "b"},
				{TokenPunct, "&&"},
				{TokenVar, "c"},
				{TokenPunct, "!="},
				{TokenInteger, "1"},
				{TokenPunct, "||"},
				{TokenPunct, "!"},
				{TokenVar, "d"},
				{TokenEOF, ""},
			},
		},
		{
			name:  "blank nodes and datatypes",
			input: `_:b0 "1"^^xsd:int`,
			want: []tok{
				{TokenBlankNode, "b0"},
				{TokenString, "1"},
				{TokenPunct, "^^"},
				{TokenPNameLN, "xsd:int"},
				{TokenEOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, _, err := NewLexer(tt.input).Tokenize()
			require.NoError(t, err)

			got := make([]tok, len(tokens))
			for i, token := range tokens {
				got[i] = tok{token.Type, token.Value}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexer_Sigils(t *testing.T) {
	t.Parallel()

	tokens, _, err := NewLexer("?a $b {{c}}").Tokenize()
	require.NoError(t, err)

	assert.Equal(t, SigilQuestion, tokens[0].Sigil)
	assert.Equal(t, SigilDollar, tokens[1].Sigil)
	assert.Equal(t, SigilMustache, tokens[2].Sigil)
	assert.Equal(t, 11, tokens[2].Span.End.Offset)
}

func TestLexer_Comments(t *testing.T) {
	t.Parallel()

	input := "# head\nSELECT * # tail\nWHERE {}"
	tokens, comments, err := NewLexer(input).Tokenize()
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, Comment{Text: "# head", Pos: 0}, comments[0])
	assert.Equal(t, Comment{Text: "# tail", Pos: 16}, comments[1])

	for _, tok := range tokens {
		assert.NotContains(t, tok.Value, "#")
	}
}

func TestLexer_Positions(t *testing.T) {
	t.Parallel()

	tokens, _, err := NewLexer("SELECT\n  ?x").Tokenize()
	require.NoError(t, err)

	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, tokens[0].Span.Start)
	assert.Equal(t, Position{Offset: 9, Line: 2, Column: 3}, tokens[1].Span.Start)
	assert.Equal(t, Position{Offset: 11, Line: 2, Column: 5}, tokens[1].Span.End)
	assert.True(t, tokens[1].SpaceBefore)
}

func TestLexer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"newline in short string", "'a\nb'", "unterminated string literal"},
		{"bare dollar", "$ ", "variable name expected after '$'"},
		{"unknown character", "?x ~ ?y", "unexpected character '~'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := NewLexer(tt.input).Tokenize()
			require.Error(t, err)

			var synErr *Error
			require.ErrorAs(t, err, &synErr)
			assert.Equal(t, tt.msg, synErr.Message)
		})
	}
}
