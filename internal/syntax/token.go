package syntax

// TokenType defines the type of a lexical token.
type TokenType int

const (
	TokenEOF       TokenType = iota
	TokenIRI                 // <http://example.org/>
	TokenPNameNS             // ex:
	TokenPNameLN             // ex:local
	TokenBlankNode           // _:b0
	TokenVar                 // ?x, $x, {{x}}
	TokenString              // "abc", 'abc', """abc""", '''abc'''
	TokenInteger             // 42
	TokenDecimal             // 4.2
	TokenDouble              // 4.2e1
	TokenLangTag             // @en
	TokenName                // keywords, builtin names, `a`, true/false
	TokenPunct               // { } ( ) [ ] . , ; * / | ^ ^^ + - ! != = < <= > >= && ||
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIRI:
		return "IRI"
	case TokenPNameNS:
		return "PNameNS"
	case TokenPNameLN:
		return "PNameLN"
	case TokenBlankNode:
		return "BlankNode"
	case TokenVar:
		return "Var"
	case TokenString:
		return "String"
	case TokenInteger:
		return "Integer"
	case TokenDecimal:
		return "Decimal"
	case TokenDouble:
		return "Double"
	case TokenLangTag:
		return "LangTag"
	case TokenName:
		return "Name"
	case TokenPunct:
		return "Punct"
	default:
		return "Unknown"
	}
}

// Token represents a single lexical token.
type Token struct {
	Type  TokenType
	Value string // token text without delimiters (IRI brackets, quotes, sigils, '@')
	Quote string // string delimiter, set for TokenString only
	Sigil Sigil  // set for TokenVar only
	Span  Span

	// SpaceBefore reports whether whitespace or a comment separates
	// this token from the previous one.
	SpaceBefore bool
}

func (t Token) describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIRI:
		return "<" + t.Value + ">"
	case TokenVar:
		return t.Sigil.Wrap(t.Value)
	case TokenString:
		return t.Quote + t.Value + t.Quote
	case TokenLangTag:
		return "@" + t.Value
	default:
		return t.Value
	}
}
