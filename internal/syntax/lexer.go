package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer is responsible for scanning the input string and producing tokens.
// Comments are not tokens: they are collected on a side list in source order.
type Lexer struct {
	input    string
	position int
	lines    *lineIndex

	tokens   []Token
	comments []Comment
	space    bool // whitespace or a comment seen since the last token
}

// NewLexer returns a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		lines:  newLineIndex(input),
		tokens: make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens
// followed by a TokenEOF, together with the comments found on the way.
func (l *Lexer) Tokenize() ([]Token, []Comment, error) {
	for l.position < len(l.input) {
		c := l.input[l.position]
		var err error
		switch {
		case isWhitespace(c):
			l.position++
			l.space = true

		case c == '#':
			l.lexComment()

		case c == '<':
			l.lexAngle()

		case c == '"' || c == '\'':
			err = l.lexString()

		case c == '?' || c == '$':
			err = l.lexVar()

		case c == '{':
			l.lexBrace()

		case c == '_' && l.peekByte(1) == ':':
			err = l.lexBlankNode()

		case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
			l.lexNumber()

		case c == ':':
			l.lexPrefixedName(l.position, l.position)

		case c == '@':
			err = l.lexLangTag()

		default:
			r, _ := utf8.DecodeRuneInString(l.input[l.position:])
			if isNameStartRune(r) {
				l.lexWord()
			} else {
				err = l.lexPunct()
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}

	l.addToken(TokenEOF, "", l.position, l.position)
	return l.tokens, l.comments, nil
}

func (l *Lexer) peekByte(n int) byte {
	if l.position+n < len(l.input) {
		return l.input[l.position+n]
	}
	return 0
}

func (l *Lexer) addToken(tokenType TokenType, value string, start, end int) *Token {
	l.tokens = append(l.tokens, Token{
		Type:        tokenType,
		Value:       value,
		Span:        l.lines.span(start, end),
		SpaceBefore: l.space || len(l.tokens) == 0,
	})
	l.space = false
	return &l.tokens[len(l.tokens)-1]
}

func (l *Lexer) errorAt(start, end int, msg string) error {
	return &Error{Message: msg, Span: l.lines.span(start, end)}
}

func (l *Lexer) lexComment() {
	start := l.position
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		end = len(l.input)
	} else {
		end += start
	}
	l.position = end
	l.comments = append(l.comments, Comment{
		Text: strings.TrimRight(l.input[start:end], "\r"),
		Pos:  start,
	})
	l.space = true
}

// lexAngle scans either an IRI reference or one of the operators '<' and '<='.
func (l *Lexer) lexAngle() {
	start := l.position
	for i := start + 1; i < len(l.input); i++ {
		c := l.input[i]
		if c == '>' {
			l.addToken(TokenIRI, l.input[start+1:i], start, i+1)
			l.position = i + 1
			return
		}
		if !isIRIChar(c) {
			break
		}
	}
	if l.peekByte(1) == '=' {
		l.addToken(TokenPunct, "<=", start, start+2)
		l.position += 2
		return
	}
	l.addToken(TokenPunct, "<", start, start+1)
	l.position++
}

func (l *Lexer) lexString() error {
	start := l.position
	q := l.input[start]
	quote := string(q)
	if l.peekByte(1) == q && l.peekByte(2) == q {
		quote = strings.Repeat(quote, 3)
	}
	i := start + len(quote)
	for i < len(l.input) {
		c := l.input[i]
		if c == '\\' {
			i += 2
			continue
		}
		if len(quote) == 1 && (c == '\n' || c == '\r') {
			break
		}
		if strings.HasPrefix(l.input[i:], quote) {
			tok := l.addToken(TokenString, l.input[start+len(quote):i], start, i+len(quote))
			tok.Quote = quote
			l.position = i + len(quote)
			return nil
		}
		i++
	}
	return l.errorAt(start, min(i, len(l.input)), "unterminated string literal")
}

func (l *Lexer) lexVar() error {
	start := l.position
	sigil := SigilQuestion
	if l.input[start] == '$' {
		sigil = SigilDollar
	}
	end := start + 1
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !isVarNameRune(r) {
			break
		}
		end += size
	}
	if end == start+1 {
		if sigil == SigilDollar {
			return l.errorAt(start, start+1, "variable name expected after '$'")
		}
		l.addToken(TokenPunct, "?", start, start+1)
		l.position++
		return nil
	}
	tok := l.addToken(TokenVar, l.input[start+1:end], start, end)
	tok.Sigil = sigil
	l.position = end
	return nil
}

// lexBrace scans '{' or an interpolation variable such as {{name}}.
func (l *Lexer) lexBrace() {
	start := l.position
	if l.peekByte(1) == '{' {
		end := start + 2
		for end < len(l.input) {
			r, size := utf8.DecodeRuneInString(l.input[end:])
			if !isVarNameRune(r) {
				break
			}
			end += size
		}
		if end > start+2 && strings.HasPrefix(l.input[end:], "}}") {
			tok := l.addToken(TokenVar, l.input[start+2:end], start, end+2)
			tok.Sigil = SigilMustache
			l.position = end + 2
			return
		}
	}
	l.addToken(TokenPunct, "{", start, start+1)
	l.position++
}

func (l *Lexer) lexBlankNode() error {
	start := l.position
	end := l.scanLocal(start + 2)
	if end == start+2 {
		return l.errorAt(start, end, "blank node label expected after '_:'")
	}
	l.addToken(TokenBlankNode, l.input[start+2:end], start, end)
	l.position = end
	return nil
}

func (l *Lexer) lexNumber() {
	start := l.position
	i := start
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	tokenType := TokenInteger
	if i < len(l.input) && l.input[i] == '.' && i+1 < len(l.input) && isDigit(l.input[i+1]) {
		tokenType = TokenDecimal
		i++
		for i < len(l.input) && isDigit(l.input[i]) {
			i++
		}
	}
	if i < len(l.input) && (l.input[i] == 'e' || l.input[i] == 'E') {
		j := i + 1
		if j < len(l.input) && (l.input[j] == '+' || l.input[j] == '-') {
			j++
		}
		if j < len(l.input) && isDigit(l.input[j]) {
			tokenType = TokenDouble
			i = j
			for i < len(l.input) && isDigit(l.input[i]) {
				i++
			}
		}
	}
	l.addToken(tokenType, l.input[start:i], start, i)
	l.position = i
}

func (l *Lexer) lexLangTag() error {
	start := l.position
	i := start + 1
	for i < len(l.input) && (isLetter(l.input[i]) || (i > start+1 && (l.input[i] == '-' || isDigit(l.input[i])))) {
		i++
	}
	if i == start+1 {
		return l.errorAt(start, start+1, "language tag expected after '@'")
	}
	l.addToken(TokenLangTag, l.input[start+1:i], start, i)
	l.position = i
	return nil
}

// lexWord scans a keyword/name or the prefix part of a prefixed name.
func (l *Lexer) lexWord() {
	start := l.position
	i := start
	for i < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[i:])
		if !isNameRune(r) && r != '.' {
			break
		}
		i += size
	}
	if i < len(l.input) && l.input[i] == ':' {
		// a prefix may not end with '.'
		if l.input[i-1] != '.' {
			l.lexPrefixedName(start, i)
			return
		}
	}
	for i > start+1 && l.input[i-1] == '.' {
		i--
	}
	l.addToken(TokenName, l.input[start:i], start, i)
	l.position = i
}

// lexPrefixedName scans `prefix:local` where colon is the offset of ':'.
func (l *Lexer) lexPrefixedName(start, colon int) {
	end := l.scanLocal(colon + 1)
	if end == colon+1 {
		l.addToken(TokenPNameNS, l.input[start:end], start, end)
	} else {
		l.addToken(TokenPNameLN, l.input[start:end], start, end)
	}
	l.position = end
}

// scanLocal returns the end offset of a local name starting at from.
func (l *Lexer) scanLocal(from int) int {
	i := from
	for i < len(l.input) {
		c := l.input[i]
		if c == '\\' && i+1 < len(l.input) {
			i += 2
			continue
		}
		if c == '%' && i+2 < len(l.input) && isHex(l.input[i+1]) && isHex(l.input[i+2]) {
			i += 3
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[i:])
		if !isNameRune(r) && r != '.' && r != ':' {
			break
		}
		i += size
	}
	// a local name may not end with '.'
	for i > from && l.input[i-1] == '.' {
		i--
	}
	return i
}

var twoCharPuncts = []string{"^^", "!=", ">=", "&&", "||"}

func (l *Lexer) lexPunct() error {
	start := l.position
	for _, p := range twoCharPuncts {
		if strings.HasPrefix(l.input[start:], p) {
			l.addToken(TokenPunct, p, start, start+2)
			l.position += 2
			return nil
		}
	}
	c := l.input[start]
	if strings.IndexByte("{}()[].,;*/|^+-!=<>", c) < 0 {
		r, size := utf8.DecodeRuneInString(l.input[start:])
		return l.errorAt(start, start+size, "unexpected character "+quoteRune(r))
	}
	l.addToken(TokenPunct, string(c), start, start+1)
	l.position++
	return nil
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIRIChar(c byte) bool {
	if c <= 0x20 {
		return false
	}
	return strings.IndexByte("<>\"{}|^`\\", c) < 0
}

func isNameStartRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNameRune(r rune) bool {
	return isNameStartRune(r) || unicode.IsDigit(r) || r == '-' || r == '·'
}

func isVarNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
