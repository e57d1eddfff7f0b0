package syntax

import "strings"

// Parse parses a template document: a prologue, user function definitions
// and a query or update request.
func Parse(text string) (*Tree, error) {
	lexer := NewLexer(text)
	tokens, comments, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, lines: lexer.lines}
	tree, err := p.parseTree()
	if err != nil {
		return nil, err
	}
	tree.Comments = comments
	tree.Loc = lexer.lines.span(0, len(text))
	return tree, nil
}

// parser consumes the tokens produced by the lexer and builds the tree.
type parser struct {
	tokens  []Token
	current int
	lines   *lineIndex
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) peekN(n int) Token {
	if i := p.current + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.current]
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

func (p *parser) prev() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *parser) spanFrom(start Position) Span {
	return Span{Start: start, End: p.prev().Span.End}
}

func (p *parser) atPunct(value string) bool {
	return isPunct(p.peek(), value)
}

func (p *parser) atKeyword(keyword string) bool {
	return isKeyword(p.peek(), keyword)
}

func (p *parser) acceptPunct(value string) bool {
	if p.atPunct(value) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptKeyword(keyword string) bool {
	if p.atKeyword(keyword) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectPunct(value string) (Token, error) {
	if !p.atPunct(value) {
		return Token{}, unexpected(p.peek(), "'"+value+"'")
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(keyword string) (Token, error) {
	if !p.atKeyword(keyword) {
		return Token{}, unexpected(p.peek(), keyword)
	}
	return p.advance(), nil
}

func isPunct(tok Token, value string) bool {
	return tok.Type == TokenPunct && tok.Value == value
}

// isKeyword matches keywords case-insensitively.
func isKeyword(tok Token, keyword string) bool {
	return tok.Type == TokenName && strings.EqualFold(tok.Value, keyword)
}

func isIRIToken(tok Token) bool {
	return tok.Type == TokenIRI || tok.Type == TokenPNameNS || tok.Type == TokenPNameLN
}

func (p *parser) parseTree() (*Tree, error) {
	tree := &Tree{}

	for {
		decl, err := p.parsePrologueDecl()
		if err != nil {
			return nil, err
		}
		if decl == nil {
			break
		}
		tree.Prologue = append(tree.Prologue, decl)
	}

	for isIRIToken(p.peek()) && isPunct(p.peekN(1), "(") {
		def, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		tree.Functions = append(tree.Functions, def)
	}

	body, err := p.parseQueryBody()
	if err != nil {
		return nil, err
	}
	tree.Body = body

	if _, ok := body.(*UpdateRequest); !ok && p.atKeyword("VALUES") {
		values, err := p.parseInlineData()
		if err != nil {
			return nil, err
		}
		tree.Values = values
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, unexpected(tok, "end of input")
	}
	return tree, nil
}

func (p *parser) parsePrologueDecl() (PrologueDecl, error) {
	switch {
	case p.atKeyword("BASE"):
		start := p.advance().Span.Start
		tok := p.peek()
		if tok.Type != TokenIRI {
			return nil, unexpected(tok, "IRI reference")
		}
		p.advance()
		decl := &BaseDecl{IRI: tok.Value}
		decl.Loc = p.spanFrom(start)
		return decl, nil

	case p.atKeyword("PREFIX"):
		start := p.advance().Span.Start
		name := p.peek()
		if name.Type != TokenPNameNS {
			return nil, unexpected(name, "prefix name")
		}
		p.advance()
		iri := p.peek()
		if iri.Type != TokenIRI {
			return nil, unexpected(iri, "IRI reference")
		}
		p.advance()
		decl := &PrefixDecl{Name: strings.TrimSuffix(name.Value, ":"), IRI: iri.Value}
		decl.Loc = p.spanFrom(start)
		return decl, nil
	}
	return nil, nil
}

func (p *parser) parseFunctionDef() (*FunctionDef, error) {
	start := p.peek().Span.Start
	name, err := p.parseIRI()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	def := &FunctionDef{Name: name}
	for !p.atPunct(")") {
		if len(def.Params) > 0 {
			p.acceptPunct(",")
		}
		tok := p.peek()
		if tok.Type != TokenVar {
			return nil, unexpected(tok, "parameter variable")
		}
		def.Params = append(def.Params, p.parseVar())
	}
	p.advance()

	body, err := p.parseGroupPattern()
	if err != nil {
		return nil, err
	}
	def.Body = body
	def.BodySpan = p.lines.span(body.Loc.Start.Offset+1, body.Loc.End.Offset-1)
	def.Loc = p.spanFrom(start)
	return def, nil
}

func (p *parser) parseQueryBody() (QueryBody, error) {
	tok := p.peek()
	switch {
	case isKeyword(tok, "SELECT"):
		return p.parseSelect(false)
	case isKeyword(tok, "CONSTRUCT"):
		return p.parseConstruct()
	case isKeyword(tok, "ASK"):
		return p.parseAsk()
	case isKeyword(tok, "DESCRIBE"):
		return p.parseDescribe()
	case isUpdateKeyword(tok):
		return p.parseUpdateRequest()
	}
	return nil, unexpected(tok, "query or update")
}

func (p *parser) parseVar() *Var {
	tok := p.advance()
	v := &Var{Name: tok.Value, Sigil: tok.Sigil}
	v.Loc = tok.Span
	return v
}

func (p *parser) parseIRI() (*IRI, error) {
	tok := p.peek()
	iri := &IRI{Value: tok.Value}
	switch tok.Type {
	case TokenIRI:
		iri.Kind = IRIFull
	case TokenPNameNS, TokenPNameLN:
		iri.Kind = IRIPrefixed
	default:
		return nil, unexpected(tok, "IRI")
	}
	p.advance()
	iri.Loc = tok.Span
	return iri, nil
}

func (p *parser) parseVarOrIRI() (Term, error) {
	if p.peek().Type == TokenVar {
		return p.parseVar(), nil
	}
	return p.parseIRI()
}

/***** Queries *****/

func (p *parser) parseSelect(sub bool) (*SelectQuery, error) {
	start := p.advance().Span.Start
	q := &SelectQuery{}

	if p.atKeyword("DISTINCT") || p.atKeyword("REDUCED") {
		q.Modifier = strings.ToUpper(p.advance().Value)
	}

	if p.acceptPunct("*") {
		q.Star = true
	} else {
		for {
			if p.peek().Type == TokenVar {
				v := p.parseVar()
				proj := &Projection{Var: v}
				proj.Loc = v.Loc
				q.Projection = append(q.Projection, proj)
				continue
			}
			if !p.atPunct("(") {
				break
			}
			projStart := p.advance().Span.Start
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectKeyword("AS"); err != nil {
				return nil, err
			}
			if tok := p.peek(); tok.Type != TokenVar {
				return nil, unexpected(tok, "variable")
			}
			v := p.parseVar()
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			proj := &Projection{Var: v, Expr: expr}
			proj.Loc = p.spanFrom(projStart)
			q.Projection = append(q.Projection, proj)
		}
		if len(q.Projection) == 0 {
			return nil, unexpected(p.peek(), "projection")
		}
	}

	var err error
	if !sub {
		if q.Dataset, err = p.parseDatasetClauses("FROM"); err != nil {
			return nil, err
		}
	}
	if q.Where, err = p.parseWhereClause(); err != nil {
		return nil, err
	}
	if q.Modifiers, err = p.parseSolutionModifiers(); err != nil {
		return nil, err
	}
	if sub && p.atKeyword("VALUES") {
		if q.Values, err = p.parseInlineData(); err != nil {
			return nil, err
		}
	}
	q.Loc = p.spanFrom(start)
	return q, nil
}

func (p *parser) parseConstruct() (*ConstructQuery, error) {
	start := p.advance().Span.Start
	q := &ConstructQuery{}

	var err error
	if p.atPunct("{") {
		p.advance()
		if q.Template, err = p.parseTriplesTemplate(); err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("}"); err != nil {
			return nil, err
		}
	}
	if q.Dataset, err = p.parseDatasetClauses("FROM"); err != nil {
		return nil, err
	}
	if q.Template == nil {
		if _, err := p.expectKeyword("WHERE"); err != nil {
			return nil, err
		}
	}
	if q.Where, err = p.parseWhereClause(); err != nil {
		return nil, err
	}
	if q.Modifiers, err = p.parseSolutionModifiers(); err != nil {
		return nil, err
	}
	q.Loc = p.spanFrom(start)
	return q, nil
}

func (p *parser) parseAsk() (*AskQuery, error) {
	start := p.advance().Span.Start
	q := &AskQuery{}

	var err error
	if q.Dataset, err = p.parseDatasetClauses("FROM"); err != nil {
		return nil, err
	}
	if q.Where, err = p.parseWhereClause(); err != nil {
		return nil, err
	}
	if q.Modifiers, err = p.parseSolutionModifiers(); err != nil {
		return nil, err
	}
	q.Loc = p.spanFrom(start)
	return q, nil
}

func (p *parser) parseDescribe() (*DescribeQuery, error) {
	start := p.advance().Span.Start
	q := &DescribeQuery{}

	if p.acceptPunct("*") {
		q.Star = true
	} else {
		for p.peek().Type == TokenVar || isIRIToken(p.peek()) {
			term, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			q.Terms = append(q.Terms, term)
		}
		if len(q.Terms) == 0 {
			return nil, unexpected(p.peek(), "variable or IRI")
		}
	}

	var err error
	if q.Dataset, err = p.parseDatasetClauses("FROM"); err != nil {
		return nil, err
	}
	if p.atKeyword("WHERE") || p.atPunct("{") {
		if q.Where, err = p.parseWhereClause(); err != nil {
			return nil, err
		}
	}
	if q.Modifiers, err = p.parseSolutionModifiers(); err != nil {
		return nil, err
	}
	q.Loc = p.spanFrom(start)
	return q, nil
}

func (p *parser) parseWhereClause() (*GroupPattern, error) {
	p.acceptKeyword("WHERE")
	return p.parseGroupPattern()
}

// parseDatasetClauses parses FROM clauses in queries and USING clauses in updates.
func (p *parser) parseDatasetClauses(keyword string) ([]*DatasetClause, error) {
	var clauses []*DatasetClause
	for p.atKeyword(keyword) {
		start := p.advance().Span.Start
		clause := &DatasetClause{Named: p.acceptKeyword("NAMED")}
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		clause.IRI = iri
		clause.Loc = p.spanFrom(start)
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func (p *parser) parseSolutionModifiers() (SolutionModifiers, error) {
	var m SolutionModifiers

	if p.atKeyword("GROUP") {
		start := p.advance().Span.Start
		if _, err := p.expectKeyword("BY"); err != nil {
			return m, err
		}
		clause := &GroupClause{}
		for {
			cond, err := p.parseGroupCondition()
			if err != nil {
				return m, err
			}
			if cond == nil {
				break
			}
			clause.Conditions = append(clause.Conditions, cond)
		}
		if len(clause.Conditions) == 0 {
			return m, unexpected(p.peek(), "group condition")
		}
		clause.Loc = p.spanFrom(start)
		m.GroupBy = clause
	}

	if p.atKeyword("HAVING") {
		start := p.advance().Span.Start
		clause := &HavingClause{}
		for p.atConstraintStart() {
			c, err := p.parseConstraint()
			if err != nil {
				return m, err
			}
			clause.Constraints = append(clause.Constraints, c)
		}
		if len(clause.Constraints) == 0 {
			return m, unexpected(p.peek(), "constraint")
		}
		clause.Loc = p.spanFrom(start)
		m.Having = clause
	}

	if p.atKeyword("ORDER") {
		start := p.advance().Span.Start
		if _, err := p.expectKeyword("BY"); err != nil {
			return m, err
		}
		clause := &OrderClause{}
		for {
			cond, err := p.parseOrderCondition()
			if err != nil {
				return m, err
			}
			if cond == nil {
				break
			}
			clause.Conditions = append(clause.Conditions, cond)
		}
		if len(clause.Conditions) == 0 {
			return m, unexpected(p.peek(), "order condition")
		}
		clause.Loc = p.spanFrom(start)
		m.OrderBy = clause
	}

	// LIMIT and OFFSET may come in either order.
	for i := 0; i < 2; i++ {
		switch {
		case m.Limit == nil && p.atKeyword("LIMIT"):
			start := p.advance().Span.Start
			tok := p.peek()
			if tok.Type != TokenInteger {
				return m, unexpected(tok, "integer")
			}
			p.advance()
			m.Limit = &LimitClause{Value: tok.Value}
			m.Limit.Loc = p.spanFrom(start)
		case m.Offset == nil && p.atKeyword("OFFSET"):
			start := p.advance().Span.Start
			tok := p.peek()
			if tok.Type != TokenInteger {
				return m, unexpected(tok, "integer")
			}
			p.advance()
			m.Offset = &OffsetClause{Value: tok.Value}
			m.Offset.Loc = p.spanFrom(start)
		}
	}
	return m, nil
}

// parseGroupCondition returns nil when no condition starts at the current token.
func (p *parser) parseGroupCondition() (*GroupCondition, error) {
	start := p.peek().Span.Start
	cond := &GroupCondition{}

	switch {
	case p.peek().Type == TokenVar:
		cond.Expr = termExpr(p.parseVar())

	case p.atPunct("("):
		open := p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.acceptKeyword("AS") {
			if tok := p.peek(); tok.Type != TokenVar {
				return nil, unexpected(tok, "variable")
			}
			cond.As = p.parseVar()
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
		} else {
			closing, err := p.expectPunct(")")
			if err != nil {
				return nil, err
			}
			expr.bracket(Span{Start: open.Span.Start, End: closing.Span.End})
		}
		cond.Expr = expr

	case p.atConstraintStart():
		expr, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		cond.Expr = expr

	default:
		return nil, nil
	}

	cond.Loc = p.spanFrom(start)
	return cond, nil
}

// parseOrderCondition returns nil when no condition starts at the current token.
func (p *parser) parseOrderCondition() (*OrderCondition, error) {
	start := p.peek().Span.Start
	cond := &OrderCondition{}

	switch {
	case p.atKeyword("ASC") || p.atKeyword("DESC"):
		cond.Direction = strings.ToUpper(p.advance().Value)
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		cond.Expr = expr

	case p.peek().Type == TokenVar:
		cond.Expr = termExpr(p.parseVar())

	case p.atConstraintStart():
		expr, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		cond.Expr = expr

	default:
		return nil, nil
	}

	cond.Loc = p.spanFrom(start)
	return cond, nil
}

/***** Updates *****/

var updateKeywords = []string{
	"INSERT", "DELETE", "WITH", "LOAD", "CLEAR", "DROP", "CREATE", "ADD", "MOVE", "COPY",
}

func isUpdateKeyword(tok Token) bool {
	for _, kw := range updateKeywords {
		if isKeyword(tok, kw) {
			return true
		}
	}
	return false
}

func (p *parser) parseUpdateRequest() (*UpdateRequest, error) {
	start := p.peek().Span.Start
	req := &UpdateRequest{}
	for {
		unit, err := p.parseUpdateUnit()
		if err != nil {
			return nil, err
		}
		req.Units = append(req.Units, unit)
		if !p.acceptPunct(";") || p.peek().Type == TokenEOF {
			break
		}
	}
	req.Loc = p.spanFrom(start)
	return req, nil
}

func (p *parser) parseUpdateUnit() (UpdateUnit, error) {
	tok := p.peek()
	next := p.peekN(1)
	switch {
	case isKeyword(tok, "INSERT") && isKeyword(next, "DATA"):
		return p.parseQuadData(InsertData)
	case isKeyword(tok, "DELETE") && isKeyword(next, "DATA"):
		return p.parseQuadData(DeleteData)
	case isKeyword(tok, "DELETE") && isKeyword(next, "WHERE"):
		return p.parseQuadData(DeleteWhere)
	case isKeyword(tok, "INSERT"), isKeyword(tok, "DELETE"), isKeyword(tok, "WITH"):
		return p.parseModify()
	case isKeyword(tok, "LOAD"):
		return p.parseLoad()
	case isKeyword(tok, "CLEAR"), isKeyword(tok, "DROP"), isKeyword(tok, "CREATE"):
		return p.parseGraphManagement()
	case isKeyword(tok, "ADD"), isKeyword(tok, "MOVE"), isKeyword(tok, "COPY"):
		return p.parseGraphTransfer()
	}
	return nil, unexpected(tok, "update operation")
}

func (p *parser) parseQuadData(op DataOp) (*QuadData, error) {
	start := p.advance().Span.Start
	p.advance()
	quads, err := p.parseQuads()
	if err != nil {
		return nil, err
	}
	unit := &QuadData{Op: op, Quads: quads}
	unit.Loc = p.spanFrom(start)
	return unit, nil
}

func (p *parser) parseModify() (*Modify, error) {
	start := p.peek().Span.Start
	unit := &Modify{}

	var err error
	if p.acceptKeyword("WITH") {
		if unit.With, err = p.parseIRI(); err != nil {
			return nil, err
		}
	}
	if p.acceptKeyword("DELETE") {
		if unit.Delete, err = p.parseQuads(); err != nil {
			return nil, err
		}
	}
	if p.acceptKeyword("INSERT") {
		if unit.Insert, err = p.parseQuads(); err != nil {
			return nil, err
		}
	}
	if unit.Delete == nil && unit.Insert == nil {
		return nil, unexpected(p.peek(), "DELETE or INSERT")
	}
	if unit.Using, err = p.parseDatasetClauses("USING"); err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	if unit.Where, err = p.parseGroupPattern(); err != nil {
		return nil, err
	}
	unit.Loc = p.spanFrom(start)
	return unit, nil
}

func (p *parser) parseLoad() (*Load, error) {
	start := p.advance().Span.Start
	unit := &Load{Silent: p.acceptKeyword("SILENT")}

	var err error
	if unit.Source, err = p.parseIRI(); err != nil {
		return nil, err
	}
	if p.acceptKeyword("INTO") {
		if _, err := p.expectKeyword("GRAPH"); err != nil {
			return nil, err
		}
		if unit.Into, err = p.parseIRI(); err != nil {
			return nil, err
		}
	}
	unit.Loc = p.spanFrom(start)
	return unit, nil
}

func (p *parser) parseGraphManagement() (*GraphManagement, error) {
	startTok := p.advance()
	unit := &GraphManagement{
		Op:     strings.ToUpper(startTok.Value),
		Silent: p.acceptKeyword("SILENT"),
	}

	switch {
	case unit.Op != "CREATE" && p.acceptKeyword("DEFAULT"):
		unit.Target = GraphRef{Kind: GraphRefDefault}
	case unit.Op != "CREATE" && p.acceptKeyword("NAMED"):
		unit.Target = GraphRef{Kind: GraphRefNamed}
	case unit.Op != "CREATE" && p.acceptKeyword("ALL"):
		unit.Target = GraphRef{Kind: GraphRefAll}
	default:
		if _, err := p.expectKeyword("GRAPH"); err != nil {
			return nil, err
		}
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		unit.Target = GraphRef{Kind: GraphRefIRI, IRI: iri}
	}
	unit.Loc = p.spanFrom(startTok.Span.Start)
	return unit, nil
}

func (p *parser) parseGraphTransfer() (*GraphTransfer, error) {
	startTok := p.advance()
	unit := &GraphTransfer{
		Op:     strings.ToUpper(startTok.Value),
		Silent: p.acceptKeyword("SILENT"),
	}

	var err error
	if unit.From, err = p.parseGraphOrDefault(); err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	if unit.To, err = p.parseGraphOrDefault(); err != nil {
		return nil, err
	}
	unit.Loc = p.spanFrom(startTok.Span.Start)
	return unit, nil
}

func (p *parser) parseGraphOrDefault() (GraphRef, error) {
	if p.acceptKeyword("DEFAULT") {
		return GraphRef{Kind: GraphRefDefault}, nil
	}
	p.acceptKeyword("GRAPH")
	iri, err := p.parseIRI()
	if err != nil {
		return GraphRef{}, err
	}
	return GraphRef{Kind: GraphRefIRI, IRI: iri}, nil
}

// parseQuads parses the braces of INSERT/DELETE data and templates.
func (p *parser) parseQuads() (*Quads, error) {
	open, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	quads := &Quads{}

	for !p.atPunct("}") {
		if p.acceptPunct(".") {
			continue
		}
		if p.atKeyword("GRAPH") {
			start := p.advance().Span.Start
			graph, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("{"); err != nil {
				return nil, err
			}
			triples, err := p.parseTriplesTemplate()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("}"); err != nil {
				return nil, err
			}
			block := &QuadBlock{Graph: graph, Triples: triples}
			block.Loc = p.spanFrom(start)
			quads.Blocks = append(quads.Blocks, block)
			continue
		}
		if !p.isTripleStart() {
			return nil, unexpected(p.peek(), "triple or GRAPH")
		}
		triples, err := p.parseTriplesTemplate()
		if err != nil {
			return nil, err
		}
		block := &QuadBlock{Triples: triples}
		block.Loc = triples.Loc
		quads.Blocks = append(quads.Blocks, block)
	}
	p.advance()

	quads.Loc = p.spanFrom(open.Span.Start)
	return quads, nil
}
