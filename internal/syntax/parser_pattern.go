package syntax

import "strings"

// parseGroupPattern parses `{ ... }`. A group whose content is a SELECT
// holds a single SubSelect element.
func (p *parser) parseGroupPattern() (*GroupPattern, error) {
	open, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	group := &GroupPattern{}

	if p.atKeyword("SELECT") {
		query, err := p.parseSelect(true)
		if err != nil {
			return nil, err
		}
		sub := &SubSelect{Query: query}
		sub.Loc = query.Loc
		group.Elements = []Pattern{sub}
	} else {
		for !p.atPunct("}") {
			// stray dots are left behind when calls are spliced out
			if p.acceptPunct(".") {
				continue
			}
			elem, err := p.parsePatternElement()
			if err != nil {
				return nil, err
			}
			group.Elements = append(group.Elements, elem)
		}
	}

	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	group.Loc = p.spanFrom(open.Span.Start)
	return group, nil
}

func (p *parser) parsePatternElement() (Pattern, error) {
	switch {
	case p.atKeyword("FILTER"):
		return p.parseFilter()
	case p.atKeyword("BIND"):
		return p.parseBind()
	case p.atKeyword("OPTIONAL"):
		start := p.advance().Span.Start
		group, err := p.parseGroupPattern()
		if err != nil {
			return nil, err
		}
		opt := &Optional{Group: group}
		opt.Loc = p.spanFrom(start)
		return opt, nil
	case p.atKeyword("MINUS"):
		start := p.advance().Span.Start
		group, err := p.parseGroupPattern()
		if err != nil {
			return nil, err
		}
		minus := &Minus{Group: group}
		minus.Loc = p.spanFrom(start)
		return minus, nil
	case p.atKeyword("GRAPH"):
		start := p.advance().Span.Start
		name, err := p.parseVarOrIRI()
		if err != nil {
			return nil, err
		}
		group, err := p.parseGroupPattern()
		if err != nil {
			return nil, err
		}
		graph := &GraphPattern{Name: name, Group: group}
		graph.Loc = p.spanFrom(start)
		return graph, nil
	case p.atKeyword("SERVICE"):
		start := p.advance().Span.Start
		service := &Service{Silent: p.acceptKeyword("SILENT")}
		name, err := p.parseVarOrIRI()
		if err != nil {
			return nil, err
		}
		group, err := p.parseGroupPattern()
		if err != nil {
			return nil, err
		}
		service.Name = name
		service.Group = group
		service.Loc = p.spanFrom(start)
		return service, nil
	case p.atKeyword("VALUES"):
		return p.parseInlineData()
	case p.atPunct("{"):
		return p.parseGroupOrUnion()
	case p.atCall():
		return p.parseCallPattern()
	}
	return p.parseTriplesBlock()
}

// atCall reports whether a user function call used as a pattern element
// starts here: an IRI immediately followed by '('.
func (p *parser) atCall() bool {
	next := p.peekN(1)
	return isIRIToken(p.peek()) && isPunct(next, "(") && !next.SpaceBefore
}

func (p *parser) parseCallPattern() (*CallPattern, error) {
	expr, err := p.parseIRIOrFunction()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*FunctionCall)
	if !ok {
		return nil, unexpected(p.peek(), "'('")
	}
	pattern := &CallPattern{Call: call}
	pattern.Loc = call.Loc
	return pattern, nil
}

func (p *parser) parseGroupOrUnion() (Pattern, error) {
	first, err := p.parseGroupPattern()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("UNION") {
		return first, nil
	}

	union := &Union{Alternatives: []*GroupPattern{first}}
	for p.acceptKeyword("UNION") {
		next, err := p.parseGroupPattern()
		if err != nil {
			return nil, err
		}
		union.Alternatives = append(union.Alternatives, next)
	}
	union.Loc = p.spanFrom(first.Loc.Start)
	return union, nil
}

func (p *parser) parseFilter() (*Filter, error) {
	start := p.advance().Span.Start
	if !p.atConstraintStart() {
		return nil, unexpected(p.peek(), "constraint")
	}
	constraint, err := p.parseConstraint()
	if err != nil {
		return nil, err
	}
	filter := &Filter{Constraint: constraint}
	filter.Loc = p.spanFrom(start)
	return filter, nil
}

func (p *parser) parseBind() (*Bind, error) {
	start := p.advance().Span.Start
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
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
	as := p.parseVar()
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	bind := &Bind{Expr: expr, As: as}
	bind.Loc = p.spanFrom(start)
	return bind, nil
}

func (p *parser) parseInlineData() (*InlineData, error) {
	start := p.advance().Span.Start
	data := &InlineData{}

	if p.peek().Type == TokenVar {
		data.Single = true
		data.Vars = []*Var{p.parseVar()}
		if _, err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		for !p.atPunct("}") {
			value, err := p.parseDataValue()
			if err != nil {
				return nil, err
			}
			data.Rows = append(data.Rows, []Term{value})
		}
		p.advance()
		data.Loc = p.spanFrom(start)
		return data, nil
	}

	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	for p.peek().Type == TokenVar {
		data.Vars = append(data.Vars, p.parseVar())
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for p.acceptPunct("(") {
		row := make([]Term, 0, len(data.Vars))
		for !p.atPunct(")") {
			value, err := p.parseDataValue()
			if err != nil {
				return nil, err
			}
			row = append(row, value)
		}
		p.advance()
		data.Rows = append(data.Rows, row)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	data.Loc = p.spanFrom(start)
	return data, nil
}

func (p *parser) parseDataValue() (Term, error) {
	tok := p.peek()
	switch {
	case isKeyword(tok, "UNDEF"):
		p.advance()
		undef := &Undef{}
		undef.Loc = tok.Span
		return undef, nil
	case isIRIToken(tok):
		return p.parseIRI()
	case p.atLiteral():
		return p.parseLiteral()
	}
	return nil, unexpected(tok, "data value")
}

/***** Triples *****/

func (p *parser) parseTriplesBlock() (*TriplesBlock, error) {
	if !p.isTripleStart() {
		return nil, unexpected(p.peek(), "triple pattern")
	}
	start := p.peek().Span.Start
	block := &TriplesBlock{}
	for {
		triple, err := p.parseTriple()
		if err != nil {
			return nil, err
		}
		block.Triples = append(block.Triples, triple)
		if !p.acceptPunct(".") {
			break
		}
		if !p.isTripleStart() || p.atCall() {
			break
		}
	}
	block.Loc = p.spanFrom(start)
	return block, nil
}

// parseTriplesTemplate parses a possibly empty run of triples inside braces.
func (p *parser) parseTriplesTemplate() (*TriplesBlock, error) {
	start := p.peek().Span.Start
	block := &TriplesBlock{}
	for p.isTripleStart() {
		triple, err := p.parseTriple()
		if err != nil {
			return nil, err
		}
		block.Triples = append(block.Triples, triple)
		if !p.acceptPunct(".") {
			break
		}
	}
	if len(block.Triples) == 0 {
		block.Loc = Span{Start: start, End: start}
		return block, nil
	}
	block.Loc = p.spanFrom(start)
	return block, nil
}

func (p *parser) isTripleStart() bool {
	tok := p.peek()
	switch tok.Type {
	case TokenVar, TokenIRI, TokenPNameNS, TokenPNameLN, TokenBlankNode,
		TokenString, TokenInteger, TokenDecimal, TokenDouble:
		return true
	case TokenPunct:
		return tok.Value == "[" || tok.Value == "(" || p.atSignedNumber()
	case TokenName:
		return isKeyword(tok, "true") || isKeyword(tok, "false")
	}
	return false
}

func (p *parser) parseTriple() (*Triple, error) {
	start := p.peek().Span.Start
	subject, err := p.parseGraphNode()
	if err != nil {
		return nil, err
	}
	triple := &Triple{Subject: subject}

	if triple.Props, err = p.parsePropertyList(); err != nil {
		return nil, err
	}
	if len(triple.Props) == 0 {
		if _, ok := subject.(*BlankNodePropertyList); !ok {
			return nil, unexpected(p.peek(), "predicate")
		}
	}
	triple.Loc = p.spanFrom(start)
	return triple, nil
}

func (p *parser) isVerbStart() bool {
	tok := p.peek()
	switch tok.Type {
	case TokenVar, TokenIRI, TokenPNameNS, TokenPNameLN:
		return true
	case TokenName:
		return tok.Value == "a"
	case TokenPunct:
		return tok.Value == "^" || tok.Value == "!" || tok.Value == "("
	}
	return false
}

func (p *parser) parsePropertyList() ([]*PropertyObjects, error) {
	var props []*PropertyObjects
	for p.isVerbStart() {
		start := p.peek().Span.Start
		verb, err := p.parseVerb()
		if err != nil {
			return nil, err
		}
		po := &PropertyObjects{Verb: verb}
		for {
			object, err := p.parseGraphNode()
			if err != nil {
				return nil, err
			}
			po.Objects = append(po.Objects, object)
			if !p.acceptPunct(",") {
				break
			}
		}
		po.Loc = p.spanFrom(start)
		props = append(props, po)

		if !p.atPunct(";") {
			break
		}
		for p.acceptPunct(";") {
		}
	}
	return props, nil
}

func (p *parser) parseVerb() (Term, error) {
	if p.peek().Type == TokenVar {
		return p.parseVar(), nil
	}
	return p.parsePath()
}

// parseGraphNode parses a subject or object: a term, a collection or a
// blank node property list.
func (p *parser) parseGraphNode() (Term, error) {
	switch {
	case p.atPunct("["):
		open := p.advance()
		if p.atPunct("]") {
			p.advance()
			anon := &BlankNode{}
			anon.Loc = p.spanFrom(open.Span.Start)
			return anon, nil
		}
		list := &BlankNodePropertyList{}
		props, err := p.parsePropertyList()
		if err != nil {
			return nil, err
		}
		if len(props) == 0 {
			return nil, unexpected(p.peek(), "predicate")
		}
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		list.Props = props
		list.Loc = p.spanFrom(open.Span.Start)
		return list, nil

	case p.atPunct("("):
		open := p.advance()
		coll := &Collection{}
		for !p.atPunct(")") {
			item, err := p.parseGraphNode()
			if err != nil {
				return nil, err
			}
			coll.Items = append(coll.Items, item)
		}
		p.advance()
		coll.Loc = p.spanFrom(open.Span.Start)
		return coll, nil
	}
	return p.parseTerm()
}

func (p *parser) parseTerm() (Term, error) {
	tok := p.peek()
	switch {
	case tok.Type == TokenVar:
		return p.parseVar(), nil
	case isIRIToken(tok):
		return p.parseIRI()
	case tok.Type == TokenBlankNode:
		p.advance()
		bnode := &BlankNode{Label: tok.Value}
		bnode.Loc = tok.Span
		return bnode, nil
	case p.atLiteral():
		return p.parseLiteral()
	}
	return nil, unexpected(tok, "term")
}

// atSignedNumber reports whether a sign directly followed by a number starts here.
func (p *parser) atSignedNumber() bool {
	tok := p.peek()
	if tok.Type != TokenPunct || (tok.Value != "+" && tok.Value != "-") {
		return false
	}
	next := p.peekN(1)
	return isNumberToken(next) && !next.SpaceBefore
}

func isNumberToken(tok Token) bool {
	return tok.Type == TokenInteger || tok.Type == TokenDecimal || tok.Type == TokenDouble
}

func (p *parser) atLiteral() bool {
	tok := p.peek()
	return tok.Type == TokenString || isNumberToken(tok) ||
		isKeyword(tok, "true") || isKeyword(tok, "false") || p.atSignedNumber()
}

func (p *parser) parseLiteral() (*Literal, error) {
	start := p.peek().Span.Start
	sign := ""
	if p.atSignedNumber() {
		sign = p.advance().Value
	}

	tok := p.advance()
	lit := &Literal{Value: sign + tok.Value}
	switch tok.Type {
	case TokenInteger:
		lit.Kind = LiteralInteger
	case TokenDecimal:
		lit.Kind = LiteralDecimal
	case TokenDouble:
		lit.Kind = LiteralDouble
	case TokenName:
		lit.Kind = LiteralBoolean
		lit.Value = strings.ToLower(tok.Value)
	case TokenString:
		lit.Kind = LiteralString
		lit.Quote = tok.Quote
		if next := p.peek(); next.Type == TokenLangTag {
			p.advance()
			lit.Lang = next.Value
		} else if p.acceptPunct("^^") {
			datatype, err := p.parseIRI()
			if err != nil {
				return nil, err
			}
			lit.Datatype = datatype
		}
	default:
		return nil, unexpected(tok, "literal")
	}
	lit.Loc = p.spanFrom(start)
	return lit, nil
}

/***** Property paths *****/

func (p *parser) parsePath() (Term, error) {
	start := p.peek().Span.Start
	first, err := p.parsePathSequence()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("|") {
		return first, nil
	}
	alt := &PathAlternative{Alternatives: []Term{first}}
	for p.acceptPunct("|") {
		next, err := p.parsePathSequence()
		if err != nil {
			return nil, err
		}
		alt.Alternatives = append(alt.Alternatives, next)
	}
	alt.Loc = p.spanFrom(start)
	return alt, nil
}

func (p *parser) parsePathSequence() (Term, error) {
	start := p.peek().Span.Start
	first, err := p.parsePathEltOrInverse()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("/") {
		return first, nil
	}
	seq := &PathSequence{Elements: []Term{first}}
	for p.acceptPunct("/") {
		next, err := p.parsePathEltOrInverse()
		if err != nil {
			return nil, err
		}
		seq.Elements = append(seq.Elements, next)
	}
	seq.Loc = p.spanFrom(start)
	return seq, nil
}

func (p *parser) parsePathEltOrInverse() (Term, error) {
	if !p.atPunct("^") {
		return p.parsePathElt()
	}
	start := p.advance().Span.Start
	elt, err := p.parsePathElt()
	if err != nil {
		return nil, err
	}
	inv := &PathInverse{Path: elt}
	inv.Loc = p.spanFrom(start)
	return inv, nil
}

func (p *parser) parsePathElt() (Term, error) {
	start := p.peek().Span.Start
	primary, err := p.parsePathPrimary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Type == TokenPunct && !tok.SpaceBefore && (tok.Value == "?" || tok.Value == "*" || tok.Value == "+") {
		p.advance()
		mod := &PathMod{Path: primary, Mod: tok.Value}
		mod.Loc = p.spanFrom(start)
		return mod, nil
	}
	return primary, nil
}

func (p *parser) parsePathPrimary() (Term, error) {
	tok := p.peek()
	switch {
	case isPunct(tok, "!"):
		start := p.advance().Span.Start
		var path Term
		if p.atPunct("(") {
			open := p.advance()
			inner, err := p.parseNegatedSet()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			group := &PathGroup{Path: inner}
			group.Loc = p.spanFrom(open.Span.Start)
			path = group
		} else {
			one, err := p.parsePathOneInPropertySet()
			if err != nil {
				return nil, err
			}
			path = one
		}
		neg := &PathNegated{Path: path}
		neg.Loc = p.spanFrom(start)
		return neg, nil

	case isPunct(tok, "("):
		open := p.advance()
		inner, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		group := &PathGroup{Path: inner}
		group.Loc = p.spanFrom(open.Span.Start)
		return group, nil
	}
	return p.parsePathIRIOrA()
}

func (p *parser) parseNegatedSet() (Term, error) {
	start := p.peek().Span.Start
	first, err := p.parsePathOneInPropertySet()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("|") {
		return first, nil
	}
	alt := &PathAlternative{Alternatives: []Term{first}}
	for p.acceptPunct("|") {
		next, err := p.parsePathOneInPropertySet()
		if err != nil {
			return nil, err
		}
		alt.Alternatives = append(alt.Alternatives, next)
	}
	alt.Loc = p.spanFrom(start)
	return alt, nil
}

func (p *parser) parsePathOneInPropertySet() (Term, error) {
	if !p.atPunct("^") {
		return p.parsePathIRIOrA()
	}
	start := p.advance().Span.Start
	iri, err := p.parsePathIRIOrA()
	if err != nil {
		return nil, err
	}
	inv := &PathInverse{Path: iri}
	inv.Loc = p.spanFrom(start)
	return inv, nil
}

func (p *parser) parsePathIRIOrA() (Term, error) {
	if tok := p.peek(); tok.Type == TokenName && tok.Value == "a" {
		p.advance()
		a := &IRI{Kind: IRIA, Value: "a"}
		a.Loc = tok.Span
		return a, nil
	}
	return p.parseIRI()
}
