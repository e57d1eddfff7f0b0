package syntax

import "strings"

var builtinNames = map[string]bool{
	"STR": true, "LANG": true, "LANGMATCHES": true, "DATATYPE": true, "BOUND": true,
	"IRI": true, "URI": true, "BNODE": true, "RAND": true, "ABS": true, "CEIL": true,
	"FLOOR": true, "ROUND": true, "CONCAT": true, "STRLEN": true, "UCASE": true,
	"LCASE": true, "ENCODE_FOR_URI": true, "CONTAINS": true, "STRSTARTS": true,
	"STRENDS": true, "STRBEFORE": true, "STRAFTER": true, "YEAR": true, "MONTH": true,
	"DAY": true, "HOURS": true, "MINUTES": true, "SECONDS": true, "TIMEZONE": true,
	"TZ": true, "NOW": true, "UUID": true, "STRUUID": true, "MD5": true, "SHA1": true,
	"SHA256": true, "SHA384": true, "SHA512": true, "COALESCE": true, "IF": true,
	"STRLANG": true, "STRDT": true, "SAMETERM": true, "ISIRI": true, "ISURI": true,
	"ISBLANK": true, "ISLITERAL": true, "ISNUMERIC": true, "SUBSTR": true, "REPLACE": true,
}

var aggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "MIN": true, "MAX": true, "AVG": true, "SAMPLE": true,
	"GROUP_CONCAT": true,
}

var relationalOps = map[string]bool{
	"=": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// isBuiltinStart reports whether tok begins a builtin call, an aggregate,
// REGEX or [NOT] EXISTS.
func (p *parser) isBuiltinStart() bool {
	tok := p.peek()
	if tok.Type != TokenName {
		return false
	}
	name := strings.ToUpper(tok.Value)
	switch {
	case builtinNames[name], aggregateNames[name], name == "REGEX", name == "EXISTS":
		return true
	case name == "NOT":
		return isKeyword(p.peekN(1), "EXISTS")
	}
	return false
}

func (p *parser) atConstraintStart() bool {
	return p.atPunct("(") || isIRIToken(p.peek()) || p.isBuiltinStart()
}

// parseConstraint parses the argument of FILTER and HAVING: a bracketed
// expression, a builtin call or a function call.
func (p *parser) parseConstraint() (Expr, error) {
	return p.parsePrimary()
}

func termExpr(t Term) *TermExpr {
	expr := &TermExpr{Term: t}
	expr.Loc = t.Location()
	return expr
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseLogical("||", p.parseAnd)
}

func (p *parser) parseAnd() (Expr, error) {
	return p.parseLogical("&&", p.parseRelational)
}

func (p *parser) parseLogical(op string, operand func() (Expr, error)) (Expr, error) {
	start := p.peek().Span.Start
	first, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.atPunct(op) {
		return first, nil
	}
	expr := &LogicalExpr{Op: op, Operands: []Expr{first}}
	for p.acceptPunct(op) {
		next, err := operand()
		if err != nil {
			return nil, err
		}
		expr.Operands = append(expr.Operands, next)
	}
	expr.Loc = p.spanFrom(start)
	return expr, nil
}

func (p *parser) parseRelational() (Expr, error) {
	start := p.peek().Span.Start
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	switch {
	case tok.Type == TokenPunct && relationalOps[tok.Value]:
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr := &RelationalExpr{Op: tok.Value, Left: left, Right: right}
		expr.Loc = p.spanFrom(start)
		return expr, nil

	case isKeyword(tok, "IN"), isKeyword(tok, "NOT") && isKeyword(p.peekN(1), "IN"):
		op := "IN"
		if isKeyword(tok, "NOT") {
			p.advance()
			op = "NOT IN"
		}
		p.advance()
		list, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		expr := &RelationalExpr{Op: op, Left: left, List: list}
		expr.Loc = p.spanFrom(start)
		return expr, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	return p.parseArithmetic(Additive, []string{"+", "-"}, p.parseMultiplicative)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseArithmetic(Multiplicative, []string{"*", "/"}, p.parseUnary)
}

func (p *parser) parseArithmetic(kind ArithmeticKind, ops []string, operand func() (Expr, error)) (Expr, error) {
	start := p.peek().Span.Start
	first, err := operand()
	if err != nil {
		return nil, err
	}

	atOp := func() bool {
		for _, op := range ops {
			if p.atPunct(op) {
				return true
			}
		}
		return false
	}
	if !atOp() {
		return first, nil
	}

	expr := &ArithmeticExpr{Kind: kind, First: first}
	for atOp() {
		op := p.advance().Value
		next, err := operand()
		if err != nil {
			return nil, err
		}
		expr.Rest = append(expr.Rest, Operand{Op: op, Expr: next})
	}
	expr.Loc = p.spanFrom(start)
	return expr, nil
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if isPunct(tok, "!") || ((isPunct(tok, "+") || isPunct(tok, "-")) && !p.atSignedNumber()) {
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr := &UnaryExpr{Op: tok.Value, Operand: operand}
		expr.Loc = p.spanFrom(tok.Span.Start)
		return expr, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch {
	case isPunct(tok, "("):
		return p.parseBracketedExpression()
	case tok.Type == TokenVar:
		return termExpr(p.parseVar()), nil
	case isIRIToken(tok):
		return p.parseIRIOrFunction()
	case p.atLiteral():
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return termExpr(lit), nil
	case tok.Type == TokenBlankNode:
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return termExpr(term), nil
	case p.isBuiltinStart():
		return p.parseBuiltin()
	}
	return nil, unexpected(tok, "expression")
}

func (p *parser) parseBracketedExpression() (Expr, error) {
	open := p.advance()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	closing, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	expr.bracket(Span{Start: open.Span.Start, End: closing.Span.End})
	return expr, nil
}

// parseIRIOrFunction parses an IRI, or a function call when '(' follows it.
func (p *parser) parseIRIOrFunction() (Expr, error) {
	start := p.peek().Span.Start
	name, err := p.parseIRI()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("(") {
		return termExpr(name), nil
	}

	p.advance()
	call := &FunctionCall{Name: name, Distinct: p.acceptKeyword("DISTINCT")}
	for !p.atPunct(")") {
		if len(call.Args) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	p.advance()
	call.Loc = p.spanFrom(start)
	return call, nil
}

// parseArgList parses `( expr, ... )`, possibly empty.
func (p *parser) parseArgList() ([]Expr, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []Expr
	for !p.atPunct(")") {
		if len(args) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.advance()
	return args, nil
}

func (p *parser) parseBuiltin() (Expr, error) {
	tok := p.advance()
	name := strings.ToUpper(tok.Value)
	start := tok.Span.Start

	switch {
	case name == "NOT" || name == "EXISTS":
		if name == "NOT" {
			p.advance()
			name = "NOT EXISTS"
		}
		group, err := p.parseGroupPattern()
		if err != nil {
			return nil, err
		}
		call := &BuiltinCall{Name: name, Group: group}
		call.Loc = p.spanFrom(start)
		return call, nil

	case name == "REGEX":
		return p.parseRegex(start)

	case aggregateNames[name]:
		return p.parseAggregate(name, start)
	}

	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	call := &BuiltinCall{Name: name, Args: args}
	call.Loc = p.spanFrom(start)
	return call, nil
}

func (p *parser) parseRegex(start Position) (Expr, error) {
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, &Error{Message: "REGEX takes 2 or 3 arguments", Span: p.spanFrom(start)}
	}
	expr := &RegexExpr{Text: args[0], Pattern: args[1]}
	if len(args) == 3 {
		expr.Flags = args[2]
	}
	expr.Loc = p.spanFrom(start)
	return expr, nil
}

func (p *parser) parseAggregate(name string, start Position) (Expr, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	agg := &AggregateExpr{Name: name, Distinct: p.acceptKeyword("DISTINCT")}

	if name == "COUNT" && p.acceptPunct("*") {
		agg.Star = true
	} else {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		agg.Arg = arg
	}

	if name == "GROUP_CONCAT" && p.acceptPunct(";") {
		if _, err := p.expectKeyword("SEPARATOR"); err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("="); err != nil {
			return nil, err
		}
		if tok := p.peek(); tok.Type != TokenString {
			return nil, unexpected(tok, "separator string")
		}
		sep, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		agg.Separator = sep
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	agg.Loc = p.spanFrom(start)
	return agg, nil
}
