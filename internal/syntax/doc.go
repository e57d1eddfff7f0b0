/*
Package syntax provides the lexer, parser and syntax tree for SPARQL
templates: SPARQL 1.1 queries and updates extended with user-defined
functions and interpolation variables.

# Template Extensions

Functions are declared between the prologue and the query body. A
function has a name, a list of parameter variables and a group graph
pattern as its body:

	PREFIX ex: <http://example.org/>

	ex:knows(?a, ?b) {
	  ?a ex:knows ?b .
	}

	SELECT * WHERE {
	  ex:knows(?x, ?y)
	}

A call is written as an IRI directly followed by '(' and may appear as a
group element or inside an expression. Variables may be written as ?x, $x
or {{x}}; the last form is kept for later string interpolation.

# Locations

Every node records the Span of source text it was parsed from. Spans are
byte offsets plus 1-based line and column numbers, and are valid only for
the text passed to Parse.

# Comments

Comments never appear in the token stream. The lexer collects them in
source order and Parse stores them in Tree.Comments, so a printer can put
them back at their original positions.

# Bracketing

Every Expr reports whether the source wrapped it in explicit parentheses.
Parentheses that belong to the surrounding syntax (function arguments,
BIND, projections) are not recorded.
*/
package syntax
