package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Tree {
	t.Helper()
	tree, err := Parse(text)
	require.NoError(t, err)
	return tree
}

func TestParse_Prologue(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `BASE <http://base/>
PREFIX ex: <http://example.org/>
PREFIX : <http://default/>
SELECT * WHERE { ?s ?p ?o }`)

	require.Len(t, tree.Prologue, 3)
	assert.Equal(t, "http://base/", tree.Prologue[0].(*BaseDecl).IRI)

	ex := tree.Prologue[1].(*PrefixDecl)
	assert.Equal(t, "ex", ex.Name)
	assert.Equal(t, "http://example.org/", ex.IRI)

	assert.Equal(t, "", tree.Prologue[2].(*PrefixDecl).Name)
}

func TestParse_FunctionDefinition(t *testing.T) {
	t.Parallel()

	text := `PREFIX ex: <http://example.org/>
ex:f(?a, ?b) { ?a ex:p ?b }
SELECT * WHERE { ex:f(?x, "lit") }`
	tree := mustParse(t, text)

	require.Len(t, tree.Functions, 1)
	def := tree.Functions[0]
	assert.Equal(t, "ex:f", def.Name.Value)
	require.Len(t, def.Params, 2)
	assert.Equal(t, "a", def.Params[0].Name)
	assert.Equal(t, "b", def.Params[1].Name)
	assert.Equal(t, " ?a ex:p ?b ", def.BodySpan.Text(text))
	assert.Equal(t, `ex:f(?a, ?b) { ?a ex:p ?b }`, def.Loc.Text(text))

	sel := tree.Body.(*SelectQuery)
	require.Len(t, sel.Where.Elements, 1)
	call, ok := sel.Where.Elements[0].(*CallPattern)
	require.True(t, ok)
	assert.Equal(t, `ex:f(?x, "lit")`, call.Call.Loc.Text(text))
	require.Len(t, call.Call.Args, 2)
}

func TestParse_CallVersusTriple(t *testing.T) {
	t.Parallel()

	// whitespace before '(' makes the IRI the subject of a triple
	tree := mustParse(t, `SELECT * WHERE { ex:s (ex:p) ex:o }`)
	block, ok := tree.Body.(*SelectQuery).Where.Elements[0].(*TriplesBlock)
	require.True(t, ok)
	assert.IsType(t, &PathGroup{}, block.Triples[0].Props[0].Verb)
}

func TestParse_StrayDots(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE { ?s ?p ?o . . ex:f(?s) . }`)
	elems := tree.Body.(*SelectQuery).Where.Elements
	require.Len(t, elems, 2)
	assert.IsType(t, &TriplesBlock{}, elems[0])
	assert.IsType(t, &CallPattern{}, elems[1])
}

func TestParse_Bracketed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		bracketed bool
	}{
		{"filter parentheses are recorded", `SELECT * WHERE { FILTER (?x > 1) }`, true},
		{"builtin constraint is not bracketed", `SELECT * WHERE { FILTER BOUND(?x) }`, false},
		{"bind parentheses are syntax", `SELECT * WHERE { BIND (?x + 1 AS ?y) }`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := mustParse(t, tt.input)
			var expr Expr
			switch elem := tree.Body.(*SelectQuery).Where.Elements[0].(type) {
			case *Filter:
				expr = elem.Constraint
			case *Bind:
				expr = elem.Expr
			}
			require.NotNil(t, expr)
			assert.Equal(t, tt.bracketed, expr.IsBracketed())
		})
	}
}

func TestParse_NestedBrackets(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE { FILTER ((?a + ?b) * ?c > 0) }`)
	rel := tree.Body.(*SelectQuery).Where.Elements[0].(*Filter).Constraint.(*RelationalExpr)
	assert.True(t, rel.IsBracketed())

	mul := rel.Left.(*ArithmeticExpr)
	assert.Equal(t, Multiplicative, mul.Kind)
	assert.False(t, mul.IsBracketed())

	add := mul.First.(*ArithmeticExpr)
	assert.Equal(t, Additive, add.Kind)
	assert.True(t, add.IsBracketed())
}

func TestParse_QueryForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, body QueryBody)
	}{
		{
			name:  "select with modifiers",
			input: `SELECT DISTINCT ?s (COUNT(*) AS ?n) FROM <a> FROM NAMED <b> WHERE { ?s ?p ?o } GROUP BY ?s HAVING (COUNT(*) > 1) ORDER BY DESC(?n) OFFSET 5 LIMIT 10`,
			check: func(t *testing.T, body QueryBody) {
				q := body.(*SelectQuery)
				assert.Equal(t, "DISTINCT", q.Modifier)
				require.Len(t, q.Projection, 2)
				assert.IsType(t, &AggregateExpr{}, q.Projection[1].Expr)
				require.Len(t, q.Dataset, 2)
				assert.False(t, q.Dataset[0].Named)
				assert.True(t, q.Dataset[1].Named)
				require.NotNil(t, q.Modifiers.GroupBy)
				require.NotNil(t, q.Modifiers.Having)
				require.NotNil(t, q.Modifiers.OrderBy)
				assert.Equal(t, "DESC", q.Modifiers.OrderBy.Conditions[0].Direction)
				assert.Equal(t, "10", q.Modifiers.Limit.Value)
				assert.Equal(t, "5", q.Modifiers.Offset.Value)
			},
		},
		{
			name:  "construct",
			input: `CONSTRUCT { ?s ex:p ?o } WHERE { ?s ex:q ?o }`,
			check: func(t *testing.T, body QueryBody) {
				q := body.(*ConstructQuery)
				require.NotNil(t, q.Template)
				assert.Len(t, q.Template.Triples, 1)
			},
		},
		{
			name:  "construct where",
			input: `CONSTRUCT WHERE { ?s ex:q ?o }`,
			check: func(t *testing.T, body QueryBody) {
				assert.Nil(t, body.(*ConstructQuery).Template)
			},
		},
		{
			name:  "ask",
			input: `ask { ?s ?p ?o }`,
			check: func(t *testing.T, body QueryBody) {
				assert.IsType(t, &AskQuery{}, body)
			},
		},
		{
			name:  "describe without where",
			input: `DESCRIBE ?x <http://a>`,
			check: func(t *testing.T, body QueryBody) {
				q := body.(*DescribeQuery)
				assert.Len(t, q.Terms, 2)
				assert.Nil(t, q.Where)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, mustParse(t, tt.input).Body)
		})
	}
}

func TestParse_Patterns(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE {
  ?s ex:p ?o ; ex:q ?r , ?t .
  OPTIONAL { ?s ex:r ?u }
  { ?a ?b ?c } UNION { ?d ?e ?f }
  MINUS { ?s ex:x ?x }
  GRAPH ?g { ?s ?p ?o }
  SERVICE SILENT <http://svc> { ?s ?p ?o }
  FILTER NOT EXISTS { ?s ex:y ?y }
  BIND(STR(?s) AS ?str)
  VALUES ?v { 1 UNDEF }
  { SELECT ?s WHERE { ?s ?p ?o } LIMIT 1 }
}`)

	elems := tree.Body.(*SelectQuery).Where.Elements
	require.Len(t, elems, 10)

	triples := elems[0].(*TriplesBlock)
	require.Len(t, triples.Triples[0].Props, 2)
	assert.Len(t, triples.Triples[0].Props[1].Objects, 2)

	assert.IsType(t, &Optional{}, elems[1])
	assert.Len(t, elems[2].(*Union).Alternatives, 2)
	assert.IsType(t, &Minus{}, elems[3])
	assert.IsType(t, &GraphPattern{}, elems[4])
	assert.True(t, elems[5].(*Service).Silent)

	exists := elems[6].(*Filter).Constraint.(*BuiltinCall)
	assert.Equal(t, "NOT EXISTS", exists.Name)
	require.NotNil(t, exists.Group)

	assert.Equal(t, "str", elems[7].(*Bind).As.Name)

	values := elems[8].(*InlineData)
	assert.True(t, values.Single)
	assert.Len(t, values.Rows, 2)
	assert.IsType(t, &Undef{}, values.Rows[1][0])

	group := elems[9].(*GroupPattern)
	require.Len(t, group.Elements, 1)
	assert.IsType(t, &SubSelect{}, group.Elements[0])
}

func TestParse_Paths(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE { ?s ex:a/ex:b|^ex:c* ?o . ?s !(a|^ex:d) ?o }`)
	block := tree.Body.(*SelectQuery).Where.Elements[0].(*TriplesBlock)
	require.Len(t, block.Triples, 2)

	alt, ok := block.Triples[0].Props[0].Verb.(*PathAlternative)
	require.True(t, ok)
	require.Len(t, alt.Alternatives, 2)
	assert.IsType(t, &PathSequence{}, alt.Alternatives[0])
	inv := alt.Alternatives[1].(*PathInverse)
	assert.Equal(t, "*", inv.Path.(*PathMod).Mod)

	neg, ok := block.Triples[1].Props[0].Verb.(*PathNegated)
	require.True(t, ok)
	assert.IsType(t, &PathGroup{}, neg.Path)
}

func TestParse_TermsAndLiterals(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE { [ ex:p "a"@en ] ex:q ( 1 -2.5 true ), "x"^^xsd:string, _:b, [] }`)
	triple := tree.Body.(*SelectQuery).Where.Elements[0].(*TriplesBlock).Triples[0]

	assert.IsType(t, &BlankNodePropertyList{}, triple.Subject)
	objects := triple.Props[0].Objects
	require.Len(t, objects, 4)

	coll := objects[0].(*Collection)
	require.Len(t, coll.Items, 3)
	assert.Equal(t, "-2.5", coll.Items[1].(*Literal).Value)
	assert.Equal(t, LiteralBoolean, coll.Items[2].(*Literal).Kind)

	typed := objects[1].(*Literal)
	assert.Equal(t, "xsd:string", typed.Datatype.Value)

	assert.Equal(t, "b", objects[2].(*BlankNode).Label)
	assert.Equal(t, "", objects[3].(*BlankNode).Label)
}

func TestParse_Updates(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `INSERT DATA { ex:a ex:b ex:c . GRAPH ex:g { ex:d ex:e ex:f } } ;
DELETE { ?s ?p ?o } INSERT { ?s ?p 1 } USING <u1> USING NAMED <u2> WHERE { ?s ?p ?o } ;
LOAD SILENT <http://src> INTO GRAPH <http://dst> ;
CLEAR ALL ;
CREATE GRAPH <http://g> ;
COPY DEFAULT TO GRAPH <http://g>`)

	req := tree.Body.(*UpdateRequest)
	require.Len(t, req.Units, 6)

	data := req.Units[0].(*QuadData)
	assert.Equal(t, InsertData, data.Op)
	require.Len(t, data.Quads.Blocks, 2)
	assert.NotNil(t, data.Quads.Blocks[1].Graph)

	mod := req.Units[1].(*Modify)
	assert.NotNil(t, mod.Delete)
	assert.NotNil(t, mod.Insert)
	require.Len(t, mod.Using, 2)
	assert.True(t, mod.Using[1].Named)

	load := req.Units[2].(*Load)
	assert.True(t, load.Silent)
	assert.Equal(t, "http://dst", load.Into.Value)

	assert.Equal(t, GraphRefAll, req.Units[3].(*GraphManagement).Target.Kind)
	assert.Equal(t, "CREATE", req.Units[4].(*GraphManagement).Op)

	transfer := req.Units[5].(*GraphTransfer)
	assert.Equal(t, GraphRefDefault, transfer.From.Kind)
	assert.Equal(t, "http://g", transfer.To.IRI.Value)
}

func TestParse_Comments(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "SELECT * # one\nWHERE { # two\n ?s ?p ?o }")
	require.Len(t, tree.Comments, 2)
	assert.Equal(t, "# one", tree.Comments[0].Text)
	assert.Equal(t, "# two", tree.Comments[1].Text)
	assert.Less(t, tree.Comments[0].Pos, tree.Comments[1].Pos)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		msg   string
		line  int
	}{
		{"missing body", "PREFIX ex: <http://e/>", "unexpected end of input, expected query or update", 1},
		{"unclosed group", "SELECT * WHERE {\n ?s ?p ?o", "unexpected end of input, expected triple pattern", 2},
		{"bad projection", "SELECT WHERE { }", "unexpected WHERE, expected projection", 1},
		{"trailing tokens", "ASK {} }", "unexpected }, expected end of input", 1},
		{"bind without as", "SELECT * WHERE { BIND(1 ?x) }", "unexpected ?x, expected AS", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.input)
			require.Error(t, err)

			var synErr *Error
			require.ErrorAs(t, err, &synErr)
			assert.Equal(t, tt.msg, synErr.Message)
			assert.Equal(t, tt.line, synErr.Span.Start.Line)
		})
	}
}
