package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func varNames(vars []*Var) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.String()
	}
	return names
}

func TestVars(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT ?s (STR(?o) AS ?str) WHERE {
  ?s ex:p ?o .
  FILTER (?o > $min)
  BIND({{x}} AS ?y)
} VALUES ?z { 1 }`)

	assert.Equal(t,
		[]string{"?s", "?o", "?str", "?s", "?o", "?o", "$min", "{{x}}", "?y"},
		varNames(Vars(tree.Body)),
	)
	assert.Equal(t, []string{"?z"}, varNames(Vars(tree.Values)))
}

func TestInspect_SkipChildren(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE { ?a ?b ?c OPTIONAL { ?d ?e ?f } }`)

	var seen []string
	Inspect(tree, func(n Node) bool {
		switch n := n.(type) {
		case *Optional:
			return false
		case *Var:
			seen = append(seen, n.Name)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestInspect_FunctionCalls(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `SELECT * WHERE { ex:f(?x) FILTER (ex:g(?y) && BOUND(?z)) }`)

	var calls []string
	Inspect(tree.Body, func(n Node) bool {
		if call, ok := n.(*FunctionCall); ok {
			calls = append(calls, call.Name.Value)
		}
		return true
	})
	assert.Equal(t, []string{"ex:f", "ex:g"}, calls)
}
