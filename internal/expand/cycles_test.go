package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/spfmt/internal/syntax"
)

func cyclePaths(cycles []Cycle) []string {
	paths := make([]string, len(cycles))
	for i, c := range cycles {
		paths[i] = c.String()
	}
	return paths
}

func TestDetectCycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "no functions",
			src:  "SELECT * WHERE { ?s ?p ?o }",
			want: []string{},
		},
		{
			name: "acyclic chain",
			src:  "ex:a(?x) { ex:b(?x) }\nex:b(?x) { ?x ?p ?o }\nSELECT * WHERE { ex:a(?s) }",
			want: []string{},
		},
		{
			name: "self call",
			src:  "ex:loop(?x) { ex:loop(?x) }\nSELECT * WHERE { ex:loop(?s) }",
			want: []string{"ex:loop -> ex:loop"},
		},
		{
			name: "mutual calls",
			src:  "ex:a(?x) { ex:b(?x) }\nex:b(?x) { ?x ?p ?o . ex:a(?x) }\nSELECT * WHERE { ?s ?p ?o }",
			want: []string{"ex:a -> ex:b -> ex:a"},
		},
		{
			name: "call inside filter",
			src:  "ex:a(?x) { FILTER (ex:a(?x)) }\nSELECT * WHERE { ?s ?p ?o }",
			want: []string{"ex:a -> ex:a"},
		},
		{
			name: "undefined callee",
			src:  "ex:a(?x) { ex:missing(?x) }\nSELECT * WHERE { ex:a(?s) }",
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := syntax.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cyclePaths(DetectCycles(tree)))
		})
	}
}

func TestDetectCycles_Definition(t *testing.T) {
	t.Parallel()

	tree, err := syntax.Parse("ex:a(?x) { ex:b(?x) }\nex:b(?x) { ex:a(?x) }\nSELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)

	cycles := DetectCycles(tree)
	require.Len(t, cycles, 1)
	assert.Equal(t, "ex:a", cycles[0].Def.Name.String())
	assert.Equal(t, 1, cycles[0].Def.Loc.Start.Line)
}

func TestReachableFunctions(t *testing.T) {
	t.Parallel()

	src := `ex:a(?x) { ex:b(?x) }
ex:b(?x) { ?x ?p ?o }
ex:c(?x) { ex:c(?x) }
ex:d(?x) { ?x ?p ?o }
SELECT * WHERE { ex:a(?s) FILTER (ex:d(?s)) }`

	tree, err := syntax.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ex:a": true, "ex:b": true, "ex:d": true}, ReachableFunctions(tree))
}
