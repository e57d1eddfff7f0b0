package expand

import (
	"slices"
	"strings"

	"github.com/gnolang/spfmt/internal/syntax"
)

// Cycle is a chain of function definitions that call each other in a loop.
type Cycle struct {
	// Path lists the function names along the loop; the first name is
	// repeated at the end.
	Path []string
	// Def is the definition of Path[0].
	Def *syntax.FunctionDef
}

func (c Cycle) String() string {
	return strings.Join(c.Path, " -> ")
}

// callGraph maps each defined function to the defined functions its body
// calls, in order of first call.
type callGraph struct {
	defs    map[string]*syntax.FunctionDef
	order   []string
	calls   map[string][]string
	visited map[string]bool
	stack   []string
	cycles  []Cycle
}

func newCallGraph(tree *syntax.Tree) *callGraph {
	g := &callGraph{
		defs:    make(map[string]*syntax.FunctionDef, len(tree.Functions)),
		calls:   make(map[string][]string, len(tree.Functions)),
		visited: make(map[string]bool),
	}
	for _, def := range tree.Functions {
		name := def.Name.String()
		if _, dup := g.defs[name]; !dup {
			g.order = append(g.order, name)
		}
		g.defs[name] = def
	}
	for _, name := range g.order {
		g.calls[name] = g.calledFrom(g.defs[name].Body)
	}
	return g
}

// calledFrom returns the defined functions called below n.
func (g *callGraph) calledFrom(n syntax.Node) []string {
	var called []string
	syntax.Inspect(n, func(n syntax.Node) bool {
		call, ok := n.(*syntax.FunctionCall)
		if !ok {
			return true
		}
		name := call.Name.String()
		if _, defined := g.defs[name]; defined && !slices.Contains(called, name) {
			called = append(called, name)
		}
		return true
	})
	return called
}

func (g *callGraph) dfs(name string) {
	g.visited[name] = true
	g.stack = append(g.stack, name)

	for _, dep := range g.calls[name] {
		if i := slices.Index(g.stack, dep); i >= 0 {
			path := append(slices.Clone(g.stack[i:]), dep)
			g.cycles = append(g.cycles, Cycle{Path: path, Def: g.defs[dep]})
			continue
		}
		if !g.visited[dep] {
			g.dfs(dep)
		}
	}

	g.stack = g.stack[:len(g.stack)-1]
}

// DetectCycles finds function definitions that call themselves, directly
// or through other definitions. Such calls never finish expanding.
func DetectCycles(tree *syntax.Tree) []Cycle {
	g := newCallGraph(tree)
	for _, name := range g.order {
		if !g.visited[name] {
			g.dfs(name)
		}
	}
	return g.cycles
}

// ReachableFunctions returns the names of the definitions that expanding
// the query body would inline.
func ReachableFunctions(tree *syntax.Tree) map[string]bool {
	reached := make(map[string]bool)
	if tree.Body == nil {
		return reached
	}
	g := newCallGraph(tree)

	queue := g.calledFrom(tree.Body)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if reached[name] {
			continue
		}
		reached[name] = true
		queue = append(queue, g.calls[name]...)
	}
	return reached
}
