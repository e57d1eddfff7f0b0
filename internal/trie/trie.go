// Package trie indexes strings for longest-prefix lookups.
package trie

// Nodes are stored in one slice and children are referenced by index.

// NodeIndex represents the index of a trie node.
type NodeIndex int

type node struct {
	children map[byte]NodeIndex
	isEnd    bool
}

// Trie is a byte-wise prefix tree. It is not safe for concurrent writes;
// concurrent lookups are fine once it is built.
type Trie struct {
	nodes []node
	size  int
}

func New() *Trie {
	t := &Trie{nodes: make([]node, 0, 64)}
	t.newNode() // root
	return t
}

func (t *Trie) newNode() NodeIndex {
	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, node{children: make(map[byte]NodeIndex)})
	return idx
}

// Insert adds key to the trie.
func (t *Trie) Insert(key string) {
	current := NodeIndex(0)
	for i := 0; i < len(key); i++ {
		child, ok := t.nodes[current].children[key[i]]
		if !ok {
			child = t.newNode()
			t.nodes[current].children[key[i]] = child
		}
		current = child
	}
	if !t.nodes[current].isEnd {
		t.nodes[current].isEnd = true
		t.size++
	}
}

// Contains reports whether key was inserted.
func (t *Trie) Contains(key string) bool {
	current := NodeIndex(0)
	for i := 0; i < len(key); i++ {
		child, ok := t.nodes[current].children[key[i]]
		if !ok {
			return false
		}
		current = child
	}
	return t.nodes[current].isEnd
}

// PrefixesOf returns every inserted key that is a prefix of s, longest
// first.
func (t *Trie) PrefixesOf(s string) []string {
	var ends []int
	current := NodeIndex(0)
	if t.nodes[current].isEnd {
		ends = append(ends, 0)
	}
	for i := 0; i < len(s); i++ {
		child, ok := t.nodes[current].children[s[i]]
		if !ok {
			break
		}
		current = child
		if t.nodes[current].isEnd {
			ends = append(ends, i+1)
		}
	}

	prefixes := make([]string, len(ends))
	for i, end := range ends {
		prefixes[len(ends)-1-i] = s[:end]
	}
	return prefixes
}

// Len returns the number of distinct keys.
func (t *Trie) Len() int {
	return t.size
}
