package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrie_PrefixesOf(t *testing.T) {
	t.Parallel()

	tr := New()
	for _, key := range []string{
		"http://example.org/",
		"http://example.org/sub/",
		"http://xmlns.com/foaf/0.1/",
		"http://example.org/", // duplicate
	} {
		tr.Insert(key)
	}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "nested namespaces",
			input: "http://example.org/sub/thing",
			want:  []string{"http://example.org/sub/", "http://example.org/"},
		},
		{
			name:  "single match",
			input: "http://xmlns.com/foaf/0.1/name",
			want:  []string{"http://xmlns.com/foaf/0.1/"},
		},
		{
			name:  "exact key",
			input: "http://example.org/",
			want:  []string{"http://example.org/"},
		},
		{
			name:  "no match",
			input: "http://example.com/",
			want:  []string{},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tr.PrefixesOf(tt.input))
		})
	}
}

func TestTrie_Contains(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Insert("abc")
	tr.Insert("ab")

	assert.True(t, tr.Contains("abc"))
	assert.True(t, tr.Contains("ab"))
	assert.False(t, tr.Contains("a"))
	assert.False(t, tr.Contains("abcd"))
	assert.Equal(t, 2, tr.Len())
}

func TestTrie_EmptyKey(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Insert("")

	assert.True(t, tr.Contains(""))
	assert.Equal(t, []string{""}, tr.PrefixesOf("anything"))
	assert.Equal(t, 1, tr.Len())
}
