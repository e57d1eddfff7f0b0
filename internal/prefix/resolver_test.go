package prefix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/spfmt/internal/syntax"
)

func loadTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r := NewResolver()
	require.NoError(t, r.LoadFile(filepath.Join("testdata", "prefixes.txt")))
	return r
}

func TestResolver_Load(t *testing.T) {
	t.Parallel()

	r := loadTestResolver(t)
	assert.Equal(t, []string{"dc", "ex", "exs", "foaf", "xsd"}, r.Names())

	iri, ok := r.Lookup("foaf")
	assert.True(t, ok)
	assert.Equal(t, "http://xmlns.com/foaf/0.1/", iri)

	for _, name := range []string{"lower", "extra", "nocolon", "bare"} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestResolver_LaterLoadsOverride(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	require.NoError(t, r.Load(strings.NewReader("PREFIX ex: <http://old.example/>\n")))
	require.NoError(t, r.Load(strings.NewReader("PREFIX ex: <http://new.example/>\n")))

	iri, _ := r.Lookup("ex")
	assert.Equal(t, "http://new.example/", iri)
	assert.Equal(t, "<http://old.example/a>", r.AbbreviateIRI("http://old.example/a"))
	assert.Equal(t, "ex:a", r.AbbreviateIRI("http://new.example/a"))
}

func TestResolver_LoadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".spfmt-prefix"),
		[]byte("PREFIX home: <http://home.example/>\n"), 0o644))

	r := NewResolver()
	require.NoError(t, r.LoadFiles([]string{
		"~/.spfmt-prefix",
		filepath.Join(home, "missing.txt"),
	}))

	iri, ok := r.Lookup("home")
	assert.True(t, ok)
	assert.Equal(t, "http://home.example/", iri)
}

func TestResolver_ResolvePrefixDeclaration(t *testing.T) {
	t.Parallel()

	r := loadTestResolver(t)

	decl, err := r.ResolvePrefixDeclaration("dc")
	require.NoError(t, err)
	assert.Equal(t, "PREFIX dc: <http://purl.org/dc/terms/>", decl)

	_, err = r.ResolvePrefixDeclaration("nope")
	var unresolved *UnresolvedPrefixError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "nope", unresolved.Prefix)
}

func TestResolver_AbbreviateIRI(t *testing.T) {
	t.Parallel()

	r := loadTestResolver(t)

	tests := []struct {
		iri  string
		want string
	}{
		{"http://example.org/sub/x", "exs:x"},
		{"http://example.org/a", "ex:a"},
		{"http://example.org/", "ex:"},
		{"http://www.w3.org/2001/XMLSchema#int", "xsd:int"},
		{"http://example.org/a/b", "<http://example.org/a/b>"},
		{"http://other.example/x", "<http://other.example/x>"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.AbbreviateIRI(tt.iri), tt.iri)
	}
}

func TestResolver_ExpandAlias(t *testing.T) {
	t.Parallel()

	r := loadTestResolver(t)

	tests := []struct {
		token string
		want  string
	}{
		{"https://github.com/u/r/blob/main/q.rq", "https://raw.githubusercontent.com/u/r/main/q.rq"},
		{"http://host.example/q.rq", "http://host.example/q.rq"},
		{"v1@github:u/r/dir/q.rq", "https://raw.githubusercontent.com/u/r/v1/dir/q.rq"},
		{"github@u/r/v1/q.rq", "https://raw.githubusercontent.com/u/r/v1/q.rq"},
		{"github:u/r/dir/q.rq@v2", "https://raw.githubusercontent.com/u/r/v2/dir/q.rq"},
		{"ex:q.rq", "http://example.org/q.rq"},
		{"ex", "http://example.org/"},
	}

	for _, tt := range tests {
		got, err := r.ExpandAlias(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got, tt.token)
	}

	_, err := r.ExpandAlias("nope:x")
	var unresolved *UnresolvedPrefixError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "nope", unresolved.Prefix)
}

func TestUndeclaredPrefixes(t *testing.T) {
	t.Parallel()

	tree, err := syntax.Parse(`PREFIX ex: <http://example.org/>
ex:f(?a) { ?a foaf:knows ?b }
SELECT * WHERE { ?s ex:p "1"^^xsd:int ; dc:title ?t . ?s foaf:name ?n }`)
	require.NoError(t, err)
	var names []string
	for _, iri := range UndeclaredPrefixes(tree) {
		names = append(names, iri.Value)
	}
	assert.Equal(t, []string{"foaf:knows", "xsd:int", "dc:title"}, names)
}

func TestResolver_InsertUndefinedPrefixes(t *testing.T) {
	t.Parallel()

	r := loadTestResolver(t)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "after prologue",
			src:  "PREFIX ex: <http://example.org/>\n\nSELECT * WHERE { ?s foaf:name ?n ; ex:p dc:title }",
			want: "PREFIX ex: <http://example.org/>\n" +
				"PREFIX foaf: <http://xmlns.com/foaf/0.1/>\n" +
				"PREFIX dc: <http://purl.org/dc/terms/>\n" +
				"\nSELECT * WHERE { ?s foaf:name ?n ; ex:p dc:title }",
		},
		{
			name: "no prologue",
			src:  "SELECT * WHERE { ?s foaf:name ?n }",
			want: "PREFIX foaf: <http://xmlns.com/foaf/0.1/>\n\nSELECT * WHERE { ?s foaf:name ?n }",
		},
		{
			name: "before function definitions",
			src:  "ex:f(?a) { ?a foaf:knows ?b }\nSELECT * WHERE { ex:f(?x) }",
			want: "PREFIX ex: <http://example.org/>\n" +
				"PREFIX foaf: <http://xmlns.com/foaf/0.1/>\n\n" +
				"ex:f(?a) { ?a foaf:knows ?b }\nSELECT * WHERE { ex:f(?x) }",
		},
		{
			name: "unknown prefix left alone",
			src:  "SELECT * WHERE { ?s zz:p ?o }",
			want: "SELECT * WHERE { ?s zz:p ?o }",
		},
		{
			name: "nothing missing",
			src:  "PREFIX ex: <http://example.org/>\nSELECT * WHERE { ?s ex:p ?o }",
			want: "PREFIX ex: <http://example.org/>\nSELECT * WHERE { ?s ex:p ?o }",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.InsertUndefinedPrefixes(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.InsertUndefinedPrefixes("SELECT * WHERE {")
	var synErr *syntax.Error
	assert.ErrorAs(t, err, &synErr)
}
