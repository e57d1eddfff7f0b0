// Package prefix resolves namespace prefixes from PREFIX files.
package prefix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/mitchellh/go-homedir"

	"github.com/gnolang/spfmt/internal/syntax"
	"github.com/gnolang/spfmt/internal/trie"
)

// UnresolvedPrefixError is returned when a prefix has no known namespace.
type UnresolvedPrefixError struct {
	Prefix string
}

func (e *UnresolvedPrefixError) Error() string {
	return fmt.Sprintf("prefix %q is not declared in any prefix file", e.Prefix)
}

// Resolver maps prefix names to namespace IRIs. Later loads override
// earlier ones. A Resolver is safe for concurrent use once loading is done.
type Resolver struct {
	namespaces map[string]string // prefix -> IRI
	prefixes   map[string]string // IRI -> prefix
	index      *trie.Trie        // namespace IRIs
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		namespaces: make(map[string]string),
		prefixes:   make(map[string]string),
		index:      trie.New(),
	}
}

// Load reads PREFIX declarations, one per line. Lines that are not exactly
// `PREFIX name: <iri>` are ignored.
func (r *Resolver) Load(rd io.Reader) error {
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 || fields[0] != "PREFIX" {
			continue
		}
		name, ok := strings.CutSuffix(fields[1], ":")
		if !ok {
			continue
		}
		iri := fields[2]
		if len(iri) < 2 || iri[0] != '<' || iri[len(iri)-1] != '>' {
			continue
		}
		r.add(name, iri[1:len(iri)-1])
	}
	r.buildIndex()
	return scanner.Err()
}

// LoadFile loads a PREFIX file. A leading "~" is replaced by the home
// directory and a missing file is not an error.
func (r *Resolver) LoadFile(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	if err := r.Load(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// LoadFiles loads each path in order.
func (r *Resolver) LoadFiles(paths []string) error {
	for _, path := range paths {
		if err := r.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) add(name, iri string) {
	if old, ok := r.namespaces[name]; ok && r.prefixes[old] == name {
		delete(r.prefixes, old)
	}
	r.namespaces[name] = iri
	r.prefixes[iri] = name
}

func (r *Resolver) buildIndex() {
	r.index = trie.New()
	for ns := range r.prefixes {
		r.index.Insert(ns)
	}
}

// Lookup returns the namespace IRI of a prefix.
func (r *Resolver) Lookup(name string) (string, bool) {
	iri, ok := r.namespaces[name]
	return iri, ok
}

// Names returns the known prefixes in sorted order.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePrefixDeclaration returns the PREFIX line declaring name.
func (r *Resolver) ResolvePrefixDeclaration(name string) (string, error) {
	iri, ok := r.namespaces[name]
	if !ok {
		return "", &UnresolvedPrefixError{Prefix: name}
	}
	return "PREFIX " + name + ": <" + iri + ">", nil
}

// AbbreviateIRI writes iri as a prefixed name using the longest matching
// namespace, or as `<iri>` when none applies.
func (r *Resolver) AbbreviateIRI(iri string) string {
	for _, ns := range r.index.PrefixesOf(iri) {
		local := iri[len(ns):]
		if isLocalName(local) {
			return r.prefixes[ns] + ":" + local
		}
	}
	return "<" + iri + ">"
}

// isLocalName reports whether s can follow the colon of a prefixed name
// without escaping.
func isLocalName(s string) bool {
	for i, c := range s {
		switch {
		case unicode.IsLetter(c), unicode.IsDigit(c), c == '_':
		case c == '-' && i > 0:
		case c == '.' && i > 0 && i < len(s)-1:
		default:
			return false
		}
	}
	return true
}

// UndeclaredPrefixes returns the first use of every prefix that tree uses
// without declaring it, in order of first use.
func UndeclaredPrefixes(tree *syntax.Tree) []*syntax.IRI {
	declared := make(map[string]bool)
	for _, decl := range tree.Prologue {
		if d, ok := decl.(*syntax.PrefixDecl); ok {
			declared[d.Name] = true
		}
	}

	var used []*syntax.IRI
	seen := make(map[string]bool)
	syntax.Inspect(tree, func(n syntax.Node) bool {
		iri, ok := n.(*syntax.IRI)
		if !ok || iri.Kind != syntax.IRIPrefixed {
			return true
		}
		name := iri.Prefix()
		if !declared[name] && !seen[name] {
			seen[name] = true
			used = append(used, iri)
		}
		return true
	})
	return used
}

// InsertUndefinedPrefixes adds declarations for the prefixes that text uses
// without declaring them. They go after the existing prologue, before the
// first function definition or the query. Prefixes the resolver does not
// know are left undeclared.
func (r *Resolver) InsertUndefinedPrefixes(text string) (string, error) {
	tree, err := syntax.Parse(text)
	if err != nil {
		return "", err
	}

	var decls []string
	for _, iri := range UndeclaredPrefixes(tree) {
		if decl, err := r.ResolvePrefixDeclaration(iri.Prefix()); err == nil {
			decls = append(decls, decl)
		}
	}
	if len(decls) == 0 {
		return text, nil
	}

	at := tree.Body.Location().Start.Offset
	if len(tree.Functions) > 0 {
		at = tree.Functions[0].Loc.Start.Offset
	}

	// Keep the blank line between prologue and query below the new lines.
	head := text[:at]
	trimmed := strings.TrimRightFunc(head, unicode.IsSpace)
	gap := head[len(trimmed):]
	block := strings.Join(decls, "\n") + "\n\n"
	if i := strings.IndexByte(gap, '\n'); i >= 0 && i < len(gap)-1 {
		at = len(trimmed) + i + 1
		block = strings.Join(decls, "\n") + "\n"
	}
	return text[:at] + block + text[at:], nil
}
