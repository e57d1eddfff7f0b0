// Package nolint finds `# nolint` comments that silence warnings.
//
// A comment placed before the first function definition or query applies
// to the whole template. A comment following other text on its line
// applies to that line, and a comment on a line of its own applies to
// that line and the next one. `# nolint` silences every rule and
// `# nolint:rule1,rule2` only the listed ones.
package nolint

import (
	"fmt"
	"strings"

	"github.com/gnolang/spfmt/internal/syntax"
)

const nolintPrefix = "nolint"

// Manager records the nolint scopes of one template.
type Manager struct {
	scopes []nolintScope
}

// nolintScope is a range of lines where nolint applies.
type nolintScope struct {
	rules     map[string]struct{}
	startLine int
	endLine   int // 0 means until the end of the text
}

// ParseComments collects the nolint comments of tree, which was parsed
// from text.
func ParseComments(tree *syntax.Tree, text string) *Manager {
	manager := &Manager{}

	headerEnd := len(text)
	if len(tree.Functions) > 0 {
		headerEnd = tree.Functions[0].Loc.Start.Offset
	} else if tree.Body != nil {
		headerEnd = tree.Body.Location().Start.Offset
	}

	for _, c := range tree.Comments {
		ns, err := parseComment(c, text, headerEnd)
		if err != nil {
			// not a nolint comment
			continue
		}
		manager.scopes = append(manager.scopes, ns)
	}
	return manager
}

func parseComment(c syntax.Comment, text string, headerEnd int) (nolintScope, error) {
	var ns nolintScope

	body := strings.TrimSpace(strings.TrimPrefix(c.Text, "#"))
	if !strings.HasPrefix(body, nolintPrefix) {
		return ns, fmt.Errorf("not a nolint comment")
	}
	rest := body[len(nolintPrefix):]

	// either nothing, or a colon followed by a rule list
	if rest != "" && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if rest != "" {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseRuleNames(rest)

	line := 1 + strings.Count(text[:c.Pos], "\n")
	switch {
	case c.Pos < headerEnd && !isInline(text, c.Pos):
		ns.startLine, ns.endLine = 1, 0
	case isInline(text, c.Pos):
		ns.startLine, ns.endLine = line, line
	default:
		ns.startLine, ns.endLine = line, line+1
	}
	return ns, nil
}

func parseRuleNames(text string) map[string]struct{} {
	rules := make(map[string]struct{})
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rules[rule] = struct{}{}
		}
	}
	return rules
}

// isInline reports whether the comment at pos follows other text on its
// line.
func isInline(text string, pos int) bool {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	return strings.TrimSpace(text[lineStart:pos]) != ""
}

// IsNolint reports whether rule is silenced on line.
func (m *Manager) IsNolint(line int, rule string) bool {
	for _, ns := range m.scopes {
		if line < ns.startLine || (ns.endLine != 0 && line > ns.endLine) {
			continue
		}
		// no rule list silences every rule
		if len(ns.rules) == 0 {
			return true
		}
		if _, ok := ns.rules[rule]; ok {
			return true
		}
	}
	return false
}
