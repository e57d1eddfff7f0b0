// Package printer renders a syntax tree as canonical template text.
package printer

import (
	"math"
	"strings"

	"github.com/gnolang/spfmt/internal/syntax"
)

// DefaultIndent is the indentation width used when none is configured.
const DefaultIndent = 2

// Format renders tree with one clause or pattern element per line, indenting
// nested blocks by indentWidth spaces. Comments recorded in the tree are
// written back next to the constructs they preceded. A negative width
// selects DefaultIndent.
func Format(tree *syntax.Tree, indentWidth int) string {
	if indentWidth < 0 {
		indentWidth = DefaultIndent
	}
	p := newPrinter(tree.Comments, indentWidth)
	p.tree(tree)
	p.flushComments(math.MaxInt)
	return p.String()
}

// FormatString parses text and formats the result.
func FormatString(text string, indentWidth int) (string, error) {
	tree, err := syntax.Parse(text)
	if err != nil {
		return "", err
	}
	return Format(tree, indentWidth), nil
}

type line struct {
	text    string
	comment string
}

func (l line) String() string {
	switch {
	case l.comment == "":
		return l.text
	case strings.TrimSpace(l.text) == "":
		return l.text + l.comment
	default:
		return l.text + " " + l.comment
	}
}

// printer holds the working state of a single Format call.
type printer struct {
	unit     string
	indent   string
	lines    []line
	comments []syntax.Comment // not yet written, ordered by position
}

func newPrinter(comments []syntax.Comment, indentWidth int) *printer {
	queue := make([]syntax.Comment, len(comments))
	copy(queue, comments)
	return &printer{
		unit:     strings.Repeat(" ", indentWidth),
		comments: queue,
	}
}

func (p *printer) String() string {
	var sb strings.Builder
	for i, l := range p.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.String())
	}
	return sb.String()
}

func (p *printer) increaseIndent() {
	p.indent += p.unit
}

func (p *printer) decreaseIndent() {
	p.indent = p.indent[:len(p.indent)-len(p.unit)]
}

// addLine appends a line at the current indentation.
func (p *printer) addLine(text string) {
	if text == "" {
		p.lines = append(p.lines, line{})
		return
	}
	p.lines = append(p.lines, line{text: p.indent + text})
}

// addLineAt appends a line produced by the construct starting at pos,
// after writing out the comments that precede pos.
func (p *printer) addLineAt(pos int, text string) {
	p.flushComments(pos)
	p.addLine(text)
}

// flushComments writes every queued comment positioned before pos. The first
// one is attached to the previous line unless that line is blank or already
// carries a comment; the others get lines of their own.
func (p *printer) flushComments(pos int) {
	attach := true
	for len(p.comments) > 0 && p.comments[0].Pos < pos {
		c := p.comments[0]
		p.comments = p.comments[1:]

		if attach && len(p.lines) > 0 {
			last := &p.lines[len(p.lines)-1]
			if strings.TrimSpace(last.text) != "" && last.comment == "" {
				last.comment = c.Text
				attach = false
				continue
			}
		}
		attach = false
		p.lines = append(p.lines, line{text: p.indent, comment: c.Text})
	}
}

// appendToLast appends text to the last content line.
func (p *printer) appendToLast(text string) {
	if len(p.lines) == 0 {
		p.addLine(strings.TrimSpace(text))
		return
	}
	p.lines[len(p.lines)-1].text += text
}

func (p *printer) tree(t *syntax.Tree) {
	for _, decl := range t.Prologue {
		switch d := decl.(type) {
		case *syntax.BaseDecl:
			p.addLineAt(d.Loc.Start.Offset, "BASE <"+d.IRI+">")
		case *syntax.PrefixDecl:
			p.addLineAt(d.Loc.Start.Offset, "PREFIX "+d.Name+": <"+d.IRI+">")
		}
	}
	if len(t.Prologue) > 0 {
		p.addLine("")
	}

	for _, def := range t.Functions {
		p.function(def)
	}

	switch body := t.Body.(type) {
	case *syntax.SelectQuery:
		p.selectQuery(body)
	case *syntax.ConstructQuery:
		p.constructQuery(body)
	case *syntax.AskQuery:
		p.askQuery(body)
	case *syntax.DescribeQuery:
		p.describeQuery(body)
	case *syntax.UpdateRequest:
		p.updateRequest(body)
	}

	if t.Values != nil {
		p.inlineData(t.Values)
	}
}

func (p *printer) function(def *syntax.FunctionDef) {
	params := make([]string, len(def.Params))
	for i, param := range def.Params {
		params[i] = param.String()
	}
	p.addLineAt(def.Loc.Start.Offset, def.Name.String()+"("+strings.Join(params, ", ")+") {")
	p.increaseIndent()
	p.groupBody(def.Body)
	p.decreaseIndent()
	p.addLineAt(closingBrace(def.Body), "}")
	p.addLine("")
}

// closingBrace returns the offset of the '}' that ends g.
func closingBrace(g *syntax.GroupPattern) int {
	return g.Loc.End.Offset - 1
}
