package printer

import (
	"strings"
	"unicode/utf8"

	"github.com/gnolang/spfmt/internal/syntax"
)

// block writes `head{`, the elements of g one level deeper and `}`.
func (p *printer) block(pos int, head string, g *syntax.GroupPattern) {
	p.addLineAt(pos, head+"{")
	p.increaseIndent()
	p.groupBody(g)
	p.decreaseIndent()
	p.addLineAt(closingBrace(g), "}")
}

func (p *printer) groupBody(g *syntax.GroupPattern) {
	for _, elem := range g.Elements {
		p.pattern(elem)
	}
}

func (p *printer) pattern(elem syntax.Pattern) {
	start := elem.Location().Start.Offset

	switch e := elem.(type) {
	case *syntax.TriplesBlock:
		p.triples(e)
	case *syntax.Filter:
		p.filter(e)
	case *syntax.Bind:
		p.addLineAt(start, "BIND("+ExprString(e.Expr)+" AS "+e.As.String()+")")
	case *syntax.Optional:
		p.block(start, "OPTIONAL ", e.Group)
	case *syntax.Minus:
		p.block(start, "MINUS ", e.Group)
	case *syntax.Union:
		for i, alt := range e.Alternatives {
			if i > 0 {
				p.addLineAt(alt.Loc.Start.Offset, "UNION")
			}
			p.block(alt.Loc.Start.Offset, "", alt)
		}
	case *syntax.GraphPattern:
		p.block(start, "GRAPH "+TermString(e.Name)+" ", e.Group)
	case *syntax.Service:
		p.block(start, "SERVICE"+silent(e.Silent)+" "+TermString(e.Name)+" ", e.Group)
	case *syntax.GroupPattern:
		p.block(start, "", e)
	case *syntax.SubSelect:
		p.selectQuery(e.Query)
	case *syntax.InlineData:
		p.inlineData(e)
	case *syntax.CallPattern:
		p.addLineAt(start, ExprString(e.Call))
	}
}

func (p *printer) filter(f *syntax.Filter) {
	call, ok := f.Constraint.(*syntax.BuiltinCall)
	if ok && call.Group != nil && !call.IsBracketed() {
		p.block(f.Loc.Start.Offset, "FILTER "+call.Name+" ", call.Group)
		return
	}
	p.addLineAt(f.Loc.Start.Offset, "FILTER "+ExprString(f.Constraint))
}

func (p *printer) triples(b *syntax.TriplesBlock) {
	for _, t := range b.Triples {
		p.triple(t)
	}
}

// triple writes `s p o ;` lines with continuation lines aligned under the
// end of the subject, and a final ` .`.
func (p *printer) triple(t *syntax.Triple) {
	subject := TermString(t.Subject)
	if len(t.Props) == 0 {
		p.addLineAt(t.Loc.Start.Offset, subject+" .")
		return
	}

	pad := strings.Repeat(" ", utf8.RuneCountInString(subject))
	for i, po := range t.Props {
		text := pad + " " + propertyObjects(po)
		pos := po.Loc.Start.Offset
		if i == 0 {
			text = subject + " " + propertyObjects(po)
			pos = t.Loc.Start.Offset
		}
		if i == len(t.Props)-1 {
			text += " ."
		} else {
			text += " ;"
		}
		p.addLineAt(pos, text)
	}
}

func propertyObjects(po *syntax.PropertyObjects) string {
	objects := make([]string, len(po.Objects))
	for i, o := range po.Objects {
		objects[i] = TermString(o)
	}
	return TermString(po.Verb) + " " + strings.Join(objects, ", ")
}

// inlineData writes a VALUES block in one of three shapes: a single variable,
// a single parenthesized variable, or one row per line.
func (p *printer) inlineData(d *syntax.InlineData) {
	start := d.Loc.Start.Offset

	vars := make([]string, len(d.Vars))
	for i, v := range d.Vars {
		vars[i] = v.String()
	}

	switch {
	case d.Single:
		values := make([]syntax.Term, 0, len(d.Rows))
		for _, row := range d.Rows {
			values = append(values, row...)
		}
		p.addLineAt(start, "VALUES "+vars[0]+" "+braced(termStrings(values)))

	case len(d.Vars) == 1:
		rows := make([]string, len(d.Rows))
		for i, row := range d.Rows {
			rows[i] = dataRow(row)
		}
		p.addLineAt(start, "VALUES ("+vars[0]+") "+braced(rows))

	default:
		p.addLineAt(start, "VALUES ("+strings.Join(vars, " ")+") {")
		p.increaseIndent()
		for _, row := range d.Rows {
			if len(row) > 0 {
				p.addLineAt(row[0].Location().Start.Offset, dataRow(row))
			} else {
				p.addLine(dataRow(row))
			}
		}
		p.decreaseIndent()
		p.addLineAt(d.Loc.End.Offset-1, "}")
	}
}

func dataRow(row []syntax.Term) string {
	return "(" + strings.Join(termStrings(row), " ") + ")"
}

func braced(items []string) string {
	if len(items) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(items, " ") + " }"
}
