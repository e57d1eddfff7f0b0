package printer

import (
	"strings"

	"github.com/gnolang/spfmt/internal/syntax"
)

func (p *printer) selectQuery(q *syntax.SelectQuery) {
	p.addLineAt(q.Loc.Start.Offset, selectClause(q))
	p.dataset(q.Dataset)
	p.block(q.Where.Loc.Start.Offset, "WHERE ", q.Where)
	p.modifiers(q.Modifiers)
	if q.Values != nil {
		p.inlineData(q.Values)
	}
}

func selectClause(q *syntax.SelectQuery) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.Modifier != "" {
		sb.WriteString(q.Modifier + " ")
	}
	if q.Star {
		sb.WriteString("*")
		return sb.String()
	}
	for i, proj := range q.Projection {
		if i > 0 {
			sb.WriteString(" ")
		}
		if proj.Expr == nil {
			sb.WriteString(proj.Var.String())
			continue
		}
		sb.WriteString("(" + ExprString(proj.Expr) + " AS " + proj.Var.String() + ")")
	}
	return sb.String()
}

func (p *printer) constructQuery(q *syntax.ConstructQuery) {
	if q.Template != nil {
		p.addLineAt(q.Loc.Start.Offset, "CONSTRUCT {")
		p.increaseIndent()
		p.triples(q.Template)
		p.decreaseIndent()
		p.addLine("}")
	} else {
		p.addLineAt(q.Loc.Start.Offset, "CONSTRUCT")
	}
	p.dataset(q.Dataset)
	p.block(q.Where.Loc.Start.Offset, "WHERE ", q.Where)
	p.modifiers(q.Modifiers)
}

func (p *printer) askQuery(q *syntax.AskQuery) {
	if len(q.Dataset) == 0 {
		p.block(q.Loc.Start.Offset, "ASK ", q.Where)
	} else {
		p.addLineAt(q.Loc.Start.Offset, "ASK")
		p.dataset(q.Dataset)
		p.block(q.Where.Loc.Start.Offset, "WHERE ", q.Where)
	}
	p.modifiers(q.Modifiers)
}

func (p *printer) describeQuery(q *syntax.DescribeQuery) {
	head := "DESCRIBE *"
	if !q.Star {
		terms := make([]string, len(q.Terms))
		for i, term := range q.Terms {
			terms[i] = TermString(term)
		}
		head = "DESCRIBE " + strings.Join(terms, " ")
	}
	p.addLineAt(q.Loc.Start.Offset, head)
	p.dataset(q.Dataset)
	if q.Where != nil {
		p.block(q.Where.Loc.Start.Offset, "WHERE ", q.Where)
	}
	p.modifiers(q.Modifiers)
}

// dataset writes FROM clauses in the order they were given.
func (p *printer) dataset(clauses []*syntax.DatasetClause) {
	p.datasetClauses("FROM", clauses)
}

func (p *printer) datasetClauses(keyword string, clauses []*syntax.DatasetClause) {
	for _, c := range clauses {
		text := keyword + " " + c.IRI.String()
		if c.Named {
			text = keyword + " NAMED " + c.IRI.String()
		}
		p.addLineAt(c.Loc.Start.Offset, text)
	}
}

func (p *printer) modifiers(m syntax.SolutionModifiers) {
	if m.GroupBy != nil {
		conds := make([]string, len(m.GroupBy.Conditions))
		for i, cond := range m.GroupBy.Conditions {
			if cond.As != nil {
				conds[i] = "(" + ExprString(cond.Expr) + " AS " + cond.As.String() + ")"
			} else {
				conds[i] = ExprString(cond.Expr)
			}
		}
		p.addLineAt(m.GroupBy.Loc.Start.Offset, "GROUP BY "+strings.Join(conds, " "))
	}
	if m.Having != nil {
		p.addLineAt(m.Having.Loc.Start.Offset, "HAVING "+joinExprs(m.Having.Constraints, " "))
	}
	if m.OrderBy != nil {
		conds := make([]string, len(m.OrderBy.Conditions))
		for i, cond := range m.OrderBy.Conditions {
			if cond.Direction != "" {
				conds[i] = cond.Direction + "(" + ExprString(cond.Expr) + ")"
			} else {
				conds[i] = ExprString(cond.Expr)
			}
		}
		p.addLineAt(m.OrderBy.Loc.Start.Offset, "ORDER BY "+strings.Join(conds, " "))
	}
	if m.Limit != nil {
		p.addLineAt(m.Limit.Loc.Start.Offset, "LIMIT "+m.Limit.Value)
	}
	if m.Offset != nil {
		p.addLineAt(m.Offset.Loc.Start.Offset, "OFFSET "+m.Offset.Value)
	}
}

/***** Updates *****/

func (p *printer) updateRequest(req *syntax.UpdateRequest) {
	for i, unit := range req.Units {
		if i > 0 {
			p.appendToLast(" ;")
			p.addLine("")
		}
		p.updateUnit(unit)
	}
}

func (p *printer) updateUnit(unit syntax.UpdateUnit) {
	start := unit.Location().Start.Offset

	switch u := unit.(type) {
	case *syntax.QuadData:
		p.quadsBlock(start, u.Op.String()+" ", u.Quads)

	case *syntax.Modify:
		if u.With != nil {
			p.addLineAt(start, "WITH "+u.With.String())
		}
		if u.Delete != nil {
			p.quadsBlock(u.Delete.Loc.Start.Offset, "DELETE ", u.Delete)
		}
		if u.Insert != nil {
			p.quadsBlock(u.Insert.Loc.Start.Offset, "INSERT ", u.Insert)
		}
		p.datasetClauses("USING", u.Using)
		p.block(u.Where.Loc.Start.Offset, "WHERE ", u.Where)

	case *syntax.GraphTransfer:
		p.addLineAt(start, u.Op+silent(u.Silent)+" "+graphOrDefault(u.From)+" TO "+graphOrDefault(u.To))

	case *syntax.Load:
		text := "LOAD" + silent(u.Silent) + " " + u.Source.String()
		if u.Into != nil {
			text += " INTO GRAPH " + u.Into.String()
		}
		p.addLineAt(start, text)

	case *syntax.GraphManagement:
		p.addLineAt(start, u.Op+silent(u.Silent)+" "+graphRefAll(u.Target))
	}
}

func silent(s bool) string {
	if s {
		return " SILENT"
	}
	return ""
}

func graphOrDefault(ref syntax.GraphRef) string {
	if ref.Kind == syntax.GraphRefDefault {
		return "DEFAULT"
	}
	return ref.IRI.String()
}

func graphRefAll(ref syntax.GraphRef) string {
	switch ref.Kind {
	case syntax.GraphRefDefault:
		return "DEFAULT"
	case syntax.GraphRefNamed:
		return "NAMED"
	case syntax.GraphRefAll:
		return "ALL"
	default:
		return "GRAPH " + ref.IRI.String()
	}
}

// quadsBlock writes `head{`, the quads and the closing brace.
func (p *printer) quadsBlock(pos int, head string, q *syntax.Quads) {
	p.addLineAt(pos, head+"{")
	p.increaseIndent()
	for _, b := range q.Blocks {
		if b.Graph == nil {
			p.triples(b.Triples)
			continue
		}
		p.addLineAt(b.Loc.Start.Offset, "GRAPH "+TermString(b.Graph)+" {")
		p.increaseIndent()
		p.triples(b.Triples)
		p.decreaseIndent()
		p.addLineAt(b.Loc.End.Offset-1, "}")
	}
	p.decreaseIndent()
	p.addLineAt(q.Loc.End.Offset-1, "}")
}
