package printer

import (
	"strings"

	"github.com/gnolang/spfmt/internal/syntax"
)

// TermString renders a triple element.
func TermString(t syntax.Term) string {
	switch t := t.(type) {
	case *syntax.Var:
		return t.String()
	case *syntax.IRI:
		return t.String()
	case *syntax.Literal:
		return t.String()
	case *syntax.BlankNode:
		if t.Label == "" {
			return "[]"
		}
		return "_:" + t.Label
	case *syntax.BlankNodePropertyList:
		props := make([]string, len(t.Props))
		for i, po := range t.Props {
			props[i] = propertyObjects(po)
		}
		return "[ " + strings.Join(props, " ; ") + " ]"
	case *syntax.Collection:
		if len(t.Items) == 0 {
			return "()"
		}
		return "( " + strings.Join(termStrings(t.Items), " ") + " )"
	case *syntax.Undef:
		return "UNDEF"
	case *syntax.PathAlternative:
		return strings.Join(termStrings(t.Alternatives), "|")
	case *syntax.PathSequence:
		return strings.Join(termStrings(t.Elements), "/")
	case *syntax.PathInverse:
		return "^" + TermString(t.Path)
	case *syntax.PathMod:
		return TermString(t.Path) + t.Mod
	case *syntax.PathNegated:
		return "!" + TermString(t.Path)
	case *syntax.PathGroup:
		return "(" + TermString(t.Path) + ")"
	}
	return ""
}

func termStrings(terms []syntax.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = TermString(t)
	}
	return out
}

// ExprString renders an expression. Parentheses are written exactly where
// the source had them.
func ExprString(e syntax.Expr) string {
	s := exprString(e)
	if e.IsBracketed() {
		return "(" + s + ")"
	}
	return s
}

func exprString(e syntax.Expr) string {
	switch e := e.(type) {
	case *syntax.TermExpr:
		return TermString(e.Term)

	case *syntax.FunctionCall:
		distinct := ""
		if e.Distinct {
			distinct = "DISTINCT "
		}
		return e.Name.String() + "(" + distinct + joinExprs(e.Args, ", ") + ")"

	case *syntax.BuiltinCall:
		if e.Group != nil {
			return e.Name + " " + inlineGroup(e.Group)
		}
		return e.Name + "(" + joinExprs(e.Args, ", ") + ")"

	case *syntax.UnaryExpr:
		return e.Op + ExprString(e.Operand)

	case *syntax.AggregateExpr:
		var sb strings.Builder
		sb.WriteString(e.Name + "(")
		if e.Distinct {
			sb.WriteString("DISTINCT ")
		}
		if e.Star {
			sb.WriteString("*")
		} else {
			sb.WriteString(ExprString(e.Arg))
		}
		if e.Separator != nil {
			sb.WriteString("; SEPARATOR = " + e.Separator.String())
		}
		sb.WriteString(")")
		return sb.String()

	case *syntax.ArithmeticExpr:
		var sb strings.Builder
		sb.WriteString(ExprString(e.First))
		for _, op := range e.Rest {
			sb.WriteString(" " + op.Op + " " + ExprString(op.Expr))
		}
		return sb.String()

	case *syntax.RelationalExpr:
		if e.Op == "IN" || e.Op == "NOT IN" {
			return ExprString(e.Left) + " " + e.Op + " (" + joinExprs(e.List, ", ") + ")"
		}
		return ExprString(e.Left) + " " + e.Op + " " + ExprString(e.Right)

	case *syntax.LogicalExpr:
		return joinExprs(e.Operands, " "+e.Op+" ")

	case *syntax.RegexExpr:
		args := ExprString(e.Text) + ", " + ExprString(e.Pattern)
		if e.Flags != nil {
			args += ", " + ExprString(e.Flags)
		}
		return "REGEX(" + args + ")"
	}
	return ""
}

func joinExprs(exprs []syntax.Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = ExprString(e)
	}
	return strings.Join(parts, sep)
}

// inlineGroup renders a group graph pattern on a single line, as needed
// for EXISTS inside a larger expression.
func inlineGroup(g *syntax.GroupPattern) string {
	sub := newPrinter(nil, 0)
	sub.groupBody(g)
	if len(sub.lines) == 0 {
		return "{ }"
	}
	parts := make([]string, len(sub.lines))
	for i, l := range sub.lines {
		parts[i] = strings.TrimSpace(l.String())
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
