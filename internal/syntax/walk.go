package syntax

// Inspect traverses the tree rooted at node in depth-first source order.
// It calls f(node) for each node; if f returns false, the children of
// that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Tree:
		for _, decl := range n.Prologue {
			Inspect(decl, f)
		}
		for _, def := range n.Functions {
			Inspect(def, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
		if n.Values != nil {
			Inspect(n.Values, f)
		}

	case *FunctionDef:
		Inspect(n.Name, f)
		for _, param := range n.Params {
			Inspect(param, f)
		}
		Inspect(n.Body, f)

	case *SelectQuery:
		for _, proj := range n.Projection {
			Inspect(proj, f)
		}
		inspectDataset(n.Dataset, f)
		Inspect(n.Where, f)
		inspectModifiers(n.Modifiers, f)
		if n.Values != nil {
			Inspect(n.Values, f)
		}

	case *Projection:
		if n.Expr != nil {
			Inspect(n.Expr, f)
		}
		Inspect(n.Var, f)

	case *ConstructQuery:
		if n.Template != nil {
			Inspect(n.Template, f)
		}
		inspectDataset(n.Dataset, f)
		Inspect(n.Where, f)
		inspectModifiers(n.Modifiers, f)

	case *AskQuery:
		inspectDataset(n.Dataset, f)
		Inspect(n.Where, f)
		inspectModifiers(n.Modifiers, f)

	case *DescribeQuery:
		for _, term := range n.Terms {
			Inspect(term, f)
		}
		inspectDataset(n.Dataset, f)
		if n.Where != nil {
			Inspect(n.Where, f)
		}
		inspectModifiers(n.Modifiers, f)

	case *DatasetClause:
		Inspect(n.IRI, f)

	case *GroupClause:
		for _, cond := range n.Conditions {
			Inspect(cond, f)
		}
	case *GroupCondition:
		Inspect(n.Expr, f)
		if n.As != nil {
			Inspect(n.As, f)
		}
	case *HavingClause:
		for _, c := range n.Constraints {
			Inspect(c, f)
		}
	case *OrderClause:
		for _, cond := range n.Conditions {
			Inspect(cond, f)
		}
	case *OrderCondition:
		Inspect(n.Expr, f)

	case *UpdateRequest:
		for _, unit := range n.Units {
			Inspect(unit, f)
		}
	case *QuadData:
		Inspect(n.Quads, f)
	case *Modify:
		if n.With != nil {
			Inspect(n.With, f)
		}
		if n.Delete != nil {
			Inspect(n.Delete, f)
		}
		if n.Insert != nil {
			Inspect(n.Insert, f)
		}
		inspectDataset(n.Using, f)
		Inspect(n.Where, f)
	case *GraphTransfer:
		inspectGraphRef(n.From, f)
		inspectGraphRef(n.To, f)
	case *Load:
		Inspect(n.Source, f)
		if n.Into != nil {
			Inspect(n.Into, f)
		}
	case *GraphManagement:
		inspectGraphRef(n.Target, f)
	case *Quads:
		for _, block := range n.Blocks {
			Inspect(block, f)
		}
	case *QuadBlock:
		if n.Graph != nil {
			Inspect(n.Graph, f)
		}
		Inspect(n.Triples, f)

	case *GroupPattern:
		for _, elem := range n.Elements {
			Inspect(elem, f)
		}
	case *TriplesBlock:
		for _, t := range n.Triples {
			Inspect(t, f)
		}
	case *Triple:
		Inspect(n.Subject, f)
		for _, po := range n.Props {
			Inspect(po, f)
		}
	case *PropertyObjects:
		Inspect(n.Verb, f)
		for _, o := range n.Objects {
			Inspect(o, f)
		}
	case *Filter:
		Inspect(n.Constraint, f)
	case *Bind:
		Inspect(n.Expr, f)
		Inspect(n.As, f)
	case *Optional:
		Inspect(n.Group, f)
	case *Minus:
		Inspect(n.Group, f)
	case *Union:
		for _, alt := range n.Alternatives {
			Inspect(alt, f)
		}
	case *GraphPattern:
		Inspect(n.Name, f)
		Inspect(n.Group, f)
	case *Service:
		Inspect(n.Name, f)
		Inspect(n.Group, f)
	case *SubSelect:
		Inspect(n.Query, f)
	case *InlineData:
		for _, v := range n.Vars {
			Inspect(v, f)
		}
		for _, row := range n.Rows {
			for _, value := range row {
				Inspect(value, f)
			}
		}
	case *CallPattern:
		Inspect(n.Call, f)

	case *TermExpr:
		Inspect(n.Term, f)
	case *FunctionCall:
		Inspect(n.Name, f)
		for _, arg := range n.Args {
			Inspect(arg, f)
		}
	case *BuiltinCall:
		for _, arg := range n.Args {
			Inspect(arg, f)
		}
		if n.Group != nil {
			Inspect(n.Group, f)
		}
	case *UnaryExpr:
		Inspect(n.Operand, f)
	case *AggregateExpr:
		if n.Arg != nil {
			Inspect(n.Arg, f)
		}
		if n.Separator != nil {
			Inspect(n.Separator, f)
		}
	case *ArithmeticExpr:
		Inspect(n.First, f)
		for _, op := range n.Rest {
			Inspect(op.Expr, f)
		}
	case *RelationalExpr:
		Inspect(n.Left, f)
		if n.Right != nil {
			Inspect(n.Right, f)
		}
		for _, e := range n.List {
			Inspect(e, f)
		}
	case *LogicalExpr:
		for _, e := range n.Operands {
			Inspect(e, f)
		}
	case *RegexExpr:
		Inspect(n.Text, f)
		Inspect(n.Pattern, f)
		if n.Flags != nil {
			Inspect(n.Flags, f)
		}

	case *Literal:
		if n.Datatype != nil {
			Inspect(n.Datatype, f)
		}
	case *BlankNodePropertyList:
		for _, po := range n.Props {
			Inspect(po, f)
		}
	case *Collection:
		for _, item := range n.Items {
			Inspect(item, f)
		}
	case *PathAlternative:
		for _, alt := range n.Alternatives {
			Inspect(alt, f)
		}
	case *PathSequence:
		for _, elem := range n.Elements {
			Inspect(elem, f)
		}
	case *PathInverse:
		Inspect(n.Path, f)
	case *PathMod:
		Inspect(n.Path, f)
	case *PathNegated:
		Inspect(n.Path, f)
	case *PathGroup:
		Inspect(n.Path, f)

	case *BaseDecl, *PrefixDecl, *Var, *IRI, *BlankNode, *Undef, *LimitClause, *OffsetClause:
		// leaves
	}
}

func inspectDataset(clauses []*DatasetClause, f func(Node) bool) {
	for _, c := range clauses {
		Inspect(c, f)
	}
}

func inspectModifiers(m SolutionModifiers, f func(Node) bool) {
	if m.GroupBy != nil {
		Inspect(m.GroupBy, f)
	}
	if m.Having != nil {
		Inspect(m.Having, f)
	}
	if m.OrderBy != nil {
		Inspect(m.OrderBy, f)
	}
	if m.Limit != nil {
		Inspect(m.Limit, f)
	}
	if m.Offset != nil {
		Inspect(m.Offset, f)
	}
}

func inspectGraphRef(ref GraphRef, f func(Node) bool) {
	if ref.IRI != nil {
		Inspect(ref.IRI, f)
	}
}

// Vars returns every variable occurrence under node in source order.
func Vars(node Node) []*Var {
	var vars []*Var
	Inspect(node, func(n Node) bool {
		if v, ok := n.(*Var); ok {
			vars = append(vars, v)
		}
		return true
	})
	return vars
}
