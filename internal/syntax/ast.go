package syntax

import "strings"

// Node is implemented by every element of the syntax tree.
type Node interface {
	Location() Span
}

// Base carries the source span of a node.
type Base struct {
	Loc Span
}

func (b *Base) Location() Span { return b.Loc }

// Tree is the root of a parsed document.
type Tree struct {
	Base
	Prologue  []PrologueDecl
	Functions []*FunctionDef
	Body      QueryBody
	Values    *InlineData // trailing VALUES block, may be nil
	Comments  []Comment   // ordered by position
}

/***** Prologue *****/

// PrologueDecl is either a BASE or a PREFIX declaration.
type PrologueDecl interface {
	Node
	isPrologueDecl()
}

// BaseDecl is `BASE <iri>`.
type BaseDecl struct {
	Base
	IRI string
}

// PrefixDecl is `PREFIX name: <iri>`. Name is empty for the default prefix.
type PrefixDecl struct {
	Base
	Name string
	IRI  string
}

func (*BaseDecl) isPrologueDecl()   {}
func (*PrefixDecl) isPrologueDecl() {}

// FunctionDef is a user-defined template function:
//
//	ex:name(?a, ?b) { ...group graph pattern... }
type FunctionDef struct {
	Base
	Name   *IRI
	Params []*Var
	Body   *GroupPattern
	// BodySpan covers the text strictly between the body braces.
	BodySpan Span
}

/***** Query forms *****/

// QueryBody is one of the four query forms or an update request.
type QueryBody interface {
	Node
	isQueryBody()
}

// DatasetClause is `FROM <iri>`, `FROM NAMED <iri>` or, in updates, `USING [NAMED] <iri>`.
type DatasetClause struct {
	Base
	Named bool
	IRI   *IRI
}

// Projection is one item of a SELECT clause: a variable or `(expr AS ?v)`.
type Projection struct {
	Base
	Var  *Var
	Expr Expr // nil for a bare variable
}

// SelectQuery is a SELECT query or a sub-select.
type SelectQuery struct {
	Base
	Modifier   string // "", "DISTINCT" or "REDUCED"
	Star       bool
	Projection []*Projection
	Dataset    []*DatasetClause
	Where      *GroupPattern
	Modifiers  SolutionModifiers
	Values     *InlineData // only for sub-selects
}

// ConstructQuery is a CONSTRUCT query. Template is nil for `CONSTRUCT WHERE`.
type ConstructQuery struct {
	Base
	Template  *TriplesBlock
	Dataset   []*DatasetClause
	Where     *GroupPattern
	Modifiers SolutionModifiers
}

// AskQuery is an ASK query.
type AskQuery struct {
	Base
	Dataset   []*DatasetClause
	Where     *GroupPattern
	Modifiers SolutionModifiers
}

// DescribeQuery is a DESCRIBE query. Where may be nil.
type DescribeQuery struct {
	Base
	Star      bool
	Terms     []Term
	Dataset   []*DatasetClause
	Where     *GroupPattern
	Modifiers SolutionModifiers
}

// UpdateRequest is a sequence of update operations separated by ';'.
type UpdateRequest struct {
	Base
	Units []UpdateUnit
}

func (*SelectQuery) isQueryBody()    {}
func (*ConstructQuery) isQueryBody() {}
func (*AskQuery) isQueryBody()       {}
func (*DescribeQuery) isQueryBody()  {}
func (*UpdateRequest) isQueryBody()  {}

// SolutionModifiers groups the optional trailing clauses of a query.
// Absent clauses are nil.
type SolutionModifiers struct {
	GroupBy *GroupClause
	Having  *HavingClause
	OrderBy *OrderClause
	Limit   *LimitClause
	Offset  *OffsetClause
}

// GroupClause is `GROUP BY cond...`.
type GroupClause struct {
	Base
	Conditions []*GroupCondition
}

// GroupCondition is one GROUP BY key; As is set for `(expr AS ?v)`.
type GroupCondition struct {
	Base
	Expr Expr
	As   *Var
}

// HavingClause is `HAVING constraint...`.
type HavingClause struct {
	Base
	Constraints []Expr
}

// OrderClause is `ORDER BY cond...`.
type OrderClause struct {
	Base
	Conditions []*OrderCondition
}

// OrderCondition is one ORDER BY key. Direction is "", "ASC" or "DESC".
type OrderCondition struct {
	Base
	Direction string
	Expr      Expr
}

// LimitClause is `LIMIT n`.
type LimitClause struct {
	Base
	Value string
}

// OffsetClause is `OFFSET n`.
type OffsetClause struct {
	Base
	Value string
}

/***** Update operations *****/

// UpdateUnit is a single update operation.
type UpdateUnit interface {
	Node
	isUpdateUnit()
}

// DataOp distinguishes the three quad-data operations.
type DataOp int

const (
	InsertData DataOp = iota
	DeleteData
	DeleteWhere
)

func (op DataOp) String() string {
	switch op {
	case InsertData:
		return "INSERT DATA"
	case DeleteData:
		return "DELETE DATA"
	case DeleteWhere:
		return "DELETE WHERE"
	default:
		return "unknown"
	}
}

// QuadData is INSERT DATA, DELETE DATA or DELETE WHERE.
type QuadData struct {
	Base
	Op    DataOp
	Quads *Quads
}

// Modify is `[WITH g] [DELETE {..}] [INSERT {..}] USING* WHERE {..}`.
type Modify struct {
	Base
	With   *IRI
	Delete *Quads
	Insert *Quads
	Using  []*DatasetClause
	Where  *GroupPattern
}

// GraphTransfer is ADD, MOVE or COPY.
type GraphTransfer struct {
	Base
	Op     string
	Silent bool
	From   GraphRef
	To     GraphRef
}

// Load is `LOAD [SILENT] <iri> [INTO GRAPH <iri>]`.
type Load struct {
	Base
	Silent bool
	Source *IRI
	Into   *IRI
}

// GraphManagement is CLEAR, DROP or CREATE.
type GraphManagement struct {
	Base
	Op     string
	Silent bool
	Target GraphRef
}

func (*QuadData) isUpdateUnit()        {}
func (*Modify) isUpdateUnit()          {}
func (*GraphTransfer) isUpdateUnit()   {}
func (*Load) isUpdateUnit()            {}
func (*GraphManagement) isUpdateUnit() {}

// GraphRefKind tells what a GraphRef designates.
type GraphRefKind int

const (
	GraphRefIRI GraphRefKind = iota
	GraphRefDefault
	GraphRefNamed
	GraphRefAll
)

// GraphRef is a graph target of an update operation.
type GraphRef struct {
	Kind GraphRefKind
	IRI  *IRI // set when Kind is GraphRefIRI
}

// Quads is the brace-delimited body of update data and templates.
type Quads struct {
	Base
	Blocks []*QuadBlock
}

// QuadBlock is a run of triples, inside `GRAPH g { }` when Graph is set.
type QuadBlock struct {
	Base
	Graph   Term
	Triples *TriplesBlock
}

/***** Graph patterns *****/

// Pattern is an element of a group graph pattern.
type Pattern interface {
	Node
	isPattern()
}

// GroupPattern is `{ ... }`: an ordered sequence of pattern elements.
type GroupPattern struct {
	Base
	Elements []Pattern
}

// TriplesBlock is a run of triples sharing no structure but adjacency.
type TriplesBlock struct {
	Base
	Triples []*Triple
}

// Triple is a subject with its predicate-object list.
type Triple struct {
	Base
	Subject Term
	Props   []*PropertyObjects
}

// PropertyObjects is a verb with its comma separated objects.
type PropertyObjects struct {
	Base
	Verb    Term
	Objects []Term
}

// Filter is `FILTER constraint`.
type Filter struct {
	Base
	Constraint Expr
}

// Bind is `BIND(expr AS ?v)`.
type Bind struct {
	Base
	Expr Expr
	As   *Var
}

// Optional is `OPTIONAL { ... }`.
type Optional struct {
	Base
	Group *GroupPattern
}

// Minus is `MINUS { ... }`.
type Minus struct {
	Base
	Group *GroupPattern
}

// Union is `{ ... } UNION { ... } ...`.
type Union struct {
	Base
	Alternatives []*GroupPattern
}

// GraphPattern is `GRAPH g { ... }`.
type GraphPattern struct {
	Base
	Name  Term
	Group *GroupPattern
}

// Service is `SERVICE [SILENT] g { ... }`.
type Service struct {
	Base
	Silent bool
	Name   Term
	Group  *GroupPattern
}

// SubSelect is a SELECT query nested in a group.
type SubSelect struct {
	Base
	Query *SelectQuery
}

// InlineData is a VALUES block. Single is set for the `VALUES ?v { ... }` form.
// Each row has one entry per variable; UNDEF entries are *Undef.
type InlineData struct {
	Base
	Single bool
	Vars   []*Var
	Rows   [][]Term
}

// CallPattern is a user function call used as a pattern element.
type CallPattern struct {
	Base
	Call *FunctionCall
}

func (*GroupPattern) isPattern() {}
func (*TriplesBlock) isPattern() {}
func (*Filter) isPattern()       {}
func (*Bind) isPattern()         {}
func (*Optional) isPattern()     {}
func (*Minus) isPattern()        {}
func (*Union) isPattern()        {}
func (*GraphPattern) isPattern() {}
func (*Service) isPattern()      {}
func (*SubSelect) isPattern()    {}
func (*InlineData) isPattern()   {}
func (*CallPattern) isPattern()  {}

/***** Expressions *****/

// Expr is an expression node. Bracketed reports whether the source
// wrapped the expression in explicit parentheses.
type Expr interface {
	Node
	IsBracketed() bool
	bracket(Span)
}

type exprBase struct {
	Base
	Bracketed bool
}

func (e *exprBase) IsBracketed() bool { return e.Bracketed }

// bracket marks the expression as parenthesized; span covers the parentheses.
func (e *exprBase) bracket(span Span) {
	e.Bracketed = true
	e.Loc = span
}

// TermExpr is an atomic expression: variable, IRI, literal or blank node.
type TermExpr struct {
	exprBase
	Term Term
}

// FunctionCall is `iri(args...)`: an extension function or a user template function.
type FunctionCall struct {
	exprBase
	Name     *IRI
	Distinct bool
	Args     []Expr
}

// BuiltinCall is a call of a built-in function such as STR or COALESCE.
// Name is upper case. EXISTS and NOT EXISTS carry Group instead of Args.
type BuiltinCall struct {
	exprBase
	Name  string
	Args  []Expr
	Group *GroupPattern
}

// UnaryExpr is `!e`, `+e` or `-e`.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
}

// AggregateExpr is COUNT, SUM, MIN, MAX, AVG, SAMPLE or GROUP_CONCAT.
type AggregateExpr struct {
	exprBase
	Name      string
	Distinct  bool
	Star      bool // COUNT(*)
	Arg       Expr
	Separator *Literal // GROUP_CONCAT only
}

// ArithmeticKind distinguishes multiplicative from additive chains.
type ArithmeticKind int

const (
	Multiplicative ArithmeticKind = iota
	Additive
)

// Operand is one `op expr` step of an arithmetic chain.
type Operand struct {
	Op   string
	Expr Expr
}

// ArithmeticExpr is `first op e op e ...`.
type ArithmeticExpr struct {
	exprBase
	Kind  ArithmeticKind
	First Expr
	Rest  []Operand
}

// RelationalExpr is `left op right`, or `left [NOT] IN (list)` when List is used.
type RelationalExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
	List  []Expr
}

// LogicalExpr is a `&&` or `||` chain.
type LogicalExpr struct {
	exprBase
	Op       string
	Operands []Expr
}

// RegexExpr is `REGEX(text, pattern[, flags])`.
type RegexExpr struct {
	exprBase
	Text    Expr
	Pattern Expr
	Flags   Expr
}

/***** Terms *****/

// Term is a triple element: variable, IRI, literal, blank node,
// collection or property path.
type Term interface {
	Node
	isTerm()
}

// Sigil is the variable marker as written in the source.
type Sigil int

const (
	SigilQuestion Sigil = iota // ?x
	SigilDollar                // $x
	SigilMustache              // {{x}}
)

// Wrap renders name with the sigil.
func (s Sigil) Wrap(name string) string {
	switch s {
	case SigilDollar:
		return "$" + name
	case SigilMustache:
		return "{{" + name + "}}"
	default:
		return "?" + name
	}
}

// Var is a variable occurrence.
type Var struct {
	Base
	Name  string
	Sigil Sigil
}

func (v *Var) String() string { return v.Sigil.Wrap(v.Name) }

// IRIKind tells how an IRI was written.
type IRIKind int

const (
	IRIFull     IRIKind = iota // <http://...>
	IRIPrefixed                // ex:local
	IRIA                       // the keyword `a`
)

// IRI is an IRI reference. Value holds the text without angle brackets
// for full IRIs, and `prefix:local` for prefixed names.
type IRI struct {
	Base
	Kind  IRIKind
	Value string
}

// Prefix returns the prefix of a prefixed name.
func (i *IRI) Prefix() string {
	if i.Kind != IRIPrefixed {
		return ""
	}
	prefix, _, _ := strings.Cut(i.Value, ":")
	return prefix
}

// Local returns the local part of a prefixed name.
func (i *IRI) Local() string {
	if i.Kind != IRIPrefixed {
		return ""
	}
	_, local, _ := strings.Cut(i.Value, ":")
	return local
}

func (i *IRI) String() string {
	switch i.Kind {
	case IRIFull:
		return "<" + i.Value + ">"
	case IRIA:
		return "a"
	default:
		return i.Value
	}
}

// LiteralKind classifies literals.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInteger
	LiteralDecimal
	LiteralDouble
	LiteralBoolean
)

// Literal is an RDF literal. Value is the raw lexical form (escapes kept).
type Literal struct {
	Base
	Kind     LiteralKind
	Value    string
	Quote    string
	Lang     string
	Datatype *IRI
}

// IsBare reports whether the literal is written without quotes.
func (l *Literal) IsBare() bool {
	return l.Kind != LiteralString
}

func (l *Literal) String() string {
	if l.IsBare() {
		return l.Value
	}
	quote := l.Quote
	if quote == "" {
		quote = `"`
	}
	s := quote + l.Value + quote
	if l.Datatype != nil {
		return s + "^^" + l.Datatype.String()
	}
	if l.Lang != "" {
		return s + "@" + l.Lang
	}
	return s
}

// BlankNode is `_:label`, or `[]` when Label is empty.
type BlankNode struct {
	Base
	Label string
}

// BlankNodePropertyList is `[ p o ; ... ]`.
type BlankNodePropertyList struct {
	Base
	Props []*PropertyObjects
}

// Collection is `( item ... )`.
type Collection struct {
	Base
	Items []Term
}

// Undef is the UNDEF placeholder in VALUES rows.
type Undef struct {
	Base
}

// PathAlternative is `p1 | p2 | ...`.
type PathAlternative struct {
	Base
	Alternatives []Term
}

// PathSequence is `p1 / p2 / ...`.
type PathSequence struct {
	Base
	Elements []Term
}

// PathInverse is `^p`.
type PathInverse struct {
	Base
	Path Term
}

// PathMod is `p?`, `p*` or `p+`.
type PathMod struct {
	Base
	Path Term
	Mod  string
}

// PathNegated is `!p` or `!(p1 | ^p2)`.
type PathNegated struct {
	Base
	Path Term
}

// PathGroup is a parenthesized path `( p )`.
type PathGroup struct {
	Base
	Path Term
}

func (*Var) isTerm()                   {}
func (*IRI) isTerm()                   {}
func (*Literal) isTerm()               {}
func (*BlankNode) isTerm()             {}
func (*BlankNodePropertyList) isTerm() {}
func (*Collection) isTerm()            {}
func (*Undef) isTerm()                 {}
func (*PathAlternative) isTerm()       {}
func (*PathSequence) isTerm()          {}
func (*PathInverse) isTerm()           {}
func (*PathMod) isTerm()               {}
func (*PathNegated) isTerm()           {}
func (*PathGroup) isTerm()             {}
