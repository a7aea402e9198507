package sparql

// GraphPattern is the graph-pattern algebra sum type that a WHERE clause (or
// CONSTRUCT template pattern) lowers into. Every concrete type below
// implements it; the tree is built bottom-up and never mutated after a
// production completes.
type GraphPattern interface {
	isGraphPattern()
}

// Bgp is a Basic Graph Pattern: a conjunctively-joined set of triple
// patterns in the (possibly named, via an enclosing Graph) current graph.
// A Bgp with no triples is the algebra's identity element for Join/new_join.
type Bgp struct {
	Triples []TriplePattern
}

// IsEmpty reports whether this Bgp has no triples (the new_join identity).
func (b Bgp) IsEmpty() bool { return len(b.Triples) == 0 }

// Path is a single subject/property-path/object pattern. It is always a
// sibling of other patterns under Join, never a member of a Bgp.
type Path struct {
	Subject Term
	Path    PropertyPath
	Object  Term
}

// Join is the conjunction of two patterns evaluated independently and then
// joined on shared variables.
type Join struct{ Left, Right GraphPattern }

// LeftJoin is `OPTIONAL`: every solution of Left is extended with matches
// from Right (filtered by Expr, if present), or passed through unmodified
// if Right has no match.
type LeftJoin struct {
	Left, Right GraphPattern
	Expr        Expression // nil if OPTIONAL carried no trailing FILTER
}

// Filter restricts Inner's solutions to those for which Expr is effective-true.
type Filter struct {
	Expr  Expression
	Inner GraphPattern
}

// Union is the disjunction of two patterns.
type Union struct{ Left, Right GraphPattern }

// Graph evaluates Inner against the named graph Name instead of the default
// graph (Name may be a variable, in which case it also binds the matched
// graph name).
type Graph struct {
	Name  GraphName
	Inner GraphPattern
}

// Extend binds the value of Expr to Var in every solution of Inner
// (`BIND ... AS` or a computed SELECT projection).
type Extend struct {
	Inner GraphPattern
	Var   Variable
	Expr  Expression
}

// Minus removes from Left every solution that is compatible with some
// solution of Right.
type Minus struct{ Left, Right GraphPattern }

// Service delegates evaluation of Inner to a remote endpoint named by Name.
// Silent suppresses failure of the remote call (propagating an empty result
// instead of an error).
type Service struct {
	Name    GraphName
	Inner   GraphPattern
	Silent  bool
}

// GroupKey is one GROUP BY key: either a bare variable or a computed
// expression that was hoisted into a fresh variable during SELECT assembly.
type GroupKey struct {
	Var  Variable
	Expr Expression // nil if this key was already a bare variable
}

// GroupAggregate binds the result of evaluating Agg, grouped by the
// enclosing Group.By keys, to Var.
type GroupAggregate struct {
	Var Variable
	Agg AggregateExpression
}

// Group partitions Inner's solutions by By and computes Aggregates per
// partition. Each Aggregates entry must be referenced exactly once by
// variable name in the containing Project or Extend.
type Group struct {
	Inner      GraphPattern
	By         []GroupKey
	Aggregates []GroupAggregate
}

// SortDirection is the direction of one OrderBy condition.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// OrderCondition is one ORDER BY key.
type OrderCondition struct {
	Expr      Expression
	Direction SortDirection
}

// OrderBy sorts Inner's solutions by Conditions, in order.
type OrderBy struct {
	Inner      GraphPattern
	Conditions []OrderCondition
}

// Project restricts each solution of Inner to Vars, in order.
type Project struct {
	Inner GraphPattern
	Vars  []Variable
}

// Distinct removes duplicate solutions from Inner.
type Distinct struct{ Inner GraphPattern }

// Reduced permits (but does not require) duplicate removal from Inner.
type Reduced struct{ Inner GraphPattern }

// Slice returns at most Length solutions of Inner starting at Start.
// Length is nil for "no LIMIT".
type Slice struct {
	Inner  GraphPattern
	Start  uint64
	Length *uint64
}

// Table is an inline VALUES data block: a fixed list of variables and, for
// each row, an optional term bound to each variable (nil means unbound).
type Table struct {
	Vars []Variable
	Rows [][]Term
}

func (Bgp) isGraphPattern()      {}
func (Path) isGraphPattern()     {}
func (Join) isGraphPattern()     {}
func (LeftJoin) isGraphPattern() {}
func (Filter) isGraphPattern()   {}
func (Union) isGraphPattern()    {}
func (Graph) isGraphPattern()    {}
func (Extend) isGraphPattern()   {}
func (Minus) isGraphPattern()    {}
func (Service) isGraphPattern()  {}
func (Group) isGraphPattern()    {}
func (OrderBy) isGraphPattern()  {}
func (Project) isGraphPattern()  {}
func (Distinct) isGraphPattern() {}
func (Reduced) isGraphPattern()  {}
func (Slice) isGraphPattern()    {}
func (Table) isGraphPattern()    {}
