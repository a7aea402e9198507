package sparql

// GraphOrDefault names a single graph target for CLEAR/DROP/CREATE/ADD-like
// operations: either the default graph or a named graph.
type GraphOrDefault struct {
	Default bool
	Name    IRI // meaningful iff !Default
}

// GraphRef selects one or more graphs for CLEAR/DROP: a single graph, the
// default graph, all named graphs, or absolutely every graph.
type GraphRefKind int

const (
	RefDefault GraphRefKind = iota
	RefNamed
	RefAll
	RefGraph
)

// GraphRef is a CLEAR/DROP target.
type GraphRef struct {
	Kind GraphRefKind
	Name IRI // meaningful iff Kind == RefGraph
}

// GraphUpdate is the algebra for a single update operation. Concrete types
// below implement it; a parsed update document is a sequence of these,
// executed in order.
type GraphUpdate interface {
	isGraphUpdate()
}

// Load reads Source into Destination's default graph (or a named graph).
type Load struct {
	Source      IRI
	Destination *IRI // nil means the default graph
	Silent      bool
}

// Clear removes all triples from Target without removing the graph itself.
type Clear struct {
	Target GraphRef
	Silent bool
}

// Create creates an (initially empty) named graph.
type Create struct {
	Graph  IRI
	Silent bool
}

// Drop removes Target, including the graph itself if named.
type Drop struct {
	Target GraphRef
	Silent bool
}

// InsertData adds a fixed (variable-free) set of quads to the store.
type InsertData struct {
	Quads []GroundQuadPattern
}

// DeleteData removes a fixed (variable-free, blank-node-free) set of quads
// from the store.
type DeleteData struct {
	Quads []GroundQuadPattern
}

// UsingClause is the dataset a DeleteInsert's WHERE pattern is evaluated
// against (distinct from the store's default active dataset).
type UsingClause struct {
	Default []IRI
	Named   []IRI
}

// IsZero reports whether no USING clause was given.
func (u UsingClause) IsZero() bool { return len(u.Default) == 0 && len(u.Named) == 0 }

// DeleteInsert is the general DELETE/INSERT/WHERE update form that
// DELETE WHERE, MODIFY, and the ADD/MOVE/COPY rewrites all reduce to
// (DELETE DATA has its own DeleteData type). Delete and Insert hold quad
// *patterns* and may contain variables; the parser rejects blank nodes in
// Delete. Pattern is the WHERE graph pattern solutions are drawn from.
type DeleteInsert struct {
	Delete  []QuadPattern
	Insert  []QuadPattern
	Using   UsingClause
	Pattern GraphPattern
}

func (Load) isGraphUpdate()         {}
func (Clear) isGraphUpdate()        {}
func (Create) isGraphUpdate()       {}
func (Drop) isGraphUpdate()         {}
func (InsertData) isGraphUpdate()   {}
func (DeleteData) isGraphUpdate()   {}
func (DeleteInsert) isGraphUpdate() {}

// Update is a sequence of update operations parsed from a single document,
// along with the final base IRI observed at end-of-document.
type Update struct {
	BaseIRI    string
	Operations []GraphUpdate
}
