package sparql

// TriplePattern is a subject/predicate/object triple pattern within the
// default graph of a basic graph pattern. Terms may be variables.
type TriplePattern struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// QuadPattern is a TriplePattern scoped to a graph name.
type QuadPattern struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     GraphName
}

// AsTriplePattern drops the graph component.
func (q QuadPattern) AsTriplePattern() TriplePattern {
	return TriplePattern{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
}

// GroundTriple is a TriplePattern known to contain no variables; per the
// data model a literal subject is additionally forbidden.
type GroundTriple struct {
	Subject   Term // IRI, BlankNode, or nested GroundTriple
	Predicate IRI
	Object    Term // IRI, BlankNode, Literal, or nested GroundTriple
}

// GroundQuadPattern is a GroundTriple scoped to a graph name, with no
// variables anywhere (used by InsertData/DeleteData). Blank nodes are
// kept for InsertData and rejected for DeleteData.
type GroundQuadPattern struct {
	Subject   Term // IRI, BlankNode, or nested GroundTriple
	Predicate IRI
	Object    Term // IRI, BlankNode, Literal, or nested GroundTriple
	Graph     GraphName
}

// NestedTriplePattern is a triple pattern embedded as a term, used by RDF
// reification/annotation syntax (`<< s p o >>` and `{| p o |}` sugar).
// It implements Term so it can appear in subject/object position.
type NestedTriplePattern struct {
	TriplePattern
}

func (NestedTriplePattern) isTerm() {}

func (t NestedTriplePattern) String() string {
	return "<<" + termString(t.Subject) + " " + termString(t.Predicate) + " " + termString(t.Object) + ">>"
}

func termString(t Term) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
