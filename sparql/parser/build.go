package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// newJoin combines left and right conjunctively, merging adjacent Bgps
// instead of nesting a Join around two Bgps: this keeps a run of plain
// triple patterns as one flat Bgp (so later stages can reorder/optimize it
// as a unit) while still producing a Join wherever either side is not
// itself a Bgp. An empty Bgp is the identity element on either side.
func newJoin(left, right sparql.GraphPattern) sparql.GraphPattern {
	lb, lok := left.(sparql.Bgp)
	rb, rok := right.(sparql.Bgp)
	lg, lgok := left.(sparql.Graph)
	rg, rgok := right.(sparql.Graph)
	switch {
	case lok && lb.IsEmpty():
		return right
	case rok && rb.IsEmpty():
		return left
	case lok && rok:
		return sparql.Bgp{Triples: append(append([]sparql.TriplePattern{}, lb.Triples...), rb.Triples...)}
	case lgok && rgok && lg.Name == rg.Name:
		return sparql.Graph{Name: lg.Name, Inner: newJoin(lg.Inner, rg.Inner)}
	default:
		return sparql.Join{Left: left, Right: right}
	}
}

// addTriple appends t to pattern if it is a Bgp, or joins a singleton Bgp
// onto it otherwise.
func addTriple(pattern sparql.GraphPattern, t sparql.TriplePattern) sparql.GraphPattern {
	return newJoin(pattern, sparql.Bgp{Triples: []sparql.TriplePattern{t}})
}

// emptyPattern is the new_join/Bgp identity, returned by productions that
// may legally contribute nothing (an empty GroupGraphPatternSub, a property
// list with no verb/object pairs, and so on).
func emptyPattern() sparql.GraphPattern { return sparql.Bgp{} }
