package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// parseUpdateOperation parses one Update1 production. ADD/MOVE/COPY are
// rewritten here into the equivalent sequence of Drop/DeleteInsert
// primitives the store actually executes (18.2.3 of the reference grammar),
// so callers always see a flat []sparql.GraphUpdate.
func (p *parserCore) parseUpdateOperation() ([]sparql.GraphUpdate, error) {
	switch {
	case p.s.matchKeyword("LOAD"):
		return p.parseLoad()
	case p.s.matchKeyword("CLEAR"):
		op, err := p.parseClearOrDrop(false)
		return []sparql.GraphUpdate{op}, err
	case p.s.matchKeyword("DROP"):
		op, err := p.parseClearOrDrop(true)
		return []sparql.GraphUpdate{op}, err
	case p.s.matchKeyword("CREATE"):
		op, err := p.parseCreate()
		return []sparql.GraphUpdate{op}, err
	case p.s.matchKeyword("ADD"):
		return p.parseAddMoveCopy(addOp)
	case p.s.matchKeyword("MOVE"):
		return p.parseAddMoveCopy(moveOp)
	case p.s.matchKeyword("COPY"):
		return p.parseAddMoveCopy(copyOp)
	case p.s.matchKeyword("INSERT"):
		if p.s.matchKeyword("DATA") {
			op, err := p.parseInsertData()
			return []sparql.GraphUpdate{op}, err
		}
		return p.parseInsertWhere()
	case p.s.matchKeyword("DELETE"):
		if p.s.matchKeyword("DATA") {
			op, err := p.parseDeleteData()
			return []sparql.GraphUpdate{op}, err
		}
		if p.s.matchKeyword("WHERE") {
			op, err := p.parseDeleteWhere()
			return []sparql.GraphUpdate{op}, err
		}
		return p.parseModify()
	case p.s.peekKeyword("WITH"):
		return p.parseModify()
	default:
		return nil, p.syntaxError("expected an update operation")
	}
}

func (p *parserCore) parseLoad() ([]sparql.GraphUpdate, error) {
	silent := p.s.matchKeyword("SILENT")
	source, err := p.requireIRI("as LOAD source")
	if err != nil {
		return nil, err
	}
	var dest *sparql.IRI
	if p.s.matchKeyword("INTO") {
		if !p.s.matchKeyword("GRAPH") {
			return nil, p.syntaxError("expected GRAPH after INTO")
		}
		d, err := p.requireIRI("as LOAD destination")
		if err != nil {
			return nil, err
		}
		dest = &d
	}
	return []sparql.GraphUpdate{sparql.Load{Source: source, Destination: dest, Silent: silent}}, nil
}

func (p *parserCore) parseGraphRefAll() (sparql.GraphRef, error) {
	switch {
	case p.s.matchKeyword("DEFAULT"):
		return sparql.GraphRef{Kind: sparql.RefDefault}, nil
	case p.s.matchKeyword("NAMED"):
		return sparql.GraphRef{Kind: sparql.RefNamed}, nil
	case p.s.matchKeyword("ALL"):
		return sparql.GraphRef{Kind: sparql.RefAll}, nil
	default:
		p.s.matchKeyword("GRAPH")
		iri, err := p.requireIRI("as graph reference")
		if err != nil {
			return sparql.GraphRef{}, err
		}
		return sparql.GraphRef{Kind: sparql.RefGraph, Name: iri}, nil
	}
}

func (p *parserCore) parseClearOrDrop(isDrop bool) (sparql.GraphUpdate, error) {
	silent := p.s.matchKeyword("SILENT")
	target, err := p.parseGraphRefAll()
	if err != nil {
		return nil, err
	}
	if isDrop {
		return sparql.Drop{Target: target, Silent: silent}, nil
	}
	return sparql.Clear{Target: target, Silent: silent}, nil
}

func (p *parserCore) parseCreate() (sparql.GraphUpdate, error) {
	silent := p.s.matchKeyword("SILENT")
	if !p.s.matchKeyword("GRAPH") {
		return nil, p.syntaxError("expected GRAPH after CREATE")
	}
	iri, err := p.requireIRI("after CREATE GRAPH")
	if err != nil {
		return nil, err
	}
	return sparql.Create{Graph: iri, Silent: silent}, nil
}

type amcOp int

const (
	addOp amcOp = iota
	moveOp
	copyOp
)

// parseAddMoveCopy parses ADD/MOVE/COPY's shared
// `SILENT? GraphOrDefault TO GraphOrDefault` shape and rewrites it into the
// sequence of primitive operations the reference grammar defines for each:
// a single copy_graph (an in-store DeleteInsert moving every `?s ?p ?o` from
// `from` into `to`), with MOVE and COPY additionally prepending an
// unconditionally-silent DROP of the destination and MOVE appending a DROP
// of the source that carries the user's own SILENT flag. ADD has no
// drop/clear step at all, and the user's SILENT keyword is parsed for ADD
// and COPY but never actually applies to anything they emit — this mirrors
// the reference grammar exactly, which reads the keyword but only threads
// it into MOVE's trailing DROP.
func (p *parserCore) parseAddMoveCopy(op amcOp) ([]sparql.GraphUpdate, error) {
	silent := p.s.matchKeyword("SILENT")
	from, err := p.parseGraphOrDefault()
	if err != nil {
		return nil, err
	}
	if !p.s.matchKeyword("TO") {
		return nil, p.syntaxError("expected TO")
	}
	to, err := p.parseGraphOrDefault()
	if err != nil {
		return nil, err
	}

	if from.Default == to.Default && from.Name == to.Name {
		// A no-op when source and destination name the same graph.
		return nil, nil
	}

	rewrite := copyGraph(from, to)
	switch op {
	case addOp:
		return []sparql.GraphUpdate{rewrite}, nil
	case copyOp:
		return []sparql.GraphUpdate{
			sparql.Drop{Target: graphOrDefaultRef(to), Silent: true},
			rewrite,
		}, nil
	default: // moveOp
		return []sparql.GraphUpdate{
			sparql.Drop{Target: graphOrDefaultRef(to), Silent: true},
			rewrite,
			sparql.Drop{Target: graphOrDefaultRef(from), Silent: silent},
		}, nil
	}
}

// copyGraph builds the DeleteInsert that moves every triple of from's graph
// into to's graph: `INSERT { GRAPH to { ?s ?p ?o } } WHERE { GRAPH from {
// ?s ?p ?o } }`, with the GRAPH wrapper on either side omitted for the
// default graph.
func copyGraph(from, to sparql.GraphOrDefault) sparql.DeleteInsert {
	bgp := sparql.Bgp{Triples: []sparql.TriplePattern{{
		Subject:   sparql.Variable("s"),
		Predicate: sparql.Variable("p"),
		Object:    sparql.Variable("o"),
	}}}
	var pattern sparql.GraphPattern = bgp
	if !from.Default {
		pattern = sparql.Graph{Name: from.Name, Inner: bgp}
	}
	return sparql.DeleteInsert{
		Insert: []sparql.QuadPattern{{
			Subject:   sparql.Variable("s"),
			Predicate: sparql.Variable("p"),
			Object:    sparql.Variable("o"),
			Graph:     graphOrDefaultGraphName(to),
		}},
		Pattern: pattern,
	}
}

func graphOrDefaultGraphName(g sparql.GraphOrDefault) sparql.GraphName {
	if g.Default {
		return sparql.DefaultGraph{}
	}
	return g.Name
}

func (p *parserCore) parseGraphOrDefault() (sparql.GraphOrDefault, error) {
	if p.s.matchKeyword("DEFAULT") {
		return sparql.GraphOrDefault{Default: true}, nil
	}
	p.s.matchKeyword("GRAPH")
	iri, err := p.requireIRI("as graph name")
	if err != nil {
		return sparql.GraphOrDefault{}, err
	}
	return sparql.GraphOrDefault{Name: iri}, nil
}

func graphOrDefaultRef(g sparql.GraphOrDefault) sparql.GraphRef {
	if g.Default {
		return sparql.GraphRef{Kind: sparql.RefDefault}
	}
	return sparql.GraphRef{Kind: sparql.RefGraph, Name: g.Name}
}

