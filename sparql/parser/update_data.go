package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// parseInsertData parses `INSERT DATA '{' QuadData '}'`.
func (p *parserCore) parseInsertData() (sparql.GraphUpdate, error) {
	quads, err := p.parseQuadData()
	if err != nil {
		return nil, err
	}
	return sparql.InsertData{Quads: quads}, nil
}

// parseDeleteData parses `DELETE DATA '{' QuadData '}'`. The data model
// forbids variables and blank nodes here; groundQuad rejects variables and
// the loop below rejects blank nodes.
func (p *parserCore) parseDeleteData() (sparql.GraphUpdate, error) {
	quads, err := p.parseQuadData()
	if err != nil {
		return nil, err
	}
	for _, q := range quads {
		if isBlankNode(q.Subject) || isBlankNode(q.Object) {
			return nil, p.semanticError("blank nodes are not allowed in DELETE DATA")
		}
	}
	return sparql.DeleteData{Quads: quads}, nil
}

// parseDeleteWhere parses `DELETE WHERE '{' QuadPattern '}'`, using the
// template itself, read back as a pattern, as the WHERE clause: every
// variable in the template must also appear bound by evaluating it as a
// pattern against the store. Blank nodes have no meaning here (there is no
// INSERT side to scope them to), so the grammar forbids them outright.
func (p *parserCore) parseDeleteWhere() (sparql.GraphUpdate, error) {
	quads, pattern, err := p.parseQuadPatternBlock()
	if err != nil {
		return nil, err
	}
	if err := requireNoBlankNodes(quads); err != nil {
		return nil, err
	}
	return sparql.DeleteInsert{Delete: quads, Pattern: pattern}, nil
}

// requireNoBlankNodes rejects a DELETE WHERE template containing any blank
// node term, in subject, predicate, or object position.
func requireNoBlankNodes(quads []sparql.QuadPattern) error {
	for _, q := range quads {
		if isBlankNode(q.Subject) || isBlankNode(q.Predicate) || isBlankNode(q.Object) {
			return errDeleteWhereBlankNode
		}
	}
	return nil
}

func isBlankNode(t sparql.Term) bool {
	_, ok := t.(sparql.BlankNode)
	return ok
}

var errDeleteWhereBlankNode = deleteWhereBlankNodeError{}

type deleteWhereBlankNodeError struct{}

func (deleteWhereBlankNodeError) Error() string {
	return "blank nodes are not allowed in DELETE WHERE"
}

// parseModify parses the general `WITH? (DeleteClause InsertClause? |
// InsertClause) UsingClause* WHERE GroupGraphPattern` form.
func (p *parserCore) parseModify() ([]sparql.GraphUpdate, error) {
	var withGraph *sparql.IRI
	if p.s.matchKeyword("WITH") {
		iri, err := p.requireIRI("after WITH")
		if err != nil {
			return nil, err
		}
		withGraph = &iri
	}

	var del, ins []sparql.QuadPattern
	sawDelete, sawInsert := false, false
	if p.s.matchKeyword("DELETE") {
		sawDelete = true
		q, err := p.parseQuadPatternBraces()
		if err != nil {
			return nil, err
		}
		del = q
		for _, qp := range del {
			if isBlankNode(qp.Subject) || isBlankNode(qp.Predicate) || isBlankNode(qp.Object) {
				return nil, p.semanticError("blank nodes are not allowed in a DELETE template")
			}
		}
		if p.s.matchKeyword("INSERT") {
			sawInsert = true
			q, err := p.parseQuadPatternBraces()
			if err != nil {
				return nil, err
			}
			ins = q
		}
	} else if p.s.matchKeyword("INSERT") {
		sawInsert = true
		q, err := p.parseQuadPatternBraces()
		if err != nil {
			return nil, err
		}
		ins = q
	}
	if !sawDelete && !sawInsert {
		return nil, p.syntaxError("expected DELETE or INSERT")
	}

	var using sparql.UsingClause
	for p.s.matchKeyword("USING") {
		if p.s.matchKeyword("NAMED") {
			iri, err := p.requireIRI("after USING NAMED")
			if err != nil {
				return nil, err
			}
			using.Named = append(using.Named, iri)
		} else {
			iri, err := p.requireIRI("after USING")
			if err != nil {
				return nil, err
			}
			using.Default = append(using.Default, iri)
		}
	}

	if !p.s.matchKeyword("WHERE") {
		return nil, p.syntaxError("expected WHERE")
	}
	pattern, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}

	if withGraph != nil {
		pattern = sparql.Graph{Name: *withGraph, Inner: pattern}
		del = applyWithGraph(del, *withGraph)
		ins = applyWithGraph(ins, *withGraph)
	}

	return []sparql.GraphUpdate{sparql.DeleteInsert{Delete: del, Insert: ins, Using: using, Pattern: pattern}}, nil
}

// applyWithGraph assigns WITH's graph to every quad pattern that did not
// itself name a graph via an explicit GRAPH block.
func applyWithGraph(quads []sparql.QuadPattern, g sparql.IRI) []sparql.QuadPattern {
	out := make([]sparql.QuadPattern, len(quads))
	for i, q := range quads {
		if _, isDefault := q.Graph.(sparql.DefaultGraph); isDefault || q.Graph == nil {
			q.Graph = g
		}
		out[i] = q
	}
	return out
}

// parseQuadData parses `'{' Quads '}'` for INSERT DATA / DELETE DATA,
// where every term must be ground (no variables).
func (p *parserCore) parseQuadData() ([]sparql.GroundQuadPattern, error) {
	if !p.s.matchLiteral("{") {
		return nil, p.syntaxError("expected '{'")
	}
	quads, err := p.parseQuadsGround()
	if err != nil {
		return nil, err
	}
	if !p.s.matchLiteral("}") {
		return nil, p.syntaxError("expected '}'")
	}
	return quads, nil
}

// parseQuadsGround parses the Quads production with ground terms only:
// a TriplesTemplate, and/or `GRAPH VarOrIRI '{' TriplesTemplate '}'`
// blocks, interleaved freely.
func (p *parserCore) parseQuadsGround() ([]sparql.GroundQuadPattern, error) {
	var quads []sparql.GroundQuadPattern
	appendGround := func(graph sparql.GraphName, triples []sparql.TriplePattern) error {
		for _, t := range triples {
			gq, err := groundQuad(t, graph)
			if err != nil {
				return err
			}
			quads = append(quads, gq)
		}
		return nil
	}

	for {
		p.s.skipWS()
		if p.s.matchKeyword("GRAPH") {
			name, ok, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, p.syntaxError("expected graph name after GRAPH")
			}
			if !p.s.matchLiteral("{") {
				return nil, p.syntaxError("expected '{' after GRAPH name")
			}
			triples, err := p.parseTriplesBlockGround()
			if err != nil {
				return nil, err
			}
			if !p.s.matchLiteral("}") {
				return nil, p.syntaxError("expected '}' to close GRAPH block")
			}
			if err := appendGround(toGraphName(name), triples); err != nil {
				return nil, err
			}
			continue
		}
		if p.s.peekLiteral("}") {
			return quads, nil
		}
		triples, err := p.parseTriplesBlockGround()
		if err != nil {
			return nil, err
		}
		if len(triples) == 0 {
			return quads, nil
		}
		if err := appendGround(sparql.DefaultGraph{}, triples); err != nil {
			return nil, err
		}
	}
}

// parseTriplesBlockGround is parseTriplesBlock restricted to ground terms;
// it reuses the general triples grammar and validates groundness afterward
// via groundQuad, since the desugaring (collections especially) is
// identical either way.
func (p *parserCore) parseTriplesBlockGround() ([]sparql.TriplePattern, error) {
	pattern, err := p.parseTriplesBlock()
	if err != nil {
		return nil, err
	}
	return flattenBgp(pattern), nil
}

func groundQuad(t sparql.TriplePattern, graph sparql.GraphName) (sparql.GroundQuadPattern, error) {
	predIRI, ok := t.Predicate.(sparql.IRI)
	if !ok {
		return sparql.GroundQuadPattern{}, errGroundVariable
	}
	if isVariable(t.Subject) || isVariable(t.Object) {
		return sparql.GroundQuadPattern{}, errGroundVariable
	}
	return sparql.GroundQuadPattern{Subject: t.Subject, Predicate: predIRI, Object: t.Object, Graph: graph}, nil
}

func isVariable(t sparql.Term) bool {
	_, ok := t.(sparql.Variable)
	return ok
}

var errGroundVariable = groundError{}

type groundError struct{}

func (groundError) Error() string {
	return "variables are not allowed in INSERT DATA / DELETE DATA"
}

// parseQuadPatternBraces parses `'{' Quads '}'` allowing variables
// (DeleteClause/InsertClause bodies inside MODIFY).
func (p *parserCore) parseQuadPatternBraces() ([]sparql.QuadPattern, error) {
	if !p.s.matchLiteral("{") {
		return nil, p.syntaxError("expected '{'")
	}
	quads, err := p.parseQuadsPattern()
	if err != nil {
		return nil, err
	}
	if !p.s.matchLiteral("}") {
		return nil, p.syntaxError("expected '}'")
	}
	return quads, nil
}

// parseQuadPatternBlock parses `'{' Quads '}'` for DELETE WHERE, returning
// both the flat quad-pattern list (the delete template) and the
// corresponding graph pattern (the implicit WHERE).
func (p *parserCore) parseQuadPatternBlock() ([]sparql.QuadPattern, sparql.GraphPattern, error) {
	if !p.s.matchLiteral("{") {
		return nil, nil, p.syntaxError("expected '{'")
	}
	quads, err := p.parseQuadsPattern()
	if err != nil {
		return nil, nil, err
	}
	if !p.s.matchLiteral("}") {
		return nil, nil, p.syntaxError("expected '}'")
	}
	var pattern sparql.GraphPattern = emptyPattern()
	byGraph := map[sparql.GraphName][]sparql.TriplePattern{}
	var order []sparql.GraphName
	for _, q := range quads {
		if _, ok := byGraph[q.Graph]; !ok {
			order = append(order, q.Graph)
		}
		byGraph[q.Graph] = append(byGraph[q.Graph], q.AsTriplePattern())
	}
	for _, g := range order {
		bgp := sparql.GraphPattern(sparql.Bgp{Triples: byGraph[g]})
		if _, isDefault := g.(sparql.DefaultGraph); !isDefault {
			bgp = sparql.Graph{Name: g, Inner: bgp}
		}
		pattern = newJoin(pattern, bgp)
	}
	return quads, pattern, nil
}

// parseQuadsPattern mirrors parseQuadsGround but keeps variables, producing
// QuadPattern values for MODIFY's DELETE/INSERT clauses.
func (p *parserCore) parseQuadsPattern() ([]sparql.QuadPattern, error) {
	var quads []sparql.QuadPattern
	for {
		p.s.skipWS()
		if p.s.matchKeyword("GRAPH") {
			name, ok, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, p.syntaxError("expected graph name after GRAPH")
			}
			if !p.s.matchLiteral("{") {
				return nil, p.syntaxError("expected '{' after GRAPH name")
			}
			triples, err := p.parseTriplesBlockGround()
			if err != nil {
				return nil, err
			}
			if !p.s.matchLiteral("}") {
				return nil, p.syntaxError("expected '}' to close GRAPH block")
			}
			graph := toGraphName(name)
			for _, t := range triples {
				quads = append(quads, sparql.QuadPattern{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Graph: graph})
			}
			continue
		}
		if p.s.peekLiteral("}") {
			return quads, nil
		}
		triples, err := p.parseTriplesBlockGround()
		if err != nil {
			return nil, err
		}
		if len(triples) == 0 {
			return quads, nil
		}
		for _, t := range triples {
			quads = append(quads, sparql.QuadPattern{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Graph: sparql.DefaultGraph{}})
		}
	}
}
