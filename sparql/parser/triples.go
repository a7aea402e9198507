package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// sink accumulates triple patterns produced while desugaring a single
// TriplesBlock (property lists, collections, blank-node property lists,
// and annotations all emit into the same sink as they unwind).
type sink struct {
	pattern sparql.GraphPattern
}

func newSink() *sink { return &sink{pattern: emptyPattern()} }

func (s *sink) add(t sparql.TriplePattern) { s.pattern = addTriple(s.pattern, t) }

func (s *sink) addPath(subj sparql.Term, path sparql.PropertyPath, obj sparql.Term) {
	s.pattern = newJoin(s.pattern, sparql.Path{Subject: subj, Path: path, Object: obj})
}

// emitPath desugars a parsed property path into ordinary triples wherever
// possible, recursing through the shapes that have an equivalent
// triple-pattern form: a bare NamedNode path is just a triple with that
// predicate, Reverse swaps subject and object and recurses on its inner
// path, and Sequence splits into two patterns joined through a fresh blank
// node. Only the remaining shapes (Alternative, the cardinality modifiers,
// and negated property sets) have no triple-pattern equivalent and emit a
// real Path node.
func (p *parserCore) emitPath(sk *sink, subj sparql.Term, path sparql.PropertyPath, obj sparql.Term) {
	switch pp := path.(type) {
	case sparql.PathNamedNode:
		sk.add(sparql.TriplePattern{Subject: subj, Predicate: pp.IRI, Object: obj})
	case sparql.PathReverse:
		p.emitPath(sk, obj, pp.Path, subj)
	case sparql.PathSequence:
		mid := sparql.Term(p.st.freshBlankNode())
		p.emitPath(sk, subj, pp.Left, mid)
		p.emitPath(sk, mid, pp.Right, obj)
	default:
		sk.addPath(subj, path, obj)
	}
}

// parseTriplesBlock parses one or more '.'-separated TriplesSameSubjectPath
// productions, as found directly inside a GroupGraphPatternSub.
func (p *parserCore) parseTriplesBlock() (sparql.GraphPattern, error) {
	sk := newSink()
	for {
		ok, err := p.parseTriplesSameSubject(sk)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if !p.s.matchLiteral(".") {
			break
		}
	}
	return sk.pattern, nil
}

// parseTriplesSameSubject parses Subject PropertyListNotEmpty, where
// Subject is a VarOrTerm, a collection, or a blank-node property list, and
// returns false if no subject was present (an empty TriplesBlock).
func (p *parserCore) parseTriplesSameSubject(sk *sink) (bool, error) {
	save := p.s.save()
	if p.s.peekLiteral("(") {
		subj, err := p.parseCollection(sk)
		if err != nil {
			return false, err
		}
		if err := p.parsePropertyListNotEmpty(sk, subj); err != nil {
			return false, err
		}
		return true, nil
	}
	if p.s.peekLiteral("[") {
		subj, err := p.parseBlankNodePropertyList(sk)
		if err != nil {
			return false, err
		}
		// A property list after the closing ']' is optional here: "[ ... ] ."
		// on its own is already a complete set of triples.
		_ = p.parsePropertyList(sk, subj)
		return true, nil
	}
	subj, ok, err := p.parseVarOrTerm()
	if err != nil {
		return false, err
	}
	if !ok {
		p.s.restore(save)
		return false, nil
	}
	if err := p.parsePropertyListNotEmpty(sk, subj); err != nil {
		return false, err
	}
	return true, nil
}

// parsePropertyList parses an optional PropertyListNotEmpty, doing nothing
// if no verb is present at all (used after a bracketed blank-node property
// list, where a further verb/object list is legal but not required).
func (p *parserCore) parsePropertyList(sk *sink, subj sparql.Term) error {
	verb, path, ok, err := p.parseVerbOrPath()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := p.parseObjectList(sk, subj, verb, path); err != nil {
		return err
	}
	for p.s.matchLiteral(";") {
		if err := p.parseVerbObjectList(sk, subj); err != nil {
			return err
		}
	}
	return nil
}

// parsePropertyListNotEmpty parses `Verb ObjectList (';' (Verb ObjectList)?)*`
// for the given subject, emitting one triple (or Path pattern) per
// subject/verb/object combination.
func (p *parserCore) parsePropertyListNotEmpty(sk *sink, subj sparql.Term) error {
	if err := p.parseVerbObjectList(sk, subj); err != nil {
		return err
	}
	for p.s.matchLiteral(";") {
		if err := p.parseVerbObjectList(sk, subj); err != nil {
			return err
		}
	}
	return nil
}

// parseVerbObjectList parses one `Verb ObjectList` pair, if a verb is
// present (a bare trailing ';' with nothing after it is legal and a no-op).
func (p *parserCore) parseVerbObjectList(sk *sink, subj sparql.Term) error {
	verb, path, ok, err := p.parseVerbOrPath()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return p.parseObjectList(sk, subj, verb, path)
}

// parseVerbOrPath recognizes either a plain verb (returned via verb, path
// nil) or a full property path expression (returned via path, verb nil).
// A bare IRI/('a') is always returned as a plain verb so that direct triple
// patterns are not needlessly rewritten as trivial Path nodes.
func (p *parserCore) parseVerbOrPath() (sparql.Term, sparql.PropertyPath, bool, error) {
	save := p.s.save()
	if v, ok := p.parseVar(); ok {
		return v, nil, true, nil
	}
	if p.s.matchKeyword("a") {
		return sparql.IRI(sparql.RDFType), nil, true, nil
	}
	if iri, ok, err := p.parseIRI(); err != nil {
		return nil, nil, true, err
	} else if ok {
		// Only continue into path syntax if a path operator actually follows;
		// otherwise this bare IRI is the whole verb. A '?' that starts a
		// variable name (the object in `ex:p ?o`) is not a path operator.
		afterIRI := p.s.save()
		zeroOrOne := false
		if p.s.matchLiteral("?") {
			_, startsVar := p.s.matchRegexp(reVarName, false)
			zeroOrOne = !startsVar
		}
		p.s.restore(afterIRI)
		if p.s.peekLiteral("|") || p.s.peekLiteral("/") || p.s.peekLiteral("^") ||
			zeroOrOne || p.s.peekLiteral("*") || p.s.peekLiteral("+") {
			p.s.restore(save)
			path, err := p.parsePath()
			if err != nil {
				return nil, nil, true, err
			}
			return nil, path, true, nil
		}
		return iri, nil, true, nil
	}
	if p.s.peekLiteral("!") || p.s.peekLiteral("(") || p.s.peekLiteral("^") {
		path, err := p.parsePath()
		if err != nil {
			return nil, nil, true, err
		}
		return nil, path, true, nil
	}
	return nil, nil, false, nil
}

// parseObjectList parses `Object (',' Object)*`, emitting one triple/Path
// pattern per object.
func (p *parserCore) parseObjectList(sk *sink, subj, verb sparql.Term, path sparql.PropertyPath) error {
	if err := p.parseObject(sk, subj, verb, path); err != nil {
		return err
	}
	for p.s.matchLiteral(",") {
		if err := p.parseObject(sk, subj, verb, path); err != nil {
			return err
		}
	}
	return nil
}

// parseObject parses a single GraphNode object and emits the resulting
// pattern, then consumes an optional RDF-star annotation block
// `{| ... |}` that attaches further properties to the just-emitted triple
// via its reified (quoted-triple) form.
func (p *parserCore) parseObject(sk *sink, subj, verb sparql.Term, path sparql.PropertyPath) error {
	obj, err := p.parseGraphNode(sk)
	if err != nil {
		return err
	}
	if path != nil {
		p.emitPath(sk, subj, path, obj)
	} else {
		sk.add(sparql.TriplePattern{Subject: subj, Predicate: verb, Object: obj})
	}
	if p.s.peekLiteral("{|") {
		if path != nil {
			return p.syntaxError("annotations are not allowed on property paths")
		}
		p.s.matchLiteral("{|")
		quoted := sparql.NestedTriplePattern{TriplePattern: sparql.TriplePattern{Subject: subj, Predicate: verb, Object: obj}}
		if err := p.parsePropertyListNotEmpty(sk, quoted); err != nil {
			return err
		}
		if !p.s.matchLiteral("|}") {
			return p.syntaxError("expected '|}' to close annotation block")
		}
	}
	return nil
}

// parseGraphNode parses VarOrTerm | TriplesNode, where a TriplesNode
// (collection or blank-node property list) contributes its desugared
// triples into sk as a side effect and returns the node it denotes.
func (p *parserCore) parseGraphNode(sk *sink) (sparql.Term, error) {
	if p.s.peekLiteral("(") {
		return p.parseCollection(sk)
	}
	if p.s.peekLiteral("[") {
		return p.parseBlankNodePropertyList(sk)
	}
	term, ok, err := p.parseVarOrTerm()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.syntaxError("expected a term")
	}
	return term, nil
}

// parseCollection desugars `( node... )` into an rdf:first/rdf:rest linked
// list, returning rdf:nil for an empty collection and the head blank node
// otherwise. Desugared triples are emitted into sk.
func (p *parserCore) parseCollection(sk *sink) (sparql.Term, error) {
	if !p.s.matchLiteral("(") {
		return nil, p.syntaxError("expected '('")
	}
	var nodes []sparql.Term
	for !p.s.peekLiteral(")") {
		node, err := p.parseGraphNode(sk)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if !p.s.matchLiteral(")") {
		return nil, p.syntaxError("expected ')' to close collection")
	}
	if len(nodes) == 0 {
		return sparql.IRI(sparql.RDFNil), nil
	}
	head := p.st.freshBlankNode()
	cur := sparql.Term(head)
	for i, node := range nodes {
		sk.add(sparql.TriplePattern{Subject: cur, Predicate: sparql.IRI(sparql.RDFFirst), Object: node})
		if i == len(nodes)-1 {
			sk.add(sparql.TriplePattern{Subject: cur, Predicate: sparql.IRI(sparql.RDFRest), Object: sparql.IRI(sparql.RDFNil)})
			break
		}
		next := sparql.Term(p.st.freshBlankNode())
		sk.add(sparql.TriplePattern{Subject: cur, Predicate: sparql.IRI(sparql.RDFRest), Object: next})
		cur = next
	}
	return head, nil
}

// parseBlankNodePropertyList desugars `[ PropertyListNotEmpty ]` into a
// fresh blank-node subject plus the triples of its property list.
func (p *parserCore) parseBlankNodePropertyList(sk *sink) (sparql.Term, error) {
	if !p.s.matchLiteral("[") {
		return nil, p.syntaxError("expected '['")
	}
	bn := p.st.freshBlankNode()
	if err := p.parsePropertyListNotEmpty(sk, bn); err != nil {
		return nil, err
	}
	if !p.s.matchLiteral("]") {
		return nil, p.syntaxError("expected ']' to close blank-node property list")
	}
	return bn, nil
}
