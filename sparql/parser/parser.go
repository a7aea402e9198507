// Package parser implements a PEG-style recursive-descent recognizer for
// the SPARQL query and update grammars, lowering directly into the
// algebraic types of package sparql as it recognizes each production. There
// is no separate untyped parse tree: a production either builds its piece
// of the algebra or fails.
package parser

import (
	"strings"

	"github.com/sparqlkit/sparqlkit/internal/escape"
	"github.com/sparqlkit/sparqlkit/sparql"
)

// parserCore bundles the token cursor with the threaded mutable state every
// production needs (base IRI, namespaces, blank-node scoping, aggregates).
type parserCore struct {
	s  *scanner
	st *ParserState
}

// ParseQuery parses a complete SPARQL Query document.
func ParseQuery(input, baseIRI string) (sparql.Query, error) {
	normalized := escape.UnescapeUnicode(input)
	st, err := newParserState(baseIRI)
	if err != nil {
		return sparql.Query{}, err
	}
	p := &parserCore{s: newScanner(normalized), st: st}
	if err := p.parsePrologue(); err != nil {
		return sparql.Query{}, err
	}
	q, err := p.parseQueryBody()
	if err != nil {
		return sparql.Query{}, err
	}
	p.s.skipWS()
	if !p.s.eof() {
		return sparql.Query{}, p.syntaxError("unexpected trailing input")
	}
	q.BaseIRI = p.st.baseText
	return q, nil
}

// ParseUpdate parses a complete SPARQL Update document (one or more
// update operations separated by ';').
func ParseUpdate(input, baseIRI string) (sparql.Update, error) {
	normalized := escape.UnescapeUnicode(input)
	st, err := newParserState(baseIRI)
	if err != nil {
		return sparql.Update{}, err
	}
	p := &parserCore{s: newScanner(normalized), st: st}

	var ops []sparql.GraphUpdate
	for {
		if err := p.parsePrologue(); err != nil {
			return sparql.Update{}, err
		}
		p.s.skipWS()
		if p.s.eof() {
			break
		}
		op, err := p.parseUpdateOperation()
		if err != nil {
			return sparql.Update{}, err
		}
		ops = append(ops, op...)
		if !p.s.matchLiteral(";") {
			break
		}
	}
	p.s.skipWS()
	if !p.s.eof() {
		return sparql.Update{}, p.syntaxError("unexpected trailing input")
	}
	return sparql.Update{BaseIRI: p.st.baseText, Operations: ops}, nil
}

// parsePrologue consumes any number of BASE and PREFIX declarations.
func (p *parserCore) parsePrologue() error {
	for {
		switch {
		case p.s.matchKeyword("BASE"):
			ref, ok := p.s.parseIRIRefToken()
			if !ok {
				return p.syntaxError("expected IRIREF after BASE")
			}
			resolved, err := p.st.resolveIRI(ref)
			if err != nil {
				return &ParseError{Kind: InvalidBaseIRI, Message: err.Error()}
			}
			if err := p.st.setBase(string(resolved)); err != nil {
				return &ParseError{Kind: InvalidBaseIRI, Message: err.Error()}
			}
		case p.s.matchKeyword("PREFIX"):
			name, ok := p.s.matchRegexp(rePNameNS, true)
			if !ok {
				return p.syntaxError("expected prefix name after PREFIX")
			}
			name = strings.TrimSuffix(name, ":")
			ref, ok := p.s.parseIRIRefToken()
			if !ok {
				return p.syntaxError("expected IRIREF after PREFIX %s:", name)
			}
			resolved, err := p.st.resolveIRI(ref)
			if err != nil {
				return p.syntaxError("invalid IRI in PREFIX %s: %v", name, err)
			}
			p.st.addPrefix(name, string(resolved))
		default:
			return nil
		}
	}
}
