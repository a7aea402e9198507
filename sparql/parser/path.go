package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// parsePath parses a full property path expression, following the
// grammar's precedence: alternative (lowest) over sequence over unary
// prefix/postfix modifiers over primary.
func (p *parserCore) parsePath() (sparql.PropertyPath, error) {
	return p.parsePathAlternative()
}

func (p *parserCore) parsePathAlternative() (sparql.PropertyPath, error) {
	left, err := p.parsePathSequence()
	if err != nil {
		return nil, err
	}
	for p.s.matchLiteral("|") {
		right, err := p.parsePathSequence()
		if err != nil {
			return nil, err
		}
		left = sparql.PathAlternative{Left: left, Right: right}
	}
	return left, nil
}

func (p *parserCore) parsePathSequence() (sparql.PropertyPath, error) {
	left, err := p.parsePathEltOrInverse()
	if err != nil {
		return nil, err
	}
	for p.s.matchLiteral("/") {
		right, err := p.parsePathEltOrInverse()
		if err != nil {
			return nil, err
		}
		left = sparql.PathSequence{Left: left, Right: right}
	}
	return left, nil
}

// parsePathEltOrInverse parses an optional leading '^' (inverse) around a
// path element, then the element's own postfix repetition modifier.
func (p *parserCore) parsePathEltOrInverse() (sparql.PropertyPath, error) {
	if p.s.matchLiteral("^") {
		primary, err := p.parsePathPrimary()
		if err != nil {
			return nil, err
		}
		return p.parsePathMod(sparql.PathReverse{Path: primary}), nil
	}
	primary, err := p.parsePathPrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePathMod(primary), nil
}

// parsePathMod applies at most one trailing '?', '*', or '+' modifier. A '?'
// that starts a variable name (the object in `ex:p ?o`) is left unconsumed.
func (p *parserCore) parsePathMod(path sparql.PropertyPath) sparql.PropertyPath {
	save := p.s.save()
	switch {
	case p.s.matchLiteral("?"):
		if _, startsVar := p.s.matchRegexp(reVarName, false); startsVar {
			p.s.restore(save)
			return path
		}
		return sparql.PathZeroOrOne{Path: path}
	case p.s.matchLiteral("*"):
		return sparql.PathZeroOrMore{Path: path}
	case p.s.matchLiteral("+"):
		return sparql.PathOneOrMore{Path: path}
	default:
		return path
	}
}

func (p *parserCore) parsePathPrimary() (sparql.PropertyPath, error) {
	p.s.skipWS()
	if p.s.matchLiteral("(") {
		inner, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if !p.s.matchLiteral(")") {
			return nil, p.syntaxError("expected ')' to close path group")
		}
		return inner, nil
	}
	if p.s.matchKeyword("a") {
		return sparql.PathNamedNode{IRI: sparql.RDFType}, nil
	}
	if p.s.matchLiteral("!") {
		return p.parsePathNegatedPropertySet()
	}
	iri, ok, err := p.parseIRI()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.syntaxError("expected property path primary")
	}
	return sparql.PathNamedNode{IRI: iri}, nil
}

// parsePathNegatedPropertySet parses the `!` operand: either a single
// (possibly inverse) IRI or a parenthesized '|'-separated list of them.
func (p *parserCore) parsePathNegatedPropertySet() (sparql.PropertyPath, error) {
	var iris, reverseIris []sparql.IRI
	parseOne := func() error {
		reverse := p.s.matchLiteral("^")
		iri, err := p.requireIRI("in negated property set")
		if err != nil {
			return err
		}
		if reverse {
			reverseIris = append(reverseIris, iri)
		} else {
			iris = append(iris, iri)
		}
		return nil
	}
	if p.s.matchLiteral("(") {
		if !p.s.peekLiteral(")") {
			if err := parseOne(); err != nil {
				return nil, err
			}
			for p.s.matchLiteral("|") {
				if err := parseOne(); err != nil {
					return nil, err
				}
			}
		}
		if !p.s.matchLiteral(")") {
			return nil, p.syntaxError("expected ')' to close negated property set")
		}
	} else {
		if err := parseOne(); err != nil {
			return nil, err
		}
	}
	return sparql.PathNegatedPropertySet{Iris: iris, ReverseIris: reverseIris}, nil
}
