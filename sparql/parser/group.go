package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// parseGroupGraphPattern parses '{' ... '}', dispatching to a SubSelect if
// the body begins with SELECT and to GroupGraphPatternSub otherwise. Blank
// node labels are scoped to the braces they appear within.
func (p *parserCore) parseGroupGraphPattern() (sparql.GraphPattern, error) {
	if !p.s.matchLiteral("{") {
		return nil, p.syntaxError("expected '{'")
	}
	saved := p.st.openGroup()
	defer p.st.closeGroup(saved)

	if p.s.peekKeyword("SELECT") {
		q, err := p.parseQueryBody()
		if err != nil {
			return nil, err
		}
		if !p.s.matchLiteral("}") {
			return nil, p.syntaxError("expected '}' to close sub-select")
		}
		return q.Pattern, nil
	}
	pattern, err := p.parseGroupGraphPatternSub()
	if err != nil {
		return nil, err
	}
	if !p.s.matchLiteral("}") {
		return nil, p.syntaxError("expected '}'")
	}
	return pattern, nil
}

// notTriplesKind discriminates the shapes parseGraphPatternNotTriples can
// produce. A plain GraphPattern (group/union, GRAPH, SERVICE, VALUES) joins
// directly onto the group built so far; OPTIONAL, MINUS, and BIND need to
// see that group before they can build their own algebra node, so they are
// reported as their raw ingredients instead.
type notTriplesKind int

const (
	ntPlain notTriplesKind = iota
	ntOptional
	ntMinus
	ntBind
	ntFilter
	ntNone
)

// notTriples is the result of one GraphPatternNotTriples production.
type notTriples struct {
	kind    notTriplesKind
	plain   sparql.GraphPattern // ntPlain
	inner   sparql.GraphPattern // ntOptional, ntMinus
	expr    sparql.Expression   // ntOptional (trailing filter, may be nil), ntBind, ntFilter
	bindVar sparql.Variable     // ntBind
}

// parseGroupGraphPatternSub implements the W3C algorithm for assembling a
// brace body: TriplesBlock? (GraphPatternNotTriples '.'? TriplesBlock?)*,
// folding in FILTERs last so they see every variable bound anywhere in the
// group (18.2.2.6 of the SPARQL 1.1 spec this grammar distills).
func (p *parserCore) parseGroupGraphPatternSub() (sparql.GraphPattern, error) {
	g := emptyPattern()
	var filters []sparql.Expression

	block, err := p.parseTriplesBlock()
	if err != nil {
		return nil, err
	}
	g = newJoin(g, block)

	for {
		p.s.skipWS()
		if p.s.peekLiteral("}") {
			break
		}
		nt, err := p.parseGraphPatternNotTriples()
		if err != nil {
			return nil, err
		}
		if nt.kind == ntNone {
			break
		}
		switch nt.kind {
		case ntFilter:
			filters = append(filters, nt.expr)
		case ntOptional:
			g = sparql.LeftJoin{Left: g, Right: nt.inner, Expr: nt.expr}
		case ntMinus:
			g = sparql.Minus{Left: g, Right: nt.inner}
		case ntBind:
			g = sparql.Extend{Inner: g, Var: nt.bindVar, Expr: nt.expr}
		default:
			g = newJoin(g, nt.plain)
		}
		p.s.matchLiteral(".")
		block, err := p.parseTriplesBlock()
		if err != nil {
			return nil, err
		}
		g = newJoin(g, block)
	}

	if len(filters) == 0 {
		return g, nil
	}
	expr := filters[0]
	for _, f := range filters[1:] {
		expr = sparql.BinaryExpression{Op: sparql.BinaryAnd, Left: expr, Right: f}
	}
	return sparql.Filter{Expr: expr, Inner: g}, nil
}

// parseGraphPatternNotTriples parses one of OptionalGraphPattern,
// GroupOrUnionGraphPattern, GraphGraphPattern, ServiceGraphPattern, Bind,
// InlineData, MinusGraphPattern, or FILTER.
func (p *parserCore) parseGraphPatternNotTriples() (notTriples, error) {
	switch {
	case p.s.matchKeyword("OPTIONAL"):
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return notTriples{}, err
		}
		expr, innerPattern := extractTrailingFilter(inner)
		return notTriples{kind: ntOptional, inner: innerPattern, expr: expr}, nil

	case p.s.matchKeyword("MINUS"):
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return notTriples{}, err
		}
		return notTriples{kind: ntMinus, inner: inner}, nil

	case p.s.matchKeyword("GRAPH"):
		name, ok, err := p.parseVarOrIRI()
		if err != nil {
			return notTriples{}, err
		}
		if !ok {
			return notTriples{}, p.syntaxError("expected graph name after GRAPH")
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return notTriples{}, err
		}
		return notTriples{kind: ntPlain, plain: sparql.Graph{Name: toGraphName(name), Inner: inner}}, nil

	case p.s.matchKeyword("SERVICE"):
		silent := p.s.matchKeyword("SILENT")
		name, ok, err := p.parseVarOrIRI()
		if err != nil {
			return notTriples{}, err
		}
		if !ok {
			return notTriples{}, p.syntaxError("expected endpoint after SERVICE")
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return notTriples{}, err
		}
		_ = silent
		// The reference grammar this parser follows sets Silent unconditionally,
		// regardless of whether the SILENT keyword was written; this is
		// preserved deliberately rather than "fixed".
		return notTriples{kind: ntPlain, plain: sparql.Service{Name: toGraphName(name), Inner: inner, Silent: true}}, nil

	case p.s.matchKeyword("BIND"):
		if !p.s.matchLiteral("(") {
			return notTriples{}, p.syntaxError("expected '(' after BIND")
		}
		expr, err := p.parseExpression()
		if err != nil {
			return notTriples{}, err
		}
		if !p.s.matchKeyword("AS") {
			return notTriples{}, p.syntaxError("expected AS in BIND")
		}
		v, ok := p.parseVar()
		if !ok {
			return notTriples{}, p.syntaxError("expected variable after AS")
		}
		if !p.s.matchLiteral(")") {
			return notTriples{}, p.syntaxError("expected ')' to close BIND")
		}
		return notTriples{kind: ntBind, bindVar: v, expr: expr}, nil

	case p.s.matchKeyword("VALUES"):
		table, err := p.parseInlineData()
		if err != nil {
			return notTriples{}, err
		}
		return notTriples{kind: ntPlain, plain: table}, nil

	case p.s.matchKeyword("FILTER"):
		expr, err := p.parseConstraint()
		if err != nil {
			return notTriples{}, err
		}
		return notTriples{kind: ntFilter, expr: expr}, nil

	case p.s.peekLiteral("{"):
		pattern, err := p.parseGroupOrUnionGraphPattern()
		if err != nil {
			return notTriples{}, err
		}
		return notTriples{kind: ntPlain, plain: pattern}, nil

	default:
		return notTriples{kind: ntNone}, nil
	}
}

// parseGroupOrUnionGraphPattern parses one or more '{'...'}' groups
// separated by UNION.
func (p *parserCore) parseGroupOrUnionGraphPattern() (sparql.GraphPattern, error) {
	left, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	for p.s.matchKeyword("UNION") {
		right, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		left = sparql.Union{Left: left, Right: right}
	}
	return left, nil
}

// parseConstraint parses a FILTER's argument: BrackettedExpression |
// BuiltInCall | FunctionCall.
func (p *parserCore) parseConstraint() (sparql.Expression, error) {
	if p.s.peekLiteral("(") {
		return p.parseBracketedExpression()
	}
	return p.parsePrimaryExpression()
}

func toGraphName(t sparql.Term) sparql.GraphName {
	switch v := t.(type) {
	case sparql.IRI:
		return v
	case sparql.Variable:
		return v
	default:
		return sparql.DefaultGraph{}
	}
}

// extractTrailingFilter unwraps a single outermost Filter node so OPTIONAL
// can carry its condition as LeftJoin.Expr instead of nesting a Filter
// immediately inside a LeftJoin's right-hand side, matching the standard
// algebra form for `OPTIONAL { ... FILTER(...) }`.
func extractTrailingFilter(pattern sparql.GraphPattern) (sparql.Expression, sparql.GraphPattern) {
	if f, ok := pattern.(sparql.Filter); ok {
		return f.Expr, f.Inner
	}
	return nil, pattern
}
