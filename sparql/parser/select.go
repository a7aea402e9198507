package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// selectItem is one entry of a SELECT projection list: a bare variable
// (Expr nil) or a computed `(Expression AS Variable)` column.
type selectItem struct {
	v    sparql.Variable
	expr sparql.Expression
}

// parseQueryBody parses SelectQuery | ConstructQuery | DescribeQuery |
// AskQuery, assuming the prologue has already been consumed.
func (p *parserCore) parseQueryBody() (sparql.Query, error) {
	switch {
	case p.s.matchKeyword("SELECT"):
		return p.parseSelectQuery()
	case p.s.matchKeyword("CONSTRUCT"):
		return p.parseConstructQuery()
	case p.s.matchKeyword("DESCRIBE"):
		return p.parseDescribeQuery()
	case p.s.matchKeyword("ASK"):
		return p.parseAskQuery()
	default:
		return sparql.Query{}, p.syntaxError("expected SELECT, CONSTRUCT, DESCRIBE, or ASK")
	}
}

func (p *parserCore) parseSelectQuery() (sparql.Query, error) {
	p.st.pushAggregates()

	distinct := p.s.matchKeyword("DISTINCT")
	reduced := false
	if !distinct {
		reduced = p.s.matchKeyword("REDUCED")
	}

	star := false
	var items []selectItem
	if p.s.matchLiteral("*") {
		star = true
	} else {
		for {
			item, ok, err := p.parseSelectItem()
			if err != nil {
				return sparql.Query{}, err
			}
			if !ok {
				break
			}
			items = append(items, item)
			p.s.skipWS()
		}
		if len(items) == 0 {
			return sparql.Query{}, p.syntaxError("expected '*' or a projection list after SELECT")
		}
	}

	dataset, err := p.parseDatasetClauses()
	if err != nil {
		return sparql.Query{}, err
	}

	if !p.s.matchKeyword("WHERE") && !p.s.peekLiteral("{") {
		return sparql.Query{}, p.syntaxError("expected WHERE")
	}
	pattern, err := p.parseGroupGraphPattern()
	if err != nil {
		return sparql.Query{}, err
	}

	groupBy, err := p.parseGroupClause()
	if err != nil {
		return sparql.Query{}, err
	}
	having, err := p.parseHavingClause()
	if err != nil {
		return sparql.Query{}, err
	}
	order, err := p.parseOrderClause()
	if err != nil {
		return sparql.Query{}, err
	}
	offset, limit, err := p.parseLimitOffsetClauses()
	if err != nil {
		return sparql.Query{}, err
	}

	aggregates := p.st.popAggregates()
	if len(groupBy) == 0 && len(aggregates) > 0 {
		// No explicit GROUP BY but the query uses an aggregate: the whole
		// solution set is a single implicit group, represented as one
		// synthesized group key bound to the constant 1.
		key := p.st.freshVariable()
		pattern = sparql.Extend{Inner: pattern, Var: key, Expr: sparql.TermExpression{Term: sparql.NewIntegerLiteral("1")}}
		groupBy = []sparql.GroupKey{{Var: key}}
	}
	if len(groupBy) > 0 || len(aggregates) > 0 {
		pattern = sparql.Group{Inner: pattern, By: groupBy, Aggregates: aggregates}
	}
	if having != nil {
		pattern = sparql.Filter{Expr: having, Inner: pattern}
	}

	var vars []sparql.Variable
	if !star {
		for _, it := range items {
			if it.expr != nil {
				pattern = sparql.Extend{Inner: pattern, Var: it.v, Expr: it.expr}
			}
			vars = append(vars, it.v)
		}
	}

	if len(order) > 0 {
		pattern = sparql.OrderBy{Inner: pattern, Conditions: order}
	}
	if !star {
		pattern = sparql.Project{Inner: pattern, Vars: vars}
	}
	if distinct {
		pattern = sparql.Distinct{Inner: pattern}
	} else if reduced {
		pattern = sparql.Reduced{Inner: pattern}
	}
	if offset > 0 || limit != nil {
		pattern = sparql.Slice{Inner: pattern, Start: offset, Length: limit}
	}

	return sparql.Query{
		Form:     sparql.FormSelect,
		Dataset:  dataset,
		Pattern:  pattern,
		Distinct: distinct,
		Reduced:  reduced,
		Vars:     vars,
	}, nil
}

// parseSelectItem parses one `Var | '(' Expression AS Var ')'` projection
// column, returning ok=false once neither alternative matches (end of the
// projection list).
func (p *parserCore) parseSelectItem() (selectItem, bool, error) {
	if v, ok := p.parseVar(); ok {
		return selectItem{v: v}, true, nil
	}
	save := p.s.save()
	if !p.s.matchLiteral("(") {
		return selectItem{}, false, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		p.s.restore(save)
		return selectItem{}, false, nil
	}
	if !p.s.matchKeyword("AS") {
		return selectItem{}, true, p.syntaxError("expected AS in computed SELECT column")
	}
	v, ok := p.parseVar()
	if !ok {
		return selectItem{}, true, p.syntaxError("expected variable after AS")
	}
	if !p.s.matchLiteral(")") {
		return selectItem{}, true, p.syntaxError("expected ')' to close computed SELECT column")
	}
	return selectItem{v: v, expr: expr}, true, nil
}

// parseDatasetClauses parses zero or more FROM / FROM NAMED clauses.
func (p *parserCore) parseDatasetClauses() (sparql.Dataset, error) {
	var ds sparql.Dataset
	for p.s.matchKeyword("FROM") {
		if p.s.matchKeyword("NAMED") {
			iri, err := p.requireIRI("in FROM NAMED")
			if err != nil {
				return sparql.Dataset{}, err
			}
			ds.Named = append(ds.Named, iri)
		} else {
			iri, err := p.requireIRI("in FROM")
			if err != nil {
				return sparql.Dataset{}, err
			}
			ds.Default = append(ds.Default, iri)
		}
	}
	return ds, nil
}

// parseGroupClause parses an optional `GROUP BY` clause.
func (p *parserCore) parseGroupClause() ([]sparql.GroupKey, error) {
	if !p.s.matchKeyword("GROUP") {
		return nil, nil
	}
	if !p.s.matchKeyword("BY") {
		return nil, p.syntaxError("expected BY after GROUP")
	}
	var keys []sparql.GroupKey
	for {
		key, err := p.parseGroupCondition()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		if !p.peekAnotherGroupCondition() {
			break
		}
	}
	return keys, nil
}

// peekAnotherGroupCondition reports whether another GroupCondition follows:
// the grammar has no separator, so this just checks we are not at a clause
// boundary keyword, '}', or the end of the input.
func (p *parserCore) peekAnotherGroupCondition() bool {
	p.s.skipWS()
	if p.s.eof() {
		return false
	}
	for _, kw := range []string{"HAVING", "ORDER", "LIMIT", "OFFSET", "VALUES"} {
		if p.s.peekKeyword(kw) {
			return false
		}
	}
	return !p.s.peekLiteral("}")
}

func (p *parserCore) parseGroupCondition() (sparql.GroupKey, error) {
	if v, ok := p.parseVar(); ok {
		return sparql.GroupKey{Var: v}, nil
	}
	if p.s.peekLiteral("(") {
		expr, named, hasName, err := p.parseBracketedExpressionWithOptionalAs()
		if err != nil {
			return sparql.GroupKey{}, err
		}
		if hasName {
			return sparql.GroupKey{Var: named, Expr: expr}, nil
		}
		return sparql.GroupKey{Var: p.st.freshVariable(), Expr: expr}, nil
	}
	expr, err := p.parsePrimaryExpression()
	if err != nil {
		return sparql.GroupKey{}, err
	}
	return sparql.GroupKey{Var: p.st.freshVariable(), Expr: expr}, nil
}

// parseBracketedExpressionWithOptionalAs parses `'(' Expression (AS Var)? ')'`.
func (p *parserCore) parseBracketedExpressionWithOptionalAs() (sparql.Expression, sparql.Variable, bool, error) {
	if !p.s.matchLiteral("(") {
		return nil, "", false, p.syntaxError("expected '('")
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, "", false, err
	}
	if p.s.matchKeyword("AS") {
		v, ok := p.parseVar()
		if !ok {
			return nil, "", false, p.syntaxError("expected variable after AS")
		}
		if !p.s.matchLiteral(")") {
			return nil, "", false, p.syntaxError("expected ')'")
		}
		return expr, v, true, nil
	}
	if !p.s.matchLiteral(")") {
		return nil, "", false, p.syntaxError("expected ')'")
	}
	return expr, "", false, nil
}

func (p *parserCore) parseHavingClause() (sparql.Expression, error) {
	if !p.s.matchKeyword("HAVING") {
		return nil, nil
	}
	return p.parseConstraint()
}

// parseOrderClause parses an optional `ORDER BY` clause.
func (p *parserCore) parseOrderClause() ([]sparql.OrderCondition, error) {
	if !p.s.matchKeyword("ORDER") {
		return nil, nil
	}
	if !p.s.matchKeyword("BY") {
		return nil, p.syntaxError("expected BY after ORDER")
	}
	var conds []sparql.OrderCondition
	for {
		cond, ok, err := p.parseOrderCondition()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		conds = append(conds, cond)
	}
	if len(conds) == 0 {
		return nil, p.syntaxError("expected at least one ORDER BY condition")
	}
	return conds, nil
}

func (p *parserCore) parseOrderCondition() (sparql.OrderCondition, bool, error) {
	switch {
	case p.s.matchKeyword("ASC"):
		expr, err := p.parseBracketedExpression()
		return sparql.OrderCondition{Expr: expr, Direction: sparql.Ascending}, true, err
	case p.s.matchKeyword("DESC"):
		expr, err := p.parseBracketedExpression()
		return sparql.OrderCondition{Expr: expr, Direction: sparql.Descending}, true, err
	}
	if v, ok := p.parseVar(); ok {
		return sparql.OrderCondition{Expr: sparql.TermExpression{Term: v}, Direction: sparql.Ascending}, true, nil
	}
	if p.s.peekLiteral("(") {
		expr, err := p.parseBracketedExpression()
		return sparql.OrderCondition{Expr: expr, Direction: sparql.Ascending}, true, err
	}
	if call, ok, err := p.tryParseBuiltinCall(); err != nil {
		return sparql.OrderCondition{}, true, err
	} else if ok {
		return sparql.OrderCondition{Expr: call, Direction: sparql.Ascending}, true, nil
	}
	return sparql.OrderCondition{}, false, nil
}

// parseLimitOffsetClauses parses LIMIT and/or OFFSET, in either order.
func (p *parserCore) parseLimitOffsetClauses() (offset uint64, limit *uint64, err error) {
	for i := 0; i < 2; i++ {
		switch {
		case p.s.matchKeyword("LIMIT"):
			n, ok := p.parseUnsignedInteger()
			if !ok {
				return 0, nil, p.syntaxError("expected integer after LIMIT")
			}
			limit = &n
		case p.s.matchKeyword("OFFSET"):
			n, ok := p.parseUnsignedInteger()
			if !ok {
				return 0, nil, p.syntaxError("expected integer after OFFSET")
			}
			offset = n
		default:
			return offset, limit, nil
		}
	}
	return offset, limit, nil
}

func (p *parserCore) parseUnsignedInteger() (uint64, bool) {
	p.s.skipWS()
	save := p.s.save()
	m, ok := p.s.matchRegexp(reInteger, false)
	if !ok {
		return 0, false
	}
	if m[0] == '-' || m[0] == '+' {
		p.s.restore(save)
		return 0, false
	}
	var n uint64
	for _, c := range m {
		if c < '0' || c > '9' {
			continue
		}
		n = n*10 + uint64(c-'0')
	}
	return n, true
}

func (p *parserCore) parseConstructQuery() (sparql.Query, error) {
	var template []sparql.TriplePattern
	if p.s.matchLiteral("{") {
		sk := newSink()
		for {
			ok, err := p.parseTriplesSameSubject(sk)
			if err != nil {
				return sparql.Query{}, err
			}
			if !ok {
				break
			}
			if !p.s.matchLiteral(".") {
				break
			}
		}
		if !p.s.matchLiteral("}") {
			return sparql.Query{}, p.syntaxError("expected '}' to close CONSTRUCT template")
		}
		template = flattenBgp(sk.pattern)
	} else if !p.s.matchKeyword("WHERE") {
		return sparql.Query{}, p.syntaxError("expected '{' or WHERE after CONSTRUCT")
	}

	dataset, err := p.parseDatasetClauses()
	if err != nil {
		return sparql.Query{}, err
	}
	pattern, err := p.parseGroupGraphPattern()
	if err != nil {
		return sparql.Query{}, err
	}
	if template == nil {
		template = flattenBgp(pattern)
	}
	order, err := p.parseOrderClause()
	if err != nil {
		return sparql.Query{}, err
	}
	offset, limit, err := p.parseLimitOffsetClauses()
	if err != nil {
		return sparql.Query{}, err
	}
	if len(order) > 0 {
		pattern = sparql.OrderBy{Inner: pattern, Conditions: order}
	}
	if offset > 0 || limit != nil {
		pattern = sparql.Slice{Inner: pattern, Start: offset, Length: limit}
	}
	return sparql.Query{Form: sparql.FormConstruct, Dataset: dataset, Pattern: pattern, Template: template}, nil
}

// flattenBgp collects every TriplePattern reachable through a tree of
// Join/Bgp nodes, the shape CONSTRUCT's WHERE-as-template shorthand and a
// parsed CONSTRUCT template both produce.
func flattenBgp(pattern sparql.GraphPattern) []sparql.TriplePattern {
	switch g := pattern.(type) {
	case sparql.Bgp:
		return append([]sparql.TriplePattern{}, g.Triples...)
	case sparql.Join:
		return append(flattenBgp(g.Left), flattenBgp(g.Right)...)
	default:
		return nil
	}
}

func (p *parserCore) parseDescribeQuery() (sparql.Query, error) {
	var targets []sparql.Term
	star := p.s.matchLiteral("*")
	if !star {
		for {
			t, ok, err := p.parseVarOrIRI()
			if err != nil {
				return sparql.Query{}, err
			}
			if !ok {
				break
			}
			targets = append(targets, t)
			p.s.skipWS()
		}
		if len(targets) == 0 {
			return sparql.Query{}, p.syntaxError("expected '*' or a list of IRIs/variables after DESCRIBE")
		}
	}
	dataset, err := p.parseDatasetClauses()
	if err != nil {
		return sparql.Query{}, err
	}
	var pattern sparql.GraphPattern
	if p.s.matchKeyword("WHERE") || p.s.peekLiteral("{") {
		pattern, err = p.parseGroupGraphPattern()
		if err != nil {
			return sparql.Query{}, err
		}
	}
	order, err := p.parseOrderClause()
	if err != nil {
		return sparql.Query{}, err
	}
	offset, limit, err := p.parseLimitOffsetClauses()
	if err != nil {
		return sparql.Query{}, err
	}
	if pattern != nil && len(order) > 0 {
		pattern = sparql.OrderBy{Inner: pattern, Conditions: order}
	}
	if pattern != nil && (offset > 0 || limit != nil) {
		pattern = sparql.Slice{Inner: pattern, Start: offset, Length: limit}
	}
	return sparql.Query{Form: sparql.FormDescribe, Dataset: dataset, Pattern: pattern, DescribeTargets: targets}, nil
}

func (p *parserCore) parseAskQuery() (sparql.Query, error) {
	dataset, err := p.parseDatasetClauses()
	if err != nil {
		return sparql.Query{}, err
	}
	if !p.s.matchKeyword("WHERE") && !p.s.peekLiteral("{") {
		return sparql.Query{}, p.syntaxError("expected WHERE")
	}
	pattern, err := p.parseGroupGraphPattern()
	if err != nil {
		return sparql.Query{}, err
	}
	return sparql.Query{Form: sparql.FormAsk, Dataset: dataset, Pattern: pattern}, nil
}
