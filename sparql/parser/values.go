package parser

import "github.com/sparqlkit/sparqlkit/sparql"

// parseInlineData parses the VALUES clause's DataBlock: either a single
// variable with a parenthesis-free list of values, or a parenthesized
// variable list with one parenthesized row per value tuple.
func (p *parserCore) parseInlineData() (sparql.Table, error) {
	if v, ok := p.parseVar(); ok {
		rows, err := p.parseDataBlockValues()
		if err != nil {
			return sparql.Table{}, err
		}
		out := make([][]sparql.Term, len(rows))
		for i, r := range rows {
			out[i] = []sparql.Term{r}
		}
		return sparql.Table{Vars: []sparql.Variable{v}, Rows: out}, nil
	}
	if !p.s.matchLiteral("(") {
		return sparql.Table{}, p.syntaxError("expected a variable or '(' after VALUES")
	}
	var vars []sparql.Variable
	for !p.s.peekLiteral(")") {
		v, ok := p.parseVar()
		if !ok {
			return sparql.Table{}, p.syntaxError("expected variable in VALUES var list")
		}
		vars = append(vars, v)
	}
	if !p.s.matchLiteral(")") {
		return sparql.Table{}, p.syntaxError("expected ')' to close VALUES var list")
	}
	if !p.s.matchLiteral("{") {
		return sparql.Table{}, p.syntaxError("expected '{' to open VALUES data block")
	}
	var rows [][]sparql.Term
	for !p.s.peekLiteral("}") {
		row, err := p.parseDataBlockRow(len(vars))
		if err != nil {
			return sparql.Table{}, err
		}
		rows = append(rows, row)
	}
	if !p.s.matchLiteral("}") {
		return sparql.Table{}, p.syntaxError("expected '}' to close VALUES data block")
	}
	return sparql.Table{Vars: vars, Rows: rows}, nil
}

// parseDataBlockRow parses one `( DataBlockValue* )` row, which must supply
// exactly width values.
func (p *parserCore) parseDataBlockRow(width int) ([]sparql.Term, error) {
	if !p.s.matchLiteral("(") {
		return nil, p.syntaxError("expected '(' to open VALUES row")
	}
	var row []sparql.Term
	for !p.s.peekLiteral(")") {
		v, err := p.parseDataBlockValue()
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	if !p.s.matchLiteral(")") {
		return nil, p.syntaxError("expected ')' to close VALUES row")
	}
	if len(row) != width {
		return nil, p.syntaxError("VALUES row has %d values, expected %d", len(row), width)
	}
	return row, nil
}

// parseDataBlockValues parses a flat run of DataBlockValue, for the
// single-variable VALUES form.
func (p *parserCore) parseDataBlockValues() ([]sparql.Term, error) {
	if !p.s.matchLiteral("{") {
		return nil, p.syntaxError("expected '{' to open VALUES data block")
	}
	var values []sparql.Term
	for !p.s.peekLiteral("}") {
		v, err := p.parseDataBlockValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if !p.s.matchLiteral("}") {
		return nil, p.syntaxError("expected '}' to close VALUES data block")
	}
	return values, nil
}

// parseDataBlockValue parses IRI | RDFLiteral | NumericLiteral |
// BooleanLiteral | UNDEF, returning nil for UNDEF (an unbound row entry).
func (p *parserCore) parseDataBlockValue() (sparql.Term, error) {
	if p.s.matchKeyword("UNDEF") {
		return nil, nil
	}
	term, ok, err := p.parseGraphTerm()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.syntaxError("expected a VALUES data block value")
	}
	return term, nil
}
