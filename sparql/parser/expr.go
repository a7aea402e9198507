package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sparqlkit/sparqlkit/sparql"
)

// parseExpression is the grammar's top-level Expression production:
// ConditionalOrExpression, the loosest-binding operator ('||').
func (p *parserCore) parseExpression() (sparql.Expression, error) {
	left, err := p.parseConditionalAnd()
	if err != nil {
		return nil, err
	}
	for p.s.matchLiteral("||") {
		right, err := p.parseConditionalAnd()
		if err != nil {
			return nil, err
		}
		left = sparql.BinaryExpression{Op: sparql.BinaryOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parserCore) parseConditionalAnd() (sparql.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.s.matchLiteral("&&") {
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = sparql.BinaryExpression{Op: sparql.BinaryAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parserCore) parseRelational() (sparql.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch {
	case p.s.matchLiteral("!="):
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryNotEqual, Left: left, Right: right}, nil
	case p.s.matchLiteral("<="):
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryLessOrEqual, Left: left, Right: right}, nil
	case p.s.matchLiteral(">="):
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryGreaterOrEqual, Left: left, Right: right}, nil
	case p.s.matchLiteral("="):
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryEqual, Left: left, Right: right}, nil
	case p.s.matchLiteral("<"):
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryLess, Left: left, Right: right}, nil
	case p.s.matchLiteral(">"):
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryGreater, Left: left, Right: right}, nil
	case p.s.matchKeyword("NOT"):
		if !p.s.matchKeyword("IN") {
			return nil, p.syntaxError("expected IN after NOT")
		}
		list, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryNotIn, Left: left, List: list}, nil
	case p.s.matchKeyword("IN"):
		list, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		return sparql.BinaryExpression{Op: sparql.BinaryIn, Left: left, List: list}, nil
	default:
		return left, nil
	}
}

// parseExpressionList parses '(' Expression (',' Expression)* ')'.
func (p *parserCore) parseExpressionList() ([]sparql.Expression, error) {
	if !p.s.matchLiteral("(") {
		return nil, p.syntaxError("expected '(' to open expression list")
	}
	var list []sparql.Expression
	if !p.s.peekLiteral(")") {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			list = append(list, e)
			if !p.s.matchLiteral(",") {
				break
			}
		}
	}
	if !p.s.matchLiteral(")") {
		return nil, p.syntaxError("expected ')' to close expression list")
	}
	return list, nil
}

func (p *parserCore) parseAdditive() (sparql.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.s.matchLiteral("+"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = sparql.BinaryExpression{Op: sparql.BinaryAdd, Left: left, Right: right}
		case p.s.matchLiteral("-"):
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = sparql.BinaryExpression{Op: sparql.BinarySubtract, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parserCore) parseMultiplicative() (sparql.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.s.matchLiteral("*"):
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = sparql.BinaryExpression{Op: sparql.BinaryMultiply, Left: left, Right: right}
		case p.s.matchLiteral("/"):
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = sparql.BinaryExpression{Op: sparql.BinaryDivide, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parserCore) parseUnary() (sparql.Expression, error) {
	switch {
	case p.s.matchLiteral("!"):
		operand, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		return sparql.UnaryExpression{Op: sparql.UnaryNot, Operand: operand}, nil
	case p.s.matchLiteral("+"):
		operand, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		return sparql.UnaryExpression{Op: sparql.UnaryPlus, Operand: operand}, nil
	case p.s.matchLiteral("-"):
		operand, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		return sparql.UnaryExpression{Op: sparql.UnaryMinus, Operand: operand}, nil
	default:
		return p.parsePrimaryExpression()
	}
}

// parseBracketedExpression parses '(' Expression ')'.
func (p *parserCore) parseBracketedExpression() (sparql.Expression, error) {
	if !p.s.matchLiteral("(") {
		return nil, p.syntaxError("expected '('")
	}
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.s.matchLiteral(")") {
		return nil, p.syntaxError("expected ')'")
	}
	return e, nil
}

// parsePrimaryExpression dispatches the grammar's PrimaryExpression
// production in ordered-choice precedence.
func (p *parserCore) parsePrimaryExpression() (sparql.Expression, error) {
	p.s.skipWS()

	if p.s.peekLiteral("(") {
		return p.parseBracketedExpression()
	}
	if v, ok := p.parseVar(); ok {
		return sparql.TermExpression{Term: v}, nil
	}
	if lit, ok, err := p.parseRDFLiteral(); err != nil {
		return nil, err
	} else if ok {
		return sparql.TermExpression{Term: lit}, nil
	}
	if lit, ok := p.parseNumericLiteral(); ok {
		return sparql.TermExpression{Term: lit}, nil
	}
	if lit, ok := p.parseBooleanLiteral(); ok {
		return sparql.TermExpression{Term: lit}, nil
	}
	if p.s.matchKeyword("EXISTS") {
		pattern, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return sparql.ExistsExpression{Pattern: pattern}, nil
	}
	if p.s.matchKeyword("NOT") {
		if !p.s.matchKeyword("EXISTS") {
			return nil, p.syntaxError("expected EXISTS after NOT")
		}
		pattern, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return sparql.ExistsExpression{Pattern: pattern, Negated: true}, nil
	}
	if agg, ok, err := p.tryParseAggregate(); err != nil {
		return nil, err
	} else if ok {
		return p.hoistAggregate(agg)
	}
	if call, ok, err := p.tryParseBuiltinCall(); err != nil {
		return nil, err
	} else if ok {
		return call, nil
	}
	// IRI-headed: either a bare IRI term or IRI(args) extension function call.
	if iri, ok, err := p.parseIRI(); err != nil {
		return nil, err
	} else if ok {
		if p.s.peekLiteral("(") {
			distinct, args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return sparql.ExtensionFunctionCall{Name: iri, Args: args, Distinct: distinct}, nil
		}
		return sparql.TermExpression{Term: iri}, nil
	}
	return nil, p.syntaxError("expected an expression")
}

// parseArgList parses '(' 'DISTINCT'? Expression (',' Expression)* ')' or
// NIL for an empty arg list without DISTINCT.
func (p *parserCore) parseArgList() (bool, []sparql.Expression, error) {
	if p.parseNIL() {
		return false, nil, nil
	}
	if !p.s.matchLiteral("(") {
		return false, nil, p.syntaxError("expected '('")
	}
	distinct := p.s.matchKeyword("DISTINCT")
	var args []sparql.Expression
	if !p.s.peekLiteral(")") {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return false, nil, err
			}
			args = append(args, e)
			if !p.s.matchLiteral(",") {
				break
			}
		}
	}
	if !p.s.matchLiteral(")") {
		return false, nil, p.syntaxError("expected ')'")
	}
	return distinct, args, nil
}

var builtinKeywords = map[string]sparql.BuiltinFunction{
	"STR":          sparql.BuiltinStr,
	"LANG":         sparql.BuiltinLang,
	"LANGMATCHES":  sparql.BuiltinLangMatches,
	"DATATYPE":     sparql.BuiltinDatatype,
	"BOUND":        sparql.BuiltinBound,
	"IRI":          sparql.BuiltinIri,
	"URI":          sparql.BuiltinIri,
	"BNODE":        sparql.BuiltinBNode,
	"RAND":         sparql.BuiltinRand,
	"ABS":          sparql.BuiltinAbs,
	"CEIL":         sparql.BuiltinCeil,
	"FLOOR":        sparql.BuiltinFloor,
	"ROUND":        sparql.BuiltinRound,
	"CONCAT":       sparql.BuiltinConcat,
	"STRLEN":       sparql.BuiltinStrLen,
	"UCASE":        sparql.BuiltinUCase,
	"LCASE":        sparql.BuiltinLCase,
	"ENCODE_FOR_URI": sparql.BuiltinEncodeForUri,
	"CONTAINS":     sparql.BuiltinContains,
	"STRSTARTS":    sparql.BuiltinStrStarts,
	"STRENDS":      sparql.BuiltinStrEnds,
	"STRBEFORE":    sparql.BuiltinStrBefore,
	"STRAFTER":     sparql.BuiltinStrAfter,
	"YEAR":         sparql.BuiltinYear,
	"MONTH":        sparql.BuiltinMonth,
	"DAY":          sparql.BuiltinDay,
	"HOURS":        sparql.BuiltinHours,
	"MINUTES":      sparql.BuiltinMinutes,
	"SECONDS":      sparql.BuiltinSeconds,
	"TIMEZONE":     sparql.BuiltinTimezone,
	"TZ":           sparql.BuiltinTz,
	"NOW":          sparql.BuiltinNow,
	"UUID":         sparql.BuiltinUuid,
	"STRUUID":      sparql.BuiltinStrUuid,
	"MD5":          sparql.BuiltinMd5,
	"SHA1":         sparql.BuiltinSha1,
	"SHA256":       sparql.BuiltinSha256,
	"SHA384":       sparql.BuiltinSha384,
	"SHA512":       sparql.BuiltinSha512,
	"COALESCE":     sparql.BuiltinCoalesce,
	"IF":           sparql.BuiltinIf,
	"STRLANG":      sparql.BuiltinStrLang,
	"STRDT":        sparql.BuiltinStrDt,
	"SAMETERM":     sparql.BuiltinSameTerm,
	"ISIRI":        sparql.BuiltinIsIri,
	"ISURI":        sparql.BuiltinIsIri,
	"ISBLANK":      sparql.BuiltinIsBlank,
	"ISLITERAL":    sparql.BuiltinIsLiteral,
	"ISNUMERIC":    sparql.BuiltinIsNumeric,
	"SUBSTR":       sparql.BuiltinSubstr,
	"REPLACE":      sparql.BuiltinReplace,
	"REGEX":        sparql.BuiltinRegex,
	"TRIPLE":       sparql.BuiltinTriple,
	"SUBJECT":      sparql.BuiltinSubject,
	"PREDICATE":    sparql.BuiltinPredicate,
	"OBJECT":       sparql.BuiltinObject,
	"ISTRIPLE":     sparql.BuiltinIsTriple,
}

// sortedBuiltinKeywords orders keywords longest-first so that, e.g.,
// "ISTRIPLE" is tried before "IS" would ever be (there is no bare "IS", but
// the ordering discipline generalizes to any future overlapping keyword).
var sortedBuiltinKeywords = func() []string {
	ks := make([]string, 0, len(builtinKeywords))
	for k := range builtinKeywords {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return len(ks[i]) > len(ks[j]) })
	return ks
}()

// tryParseBuiltinCall recognizes any BuiltInCall keyword and its argument
// list, including SUBSTR/REPLACE's optional trailing argument.
func (p *parserCore) tryParseBuiltinCall() (sparql.Expression, bool, error) {
	save := p.s.save()
	for _, kw := range sortedBuiltinKeywords {
		if !p.s.matchKeyword(kw) {
			continue
		}
		fn := builtinKeywords[kw]
		_, args, err := p.parseArgList()
		if err != nil {
			return nil, false, err
		}
		if err := checkArity(fn, kw, args); err != nil {
			return nil, false, err
		}
		return sparql.FunctionCall{Builtin: fn, Args: args}, true, nil
	}
	p.s.restore(save)
	return nil, false, nil
}

// checkArity enforces the fixed/variable argument counts the reference
// grammar assigns each builtin.
func checkArity(fn sparql.BuiltinFunction, name string, args []sparql.Expression) error {
	switch fn {
	case sparql.BuiltinNow, sparql.BuiltinRand, sparql.BuiltinUuid, sparql.BuiltinStrUuid:
		return arityError(name, 0, len(args))
	case sparql.BuiltinStr, sparql.BuiltinLang, sparql.BuiltinDatatype, sparql.BuiltinBound, sparql.BuiltinBNode, sparql.BuiltinAbs,
		sparql.BuiltinCeil, sparql.BuiltinFloor, sparql.BuiltinRound, sparql.BuiltinStrLen, sparql.BuiltinUCase, sparql.BuiltinLCase,
		sparql.BuiltinEncodeForUri, sparql.BuiltinYear, sparql.BuiltinMonth, sparql.BuiltinDay, sparql.BuiltinHours, sparql.BuiltinMinutes,
		sparql.BuiltinSeconds, sparql.BuiltinTimezone, sparql.BuiltinTz, sparql.BuiltinMd5, sparql.BuiltinSha1, sparql.BuiltinSha256,
		sparql.BuiltinSha384, sparql.BuiltinSha512, sparql.BuiltinIsIri, sparql.BuiltinIsBlank, sparql.BuiltinIsLiteral,
		sparql.BuiltinIsNumeric, sparql.BuiltinIsTriple, sparql.BuiltinSubject, sparql.BuiltinPredicate, sparql.BuiltinObject:
		if fn == sparql.BuiltinBNode && len(args) == 0 {
			return nil
		}
		return arityExact(name, 1, len(args))
	case sparql.BuiltinLangMatches, sparql.BuiltinContains, sparql.BuiltinStrStarts, sparql.BuiltinStrEnds, sparql.BuiltinStrBefore,
		sparql.BuiltinStrAfter, sparql.BuiltinSameTerm, sparql.BuiltinStrLang, sparql.BuiltinStrDt:
		return arityExact(name, 2, len(args))
	case sparql.BuiltinIf, sparql.BuiltinTriple:
		return arityExact(name, 3, len(args))
	case sparql.BuiltinSubstr:
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("%s expects 2 or 3 arguments, got %d", name, len(args))
		}
	case sparql.BuiltinReplace:
		if len(args) != 3 && len(args) != 4 {
			return fmt.Errorf("%s expects 3 or 4 arguments, got %d", name, len(args))
		}
	case sparql.BuiltinRegex:
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("%s expects 2 or 3 arguments, got %d", name, len(args))
		}
	case sparql.BuiltinIri:
		return arityExact(name, 1, len(args))
	case sparql.BuiltinConcat, sparql.BuiltinCoalesce:
		// variadic
	}
	return nil
}

func arityExact(name string, want, got int) error {
	if want != got {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, want, got)
	}
	return nil
}

func arityError(name string, want, got int) error {
	if got != want {
		return fmt.Errorf("%s expects no arguments, got %d", name, got)
	}
	return nil
}

// tryParseAggregate recognizes COUNT/SUM/MIN/MAX/AVG/SAMPLE/GROUP_CONCAT.
func (p *parserCore) tryParseAggregate() (sparql.AggregateExpression, bool, error) {
	save := p.s.save()
	var kind sparql.AggregateKind
	switch {
	case p.s.matchKeyword("COUNT"):
		kind = sparql.AggCount
	case p.s.matchKeyword("SUM"):
		kind = sparql.AggSum
	case p.s.matchKeyword("MIN"):
		kind = sparql.AggMin
	case p.s.matchKeyword("MAX"):
		kind = sparql.AggMax
	case p.s.matchKeyword("AVG"):
		kind = sparql.AggAvg
	case p.s.matchKeyword("SAMPLE"):
		kind = sparql.AggSample
	case p.s.matchKeyword("GROUP_CONCAT"):
		kind = sparql.AggGroupConcat
	default:
		return sparql.AggregateExpression{}, false, nil
	}
	if !p.s.matchLiteral("(") {
		p.s.restore(save)
		return sparql.AggregateExpression{}, false, nil
	}
	distinct := p.s.matchKeyword("DISTINCT")

	if kind == sparql.AggCount && p.s.matchLiteral("*") {
		if !p.s.matchLiteral(")") {
			return sparql.AggregateExpression{}, true, p.syntaxError("expected ')'")
		}
		return sparql.AggregateExpression{Kind: kind, Distinct: distinct}, true, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return sparql.AggregateExpression{}, true, err
	}
	separator := ""
	if kind == sparql.AggGroupConcat && p.s.matchLiteral(";") {
		if !p.s.matchKeyword("SEPARATOR") {
			return sparql.AggregateExpression{}, true, p.syntaxError("expected SEPARATOR")
		}
		if !p.s.matchLiteral("=") {
			return sparql.AggregateExpression{}, true, p.syntaxError("expected '=' after SEPARATOR")
		}
		sep, ok := p.matchQuotedString()
		if !ok {
			return sparql.AggregateExpression{}, true, p.syntaxError("expected string after SEPARATOR=")
		}
		separator = sep
	}
	if !p.s.matchLiteral(")") {
		return sparql.AggregateExpression{}, true, p.syntaxError("expected ')' to close aggregate")
	}
	return sparql.AggregateExpression{Kind: kind, Expr: expr, Distinct: distinct, Separator: separator}, true, nil
}

// hoistAggregate replaces an aggregate expression with a reference to the
// variable it has been hoisted into, registering it with the currently-open
// SELECT's aggregate collector (18.2.4.3's "aggregation is not composable
// with other expressions in place" rule).
func (p *parserCore) hoistAggregate(agg sparql.AggregateExpression) (sparql.Expression, error) {
	if !p.st.hasOpenSelect() {
		return nil, p.semanticError("aggregate expression used outside of a SELECT")
	}
	key := aggregateKey(agg)
	v, err := p.st.registerAggregate(agg, key)
	if err != nil {
		return nil, p.semanticError("%v", err)
	}
	return sparql.TermExpression{Term: v}, nil
}

// aggregateKey builds a structural de-duplication key for agg; aggregates
// parsed from textually-identical expressions in the same SELECT collapse
// onto the same hoisted variable.
func aggregateKey(agg sparql.AggregateExpression) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%v|%t|%s", agg.Kind, agg.Expr, agg.Distinct, agg.Separator)
	return b.String()
}
