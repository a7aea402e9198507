package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/sparqlkit/sparqlkit/internal/escape"
	"github.com/sparqlkit/sparqlkit/sparql"
)

var (
	reStringLiteralLong = regexp.MustCompile(`(?s)^"""(?:(?:"|"")?(?:[^"\\]|\\.))*"""|^'''(?:(?:'|'')?(?:[^'\\]|\\.))*'''`)
	reStringLiteral1    = regexp.MustCompile(`^'(?:[^'\\\r\n]|\\.)*'`)
	reStringLiteral2    = regexp.MustCompile(`^"(?:[^"\\\r\n]|\\.)*"`)
)

// parseIRI recognizes IRIREF or PrefixedName and resolves it to an absolute
// IRI against the current base/namespace environment.
func (p *parserCore) parseIRI() (sparql.IRI, bool, error) {
	if ref, ok := p.s.parseIRIRefToken(); ok {
		resolved, err := p.st.resolveIRI(ref)
		if err != nil {
			return "", true, p.syntaxError("invalid IRI <%s>: %v", ref, err)
		}
		return resolved, true, nil
	}
	p.s.skipWS()
	save := p.s.save()
	ns, ok := p.s.matchRegexp(rePNameNS, false)
	if !ok {
		return "", false, nil
	}
	local, _ := p.s.matchRegexp(rePNameLN, false)
	ns = strings.TrimSuffix(ns, ":")
	iri, err := p.st.resolvePrefixedName(ns, escape.UnescapeLocalName(local))
	if err != nil {
		p.s.restore(save)
		return "", false, nil
	}
	return iri, true, nil
}

// parseVar recognizes a variable token (?name or $name).
func (p *parserCore) parseVar() (sparql.Variable, bool) {
	p.s.skipWS()
	if !p.s.matchLiteral("?") && !p.s.matchLiteral("$") {
		return "", false
	}
	name, ok := p.s.matchRegexp(reVarName, false)
	if !ok {
		p.s.unadvance()
		return "", false
	}
	return sparql.Variable(name), true
}

// parseBlankNode recognizes a labeled blank node (_:label), an anonymous
// blank node ([]), or an empty blank-node property list ([ ]), returning
// only the former two; callers that need to allow a non-empty property
// list handle '[' themselves before falling back to this.
func (p *parserCore) parseBlankNode() (sparql.BlankNode, bool, error) {
	p.s.skipWS()
	if m, ok := p.s.matchRegexp(reBlankNode, false); ok {
		label := strings.TrimPrefix(m, "_:")
		bn, err := p.st.useLabeledBlankNode(label)
		if err != nil {
			return "", true, p.semanticError("%v", err)
		}
		return bn, true, nil
	}
	save := p.s.save()
	if p.s.matchLiteral("[") {
		if !p.s.matchLiteral("]") {
			p.s.restore(save)
			return "", false, nil
		}
		return p.st.freshBlankNode(), true, nil
	}
	return "", false, nil
}

// parseNumericLiteral recognizes INTEGER, DECIMAL, or DOUBLE and constructs
// the corresponding typed literal.
func (p *parserCore) parseNumericLiteral() (sparql.Literal, bool) {
	p.s.skipWS()
	if m, ok := p.s.matchRegexp(reDouble, false); ok {
		return sparql.NewDoubleLiteral(m), true
	}
	if m, ok := p.s.matchRegexp(reDecimal, false); ok {
		return sparql.NewDecimalLiteral(m), true
	}
	if m, ok := p.s.matchRegexp(reInteger, false); ok {
		return sparql.NewIntegerLiteral(m), true
	}
	return sparql.Literal{}, false
}

// parseBooleanLiteral recognizes the keywords true/false.
func (p *parserCore) parseBooleanLiteral() (sparql.Literal, bool) {
	if p.s.matchKeyword("true") {
		return sparql.NewBooleanLiteral(true), true
	}
	if p.s.matchKeyword("false") {
		return sparql.NewBooleanLiteral(false), true
	}
	return sparql.Literal{}, false
}

// parseRDFLiteral recognizes a quoted string, optionally followed by a
// language tag (@en) or a datatype (^^<iri>).
func (p *parserCore) parseRDFLiteral() (sparql.Literal, bool, error) {
	p.s.skipWS()
	raw, ok := p.matchQuotedString()
	if !ok {
		return sparql.Literal{}, false, nil
	}
	value := escape.UnescapeString(raw)
	if p.s.matchLiteral("@") {
		lang, ok := p.s.matchRegexp(reLangTag, false)
		if !ok {
			return sparql.Literal{}, true, p.syntaxError("expected language tag after '@'")
		}
		return sparql.Literal{
			Kind:     sparql.LanguageTaggedLiteral,
			Value:    value,
			Language: canonicalLangTag(lang),
		}, true, nil
	}
	if p.s.matchLiteral("^^") {
		dt, ok, err := p.parseIRI()
		if err != nil {
			return sparql.Literal{}, true, err
		}
		if !ok {
			return sparql.Literal{}, true, p.syntaxError("expected datatype IRI after '^^'")
		}
		return sparql.Literal{Kind: sparql.TypedLiteral, Value: value, Datatype: dt}, true, nil
	}
	return sparql.Literal{Kind: sparql.SimpleLiteral, Value: value}, true, nil
}

// canonicalLangTag normalizes a language tag through the language package's
// BCP 47 parser and lower-cases the result (e.g. "EN-us" -> "en-us"). Tags
// the language package can't parse are lower-cased as they are rather than
// rejected outright, since the grammar's LANGTAG production is more
// permissive than strict BCP 47.
func canonicalLangTag(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	return strings.ToLower(t.String())
}

// matchQuotedString recognizes any of the four SPARQL string productions
// (short/long, single/double quoted) and strips the delimiters.
func (p *parserCore) matchQuotedString() (string, bool) {
	if m, ok := p.s.matchRegexp(reStringLiteralLong, false); ok {
		return stripQuotes(m, 3), true
	}
	if m, ok := p.s.matchRegexp(reStringLiteral1, false); ok {
		return stripQuotes(m, 1), true
	}
	if m, ok := p.s.matchRegexp(reStringLiteral2, false); ok {
		return stripQuotes(m, 1), true
	}
	return "", false
}

func stripQuotes(s string, n int) string {
	return s[n : len(s)-n]
}

// parseNIL recognizes the NIL token '(' WS* ')', which denotes rdf:nil when
// used as a term.
func (p *parserCore) parseNIL() bool {
	save := p.s.save()
	if p.s.matchLiteral("(") && p.s.matchLiteral(")") {
		return true
	}
	p.s.restore(save)
	return false
}

// parseANON recognizes the ANON token '[' WS* ']', a fresh anonymous blank
// node used as a term directly (not a property list).
func (p *parserCore) parseANON() (sparql.BlankNode, bool) {
	save := p.s.save()
	if p.s.matchLiteral("[") && p.s.matchLiteral("]") {
		return p.st.freshBlankNode(), true
	}
	p.s.restore(save)
	return "", false
}

// parseGraphTerm recognizes IRI | RDFLiteral | NumericLiteral |
// BooleanLiteral | BlankNode | NIL, in that ordered-choice precedence.
func (p *parserCore) parseGraphTerm() (sparql.Term, bool, error) {
	if iri, ok, err := p.parseIRI(); err != nil {
		return nil, true, err
	} else if ok {
		return iri, true, nil
	}
	if lit, ok, err := p.parseRDFLiteral(); err != nil {
		return nil, true, err
	} else if ok {
		return lit, true, nil
	}
	if lit, ok := p.parseNumericLiteral(); ok {
		return lit, true, nil
	}
	if lit, ok := p.parseBooleanLiteral(); ok {
		return lit, true, nil
	}
	if p.parseNIL() {
		return sparql.IRI(sparql.RDFNil), true, nil
	}
	if bn, ok, err := p.parseBlankNode(); err != nil {
		return nil, true, err
	} else if ok {
		return bn, true, nil
	}
	return nil, false, nil
}

// parseVarOrTerm recognizes Var | GraphTerm, the building block used
// everywhere a subject/predicate/object position is allowed (triple
// patterns, collections, and annotation blocks).
func (p *parserCore) parseVarOrTerm() (sparql.Term, bool, error) {
	if v, ok := p.parseVar(); ok {
		return v, true, nil
	}
	return p.parseGraphTerm()
}

// parseVarOrIRI recognizes Var | IRI, used where a dataset/graph name or a
// SERVICE endpoint is expected.
func (p *parserCore) parseVarOrIRI() (sparql.Term, bool, error) {
	if v, ok := p.parseVar(); ok {
		return v, true, nil
	}
	if iri, ok, err := p.parseIRI(); err != nil {
		return nil, true, err
	} else if ok {
		return iri, true, nil
	}
	return nil, false, nil
}

// requireIRI parses a mandatory IRI, failing with a syntax error otherwise.
func (p *parserCore) requireIRI(context string) (sparql.IRI, error) {
	iri, ok, err := p.parseIRI()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", p.syntaxError("expected IRI %s", context)
	}
	return iri, nil
}
