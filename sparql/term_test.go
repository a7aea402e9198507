package sparql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparqlkit/sparqlkit/sparql"
)

func TestLiteralStringSimple(t *testing.T) {
	l := sparql.Literal{Kind: sparql.SimpleLiteral, Value: "hello"}
	assert.Equal(t, `"hello"`, l.String())
}

func TestLiteralStringLanguageTagged(t *testing.T) {
	l := sparql.Literal{Kind: sparql.LanguageTaggedLiteral, Value: "bonjour", Language: "fr"}
	assert.Equal(t, `"bonjour"@fr`, l.String())
}

func TestLiteralStringTyped(t *testing.T) {
	l := sparql.NewIntegerLiteral("42")
	assert.Equal(t, `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`, l.String())
}

func TestTermStringForms(t *testing.T) {
	assert.Equal(t, "http://example.org/s", sparql.IRI("http://example.org/s").String())
	assert.Equal(t, "_:b0", sparql.BlankNode("b0").String())
	assert.Equal(t, "?x", sparql.Variable("x").String())
}

func TestNestedTriplePatternString(t *testing.T) {
	nt := sparql.NestedTriplePattern{TriplePattern: sparql.TriplePattern{
		Subject:   sparql.IRI("http://example.org/s"),
		Predicate: sparql.IRI("http://example.org/p"),
		Object:    sparql.IRI("http://example.org/o"),
	}}
	assert.Equal(t, "<<http://example.org/s http://example.org/p http://example.org/o>>", nt.String())
}

func TestQuadPatternAsTriplePatternDropsGraph(t *testing.T) {
	q := sparql.QuadPattern{
		Subject:   sparql.Variable("s"),
		Predicate: sparql.IRI("http://example.org/p"),
		Object:    sparql.Variable("o"),
		Graph:     sparql.IRI("http://example.org/g"),
	}
	tp := q.AsTriplePattern()
	assert.Equal(t, sparql.Variable("s"), tp.Subject)
	assert.Equal(t, sparql.IRI("http://example.org/p"), tp.Predicate)
	assert.Equal(t, sparql.Variable("o"), tp.Object)
}

func TestBgpIsEmpty(t *testing.T) {
	assert.True(t, sparql.Bgp{}.IsEmpty())
	assert.False(t, sparql.Bgp{Triples: []sparql.TriplePattern{{}}}.IsEmpty())
}

func TestDatasetIsZero(t *testing.T) {
	assert.True(t, sparql.Dataset{}.IsZero())
	assert.False(t, sparql.Dataset{Default: []sparql.IRI{"http://example.org/g"}}.IsZero())
}

func TestUsingClauseIsZero(t *testing.T) {
	assert.True(t, sparql.UsingClause{}.IsZero())
	assert.False(t, sparql.UsingClause{Named: []sparql.IRI{"http://example.org/g"}}.IsZero())
}

func TestDefaultGraphString(t *testing.T) {
	assert.Equal(t, "DEFAULT", sparql.DefaultGraph{}.String())
}
