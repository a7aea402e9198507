package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlkit/sparqlkit/sparql"
)

func TestTriplesBlockMergesIntoSingleBgp(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p1 ?o1 . ?s ?p2 ?o2 . ?s ?p3 ?o3 }`, "")
	require.NoError(t, err)
	bgp, ok := q.Pattern.(sparql.Bgp)
	require.True(t, ok, "a run of plain triples should stay one flat Bgp, not nest Joins")
	assert.Len(t, bgp.Triples, 3)
}

func TestPropertyListSharesSubjectAcrossSemicolons(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p1 ?o1 ; ?p2 ?o2 }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 2)
	assert.Equal(t, bgp.Triples[0].Subject, bgp.Triples[1].Subject)
}

func TestObjectListSharesSubjectAndVerb(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o1 , ?o2 , ?o3 }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 3)
	for _, tr := range bgp.Triples {
		assert.Equal(t, bgp.Triples[0].Subject, tr.Subject)
		assert.Equal(t, bgp.Triples[0].Predicate, tr.Predicate)
	}
}

func TestBlankNodeLabelReuseWithinOneGroupIsAllowed(t *testing.T) {
	_, err := ParseQuery(`SELECT * WHERE { _:a ?p1 ?o1 . _:a ?p2 ?o2 }`, "")
	require.NoError(t, err)
}

func TestBlankNodeLabelReuseAcrossDisjointGroupsFails(t *testing.T) {
	_, err := ParseQuery(`SELECT * WHERE { { _:a ?p ?o } { _:a ?p ?o } }`, "")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Semantic, pe.Kind)
}

func TestAnonymousBlankNodesNeverCollide(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { [] ?p1 ?o1 . [] ?p2 ?o2 }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 2)
	assert.NotEqual(t, bgp.Triples[0].Subject, bgp.Triples[1].Subject)
}

func TestCollectionDesugarsToRdfFirstRest(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p (1 2 3) }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	// One triple linking ?s to the list head, plus 3 rdf:first and 3 rdf:rest
	// triples for the three-element list: 7 triples total.
	require.Len(t, bgp.Triples, 7)

	var firstCount, restCount, nilCount int
	for _, tr := range bgp.Triples {
		switch tr.Predicate {
		case sparql.IRI(sparql.RDFFirst):
			firstCount++
		case sparql.IRI(sparql.RDFRest):
			restCount++
			if tr.Object == sparql.IRI(sparql.RDFNil) {
				nilCount++
			}
		}
	}
	assert.Equal(t, 3, firstCount)
	assert.Equal(t, 3, restCount)
	assert.Equal(t, 1, nilCount)
}

func TestEmptyCollectionIsRdfNil(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p () }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 1)
	assert.Equal(t, sparql.IRI(sparql.RDFNil), bgp.Triples[0].Object)
}

func TestBlankNodePropertyListDesugarsToFreshSubject(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p [ ?p2 ?o2 ] }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 2)
	bn, ok := bgp.Triples[1].Object.(sparql.BlankNode)
	require.True(t, ok)
	assert.Equal(t, bn, bgp.Triples[0].Subject)
}

func TestRdfTypeKeywordShorthand(t *testing.T) {
	q, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { ?s a ex:Thing }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 1)
	assert.Equal(t, sparql.IRI(sparql.RDFType), bgp.Triples[0].Predicate)
}

func TestRdfStarAnnotationBlockAttachesToQuotedTriple(t *testing.T) {
	q, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { ?s ex:p ?o {| ex:certainty 0.9 |} }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	require.Len(t, bgp.Triples, 2)
	assert.Equal(t, sparql.Variable("s"), bgp.Triples[0].Subject)
	nested, ok := bgp.Triples[1].Subject.(sparql.NestedTriplePattern)
	require.True(t, ok)
	assert.Equal(t, sparql.Variable("s"), nested.Subject)
	assert.Equal(t, sparql.IRI("http://example.org/certainty"), bgp.Triples[1].Predicate)
}

func TestRdfStarAnnotationOnPropertyPathFails(t *testing.T) {
	_, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { ?s ex:p* ?o {| ex:certainty 0.9 |} }`, "")
	require.Error(t, err)
}

func TestRdfStarQuotedTripleAsTermString(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o {| ?q ?v |} }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	nested := bgp.Triples[1].Subject.(sparql.NestedTriplePattern)
	assert.True(t, strings.HasPrefix(nested.String(), "<<"))
}
