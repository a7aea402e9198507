package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlkit/sparqlkit/sparql"
)

func TestParseQuerySelectStar(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	assert.Equal(t, sparql.FormSelect, q.Form)
	assert.Nil(t, q.Vars)
	proj, ok := q.Pattern.(sparql.Bgp)
	require.True(t, ok)
	require.Len(t, proj.Triples, 1)
	assert.Equal(t, sparql.Variable("s"), proj.Triples[0].Subject)
}

func TestParseQueryProjectedVars(t *testing.T) {
	q, err := ParseQuery(`SELECT ?s ?o WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	proj, ok := q.Pattern.(sparql.Project)
	require.True(t, ok)
	assert.Equal(t, []sparql.Variable{"s", "o"}, proj.Vars)
	assert.Equal(t, []sparql.Variable{"s", "o"}, q.Vars)
}

func TestParseQueryRejectsTrailingInput(t *testing.T) {
	_, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o } garbage`, "")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Syntactic, pe.Kind)
}

func TestParseQueryBaseResolution(t *testing.T) {
	q, err := ParseQuery(`BASE <http://example.org/a/b> SELECT * WHERE { ?s <rel> ?o }`, "")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/a/b", q.BaseIRI)
	bgp := q.Pattern.(sparql.Bgp)
	assert.Equal(t, sparql.IRI("http://example.org/a/rel"), bgp.Triples[0].Predicate)
}

func TestParseQueryBaseFromConstructorArgument(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s <rel> ?o }`, "http://example.org/a/b")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	assert.Equal(t, sparql.IRI("http://example.org/a/rel"), bgp.Triples[0].Predicate)
}

func TestParseQueryLaterBaseOverridesEarlier(t *testing.T) {
	q, err := ParseQuery(`BASE <http://first.example/> BASE <http://second.example/> SELECT * WHERE { ?s <rel> ?o }`, "")
	require.NoError(t, err)
	assert.Equal(t, "http://second.example/", q.BaseIRI)
	bgp := q.Pattern.(sparql.Bgp)
	assert.Equal(t, sparql.IRI("http://second.example/rel"), bgp.Triples[0].Predicate)
}

func TestParseQueryRelativeIRIWithoutBaseFails(t *testing.T) {
	_, err := ParseQuery(`SELECT * WHERE { ?s <rel> ?o }`, "")
	require.Error(t, err)
}

func TestParseQueryPrefixScoping(t *testing.T) {
	q, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	assert.Equal(t, sparql.IRI("http://example.org/p"), bgp.Triples[0].Predicate)
}

func TestParseQueryLaterPrefixOverridesEarlier(t *testing.T) {
	q, err := ParseQuery(`PREFIX ex: <http://one.example/> PREFIX ex: <http://two.example/> SELECT * WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	bgp := q.Pattern.(sparql.Bgp)
	assert.Equal(t, sparql.IRI("http://two.example/p"), bgp.Triples[0].Predicate)
}

func TestParseQueryUnknownPrefixFails(t *testing.T) {
	_, err := ParseQuery(`SELECT * WHERE { ?s ex:p ?o }`, "")
	require.Error(t, err)
}

func TestParseQueryDistinctReduced(t *testing.T) {
	q, err := ParseQuery(`SELECT DISTINCT ?s WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	assert.True(t, q.Distinct)
	_, ok := q.Pattern.(sparql.Distinct)
	assert.True(t, ok)

	q, err = ParseQuery(`SELECT REDUCED ?s WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	assert.True(t, q.Reduced)
	_, ok = q.Pattern.(sparql.Reduced)
	assert.True(t, ok)
}

func TestParseQueryLimitOffset(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o } LIMIT 10 OFFSET 5`, "")
	require.NoError(t, err)
	slice, ok := q.Pattern.(sparql.Slice)
	require.True(t, ok)
	assert.Equal(t, uint64(5), slice.Start)
	require.NotNil(t, slice.Length)
	assert.Equal(t, uint64(10), *slice.Length)
}

func TestParseQueryOffsetBeforeLimit(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o } OFFSET 5 LIMIT 10`, "")
	require.NoError(t, err)
	slice, ok := q.Pattern.(sparql.Slice)
	require.True(t, ok)
	assert.Equal(t, uint64(5), slice.Start)
	require.NotNil(t, slice.Length)
	assert.Equal(t, uint64(10), *slice.Length)
}

func TestParseAskQuery(t *testing.T) {
	q, err := ParseQuery(`ASK { ?s ?p ?o }`, "")
	require.NoError(t, err)
	assert.Equal(t, sparql.FormAsk, q.Form)
}

func TestParseDescribeQueryStar(t *testing.T) {
	q, err := ParseQuery(`DESCRIBE *`, "")
	require.NoError(t, err)
	assert.Equal(t, sparql.FormDescribe, q.Form)
	assert.Nil(t, q.DescribeTargets)
}

func TestParseDescribeQueryTargets(t *testing.T) {
	q, err := ParseQuery(`PREFIX ex: <http://example.org/> DESCRIBE ex:a ?x`, "")
	require.NoError(t, err)
	require.Len(t, q.DescribeTargets, 2)
	assert.Equal(t, sparql.IRI("http://example.org/a"), q.DescribeTargets[0])
	assert.Equal(t, sparql.Variable("x"), q.DescribeTargets[1])
}

func TestParseConstructQueryExplicitTemplate(t *testing.T) {
	q, err := ParseQuery(`CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	assert.Equal(t, sparql.FormConstruct, q.Form)
	require.Len(t, q.Template, 1)
}

func TestParseConstructQueryWhereShorthand(t *testing.T) {
	q, err := ParseQuery(`CONSTRUCT WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	require.Len(t, q.Template, 1)
	assert.Equal(t, sparql.Variable("s"), q.Template[0].Subject)
}

func TestParseFromAndFromNamed(t *testing.T) {
	q, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * FROM ex:g1 FROM NAMED ex:g2 WHERE { ?s ?p ?o }`, "")
	require.NoError(t, err)
	assert.Equal(t, []sparql.IRI{"http://example.org/g1"}, q.Dataset.Default)
	assert.Equal(t, []sparql.IRI{"http://example.org/g2"}, q.Dataset.Named)
}

func TestParseQueryMissingWhereFails(t *testing.T) {
	_, err := ParseQuery(`SELECT * `, "")
	require.Error(t, err)
}
