package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlkit/sparqlkit/sparql"
)

func TestValuesSingleVariableFlatList(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { VALUES ?x { 1 2 3 } }`, "")
	require.NoError(t, err)
	table, ok := q.Pattern.(sparql.Table)
	require.True(t, ok, "a VALUES clause with nothing else in the group lowers straight to a Table")
	assert.Equal(t, []sparql.Variable{"x"}, table.Vars)
	require.Len(t, table.Rows, 3)
	for _, row := range table.Rows {
		require.Len(t, row, 1)
	}
}

func TestValuesMultiVariableRows(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { VALUES (?x ?y) { (1 2) (3 4) } }`, "")
	require.NoError(t, err)
	table := q.Pattern.(sparql.Table)
	assert.Equal(t, []sparql.Variable{"x", "y"}, table.Vars)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, sparql.Literal{Kind: sparql.TypedLiteral, Value: "1", Datatype: sparql.XSDInteger}, table.Rows[0][0])
	assert.Equal(t, sparql.Literal{Kind: sparql.TypedLiteral, Value: "2", Datatype: sparql.XSDInteger}, table.Rows[0][1])
}

func TestValuesUndefIsNilTerm(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { VALUES (?x ?y) { (1 UNDEF) } }`, "")
	require.NoError(t, err)
	table := q.Pattern.(sparql.Table)
	require.Len(t, table.Rows, 1)
	assert.NotNil(t, table.Rows[0][0])
	assert.Nil(t, table.Rows[0][1])
}

func TestValuesRowWidthMismatchFails(t *testing.T) {
	_, err := ParseQuery(`SELECT * WHERE { VALUES (?x ?y) { (1) } }`, "")
	require.Error(t, err)
}

func TestValuesJoinsOntoPrecedingTriples(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { ?s ?p ?o VALUES ?o { 1 } }`, "")
	require.NoError(t, err)
	join, ok := q.Pattern.(sparql.Join)
	require.True(t, ok, "VALUES after a non-empty triples block must Join onto it, not replace it")
	_, ok = join.Left.(sparql.Bgp)
	assert.True(t, ok)
	_, ok = join.Right.(sparql.Table)
	assert.True(t, ok)
}

func TestValuesEmptyDataBlockIsZeroRows(t *testing.T) {
	q, err := ParseQuery(`SELECT * WHERE { VALUES ?x { } }`, "")
	require.NoError(t, err)
	table := q.Pattern.(sparql.Table)
	assert.Empty(t, table.Rows)
}
