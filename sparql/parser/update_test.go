package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlkit/sparqlkit/sparql"
)

func TestInsertData(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> INSERT DATA { ex:s ex:p ex:o }`, "")
	require.NoError(t, err)
	require.Len(t, u.Operations, 1)
	ins, ok := u.Operations[0].(sparql.InsertData)
	require.True(t, ok)
	require.Len(t, ins.Quads, 1)
	assert.Equal(t, sparql.IRI("http://example.org/s"), ins.Quads[0].Subject)
}

func TestInsertDataRejectsVariables(t *testing.T) {
	_, err := ParseUpdate(`INSERT DATA { ?s <http://example.org/p> <http://example.org/o> }`, "")
	require.Error(t, err)
}

func TestDeleteDataIntoNamedGraph(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> DELETE DATA { GRAPH ex:g { ex:s ex:p ex:o } }`, "")
	require.NoError(t, err)
	del, ok := u.Operations[0].(sparql.DeleteData)
	require.True(t, ok)
	require.Len(t, del.Quads, 1)
	assert.Equal(t, sparql.IRI("http://example.org/g"), del.Quads[0].Graph)
}

func TestDeleteWhereUsesTemplateAsPattern(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> DELETE WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	di, ok := u.Operations[0].(sparql.DeleteInsert)
	require.True(t, ok)
	require.Len(t, di.Delete, 1)
	require.NotNil(t, di.Pattern)
	assert.Nil(t, di.Insert)
}

func TestDeleteWhereRejectsBlankNodes(t *testing.T) {
	_, err := ParseUpdate(`PREFIX ex: <http://example.org/> DELETE WHERE { _:b ex:p ?o }`, "")
	require.Error(t, err)
}

func TestModifyDeleteInsertWhere(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> DELETE { ?s ex:old ?o } INSERT { ?s ex:new ?o } WHERE { ?s ex:old ?o }`, "")
	require.NoError(t, err)
	di, ok := u.Operations[0].(sparql.DeleteInsert)
	require.True(t, ok)
	require.Len(t, di.Delete, 1)
	require.Len(t, di.Insert, 1)
	assert.Equal(t, sparql.IRI("http://example.org/old"), di.Delete[0].Predicate)
	assert.Equal(t, sparql.IRI("http://example.org/new"), di.Insert[0].Predicate)
}

func TestModifyInsertOnly(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> INSERT { ?s ex:new ?o } WHERE { ?s ex:old ?o }`, "")
	require.NoError(t, err)
	di, ok := u.Operations[0].(sparql.DeleteInsert)
	require.True(t, ok)
	assert.Nil(t, di.Delete)
	require.Len(t, di.Insert, 1)
}

func TestModifyWithGraphAppliesToUnqualifiedQuads(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> WITH ex:g DELETE { ?s ex:p ?o } WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	di := u.Operations[0].(sparql.DeleteInsert)
	require.Len(t, di.Delete, 1)
	assert.Equal(t, sparql.IRI("http://example.org/g"), di.Delete[0].Graph)
	// WITH also wraps the WHERE pattern in a Graph node.
	_, ok := di.Pattern.(sparql.Graph)
	assert.True(t, ok)
}

func TestModifyWithGraphDoesNotOverrideExplicitGraphBlock(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> WITH ex:g DELETE { GRAPH ex:other { ?s ex:p ?o } } WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	di := u.Operations[0].(sparql.DeleteInsert)
	require.Len(t, di.Delete, 1)
	assert.Equal(t, sparql.IRI("http://example.org/other"), di.Delete[0].Graph)
}

func TestModifyUsingClause(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> DELETE { ?s ex:p ?o } USING ex:g USING NAMED ex:h WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	di := u.Operations[0].(sparql.DeleteInsert)
	assert.Equal(t, []sparql.IRI{"http://example.org/g"}, di.Using.Default)
	assert.Equal(t, []sparql.IRI{"http://example.org/h"}, di.Using.Named)
}

func TestMultipleOperationsSeparatedBySemicolon(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> INSERT DATA { ex:s ex:p ex:o } ; INSERT DATA { ex:s2 ex:p2 ex:o2 }`, "")
	require.NoError(t, err)
	require.Len(t, u.Operations, 2)
}

func TestAddRewritesToSingleCopyGraphOperation(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> ADD ex:a TO ex:b`, "")
	require.NoError(t, err)
	// ADD has no leading DROP/CLEAR at all: just the one copy_graph rewrite.
	require.Len(t, u.Operations, 1)

	di, ok := u.Operations[0].(sparql.DeleteInsert)
	require.True(t, ok)
	assert.Empty(t, di.Delete)
	require.Len(t, di.Insert, 1)
	assert.Equal(t, sparql.IRI("http://example.org/b"), di.Insert[0].Graph)

	graph, ok := di.Pattern.(sparql.Graph)
	require.True(t, ok, "a named source graph wraps the ?s ?p ?o read in a Graph node")
	assert.Equal(t, sparql.IRI("http://example.org/a"), graph.Name)
}

func TestAddSilentIsParsedButHasNoEffect(t *testing.T) {
	// Per the reference grammar, ADD's SILENT keyword is consumed but never
	// threaded into anything the rewrite emits.
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> ADD SILENT ex:a TO ex:b`, "")
	require.NoError(t, err)
	require.Len(t, u.Operations, 1)
	_, ok := u.Operations[0].(sparql.DeleteInsert)
	assert.True(t, ok)
}

func TestMoveRewritesToDropCopyGraphDrop(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> MOVE ex:a TO ex:b`, "")
	require.NoError(t, err)
	require.Len(t, u.Operations, 3)

	dropDest, ok := u.Operations[0].(sparql.Drop)
	require.True(t, ok)
	assert.Equal(t, sparql.IRI("http://example.org/b"), dropDest.Target.Name)
	assert.True(t, dropDest.Silent, "MOVE's leading drop of the destination is unconditionally silent")

	di, ok := u.Operations[1].(sparql.DeleteInsert)
	require.True(t, ok)
	require.Len(t, di.Insert, 1)
	assert.Equal(t, sparql.IRI("http://example.org/b"), di.Insert[0].Graph)

	dropSource, ok := u.Operations[2].(sparql.Drop)
	require.True(t, ok)
	assert.Equal(t, sparql.IRI("http://example.org/a"), dropSource.Target.Name)
	assert.False(t, dropSource.Silent, "MOVE's trailing drop of the source carries the user's SILENT flag, unlike the leading drop")
}

func TestMoveSilentAppliesOnlyToTrailingDrop(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> MOVE SILENT ex:a TO ex:b`, "")
	require.NoError(t, err)
	dropSource := u.Operations[2].(sparql.Drop)
	assert.True(t, dropSource.Silent)
	dropDest := u.Operations[0].(sparql.Drop)
	assert.True(t, dropDest.Silent, "the leading destination drop was already silent regardless of the user's flag")
}

func TestCopyToDefaultGraphOmitsGraphWrapper(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> COPY ex:a TO DEFAULT`, "")
	require.NoError(t, err)
	require.Len(t, u.Operations, 2)
	drop, ok := u.Operations[0].(sparql.Drop)
	require.True(t, ok)
	assert.Equal(t, sparql.RefDefault, drop.Target.Kind)
	assert.True(t, drop.Silent)

	di, ok := u.Operations[1].(sparql.DeleteInsert)
	require.True(t, ok)
	assert.Equal(t, sparql.DefaultGraph{}, di.Insert[0].Graph)
	graph, isGraph := di.Pattern.(sparql.Graph)
	require.True(t, isGraph, "the source ex:a is a named graph, so it still reads through a Graph wrapper even though the destination is DEFAULT")
	assert.Equal(t, sparql.IRI("http://example.org/a"), graph.Name)
}

func TestSameSourceAndDestinationIsNoOp(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> MOVE ex:a TO ex:a`, "")
	require.NoError(t, err)
	assert.Empty(t, u.Operations)
}

func TestClearSilentDefault(t *testing.T) {
	u, err := ParseUpdate(`CLEAR SILENT DEFAULT`, "")
	require.NoError(t, err)
	clear := u.Operations[0].(sparql.Clear)
	assert.Equal(t, sparql.RefDefault, clear.Target.Kind)
	assert.True(t, clear.Silent)
}

func TestDropNamed(t *testing.T) {
	u, err := ParseUpdate(`DROP NAMED`, "")
	require.NoError(t, err)
	drop := u.Operations[0].(sparql.Drop)
	assert.Equal(t, sparql.RefNamed, drop.Target.Kind)
}

func TestCreateGraph(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> CREATE GRAPH ex:g`, "")
	require.NoError(t, err)
	create := u.Operations[0].(sparql.Create)
	assert.Equal(t, sparql.IRI("http://example.org/g"), create.Graph)
}

func TestLoadIntoGraph(t *testing.T) {
	u, err := ParseUpdate(`PREFIX ex: <http://example.org/> LOAD ex:src INTO GRAPH ex:dst`, "")
	require.NoError(t, err)
	load := u.Operations[0].(sparql.Load)
	assert.Equal(t, sparql.IRI("http://example.org/src"), load.Source)
	require.NotNil(t, load.Destination)
	assert.Equal(t, sparql.IRI("http://example.org/dst"), *load.Destination)
}

func TestServiceGraphPatternIsUnconditionallySilent(t *testing.T) {
	// A deliberately-preserved quirk of the reference grammar: SERVICE's
	// Silent flag is always true in the produced algebra, regardless of
	// whether the user wrote the SILENT keyword.
	q, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { SERVICE ex:endpoint { ?s ?p ?o } }`, "")
	require.NoError(t, err)
	svc, ok := q.Pattern.(sparql.Service)
	require.True(t, ok)
	assert.True(t, svc.Silent)

	q2, err := ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { SERVICE SILENT ex:endpoint { ?s ?p ?o } }`, "")
	require.NoError(t, err)
	svc2 := q2.Pattern.(sparql.Service)
	assert.True(t, svc2.Silent)
}
