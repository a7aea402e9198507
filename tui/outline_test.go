package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlkit/sparqlkit/sparql/parser"
)

// flatten collects every node label in the tree, depth-first, for substring
// assertions without hard-coding the tree's exact shape.
func flatten(n Node) []string {
	out := []string{n.Label}
	for _, c := range n.Children {
		out = append(out, flatten(c)...)
	}
	return out
}

func containsLabel(labels []string, substr string) bool {
	for _, l := range labels {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestBuildQueryOutlineSelect(t *testing.T) {
	q, err := parser.ParseQuery(`PREFIX ex: <http://example.org/> SELECT DISTINCT ?s WHERE { ?s ex:p ?o } LIMIT 10`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	assert.Equal(t, KindQuery, root.Kind)
	assert.Equal(t, "SELECT", root.Label)

	labels := flatten(root)
	assert.True(t, containsLabel(labels, "SELECT DISTINCT ?s"))
	assert.True(t, containsLabel(labels, "WHERE"))
}

func TestBuildQueryOutlineIncludesBase(t *testing.T) {
	q, err := parser.ParseQuery(`SELECT * WHERE { ?s ?p ?o }`, "http://example.org/")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "BASE http://example.org/"))
}

func TestBuildQueryOutlineConstruct(t *testing.T) {
	q, err := parser.ParseQuery(`PREFIX ex: <http://example.org/> CONSTRUCT { ?s ex:q ?o } WHERE { ?s ex:p ?o }`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	assert.Equal(t, "CONSTRUCT", root.Label)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "CONSTRUCT TEMPLATE (1 triples)"))
}

func TestBuildQueryOutlineDescribeTargets(t *testing.T) {
	q, err := parser.ParseQuery(`PREFIX ex: <http://example.org/> DESCRIBE ex:a ex:b`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "DESCRIBE TARGETS"))
	assert.True(t, containsLabel(labels, "http://example.org/a"))
	assert.True(t, containsLabel(labels, "http://example.org/b"))
}

func TestBuildQueryOutlineAsk(t *testing.T) {
	q, err := parser.ParseQuery(`ASK { ?s ?p ?o }`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	assert.Equal(t, "ASK", root.Label)
}

func TestBuildQueryOutlineFilterAndExpr(t *testing.T) {
	q, err := parser.ParseQuery(`SELECT * WHERE { ?s ?p ?o FILTER(?o > 1 && BOUND(?s)) }`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "Filter"))
	assert.True(t, containsLabel(labels, "&&"))
	assert.True(t, containsLabel(labels, "BOUND"))
}

func TestBuildQueryOutlineGroupAndAggregate(t *testing.T) {
	q, err := parser.ParseQuery(`SELECT (COUNT(?o) AS ?n) WHERE { ?s ?p ?o } GROUP BY ?s`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "Group"))
	assert.True(t, containsLabel(labels, "COUNT"))
	assert.True(t, containsLabel(labels, "by ?s"))
}

func TestBuildQueryOutlinePropertyPath(t *testing.T) {
	q, err := parser.ParseQuery(`PREFIX ex: <http://example.org/> SELECT * WHERE { ?s (ex:p/ex:q)* ?o }`, "")
	require.NoError(t, err)
	root := BuildQueryOutline(q)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "http://example.org/p/http://example.org/q"))
}

func TestBuildUpdateOutlineInsertData(t *testing.T) {
	u, err := parser.ParseUpdate(`PREFIX ex: <http://example.org/> INSERT DATA { ex:s ex:p ex:o }`, "")
	require.NoError(t, err)
	root := BuildUpdateOutline(u)
	assert.Equal(t, KindUpdate, root.Kind)
	assert.Contains(t, root.Label, "UPDATE (1 operations)")
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "INSERT DATA (1 quads)"))
}

func TestBuildUpdateOutlineAddRewrite(t *testing.T) {
	u, err := parser.ParseUpdate(`PREFIX ex: <http://example.org/> ADD ex:a TO ex:b`, "")
	require.NoError(t, err)
	root := BuildUpdateOutline(u)
	labels := flatten(root)
	// ADD has no leading DROP/CLEAR step: just the one DELETE/INSERT rewrite.
	assert.True(t, containsLabel(labels, "DELETE/INSERT"))
	assert.True(t, containsLabel(labels, "INSERT (1 quads)"))
	assert.True(t, containsLabel(labels, "WHERE"))
}

func TestBuildUpdateOutlineMoveRewrite(t *testing.T) {
	u, err := parser.ParseUpdate(`PREFIX ex: <http://example.org/> MOVE ex:a TO ex:b`, "")
	require.NoError(t, err)
	root := BuildUpdateOutline(u)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "DROP SILENT GRAPH http://example.org/b"))
	assert.True(t, containsLabel(labels, "DELETE/INSERT"))
	assert.True(t, containsLabel(labels, "DROP GRAPH http://example.org/a"))
}

func TestBuildUpdateOutlineDeleteInsertWhere(t *testing.T) {
	u, err := parser.ParseUpdate(`PREFIX ex: <http://example.org/> DELETE { ?s ex:old ?o } INSERT { ?s ex:new ?o } WHERE { ?s ex:old ?o }`, "")
	require.NoError(t, err)
	root := BuildUpdateOutline(u)
	labels := flatten(root)
	assert.True(t, containsLabel(labels, "DELETE/INSERT"))
	assert.True(t, containsLabel(labels, "DELETE (1 quads)"))
	assert.True(t, containsLabel(labels, "INSERT (1 quads)"))
	assert.True(t, containsLabel(labels, "WHERE"))
}
