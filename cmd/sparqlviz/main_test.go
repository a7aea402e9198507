package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparqlkit/sparqlkit/config"
)

func TestLooksLikeUpdateMatchesRuExtension(t *testing.T) {
	assert.True(t, looksLikeUpdate("/tmp/edit.ru"))
	assert.True(t, looksLikeUpdate("/tmp/EDIT.RU"))
	assert.False(t, looksLikeUpdate("/tmp/query.rq"))
	assert.False(t, looksLikeUpdate("/tmp/query"))
}

func TestSeedPrefixesNoNamespacesIsIdentity(t *testing.T) {
	input := "SELECT * WHERE { ?s ?p ?o }"
	out := seedPrefixes(input, config.DefaultProfile())
	assert.Equal(t, input, out)
}

func TestSeedPrefixesPrependsDeclarations(t *testing.T) {
	input := "SELECT * WHERE { ?s ex:p ?o }"
	profile := config.Profile{Namespaces: map[string]string{"ex": "http://example.org/"}}
	out := seedPrefixes(input, profile)
	assert.True(t, strings.HasPrefix(out, "PREFIX ex: <http://example.org/>"))
	assert.True(t, strings.HasSuffix(out, input))
}

func TestSeedPrefixesEachNamespaceGetsOwnLine(t *testing.T) {
	input := "SELECT * WHERE { ?s ?p ?o }"
	profile := config.Profile{Namespaces: map[string]string{
		"ex":  "http://example.org/",
		"foaf": "http://xmlns.com/foaf/0.1/",
	}}
	out := seedPrefixes(input, profile)
	assert.Contains(t, out, "PREFIX ex: <http://example.org/>\n")
	assert.Contains(t, out, "PREFIX foaf: <http://xmlns.com/foaf/0.1/>\n")
}
