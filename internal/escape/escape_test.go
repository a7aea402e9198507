package escape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparqlkit/sparqlkit/internal/escape"
)

func TestUnescapeUnicodeNoOp(t *testing.T) {
	s := "SELECT * WHERE { ?s ?p ?o }"
	got := escape.UnescapeUnicode(s)
	assert.Equal(t, s, got)
}

func TestUnescapeUnicodeShortAndLongForms(t *testing.T) {
	assert.Equal(t, "aéb", escape.UnescapeUnicode("a\\u00e9b"))
	assert.Equal(t, "a\U0001F600b", escape.UnescapeUnicode(`a\U0001F600b`))
}

func TestUnescapeUnicodeInvalidEscapePassesThrough(t *testing.T) {
	assert.Equal(t, `a\uZZZZb`, escape.UnescapeUnicode(`a\uZZZZb`))
	assert.Equal(t, `a\uD800b`, escape.UnescapeUnicode(`a\uD800b`)) // surrogate rejected
}

func TestUnescapeUnicodeInKeywordPosition(t *testing.T) {
	got := escape.UnescapeUnicode("\\u0053ELECT * WHERE {}")
	assert.Equal(t, "SELECT * WHERE {}", got)
}

func TestUnescapeStringLiteralEscapes(t *testing.T) {
	assert.Equal(t, "a\tb\nc\"d'e\\f", escape.UnescapeString(`a\tb\nc\"d\'e\\f`))
}

func TestUnescapeStringUnknownEscapePassesThrough(t *testing.T) {
	assert.Equal(t, `a\qb`, escape.UnescapeString(`a\qb`))
}

func TestUnescapeLocalName(t *testing.T) {
	assert.Equal(t, "a.b-c_d", escape.UnescapeLocalName(`a\.b\-c\_d`))
}

func TestUnescapeLocalNameUnknownEscapePassesThrough(t *testing.T) {
	assert.Equal(t, `a\qb`, escape.UnescapeLocalName(`a\qb`))
}
