package iri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlkit/sparqlkit/internal/iri"
)

func TestValidateAbsolute(t *testing.T) {
	require.NoError(t, iri.Validate("http://example.com/a"))
	require.NoError(t, iri.Validate("urn:isbn:0451450523"))
}

func TestValidateRejectsRelative(t *testing.T) {
	err := iri.Validate("/just/a/path")
	require.Error(t, err)
}

func TestValidateRejectsForbiddenChars(t *testing.T) {
	for _, s := range []string{"http://e/ a", "http://e/<a>", "http://e/a\"b"} {
		require.Error(t, iri.Validate(s), s)
	}
}

func TestResolveAbsoluteIgnoresBase(t *testing.T) {
	base, err := iri.ParseBase("http://example.com/base/")
	require.NoError(t, err)

	got, err := iri.Resolve("http://other.com/x", base)
	require.NoError(t, err)
	assert.Equal(t, "http://other.com/x", got)
}

func TestResolveRelativeAgainstBase(t *testing.T) {
	base, err := iri.ParseBase("http://example.com/a/b")
	require.NoError(t, err)

	got, err := iri.Resolve("c", base)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/c", got)

	got, err = iri.Resolve("../d", base)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/d", got)
}

func TestResolveRelativeWithoutBaseFails(t *testing.T) {
	_, err := iri.Resolve("relative", iri.Base{})
	require.Error(t, err)
}

func TestParseBaseRejectsRelative(t *testing.T) {
	_, err := iri.ParseBase("not-absolute")
	require.Error(t, err)
}
