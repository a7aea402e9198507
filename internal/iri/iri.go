// Package iri validates and resolves Internationalized Resource Identifiers
// (RFC 3987) relative to an optional base, the way the parser needs them:
// every IRI that ends up in the algebra must be absolute and well-formed.
package iri

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by errors returned when an IRI reference fails to parse.
var ErrInvalid = errors.New("invalid IRI")

// Base is a pre-parsed absolute IRI used to resolve relative references.
type Base struct {
	raw *url.URL
}

// ParseBase parses s as an absolute IRI usable as a resolution base.
// It fails if s is not absolute (no scheme) or otherwise malformed.
func ParseBase(s string) (Base, error) {
	u, err := parseRef(s)
	if err != nil {
		return Base{}, errors.Wrapf(err, "parse base IRI %q", s)
	}
	if !u.IsAbs() {
		return Base{}, errors.Wrapf(ErrInvalid, "base IRI %q is not absolute", s)
	}
	return Base{raw: u}, nil
}

// String returns the original base IRI text.
func (b Base) String() string {
	if b.raw == nil {
		return ""
	}
	return b.raw.String()
}

// IsZero reports whether b carries no base IRI.
func (b Base) IsZero() bool {
	return b.raw == nil
}

// Resolve parses ref (absolute or relative) and resolves it against base.
// It returns the absolute, normalized IRI string.
// If base is the zero Base, ref must already be absolute.
func Resolve(ref string, base Base) (string, error) {
	u, err := parseRef(ref)
	if err != nil {
		return "", errors.Wrapf(err, "parse IRI reference %q", ref)
	}

	if u.IsAbs() {
		return u.String(), nil
	}

	if base.IsZero() {
		return "", errors.Wrapf(ErrInvalid, "relative IRI %q used without a base IRI", ref)
	}

	return base.raw.ResolveReference(u).String(), nil
}

// Validate reports whether s is a well-formed absolute IRI.
func Validate(s string) error {
	u, err := parseRef(s)
	if err != nil {
		return errors.Wrapf(err, "parse IRI %q", s)
	}
	if !u.IsAbs() {
		return errors.Wrapf(ErrInvalid, "IRI %q is not absolute", s)
	}
	return nil
}

// parseRef parses an IRI reference leniently enough to accept the
// Unicode characters RFC 3987 allows beyond plain RFC 3986 ASCII,
// while still rejecting the handful of characters SPARQL explicitly
// forbids inside an IRIREF (control characters and `<>"{}|^\``).
func parseRef(s string) (*url.URL, error) {
	if i := strings.IndexFunc(s, isForbiddenIRIChar); i >= 0 {
		return nil, errors.Errorf("disallowed character %q in IRI %q", rune(s[i]), s)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func isForbiddenIRIChar(r rune) bool {
	if r <= 0x20 {
		return true
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}
