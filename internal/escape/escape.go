// Package escape implements the two character-level unescaping passes the
// grammar recognizer needs: a whole-document Unicode code-point preprocessor
// that runs before grammar recognition, and lazy unescapers for string
// literal content and prefixed-name local parts, invoked from grammar
// actions. The numeric-escape handling is grounded on the lexer unescape
// routines of a production Turtle/N-Triples reader, adapted from byte-buffer
// scanning to a borrow-when-possible rune scan.
package escape

import (
	"strconv"
	"strings"
)

// UnescapeUnicode interprets \uHHHH and \UHHHHHHHH code-point escapes
// anywhere in s, including inside keywords and prefixes, before grammar
// recognition begins. If s contains no backslash-u/U escape, the original
// string is returned unchanged (no allocation). Invalid escapes (non-hex
// digits, surrogate code points, out-of-range values) are passed through
// verbatim as a literal backslash followed by the original characters, so
// the grammar can still report a precise error at the affected position.
func UnescapeUnicode(s string) string {
	if !strings.ContainsAny(s, "\\") || !hasUnicodeEscape(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	r := []rune(s)
	for i := 0; i < len(r); i++ {
		if r[i] != '\\' || i+1 >= len(r) {
			b.WriteRune(r[i])
			continue
		}

		switch r[i+1] {
		case 'u':
			if cp, n, ok := parseHexCodePoint(r, i+2, 4); ok {
				b.WriteRune(cp)
				i += 1 + n
				continue
			}
		case 'U':
			if cp, n, ok := parseHexCodePoint(r, i+2, 8); ok {
				b.WriteRune(cp)
				i += 1 + n
				continue
			}
		}
		b.WriteRune(r[i])
	}
	return b.String()
}

func hasUnicodeEscape(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\\' && (s[i+1] == 'u' || s[i+1] == 'U') {
			return true
		}
	}
	return false
}

// parseHexCodePoint parses exactly width hex digits starting at r[start] and
// validates the resulting code point is not a surrogate and is in range.
func parseHexCodePoint(r []rune, start, width int) (rune, int, bool) {
	if start+width > len(r) {
		return 0, 0, false
	}
	for i := 0; i < width; i++ {
		if !isHexDigit(r[start+i]) {
			return 0, 0, false
		}
	}
	v, err := strconv.ParseInt(string(r[start:start+width]), 16, 64)
	if err != nil {
		return 0, 0, false
	}
	cp := rune(v)
	if cp >= 0xD800 && cp <= 0xDFFF {
		return 0, 0, false
	}
	if cp > 0x10FFFF {
		return 0, 0, false
	}
	return cp, width, true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// stringEscapes maps a string-literal escape character to its code point.
var stringEscapes = map[rune]rune{
	't': '\t', 'b': '\b', 'n': '\n', 'r': '\r', 'f': '\f',
	'"': '"', '\'': '\'', '\\': '\\',
}

// localNameEscapes is the set of characters a prefixed-name local part may
// escape with a backslash (SPARQL's PN_LOCAL_ESC production).
var localNameEscapes = map[rune]bool{
	'_': true, '~': true, '.': true, '-': true, '!': true, '$': true,
	'&': true, '\'': true, '(': true, ')': true, '*': true, '+': true,
	',': true, ';': true, '=': true, '/': true, '?': true, '#': true,
	'@': true, '%': true,
}

// UnescapeString decodes backslash escapes inside already-tokenized string
// literal content ({t b n r f " ' \}). An unrecognized escape sequence is
// passed through as the literal backslash followed by the next character.
func UnescapeString(s string) string {
	return unescapeWith(s, func(next rune) (rune, bool) {
		c, ok := stringEscapes[next]
		return c, ok
	})
}

// UnescapeLocalName decodes backslash escapes inside a prefixed name's local
// part (the PN_LOCAL_ESC punctuation/percent set).
func UnescapeLocalName(s string) string {
	return unescapeWith(s, func(next rune) (rune, bool) {
		return next, localNameEscapes[next]
	})
}

// decodeEscapeFn maps the character following a backslash to its decoded
// code point, reporting whether it was a recognized escape.
type decodeEscapeFn func(next rune) (rune, bool)

func unescapeWith(s string, decode decodeEscapeFn) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	r := []rune(s)
	for i := 0; i < len(r); i++ {
		if r[i] != '\\' || i+1 >= len(r) {
			b.WriteRune(r[i])
			continue
		}

		if c, ok := decode(r[i+1]); ok {
			b.WriteRune(c)
			i++
			continue
		}
		b.WriteRune(r[i])
	}
	return b.String()
}
