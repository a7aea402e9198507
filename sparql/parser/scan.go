package parser

import (
	"regexp"
	"strings"
)

// scanner is the low-level, rune-position-tracking cursor the grammar
// recognizer is built on. It never backtracks past a position it has
// already advanced beyond; callers that need lookahead snapshot pos first
// and restore it on failure (the PEG "ordered choice, no backtracking
// beyond alternative boundaries" rule from the grammar design).
type scanner struct {
	src []rune
	pos int
}

func newScanner(s string) *scanner {
	return &scanner{src: []rune(s)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) save() int     { return s.pos }
func (s *scanner) restore(p int) { s.pos = p }
func (s *scanner) unadvance()    { s.pos-- }

// lineCol computes 1-based line/column for the current position, scanning
// from the start. Only called when constructing an error, so its linear
// cost is acceptable.
func (s *scanner) lineCol(pos int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < pos && i < len(s.src); i++ {
		if s.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// skipWS skips whitespace and '#' line comments.
func (s *scanner) skipWS() {
	for !s.eof() {
		r := s.src[s.pos]
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			s.pos++
		case r == '#':
			for !s.eof() && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// matchLiteral consumes exact text lit (after skipping whitespace) if
// present, case-sensitively. Used for punctuation and operator tokens.
func (s *scanner) matchLiteral(lit string) bool {
	s.skipWS()
	r := []rune(lit)
	if s.pos+len(r) > len(s.src) {
		return false
	}
	for i, c := range r {
		if s.src[s.pos+i] != c {
			return false
		}
	}
	s.pos += len(r)
	return true
}

// peekLiteral reports whether lit is next, without consuming it.
func (s *scanner) peekLiteral(lit string) bool {
	p := s.save()
	ok := s.matchLiteral(lit)
	s.restore(p)
	return ok
}

// matchKeyword consumes a case-insensitive keyword (after skipping
// whitespace), requiring that it not be immediately followed by another
// identifier character (so "GROUPX" does not match keyword "GROUP").
func (s *scanner) matchKeyword(kw string) bool {
	s.skipWS()
	r := []rune(kw)
	if s.pos+len(r) > len(s.src) {
		return false
	}
	for i, c := range r {
		if toLowerRune(s.src[s.pos+i]) != toLowerRune(c) {
			return false
		}
	}
	if s.pos+len(r) < len(s.src) && isIdentRune(s.src[s.pos+len(r)]) {
		return false
	}
	s.pos += len(r)
	return true
}

// peekKeyword reports whether kw is next, without consuming it.
func (s *scanner) peekKeyword(kw string) bool {
	p := s.save()
	ok := s.matchKeyword(kw)
	s.restore(p)
	return ok
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// matchRegexp anchors re at the current position (after skipping
// whitespace, unless skipWS is false) and, on match, consumes and returns
// the matched text.
func (s *scanner) matchRegexp(re *regexp.Regexp, skipWS bool) (string, bool) {
	if skipWS {
		s.skipWS()
	}
	rest := string(s.src[s.pos:])
	loc := re.FindStringIndex(rest)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	matched := rest[:loc[1]]
	s.pos += len([]rune(matched))
	return matched, true
}

var (
	reIRIREF    = regexp.MustCompile(`^<[^<>"{}|^` + "`" + `\\\x00-\x20]*>`)
	rePNameNS   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.-]*)?:`)
	rePNameLN   = regexp.MustCompile(`^((?:\\.|[A-Za-z0-9_.\-:%])*)`)
	reBlankNode = regexp.MustCompile(`^_:([A-Za-z0-9_][A-Za-z0-9_.-]*)`)
	reVarName   = regexp.MustCompile(`^[A-Za-z0-9_\x{00C0}-\x{FFFF}]+`)
	reInteger   = regexp.MustCompile(`^[+-]?[0-9]+`)
	reDecimal   = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+`)
	reDouble    = regexp.MustCompile(`^[+-]?(?:[0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)[eE][+-]?[0-9]+`)
	reLangTag   = regexp.MustCompile(`^[a-zA-Z]+(?:-[a-zA-Z0-9]+)*`)
)

// parseIRIREF recognizes `<...>`, returning its unresolved inner text.
func (s *scanner) parseIRIRefToken() (string, bool) {
	s.skipWS()
	m, ok := s.matchRegexp(reIRIREF, false)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(m, "<"), ">"), true
}
