package tui

import (
	"github.com/gdamore/tcell/v2"
)

// NodeKind classifies an outline line so the palette can style it distinctly
// from its siblings, the same way a syntax highlighter keys styles off
// lexical token role instead of off each token's literal text.
type NodeKind int

const (
	KindDefault NodeKind = iota
	KindQuery
	KindUpdate
	KindPattern
	KindExpression
	KindTriple
	KindTerm
	KindClause
	KindComment
)

// Palette controls the style used to draw each kind of outline node, plus
// the chrome (status bar, borders) around the tree view.
type Palette struct {
	lineStyles      map[NodeKind]tcell.Style
	selectionStyle  tcell.Style
	borderStyle     tcell.Style
	statusPathStyle tcell.Style
	statusMsgStyle  tcell.Style
	statusErrStyle  tcell.Style
}

// NewPalette builds the default palette.
func NewPalette() *Palette {
	s := tcell.StyleDefault
	return &Palette{
		lineStyles: map[NodeKind]tcell.Style{
			KindQuery:      s.Foreground(tcell.ColorOrange).Bold(true),
			KindUpdate:     s.Foreground(tcell.ColorOrange).Bold(true),
			KindPattern:    s.Foreground(tcell.ColorFuchsia),
			KindExpression: s.Foreground(tcell.ColorTeal),
			KindTriple:     s.Foreground(tcell.ColorGreen),
			KindTerm:       s.Foreground(tcell.ColorRed),
			KindClause:     s.Foreground(tcell.ColorBlue),
			KindComment:    s.Dim(true),
			KindDefault:    s,
		},
		selectionStyle:  s.Reverse(true),
		borderStyle:     s.Dim(true),
		statusPathStyle: s,
		statusMsgStyle:  s.Foreground(tcell.ColorGreen).Bold(true),
		statusErrStyle:  s.Background(tcell.ColorRed).Foreground(tcell.ColorWhite).Bold(true),
	}
}

// StyleForKind returns the style to use for a node of the given kind.
func (p *Palette) StyleForKind(kind NodeKind) tcell.Style {
	if s, ok := p.lineStyles[kind]; ok {
		return s
	}
	return p.lineStyles[KindDefault]
}

func (p *Palette) StyleForSelection() tcell.Style { return p.selectionStyle }
func (p *Palette) StyleForBorder() tcell.Style    { return p.borderStyle }
func (p *Palette) StyleForStatusPath() tcell.Style { return p.statusPathStyle }
func (p *Palette) StyleForStatusMsg() tcell.Style  { return p.statusMsgStyle }
func (p *Palette) StyleForStatusErr() tcell.Style  { return p.statusErrStyle }
