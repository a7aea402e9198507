package tui

import (
	"github.com/gdamore/tcell/v2"
)

// DrawStatusBar draws a single-line status bar on the last row of the
// screen: a status message when one is set, the source path otherwise.
func DrawStatusBar(screen tcell.Screen, palette *Palette, statusMsg string, isErr bool, path string) {
	screenWidth, screenHeight := screen.Size()
	if screenHeight == 0 {
		return
	}

	row := screenHeight - 1
	sr := NewScreenRegion(screen, 0, row, screenWidth, 1)
	sr.Clear()

	if statusMsg != "" {
		style := palette.StyleForStatusMsg()
		if isErr {
			style = palette.StyleForStatusErr()
		}
		sr.DrawString(0, 0, statusMsg, style)
		return
	}

	sr.DrawString(0, 0, path, palette.StyleForStatusPath())
}
