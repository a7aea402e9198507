package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/sparqlkit/sparqlkit/cellwidth"
)

// ScreenRegion draws to a rectangular region of a screen, translating
// region-local coordinates into screen coordinates and clipping writes
// that fall outside its bounds.
type ScreenRegion struct {
	screen              tcell.Screen
	x, y, width, height int
}

// NewScreenRegion defines a new rectangular region within a screen.
func NewScreenRegion(screen tcell.Screen, x, y, width, height int) *ScreenRegion {
	return &ScreenRegion{screen, x, y, width, height}
}

// Clear resets every cell in the region to a blank space.
func (r *ScreenRegion) Clear() {
	r.Fill(' ', tcell.StyleDefault)
}

// Fill fills every cell in the region with a single rune.
func (r *ScreenRegion) Fill(c rune, style tcell.Style) {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			r.SetContent(x, y, c, nil, style)
		}
	}
}

// SetContent sets a single cell's content, relative to the region's origin.
// Writes outside the region or screen bounds are ignored.
func (r *ScreenRegion) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	r.screen.SetContent(r.x+x, r.y+y, mainc, combc, style)
}

// DrawString writes str left to right starting at (x, y), clipped to the
// region width, without wrapping to the next row. It returns the column
// immediately after the last rune written.
func (r *ScreenRegion) DrawString(x, y int, str string, style tcell.Style) int {
	col := x
	for _, c := range str {
		w := cellwidth.RuneWidth(c)
		if w == 0 {
			w = 1
		}
		if col+w > r.width {
			break
		}
		r.SetContent(col, y, c, nil, style)
		col += w
	}
	return col
}

// HideCursor prevents the cursor from being displayed.
func (r *ScreenRegion) HideCursor() {
	r.screen.HideCursor()
}

// ShowCursor sets the cursor's position, relative to the region's origin.
// Coordinates outside the region hide the cursor instead.
func (r *ScreenRegion) ShowCursor(x, y int) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		r.HideCursor()
		return
	}
	r.screen.ShowCursor(r.x+x, r.y+y)
}

// Size returns the width and height of the region.
func (r *ScreenRegion) Size() (width int, height int) {
	return r.width, r.height
}
