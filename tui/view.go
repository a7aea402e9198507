package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/shlex"
)

// line is one flattened, currently-visible row of the outline tree.
type line struct {
	node  *Node
	depth int
}

// View renders a Node tree as a navigable, collapsible outline and drives
// the terminal event loop for it.
type View struct {
	screen  tcell.Screen
	palette *Palette
	path    string

	root      Node
	collapsed map[*Node]bool
	cursor    int
	offset    int
	statusMsg string
	statusErr bool

	commandMode   bool
	commandBuf    string
	quitRequested bool

	// Commands, keyed by name without the leading ':', dispatched from the
	// command line. A handler returns an error to show in the status bar.
	Commands map[string]func(args []string) error
}

// NewView constructs a viewer over root, reading from and drawing to screen.
func NewView(screen tcell.Screen, root Node, path string) *View {
	return &View{
		screen:    screen,
		palette:   NewPalette(),
		path:      path,
		root:      root,
		collapsed: make(map[*Node]bool),
		Commands:  make(map[string]func(args []string) error),
	}
}

// SetRoot replaces the tree being viewed, for example after `:open` loads a
// new document, resetting cursor and collapse state.
func (v *View) SetRoot(root Node, path string) {
	v.root = root
	v.path = path
	v.collapsed = make(map[*Node]bool)
	v.cursor = 0
	v.offset = 0
}

// RunEventLoop draws the view and processes input until the user quits.
func (v *View) RunEventLoop() {
	v.draw()
	for {
		ev := v.screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if v.commandMode {
				v.handleCommandKey(e)
				if v.quitRequested {
					return
				}
			} else if v.handleKey(e) {
				return
			}
			v.draw()
		}
	}
}

func (v *View) handleKey(e *tcell.EventKey) (quit bool) {
	v.statusMsg = ""
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.moveCursor(-1)
	case tcell.KeyDown:
		v.moveCursor(1)
	case tcell.KeyPgUp:
		_, h := v.screen.Size()
		v.moveCursor(-(h - 1))
	case tcell.KeyPgDn:
		_, h := v.screen.Size()
		v.moveCursor(h - 1)
	case tcell.KeyEnter:
		v.toggleCursor()
	case tcell.KeyRune:
		switch e.Rune() {
		case 'q':
			return true
		case 'j':
			v.moveCursor(1)
		case 'k':
			v.moveCursor(-1)
		case ' ':
			v.toggleCursor()
		case ':':
			v.commandMode = true
			v.commandBuf = ""
			v.statusMsg = ""
		}
	}
	return false
}

// handleCommandKey reads one keystroke of the `:`-prefixed command line.
func (v *View) handleCommandKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.commandMode = false
		v.commandBuf = ""
	case tcell.KeyEnter:
		v.commandMode = false
		v.runCommand(v.commandBuf)
		v.commandBuf = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.commandBuf) > 0 {
			v.commandBuf = v.commandBuf[:len(v.commandBuf)-1]
		}
	case tcell.KeyRune:
		v.commandBuf += string(e.Rune())
	}
}

// runCommand tokenizes and dispatches a command line the way a shell would,
// reusing a shell-style lexer so quoted paths with spaces survive intact.
func (v *View) runCommand(line string) {
	fields, err := shlex.Split(line)
	if err != nil || len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]

	if name == "quit" {
		v.quitRequested = true
		return
	}

	handler, ok := v.Commands[name]
	if !ok {
		v.SetStatus("unknown command: "+name, true)
		return
	}
	if err := handler(args); err != nil {
		v.SetStatus(err.Error(), true)
	}
}

func (v *View) visibleLines() []line {
	var lines []line
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		lines = append(lines, line{node: n, depth: depth})
		if v.collapsed[n] {
			return
		}
		for i := range n.Children {
			walk(&n.Children[i], depth+1)
		}
	}
	walk(&v.root, 0)
	return lines
}

func (v *View) moveCursor(delta int) {
	lines := v.visibleLines()
	if len(lines) == 0 {
		return
	}
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.cursor >= len(lines) {
		v.cursor = len(lines) - 1
	}
}

func (v *View) toggleCursor() {
	lines := v.visibleLines()
	if v.cursor < 0 || v.cursor >= len(lines) {
		return
	}
	n := lines[v.cursor].node
	if len(n.Children) == 0 {
		return
	}
	v.collapsed[n] = !v.collapsed[n]
}

// visibleWindow slides offset so cursor stays within [0, height), mirroring
// how a scrollable selection list keeps its highlighted row on screen.
func visibleWindow(lines []line, cursor, offset, height int) (start, selectedIdx int) {
	if height <= 0 {
		return 0, 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(lines)-height && len(lines) > height {
		offset = len(lines) - height
	}
	return offset, cursor - offset
}

func (v *View) draw() {
	v.screen.Clear()
	screenWidth, screenHeight := v.screen.Size()
	treeHeight := screenHeight - 1
	if treeHeight < 0 {
		treeHeight = 0
	}

	lines := v.visibleLines()
	if v.cursor >= len(lines) {
		v.cursor = len(lines) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}

	v.offset, _ = visibleWindow(lines, v.cursor, v.offset, treeHeight)

	sr := NewScreenRegion(v.screen, 0, 0, screenWidth, treeHeight)
	for row := 0; row < treeHeight; row++ {
		idx := v.offset + row
		if idx >= len(lines) {
			break
		}
		v.drawLine(sr, row, lines[idx], idx == v.cursor)
	}

	if v.commandMode {
		cmdRegion := NewScreenRegion(v.screen, 0, screenHeight-1, screenWidth, 1)
		cmdRegion.Clear()
		col := cmdRegion.DrawString(0, 0, ":"+v.commandBuf, tcell.StyleDefault)
		cmdRegion.ShowCursor(col, 0)
	} else {
		DrawStatusBar(v.screen, v.palette, v.statusMsg, v.statusErr, v.path)
	}
	v.screen.Show()
}

func (v *View) drawLine(sr *ScreenRegion, row int, ln line, selected bool) {
	style := v.palette.StyleForKind(ln.node.Kind)
	if selected {
		style = v.palette.StyleForSelection()
	}

	marker := "  "
	if len(ln.node.Children) > 0 {
		if v.collapsed[ln.node] {
			marker = "+ "
		} else {
			marker = "- "
		}
	}

	indent := ""
	for i := 0; i < ln.depth; i++ {
		indent += "  "
	}

	sr.DrawString(0, row, indent+marker+ln.node.Label, style)
}

// SetStatus sets a one-line status message, replacing the path display
// until the next key press clears it.
func (v *View) SetStatus(msg string, isErr bool) {
	v.statusMsg = msg
	v.statusErr = isErr
}
