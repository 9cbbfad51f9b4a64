package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ray-pilot/core"
)

// halfBlock packs two vertical pixels into one cell: fg is the top pixel, bg the bottom
const halfBlock = '▀'

// Screen is the subset of tcell.Screen the presenter writes to
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
	Show()
}

// Status is the text shown on the bottom line
type Status struct {
	Session string
	State   string
	Visited int
	Total   int
	Mode    string
}

func (s Status) String() string {
	return fmt.Sprintf(" %s | %s | %s | visited %d/%d | q quit p pilot m map b bird",
		s.Session, s.Mode, s.State, s.Visited, s.Total)
}

// TerminalPresenter scales frames onto a terminal with half-block cells
type TerminalPresenter struct {
	screen Screen
	status tcell.Style
}

// NewTerminalPresenter wraps screen
func NewTerminalPresenter(screen Screen) *TerminalPresenter {
	return &TerminalPresenter{
		screen: screen,
		status: tcell.StyleDefault.
			Foreground(RGBToTcell(core.RGBWhite)).
			Background(RGBToTcell(core.RGB{R: 40, G: 40, B: 60})),
	}
}

// RGBToTcell converts RGB to tcell.Color
func RGBToTcell(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Present draws frame over all rows but the last, then the status line, and flushes
func (p *TerminalPresenter) Present(frame *Frame, status Status) {
	cols, rows := p.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	viewRows := rows - 1
	pixelRows := viewRows * 2

	if frame.Width > 0 && frame.Height > 0 && viewRows > 0 {
		for cy := 0; cy < viewRows; cy++ {
			topY := (cy * 2) * frame.Height / pixelRows
			botY := (cy*2 + 1) * frame.Height / pixelRows
			for cx := 0; cx < cols; cx++ {
				fx := cx * frame.Width / cols
				style := tcell.StyleDefault.
					Foreground(RGBToTcell(frame.At(fx, topY))).
					Background(RGBToTcell(frame.At(fx, botY)))
				p.screen.SetContent(cx, cy, halfBlock, nil, style)
			}
		}
	}

	text := []rune(status.String())
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		p.screen.SetContent(x, rows-1, r, nil, p.status)
	}
	p.screen.Show()
}
