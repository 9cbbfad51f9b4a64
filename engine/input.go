package engine

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Command is one discrete user action applied at the start of a tick
type Command uint8

const (
	CmdNone Command = iota
	CmdQuit
	CmdToggleAutopilot
	CmdToggleOverlay
	CmdToggleBirdView
	CmdForward
	CmdBackward
	CmdTurnLeft
	CmdTurnRight
	CmdStrafeLeft
	CmdStrafeRight
)

// KeyCommand maps a terminal key event to a command
func KeyCommand(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyUp:
		return CmdForward
	case tcell.KeyDown:
		return CmdBackward
	case tcell.KeyLeft:
		return CmdTurnLeft
	case tcell.KeyRight:
		return CmdTurnRight
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return CmdQuit
		case 'p', 'P':
			return CmdToggleAutopilot
		case 'm', 'M':
			return CmdToggleOverlay
		case 'b', 'B':
			return CmdToggleBirdView
		case 'w':
			return CmdForward
		case 's':
			return CmdBackward
		case 'a':
			return CmdStrafeLeft
		case 'd':
			return CmdStrafeRight
		}
	}
	return CmdNone
}

// Input queues a command for the next tick
func (g *Game) Input(cmd Command) {
	if cmd != CmdNone {
		g.input = append(g.input, cmd)
	}
}

// applyInput drains queued commands; it reports whether quit was requested.
// Movement commands only act while the autopilot is off.
func (g *Game) applyInput(dt time.Duration) bool {
	secs := dt.Seconds()
	quit := false
	for _, cmd := range g.input {
		switch cmd {
		case CmdQuit:
			quit = true
		case CmdToggleAutopilot:
			g.autopilot = !g.autopilot
			g.logger.Info("autopilot toggled", zap.Bool("enabled", g.autopilot))
			if g.autopilot {
				// The old route may start far from where manual driving left the agent
				g.regenerate()
			}
		case CmdToggleOverlay:
			g.overlay = !g.overlay
		case CmdToggleBirdView:
			g.birdView = !g.birdView
		case CmdForward, CmdBackward, CmdTurnLeft, CmdTurnRight, CmdStrafeLeft, CmdStrafeRight:
			if !g.autopilot {
				g.drive(cmd, secs)
			}
		}
	}
	g.input = g.input[:0]
	return quit
}

func (g *Game) drive(cmd Command, secs float64) {
	a := g.agent
	switch cmd {
	case CmdForward:
		a.Forward(a.Speed*secs, g.world)
	case CmdBackward:
		a.Forward(-a.Speed*secs, g.world)
	case CmdTurnLeft:
		a.Rotate(-a.TurnSpeed * secs)
	case CmdTurnRight:
		a.Rotate(a.TurnSpeed * secs)
	case CmdStrafeLeft:
		a.Strafe(-a.Speed*secs, g.world)
	case CmdStrafeRight:
		a.Strafe(a.Speed*secs, g.world)
	}
}
