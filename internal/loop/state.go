package loop

import (
	"time"

	"github.com/tomz197/vectordrift/internal/input"
	"github.com/tomz197/vectordrift/internal/render"
)

// Screen is what a session is currently showing.
type Screen int

const (
	ScreenTitle    Screen = iota // title and high score
	ScreenPlaying                // a run in progress, paused or not
	ScreenGameOver               // run summary, restart prompt
	ScreenShutdown               // server is going away
)

func (s Screen) String() string {
	switch s {
	case ScreenTitle:
		return "title"
	case ScreenPlaying:
		return "playing"
	case ScreenGameOver:
		return "gameOver"
	case ScreenShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// clientState holds the per-session state outside the simulation.
type clientState struct {
	Input      input.Input
	Screen     Screen
	prevScreen Screen
	Running    bool

	delta       time.Duration // wall time since the previous frame
	accumulator float64       // seconds not yet fed to the simulation
	alpha       float64       // interpolation factor for rendering
	frame       uint64

	gameOverAt    time.Time
	shutdownTimer float64 // seconds until auto-disconnect
	isInactive    bool
	wasInactive   bool

	highScore int
	board     []render.BoardLine
}

func newClientState() *clientState {
	return &clientState{
		Screen:  ScreenTitle,
		Running: true,
		alpha:   1,
	}
}
