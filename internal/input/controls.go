package input

import "github.com/tomz197/vectordrift/internal/player"

// Controls maps terminal key state onto the player's control snapshot.
//
// Terminals never report key releases, so "holding" flight is a latch:
// up or space engages it, down disengages it.
type Controls struct {
	holding bool
}

// Next returns the player input for this frame.
func (c *Controls) Next(in Input) player.Input {
	was := c.holding
	switch {
	case in.Down:
		c.holding = false
	case in.Up || in.Space:
		c.holding = true
	}

	out := player.Input{
		Holding:      c.holding,
		JustPressed:  c.holding && !was,
		JustReleased: !c.holding && was,
	}
	switch {
	case in.Left && !in.Right:
		out.Horizontal = -1
	case in.Right && !in.Left:
		out.Horizontal = 1
	}
	return out
}

// Holding reports whether the flight latch is engaged.
func (c *Controls) Holding() bool { return c.holding }

// Release disengages the latch without reporting a release edge, for when
// the player leaves flight on its own (empty meter).
func (c *Controls) Release() { c.holding = false }

// Edge reports the rising edges of a held key.
type Edge struct {
	prev bool
}

// Rise returns true when v is set and was not set on the previous call.
func (e *Edge) Rise(v bool) bool {
	rose := v && !e.prev
	e.prev = v
	return rose
}
