// Package render draws simulation snapshots and the menu screens onto a
// terminal using the half-block canvas.
package render

import (
	"io"
	"math"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/draw"
)

const (
	// MaxCols and MaxRows bound the playfield in terminal cells. Larger
	// terminals get a centered, bordered playfield.
	MaxCols = 128
	MaxRows = 48

	hudRows = 2 // text rows above the playfield
)

// Renderer owns the drawing state for one terminal.
type Renderer struct {
	cfg    *config.Config
	canvas *draw.Canvas
	cw     *draw.ChunkWriter

	width, height int
	view          draw.Viewport
	needClear     bool
	frame         uint64
}

// New creates a renderer writing to w for a world of cfg's dimensions.
func New(w io.Writer, cfg *config.Config) *Renderer {
	return &Renderer{
		cfg:       cfg,
		canvas:    draw.NewScaledCanvas(1, 1, cfg.Width, cfg.Height),
		cw:        draw.NewChunkWriter(w),
		needClear: true,
	}
}

// Resize adapts the layout to a terminal of width x height cells. It is
// cheap to call every frame; nothing happens unless the size changed.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.view = fitAspect(draw.Fit(width, height-hudRows, MaxCols, MaxRows), width, height-hudRows, r.cfg.Width/r.cfg.Height)
	if r.view.Cols > 0 {
		r.canvas.Resize(r.view.Cols, r.view.Rows)
		r.canvas.SetOffset(r.view.OffsetCol, r.view.OffsetRow+hudRows)
	}
	r.needClear = true
}

// fitAspect shrinks v so that the playfield keeps the world's aspect
// ratio (one cell is two sub-pixels tall), then recenters it.
func fitAspect(v draw.Viewport, width, height int, aspect float64) draw.Viewport {
	if v.Cols == 0 {
		return v
	}
	if cols := int(math.Round(float64(v.Rows*2) * aspect)); cols < v.Cols {
		v.Cols = max(cols, 1)
	} else if rows := int(math.Round(float64(v.Cols) / aspect / 2)); rows < v.Rows {
		v.Rows = max(rows, 1)
	}
	v.OffsetCol = (width - v.Cols) / 2
	v.OffsetRow = (height - v.Rows) / 2
	return v
}

// Invalidate schedules a full clear before the next frame, for screen
// changes.
func (r *Renderer) Invalidate() {
	r.needClear = true
}

// Viewport returns the current playfield placement.
func (r *Renderer) Viewport() draw.Viewport {
	return r.view
}

// begin starts a frame: clears the terminal if needed and reports whether
// there is room to draw at all.
func (r *Renderer) begin() bool {
	r.frame++
	if r.needClear {
		r.cw.WriteString("\033[H\033[2J")
		r.canvas.ForceRedraw()
		r.needClear = false
	}
	if r.view.Cols == 0 {
		r.cw.WriteAt(1, 1, "terminal too small")
		return false
	}
	return true
}

// Close restores the cursor and colors.
func (r *Renderer) Close() error {
	r.cw.WriteString(draw.ColorReset)
	r.cw.WriteString("\033[H\033[2J")
	draw.ShowCursor(r.cw)
	return r.cw.Flush()
}

// Hide hides the terminal cursor for the session.
func (r *Renderer) Hide() error {
	draw.HideCursor(r.cw)
	return r.cw.Flush()
}

// writeCentered writes s centered on the terminal at row and marks the
// cells dirty so the canvas repaints them later.
func (r *Renderer) writeCentered(row int, s string) {
	n := textWidth(s)
	col := max((r.width-n)/2+1, 1)
	r.cw.WriteAt(col, row, s)
	r.canvas.MarkTextDirty(col, row, n)
}

// writeColored is writeCentered with a color wrapped around s.
func (r *Renderer) writeColored(row int, color, s string) {
	n := textWidth(s)
	col := max((r.width-n)/2+1, 1)
	r.cw.WriteAt(col, row, color+s+draw.ColorReset)
	r.canvas.MarkTextDirty(col, row, n)
}

// textWidth counts runes; every glyph used here is one cell wide.
func textWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// blink is on for 600 ms, off for 600 ms.
func blink(nowMs int64) bool {
	return nowMs/600%2 == 0
}
