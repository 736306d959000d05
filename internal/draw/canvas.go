package draw

import (
	"math"
	"slices"
	"strings"
)

// Canvas is a pixel buffer with two sub-pixels per terminal cell (upper and
// lower half block). Callers draw in logical coordinates; the canvas scales
// them to the terminal size it was created for.
type Canvas struct {
	cols, rows int
	pixels     []bool // [y*cols + x], y in sub-pixels
	drawn      []rune // last rune written per cell; 0 forces a rewrite

	logicalW, logicalH float64
	scaleX, scaleY     float64

	offsetCol, offsetRow int

	scaled []Point
	xs     []float64
	points []Point
}

// NewScaledCanvas creates a canvas of cols x rows terminal cells that maps
// a logicalW x logicalH coordinate space onto them.
func NewScaledCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(cols, rows)
	return c
}

// Resize adapts the canvas to new terminal dimensions, keeping the logical
// coordinate space.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.pixels = make([]bool, cols*rows*2)
		c.drawn = make([]rune, cols*rows)
		c.cols, c.rows = cols, rows
		c.assumeBlank()
	}
	c.scaleX = float64(cols) / c.logicalW
	c.scaleY = float64(rows*2) / c.logicalH
}

// SetOffset positions the canvas inside a larger terminal. Offsets are the
// 0-based number of columns and rows to skip.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol, c.offsetRow = col, row
}

// ForceRedraw makes the next Render write every cell, blank ones included.
func (c *Canvas) ForceRedraw() {
	clear(c.drawn)
}

// assumeBlank records a freshly cleared screen.
func (c *Canvas) assumeBlank() {
	for i := range c.drawn {
		c.drawn[i] = ' '
	}
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based terminal position, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1 - c.offsetRow
	if r < 0 || r >= c.rows {
		return
	}
	for x := col - 1 - c.offsetCol; x < col-1-c.offsetCol+width; x++ {
		if x >= 0 && x < c.cols {
			c.drawn[r*c.cols+x] = 0
		}
	}
}

// Columns returns the canvas width in terminal cells.
func (c *Canvas) Columns() int { return c.cols }

// Rows returns the canvas height in terminal cells.
func (c *Canvas) Rows() int { return c.rows }

// Clear resets every pixel.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) set(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows*2 {
		c.pixels[y*c.cols+x] = true
	}
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// SetFloat sets the pixel under a logical coordinate.
func (c *Canvas) SetFloat(x, y float64) {
	c.set(c.toPixel(Point{X: x, Y: y}))
}

// DrawLine draws a line between two logical points (Bresenham).
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1, y1 := c.toPixel(p1)
	x2, y2 := c.toPixel(p2)
	c.line(x1, y1, x2, y2)
}

func (c *Canvas) line(x1, y1, x2, y2 int) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawCircle outlines a circle of logical radius r. The outline is a
// polygon fine enough to look round at terminal resolution.
func (c *Canvas) DrawCircle(cx, cy, r float64) {
	px := r * math.Max(c.scaleX, c.scaleY)
	n := int(math.Ceil(px * 2))
	n = min(max(n, 8), 48)
	c.DrawPolygon(RegularPolygon(c.BorrowPoints(n), cx, cy, r, 0), false)
}

// DrawPolygon draws a closed polygon, filling it with a scanline pass
// when filled is set.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%len(points)])
	}
}

func (c *Canvas) fill(points []Point) {
	c.scaled = c.scaled[:0]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		s := Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		c.scaled = append(c.scaled, s)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}

	n := len(c.scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scan := float64(y) + 0.5
		c.xs = c.xs[:0]
		for i := 0; i < n; i++ {
			a, b := c.scaled[i], c.scaled[(i+1)%n]
			if (a.Y <= scan) != (b.Y <= scan) {
				c.xs = append(c.xs, a.X+(scan-a.Y)/(b.Y-a.Y)*(b.X-a.X))
			}
		}
		slices.Sort(c.xs)
		for i := 0; i+1 < len(c.xs); i += 2 {
			for x := int(math.Ceil(c.xs[i])); x <= int(math.Floor(c.xs[i+1])); x++ {
				c.set(x, y)
			}
		}
	}
}

// BorrowPoints returns a scratch slice of n points, valid until the next
// call. Each goroutine must use its own Canvas.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.points) < n {
		c.points = make([]Point, n)
	}
	return c.points[:n]
}

// LogicalToTerminal converts a logical coordinate to a 1-based canvas cell,
// for placing text next to drawn shapes.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(Point{X: x, Y: y})
	return px + 1, py/2 + 1
}

// Render writes the cells that changed since the previous Render as
// positioned half-block characters. The screen is assumed blank when the
// canvas is created or resized; call ForceRedraw after anything else
// clears or overwrites it.
func (c *Canvas) Render(cw *ChunkWriter) {
	for row := 0; row < c.rows; row++ {
		top := c.pixels[row*2*c.cols:]
		bottom := c.pixels[(row*2+1)*c.cols:]
		drawn := c.drawn[row*c.cols:]
		next := -1 // column the cursor already sits on
		for col := 0; col < c.cols; col++ {
			ch := ' '
			switch {
			case top[col] && bottom[col]:
				ch = BlockFull
			case top[col]:
				ch = BlockUpperHalf
			case bottom[col]:
				ch = BlockLowerHalf
			}
			if drawn[col] == ch {
				continue
			}
			if col != next {
				cw.MoveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			cw.WriteRune(ch)
			drawn[col] = ch
			next = col + 1
		}
	}
}

// RenderBorder frames the canvas when the terminal has room around it.
func (c *Canvas) RenderBorder(cw *ChunkWriter) {
	if c.offsetCol < 1 || c.offsetRow < 1 {
		return
	}
	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1
	bar := strings.Repeat("─", c.cols)

	cw.MoveCursor(left, top)
	cw.WriteString("┌" + bar + "┐")
	cw.MoveCursor(left, bottom)
	cw.WriteString("└" + bar + "┘")
	for row := top + 1; row < bottom; row++ {
		cw.MoveCursor(left, row)
		cw.WriteRune('│')
		cw.MoveCursor(right, row)
		cw.WriteRune('│')
	}
}
