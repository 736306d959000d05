// Package draw renders vector shapes to a terminal using half-block
// characters, doubling the vertical resolution.
package draw

// Point is a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Shades from lightest to darkest.
var Shades = []rune{' ', BlockLight, BlockMedium, BlockDark, BlockFull}

// ShadeLevel returns a shade for a value between 0 (empty) and 1 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	return Shades[int(intensity*float64(len(Shades)-1))]
}

// Bar renders a horizontal gauge of width cells filled to fraction.
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	cells := make([]rune, width)
	filled := fraction * float64(width)
	for i := range cells {
		cells[i] = ShadeLevel(filled - float64(i))
	}
	return string(cells)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
