package physics

import "math"

// SpatialGrid buckets indices by position over a bounded world so the
// collision passes only test pairs in neighboring cells.
//
// The cell edge must be at least the largest interaction distance between
// two inserted objects; then every overlapping pair shares a 3x3
// neighborhood. Positions past the world edge land in the edge cells,
// which keeps the guarantee for entities that have drifted off-screen.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	buckets  [][]int // row-major; emptied, not freed, by Clear
}

// NewSpatialGrid creates a grid over a worldW x worldH world.
func NewSpatialGrid(worldW, worldH, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(worldW/cellSize)), 1)
	rows := max(int(math.Ceil(worldH/cellSize)), 1)
	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		buckets:  make([][]int, cols*rows),
	}
}

// CellSize returns the grid's cell edge length.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear empties every bucket and keeps the backing arrays for the next tick.
func (g *SpatialGrid) Clear() {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
}

// Insert files index under the cell containing (x, y).
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.cellOf(x, y)
	b := &g.buckets[row*g.cols+col]
	*b = append(*b, index)
}

// QueryAround visits the indices in the 3x3 block of cells around (x, y),
// row by row and in insertion order within a cell. Returning true from fn
// stops the walk.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.cellOf(x, y)
	c0, c1 := max(col-1, 0), min(col+1, g.cols-1)
	r0, r1 := max(row-1, 0), min(row+1, g.rows-1)

	for r := r0; r <= r1; r++ {
		for _, bucket := range g.buckets[r*g.cols+c0 : r*g.cols+c1+1] {
			for _, index := range bucket {
				if fn(index) {
					return
				}
			}
		}
	}
}

// cellOf maps a world position to its (clamped) cell.
func (g *SpatialGrid) cellOf(x, y float64) (col, row int) {
	col = int(Clamp(math.Floor(x/g.cellSize), 0, float64(g.cols-1)))
	row = int(Clamp(math.Floor(y/g.cellSize), 0, float64(g.rows-1)))
	return col, row
}
