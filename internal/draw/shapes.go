package draw

import "math"

// RegularPolygon writes the vertices of a regular polygon into buf and
// returns it. rotation is in radians; the first vertex points up at zero.
func RegularPolygon(buf []Point, cx, cy, radius float64, rotation float64) []Point {
	n := len(buf)
	for i := range buf {
		a := rotation - math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		buf[i] = Point{X: cx + math.Cos(a)*radius, Y: cy + math.Sin(a)*radius}
	}
	return buf
}

// Diamond writes a four-point diamond into buf (which must hold 4 points).
func Diamond(buf []Point, cx, cy, radius float64) []Point {
	buf = buf[:4]
	buf[0] = Point{X: cx, Y: cy - radius}
	buf[1] = Point{X: cx + radius, Y: cy}
	buf[2] = Point{X: cx, Y: cy + radius}
	buf[3] = Point{X: cx - radius, Y: cy}
	return buf
}

// Triangle writes an isosceles triangle pointing up (or down when flipped).
func Triangle(buf []Point, cx, cy, radius float64, flipped bool) []Point {
	buf = buf[:3]
	dir := 1.0
	if flipped {
		dir = -1
	}
	buf[0] = Point{X: cx, Y: cy - dir*radius}
	buf[1] = Point{X: cx + radius*0.85, Y: cy + dir*radius*0.7}
	buf[2] = Point{X: cx - radius*0.85, Y: cy + dir*radius*0.7}
	return buf
}
