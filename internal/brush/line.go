package brush

import "image"

// Line returns dab centres from (x0, y0) to (x1, y1) inclusive, spaced at
// most step pixels apart along the major axis.
func Line(x0, y0, x1, y1, step int) []image.Point {
	if step < 1 {
		step = 1
	}
	dx, dy := x1-x0, y1-y0
	n := max(abs(dx), abs(dy))
	if n == 0 {
		return []image.Point{{X: x0, Y: y0}}
	}
	count := (n + step - 1) / step
	pts := make([]image.Point, 0, count+1)
	for i := 0; i <= count; i++ {
		pts = append(pts, image.Point{
			X: x0 + roundDiv(dx*i, count),
			Y: y0 + roundDiv(dy*i, count),
		})
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func roundDiv(a, b int) int {
	if a < 0 {
		return -((-a + b/2) / b)
	}
	return (a + b/2) / b
}
