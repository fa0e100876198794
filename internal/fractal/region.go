package fractal

// Default view, a square window deep in the Mandelbrot set.
const (
	DefaultX1 = -0.56017680903960034334758968
	DefaultX2 = -0.5540396934395273995800156
	DefaultY1 = -0.63815211573948702427222672
)

// Region maps a Size x Size pixel grid onto a square window of the
// complex plane.
type Region struct {
	X1, X2 float64
	Y1, Y2 float64

	Size   int
	XScale float64
	YScale float64
}

// NewRegion builds the square region starting at (x1, y1) whose width is
// x2-x1. The height is derived from the width.
func NewRegion(x1, x2, y1 float64, size int) Region {
	y2 := y1 + (x2 - x1)
	return Region{
		X1:     x1,
		X2:     x2,
		Y1:     y1,
		Y2:     y2,
		Size:   size,
		XScale: (x2 - x1) / float64(size),
		YScale: (y2 - y1) / float64(size),
	}
}

// DefaultRegion is the default view at the given resolution.
func DefaultRegion(size int) Region {
	return NewRegion(DefaultX1, DefaultX2, DefaultY1, size)
}

// Solve returns the shaded pixel at (x, y).
func (r Region) Solve(x, y, iterations int) byte {
	v := Point(iterations, float64(x)*r.XScale+r.X1, float64(y)*r.YScale+r.Y1)
	return Shade(v, iterations)
}

// SolveBlock shades the edge x edge block whose top-left pixel is (x0, y0)
// directly into img, which holds Size*Size row-major pixels.
func (r Region) SolveBlock(img []byte, x0, y0, edge, iterations int) {
	for y := y0; y < y0+edge; y++ {
		row := img[y*r.Size+x0 : y*r.Size+x0+edge]
		for i := range row {
			row[i] = r.Solve(x0+i, y, iterations)
		}
	}
}

// Point counts iterations of z = z*z + c until |z| escapes 2 or the limit
// is hit. The count is at least one.
func Point(iterations int, re, im float64) int {
	fx, fy := re, im
	count := 0
	for {
		xs := fx * fx
		ys := fy * fy
		fy = 2*fx*fy + im
		fx = xs - ys + re
		count++
		if xs+ys >= 4.0 || count >= iterations {
			return count
		}
	}
}

// Shade turns an escape count into a grey level. Points that never escaped
// are black.
func Shade(v, iterations int) byte {
	if v == iterations {
		return 0
	}
	return byte(v & 0xFF)
}
