package fractal

// SolveLinear shades every pixel of r on the calling goroutine.
func SolveLinear(r Region, iterations int) []byte {
	img := make([]byte, r.Size*r.Size)
	r.SolveBlock(img, 0, 0, r.Size, iterations)
	return img
}
