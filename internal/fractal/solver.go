package fractal

// Solver handles every job of a run with a single object. The tag carries
// the image index y*Size+x of the tile's top-left pixel.
type Solver struct {
	region     Region
	edge       int
	iterations int
	img        []byte
	remaining  int
}

// NewSolver prepares a solver writing into a fresh Size*Size image.
func NewSolver(r Region, edge, iterations int) *Solver {
	return &Solver{
		region:     r,
		edge:       edge,
		iterations: iterations,
		img:        make([]byte, r.Size*r.Size),
	}
}

// Tag encodes the top-left pixel of a tile.
func (s *Solver) Tag(x, y int) int { return y*s.region.Size + x }

func (s *Solver) Process(_ []byte, tag int) {
	x := tag % s.region.Size
	y := tag / s.region.Size
	s.region.SolveBlock(s.img, x, y, s.edge, s.iterations)
}

func (s *Solver) OnFinish([]byte, int) { s.remaining-- }

func (s *Solver) OnCancel([]byte, int) { s.remaining-- }

// Image returns the pixels written so far.
func (s *Solver) Image() []byte { return s.img }
