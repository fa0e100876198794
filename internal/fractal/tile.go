package fractal

// Tile solves one square block of the image. A run allocates one Tile per
// job; all of them share the image payload and the remaining counter.
type Tile struct {
	X, Y       int
	Edge       int
	Iterations int
	Region     Region

	// Remaining is owned by the swarm's owner goroutine and only touched
	// from callbacks.
	Remaining *int
}

// Process writes the tile's pixels into img. Tiles never overlap, so
// concurrent workers write disjoint bytes.
func (t *Tile) Process(img []byte, _ int) {
	t.Region.SolveBlock(img, t.X, t.Y, t.Edge, t.Iterations)
}

func (t *Tile) OnFinish([]byte, int) { *t.Remaining-- }

func (t *Tile) OnCancel([]byte, int) { *t.Remaining-- }
