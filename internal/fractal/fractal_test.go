package fractal_test

import (
	"bytes"
	"context"
	"image/gif"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Andrej220/go-utils/jobswarm"
	"github.com/Andrej220/go-utils/jobswarm/internal/fractal"
)

var _ = Describe("Point", func() {
	It("should hit the limit for points inside the set", func() {
		Expect(fractal.Point(64, 0, 0)).To(Equal(64))
	})

	It("should count at least one iteration for escaping points", func() {
		Expect(fractal.Point(64, 2, 2)).To(Equal(1))
	})
})

var _ = Describe("Shade", func() {
	It("should paint points that never escaped black", func() {
		Expect(fractal.Shade(16, 16)).To(Equal(byte(0)))
	})

	It("should keep the low byte of the count", func() {
		Expect(fractal.Shade(300, 1000)).To(Equal(byte(300 & 0xFF)))
	})
})

var _ = Describe("Region", func() {
	It("should derive a square window", func() {
		r := fractal.DefaultRegion(2048)
		Expect(r.Y2 - r.Y1).To(BeNumerically("~", r.X2-r.X1, 1e-15))
		Expect(r.XScale).To(BeNumerically("~", r.YScale, 1e-18))
	})
})

var _ = Describe("Params", func() {
	It("should reject sizes that are not a multiple of the tile", func() {
		p := fractal.Params{Region: fractal.DefaultRegion(64), Tile: 5, Iterations: 16}
		Expect(p.Validate()).To(MatchError(fractal.ErrTileSize))
	})

	It("should count one job per tile", func() {
		p := fractal.Params{Region: fractal.DefaultRegion(64), Tile: 8, Iterations: 16}
		Expect(p.Validate()).To(Succeed())
		Expect(p.Jobs()).To(Equal(64))
	})
})

var _ = Describe("Runs", func() {
	var (
		ctx    context.Context
		opts   jobswarm.Options
		params fractal.Params
		linear []byte
	)

	BeforeEach(func() {
		ctx = context.Background()
		opts = jobswarm.Options{Workers: 4}
		params = fractal.Params{
			Region:     fractal.DefaultRegion(64),
			Tile:       8,
			Iterations: 256,
		}
		linear = fractal.SolveLinear(params.Region, params.Iterations)
	})

	It("should match the linear image with one handler per tile", func() {
		res, err := fractal.RunTiles(ctx, opts, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Jobs).To(Equal(64))
		Expect(res.Pixels).To(Equal(linear))
	})

	It("should match the linear image with a single handler", func() {
		res, err := fractal.RunSolver(ctx, opts, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Pixels).To(Equal(linear))
	})

	It("should match the linear image when spooling", func() {
		params.Tile = 2
		params.Spool = true
		params.SpoolCeiling = 4

		res, err := fractal.RunTiles(ctx, opts, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Jobs).To(Equal(1024))
		Expect(res.Pixels).To(Equal(linear))

		res, err = fractal.RunSolver(ctx, opts, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Pixels).To(Equal(linear))
	})

	It("should report the linear run", func() {
		res, err := fractal.RunLinear(ctx, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Name).To(Equal("linear"))
		Expect(res.Pixels).To(Equal(linear))
	})

	It("should stop waiting when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		params.Region = fractal.DefaultRegion(256)
		params.Iterations = 65536

		_, err := fractal.RunTiles(cctx, opts, params)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("GIF output", func() {
	It("should encode a decodable grayscale image", func() {
		pixels := make([]byte, 16*16)
		for i := range pixels {
			pixels[i] = byte(i)
		}

		var buf bytes.Buffer
		Expect(fractal.EncodeGIF(&buf, 16, pixels)).To(Succeed())

		img, err := gif.Decode(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Dx()).To(Equal(16))
		Expect(img.Bounds().Dy()).To(Equal(16))
	})

	It("should reject a pixel buffer of the wrong size", func() {
		Expect(fractal.EncodeGIF(&bytes.Buffer{}, 16, make([]byte, 10))).NotTo(Succeed())
	})

	It("should save to a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "out.gif")
		Expect(fractal.SaveGIF(path, 4, make([]byte, 16))).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})
})
