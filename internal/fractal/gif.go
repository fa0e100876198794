package fractal

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
)

// grayPalette maps every pixel value to the grey level of the same value.
var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// EncodeGIF writes a size x size grayscale GIF of pixels to w.
func EncodeGIF(w io.Writer, size int, pixels []byte) error {
	if len(pixels) != size*size {
		return fmt.Errorf("fractal: %d pixels do not form a %dx%d image", len(pixels), size, size)
	}
	img := &image.Paletted{
		Pix:     pixels,
		Stride:  size,
		Rect:    image.Rect(0, 0, size, size),
		Palette: grayPalette,
	}
	return gif.Encode(w, img, &gif.Options{NumColors: len(grayPalette)})
}

// SaveGIF writes the image to path, replacing any existing file.
func SaveGIF(path string, size int, pixels []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeGIF(f, size, pixels)
}
