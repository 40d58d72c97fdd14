package app

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// Frame is one sampled heightmap, row-major.
type Frame struct {
	Width      int
	Height     int
	Generation uint64
	Samples    []float32
}

// EncodePNG renders the frame as 8-bit grayscale: [-1, 1] maps linearly to
// [0, 255], out-of-range values clip, NaN renders black. This is the same
// display mapping the signed-unit convention implies for the primitives;
// graphs that already emit [0, 1] can to_signed_unit before the result.
func (f *Frame) EncodePNG(w io.Writer) error {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for j := 0; j < f.Height; j++ {
		for i := 0; i < f.Width; i++ {
			v := float64(f.Samples[j*f.Width+i])
			u := (v + 1) / 2
			if math.IsNaN(u) || u < 0 {
				u = 0
			} else if u > 1 {
				u = 1
			}
			img.SetGray(i, j, color.Gray{Y: uint8(math.Round(u * 255))})
		}
	}
	return png.Encode(w, img)
}
