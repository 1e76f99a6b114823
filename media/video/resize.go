package video

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/docling-project/docling-go/coords"
)

const modelInputSize = 640

// stridedImage adapts a StridedView to image.Image so it can be fed to
// golang.org/x/image/draw without copying into a stdlib image.RGBA first.
type stridedImage struct{ v StridedView }

func (s stridedImage) ColorModel() color.Model { return color.RGBAModel }
func (s stridedImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.v.Width(), s.v.Height()) }
func (s stridedImage) At(x, y int) color.Color {
	r, g, b := s.v.At(y, x)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ResizeNearest letterbox-resizes a StridedView to 640x640 using
// nearest-neighbor sampling and writes the result as channel-first
// normalized [0,1] float32 planes (spec §4.4.1 step 3): out[c][y][x].
//
// The resample itself runs through golang.org/x/image/draw.NearestNeighbor,
// fed the letterbox's inverse affine transform converted to draw's
// destination-to-source f64.Aff3 convention.
func ResizeNearest(v StridedView) [3][modelInputSize][modelInputSize]float32 {
	var out [3][modelInputSize][modelInputSize]float32
	forward := coords.LetterboxTransform(v.Width(), v.Height(), modelInputSize, modelInputSize)
	inverse, err := forward.Inverse()
	if err != nil {
		return out
	}

	dst := image.NewRGBA(image.Rect(0, 0, modelInputSize, modelInputSize))
	aff := f64.Aff3{inverse[0], inverse[2], inverse[4], inverse[1], inverse[3], inverse[5]}
	draw.NearestNeighbor.Transform(dst, aff, stridedImage{v}, image.Rect(0, 0, v.Width(), v.Height()), draw.Src, nil)

	for y := 0; y < modelInputSize; y++ {
		for x := 0; x < modelInputSize; x++ {
			px := dst.RGBAAt(x, y)
			out[0][y][x] = float32(px.R) / 255
			out[1][y][x] = float32(px.G) / 255
			out[2][y][x] = float32(px.B) / 255
		}
	}
	return out
}

// BatchSize is the frame mini-batch size (spec §4.4.1 step 3).
const BatchSize = 8

// BatchTensor stacks the resized planes of every frame it is given into the
// model's [N, 3, 640, 640] input layout; it does not split or cap N.
func BatchTensor(frames []StridedView) [][3][modelInputSize][modelInputSize]float32 {
	out := make([][3][modelInputSize][modelInputSize]float32, len(frames))
	for i, f := range frames {
		out[i] = ResizeNearest(f)
	}
	return out
}
