// Package coords provides 2-D affine transforms shared by the media
// pipeline (model-space to normalized-frame box conversion, §4.4.1 step 4)
// and the PDF pipeline (letterbox inverse-scaling back to page coordinates,
// §4.3.1 S1).
package coords

import (
	"errors"
	"math"
)

// Matrix is a 2x3 affine transform [a b c d e f] applied as:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix [6]float64

func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2], m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2], m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4], m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

type Point struct{ X, Y float64 }

func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("matrix singular")
	}
	return Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det, (m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }
func Rotate(angle float64) Matrix {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// LetterboxTransform returns the matrix mapping a point in the original
// (srcW, srcH) image to its position in a letterboxed (dstW, dstH) canvas:
// uniform scale-to-fit plus centering offset. Its Inverse maps a model
// detection box in canvas space back to original image coordinates.
func LetterboxTransform(srcW, srcH, dstW, dstH int) Matrix {
	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	scaledW := float64(srcW) * scale
	scaledH := float64(srcH) * scale
	padX := (float64(dstW) - scaledW) / 2
	padY := (float64(dstH) - scaledH) / 2
	return Scale(scale, scale).Multiply(Translate(padX, padY))
}
