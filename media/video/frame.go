// Package video implements keyframe extraction and object detection over
// decoder-native frame buffers (spec §4.4.1), staying in the decoder's own
// buffers end to end rather than copying into an intermediate image type.
package video

// RawFrameBuffer is one decoded I-frame as the native decoder hands it back:
// a flat RGB24 buffer plus its stride, which may be wider than width*3 when
// the decoder pads rows for alignment.
type RawFrameBuffer struct {
	Data             []byte
	Linesize         int
	Width, Height    int
	FrameNumber      int
	TimestampSeconds float64
}

// StridedView is a zero-copy 3-D (row, col, channel) view over a
// RawFrameBuffer's Data, generalizing coords.Matrix's "thin wrapper with
// explicit stride arithmetic" idiom from a 2-D affine transform to a 3-D
// pixel buffer view.
type StridedView struct {
	data          []byte
	rowStride     int // bytes per row, == Linesize
	width, height int
}

// NewStridedView builds the view directly over buf.Data with no copy. When
// Linesize == Width*3 the buffer is plain-layout; otherwise rowStride skips
// the decoder's alignment padding on every row read.
func NewStridedView(buf RawFrameBuffer) StridedView {
	stride := buf.Linesize
	if stride < buf.Width*3 {
		stride = buf.Width * 3
	}
	return StridedView{data: buf.Data, rowStride: stride, width: buf.Width, height: buf.Height}
}

// At returns the RGB triple at (row, col) without copying the backing
// array.
func (v StridedView) At(row, col int) (r, g, b byte) {
	off := row*v.rowStride + col*3
	if off+2 >= len(v.data) {
		return 0, 0, 0
	}
	return v.data[off], v.data[off+1], v.data[off+2]
}

func (v StridedView) Width() int  { return v.width }
func (v StridedView) Height() int { return v.height }
