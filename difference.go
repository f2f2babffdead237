package yuv

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Difference subtracts b from a sample by sample. The result is biased to the middle of the sample range
// of format (128 for 8-bit, 512 for 10-bit and so on) and wraps around at the container width.
// Both frames must have the same size and sample width.
func Difference(a, b *Frame, format PixelFormat) (*Frame, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrFrameMismatch)
	}
	if a.Width != b.Width || a.Height != b.Height || a.Len() != b.Len() || a.Len()%3 != 0 {
		return nil, fmt.Errorf("%w: %dx%d (%d bytes) and %dx%d (%d bytes)", ErrFrameMismatch,
			a.Width, a.Height, a.Len(), b.Width, b.Height, b.Len())
	}

	bps := Describe(format).BitsPerSample
	if bps < 8 || bps > 16 {
		logger.WithFields(logrus.Fields{
			"function": "Difference",
			"format":   format.String(),
			"bits":     bps,
		}).Warn("Unsupported bit depth")

		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bps)
	}

	if (bps == 8) != (a.data != nil) {
		return nil, fmt.Errorf("%w: %d-bit format for frames with %d-byte samples", ErrFrameMismatch, bps, a.SampleSize())
	}

	diffZero := 128 << (bps - 8)
	dst := newFrame(a.Width, a.Height, a.BitDepth)
	w := a.Width

	parallelRows(3*a.Height, w, func(start, end int) {
		lo, hi := start*w, end*w

		if bps == 8 {
			for i := lo; i < hi; i++ {
				dst.data[i] = byte(diffZero + int(a.data[i]) - int(b.data[i]))
			}

			return
		}

		for i := lo; i < hi; i++ {
			dst.data16[i] = uint16(diffZero + int(a.data16[i]) - int(b.data16[i]))
		}
	})

	return dst, nil
}

// Diff is a frame source showing the difference of two files.
// Geometry, frame rate and color conversion are taken from the first file.
type Diff struct {
	a *File
	b *File

	conversion ColorConversion
	math       Math

	lastIndex int
}

// NewDiff creates a difference of a and b. Either file may be nil; frames are refused until both are set.
func NewDiff(a, b *File) *Diff {
	d := &Diff{lastIndex: -1}
	d.SetFiles(a, b)

	return d
}

// SetFiles replaces both files.
func (d *Diff) SetFiles(a, b *File) {
	d.a, d.b = a, b
	d.lastIndex = -1

	if a != nil {
		d.conversion = a.ColorConversion()
	}
}

// Width returns the width of the first file.
func (d *Diff) Width() int {
	if d.a == nil {
		return 0
	}

	return d.a.Width()
}

// Height returns the height of the first file.
func (d *Diff) Height() int {
	if d.a == nil {
		return 0
	}

	return d.a.Height()
}

// FrameRate returns the frame rate of the first file.
func (d *Diff) FrameRate() float64 {
	if d.a == nil {
		return DefaultFrameRate
	}

	return d.a.FrameRate()
}

// ColorConversion returns the color conversion used by Image.
func (d *Diff) ColorConversion() ColorConversion {
	return d.conversion
}

// SetColorConversion sets the color conversion used by Image.
func (d *Diff) SetColorConversion(c ColorConversion) {
	d.conversion = c
}

// SetMath sets the component math applied to difference frames by Image.
func (d *Diff) SetMath(m Math) {
	d.math = m
}

// NumFrames returns the smaller number of frames of both files. It returns false if a file is missing
// or its frame count is unknown.
func (d *Diff) NumFrames() (int, bool) {
	if d.a == nil || d.b == nil {
		return 0, false
	}

	na, ok := d.a.NumFrames(d.a.Width(), d.a.Height())
	if !ok {
		return 0, false
	}

	nb, ok := d.b.NumFrames(d.b.Width(), d.b.Height())
	if !ok {
		return 0, false
	}

	return min(na, nb), true
}

// Frame returns the difference of frame index of both files, decoded at the smaller of both sizes.
func (d *Diff) Frame(index int) (*Frame, error) {
	if d.a == nil || d.b == nil {
		return nil, ErrNoSource
	}

	if da, db := d.a.BitDepth(), d.b.BitDepth(); da != db {
		return nil, fmt.Errorf("%w: %d and %d", ErrBitDepthMismatch, da, db)
	}

	n, ok := d.NumFrames()
	if !ok || index < 0 || index >= n {
		return nil, fmt.Errorf("%w: frame %d", ErrOutOfBounds, index)
	}

	width := min(d.a.Width(), d.b.Width())
	height := min(d.a.Height(), d.b.Height())

	fa, err := d.a.Frame(index, width, height)
	if err != nil {
		return nil, err
	}

	fb, err := d.b.Frame(index, width, height)
	if err != nil {
		return nil, err
	}

	diff, err := Difference(fa, fb, d.a.PixelFormat())
	if err != nil {
		return nil, err
	}

	d.lastIndex = index

	return diff, nil
}

// Image returns the difference of frame index converted for display.
// When the frame is refused, a transparent image of the first file's size is returned with the error.
func (d *Diff) Image(index int) (*image.RGBA, error) {
	frame, err := d.Frame(index)
	if err != nil {
		return Blank(max(d.Width(), 0), max(d.Height(), 0)), err
	}

	d.math.Apply(frame)

	return frame.RGBA(d.conversion), nil
}

// ValueAt returns the unbiased differences at x, y of the last decoded frame index.
// Both files are decoded again at the size of the first file.
func (d *Diff) ValueAt(x, y int) (Values, bool) {
	if d.a == nil || d.b == nil || d.lastIndex < 0 {
		return Values{}, false
	}

	width, height := d.a.Width(), d.a.Height()
	if x < 0 || y < 0 || x >= width || y >= height {
		return Values{}, false
	}

	fa, err := d.a.Frame(d.lastIndex, width, height)
	if err != nil {
		return Values{}, false
	}

	fb, err := d.b.Frame(d.lastIndex, width, height)
	if err != nil {
		return Values{}, false
	}

	va, ok := fa.ValuesAt(x, y)
	if !ok {
		return Values{}, false
	}

	vb, ok := fb.ValuesAt(x, y)
	if !ok {
		return Values{}, false
	}

	return Values{Y: va.Y - vb.Y, U: va.U - vb.U, V: va.V - vb.V}, true
}
