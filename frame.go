package yuv

import (
	"encoding/binary"
	"image"
)

// Component selects one plane of a frame.
type Component int

// Components.
const (
	ComponentY Component = iota
	ComponentU
	ComponentV
)

// Plane represents one full resolution plane of a normalized 4:4:4 frame.
// Exactly one of Data (samples up to 8 bits) and Data16 (deeper samples) is set,
// depending on the bit depth of the frame. The length is always Width * Height.
type Plane struct {
	Width  int
	Height int

	Data   []byte
	Data16 []uint16
}

// Frame represents a decoded frame, normalized to planar 4:4:4.
// All three planes share one backing slice in Y, Cb, Cr order.
type Frame struct {
	Width  int
	Height int

	// BitDepth is the number of significant bits per sample.
	BitDepth int

	Y  Plane
	Cb Plane
	Cr Plane

	data   []byte
	data16 []uint16
}

// Values holds one value per component.
type Values struct {
	Y int
	U int
	V int
}

func newFrame(width, height, bitDepth int) *Frame {
	frame := &Frame{
		Width:    width,
		Height:   height,
		BitDepth: bitDepth,
	}

	size := width * height
	frameSize := 3 * size

	planes := []*Plane{&frame.Y, &frame.Cb, &frame.Cr}
	for _, p := range planes {
		p.Width = width
		p.Height = height
	}

	switch sampleSize(bitDepth) {
	case 1:
		frame.data = make([]byte, frameSize)
		for i, p := range planes {
			p.Data = frame.data[i*size : (i+1)*size : (i+1)*size]
		}
	case 2:
		frame.data16 = make([]uint16, frameSize)
		for i, p := range planes {
			p.Data16 = frame.data16[i*size : (i+1)*size : (i+1)*size]
		}
	}

	return frame
}

// SampleSize returns the size of one sample in bytes (1 or 2), 0 for an empty frame.
func (f *Frame) SampleSize() int {
	return sampleSize(f.BitDepth)
}

// Len returns the byte length of the plane-packed frame, i.e. 3 * width * height * SampleSize.
func (f *Frame) Len() int {
	return len(f.data) + 2*len(f.data16)
}

// Plane returns the plane of the given component.
func (f *Frame) Plane(c Component) *Plane {
	switch c {
	case ComponentU:
		return &f.Cb
	case ComponentV:
		return &f.Cr
	default:
		return &f.Y
	}
}

// Sample returns the sample of the component at x, y. It returns 0 for coordinates outside the frame.
func (f *Frame) Sample(c Component, x, y int) int {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}

	p := f.Plane(c)
	i := y*f.Width + x

	if p.Data16 != nil {
		return int(p.Data16[i])
	}
	if p.Data != nil {
		return int(p.Data[i])
	}

	return 0
}

// ValuesAt returns the samples of all components at x, y.
func (f *Frame) ValuesAt(x, y int) (Values, bool) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height || f.Len() == 0 {
		return Values{}, false
	}

	return Values{
		Y: f.Sample(ComponentY, x, y),
		U: f.Sample(ComponentU, x, y),
		V: f.Sample(ComponentV, x, y),
	}, true
}

// Bytes returns the frame as a plane-packed byte slice (Y, then Cb, then Cr).
// For 8-bit frames the returned slice shares memory with the frame,
// deeper samples are encoded little-endian into a new slice.
func (f *Frame) Bytes() []byte {
	if f.data16 == nil {
		return f.data
	}

	b := make([]byte, 2*len(f.data16))
	for i, v := range f.data16 {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}

	return b
}

// YCbCr returns frame as image.YCbCr with 4:4:4 subsampling.
// Samples deeper than 8 bits are scaled down to 8 bits.
func (f *Frame) YCbCr() *image.YCbCr {
	y, cb, cr := f.Y.Data, f.Cb.Data, f.Cr.Data

	if f.data16 != nil {
		shift := f.BitDepth - 8
		data := make([]byte, len(f.data16))
		for i, v := range f.data16 {
			data[i] = byte(v >> shift)
		}

		size := f.Width * f.Height
		y, cb, cr = data[:size], data[size:2*size], data[2*size:]
	}

	return &image.YCbCr{
		Y:              y,
		Cb:             cb,
		Cr:             cr,
		SubsampleRatio: image.YCbCrSubsampleRatio444,
		YStride:        f.Width,
		CStride:        f.Width,
		Rect:           image.Rect(0, 0, f.Width, f.Height),
	}
}

func (f *Frame) maxValue() int {
	return 1<<f.BitDepth - 1
}

func (f *Frame) midValue() int {
	if f.BitDepth < 8 {
		return 128
	}

	return 128 << (f.BitDepth - 8)
}
