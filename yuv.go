// Package yuv implements reading of raw, headerless YUV (and related) sample files.
//
// Raw files carry no metadata, so the geometry and layout are either supplied by the caller or inferred:
// FormatFromFilename looks for naming conventions like "name_1920x1080_50_10.yuv", FormatFromCorrelation
// tries common resolutions and keeps the one under which the first two frames look alike.
//
// Every frame is normalized to planar 4:4:4 with the bit depth of the source (8-bit samples in []byte,
// deeper samples in []uint16). Chroma of 4:2:0 sources can be upsampled by sample and hold, or
// with a bilinear or interstitial filter. Frames can be converted to RGB on the CPU with BT.709 or BT.601
// coefficients via the RGB() and RGBA() functions, or you can get image.YCbCr via the YCbCr() function and
// convert on the GPU with the following matrix (BT.709, limited range):
//
//	mat4 bt709 = mat4(
//	    1.16438,  0.00000,  1.79274, -0.97294,
//	    1.16438, -0.21325, -0.53291,  0.30148,
//	    1.16438,  2.11240,  0.00000, -1.13340,
//	    0, 0, 0, 1
//	);
//
//	gl_FragColor = vec4(y, cb, cr, 1.0) * bt709;
//
// Two files of equal bit depth can be compared with Diff, which yields difference frames biased to the
// middle of the sample range.
package yuv

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultFrameRate is the frame rate used when none is known.
const DefaultFrameRate = 30.0

var (
	// ErrUnknownFormat is the error returned when the pixel format of a file is not known.
	ErrUnknownFormat = errors.New("unknown pixel format")
	// ErrUnsupportedFormat is the error returned when a pixel format cannot be converted.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrInvalidSize is the error returned for a non-positive width or height.
	ErrInvalidSize = errors.New("invalid frame size")
	// ErrShortRead is the error returned when a source ends before a frame is complete.
	ErrShortRead = errors.New("short read")
	// ErrFrameMismatch is the error returned when two frames cannot be combined.
	ErrFrameMismatch = errors.New("frame mismatch")
	// ErrBitDepthMismatch is the error returned when two sources have different bit depths.
	ErrBitDepthMismatch = errors.New("bit depth mismatch")
	// ErrUnsupportedBitDepth is the error returned for bit depths outside 8 to 16.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	// ErrNoSource is the error returned when a source is missing.
	ErrNoSource = errors.New("no source")
	// ErrOutOfBounds is the error returned for frame indices or offsets outside the file.
	ErrOutOfBounds = errors.New("out of bounds")
)

// File is a raw YUV file with its declared (or inferred) format.
type File struct {
	source *Source

	pixelFormat   PixelFormat
	width         int
	height        int
	frameRate     float64
	interpolation Interpolation
	conversion    ColorConversion
	math          Math

	lastIndex int
}

// Open opens a raw file. See OpenSource.
func Open(path string) (*File, error) {
	s, err := OpenSource(path)
	if err != nil {
		return nil, err
	}

	return newFile(s), nil
}

// OpenURL opens a raw file over HTTP. See OpenSourceURL.
func OpenURL(url string) (*File, error) {
	s, err := OpenSourceURL(url)
	if err != nil {
		return nil, err
	}

	return newFile(s), nil
}

// New creates a File from a seekable reader, name is used for inference.
func New(r io.ReadSeeker, name string) (*File, error) {
	s, err := NewSource(r, name)
	if err != nil {
		return nil, err
	}

	return newFile(s), nil
}

func newFile(s *Source) *File {
	return &File{
		source:    s,
		frameRate: DefaultFrameRate,
		lastIndex: -1,
	}
}

// Close closes the underlying source.
func (f *File) Close() error {
	return f.source.Close()
}

// Source returns the underlying source.
func (f *File) Source() *Source {
	return f.source
}

// Name returns the base name of the file.
func (f *File) Name() string {
	return f.source.Name()
}

// Path returns the path or URL of the file.
func (f *File) Path() string {
	return f.source.Path()
}

// Size returns the size of the file in bytes.
func (f *File) Size() int64 {
	return f.source.Size()
}

// Created returns the creation time of the file.
func (f *File) Created() time.Time {
	return f.source.Created()
}

// Modified returns the modification time of the file.
func (f *File) Modified() time.Time {
	return f.source.Modified()
}

// PixelFormat returns the pixel format.
func (f *File) PixelFormat() PixelFormat {
	return f.pixelFormat
}

// SetPixelFormat sets the pixel format.
func (f *File) SetPixelFormat(format PixelFormat) {
	f.pixelFormat = format
}

// Width returns the frame width.
func (f *File) Width() int {
	return f.width
}

// Height returns the frame height.
func (f *File) Height() int {
	return f.height
}

// SetSize sets the frame size.
func (f *File) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// FrameRate returns the frame rate.
func (f *File) FrameRate() float64 {
	return f.frameRate
}

// SetFrameRate sets the frame rate. Non-positive values restore DefaultFrameRate.
func (f *File) SetFrameRate(rate float64) {
	if rate <= 0 {
		rate = DefaultFrameRate
	}

	f.frameRate = rate
}

// Interpolation returns the chroma upsampling mode.
func (f *File) Interpolation() Interpolation {
	return f.interpolation
}

// SetInterpolation sets the chroma upsampling mode.
func (f *File) SetInterpolation(mode Interpolation) {
	f.interpolation = mode
}

// ColorConversion returns the color conversion used by Image.
func (f *File) ColorConversion() ColorConversion {
	return f.conversion
}

// SetColorConversion sets the color conversion used by Image.
func (f *File) SetColorConversion(c ColorConversion) {
	f.conversion = c
}

// Math returns the component math used by Image.
func (f *File) Math() Math {
	return f.math
}

// SetMath sets the component math used by Image.
func (f *File) SetMath(m Math) {
	f.math = m
}

// BitDepth returns the bits per sample of the pixel format, 0 if unknown.
func (f *File) BitDepth() int {
	return Describe(f.pixelFormat).BitsPerSample
}

// ExtractFormat infers the format from the file name and from the content, see Merge.
// If no pixel format was found, a bit depth of 8 assumes 4:2:0 8-bit planar and 10 assumes 4:2:0 10-bit LE.
// The result is applied to the file: pixel format, size (when known) and frame rate (when known).
func (f *File) ExtractFormat() Format {
	name := FormatFromFilename(f.source.Name(), f.source.Size())
	corr := FormatFromCorrelation(f.source, f.source.Size())

	format := Merge(name, corr)

	if format.PixelFormat == FormatUnknown {
		switch format.BitDepth {
		case 8:
			format.PixelFormat = FormatYUV420P
		case 10:
			format.PixelFormat = FormatYUV420P10LE
		}
	}

	logger.WithFields(logrus.Fields{
		"function": "ExtractFormat",
		"name":     f.source.Name(),
		"format":   format.String(),
	}).Debug("Format")

	if format.PixelFormat != FormatUnknown {
		f.pixelFormat = format.PixelFormat
	}
	if format.Known() {
		f.width, f.height = format.Width, format.Height
	}
	if format.FrameRate > 0 {
		f.frameRate = format.FrameRate
	}

	return format
}

// NumFrames returns the number of complete frames at the given size.
// It returns false when the size or the pixel format is unknown.
func (f *File) NumFrames(width, height int) (int, bool) {
	bpf := BytesPerFrame(width, height, f.pixelFormat)
	if bpf == 0 {
		return 0, false
	}

	return int(f.source.Size() / int64(bpf)), true
}

// Status checks whether the file size is a multiple of the frame size.
func (f *File) Status(width, height int) string {
	bpf := BytesPerFrame(width, height, f.pixelFormat)
	if bpf == 0 || f.source.Size()%int64(bpf) != 0 {
		return "Error: File Size and resolution do not match."
	}

	return "OK"
}

// ReadFrame reads the raw bytes of frame index. If the file ends early, the bytes read are returned with ErrShortRead.
func (f *File) ReadFrame(index, width, height int) ([]byte, error) {
	bpf := BytesPerFrame(width, height, f.pixelFormat)
	if bpf == 0 {
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
		}

		return nil, ErrUnknownFormat
	}

	if index < 0 {
		return nil, fmt.Errorf("%w: frame %d", ErrOutOfBounds, index)
	}

	buf := make([]byte, bpf)

	n, err := f.source.ReadAt(buf, int64(index)*int64(bpf))
	if err != nil {
		return buf[:n], err
	}

	return buf, nil
}

// Frame reads frame index and converts it to planar 4:4:4.
func (f *File) Frame(index, width, height int) (*Frame, error) {
	raw, err := f.ReadFrame(index, width, height)
	if err != nil {
		return nil, err
	}

	f.lastIndex = index

	return ToPlanar444(raw, width, height, f.pixelFormat, f.interpolation)
}

// Image reads frame index at the file size and converts it for display.
// Component math is applied first, then the color conversion. On error a blank image is returned.
func (f *File) Image(index int) (*image.RGBA, error) {
	frame, err := f.Frame(index, f.width, f.height)
	if err != nil {
		return Blank(max(f.width, 0), max(f.height, 0)), err
	}

	f.math.Apply(frame)

	return frame.RGBA(f.conversion), nil
}

// ValueAt returns the samples at x, y of the last decoded frame, decoded again at the file size.
func (f *File) ValueAt(x, y int) (Values, bool) {
	if f.lastIndex < 0 {
		return Values{}, false
	}

	raw, err := f.ReadFrame(f.lastIndex, f.width, f.height)
	if err != nil {
		return Values{}, false
	}

	frame, err := ToPlanar444(raw, f.width, f.height, f.pixelFormat, f.interpolation)
	if err != nil {
		return Values{}, false
	}

	return frame.ValuesAt(x, y)
}
