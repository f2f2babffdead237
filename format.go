package yuv

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// PixelFormat identifies the layout of samples in a raw file.
type PixelFormat int

// Pixel formats.
const (
	FormatUnknown PixelFormat = iota
	FormatGBR12LEPlanar
	FormatRGBA
	FormatRGB24
	FormatBGR24
	FormatYUV444P16LE
	FormatYUV444P16BE
	FormatYUV444P12LE
	FormatYUV444P12BE
	FormatYUV444P
	FormatYVU444P
	FormatYUV422P
	FormatYVU422P
	FormatUYVY422
	FormatV210
	FormatUYVY422P10
	FormatYUV420P10LE
	FormatYUV420P
	FormatYUV411P
	FormatGray8

	numFormats
)

// Descriptor describes one pixel format.
//
// The number of bits per pixel is a fraction (BitsPerPixelNum / BitsPerPixelDen), because packed
// formats like v210 store 6 pixels in 128 bits. A subsampling factor of 0 means there is no chroma plane.
type Descriptor struct {
	Name string

	BitsPerSample   int
	BitsPerPixelNum int
	BitsPerPixelDen int

	SubsamplingH int
	SubsamplingV int

	Planar bool

	// Swap is set for formats whose 16-bit samples are stored big-endian.
	Swap bool
	// Reversed is set for formats that store Cr before Cb.
	Reversed bool
}

// BytesPerSample returns the size of one sample in the normalized 4:4:4 frame (1 or 2), 0 for unknown formats.
func (d Descriptor) BytesPerSample() int {
	return sampleSize(d.BitsPerSample)
}

// HasChroma checks whether the format stores chroma planes.
func (d Descriptor) HasChroma() bool {
	return d.SubsamplingH != 0 && d.SubsamplingV != 0
}

// The catalog is built once, before any caller can observe it, and never modified afterwards.
var catalog = newCatalog()

func newCatalog() [numFormats]Descriptor {
	var c [numFormats]Descriptor

	c[FormatUnknown] = Descriptor{Name: "Unknown Pixel Format"}
	c[FormatGBR12LEPlanar] = Descriptor{"GBR 12-bit planar", 12, 48, 1, 1, 1, true, false, false}
	c[FormatRGBA] = Descriptor{"RGBA 8-bit", 8, 32, 1, 1, 1, false, false, false}
	c[FormatRGB24] = Descriptor{"RGB 8-bit", 8, 24, 1, 1, 1, false, false, false}
	c[FormatBGR24] = Descriptor{"BGR 8-bit", 8, 24, 1, 1, 1, false, false, false}
	c[FormatYUV444P16LE] = Descriptor{"4:4:4 Y'CbCr 16-bit LE planar", 16, 48, 1, 1, 1, true, false, false}
	c[FormatYUV444P16BE] = Descriptor{"4:4:4 Y'CbCr 16-bit BE planar", 16, 48, 1, 1, 1, true, true, false}
	c[FormatYUV444P12LE] = Descriptor{"4:4:4 Y'CbCr 12-bit LE planar", 12, 48, 1, 1, 1, true, false, false}
	c[FormatYUV444P12BE] = Descriptor{"4:4:4 Y'CbCr 12-bit BE planar", 12, 48, 1, 1, 1, true, true, false}
	c[FormatYUV444P] = Descriptor{"4:4:4 Y'CbCr 8-bit planar", 8, 24, 1, 1, 1, true, false, false}
	c[FormatYVU444P] = Descriptor{"4:4:4 Y'CrCb 8-bit planar", 8, 24, 1, 1, 1, true, false, true}
	c[FormatYUV422P] = Descriptor{"4:2:2 Y'CbCr 8-bit planar", 8, 16, 1, 2, 1, true, false, false}
	c[FormatYVU422P] = Descriptor{"4:2:2 Y'CrCb 8-bit planar", 8, 16, 1, 2, 1, true, false, true}
	c[FormatUYVY422] = Descriptor{"4:2:2 8-bit packed", 8, 16, 1, 2, 1, false, false, false}
	c[FormatV210] = Descriptor{"4:2:2 10-bit packed 'v210'", 10, 128, 6, 2, 1, false, false, false}
	c[FormatUYVY422P10] = Descriptor{"4:2:2 10-bit packed (UYVY)", 10, 128, 6, 2, 1, false, false, false}
	c[FormatYUV420P10LE] = Descriptor{"4:2:0 Y'CbCr 10-bit LE planar", 10, 24, 1, 2, 2, true, false, false}
	c[FormatYUV420P] = Descriptor{"4:2:0 Y'CbCr 8-bit planar", 8, 12, 1, 2, 2, true, false, false}
	c[FormatYUV411P] = Descriptor{"4:1:1 Y'CbCr 8-bit planar", 8, 12, 1, 4, 1, true, false, false}
	c[FormatGray8] = Descriptor{"4:0:0 8-bit", 8, 8, 1, 0, 0, true, false, false}

	return c
}

var formatNames = map[string]PixelFormat{
	"gbr12le":     FormatGBR12LEPlanar,
	"rgba":        FormatRGBA,
	"rgb24":       FormatRGB24,
	"bgr24":       FormatBGR24,
	"yuv444p16le": FormatYUV444P16LE,
	"yuv444p16be": FormatYUV444P16BE,
	"yuv444p12le": FormatYUV444P12LE,
	"yuv444p12be": FormatYUV444P12BE,
	"yuv444p":     FormatYUV444P,
	"yvu444p":     FormatYVU444P,
	"yuv422p":     FormatYUV422P,
	"yvu422p":     FormatYVU422P,
	"uyvy422":     FormatUYVY422,
	"v210":        FormatV210,
	"uyvy422p10":  FormatUYVY422P10,
	"yuv420p10le": FormatYUV420P10LE,
	"yuv420p":     FormatYUV420P,
	"yuv411p":     FormatYUV411P,
	"gray":        FormatGray8,
}

// Describe returns the descriptor of a pixel format.
// Unknown formats resolve to a zero descriptor (no bits, not planar), which callers treat as undecodable.
func Describe(f PixelFormat) Descriptor {
	if f < 0 || f >= numFormats {
		return catalog[FormatUnknown]
	}

	return catalog[f]
}

// Formats returns all known pixel formats, FormatUnknown excluded.
func Formats() []PixelFormat {
	formats := make([]PixelFormat, 0, numFormats-1)
	for f := FormatUnknown + 1; f < numFormats; f++ {
		formats = append(formats, f)
	}

	return formats
}

// ParsePixelFormat returns the pixel format with the given short name (e.g. "yuv420p", "uyvy422", "v210").
func ParsePixelFormat(name string) PixelFormat {
	return formatNames[strings.ToLower(strings.TrimSpace(name))]
}

// ShortName returns the name accepted by ParsePixelFormat.
func (f PixelFormat) ShortName() string {
	for name, format := range formatNames {
		if format == f {
			return name
		}
	}

	return "unknown"
}

// String returns the descriptive name of the format.
func (f PixelFormat) String() string {
	return Describe(f).Name
}

// BytesPerFrame returns the number of bytes one frame occupies in the raw file.
// When the pixel count is not a multiple of the bits-per-pixel denominator, or the bit count is not a
// multiple of 8, the size is rounded up and a warning is logged. Returns 0 for unknown formats.
func BytesPerFrame(width, height int, f PixelFormat) int {
	d := Describe(f)
	if d.BitsPerPixelDen == 0 || width <= 0 || height <= 0 {
		return 0
	}

	numSamples := width * height
	bits := numSamples / d.BitsPerPixelDen

	if numSamples%d.BitsPerPixelDen == 0 {
		bits *= d.BitsPerPixelNum
	} else {
		logger.WithFields(logrus.Fields{
			"function": "BytesPerFrame",
			"format":   d.Name,
			"width":    width,
			"height":   height,
		}).Warn("Pixels not divisible by bits-per-pixel denominator, rounding up")
		bits = (bits + 1) * d.BitsPerPixelNum
	}

	if bits%8 != 0 {
		logger.WithFields(logrus.Fields{
			"function": "BytesPerFrame",
			"format":   d.Name,
			"bits":     bits,
		}).Warn("Bits not divisible by 8, rounding up")
		bits += 8
	}

	return bits / 8
}

func sampleSize(bitsPerSample int) int {
	switch {
	case bitsPerSample <= 0:
		return 0
	case bitsPerSample <= 8:
		return 1
	default:
		return 2
	}
}
