package yuv

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"

	"github.com/sirupsen/logrus"
)

// Interpolation is the chroma upsampling method used for 4:2:0 8-bit sources.
type Interpolation int

// Interpolation modes.
const (
	// NearestNeighbor repeats every chroma sample (sample and hold).
	NearestNeighbor Interpolation = iota
	// BiLinear assumes chroma sited vertically midway and horizontally co-sited.
	BiLinear
	// Interstitial assumes chroma sited in the middle of each 2x2 luma block.
	Interstitial
)

// String returns the name of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case BiLinear:
		return "bilinear"
	case Interstitial:
		return "interstitial"
	default:
		return "nearest"
	}
}

// ParseInterpolation returns the interpolation mode with the given name, NearestNeighbor if unknown.
func ParseInterpolation(name string) Interpolation {
	switch strings.ToLower(name) {
	case "bilinear":
		return BiLinear
	case "interstitial":
		return Interstitial
	default:
		return NearestNeighbor
	}
}

// packedHeadroom is the shift that moves a 10-bit field to the top of a 16-bit sample.
const packedHeadroom = 6

// ToPlanar444 converts one raw frame into a planar 4:4:4 frame with the given geometry.
//
// The returned frame always has exactly 3 * width * height samples. If the format cannot be converted,
// the frame is returned zeroed together with ErrUnsupportedFormat (or ErrUnknownFormat). If raw is
// shorter than one frame, ErrShortRead is returned and nothing is read.
func ToPlanar444(raw []byte, width, height int, format PixelFormat, mode Interpolation) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	d := Describe(format)
	if d.BitsPerSample == 0 {
		return newFrame(width, height, 0), ErrUnknownFormat
	}

	need := BytesPerFrame(width, height, format)
	if len(raw) < need {
		return newFrame(width, height, d.BitsPerSample), fmt.Errorf("%w: got %d bytes, want %d", ErrShortRead, len(raw), need)
	}

	var frame *Frame

	switch {
	case !d.HasChroma() && d.BitsPerSample == 8:
		frame = newFrame(width, height, 8)
		convertGray(raw, frame)
	case format == FormatUYVY422:
		frame = newFrame(width, height, 8)
		convertUYVY(raw, frame)
	case format == FormatUYVY422P10:
		frame = newFrame(width, height, 16)
		convertPacked10BE(raw, frame)
	case format == FormatV210:
		frame = newFrame(width, height, 16)
		convertPacked10LE(raw, frame)
	case format == FormatYUV420P && mode == BiLinear && width >= 2 && height >= 2:
		frame = newFrame(width, height, 8)
		copy(frame.Y.Data, raw[:width*height])
		upsampleBiLinear(raw, frame)
	case format == FormatYUV420P && mode == Interstitial && width >= 2 && height >= 2:
		frame = newFrame(width, height, 8)
		copy(frame.Y.Data, raw[:width*height])
		upsampleInterstitial(raw, frame)
	case d.Planar && d.HasChroma() && d.BitsPerSample == 8:
		frame = newFrame(width, height, 8)
		convertPlanar8(raw, frame, d)
	case format == FormatYUV420P10LE:
		frame = newFrame(width, height, d.BitsPerSample)
		convertPlanar420P10LE(raw, frame)
	case format == FormatYUV444P12BE || format == FormatYUV444P16BE:
		frame = newFrame(width, height, d.BitsPerSample)
		decode16(raw, frame.data16, binary.BigEndian)
	case format == FormatYUV444P12LE || format == FormatYUV444P16LE:
		frame = newFrame(width, height, d.BitsPerSample)
		decode16(raw, frame.data16, binary.LittleEndian)
	default:
		logger.WithFields(logrus.Fields{
			"function": "ToPlanar444",
			"format":   d.Name,
			"width":    width,
			"height":   height,
		}).Warn("Unhandled pixel format")

		return newFrame(width, height, d.BitsPerSample), fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.Name)
	}

	return frame, nil
}

func convertGray(raw []byte, frame *Frame) {
	size := frame.Width * frame.Height

	copy(frame.Y.Data, raw[:size])

	chroma := frame.data[size:]
	for i := range chroma {
		chroma[i] = 128
	}
}

// convertUYVY expands packed U0 Y0 V0 Y1 groups; both pixels of a pair share the chroma of the pair.
func convertUYVY(raw []byte, frame *Frame) {
	w := frame.Width
	dstY, dstU, dstV := frame.Y.Data, frame.Cb.Data, frame.Cr.Data

	parallelRows(frame.Height, w, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := x + y*w
				pair := ((x>>1)<<1 + y*w) << 1

				dstY[i] = raw[(i<<1)+1]
				dstU[i] = raw[pair]
				if pair+2 < len(raw) {
					dstV[i] = raw[pair+2]
				}
			}
		}
	})
}

// convertPacked10BE expands 10-bit 4:2:2 packed in big-endian 32-bit words, 6 pixels per 4 words.
func convertPacked10BE(raw []byte, frame *Frame) {
	size := frame.Width * frame.Height
	groups := (size + 5) / 6

	parallelRows(groups, 6, func(start, end int) {
		var y, u, v [6]uint16

		for i := start; i < end; i++ {
			src := raw[i*16:]

			w := binary.BigEndian.Uint32(src[0:])
			v[0] = uint16((w & 0xffc00000) >> (22 - packedHeadroom))
			y[0] = uint16((w & 0x003ff000) >> (12 - packedHeadroom))
			u[0] = uint16((w & 0x00000ffc) << (packedHeadroom - 2))
			v[1], u[1] = v[0], u[0]

			w = binary.BigEndian.Uint32(src[4:])
			y[1] = uint16((w & 0xffc00000) >> (22 - packedHeadroom))
			v[2] = uint16((w & 0x003ff000) >> (12 - packedHeadroom))
			y[2] = uint16((w & 0x00000ffc) << (packedHeadroom - 2))
			v[3] = v[2]

			w = binary.BigEndian.Uint32(src[8:])
			u[2] = uint16((w & 0xffc00000) >> (22 - packedHeadroom))
			y[3] = uint16((w & 0x003ff000) >> (12 - packedHeadroom))
			v[4] = uint16((w & 0x00000ffc) << (packedHeadroom - 2))
			u[3], v[5] = u[2], v[4]

			w = binary.BigEndian.Uint32(src[12:])
			y[4] = uint16((w & 0xffc00000) >> (22 - packedHeadroom))
			u[4] = uint16((w & 0x003ff000) >> (12 - packedHeadroom))
			y[5] = uint16((w & 0x00000ffc) << (packedHeadroom - 2))
			u[5] = u[4]

			storeGroup(frame, i*6, &y, &u, &v)
		}
	})
}

// convertPacked10LE expands v210: 10-bit 4:2:2 packed in little-endian 32-bit words, 6 pixels per 4 words.
func convertPacked10LE(raw []byte, frame *Frame) {
	size := frame.Width * frame.Height
	groups := (size + 5) / 6

	parallelRows(groups, 6, func(start, end int) {
		var y, u, v [6]uint16

		for i := start; i < end; i++ {
			src := raw[i*16:]

			w := binary.LittleEndian.Uint32(src[0:])
			v[0] = uint16((w & 0x3ff00000) >> (20 - packedHeadroom))
			y[0] = uint16((w & 0x000ffc00) >> (10 - packedHeadroom))
			u[0] = uint16((w & 0x000003ff) << packedHeadroom)
			v[1], u[1] = v[0], u[0]

			w = binary.LittleEndian.Uint32(src[4:])
			y[1] = uint16((w & 0x000003ff) << packedHeadroom)
			u[2] = uint16((w & 0x000ffc00) >> (10 - packedHeadroom))
			y[2] = uint16((w & 0x3ff00000) >> (20 - packedHeadroom))
			u[3] = u[2]

			w = binary.LittleEndian.Uint32(src[8:])
			u[4] = uint16((w & 0x3ff00000) >> (20 - packedHeadroom))
			y[3] = uint16((w & 0x000ffc00) >> (10 - packedHeadroom))
			v[2] = uint16((w & 0x000003ff) << packedHeadroom)
			u[5], v[3] = u[4], v[2]

			w = binary.LittleEndian.Uint32(src[12:])
			y[4] = uint16((w & 0x000003ff) << packedHeadroom)
			v[4] = uint16((w & 0x000ffc00) >> (10 - packedHeadroom))
			y[5] = uint16((w & 0x3ff00000) >> (20 - packedHeadroom))
			v[5] = v[4]

			storeGroup(frame, i*6, &y, &u, &v)
		}
	})
}

// storeGroup writes one group of 6 pixels, dropping the padding pixels of the last group.
func storeGroup(frame *Frame, pos int, y, u, v *[6]uint16) {
	n := min(6, len(frame.Y.Data16)-pos)

	copy(frame.Y.Data16[pos:pos+n], y[:n])
	copy(frame.Cb.Data16[pos:pos+n], u[:n])
	copy(frame.Cr.Data16[pos:pos+n], v[:n])
}

// convertPlanar8 upsamples 8-bit planar chroma by sample and hold.
func convertPlanar8(raw []byte, frame *Frame, d Descriptor) {
	w, h := frame.Width, frame.Height
	size := w * h

	subH, subV := d.SubsamplingH, d.SubsamplingV
	cw, ch := w/subH, h/subV
	chromaSize := cw * ch

	srcU := raw[size : size+chromaSize]
	srcV := raw[size+chromaSize : size+2*chromaSize]
	if d.Reversed {
		srcU, srcV = srcV, srcU
	}

	copy(frame.Y.Data, raw[:size])

	dstU, dstV := frame.Cb.Data, frame.Cr.Data

	if subH == 1 && subV == 1 {
		copy(dstU, srcU)
		copy(dstV, srcV)

		return
	}

	if cw == 0 || ch == 0 {
		return
	}

	if subH == 2 && subV == 2 && cw*2 == w && ch*2 == h {
		parallelRows(ch, w*2, func(start, end int) {
			for y := start; y < end; y++ {
				top := 2 * y * w
				for x := 0; x < cw; x++ {
					u, v := srcU[x+y*cw], srcV[x+y*cw]
					dstU[top+2*x], dstU[top+2*x+1] = u, u
					dstV[top+2*x], dstV[top+2*x+1] = v, v
				}
				copy(dstU[top+w:top+2*w], dstU[top:top+w])
				copy(dstV[top+w:top+2*w], dstV[top:top+w])
			}
		})

		return
	}

	// Subsampling factors of the catalog are powers of two.
	shiftH, shiftV := bits.TrailingZeros(uint(subH)), bits.TrailingZeros(uint(subV))

	parallelRows(h, w, func(start, end int) {
		for y := start; y < end; y++ {
			row := min(y>>shiftV, ch-1) * cw
			for x := 0; x < w; x++ {
				i := row + min(x>>shiftH, cw-1)
				dstU[x+y*w] = srcU[i]
				dstV[x+y*w] = srcV[i]
			}
		}
	})
}

// convertPlanar420P10LE reads little-endian 10-bit samples and repeats chroma in both directions.
func convertPlanar420P10LE(raw []byte, frame *Frame) {
	w, h := frame.Width, frame.Height
	size := w * h
	cw, ch := max(w/2, 1), max(h/2, 1)

	srcY := raw[:2*size]
	srcU := raw[2*size:]
	srcV := raw[2*size+2*(w/2)*(h/2):]

	dstY, dstU, dstV := frame.Y.Data16, frame.Cb.Data16, frame.Cr.Data16
	hasChroma := w >= 2 && h >= 2

	parallelRows(h, w, func(start, end int) {
		for y := start; y < end; y++ {
			row := min(y/2, ch-1) * cw
			for x := 0; x < w; x++ {
				i := x + y*w
				dstY[i] = binary.LittleEndian.Uint16(srcY[2*i:])

				if !hasChroma {
					continue
				}

				c := 2 * (row + min(x/2, cw-1))
				dstU[i] = binary.LittleEndian.Uint16(srcU[c:])
				dstV[i] = binary.LittleEndian.Uint16(srcV[c:])
			}
		}
	})
}

func decode16(raw []byte, dst []uint16, order binary.ByteOrder) {
	parallelRows(len(dst)/1024+1, 1024, func(start, end int) {
		for i := start * 1024; i < min(end*1024, len(dst)); i++ {
			dst[i] = order.Uint16(raw[2*i:])
		}
	})
}
