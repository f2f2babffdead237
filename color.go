package yuv

import (
	"image"
	"image/color"
	"unsafe"
)

// ColorConversion selects the Y'CbCr to RGB matrix. All conversions assume limited range.
type ColorConversion int

// Color conversions.
const (
	BT709 ColorConversion = iota
	BT601
)

// String returns the name of the conversion.
func (c ColorConversion) String() string {
	if c == BT601 {
		return "BT.601"
	}

	return "BT.709"
}

// coefficients in 16.16 fixed point
type coefficients struct {
	y   int
	crR int
	cbG int
	crG int
	cbB int
}

func (c ColorConversion) coefficients() coefficients {
	if c == BT601 {
		return coefficients{76309, 104597, 25675, 53279, 132201}
	}

	return coefficients{76309, 117489, 13975, 34925, 138438}
}

// RGB converts the frame to interleaved 8-bit RGB.
func (f *Frame) RGB(c ColorConversion) []byte {
	dst := make([]byte, 3*f.Width*f.Height)
	f.convert(c, dst, 3)

	return dst
}

// RGBA converts the frame to image.RGBA. Alpha is always opaque.
func (f *Frame) RGBA(c ColorConversion) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	f.convert(c, img.Pix, 4)

	return img
}

// Pixels returns frame as slice of color.RGBA.
func (f *Frame) Pixels(c ColorConversion) []color.RGBA {
	img := f.RGBA(c)
	if len(img.Pix) == 0 {
		return nil
	}

	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), len(img.Pix)/4)
}

// Blank returns a fully transparent image, shown in place of a frame that cannot be decoded.
func Blank(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (f *Frame) convert(c ColorConversion, dst []byte, stride int) {
	if f.Len() == 0 {
		return
	}

	k := c.coefficients()
	w := f.Width
	shift := max(f.BitDepth-8, 0)

	sample := func(p *Plane, i int) int {
		if p.Data16 != nil {
			return int(p.Data16[i] >> shift)
		}

		return int(p.Data[i])
	}

	parallelRows(f.Height, w, func(start, end int) {
		for i := start * w; i < end*w; i++ {
			y := (sample(&f.Y, i) - 16) * k.y
			cb := sample(&f.Cb, i) - 128
			cr := sample(&f.Cr, i) - 128

			d := dst[i*stride:]
			d[0] = clamp((y + k.crR*cr + 32768) >> 16)
			d[1] = clamp((y - k.cbG*cb - k.crG*cr + 32768) >> 16)
			d[2] = clamp((y + k.cbB*cb + 32768) >> 16)
			if stride == 4 {
				d[3] = 0xff
			}
		}
	})
}

func clamp(n int) byte {
	if n > 255 {
		n = 255
	} else if n < 0 {
		n = 0
	}

	return byte(n)
}
