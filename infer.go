package yuv

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// MSEThreshold is the largest luma mean squared error between the first two frames
	// that still accepts a candidate resolution.
	MSEThreshold = 100.0
)

// Format holds the geometry and layout of a raw file, as far as it is known.
// Zero values mean unknown.
type Format struct {
	Width     int
	Height    int
	NumFrames int
	BitDepth  int
	FrameRate float64

	PixelFormat PixelFormat
}

// Known checks whether the format has a geometry.
func (f Format) Known() bool {
	return f.Width > 0 && f.Height > 0
}

// String returns a short description of the format.
func (f Format) String() string {
	return fmt.Sprintf("%dx%d %s, %d frames, %d bit, %g fps", f.Width, f.Height, f.PixelFormat.ShortName(), f.NumFrames, f.BitDepth, f.FrameRate)
}

var (
	reExtended = regexp.MustCompile(`(\d+)x(\d+)_(\d+)_(\d+)`)
	reDefault  = regexp.MustCompile(`(\d+)x(\d+)_(\d+)`)
)

// FormatFromFilename guesses the format from naming conventions like "name_1920x1080_50_10.yuv"
// (width, height, frame rate, bit depth), "name_1920x1080_50.yuv" (8-bit) or the "_cif", "_qcif"
// and "_4cif" tags. When the geometry and a bit depth of 8 or 10 are known, the number of frames is
// computed from size assuming 4:2:0 planar. The pixel format is never set.
func FormatFromFilename(name string, size int64) Format {
	var f Format

	base := filepath.Base(name)
	if base == "" || base == "." {
		return f
	}

	if m := reExtended.FindStringSubmatch(base); m != nil {
		f.Width = atoi(m[1])
		f.Height = atoi(m[2])
		f.FrameRate = float64(atoi(m[3]))
		f.BitDepth = atoi(m[4])
	} else if m := reDefault.FindStringSubmatch(base); m != nil {
		f.Width = atoi(m[1])
		f.Height = atoi(m[2])
		f.FrameRate = float64(atoi(m[3]))
		f.BitDepth = 8
	} else {
		lower := strings.ToLower(base)

		switch {
		case strings.Contains(lower, "_cif"):
			f.Width, f.Height = 352, 288
		case strings.Contains(lower, "_qcif"):
			f.Width, f.Height = 176, 144
		case strings.Contains(lower, "_4cif"):
			f.Width, f.Height = 704, 576
		}
	}

	if f.Known() && f.BitDepth > 0 {
		var bpf int

		switch f.BitDepth {
		case 8:
			bpf = BytesPerFrame(f.Width, f.Height, FormatYUV420P)
		case 10:
			bpf = BytesPerFrame(f.Width, f.Height, FormatYUV420P10LE)
		}

		if bpf > 0 {
			f.NumFrames = int(size / int64(bpf))
		}
	}

	return f
}

type candidate struct {
	width  int
	height int
	format PixelFormat
}

var candidates = newCandidates()

func newCandidates() []candidate {
	sizes := [][2]int{
		{176, 144}, {352, 240}, {352, 288}, {480, 480}, {480, 576}, {704, 480}, {720, 480},
		{704, 576}, {720, 576}, {1024, 768}, {1280, 720}, {1280, 960}, {1920, 1072}, {1920, 1080},
	}

	c := make([]candidate, 0, 2*len(sizes)+1)
	for _, s := range sizes {
		c = append(c, candidate{s[0], s[1], FormatYUV420P})
	}
	for _, s := range sizes {
		c = append(c, candidate{s[0], s[1], FormatYUV422P})
		if s == [2]int{720, 480} {
			c = append(c, candidate{720, 486, FormatYUV422P})
		}
	}

	return c
}

// FormatFromCorrelation guesses the format of a raw 8-bit planar file by trying common resolutions.
//
// A resolution is tried only when the file holds at least two frames and its size is an exact multiple of
// the frame size. The luma of the first frame is compared against the bytes at the start of the second
// frame, the candidate with the lowest mean squared error wins if the error is below MSEThreshold.
// A zero Format is returned when nothing qualifies or the source cannot be read.
func FormatFromCorrelation(r io.ReaderAt, size int64) Format {
	if r == nil || size < 1 {
		return Format{}
	}

	interesting := make([]int, 0, len(candidates))
	maxLuma := 0

	for i, c := range candidates {
		picSize := int64(BytesPerFrame(c.width, c.height, c.format))
		if picSize == 0 || size < 2*picSize || size%picSize != 0 {
			continue
		}

		interesting = append(interesting, i)
		maxLuma = max(maxLuma, c.width*c.height)
	}

	if len(interesting) == 0 {
		return Format{}
	}

	// frame 0 starts at offset 0 for every candidate
	first := make([]byte, maxLuma)
	if _, err := r.ReadAt(first, 0); err != nil {
		return Format{}
	}

	best := -1
	leastMSE := 0.0

	buf := make([]byte, maxLuma)

	for _, i := range interesting {
		c := candidates[i]
		picSize := int64(BytesPerFrame(c.width, c.height, c.format))
		lumaSize := c.width * c.height

		if _, err := r.ReadAt(buf[:lumaSize], picSize); err != nil {
			return Format{}
		}

		mse := computeMSE(first[:lumaSize], buf[:lumaSize])

		logger.WithFields(logrus.Fields{
			"function": "FormatFromCorrelation",
			"width":    c.width,
			"height":   c.height,
			"format":   c.format.ShortName(),
			"mse":      mse,
		}).Debug("Candidate")

		if best < 0 || mse < leastMSE {
			best = i
			leastMSE = mse
		}
	}

	if best < 0 || leastMSE >= MSEThreshold {
		return Format{}
	}

	c := candidates[best]

	return Format{
		Width:       c.width,
		Height:      c.height,
		NumFrames:   int(size / int64(BytesPerFrame(c.width, c.height, c.format))),
		BitDepth:    8,
		PixelFormat: c.format,
	}
}

func computeMSE(a, b []byte) float64 {
	if len(a) == 0 {
		return 0
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return sum / float64(len(a))
}

// Merge combines two inference results by taking the larger value of every field.
// A warning is logged for every field both results know with different values.
func Merge(a, b Format) Format {
	conflict := func(field string, x, y any) {
		logger.WithFields(logrus.Fields{
			"function": "Merge",
			"field":    field,
			"a":        x,
			"b":        y,
		}).Warn("Inference strategies disagree")
	}

	if a.Width > 0 && b.Width > 0 && a.Width != b.Width {
		conflict("width", a.Width, b.Width)
	}
	if a.Height > 0 && b.Height > 0 && a.Height != b.Height {
		conflict("height", a.Height, b.Height)
	}
	if a.NumFrames > 0 && b.NumFrames > 0 && a.NumFrames != b.NumFrames {
		conflict("frames", a.NumFrames, b.NumFrames)
	}
	if a.BitDepth > 0 && b.BitDepth > 0 && a.BitDepth != b.BitDepth {
		conflict("bit depth", a.BitDepth, b.BitDepth)
	}
	if a.FrameRate > 0 && b.FrameRate > 0 && a.FrameRate != b.FrameRate {
		conflict("frame rate", a.FrameRate, b.FrameRate)
	}
	if a.PixelFormat != FormatUnknown && b.PixelFormat != FormatUnknown && a.PixelFormat != b.PixelFormat {
		conflict("pixel format", a.PixelFormat.ShortName(), b.PixelFormat.ShortName())
	}

	return Format{
		Width:       max(a.Width, b.Width),
		Height:      max(a.Height, b.Height),
		NumFrames:   max(a.NumFrames, b.NumFrames),
		BitDepth:    max(a.BitDepth, b.BitDepth),
		FrameRate:   max(a.FrameRate, b.FrameRate),
		PixelFormat: max(a.PixelFormat, b.PixelFormat),
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)

	return n
}
