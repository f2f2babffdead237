package yuv_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gen2brain/yuv"
)

func decode(t testing.TB, raw []byte, w, h int, f yuv.PixelFormat) *yuv.Frame {
	frame, err := yuv.ToPlanar444(raw, w, h, f, yuv.NearestNeighbor)
	require.NoError(t, err)

	return frame
}

func TestDifferenceSelf(t *testing.T) {
	a := decode(t, testRamp[:192], rampWidth, rampHeight, yuv.FormatYUV420P)

	d, err := yuv.Difference(a, a, yuv.FormatYUV420P)
	require.NoError(t, err)

	for _, v := range d.Bytes() {
		require.Equal(t, byte(128), v)
	}
}

func TestDifferenceRecover(t *testing.T) {
	a := decode(t, testRamp[:192], rampWidth, rampHeight, yuv.FormatYUV420P)
	b := decode(t, testRamp[192:384], rampWidth, rampHeight, yuv.FormatYUV420P)

	d, err := yuv.Difference(a, b, yuv.FormatYUV420P)
	require.NoError(t, err)

	da, db, dd := a.Bytes(), b.Bytes(), d.Bytes()
	for i := range dd {
		require.Equal(t, da[i], dd[i]-128+db[i], "sample %d", i)
	}
}

func TestDifference16(t *testing.T) {
	raw := func(y, u, v uint16) []byte {
		b := make([]byte, 6)
		binary.LittleEndian.PutUint16(b[0:], y)
		binary.LittleEndian.PutUint16(b[2:], u)
		binary.LittleEndian.PutUint16(b[4:], v)

		return b
	}

	a := decode(t, raw(1000, 10, 4095), 1, 1, yuv.FormatYUV444P12LE)
	b := decode(t, raw(10, 1000, 0), 1, 1, yuv.FormatYUV444P12LE)

	d, err := yuv.Difference(a, b, yuv.FormatYUV444P12LE)
	require.NoError(t, err)

	assert.Equal(t, []uint16{2048 + 990}, d.Y.Data16)
	assert.Equal(t, []uint16{2048 - 990}, d.Cb.Data16)
	assert.Equal(t, []uint16{2048 + 4095}, d.Cr.Data16)

	d, err = yuv.Difference(b, a, yuv.FormatYUV444P16LE)
	require.NoError(t, err)

	// the midpoint follows the format, not the frame
	assert.Equal(t, []uint16{uint16(32768 + 10 - 1000)}, d.Y.Data16)
	assert.Equal(t, []uint16{uint16(32768 - 4095)}, d.Cr.Data16)
}

func TestDifferenceErrors(t *testing.T) {
	a := decode(t, testRamp[:192], rampWidth, rampHeight, yuv.FormatYUV420P)
	b := decode(t, testRamp[:48], 8, 4, yuv.FormatYUV420P)

	_, err := yuv.Difference(a, b, yuv.FormatYUV420P)
	assert.ErrorIs(t, err, yuv.ErrFrameMismatch)

	_, err = yuv.Difference(a, nil, yuv.FormatYUV420P)
	assert.ErrorIs(t, err, yuv.ErrFrameMismatch)

	logger, hook := test.NewNullLogger()
	yuv.SetLogger(logger)
	defer yuv.SetLogger(nil)

	_, err = yuv.Difference(a, a, yuv.FormatUnknown)
	assert.ErrorIs(t, err, yuv.ErrUnsupportedBitDepth)

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, "Difference", entries[0].Data["function"])
	assert.Equal(t, 0, entries[0].Data["bits"])

	_, err = yuv.Difference(a, a, yuv.FormatYUV420P10LE)
	assert.ErrorIs(t, err, yuv.ErrFrameMismatch)
}

func newRampFile(t *testing.T, data []byte, f yuv.PixelFormat) *yuv.File {
	file, err := yuv.New(bytes.NewReader(data), "ramp.yuv")
	require.NoError(t, err)

	file.SetPixelFormat(f)
	file.SetSize(rampWidth, rampHeight)

	return file
}

func TestDiff(t *testing.T) {
	a := newRampFile(t, testRamp, yuv.FormatYUV420P)
	b := newRampFile(t, testRamp[192:], yuv.FormatYUV420P)

	diff := yuv.NewDiff(a, b)

	n, ok := diff.NumFrames()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	assert.Equal(t, rampWidth, diff.Width())
	assert.Equal(t, rampHeight, diff.Height())
	assert.Equal(t, yuv.DefaultFrameRate, diff.FrameRate())

	_, ok = diff.ValueAt(0, 0)
	assert.False(t, ok)

	frame, err := diff.Frame(0)
	require.NoError(t, err)

	// frame 1 is frame 0 plus 16 in luma, plus 1 in Cb, minus 1 in Cr
	assert.Equal(t, byte(128-16), frame.Y.Data[0])
	assert.Equal(t, byte(127), frame.Cb.Data[0])
	assert.Equal(t, byte(129), frame.Cr.Data[0])

	v, ok := diff.ValueAt(5, 3)
	require.True(t, ok)
	assert.Equal(t, yuv.Values{Y: -16, U: -1, V: 1}, v)

	_, ok = diff.ValueAt(rampWidth, 0)
	assert.False(t, ok)

	img, err := diff.Image(1)
	require.NoError(t, err)
	assert.Equal(t, rampWidth, img.Bounds().Dx())

	_, err = diff.Frame(2)
	assert.ErrorIs(t, err, yuv.ErrOutOfBounds)

	img, err = diff.Image(-1)
	assert.ErrorIs(t, err, yuv.ErrOutOfBounds)
	assert.Equal(t, make([]byte, 4*rampWidth*rampHeight), img.Pix)
}

func TestDiffRefused(t *testing.T) {
	a := newRampFile(t, testRamp, yuv.FormatYUV420P)
	b := newRampFile(t, testRamp, yuv.FormatYUV420P10LE)

	diff := yuv.NewDiff(a, b)

	_, err := diff.Frame(0)
	assert.ErrorIs(t, err, yuv.ErrBitDepthMismatch)

	img, err := diff.Image(0)
	assert.ErrorIs(t, err, yuv.ErrBitDepthMismatch)
	assert.Equal(t, make([]byte, 4*rampWidth*rampHeight), img.Pix)

	diff = yuv.NewDiff(a, nil)

	_, ok := diff.NumFrames()
	assert.False(t, ok)

	_, err = diff.Frame(0)
	assert.ErrorIs(t, err, yuv.ErrNoSource)

	img, err = diff.Image(0)
	assert.ErrorIs(t, err, yuv.ErrNoSource)
	assert.Equal(t, rampWidth, img.Bounds().Dx())

	diff = yuv.NewDiff(nil, nil)

	img, _ = diff.Image(0)
	assert.True(t, img.Bounds().Empty())
}

func TestDiffMinSize(t *testing.T) {
	a := newRampFile(t, testRamp, yuv.FormatYUV420P)

	small := make([]byte, 2*yuv.BytesPerFrame(8, 4, yuv.FormatYUV420P))
	b := newRampFile(t, small, yuv.FormatYUV420P)
	b.SetSize(8, 4)

	diff := yuv.NewDiff(a, b)

	n, ok := diff.NumFrames()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	frame, err := diff.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, 8, frame.Width)
	assert.Equal(t, 4, frame.Height)
}

func BenchmarkDifference(b *testing.B) {
	const w, h = 1920, 1080

	raw := make([]byte, yuv.BytesPerFrame(w, h, yuv.FormatYUV420P))
	fa := decode(b, raw, w, h, yuv.FormatYUV420P)
	fb := decode(b, raw, w, h, yuv.FormatYUV420P)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = yuv.Difference(fa, fb, yuv.FormatYUV420P)
	}
}
