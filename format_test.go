package yuv_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gen2brain/yuv"
)

func TestBytesPerFrame(t *testing.T) {
	tests := []struct {
		format        yuv.PixelFormat
		width, height int
		want          int
	}{
		{yuv.FormatYUV420P, 4, 2, 12},
		{yuv.FormatYUV420P, 1920, 1080, 3110400},
		{yuv.FormatYUV420P10LE, 1920, 1080, 6220800},
		{yuv.FormatYUV422P, 4, 2, 16},
		{yuv.FormatUYVY422, 4, 2, 16},
		{yuv.FormatYUV444P, 4, 2, 24},
		{yuv.FormatYUV444P16LE, 2, 2, 24},
		{yuv.FormatYUV411P, 8, 1, 12},
		{yuv.FormatGray8, 3, 3, 9},
		{yuv.FormatRGBA, 2, 2, 16},
		{yuv.FormatV210, 6, 1, 16},
		{yuv.FormatV210, 1920, 1080, 5529600},
		{yuv.FormatV210, 7, 1, 32},
		{yuv.FormatYUV420P, 5, 3, 23},
		{yuv.FormatUnknown, 16, 16, 0},
		{yuv.FormatYUV420P, 0, 16, 0},
	}

	for _, tt := range tests {
		got := yuv.BytesPerFrame(tt.width, tt.height, tt.format)
		assert.Equal(t, tt.want, got, "%s %dx%d", tt.format.ShortName(), tt.width, tt.height)
	}
}

func TestBytesPerFrameRounding(t *testing.T) {
	logger, hook := test.NewNullLogger()
	yuv.SetLogger(logger)
	defer yuv.SetLogger(nil)

	yuv.BytesPerFrame(6, 1, yuv.FormatV210)
	yuv.BytesPerFrame(4, 2, yuv.FormatYUV420P)
	assert.Empty(t, hook.AllEntries())

	// 7 pixels are not a whole number of 6 pixel groups
	assert.Equal(t, 32, yuv.BytesPerFrame(7, 1, yuv.FormatV210))

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, "BytesPerFrame", entries[0].Data["function"])

	hook.Reset()

	// 180 bits are not a whole number of bytes
	assert.Equal(t, 23, yuv.BytesPerFrame(5, 3, yuv.FormatYUV420P))

	entries = hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, 180, entries[0].Data["bits"])
}

func TestBytesPerFrameKnown(t *testing.T) {
	for _, f := range yuv.Formats() {
		assert.NotZero(t, yuv.BytesPerFrame(16, 16, f), f.String())
	}

	assert.Zero(t, yuv.BytesPerFrame(16, 16, yuv.FormatUnknown))
	assert.Zero(t, yuv.BytesPerFrame(16, 16, yuv.PixelFormat(1000)))
}

func TestDescribe(t *testing.T) {
	d := yuv.Describe(yuv.FormatYVU422P)
	assert.True(t, d.Reversed)
	assert.True(t, d.Planar)
	assert.Equal(t, 2, d.SubsamplingH)
	assert.Equal(t, 1, d.SubsamplingV)

	d = yuv.Describe(yuv.FormatYUV444P12BE)
	assert.True(t, d.Swap)
	assert.Equal(t, 12, d.BitsPerSample)
	assert.Equal(t, 2, d.BytesPerSample())

	d = yuv.Describe(yuv.FormatGray8)
	assert.False(t, d.HasChroma())
	assert.Equal(t, 1, d.BytesPerSample())

	// 2vuy 10-bit is packed, its words are decoded before any planar path
	d = yuv.Describe(yuv.FormatUYVY422P10)
	assert.False(t, d.Planar)
	assert.Equal(t, 10, d.BitsPerSample)

	d = yuv.Describe(yuv.FormatUnknown)
	assert.Equal(t, 0, d.BitsPerSample)
	assert.Equal(t, 0, d.BytesPerSample())
	assert.False(t, d.Planar)

	assert.Equal(t, yuv.Describe(yuv.FormatUnknown), yuv.Describe(yuv.PixelFormat(-1)))
}

func TestParsePixelFormat(t *testing.T) {
	formats := yuv.Formats()
	assert.Len(t, formats, 19)

	for _, f := range formats {
		assert.Equal(t, f, yuv.ParsePixelFormat(f.ShortName()), f.String())
	}

	assert.Equal(t, yuv.FormatYUV420P, yuv.ParsePixelFormat(" YUV420P "))
	assert.Equal(t, yuv.FormatUnknown, yuv.ParsePixelFormat("h264"))
	assert.Equal(t, "4:2:2 10-bit packed 'v210'", yuv.FormatV210.String())
}
