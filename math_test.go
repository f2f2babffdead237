package yuv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gen2brain/yuv"
)

func TestMathIdentity(t *testing.T) {
	assert.True(t, yuv.Math{}.IsIdentity())
	assert.True(t, yuv.Math{Y: yuv.ComponentMath{Scale: 1, Offset: 50}}.IsIdentity())
	assert.False(t, yuv.Math{Display: yuv.DisplayU}.IsIdentity())
	assert.False(t, yuv.Math{V: yuv.ComponentMath{Invert: true}}.IsIdentity())

	raw := []byte{10, 20, 30, 40, 50, 60}
	frame := decode(t, raw, 2, 1, yuv.FormatYUV444P)

	yuv.Math{}.Apply(frame)
	assert.Equal(t, raw, frame.Bytes())
}

func TestMathApply(t *testing.T) {
	raw := []byte{
		100, 140, 250,
		120, 130, 128,
		0, 128, 255,
	}

	frame := decode(t, raw, 3, 1, yuv.FormatYUV444P)

	m := yuv.Math{
		Y: yuv.ComponentMath{Scale: 2, Offset: 100},
		U: yuv.ComponentMath{Scale: 4},
		V: yuv.ComponentMath{Invert: true},
	}
	m.Apply(frame)

	// 100 + 2*(v-100), clamped
	assert.Equal(t, []byte{100, 180, 255}, frame.Y.Data)
	// 128 + 4*(v-128)
	assert.Equal(t, []byte{96, 136, 128}, frame.Cb.Data)
	// 255 - v
	assert.Equal(t, []byte{255, 127, 0}, frame.Cr.Data)
}

func TestMathDisplay(t *testing.T) {
	raw := []byte{
		1, 2,
		3, 4,
		5, 6,
	}

	for _, tt := range []struct {
		display yuv.Display
		want    []byte
	}{
		{yuv.DisplayY, []byte{1, 2}},
		{yuv.DisplayU, []byte{3, 4}},
		{yuv.DisplayV, []byte{5, 6}},
	} {
		frame := decode(t, raw, 2, 1, yuv.FormatYUV444P)

		yuv.Math{Display: tt.display}.Apply(frame)

		assert.Equal(t, tt.want, frame.Y.Data)
		assert.Equal(t, []byte{128, 128}, frame.Cb.Data)
		assert.Equal(t, []byte{128, 128}, frame.Cr.Data)
	}
}

func TestMathDeep(t *testing.T) {
	raw := []byte{0x00, 0x02, 0x00, 0x02, 0xff, 0x03}

	frame := decode(t, raw, 1, 1, yuv.FormatYUV444P12LE)

	yuv.Math{Y: yuv.ComponentMath{Invert: true}, Display: yuv.DisplayAll}.Apply(frame)

	// 4095 - 512
	assert.Equal(t, []uint16{3583}, frame.Y.Data16)
	assert.Equal(t, []uint16{512}, frame.Cb.Data16)
	assert.Equal(t, []uint16{0x03ff}, frame.Cr.Data16)
}
