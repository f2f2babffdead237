package yuv

// Display selects which components of a frame are shown.
type Display int

// Displays.
const (
	DisplayAll Display = iota
	DisplayY
	DisplayU
	DisplayV
)

// ComponentMath scales one component around an offset and optionally inverts it:
//
//	v' = Offset + Scale * (v - Offset)
//	v' = max - v'  (if Invert)
//
// The result is clamped to the sample range. A zero Scale means 1, a zero Offset means the middle of the range.
type ComponentMath struct {
	Scale  int
	Offset int
	Invert bool
}

// IsIdentity checks whether the math leaves samples unchanged.
func (m ComponentMath) IsIdentity() bool {
	return (m.Scale == 0 || m.Scale == 1) && !m.Invert
}

// Math is applied to decoded frames before color conversion.
type Math struct {
	Display Display

	Y ComponentMath
	U ComponentMath
	V ComponentMath
}

// IsIdentity checks whether the math leaves frames unchanged.
func (m Math) IsIdentity() bool {
	return m.Display == DisplayAll && m.Y.IsIdentity() && m.U.IsIdentity() && m.V.IsIdentity()
}

// Apply modifies frame in place.
func (m Math) Apply(frame *Frame) {
	if frame == nil || frame.Len() == 0 || m.IsIdentity() {
		return
	}

	maxValue, mid := frame.maxValue(), frame.midValue()

	for c, cm := range []ComponentMath{m.Y, m.U, m.V} {
		if cm.IsIdentity() {
			continue
		}

		scale, offset := cm.Scale, cm.Offset
		if scale == 0 {
			scale = 1
		}
		if offset == 0 {
			offset = mid
		}

		p := frame.Plane(Component(c))
		fn := func(v int) int {
			v = offset + scale*(v-offset)
			if cm.Invert {
				v = maxValue - v
			}

			return min(max(v, 0), maxValue)
		}

		parallelRows(frame.Height, frame.Width, func(start, end int) {
			lo, hi := start*frame.Width, end*frame.Width
			if p.Data16 != nil {
				for i := lo; i < hi; i++ {
					p.Data16[i] = uint16(fn(int(p.Data16[i])))
				}

				return
			}

			for i := lo; i < hi; i++ {
				p.Data[i] = byte(fn(int(p.Data[i])))
			}
		})
	}

	if m.Display == DisplayAll {
		return
	}

	src := frame.Plane(Component(m.Display - DisplayY))
	if src != &frame.Y {
		copy(frame.Y.Data, src.Data)
		copy(frame.Y.Data16, src.Data16)
	}

	for _, p := range []*Plane{&frame.Cb, &frame.Cr} {
		for i := range p.Data {
			p.Data[i] = byte(mid)
		}
		for i := range p.Data16 {
			p.Data16[i] = uint16(mid)
		}
	}
}
