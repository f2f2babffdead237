package yuv

// Chroma upsampling for 4:2:0 8-bit planes.
//
// Both filters work on one band of output rows at a time: band 0 is the first output row, band ch is
// the last row (and any extra row of an odd height), every band in between is the pair of rows lying
// between two source rows. Bands never share output rows, so they can run in parallel.

type upsampleFunc func(src, dst []byte, w, h, cw, ch, band int)

func upsampleBiLinear(raw []byte, frame *Frame) {
	upsample420(raw, frame, biLinearBand)
}

func upsampleInterstitial(raw []byte, frame *Frame) {
	upsample420(raw, frame, interstitialBand)
}

func upsample420(raw []byte, frame *Frame, fn upsampleFunc) {
	w, h := frame.Width, frame.Height
	cw, ch := w/2, h/2
	size := w * h
	chromaSize := cw * ch

	srcU := raw[size : size+chromaSize]
	srcV := raw[size+chromaSize : size+2*chromaSize]

	parallelRows(ch+1, 2*w, func(start, end int) {
		for band := start; band < end; band++ {
			fn(srcU, frame.Cb.Data, w, h, cw, ch, band)
			fn(srcV, frame.Cr.Data, w, h, cw, ch, band)
		}
	})
}

// biLinearBand assumes chroma co-sited horizontally with even luma columns and midway between luma rows.
func biLinearBand(src, dst []byte, w, h, cw, ch, band int) {
	switch band {
	case 0:
		biLinearRow(src[:cw], dst[:w], cw)
	case ch:
		last := dst[(2*ch-1)*w : 2*ch*w]
		biLinearRow(src[(ch-1)*cw:ch*cw], last, cw)
		fillRows(dst, last, 2*ch, h, w)
	default:
		j := band - 1
		st := src[j*cw : (j+1)*cw]
		sb := src[(j+1)*cw : (j+2)*cw]
		top := dst[(2*j+1)*w : (2*j+2)*w]
		bot := dst[(2*j+2)*w : (2*j+3)*w]

		top[0] = byte((3*int(st[0]) + int(sb[0]) + 2) >> 2)
		bot[0] = byte((int(st[0]) + 3*int(sb[0]) + 2) >> 2)

		for i := 0; i < cw-1; i++ {
			tl, tr := int(st[i]), int(st[i+1])
			bl, br := int(sb[i]), int(sb[i+1])

			top[2*i+1] = byte((6*tl + 6*tr + 2*bl + 2*br + 8) >> 4)
			bot[2*i+1] = byte((2*tl + 2*tr + 6*bl + 6*br + 8) >> 4)
			top[2*i+2] = byte((3*tr + br + 2) >> 2)
			bot[2*i+2] = byte((tr + 3*br + 2) >> 2)
		}

		for x := 2*cw - 1; x < w; x++ {
			top[x] = top[2*cw-2]
			bot[x] = bot[2*cw-2]
		}
	}
}

func biLinearRow(src, dst []byte, cw int) {
	dst[0] = src[0]

	for i := 0; i < cw-1; i++ {
		dst[2*i+1] = byte((int(src[i]) + int(src[i+1]) + 1) >> 1)
		dst[2*i+2] = src[i+1]
	}

	for x := 2*cw - 1; x < len(dst); x++ {
		dst[x] = dst[2*cw-2]
	}
}

// interstitialBand assumes chroma sited in the centre of each 2x2 luma block.
func interstitialBand(src, dst []byte, w, h, cw, ch, band int) {
	switch band {
	case 0:
		interstitialRow(src[:cw], dst[:w], cw)
	case ch:
		last := dst[(2*ch-1)*w : 2*ch*w]
		interstitialRow(src[(ch-1)*cw:ch*cw], last, cw)
		fillRows(dst, last, 2*ch, h, w)
	default:
		j := band - 1
		st := src[j*cw : (j+1)*cw]
		sb := src[(j+1)*cw : (j+2)*cw]
		top := dst[(2*j+1)*w : (2*j+2)*w]
		bot := dst[(2*j+2)*w : (2*j+3)*w]

		top[0] = byte((3*int(st[0]) + int(sb[0]) + 2) >> 2)
		bot[0] = byte((int(st[0]) + 3*int(sb[0]) + 2) >> 2)

		for i := 0; i < cw-1; i++ {
			tl, tr := int(st[i]), int(st[i+1])
			bl, br := int(sb[i]), int(sb[i+1])

			top[2*i+1] = byte((9*tl + 3*tr + 3*bl + br + 8) >> 4)
			bot[2*i+1] = byte((3*tl + tr + 9*bl + 3*br + 8) >> 4)
			top[2*i+2] = byte((3*tl + 9*tr + bl + 3*br + 8) >> 4)
			bot[2*i+2] = byte((tl + 3*tr + 3*bl + 9*br + 8) >> 4)
		}

		lt, lb := int(st[cw-1]), int(sb[cw-1])
		for x := 2*cw - 1; x < w; x++ {
			top[x] = byte((3*lt + lb + 2) >> 2)
			bot[x] = byte((lt + 3*lb + 2) >> 2)
		}
	}
}

func interstitialRow(src, dst []byte, cw int) {
	dst[0] = src[0]

	for i := 0; i < cw-1; i++ {
		a, b := int(src[i]), int(src[i+1])

		dst[2*i+1] = byte((3*a + b + 2) >> 2)
		dst[2*i+2] = byte((a + 3*b + 2) >> 2)
	}

	for x := 2*cw - 1; x < len(dst); x++ {
		dst[x] = src[cw-1]
	}
}

// fillRows repeats row into the rows [from, to) of dst.
func fillRows(dst, row []byte, from, to, w int) {
	for y := from; y < to; y++ {
		copy(dst[y*w:(y+1)*w], row)
	}
}
