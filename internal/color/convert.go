package color

// FromSRGB8 builds a premultiplied linear color from straight-alpha sRGB
// bytes, the form colors arrive in from pickers and config files.
func FromSRGB8(r, g, b, a uint8) ColorF32 {
	return Premultiply(
		SRGBToLinearFast(r),
		SRGBToLinearFast(g),
		SRGBToLinearFast(b),
		float32(a)/255,
	)
}

// clampAndRound maps [0,1] to [0,255] with rounding, saturating outside.
func clampAndRound(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
