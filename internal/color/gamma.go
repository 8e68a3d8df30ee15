package color

import "github.com/chewxy/math32"

// Gamma selects the transfer function applied when a linear color is
// written to an 8-bit pixel.
type Gamma uint8

const (
	// GammaSRGB applies the sRGB transfer function through a lookup table.
	GammaSRGB Gamma = iota

	// GammaSqrt approximates sRGB with a square root (gamma 2.0). It is
	// cheaper and visibly close; used when speed matters more than fidelity.
	GammaSqrt
)

// String implements fmt.Stringer.
func (g Gamma) String() string {
	switch g {
	case GammaSRGB:
		return "srgb"
	case GammaSqrt:
		return "sqrt"
	default:
		return "unknown"
	}
}

// ParseGamma converts a config name back into a Gamma.
func ParseGamma(s string) (Gamma, bool) {
	switch s {
	case "srgb", "":
		return GammaSRGB, true
	case "sqrt":
		return GammaSqrt, true
	default:
		return GammaSRGB, false
	}
}

// Encode converts a premultiplied linear color to 8-bit output.
// The color channels are encoded as they are, so the result stays
// premultiplied; for opaque pixels this is the ordinary sRGB color.
func Encode(c ColorF32, g Gamma) ColorU8 {
	if g == GammaSqrt {
		return ColorU8{
			R: clampAndRound(math32.Sqrt(max(c.R, 0))),
			G: clampAndRound(math32.Sqrt(max(c.G, 0))),
			B: clampAndRound(math32.Sqrt(max(c.B, 0))),
			A: clampAndRound(c.A),
		}
	}
	return ColorU8{
		R: LinearToSRGBFast(c.R),
		G: LinearToSRGBFast(c.G),
		B: LinearToSRGBFast(c.B),
		A: clampAndRound(c.A),
	}
}
