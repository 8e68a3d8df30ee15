package ink

import (
	stdcolor "image/color"

	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/stroke"
)

// Color is a premultiplied linear RGBA color with float32 channels.
type Color = color.ColorF32

// EraserColor is the brush color of an eraser. Eraser strokes paint the
// view background.
var EraserColor = stroke.EraserColor

// RGBA returns the premultiplied form of a straight-alpha linear color.
func RGBA(r, g, b, a float32) Color {
	return color.Premultiply(r, g, b, a)
}

// RGB returns an opaque linear color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// FromColor converts a standard library color, taken as sRGB encoded, to a
// linear Color.
func FromColor(c stdcolor.Color) Color {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	return color.FromSRGB8(n.R, n.G, n.B, n.A)
}
