// Package color provides the premultiplied linear color type used by the
// tile rasterizer, the Porter-Duff operators it composites with, and the
// gamma encoding applied when pixels are written to 8-bit buffers.
package color

// ColorF32 represents a color with float32 components in [0,1].
// Throughout the engine ColorF32 values are premultiplied and in linear
// space: R, G and B are already scaled by A.
type ColorF32 struct {
	R, G, B, A float32
}

// ColorU8 represents a color with uint8 components in [0,255].
// RGB components are gamma encoded; alpha is always linear.
type ColorU8 struct {
	R, G, B, A uint8
}

// Transparent is the zero color.
var Transparent = ColorF32{}

// Premultiply returns the premultiplied form of a straight-alpha color.
func Premultiply(r, g, b, a float32) ColorF32 {
	return ColorF32{R: r * a, G: g * a, B: b * a, A: a}
}

// Scale multiplies every channel by k. Scaling a premultiplied color by a
// coverage value is how partial coverage enters the over operator.
func (c ColorF32) Scale(k float32) ColorF32 {
	return ColorF32{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A * k}
}

// Over composites src over dst (Porter-Duff source-over on premultiplied
// channels): src + dst*(1-src.A).
func Over(src, dst ColorF32) ColorF32 {
	inv := 1 - src.A
	return ColorF32{
		R: src.R + dst.R*inv,
		G: src.G + dst.G*inv,
		B: src.B + dst.B*inv,
		A: src.A + dst.A*inv,
	}
}

// Under composites src underneath acc. It is Over with the arguments
// swapped and is what a front-to-back walk uses: strokes are visited from
// newest to oldest, each one landing below everything accumulated so far.
func Under(acc, src ColorF32) ColorF32 {
	return Over(acc, src)
}

// Opaque reports whether c hides everything below it.
// The threshold matches the rasterizer's early-out.
func (c ColorF32) Opaque() bool {
	return c.A >= OpaqueThreshold
}

// OpaqueThreshold is the accumulated alpha past which nothing further down
// in z-order can change an 8-bit output pixel.
const OpaqueThreshold = 0.999
