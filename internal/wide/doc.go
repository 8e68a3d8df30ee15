// Package wide provides SIMD-friendly wide types for batch segment evaluation.
//
// F32x4 holds four float32 lanes in a fixed-size array. Simple loops over
// fixed-size arrays let the Go compiler generate SIMD instructions on
// supported architectures (SSE, AVX, NEON) without unsafe or assembly.
//
// # Rounding
//
// Every lane operation rounds its result to float32 explicitly. The Go
// compiler may otherwise fuse a multiply and an add into one FMA, and a
// caller comparing against a scalar evaluation of the same expression would
// see different low bits. Scalar code that must agree with F32x4 code uses
// the same explicit conversions.
//
// # Usage Example
//
//	// squared distances from one point to four segment starts
//	dx := wide.SplatF32(px).Sub(ax)
//	dy := wide.SplatF32(py).Sub(ay)
//	d2 := dx.Mul(dx).Add(dy.Mul(dy))
package wide
