package wide

import "github.com/chewxy/math32"

// Lanes is the width of F32x4.
const Lanes = 4

// F32x4 represents 4 float32 values for SIMD-style operations.
type F32x4 [Lanes]float32

// Mask4 holds one boolean per lane, as produced by comparisons.
type Mask4 [Lanes]bool

// SplatF32 creates F32x4 with all elements set to n.
func SplatF32(n float32) F32x4 {
	return F32x4{n, n, n, n}
}

// Add performs element-wise addition.
func (v F32x4) Add(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = float32(v[i] + other[i])
	}
	return result
}

// Sub performs element-wise subtraction.
func (v F32x4) Sub(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = float32(v[i] - other[i])
	}
	return result
}

// Mul performs element-wise multiplication.
func (v F32x4) Mul(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = float32(v[i] * other[i])
	}
	return result
}

// Div performs element-wise division.
// Division by zero results in +Inf, -Inf, or NaN according to IEEE 754.
func (v F32x4) Div(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = float32(v[i] / other[i])
	}
	return result
}

// Sqrt computes square root of each element.
func (v F32x4) Sqrt() F32x4 {
	var result F32x4
	for i := range v {
		result[i] = math32.Sqrt(v[i])
	}
	return result
}

// Clamp clamps each element to [minVal, maxVal].
func (v F32x4) Clamp(minVal, maxVal float32) F32x4 {
	var result F32x4
	for i := range v {
		switch {
		case v[i] < minVal:
			result[i] = minVal
		case v[i] > maxVal:
			result[i] = maxVal
		default:
			result[i] = v[i]
		}
	}
	return result
}

// Lerp performs linear interpolation: v + (other - v) * t.
func (v F32x4) Lerp(other F32x4, t F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = float32(v[i] + float32(float32(other[i]-v[i])*t[i]))
	}
	return result
}

// Less returns the lanes where v < other.
func (v F32x4) Less(other F32x4) Mask4 {
	var m Mask4
	for i := range v {
		m[i] = v[i] < other[i]
	}
	return m
}

// Select returns v where m is set and other elsewhere.
func (v F32x4) Select(m Mask4, other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		if m[i] {
			result[i] = v[i]
		} else {
			result[i] = other[i]
		}
	}
	return result
}

// And returns the lane-wise conjunction of m and other.
func (m Mask4) And(other Mask4) Mask4 {
	return Mask4{m[0] && other[0], m[1] && other[1], m[2] && other[2], m[3] && other[3]}
}

// Any reports whether any lane is set.
func (m Mask4) Any() bool {
	return m[0] || m[1] || m[2] || m[3]
}
