package color

import "math"

// sRGBToLinearLUT maps an sRGB byte to its linear value.
var sRGBToLinearLUT [256]float32

// linearToSRGBLUT maps a linear value quantized to 12 bits to an sRGB byte.
// 4096 entries keep the round-trip error within one byte.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := range sRGBToLinearLUT {
		sRGBToLinearLUT[i] = float32(srgbDecode(float64(i) / 255.0))
	}
	for i := range linearToSRGBLUT {
		linearToSRGBLUT[i] = quantize(srgbEncode(float64(i) / 4095.0))
	}
}

func srgbDecode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func srgbEncode(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

func quantize(s float64) uint8 {
	v := int(s*255.0 + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	//nolint:gosec // G115: v is clamped to [0,255] range
	return uint8(v)
}

// SRGBToLinearFast converts an sRGB byte to a linear float32 using a
// lookup table.
func SRGBToLinearFast(s uint8) float32 {
	return sRGBToLinearLUT[s]
}

// LinearToSRGBFast converts a linear float32 to an sRGB byte using a
// lookup table. Input is clamped to [0,1].
func LinearToSRGBFast(l float32) uint8 {
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	index := int(l*4095.0 + 0.5)
	if index > 4095 {
		index = 4095
	}
	return linearToSRGBLUT[index]
}
