package color

import "math"

// HSL is a hue/saturation/lightness triple, each component in [0, 1].
type HSL struct {
	H, S, L float64
}

// ToHSL converts the RGB channels of c, ignoring alpha.
func ToHSL(c Color) HSL {
	r8, g8, b8, _ := c.Unpack()
	r, g, b := float64(r8)/255, float64(g8)/255, float64(b8)/255
	max := math.Max(math.Max(r, g), b)
	min := math.Min(math.Min(r, g), b)
	l := (max + min) / 2
	if max == min {
		return HSL{L: l}
	}
	d := max - min
	var s, h float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return HSL{H: h / 6, S: s, L: l}
}

// Color converts the triple back to an opaque Color.
func (c HSL) Color() Color {
	if c.S == 0 {
		v := channel(c.L)
		return Pack(v, v, v, 0xff)
	}
	var q float64
	if c.L < 0.5 {
		q = c.L * (1 + c.S)
	} else {
		q = c.L + c.S - c.L*c.S
	}
	p := 2*c.L - q
	return Pack(
		channel(hueToRGB(p, q, c.H+1.0/3)),
		channel(hueToRGB(p, q, c.H)),
		channel(hueToRGB(p, q, c.H-1.0/3)),
		0xff,
	)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func channel(v float64) uint8 {
	v = math.Round(v * 255)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
