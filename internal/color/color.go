// Package color implements the packed 0xAARRGGBB pixel format used by the
// canvas together with the integer blending helpers the brush relies on.
package color

import (
	"fmt"
	stdcolor "image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a straight-alpha pixel packed as 0xAARRGGBB.
type Color uint32

// Common colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0xff000000
	White       Color = 0xffffffff
)

// Pack builds a Color from its channels.
func Pack(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Unpack splits c into its channels.
func (c Color) Unpack() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// Alpha returns the alpha channel of c.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// Opaque returns c with its alpha channel forced to 0xff.
func (c Color) Opaque() Color { return c | 0xff000000 }

// Blend linearly interpolates from a towards b by w/255, truncating.
func Blend(a, b, w uint8) uint8 {
	return uint8(int(a) + (int(b)-int(a))*int(w)/255)
}

// Mix blends every channel of c1 towards c2 by w/255. A weight of 0 yields c1
// and a weight of 255 yields c2.
func Mix(c1, c2 Color, w uint8) Color {
	r1, g1, b1, a1 := c1.Unpack()
	r2, g2, b2, a2 := c2.Unpack()
	return Pack(Blend(r1, r2, w), Blend(g1, g2, w), Blend(b1, b2, w), Blend(a1, a2, w))
}

// RGBA implements image/color.Color. The returned values are alpha
// premultiplied as the interface requires.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to the standard library's straight-alpha color.
func (c Color) NRGBA() stdcolor.NRGBA {
	r, g, b, a := c.Unpack()
	return stdcolor.NRGBA{R: r, G: g, B: b, A: a}
}

// FromColor converts any color.Color into a packed Color.
func FromColor(c stdcolor.Color) Color {
	switch v := c.(type) {
	case Color:
		return v
	case stdcolor.NRGBA:
		return Pack(v.R, v.G, v.B, v.A)
	}
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	return Pack(n.R, n.G, n.B, n.A)
}

// Model converts arbitrary colors into Color values.
var Model = stdcolor.ModelFunc(func(c stdcolor.Color) stdcolor.Color { return FromColor(c) })

// String formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func (c Color) String() string {
	r, g, b, a := c.Unpack()
	if a == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// Parse reads a color written as a CSS name, "transparent", #RGB, #RRGGBB,
// #RRGGBBAA or 0xAARRGGBB.
func Parse(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return 0, fmt.Errorf("color cannot be empty")
	}
	if spec == "transparent" || spec == "none" {
		return Transparent, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return Pack(c.R, c.G, c.B, c.A), nil
	}
	if strings.HasPrefix(spec, "0x") {
		v, err := strconv.ParseUint(spec[2:], 16, 32)
		if err != nil || len(spec) != 10 {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		return Color(v), nil
	}
	hex := strings.TrimPrefix(spec, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	switch len(hex) {
	case 6:
		return Color(v) | 0xff000000, nil
	case 8:
		return Color(v>>8) | Color(v&0xff)<<24, nil
	}
	return 0, fmt.Errorf("invalid color %q", s)
}
