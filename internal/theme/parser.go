package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	apcolor "github.com/example/apint/internal/color"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: value" pair per line, the value being any color
// the painter accepts (#RRGGBB, #RRGGBBAA, a CSS name).
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := t.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns a single key. Keys match field names case-insensitively and
// unknown keys are ignored for forward compatibility.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != rgbaType {
			continue
		}
		col, err := parseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// Get returns the color stored under key.
func (t *Theme) Get(key string) (color.RGBA, bool) {
	f := reflect.ValueOf(t).Elem().FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, key) })
	if !f.IsValid() || f.Type() != rgbaType {
		return color.RGBA{}, false
	}
	return f.Interface().(color.RGBA), true
}

// Format writes the theme in the same "Key: value" form Parse reads.
func (t *Theme) Format(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", t.Name); err != nil {
		return err
	}
	for _, key := range Fields() {
		c, _ := t.Get(key)
		if _, err := fmt.Fprintf(w, "%s: %s\n", key, Hex(c)); err != nil {
			return err
		}
	}
	return nil
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is translucent.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func parseColor(s string) (color.RGBA, error) {
	c, err := apcolor.Parse(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b, a := c.Unpack()
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
