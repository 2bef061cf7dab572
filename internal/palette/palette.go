// Package palette maps single keys to brush colors. Palettes can be
// extended or replaced from TOML files.
package palette

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/example/apint/internal/color"
)

// Entry binds a key to a color.
type Entry struct {
	Key   rune
	Name  string
	Color color.Color
}

// Palette is a set of entries keyed by rune.
type Palette struct {
	Name    string
	entries map[rune]Entry
}

// Default returns the built-in palette.
func Default() *Palette {
	p := &Palette{Name: "Default", entries: make(map[rune]Entry)}
	for _, e := range []Entry{
		{'r', "Red", 0xffb81c00},
		{'g', "Green", 0xff50c878},
		{'b', "Blue", 0xff1239e6},
		{'w', "White", color.White},
		{'q', "Black", color.Black},
		{'o', "Orange", 0xffcc551f},
		{'y', "Yellow", 0xffffff00},
		{'f', "Fuchsia", 0xffca2c92},
		{'t', "Teal", 0xff008080},
		{'c', "Cream", 0xfffffdd0},
		{'z', "Transparent", color.Transparent},
	} {
		p.Set(e)
	}
	return p
}

// Set adds or replaces an entry.
func (p *Palette) Set(e Entry) {
	if p.entries == nil {
		p.entries = make(map[rune]Entry)
	}
	p.entries[e.Key] = e
}

// Lookup returns the color bound to key.
func (p *Palette) Lookup(key rune) (color.Color, bool) {
	e, ok := p.entries[key]
	return e.Color, ok
}

// Entries returns every entry ordered by key.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len reports the number of entries.
func (p *Palette) Len() int { return len(p.entries) }

type fileEntry struct {
	Key   string `toml:"key"`
	Name  string `toml:"name,omitempty"`
	Value string `toml:"value"`
}

type file struct {
	Name    string      `toml:"name"`
	Replace bool        `toml:"replace,omitempty"`
	Colors  []fileEntry `toml:"color"`
}

// Decode reads a palette file. Entries are layered over the default palette
// unless the file sets replace = true.
func Decode(r io.Reader) (*Palette, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return fromFile(f)
}

// LoadFile reads the palette stored at path.
func LoadFile(path string) (*Palette, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return fromFile(f)
}

func fromFile(f file) (*Palette, error) {
	p := Default()
	if f.Replace {
		p = &Palette{entries: make(map[rune]Entry)}
	}
	if f.Name != "" {
		p.Name = f.Name
	}
	for i, fe := range f.Colors {
		key, size := utf8.DecodeRuneInString(fe.Key)
		if key == utf8.RuneError || size != len(fe.Key) {
			return nil, fmt.Errorf("palette: color %d: key must be a single character, got %q", i+1, fe.Key)
		}
		c, err := color.Parse(fe.Value)
		if err != nil {
			return nil, fmt.Errorf("palette: color %d: %w", i+1, err)
		}
		p.Set(Entry{Key: key, Name: fe.Name, Color: c})
	}
	return p, nil
}

// Encode writes p as a self-contained palette file.
func (p *Palette) Encode(w io.Writer) error {
	f := file{Name: p.Name, Replace: true}
	for _, e := range p.Entries() {
		f.Colors = append(f.Colors, fileEntry{Key: string(e.Key), Name: e.Name, Value: colorValue(e.Color)})
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func colorValue(c color.Color) string {
	if c == color.Transparent {
		return "transparent"
	}
	return c.String()
}
