package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/apint/internal/theme"
)

// Default canvas settings.
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultBackground = "white"
	DefaultBrushSize  = 5
	DefaultBackend    = "x11"
)

// Brush holds the initial brush settings.
type Brush struct {
	Size  int
	Rough bool
}

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Load  bool
	Copy  bool
	Error bool
}

// Config holds the application configuration.
type Config struct {
	Theme         string
	SaveDir       string
	Backend       string
	Palette       string
	Width         int
	Height        int
	Background    string
	MaxPlainBytes int
	Brush         Brush
	Notify        Notify
	Themes        map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:      "", // Default to empty to allow fallback to Env/Default
		Backend:    DefaultBackend,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: DefaultBackground,
		Brush:      Brush{Size: DefaultBrushSize},
		Notify: Notify{
			Save:  true,
			Load:  true,
			Copy:  true,
			Error: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Palette != "" {
		fmt.Fprintf(&sb, "palette = %s\n", c.Palette)
	}
	fmt.Fprintf(&sb, "backend = %s\n", c.Backend)
	fmt.Fprintf(&sb, "width = %d\n", c.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Height)
	fmt.Fprintf(&sb, "background = %s\n", c.Background)
	if c.MaxPlainBytes > 0 {
		fmt.Fprintf(&sb, "max_plain_bytes = %d\n", c.MaxPlainBytes)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "size = %d\n", c.Brush.Size)
	fmt.Fprintf(&sb, "rough = %v\n", c.Brush.Rough)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "error = %v\n", c.Notify.Error)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = c.Themes[name].Format(&sb)
		sb.WriteString("\n")
	}

	return sb.String()
}
