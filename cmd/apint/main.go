package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/apint/internal/config"
	"github.com/example/apint/internal/notify"
	"github.com/example/apint/internal/palette"
	"github.com/example/apint/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs        *flag.FlagSet
	program   string
	notifier  *notify.Notifier
	messenger *notify.Messenger
	config    *config.Config
	stdout    io.Writer
	stderr    io.Writer

	configPath  string
	themeName   string
	saveAlerts  bool
	loadAlerts  bool
	copyAlerts  bool
	errorAlerts bool

	activeTheme *theme.Theme
	palette     *palette.Palette
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:       flag.NewFlagSet("apint", flag.ExitOnError),
		program:  "apint",
		notifier: notify.New(notify.LoadPreferences()),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.messenger = notify.NewMessenger(r.notifier)
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "configuration file to read")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, light or a .theme file)")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", true, "show a desktop notification after saving")
	r.fs.BoolVar(&r.loadAlerts, "notify-load", true, "show a desktop notification after opening an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", true, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.errorAlerts, "notify-error", true, "show a desktop notification when an action fails")
	r.fs.Usage = usageFunc(r)
	return r
}

// loadConfig reads the configuration file and applies its notification
// defaults to every flag the user did not set.
func (r *root) loadConfig() {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.config = cfg

	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	alerts := []struct {
		flag  string
		event notify.Event
		on    *bool
		cfg   bool
	}{
		{"notify-save", notify.EventSave, &r.saveAlerts, cfg.Notify.Save},
		{"notify-load", notify.EventLoad, &r.loadAlerts, cfg.Notify.Load},
		{"notify-copy", notify.EventCopy, &r.copyAlerts, cfg.Notify.Copy},
		{"notify-error", notify.EventError, &r.errorAlerts, cfg.Notify.Error},
	}
	for _, a := range alerts {
		if !set[a.flag] {
			*a.on = a.cfg
		}
		r.notifier.Enable(a.event, *a.on)
	}
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("APINT_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	t, err := theme.NewLoader().Resolve(name, r.config.Themes)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		t = theme.Default()
	}
	return t
}

func (r *root) resolvePalette() *palette.Palette {
	if r.config.Palette == "" {
		return palette.Default()
	}
	p, err := palette.LoadFile(r.config.Palette)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load palette %s: %v. using default.\n", r.config.Palette, err)
		return palette.Default()
	}
	return p
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.loadConfig()
	r.activeTheme = r.resolveTheme()
	r.palette = r.resolvePalette()
	return r.dispatch(r.fs.Arg(0), r.fs.Args()[1:])
}

func (r *root) dispatch(name string, args []string) error {
	var (
		cmd runnable
		err error
	)
	switch name {
	case "paint":
		cmd, err = parsePaintCmd(args, r)
	case "draw":
		cmd, err = parseDrawCmd(args, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(args, r)
	case "colors":
		cmd, err = parseColorsCmd(args, r)
	case "config":
		cmd, err = parseConfigCmd(args, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) subcommand(name string) string {
	if r == nil {
		return "apint " + name
	}
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
