package main

import (
	"flag"
	"fmt"

	"github.com/example/apint/internal/color"
	"github.com/example/apint/internal/palette"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Program() string {
	return c.root.subcommand("colors")
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	p := c.root.palette
	if p == nil {
		p = palette.Default()
	}
	entries := p.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, "no colors available")
		return nil
	}
	fmt.Fprintf(c.stdout, "%s palette (* marks the default color):\n", p.Name)
	for _, entry := range entries {
		col := color.FromColor(entry.Color)
		marker := " "
		if col == color.Black {
			marker = "*"
		}
		r, g, b, _ := col.Unpack()
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
		if col.Alpha() == 0 {
			block = "  "
		}
		fmt.Fprintf(c.stdout, "%s %c: %-12s %s %s\n", marker, entry.Key, entry.Name, col, block)
	}
	return nil
}
