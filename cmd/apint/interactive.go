package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/apint/internal/app"
	"github.com/example/apint/internal/config"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd reads painting operations line by line and applies them to
// one canvas kept for the whole session.
type interactiveCmd struct {
	*root
	fs      *flag.FlagSet
	canvas  canvasFlags
	execs   commandList
	stdin   io.Reader
	painter *app.Painter
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func (i *interactiveCmd) Program() string {
	return i.root.subcommand("interactive")
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin}
	fs.Usage = usageFunc(i)
	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	i.canvas.register(fs, cfg)
	fs.Var(&i.execs, "e", "execute a command and exit (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	if err := i.canvas.validate(); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	opts, err := i.canvas.options(i.root)
	if err != nil {
		return err
	}
	p, err := app.New(opts)
	if err != nil {
		return err
	}
	defer p.Close()
	i.painter = p

	if len(i.execs) > 0 {
		for _, cmd := range i.execs {
			done, err := i.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command. It reports done once the session should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "exit", "quit":
		return true, nil
	case "help":
		for _, op := range app.OpHelp {
			fmt.Fprintf(i.stdout, "  %s\n", op)
		}
		fmt.Fprintln(i.stdout, "  exit")
		return false, nil
	case "status":
		size := i.painter.Canvas().Size()
		h := i.painter.History()
		fmt.Fprintf(i.stdout, "canvas %dx%d color %s radius %d strokes %d/%d\n",
			size.X, size.Y, i.painter.Color(), i.painter.Brush().Radius, h.Cursor(), h.Len())
		return false, nil
	}
	return false, i.painter.Do(line)
}
