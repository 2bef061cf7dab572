// Package prompt asks the user for a line of text through an external menu
// program.
package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrCancelled is returned when the user dismissed the menu.
var ErrCancelled = errors.New("prompt cancelled")

// ErrNoMenu is returned when no menu program could be started.
var ErrNoMenu = errors.New("no menu program found (install dmenu or rofi)")

// Command is one menu program invocation; the label is appended as the last
// argument.
type Command struct {
	Name string
	Args []string
}

// DefaultCommands are tried in order.
var DefaultCommands = []Command{
	{Name: "dmenu", Args: []string{"-p"}},
	{Name: "rofi", Args: []string{"-dmenu", "-i", "-p"}},
}

var (
	lookPath = exec.LookPath
	runMenu  = func(ctx context.Context, name string, args []string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdin = nil // /dev/null
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = os.Stderr
		err := cmd.Run()
		return out.Bytes(), err
	}
)

// Menu runs the first available menu program with label and returns the
// first line it printed. A non-zero exit is reported as ErrCancelled.
type Menu struct {
	Commands []Command
}

// Ask shows the menu.
func (m *Menu) Ask(ctx context.Context, label string) (string, error) {
	cmds := DefaultCommands
	if m != nil && len(m.Commands) > 0 {
		cmds = m.Commands
	}
	for _, c := range cmds {
		path, err := lookPath(c.Name)
		if err != nil {
			continue
		}
		args := append(append([]string(nil), c.Args...), label)
		out, err := runMenu(ctx, path, args)
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return "", ErrCancelled
			}
			return "", fmt.Errorf("%s: %w", c.Name, err)
		}
		line, _, _ := strings.Cut(string(out), "\n")
		return line, nil
	}
	return "", ErrNoMenu
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Static answers every question with a fixed line. It backs scripted
// sessions and tests.
type Static struct {
	Answer string
	Err    error
	Asked  []string
}

// Ask records label and returns the canned answer.
func (s *Static) Ask(_ context.Context, label string) (string, error) {
	s.Asked = append(s.Asked, label)
	return s.Answer, s.Err
}
