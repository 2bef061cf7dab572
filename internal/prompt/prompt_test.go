package prompt

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func stubMenu(t *testing.T, available map[string]bool, run func(name string, args []string) ([]byte, error)) {
	t.Helper()
	origLook, origRun := lookPath, runMenu
	t.Cleanup(func() { lookPath, runMenu = origLook, origRun })
	lookPath = func(name string) (string, error) {
		if available[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	runMenu = func(_ context.Context, name string, args []string) ([]byte, error) {
		return run(name, args)
	}
}

func TestAskUsesFirstLine(t *testing.T) {
	var gotArgs []string
	stubMenu(t, map[string]bool{"dmenu": true}, func(name string, args []string) ([]byte, error) {
		gotArgs = args
		return []byte("/tmp/out.png\nignored\n"), nil
	})
	line, err := (&Menu{}).Ask(context.Background(), "save:")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if line != "/tmp/out.png" {
		t.Fatalf("line = %q", line)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "-p" || gotArgs[1] != "save:" {
		t.Fatalf("args = %q", gotArgs)
	}
}

func TestAskFallsBackToRofi(t *testing.T) {
	var used string
	stubMenu(t, map[string]bool{"rofi": true}, func(name string, args []string) ([]byte, error) {
		used = name
		if args[len(args)-1] != "open:" || args[0] != "-dmenu" {
			t.Errorf("args = %q", args)
		}
		return []byte("x"), nil
	})
	if _, err := (&Menu{}).Ask(context.Background(), "open:"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if used != "/usr/bin/rofi" {
		t.Fatalf("used %q", used)
	}
}

func TestAskNoMenu(t *testing.T) {
	stubMenu(t, nil, func(string, []string) ([]byte, error) {
		t.Fatal("should not run")
		return nil, nil
	})
	if _, err := (&Menu{}).Ask(context.Background(), "x"); !errors.Is(err, ErrNoMenu) {
		t.Fatalf("expected ErrNoMenu, got %v", err)
	}
}

func TestAskCancelled(t *testing.T) {
	stubMenu(t, map[string]bool{"dmenu": true}, func(string, []string) ([]byte, error) {
		return nil, exec.Command("false").Run()
	})
	if _, err := (&Menu{}).Ask(context.Background(), "x"); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cases := map[string]string{
		"~":         home,
		"~/a/b.png": filepath.Join(home, "a/b.png"),
		"/abs.png":  "/abs.png",
		"rel.png":   "rel.png",
		"~user/x":   "~user/x",
	}
	for in, want := range cases {
		got, err := ExpandPath(in)
		if err != nil {
			t.Fatalf("ExpandPath(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
