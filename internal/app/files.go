package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/example/apint/internal/codec"
	"github.com/example/apint/internal/prompt"
)

const (
	saveLabel = "save as..."
	openLabel = "open..."
)

// ask runs the prompter and expands the answer into a path. An empty path
// means the user backed out.
func (p *Painter) ask(ctx context.Context, label string) (string, error) {
	if p.opts.Prompter == nil {
		return "", prompt.ErrNoMenu
	}
	answer, err := p.opts.Prompter.Ask(ctx, label)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", nil
	}
	path, err := prompt.ExpandPath(answer)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", answer, err)
	}
	if p.opts.SaveDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.opts.SaveDir, path)
	}
	return path, nil
}

func (p *Painter) promptSave(ctx context.Context) {
	path, err := p.ask(ctx, saveLabel)
	if errors.Is(err, prompt.ErrCancelled) || (err == nil && path == "") {
		return
	}
	if err != nil {
		log.Printf("save prompt: %v", err)
		p.opts.Messenger.Errorf("can't ask for a file name: %v", err)
		return
	}
	if err := p.Save(path); err != nil {
		log.Printf("save: %v", err)
		p.opts.Messenger.Errorf("can't save to %s", path)
		return
	}
	p.opts.Messenger.Saved(path)
}

func (p *Painter) promptOpen(ctx context.Context) {
	if p.drawing {
		return
	}
	path, err := p.ask(ctx, openLabel)
	if errors.Is(err, prompt.ErrCancelled) || (err == nil && path == "") {
		return
	}
	if err != nil {
		log.Printf("open prompt: %v", err)
		p.opts.Messenger.Errorf("can't ask for a file name: %v", err)
		return
	}
	if err := p.Load(path); err != nil {
		log.Printf("open: %v", err)
		p.opts.Messenger.Errorf("can't open %s", path)
		return
	}
	p.opts.Messenger.Loaded(path)
}

// Save writes the canvas to path in the format its extension names.
func (p *Painter) Save(path string) error {
	return p.canvas.Save(path)
}

// Load replaces the canvas with the image at path.
func (p *Painter) Load(path string) error {
	img, err := codec.DecodeFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return p.Replace(img)
}

// Copy puts the canvas on the clipboard.
func (p *Painter) Copy() {
	if p.opts.Clipboard == nil {
		return
	}
	img := p.canvas.Image()
	if err := p.opts.Clipboard.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		p.opts.Messenger.Errorf("can't copy to clipboard: %v", err)
		return
	}
	p.opts.Messenger.Copied(img)
}

// Paste replaces the canvas with the clipboard image.
func (p *Painter) Paste() {
	if p.opts.Clipboard == nil {
		return
	}
	img, err := p.opts.Clipboard.ReadImage()
	if err == nil {
		err = p.Replace(img)
	}
	if err != nil {
		log.Printf("paste: %v", err)
		p.opts.Messenger.Errorf("can't paste: %v", err)
	}
}
