package app

import (
	"context"
	"sort"
	"unicode"
)

// Shortcut describes a key combination that triggers an action.
type Shortcut struct {
	Rune rune
	Ctrl bool
}

func (s Shortcut) String() string {
	if s.Ctrl {
		return "Ctrl+" + string(unicode.ToUpper(s.Rune))
	}
	return string(s.Rune)
}

type action struct {
	name string
	fn   func(ctx context.Context)
}

// Binding pairs a shortcut with the name of its action.
type Binding struct {
	Shortcut Shortcut
	Action   string
}

func (p *Painter) register(name string, sc Shortcut, fn func(ctx context.Context)) {
	if p.shortcuts == nil {
		p.shortcuts = make(map[Shortcut]action)
	}
	p.shortcuts[sc] = action{name: name, fn: fn}
}

func (p *Painter) registerActions() {
	p.register("undo", Shortcut{Rune: 'z', Ctrl: true}, func(context.Context) {
		if !p.drawing {
			p.Undo()
		}
	})
	p.register("redo", Shortcut{Rune: 'y', Ctrl: true}, func(context.Context) {
		if !p.drawing {
			p.Redo()
		}
	})
	p.register("save", Shortcut{Rune: 's', Ctrl: true}, p.promptSave)
	p.register("open", Shortcut{Rune: 'o', Ctrl: true}, p.promptOpen)
	p.register("copy", Shortcut{Rune: 'c', Ctrl: true}, func(context.Context) { p.Copy() })
	p.register("paste", Shortcut{Rune: 'v', Ctrl: true}, func(context.Context) {
		if !p.drawing {
			p.Paste()
		}
	})
}

// Bindings lists the registered shortcuts sorted by key.
func (p *Painter) Bindings() []Binding {
	out := make([]Binding, 0, len(p.shortcuts))
	for sc, a := range p.shortcuts {
		out = append(out, Binding{Shortcut: sc, Action: a.name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shortcut.Ctrl != out[j].Shortcut.Ctrl {
			return out[i].Shortcut.Ctrl
		}
		return out[i].Shortcut.Rune < out[j].Shortcut.Rune
	})
	return out
}
