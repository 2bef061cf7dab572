package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// keymap holds the first keysym of every keycode, the keysym a key produces
// without modifiers.
type keymap struct {
	lo   xproto.Keycode
	syms []xproto.Keysym
}

func (k *keymap) load(conn *xgb.Conn, setup *xproto.SetupInfo) error {
	lo, hi := setup.MinKeycode, setup.MaxKeycode
	km, err := xproto.GetKeyboardMapping(conn, lo, byte(hi-lo+1)).Reply()
	if err != nil {
		return err
	}
	return k.set(lo, int(hi-lo+1), int(km.KeysymsPerKeycode), km.Keysyms)
}

func (k *keymap) set(lo xproto.Keycode, count, perCode int, table []xproto.Keysym) error {
	if perCode < 1 {
		return fmt.Errorf("too few keysyms per keycode: %d", perCode)
	}
	if len(table) < count*perCode {
		return fmt.Errorf("short keyboard mapping: %d keysyms for %d keycodes", len(table), count)
	}
	k.lo = lo
	k.syms = make([]xproto.Keysym, count)
	for i := range k.syms {
		k.syms[i] = table[i*perCode]
	}
	return nil
}

func (k *keymap) keysym(code xproto.Keycode) xproto.Keysym {
	if code < k.lo || int(code-k.lo) >= len(k.syms) {
		return 0
	}
	return k.syms[code-k.lo]
}

// rune returns the character the key types without modifiers.
func (k *keymap) rune(code xproto.Keycode) rune {
	return keysymRune(k.keysym(code))
}

// keysymRune maps a keysym to its character. Latin-1 keysyms are their own
// code points and Unicode keysyms carry the code point below 0x01000000.
// Function keys map to zero.
func keysymRune(ks xproto.Keysym) rune {
	switch {
	case ks >= 0x20 && ks <= 0x7e, ks >= 0xa0 && ks <= 0xff:
		return rune(ks)
	case ks&0xff000000 == 0x01000000:
		return rune(ks & 0x00ffffff)
	}
	return 0
}
