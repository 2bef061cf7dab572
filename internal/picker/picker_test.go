package picker

import (
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/example/apint/internal/color"
)

func shown(t *testing.T) *Picker {
	t.Helper()
	p := New(nil)
	p.Show(image.Pt(100, 50), image.Rectangle{})
	return p
}

func TestSetKeepsColor(t *testing.T) {
	p := New(nil)
	for _, c := range []color.Color{0xffb81c00, 0xff50c878, 0xff1239e6, color.White, color.Black} {
		p.Set(c)
		if got := p.Color(); got != c {
			t.Errorf("Set(%v) then Color() = %v", c, got)
		}
	}
}

func TestPickedColorsAreOpaque(t *testing.T) {
	p := New(nil)
	p.Set(color.Transparent)
	if a := p.Color().Alpha(); a != 0xff {
		t.Fatalf("alpha = %#x", a)
	}
}

func TestPressSelectsFromSquare(t *testing.T) {
	p := shown(t)
	p.Set(0xffff0000)
	c, changed, handled := p.Press(image.Pt(100+Padding, 50+Padding), 1)
	if !handled || !changed {
		t.Fatalf("handled=%v changed=%v", handled, changed)
	}
	if c != color.White {
		t.Fatalf("top-left of plane = %v, want white", c)
	}
	c, changed, handled = p.Motion(image.Pt(100+Padding, 50+Padding+SquareSize-1))
	if !handled || !changed {
		t.Fatalf("drag not handled")
	}
	if r, g, b, _ := c.Unpack(); r > 3 || g > 3 || b > 3 {
		t.Fatalf("bottom of plane = %v, want near black", c)
	}
	if _, _, handled = p.Release(image.Pt(0, 0), 1); !handled {
		t.Fatalf("release ending a drag should be handled")
	}
	if _, changed, _ = p.Motion(image.Pt(100+Padding+5, 50+Padding+5)); changed {
		t.Fatalf("motion after release changed color")
	}
}

func TestPressSelectsHue(t *testing.T) {
	p := shown(t)
	p.Set(0xffff0000)
	x := 100 + Padding + SquareSize + Padding + 1
	c, changed, _ := p.Press(image.Pt(x, 50+Padding+SquareSize/3), 1)
	if !changed {
		t.Fatal("hue bar press did not change color")
	}
	if h := p.HSL().H; h < 0.33 || h > 0.34 {
		t.Fatalf("hue = %v", h)
	}
	if _, g, _, _ := c.Unpack(); g != 0xff {
		t.Fatalf("expected green, got %v", c)
	}
}

func TestPressOutsideIsNotHandled(t *testing.T) {
	p := shown(t)
	if _, _, handled := p.Press(image.Pt(5, 5), 1); handled {
		t.Fatal("press outside handled")
	}
	p.Hide()
	if _, _, handled := p.Press(image.Pt(110, 60), 1); handled {
		t.Fatal("hidden picker handled press")
	}
}

func TestOtherButtonsHide(t *testing.T) {
	p := shown(t)
	if _, _, handled := p.Press(image.Pt(110, 60), 3); !handled {
		t.Fatal("not handled")
	}
	if p.Visible() {
		t.Fatal("picker still visible")
	}
}

func TestShowStaysInsideArea(t *testing.T) {
	p := New(nil)
	area := image.Rect(0, 0, 300, 300)
	p.Show(image.Pt(290, 290), area)
	if !p.Bounds().In(area) {
		t.Fatalf("bounds %v escape %v", p.Bounds(), area)
	}
}

func TestImageCachesPlanes(t *testing.T) {
	p := New(nil)
	p.Set(0xff1239e6)
	img := p.Image()
	if img.Bounds().Size() != Size {
		t.Fatalf("size = %v", img.Bounds().Size())
	}
	p.Image()
	if n := p.CachedSquares(); n != 1 {
		t.Fatalf("cached planes = %d, want 1", n)
	}
	if got := img.RGBAAt(Padding, Padding); got != (stdcolor.RGBA{255, 255, 255, 255}) {
		t.Fatalf("plane corner = %v", got)
	}
	p.Set(0xff50c878)
	p.Image()
	if n := p.CachedSquares(); n != 2 {
		t.Fatalf("cached planes = %d, want 2", n)
	}
}

func TestDrawOnlyWhenVisible(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	p := New(nil)
	p.Draw(dst)
	if dst.RGBAAt(0, 0).A != 0 {
		t.Fatal("hidden picker drew")
	}
	p.Show(image.Pt(0, 0), dst.Bounds())
	p.Draw(dst)
	if dst.RGBAAt(0, 0).A != 0xff {
		t.Fatal("visible picker did not draw")
	}
}
