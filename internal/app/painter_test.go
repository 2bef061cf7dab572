package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	stdcolor "image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/apint/internal/brush"
	"github.com/example/apint/internal/canvas"
	"github.com/example/apint/internal/codec"
	"github.com/example/apint/internal/color"
	"github.com/example/apint/internal/notify"
	"github.com/example/apint/internal/prompt"
)

type preview struct {
	center image.Point
	radius int
}

type fakeScreen struct {
	*canvas.MemorySurface
	size     image.Point
	cursors  []Cursor
	previews []preview
	overlays []image.Point
	flushes  int
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{
		MemorySurface: canvas.NewMemorySurface(image.Pt(w, h), stdcolor.RGBA{0x1e, 0x1e, 0x1e, 0xff}),
		size:          image.Pt(w, h),
	}
}

func (s *fakeScreen) Size() image.Point { return s.size }

func (s *fakeScreen) SetCursor(c Cursor) error {
	s.cursors = append(s.cursors, c)
	return nil
}

func (s *fakeScreen) DrawPreview(center image.Point, radius int, _ stdcolor.Color) error {
	s.previews = append(s.previews, preview{center, radius})
	return nil
}

func (s *fakeScreen) DrawOverlay(_ image.Image, at image.Point) error {
	s.overlays = append(s.overlays, at)
	return nil
}

func (s *fakeScreen) Flush() error {
	s.flushes++
	return nil
}

type fakeClipboard struct {
	img image.Image
	err error
}

func (c *fakeClipboard) WriteImage(img image.Image) error {
	if c.err != nil {
		return c.err
	}
	c.img = img
	return nil
}

func (c *fakeClipboard) ReadImage() (image.Image, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.img, nil
}

type eventList []Event

func (l *eventList) NextEvent() (Event, error) {
	if len(*l) == 0 {
		return nil, io.EOF
	}
	ev := (*l)[0]
	*l = (*l)[1:]
	return ev, nil
}

func newPainter(t *testing.T, opts Options) *Painter {
	t.Helper()
	if opts.Width == 0 && opts.Image == nil {
		opts.Width, opts.Height = 100, 100
	}
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func terminalMessenger(buf *bytes.Buffer) *notify.Messenger {
	return &notify.Messenger{Notifier: notify.New(notify.DefaultPreferences()), Out: buf, Terminal: true}
}

func pixel(t *testing.T, p *Painter, x, y int) color.Color {
	t.Helper()
	c, ok := p.Canvas().At(x, y)
	if !ok {
		t.Fatalf("pixel %d,%d out of bounds", x, y)
	}
	return c
}

func TestRegenerateReplaysCommittedStroke(t *testing.T) {
	p := newPainter(t, Options{Background: color.Color(0xffffffff)})
	p.SetColor(color.Color(0xff0000ff))
	p.SetBrush(brush.Brush{Radius: 10})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(50, 50), Button: ButtonLeft})
	p.Handle(ctx, Release{Pos: image.Pt(50, 50), Button: ButtonLeft})
	if p.History().Len() != 1 {
		t.Fatalf("history len = %d, want 1", p.History().Len())
	}
	p.Regenerate()
	if got := pixel(t, p, 50, 50); got != 0xff0000ff {
		t.Fatalf("centre = %v, want #0000ff", got)
	}
	if got := pixel(t, p, 0, 0); got != 0xffffffff {
		t.Fatalf("corner = %v, want white", got)
	}
}

func TestUndoRedoReplaysTimeline(t *testing.T) {
	p := newPainter(t, Options{})
	for _, op := range []string{"dab 10 10", "dab 60 60"} {
		if err := p.Do(op); err != nil {
			t.Fatalf("Do(%q): %v", op, err)
		}
	}
	if got := pixel(t, p, 60, 60); got != color.Black {
		t.Fatalf("after strokes got %v", got)
	}
	if !p.Undo() {
		t.Fatalf("first undo failed")
	}
	if got := pixel(t, p, 60, 60); got != color.White {
		t.Errorf("undone stroke still visible: %v", got)
	}
	if got := pixel(t, p, 10, 10); got != color.Black {
		t.Errorf("earlier stroke lost: %v", got)
	}
	p.Undo()
	if p.Undo() {
		t.Fatalf("undo past the root succeeded")
	}
	if got := pixel(t, p, 10, 10); got != color.White {
		t.Errorf("root state not blank: %v", got)
	}
	p.Redo()
	p.Redo()
	if p.Redo() {
		t.Fatalf("redo past the end succeeded")
	}
	if pixel(t, p, 10, 10) != color.Black || pixel(t, p, 60, 60) != color.Black {
		t.Fatalf("redo did not restore both strokes")
	}
}

func TestUndoRedoRestoresBlendedTimeline(t *testing.T) {
	p := newPainter(t, Options{})
	for _, op := range []string{
		"size 12",
		"color #ff000080", "line 20 20 70 70",
		"color #00ff00c0", "line 20 70 70 20",
		"color blue", "size 20", "dab 45 45",
	} {
		if err := p.Do(op); err != nil {
			t.Fatalf("Do(%q): %v", op, err)
		}
	}
	want := bytes.Clone(p.Canvas().Image().Pix)

	undos := 0
	for p.Undo() {
		undos++
	}
	if undos != 3 {
		t.Fatalf("undid %d actions, want 3", undos)
	}
	for i, v := range p.Canvas().Image().Pix {
		if v != 0xff {
			t.Fatalf("root state byte %d = %#x, want blank white", i, v)
		}
	}
	for p.Redo() {
	}
	if !bytes.Equal(p.Canvas().Image().Pix, want) {
		t.Fatalf("redo to the end does not reproduce the painted canvas")
	}
}

func TestRegenerateMatchesLiveStroke(t *testing.T) {
	p := newPainter(t, Options{})
	p.SetColor(stdcolor.NRGBA{R: 0xff, A: 0x80})
	p.SetBrush(brush.Brush{Radius: 10})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(30, 30), Button: ButtonLeft})
	for x := 33; x <= 60; x += 3 {
		p.Handle(ctx, Motion{Pos: image.Pt(x, 30+(x-30)/2)})
	}
	p.Handle(ctx, Release{Pos: image.Pt(60, 45), Button: ButtonLeft})
	p.SetColor(stdcolor.NRGBA{G: 0xff, A: 0xc0})
	p.Handle(ctx, Press{Pos: image.Pt(45, 20), Button: ButtonLeft})
	p.Handle(ctx, Motion{Pos: image.Pt(45, 50)})
	p.Handle(ctx, Release{Pos: image.Pt(45, 50), Button: ButtonLeft})

	live := bytes.Clone(p.Canvas().Image().Pix)
	p.Regenerate()
	if !bytes.Equal(p.Canvas().Image().Pix, live) {
		t.Fatalf("replayed canvas differs from the live strokes")
	}
}

func TestNewStrokeDropsRedo(t *testing.T) {
	p := newPainter(t, Options{})
	_ = p.Do("dab 10 10")
	_ = p.Do("dab 60 60")
	p.Undo()
	_ = p.Do("dab 30 80")
	if p.History().CanRedo() {
		t.Fatalf("redo still possible after a new stroke")
	}
	if p.History().Len() != 2 {
		t.Fatalf("history len = %d, want 2", p.History().Len())
	}
	if got := pixel(t, p, 60, 60); got != color.White {
		t.Fatalf("truncated stroke came back: %v", got)
	}
}

func TestUndoKeysIgnoredWhileDrawing(t *testing.T) {
	p := newPainter(t, Options{})
	ctx := context.Background()
	_ = p.Do("dab 10 10")
	p.Handle(ctx, Press{Pos: image.Pt(50, 50), Button: ButtonLeft})
	p.Handle(ctx, Key{Rune: 'z', Ctrl: true})
	if p.History().Cursor() != 1 {
		t.Fatalf("undo ran while drawing")
	}
	if !p.Drawing() {
		t.Fatalf("drawing stopped")
	}
	p.Handle(ctx, Release{Pos: image.Pt(50, 50), Button: ButtonLeft})
	p.Handle(ctx, Key{Rune: 'Z', Ctrl: true})
	if p.History().Cursor() != 1 || !p.History().CanRedo() {
		t.Fatalf("cursor = %d, want 1 with redo available", p.History().Cursor())
	}
}

func TestMotionWhileDrawingExtendsStroke(t *testing.T) {
	p := newPainter(t, Options{})
	ctx := context.Background()
	p.Handle(ctx, Motion{Pos: image.Pt(5, 5)})
	if p.History().Dabs() != 0 || pixel(t, p, 5, 5) != color.White {
		t.Fatalf("motion without a button painted")
	}
	p.Handle(ctx, Press{Pos: image.Pt(20, 20), Button: ButtonLeft})
	p.Handle(ctx, Motion{Pos: image.Pt(40, 20)})
	p.Handle(ctx, Motion{Pos: image.Pt(60, 20)})
	p.Handle(ctx, Release{Pos: image.Pt(60, 20), Button: ButtonLeft})
	if p.History().Len() != 1 || p.History().Dabs() != 3 {
		t.Fatalf("history = %d actions, %d dabs; want 1, 3", p.History().Len(), p.History().Dabs())
	}
	if got := pixel(t, p, 40, 20); got != color.Black {
		t.Fatalf("motion dab missing: %v", got)
	}
}

func TestCloseAndCancelCommitOpenStroke(t *testing.T) {
	p := newPainter(t, Options{})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(20, 20), Button: ButtonLeft})
	if quit := p.Handle(ctx, Cancel{}); quit {
		t.Fatalf("cancel ended the session")
	}
	if p.Drawing() || p.History().Len() != 1 {
		t.Fatalf("cancel left drawing=%v len=%d", p.Drawing(), p.History().Len())
	}
	p.Handle(ctx, Press{Pos: image.Pt(40, 40), Button: ButtonLeft})
	if quit := p.Handle(ctx, Close{}); !quit {
		t.Fatalf("close did not end the session")
	}
	if p.History().Len() != 2 {
		t.Fatalf("history len = %d, want 2", p.History().Len())
	}
}

func TestPanMovesCanvasAndSwapsCursor(t *testing.T) {
	s := newFakeScreen(400, 400)
	p := newPainter(t, Options{Screen: s})
	ctx := context.Background()
	start := p.Canvas().Position()
	if start[0] != 150 || start[1] != 150 {
		t.Fatalf("initial position %v, want centred", start)
	}
	p.Handle(ctx, Press{Pos: image.Pt(0, 0), Button: ButtonMiddle})
	p.Handle(ctx, Press{Pos: image.Pt(0, 0), Button: ButtonLeft})
	if p.Drawing() {
		t.Fatalf("drawing started while panning")
	}
	p.Handle(ctx, Motion{Pos: image.Pt(10, 5)})
	p.Handle(ctx, Motion{Pos: image.Pt(12, 5)})
	p.Handle(ctx, Release{Pos: image.Pt(12, 5), Button: ButtonMiddle})
	pos := p.Canvas().Position()
	if pos[0] != 162 || pos[1] != 155 {
		t.Fatalf("position %v, want [162 155]", pos)
	}
	if len(s.cursors) != 2 || s.cursors[0] != CursorFleur || s.cursors[1] != CursorCrosshair {
		t.Fatalf("cursors = %v", s.cursors)
	}
	if len(s.Uploads) == 0 {
		t.Fatalf("panning did not render")
	}
}

func TestViewportMapsPointerToCanvas(t *testing.T) {
	s := newFakeScreen(400, 400)
	p := newPainter(t, Options{Screen: s})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(200, 200), Button: ButtonLeft})
	p.Handle(ctx, Release{Pos: image.Pt(200, 200), Button: ButtonLeft})
	if got := pixel(t, p, 50, 50); got != color.Black {
		t.Fatalf("canvas centre = %v", got)
	}
	if got := s.Frame.RGBAAt(200, 200); got != (stdcolor.RGBA{0, 0, 0, 0xff}) {
		t.Fatalf("frame centre = %v", got)
	}
	if got := s.Frame.RGBAAt(10, 10); got != (stdcolor.RGBA{0x1e, 0x1e, 0x1e, 0xff}) {
		t.Fatalf("margin = %v", got)
	}
	p.Handle(ctx, Resize{Size: image.Pt(500, 400)})
	if got := p.Canvas().Position(); got[0] != 200 {
		t.Fatalf("resize position %v", got)
	}
}

func TestWheelResizesBrushWithPreview(t *testing.T) {
	s := newFakeScreen(200, 200)
	p := newPainter(t, Options{Screen: s})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(30, 40), Button: ButtonWheelUp})
	if p.Brush().Radius != 6 {
		t.Fatalf("radius = %d, want 6", p.Brush().Radius)
	}
	if len(s.previews) != 1 || s.previews[0] != (preview{image.Pt(30, 40), 6}) {
		t.Fatalf("previews = %v", s.previews)
	}
	for i := 0; i < 40; i++ {
		p.Handle(ctx, Press{Pos: image.Pt(30, 40), Button: ButtonWheelDown})
	}
	if p.Brush().Radius != 2 {
		t.Fatalf("radius = %d, want 2", p.Brush().Radius)
	}
	p.Handle(ctx, Expose{})
	if len(s.previews) != 41 {
		t.Fatalf("expose drew a preview: %d", len(s.previews))
	}
}

func TestPaletteKeys(t *testing.T) {
	p := newPainter(t, Options{})
	ctx := context.Background()
	tests := []struct {
		key  Key
		want color.Color
	}{
		{Key{Rune: 'r'}, 0xffb81c00},
		{Key{Rune: 'z'}, color.Transparent},
		{Key{Rune: 'T'}, 0xff008080},
		{Key{Rune: 'x'}, 0xff008080},
		{Key{Rune: 'q', Ctrl: true}, color.Black},
		{Key{Rune: 'z', Ctrl: true}, color.Black},
	}
	for _, tt := range tests {
		p.Handle(ctx, tt.key)
		if got := p.Color(); got != tt.want {
			t.Errorf("%+v: color %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestPickerRoutesPointer(t *testing.T) {
	s := newFakeScreen(400, 400)
	p := newPainter(t, Options{Screen: s})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(20, 20), Button: ButtonRight})
	if !p.Picker().Visible() {
		t.Fatalf("picker not shown")
	}
	if len(s.overlays) == 0 || s.overlays[len(s.overlays)-1] != image.Pt(20, 20) {
		t.Fatalf("overlays = %v", s.overlays)
	}
	// Inside the saturation/lightness square.
	p.Handle(ctx, Press{Pos: image.Pt(20+10+100, 20+10+100), Button: ButtonLeft})
	p.Handle(ctx, Release{Pos: image.Pt(20+10+100, 20+10+100), Button: ButtonLeft})
	if p.Drawing() || p.History().Len() != 0 {
		t.Fatalf("picker press painted")
	}
	if p.Color() == color.Black || p.Color().Alpha() != 0xff {
		t.Fatalf("picked color %v", p.Color())
	}
	p.Handle(ctx, Key{Rune: 'a'})
	if p.Picker().Visible() {
		t.Fatalf("key did not hide the picker")
	}
}

func TestPickerDragKeepsFinalColor(t *testing.T) {
	s := newFakeScreen(400, 400)
	p := newPainter(t, Options{Screen: s})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(20, 20), Button: ButtonRight})
	// Top-left of the square is white, its bottom edge is near black.
	p.Handle(ctx, Press{Pos: image.Pt(30, 30), Button: ButtonLeft})
	if p.Color() != color.White {
		t.Fatalf("press picked %v, want white", p.Color())
	}
	p.Handle(ctx, Motion{Pos: image.Pt(130, 130)})
	mid := p.Color()
	if r, g, b, _ := mid.Unpack(); r == 0xff && g == 0xff && b == 0xff {
		t.Fatalf("drag to the middle kept %v", mid)
	}
	p.Handle(ctx, Motion{Pos: image.Pt(130, 229)})
	p.Handle(ctx, Release{Pos: image.Pt(130, 229), Button: ButtonLeft})
	if r, g, b, a := p.Color().Unpack(); r > 3 || g > 3 || b > 3 || a != 0xff {
		t.Fatalf("color after drag = %v, want near black", p.Color())
	}
	if p.History().Len() != 0 {
		t.Fatalf("picker drag painted")
	}
}

func TestLeftPressOutsidePickerHidesIt(t *testing.T) {
	s := newFakeScreen(400, 400)
	p := newPainter(t, Options{Screen: s})
	ctx := context.Background()
	p.Handle(ctx, Press{Pos: image.Pt(20, 20), Button: ButtonRight})
	p.Handle(ctx, Press{Pos: image.Pt(390, 390), Button: ButtonLeft})
	if p.Picker().Visible() {
		t.Fatalf("picker still visible")
	}
	if !p.Drawing() {
		t.Fatalf("press outside the picker did not start drawing")
	}
}

func TestSavePromptFlow(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	ask := &prompt.Static{Answer: "drawing.png\n"}
	p := newPainter(t, Options{SaveDir: dir, Prompter: ask, Messenger: terminalMessenger(&out)})
	_ = p.Do("dab 10 10")
	p.Handle(context.Background(), Key{Rune: 's', Ctrl: true})
	if len(ask.Asked) != 1 || ask.Asked[0] != saveLabel {
		t.Fatalf("asked %v", ask.Asked)
	}
	path := filepath.Join(dir, "drawing.png")
	img, err := codec.DecodeFile(path)
	if err != nil {
		t.Fatalf("decode saved file: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Fatalf("saved width %d", img.Bounds().Dx())
	}
	if !strings.Contains(out.String(), "apint: saved drawing successfully to "+path) {
		t.Fatalf("message %q", out.String())
	}
}

func TestSavePromptFailures(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	ask := &prompt.Static{Answer: filepath.Join(dir, "missing", "x.png")}
	p := newPainter(t, Options{Prompter: ask, Messenger: terminalMessenger(&out)})
	ctx := context.Background()
	p.Handle(ctx, Key{Rune: 's', Ctrl: true})
	if !strings.Contains(out.String(), "can't save to "+ask.Answer) {
		t.Fatalf("message %q", out.String())
	}

	out.Reset()
	ask.Answer, ask.Err = "", prompt.ErrCancelled
	p.Handle(ctx, Key{Rune: 's', Ctrl: true})
	ask.Err = nil
	p.Handle(ctx, Key{Rune: 's', Ctrl: true})
	if out.Len() != 0 {
		t.Fatalf("cancelled prompt reported %q", out.String())
	}
}

func TestOpenPromptReplacesCanvas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	src.SetNRGBA(3, 4, stdcolor.NRGBA{R: 0xff, A: 0xff})
	if err := codec.EncodeFile(path, src); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	var out bytes.Buffer
	p := newPainter(t, Options{Prompter: &prompt.Static{Answer: path}, Messenger: terminalMessenger(&out)})
	_ = p.Do("dab 10 10")
	p.Handle(context.Background(), Key{Rune: 'o', Ctrl: true})
	if got := p.Canvas().Size(); got != image.Pt(20, 10) {
		t.Fatalf("size %v", got)
	}
	if p.History().Len() != 0 {
		t.Fatalf("history survived the load")
	}
	if got := pixel(t, p, 3, 4); got != 0xffff0000 {
		t.Fatalf("pixel %v", got)
	}
	if !strings.Contains(out.String(), "loaded "+path) {
		t.Fatalf("message %q", out.String())
	}
	_ = p.Do("dab 1 1")
	p.Undo()
	if got := pixel(t, p, 3, 4); got != 0xffff0000 {
		t.Fatalf("clear lost the loaded image: %v", got)
	}
}

func TestCopyAndPaste(t *testing.T) {
	var out bytes.Buffer
	cb := &fakeClipboard{}
	p := newPainter(t, Options{Clipboard: cb, Messenger: terminalMessenger(&out)})
	_ = p.Do("dab 10 10")
	p.Handle(context.Background(), Key{Rune: 'c', Ctrl: true})
	if cb.img == nil || cb.img.Bounds().Dx() != 100 {
		t.Fatalf("clipboard holds %v", cb.img)
	}
	if !strings.Contains(out.String(), "copied 100x100 image to clipboard") {
		t.Fatalf("message %q", out.String())
	}
	cb.img = image.NewNRGBA(image.Rect(0, 0, 8, 9))
	p.Handle(context.Background(), Key{Rune: 'v', Ctrl: true})
	if got := p.Canvas().Size(); got != image.Pt(8, 9) {
		t.Fatalf("pasted size %v", got)
	}

	out.Reset()
	cb.err = errors.New("no owner")
	if err := p.Do("copy"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !strings.Contains(out.String(), "no owner") {
		t.Fatalf("message %q", out.String())
	}
}

func TestRunStopsAtEndOfEvents(t *testing.T) {
	p := newPainter(t, Options{})
	events := eventList{
		Press{Pos: image.Pt(10, 10), Button: ButtonLeft},
		Motion{Pos: image.Pt(12, 10)},
	}
	if err := p.Run(context.Background(), &events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.History().Len() != 1 {
		t.Fatalf("open stroke not committed at end of input")
	}

	events = eventList{Close{}, Press{Pos: image.Pt(50, 50), Button: ButtonLeft}}
	if err := p.Run(context.Background(), &events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events after close were handled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx, &events); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run with cancelled context: %v", err)
	}
}

func TestBindings(t *testing.T) {
	p := newPainter(t, Options{})
	var names []string
	for _, b := range p.Bindings() {
		names = append(names, b.Shortcut.String()+"="+b.Action)
	}
	want := "Ctrl+C=copy Ctrl+O=open Ctrl+S=save Ctrl+V=paste Ctrl+Y=redo Ctrl+Z=undo"
	if got := strings.Join(names, " "); got != want {
		t.Fatalf("bindings %q, want %q", got, want)
	}
}

func TestNewRejectsOversizedPlainCanvas(t *testing.T) {
	s := newFakeScreen(100, 100)
	_, err := New(Options{Width: 100, Height: 100, Screen: s, MaxPlainBytes: 1000})
	if !errors.Is(err, canvas.ErrImageTooLarge) {
		t.Fatalf("err = %v", err)
	}
}
