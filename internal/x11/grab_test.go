package x11

import (
	"image"
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func testSetup() *xproto.SetupInfo {
	return &xproto.SetupInfo{PixmapFormats: []xproto.Format{
		{Depth: 1, BitsPerPixel: 1},
		{Depth: 24, BitsPerPixel: 32},
		{Depth: 16, BitsPerPixel: 16},
	}}
}

func TestXImageToRGBA(t *testing.T) {
	// two pixels per row plus four bytes of padding
	reply := &xproto.GetImageReply{Depth: 24, Data: []byte{
		0x10, 0x20, 0x30, 0xff, 0x01, 0x02, 0x03, 0x80, 0, 0, 0, 0,
		0xaa, 0xbb, 0xcc, 0x00, 0x00, 0x00, 0x00, 0xff, 0, 0, 0, 0,
	}}
	img, err := xImageToRGBA(testSetup(), reply, 2, 2, "screen")
	if err != nil {
		t.Fatalf("xImageToRGBA: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0x30, 0x20, 0x10, 0xff}},
		{1, 0, color.RGBA{0x03, 0x02, 0x01, 0x80}},
		{0, 1, color.RGBA{0xcc, 0xbb, 0xaa, 0x00}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestXImageToRGBAErrors(t *testing.T) {
	data := make([]byte, 16)
	tests := []struct {
		name  string
		setup *xproto.SetupInfo
		reply *xproto.GetImageReply
		w, h  int
	}{
		{"no setup", nil, &xproto.GetImageReply{Depth: 24, Data: data}, 2, 2},
		{"empty geometry", testSetup(), &xproto.GetImageReply{Depth: 24, Data: data}, 0, 2},
		{"no data", testSetup(), &xproto.GetImageReply{Depth: 24}, 2, 2},
		{"unknown depth", testSetup(), &xproto.GetImageReply{Depth: 30, Data: data}, 2, 2},
		{"narrow pixels", testSetup(), &xproto.GetImageReply{Depth: 16, Data: data}, 2, 2},
		{"short stride", testSetup(), &xproto.GetImageReply{Depth: 24, Data: data}, 4, 2},
	}
	for _, tt := range tests {
		if _, err := xImageToRGBA(tt.setup, tt.reply, tt.w, tt.h, "screen"); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestFindMonitor(t *testing.T) {
	mons := []Monitor{
		{Index: 0, Name: "DP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "HDMI-A-1", Rect: image.Rect(1920, 0, 3840, 1080), Primary: true},
	}
	tests := []struct {
		sel  string
		want int
	}{
		{"", 0},
		{"primary", 1},
		{"1", 1},
		{"#0", 0},
		{"hdmi", 1},
		{" dp-1 ", 0},
	}
	for _, tt := range tests {
		got, err := FindMonitor(mons, tt.sel)
		if err != nil {
			t.Fatalf("FindMonitor(%q): %v", tt.sel, err)
		}
		if got.Index != tt.want {
			t.Errorf("FindMonitor(%q) = %d, want %d", tt.sel, got.Index, tt.want)
		}
	}
	for _, sel := range []string{"2", "-1", "vga"} {
		if _, err := FindMonitor(mons, sel); err == nil {
			t.Errorf("FindMonitor(%q): expected error", sel)
		}
	}
	if _, err := FindMonitor(nil, ""); err != errNoMonitors {
		t.Fatalf("FindMonitor(nil) = %v, want errNoMonitors", err)
	}
}

func TestFindMonitorPrimaryFallsBackToFirst(t *testing.T) {
	mons := []Monitor{{Index: 0, Name: "eDP-1"}, {Index: 1, Name: "DP-2"}}
	got, err := FindMonitor(mons, "PRIMARY")
	if err != nil || got.Index != 0 {
		t.Fatalf("FindMonitor = %v, %v", got, err)
	}
}
