//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/example/apint/internal/codec"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	for _, interactive := range []bool{false, true} {
		values := portalScreenshotOptions(interactive)
		if got := boolVariant(t, values, "interactive"); got != interactive {
			t.Fatalf("interactive = %v, want %v", got, interactive)
		}
		if got := boolVariant(t, values, "modal"); got != interactive {
			t.Fatalf("modal = %v, want %v", got, interactive)
		}
		if got := stringVariant(t, values, "handle_token"); got != "test-token" {
			t.Fatalf("handle_token = %q, want %q", got, "test-token")
		}
		if len(values) != 3 {
			t.Fatalf("expected 3 options, got %d", len(values))
		}
	}
}

func TestResponsePath(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20from%20today.png")}
	path, err := responsePath([]interface{}{uint32(0), ok})
	if err != nil {
		t.Fatalf("responsePath: %v", err)
	}
	if path != "/tmp/Screenshot from today.png" {
		t.Fatalf("path = %q", path)
	}

	bad := []struct {
		name string
		body []interface{}
	}{
		{"short", []interface{}{uint32(0)}},
		{"cancelled", []interface{}{uint32(1), ok}},
		{"no uri", []interface{}{uint32(0), map[string]dbus.Variant{}}},
		{"wrong results", []interface{}{uint32(0), "nope"}},
	}
	for _, tt := range bad {
		if _, err := responsePath(tt.body); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestLoadImageRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{1, 2, 3, 255})
	if err := codec.EncodeFile(path, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := loadImage(path)
	if err != nil {
		t.Fatalf("loadImage: %v", err)
	}
	if got := img.RGBAAt(2, 1); got != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temporary file not removed: %v", err)
	}
}

func boolVariant(t *testing.T, values map[string]dbus.Variant, key string) bool {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(bool)
	if !ok {
		t.Fatalf("key %q value is %T, want bool", key, variant.Value())
	}
	return v
}

func stringVariant(t *testing.T, values map[string]dbus.Variant, key string) string {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(string)
	if !ok {
		t.Fatalf("key %q value is %T, want string", key, variant.Value())
	}
	return v
}
