// Package clipboard moves canvas images through the system clipboard as
// PNG data.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"

	"github.com/example/apint/internal/codec"
)

var (
	// ErrNoDisplay is returned when no display server is reachable.
	ErrNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds no image.
	ErrEmpty = errors.New("clipboard does not contain image data")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := codec.Decode(bytes.NewReader(data))
	return img, err
}
