// Package codec reads and writes canvas images. The format is picked from
// the file extension when writing and sniffed from the content when reading.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnknownFormat is returned when no encoder matches a file name.
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrTooLarge is returned when an image header declares a side above
	// MaxSide.
	ErrTooLarge = errors.New("image too large")
)

// MaxSide bounds the width and height of decoded images. Headers are
// checked before any pixel memory is allocated.
var MaxSide = 5000

// Formats lists the names accepted by Encode.
var Formats = []string{"png", "ppm", "bmp", "tiff", "pdf"}

var extensions = map[string]string{
	".png":  "png",
	".ppm":  "ppm",
	".pnm":  "ppm",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".pdf":  "pdf",
}

// FormatFor returns the encoder name for path. Paths without an extension
// are written as PNG.
func FormatFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "png", nil
	}
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return f, nil
}

// Decode reads any registered format and reports its name. Images larger
// than MaxSide in either direction are rejected with ErrTooLarge.
func Decode(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(br, &head))
	if err != nil {
		return nil, "", err
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, "", err
	}
	return image.Decode(io.MultiReader(&head, br))
}

func checkSize(w, h int) error {
	if w > MaxSide || h > MaxSide {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrTooLarge, w, h, MaxSide, MaxSide)
	}
	return nil
}

// DecodeFile opens and decodes path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png", "":
		return png.Encode(w, img)
	case "ppm":
		return EncodePPM(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "pdf":
		return EncodePDF(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// EncodeFile writes img to path using the format implied by its extension.
// The file is only replaced once encoding succeeded.
func EncodeFile(path string, img image.Image) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	w := bufio.NewWriter(tmp)
	if err := Encode(w, img, format); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
