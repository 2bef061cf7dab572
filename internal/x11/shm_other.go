//go:build !linux

package x11

import (
	"image"

	"github.com/jezek/xgb"

	"github.com/example/apint/internal/canvas"
)

func probeShm(*xgb.Conn) bool { return false }

func newShmBuffer(*Display, image.Point) (canvas.Buffer, error) { return nil, ErrNoShm }
