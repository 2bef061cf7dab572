package canvas

import (
	"image"
	stdcolor "image/color"
	"image/draw"
)

// Surface is the display a canvas renders into.
type Surface interface {
	// NewBuffer allocates a buffer the canvas composites into.
	NewBuffer(size image.Point) (Buffer, error)
	// Clear paints r, in viewport coordinates, with the window background.
	Clear(r image.Rectangle) error
	// Shared reports whether buffers live in memory shared with the display
	// server, which lifts the single transfer size limit.
	Shared() bool
}

// Buffer is a pixel buffer owned by a Surface.
type Buffer interface {
	RGBA() *image.RGBA
	// Upload copies sr of the buffer to dp in viewport coordinates.
	Upload(dp image.Point, sr image.Rectangle) error
	Release()
}

// DirtyMarker is implemented by buffers that keep their own converted copy
// of the pixels, such as a shared memory segment. Render reports every
// region it recomposited so Upload only has to convert those.
type DirtyMarker interface {
	MarkDirty(r image.Rectangle)
}

// UploadCall records a single Buffer.Upload on a MemorySurface.
type UploadCall struct {
	DP image.Point
	SR image.Rectangle
}

// MemorySurface is an in-process Surface that composes everything into
// Frame. It backs headless sessions and tests.
type MemorySurface struct {
	Frame        *image.RGBA
	Background   stdcolor.Color
	SharedMemory bool

	Clears  []image.Rectangle
	Uploads []UploadCall
	Dirty   []image.Rectangle
}

// NewMemorySurface returns a surface with a frame of the given size.
func NewMemorySurface(size image.Point, bg stdcolor.Color) *MemorySurface {
	return &MemorySurface{
		Frame:      image.NewRGBA(image.Rectangle{Max: size}),
		Background: bg,
	}
}

// Resize replaces the frame with a blank one of the new size.
func (m *MemorySurface) Resize(size image.Point) {
	if m.Frame != nil && m.Frame.Bounds().Size() == size {
		return
	}
	m.Frame = image.NewRGBA(image.Rectangle{Max: size})
}

// Reset forgets recorded calls.
func (m *MemorySurface) Reset() {
	m.Clears = m.Clears[:0]
	m.Uploads = m.Uploads[:0]
	m.Dirty = m.Dirty[:0]
}

func (m *MemorySurface) NewBuffer(size image.Point) (Buffer, error) {
	return &memoryBuffer{s: m, rgba: image.NewRGBA(image.Rectangle{Max: size})}, nil
}

func (m *MemorySurface) Clear(r image.Rectangle) error {
	m.Clears = append(m.Clears, r)
	bg := m.Background
	if bg == nil {
		bg = stdcolor.Black
	}
	draw.Draw(m.Frame, r, image.NewUniform(bg), image.Point{}, draw.Src)
	return nil
}

func (m *MemorySurface) Shared() bool { return m.SharedMemory }

type memoryBuffer struct {
	s        *MemorySurface
	rgba     *image.RGBA
	released bool
}

func (b *memoryBuffer) RGBA() *image.RGBA { return b.rgba }

func (b *memoryBuffer) Upload(dp image.Point, sr image.Rectangle) error {
	if b.released {
		return errReleased
	}
	b.s.Uploads = append(b.s.Uploads, UploadCall{DP: dp, SR: sr})
	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}
	draw.Draw(b.s.Frame, dr, b.rgba, sr.Min, draw.Src)
	return nil
}

func (b *memoryBuffer) MarkDirty(r image.Rectangle) {
	b.s.Dirty = append(b.s.Dirty, r)
}

func (b *memoryBuffer) Release() { b.released = true }
