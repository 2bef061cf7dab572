package x11

import (
	"image"
	"image/draw"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	xPutImageReqSizeMax   = (1 << 16) * 4
	xPutImageReqSizeFixed = 28
	xPutImageReqDataSize  = xPutImageReqSizeMax - xPutImageReqSizeFixed
)

// plainBuffer uploads with core protocol PutImage requests. The RGBA pixels
// are converted into a scratch buffer so the canvas never sees BGRA.
type plainBuffer struct {
	d        *Display
	rgba     *image.RGBA
	scratch  []byte
	released bool
}

func newPlainBuffer(d *Display, size image.Point) *plainBuffer {
	return &plainBuffer{d: d, rgba: image.NewRGBA(image.Rectangle{Max: size})}
}

func (b *plainBuffer) RGBA() *image.RGBA { return b.rgba }

func (b *plainBuffer) Upload(dp image.Point, sr image.Rectangle) error {
	if b.released {
		return errReleased
	}
	if b.d.closed {
		return errClosed
	}
	b.scratch = putImage(b.d.conn, xproto.Drawable(b.d.win), b.d.gc, b.d.screen.RootDepth, b.rgba, sr, dp, b.scratch)
	return nil
}

func (b *plainBuffer) Release() {
	b.released = true
	b.rgba = nil
	b.scratch = nil
}

// batches splits a width×height upload into runs of rows that each fit in a
// single PutImage request.
func batches(width, height int) []image.Rectangle {
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := max(1, xPutImageReqDataSize/(width*4))
	out := make([]image.Rectangle, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		out = append(out, image.Rect(0, y, width, min(y+rows, height)))
	}
	return out
}

// putImage sends sr of src to dp on xd. scratch is reused for the BGRA
// conversion and returned, possibly grown.
func putImage(conn *xgb.Conn, xd xproto.Drawable, gc xproto.Gcontext, depth byte, src *image.RGBA, sr image.Rectangle, dp image.Point, scratch []byte) []byte {
	orig := sr.Min
	sr = sr.Intersect(src.Bounds())
	if sr.Empty() {
		return scratch
	}
	dp = dp.Add(sr.Min.Sub(orig))
	w := sr.Dx()
	for _, part := range batches(w, sr.Dy()) {
		n := part.Dx() * part.Dy() * 4
		if cap(scratch) < n {
			scratch = make([]byte, n)
		}
		data := scratch[:n]
		swizzleRows(data, w*4, src, part.Add(sr.Min))
		xproto.PutImage(conn, xproto.ImageFormatZPixmap, xd, gc,
			uint16(part.Dx()), uint16(part.Dy()),
			int16(dp.X), int16(dp.Y+part.Min.Y),
			0, depth, data)
	}
	return scratch
}

// swizzleRows copies r of src into dst as BGRX rows of the given stride.
func swizzleRows(dst []byte, stride int, src *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := (y - r.Min.Y) * stride
		s := src.Pix[si : si+r.Dx()*4]
		d := dst[di : di+r.Dx()*4]
		for i := 0; i < len(s); i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}

// mirror tracks the part of a BGRA copy of an RGBA image that no longer
// matches it.
type mirror struct {
	dirty image.Rectangle
}

func (m *mirror) MarkDirty(r image.Rectangle) { m.dirty = m.dirty.Union(r) }

func (m *mirror) stale() bool { return !m.dirty.Empty() }

// flush converts the dirty part of src into dst, which has the same layout,
// and returns the converted rectangle.
func (m *mirror) flush(dst []byte, src *image.RGBA) image.Rectangle {
	r := m.dirty.Intersect(src.Bounds())
	m.dirty = image.Rectangle{}
	if r.Empty() {
		return r
	}
	off := src.PixOffset(r.Min.X, r.Min.Y)
	swizzleRows(dst[off:], src.Stride, src, r)
	return r
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rectangle{Max: b.Size()})
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
