//go:build linux

package x11

import (
	"fmt"
	"image"
	"log"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/sys/unix"
)

const (
	maxShmSide = 0x00007fff // 32767
	maxShmSize = 0x10000000 // 268435456
)

// probeShm reports whether the server supports MIT-SHM pixmaps.
func probeShm(conn *xgb.Conn) bool {
	if err := shm.Init(conn); err != nil {
		return false
	}
	reply, err := shm.QueryVersion(conn).Reply()
	if err != nil || reply == nil {
		return false
	}
	return reply.SharedPixmaps
}

// shmBuffer keeps a BGRA copy of the canvas in a SysV segment attached to
// the server as a pixmap. Uploads convert the rows marked dirty since the
// last upload and copy the requested area onto the window with CopyArea.
type shmBuffer struct {
	mirror
	d      *Display
	rgba   *image.RGBA
	data   []byte
	seg    shm.Seg
	pixmap xproto.Pixmap

	// pending is set while the server may still read data.
	pending  bool
	released bool
}

func newShmBuffer(d *Display, size image.Point) (*shmBuffer, error) {
	w, h := int64(size.X), int64(size.Y)
	if w <= 0 || maxShmSide < w || h <= 0 || maxShmSide < h || maxShmSize < 4*w*h {
		return nil, fmt.Errorf("%w: invalid buffer size %v", ErrNoShm, size)
	}
	n := int(4 * w * h)
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, n, unix.IPC_CREAT|0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: shmget: %v", ErrNoShm, err)
	}
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, fmt.Errorf("%w: shmat: %v", ErrNoShm, err)
	}
	b := &shmBuffer{d: d, rgba: image.NewRGBA(image.Rectangle{Max: size}), data: data}
	b.MarkDirty(b.rgba.Bounds())
	fail := func(err error) (*shmBuffer, error) {
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		_ = unix.SysvShmDetach(data)
		return nil, err
	}
	if b.seg, err = shm.NewSegId(d.conn); err != nil {
		return fail(fmt.Errorf("%w: new segment id: %v", ErrNoShm, err))
	}
	if err := shm.AttachChecked(d.conn, b.seg, uint32(id), false).Check(); err != nil {
		return fail(fmt.Errorf("%w: attach: %v", ErrNoShm, err))
	}
	// The segment disappears once both sides detach.
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		log.Printf("x11: shmctl IPC_RMID: %v", err)
	}
	if b.pixmap, err = xproto.NewPixmapId(d.conn); err != nil {
		shm.Detach(d.conn, b.seg)
		_ = unix.SysvShmDetach(data)
		return nil, fmt.Errorf("new pixmap id: %w", err)
	}
	err = shm.CreatePixmapChecked(d.conn, b.pixmap, xproto.Drawable(d.win),
		uint16(size.X), uint16(size.Y), d.screen.RootDepth, b.seg, 0).Check()
	if err != nil {
		shm.Detach(d.conn, b.seg)
		_ = unix.SysvShmDetach(data)
		return nil, fmt.Errorf("%w: create pixmap: %v", ErrNoShm, err)
	}
	return b, nil
}

func (b *shmBuffer) RGBA() *image.RGBA { return b.rgba }

func (b *shmBuffer) Upload(dp image.Point, sr image.Rectangle) error {
	if b.released {
		return errReleased
	}
	if b.d.closed {
		return errClosed
	}
	orig := sr.Min
	sr = sr.Intersect(b.rgba.Bounds())
	if sr.Empty() {
		return nil
	}
	dp = dp.Add(sr.Min.Sub(orig))
	if b.stale() {
		if b.pending {
			if err := b.d.sync(); err != nil {
				return err
			}
		}
		b.flush(b.data, b.rgba)
	}
	xproto.CopyArea(b.d.conn, xproto.Drawable(b.pixmap), xproto.Drawable(b.d.win), b.d.gc,
		int16(sr.Min.X), int16(sr.Min.Y), int16(dp.X), int16(dp.Y),
		uint16(sr.Dx()), uint16(sr.Dy()))
	b.pending = true
	return nil
}

func (b *shmBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	if !b.d.closed {
		xproto.FreePixmap(b.d.conn, b.pixmap)
		shm.Detach(b.d.conn, b.seg)
		if err := b.d.sync(); err != nil {
			log.Printf("x11: release shared buffer: %v", err)
		}
	}
	if err := unix.SysvShmDetach(b.data); err != nil {
		log.Printf("x11: shmdt: %v", err)
	}
	b.data = nil
	b.rgba = nil
}
