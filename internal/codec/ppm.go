package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

const ppmMagic = "P6"

var errPPMHeader = errors.New("ppm: invalid header")

func init() {
	image.RegisterFormat("ppm", ppmMagic, DecodePPM, DecodePPMConfig)
}

// EncodePPM writes a binary P6 pixmap. Alpha is dropped.
func EncodePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", ppmMagic, b.Dx(), b.Dy()); err != nil {
		return err
	}
	row := make([]byte, b.Dx()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := 0
		for x := b.Min.X; x < b.Max.X; x++ {
			n := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			row[i], row[i+1], row[i+2] = n.R, n.G, n.B
			i += 3
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodePPMConfig reads only the header.
func DecodePPMConfig(r io.Reader) (image.Config, error) {
	w, h, _, err := readPPMHeader(asByteReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// DecodePPM reads a binary P6 pixmap with a maxval of 255. Pixels are
// opaque.
func DecodePPM(r io.Reader) (image.Image, error) {
	br := asByteReader(r)
	w, h, maxval, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}
	if maxval != 255 {
		return nil, fmt.Errorf("ppm: unsupported maxval %d", maxval)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	row := make([]byte, w*3)
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("ppm: row %d: %w", y, err)
		}
		pix := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			pix[x*4+0] = row[x*3+0]
			pix[x*4+1] = row[x*3+1]
			pix[x*4+2] = row[x*3+2]
			pix[x*4+3] = 0xff
		}
	}
	return img, nil
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

func asByteReader(r io.Reader) byteReader {
	if br, ok := r.(byteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// readPPMHeader parses the magic followed by width, height and maxval,
// skipping whitespace and comments. Exactly one whitespace byte separates
// the header from the raster.
func readPPMHeader(r io.ByteReader) (w, h, maxval int, err error) {
	magic := make([]byte, 2)
	for i := range magic {
		if magic[i], err = r.ReadByte(); err != nil {
			return 0, 0, 0, errPPMHeader
		}
	}
	if string(magic) != ppmMagic {
		return 0, 0, 0, errPPMHeader
	}
	var fields [3]int
	for i := range fields {
		if fields[i], err = readPPMInt(r); err != nil {
			return 0, 0, 0, err
		}
	}
	w, h, maxval = fields[0], fields[1], fields[2]
	if w <= 0 || h <= 0 || maxval <= 0 || maxval > 65535 {
		return 0, 0, 0, errPPMHeader
	}
	if err := checkSize(w, h); err != nil {
		return 0, 0, 0, err
	}
	return w, h, maxval, nil
}

func readPPMInt(r io.ByteReader) (int, error) {
	var digits []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return 0, errPPMHeader
		}
		switch {
		case c == '#':
			for c != '\n' {
				if c, err = r.ReadByte(); err != nil {
					return 0, errPPMHeader
				}
			}
		case isSpace(c):
			if len(digits) > 0 {
				return strconv.Atoi(string(digits))
			}
		case c >= '0' && c <= '9':
			if len(digits) == 9 {
				return 0, errPPMHeader
			}
			digits = append(digits, c)
		default:
			return 0, errPPMHeader
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
