package codec

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// EncodePDF writes a single page document sized to img, one point per
// pixel, with the image embedded as PNG.
func EncodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	wd, ht := float64(b.Dx()), float64(b.Dy())
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("canvas", opts, &buf)
	p.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")
	return p.Output(w)
}
