// Package imaging decodes the optional brand logo supplied with a report
// payload. Decoding fails soft: a missing or broken logo must never abort
// report generation.
package imaging

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	// Register a broad set of image decoders so image.Decode can handle
	// the formats workspaces upload. These are blank imports to hook into
	// the init() of respective packages.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Logo is a decoded brand image ready for embedding. Data is in a format
// the document builder accepts natively (PNG, JPG, or GIF); everything else
// is transcoded to PNG during decoding.
type Logo struct {
	Data   []byte
	Format string
	// Intrinsic pixel dimensions
	Width  int
	Height int
}

// DecodeLogo attempts to decode data as a supported image. It returns nil
// on nil/empty input, corrupt bytes, or an unsupported format. Failure is
// soft by contract, never an error.
func DecodeLogo(data []byte) *Logo {
	if len(data) == 0 {
		return nil
	}
	if looksLikeSVG(data) {
		return rasterizeSVG(data)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}

	switch format {
	case "png":
		return &Logo{Data: data, Format: "PNG", Width: cfg.Width, Height: cfg.Height}
	case "jpeg":
		return &Logo{Data: data, Format: "JPG", Width: cfg.Width, Height: cfg.Height}
	case "gif":
		return &Logo{Data: data, Format: "GIF", Width: cfg.Width, Height: cfg.Height}
	}

	// bmp/tiff/webp: decode fully and transcode to PNG
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return encodePNG(img)
}

// looksLikeSVG sniffs for an XML/SVG document without decoding it
func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	s := strings.TrimLeft(string(head), " \t\r\n\xef\xbb\xbf")
	return strings.HasPrefix(s, "<") && strings.Contains(s, "<svg")
}

// rasterizeSVG renders an SVG to an RGBA raster at its intrinsic view box
// size and returns it as a PNG logo
func rasterizeSVG(data []byte) (logo *Logo) {
	// oksvg panics on some malformed path data; treat that as a corrupt
	// logo rather than a build failure
	defer func() {
		if r := recover(); r != nil {
			logo = nil
		}
	}()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 256, 256
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return encodePNG(rgba)
}

func encodePNG(img image.Image) *Logo {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	b := img.Bounds()
	return &Logo{Data: buf.Bytes(), Format: "PNG", Width: b.Dx(), Height: b.Dy()}
}
