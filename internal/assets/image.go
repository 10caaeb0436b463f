package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fumiama/imgsz"
	_ "golang.org/x/image/bmp"
)

// MaxRenderWidth is the widest an embedded image may render in the document,
// in layout units. Height is always recomputed from the scale factor.
const MaxRenderWidth = 600

// maxPixelWidth bounds the pixel data actually embedded in the output file.
// Pasted screenshots can be enormous; anything wider is resampled down.
const maxPixelWidth = 1600

// Format is an embeddable raster format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
)

// Ext returns the media file extension for the format.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return string(f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Image is a decoded raster asset ready for embedding. Width and Height are
// layout units (the size the image renders at), not necessarily pixel
// dimensions.
type Image struct {
	Width  int
	Height int
	Data   []byte
	Format Format
}

// ErrExternalReference marks an image whose source is not an embedded
// payload. Only self-contained data URLs can be resolved; anything else is
// substituted with a placeholder by the caller.
var ErrExternalReference = errors.New("external reference unsupported")

// DecodeDataURL resolves a data:image/...;base64 source into an Image.
// declaredW/declaredH are the author-supplied dimensions (0 when absent);
// they win over pixel dimensions but are still capped at MaxRenderWidth.
func DecodeDataURL(src string, declaredW, declaredH int) (*Image, error) {
	if !strings.HasPrefix(src, "data:image/") {
		return nil, ErrExternalReference
	}
	rest := strings.TrimPrefix(src, "data:image/")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return nil, ErrExternalReference
	}
	format, err := normalizeFormat(rest[:semi])
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	sz, sniffed, err := imgsz.DecodeSize(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("sniff image size: %w", err)
	}
	if f, err := normalizeFormat(sniffed); err == nil {
		format = f
	}

	raw, pxW, pxH, err := boundPixels(raw, format, sz.Width, sz.Height)
	if err != nil {
		return nil, err
	}

	w, h := declaredW, declaredH
	if w <= 0 || h <= 0 {
		w, h = pxW, pxH
	}
	w, h = FitWidth(w, h, MaxRenderWidth)

	return &Image{Width: w, Height: h, Data: raw, Format: format}, nil
}

// FitWidth scales (w, h) down so w does not exceed max, preserving aspect
// ratio. Dimensions already within the bound are returned unchanged.
func FitWidth(w, h, max int) (int, int) {
	if w <= max || w <= 0 {
		return w, h
	}
	ratio := float64(max) / float64(w)
	return max, int(float64(h) * ratio)
}

// boundPixels resamples oversized raster data so the embedded payload stays
// within maxPixelWidth. Returns the (possibly re-encoded) bytes and the final
// pixel dimensions.
func boundPixels(raw []byte, format Format, pxW, pxH int) ([]byte, int, int, error) {
	if pxW <= maxPixelWidth {
		return raw, pxW, pxH, nil
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode oversized image: %w", err)
	}
	resized := imaging.Resize(img, maxPixelWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imagingFormat(format)); err != nil {
		return nil, 0, 0, fmt.Errorf("re-encode resized image: %w", err)
	}
	b := resized.Bounds()
	return buf.Bytes(), b.Dx(), b.Dy(), nil
}

func imagingFormat(f Format) imaging.Format {
	switch f {
	case JPEG:
		return imaging.JPEG
	case GIF:
		return imaging.GIF
	case BMP:
		return imaging.BMP
	default:
		return imaging.PNG
	}
}

func normalizeFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}
