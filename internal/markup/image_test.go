package markup

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// pngDataURL builds a real encoded PNG of the given pixel size.
func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderImage_EmbedsDataURL(t *testing.T) {
	raw := `<img src="` + pngDataURL(t, 40, 20) + `" alt="diagram">`
	spans := Segment(raw)
	blocks := RenderImage(spans[0], discardLog())

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	ib, ok := blocks[0].(render.ImageBlock)
	if !ok {
		t.Fatalf("expected image block, got %T", blocks[0])
	}
	if ib.Image.Width != 40 || ib.Image.Height != 20 {
		t.Errorf("expected 40x20, got %dx%d", ib.Image.Width, ib.Image.Height)
	}
	if ib.Alt != "diagram" {
		t.Errorf("expected alt %q, got %q", "diagram", ib.Alt)
	}
}

func TestRenderImage_ExternalSourceBecomesPlaceholder(t *testing.T) {
	raw := `<img src="https://example.com/x.png" alt="remote chart">`
	spans := Segment(raw)
	blocks := RenderImage(spans[0], discardLog())

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	p, ok := blocks[0].(render.Paragraph)
	if !ok {
		t.Fatalf("expected placeholder paragraph, got %T", blocks[0])
	}
	text := p.Runs[0].Text
	if !strings.Contains(text, "remote chart") {
		t.Errorf("placeholder should carry the alt text, got %q", text)
	}
	if !p.Runs[0].Italic || p.Align != render.AlignCenter {
		t.Errorf("placeholder should be centered italic, got %+v", p)
	}
}

func TestRenderImage_FigureCaptionFollowsImage(t *testing.T) {
	raw := `<figure><img src="` + pngDataURL(t, 10, 10) + `" alt="a"><figcaption>Figure <b>1</b></figcaption></figure>`
	spans := Segment(raw)
	if len(spans) != 1 {
		t.Fatalf("expected single figure span, got %d", len(spans))
	}
	blocks := RenderImage(spans[0], discardLog())

	if len(blocks) != 2 {
		t.Fatalf("expected image + caption, got %d blocks", len(blocks))
	}
	if _, ok := blocks[0].(render.ImageBlock); !ok {
		t.Fatalf("expected image first, got %T", blocks[0])
	}
	capPara, ok := blocks[1].(render.Paragraph)
	if !ok {
		t.Fatalf("expected caption paragraph, got %T", blocks[1])
	}
	if capPara.Runs[0].Text != "Figure 1" {
		t.Errorf("expected caption %q, got %q", "Figure 1", capPara.Runs[0].Text)
	}
	if !capPara.Runs[0].Italic || capPara.Runs[0].Color != "666666" {
		t.Errorf("caption should be italic gray, got %+v", capPara.Runs[0])
	}
}

func TestRenderImage_DeclaredSizeCappedAtMaxWidth(t *testing.T) {
	raw := `<img src="` + pngDataURL(t, 100, 50) + `" width="1200" height="600">`
	spans := Segment(raw)
	blocks := RenderImage(spans[0], discardLog())

	ib, ok := blocks[0].(render.ImageBlock)
	if !ok {
		t.Fatalf("expected image block, got %T", blocks[0])
	}
	if ib.Image.Width != 600 {
		t.Errorf("expected width capped at 600, got %d", ib.Image.Width)
	}
	if ib.Image.Height != 300 {
		t.Errorf("expected height scaled to 300, got %d", ib.Image.Height)
	}
}
