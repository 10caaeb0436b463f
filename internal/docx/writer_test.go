package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	godocx "github.com/fumiama/go-docx"

	"github.com/whatwouldciwdo/tor-sub000/internal/assets"
	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

func pngImage(t *testing.T, w, h int) *assets.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &assets.Image{Width: w, Height: h, Data: buf.Bytes(), Format: assets.PNG}
}

func simpleDoc() *render.Document {
	return &render.Document{Sections: []render.Section{
		{
			Margins: render.ContentMargins,
			Blocks: []render.Block{
				render.Paragraph{Runs: []render.StyledRun{{Text: "Cover Page", Bold: true}}},
			},
		},
		{
			Margins: render.ContentMargins,
			Header:  &render.HeaderBand{Caption: "Running Caption", Inline: true, Rule: true},
			Footer:  render.FooterPageOf,
			Blocks: []render.Block{
				render.Paragraph{Runs: []render.StyledRun{{Text: "Body text here"}}},
				render.TableBlock{Table: &render.Table{Rows: []render.TableRow{
					{Cells: []render.TableCell{
						{Paragraphs: []render.Paragraph{{Runs: []render.StyledRun{{Text: "cell one"}}}}},
						{Paragraphs: []render.Paragraph{{Runs: []render.StyledRun{{Text: "cell two"}}}}},
					}},
				}}},
			},
		},
	}}
}

func writeBytes(t *testing.T, doc *render.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.Bytes()
}

func zipPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open container: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read part %s: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestWrite_ContainerHasRequiredParts(t *testing.T) {
	data := writeBytes(t, simpleDoc())

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/header1.xml",
		"word/footer2.xml",
	} {
		if !names[want] {
			t.Errorf("missing part %s", want)
		}
	}
}

func TestWrite_RoundTripReadsBack(t *testing.T) {
	data := writeBytes(t, simpleDoc())

	doc, err := godocx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	var texts []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*godocx.Paragraph)
		if !ok {
			continue
		}
		for _, child := range para.Children {
			run, ok := child.(*godocx.Run)
			if !ok {
				continue
			}
			for _, rc := range run.Children {
				if txt, ok := rc.(*godocx.Text); ok {
					texts = append(texts, txt.Text)
				}
			}
		}
	}
	all := strings.Join(texts, " ")
	for _, want := range []string{"Cover Page", "Body text here"} {
		if !strings.Contains(all, want) {
			t.Errorf("expected %q in document text, got %q", want, all)
		}
	}
}

func TestWrite_SectionBoundaries(t *testing.T) {
	data := writeBytes(t, simpleDoc())
	body := zipPart(t, data, "word/document.xml")

	if n := strings.Count(body, "<w:sectPr>"); n != 2 {
		t.Errorf("expected 2 section property blocks, got %d", n)
	}
	if !strings.Contains(body, "w:headerReference") {
		t.Error("expected header reference in section properties")
	}
	if !strings.Contains(body, "w:footerReference") {
		t.Error("expected footer reference in section properties")
	}
}

func TestWrite_FooterUsesLivePageFields(t *testing.T) {
	data := writeBytes(t, simpleDoc())
	footer := zipPart(t, data, "word/footer2.xml")

	for _, want := range []string{
		`w:fldCharType="begin"`,
		` PAGE `,
		` NUMPAGES `,
		`w:fldCharType="end"`,
	} {
		if !strings.Contains(footer, want) {
			t.Errorf("footer missing %q", want)
		}
	}
}

func TestWrite_TableMarkup(t *testing.T) {
	doc := &render.Document{Sections: []render.Section{{
		Blocks: []render.Block{render.TableBlock{Table: &render.Table{Rows: []render.TableRow{
			{Header: true, Cells: []render.TableCell{
				{
					Paragraphs: []render.Paragraph{{Runs: []render.StyledRun{{Text: "H", Bold: true}}}},
					Shade:      "D3D3D3",
					ColSpan:    2,
				},
			}},
			{Cells: []render.TableCell{
				{Paragraphs: []render.Paragraph{{Runs: []render.StyledRun{{Text: "a"}}}}, VMerge: render.VMergeRestart},
				{Paragraphs: []render.Paragraph{{Runs: []render.StyledRun{{Text: "b"}}}}},
			}},
		}}}},
	}}}
	body := zipPart(t, writeBytes(t, doc), "word/document.xml")

	for _, want := range []string{
		`<w:gridSpan w:val="2"/>`,
		`w:fill="D3D3D3"`,
		`<w:vMerge w:val="restart"/>`,
		`<w:tblHeader/>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("table markup missing %q", want)
		}
	}
}

func TestWrite_EmbeddedImage(t *testing.T) {
	img := pngImage(t, 40, 20)
	doc := &render.Document{Sections: []render.Section{{
		Header: &render.HeaderBand{Caption: "Band", LeftMark: pngImage(t, 10, 10)},
		Blocks: []render.Block{
			render.Paragraph{Runs: []render.StyledRun{{Text: "before"}}},
			render.ImageBlock{Image: img, Alt: "figure"},
		},
	}}}
	data := writeBytes(t, doc)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"word/media/image1.png", "word/media/image2.png"} {
		if !names[want] {
			t.Errorf("missing media part %s; have %v", want, names)
		}
	}

	types := zipPart(t, data, "[Content_Types].xml")
	if !strings.Contains(types, `Extension="png"`) || !strings.Contains(types, `ContentType="image/png"`) {
		t.Errorf("content types missing png default: %s", types)
	}
	if strings.Contains(types, "application/octet-stream") {
		t.Error("media part fell through to the octet-stream default")
	}

	// body blocks are serialized before the header part, so the figure is
	// image1 and the brand mark is image2
	rels := zipPart(t, data, "word/_rels/document.xml.rels")
	if !strings.Contains(rels, `Target="media/image1.png"`) {
		t.Errorf("document rels missing body image target: %s", rels)
	}
	body := zipPart(t, data, "word/document.xml")
	if !strings.Contains(body, "r:embed") || !strings.Contains(body, "wp:inline") {
		t.Error("expected an inline drawing referencing the image relationship")
	}
	hdrRels := zipPart(t, data, "word/_rels/header1.xml.rels")
	if !strings.Contains(hdrRels, `Target="media/image2.png"`) {
		t.Errorf("header rels missing brand mark target: %s", hdrRels)
	}
}

func TestWrite_TitlePageSuppressesFirstPageHeader(t *testing.T) {
	doc := &render.Document{Sections: []render.Section{{
		Header:    &render.HeaderBand{Caption: "Band"},
		TitlePage: true,
		Blocks: []render.Block{
			render.Paragraph{Runs: []render.StyledRun{{Text: "x"}}},
		},
	}}}
	data := writeBytes(t, doc)

	body := zipPart(t, data, "word/document.xml")
	if !strings.Contains(body, "<w:titlePg/>") {
		t.Error("expected titlePg flag in section properties")
	}
	if !strings.Contains(body, `w:type="first"`) {
		t.Error("expected a first-page header reference")
	}
	// the blank first-page header part
	if got := zipPart(t, data, "word/header2.xml"); !strings.Contains(got, "<w:p/>") {
		t.Errorf("expected empty first-page header, got %s", got)
	}
}

func TestWrite_Deterministic(t *testing.T) {
	first := writeBytes(t, simpleDoc())
	second := writeBytes(t, simpleDoc())
	if !bytes.Equal(first, second) {
		t.Error("two writes of the same document differ")
	}
}
