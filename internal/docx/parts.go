// Package docx serializes the assembled document model into a WordprocessingML
// package: each XML part is built with etree and the parts are written into a
// zip container in a fixed order, so identical input yields identical bytes.
package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctHeader   = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ctFooter   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
)

type relationship struct {
	id     string
	relTyp string
	target string
}

type mediaFile struct {
	name string // path under word/, e.g. media/image1.png
	data []byte
}

// part is one header or footer XML part plus its own relationships (header
// images relate from the header part, not from the document).
type part struct {
	name string // file name under word/
	doc  *etree.Document
	rels []relationship
}

func newXMLDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func relsDoc(rels []relationship) *etree.Document {
	doc := newXMLDoc()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	for _, r := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", r.id)
		el.CreateAttr("Type", r.relTyp)
		el.CreateAttr("Target", r.target)
	}
	return doc
}

func contentTypesDoc(parts []part, media []mediaFile) *etree.Document {
	doc := newXMLDoc()
	root := doc.CreateElement("Types")
	root.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	def := func(ext, ct string) {
		el := root.CreateElement("Default")
		el.CreateAttr("Extension", ext)
		el.CreateAttr("ContentType", ct)
	}
	def("rels", "application/vnd.openxmlformats-package.relationships+xml")
	def("xml", "application/xml")
	seen := map[string]bool{}
	for _, m := range media {
		ext, ct := mediaType(m.name)
		if !seen[ext] {
			seen[ext] = true
			def(ext, ct)
		}
	}

	override := func(name, ct string) {
		el := root.CreateElement("Override")
		el.CreateAttr("PartName", name)
		el.CreateAttr("ContentType", ct)
	}
	override("/word/document.xml", ctDocument)
	override("/word/styles.xml", ctStyles)
	for _, p := range parts {
		ct := ctHeader
		if p.doc.Root().Tag == "ftr" {
			ct = ctFooter
		}
		override("/word/"+p.name, ct)
	}
	return doc
}

func mediaType(name string) (ext, contentType string) {
	switch {
	case strings.HasSuffix(name, ".png"):
		return "png", "image/png"
	case strings.HasSuffix(name, ".jpg"):
		return "jpg", "image/jpeg"
	case strings.HasSuffix(name, ".gif"):
		return "gif", "image/gif"
	case strings.HasSuffix(name, ".bmp"):
		return "bmp", "image/bmp"
	}
	return "bin", "application/octet-stream"
}

// stylesDoc declares the document defaults: Arial 10pt, single spacing. All
// further formatting is direct, so a single Normal style suffices.
func stylesDoc() *etree.Document {
	doc := newXMLDoc()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	defaults := root.CreateElement("w:docDefaults")
	rprDef := defaults.CreateElement("w:rPrDefault").CreateElement("w:rPr")
	fonts := rprDef.CreateElement("w:rFonts")
	fonts.CreateAttr("w:ascii", "Arial")
	fonts.CreateAttr("w:hAnsi", "Arial")
	fonts.CreateAttr("w:cs", "Arial")
	rprDef.CreateElement("w:sz").CreateAttr("w:val", "20")
	rprDef.CreateElement("w:szCs").CreateAttr("w:val", "20")
	defaults.CreateElement("w:pPrDefault").CreateElement("w:pPr")

	style := root.CreateElement("w:style")
	style.CreateAttr("w:type", "paragraph")
	style.CreateAttr("w:default", "1")
	style.CreateAttr("w:styleId", "Normal")
	style.CreateElement("w:name").CreateAttr("w:val", "Normal")
	return doc
}

func wordRoot(tag string) (*etree.Document, *etree.Element) {
	doc := newXMLDoc()
	root := doc.CreateElement("w:" + tag)
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	return doc, root
}

// blankHeaderPart is the empty header referenced from title pages so the
// branding band stays off the first page of a section.
func blankHeaderPart(name string) part {
	doc, root := wordRoot("hdr")
	root.CreateElement("w:p")
	return part{name: name, doc: doc}
}

// headerPart renders the branding band. Inline puts the caption centered
// between the two marks on one line; otherwise the caption sits under the
// left mark. Rule draws a border under the band.
func (s *serializer) headerPart(name string, band *render.HeaderBand) part {
	doc, root := wordRoot("hdr")
	p := part{name: name, doc: doc}

	tbl := root.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", "5000")
	w.CreateAttr("w:type", "pct")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range [...]string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		borders.CreateElement("w:" + side).CreateAttr("w:val", "none")
	}

	row := tbl.CreateElement("w:tr")
	cell := func(widthPct int, jc string) *etree.Element {
		tc := row.CreateElement("w:tc")
		tcPr := tc.CreateElement("w:tcPr")
		tcw := tcPr.CreateElement("w:tcW")
		tcw.CreateAttr("w:w", fmt.Sprintf("%d", widthPct*50))
		tcw.CreateAttr("w:type", "pct")
		tcPr.CreateElement("w:vAlign").CreateAttr("w:val", "center")
		para := tc.CreateElement("w:p")
		para.CreateElement("w:pPr").CreateElement("w:jc").CreateAttr("w:val", jc)
		return para
	}

	left := cell(30, "left")
	if band.LeftMark != nil {
		s.appendImage(left, &p, band.LeftMark)
	}
	if band.Caption != "" && !band.Inline {
		capPara := left.Parent().CreateElement("w:p")
		pPr := capPara.CreateElement("w:pPr")
		pPr.CreateElement("w:jc").CreateAttr("w:val", "left")
		appendRun(capPara, render.StyledRun{Text: band.Caption, Italic: true, Size: 16})
	}

	center := cell(40, "center")
	if band.Caption != "" && band.Inline {
		appendRun(center, render.StyledRun{Text: band.Caption, Italic: true, Size: 18})
	}

	right := cell(30, "right")
	if band.RightMark != nil {
		s.appendImage(right, &p, band.RightMark)
	}

	tail := root.CreateElement("w:p")
	if band.Rule {
		pPr := tail.CreateElement("w:pPr")
		bdr := pPr.CreateElement("w:pBdr").CreateElement("w:bottom")
		bdr.CreateAttr("w:val", "single")
		bdr.CreateAttr("w:sz", "6")
		bdr.CreateAttr("w:space", "1")
		bdr.CreateAttr("w:color", "auto")
	}
	return p
}

// footerPart renders the page-number band using live PAGE / NUMPAGES fields.
func footerPart(name string, style render.FooterStyle) part {
	doc, root := wordRoot("ftr")
	para := root.CreateElement("w:p")
	pPr := para.CreateElement("w:pPr")

	switch style {
	case render.FooterPageOf:
		pPr.CreateElement("w:jc").CreateAttr("w:val", "right")
		appendRun(para, render.StyledRun{Text: "Page ", Size: 18})
		appendField(para, "PAGE", "1")
		appendRun(para, render.StyledRun{Text: " of ", Size: 18})
		appendField(para, "NUMPAGES", "1")
	case render.FooterPageOnly:
		pPr.CreateElement("w:jc").CreateAttr("w:val", "center")
		appendRun(para, render.StyledRun{Text: "Page ", Size: 18})
		appendField(para, "PAGE", "1")
	}
	return part{name: name, doc: doc}
}

// appendField emits the begin / instrText / separate / cached / end run group
// for a simple field code.
func appendField(para *etree.Element, code, cached string) {
	fldRun := func(charType string) {
		r := para.CreateElement("w:r")
		rPr := r.CreateElement("w:rPr")
		rPr.CreateElement("w:sz").CreateAttr("w:val", "18")
		r.CreateElement("w:fldChar").CreateAttr("w:fldCharType", charType)
	}
	fldRun("begin")

	r := para.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	rPr.CreateElement("w:sz").CreateAttr("w:val", "18")
	instr := r.CreateElement("w:instrText")
	instr.CreateAttr("xml:space", "preserve")
	instr.SetText(" " + code + " ")

	fldRun("separate")
	appendRun(para, render.StyledRun{Text: cached, Size: 18})
	fldRun("end")
}
