package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/whatwouldciwdo/tor-sub000/internal/assets"
	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

const emuPerUnit = 9525

// pageWidthTwips is the usable A4 text width at the widest margin set; grid
// column widths are carved from it. Tables size by percent so the grid only
// needs to be proportional.
const pageWidthTwips = 9026

func alignVal(a render.Alignment) string {
	switch a {
	case render.AlignCenter:
		return "center"
	case render.AlignRight:
		return "right"
	case render.AlignJustify:
		return "both"
	}
	return "left"
}

func borderVal(k render.BorderKind) string {
	switch k {
	case render.BorderNone:
		return "none"
	case render.BorderDashed:
		return "dashed"
	}
	return "single"
}

func (s *serializer) appendBlock(parent *etree.Element, owner *part, b render.Block) {
	switch blk := b.(type) {
	case render.Paragraph:
		s.appendParagraph(parent, blk)
	case render.ImageBlock:
		if blk.Image == nil {
			return
		}
		para := parent.CreateElement("w:p")
		para.CreateElement("w:pPr").CreateElement("w:jc").CreateAttr("w:val", "center")
		s.appendImage(para, owner, blk.Image)
	case render.TableBlock:
		s.appendTable(parent, owner, blk.Table)
		// a table must be followed by a paragraph at body level
		parent.CreateElement("w:p")
	}
}

func (s *serializer) appendParagraph(parent *etree.Element, p render.Paragraph) {
	para := parent.CreateElement("w:p")
	pPr := para.CreateElement("w:pPr")

	if p.Spacing != (render.Spacing{}) {
		sp := pPr.CreateElement("w:spacing")
		if p.Spacing.Before != 0 {
			sp.CreateAttr("w:before", fmt.Sprintf("%d", p.Spacing.Before))
		}
		if p.Spacing.After != 0 {
			sp.CreateAttr("w:after", fmt.Sprintf("%d", p.Spacing.After))
		}
		if p.Spacing.Line != 0 {
			sp.CreateAttr("w:line", fmt.Sprintf("%d", p.Spacing.Line))
			sp.CreateAttr("w:lineRule", "auto")
		}
	}
	if p.HangingIndent {
		ind := pPr.CreateElement("w:ind")
		ind.CreateAttr("w:left", "720")
		ind.CreateAttr("w:hanging", "360")
	}
	if p.Align != render.AlignLeft {
		pPr.CreateElement("w:jc").CreateAttr("w:val", alignVal(p.Align))
	}

	for _, r := range p.Runs {
		appendRun(para, r)
	}
}

// appendRun serializes one styled run; embedded "\n" becomes w:br.
func appendRun(para *etree.Element, sr render.StyledRun) {
	r := para.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	if sr.Font != "" {
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", sr.Font)
		fonts.CreateAttr("w:hAnsi", sr.Font)
	}
	if sr.Bold {
		rPr.CreateElement("w:b")
	}
	if sr.Italic {
		rPr.CreateElement("w:i")
	}
	if sr.Underline {
		rPr.CreateElement("w:u").CreateAttr("w:val", "single")
	}
	if sr.Strike {
		rPr.CreateElement("w:strike")
	}
	if sr.Color != "" {
		rPr.CreateElement("w:color").CreateAttr("w:val", sr.Color)
	}
	if sr.Size != 0 {
		rPr.CreateElement("w:sz").CreateAttr("w:val", fmt.Sprintf("%d", sr.Size))
		rPr.CreateElement("w:szCs").CreateAttr("w:val", fmt.Sprintf("%d", sr.Size))
	}

	for i, seg := range strings.Split(sr.Text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		if seg == "" {
			continue
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(seg)
	}
}

// appendImage registers the image bytes as a media part, relates it from the
// owning part (document or header) and emits the inline drawing.
func (s *serializer) appendImage(para *etree.Element, owner *part, img *assets.Image) {
	name := fmt.Sprintf("media/image%d.%s", len(s.media)+1, img.Format.Ext())
	s.media = append(s.media, mediaFile{name: name, data: img.Data})

	var relID string
	if owner == nil {
		relID = fmt.Sprintf("rId%d", len(s.docRels)+1)
		s.docRels = append(s.docRels, relationship{id: relID, relTyp: relImage, target: name})
	} else {
		relID = fmt.Sprintf("rId%d", len(owner.rels)+1)
		owner.rels = append(owner.rels, relationship{id: relID, relTyp: relImage, target: name})
	}

	cx := int64(img.Width) * emuPerUnit
	cy := int64(img.Height) * emuPerUnit
	picID := len(s.media)

	r := para.CreateElement("w:r")
	inline := r.CreateElement("w:drawing").CreateElement("wp:inline")
	for _, a := range [...][2]string{{"distT", "0"}, {"distB", "0"}, {"distL", "0"}, {"distR", "0"}} {
		inline.CreateAttr(a[0], a[1])
	}
	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", fmt.Sprintf("%d", cx))
	extent.CreateAttr("cy", fmt.Sprintf("%d", cy))
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", fmt.Sprintf("%d", picID))
	docPr.CreateAttr("name", fmt.Sprintf("Picture %d", picID))

	graphic := inline.CreateElement("a:graphic")
	graphic.CreateAttr("xmlns:a", nsA)
	data := graphic.CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)
	pic := data.CreateElement("pic:pic")
	pic.CreateAttr("xmlns:pic", nsPic)

	nv := pic.CreateElement("pic:nvPicPr")
	cNv := nv.CreateElement("pic:cNvPr")
	cNv.CreateAttr("id", fmt.Sprintf("%d", picID))
	cNv.CreateAttr("name", fmt.Sprintf("Picture %d", picID))
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	sp := pic.CreateElement("pic:spPr")
	xfrm := sp.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprintf("%d", cx))
	ext.CreateAttr("cy", fmt.Sprintf("%d", cy))
	sp.CreateElement("a:prstGeom").CreateAttr("prst", "rect")
}

func (s *serializer) appendTable(parent *etree.Element, owner *part, t *render.Table) {
	tbl := parent.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")

	widthPct := t.WidthPct
	if widthPct == 0 {
		widthPct = 100
	}
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", fmt.Sprintf("%d", widthPct*50))
	w.CreateAttr("w:type", "pct")
	if t.AlignCenter {
		tblPr.CreateElement("w:jc").CreateAttr("w:val", "center")
	}
	borders := tblPr.CreateElement("w:tblBorders")
	val, sz := "single", "4"
	if t.Borderless {
		val, sz = "none", "0"
	}
	for _, side := range [...]string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", val)
		b.CreateAttr("w:sz", sz)
		b.CreateAttr("w:color", "auto")
	}
	cellMar := tblPr.CreateElement("w:tblCellMar")
	for _, side := range [...]string{"top", "left", "bottom", "right"} {
		m := cellMar.CreateElement("w:" + side)
		m.CreateAttr("w:w", "40")
		m.CreateAttr("w:type", "dxa")
	}

	appendTableGrid(tbl, t, widthPct)

	for _, row := range t.Rows {
		tr := tbl.CreateElement("w:tr")
		if row.Header || row.MinHeight > 0 {
			trPr := tr.CreateElement("w:trPr")
			if row.Header {
				trPr.CreateElement("w:tblHeader")
			}
			if row.MinHeight > 0 {
				h := trPr.CreateElement("w:trHeight")
				h.CreateAttr("w:val", fmt.Sprintf("%d", row.MinHeight))
				h.CreateAttr("w:hRule", "atLeast")
			}
		}
		for _, c := range row.Cells {
			s.appendCell(tr, owner, c)
		}
	}
}

// appendTableGrid carves proportional gridCol entries from the first full
// row's declared widths, falling back to equal columns.
func appendTableGrid(tbl *etree.Element, t *render.Table, widthPct int) {
	cols := 0
	var widths []int
	for _, row := range t.Rows {
		n, ws, full := 0, []int{}, true
		for _, c := range row.Cells {
			span := c.ColSpan
			if span < 1 {
				span = 1
			}
			n += span
			if span > 1 || c.WidthPct == 0 {
				full = false
			}
			ws = append(ws, c.WidthPct)
		}
		if n > cols {
			cols = n
		}
		if full && widths == nil && n > 0 {
			widths = ws
		}
	}
	if cols == 0 {
		return
	}

	total := pageWidthTwips * widthPct / 100
	grid := tbl.CreateElement("w:tblGrid")
	if len(widths) == cols {
		for _, pct := range widths {
			grid.CreateElement("w:gridCol").CreateAttr("w:w", fmt.Sprintf("%d", total*pct/100))
		}
		return
	}
	for i := 0; i < cols; i++ {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", fmt.Sprintf("%d", total/cols))
	}
}

func (s *serializer) appendCell(tr *etree.Element, owner *part, c render.TableCell) {
	tc := tr.CreateElement("w:tc")
	tcPr := tc.CreateElement("w:tcPr")

	if c.WidthPct > 0 {
		w := tcPr.CreateElement("w:tcW")
		w.CreateAttr("w:w", fmt.Sprintf("%d", c.WidthPct*50))
		w.CreateAttr("w:type", "pct")
	}
	if c.ColSpan > 1 {
		tcPr.CreateElement("w:gridSpan").CreateAttr("w:val", fmt.Sprintf("%d", c.ColSpan))
	}
	switch c.VMerge {
	case render.VMergeRestart:
		tcPr.CreateElement("w:vMerge").CreateAttr("w:val", "restart")
	case render.VMergeContinue:
		tcPr.CreateElement("w:vMerge").CreateAttr("w:val", "continue")
	}
	if c.Borders != nil {
		bdr := tcPr.CreateElement("w:tcBorders")
		sides := [...]struct {
			name string
			kind render.BorderKind
		}{
			{"top", c.Borders.Top},
			{"left", c.Borders.Left},
			{"bottom", c.Borders.Bottom},
			{"right", c.Borders.Right},
		}
		for _, side := range sides {
			if side.kind == render.BorderInherit {
				continue
			}
			b := bdr.CreateElement("w:" + side.name)
			b.CreateAttr("w:val", borderVal(side.kind))
			b.CreateAttr("w:sz", "4")
			b.CreateAttr("w:color", "auto")
		}
	}
	if c.Shade != "" {
		shd := tcPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", c.Shade)
	}
	if c.Margins != nil {
		mar := tcPr.CreateElement("w:tcMar")
		sides := [...]struct {
			name  string
			width int
		}{
			{"top", c.Margins.Top},
			{"left", c.Margins.Left},
			{"bottom", c.Margins.Bottom},
			{"right", c.Margins.Right},
		}
		for _, side := range sides {
			m := mar.CreateElement("w:" + side.name)
			m.CreateAttr("w:w", fmt.Sprintf("%d", side.width))
			m.CreateAttr("w:type", "dxa")
		}
	}
	if c.VCenter {
		tcPr.CreateElement("w:vAlign").CreateAttr("w:val", "center")
	}

	for _, p := range c.Paragraphs {
		s.appendParagraph(tc, p)
	}
	if c.Nested != nil {
		s.appendTable(tc, owner, c.Nested)
	}
	// a cell must end with a paragraph
	if len(c.Paragraphs) == 0 || c.Nested != nil {
		tc.CreateElement("w:p")
	}
}
