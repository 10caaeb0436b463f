package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// serializer accumulates parts while walking the document. All state is
// per-call, so Write is safe for concurrent use.
type serializer struct {
	docRels   []relationship
	hfParts   []part
	media     []mediaFile
	blankName string // shared empty first-page header, created once
}

// Write serializes the document into a complete DOCX package on w. Parts are
// assembled in memory and written in a fixed order with zip.Writer.Create
// (zero timestamps), so equal documents produce equal bytes.
func Write(doc *render.Document, w io.Writer) error {
	s := &serializer{}
	s.docRels = append(s.docRels, relationship{id: "rId1", relTyp: relStyles, target: "styles.xml"})

	main, body := wordRoot("document")
	bodyEl := body.CreateElement("w:body")

	sections := doc.Sections
	if len(sections) == 0 {
		sections = []render.Section{{Margins: render.ContentMargins}}
	}
	for i, sec := range sections {
		for _, b := range sec.Blocks {
			s.appendBlock(bodyEl, nil, b)
		}
		sectPr := s.sectionProps(&sec)
		if i == len(sections)-1 {
			bodyEl.AddChild(sectPr)
		} else {
			para := bodyEl.CreateElement("w:p")
			para.CreateElement("w:pPr").AddChild(sectPr)
		}
	}

	zw := zip.NewWriter(w)
	if err := s.writeParts(zw, main); err != nil {
		zw.Close()
		return fmt.Errorf("write docx parts: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close docx container: %w", err)
	}
	return nil
}

// sectionProps builds the w:sectPr for one section, creating its header and
// footer parts and relating them from the document.
func (s *serializer) sectionProps(sec *render.Section) *etree.Element {
	sectPr := etree.NewElement("w:sectPr")

	if sec.Header != nil {
		name := fmt.Sprintf("header%d.xml", len(s.hfParts)+1)
		s.hfParts = append(s.hfParts, s.headerPart(name, sec.Header))
		ref := sectPr.CreateElement("w:headerReference")
		ref.CreateAttr("w:type", "default")
		ref.CreateAttr("r:id", s.relate(relHeader, name))

		if sec.TitlePage {
			if s.blankName == "" {
				s.blankName = fmt.Sprintf("header%d.xml", len(s.hfParts)+1)
				s.hfParts = append(s.hfParts, blankHeaderPart(s.blankName))
				s.relate(relHeader, s.blankName)
			}
			first := sectPr.CreateElement("w:headerReference")
			first.CreateAttr("w:type", "first")
			first.CreateAttr("r:id", s.relIDFor(s.blankName))
		}
	}
	if sec.Footer != render.FooterNone {
		name := fmt.Sprintf("footer%d.xml", len(s.hfParts)+1)
		s.hfParts = append(s.hfParts, footerPart(name, sec.Footer))
		ref := sectPr.CreateElement("w:footerReference")
		ref.CreateAttr("w:type", "default")
		ref.CreateAttr("r:id", s.relate(relFooter, name))
	}

	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "11906")
	pgSz.CreateAttr("w:h", "16838")

	m := sec.Margins
	if m == (render.PageMargins{}) {
		m = render.ContentMargins
	}
	pgMar := sectPr.CreateElement("w:pgMar")
	pgMar.CreateAttr("w:top", fmt.Sprintf("%d", m.Top))
	pgMar.CreateAttr("w:right", fmt.Sprintf("%d", m.Right))
	pgMar.CreateAttr("w:bottom", fmt.Sprintf("%d", m.Bottom))
	pgMar.CreateAttr("w:left", fmt.Sprintf("%d", m.Left))
	pgMar.CreateAttr("w:header", "720")
	pgMar.CreateAttr("w:footer", "720")
	pgMar.CreateAttr("w:gutter", "0")

	if sec.TitlePage {
		sectPr.CreateElement("w:titlePg")
	}
	return sectPr
}

func (s *serializer) relate(relTyp, target string) string {
	id := fmt.Sprintf("rId%d", len(s.docRels)+1)
	s.docRels = append(s.docRels, relationship{id: id, relTyp: relTyp, target: target})
	return id
}

func (s *serializer) relIDFor(target string) string {
	for _, r := range s.docRels {
		if r.target == target {
			return r.id
		}
	}
	return ""
}

func (s *serializer) writeParts(zw *zip.Writer, main *etree.Document) error {
	if err := writeXMLToZip(zw, "[Content_Types].xml", contentTypesDoc(s.hfParts, s.media)); err != nil {
		return err
	}
	rootRels := []relationship{{id: "rId1", relTyp: relOfficeDocument, target: "word/document.xml"}}
	if err := writeXMLToZip(zw, "_rels/.rels", relsDoc(rootRels)); err != nil {
		return err
	}
	if err := writeXMLToZip(zw, "word/document.xml", main); err != nil {
		return err
	}
	if err := writeXMLToZip(zw, "word/_rels/document.xml.rels", relsDoc(s.docRels)); err != nil {
		return err
	}
	if err := writeXMLToZip(zw, "word/styles.xml", stylesDoc()); err != nil {
		return err
	}
	for _, p := range s.hfParts {
		if err := writeXMLToZip(zw, "word/"+p.name, p.doc); err != nil {
			return err
		}
		if len(p.rels) > 0 {
			if err := writeXMLToZip(zw, "word/_rels/"+p.name+".rels", relsDoc(p.rels)); err != nil {
				return err
			}
		}
	}
	for _, m := range s.media {
		if err := writeDataToZip(zw, "word/"+m.name, m.data); err != nil {
			return err
		}
	}
	return nil
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
