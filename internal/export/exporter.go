package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/whatwouldciwdo/tor-sub000/internal/assets"
	"github.com/whatwouldciwdo/tor-sub000/internal/config"
	"github.com/whatwouldciwdo/tor-sub000/internal/docx"
	"github.com/whatwouldciwdo/tor-sub000/internal/markup"
	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

const (
	coverFont      = "Times New Roman"
	coverImageW    = 450
	coverImageH    = 300
	markMaxWidth   = 140
	captionGray    = "666666"
	bandCaption    = "Term of Reference (TOR)"
	docTypeHeading = "TERM OF REFERENCE (TOR)"
)

// Exporter assembles export requests into DOCX streams. Brand marks are
// resolved from the asset store on every call so the store stays the single
// owner of disk access.
type Exporter struct {
	store *assets.Store
	cfg   config.Config
	log   *slog.Logger
}

func New(store *assets.Store, cfg config.Config, log *slog.Logger) *Exporter {
	return &Exporter{store: store, cfg: cfg, log: log}
}

// Export renders the request and writes the complete DOCX to w. Rendering
// failures inside fragments degrade to placeholders; only serialization
// failures surface as errors.
func (e *Exporter) Export(ctx context.Context, req *Request, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	band := e.headerBand(req.Title)

	doc := &render.Document{}
	doc.Sections = append(doc.Sections, e.coverSection(req, band))
	doc.Sections = append(doc.Sections, e.contentSection(req, band))
	if len(req.Signatures) > 0 {
		doc.Sections = append(doc.Sections, render.Section{
			Margins: render.PlainMargins,
			Blocks:  render.SignatureSheet(bandCaption+" "+req.Title, req.Signatures),
		})
	}
	if len(req.Appendices) > 0 {
		doc.Sections = append(doc.Sections, e.appendixSection(req, band))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := docx.Write(doc, w); err != nil {
		return fmt.Errorf("serialize %q: %w", req.Number, err)
	}
	return nil
}

// headerBand loads the two brand marks. A missing mark logs a warning and
// leaves its slot empty rather than failing the export.
func (e *Exporter) headerBand(title string) *render.HeaderBand {
	band := &render.HeaderBand{
		Caption: bandCaption + " " + title,
		Inline:  true,
		Rule:    true,
	}
	band.LeftMark = e.loadMark(e.cfg.LeftMark)
	band.RightMark = e.loadMark(e.cfg.RightMark)
	return band
}

// loadMark resolves one brand mark, capped to the band height budget.
func (e *Exporter) loadMark(name string) *assets.Image {
	img, err := e.store.Load(name)
	if err != nil {
		e.log.Warn("brand asset unavailable", "asset", name, "error", err)
		return nil
	}
	img.Width, img.Height = assets.FitWidth(img.Width, img.Height, markMaxWidth)
	return img
}

func coverLine(text string, size, after int) render.Paragraph {
	return render.Paragraph{
		Runs:    []render.StyledRun{{Text: text, Bold: true, Size: size, Font: coverFont}},
		Align:   render.AlignCenter,
		Spacing: render.Spacing{After: after},
	}
}

// coverSection lays out the title page. The band is attached with a blank
// first-page header so it only shows if the cover overflows.
func (e *Exporter) coverSection(req *Request, band *render.HeaderBand) render.Section {
	blocks := []render.Block{
		render.Paragraph{Spacing: render.Spacing{Before: 2000}},
		coverLine(docTypeHeading, 28, 400),
		coverLine(req.Title, 40, 800),
	}
	blocks = append(blocks, e.coverImage(req)...)
	blocks = append(blocks,
		render.Paragraph{Spacing: render.Spacing{Before: 2000}},
		coverLine(e.cfg.OrgName, 24, 0),
		coverLine(e.cfg.OrgUnit, 24, 0),
		coverLine("YEAR "+strconv.Itoa(req.CreationYear), 24, 0),
	)
	return render.Section{
		Margins:   render.ContentMargins,
		Header:    band,
		TitlePage: true,
		Blocks:    blocks,
	}
}

// coverImage resolves the cover illustration. No reference renders an
// "illustration only" caption; an unreadable reference renders a gray
// "could not be loaded" caption.
func (e *Exporter) coverImage(req *Request) []render.Block {
	caption := func(text string) []render.Block {
		return []render.Block{render.Paragraph{
			Runs:    []render.StyledRun{{Text: text, Italic: true, Color: captionGray, Size: 18}},
			Align:   render.AlignCenter,
			Spacing: render.Spacing{After: 400},
		}}
	}
	if strings.TrimSpace(req.CoverImage) == "" {
		return caption("* illustration only")
	}
	img, err := assets.DecodeDataURL(req.CoverImage, coverImageW, coverImageH)
	if err != nil {
		e.log.Warn("cover image unavailable", "document", req.Number, "error", err)
		return caption("* image could not be loaded")
	}
	img.Width, img.Height = coverImageW, coverImageH
	return []render.Block{render.ImageBlock{Image: img, Alt: "cover"}}
}

func heading(text string) render.Paragraph {
	return render.Paragraph{
		Runs:    []render.StyledRun{{Text: text, Bold: true}},
		Spacing: render.Spacing{Before: 200, After: 120},
	}
}

func (e *Exporter) contentSection(req *Request, band *render.HeaderBand) render.Section {
	var blocks []render.Block

	for i, f := range req.Fields {
		blocks = append(blocks, heading(strconv.Itoa(i+1)+". "+strings.ToUpper(f.Heading)))
		blocks = append(blocks, e.renderField(req, f)...)
	}

	if req.Duration != nil {
		blocks = append(blocks, render.Paragraph{
			Runs: []render.StyledRun{
				{Text: "Implementation period: "},
				{Text: req.Duration.Phrase(), Bold: true},
			},
			Spacing: render.Spacing{Before: 200, After: 200},
		})
	}
	if req.Schedule != nil {
		blocks = append(blocks, heading("WORK SCHEDULE"))
		blocks = append(blocks, req.Schedule.Table())
	}
	if req.Budget != nil {
		blocks = append(blocks, heading("BUDGET"))
		blocks = append(blocks, req.Budget.BudgetTable())
	}

	return render.Section{
		Margins: render.ContentMargins,
		Header:  band,
		Footer:  render.FooterPageOf,
		Blocks:  blocks,
	}
}

// renderField flows one authored fragment through the markup pipeline.
// Markdown fields are converted to the HTML dialect first; a conversion
// failure degrades to the raw text in a single paragraph.
func (e *Exporter) renderField(req *Request, f Field) []render.Block {
	fragment := f.Fragment
	if f.Format == FormatMarkdown {
		html, err := markup.MarkdownToHTML(fragment)
		if err != nil {
			e.log.Warn("markdown conversion failed", "document", req.Number, "heading", f.Heading, "error", err)
			return []render.Block{render.Paragraph{
				Runs:    []render.StyledRun{{Text: fragment}},
				Spacing: render.Spacing{After: 200},
			}}
		}
		fragment = html
	}
	return markup.Render(fragment, e.log)
}

func (e *Exporter) appendixSection(req *Request, band *render.HeaderBand) render.Section {
	var blocks []render.Block
	for _, a := range req.Appendices {
		blocks = append(blocks,
			render.Paragraph{
				Runs:    []render.StyledRun{{Text: a.Title, Bold: true, Size: 24}},
				Align:   render.AlignCenter,
				Spacing: render.Spacing{Before: 200, After: 200},
			},
			a.AppendixTable(),
			render.Paragraph{Spacing: render.Spacing{After: 200}},
		)
	}
	return render.Section{
		Margins: render.ContentMargins,
		Header:  band,
		Footer:  render.FooterPageOnly,
		Blocks:  blocks,
	}
}
