package markup

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// Render runs the full fragment pipeline: segment, resolve overlaps, then
// expand every top-level span into renderable blocks. The result is never
// empty; a blank fragment yields one empty paragraph.
func Render(fragment string, log *slog.Logger) []render.Block {
	spans := Resolve(Segment(fragment), log)

	var blocks []render.Block
	for _, span := range spans {
		span = excise(span, spans)
		switch span.Kind {
		case KindParagraph:
			blocks = append(blocks, renderParagraph(span))
		case KindOrderedList, KindUnorderedList:
			blocks = append(blocks, RenderList(span, log)...)
		case KindTable:
			blocks = append(blocks, RenderTable(span).Block())
		case KindImage:
			blocks = append(blocks, RenderImage(span, log)...)
		}
	}
	if len(blocks) == 0 {
		blocks = append(blocks, render.Paragraph{Spacing: render.Spacing{After: 200}, Runs: []render.StyledRun{{}}})
	}
	return blocks
}

// excise cuts the byte ranges of other top-level spans nested inside owner
// out of its raw content. Those spans render on their own, so leaving their
// text in place would flatten it into the owner's runs a second time.
// Suppressed spans (nested simple lists) are not in top and stay flattened.
func excise(owner BlockSpan, top []BlockSpan) BlockSpan {
	var b strings.Builder
	pos := 0
	for _, t := range top {
		if t.Start < owner.Start || t.End > owner.End {
			continue
		}
		if t.Start == owner.Start && t.End == owner.End {
			continue // owner itself
		}
		start, end := t.Start-owner.Start, t.End-owner.Start
		if start < pos {
			continue // inside an already excised range
		}
		b.WriteString(owner.Raw[pos:start])
		pos = end
	}
	if pos == 0 {
		return owner
	}
	b.WriteString(owner.Raw[pos:])
	owner.Raw = b.String()
	return owner
}

func renderParagraph(span BlockSpan) render.Block {
	runs := DecodeRuns(span.Raw)
	if blank(runs) {
		// empty paragraph authored as a line break: keep the vertical space
		return render.Paragraph{
			Runs:    []render.StyledRun{{}},
			Spacing: render.Spacing{After: 200},
		}
	}
	return render.Paragraph{
		Runs:    runs,
		Align:   render.AlignJustify,
		Spacing: render.Spacing{Line: 360, After: 200},
	}
}

// MarkdownToHTML converts a legacy Markdown-authored field to the HTML
// dialect the segmenter understands. The converted fragment flows through
// the same pipeline as natively authored content.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
