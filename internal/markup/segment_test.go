package markup

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSegment_FindsTopLevelConstructs(t *testing.T) {
	fragment := `<p>intro</p><ol><li>one</li></ol><table><tr><td>x</td></tr></table>`

	spans := Segment(fragment)
	if len(spans) < 3 {
		t.Fatalf("expected at least 3 spans, got %d", len(spans))
	}

	kinds := []BlockKind{spans[0].Kind, spans[1].Kind, spans[2].Kind}
	want := []BlockKind{KindParagraph, KindOrderedList, KindTable}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("span %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].Start {
			t.Errorf("spans not sorted by start: %d before %d", spans[i].Start, spans[i-1].Start)
		}
	}
}

func TestSegment_SpanRawMatchesOffsets(t *testing.T) {
	fragment := `<p>hello</p>`
	spans := Segment(fragment)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Raw != fragment[s.Start:s.End] {
		t.Errorf("raw %q does not match fragment[%d:%d]", s.Raw, s.Start, s.End)
	}
	if s.Raw != fragment {
		t.Errorf("expected span to cover the whole fragment, got %q", s.Raw)
	}
}

func TestSegment_EmptyFragmentYieldsSyntheticParagraph(t *testing.T) {
	for _, fragment := range []string{"", "   ", "plain text without tags"} {
		spans := Segment(fragment)
		if len(spans) != 1 {
			t.Fatalf("fragment %q: expected 1 span, got %d", fragment, len(spans))
		}
		if spans[0].Kind != KindParagraph {
			t.Errorf("fragment %q: expected paragraph, got %s", fragment, spans[0].Kind)
		}
	}
}

func TestSegment_FigureOwnsItsImage(t *testing.T) {
	fragment := `<figure><img src="data:image/png;base64,x" alt="chart"><figcaption>Fig 1</figcaption></figure>`

	spans := Segment(fragment)
	if len(spans) != 1 {
		t.Fatalf("expected the figure span only, got %d spans", len(spans))
	}
	if spans[0].Kind != KindImage {
		t.Errorf("expected image kind, got %s", spans[0].Kind)
	}
}

func TestResolve_SuppressesNestedParagraph(t *testing.T) {
	fragment := `<ol><li><p>inside</p></li></ol><p>after</p>`

	top := Resolve(Segment(fragment), discardLog())
	if len(top) != 2 {
		t.Fatalf("expected 2 top-level spans, got %d", len(top))
	}
	if top[0].Kind != KindOrderedList {
		t.Errorf("expected ordered list first, got %s", top[0].Kind)
	}
	if top[1].Kind != KindParagraph {
		t.Errorf("expected trailing paragraph, got %s", top[1].Kind)
	}
}

func TestResolve_KeepsNestedImage(t *testing.T) {
	fragment := `<ul><li><img src="data:image/png;base64,x" alt="pic"></li></ul>`

	top := Resolve(Segment(fragment), discardLog())
	if len(top) != 2 {
		t.Fatalf("expected list and nested image kept, got %d spans", len(top))
	}
	if top[1].Kind != KindImage {
		t.Errorf("expected image second, got %s", top[1].Kind)
	}
}

func TestRender_BlockCountMatchesTopLevelConstructs(t *testing.T) {
	fragment := `<p>one</p><p>two</p><ul><li>a</li><li>b</li></ul><p>three</p>`

	blocks := Render(fragment, discardLog())
	// 3 paragraphs + 2 list items
	if len(blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(blocks))
	}
}

func TestRender_NestedTableTextRendersOnce(t *testing.T) {
	fragment := `<p>before <table><tr><td>cellvalue</td></tr></table> after</p>`

	blocks := Render(fragment, discardLog())
	if len(blocks) != 2 {
		t.Fatalf("expected paragraph and table, got %d blocks", len(blocks))
	}

	p, ok := blocks[0].(render.Paragraph)
	if !ok {
		t.Fatalf("expected a paragraph first, got %T", blocks[0])
	}
	var text string
	for _, r := range p.Runs {
		text += r.Text
	}
	if strings.Contains(text, "cellvalue") {
		t.Errorf("table content flattened into the owning paragraph: %q", text)
	}
	if !strings.Contains(text, "before") || !strings.Contains(text, "after") {
		t.Errorf("paragraph lost its own text: %q", text)
	}

	tb, ok := blocks[1].(render.TableBlock)
	if !ok {
		t.Fatalf("expected a table second, got %T", blocks[1])
	}
	cell := tb.Table.Rows[0].Cells[0]
	if len(cell.Paragraphs) == 0 || cell.Paragraphs[0].Runs[0].Text != "cellvalue" {
		t.Errorf("table cell lost its content: %+v", cell)
	}
}

func TestRender_NestedTableInListItemRendersOnce(t *testing.T) {
	fragment := `<ul><li>item <table><tr><td>inner</td></tr></table></li></ul>`

	blocks := Render(fragment, discardLog())
	if len(blocks) != 2 {
		t.Fatalf("expected list item and table, got %d blocks", len(blocks))
	}
	p, ok := blocks[0].(render.Paragraph)
	if !ok {
		t.Fatalf("expected a list paragraph first, got %T", blocks[0])
	}
	var text string
	for _, r := range p.Runs {
		text += r.Text
	}
	if strings.Contains(text, "inner") {
		t.Errorf("table content flattened into the list item: %q", text)
	}
}

func TestRender_EmptyFragmentYieldsOneParagraph(t *testing.T) {
	blocks := Render("", discardLog())
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	p, ok := blocks[0].(render.Paragraph)
	if !ok {
		t.Fatalf("expected a paragraph, got %T", blocks[0])
	}
	if len(p.Runs) != 1 || p.Runs[0].Text != "" {
		t.Errorf("expected a single empty run, got %+v", p.Runs)
	}
}
