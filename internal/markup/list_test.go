package markup

import (
	"testing"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

func TestMarker_Styles(t *testing.T) {
	cases := []struct {
		style CounterStyle
		pos   int
		want  string
	}{
		{Decimal, 1, "1. "},
		{Decimal, 12, "12. "},
		{LowerAlpha, 1, "a. "},
		{LowerAlpha, 2, "b. "},
		{LowerAlpha, 3, "c. "},
		{LowerAlpha, 26, "z. "},
		{UpperAlpha, 1, "A. "},
		{UpperAlpha, 26, "Z. "},
		{LowerRoman, 4, "iv. "},
		{LowerRoman, 9, "ix. "},
		{UpperRoman, 1, "I. "},
		{UpperRoman, 4, "IV. "},
		{UpperRoman, 9, "IX. "},
		{UpperRoman, 14, "XIV. "},
		{UpperRoman, 40, "XL. "},
	}
	for _, tc := range cases {
		got, ok := Marker(tc.style, tc.pos)
		if !ok {
			t.Errorf("%s position %d: unexpectedly flagged", tc.style, tc.pos)
		}
		if got != tc.want {
			t.Errorf("%s position %d: expected %q, got %q", tc.style, tc.pos, got, tc.want)
		}
	}
}

func TestMarker_AlphaBeyondRangeIsFlagged(t *testing.T) {
	for _, style := range []CounterStyle{LowerAlpha, UpperAlpha} {
		got, ok := Marker(style, 27)
		if ok {
			t.Errorf("%s position 27: expected flagged marker", style)
		}
		if got != "?. " {
			t.Errorf("%s position 27: expected placeholder, got %q", style, got)
		}
	}
}

func TestListStyle_DeclarationPriority(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want CounterStyle
	}{
		{"data attribute wins", `<ol data-list-style="upper-roman" style="list-style-type: lower-alpha"><li>x</li></ol>`, UpperRoman},
		{"inline style", `<ol style="margin:0; list-style-type: lower-alpha"><li>x</li></ol>`, LowerAlpha},
		{"class fallback", `<ol class="tight list-style-upper-alpha"><li>x</li></ol>`, UpperAlpha},
		{"unknown value", `<ol data-list-style="fancy"><li>x</li></ol>`, Decimal},
		{"no declaration", `<ol><li>x</li></ol>`, Decimal},
	}
	for _, tc := range cases {
		spans := Segment(tc.raw)
		if len(spans) == 0 || spans[0].Kind != KindOrderedList {
			t.Fatalf("%s: expected an ordered-list span", tc.name)
		}
		if got := listStyle(spans[0]); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestRenderList_OrderedMarkers(t *testing.T) {
	spans := Segment(`<ol data-list-style="lower-alpha"><li>first</li><li>second</li></ol>`)
	blocks := RenderList(spans[0], discardLog())

	if len(blocks) != 2 {
		t.Fatalf("expected 2 item paragraphs, got %d", len(blocks))
	}
	wantMarkers := []string{"a. ", "b. "}
	for i, b := range blocks {
		p, ok := b.(render.Paragraph)
		if !ok {
			t.Fatalf("item %d: expected paragraph, got %T", i, b)
		}
		if len(p.Runs) < 2 {
			t.Fatalf("item %d: expected marker + text runs, got %+v", i, p.Runs)
		}
		if p.Runs[0].Text != wantMarkers[i] {
			t.Errorf("item %d: expected marker %q, got %q", i, wantMarkers[i], p.Runs[0].Text)
		}
		if !p.HangingIndent {
			t.Errorf("item %d: expected hanging indent", i)
		}
	}
}

func TestRenderList_UnorderedUsesBullet(t *testing.T) {
	spans := Segment(`<ul><li>only</li></ul>`)
	blocks := RenderList(spans[0], discardLog())

	if len(blocks) != 1 {
		t.Fatalf("expected 1 item, got %d", len(blocks))
	}
	p := blocks[0].(render.Paragraph)
	if p.Runs[0].Text != Bullet {
		t.Errorf("expected bullet marker, got %q", p.Runs[0].Text)
	}
	if p.Runs[1].Text != "only" {
		t.Errorf("expected item text, got %q", p.Runs[1].Text)
	}
}

func TestRenderList_SkipsEmptyItems(t *testing.T) {
	spans := Segment(`<ul><li>kept</li><li></li></ul>`)
	blocks := RenderList(spans[0], discardLog())
	if len(blocks) != 1 {
		t.Fatalf("expected empty item skipped, got %d blocks", len(blocks))
	}
}

func TestRenderList_NestedListTextStaysWithItem(t *testing.T) {
	spans := Segment(`<ol><li>outer<ul><li>inner</li></ul></li></ol>`)
	blocks := RenderList(spans[0], discardLog())
	if len(blocks) != 1 {
		t.Fatalf("expected 1 direct item, got %d", len(blocks))
	}
	p := blocks[0].(render.Paragraph)
	var text string
	for _, r := range p.Runs {
		text += r.Text
	}
	if text != "1. outerinner" {
		t.Errorf("expected nested text flattened into the item, got %q", text)
	}
}
