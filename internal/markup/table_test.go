package markup

import "testing"

func tableSpan(t *testing.T, raw string) BlockSpan {
	t.Helper()
	for _, s := range Segment(raw) {
		if s.Kind == KindTable {
			return s
		}
	}
	t.Fatalf("no table span in %q", raw)
	return BlockSpan{}
}

func TestRenderTable_RowsAndCells(t *testing.T) {
	raw := `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`
	m := RenderTable(tableSpan(t, raw))

	if len(m.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.Rows))
	}
	for i, row := range m.Rows {
		if len(row) != 2 {
			t.Errorf("row %d: expected 2 cells, got %d", i, len(row))
		}
	}
	if m.Rows[0][0].Text != "a" || m.Rows[1][1].Text != "d" {
		t.Errorf("unexpected cell text: %+v", m.Rows)
	}
}

func TestRenderTable_HeaderPromotesWholeRow(t *testing.T) {
	raw := `<table><tr><th>Name</th><td>Value</td></tr><tr><td>x</td><td>y</td></tr></table>`
	m := RenderTable(tableSpan(t, raw))

	if len(m.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.Rows))
	}
	for i, c := range m.Rows[0] {
		if !c.Header {
			t.Errorf("header row cell %d: expected header treatment", i)
		}
	}
	for i, c := range m.Rows[1] {
		if c.Header {
			t.Errorf("body row cell %d: unexpected header treatment", i)
		}
	}
}

func TestRenderTable_CellMarkupFlattened(t *testing.T) {
	raw := `<table><tr><td><b>Total</b> price</td></tr></table>`
	m := RenderTable(tableSpan(t, raw))
	if m.Rows[0][0].Text != "Total price" {
		t.Errorf("expected flattened text, got %q", m.Rows[0][0].Text)
	}
}

func TestRenderTable_EmptyTableYieldsZeroRowShell(t *testing.T) {
	m := RenderTable(tableSpan(t, `<table></table>`))
	if len(m.Rows) != 0 {
		t.Fatalf("expected zero rows, got %d", len(m.Rows))
	}
	b := m.Block()
	if b.Table == nil {
		t.Fatal("expected a table shell, got nil")
	}
	if len(b.Table.Rows) != 0 {
		t.Errorf("expected empty grid, got %d rows", len(b.Table.Rows))
	}
}

func TestTableModel_BlockHeaderStyling(t *testing.T) {
	raw := `<table><tr><th>H</th></tr><tr><td>b</td></tr></table>`
	b := RenderTable(tableSpan(t, raw)).Block()

	head := b.Table.Rows[0]
	if !head.Header {
		t.Error("expected header row marked repeating")
	}
	cell := head.Cells[0]
	if cell.Shade != "D3D3D3" {
		t.Errorf("expected header shade D3D3D3, got %q", cell.Shade)
	}
	if !cell.Paragraphs[0].Runs[0].Bold {
		t.Error("expected header text forced bold")
	}

	body := b.Table.Rows[1].Cells[0]
	if body.Shade != "" || body.Paragraphs[0].Runs[0].Bold {
		t.Errorf("body cell should be unshaded and plain, got %+v", body)
	}
}
