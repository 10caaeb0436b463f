package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// headerShade is the fill applied to header-row cells, matching the editor's
// own header shading.
const headerShade = "D3D3D3"

// TableCellModel is one parsed cell: decoded text plus the header-kind flag.
type TableCellModel struct {
	Text   string
	Header bool
}

// TableRowModel is an ordered cell sequence.
type TableRowModel []TableCellModel

// TableModel is the parsed grid of an authored table.
type TableModel struct {
	Rows []TableRowModel
}

// RenderTable parses every row and cell of a table span. A row containing at
// least one header-kind cell is a header row: all of its cells get the header
// treatment, not just the ones authored as <th>. An empty table still yields
// a zero-row model; its presence in the fragment is meaningful.
func RenderTable(span BlockSpan) TableModel {
	tz := html.NewTokenizer(strings.NewReader(span.Raw))

	var model TableModel
	var row TableRowModel
	inRow := false
	tableDepth := 0 // nested tables are flattened into their cell's text
	cellStart := -1
	cellHeader := false
	offset := 0

	endCell := func(end int) {
		if cellStart < 0 {
			return
		}
		row = append(row, TableCellModel{
			Text:   PlainText(span.Raw[cellStart:end]),
			Header: cellHeader,
		})
		cellStart = -1
	}
	endRow := func(end int) {
		if !inRow {
			return
		}
		endCell(end)
		if len(row) > 0 {
			if rowHasHeader(row) {
				for i := range row {
					row[i].Header = true
				}
			}
			model.Rows = append(model.Rows, row)
		}
		row = nil
		inRow = false
	}

	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		tokStart := offset
		offset += len(tz.Raw())

		if tt != html.StartTagToken && tt != html.EndTagToken {
			continue
		}
		name, _ := tz.TagName()
		tag := string(name)

		switch tag {
		case "table":
			if tt == html.StartTagToken {
				tableDepth++
			} else {
				tableDepth--
			}
		case "tr":
			if tableDepth != 1 {
				continue
			}
			if tt == html.StartTagToken {
				endRow(tokStart)
				inRow = true
			} else {
				endRow(tokStart)
			}
		case "td", "th":
			if tableDepth != 1 || !inRow {
				continue
			}
			if tt == html.StartTagToken {
				endCell(tokStart)
				cellStart = offset
				cellHeader = tag == "th"
			} else {
				endCell(tokStart)
			}
		}
	}
	endRow(len(span.Raw))

	return model
}

func rowHasHeader(row TableRowModel) bool {
	for _, c := range row {
		if c.Header {
			return true
		}
	}
	return false
}

// Block converts the parsed grid into the renderable table: full text width,
// single borders, shaded bold centered header cells.
func (m TableModel) Block() render.TableBlock {
	t := &render.Table{WidthPct: 100}
	margins := &render.CellMargins{Top: 100, Bottom: 100, Left: 100, Right: 100}
	for _, row := range m.Rows {
		var tr render.TableRow
		for _, c := range row {
			align := render.AlignLeft
			shade := ""
			if c.Header {
				align = render.AlignCenter
				shade = headerShade
			}
			tr.Cells = append(tr.Cells, render.TableCell{
				Paragraphs: []render.Paragraph{{
					Runs:  []render.StyledRun{{Text: c.Text, Bold: c.Header}},
					Align: align,
				}},
				Shade:   shade,
				VCenter: true,
				Margins: margins,
			})
		}
		tr.Header = rowHasHeader(row)
		t.Rows = append(t.Rows, tr)
	}
	return render.TableBlock{Table: t}
}
