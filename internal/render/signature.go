package render

// Signature is one approval-chain entry rendered on the signature sheet.
// Date is pre-formatted by the caller.
type Signature struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Date     string `json:"date"`
}

// SignatureSheet builds the approval-sheet blocks: a centered title, the
// document title, then one boxed signature table per entry in the supplied
// order (drafted, checked, approved).
func SignatureSheet(title string, sigs []Signature) []Block {
	blocks := []Block{
		Paragraph{
			Runs:    []StyledRun{{Text: "APPROVAL SHEET", Bold: true, Size: 24}},
			Align:   AlignCenter,
			Spacing: Spacing{Before: 200, After: 200},
		},
		Paragraph{
			Runs:    []StyledRun{{Text: title, Bold: true}},
			Align:   AlignCenter,
			Spacing: Spacing{After: 400},
		},
	}

	for _, sig := range sigs {
		blocks = append(blocks,
			TableBlock{Table: signatureBox(sig)},
			Paragraph{Runs: []StyledRun{{}}, Spacing: Spacing{Before: 100, After: 100}},
		)
	}
	return blocks
}

// signatureBox is one signature frame: role and date label rows, the
// position, a tall blank signing space and the underlined name. Only the
// outer frame is drawn; inner edges stay open.
func signatureBox(sig Signature) *Table {
	side := func(top, bottom, left, right BorderKind) *CellBorders {
		return &CellBorders{Top: top, Bottom: bottom, Left: left, Right: right}
	}

	labelRow := func(label, value string, topEdge BorderKind) TableRow {
		return TableRow{Cells: []TableCell{
			{
				Paragraphs: []Paragraph{{Runs: []StyledRun{{Text: label}}}},
				WidthPct:   25,
				Borders:    side(topEdge, BorderNone, BorderSingle, BorderNone),
			},
			{
				Paragraphs: []Paragraph{{Runs: []StyledRun{{Text: ":"}}, Align: AlignCenter}},
				WidthPct:   2,
				Borders:    side(topEdge, BorderNone, BorderNone, BorderNone),
			},
			{
				Paragraphs: []Paragraph{{Runs: []StyledRun{{Text: value}}}},
				WidthPct:   73,
				Borders:    side(topEdge, BorderNone, BorderNone, BorderSingle),
			},
		}}
	}

	mergedRow := func(p Paragraph, bottomEdge BorderKind, minHeight int) TableRow {
		return TableRow{
			MinHeight: minHeight,
			Cells: []TableCell{{
				Paragraphs: []Paragraph{p},
				ColSpan:    3,
				Borders:    side(BorderNone, bottomEdge, BorderSingle, BorderSingle),
			}},
		}
	}

	return &Table{
		WidthPct:    70,
		AlignCenter: true,
		Borderless:  true,
		Rows: []TableRow{
			labelRow(sig.Role, "", BorderSingle),
			labelRow("Date", sig.Date, BorderNone),
			mergedRow(Paragraph{
				Runs:  []StyledRun{{Text: sig.Position}},
				Align: AlignCenter,
			}, BorderNone, 0),
			mergedRow(Paragraph{Runs: []StyledRun{{}}}, BorderNone, 1700),
			mergedRow(Paragraph{
				Runs:  []StyledRun{{Text: sig.Name, Underline: true}},
				Align: AlignCenter,
			}, BorderSingle, 0),
		},
	}
}
