package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// gridShade is the header fill shared by the structured tables, the same
// light gray the authoring editor shows.
const gridShade = "D3D3D3"

// BudgetLine is one budget line item. All amounts are computed by the
// calling collaborator; no arithmetic happens here.
type BudgetLine struct {
	Label      string          `json:"label"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Budget is the line-item sequence plus the pre-computed totals. Subtotal
// and Tax rows are emitted only when supplied; the grand total always is.
type Budget struct {
	Items      []BudgetLine        `json:"items"`
	Subtotal   decimal.NullDecimal `json:"subtotal"`
	Tax        decimal.NullDecimal `json:"tax"`
	TaxLabel   string              `json:"tax_label"`
	GrandTotal decimal.Decimal     `json:"grand_total"`
}

// BudgetTable renders the budget as a shaded-header grid with one body row
// per line item and merged total rows spanning the leading columns.
func (b Budget) BudgetTable() TableBlock {
	t := &Table{WidthPct: 100}

	headers := []struct {
		label string
		width int
	}{
		{"Item", 5}, {"Description", 40}, {"Quantity", 10},
		{"Order Unit", 10}, {"Unit Price", 15}, {"Total Price", 20},
	}
	var head TableRow
	head.Header = true
	for _, h := range headers {
		head.Cells = append(head.Cells, TableCell{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: h.label, Bold: true}},
				Align: AlignCenter,
			}},
			WidthPct: h.width,
			Shade:    gridShade,
		})
	}
	t.Rows = append(t.Rows, head)

	for i, item := range b.Items {
		t.Rows = append(t.Rows, TableRow{Cells: []TableCell{
			textCell(strconv.Itoa(i+1), AlignCenter, false),
			textCell(item.Label, AlignLeft, false),
			textCell(item.Quantity.String(), AlignCenter, false),
			textCell(item.Unit, AlignCenter, false),
			textCell(FormatAmount(item.UnitPrice), AlignRight, false),
			textCell(FormatAmount(item.TotalPrice), AlignRight, false),
		}})
	}

	if b.Subtotal.Valid {
		t.Rows = append(t.Rows, totalRow("Total", b.Subtotal.Decimal))
	}
	if b.Tax.Valid {
		label := b.TaxLabel
		if label == "" {
			label = "Tax"
		}
		t.Rows = append(t.Rows, totalRow(label, b.Tax.Decimal))
	}
	t.Rows = append(t.Rows, totalRow("Grand Total", b.GrandTotal))

	return TableBlock{Table: t}
}

func totalRow(label string, amount decimal.Decimal) TableRow {
	return TableRow{Cells: []TableCell{
		{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: label, Bold: true}},
				Align: AlignRight,
			}},
			ColSpan: 5,
		},
		{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: FormatAmount(amount), Bold: true}},
				Align: AlignRight,
			}},
		},
	}}
}

func textCell(text string, align Alignment, bold bool) TableCell {
	return TableCell{
		Paragraphs: []Paragraph{{
			Runs:  []StyledRun{{Text: text, Bold: bold}},
			Align: align,
		}},
	}
}

// FormatAmount renders a monetary amount with thousands grouping, dropping
// a fractional part of zero.
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
