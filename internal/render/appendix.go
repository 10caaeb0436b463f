package render

import (
	"regexp"
	"strings"
)

// TemplateShape is the closed set of appendix table layouts. The shape is
// resolved once per appendix from the record schema, never re-detected per
// row.
type TemplateShape int

const (
	// ShapeThreeColumn: description / specified / proposed & guarantee.
	ShapeThreeColumn TemplateShape = iota
	// ShapeFiveColumn: description / unit / required / proposed / remarks.
	ShapeFiveColumn
	// ShapeSixColumnVendor: spec requirements, three vendor columns, notes,
	// with a two-row header merging the vendor band.
	ShapeSixColumnVendor
	// ShapeMultiSpecVendor: like SixColumnVendor, with the spec column
	// holding a nested grid of up to four sub-spec values.
	ShapeMultiSpecVendor
)

func (s TemplateShape) String() string {
	switch s {
	case ShapeFiveColumn:
		return "five-column"
	case ShapeSixColumnVendor:
		return "six-column-vendor"
	case ShapeMultiSpecVendor:
		return "multi-spec-vendor"
	}
	return "three-column"
}

// AppendixItem is one appendix record. Which fields are populated depends on
// the template shape; ID drives section-header detection.
type AppendixItem struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`

	// three-column
	Specified         string `json:"specified,omitempty"`
	ProposedGuarantee string `json:"proposed_guarantee,omitempty"`

	// five-column
	Unit               string `json:"unit,omitempty"`
	Required           string `json:"required,omitempty"`
	ProposedGuaranteed string `json:"proposed_guaranteed,omitempty"`
	Remarks            string `json:"remarks,omitempty"`

	// vendor shapes
	SpecRequirements string `json:"spec_requirements,omitempty"`
	VendorA          string `json:"vendor_a,omitempty"`
	VendorB          string `json:"vendor_b,omitempty"`
	VendorC          string `json:"vendor_c,omitempty"`
	Notes            string `json:"notes,omitempty"`

	// multi-spec vendor
	Spec1 string `json:"spec1,omitempty"`
	Spec2 string `json:"spec2,omitempty"`
	Spec3 string `json:"spec3,omitempty"`
	Spec4 string `json:"spec4,omitempty"`
}

// Appendix is one titled template table in the appendix section.
type Appendix struct {
	Title string         `json:"title"`
	Items []AppendixItem `json:"items"`
}

// ResolveShape inspects the first data record (one whose fields go beyond a
// bare description) and picks the layout for the whole table.
func ResolveShape(items []AppendixItem) TemplateShape {
	for _, it := range items {
		switch {
		case it.Spec1 != "" && (it.VendorA != "" || it.Notes != "" || it.Spec2 != ""):
			return ShapeMultiSpecVendor
		case it.SpecRequirements != "":
			return ShapeSixColumnVendor
		case it.Unit != "" && it.Required != "":
			return ShapeFiveColumn
		case it.Specified != "" || it.ProposedGuarantee != "":
			return ShapeThreeColumn
		}
	}
	return ShapeThreeColumn
}

var dataRowID = regexp.MustCompile(`-[a-z]`)
var plainSectionID = regexp.MustCompile(`^[\d.]+$`)

// isSectionHeader reports whether the record is a section header row.
// Header IDs are bare dotted numbers ("1", "1.2"); data rows carry a
// hyphen-letter suffix ("1-a"). Legacy headers end in "-0". Records with no
// usable ID fall back to content shape: a description with every data field
// empty.
func isSectionHeader(it AppendixItem) (string, bool) {
	if strings.HasSuffix(it.ID, "-0") {
		return strings.TrimSuffix(it.ID, "-0"), true
	}
	if it.ID != "" && !dataRowID.MatchString(it.ID) && plainSectionID.MatchString(it.ID) {
		return it.ID, true
	}
	if it.Description != "" &&
		it.Specified == "" && it.ProposedGuarantee == "" &&
		(it.Unit == "" || it.Unit == "-") && it.Required == "" && it.ProposedGuaranteed == "" {
		return "", true
	}
	return "", false
}

type appendixColumn struct {
	label string
	width int
	value func(AppendixItem) string
}

func shapeColumns(shape TemplateShape) []appendixColumn {
	switch shape {
	case ShapeFiveColumn:
		return []appendixColumn{
			{"DESCRIPTION", 30, func(i AppendixItem) string { return i.Description }},
			{"UNIT", 8, func(i AppendixItem) string { return i.Unit }},
			{"REQUIRED", 17, func(i AppendixItem) string { return i.Required }},
			{"PROPOSED AND GUARANTEED", 25, func(i AppendixItem) string { return i.ProposedGuaranteed }},
			{"REMARKS", 15, func(i AppendixItem) string { return i.Remarks }},
		}
	case ShapeSixColumnVendor, ShapeMultiSpecVendor:
		return []appendixColumn{
			{"SPECIFICATION REQUIREMENTS", 30, func(i AppendixItem) string { return i.SpecRequirements }},
			{"VENDOR A", 15, func(i AppendixItem) string { return i.VendorA }},
			{"VENDOR B", 15, func(i AppendixItem) string { return i.VendorB }},
			{"VENDOR C", 15, func(i AppendixItem) string { return i.VendorC }},
			{"NOTES", 20, func(i AppendixItem) string { return i.Notes }},
		}
	default:
		return []appendixColumn{
			{"DESCRIPTION", 40, func(i AppendixItem) string { return i.Description }},
			{"SPECIFIED", 30, func(i AppendixItem) string { return i.Specified }},
			{"PROPOSED & GUARANTEE", 25, func(i AppendixItem) string { return i.ProposedGuarantee }},
		}
	}
}

const (
	appendixHeadShade    = "F3F4F6"
	appendixSectionShade = "E0E0E0"
	appendixHeadSize     = 14
	appendixCellSize     = 12
)

var appendixMargins = &CellMargins{Top: 40, Bottom: 40, Left: 30, Right: 30}

// AppendixTable renders the appendix as its resolved shape: a header band
// (two rows for the vendor shapes, merging the vendor columns), section
// header rows merged and shaded, and one data row per record.
func (a Appendix) AppendixTable() TableBlock {
	shape := ResolveShape(a.Items)
	cols := shapeColumns(shape)

	t := &Table{WidthPct: 100}
	t.Rows = append(t.Rows, appendixHeaderRows(shape, cols)...)

	for _, it := range a.Items {
		if num, ok := isSectionHeader(it); ok {
			t.Rows = append(t.Rows, sectionHeaderRow(num, sectionLabel(it), len(cols)))
			continue
		}
		t.Rows = append(t.Rows, dataRow(shape, cols, it))
	}

	return TableBlock{Table: t}
}

func sectionLabel(it AppendixItem) string {
	for _, v := range []string{it.Description, it.SpecRequirements, it.Spec1} {
		if v != "" {
			return v
		}
	}
	return ""
}

func appendixHeaderRows(shape TemplateShape, cols []appendixColumn) []TableRow {
	head := func(text string, width, colSpan int, vMerge VMerge) TableCell {
		return TableCell{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: text, Bold: true, Size: appendixHeadSize}},
				Align: AlignCenter,
			}},
			WidthPct: width,
			ColSpan:  colSpan,
			VMerge:   vMerge,
			VCenter:  true,
			Shade:    appendixHeadShade,
			Margins:  appendixMargins,
		}
	}

	if shape == ShapeSixColumnVendor || shape == ShapeMultiSpecVendor {
		row1 := TableRow{Header: true, Cells: []TableCell{
			head("NO", 5, 0, VMergeRestart),
			head(cols[0].label, cols[0].width, 0, VMergeRestart),
			head("VENDOR", 0, 3, VMergeNone),
			head(cols[4].label, cols[4].width, 0, VMergeRestart),
		}}
		row2 := TableRow{Header: true, Cells: []TableCell{
			head("", 5, 0, VMergeContinue),
			head("", cols[0].width, 0, VMergeContinue),
			head(cols[1].label, cols[1].width, 0, VMergeNone),
			head(cols[2].label, cols[2].width, 0, VMergeNone),
			head(cols[3].label, cols[3].width, 0, VMergeNone),
			head("", cols[4].width, 0, VMergeContinue),
		}}
		return []TableRow{row1, row2}
	}

	row := TableRow{Header: true, Cells: []TableCell{head("No.", 5, 0, VMergeNone)}}
	for _, c := range cols {
		row.Cells = append(row.Cells, head(c.label, c.width, 0, VMergeNone))
	}
	return []TableRow{row}
}

func sectionHeaderRow(num, label string, span int) TableRow {
	cell := func(text string, colSpan int, align Alignment) TableCell {
		return TableCell{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: text, Bold: true, Size: appendixCellSize}},
				Align: align,
			}},
			ColSpan: colSpan,
			Shade:   appendixSectionShade,
			Margins: appendixMargins,
		}
	}
	return TableRow{Cells: []TableCell{
		cell(num, 0, AlignCenter),
		cell(label, span, AlignLeft),
	}}
}

func dataRow(shape TemplateShape, cols []appendixColumn, it AppendixItem) TableRow {
	body := func(text string, align Alignment) TableCell {
		return TableCell{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: text, Size: appendixCellSize}},
				Align: align,
			}},
			Margins: appendixMargins,
		}
	}

	row := TableRow{Cells: []TableCell{body(it.ID, AlignCenter)}}
	for i, c := range cols {
		if shape == ShapeMultiSpecVendor && i == 0 {
			row.Cells = append(row.Cells, multiSpecCell(it))
			continue
		}
		row.Cells = append(row.Cells, body(c.value(it), AlignLeft))
	}
	return row
}

// multiSpecCell nests a single-row grid of the populated sub-spec values in
// the spec column.
func multiSpecCell(it AppendixItem) TableCell {
	var cells []TableCell
	for _, v := range []string{it.Spec1, it.Spec2, it.Spec3, it.Spec4} {
		if strings.TrimSpace(v) == "" {
			continue
		}
		cells = append(cells, TableCell{
			Paragraphs: []Paragraph{{
				Runs: []StyledRun{{Text: v, Size: appendixCellSize - 2}},
			}},
			Margins: &CellMargins{Top: 20, Bottom: 20, Left: 20, Right: 20},
		})
	}
	if len(cells) == 0 {
		return TableCell{
			Paragraphs: []Paragraph{{}},
			Margins:    appendixMargins,
		}
	}
	return TableCell{
		Nested:  &Table{WidthPct: 100, Rows: []TableRow{{Cells: cells}}},
		Margins: &CellMargins{},
	}
}
