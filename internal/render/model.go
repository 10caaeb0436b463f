// Package render holds the assembled-document model: styled runs, blocks,
// tables and sections, plus builders for the structured tables (budget,
// schedule, signatures, appendix templates) that interleave with authored
// content. The model is pure data; serialization to OOXML lives in
// internal/docx.
package render

import "github.com/whatwouldciwdo/tor-sub000/internal/assets"

// StyledRun is a contiguous run of text sharing one combination of inline
// emphasis flags. Sequence order is presentation order. A "\n" inside Text
// renders as an in-paragraph line break.
type StyledRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string // hex RRGGBB, empty for default
	Size      int    // half-points, 0 for the document default
	Font      string // empty for the document default
}

// SameStyle reports whether two runs can be merged into one.
func (r StyledRun) SameStyle(o StyledRun) bool {
	return r.Bold == o.Bold && r.Italic == o.Italic && r.Underline == o.Underline &&
		r.Strike == o.Strike && r.Color == o.Color && r.Size == o.Size && r.Font == o.Font
}

// Alignment of a paragraph or cell content.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// Spacing is paragraph spacing in twentieths of a point. Line is the line
// height (240 = single); zero values are omitted from output.
type Spacing struct {
	Before int
	After  int
	Line   int
}

// Block is one renderable unit in a section body.
type Block interface{ block() }

// Paragraph is a run sequence with layout attributes. HangingIndent marks a
// list item: the marker outdents from wrapped continuation lines.
type Paragraph struct {
	Runs          []StyledRun
	Align         Alignment
	Spacing       Spacing
	HangingIndent bool
}

func (Paragraph) block() {}

// ImageBlock is an embedded raster asset rendered centered on its own line.
type ImageBlock struct {
	Image *assets.Image
	Alt   string
}

func (ImageBlock) block() {}

// TableBlock wraps a Table as a body block.
type TableBlock struct {
	Table *Table
}

func (TableBlock) block() {}

// VMerge is the vertical-merge role of a cell.
type VMerge int

const (
	VMergeNone VMerge = iota
	VMergeRestart
	VMergeContinue
)

// BorderKind selects a cell edge style; the zero value inherits the table
// border.
type BorderKind int

const (
	BorderInherit BorderKind = iota
	BorderNone
	BorderSingle
	BorderDashed
)

// CellBorders overrides individual cell edges.
type CellBorders struct {
	Top, Bottom, Left, Right BorderKind
}

// TableCell is one grid cell. Content is either Paragraphs or a Nested table
// (the serializer emits Nested after Paragraphs when both are set).
type TableCell struct {
	Paragraphs []Paragraph
	Nested     *Table
	WidthPct   int // percent of table width, 0 to let the grid decide
	ColSpan    int // 0 or 1 for a plain cell
	VMerge     VMerge
	Shade      string // hex fill, empty for none
	VCenter    bool
	Borders    *CellBorders
	Margins    *CellMargins
}

// CellMargins are cell padding values in twentieths of a point.
type CellMargins struct {
	Top, Bottom, Left, Right int
}

// TableRow is an ordered cell sequence. Header rows repeat across pages.
type TableRow struct {
	Cells     []TableCell
	Header    bool
	MinHeight int // twentieths of a point, 0 for automatic
}

// Table is the rich grid model used for both authored tables and the
// structured tables built by the assembler.
type Table struct {
	Rows        []TableRow
	WidthPct    int // percent of the text width; 0 means 100
	Borderless  bool
	AlignCenter bool
}

// PageMargins in twentieths of a point.
type PageMargins struct {
	Top, Right, Bottom, Left int
}

// ContentMargins is the fixed page box for proposal documents: approx 3 cm
// top/bottom, 2.75 cm right, 4 cm left.
var ContentMargins = PageMargins{Top: 1701, Right: 1558, Bottom: 1701, Left: 2268}

// PlainMargins is the uniform one-inch box used by the signature sheet.
var PlainMargins = PageMargins{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440}

// HeaderBand is the repeating branding band at the top of a section's pages.
type HeaderBand struct {
	LeftMark  *assets.Image
	RightMark *assets.Image
	Caption   string // italic caption next to the marks
	Inline    bool   // caption centered between the marks instead of below the left mark
	Rule      bool   // bottom border under the band
}

// FooterStyle selects the footer band content.
type FooterStyle int

const (
	FooterNone FooterStyle = iota
	FooterPageOf   // "Page X of Y", right-aligned
	FooterPageOnly // "Page X", centered
)

// Section is an independently paginated part of the output with its own
// margins, header/footer bands and body blocks.
type Section struct {
	Margins   PageMargins
	Header    *HeaderBand
	Footer    FooterStyle
	TitlePage bool // suppress the header band on the section's first page
	Blocks    []Block
}

// Document is the fully assembled section sequence handed to the serializer.
type Document struct {
	Sections []Section
}
