package render

import "strconv"

const (
	scheduleHeadShade   = "22D3EE"
	scheduleActiveShade = "00FF00"
)

// ScheduleYear is one year band of the work-schedule grid with its month
// column labels.
type ScheduleYear struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Months []string `json:"months"`
}

// ScheduleRow is one work stage; Active marks the scheduled months per year
// ID, indexed like the year's Months slice.
type ScheduleRow struct {
	No          int               `json:"no"`
	Description string            `json:"description"`
	Active      map[string][]bool `json:"active"`
}

// Schedule is the Gantt-style stage/month grid supplied by the caller.
type Schedule struct {
	Years []ScheduleYear `json:"years"`
	Rows  []ScheduleRow  `json:"rows"`
}

// Table renders the grid: two header rows (No and Description spanning both,
// year labels spanning their months), then one row per stage with the active
// months shaded. Missing data renders a single notice cell rather than
// nothing.
func (s *Schedule) Table() TableBlock {
	if s == nil || len(s.Years) == 0 || len(s.Rows) == 0 {
		return TableBlock{Table: &Table{Rows: []TableRow{{Cells: []TableCell{
			textCell("No data available", AlignLeft, false),
		}}}}}
	}

	totalMonths := 0
	for _, y := range s.Years {
		totalMonths += len(y.Months)
	}
	monthWidth := 0
	if totalMonths > 0 {
		monthWidth = 76 / totalMonths
	}

	headCell := func(text string, width, colSpan int, vMerge VMerge, size int) TableCell {
		return TableCell{
			Paragraphs: []Paragraph{{
				Runs:  []StyledRun{{Text: text, Bold: true, Size: size}},
				Align: AlignCenter,
			}},
			WidthPct: width,
			ColSpan:  colSpan,
			VMerge:   vMerge,
			VCenter:  true,
			Shade:    scheduleHeadShade,
		}
	}

	row1 := TableRow{Header: true}
	row1.Cells = append(row1.Cells,
		headCell("No", 4, 0, VMergeRestart, 16),
		headCell("Description", 20, 0, VMergeRestart, 16),
	)
	for _, y := range s.Years {
		row1.Cells = append(row1.Cells, headCell(y.Label, 0, len(y.Months), VMergeNone, 16))
	}

	row2 := TableRow{Header: true}
	row2.Cells = append(row2.Cells,
		headCell("", 4, 0, VMergeContinue, 16),
		headCell("", 20, 0, VMergeContinue, 16),
	)
	for _, y := range s.Years {
		for _, m := range y.Months {
			row2.Cells = append(row2.Cells, headCell(m, monthWidth, 0, VMergeNone, 12))
		}
	}

	t := &Table{WidthPct: 100, Rows: []TableRow{row1, row2}}

	for _, r := range s.Rows {
		tr := TableRow{Cells: []TableCell{
			{
				Paragraphs: []Paragraph{{
					Runs:  []StyledRun{{Text: strconv.Itoa(r.No), Size: 16}},
					Align: AlignCenter,
				}},
			},
			{
				Paragraphs: []Paragraph{{
					Runs: []StyledRun{{Text: r.Description, Size: 16}},
				}},
			},
		}}
		for _, y := range s.Years {
			active := r.Active[y.ID]
			for i := range y.Months {
				cell := TableCell{Paragraphs: []Paragraph{{}}}
				if i < len(active) && active[i] {
					cell.Shade = scheduleActiveShade
				}
				tr.Cells = append(tr.Cells, cell)
			}
		}
		t.Rows = append(t.Rows, tr)
	}

	return TableBlock{Table: t}
}
