// Package export defines the export request contract and the section
// assembler that turns one request into a serialized DOCX stream. The
// assembler renders only: totals, schedules and signatures arrive
// pre-computed and nothing is persisted between calls.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// FieldFormat selects the markup dialect of an authored fragment.
type FieldFormat string

const (
	FormatHTML     FieldFormat = "html"
	FormatMarkdown FieldFormat = "markdown"
)

// Field is one authored section of the document body, rendered in request
// order under a numbered heading.
type Field struct {
	Heading  string      `json:"heading"`
	Fragment string      `json:"fragment"`
	Format   FieldFormat `json:"format,omitempty"` // empty means html
}

// DurationUnit is the closed unit set for the implementation period.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
)

// Duration is the caller-supplied implementation period, rendered as one
// literal phrase.
type Duration struct {
	Value int          `json:"value"`
	Unit  DurationUnit `json:"unit"`
}

// Phrase renders the period as e.g. "90 days" or "1 month".
func (d Duration) Phrase() string {
	unit := string(d.Unit)
	if d.Value == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", d.Value, unit)
}

// Request is one full export order. It is consumed once and discarded; the
// service holds no state across calls.
type Request struct {
	Number       string `json:"number"`
	Title        string `json:"title"`
	CreationYear int    `json:"creation_year"`

	// CoverImage is an optional data URL for the cover illustration.
	CoverImage string `json:"cover_image,omitempty"`

	Fields     []Field            `json:"fields"`
	Duration   *Duration          `json:"duration,omitempty"`
	Schedule   *render.Schedule   `json:"schedule,omitempty"`
	Budget     *render.Budget     `json:"budget,omitempty"`
	Signatures []render.Signature `json:"signatures,omitempty"`
	Appendices []render.Appendix  `json:"appendices,omitempty"`
}

func (r *Request) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	for i, f := range r.Fields {
		switch f.Format {
		case "", FormatHTML, FormatMarkdown:
		default:
			return fmt.Errorf("field %d: unknown format %q", i, f.Format)
		}
	}
	if r.Duration != nil {
		switch r.Duration.Unit {
		case UnitDays, UnitWeeks, UnitMonths:
		default:
			return fmt.Errorf("duration: unknown unit %q", r.Duration.Unit)
		}
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename derives the download name from the document number, falling back
// to the title.
func (r *Request) Filename() string {
	base := r.Number
	if base == "" {
		base = r.Title
	}
	base = unsafeFilename.ReplaceAllString(strings.TrimSpace(base), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "document"
	}
	return base + ".docx"
}
