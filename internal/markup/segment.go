// Package markup locates and decodes the rich-text constructs produced by
// the authoring editor: paragraphs, ordered/unordered lists, tables and
// embedded images, with inline emphasis markup inside text nodes. Fragments
// are segmented into byte spans, classified top-level or suppressed, and
// rendered into the block model from internal/render.
package markup

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// BlockKind identifies a discovered top-level construct.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindOrderedList
	KindUnorderedList
	KindImage
	KindTable
)

func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindOrderedList:
		return "ordered-list"
	case KindUnorderedList:
		return "unordered-list"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// BlockSpan is a located construct with its byte range in the source
// fragment. Raw is the slice fragment[Start:End] including the delimiting
// tags.
type BlockSpan struct {
	Kind  BlockKind
	Start int
	End   int
	Raw   string
}

// Container reports whether the kind may own nested spans that should be
// suppressed at the top level.
func (s BlockSpan) Container() bool {
	switch s.Kind {
	case KindOrderedList, KindUnorderedList, KindTable:
		return true
	}
	return false
}

var blockTags = map[string]BlockKind{
	"p":      KindParagraph,
	"ol":     KindOrderedList,
	"ul":     KindUnorderedList,
	"table":  KindTable,
	"figure": KindImage,
}

// Segment scans a fragment and returns every block construct it contains,
// regardless of nesting depth, sorted by start offset (outer span first on a
// tie). A fragment with no discoverable construct yields a single synthetic
// empty-paragraph span so blank fields still occupy layout space.
func Segment(fragment string) []BlockSpan {
	tz := html.NewTokenizer(strings.NewReader(fragment))

	// one open-tag stack per construct tag; unclosed tags at EOF are dropped
	open := make(map[string][]int)
	var spans []BlockSpan
	var figures []BlockSpan

	offset := 0
	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		tokStart := offset
		offset += len(tz.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tz.TagName()
			tag := string(name)
			if tag == "img" {
				spans = append(spans, BlockSpan{
					Kind:  KindImage,
					Start: tokStart,
					End:   offset,
					Raw:   fragment[tokStart:offset],
				})
				continue
			}
			if _, ok := blockTags[tag]; ok && tt == html.StartTagToken {
				open[tag] = append(open[tag], tokStart)
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			tag := string(name)
			stack := open[tag]
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			open[tag] = stack[:len(stack)-1]
			span := BlockSpan{
				Kind:  blockTags[tag],
				Start: start,
				End:   offset,
				Raw:   fragment[start:offset],
			}
			if tag == "figure" {
				figures = append(figures, span)
			}
			spans = append(spans, span)
		}
	}

	// A figure owns its inner <img>; drop the bare img span so the asset is
	// not rendered twice.
	if len(figures) > 0 {
		kept := spans[:0]
		for _, s := range spans {
			if s.Kind == KindImage && !strings.HasPrefix(s.Raw, "<figure") && insideAny(s, figures) {
				continue
			}
			kept = append(kept, s)
		}
		spans = kept
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})

	if len(spans) == 0 {
		return []BlockSpan{{Kind: KindParagraph}}
	}
	return spans
}

func insideAny(s BlockSpan, owners []BlockSpan) bool {
	for _, o := range owners {
		if s.Start >= o.Start && s.End <= o.End && !(s.Start == o.Start && s.End == o.End) {
			return true
		}
	}
	return false
}
