package markup

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// CounterStyle is the enumeration scheme for ordered-list item markers.
type CounterStyle int

const (
	Decimal CounterStyle = iota
	LowerAlpha
	UpperAlpha
	LowerRoman
	UpperRoman
)

func (c CounterStyle) String() string {
	switch c {
	case LowerAlpha:
		return "lower-alpha"
	case UpperAlpha:
		return "upper-alpha"
	case LowerRoman:
		return "lower-roman"
	case UpperRoman:
		return "upper-roman"
	}
	return "decimal"
}

func counterStyleFrom(name string) CounterStyle {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "lower-alpha", "lower-latin":
		return LowerAlpha
	case "upper-alpha", "upper-latin":
		return UpperAlpha
	case "lower-roman":
		return LowerRoman
	case "upper-roman":
		return UpperRoman
	}
	return Decimal
}

// Bullet is the fixed marker prefixed to unordered-list items.
const Bullet = "• "

var romanValues = []struct {
	value   int
	numeral string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int) string {
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			b.WriteString(rv.numeral)
			n -= rv.value
		}
	}
	return b.String()
}

// Marker renders the counter for a 1-based item position. Alphabetic styles
// are defined only through position 26; beyond that the second return is
// false and the marker is a visible placeholder rather than an invented
// wrap-around.
func Marker(style CounterStyle, i int) (string, bool) {
	switch style {
	case LowerAlpha, UpperAlpha:
		if i < 1 || i > 26 {
			return "?. ", false
		}
		base := byte('a')
		if style == UpperAlpha {
			base = 'A'
		}
		return string(base+byte(i-1)) + ". ", true
	case LowerRoman:
		return strings.ToLower(toRoman(i)) + ". ", true
	case UpperRoman:
		return toRoman(i) + ". ", true
	default:
		return strconv.Itoa(i) + ". ", true
	}
}

// listStyle extracts the declared counter style from an <ol> start tag,
// checking data-list-style, an inline list-style-type declaration, then a
// list-style-<x> class. Unrecognized or absent declarations mean Decimal.
func listStyle(span BlockSpan) CounterStyle {
	tz := html.NewTokenizer(strings.NewReader(span.Raw))
	if tt := tz.Next(); tt != html.StartTagToken && tt != html.SelfClosingTagToken {
		return Decimal
	}
	attrs := map[string]string{}
	for {
		key, val, more := tz.TagAttr()
		attrs[string(key)] = string(val)
		if !more {
			break
		}
	}
	if v, ok := attrs["data-list-style"]; ok && v != "" {
		return counterStyleFrom(v)
	}
	if style, ok := attrs["style"]; ok {
		for _, decl := range strings.Split(style, ";") {
			k, v, found := strings.Cut(decl, ":")
			if found && strings.TrimSpace(strings.ToLower(k)) == "list-style-type" {
				return counterStyleFrom(v)
			}
		}
	}
	if class, ok := attrs["class"]; ok {
		for _, c := range strings.Fields(class) {
			if rest, found := strings.CutPrefix(c, "list-style-"); found {
				return counterStyleFrom(rest)
			}
		}
	}
	return Decimal
}

// listItems returns the raw inner content of each direct <li> child of the
// list span, in document order. Nested lists stay inside their item's raw
// content and are flattened by the inline decoder.
func listItems(span BlockSpan) []string {
	tz := html.NewTokenizer(strings.NewReader(span.Raw))

	var items []string
	depth := 0     // nesting of lists below the one we are iterating
	itemStart := -1
	seenRoot := false
	offset := 0

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
		case "ol", "ul":
			if tt == html.StartTagToken {
				if !seenRoot {
					seenRoot = true
				} else {
					depth++
				}
			} else if depth > 0 {
				depth--
			}
		case "li":
			if depth != 0 {
				continue
			}
			if tt == html.StartTagToken {
				if itemStart >= 0 {
					// previous item never closed; end it here
					items = append(items, span.Raw[itemStart:tokStart])
				}
				itemStart = offset
			} else if itemStart >= 0 {
				items = append(items, span.Raw[itemStart:tokStart])
				itemStart = -1
			}
		}
	}
	if itemStart >= 0 {
		items = append(items, span.Raw[itemStart:])
	}
	return items
}

// RenderList expands a list span into one paragraph per item. Each paragraph
// starts with a plain marker run and hangs its continuation lines past the
// marker.
func RenderList(span BlockSpan, log *slog.Logger) []render.Block {
	style := Decimal
	if span.Kind == KindOrderedList {
		style = listStyle(span)
	}

	var blocks []render.Block
	for i, item := range listItems(span) {
		runs := DecodeRuns(item)
		if blank(runs) {
			continue
		}

		marker := Bullet
		if span.Kind == KindOrderedList {
			var ok bool
			marker, ok = Marker(style, i+1)
			if !ok {
				log.Warn("list marker position exceeds alphabetic range",
					"style", style.String(), "position", i+1)
			}
		}

		blocks = append(blocks, render.Paragraph{
			Runs:          append([]render.StyledRun{{Text: marker}}, runs...),
			Align:         render.AlignJustify,
			Spacing:       render.Spacing{Line: 360, After: 100},
			HangingIndent: true,
		})
	}
	return blocks
}
