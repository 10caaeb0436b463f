package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

// DecodeRuns converts the raw text of a block into an ordered styled-run
// sequence. Emphasis tags toggle independent flags; character entities are
// decoded; unknown tags are stripped without altering flag state. A block
// whose decoded text is empty still yields a single empty run so blank
// paragraphs keep their vertical space.
func DecodeRuns(raw string) []render.StyledRun {
	tz := html.NewTokenizer(strings.NewReader(raw))

	var runs []render.StyledRun
	var bold, italic, underline, strike bool

	emit := func(text string) {
		if text == "" {
			return
		}
		r := render.StyledRun{Text: text, Bold: bold, Italic: italic, Underline: underline, Strike: strike}
		if n := len(runs); n > 0 && runs[n-1].SameStyle(r) {
			runs[n-1].Text += text
			return
		}
		runs = append(runs, r)
	}

	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			text := strings.ReplaceAll(string(tz.Text()), " ", " ")
			if strings.TrimSpace(text) == "" {
				continue
			}
			emit(text)
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tz.TagName()
			on := tt == html.StartTagToken
			switch string(name) {
			case "b", "strong":
				bold = on
			case "i", "em":
				italic = on
			case "u":
				underline = on
			case "s", "strike", "del":
				strike = on
			case "br":
				emit("\n")
			}
		}
	}

	if blank(runs) {
		return []render.StyledRun{{}}
	}
	return runs
}

// blank reports whether the run sequence carries no visible text.
func blank(runs []render.StyledRun) bool {
	for _, r := range runs {
		if strings.TrimSpace(strings.ReplaceAll(r.Text, "\n", "")) != "" {
			return false
		}
	}
	return true
}

// PlainText flattens decoded runs to their bare text, dropping markup and
// style. Used for table cells and captions.
func PlainText(raw string) string {
	var b strings.Builder
	for _, r := range DecodeRuns(raw) {
		b.WriteString(r.Text)
	}
	return strings.TrimSpace(b.String())
}
