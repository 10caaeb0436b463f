package markup

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/whatwouldciwdo/tor-sub000/internal/assets"
	"github.com/whatwouldciwdo/tor-sub000/internal/render"
)

const (
	captionColor     = "666666"
	captionHalfPoint = 18
)

type imgRef struct {
	src     string
	alt     string
	width   int
	height  int
	caption string
}

// parseImage pulls the <img> attributes (and figcaption, for figure spans)
// out of an image span.
func parseImage(span BlockSpan) imgRef {
	ref := imgRef{alt: "Image"}
	tz := html.NewTokenizer(strings.NewReader(span.Raw))
	capStart := -1
	offset := 0
	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		tokStart := offset
		offset += len(tz.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken && tt != html.EndTagToken {
			continue
		}
		name, hasAttr := tz.TagName()
		switch string(name) {
		case "img":
			if tt == html.EndTagToken {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tz.TagAttr()
				switch string(key) {
				case "src":
					ref.src = string(val)
				case "alt":
					if v := string(val); v != "" {
						ref.alt = v
					}
				case "width":
					ref.width, _ = strconv.Atoi(string(val))
				case "height":
					ref.height, _ = strconv.Atoi(string(val))
				}
			}
		case "figcaption":
			if tt == html.StartTagToken {
				capStart = offset
			} else if capStart >= 0 {
				ref.caption = PlainText(span.Raw[capStart:tokStart])
				capStart = -1
			}
		}
	}
	return ref
}

// RenderImage resolves an image span to an embedded asset block, or to a
// centered italic placeholder paragraph when the reference cannot be
// resolved. A figure's caption follows as its own paragraph. Resolution
// failure never aborts the export.
func RenderImage(span BlockSpan, log *slog.Logger) []render.Block {
	ref := parseImage(span)

	var blocks []render.Block
	img, err := assets.DecodeDataURL(ref.src, ref.width, ref.height)
	if err != nil {
		reason := "external reference unsupported"
		if err != assets.ErrExternalReference {
			reason = err.Error()
		}
		log.Warn("image not embedded", "alt", ref.alt, "reason", reason)
		blocks = append(blocks, placeholderParagraph(ref.alt, reason))
	} else {
		blocks = append(blocks, render.ImageBlock{Image: img, Alt: ref.alt})
	}

	if ref.caption != "" {
		blocks = append(blocks, render.Paragraph{
			Runs: []render.StyledRun{{
				Text:   ref.caption,
				Italic: true,
				Color:  captionColor,
				Size:   captionHalfPoint,
			}},
			Align:   render.AlignCenter,
			Spacing: render.Spacing{After: 200},
		})
	}
	return blocks
}

// placeholderParagraph is the substitute for an asset that failed to
// resolve: centered, italic, carrying the alt text and a human-readable
// reason.
func placeholderParagraph(alt, reason string) render.Paragraph {
	return render.Paragraph{
		Runs: []render.StyledRun{{
			Text:   "[Image: " + alt + " (" + reason + ")]",
			Italic: true,
			Color:  captionColor,
		}},
		Align:   render.AlignCenter,
		Spacing: render.Spacing{Before: 200, After: 200},
	}
}
