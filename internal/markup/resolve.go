package markup

import "log/slog"

// Resolve classifies sorted spans as top-level or suppressed and returns the
// top-level spans in document order. A span is suppressed when its byte range
// is fully contained in an earlier top-level container span (list or table),
// since the container renders it itself. Images and tables are never
// suppressed: losing an embedded asset is worse than a layout inconsistency.
//
// Spans that partially overlap a container violate the nesting invariant;
// they are kept top-level and logged as a data-quality warning rather than
// dropped.
func Resolve(spans []BlockSpan, log *slog.Logger) []BlockSpan {
	var top []BlockSpan
	var active []BlockSpan // top-level containers currently covering the scan position

	for _, s := range spans {
		for len(active) > 0 && active[len(active)-1].End <= s.Start {
			active = active[:len(active)-1]
		}

		if len(active) > 0 {
			outer := active[len(active)-1]
			switch {
			case s.End <= outer.End:
				// fully contained
				if s.Kind == KindImage || s.Kind == KindTable {
					top = append(top, s)
					if s.Container() {
						active = append(active, s)
					}
					continue
				}
				log.Debug("suppressed nested span",
					"kind", s.Kind.String(), "start", s.Start, "end", s.End)
				continue
			case s.Start < outer.End:
				log.Warn("malformed markup: partially overlapping spans",
					"kind", s.Kind.String(),
					"start", s.Start, "end", s.End,
					"container_end", outer.End)
			}
		}

		top = append(top, s)
		if s.Container() {
			active = append(active, s)
		}
	}
	return top
}
