package logger

import "log/slog"

// MaxAttrLen caps string attribute values. Raw log lines routinely reach
// tens of kilobytes; anything past this length is cut and marked.
const MaxAttrLen = 512

const truncationMark = "...(truncated)"

// truncateOversized caps oversized string attributes, recursing into
// groups.
func truncateOversized(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if len(v) > MaxAttrLen {
			return slog.String(a.Key, v[:MaxAttrLen]+truncationMark)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = truncateOversized(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}
