package utils

import (
	"context"
	"log/slog"
	"regexp"
)

// redactionRule rewrites one recognizable sensitive pattern.
type redactionRule struct {
	pattern *regexp.Regexp
	replace string
}

// redactionRules is the fixed, ordered rewrite set applied to every log
// message and argument. CNIC first (full mask), then phone shapes (first 3
// and last 2 digits kept) before the broader account-number shape would
// swallow them, then account numbers (first 2 / last 2), then emails
// (first 2 of the local part plus the domain).
var redactionRules = []redactionRule{
	{regexp.MustCompile(`\b\d{5}-\d{7}-\d\b`), "XXXXX-XXXXXXX-X"},
	{regexp.MustCompile(`(\+92\d)\d{7}(\d{2})\b`), "${1}*****${2}"},
	{regexp.MustCompile(`\b(03\d)\d{6}(\d{2})\b`), "${1}*****${2}"},
	{regexp.MustCompile(`\b(\d{2})\d{4,20}(\d{2})\b`), "${1}****${2}"},
	{regexp.MustCompile(`\b([A-Za-z0-9]{2})[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`), "${1}***@${2}"},
}

// Redact scrubs recognizable sensitive patterns from text. Best-effort
// pattern matching, not a guarantee; it backs the process-wide log handler
// so no diagnostic text reaches a sink unscrubbed.
func Redact(text string) string {
	for _, rule := range redactionRules {
		text = rule.pattern.ReplaceAllString(text, rule.replace)
	}
	return text
}

// RedactingHandler wraps a slog.Handler and scrubs every message and string
// attribute before delegating. Installing it on the root logger leaves no
// bypass path.
type RedactingHandler struct {
	inner slog.Handler
}

// NewRedactingHandler wraps inner with redaction.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{inner: inner}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, Redact(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(redactAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		clean[i] = redactAttr(attr)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(clean)}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name)}
}

func redactAttr(attr slog.Attr) slog.Attr {
	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, Redact(value.String()))
	case slog.KindGroup:
		group := value.Group()
		clean := make([]any, 0, len(group))
		for _, member := range group {
			clean = append(clean, redactAttr(member))
		}
		return slog.Group(attr.Key, clean...)
	default:
		return attr
	}
}
