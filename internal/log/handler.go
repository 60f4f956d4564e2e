package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys are attribute keys whose values are never written.
var sensitiveKeys = map[string]bool{
	"cookie":              true,
	"set-cookie":          true,
	"authorization":       true,
	"proxy-authorization": true,
	"session":             true,
	"asp.net_sessionid":   true,
}

// viewStatePattern matches serialized ASP.NET view state values.
var viewStatePattern = regexp.MustCompile(`^/wE[A-Za-z0-9+/]{16,}={0,2}$`)

// MaskValue is the string used to replace redacted values.
const MaskValue = "***REDACTED***"

// DefaultMaxValueLen is the longest string value logged verbatim.
const DefaultMaxValueLen = 256

// RedactingHandler wraps an slog.Handler and rewrites attributes before they
// reach it: ASP.NET state fields (keys starting with "__") and cookies are
// masked, view-state-looking values are masked whatever their key, and long
// strings are truncated.
type RedactingHandler struct {
	handler     slog.Handler
	maxValueLen int
}

// NewRedactingHandler wraps handler. If handler is nil, the default logger's
// handler is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler, maxValueLen: DefaultMaxValueLen}
}

// Enabled delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes redacted and added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(out), maxValueLen: h.maxValueLen}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name), maxValueLen: h.maxValueLen}
}

func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = h.redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if viewStatePattern.MatchString(s) {
		return slog.String(a.Key, MaskValue)
	}
	if h.maxValueLen > 0 && len(s) > h.maxValueLen {
		return slog.String(a.Key, truncate(s, h.maxValueLen))
	}
	return a
}

// isSensitiveKey reports whether values under key must be masked.
// Keys beginning with "__" are ASP.NET hidden state fields.
func isSensitiveKey(key string) bool {
	if strings.HasPrefix(key, "__") {
		return true
	}
	return sensitiveKeys[strings.ToLower(key)]
}

func truncate(s string, n int) string {
	cut := n
	// back off to a rune boundary
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...(%d bytes)", s[:cut], len(s))
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// NewLogger creates a text logger at the given level that redacts form state.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a JSON logger at the given level that redacts form state.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, opts)))
}

// LevelFromFlags maps the -d/-v command line switches onto a level.
// Debug wins over verbose; with neither, only warnings and errors are shown.
func LevelFromFlags(debug, verbose bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
