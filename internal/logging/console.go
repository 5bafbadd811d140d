package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "15:04:05"

// consoleHandler renders one human-readable line per record:
//
//	15:04:05 INFO [notes] note submitted tag_count=3
//
// The component attribute becomes the bracketed prefix. Attributes added
// through WithAttrs are rendered once and reused for every record.
type consoleHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	addSource bool

	component string
	groups    string
	fixed     []byte
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	component := h.component
	var attrs []byte
	r.Attrs(func(a slog.Attr) bool {
		if h.groups == "" && a.Key == FieldComponent {
			if component == "" {
				component = a.Value.Resolve().String()
			}
			return true
		}
		attrs = appendConsoleAttr(attrs, h.groups, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := make([]byte, 0, 64+len(r.Message)+len(h.fixed)+len(attrs))
	line = ts.Local().AppendFormat(line, consoleTimeLayout)
	line = append(line, ' ')
	line = append(line, r.Level.String()...)
	line = append(line, ' ')
	if component != "" {
		line = append(line, '[')
		line = append(line, component...)
		line = append(line, "] "...)
	}
	line = append(line, r.Message...)
	if h.addSource {
		if src := r.Source(); src != nil && src.File != "" {
			line = append(line, " ("...)
			line = append(line, filepath.Base(src.File)...)
			line = append(line, ':')
			line = strconv.AppendInt(line, int64(src.Line), 10)
			line = append(line, ')')
		}
	}
	line = append(line, h.fixed...)
	line = append(line, attrs...)
	line = append(line, '\n')
	return h.out.write(line)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.fixed = append([]byte(nil), h.fixed...)
	for _, a := range attrs {
		if h.groups == "" && a.Key == FieldComponent {
			if next.component == "" {
				next.component = a.Value.Resolve().String()
			}
			continue
		}
		next.fixed = appendConsoleAttr(next.fixed, h.groups, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = h.groups + name + "."
	return &next
}

// appendConsoleAttr writes " key=value", flattening groups into dotted keys.
func appendConsoleAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, member := range a.Value.Group() {
			buf = appendConsoleAttr(buf, inner, member)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendConsoleValue(buf, a.Value)
}

func appendConsoleValue(buf []byte, v slog.Value) []byte {
	var text string
	switch v.Kind() {
	case slog.KindTime:
		text = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			text = err.Error()
		} else {
			text = fmt.Sprint(v.Any())
		}
	default:
		text = v.String()
	}
	if text == "" || strings.ContainsFunc(text, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.AppendQuote(buf, text)
	}
	return append(buf, text...)
}
