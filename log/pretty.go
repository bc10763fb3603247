package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty text handler. Styles come from a
// renderer bound to the output writer, so color is dropped automatically
// when the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, when lipgloss.Style
	levels                       map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		when: fg("4"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2").Bold(true),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	for _, floor := range []slog.Level{
		slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug,
	} {
		if l >= floor {
			return p.levels[floor]
		}
	}

	return p.levels[slog.Level(LevelTrace)]
}

// prettyTextHandler writes colorized key=value records.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	attrs  []slog.Attr
	prefix string
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		h.write(&buf, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.colors.level(r.Level).Render(level.Value.String()))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.write(&buf, slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.write(&buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.write(&buf, h.qualify(a))

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyTextHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyTextHandler) qualify(a slog.Attr) slog.Attr {
	a.Key = h.prefix + a.Key

	return a
}

func (h *prettyTextHandler) write(buf *bytes.Buffer, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			g.Key = a.Key + "." + g.Key
			h.write(buf, g)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.colors.key.Render(a.Key + "="))
	buf.WriteString(h.value(a.Value))
}

func (h *prettyTextHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return h.colors.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.colors.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.colors.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindDuration:
		return h.colors.num.Render(v.Duration().String())
	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")
	case slog.KindTime:
		return h.colors.when.Render(v.Time().String())
	default:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			s = strconv.Quote(s)
		}

		return h.colors.str.Render(s)
	}
}

// prettyJSONHandler writes one indented JSON object per record.
type prettyJSONHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	rec := make(map[string]any, r.NumAttrs()+len(h.attrs)+4)

	put := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			rec[a.Key] = jsonValue(a.Value)
		}
	}

	if !r.Time.IsZero() {
		put(slog.Time(slog.TimeKey, r.Time))
	}

	put(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			put(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	put(slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		put(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		put(a)

		return true
	})

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.w.Write(append(data, '\n'))

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(slices.Clip(h.attrs), attrs...)

	return &c
}

// WithGroup is not supported by the pretty JSON handler; group members are
// written at the top level.
func (h *prettyJSONHandler) WithGroup(string) slog.Handler { return h }

func jsonValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		m := make(map[string]any, len(v.Group()))
		for _, a := range v.Group() {
			m[a.Key] = jsonValue(a.Value)
		}

		return m
	case slog.KindDuration, slog.KindTime:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}

		return v.Any()
	default:
		return v.Any()
	}
}
